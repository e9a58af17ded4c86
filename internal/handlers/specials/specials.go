package specials

import (
	"net/http"
	"strconv"

	"crema_back_end/internal/cache"
	"crema_back_end/internal/database"
	"crema_back_end/internal/models"
	"crema_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

type Handler struct {
	Cache *cache.Cache
}

func NewHandler(c *cache.Cache) *Handler {
	return &Handler{Cache: c}
}

//
// 🟢 GET /api/specials
//
func (h *Handler) GetSpecials(c *gin.Context) {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT special_id, item_name, description, price, image_url FROM specials`).Iter()

	specials := []models.Special{}
	var s models.Special
	for iter.Scan(&s.ID, &s.ItemName, &s.Description, &s.Price, &s.ImageURL) {
		specials = append(specials, s)
		s = models.Special{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture plats du jour"})
		return
	}

	c.JSON(http.StatusOK, specials)
}

func parseSpecialForm(c *gin.Context) (models.Special, bool) {
	var s models.Special

	s.ItemName = c.PostForm("item_name")
	s.Description = c.PostForm("description")
	s.ImageURL = c.PostForm("image_url")

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
		return s, false
	}
	s.Price = price

	if s.ItemName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ item_name est obligatoire"})
		return s, false
	}

	return s, true
}

//
// 🟠 POST /api/admin/specials (admin)
//
func (h *Handler) Create(c *gin.Context) {
	s, ok := parseSpecialForm(c)
	if !ok {
		return
	}

	if file, err := c.FormFile("image"); err == nil {
		url, err := services.UploadImage("specials", file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
			return
		}
		s.ImageURL = url
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	s.ID = gocql.TimeUUID()

	if err := session.Query(`INSERT INTO specials (special_id, item_name, description, price, image_url)
		VALUES (?, ?, ?, ?, ?)`, s.ID, s.ItemName, s.Description, s.Price, s.ImageURL).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création plat du jour"})
		return
	}

	// ♻️ Écriture catalogue → invalidation des caches de lecture
	_ = h.Cache.Invalidate(c.Request.Context(), cache.CatalogKeys...)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Plat du jour ajouté avec succès",
		"special": s,
	})
}

//
// 🟠 PUT /api/admin/specials/:id (admin)
//
func (h *Handler) Update(c *gin.Context) {
	specialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	s, ok := parseSpecialForm(c)
	if !ok {
		return
	}
	s.ID = gocql.UUID(specialID)

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existingImage string
	if err := session.Query(`SELECT image_url FROM specials WHERE special_id = ?`, s.ID).
		Scan(&existingImage); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat du jour introuvable"})
		return
	}

	if file, err := c.FormFile("image"); err == nil {
		url, err := services.UploadImage("specials", file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
			return
		}
		s.ImageURL = url
	} else if s.ImageURL == "" {
		s.ImageURL = existingImage
	}

	if err := session.Query(`UPDATE specials SET item_name = ?, description = ?, price = ?, image_url = ?
		WHERE special_id = ?`, s.ItemName, s.Description, s.Price, s.ImageURL, s.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour plat du jour"})
		return
	}

	_ = h.Cache.Invalidate(c.Request.Context(), cache.CatalogKeys...)

	c.JSON(http.StatusOK, gin.H{"message": "Plat du jour mis à jour avec succès"})
}

//
// ❌ DELETE /api/admin/specials/:id (admin)
//
func (h *Handler) Delete(c *gin.Context) {
	specialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM specials WHERE special_id = ?`, gocql.UUID(specialID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression plat du jour"})
		return
	}

	_ = h.Cache.Invalidate(c.Request.Context(), cache.CatalogKeys...)

	c.JSON(http.StatusOK, gin.H{"message": "Plat du jour supprimé avec succès"})
}
