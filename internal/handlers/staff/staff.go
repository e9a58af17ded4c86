package staff

import (
	"net/http"

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
// 🟢 GET /api/staff
//
func (h *Handler) GetStaff(c *gin.Context) {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT staff_id, name, position, photo_url FROM staff`).Iter()

	members := []models.StaffMember{}
	var m models.StaffMember
	for iter.Scan(&m.ID, &m.Name, &m.Position, &m.PhotoURL) {
		members = append(members, m)
		m = models.StaffMember{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture équipe"})
		return
	}

	c.JSON(http.StatusOK, members)
}

//
// 🟠 POST /api/admin/staff (admin)
//
func (h *Handler) Create(c *gin.Context) {
	var m models.StaffMember
	m.Name = c.PostForm("name")
	m.Position = c.PostForm("position")
	m.PhotoURL = c.PostForm("photo_url")

	if m.Name == "" || m.Position == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs name et position sont obligatoires"})
		return
	}

	if file, err := c.FormFile("photo"); err == nil {
		url, err := services.UploadImage("staff", file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload photo"})
			return
		}
		m.PhotoURL = url
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	m.ID = gocql.TimeUUID()

	if err := session.Query(`INSERT INTO staff (staff_id, name, position, photo_url) VALUES (?, ?, ?, ?)`,
		m.ID, m.Name, m.Position, m.PhotoURL).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création membre équipe"})
		return
	}

	_ = h.Cache.Invalidate(c.Request.Context(), cache.CatalogKeys...)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Membre de l'équipe ajouté avec succès",
		"staff":   m,
	})
}

//
// 🟠 PUT /api/admin/staff/:id (admin)
//
func (h *Handler) Update(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	var m models.StaffMember
	m.ID = gocql.UUID(staffID)
	m.Name = c.PostForm("name")
	m.Position = c.PostForm("position")
	m.PhotoURL = c.PostForm("photo_url")

	if m.Name == "" || m.Position == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs name et position sont obligatoires"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existingPhoto string
	if err := session.Query(`SELECT photo_url FROM staff WHERE staff_id = ?`, m.ID).
		Scan(&existingPhoto); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membre de l'équipe introuvable"})
		return
	}

	if file, err := c.FormFile("photo"); err == nil {
		url, err := services.UploadImage("staff", file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload photo"})
			return
		}
		m.PhotoURL = url
	} else if m.PhotoURL == "" {
		m.PhotoURL = existingPhoto
	}

	if err := session.Query(`UPDATE staff SET name = ?, position = ?, photo_url = ? WHERE staff_id = ?`,
		m.Name, m.Position, m.PhotoURL, m.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour membre équipe"})
		return
	}

	_ = h.Cache.Invalidate(c.Request.Context(), cache.CatalogKeys...)

	c.JSON(http.StatusOK, gin.H{"message": "Membre de l'équipe mis à jour avec succès"})
}

//
// ❌ DELETE /api/admin/staff/:id (admin)
//
func (h *Handler) Delete(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM staff WHERE staff_id = ?`, gocql.UUID(staffID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression membre équipe"})
		return
	}

	_ = h.Cache.Invalidate(c.Request.Context(), cache.CatalogKeys...)

	c.JSON(http.StatusOK, gin.H{"message": "Membre de l'équipe supprimé avec succès"})
}
