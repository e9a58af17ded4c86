package menu

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"crema_back_end/internal/cache"
	"crema_back_end/internal/database"
	"crema_back_end/internal/models"
	"crema_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Handler porte le cache de lecture injecté : les lectures passent par
// GetOrPopulate, chaque écriture invalide les trois clés catalogue.
type Handler struct {
	Cache *cache.Cache
}

func NewHandler(c *cache.Cache) *Handler {
	return &Handler{Cache: c}
}

// scanMenuItems lit tout le menu depuis ScyllaDB, trié catégorie puis nom
func scanMenuItems() ([]models.MenuItem, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT item_id, name, description, price, category, type, image_url,
		is_bestseller, is_spicy, has_gluten, is_hot FROM menu_items`).Iter()

	items := []models.MenuItem{}
	var item models.MenuItem

	for iter.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.Type,
		&item.ImageURL, &item.IsBestseller, &item.IsSpicy, &item.HasGluten, &item.IsHot) {
		items = append(items, item)
		item = models.MenuItem{} // Reset pour la prochaine itération
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})

	return items, nil
}

//
// 🟢 GET /api/menu (caché 5 minutes)
//
func (h *Handler) GetMenu(c *gin.Context) {
	data, err := h.Cache.GetOrPopulate(c.Request.Context(), cache.KeyMenu, cache.CatalogTTL,
		func(ctx context.Context) ([]byte, error) {
			items, err := scanMenuItems()
			if err != nil {
				return nil, err
			}
			return json.Marshal(items)
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture menu"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

//
// 🟢 GET /api/menu/categories (caché 5 minutes)
//
func (h *Handler) GetCategories(c *gin.Context) {
	data, err := h.Cache.GetOrPopulate(c.Request.Context(), cache.KeyCategories, cache.CatalogTTL,
		func(ctx context.Context) ([]byte, error) {
			items, err := scanMenuItems()
			if err != nil {
				return nil, err
			}

			seen := map[string]bool{}
			categories := []string{}
			for _, item := range items {
				if !seen[item.Category] {
					seen[item.Category] = true
					categories = append(categories, item.Category)
				}
			}
			sort.Strings(categories)

			return json.Marshal(categories)
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

//
// 🟢 GET /api/menu/bestsellers (caché 5 minutes)
//
func (h *Handler) GetBestsellers(c *gin.Context) {
	data, err := h.Cache.GetOrPopulate(c.Request.Context(), cache.KeyBestsellers, cache.CatalogTTL,
		func(ctx context.Context) ([]byte, error) {
			items, err := scanMenuItems()
			if err != nil {
				return nil, err
			}

			bestsellers := []models.MenuItem{}
			for _, item := range items {
				if item.IsBestseller {
					bestsellers = append(bestsellers, item)
				}
			}

			return json.Marshal(bestsellers)
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture bestsellers"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

//
// 🟢 GET /api/menu/category/:category
//
func (h *Handler) GetByCategory(c *gin.Context) {
	category := c.Param("category")

	items, err := scanMenuItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture menu"})
		return
	}

	filtered := []models.MenuItem{}
	for _, item := range items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}

	c.JSON(http.StatusOK, filtered)
}

//
// 🟢 GET /api/menu/type/:type
//
func (h *Handler) GetByType(c *gin.Context) {
	itemType := c.Param("type")

	items, err := scanMenuItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture menu"})
		return
	}

	filtered := []models.MenuItem{}
	for _, item := range items {
		if item.Type == itemType {
			filtered = append(filtered, item)
		}
	}

	c.JSON(http.StatusOK, filtered)
}

//
// 🟢 GET /api/menu/item/:id
//
func (h *Handler) GetItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var item models.MenuItem
	err = session.Query(`SELECT item_id, name, description, price, category, type, image_url,
		is_bestseller, is_spicy, has_gluten, is_hot FROM menu_items WHERE item_id = ?`, gocql.UUID(itemID)).
		Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.Type,
			&item.ImageURL, &item.IsBestseller, &item.IsSpicy, &item.HasGluten, &item.IsHot)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}

	c.JSON(http.StatusOK, item)
}

//
// 🔍 GET /api/menu/search?q=
//
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre 'q' manquant"})
		return
	}

	items, err := services.SearchMenu(query)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recherche indisponible"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// parseItemForm lit les champs multipart communs à la création et la mise à jour
func parseItemForm(c *gin.Context) (models.MenuItem, bool) {
	var item models.MenuItem

	item.Name = c.PostForm("name")
	item.Description = c.PostForm("description")
	item.Category = c.PostForm("category")
	item.Type = c.PostForm("type")

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
		return item, false
	}
	item.Price = price

	if item.Name == "" || item.Category == "" || item.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs name, price, category et type sont obligatoires"})
		return item, false
	}

	item.IsBestseller = c.PostForm("is_bestseller") == "true"
	item.IsSpicy = c.PostForm("is_spicy") == "true"
	item.HasGluten = c.PostForm("has_gluten") == "true"
	item.IsHot = c.PostForm("is_hot") == "true"
	item.ImageURL = c.PostForm("image_url")

	return item, true
}

//
// 🟠 POST /api/menu (admin)
//
func (h *Handler) Create(c *gin.Context) {
	item, ok := parseItemForm(c)
	if !ok {
		return
	}

	// 🖼️ Upload de l'image si fournie
	if file, err := c.FormFile("image"); err == nil {
		url, err := services.UploadImage("menu", file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
			return
		}
		item.ImageURL = url
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	item.ID = gocql.TimeUUID()

	if err := session.Query(`INSERT INTO menu_items (item_id, name, description, price, category, type, image_url,
		is_bestseller, is_spicy, has_gluten, is_hot) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Description, item.Price, item.Category, item.Type, item.ImageURL,
		item.IsBestseller, item.IsSpicy, item.HasGluten, item.IsHot).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création plat"})
		return
	}

	// ♻️ Toute écriture catalogue invalide les trois caches
	_ = h.Cache.Invalidate(c.Request.Context(), cache.CatalogKeys...)

	// 🔄 Indexation Elasticsearch
	go services.IndexMenuItem(item)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Plat ajouté avec succès",
		"item":    item,
	})
}

//
// 🟠 PUT /api/menu/item/:id (admin)
//
func (h *Handler) Update(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	item, ok := parseItemForm(c)
	if !ok {
		return
	}
	item.ID = gocql.UUID(itemID)

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Conserver l'ancienne image si aucune nouvelle n'est fournie
	var existingImage string
	if err := session.Query(`SELECT image_url FROM menu_items WHERE item_id = ?`, item.ID).
		Scan(&existingImage); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}

	if file, err := c.FormFile("image"); err == nil {
		url, err := services.UploadImage("menu", file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
			return
		}
		item.ImageURL = url
	} else if item.ImageURL == "" {
		item.ImageURL = existingImage
	}

	if err := session.Query(`UPDATE menu_items SET name = ?, description = ?, price = ?, category = ?, type = ?,
		image_url = ?, is_bestseller = ?, is_spicy = ?, has_gluten = ?, is_hot = ? WHERE item_id = ?`,
		item.Name, item.Description, item.Price, item.Category, item.Type, item.ImageURL,
		item.IsBestseller, item.IsSpicy, item.HasGluten, item.IsHot, item.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour plat"})
		return
	}

	_ = h.Cache.Invalidate(c.Request.Context(), cache.CatalogKeys...)

	go services.IndexMenuItem(item)

	c.JSON(http.StatusOK, gin.H{"message": "Plat mis à jour avec succès"})
}

//
// ❌ DELETE /api/menu/item/:id (admin)
//
func (h *Handler) Delete(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Vérifier que le plat existe avant de supprimer
	var name string
	if err := session.Query(`SELECT name FROM menu_items WHERE item_id = ?`, gocql.UUID(itemID)).
		Scan(&name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}

	if err := session.Query(`DELETE FROM menu_items WHERE item_id = ?`, gocql.UUID(itemID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression plat"})
		return
	}

	_ = h.Cache.Invalidate(c.Request.Context(), cache.CatalogKeys...)

	go services.RemoveMenuItem(itemID.String())

	c.JSON(http.StatusOK, gin.H{"message": "Plat supprimé avec succès"})
}

//
// 🧹 POST /api/menu/clear-cache (admin)
//
func (h *Handler) ClearCache(c *gin.Context) {
	if err := h.Cache.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vidage du cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cache vidé avec succès"})
}
