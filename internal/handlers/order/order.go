package order

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"crema_back_end/internal/database"
	"crema_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// Durée de rétention des clés d'idempotence (X-Request-ID)
const idempotencyTTL = 24 * time.Hour

// Handler porte la stratégie de vérification du total injectée au démarrage.
type Handler struct {
	TotalPolicy TotalPolicy
}

func NewHandler(policy TotalPolicy) *Handler {
	return &Handler{TotalPolicy: policy}
}

//
// 🟢 POST /api/orders
//
// Crée la commande en statut "pending". Le paiement est une étape séparée :
// aucune transaction ne couvre les deux écritures (un crash entre les deux
// laisse la commande en pending, c'est assumé).
func (h *Handler) PlaceOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var input struct {
		UserID     string             `json:"user_id"`
		OrderItems []models.OrderItem `json:"order_items"`
		TotalPrice float64            `json:"total_price"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if len(input.OrderItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La commande ne contient aucune ligne"})
		return
	}

	ctx := c.Request.Context()

	// ♻️ Rejouer la réponse si ce X-Request-ID a déjà créé une commande
	requestID := c.GetHeader("X-Request-ID")
	idemKey := "idem:order:" + requestID
	if requestID != "" {
		if existing, err := database.Redis.Get(ctx, idemKey).Result(); err == nil && existing != "" {
			c.JSON(http.StatusCreated, gin.H{
				"message": "Commande déjà enregistrée",
				"orderId": existing,
			})
			return
		}
	}

	// Vérification du total selon la stratégie configurée
	if err := h.TotalPolicy.Verify(ctx, input.OrderItems, input.TotalPrice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	itemsJSON, err := json.Marshal(input.OrderItems)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur encodage commande"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	orderID := gocql.TimeUUID()
	orderDate := time.Now()

	if err := session.Query(`INSERT INTO orders_by_user (user_id, order_date, order_id, items, total_price, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, orderDate, orderID, string(itemsJSON), input.TotalPrice, models.OrderStatusPending).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}

	// Table de correspondance pour les lectures par identifiant
	if err := session.Query(`INSERT INTO orders_by_id (order_id, user_id, order_date, items, total_price, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		orderID, userID, orderDate, string(itemsJSON), input.TotalPrice, models.OrderStatusPending).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}

	if requestID != "" {
		database.Redis.Set(ctx, idemKey, orderID.String(), idempotencyTTL)
	}

	log.Printf("✅ Commande %s créée pour user %s (%.2f)", orderID, userID, input.TotalPrice)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Commande enregistrée avec succès",
		"orderId": orderID.String(),
	})
}

//
// 🟢 POST /api/orders/:orderId/payment
//
// Simulation de paiement : la seule transition est pending → preparing.
// Rejouer la requête sur une commande déjà en preparing est sans effet
// (réponse identique), ce qui rend l'appel idempotent.
func (h *Handler) ProcessPayment(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	orderUUID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}
	orderID := gocql.UUID(orderUUID)

	var input struct {
		PaymentMethod  string          `json:"paymentMethod"`
		PaymentDetails json.RawMessage `json:"paymentDetails"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	switch input.PaymentMethod {
	case "card", "cash", "esewa":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Moyen de paiement inconnu"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var ownerID, status string
	var orderDate time.Time
	if err := session.Query(`SELECT user_id, order_date, status FROM orders_by_id WHERE order_id = ?`, orderID).
		Scan(&ownerID, &orderDate, &status); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	// Une commande d'un autre utilisateur est invisible (pas de fuite d'existence)
	if ownerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if status == models.OrderStatusPreparing {
		c.JSON(http.StatusOK, gin.H{
			"message": "Paiement déjà enregistré",
			"orderId": orderID.String(),
			"status":  models.OrderStatusPreparing,
		})
		return
	}

	if status != models.OrderStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Transition impossible depuis le statut " + status})
		return
	}

	if err := session.Query(`UPDATE orders_by_id SET status = ? WHERE order_id = ?`,
		models.OrderStatusPreparing, orderID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande"})
		return
	}

	if err := session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND order_date = ? AND order_id = ?`,
		models.OrderStatusPreparing, ownerID, orderDate, orderID).Exec(); err != nil {
		// La table par id fait foi, on signale juste la divergence
		log.Printf("⚠️ Divergence orders_by_user pour %s: %v", orderID, err)
	}

	log.Printf("💳 Paiement %s accepté pour commande %s", input.PaymentMethod, orderID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Paiement traité avec succès",
		"orderId": orderID.String(),
		"status":  models.OrderStatusPreparing,
	})
}

//
// 🟢 GET /api/orders
//
func (h *Handler) GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Clustering order_date DESC : les commandes arrivent déjà triées
	iter := session.Query(`SELECT order_id, order_date, items, total_price, status
		FROM orders_by_user WHERE user_id = ?`, userID).Iter()

	orders := []models.Order{}
	var (
		orderID    gocql.UUID
		orderDate  time.Time
		itemsJSON  string
		totalPrice float64
		status     string
	)

	for iter.Scan(&orderID, &orderDate, &itemsJSON, &totalPrice, &status) {
		order := models.Order{
			ID:         orderID,
			UserID:     userID,
			TotalPrice: totalPrice,
			Status:     status,
			OrderDate:  orderDate,
		}
		if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
			log.Printf("⚠️ Lignes illisibles pour commande %s: %v", orderID, err)
		}
		orders = append(orders, order)
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// loadOrder lit une commande par id et vérifie qu'elle appartient bien au caller
func loadOrder(orderID gocql.UUID, userID string) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var (
		ownerID    string
		orderDate  time.Time
		itemsJSON  string
		totalPrice float64
		status     string
	)
	if err := session.Query(`SELECT user_id, order_date, items, total_price, status
		FROM orders_by_id WHERE order_id = ?`, orderID).
		Scan(&ownerID, &orderDate, &itemsJSON, &totalPrice, &status); err != nil {
		return nil, err
	}

	if ownerID != userID {
		return nil, gocql.ErrNotFound
	}

	order := &models.Order{
		ID:         orderID,
		UserID:     ownerID,
		TotalPrice: totalPrice,
		Status:     status,
		OrderDate:  orderDate,
	}
	if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
		log.Printf("⚠️ Lignes illisibles pour commande %s: %v", orderID, err)
	}

	return order, nil
}

//
// 🟢 GET /api/orders/:orderId
//
func (h *Handler) GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	orderUUID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	order, err := loadOrder(gocql.UUID(orderUUID), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, order)
}

//
// 🧾 GET /api/orders/:orderId/receipt
//
// Reçu de retrait au comptoir : un QR code PNG encodant la commande.
func (h *Handler) Receipt(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	orderUUID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	order, err := loadOrder(gocql.UUID(orderUUID), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	payload := fmt.Sprintf("CREMA|order=%s|total=%.2f|status=%s",
		order.ID.String(), order.TotalPrice, order.Status)

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération reçu"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
