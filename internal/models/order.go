package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts d'une commande. Seule la transition pending → preparing existe
// aujourd'hui (déclenchée par le paiement).
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderItem est une ligne de commande telle qu'envoyée par le client.
// ID est nul pour un plat du jour (pas d'entrée dans menu_items).
type OrderItem struct {
	ID        *string `json:"id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
	IsSpecial bool    `json:"isSpecial"`
}

// Order est une commande persistée. La colonne items stocke les lignes
// sérialisées en JSON (une seule colonne, pas de table de lignes).
type Order struct {
	ID         gocql.UUID  `json:"id"`
	UserID     string      `json:"user_id"`
	Items      []OrderItem `json:"order_items"`
	TotalPrice float64     `json:"total_price"`
	Status     string      `json:"status"`
	OrderDate  time.Time   `json:"order_date"`
}
