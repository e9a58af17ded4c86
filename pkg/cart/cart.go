// Package cart est le panier côté client : un état local, synchrone, sans
// aucun appel réseau. Chaque ligne est un instantané des champs utiles du
// catalogue (nom, prix, image) — une modification du catalogue après l'ajout
// ne change jamais le contenu du panier.
package cart

import (
	"math"

	"crema_back_end/internal/models"
)

// Entry est ce que l'interface ajoute au panier : un plat du menu ou un
// plat du jour, identifié par son LineID.
type Entry struct {
	LineID    string
	Name      string
	UnitPrice float64
	ImageURL  string
	IsSpecial bool
}

// Line est une ligne du panier. Le prix unitaire est stocké en centimes :
// les cumuls se font en entiers, la conversion en euros n'arrive qu'à
// l'affichage.
type Line struct {
	LineID         string
	Name           string
	UnitPriceCents int64
	Quantity       int
	ImageURL       string
	IsSpecial      bool
}

// Cart conserve l'ordre d'insertion des lignes. Aucune synchronisation :
// le panier vit dans la session de navigation, mutations séquentielles.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// SpecialLineID préfixe l'identifiant d'un plat du jour pour éviter toute
// collision avec un identifiant du menu.
func SpecialLineID(specialID string) string {
	return "special-" + specialID
}

// Add ajoute une unité de l'entrée : incrémente la quantité si la ligne
// existe déjà, sinon crée une ligne à quantité 1. Ne peut pas échouer.
func (c *Cart) Add(e Entry) {
	for i := range c.lines {
		if c.lines[i].LineID == e.LineID {
			c.lines[i].Quantity++
			return
		}
	}

	c.lines = append(c.lines, Line{
		LineID:         e.LineID,
		Name:           e.Name,
		UnitPriceCents: toCents(e.UnitPrice),
		Quantity:       1,
		ImageURL:       e.ImageURL,
		IsSpecial:      e.IsSpecial,
	})
}

// UpdateQuantity fixe la quantité d'une ligne. Une quantité ≤ 0 supprime
// la ligne : il n'existe jamais de ligne à quantité nulle ou négative.
func (c *Cart) UpdateQuantity(lineID string, quantity int) {
	if quantity <= 0 {
		c.Remove(lineID)
		return
	}

	for i := range c.lines {
		if c.lines[i].LineID == lineID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Remove supprime la ligne si elle existe, sans effet sinon.
func (c *Cart) Remove(lineID string) {
	for i := range c.lines {
		if c.lines[i].LineID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear vide le panier.
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalItems est la somme des quantités de toutes les lignes.
func (c *Cart) TotalItems() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// TotalCents est le total exact en centimes.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.UnitPriceCents * int64(line.Quantity)
	}
	return total
}

// TotalPrice est le total pour l'affichage, arrondi à 2 décimales.
func (c *Cart) TotalPrice() float64 {
	return float64(c.TotalCents()) / 100
}

// Lines retourne une copie des lignes, dans l'ordre d'insertion.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Snapshot fige le panier au format attendu par POST /api/orders.
// L'identifiant est nul pour les plats du jour.
func (c *Cart) Snapshot(userID string) OrderSnapshot {
	items := make([]models.OrderItem, 0, len(c.lines))
	for _, line := range c.lines {
		item := models.OrderItem{
			Name:      line.Name,
			Qty:       line.Quantity,
			Price:     float64(line.UnitPriceCents) / 100,
			IsSpecial: line.IsSpecial,
		}
		if !line.IsSpecial {
			lineID := line.LineID
			item.ID = &lineID
		}
		items = append(items, item)
	}

	return OrderSnapshot{
		UserID:     userID,
		OrderItems: items,
		TotalPrice: c.TotalPrice(),
	}
}

// OrderSnapshot est le corps de requête de création de commande.
type OrderSnapshot struct {
	UserID     string             `json:"user_id"`
	OrderItems []models.OrderItem `json:"order_items"`
	TotalPrice float64            `json:"total_price"`
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
