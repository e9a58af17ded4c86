package models

import "github.com/gocql/gocql"

// MenuItem est une entrée du menu permanent. Les flags sont normalisés
// pour l'affichage côté front (isSpicy, hasGluten...).
type MenuItem struct {
	ID           gocql.UUID `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Price        float64    `json:"price"`
	Category     string     `json:"category"`
	Type         string     `json:"type"`
	ImageURL     string     `json:"image"`
	IsBestseller bool       `json:"isBestseller"`
	IsSpicy      bool       `json:"isSpicy"`
	HasGluten    bool       `json:"hasGluten"`
	IsHot        bool       `json:"isHot"`
}
