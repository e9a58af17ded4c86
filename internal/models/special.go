package models

import "github.com/gocql/gocql"

// Special est un plat du jour, affiché à part du menu permanent.
type Special struct {
	ID          gocql.UUID `json:"id"`
	ItemName    string     `json:"item_name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	ImageURL    string     `json:"image_url"`
}
