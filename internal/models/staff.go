package models

import "github.com/gocql/gocql"

type StaffMember struct {
	ID       gocql.UUID `json:"id"`
	Name     string     `json:"name"`
	Position string     `json:"position"`
	PhotoURL string     `json:"photo_url"`
}
