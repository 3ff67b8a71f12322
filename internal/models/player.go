package models

import "time"

// PlayerProfile is the 1:1 extension of a User with role PLAYER.
type PlayerProfile struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	Documento       string    `db:"documento" json:"documento"`
	FechaNacimiento time.Time `db:"fecha_nacimiento" json:"fecha_nacimiento"`
	Categoria       string    `db:"categoria" json:"categoria"`
	Posicion        string    `db:"posicion" json:"posicion"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// PlayerDetail flattens the profile with its owning user, the denormalised
// shape every fetch returns.
type PlayerDetail struct {
	PlayerProfile
	Nombre   string `db:"nombre" json:"nombre"`
	Apellido string `db:"apellido" json:"apellido"`
	Email    string `db:"email" json:"email"`
	Telefono string `db:"telefono" json:"telefono"`
	Active   bool   `db:"active" json:"active"`
}

// PlayerFilter encapsulates allowed search parameters for listing players.
type PlayerFilter struct {
	Search    string
	Categoria string
	Active    *bool
	SortBy    string
	SortOrder string
}
