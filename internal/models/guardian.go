package models

import "time"

// GuardianProfile is the 1:1 extension of a User with role GUARDIAN. A
// guardian tutors exactly one player.
type GuardianProfile struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Parentesco string    `db:"parentesco" json:"parentesco"`
	PlayerID   string    `db:"player_id" json:"player_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// GuardianDetail joins the guardian with its user and the tutored player.
type GuardianDetail struct {
	GuardianProfile
	Nombre         string `db:"nombre" json:"nombre"`
	Apellido       string `db:"apellido" json:"apellido"`
	Email          string `db:"email" json:"email"`
	Telefono       string `db:"telefono" json:"telefono"`
	PlayerNombre   string `db:"player_nombre" json:"player_nombre"`
	PlayerApellido string `db:"player_apellido" json:"player_apellido"`
}
