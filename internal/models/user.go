package models

import "time"

// UserRole is the closed set of roles recognised by the club.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleCoach    UserRole = "COACH"
	RolePlayer   UserRole = "PLAYER"
	RoleGuardian UserRole = "GUARDIAN"
)

// Valid reports whether the role is one of the four known variants.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoach, RolePlayer, RoleGuardian:
		return true
	}
	return false
}

// User represents an application user stored in the users table. The role
// determines which specialised profile record accompanies it.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Nombre       string     `db:"nombre" json:"nombre"`
	Apellido     string     `db:"apellido" json:"apellido"`
	Telefono     string     `db:"telefono" json:"telefono"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Active    *bool
	Search    string
	SortBy    string
	SortOrder string
}
