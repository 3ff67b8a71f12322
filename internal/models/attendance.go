package models

import "time"

// AttendanceStatus is the outcome of a player's presence at a session.
type AttendanceStatus string

const (
	AttendancePresent    AttendanceStatus = "Presente"
	AttendanceAbsent     AttendanceStatus = "Ausente"
	AttendanceJustified  AttendanceStatus = "Justificado"
	AttendanceUnrecorded AttendanceStatus = "Sin registro"
)

// Valid reports whether the status is one of the known variants.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceJustified, AttendanceUnrecorded:
		return true
	}
	return false
}

// SessionCategory groups attendance by the kind of session it belongs to.
type SessionCategory string

const (
	CategoryTraining   SessionCategory = "Entrenamiento"
	CategoryMatch      SessionCategory = "Partido"
	CategoryTournament SessionCategory = "Torneo"
)

// AttendanceRecord is a per-player, per-session outcome. Exactly one of
// EntrenamientoID and EventoID is set, never both, never neither.
type AttendanceRecord struct {
	ID              string           `db:"id" json:"id"`
	PlayerID        string           `db:"player_id" json:"player_id"`
	Estado          AttendanceStatus `db:"estado" json:"estado"`
	Fecha           time.Time        `db:"fecha" json:"fecha"`
	EntrenamientoID *string          `db:"entrenamiento_id" json:"entrenamiento_id,omitempty"`
	EventoID        *string          `db:"evento_id" json:"evento_id,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceDetail flattens the record with player and session context.
type AttendanceDetail struct {
	AttendanceRecord
	PlayerNombre   string  `db:"player_nombre" json:"player_nombre"`
	PlayerApellido string  `db:"player_apellido" json:"player_apellido"`
	Categoria      *string `db:"categoria" json:"categoria,omitempty"`
}

// SessionKind classifies the record by its session link. Any event-linked
// record counts as an event even when the joined categoria is missing, in
// which case it falls back to match.
func (d AttendanceDetail) SessionKind() SessionCategory {
	if d.EventoID == nil {
		return CategoryTraining
	}
	if d.Categoria != nil {
		return EventCategory(*d.Categoria).SessionCategory()
	}
	return CategoryMatch
}

// AttendanceFilter captures filtering criteria for listing attendance.
type AttendanceFilter struct {
	PlayerID        string
	EntrenamientoID string
	EventoID        string
	Estado          *AttendanceStatus
	DateFrom        *time.Time
	DateTo          *time.Time
	SortBy          string
	SortOrder       string
}

// CategoryRate holds the attendance rate for one session category. Total
// excludes unrecorded entries.
type CategoryRate struct {
	Presentes    int `json:"presentes"`
	Ausentes     int `json:"ausentes"`
	Justificados int `json:"justificados"`
	Total        int `json:"total"`
	Rate         int `json:"rate"`
}

// AttendanceSummary aggregates per-category and overall rates for a player.
type AttendanceSummary struct {
	PlayerID string                           `json:"player_id"`
	Overall  CategoryRate                     `json:"overall"`
	PerKind  map[SessionCategory]CategoryRate `json:"per_kind"`
}
