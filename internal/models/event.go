package models

import "time"

// EventCategory tags a club event.
type EventCategory string

const (
	EventMatch      EventCategory = "Partido"
	EventTournament EventCategory = "Torneo"
	EventFriendly   EventCategory = "Amistoso"
)

// Valid reports whether the category is a known variant.
func (c EventCategory) Valid() bool {
	switch c {
	case EventMatch, EventTournament, EventFriendly:
		return true
	}
	return false
}

// SessionCategory maps the event category onto the attendance grouping.
// Friendlies count as matches for rate purposes.
func (c EventCategory) SessionCategory() SessionCategory {
	if c == EventTournament {
		return CategoryTournament
	}
	return CategoryMatch
}

// Event (evento) is a scheduled club fixture.
type Event struct {
	ID        string        `db:"id" json:"id"`
	Nombre    string        `db:"nombre" json:"nombre"`
	Fecha     time.Time     `db:"fecha" json:"fecha"`
	Lugar     string        `db:"lugar" json:"lugar"`
	Categoria EventCategory `db:"categoria" json:"categoria"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// EventFilter captures filtering criteria for listing events.
type EventFilter struct {
	Categoria *EventCategory
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    string
	SortOrder string
}
