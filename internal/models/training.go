package models

import "time"

// TrainingSession (entrenamiento) is a scheduled practice.
type TrainingSession struct {
	ID          string    `db:"id" json:"id"`
	Fecha       time.Time `db:"fecha" json:"fecha"`
	Hora        string    `db:"hora" json:"hora"`
	Lugar       string    `db:"lugar" json:"lugar"`
	Descripcion string    `db:"descripcion" json:"descripcion"`
	CoachID     *string   `db:"coach_id" json:"coach_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TrainingFilter captures filtering criteria for listing trainings.
type TrainingFilter struct {
	CoachID   string
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    string
	SortOrder string
}
