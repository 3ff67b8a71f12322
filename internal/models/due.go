package models

import (
	"strconv"
	"time"
)

// DueStatus is the stored payment state of a monthly due.
type DueStatus string

const (
	DueStatusPending DueStatus = "Pendiente"
	DueStatusPaid    DueStatus = "Pagado"
)

// DueBucket is the derived classification of a due relative to a reference
// date. Buckets are mutually exclusive and exhaustive.
type DueBucket string

const (
	DueBucketUpcoming DueBucket = "upcoming"
	DueBucketPending  DueBucket = "pending"
	DueBucketPaid     DueBucket = "paid"
)

// Due (mensualidad) is a monthly payment obligation assigned to a player. At
// most one due exists per (player, mes_referencia, anio_referencia).
type Due struct {
	ID               string     `db:"id" json:"id"`
	PlayerID         string     `db:"player_id" json:"player_id"`
	Monto            float64    `db:"monto" json:"monto"`
	FechaVencimiento time.Time  `db:"fecha_vencimiento" json:"fecha_vencimiento"`
	FechaPago        *time.Time `db:"fecha_pago" json:"fecha_pago,omitempty"`
	MetodoPago       *string    `db:"metodo_pago" json:"metodo_pago,omitempty"`
	EstadoPago       DueStatus  `db:"estado_pago" json:"estado_pago"`
	MesReferencia    string     `db:"mes_referencia" json:"mes_referencia"`
	AnioReferencia   int        `db:"anio_referencia" json:"anio_referencia"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// DueDetail flattens the due with the owning player's name.
type DueDetail struct {
	Due
	PlayerNombre   string `db:"player_nombre" json:"player_nombre"`
	PlayerApellido string `db:"player_apellido" json:"player_apellido"`
}

// Bucket classifies the due against the given reference date. A paid due is
// always "paid"; a pending due is "upcoming" only when its reference
// (year, month) is strictly after the reference date's, so a due for the
// current month counts as pending.
func (d Due) Bucket(now time.Time) DueBucket {
	if d.EstadoPago == DueStatusPaid {
		return DueBucketPaid
	}

	month, err := strconv.Atoi(d.MesReferencia)
	if err != nil || month < 1 || month > 12 {
		return DueBucketPending
	}

	if d.AnioReferencia > now.Year() {
		return DueBucketUpcoming
	}
	if d.AnioReferencia == now.Year() && time.Month(month) > now.Month() {
		return DueBucketUpcoming
	}
	return DueBucketPending
}

// DueFilter captures filtering criteria for listing dues.
type DueFilter struct {
	PlayerID       string
	EstadoPago     *DueStatus
	AnioReferencia int
	SortBy         string
	SortOrder      string
}

// DueStats summarises a collection of dues by bucket.
type DueStats struct {
	Total          int     `json:"total"`
	Upcoming       int     `json:"upcoming"`
	Pending        int     `json:"pending"`
	Paid           int     `json:"paid"`
	MontoPendiente float64 `json:"monto_pendiente"`
	MontoPagado    float64 `json:"monto_pagado"`
}
