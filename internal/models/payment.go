package models

import "time"

// PaymentStatus is the stored state of a settlement record.
type PaymentStatus string

const (
	PaymentStatusConfirmed PaymentStatus = "Confirmado"
	PaymentStatusVoided    PaymentStatus = "Anulado"
)

// Payment (pago) is a settlement record optionally linked to a due. Deleting
// a payment resets its linked due back to pending.
type Payment struct {
	ID         string        `db:"id" json:"id"`
	DueID      *string       `db:"mensualidad_id" json:"mensualidad_id,omitempty"`
	PlayerID   string        `db:"player_id" json:"player_id"`
	Monto      float64       `db:"monto" json:"monto"`
	FechaPago  time.Time     `db:"fecha_pago" json:"fecha_pago"`
	MetodoPago string        `db:"metodo_pago" json:"metodo_pago"`
	Estado     PaymentStatus `db:"estado" json:"estado"`
	Notas      *string       `db:"notas" json:"notas,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

// PaymentDetail flattens the payment with the owning player's name.
type PaymentDetail struct {
	Payment
	PlayerNombre   string `db:"player_nombre" json:"player_nombre"`
	PlayerApellido string `db:"player_apellido" json:"player_apellido"`
}

// PaymentFilter captures filtering criteria for listing payments.
type PaymentFilter struct {
	PlayerID  string
	Metodo    string
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    string
	SortOrder string
}
