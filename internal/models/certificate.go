package models

import "time"

// CertificateType identifies the kind of document issued to a player.
type CertificateType string

const (
	CertificateIntegration   CertificateType = "Integración"
	CertificateAttendance    CertificateType = "Asistencia"
	CertificateParticipation CertificateType = "Participación"
)

// ValidityMonths returns how long a certificate of this type remains valid
// from its issue date. Integration certificates last six months; every other
// type, including unknown ones, lasts a year.
func (t CertificateType) ValidityMonths() int {
	if t == CertificateIntegration {
		return 6
	}
	return 12
}

// CertificateBucket is the derived expiry classification.
type CertificateBucket string

const (
	CertificateValid    CertificateBucket = "valid"
	CertificateExpiring CertificateBucket = "expiring"
	CertificateExpired  CertificateBucket = "expired"
)

// Certificate (certificado) is a generated document record owned by a player.
type Certificate struct {
	ID               string          `db:"id" json:"id"`
	PlayerID         string          `db:"player_id" json:"player_id"`
	Tipo             CertificateType `db:"tipo" json:"tipo"`
	FechaEmision     time.Time       `db:"fecha_emision" json:"fecha_emision"`
	FechaVencimiento time.Time       `db:"fecha_vencimiento" json:"fecha_vencimiento"`
	URL              *string         `db:"url" json:"url,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// CertificateDetail flattens the certificate with the owning player.
type CertificateDetail struct {
	Certificate
	PlayerNombre   string `db:"player_nombre" json:"player_nombre"`
	PlayerApellido string `db:"player_apellido" json:"player_apellido"`
	Documento      string `db:"documento" json:"documento"`
}

// Bucket classifies the certificate's expiry against the given date using the
// provided warning window. Expiry exactly on the reference day is treated as
// still valid (and therefore expiring, not expired).
func (c Certificate) Bucket(now time.Time, warningDays int) CertificateBucket {
	days := int(c.FechaVencimiento.Sub(now).Hours() / 24)
	if c.FechaVencimiento.Before(now) {
		return CertificateExpired
	}
	if days <= warningDays {
		return CertificateExpiring
	}
	return CertificateValid
}

// CertificateFilter captures filtering criteria for listing certificates.
type CertificateFilter struct {
	PlayerID  string
	Tipo      *CertificateType
	SortBy    string
	SortOrder string
}
