package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clubatlas/club-adm-api/internal/models"
)

const certificateDetailColumns = `c.id, c.player_id, c.tipo, c.fecha_emision, c.fecha_vencimiento, c.url, c.created_at,
        u.nombre AS player_nombre, u.apellido AS player_apellido, p.documento`

const certificateDetailBase = `FROM certificados c
        JOIN player_profiles p ON p.id = c.player_id
        JOIN users u ON u.id = p.user_id`

// CertificateRepository manages persistence for issued certificates.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository constructs a CertificateRepository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// List returns certificates matching the provided filters.
func (r *CertificateRepository) List(ctx context.Context, filter models.CertificateFilter) ([]models.CertificateDetail, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.PlayerID != "" {
		conditions = append(conditions, fmt.Sprintf("c.player_id = $%d", len(args)+1))
		args = append(args, filter.PlayerID)
	}
	if filter.Tipo != nil {
		conditions = append(conditions, fmt.Sprintf("c.tipo = $%d", len(args)+1))
		args = append(args, *filter.Tipo)
	}

	allowedSorts := map[string]string{
		"fecha_emision":     "c.fecha_emision",
		"fecha_vencimiento": "c.fecha_vencimiento",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "c.fecha_emision"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s %s", certificateDetailColumns, certificateDetailBase, strings.Join(conditions, " AND "), column, order)

	var certs []models.CertificateDetail
	if err := r.db.SelectContext(ctx, &certs, query, args...); err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}

// ExpiringWithin returns unexpired certificates whose expiry falls inside the
// window.
func (r *CertificateRepository) ExpiringWithin(ctx context.Context, from time.Time, windowDays int) ([]models.CertificateDetail, error) {
	to := from.AddDate(0, 0, windowDays)
	query := fmt.Sprintf("SELECT %s %s WHERE c.fecha_vencimiento >= $1 AND c.fecha_vencimiento <= $2 ORDER BY c.fecha_vencimiento ASC", certificateDetailColumns, certificateDetailBase)
	var certs []models.CertificateDetail
	if err := r.db.SelectContext(ctx, &certs, query, from, to); err != nil {
		return nil, fmt.Errorf("expiring certificates: %w", err)
	}
	return certs, nil
}

// FindByID fetches a certificate detail by identifier.
func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*models.CertificateDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.id = $1", certificateDetailColumns, certificateDetailBase)
	var cert models.CertificateDetail
	if err := r.db.GetContext(ctx, &cert, query, id); err != nil {
		return nil, err
	}
	return &cert, nil
}

// Create inserts a new certificate record.
func (r *CertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO certificados (id, player_id, tipo, fecha_emision, fecha_vencimiento, url, created_at)
        VALUES (:id, :player_id, :tipo, :fecha_emision, :fecha_vencimiento, :url, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cert); err != nil {
		return fmt.Errorf("create certificate: %w", err)
	}
	return nil
}

// Delete removes a certificate record.
func (r *CertificateRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM certificados WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	return nil
}
