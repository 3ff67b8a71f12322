package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/export"
)

type certificateRepository interface {
	List(ctx context.Context, filter models.CertificateFilter) ([]models.CertificateDetail, error)
	ExpiringWithin(ctx context.Context, from time.Time, windowDays int) ([]models.CertificateDetail, error)
	FindByID(ctx context.Context, id string) (*models.CertificateDetail, error)
	Create(ctx context.Context, cert *models.Certificate) error
	Delete(ctx context.Context, id string) error
}

// CertificateService implements certificate issuance and expiry tracking. The
// expiry date is derived from the type at issue time and never edited, so a
// certificate's lifecycle is fixed the moment it is created.
type CertificateService struct {
	repo        certificateRepository
	players     playerRepository
	pdf         *export.PDFExporter
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
	warningDays int
}

// NewCertificateService constructs a CertificateService. warningDays controls
// how close to expiry a certificate is flagged as expiring.
func NewCertificateService(repo certificateRepository, players playerRepository, pdf *export.PDFExporter, warningDays int, validate *validator.Validate, logger *zap.Logger) *CertificateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if warningDays <= 0 {
		warningDays = 30
	}
	return &CertificateService{
		repo:        repo,
		players:     players,
		pdf:         pdf,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
		warningDays: warningDays,
	}
}

// IssueCertificateRequest carries payload to issue a certificate.
type IssueCertificateRequest struct {
	PlayerID string `json:"player_id" validate:"required,uuid"`
	Tipo     string `json:"tipo" validate:"required,oneof=Integración Asistencia Participación"`
}

// ClassifiedCertificates groups certificates by their expiry state.
type ClassifiedCertificates struct {
	Valid    []models.CertificateDetail `json:"valid"`
	Expiring []models.CertificateDetail `json:"expiring"`
	Expired  []models.CertificateDetail `json:"expired"`
}

// List returns certificates visible to the scope.
func (s *CertificateService) List(ctx context.Context, scope access.Scope, filter models.CertificateFilter) ([]models.CertificateDetail, error) {
	if !scope.ViewAll {
		if filter.PlayerID != "" && filter.PlayerID != scope.PlayerID {
			return nil, appErrors.ErrForbidden
		}
		filter.PlayerID = scope.PlayerID
	}
	certs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list certificates")
	}
	return certs, nil
}

// Classify returns the scope's certificates split by expiry state relative to
// today. Every certificate lands in exactly one bucket.
func (s *CertificateService) Classify(ctx context.Context, scope access.Scope, filter models.CertificateFilter) (*ClassifiedCertificates, error) {
	certs, err := s.List(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	result := &ClassifiedCertificates{
		Valid:    []models.CertificateDetail{},
		Expiring: []models.CertificateDetail{},
		Expired:  []models.CertificateDetail{},
	}
	now := s.now()
	for _, cert := range certs {
		switch cert.Bucket(now, s.warningDays) {
		case models.CertificateValid:
			result.Valid = append(result.Valid, cert)
		case models.CertificateExpiring:
			result.Expiring = append(result.Expiring, cert)
		case models.CertificateExpired:
			result.Expired = append(result.Expired, cert)
		}
	}
	return result, nil
}

// Expiring returns certificates that expire within the warning window.
func (s *CertificateService) Expiring(ctx context.Context) ([]models.CertificateDetail, error) {
	certs, err := s.repo.ExpiringWithin(ctx, s.now().UTC(), s.warningDays)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list expiring certificates")
	}
	return certs, nil
}

// Get returns a single certificate, enforcing the scope.
func (s *CertificateService) Get(ctx context.Context, scope access.Scope, id string) (*models.CertificateDetail, error) {
	cert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}
	if !scope.AllowsPlayer(cert.PlayerID) {
		return nil, appErrors.ErrForbidden
	}
	return cert, nil
}

// Issue creates a certificate for a player. Validity is fixed by the type:
// six months for integration certificates, twelve for the rest.
func (s *CertificateService) Issue(ctx context.Context, req IssueCertificateRequest) (*models.CertificateDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid certificate payload")
	}

	if _, err := s.players.FindByID(ctx, req.PlayerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "player not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load player")
	}

	tipo := models.CertificateType(req.Tipo)
	issuedAt := s.now().UTC()
	cert := &models.Certificate{
		PlayerID:         req.PlayerID,
		Tipo:             tipo,
		FechaEmision:     issuedAt,
		FechaVencimiento: issuedAt.AddDate(0, tipo.ValidityMonths(), 0),
	}
	if err := s.repo.Create(ctx, cert); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue certificate")
	}

	s.logger.Info("certificate issued",
		zap.String("certificate_id", cert.ID),
		zap.String("player_id", cert.PlayerID),
		zap.String("tipo", string(cert.Tipo)))

	return s.repo.FindByID(ctx, cert.ID)
}

// Render produces the printable PDF for a certificate.
func (s *CertificateService) Render(ctx context.Context, scope access.Scope, id string) ([]byte, error) {
	cert, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Certificado de %s", cert.Tipo)
	lines := []string{
		fmt.Sprintf("Se certifica que %s %s, documento %s, es integrante del club.", cert.PlayerNombre, cert.PlayerApellido, cert.Documento),
		fmt.Sprintf("Fecha de emisión: %s", cert.FechaEmision.Format("02/01/2006")),
		fmt.Sprintf("Válido hasta: %s", cert.FechaVencimiento.Format("02/01/2006")),
	}

	data, err := s.pdf.RenderDocument(title, lines)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}
	return data, nil
}

// Delete removes a certificate record.
func (s *CertificateService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete certificate")
	}
	return nil
}
