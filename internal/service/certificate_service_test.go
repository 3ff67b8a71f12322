package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/export"
)

type mockCertificateRepo struct {
	certs        map[string]*models.CertificateDetail
	listResp     []models.CertificateDetail
	listErr      error
	expiringResp []models.CertificateDetail
	created      *models.Certificate
	createErr    error
	deletedIDs   []string
	lastFilter   models.CertificateFilter
}

func (m *mockCertificateRepo) List(ctx context.Context, filter models.CertificateFilter) ([]models.CertificateDetail, error) {
	m.lastFilter = filter
	return m.listResp, m.listErr
}

func (m *mockCertificateRepo) ExpiringWithin(ctx context.Context, from time.Time, windowDays int) ([]models.CertificateDetail, error) {
	return m.expiringResp, nil
}

func (m *mockCertificateRepo) FindByID(ctx context.Context, id string) (*models.CertificateDetail, error) {
	cert, ok := m.certs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cert, nil
}

func (m *mockCertificateRepo) Create(ctx context.Context, cert *models.Certificate) error {
	if m.createErr != nil {
		return m.createErr
	}
	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	m.created = cert
	if m.certs == nil {
		m.certs = make(map[string]*models.CertificateDetail)
	}
	m.certs[cert.ID] = &models.CertificateDetail{Certificate: *cert}
	return nil
}

func (m *mockCertificateRepo) Delete(ctx context.Context, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func certFor(id string, tipo models.CertificateType, expiry time.Time) models.CertificateDetail {
	return models.CertificateDetail{Certificate: models.Certificate{ID: id, PlayerID: testPlayerID, Tipo: tipo, FechaVencimiento: expiry}}
}

func newCertificateFixture(repo *mockCertificateRepo) *CertificateService {
	players := &mockPlayerRepo{players: map[string]*models.PlayerDetail{
		testPlayerID: {PlayerProfile: models.PlayerProfile{ID: testPlayerID, Documento: "12345678"}, Nombre: "Lucía", Apellido: "Pérez"},
	}}
	return NewCertificateService(repo, players, export.NewPDFExporter("Club Atlas"), 30, validator.New(), zap.NewNop())
}

func TestCertificateServiceIssueIntegrationExpiresInSixMonths(t *testing.T) {
	repo := &mockCertificateRepo{}
	svc := newCertificateFixture(repo)
	issued := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	detail, err := svc.Issue(context.Background(), IssueCertificateRequest{PlayerID: testPlayerID, Tipo: "Integración"})
	require.NoError(t, err)
	assert.Equal(t, issued, detail.FechaEmision)
	assert.Equal(t, issued.AddDate(0, 6, 0), detail.FechaVencimiento)
}

func TestCertificateServiceIssueOthersExpireInTwelveMonths(t *testing.T) {
	repo := &mockCertificateRepo{}
	svc := newCertificateFixture(repo)
	issued := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	detail, err := svc.Issue(context.Background(), IssueCertificateRequest{PlayerID: testPlayerID, Tipo: "Asistencia"})
	require.NoError(t, err)
	assert.Equal(t, issued.AddDate(0, 12, 0), detail.FechaVencimiento)
}

func TestCertificateServiceIssueRejectsUnknownTipo(t *testing.T) {
	repo := &mockCertificateRepo{}
	svc := newCertificateFixture(repo)

	_, err := svc.Issue(context.Background(), IssueCertificateRequest{PlayerID: testPlayerID, Tipo: "Diploma"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Nil(t, repo.created)
}

func TestCertificateServiceClassify(t *testing.T) {
	now := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	repo := &mockCertificateRepo{listResp: []models.CertificateDetail{
		certFor("cert-1", models.CertificateAttendance, now.AddDate(0, 6, 0)),
		certFor("cert-2", models.CertificateIntegration, now.AddDate(0, 0, 10)),
		certFor("cert-3", models.CertificateParticipation, now.AddDate(0, 0, -1)),
	}}
	svc := newCertificateFixture(repo)
	svc.now = func() time.Time { return now }

	result, err := svc.Classify(context.Background(), adminScope(), models.CertificateFilter{})
	require.NoError(t, err)
	require.Len(t, result.Valid, 1)
	require.Len(t, result.Expiring, 1)
	require.Len(t, result.Expired, 1)
	assert.Equal(t, "cert-1", result.Valid[0].ID)
	assert.Equal(t, "cert-2", result.Expiring[0].ID)
	assert.Equal(t, "cert-3", result.Expired[0].ID)
}

func TestCertificateServiceClassifyBoundaryDayIsExpiring(t *testing.T) {
	now := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	repo := &mockCertificateRepo{listResp: []models.CertificateDetail{
		certFor("cert-1", models.CertificateAttendance, now),
	}}
	svc := newCertificateFixture(repo)
	svc.now = func() time.Time { return now }

	result, err := svc.Classify(context.Background(), adminScope(), models.CertificateFilter{})
	require.NoError(t, err)
	assert.Len(t, result.Expiring, 1)
	assert.Empty(t, result.Expired)
}

func TestCertificateServiceRender(t *testing.T) {
	now := time.Now().UTC()
	cert := certFor("cert-1", models.CertificateIntegration, now.AddDate(0, 6, 0))
	cert.FechaEmision = now
	cert.PlayerNombre = "Lucía"
	cert.PlayerApellido = "Pérez"
	cert.Documento = "12345678"
	repo := &mockCertificateRepo{certs: map[string]*models.CertificateDetail{"cert-1": &cert}}
	svc := newCertificateFixture(repo)

	data, err := svc.Render(context.Background(), adminScope(), "cert-1")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestCertificateServiceGetForbidden(t *testing.T) {
	cert := certFor("cert-1", models.CertificateAttendance, time.Now().AddDate(0, 6, 0))
	cert.PlayerID = "player-2"
	repo := &mockCertificateRepo{certs: map[string]*models.CertificateDetail{"cert-1": &cert}}
	svc := newCertificateFixture(repo)

	_, err := svc.Get(context.Background(), playerScope("player-1"), "cert-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}
