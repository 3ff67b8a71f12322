package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

type mockPaymentRepo struct {
	payments   map[string]*models.PaymentDetail
	listResp   []models.PaymentDetail
	listErr    error
	created    *models.Payment
	createErr  error
	deleted    *models.Payment
	deleteErr  error
	lastFilter models.PaymentFilter
}

func (m *mockPaymentRepo) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	m.lastFilter = filter
	return m.listResp, m.listErr
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id string) (*models.PaymentDetail, error) {
	payment, ok := m.payments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return payment, nil
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	m.created = payment
	if m.payments == nil {
		m.payments = make(map[string]*models.PaymentDetail)
	}
	m.payments[payment.ID] = &models.PaymentDetail{Payment: *payment}
	return nil
}

func (m *mockPaymentRepo) Delete(ctx context.Context, payment *models.Payment) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = payment
	delete(m.payments, payment.ID)
	return nil
}

const testDueID = "22222222-2222-2222-2222-222222222222"

func TestPaymentServiceCreateLinkedToDue(t *testing.T) {
	pending := dueFor(testDueID, "4", 2025, models.DueStatusPending, 150)
	pending.PlayerID = testPlayerID
	dues := &mockDueRepo{dues: map[string]*models.DueDetail{testDueID: &pending}}
	repo := &mockPaymentRepo{}
	users := &mockUserRepo{}
	svc := NewPaymentService(repo, dues, users, validator.New(), zap.NewNop())

	detail, err := svc.Create(context.Background(), adminScope(), "admin-1", CreatePaymentRequest{
		DueID:      testDueID,
		PlayerID:   testPlayerID,
		Monto:      150,
		FechaPago:  "2025-04-12",
		MetodoPago: "Efectivo",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	require.NotNil(t, repo.created.DueID)
	assert.Equal(t, testDueID, *repo.created.DueID)
	assert.Equal(t, models.PaymentStatusConfirmed, detail.Estado)
	require.Len(t, users.auditLogs, 1)
	assert.Equal(t, models.AuditActionPaymentCreate, users.auditLogs[0].Action)
}

func TestPaymentServiceCreateDueOfAnotherPlayer(t *testing.T) {
	foreign := dueFor(testDueID, "4", 2025, models.DueStatusPending, 150)
	foreign.PlayerID = testSecondPlayerID
	dues := &mockDueRepo{dues: map[string]*models.DueDetail{testDueID: &foreign}}
	repo := &mockPaymentRepo{}
	svc := NewPaymentService(repo, dues, &mockUserRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), adminScope(), "admin-1", CreatePaymentRequest{
		DueID:      testDueID,
		PlayerID:   testPlayerID,
		Monto:      150,
		FechaPago:  "2025-04-12",
		MetodoPago: "Efectivo",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Nil(t, repo.created)
}

func TestPaymentServiceCreateDueAlreadyPaid(t *testing.T) {
	paid := dueFor(testDueID, "4", 2025, models.DueStatusPaid, 150)
	paid.PlayerID = testPlayerID
	dues := &mockDueRepo{dues: map[string]*models.DueDetail{testDueID: &paid}}
	repo := &mockPaymentRepo{}
	svc := NewPaymentService(repo, dues, &mockUserRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), adminScope(), "admin-1", CreatePaymentRequest{
		DueID:      testDueID,
		PlayerID:   testPlayerID,
		Monto:      150,
		FechaPago:  "2025-04-12",
		MetodoPago: "Efectivo",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Nil(t, repo.created)
}

func TestPaymentServiceCreateWithoutDue(t *testing.T) {
	repo := &mockPaymentRepo{}
	svc := NewPaymentService(repo, &mockDueRepo{}, &mockUserRepo{}, validator.New(), zap.NewNop())

	detail, err := svc.Create(context.Background(), adminScope(), "admin-1", CreatePaymentRequest{
		PlayerID:   testPlayerID,
		Monto:      80,
		FechaPago:  "2025-04-12",
		MetodoPago: "Transferencia",
	})
	require.NoError(t, err)
	assert.Nil(t, repo.created.DueID)
	assert.Equal(t, 80.0, detail.Monto)
}

func TestPaymentServiceCreateClampsPlayerScope(t *testing.T) {
	repo := &mockPaymentRepo{}
	svc := NewPaymentService(repo, &mockDueRepo{}, &mockUserRepo{}, validator.New(), zap.NewNop())

	detail, err := svc.Create(context.Background(), playerScope(testPlayerID), "user-1", CreatePaymentRequest{
		PlayerID:   testPlayerID,
		Monto:      80,
		FechaPago:  "2025-04-12",
		MetodoPago: "Transferencia",
	})
	require.NoError(t, err)
	assert.Equal(t, testPlayerID, detail.PlayerID)

	_, err = svc.Create(context.Background(), playerScope(testPlayerID), "user-1", CreatePaymentRequest{
		PlayerID:   testSecondPlayerID,
		Monto:      80,
		FechaPago:  "2025-04-12",
		MetodoPago: "Transferencia",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestPaymentServiceDeletePassesLinkedDue(t *testing.T) {
	dueID := testDueID
	repo := &mockPaymentRepo{payments: map[string]*models.PaymentDetail{
		"pay-1": {Payment: models.Payment{ID: "pay-1", DueID: &dueID, PlayerID: "player-1"}},
	}}
	users := &mockUserRepo{}
	svc := NewPaymentService(repo, &mockDueRepo{}, users, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "admin-1", "pay-1"))
	require.NotNil(t, repo.deleted)
	require.NotNil(t, repo.deleted.DueID)
	assert.Equal(t, dueID, *repo.deleted.DueID)
	require.Len(t, users.auditLogs, 1)
	assert.Equal(t, models.AuditActionPaymentDelete, users.auditLogs[0].Action)
}

func TestPaymentServiceDeleteNotFound(t *testing.T) {
	svc := NewPaymentService(&mockPaymentRepo{}, &mockDueRepo{}, &mockUserRepo{}, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "admin-1", "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
