package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error)
	FindByID(ctx context.Context, id string) (*models.PaymentDetail, error)
	Create(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, payment *models.Payment) error
}

// PaymentService implements settlement use cases. Creating a payment that is
// linked to a due settles the due; deleting it reverts the due to pending.
type PaymentService struct {
	repo      paymentRepository
	dues      dueRepository
	users     userRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(repo paymentRepository, dues dueRepository, users userRepository, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, dues: dues, users: users, validator: validate, logger: logger, now: time.Now}
}

// CreatePaymentRequest carries payload to register a payment.
type CreatePaymentRequest struct {
	DueID      string  `json:"mensualidad_id" validate:"omitempty,uuid"`
	PlayerID   string  `json:"player_id" validate:"required,uuid"`
	Monto      float64 `json:"monto" validate:"required,gt=0"`
	FechaPago  string  `json:"fecha_pago" validate:"required"`
	MetodoPago string  `json:"metodo_pago" validate:"required"`
	Notas      string  `json:"notas"`
}

// List returns payments visible to the scope.
func (s *PaymentService) List(ctx context.Context, scope access.Scope, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	if !scope.ViewAll {
		if filter.PlayerID != "" && filter.PlayerID != scope.PlayerID {
			return nil, appErrors.ErrForbidden
		}
		filter.PlayerID = scope.PlayerID
	}
	payments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

// Get returns a single payment, enforcing the scope.
func (s *PaymentService) Get(ctx context.Context, scope access.Scope, id string) (*models.PaymentDetail, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	if !scope.AllowsPlayer(payment.PlayerID) {
		return nil, appErrors.ErrForbidden
	}
	return payment, nil
}

// Create registers a payment. A scope without view-all rights can only pay
// for its own player. When the payment references a due, the due must belong
// to the same player and still be pending; the repository settles it in the
// same transaction as the insert.
func (s *PaymentService) Create(ctx context.Context, scope access.Scope, actorID string, req CreatePaymentRequest) (*models.PaymentDetail, error) {
	if !scope.ViewAll {
		if req.PlayerID != "" && req.PlayerID != scope.PlayerID {
			return nil, appErrors.ErrForbidden
		}
		req.PlayerID = scope.PlayerID
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	paidAt, err := time.Parse("2006-01-02", req.FechaPago)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid fecha_pago, expected YYYY-MM-DD")
	}

	var dueID *string
	if req.DueID != "" {
		due, err := s.dues.FindByID(ctx, req.DueID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "due not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load due")
		}
		if due.PlayerID != req.PlayerID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "due belongs to another player")
		}
		if due.EstadoPago == models.DueStatusPaid {
			return nil, appErrors.Clone(appErrors.ErrConflict, "due is already paid")
		}
		dueID = &req.DueID
	}

	var notas *string
	if req.Notas != "" {
		notas = &req.Notas
	}

	payment := &models.Payment{
		DueID:      dueID,
		PlayerID:   req.PlayerID,
		Monto:      req.Monto,
		FechaPago:  paidAt,
		MetodoPago: req.MetodoPago,
		Estado:     models.PaymentStatusConfirmed,
		Notas:      notas,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}

	s.audit(ctx, actorID, models.AuditActionPaymentCreate, payment.ID)
	s.logger.Info("payment registered",
		zap.String("payment_id", payment.ID),
		zap.String("player_id", payment.PlayerID),
		zap.Float64("monto", payment.Monto))

	return s.repo.FindByID(ctx, payment.ID)
}

// Delete removes a payment and, when it settled a due, reverts the due back
// to pending in the same transaction.
func (s *PaymentService) Delete(ctx context.Context, actorID, id string) error {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}

	if err := s.repo.Delete(ctx, &detail.Payment); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete payment")
	}

	s.audit(ctx, actorID, models.AuditActionPaymentDelete, id)
	s.logger.Info("payment deleted",
		zap.String("payment_id", id),
		zap.String("actor_id", actorID))
	return nil
}

func (s *PaymentService) audit(ctx context.Context, actorID, action, paymentID string) {
	if s.users == nil {
		return
	}
	entry := &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   "pagos",
		ResourceID: &paymentID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.users.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to record payment audit log", zap.Error(err))
	}
}
