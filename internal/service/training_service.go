package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

// upcomingWindowDays bounds the agenda views on the dashboard.
const upcomingWindowDays = 14

// TrainingService implements training schedule use cases.
type TrainingService struct {
	repo      trainingRepository
	users     userRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewTrainingService constructs a TrainingService.
func NewTrainingService(repo trainingRepository, users userRepository, validate *validator.Validate, logger *zap.Logger) *TrainingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainingService{repo: repo, users: users, validator: validate, logger: logger, now: time.Now}
}

// TrainingRequest carries payload to create or update a training session.
type TrainingRequest struct {
	Fecha       string `json:"fecha" validate:"required"`
	Hora        string `json:"hora" validate:"required"`
	Lugar       string `json:"lugar" validate:"required"`
	Descripcion string `json:"descripcion"`
	CoachID     string `json:"coach_id" validate:"omitempty,uuid"`
}

// List returns trainings matching a filter.
func (s *TrainingService) List(ctx context.Context, filter models.TrainingFilter) ([]models.TrainingSession, error) {
	trainings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainings")
	}
	return trainings, nil
}

// Upcoming returns trainings in the next two weeks.
func (s *TrainingService) Upcoming(ctx context.Context) ([]models.TrainingSession, error) {
	trainings, err := s.repo.Upcoming(ctx, s.now().UTC().Truncate(24*time.Hour), upcomingWindowDays)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming trainings")
	}
	return trainings, nil
}

// Get returns a training session by ID.
func (s *TrainingService) Get(ctx context.Context, id string) (*models.TrainingSession, error) {
	training, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "training not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training")
	}
	return training, nil
}

// Create schedules a new training session. When a coach is named it must be
// an existing user with the COACH role.
func (s *TrainingService) Create(ctx context.Context, req TrainingRequest) (*models.TrainingSession, error) {
	training, err := s.buildTraining(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, training); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create training")
	}
	return s.repo.FindByID(ctx, training.ID)
}

// Update modifies a training session.
func (s *TrainingService) Update(ctx context.Context, id string, req TrainingRequest) (*models.TrainingSession, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	training, err := s.buildTraining(ctx, req)
	if err != nil {
		return nil, err
	}
	training.ID = id
	if err := s.repo.Update(ctx, training); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update training")
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes a training session.
func (s *TrainingService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete training")
	}
	return nil
}

func (s *TrainingService) buildTraining(ctx context.Context, req TrainingRequest) (*models.TrainingSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid training payload")
	}

	date, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid fecha, expected YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.Hora); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid hora, expected HH:MM")
	}

	training := &models.TrainingSession{
		Fecha:       date,
		Hora:        req.Hora,
		Lugar:       req.Lugar,
		Descripcion: req.Descripcion,
	}

	if req.CoachID != "" {
		coach, err := s.users.FindByID(ctx, req.CoachID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "coach not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coach")
		}
		if coach.Role != models.RoleCoach {
			return nil, appErrors.Clone(appErrors.ErrValidation, "coach_id must reference a COACH user")
		}
		training.CoachID = &req.CoachID
	}

	return training, nil
}
