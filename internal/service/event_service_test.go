package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

func TestEventServiceCreate(t *testing.T) {
	repo := &mockEventRepo{}
	svc := NewEventService(repo, validator.New(), zap.NewNop())

	event, err := svc.Create(context.Background(), EventRequest{
		Nombre:    "Torneo Apertura",
		Fecha:     "2025-05-03",
		Lugar:     "Estadio Municipal",
		Categoria: "Torneo",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventTournament, event.Categoria)
	assert.Equal(t, time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC), event.Fecha)
}

func TestEventServiceCreateRejectsUnknownCategoria(t *testing.T) {
	repo := &mockEventRepo{}
	svc := NewEventService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), EventRequest{
		Nombre:    "Asado de fin de año",
		Fecha:     "2025-12-20",
		Lugar:     "Sede",
		Categoria: "Social",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Nil(t, repo.created)
}

func TestEventServiceUpcoming(t *testing.T) {
	repo := &mockEventRepo{upcomingResp: []models.Event{
		{ID: "e1", Nombre: "Partido amistoso", Categoria: models.EventFriendly},
	}}
	svc := NewEventService(repo, validator.New(), zap.NewNop())

	events, err := svc.Upcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)
}
