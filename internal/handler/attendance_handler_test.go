package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/middleware"
	"github.com/clubatlas/club-adm-api/internal/models"
	"github.com/clubatlas/club-adm-api/internal/service"
)

type attendanceRepoStub struct {
	listResp   []models.AttendanceDetail
	listErr    error
	lastFilter models.AttendanceFilter
	stored     *models.AttendanceRecord
}

func (m *attendanceRepoStub) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	m.lastFilter = filter
	return m.listResp, m.listErr
}

func (m *attendanceRepoStub) FindByID(ctx context.Context, id string) (*models.AttendanceDetail, error) {
	if m.stored == nil || m.stored.ID != id {
		return nil, sql.ErrNoRows
	}
	return &models.AttendanceDetail{AttendanceRecord: *m.stored}, nil
}

func (m *attendanceRepoStub) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	record.ID = "att-new"
	m.stored = record
	return record, nil
}

func (m *attendanceRepoStub) Delete(ctx context.Context, id string) error {
	m.stored = nil
	return nil
}

type trainingRepoStub struct {
	trainings map[string]*models.TrainingSession
}

func (m *trainingRepoStub) List(ctx context.Context, filter models.TrainingFilter) ([]models.TrainingSession, error) {
	return nil, nil
}

func (m *trainingRepoStub) Upcoming(ctx context.Context, from time.Time, windowDays int) ([]models.TrainingSession, error) {
	return nil, nil
}

func (m *trainingRepoStub) FindByID(ctx context.Context, id string) (*models.TrainingSession, error) {
	training, ok := m.trainings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return training, nil
}

func (m *trainingRepoStub) Create(ctx context.Context, training *models.TrainingSession) error {
	return nil
}

func (m *trainingRepoStub) Update(ctx context.Context, training *models.TrainingSession) error {
	return nil
}

func (m *trainingRepoStub) Delete(ctx context.Context, id string) error { return nil }

type eventRepoStub struct {
	events map[string]*models.Event
}

func (m *eventRepoStub) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	return nil, nil
}

func (m *eventRepoStub) Upcoming(ctx context.Context, from time.Time, windowDays int) ([]models.Event, error) {
	return nil, nil
}

func (m *eventRepoStub) FindByID(ctx context.Context, id string) (*models.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return event, nil
}

func (m *eventRepoStub) Create(ctx context.Context, event *models.Event) error { return nil }
func (m *eventRepoStub) Update(ctx context.Context, event *models.Event) error { return nil }
func (m *eventRepoStub) Delete(ctx context.Context, id string) error           { return nil }

const handlerTrainingID = "33333333-3333-3333-3333-333333333333"

func newAttendanceHandlerFixture() (*AttendanceHandler, *attendanceRepoStub, *trainingRepoStub, *playerRepoStub) {
	attRepo := &attendanceRepoStub{}
	trainingRepo := &trainingRepoStub{trainings: make(map[string]*models.TrainingSession)}
	eventRepo := &eventRepoStub{events: make(map[string]*models.Event)}
	playerRepo := newPlayerRepoStub()
	svc := service.NewAttendanceService(attRepo, trainingRepo, eventRepo, playerRepo, nil, nil)
	return NewAttendanceHandler(svc), attRepo, trainingRepo, playerRepo
}

func TestAttendanceHandlerListScopedToOwnPlayer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, attRepo, _, _ := newAttendanceHandlerFixture()
	attRepo.listResp = []models.AttendanceDetail{{
		AttendanceRecord: models.AttendanceRecord{ID: "att-1", PlayerID: "player-own"},
	}}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RolePlayer})
	c.Set(middleware.ContextScopeKey, access.Scope{Role: models.RolePlayer, UserID: "user-1", PlayerID: "player-own"})
	req, _ := http.NewRequest(http.MethodGet, "/attendance", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "player-own", attRepo.lastFilter.PlayerID)
}

func TestAttendanceHandlerMarkTraining(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, attRepo, trainingRepo, playerRepo := newAttendanceHandlerFixture()
	playerRepo.players[handlerPlayerID] = &models.PlayerDetail{
		PlayerProfile: models.PlayerProfile{ID: handlerPlayerID},
	}
	sessionDate := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	trainingRepo.trainings[handlerTrainingID] = &models.TrainingSession{ID: handlerTrainingID, Fecha: sessionDate}

	body, _ := json.Marshal(map[string]string{
		"player_id":        handlerPlayerID,
		"estado":           "Presente",
		"entrenamiento_id": handlerTrainingID,
	})
	w := httptest.NewRecorder()
	c, _ := adminContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/attendance", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Mark(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, attRepo.stored)
	assert.Equal(t, models.AttendancePresent, attRepo.stored.Estado)
	assert.Equal(t, sessionDate, attRepo.stored.Fecha)
}

func TestAttendanceHandlerMarkBothSessionsRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, attRepo, trainingRepo, playerRepo := newAttendanceHandlerFixture()
	playerRepo.players[handlerPlayerID] = &models.PlayerDetail{
		PlayerProfile: models.PlayerProfile{ID: handlerPlayerID},
	}
	trainingRepo.trainings[handlerTrainingID] = &models.TrainingSession{ID: handlerTrainingID}

	body, _ := json.Marshal(map[string]string{
		"player_id":        handlerPlayerID,
		"estado":           "Presente",
		"entrenamiento_id": handlerTrainingID,
		"evento_id":        "44444444-4444-4444-4444-444444444444",
	})
	w := httptest.NewRecorder()
	c, _ := adminContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/attendance", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Mark(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, attRepo.stored)
}

func TestAttendanceHandlerMarkInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _, _ := newAttendanceHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := adminContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/attendance", bytes.NewBufferString(`{"player_id"`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Mark(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceHandlerBulkMark(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, attRepo, trainingRepo, playerRepo := newAttendanceHandlerFixture()
	secondPlayerID := "22222222-2222-2222-2222-222222222222"
	playerRepo.players[handlerPlayerID] = &models.PlayerDetail{
		PlayerProfile: models.PlayerProfile{ID: handlerPlayerID},
	}
	playerRepo.players[secondPlayerID] = &models.PlayerDetail{
		PlayerProfile: models.PlayerProfile{ID: secondPlayerID},
	}
	trainingRepo.trainings[handlerTrainingID] = &models.TrainingSession{
		ID:    handlerTrainingID,
		Fecha: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
	}

	body, _ := json.Marshal(map[string]any{
		"entrenamiento_id": handlerTrainingID,
		"records": []map[string]string{
			{"player_id": handlerPlayerID, "estado": "Presente"},
			{"player_id": secondPlayerID, "estado": "Ausente"},
		},
	})
	w := httptest.NewRecorder()
	c, _ := adminContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/attendance/bulk", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.BulkMark(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data []models.AttendanceDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, models.AttendancePresent, envelope.Data[0].Estado)
	assert.Equal(t, models.AttendanceAbsent, envelope.Data[1].Estado)
	require.NotNil(t, attRepo.stored)
	assert.Equal(t, secondPlayerID, attRepo.stored.PlayerID)
}
