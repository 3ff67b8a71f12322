package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubatlas/club-adm-api/internal/models"
)

func newAttendanceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositoryListFiltersByPlayer(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	trainingID := "training-1"
	rows := sqlmock.NewRows([]string{"id", "player_id", "estado", "fecha", "entrenamiento_id", "evento_id", "created_at", "updated_at", "player_nombre", "player_apellido", "categoria"}).
		AddRow("att-1", "player-1", models.AttendancePresent, time.Now(), trainingID, nil, time.Now(), time.Now(), "Lucía", "Pérez", nil)
	mock.ExpectQuery("SELECT (.+) FROM asistencias a").
		WithArgs("player-1").
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.AttendanceFilter{PlayerID: "player-1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.AttendancePresent, records[0].Estado)
	require.NotNil(t, records[0].EntrenamientoID)
	assert.Equal(t, trainingID, *records[0].EntrenamientoID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertTrainingTarget(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO asistencias.+ON CONFLICT \(player_id, entrenamiento_id\) WHERE entrenamiento_id IS NOT NULL`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("att-1"))

	trainingID := "training-1"
	record := &models.AttendanceRecord{
		PlayerID:        "player-1",
		Estado:          models.AttendanceAbsent,
		Fecha:           time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		EntrenamientoID: &trainingID,
	}
	stored, err := repo.Upsert(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "att-1", stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertEventTarget(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO asistencias.+ON CONFLICT \(player_id, evento_id\) WHERE evento_id IS NOT NULL`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("att-2"))

	eventID := "event-1"
	record := &models.AttendanceRecord{
		PlayerID: "player-1",
		Estado:   models.AttendancePresent,
		Fecha:    time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC),
		EventoID: &eventID,
	}
	stored, err := repo.Upsert(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "att-2", stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertKeepsExistingRowID(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO asistencias.+ON CONFLICT \(player_id, entrenamiento_id\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("att-original"))

	trainingID := "training-1"
	record := &models.AttendanceRecord{
		PlayerID:        "player-1",
		Estado:          models.AttendancePresent,
		Fecha:           time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		EntrenamientoID: &trainingID,
	}
	stored, err := repo.Upsert(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "att-original", stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM asistencias WHERE id = $1")).
		WithArgs("att-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "att-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
