package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubatlas/club-adm-api/internal/models"
)

func newCertificateMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func certificateRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "player_id", "tipo", "fecha_emision", "fecha_vencimiento", "url", "created_at", "player_nombre", "player_apellido", "documento"})
}

func TestCertificateRepositoryListFiltersByTipo(t *testing.T) {
	db, mock, cleanup := newCertificateMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	tipo := models.CertificateIntegration
	rows := certificateRows().
		AddRow("cert-1", "player-1", tipo, time.Now(), time.Now().AddDate(0, 6, 0), nil, time.Now(), "Lucía", "Pérez", "12345678")
	mock.ExpectQuery("SELECT (.+) FROM certificados c").
		WithArgs(tipo).
		WillReturnRows(rows)

	certs, err := repo.List(context.Background(), models.CertificateFilter{Tipo: &tipo})
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, models.CertificateIntegration, certs[0].Tipo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryExpiringWithin(t *testing.T) {
	db, mock, cleanup := newCertificateMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM certificados c").
		WithArgs(from, from.AddDate(0, 0, 30)).
		WillReturnRows(certificateRows())

	certs, err := repo.ExpiringWithin(context.Background(), from, 30)
	require.NoError(t, err)
	assert.Empty(t, certs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newCertificateMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectExec("INSERT INTO certificados").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	cert := &models.Certificate{
		PlayerID:         "player-1",
		Tipo:             models.CertificateAttendance,
		FechaEmision:     time.Now().UTC(),
		FechaVencimiento: time.Now().UTC().AddDate(1, 0, 0),
	}
	err := repo.Create(context.Background(), cert)
	require.NoError(t, err)
	assert.NotEmpty(t, cert.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
