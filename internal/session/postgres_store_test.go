package session

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landmark-estates/landmark-web/internal/domain"
)

func newMockPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, time.Time) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewPostgresStore(db, time.Hour)
	store.now = func() time.Time { return now }
	return store, mock, now
}

func TestPostgresStore_Save(t *testing.T) {
	store, mock, now := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO web_sessions`).
		WithArgs("sid", sqlmock.AnyArg(), now.Add(time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Save(context.Background(), "sid", &Credentials{AccessToken: "a", RefreshToken: "r"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Load(t *testing.T) {
	store, mock, now := newMockPostgresStore(t)

	rows := sqlmock.NewRows([]string{"credentials"}).
		AddRow([]byte(`{"user":{"id":"u1","role":"admin"},"token":"a","refreshToken":"r"}`))
	mock.ExpectQuery(`SELECT credentials\s+FROM web_sessions`).
		WithArgs("sid", now).
		WillReturnRows(rows)

	creds, err := store.Load(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, "a", creds.AccessToken)
	assert.Equal(t, "r", creds.RefreshToken)
	assert.Equal(t, domain.RoleAdmin, creds.User.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadMissing(t *testing.T) {
	store, mock, _ := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT credentials`).WillReturnError(sql.ErrNoRows)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteAndPurge(t *testing.T) {
	store, mock, now := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM web_sessions WHERE id = \$1`).
		WithArgs("sid").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM web_sessions WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, store.Delete(context.Background(), "sid"))
	n, err := store.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
