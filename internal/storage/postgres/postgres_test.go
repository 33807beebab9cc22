package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landmark-estates/landmark-web/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "db", Port: 5433, User: "web", Password: "pw", Name: "landmark"}
	assert.Equal(t, "host=db port=5433 user=web password=pw dbname=landmark sslmode=disable", DSN(cfg))

	cfg.SSLMode = "require"
	assert.Contains(t, DSN(cfg), "sslmode=require")
}

func TestEnsureSessionSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS web_sessions")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureSessionSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
