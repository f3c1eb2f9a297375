package database

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"go_rates_converter/internal/config"
	"go_rates_converter/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "db",
		Port:     "5433",
		User:     "converter",
		Password: "secret",
		DBName:   "rates_converter",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5433 user=converter password=secret dbname=rates_converter sslmode=disable", DSN(cfg))
}

func TestSaveSessionRejectsInvalidID(t *testing.T) {
	db := NewWithConn(nil, logrus.New())

	err := db.SaveSession(context.Background(), &models.Session{ID: "not-a-uuid", BaseCurrency: "EUR"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid session id")
}

func TestFirstCode(t *testing.T) {
	assert.Equal(t, "", firstCode(nil))
	assert.Equal(t, "USD", firstCode([]string{"USD", "EUR"}))
}

// Интеграционный тест; требует PostgreSQL в TEST_DATABASE_DSN
func TestSessionRoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	conn, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	db := NewWithConn(conn, logrus.New())
	defer db.Close()
	require.NoError(t, db.createTables())

	ctx := context.Background()
	session := &models.Session{
		BaseCurrency: "EUR",
		Order:        []string{"USD", "EUR", "PLN"},
		ActiveAmount: decimal.RequireFromString("12.5"),
	}
	require.NoError(t, db.SaveSession(ctx, session))
	_, err = uuid.Parse(session.ID)
	require.NoError(t, err)

	loaded, err := db.LoadSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Order, loaded.Order)
	assert.True(t, session.ActiveAmount.Equal(loaded.ActiveAmount))

	latest, err := db.LatestSession(ctx, "eur")
	require.NoError(t, err)
	assert.Equal(t, session.ID, latest.ID)

	_, err = db.LoadSession(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
