package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go_rates_converter/internal/config"
	"go_rates_converter/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Сессия не найдена
var ErrSessionNotFound = errors.New("session not found")

// Соединение с базой данных
type DB struct {
	conn   *sql.DB
	logger *logrus.Logger
}

// Создаём новое соединение с базой данных
func New(cfg *config.DatabaseConfig, logger *logrus.Logger) (*DB, error) {
	conn, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := NewWithConn(conn, logger)

	// Создаем таблицы
	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// NewWithConn оборачивает уже открытое соединение
func NewWithConn(conn *sql.DB, logger *logrus.Logger) *DB {
	return &DB{
		conn:   conn,
		logger: logger,
	}
}

// DSN собирает строку подключения для lib/pq
func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// Закрываем соединение с базой данных
func (db *DB) Close() error {
	return db.conn.Close()
}

// Создаём необходимые таблицы
func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id VARCHAR(36) PRIMARY KEY,
			base_currency VARCHAR(10) NOT NULL,
			currency_order TEXT[] NOT NULL,
			active_amount NUMERIC NOT NULL DEFAULT 0,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_base_updated ON sessions(base_currency, updated_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// SaveSession создаёт или обновляет сессию. Пустой ID заменяется новым UUID.
func (db *DB) SaveSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	} else if _, err := uuid.Parse(session.ID); err != nil {
		return fmt.Errorf("invalid session id %q: %w", session.ID, err)
	}
	if session.ActiveAmount.IsNegative() {
		session.ActiveAmount = decimal.Zero
	}
	session.UpdatedAt = time.Now()

	query := `INSERT INTO sessions (id, base_currency, currency_order, active_amount, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (id)
			  DO UPDATE SET base_currency = $2, currency_order = $3, active_amount = $4, updated_at = $5`

	_, err := db.conn.ExecContext(ctx, query,
		session.ID, session.BaseCurrency, pq.Array(session.Order), session.ActiveAmount, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	db.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"active":     firstCode(session.Order),
	}).Debug("Session saved")

	return nil
}

// LoadSession возвращает сессию по ID
func (db *DB) LoadSession(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT id, base_currency, currency_order, active_amount, updated_at FROM sessions WHERE id = $1`
	return db.scanSession(db.conn.QueryRowContext(ctx, query, id))
}

// LatestSession возвращает последнюю сохранённую сессию для базовой валюты
func (db *DB) LatestSession(ctx context.Context, base string) (*models.Session, error) {
	query := `SELECT id, base_currency, currency_order, active_amount, updated_at
			  FROM sessions
			  WHERE base_currency = $1
			  ORDER BY updated_at DESC
			  LIMIT 1`
	return db.scanSession(db.conn.QueryRowContext(ctx, query, strings.ToUpper(base)))
}

func (db *DB) scanSession(row *sql.Row) (*models.Session, error) {
	session := &models.Session{}
	var order pq.StringArray

	err := row.Scan(&session.ID, &session.BaseCurrency, &order, &session.ActiveAmount, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	session.Order = []string(order)

	return session, nil
}

func firstCode(order []string) string {
	if len(order) == 0 {
		return ""
	}
	return order[0]
}
