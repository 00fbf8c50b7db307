package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/juntosfibro/fibrochat/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db, logger: logger}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}
	logger.Info("Database schema initialized",
		zap.String("host", config.Host),
		zap.String("dbname", config.DBName))

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) Create(ctx context.Context, ownerID, title string, turns []models.ChatTurn) (string, error) {
	payload, err := json.Marshal(turns)
	if err != nil {
		return "", fmt.Errorf("error encoding turns: %w", err)
	}

	query := `
		INSERT INTO admin_chat_sessions (user_id, title, messages)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id string
	if err := s.db.QueryRowContext(ctx, query, ownerID, title, payload).Scan(&id); err != nil {
		return "", fmt.Errorf("error creating session: %w", err)
	}
	return id, nil
}

func (s *PostgresStorage) List(ctx context.Context, ownerID string) ([]models.SessionSummary, error) {
	query := `
		SELECT id, title, created_at
		FROM admin_chat_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.SessionSummary, 0)
	for rows.Next() {
		var summary models.SessionSummary
		if err := rows.Scan(&summary.ID, &summary.Title, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning session: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func (s *PostgresStorage) Load(ctx context.Context, id string) (models.ChatSession, error) {
	query := `
		SELECT user_id, title, messages, created_at, updated_at
		FROM admin_chat_sessions
		WHERE id = $1`

	session := models.ChatSession{ID: id}
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.OwnerID,
		&session.Title,
		&payload,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ChatSession{}, models.ErrSessionNotFound
		}
		return models.ChatSession{}, fmt.Errorf("error loading session: %w", err)
	}

	if err := json.Unmarshal(payload, &session.Turns); err != nil {
		return models.ChatSession{}, fmt.Errorf("error decoding turns: %w", err)
	}
	return session, nil
}

func (s *PostgresStorage) Replace(ctx context.Context, id string, turns []models.ChatTurn, updatedAt time.Time) error {
	payload, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("error encoding turns: %w", err)
	}

	query := `
		UPDATE admin_chat_sessions
		SET messages = $1, updated_at = $2
		WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, payload, updatedAt, id)
	if err != nil {
		return fmt.Errorf("error replacing session turns: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM admin_chat_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
