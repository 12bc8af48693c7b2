package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/xaenox/study-buddy/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

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

func (s *PostgresStorage) GetOrCreate(ctx context.Context, id string) (*models.Session, error) {
	query := `
		INSERT INTO sessions (id)
		VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET last_used_at = now()
		RETURNING id, name, created_at, last_used_at`

	sess := &models.Session{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&sess.ID, &sess.Name, &sess.CreatedAt, &sess.LastUsedAt)
	if err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}
	return sess, nil
}

func (s *PostgresStorage) SetName(ctx context.Context, id, name string) error {
	query := `
		INSERT INTO sessions (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, last_used_at = now()`

	if _, err := s.db.ExecContext(ctx, query, id, name); err != nil {
		return fmt.Errorf("error setting session name: %w", err)
	}
	return nil
}

func (s *PostgresStorage) UpsertMark(ctx context.Context, id string, mark models.Mark) error {
	query := `
		INSERT INTO marks (session_id, subject, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, subject)
		DO UPDATE SET score = EXCLUDED.score, updated_at = now()`

	if _, err := s.db.ExecContext(ctx, query, id, mark.Subject, mark.Score); err != nil {
		return fmt.Errorf("error upserting mark: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Marks(ctx context.Context, id string) ([]models.Mark, error) {
	query := `
		SELECT subject, score
		FROM marks
		WHERE session_id = $1
		ORDER BY position ASC`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("error querying marks: %w", err)
	}
	defer rows.Close()

	var marks []models.Mark
	for rows.Next() {
		var m models.Mark
		if err := rows.Scan(&m.Subject, &m.Score); err != nil {
			return nil, fmt.Errorf("error scanning mark: %w", err)
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}

func (s *PostgresStorage) AppendTurn(ctx context.Context, id string, turn models.Turn) error {
	query := `
		INSERT INTO turns (id, session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query, turn.ID, id, string(turn.Role), turn.Text, turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("error appending turn: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Turns(ctx context.Context, id string) ([]models.Turn, error) {
	query := `
		SELECT id, role, content, created_at
		FROM turns
		WHERE session_id = $1
		ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("error querying turns: %w", err)
	}
	defer rows.Close()

	var turns []models.Turn
	for rows.Next() {
		var t models.Turn
		var role string
		if err := rows.Scan(&t.ID, &role, &t.Text, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning turn: %w", err)
		}
		t.Role = models.Role(role)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (s *PostgresStorage) DropOldestTurns(ctx context.Context, id string, n int) error {
	if n <= 0 {
		return nil
	}

	query := `
		DELETE FROM turns
		WHERE id IN (
			SELECT id FROM turns
			WHERE session_id = $1
			ORDER BY seq ASC
			LIMIT $2
		)`

	if _, err := s.db.ExecContext(ctx, query, id, n); err != nil {
		return fmt.Errorf("error dropping oldest turns: %w", err)
	}
	return nil
}

func (s *PostgresStorage) EvictIdle(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_used_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error evicting idle sessions: %w", err)
	}

	evicted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error getting rows affected: %w", err)
	}
	return int(evicted), nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
