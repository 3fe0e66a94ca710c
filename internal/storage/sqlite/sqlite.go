// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/rothsim/internal/storage"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure Go driver, no cgo
)

var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (creating if needed) the database at dbPath and runs migrations.
// ":memory:" gives a private in-memory database.
func New(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps :memory: databases shared and serializes writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveScenario inserts or replaces a scenario
func (s *SQLiteStore) SaveScenario(ctx context.Context, sc *storage.SavedScenario) error {
	now := s.now().UTC()
	if sc.ID == "" {
		sc.ID = uuid.New().String()
	}
	if sc.Name == "" {
		sc.Name = sc.Scenario.Name
	}
	if sc.Name == "" {
		sc.Name = "Untitled " + now.Format("2006-01-02 15:04")
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = now
	}
	sc.UpdatedAt = now

	body, err := json.Marshal(sc.Scenario)
	if err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scenarios (id, name, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		sc.ID, sc.Name, string(body), sc.CreatedAt.UnixNano(), sc.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save scenario: %w", err)
	}
	return nil
}

// GetScenario retrieves a scenario by ID
func (s *SQLiteStore) GetScenario(ctx context.Context, id string) (*storage.SavedScenario, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, body, created_at, updated_at FROM scenarios WHERE id = ?", id)
	sc, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scenario %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}
	return sc, nil
}

// ListScenarios returns all scenarios, most recently updated first
func (s *SQLiteStore) ListScenarios(ctx context.Context) ([]storage.SavedScenario, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, body, created_at, updated_at FROM scenarios ORDER BY updated_at DESC, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	out := []storage.SavedScenario{}
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		out = append(out, *sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scenarios: %w", err)
	}
	return out, nil
}

// DeleteScenario removes a scenario; its runs cascade
func (s *SQLiteStore) DeleteScenario(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("scenario %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// RecordRun appends a run to the history
func (s *SQLiteStore) RecordRun(ctx context.Context, r *storage.RunRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}
	summary, err := json.Marshal(r.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	var scenarioID any
	if r.ScenarioID != "" {
		scenarioID = r.ScenarioID
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario_id, kind, label, final_tanw, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, scenarioID, string(r.Kind), r.Label, r.FinalTANW.String(), string(summary), r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// ListRuns returns runs newest first. limit <= 0 means no limit.
func (s *SQLiteStore) ListRuns(ctx context.Context, scenarioID string, limit int) ([]storage.RunRecord, error) {
	query := "SELECT id, scenario_id, kind, label, final_tanw, summary, created_at FROM runs"
	var args []any
	if scenarioID != "" {
		query += " WHERE scenario_id = ?"
		args = append(args, scenarioID)
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	out := []storage.RunRecord{}
	for rows.Next() {
		var (
			r          storage.RunRecord
			scenarioID sql.NullString
			kind       string
			tanw       string
			summary    string
			created    int64
		)
		if err := rows.Scan(&r.ID, &scenarioID, &kind, &r.Label, &tanw, &summary, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.ScenarioID = scenarioID.String
		r.Kind = storage.RunKind(kind)
		if r.FinalTANW, err = decimal.NewFromString(tanw); err != nil {
			return nil, fmt.Errorf("run %s: bad TANW %q: %w", r.ID, tanw, err)
		}
		if err := json.Unmarshal([]byte(summary), &r.Summary); err != nil {
			return nil, fmt.Errorf("run %s: failed to decode summary: %w", r.ID, err)
		}
		r.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScenario(row scanner) (*storage.SavedScenario, error) {
	var (
		sc      storage.SavedScenario
		body    string
		created int64
		updated int64
	)
	if err := row.Scan(&sc.ID, &sc.Name, &body, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(body), &sc.Scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: failed to decode body: %w", sc.ID, err)
	}
	sc.CreatedAt = time.Unix(0, created).UTC()
	sc.UpdatedAt = time.Unix(0, updated).UTC()
	return &sc, nil
}
