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
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/storage"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// MemoryPath keeps everything in memory; any other path has its parent
// directories created. Migrations run automatically.
func New(dbPath string) (*SQLiteStore, error) {
	if !isMemory(dbPath) {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database, and PRAGMAs are
	// per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func isMemory(path string) bool {
	return path == MemoryPath || strings.HasPrefix(path, "file::memory:")
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession persists a new session to the database.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().Unix()
	}
	if session.UpdatedAt == 0 {
		session.UpdatedAt = session.CreatedAt
	}

	result, err := encodeResult(session.Result)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO sessions (id, mode, total_amount, people_count, result, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		session.ID, session.Mode, session.TotalAmount, session.PeopleCount, result, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := insertPeople(ctx, tx, session); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID, including people, items and result.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	var result sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, mode, total_amount, people_count, result, created_at, updated_at FROM sessions WHERE id = ?",
		sessionID,
	).Scan(&session.ID, &session.Mode, &session.TotalAmount, &session.PeopleCount, &result, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if result.Valid {
		session.Result = &models.Result{}
		if err := json.Unmarshal([]byte(result.String), session.Result); err != nil {
			return nil, fmt.Errorf("failed to decode result: %w", err)
		}
	}

	// Get people
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM people WHERE session_id = ? ORDER BY position",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get people: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		session.People = append(session.People, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}
	rows.Close()

	// Get items for each person
	for i := range session.People {
		p := &session.People[i]
		itemRows, err := s.db.QueryContext(ctx,
			"SELECT id, name, amount FROM items WHERE person_id = ? ORDER BY position",
			p.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get items: %w", err)
		}

		for itemRows.Next() {
			var item models.Item
			if err := itemRows.Scan(&item.ID, &item.Name, &item.Amount); err != nil {
				itemRows.Close()
				return nil, fmt.Errorf("failed to scan item: %w", err)
			}
			p.Items = append(p.Items, item)
		}
		itemRows.Close()
		if err := itemRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate items: %w", err)
		}
	}

	return session, nil
}

// UpdateSession replaces the stored fields, people, items and result of a session.
func (s *SQLiteStore) UpdateSession(ctx context.Context, session *models.Session) error {
	if session.UpdatedAt == 0 {
		session.UpdatedAt = time.Now().Unix()
	}

	result, err := encodeResult(session.Result)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE sessions SET mode = ?, total_amount = ?, people_count = ?, result = ?, updated_at = ? WHERE id = ?",
		session.Mode, session.TotalAmount, session.PeopleCount, result, session.UpdatedAt, session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, session.ID)
	}

	// Items go with their people through ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, "DELETE FROM people WHERE session_id = ?", session.ID); err != nil {
		return fmt.Errorf("failed to clear people: %w", err)
	}

	if err := insertPeople(ctx, tx, session); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteSession removes a session, its people and their items.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, sessionID)
	}
	return nil
}

// DeleteSessionsCreatedBefore removes sessions created before cutoff. People
// and items go with them through ON DELETE CASCADE.
func (s *SQLiteStore) DeleteSessionsCreatedBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check deleted rows: %w", err)
	}
	return n, nil
}

func insertPeople(ctx context.Context, tx *sql.Tx, session *models.Session) error {
	for i := range session.People {
		p := &session.People[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO people (id, session_id, position, name) VALUES (?, ?, ?, ?)",
			p.ID, session.ID, i, p.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}

		for j := range p.Items {
			item := &p.Items[j]
			if item.ID == "" {
				item.ID = uuid.New().String()
			}

			_, err = tx.ExecContext(ctx,
				"INSERT INTO items (id, person_id, position, name, amount) VALUES (?, ?, ?, ?, ?)",
				item.ID, p.ID, j, item.Name, item.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item: %w", err)
			}
		}
	}
	return nil
}

func encodeResult(r *models.Result) (sql.NullString, error) {
	if r == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode result: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
