package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wireboard/wireboard-server/internal/board"
	"github.com/wireboard/wireboard-server/internal/store"
	"github.com/wireboard/wireboard-server/internal/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	user_name  TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS rooms (
	id             TEXT PRIMARY KEY,
	owner_id       TEXT NOT NULL REFERENCES users(id),
	stage_lines    TEXT NOT NULL DEFAULT '[]',
	stage_ellipses TEXT NOT NULL DEFAULT '[]',
	stage_texts    TEXT NOT NULL DEFAULT '[]',
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_rooms_owner ON rooms(owner_id);
`

// SQLiteStore implements store.Store for SQLite. Board snapshots are stored
// as JSON text columns, one per shape collection, and replaced wholesale on
// every save.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a SQLite store at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a SQLite store and runs a setup function. Useful for
// tests that need a custom schema or seed data.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single writer connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser registers a username, returning the existing user when the name
// is already registered.
func (s *SQLiteStore) CreateUser(ctx context.Context, username string) (*store.User, error) {
	existing, err := s.getUserByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	id := utils.NewID()
	query := `INSERT INTO users (id, user_name) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, query, id, username); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by id.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*store.User, error) {
	query := `SELECT id, user_name, created_at FROM users WHERE id = ?`

	var user store.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

func (s *SQLiteStore) getUserByUsername(ctx context.Context, username string) (*store.User, error) {
	query := `SELECT id, user_name, created_at FROM users WHERE user_name = ?`

	var user store.User
	err := s.db.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// ==== RoomStore implementation ====

// CreateRoom creates a room owned by ownerID, or returns the owner's
// existing room.
func (s *SQLiteStore) CreateRoom(ctx context.Context, ownerID string) (*store.Room, error) {
	existing, err := s.GetRoomByOwnerID(ctx, ownerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrRoomNotFound) {
		return nil, err
	}

	id := utils.NewID()
	query := `INSERT INTO rooms (id, owner_id) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, query, id, ownerID); err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}

	return s.GetRoomByID(ctx, id)
}

// GetRoomByID retrieves a room by id.
func (s *SQLiteStore) GetRoomByID(ctx context.Context, id string) (*store.Room, error) {
	query := `SELECT id, owner_id, created_at FROM rooms WHERE id = ?`

	var room store.Room
	err := s.db.QueryRowContext(ctx, query, id).Scan(&room.ID, &room.OwnerID, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRoomNotFound
		}
		return nil, fmt.Errorf("query room: %w", err)
	}

	return &room, nil
}

// GetRoomByOwnerID retrieves the room owned by ownerID.
func (s *SQLiteStore) GetRoomByOwnerID(ctx context.Context, ownerID string) (*store.Room, error) {
	query := `SELECT id, owner_id, created_at FROM rooms WHERE owner_id = ? ORDER BY created_at LIMIT 1`

	var room store.Room
	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&room.ID, &room.OwnerID, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRoomNotFound
		}
		return nil, fmt.Errorf("query room by owner: %w", err)
	}

	return &room, nil
}

// LoadBoard returns the room's last saved snapshot, or empty collections if
// the room was never saved.
func (s *SQLiteStore) LoadBoard(ctx context.Context, roomID string) (board.Snapshot, error) {
	query := `SELECT stage_lines, stage_ellipses, stage_texts FROM rooms WHERE id = ?`

	var rawLines, rawEllipses, rawTexts string
	err := s.db.QueryRowContext(ctx, query, roomID).Scan(&rawLines, &rawEllipses, &rawTexts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return board.Snapshot{}, store.ErrRoomNotFound
		}
		return board.Snapshot{}, fmt.Errorf("query board: %w", err)
	}

	var snap board.Snapshot
	if err := json.Unmarshal([]byte(rawLines), &snap.Lines); err != nil {
		return board.Snapshot{}, fmt.Errorf("unmarshal lines: %w", err)
	}
	if err := json.Unmarshal([]byte(rawEllipses), &snap.Ellipses); err != nil {
		return board.Snapshot{}, fmt.Errorf("unmarshal ellipses: %w", err)
	}
	if err := json.Unmarshal([]byte(rawTexts), &snap.Texts); err != nil {
		return board.Snapshot{}, fmt.Errorf("unmarshal texts: %w", err)
	}

	return snap, nil
}

// SaveBoard replaces the room's snapshot wholesale, gated on ownership.
func (s *SQLiteStore) SaveBoard(ctx context.Context, roomID, ownerID string, snap board.Snapshot) error {
	rawLines, err := json.Marshal(snap.Lines)
	if err != nil {
		return fmt.Errorf("marshal lines: %w", err)
	}
	rawEllipses, err := json.Marshal(snap.Ellipses)
	if err != nil {
		return fmt.Errorf("marshal ellipses: %w", err)
	}
	rawTexts, err := json.Marshal(snap.Texts)
	if err != nil {
		return fmt.Errorf("marshal texts: %w", err)
	}

	query := `
		UPDATE rooms
		SET stage_lines = ?, stage_ellipses = ?, stage_texts = ?
		WHERE id = ? AND owner_id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		string(rawLines), string(rawEllipses), string(rawTexts), roomID, ownerID)
	if err != nil {
		return fmt.Errorf("update board: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing room from an ownership mismatch.
		if _, err := s.GetRoomByID(ctx, roomID); err != nil {
			return err
		}
		return store.ErrNotOwner
	}

	return nil
}
