package store

import (
	"context"
	"errors"
	"time"

	"github.com/wireboard/wireboard-server/internal/board"
)

var (
	// ErrUserNotFound is returned when the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoomNotFound is returned when the room does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrNotOwner is returned when a save is attempted by anyone other than
	// the room owner.
	ErrNotOwner = errors.New("not room owner")
)

// User is a registered participant. Users are created at login time and are
// not part of the synchronized document.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// Room is a collaboration session with exactly one owner and a persisted
// board snapshot. The snapshot is mutated only through SaveBoard.
type Room struct {
	ID        string
	OwnerID   string
	CreatedAt time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser registers a username, or returns the existing user if the
	// name is already taken. Registration is idempotent by username.
	CreateUser(ctx context.Context, username string) (*User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, id string) (*User, error)
}

// RoomStore handles room and snapshot persistence. It is the persistence
// gateway of the board: load and save move whole snapshots, never deltas.
type RoomStore interface {
	// CreateRoom creates a room owned by ownerID. If the owner already has a
	// room, that room is returned instead of creating a second one.
	CreateRoom(ctx context.Context, ownerID string) (*Room, error)

	// GetRoomByID retrieves a room by id.
	GetRoomByID(ctx context.Context, id string) (*Room, error)

	// GetRoomByOwnerID retrieves the room owned by ownerID.
	GetRoomByOwnerID(ctx context.Context, ownerID string) (*Room, error)

	// LoadBoard returns the room's last saved snapshot, or empty collections
	// if the room was never saved.
	LoadBoard(ctx context.Context, roomID string) (board.Snapshot, error)

	// SaveBoard replaces the room's snapshot wholesale. It fails with
	// ErrNotOwner unless ownerID matches the room's recorded owner; there is
	// no merge and no version check.
	SaveBoard(ctx context.Context, roomID, ownerID string, snap board.Snapshot) error
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	RoomStore

	// Close closes the underlying database connection.
	Close() error
}
