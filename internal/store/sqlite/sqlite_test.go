package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/wireboard/wireboard-server/internal/board"
	"github.com/wireboard/wireboard-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateUserIdempotentByUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateUser(ctx, "alice")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if first.ID == "" || first.Username != "alice" {
		t.Fatalf("unexpected user: %+v", first)
	}

	second, err := s.CreateUser(ctx, "alice")
	if err != nil {
		t.Fatalf("create user again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same user on repeat registration, got %s and %s", first.ID, second.ID)
	}

	got, err := s.GetUserByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("unexpected username: %s", got.Username)
	}
}

func TestGetUserByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUserByID(context.Background(), "missing")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateRoomReturnsOwnersExistingRoom(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, "alice")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	first, err := s.CreateRoom(ctx, owner.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	second, err := s.CreateRoom(ctx, owner.ID)
	if err != nil {
		t.Fatalf("create room again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected owner's existing room, got %s and %s", first.ID, second.ID)
	}

	byOwner, err := s.GetRoomByOwnerID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("get room by owner: %v", err)
	}
	if byOwner.ID != first.ID {
		t.Fatalf("unexpected room by owner: %+v", byOwner)
	}
}

func TestGetRoomNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetRoomByID(ctx, "missing"); !errors.Is(err, store.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if _, err := s.GetRoomByOwnerID(ctx, "missing"); !errors.Is(err, store.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestSaveLoadBoardRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, "alice")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	room, err := s.CreateRoom(ctx, owner.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	// A never-saved room loads as empty collections, not an error.
	empty, err := s.LoadBoard(ctx, room.ID)
	if err != nil {
		t.Fatalf("load empty board: %v", err)
	}
	if len(empty.Lines) != 0 || len(empty.Ellipses) != 0 || len(empty.Texts) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", empty)
	}

	snap := board.Snapshot{
		Lines: []board.Line{
			{ID: "l1", Points: []float64{0, 0, 5, 5, 10, 10}, Stroke: "black", StrokeWidth: 4},
		},
		Ellipses: []board.Ellipse{
			{ID: "e1", X: 120, Y: 130, RadiusX: 20, RadiusY: 30, Stroke: "red", StrokeWidth: 2},
		},
		Texts: []board.Text{
			{ID: "t1", X: 10, Y: 20, Text: "hi", FontSize: 22, Fill: "black"},
		},
	}
	if err := s.SaveBoard(ctx, room.ID, owner.ID, snap); err != nil {
		t.Fatalf("save board: %v", err)
	}

	got, err := s.LoadBoard(ctx, room.ID)
	if err != nil {
		t.Fatalf("load board: %v", err)
	}
	if len(got.Lines) != 1 || got.Lines[0].ID != "l1" || got.Lines[0].StrokeWidth != 4 {
		t.Fatalf("lines did not round trip: %+v", got.Lines)
	}
	if len(got.Ellipses) != 1 || got.Ellipses[0].RadiusY != 30 {
		t.Fatalf("ellipses did not round trip: %+v", got.Ellipses)
	}
	if len(got.Texts) != 1 || got.Texts[0].Text != "hi" {
		t.Fatalf("texts did not round trip: %+v", got.Texts)
	}

	// A second save replaces the snapshot wholesale.
	if err := s.SaveBoard(ctx, room.ID, owner.ID, board.Snapshot{}); err != nil {
		t.Fatalf("save empty board: %v", err)
	}
	got, err = s.LoadBoard(ctx, room.ID)
	if err != nil {
		t.Fatalf("reload board: %v", err)
	}
	if len(got.Lines) != 0 {
		t.Fatalf("expected wholesale replacement, got %+v", got.Lines)
	}
}

func TestSaveBoardOwnershipGate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, "alice")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	intruder, err := s.CreateUser(ctx, "mallory")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	room, err := s.CreateRoom(ctx, owner.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	snap := board.Snapshot{
		Lines: []board.Line{{ID: "l1", Points: []float64{0, 0, 1, 1}}},
	}
	if err := s.SaveBoard(ctx, room.ID, owner.ID, snap); err != nil {
		t.Fatalf("save board: %v", err)
	}

	// A non-owner save is rejected and leaves the snapshot untouched.
	err = s.SaveBoard(ctx, room.ID, intruder.ID, board.Snapshot{})
	if !errors.Is(err, store.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	got, err := s.LoadBoard(ctx, room.ID)
	if err != nil {
		t.Fatalf("load board: %v", err)
	}
	if len(got.Lines) != 1 {
		t.Fatalf("snapshot changed by rejected save: %+v", got)
	}

	// Saving into a missing room reports the room, not ownership.
	err = s.SaveBoard(ctx, "missing", owner.ID, snap)
	if !errors.Is(err, store.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}
