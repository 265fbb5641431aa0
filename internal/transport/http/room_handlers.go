package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wireboard/wireboard-server/internal/board"
	"github.com/wireboard/wireboard-server/internal/store"
)

// RoomHandlers provides HTTP handlers for room lifecycle and board snapshots.
type RoomHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(st store.Store, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		store: st,
		log:   logger,
	}
}

// CreateRoomRequest represents the create room request body.
type CreateRoomRequest struct {
	OwnerID string `json:"ownerId" binding:"required"`
}

// CreateRoomResponse represents the create room response body.
type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}

// RoomPayload is the room with its persisted board snapshot.
type RoomPayload struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"ownerId"`
	StageLines    []board.Line    `json:"stage_lines"`
	StageEllipses []board.Ellipse `json:"stage_ellipses"`
	StageTexts    []board.Text    `json:"stage_texts"`
}

// RoomResponse wraps a room payload.
type RoomResponse struct {
	Room RoomPayload `json:"room"`
}

// SaveRoomRequest represents the save board request body.
type SaveRoomRequest struct {
	RoomID        string          `json:"roomId" binding:"required"`
	OwnerID       string          `json:"ownerId" binding:"required"`
	BoardLines    []board.Line    `json:"boardLines"`
	BoardEllipses []board.Ellipse `json:"boardEllipses"`
	BoardTexts    []board.Text    `json:"boardTexts"`
}

// MessageResponse carries a human-readable status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateRoom creates a room for the owner, or returns the owner's existing
// room.
// POST /room
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	room, err := h.store.CreateRoom(c.Request.Context(), req.OwnerID)
	if err != nil {
		h.log.Error().Err(err).Str("owner_id", req.OwnerID).Msg("failed to create room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("room_id", room.ID).Str("owner_id", room.OwnerID).Msg("room created")
	c.JSON(http.StatusCreated, CreateRoomResponse{RoomID: room.ID})
}

// GetRoom returns a room and its persisted board snapshot, looked up by
// roomId or by ownerId.
// GET /room?roomId=... | GET /room?ownerId=...
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	roomID := c.Query("roomId")
	ownerID := c.Query("ownerId")
	if roomID == "" && ownerID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "roomId or ownerId is required"})
		return
	}

	var (
		room *store.Room
		err  error
	)
	if roomID != "" {
		room, err = h.store.GetRoomByID(c.Request.Context(), roomID)
	} else {
		room, err = h.store.GetRoomByOwnerID(c.Request.Context(), ownerID)
	}
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to get room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	snap, err := h.store.LoadBoard(c.Request.Context(), room.ID)
	if err != nil {
		h.log.Error().Err(err).Str("room_id", room.ID).Msg("failed to load board")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, RoomResponse{Room: RoomPayload{
		ID:            room.ID,
		OwnerID:       room.OwnerID,
		StageLines:    snap.Lines,
		StageEllipses: snap.Ellipses,
		StageTexts:    snap.Texts,
	}})
}

// SaveRoom replaces the room's persisted snapshot. Only the owner may save;
// the save is explicit and user-triggered, never automatic.
// PUT /room
func (h *RoomHandlers) SaveRoom(c *gin.Context) {
	var req SaveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid save room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	snap := board.Snapshot{
		Lines:    req.BoardLines,
		Ellipses: req.BoardEllipses,
		Texts:    req.BoardTexts,
	}
	err := h.store.SaveBoard(c.Request.Context(), req.RoomID, req.OwnerID, snap)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		case errors.Is(err, store.ErrNotOwner):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "only the room owner may save"})
		default:
			h.log.Error().Err(err).Str("room_id", req.RoomID).Msg("failed to save board")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	h.log.Info().
		Str("room_id", req.RoomID).
		Int("lines", len(req.BoardLines)).
		Int("ellipses", len(req.BoardEllipses)).
		Int("texts", len(req.BoardTexts)).
		Msg("board saved")
	c.JSON(http.StatusOK, MessageResponse{Message: "board saved"})
}
