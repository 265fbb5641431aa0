package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wireboard/wireboard-server/internal/store"
)

// UserHandlers provides HTTP handlers for user registration.
type UserHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(st store.Store, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		store: st,
		log:   logger,
	}
}

// CreateUserRequest represents the create user request body.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=1,max=64"`
}

// UserPayload represents a user in API responses.
type UserPayload struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
}

// CreateUserResponse wraps the user payload.
type CreateUserResponse struct {
	Data UserPayload `json:"data"`
}

// CreateUser registers a username, returning the existing user when the name
// is already registered.
// POST /user
func (h *UserHandlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create user request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username is required"})
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), username)
	if err != nil {
		h.log.Error().Err(err).Str("username", username).Msg("failed to create user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, CreateUserResponse{Data: UserPayload{
		ID:       user.ID,
		UserName: user.Username,
	}})
}
