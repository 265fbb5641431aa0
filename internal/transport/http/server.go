package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wireboard/wireboard-server/internal/config"
	"github.com/wireboard/wireboard-server/internal/relay"
	"github.com/wireboard/wireboard-server/internal/store"
)

// NewServer builds the HTTP server: the room/user REST API consumed by board
// UIs and the /ws endpoint that feeds the relay.
func NewServer(hub relay.Relay, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	// The board client is served from a different origin; mirror the
	// relay's open-by-design posture for the API as well.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT"},
		AllowHeaders:    []string{"Content-Type"},
	}))

	roomHandlers := NewRoomHandlers(st, logger)
	userHandlers := NewUserHandlers(st, logger)

	router.GET("/health", healthHandler)
	router.POST("/room", roomHandlers.CreateRoom)
	router.GET("/room", roomHandlers.GetRoom)
	router.PUT("/room", roomHandlers.SaveRoom)
	router.POST("/user", userHandlers.CreateUser)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	fmt.Fprint(c.Writer, "ok")
}
