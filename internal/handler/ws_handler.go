package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/merolabs/meroview-backend/internal/service"
)

const (
	streamTickInterval = 3 * time.Second
	streamWriteTimeout = 5 * time.Second
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live exam state over WebSocket, a push-mode
// alternative to polling GET /live. Each pushed frame is one tick, so an
// attached stream drives the simulation exactly like a polling client.
type WSHandler struct {
	liveService *service.LiveService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a WSHandler.
func NewWSHandler(liveService *service.LiveService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		liveService: liveService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// LiveStream godoc
// GET /api/v1/live/stream (WebSocket)
func (h *WSHandler) LiveStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	h.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("Live stream attached")

	// Reader goroutine: we never expect client frames, but reading is what
	// surfaces close frames and connection loss.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Initial frame without waiting for the first tick interval.
	if !h.pushTick(conn) {
		return
	}

	ticker := time.NewTicker(streamTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			h.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("Live stream detached")
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			if !h.pushTick(conn) {
				return
			}
		}
	}
}

// pushTick advances the simulation and writes one frame. Returns false
// when the stream should end.
func (h *WSHandler) pushTick(conn *websocket.Conn) bool {
	state, err := h.liveService.Tick()
	if err != nil {
		h.log.Error().Err(err).Msg("Dropping live stream after invalid state")
		return false
	}

	conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := conn.WriteJSON(state); err != nil {
		return false
	}
	return true
}
