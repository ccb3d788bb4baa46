package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/finsent/newsradar/pkg/logger"
)

// statusPushInterval paces the websocket status stream.
const statusPushInterval = time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the HTTP API is origin-agnostic; so is the stream
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleStatusWS streams pipeline status snapshots to the client about
// once per second until the client disconnects.
func (s *Server) handleStatusWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// drain client frames so close messages are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(statusPushInterval)
	defer ticker.Stop()

	// push immediately, then on every tick
	for {
		if err := conn.WriteJSON(s.controller.Status()); err != nil {
			return
		}

		select {
		case <-ticker.C:
		case <-c.Request.Context().Done():
			return
		}
	}
}
