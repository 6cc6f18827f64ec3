// Package server exposes the gateway over HTTP with gin.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"drawboard/gateway"
	"drawboard/store"
	"drawboard/transport"
)

// History reads a room's stored events.
type History interface {
	ListRecent(ctx context.Context, roomID string, limit int) ([]store.Event, error)
}

type Server struct {
	gateway      *gateway.Gateway
	history      History
	historyLimit int
	transport    transport.Options
	upgrader     websocket.Upgrader
}

func New(gw *gateway.Gateway, history History, historyLimit int, opts transport.Options) *Server {
	if historyLimit <= 0 {
		historyLimit = store.DefaultHistoryLimit
	}
	return &Server{
		gateway:      gw,
		history:      history,
		historyLimit: historyLimit,
		transport:    opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the gin engine with every route mounted.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ws", s.handleWebSocket)
	r.GET("/health", handleHealth)
	r.GET("/stats", s.handleStats)
	r.GET("/rooms/:roomId/events", s.handleEvents)
	return r
}

// connHandler forwards transport callbacks to the gateway for one session.
type connHandler struct {
	gateway *gateway.Gateway
	session *gateway.Session
}

func (h connHandler) OnMessage(data []byte) { h.gateway.HandleMessage(h.session, data) }
func (h connHandler) OnPong()               { h.gateway.Pong(h.session) }
func (h connHandler) OnClose()              { h.gateway.Disconnect(h.session) }

func (s *Server) handleWebSocket(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade error", "error", err)
		return
	}

	conn := transport.NewConn(ws, s.transport)
	session, err := s.gateway.Connect(c.Request.Context(), c.Query("token"), conn)
	if err != nil {
		return
	}
	conn.Serve(connHandler{gateway: s.gateway, session: session})
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStats(c *gin.Context) {
	rooms, conns, err := s.gateway.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms, "connections": conns})
}

func (s *Server) handleEvents(c *gin.Context) {
	limit := s.historyLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, s.historyLimit)
	}

	events, err := s.history.ListRecent(c.Request.Context(), c.Param("roomId"), limit)
	if err != nil {
		slog.Error("list events", "roomId", c.Param("roomId"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
