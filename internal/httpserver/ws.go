package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tinytelemetry/bitrunner/internal/model"
)

const (
	streamWriteWait  = 5 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamMessage is one frame pushed to websocket viewers.
type StreamMessage struct {
	Type   string        `json:"type"`
	Player *model.Player `json:"player,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// handleStream upgrades to a websocket and pushes an overview frame on
// connect and after every broadcast.
func (s *Server) handleStream(c *gin.Context) {
	if s.notifier == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "live stream is disabled"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("httpserver: websocket upgrade: %v", err)
		return
	}

	s.streams.Add(1)
	defer s.streams.Done()

	// Coalesce bursts of broadcasts into one pending frame.
	signal := make(chan struct{}, 1)
	unsubscribe := s.notifier.Subscribe(func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	go s.streamReader(conn, cancel)

	s.streamWriter(ctx, conn, signal)
}

// streamReader drains client frames so pongs and close frames are processed.
func (s *Server) streamReader(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) streamWriter(ctx context.Context, conn *websocket.Conn, signal <-chan struct{}) {
	defer conn.Close()

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	if !s.sendOverview(ctx, conn) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping"),
				time.Now().Add(streamWriteWait))
			return
		case <-signal:
			if !s.sendOverview(ctx, conn) {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) sendOverview(ctx context.Context, conn *websocket.Conn) bool {
	msg := StreamMessage{Type: "overview"}
	p, err := s.game.Snapshot(ctx)
	if err != nil {
		msg = StreamMessage{Type: "error", Error: err.Error()}
	} else {
		msg.Player = &p
	}
	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(msg) == nil
}
