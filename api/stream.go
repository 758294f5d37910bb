package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/infra/logger"
)

const (
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

type streamer struct {
	backend  Backend
	upgrader websocket.Upgrader
	log      logger.Logger
}

func newStreamer(b Backend, log logger.Logger) *streamer {
	return &streamer{
		backend: b,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		log: log,
	}
}

// serveWS upgrades GET /api/stream and pushes every finished report as a
// JSON text frame until the client goes away.
func (s *streamer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("stream: upgrade failed: %v", err)
		return
	}
	reports, stop := s.backend.SubscribeReports()
	done := make(chan struct{})
	s.log.Infof("stream: client connected from %s", r.RemoteAddr)

	go s.readPump(conn, done)
	s.writePump(conn, reports, done)
	stop()
	_ = conn.Close()
	s.log.Infof("stream: client %s disconnected", r.RemoteAddr)
}

// writePump owns the connection writes. It returns when the subscription
// closes, a write fails or readPump signals done.
func (s *streamer) writePump(conn *websocket.Conn, reports <-chan model.Report, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case rep, ok := <-reports:
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			msg, err := json.Marshal(rep)
			if err != nil {
				s.log.Warnf("stream: marshal report %s: %v", rep.ID, err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.log.Warnf("stream: write error: %v", err)
				return
			}
		case <-done:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump keeps the deadline fresh on pongs and signals done once the
// client closes. Incoming messages are discarded.
func (s *streamer) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
