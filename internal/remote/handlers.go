package remote

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/bigtime/internal/core/observability/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRender(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, renderView(s.state.Load()))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	var st Stats
	if s.stats != nil {
		st = s.stats()
	}
	st.Clients = s.clientCnt.Load()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	id := uuid.NewString()
	s.clients.Store(id, conn)
	s.clientCnt.Add(1)
	logger := s.logger.With(log.String("client_id", id))
	logger.Info("client connected", log.String("remote_addr", r.RemoteAddr))

	defer func() {
		s.clients.Delete(id)
		s.clientCnt.Add(-1)
		_ = conn.Close()
		logger.Info("client disconnected")
	}()

	if s.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(s.cfg.MaxMessageSize)
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket read failed", log.Error(err))
			}
			return
		}

		reply := Reply{Type: TypeAck}
		ev, err := msg.Event()
		if err != nil {
			reply = Reply{Type: TypeError, Error: err.Error()}
		} else {
			reply.Accepted = s.sink.Add(ev)
		}

		if err := conn.WriteJSON(reply); err != nil {
			logger.Debug("websocket write failed", log.Error(err))
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
