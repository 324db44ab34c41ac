package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rubiojr/adminhub/pkg/dashboard"
	"github.com/rubiojr/adminhub/pkg/log"
	"github.com/rubiojr/adminhub/pkg/realtime"
)

const (
	defaultResizeDebounce = 250 * time.Millisecond
	defaultSearchDebounce = 100 * time.Millisecond
)

type Server struct {
	session        *dashboard.Session
	hub            *realtime.Hub
	logger         *log.Logger
	resizeDebounce time.Duration
	searchDebounce time.Duration
}

func NewServer(session *dashboard.Session) *Server {
	return &Server{
		session:        session,
		logger:         log.ForService("api"),
		resizeDebounce: defaultResizeDebounce,
		searchDebounce: defaultSearchDebounce,
	}
}

// SetHub enables push delivery: every session change is broadcast to the
// hub's listeners.
func (s *Server) SetHub(h *realtime.Hub) {
	s.hub = h
	s.session.OnChange(func(c dashboard.Change) {
		if h.Size() == 0 {
			return
		}
		ev := realtime.Event{Type: realtime.TypeChange, Revision: c.Revision, Reason: c.Reason}
		payload, err := s.session.JSON("")
		if err != nil {
			s.logger.Errorf("encoding revision %d: %v", c.Revision, err)
			return
		}
		ev.Payload = payload
		if dropped := h.Broadcast(ev); dropped > 0 {
			s.logger.Debugf("revision %d dropped for %d slow listeners", c.Revision, dropped)
		}
	})
}

// SetDebounce sets how long websocket resize and search messages settle
// before they are applied. Zero keeps the default.
func (s *Server) SetDebounce(resize, search time.Duration) {
	if resize > 0 {
		s.resizeDebounce = resize
	}
	if search > 0 {
		s.searchDebounce = search
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

// writeRaw sends an already encoded JSON document.
func (s *Server) writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Debugf("writing response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
