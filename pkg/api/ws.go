package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rubiojr/adminhub/pkg/dashboard"
	"github.com/rubiojr/adminhub/pkg/layout"
	"github.com/rubiojr/adminhub/pkg/realtime"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// clientMessage is what viewers send over the socket. Resize and search
// messages are debounced per connection.
type clientMessage struct {
	Type  string  `json:"type"`
	Width float64 `json:"width,omitempty"`
	Query string  `json:"query,omitempty"`
}

// HandleWebSocket streams the dashboard to a viewer: a full "init"
// snapshot first, then one "change" event per session revision.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Push disabled", "No realtime hub is configured")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	id, events := s.hub.Register()
	defer s.hub.Unregister(id)
	s.logger.Debugf("viewer %s connected from %s", id, r.RemoteAddr)

	first, err := s.initEvent()
	if err != nil {
		s.logger.Errorf("encoding init snapshot: %v", err)
		return
	}
	if err := s.send(conn, first); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go s.readClient(ctx, cancel, conn, id)

	for {
		select {
		case <-ctx.Done():
			s.logger.Debugf("viewer %s disconnected", id)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := s.send(conn, ev); err != nil {
				s.logger.Debugf("viewer %s: %v", id, err)
				return
			}
		}
	}
}

func (s *Server) initEvent() (realtime.Event, error) {
	ev := realtime.Event{Type: realtime.TypeInit, At: time.Now().UTC()}
	var err error
	s.session.Read(func(snap *dashboard.Snapshot) {
		ev.Revision = snap.Revision
		ev.Payload, err = json.Marshal(snap)
	})
	return ev, err
}

func (s *Server) send(conn *websocket.Conn, ev realtime.Event) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(ev)
}

// readClient applies viewer messages until the connection fails, then
// cancels ctx.
func (s *Server) readClient(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, id string) {
	defer cancel()
	resize := layout.NewDebouncer(s.resizeDebounce)
	defer resize.Stop()
	search := layout.NewDebouncer(s.searchDebounce)
	defer search.Stop()

	for ctx.Err() == nil {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debugf("viewer %s: %v", id, err)
			}
			return
		}
		switch msg.Type {
		case "resize":
			width := msg.Width
			resize.Trigger(func() { s.session.Resize(width) })
		case "search":
			query := msg.Query
			search.Trigger(func() { s.session.Search(query) })
		default:
			s.logger.Debugf("viewer %s: ignoring message type %q", id, msg.Type)
		}
	}
}
