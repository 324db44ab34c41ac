package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rubiojr/adminhub/pkg/dashboard"
	"github.com/rubiojr/adminhub/pkg/sorting"
	"github.com/rubiojr/adminhub/pkg/version"
)

func (s *Server) handlePart(part string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := s.session.JSON(part)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "Encoding failed", err.Error())
			return
		}
		s.writeRaw(w, http.StatusOK, data)
	}
}

func (s *Server) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	res := s.session.Refresh(r.Context())

	response := RefreshResponse{
		ID:         res.ID,
		Changed:    res.Changed(),
		Sites:      res.Sites.Outcome.String(),
		Statistics: res.Statistics.Outcome.String(),
		RSS:        res.RSS.Outcome.String(),
	}
	for name, err := range map[string]error{
		"sites":      res.Sites.Err,
		"statistics": res.Statistics.Err,
		"rss":        res.RSS.Err,
	} {
		if err != nil {
			if response.Errors == nil {
				response.Errors = map[string]string{}
			}
			response.Errors[name] = err.Error()
		}
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandlePin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	changed := s.session.Pin(id)
	s.writeJSON(w, http.StatusOK, PinResponse{ID: id, Pinned: s.isPinned(id), Changed: changed})
}

func (s *Server) HandleUnpin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	changed := s.session.Unpin(id)
	s.writeJSON(w, http.StatusOK, PinResponse{ID: id, Pinned: s.isPinned(id), Changed: changed})
}

func (s *Server) isPinned(id string) bool {
	pinned := false
	s.session.Read(func(snap *dashboard.Snapshot) {
		t, _ := snap.Tiles.Find(id)
		pinned = t != nil && t.Pinned
	})
	return pinned
}

// HandleSortTable sorts by column. Without a direction it behaves like a
// header click.
func (s *Server) HandleSortTable(w http.ResponseWriter, r *http.Request) {
	column, err := strconv.Atoi(r.URL.Query().Get("column"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid column", "Query parameter 'column' must be an integer")
		return
	}

	switch dir := r.URL.Query().Get("direction"); dir {
	case "":
		err = s.session.ClickHeader(column)
	case string(sorting.Ascending), string(sorting.Descending):
		err = s.session.SortTable(column, sorting.Direction(dir))
	default:
		s.writeError(w, http.StatusBadRequest, "Invalid direction", "Direction must be 'ascending' or 'descending'")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Sort failed", err.Error())
		return
	}
	s.handlePart("table")(w, r)
}

func (s *Server) HandleSortTiles(w http.ResponseWriter, r *http.Request) {
	if err := s.session.SortTiles(r.URL.Query().Get("by")); err != nil {
		s.writeError(w, http.StatusBadRequest, "Sort failed", err.Error())
		return
	}
	s.handlePart("tiles")(w, r)
}

func (s *Server) HandleView(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if err := s.session.SetView(name); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid view", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, ValueResponse{Key: "view", Value: name})
}

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.Search(r.URL.Query().Get("q")))
}

func (s *Server) HandleDetails(w http.ResponseWriter, r *http.Request) {
	v, err := s.session.Details(r.PathValue("id"), r.URL.Query().Get("q"))
	if errors.Is(err, dashboard.ErrUnknownSite) {
		s.writeError(w, http.StatusNotFound, "Site not found", err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Details failed", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

func (s *Server) HandleCloseDetails(w http.ResponseWriter, r *http.Request) {
	s.session.CloseDetails()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleResize(w http.ResponseWriter, r *http.Request) {
	width, err := strconv.ParseFloat(r.URL.Query().Get("width"), 64)
	if err != nil || width < 0 {
		s.writeError(w, http.StatusBadRequest, "Invalid width", "Query parameter 'width' must be a non-negative number")
		return
	}
	applied := s.session.Resize(width)
	s.writeJSON(w, http.StatusOK, ResizeResponse{Width: width, Applied: applied})
}

func (s *Server) HandleAutoUpdate(w http.ResponseWriter, r *http.Request) {
	enabled, err := strconv.ParseBool(r.URL.Query().Get("enabled"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid value", "Query parameter 'enabled' must be a boolean")
		return
	}
	s.session.SetAutoUpdate(r.Context(), enabled)
	s.handlePart("status")(w, r)
}

func (s *Server) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.Preferences())
}

func (s *Server) HandleSetPreference(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	value := r.URL.Query().Get("value")
	if err := s.session.SetPreference(r.Context(), key, value); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid preference", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, ValueResponse{Key: key, Value: s.session.Preferences()[key]})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}
	if s.hub != nil {
		health.Listeners = s.hub.Size()
	}

	s.writeJSON(w, http.StatusOK, health)
}
