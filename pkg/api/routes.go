package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Render state
	mux.HandleFunc("GET /api/dashboard", s.handlePart(""))
	mux.HandleFunc("GET /api/tiles", s.handlePart("tiles"))
	mux.HandleFunc("GET /api/table", s.handlePart("table"))
	mux.HandleFunc("GET /api/status", s.handlePart("status"))
	mux.HandleFunc("GET /api/features", s.handlePart("features"))

	// Actions
	mux.HandleFunc("POST /api/refresh", s.HandleRefresh)
	mux.HandleFunc("POST /api/pins/{id}", s.HandlePin)
	mux.HandleFunc("DELETE /api/pins/{id}", s.HandleUnpin)
	mux.HandleFunc("POST /api/sort/table", s.HandleSortTable)
	mux.HandleFunc("POST /api/sort/tiles", s.HandleSortTiles)
	mux.HandleFunc("POST /api/view", s.HandleView)
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/details/{id}", s.HandleDetails)
	mux.HandleFunc("DELETE /api/details", s.HandleCloseDetails)
	mux.HandleFunc("POST /api/resize", s.HandleResize)
	mux.HandleFunc("POST /api/auto-update", s.HandleAutoUpdate)
	mux.HandleFunc("GET /api/preferences", s.HandlePreferences)
	mux.HandleFunc("POST /api/preferences/{key}", s.HandleSetPreference)

	mux.HandleFunc("GET /ws", s.HandleWebSocket)
	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.HandleFunc("GET /{$}", s.HandleIndex)
}
