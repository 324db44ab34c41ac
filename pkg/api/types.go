package api

import (
	"time"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Listeners int       `json:"listeners"`
}

// RefreshResponse summarises one live data cycle.
type RefreshResponse struct {
	ID         string            `json:"id"`
	Changed    bool              `json:"changed"`
	Sites      string            `json:"sites"`
	Statistics string            `json:"statistics"`
	RSS        string            `json:"rss"`
	Errors     map[string]string `json:"errors,omitempty"`
}

type PinResponse struct {
	ID      string `json:"id"`
	Pinned  bool   `json:"pinned"`
	Changed bool   `json:"changed"`
}

type ResizeResponse struct {
	Width   float64 `json:"width"`
	Applied bool    `json:"applied"`
}

type ValueResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
