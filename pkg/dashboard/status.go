package dashboard

import (
	"fmt"
	"net/http"
	"time"
)

// Status levels of the data freshness indicator.
const (
	LevelFresh              = "fresh"
	LevelAging              = "aging"
	LevelStaleAwaitingRetry = "stale-awaiting-retry"
	LevelStaleManualRefresh = "stale-manual-refresh-required"
	LevelError              = "error"
)

const (
	freshFor            = time.Minute
	expiresAfter        = 15 * time.Minute
	refetchAfterMinutes = 5
)

const (
	statusTextJustNow       = "Data updated just now"
	statusTextAwaitingRetry = "Data expired, waiting for updates..."
	statusTextManualRefresh = "Data expired, please refresh page"
	statusTextError         = "Error updating data"

	indicatorGreen  = "green"
	indicatorYellow = "yellow"
	indicatorRed    = "red"
)

// Status is what the freshness indicator shows.
type Status struct {
	Level      string    `json:"level"`
	Text       string    `json:"text"`
	Colour     string    `json:"colour"`
	LastUpdate time.Time `json:"last_update,omitzero"`
	Minutes    int       `json:"minutes"`
}

// Watchdog evaluates the age of the accepted sites token at now. It also
// reports whether live data should be fetched on the next tick, which only
// happens with auto update on.
func Watchdog(token string, now time.Time, auto bool) (Status, bool) {
	updated, err := http.ParseTime(token)
	if token == "" || err != nil {
		return errorStatus(), auto
	}

	minutes := int(now.Sub(updated) / time.Minute)
	st := Status{LastUpdate: updated.UTC(), Minutes: minutes}
	switch age := now.Sub(updated); {
	case age < freshFor:
		st.Level, st.Text, st.Colour = LevelFresh, statusTextJustNow, indicatorGreen
	case age < expiresAfter:
		st.Level, st.Text, st.Colour = LevelAging, agingText(minutes), indicatorGreen
	case auto:
		st.Level, st.Text, st.Colour = LevelStaleAwaitingRetry, statusTextAwaitingRetry, indicatorRed
	default:
		st.Level, st.Text, st.Colour = LevelStaleManualRefresh, statusTextManualRefresh, indicatorYellow
	}
	return st, auto && minutes > refetchAfterMinutes
}

func errorStatus() Status {
	return Status{Level: LevelError, Text: statusTextError, Colour: indicatorRed}
}

func agingText(minutes int) string {
	if minutes == 1 {
		return "Data updated 1 minute ago"
	}
	return fmt.Sprintf("Data updated %d minutes ago", minutes)
}
