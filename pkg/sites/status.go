package sites

import (
	"strconv"
	"strings"
)

// Status is the precedence of a site's health, lowest is best.
type Status int

const (
	StatusOnline  Status = 0
	StatusSlow    Status = 1
	StatusOffline Status = 2
	StatusNone    Status = 9
)

// Key is the sortable string form of the status.
func (s Status) Key() string {
	return strconv.Itoa(int(s))
}

// Text is the searchable description of the status. StatusNone has none.
func (s Status) Text() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusSlow:
		return "online slow"
	case StatusOffline:
		return "offline"
	}
	return ""
}

// Keyword classifies a tag text. Only the exact words online, slow and
// offline (any case) carry a status.
func Keyword(text string) Status {
	switch strings.ToLower(text) {
	case "online":
		return StatusOnline
	case "slow":
		return StatusSlow
	case "offline":
		return StatusOffline
	}
	return StatusNone
}

// SiteStatus is the minimum precedence found among tags.
func SiteStatus(tags []Tag) Status {
	best := StatusNone
	for _, t := range tags {
		if s := Keyword(t.Text); s < best {
			best = s
		}
	}
	return best
}

// DerivedStatus returns the site's status as derived from its tags.
func (s *Site) DerivedStatus() Status {
	return SiteStatus(s.Tags)
}
