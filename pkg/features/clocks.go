package features

import (
	"encoding/json"
	"fmt"
	"time"
)

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ClockConfig is one entry of clocks.json. TimeZone is an IANA zone name.
type ClockConfig struct {
	TimeZone string `json:"TimeZone"`
	Title    string `json:"Title,omitempty"`
	Subtitle string `json:"Subtitle,omitempty"`
}

type Clock struct {
	TimeZone string         `json:"time_zone"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle,omitempty"`
	Time     string         `json:"time"`
	loc      *time.Location
}

// Tick refreshes the displayed HH:MM for now.
func (c *Clock) Tick(now time.Time) {
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	c.Time = now.In(loc).Format("15:04")
}

// ParseClocks decodes clocks.json and resolves every zone.
func ParseClocks(data []byte, now time.Time) ([]Clock, error) {
	var cfg []ClockConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigurationError{Feature: "clocks", Index: -1, Msg: err.Error()}
	}
	return BuildClocks(cfg, now)
}

// BuildClocks resolves each configured clock. The title defaults to the
// zone name and the subtitle gets the zone's UTC offset appended.
func BuildClocks(cfg []ClockConfig, now time.Time) ([]Clock, error) {
	clocks := make([]Clock, 0, len(cfg))
	for i, c := range cfg {
		if c.TimeZone == "" {
			return nil, &ConfigurationError{Feature: "clocks", Index: i,
				Msg: fmt.Sprintf("No TimeZone was defined for clock %d in the clocks.json file", i)}
		}
		loc, err := time.LoadLocation(c.TimeZone)
		if err != nil {
			return nil, &ConfigurationError{Feature: "clocks", Index: i,
				Msg: fmt.Sprintf("The TimeZone '%s' for clock %d in the clocks.json file is not a valid time zone", c.TimeZone, i)}
		}

		clock := Clock{TimeZone: c.TimeZone, Title: c.Title, Subtitle: c.Subtitle, loc: loc}
		if clock.Title == "" {
			clock.Title = c.TimeZone
		}
		if off := utcOffset(now.In(loc)); off != "" {
			if clock.Subtitle != "" {
				clock.Subtitle += " \u2022 "
			}
			clock.Subtitle += off
		}
		clock.Tick(now)
		clocks = append(clocks, clock)
	}
	return clocks, nil
}

// utcOffset formats a non-zero offset as UTC+hh:mm. Zero offsets give "".
func utcOffset(t time.Time) string {
	_, secs := t.Zone()
	if secs == 0 {
		return ""
	}
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, secs/3600, secs%3600/60)
}

// ClockButton is the UTC time and date shown on the clock button.
type ClockButton struct {
	Time string `json:"time"`
	Date string `json:"date"`
}

func NewClockButton(now time.Time) ClockButton {
	u := now.UTC()
	return ClockButton{
		Time: u.Format("15:04") + " UTC",
		Date: fmt.Sprintf("%02d %s %d", u.Day(), monthNames[u.Month()-1], u.Year()),
	}
}
