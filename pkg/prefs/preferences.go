package prefs

import (
	"encoding/json"
	"strconv"

	"github.com/rubiojr/adminhub/pkg/log"
)

// Preference keys
const (
	KeyPinnedSites                 = "PinnedSites"
	KeySortBy                      = "SortBy"
	KeyListViewSortColumn          = "ListViewSortColumn"
	KeyListViewSortDirection       = "ListViewSortDirection"
	KeyView                        = "View"
	KeyAutoDataUpdate              = "AutoDataUpdate"
	KeyPinSidebar                  = "PinSidebar"
	KeyShowThemeToggle             = "ShowThemeToggle"
	KeyShowViewToggle              = "ShowViewToggle"
	KeyShowRssFeed                 = "ShowRssFeed"
	KeyShowClock                   = "ShowClock"
	KeyShowStatistics              = "ShowStatistics"
	KeyAccessibilityNoTransparency = "AccessibilityNoTransparency"
	KeyAccessibilityBorders        = "AccessibilityBorders"
	KeyColourTheme                 = "ColourTheme"
)

// Views
const (
	ViewDashboard = "dashboard-view"
	ViewList      = "list-view"
)

// Default values
const (
	DefaultSortBy                = "data-siteid"
	DefaultListViewSortColumn    = "1"
	DefaultListViewSortDirection = "ascending"
	DefaultView                  = ViewDashboard
	DefaultColourTheme           = "light-mode"
)

var defaults = map[string]string{
	KeySortBy:                      DefaultSortBy,
	KeyListViewSortColumn:          DefaultListViewSortColumn,
	KeyListViewSortDirection:       DefaultListViewSortDirection,
	KeyView:                        DefaultView,
	KeyAutoDataUpdate:              "true",
	KeyPinSidebar:                  "true",
	KeyShowThemeToggle:             "true",
	KeyShowViewToggle:              "true",
	KeyShowRssFeed:                 "true",
	KeyShowClock:                   "true",
	KeyShowStatistics:              "true",
	KeyAccessibilityNoTransparency: "false",
	KeyAccessibilityBorders:        "false",
	KeyColourTheme:                 DefaultColourTheme,
}

// Known reports whether key is a recognised preference.
func Known(key string) bool {
	_, ok := defaults[key]
	return ok || key == KeyPinnedSites
}

// Default returns the default for key, or "" when it has none.
func Default(key string) string {
	return defaults[key]
}

// Preferences is the typed view over a Store.
type Preferences struct {
	store Store
	log   *log.Logger
}

// New wraps store. A nil store behaves as Unavailable.
func New(store Store) *Preferences {
	if store == nil {
		store = Unavailable{}
	}
	return &Preferences{store: store, log: log.ForService("prefs")}
}

// Available reports whether writes are persisted.
func (p *Preferences) Available() bool {
	return p.store.Available()
}

// Store returns the underlying store.
func (p *Preferences) Store() Store {
	return p.store
}

// Get returns the stored value, or the key's default.
func (p *Preferences) Get(key string) string {
	if p.store.Available() {
		if v, ok := p.store.Get(key); ok {
			return v
		}
	}
	return defaults[key]
}

// Set stores value. Writes to an unavailable store are dropped; store errors
// are logged and never surfaced.
func (p *Preferences) Set(key, value string) {
	if !p.store.Available() {
		return
	}
	if err := p.store.Set(key, value); err != nil {
		p.log.Warnf("saving %s: %v", key, err)
	}
}

// Bool reads a "true"/"false" preference.
func (p *Preferences) Bool(key string) bool {
	return p.Get(key) == "true"
}

func (p *Preferences) SetBool(key string, v bool) {
	p.Set(key, strconv.FormatBool(v))
}

// PinnedSites returns the persisted pinned site IDs. A missing or corrupt
// value yields an empty set.
func (p *Preferences) PinnedSites() []string {
	raw := p.Get(KeyPinnedSites)
	if raw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		p.log.Warnf("ignoring unreadable %s: %v", KeyPinnedSites, err)
		return nil
	}
	return ids
}

// SavePinnedSites stores ids as a JSON array.
func (p *Preferences) SavePinnedSites(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	p.Set(KeyPinnedSites, string(data))
	return nil
}

func (p *Preferences) SortBy() string {
	return p.Get(KeySortBy)
}

func (p *Preferences) SetSortBy(attribute string) {
	p.Set(KeySortBy, attribute)
}

// ListViewSort returns the persisted table sort column and direction.
// An unparsable column falls back to the identity column.
func (p *Preferences) ListViewSort() (int, string) {
	col, err := strconv.Atoi(p.Get(KeyListViewSortColumn))
	if err != nil || col < 0 {
		col, _ = strconv.Atoi(DefaultListViewSortColumn)
	}
	dir := p.Get(KeyListViewSortDirection)
	if dir != "ascending" && dir != "descending" {
		dir = DefaultListViewSortDirection
	}
	return col, dir
}

func (p *Preferences) SetListViewSort(column int, direction string) {
	p.Set(KeyListViewSortColumn, strconv.Itoa(column))
	p.Set(KeyListViewSortDirection, direction)
}

// View returns the active view, normalised to one of the two known views.
func (p *Preferences) View() string {
	if p.Get(KeyView) == ViewList {
		return ViewList
	}
	return ViewDashboard
}

func (p *Preferences) SetView(view string) {
	p.Set(KeyView, view)
}

func (p *Preferences) AutoDataUpdate() bool {
	return p.Bool(KeyAutoDataUpdate)
}

func (p *Preferences) SetAutoDataUpdate(v bool) {
	p.SetBool(KeyAutoDataUpdate, v)
}

// Snapshot returns every known preference with defaults filled in.
func (p *Preferences) Snapshot() map[string]string {
	out := make(map[string]string, len(defaults)+1)
	for k := range defaults {
		out[k] = p.Get(k)
	}
	out[KeyPinnedSites] = p.Get(KeyPinnedSites)
	return out
}
