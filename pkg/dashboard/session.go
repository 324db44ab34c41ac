// Package dashboard owns the in-memory render state of one dashboard and
// runs the live data pipeline against it: fetch, rebuild, replay pins,
// sort, lay out and re-filter. Every mutation goes through the session
// mutex, so rebuilds and user actions never interleave.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rubiojr/adminhub/pkg/features"
	"github.com/rubiojr/adminhub/pkg/fetch"
	"github.com/rubiojr/adminhub/pkg/layout"
	"github.com/rubiojr/adminhub/pkg/log"
	"github.com/rubiojr/adminhub/pkg/pins"
	"github.com/rubiojr/adminhub/pkg/prefs"
	"github.com/rubiojr/adminhub/pkg/search"
	"github.com/rubiojr/adminhub/pkg/sites"
	"github.com/rubiojr/adminhub/pkg/sorting"
	"github.com/rubiojr/adminhub/pkg/viewmodel"
)

var (
	ErrUnknownSite      = errors.New("unknown site")
	ErrUnknownView      = errors.New("unknown view")
	ErrUnknownAttribute = errors.New("unknown sort attribute")
	ErrUnknownPart      = errors.New("unknown dashboard part")
	ErrNotSortable      = errors.New("column is not sortable")
)

// TileSortAttributes are the attributes tiles can be sorted by.
var TileSortAttributes = []string{
	viewmodel.AttrSiteID,
	viewmodel.AttrSiteName,
	viewmodel.AttrSiteStatus,
	viewmodel.AttrSiteStatusText,
	viewmodel.AttrSiteDescription,
}

type Options struct {
	Fetcher       *fetch.Fetcher
	Prefs         *prefs.Preferences
	Estimator     layout.Estimator
	TableMargins  float64
	ViewportWidth float64
	// Now defaults to time.Now.
	Now func() time.Time
}

// Features holds the supplemental page features around the sites.
type Features struct {
	Branding    features.Branding         `json:"branding"`
	Hyperlinks  []features.HyperlinkGroup `json:"hyperlinks"`
	Clocks      []features.Clock          `json:"clocks"`
	ClockButton features.ClockButton      `json:"clock_button"`
	Statistics  *features.Statistics      `json:"statistics"`
	Feed        *features.Feed            `json:"feed,omitempty"`
	// Errors holds the last failure per resource.
	Errors map[string]string `json:"errors,omitempty"`
}

// Snapshot is a read-only view of the session state. It is only valid
// inside the Read callback that received it.
type Snapshot struct {
	Revision    uint64                `json:"revision"`
	View        string                `json:"view"`
	Width       float64               `json:"width"`
	TileSort    string                `json:"tile_sort"`
	AutoUpdate  bool                  `json:"auto_update"`
	Status      Status                `json:"status"`
	Search      search.Result         `json:"search"`
	Tiles       *viewmodel.TileModel  `json:"tiles"`
	Table       *viewmodel.TableModel `json:"table"`
	Breakpoints []float64             `json:"breakpoints"`
	Features    *Features             `json:"features"`
	Details     *search.DetailsView   `json:"details,omitempty"`
}

// Change describes a state transition. Revision grows by one per change.
type Change struct {
	Revision uint64 `json:"revision"`
	Reason   string `json:"reason"`
}

type Session struct {
	mu        sync.Mutex
	fetcher   *fetch.Fetcher
	prefs     *prefs.Preferences
	pins      *pins.Manager
	estimator layout.Estimator
	margins   float64
	now       func() time.Time
	logger    *log.Logger

	doc     *sites.Document
	columns []string
	models  *viewmodel.Models
	layout  *layout.State
	view    string
	width   float64
	filter  string
	result  search.Result

	features        Features
	staticLoaded    bool
	status          Status
	fetchOnNextTick bool

	// sitesErr is the failure of the last completed sites fetch.
	sitesErr error

	detailsID    string
	detailsQuery string
	details      *search.DetailsView

	revision uint64

	lmu       sync.Mutex
	listeners []func(Change)
}

func New(opts Options) *Session {
	p := opts.Prefs
	if p == nil {
		p = prefs.New(nil)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{
		fetcher:   opts.Fetcher,
		prefs:     p,
		pins:      pins.NewManager(p),
		estimator: opts.Estimator,
		margins:   opts.TableMargins,
		now:       now,
		logger:    log.ForService("dashboard"),
		models:    viewmodel.Build(&sites.Document{}, nil),
		layout:    layout.NewState(),
		view:      p.View(),
		width:     opts.ViewportWidth,
		features: Features{
			Branding:    features.DefaultBranding(),
			ClockButton: features.NewClockButton(now()),
			Statistics:  &features.Statistics{Hidden: true},
			Errors:      map[string]string{},
		},
	}
	if s.estimator == (layout.Estimator{}) {
		s.estimator = layout.DefaultEstimator()
	}
	s.status, _ = Watchdog("", now(), p.AutoDataUpdate())
	return s
}

// OnChange registers fn to be called after every change. Callbacks run on
// the goroutine that made the change, outside the session lock, and must
// not block.
func (s *Session) OnChange(fn func(Change)) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) notify(c Change) {
	s.lmu.Lock()
	listeners := slices.Clone(s.listeners)
	s.lmu.Unlock()
	for _, fn := range listeners {
		fn(c)
	}
}

// update runs fn under the session lock and announces a change when fn
// reports one.
func (s *Session) update(reason string, fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	var c Change
	if changed {
		s.revision++
		c = Change{Revision: s.revision, Reason: reason}
	}
	s.mu.Unlock()

	if changed {
		s.logger.Debugf("revision %d: %s", c.Revision, reason)
		s.notify(c)
	}
	return changed
}

// Refresh runs one live data cycle and applies it. Static features are
// loaded on the first call. Fetching happens outside the session lock.
func (s *Session) Refresh(ctx context.Context) *fetch.LiveResult {
	s.loadStatic(ctx)
	res := s.fetcher.Live(ctx)
	s.update("refresh", func() bool {
		s.apply(res)
		return true
	})
	return res
}

// ReloadStatic forgets every accepted document, reloads the static
// features and rebuilds from scratch.
func (s *Session) ReloadStatic(ctx context.Context) *fetch.LiveResult {
	s.mu.Lock()
	s.staticLoaded = false
	s.mu.Unlock()
	s.fetcher.Invalidate()
	return s.Refresh(ctx)
}

func (s *Session) loadStatic(ctx context.Context) {
	s.mu.Lock()
	loaded := s.staticLoaded
	s.mu.Unlock()
	if loaded {
		return
	}

	branding, berr := s.fetcher.Branding(ctx)
	if berr != nil {
		branding = features.DefaultBranding()
	}
	links, lerr := s.fetcher.Hyperlinks(ctx)
	clocks, cerr := s.fetcher.Clocks(ctx, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.features.Branding = branding
	s.features.Hyperlinks = links
	s.features.Clocks = clocks
	s.recordError(fetch.Branding.Name, berr)
	s.recordError(fetch.Hyperlinks.Name, lerr)
	s.recordError(fetch.Clocks.Name, cerr)
	s.staticLoaded = true
}

func (s *Session) recordError(name string, err error) {
	switch {
	case err == nil:
		delete(s.features.Errors, name)
	case errors.Is(err, fetch.ErrInFlight):
	default:
		s.features.Errors[name] = err.Error()
	}
}

func (s *Session) apply(res *fetch.LiveResult) {
	s.recordError(fetch.Sites.Name, res.Sites.Err)
	s.recordError(fetch.Statistics.Name, res.Statistics.Err)
	s.recordError(fetch.RSS.Name, res.RSS.Err)
	if !errors.Is(res.Sites.Err, fetch.ErrInFlight) {
		s.sitesErr = res.Sites.Err
	}

	if res.RSS.Feed != nil {
		s.features.Feed = res.RSS.Feed
	}
	if res.Statistics.Statistics != nil {
		s.features.Statistics = res.Statistics.Statistics
	}
	if res.Sites.Doc != nil {
		s.doc, s.columns = res.Sites.Doc, res.Sites.Columns
	}

	if res.Changed() {
		s.rebuild()
	}
	s.evaluate(s.now())
}

// rebuild regenerates both render models from the current document and
// restores pins, sort order, column visibility and the active filter.
func (s *Session) rebuild() {
	if s.doc != nil {
		next := viewmodel.Build(s.doc, s.columns)
		s.models.Tiles.ReplaceLive(next.Tiles)
		s.models.Table = next.Table
		s.pins.Replay(s.models.Tiles, s.prefs.PinnedSites())
		s.pins.Save(s.models.Tiles)
	}

	s.applyStatisticsVisibility()
	col, dir := s.prefs.ListViewSort()
	s.sortTable(col, sorting.ParseDirection(dir))
	sorting.SortTiles(s.models.Tiles, s.prefs.SortBy())
	s.layout.Recompute(s.models.Table, s.estimator, s.margins)
	s.layout.Apply(s.models.Table, s.width, s.view == prefs.ViewList)
	s.models.Tiles.Arrange()
	s.refilter()
	s.reopenDetails()
}

func (s *Session) applyStatisticsVisibility() {
	st := s.features.Statistics
	st.Hidden = !s.prefs.Bool(prefs.KeyShowStatistics) || st.Empty()
}

// sortTable sorts by column, falling back to the ID column when column is
// not a sortable column of the current table.
func (s *Session) sortTable(column int, dir sorting.Direction) {
	cols := s.models.Table.Columns
	if column < 0 || column >= len(cols) || !cols[column].Sortable {
		column = viewmodel.ColumnID
	}
	sorting.SortTable(s.models.Table, column, dir)
}

func (s *Session) refilter() {
	q := search.NewQuery(s.filter)
	if s.view == prefs.ViewList {
		s.result = search.FilterTable(s.models.Table, q)
	} else {
		s.result = search.FilterTiles(s.models.Tiles, q)
	}
}

func (s *Session) reopenDetails() {
	if s.detailsID == "" {
		return
	}
	if _, err := s.buildDetails(s.detailsID, s.detailsQuery); err != nil {
		s.logger.Debugf("closing details of %s: %v", s.detailsID, err)
		s.detailsID, s.detailsQuery, s.details = "", "", nil
	}
}

func (s *Session) buildDetails(id, query string) (*search.DetailsView, error) {
	tile, _ := s.models.Tiles.Find(id)
	if tile == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSite, id)
	}
	v := search.FilterDetails(tile.ID, tile.Name, tile.Image.HTML(), tile.Details, search.NewQuery(query))
	s.detailsID, s.detailsQuery, s.details = id, query, v
	return v, nil
}

// evaluate refreshes the status indicator and arms a fetch for the next
// tick when the data has aged. A failed sites fetch shows as an error
// until a later fetch completes.
func (s *Session) evaluate(now time.Time) {
	auto := s.prefs.AutoDataUpdate()
	token, _ := s.fetcher.Token(fetch.Sites)
	st, fetchNext := Watchdog(token, now, auto)
	if s.sitesErr != nil {
		st, fetchNext = errorStatus(), auto
	}
	s.status = st
	if fetchNext {
		s.fetchOnNextTick = true
	}
}

// Tick is the clock tick. A fetch armed by the previous tick runs first,
// then the status indicator and clocks are brought up to date.
func (s *Session) Tick(ctx context.Context) {
	s.mu.Lock()
	pending := s.fetchOnNextTick
	s.mu.Unlock()
	if pending {
		s.Refresh(ctx)
	}

	s.update("tick", func() bool {
		if pending {
			s.fetchOnNextTick = false
		}
		now := s.now()
		s.evaluate(now)
		for i := range s.features.Clocks {
			s.features.Clocks[i].Tick(now)
		}
		s.features.ClockButton = features.NewClockButton(now)
		return true
	})
}

// FetchPending reports whether the next tick will fetch live data.
func (s *Session) FetchPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchOnNextTick
}

// SetAutoUpdate persists the auto update preference. Turning it on arms a
// fetch and ticks right away; turning it off disarms any pending fetch.
func (s *Session) SetAutoUpdate(ctx context.Context, on bool) {
	s.update("auto-update", func() bool {
		s.prefs.SetAutoDataUpdate(on)
		s.fetchOnNextTick = on
		if !on {
			s.evaluate(s.now())
		}
		return true
	})
	if on {
		s.Tick(ctx)
	}
}

// SetView switches between the tile and table views. The filter is
// cleared on both views.
func (s *Session) SetView(view string) error {
	if view != prefs.ViewDashboard && view != prefs.ViewList {
		return fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	s.update("view", func() bool {
		s.view = view
		s.prefs.SetView(view)
		s.filter = ""
		empty := search.NewQuery("")
		search.FilterTiles(s.models.Tiles, empty)
		search.FilterTable(s.models.Table, empty)
		s.refilter()
		s.layout.Apply(s.models.Table, s.width, view == prefs.ViewList)
		return true
	})
	return nil
}

// Search filters the active view.
func (s *Session) Search(query string) search.Result {
	var r search.Result
	s.update("search", func() bool {
		s.filter = query
		s.refilter()
		r = s.result
		return true
	})
	return r
}

// ClickHeader sorts the table by column the way a header click does and
// persists the choice.
func (s *Session) ClickHeader(column int) error {
	var err error
	s.update("sort-table", func() bool {
		cols := s.models.Table.Columns
		if column < 0 || column >= len(cols) || !cols[column].Sortable {
			err = fmt.Errorf("%w: %d", ErrNotSortable, column)
			return false
		}
		t := s.models.Table
		dir := sorting.NextDirection(t.SortColumn, sorting.Direction(t.SortDirection), column)
		sorting.SortTable(t, column, dir)
		s.prefs.SetListViewSort(column, string(dir))
		return true
	})
	return err
}

// SortTable sorts the table by column in an explicit direction.
func (s *Session) SortTable(column int, dir sorting.Direction) error {
	var err error
	s.update("sort-table", func() bool {
		cols := s.models.Table.Columns
		if column < 0 || column >= len(cols) || !cols[column].Sortable {
			err = fmt.Errorf("%w: %d", ErrNotSortable, column)
			return false
		}
		sorting.SortTable(s.models.Table, column, dir)
		s.prefs.SetListViewSort(column, string(dir))
		return true
	})
	return err
}

// SortTiles sorts every tile container by attribute and persists it.
func (s *Session) SortTiles(attribute string) error {
	if !slices.Contains(TileSortAttributes, attribute) {
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, attribute)
	}
	s.update("sort-tiles", func() bool {
		sorting.SortTiles(s.models.Tiles, attribute)
		s.prefs.SetSortBy(attribute)
		return true
	})
	return nil
}

// Pin pins a site. It reports false when nothing changed.
func (s *Session) Pin(id string) bool {
	return s.update("pin", func() bool {
		if !s.pins.Pin(s.models.Tiles, id) {
			return false
		}
		s.afterPinChange()
		return true
	})
}

// Unpin returns a pinned site to its group. It reports false when nothing
// changed.
func (s *Session) Unpin(id string) bool {
	return s.update("unpin", func() bool {
		if !s.pins.Unpin(s.models.Tiles, id) {
			return false
		}
		s.afterPinChange()
		return true
	})
}

func (s *Session) afterPinChange() {
	sorting.SortTiles(s.models.Tiles, s.prefs.SortBy())
	s.models.Tiles.Arrange()
	s.refilter()
	s.layout.Apply(s.models.Table, s.width, s.view == prefs.ViewList)
}

// Resize applies the viewport width to the table columns. It reports
// whether column visibility was re-applied.
func (s *Session) Resize(width float64) bool {
	return s.update("resize", func() bool {
		s.width = width
		return s.layout.Apply(s.models.Table, width, s.view == prefs.ViewList)
	})
}

// Details opens the details dialog of a site, filtered by query.
func (s *Session) Details(id, query string) (*search.DetailsView, error) {
	var (
		v   *search.DetailsView
		err error
	)
	s.update("details", func() bool {
		v, err = s.buildDetails(id, query)
		return err == nil
	})
	return v, err
}

func (s *Session) CloseDetails() {
	s.update("details", func() bool {
		if s.detailsID == "" {
			return false
		}
		s.detailsID, s.detailsQuery, s.details = "", "", nil
		return true
	})
}

// SetPreference stores a preference and applies it to the session.
func (s *Session) SetPreference(ctx context.Context, key, value string) error {
	switch {
	case !prefs.Known(key):
		return fmt.Errorf("unknown preference %q", key)
	case key == prefs.KeyPinnedSites:
		return fmt.Errorf("%s is managed through pins", key)
	case key == prefs.KeyView:
		return s.SetView(value)
	case key == prefs.KeySortBy:
		return s.SortTiles(value)
	case key == prefs.KeyAutoDataUpdate:
		s.SetAutoUpdate(ctx, value == "true")
		return nil
	}

	s.update("preference", func() bool {
		s.prefs.Set(key, value)
		switch key {
		case prefs.KeyShowStatistics:
			s.applyStatisticsVisibility()
		case prefs.KeyListViewSortColumn, prefs.KeyListViewSortDirection:
			col, dir := s.prefs.ListViewSort()
			s.sortTable(col, sorting.ParseDirection(dir))
		}
		return true
	})
	return nil
}

func (s *Session) Preferences() map[string]string {
	return s.prefs.Snapshot()
}

// Read calls fn with a snapshot of the current state while holding the
// session lock.
func (s *Session) Read(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.snapshot())
}

func (s *Session) snapshot() *Snapshot {
	return &Snapshot{
		Revision:    s.revision,
		View:        s.view,
		Width:       s.width,
		TileSort:    s.prefs.SortBy(),
		AutoUpdate:  s.prefs.AutoDataUpdate(),
		Status:      s.status,
		Search:      s.result,
		Tiles:       s.models.Tiles,
		Table:       s.models.Table,
		Breakpoints: s.layout.Breakpoints,
		Features:    &s.features,
		Details:     s.details,
	}
}

// JSON encodes the whole state, or one part of it: tiles, table, status,
// features or details.
func (s *Session) JSON(part string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	switch part {
	case "":
		return json.Marshal(snap)
	case "tiles":
		return json.Marshal(snap.Tiles)
	case "table":
		return json.Marshal(snap.Table)
	case "status":
		return json.Marshal(snap.Status)
	case "features":
		return json.Marshal(snap.Features)
	case "details":
		return json.Marshal(snap.Details)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPart, part)
}
