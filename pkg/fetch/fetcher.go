// Package fetch retrieves the dashboard's configuration documents and
// decides, per resource, whether anything changed since the last accepted
// version. Change detection relies only on the Last-Modified token.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rubiojr/adminhub/pkg/features"
	"github.com/rubiojr/adminhub/pkg/log"
	"github.com/rubiojr/adminhub/pkg/sites"
)

// Resource is a configuration document. Cacheable resources are static and
// versioned with the cache suffix; live ones are always revalidated.
type Resource struct {
	Name      string
	Path      string
	Cacheable bool
}

var (
	Branding   = Resource{Name: "branding", Path: "configuration/branding.json", Cacheable: true}
	Hyperlinks = Resource{Name: "hyperlinks", Path: "configuration/hyperlinks.json", Cacheable: true}
	Clocks     = Resource{Name: "clocks", Path: "configuration/clocks.json", Cacheable: true}
	ListView   = Resource{Name: "list-view", Path: "configuration/list-view.json"}
	Sites      = Resource{Name: "sites", Path: "configuration/sites.json"}
	Statistics = Resource{Name: "statistics", Path: "configuration/statistics.json"}
	RSS        = Resource{Name: "rss", Path: "rss"}
)

// Resources lists every document the dashboard reads.
var Resources = []Resource{Branding, Hyperlinks, Clocks, ListView, Sites, Statistics, RSS}

// Result is the raw outcome of fetching one resource. Body and Token are
// set for Changed results only.
type Result struct {
	Resource Resource
	Outcome  Outcome
	Token    string
	URL      string
	Body     []byte
	Err      error
}

type Fetcher struct {
	transport Transport
	suffix    string
	tracker   *Tracker
	logger    *log.Logger
}

func New(t Transport, cacheSuffix string) *Fetcher {
	return &Fetcher{
		transport: t,
		suffix:    cacheSuffix,
		tracker:   NewTracker(),
		logger:    log.ForService("fetch"),
	}
}

func (f *Fetcher) Tracker() *Tracker {
	return f.tracker
}

// Token returns the accepted age token of r.
func (f *Fetcher) Token(r Resource) (string, bool) {
	return f.tracker.Token(r.Name)
}

// Accept records token as the current version of r. Callers accept only
// after the document has been parsed and validated.
func (f *Fetcher) Accept(r Resource, token string) {
	f.tracker.Accept(r.Name, token)
}

// Invalidate forgets every accepted live token so the next cycle rebuilds.
func (f *Fetcher) Invalidate() {
	for _, r := range Resources {
		if !r.Cacheable {
			f.tracker.Forget(r.Name)
		}
	}
}

// Fetch retrieves r. Live resources whose token matches the accepted one
// come back Unchanged without a body. A fetch of a resource that is
// already in flight is Unchanged with ErrInFlight.
func (f *Fetcher) Fetch(ctx context.Context, r Resource) Result {
	res := Result{Resource: r}
	if !f.tracker.Begin(r.Name) {
		f.logger.Debugf("%s: skipped, previous fetch still running", r.Name)
		res.Outcome, res.Err = Unchanged, ErrInFlight
		return res
	}
	defer f.tracker.End(r.Name)

	req := Request{Path: r.Path}
	if r.Cacheable {
		req.Query = f.suffix
	} else {
		req.NoStore = true
	}

	resp, err := f.transport.Fetch(ctx, req)
	if err != nil {
		res.Outcome, res.Err = Failed, &TransportError{Resource: r.Name, Err: err}
		return res
	}
	if !resp.OK() {
		res.Outcome, res.Err = Failed, &TransportError{Resource: r.Name, Status: resp.StatusCode}
		return res
	}

	res.URL = resp.URL
	if !r.Cacheable && f.tracker.Unchanged(r.Name, resp.LastModified) {
		res.Outcome = Unchanged
		return res
	}
	res.Outcome, res.Token, res.Body = Changed, resp.LastModified, resp.Body
	return res
}

func (f *Fetcher) Branding(ctx context.Context) (features.Branding, error) {
	res := f.Fetch(ctx, Branding)
	if res.Err != nil {
		return features.DefaultBranding(), res.Err
	}
	return features.ParseBranding(res.Body)
}

func (f *Fetcher) Hyperlinks(ctx context.Context) ([]features.HyperlinkGroup, error) {
	res := f.Fetch(ctx, Hyperlinks)
	if res.Err != nil {
		return nil, res.Err
	}
	return features.ParseHyperlinks(res.Body)
}

func (f *Fetcher) Clocks(ctx context.Context, now time.Time) ([]features.Clock, error) {
	res := f.Fetch(ctx, Clocks)
	if res.Err != nil {
		return nil, res.Err
	}
	return features.ParseClocks(res.Body, now)
}

// SitesResult carries the validated document and the custom table columns
// it was fetched with.
type SitesResult struct {
	Outcome Outcome
	Doc     *sites.Document
	Columns []string
	Token   string
	Err     error
}

type StatisticsResult struct {
	Outcome    Outcome
	Statistics *features.Statistics
	Err        error
}

type FeedResult struct {
	Outcome Outcome
	Feed    *features.Feed
	Err     error
}

// LiveResult is the settled outcome of one live data cycle.
type LiveResult struct {
	ID         string
	Sites      SitesResult
	Statistics StatisticsResult
	RSS        FeedResult
}

// Changed reports whether the tile and table models must be rebuilt.
func (r *LiveResult) Changed() bool {
	return r.Sites.Outcome.Changed() || r.Statistics.Outcome.Changed()
}

// Live runs one live data cycle. The sites chain, statistics and the RSS
// feed are fetched concurrently and Live returns once all of them settled.
func (f *Fetcher) Live(ctx context.Context) *LiveResult {
	res := &LiveResult{ID: uuid.NewString()}
	start := time.Now()
	f.logger.Debugf("cycle %s: started", res.ID)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		res.Sites = f.sites(ctx)
	}()
	go func() {
		defer wg.Done()
		res.Statistics = f.statistics(ctx)
	}()
	go func() {
		defer wg.Done()
		res.RSS = f.feed(ctx)
	}()
	wg.Wait()

	for name, err := range map[string]error{
		Sites.Name:      res.Sites.Err,
		Statistics.Name: res.Statistics.Err,
		RSS.Name:        res.RSS.Err,
	} {
		if err != nil && !errors.Is(err, ErrInFlight) {
			f.logger.Warnf("cycle %s: %s: %v", res.ID, name, err)
		}
	}
	f.logger.Debugf("cycle %s: sites=%s statistics=%s rss=%s changed=%t in %s",
		res.ID, res.Sites.Outcome, res.Statistics.Outcome, res.RSS.Outcome, res.Changed(), time.Since(start))
	return res
}

// sites fetches the list view columns and then the sites document, which
// is only accepted once it validates.
func (f *Fetcher) sites(ctx context.Context) SitesResult {
	// The column list is never accepted, so it is read on every cycle.
	lv := f.Fetch(ctx, ListView)
	switch {
	case lv.Outcome == Failed:
		return SitesResult{Outcome: Failed, Err: lv.Err}
	case lv.Err != nil:
		return SitesResult{Outcome: Unchanged, Err: lv.Err}
	}
	columns, err := features.ParseListView(lv.Body)
	if err != nil {
		return SitesResult{Outcome: Failed, Err: err}
	}

	res := f.Fetch(ctx, Sites)
	if res.Outcome != Changed {
		return SitesResult{Outcome: res.Outcome, Err: res.Err}
	}

	doc, err := sites.Parse(res.Body)
	if err != nil {
		var verr *sites.ValidationError
		if errors.As(err, &verr) {
			log.ForService("validate").Errorf("%v", verr)
		}
		return SitesResult{Outcome: Failed, Err: err}
	}
	f.Accept(Sites, res.Token)

	out := SitesResult{Outcome: Changed, Doc: doc, Columns: columns, Token: res.Token}
	if len(doc.Groups) == 0 {
		out.Outcome = Empty
	}
	return out
}

func (f *Fetcher) statistics(ctx context.Context) StatisticsResult {
	res := f.Fetch(ctx, Statistics)
	if res.Outcome != Changed {
		return StatisticsResult{Outcome: res.Outcome, Err: res.Err}
	}
	st, err := features.ParseStatistics(res.Body)
	if err != nil {
		return StatisticsResult{Outcome: Failed, Err: err}
	}
	f.Accept(Statistics, res.Token)
	if st.Empty() {
		return StatisticsResult{Outcome: Empty, Statistics: st}
	}
	return StatisticsResult{Outcome: Changed, Statistics: st}
}

func (f *Fetcher) feed(ctx context.Context) FeedResult {
	res := f.Fetch(ctx, RSS)
	if res.Outcome != Changed {
		return FeedResult{Outcome: res.Outcome, Err: res.Err}
	}
	feed, err := features.ParseFeed(res.Body, res.URL)
	if err != nil {
		return FeedResult{Outcome: Failed, Err: fmt.Errorf("rss: %w", err)}
	}
	f.Accept(RSS, res.Token)
	if len(feed.Items) == 0 {
		return FeedResult{Outcome: Empty, Feed: feed}
	}
	return FeedResult{Outcome: Changed, Feed: feed}
}
