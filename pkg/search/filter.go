package search

import (
	"strings"

	"github.com/rubiojr/adminhub/pkg/sites"
	"github.com/rubiojr/adminhub/pkg/viewmodel"
)

// FilterTiles hides every tile with no attribute containing q. The
// container assignment attribute is not searched. Pinned tiles that do not
// match are hidden but stay pinned.
func FilterTiles(m *viewmodel.TileModel, q *Query) Result {
	tiles := m.Tiles()
	visible := 0
	for _, t := range tiles {
		t.Hidden = !tileMatches(t, q)
		if !t.Hidden {
			visible++
		}
	}
	r := newResult(q, visible, len(tiles))
	r.SidebarInert = r.SearchMode
	return r
}

func tileMatches(t *viewmodel.Tile, q *Query) bool {
	if q.Empty() {
		return true
	}
	for _, a := range t.Attrs() {
		if a.Name != viewmodel.AttrTileContainer && q.Matches(a.Value) {
			return true
		}
	}
	return false
}

// FilterTable hides rows with no data attribute containing q and
// re-highlights plain text cells. Cells with nested markup are matched but
// never rewritten.
func FilterTable(t *viewmodel.TableModel, q *Query) Result {
	visible := 0
	for _, r := range t.Rows {
		r.Hidden = !rowMatches(r, q)
		if !r.Hidden {
			visible++
		}
		for i := range r.Cells {
			highlightCell(&r.Cells[i], q)
		}
	}
	return newResult(q, visible, len(t.Rows))
}

func rowMatches(r *viewmodel.Row, q *Query) bool {
	if q.Empty() {
		return true
	}
	for _, a := range r.Attrs() {
		if q.Matches(a.Value) {
			return true
		}
	}
	return false
}

func highlightCell(c *viewmodel.Cell, q *Query) {
	if strings.TrimSpace(c.Text) == "" || c.Text == viewmodel.EmptyCell {
		return
	}
	base := StripMarks(c.HTML)
	if base == c.Text {
		base = q.Highlight(base)
	}
	c.HTML = base
}

const (
	NoDataCaption      = "No data currently available."
	NoMatchPlaceholder = "No results found"
)

type DetailRow struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Hidden bool   `json:"hidden"`
}

type DetailCategory struct {
	Title   string      `json:"title"`
	Caption string      `json:"caption,omitempty"`
	Open    bool        `json:"open"`
	Hidden  bool        `json:"hidden"`
	Rows    []DetailRow `json:"rows,omitempty"`
}

// DetailsView is the filtered details dialog of one site.
type DetailsView struct {
	SiteID     string           `json:"site_id"`
	SiteName   string           `json:"site_name"`
	SiteImage  string           `json:"site_image"`
	Query      string           `json:"query"`
	Categories []DetailCategory `json:"categories"`
	// Placeholder is set when the filter hides every category.
	Placeholder string `json:"placeholder,omitempty"`
}

// FilterDetails builds the details dialog for a site. A category whose
// title matches shows all of its rows; otherwise only matching rows are
// shown and the category is hidden when none match. A row's text is its key
// and value separated by a tab. Every category is expanded while a filter
// is active; without one only the first is.
func FilterDetails(siteID, siteName, siteImage string, details []sites.DetailCategory, q *Query) *DetailsView {
	v := &DetailsView{SiteID: siteID, SiteName: siteName, SiteImage: siteImage, Query: q.String()}
	anyVisible := false

	for i, d := range details {
		cat := DetailCategory{
			Title:   q.HighlightHTML(d.Title),
			Caption: d.Caption,
			Open:    i == 0 || !q.Empty(),
		}
		if len(d.Data) == 0 {
			cat.Caption = NoDataCaption
		}

		headerMatch := q.Matches(d.Title)
		rowMatch := false
		for _, item := range d.Data {
			row := DetailRow{Key: q.HighlightHTML(item.Key), Value: q.HighlightHTML(item.Value)}
			if !headerMatch {
				row.Hidden = !q.Matches(stripTags(item.Key) + "\t" + stripTags(item.Value))
			}
			rowMatch = rowMatch || !row.Hidden
			cat.Rows = append(cat.Rows, row)
		}

		cat.Hidden = !headerMatch && !rowMatch
		anyVisible = anyVisible || !cat.Hidden
		v.Categories = append(v.Categories, cat)
	}

	if len(details) > 0 && !anyVisible {
		v.Placeholder = NoMatchPlaceholder
	}
	return v
}

func stripTags(s string) string {
	return htmlTags.ReplaceAllString(s, "")
}
