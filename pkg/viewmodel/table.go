package viewmodel

import (
	"fmt"
	"slices"
	"strings"
)

// Fixed table columns. Custom columns start at ColumnCustom; the controls
// column is always last.
const (
	ColumnImage  = 0
	ColumnID     = 1
	ColumnName   = 2
	ColumnTags   = 3
	ColumnCustom = 4
)

// Placeholder text for cells without a value.
const EmptyCell = "-"

// SortKeyAttr is the row attribute holding the sort key of a column.
func SortKeyAttr(column int) string {
	return fmt.Sprintf("data-sorttextcol%d", column)
}

const (
	AttrStatusSearch = "data-searchtextcol3"
	AttrSiteImage    = "data-siteimage"
	AttrSiteDetails  = "data-sitedetails"
)

type Column struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Sortable bool   `json:"sortable"`
	MinWidth bool   `json:"min_width"`
	Visible  bool   `json:"visible"`
}

// Cell holds both the plain text and the markup of a table cell. A cell is
// plain when its markup is exactly its text.
type Cell struct {
	Text    string `json:"text"`
	HTML    string `json:"html"`
	Class   string `json:"class,omitempty"`
	Visible bool   `json:"visible"`
}

func (c *Cell) Plain() bool {
	return c.HTML == c.Text
}

func textCell(text, class string) Cell {
	return Cell{Text: text, HTML: escapeText(text), Class: class, Visible: true}
}

type Row struct {
	SiteID    string         `json:"site_id"`
	Keys      map[int]string `json:"keys"`
	Status    string         `json:"status,omitempty"`
	Clickable bool           `json:"clickable"`
	SiteName  string         `json:"-"`
	SiteImage string         `json:"-"`
	Details   string         `json:"-"`
	Cells     []Cell         `json:"cells"`
	Hidden    bool           `json:"hidden"`
}

// SortKey returns the row's key for a column; missing and empty keys
// report false.
func (r *Row) SortKey(column int) (string, bool) {
	v, ok := r.Keys[column]
	return v, ok && v != ""
}

// Attrs returns the searchable data attributes of the row.
func (r *Row) Attrs() []Attr {
	cols := make([]int, 0, len(r.Keys))
	for c := range r.Keys {
		cols = append(cols, c)
	}
	slices.Sort(cols)

	out := make([]Attr, 0, len(cols)+5)
	for _, c := range cols {
		out = append(out, Attr{Name: SortKeyAttr(c), Value: r.Keys[c]})
	}
	if r.Status != "" {
		out = append(out, Attr{Name: AttrStatusSearch, Value: r.Status})
	}
	if r.Clickable {
		out = append(out,
			Attr{Name: AttrSiteID, Value: r.SiteID},
			Attr{Name: AttrSiteName, Value: r.SiteName},
			Attr{Name: AttrSiteImage, Value: r.SiteImage},
			Attr{Name: AttrSiteDetails, Value: r.Details},
		)
	}
	return out
}

type TableModel struct {
	Columns       []Column `json:"columns"`
	Rows          []*Row   `json:"rows"`
	SortColumn    int      `json:"sort_column"`
	SortDirection string   `json:"sort_direction"`
}

// Row returns the row of a site.
func (t *TableModel) Row(id string) *Row {
	for _, r := range t.Rows {
		if r.SiteID == id {
			return r
		}
	}
	return nil
}

// SetColumnVisible toggles a column header and all of its cells together.
func (t *TableModel) SetColumnVisible(i int, visible bool) {
	if i < 0 || i >= len(t.Columns) {
		return
	}
	t.Columns[i].Visible = visible
	for _, r := range t.Rows {
		if i < len(r.Cells) {
			r.Cells[i].Visible = visible
		}
	}
}

// CustomColumnTitles returns the titles of the custom columns.
func (t *TableModel) CustomColumnTitles() []string {
	if len(t.Columns) < ColumnCustom+1 {
		return nil
	}
	var out []string
	for _, c := range t.Columns[ColumnCustom : len(t.Columns)-1] {
		out = append(out, c.Title)
	}
	return out
}

// textEscaper leaves quotes alone so that a plain cell's HTML is what a
// browser reports as its innerHTML and Plain stays true for quoted text.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
