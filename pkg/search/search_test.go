package search

import (
	"net/url"
	"strings"
	"testing"

	"github.com/rubiojr/adminhub/pkg/sites"
	"github.com/rubiojr/adminhub/pkg/viewmodel"
)

const doc = `[
	{"GroupName": "G", "Sites": [
		{"ID": "web01", "Name": "Web (primary)", "Description": "Edge proxy", "Tags": [{"Text": "online"}]},
		{"ID": "db01", "Name": "Database", "Tags": [{"Text": "slow"}], "ListViewCustomColumns": ["eu-west"]},
		{"ID": "a&b", "Name": "Mail.relay"}
	]}
]`

func models(t *testing.T) *viewmodel.Models {
	t.Helper()
	d, err := sites.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return viewmodel.Build(d, []string{"Region"})
}

func visibleTiles(m *viewmodel.TileModel) []string {
	var ids []string
	for _, t := range m.Tiles() {
		if !t.Hidden {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func TestFilterTiles(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"WEB", "web01"},
		{"proxy", "web01"},
		{"online slow", "db01"},
		{"(primary)", "web01"},
		{".", "a&b"},
		{"tileContainer", ""},
		{"", "web01,db01,a&b"},
	}
	for _, tt := range tests {
		m := models(t)
		res := FilterTiles(m.Tiles, NewQuery(tt.query))
		if got := strings.Join(visibleTiles(m.Tiles), ","); got != tt.want {
			t.Errorf("%q: visible = %q, want %q", tt.query, got, tt.want)
		}
		if res.Total != 3 || res.Visible != len(visibleTiles(m.Tiles)) {
			t.Errorf("%q: counts = %d/%d", tt.query, res.Visible, res.Total)
		}
		if res.SearchMode != (tt.query != "") || res.SidebarInert != res.SearchMode {
			t.Errorf("%q: search mode = %+v", tt.query, res)
		}
	}
}

func TestFilterTilesKeepsPinned(t *testing.T) {
	m := models(t)
	tile, c := m.Tiles.Find("db01")
	c.Remove(tile)
	m.Tiles.Pinned.Tiles = append(m.Tiles.Pinned.Tiles, tile)

	FilterTiles(m.Tiles, NewQuery("web"))
	if !tile.Hidden {
		t.Fatal("non matching pinned tile should be hidden")
	}
	if got, _ := m.Tiles.Find("db01"); got == nil || len(m.Tiles.Pinned.Tiles) != 1 {
		t.Fatal("pinned tile must stay pinned")
	}
}

func TestFilterTableHighlightsPlainCells(t *testing.T) {
	m := models(t)
	res := FilterTable(m.Table, NewQuery("we"))
	if res.Visible != 2 || res.Caption != "Showing: <b>2</b> of <b>3</b>" {
		t.Fatalf("result = %+v", res)
	}

	web := m.Table.Row("web01")
	if web.Hidden {
		t.Fatal("web01 should be visible")
	}
	if got := web.Cells[viewmodel.ColumnID].HTML; got != "<mark>we</mark>b01" {
		t.Errorf("id cell = %q", got)
	}
	if got := web.Cells[viewmodel.ColumnName].HTML; got != "<mark>We</mark>b (primary)" {
		t.Errorf("name cell = %q", got)
	}
	if strings.Contains(web.Cells[viewmodel.ColumnTags].HTML, "<mark>") {
		t.Error("tag markup must never be rewritten")
	}

	db := m.Table.Row("db01")
	if got := db.Cells[viewmodel.ColumnCustom].HTML; got != "eu-<mark>we</mark>st" {
		t.Errorf("custom cell = %q", got)
	}

	mail := m.Table.Row("a&b")
	if !mail.Hidden {
		t.Error("a&b should be hidden")
	}

	// Re-filtering strips the previous marks first.
	FilterTable(m.Table, NewQuery("01"))
	if got := web.Cells[viewmodel.ColumnID].HTML; got != "web<mark>01</mark>" {
		t.Errorf("refiltered id cell = %q", got)
	}
	if got := web.Cells[viewmodel.ColumnName].HTML; got != "Web (primary)" {
		t.Errorf("refiltered name cell = %q", got)
	}

	res = FilterTable(m.Table, NewQuery(""))
	if res.SearchMode || res.Caption != "" || res.Visible != 3 {
		t.Errorf("cleared result = %+v", res)
	}
	if got := web.Cells[viewmodel.ColumnID].HTML; got != "web01" {
		t.Errorf("cleared id cell = %q", got)
	}
}

func TestFilterTableLiteralMetacharacters(t *testing.T) {
	m := models(t)
	FilterTable(m.Table, NewQuery("b.1"))
	for _, r := range m.Table.Rows {
		if !r.Hidden {
			t.Errorf("%s matched a literal dot query", r.SiteID)
		}
	}
	res := FilterTable(m.Table, NewQuery("a&"))
	if res.Visible != 1 || m.Table.Row("a&b").Hidden {
		t.Fatalf("a& = %+v", res)
	}
	if got := m.Table.Row("a&b").Cells[viewmodel.ColumnID].HTML; got != "a&amp;b" {
		t.Errorf("escaped cell rewritten: %q", got)
	}
}

func TestFilterTableMatchesStatusText(t *testing.T) {
	m := models(t)
	res := FilterTable(m.Table, NewQuery("ONLINE SLOW"))
	if res.Visible != 1 || m.Table.Row("db01").Hidden {
		t.Fatalf("result = %+v", res)
	}
}

func TestFilterDetails(t *testing.T) {
	details := []sites.DetailCategory{
		{Title: "Hardware", Data: []sites.DetailItem{{Key: "CPU", Value: "8 cores"}, {Key: "RAM", Value: "<b>32</b> GB"}}},
		{Title: "Network", Caption: "Last scan", Data: []sites.DetailItem{{Key: "IP", Value: "10.0.0.8"}}},
		{Title: "Backups"},
	}

	v := FilterDetails("s", "Site", "", details, NewQuery(""))
	if !v.Categories[0].Open || v.Categories[1].Open {
		t.Error("only the first category starts open")
	}
	if v.Categories[2].Caption != NoDataCaption {
		t.Errorf("empty caption = %q", v.Categories[2].Caption)
	}

	v = FilterDetails("s", "Site", "", details, NewQuery("hard"))
	hw := v.Categories[0]
	if hw.Hidden || hw.Rows[0].Hidden || hw.Rows[1].Hidden || hw.Title != "<mark>Hard</mark>ware" {
		t.Errorf("header match = %+v", hw)
	}
	if !v.Categories[1].Hidden || !v.Categories[2].Hidden {
		t.Error("non matching categories should be hidden")
	}
	for _, c := range v.Categories {
		if !c.Open {
			t.Error("all categories open while filtering")
		}
	}

	v = FilterDetails("s", "Site", "", details, NewQuery("32"))
	hw = v.Categories[0]
	if hw.Hidden || !hw.Rows[0].Hidden || hw.Rows[1].Hidden {
		t.Errorf("row match = %+v", hw)
	}
	if hw.Rows[1].Value != "<b><mark>32</mark></b> GB" {
		t.Errorf("value = %q", hw.Rows[1].Value)
	}
	if v.Categories[1].Hidden != true {
		t.Error("network should be hidden")
	}

	v = FilterDetails("s", "Site", "", details, NewQuery("cpu\t8"))
	if v.Categories[0].Hidden || v.Categories[0].Rows[0].Hidden {
		t.Error("key and value are searched together")
	}

	v = FilterDetails("s", "Site", "", details, NewQuery("cpu: 8"))
	if !v.Categories[0].Rows[0].Hidden || v.Placeholder != NoMatchPlaceholder {
		t.Error("key and value are not joined with a colon")
	}

	v = FilterDetails("s", "Site", "", details, NewQuery("nothing"))
	if v.Placeholder != NoMatchPlaceholder {
		t.Errorf("placeholder = %q", v.Placeholder)
	}
}

func TestSeedFromURL(t *testing.T) {
	u, _ := url.Parse("http://dash/?search=web&view=list")
	q, stripped := SeedFromURL(u)
	if q != "web" || stripped.String() != "http://dash/?view=list" {
		t.Fatalf("SeedFromURL = %q, %s", q, stripped)
	}
	if u.RawQuery != "search=web&view=list" {
		t.Fatal("input url must not be modified")
	}

	u, _ = url.Parse("http://dash/")
	q, stripped = SeedFromURL(u)
	if q != "" || stripped.String() != "http://dash/" {
		t.Fatalf("no parameter = %q, %s", q, stripped)
	}
}

func TestHighlightCaseInsensitive(t *testing.T) {
	q := NewQuery("ab")
	if got := q.Highlight("xAbyaB"); got != "x<mark>Ab</mark>y<mark>aB</mark>" {
		t.Fatalf("Highlight = %q", got)
	}
	if got := StripMarks("x<mark>Ab</mark>y<MARK>aB</MARK>"); got != "xAbyaB" {
		t.Fatalf("StripMarks = %q", got)
	}
}
