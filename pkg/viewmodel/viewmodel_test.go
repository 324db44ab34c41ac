package viewmodel

import (
	"strings"
	"testing"

	"github.com/rubiojr/adminhub/pkg/sites"
)

func mustParse(t *testing.T, doc string) *sites.Document {
	t.Helper()
	d, err := sites.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

const scenario = `[
	{"GroupName": "A", "Sites": [{"ID": "s1", "Name": "Alpha"}]},
	{"GroupName": "B", "Subgroups": [{"SubgroupName": "B1", "Sites": [{"ID": "s2", "Name": "Beta"}]}]}
]`

func TestBuildScenario(t *testing.T) {
	m := Build(mustParse(t, scenario), nil)

	if len(m.Table.Rows) != 2 || m.Table.Rows[0].SiteID != "s1" || m.Table.Rows[1].SiteID != "s2" {
		t.Fatalf("rows = %+v", m.Table.Rows)
	}

	a := m.Tiles.Groups[0]
	if a.Name != "A" || a.Kind != sites.BodyFlat || len(a.Container.Tiles) != 1 || a.Container.ID != "tileContainer0" {
		t.Fatalf("group A = %+v", a)
	}
	b := m.Tiles.Groups[1]
	if b.Kind != sites.BodyNested || len(b.Subgroups) != 1 || b.Subgroups[0].Name != "B1" {
		t.Fatalf("group B = %+v", b)
	}
	if sg := b.Subgroups[0].Container; sg.ID != "tileContainer1" || len(sg.Tiles) != 1 || sg.Tiles[0].ID != "s2" {
		t.Fatalf("subgroup container = %+v", sg)
	}
	if tile, _ := m.Tiles.Find("s2"); tile.Home != "tileContainer1" {
		t.Fatalf("s2 home = %q", tile.Home)
	}
	if !m.Tiles.PinnedHidden {
		t.Error("pinned group should start hidden")
	}
}

func TestEverySiteAppearsOnceInBothModels(t *testing.T) {
	doc := mustParse(t, `[
		{"GroupName": "G1", "Sites": [{"ID": "a", "Name": "A"}, {"ID": "b", "Name": "B"}]},
		{"GroupName": "Empty"},
		{"GroupName": "G2", "Subgroups": [
			{"SubgroupName": "x", "Sites": [{"ID": "c", "Name": "C"}]},
			{"SubgroupName": "y", "Sites": [{"ID": "d", "Name": "D"}, {"ID": "e", "Name": "E"}]}
		]}
	]`)
	m := Build(doc, []string{"Region"})

	tileCount := map[string]int{}
	for _, tile := range m.Tiles.Tiles() {
		tileCount[tile.ID]++
	}
	rowCount := map[string]int{}
	for _, r := range m.Table.Rows {
		rowCount[r.SiteID]++
	}
	for _, s := range doc.Sites() {
		if tileCount[s.ID] != 1 || rowCount[s.ID] != 1 {
			t.Errorf("%s: tiles=%d rows=%d", s.ID, tileCount[s.ID], rowCount[s.ID])
		}
	}

	empty := m.Tiles.Groups[1]
	if empty.Kind != sites.BodyEmpty || empty.Container == nil || empty.Container.Placeholder != EmptyPlaceholder {
		t.Fatalf("empty group = %+v", empty)
	}
}

func TestTableColumnsAndKeys(t *testing.T) {
	doc := mustParse(t, `[{"GroupName": "G", "Sites": [
		{"ID": "web01", "Name": "Web", "Tags": [{"Text": "offline"}, {"Text": "slow"}],
		 "ListViewCustomColumns": ["eu-west", ""]},
		{"ID": "db01", "Name": "Database"}
	]}]`)
	m := Build(doc, []string{"Region", "Owner"})

	if got := len(m.Table.Columns); got != 4+2+1 {
		t.Fatalf("header count = %d", got)
	}
	last := m.Table.Columns[len(m.Table.Columns)-1]
	if last.Sortable || !last.MinWidth || last.Index != 6 {
		t.Fatalf("controls column = %+v", last)
	}
	if titles := m.Table.CustomColumnTitles(); len(titles) != 2 || titles[1] != "Owner" {
		t.Fatalf("custom titles = %v", titles)
	}

	web := m.Table.Row("web01")
	if k, _ := web.SortKey(ColumnTags); k != "1" {
		t.Errorf("tags key = %q, want minimum precedence 1", k)
	}
	if web.Status != "online slow" {
		t.Errorf("status text = %q", web.Status)
	}
	if k, ok := web.SortKey(4); !ok || k != "eu-west" {
		t.Errorf("custom key = %q %v", k, ok)
	}
	if _, ok := web.SortKey(5); ok {
		t.Error("empty custom value must not produce a key")
	}
	if web.Cells[5].Text != EmptyCell {
		t.Errorf("empty custom cell = %q", web.Cells[5].Text)
	}

	db := m.Table.Row("db01")
	if k, _ := db.SortKey(ColumnTags); k != "9" {
		t.Errorf("untagged key = %q", k)
	}
	if db.Cells[ColumnTags].Text != EmptyCell || !db.Cells[ColumnTags].Plain() {
		t.Errorf("untagged cell = %+v", db.Cells[ColumnTags])
	}
	if len(db.Cells) != len(m.Table.Columns) {
		t.Errorf("cells = %d, columns = %d", len(db.Cells), len(m.Table.Columns))
	}
}

func TestTileAttributes(t *testing.T) {
	doc := mustParse(t, `[{"GroupName": "G", "Sites": [
		{"ID": "a", "Name": "A", "Description": "Edge proxy", "Tags": [{"Text": "Online"}]},
		{"ID": "b", "Name": "B"}
	]}]`)
	m := Build(doc, nil)
	a, _ := m.Tiles.Find("a")
	b, _ := m.Tiles.Find("b")

	want := map[string]string{
		AttrSiteID:          "a",
		AttrSiteName:        "A",
		AttrSiteStatus:      "0",
		AttrSiteStatusText:  "online",
		AttrSiteDescription: "Edge proxy",
		AttrTileContainer:   "tileContainer0",
	}
	for name, v := range want {
		if got, ok := a.Attr(name); !ok || got != v {
			t.Errorf("%s = %q %v, want %q", name, got, ok, v)
		}
	}
	if len(b.Attrs()) != 4 {
		t.Errorf("b attrs = %+v", b.Attrs())
	}
	if b.Placeholder != DefaultLinkPlaceholder {
		t.Errorf("placeholder = %q", b.Placeholder)
	}
	if b.Image.Src != DefaultSiteImage {
		t.Errorf("image = %+v", b.Image)
	}
}

func TestClickableRowsCarryDetails(t *testing.T) {
	doc := mustParse(t, `[{"GroupName": "G", "Sites": [
		{"ID": "a", "Name": "A", "AdditionalDetails": [{"Title": "Hardware", "Data": [{"Key": "CPU", "Value": "8"}]}]}
	]}]`)
	r := Build(doc, nil).Table.Rows[0]
	if !r.Clickable {
		t.Fatal("row should be clickable")
	}
	attrs := map[string]string{}
	for _, a := range r.Attrs() {
		attrs[a.Name] = a.Value
	}
	if attrs[AttrSiteID] != "a" || !strings.Contains(attrs[AttrSiteDetails], `"Hardware"`) {
		t.Fatalf("attrs = %v", attrs)
	}
	if !strings.Contains(attrs[AttrSiteImage], DefaultSiteImage) {
		t.Fatalf("site image = %q", attrs[AttrSiteImage])
	}
}

func TestTextCellsEscapeMarkup(t *testing.T) {
	doc := mustParse(t, `[{"GroupName": "G", "Sites": [{"ID": "a&b", "Name": "<x>"}]}]`)
	r := Build(doc, nil).Table.Rows[0]
	if r.Cells[ColumnID].HTML != "a&amp;b" || r.Cells[ColumnID].Plain() {
		t.Errorf("id cell = %+v", r.Cells[ColumnID])
	}
	if r.Cells[ColumnName].HTML != "&lt;x&gt;" {
		t.Errorf("name cell = %+v", r.Cells[ColumnName])
	}

	doc = mustParse(t, `[{"GroupName": "G", "Sites": [{"ID": "q", "Name": "say \"hi\" 'there'"}]}]`)
	c := Build(doc, nil).Table.Rows[0].Cells[ColumnName]
	if c.HTML != `say "hi" 'there'` || !c.Plain() {
		t.Errorf("quoted name cell = %+v", c)
	}
}

func TestNewTagKeywordStyling(t *testing.T) {
	tests := []struct {
		tag    sites.Tag
		colour string
		image  string
	}{
		{sites.Tag{Text: "online"}, "green", "images/online.svg"},
		{sites.Tag{Text: "SLOW"}, "yellow", "images/slow.svg"},
		{sites.Tag{Text: "offline"}, "red", "images/offline.svg"},
		{sites.Tag{Text: "offline", Colour: "Green"}, "green", ""},
		{sites.Tag{Text: "online", ImagePath: "custom.svg"}, "", "custom.svg"},
		{sites.Tag{Text: "prod", Colour: "purple"}, "", ""},
	}
	for _, tt := range tests {
		v := NewTag(tt.tag, true, true)
		if v.Colour != tt.colour || v.Image != tt.image {
			t.Errorf("NewTag(%+v) = colour %q image %q", tt.tag, v.Colour, v.Image)
		}
	}

	linked := NewTag(sites.Tag{Text: "docs", Url: "https://x", Tooltip: "tip"}, false, false)
	if linked.Href != "" || linked.Tooltip != "" {
		t.Errorf("links and tooltips should be suppressed: %+v", linked)
	}
}

func TestReplaceLiveKeepsStaticGroups(t *testing.T) {
	first := Build(mustParse(t, scenario), nil).Tiles
	static := Group{Name: "Static", Container: &Container{ID: "staticContainer"}}
	first.Groups = append([]Group{static}, first.Groups...)
	first.Pinned.Tiles = append(first.Pinned.Tiles, &Tile{ID: "old"})

	next := Build(mustParse(t, `[{"GroupName": "C", "Sites": [{"ID": "s9", "Name": "Nine"}]}]`), nil).Tiles
	first.ReplaceLive(next)

	if len(first.Groups) != 2 || first.Groups[0].Name != "Static" || first.Groups[1].Name != "C" {
		t.Fatalf("groups = %+v", first.Groups)
	}
	if len(first.Pinned.Tiles) != 0 {
		t.Fatal("pinned container should be cleared")
	}
	if first.Container("staticContainer") == nil {
		t.Fatal("static container lost")
	}
}

func TestLinkHTML(t *testing.T) {
	f := false
	l := NewLink(sites.Hyperlink{Title: "Console", Url: "https://c", ImagePath: "i.svg", OpenUrlInNewTab: &f}, true)
	got := l.HTML()
	if strings.Contains(got, "_blank") || !strings.Contains(got, `data-tooltip="Console"`) || strings.Contains(got, "<span>") {
		t.Fatalf("HTML = %s", got)
	}
	if !NewLink(sites.Hyperlink{Title: "x"}, false).NewTab {
		t.Fatal("links open in a new tab by default")
	}
}
