// Package viewmodel projects a validated sites document into the two render
// models the dashboard paints: a grouped tile model and a flat table model.
// Both are rebuilt together from the same document and never patched.
package viewmodel

import (
	"encoding/json"
	"strings"

	"github.com/rubiojr/adminhub/pkg/sites"
)

type Models struct {
	Tiles *TileModel
	Table *TableModel
}

// Build projects doc into a fresh tile model and table model. customColumns
// are the extra table columns from list-view.json.
func Build(doc *sites.Document, customColumns []string) *Models {
	b := &builder{
		custom: customColumns,
		tiles:  NewTileModel(),
		table:  &TableModel{Columns: tableColumns(customColumns), SortColumn: ColumnID, SortDirection: "ascending"},
	}

	for _, g := range doc.Groups {
		group := Group{Name: g.Name, LiveData: true, Kind: g.Body.Kind}
		switch g.Body.Kind {
		case sites.BodyFlat:
			group.Container = b.container(g.Body.Sites)
		case sites.BodyNested:
			for _, sg := range g.Body.Subgroups {
				group.Subgroups = append(group.Subgroups, Subgroup{Name: sg.SubgroupName, Container: b.container(sg.Sites)})
			}
		default:
			group.Container = &Container{}
		}
		b.tiles.Groups = append(b.tiles.Groups, group)
	}

	b.tiles.Arrange()
	return &Models{Tiles: b.tiles, Table: b.table}
}

type builder struct {
	custom     []string
	containers int
	tiles      *TileModel
	table      *TableModel
}

func (b *builder) container(list []sites.Site) *Container {
	c := &Container{ID: ContainerID(b.containers)}
	b.containers++
	for _, s := range list {
		c.Tiles = append(c.Tiles, newTile(s, c.ID))
		b.table.Rows = append(b.table.Rows, b.row(s))
	}
	return c
}

func tableColumns(custom []string) []Column {
	cols := []Column{
		{Index: ColumnImage, MinWidth: true, Visible: true},
		{Index: ColumnID, Title: "ID", Sortable: true, Visible: true},
		{Index: ColumnName, Title: "Name", Sortable: true, Visible: true},
		{Index: ColumnTags, Title: "Tags", Sortable: true, Visible: true},
	}
	for i, title := range custom {
		cols = append(cols, Column{Index: ColumnCustom + i, Title: title, Sortable: true, Visible: true})
	}
	return append(cols, Column{Index: ColumnCustom + len(custom), MinWidth: true, Visible: true})
}

func newTile(s sites.Site, home string) *Tile {
	t := &Tile{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Status:      s.DerivedStatus(),
		Home:        home,
		Image:       SiteImage(s),
		MoreLinks:   NewLinks(s.AdditionalHyperlinks),
		Details:     s.AdditionalDetails,
	}
	for _, tag := range s.Tags {
		t.Tags = append(t.Tags, NewTag(tag, true, true))
	}
	for _, st := range s.Status {
		t.StatusItems = append(t.StatusItems, NewStatusItem(st))
	}
	for _, h := range []*sites.Hyperlink{s.Hyperlink1, s.Hyperlink2} {
		if h != nil {
			t.Links = append(t.Links, NewLink(*h, false))
		}
	}
	if len(t.Links) == 0 {
		t.Placeholder = s.HyperlinkPlaceholderText
		if t.Placeholder == "" {
			t.Placeholder = DefaultLinkPlaceholder
		}
	}
	return t
}

func (b *builder) row(s sites.Site) *Row {
	status := s.DerivedStatus()
	img := SiteImage(s)
	r := &Row{
		SiteID: s.ID,
		Keys: map[int]string{
			ColumnID:   s.ID,
			ColumnName: s.Name,
			ColumnTags: status.Key(),
		},
		Status: status.Text(),
	}

	r.Cells = append(r.Cells,
		Cell{HTML: `<div class="list-view-table__cell-image-container">` + img.HTML() + `</div>`, Visible: true},
		textCell(s.ID, "list-view-table__cell--bold-text"),
		textCell(s.Name, ""),
		tagsCell(s.Tags),
	)

	for i := range b.custom {
		if i < len(s.ListViewCustomColumns) && s.ListViewCustomColumns[i] != "" {
			v := s.ListViewCustomColumns[i]
			r.Keys[ColumnCustom+i] = v
			r.Cells = append(r.Cells, textCell(v, "list-view-table__cell--small-text"))
		} else {
			r.Cells = append(r.Cells, textCell(EmptyCell, "list-view-table__cell--small-text"))
		}
	}

	r.Cells = append(r.Cells, controlsCell(s))

	if len(s.AdditionalDetails) > 0 {
		details, _ := json.Marshal(s.AdditionalDetails)
		r.Clickable = true
		r.SiteName = s.Name
		r.SiteImage = img.HTML()
		r.Details = string(details)
	}
	return r
}

func tagsCell(tags []sites.Tag) Cell {
	if len(tags) == 0 {
		return textCell(EmptyCell, "list-view-table__cell--small-text")
	}
	var html strings.Builder
	texts := make([]string, 0, len(tags))
	html.WriteString(`<div class="list-view-table__cell-tag-container">`)
	for _, tag := range tags {
		v := NewTag(tag, false, false)
		html.WriteString(v.HTML())
		if v.Text != "" {
			texts = append(texts, v.Text)
		}
	}
	html.WriteString("</div>")
	return Cell{Text: strings.Join(texts, " "), HTML: html.String(), Visible: true}
}

func controlsCell(s sites.Site) Cell {
	var b strings.Builder
	b.WriteString(`<div class="list-view-table__cell-controls-container">`)
	for _, h := range []*sites.Hyperlink{s.Hyperlink1, s.Hyperlink2} {
		if h != nil {
			b.WriteString(NewLink(*h, true).HTML())
		}
	}
	if len(s.AdditionalHyperlinks) > 0 {
		b.WriteString(`<div class="hyperlink-popup" data-tooltip="Hyperlinks"><div class="hyperlink-popup__content-container">`)
		for _, l := range NewLinks(s.AdditionalHyperlinks) {
			b.WriteString(l.HTML())
		}
		b.WriteString("</div></div>")
	}
	b.WriteString("</div>")
	return Cell{HTML: b.String(), Visible: true}
}
