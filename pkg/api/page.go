package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/rubiojr/adminhub/pkg/dashboard"
	"github.com/rubiojr/adminhub/pkg/prefs"
	"github.com/rubiojr/adminhub/pkg/search"
	"github.com/rubiojr/adminhub/pkg/sites"
	"github.com/rubiojr/adminhub/pkg/viewmodel"
)

// HandleIndex renders a read-only HTML page of the active view. A search
// parameter seeds the filter and is then stripped with a redirect.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("search") {
		q, stripped := search.SeedFromURL(r.URL)
		s.session.Search(q)
		http.Redirect(w, r, stripped.RequestURI(), http.StatusSeeOther)
		return
	}
	templ.Handler(s.page()).ServeHTTP(w, r)
}

func (s *Server) page() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var err error
		s.session.Read(func(snap *dashboard.Snapshot) {
			p := &pageWriter{w: w}
			p.render(snap)
			err = p.err
		})
		return err
	})
}

// pageWriter keeps the first write error so rendering reads straight
// through.
type pageWriter struct {
	w   io.Writer
	err error
}

func (p *pageWriter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func esc(s string) string {
	return templ.EscapeString(s)
}

func (p *pageWriter) render(snap *dashboard.Snapshot) {
	b := snap.Features.Branding
	title := b.WebsiteTitle
	if title == "" {
		title = b.HeaderTitle
	}

	p.printf("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n", esc(title))
	if b.FaviconPath != "" {
		p.printf("<link rel=\"icon\" href=\"%s\">\n", esc(b.FaviconPath))
	}
	p.printf("</head>\n<body class=\"%s\">\n", esc(snap.View))
	p.printf("<header><h1>%s</h1>", esc(b.HeaderTitle))
	if b.HeaderSubtitle != "" {
		p.printf("<p>%s</p>", esc(b.HeaderSubtitle))
	}
	p.printf("<span class=\"tag tag--indicator tag--%s\">%s</span></header>\n", esc(snap.Status.Colour), esc(snap.Status.Text))
	if snap.Search.Caption != "" {
		p.printf("<p class=\"search-caption\">%s</p>\n", snap.Search.Caption)
	}

	if snap.View == prefs.ViewList {
		p.table(snap.Table)
	} else {
		p.tiles(snap.Tiles)
	}
	p.printf("</body>\n</html>\n")
}

func (p *pageWriter) tiles(m *viewmodel.TileModel) {
	if !m.PinnedHidden {
		p.printf("<section class=\"group group--pinned\"><h2>Pinned</h2>")
		p.container(m.Pinned)
		p.printf("</section>\n")
	}
	for _, g := range m.Groups {
		p.printf("<section class=\"group\"><h2>%s</h2>", esc(g.Name))
		if g.Kind == sites.BodyNested {
			for _, sg := range g.Subgroups {
				p.printf("<h3>%s</h3>", esc(sg.Name))
				p.container(sg.Container)
			}
		} else if g.Container != nil {
			p.container(g.Container)
		}
		p.printf("</section>\n")
	}
}

func (p *pageWriter) container(c *viewmodel.Container) {
	p.printf("<div class=\"tile-container\" id=\"%s\">", esc(c.ID))
	if c.Placeholder != "" {
		p.printf("<p class=\"placeholder\">%s</p>", esc(c.Placeholder))
	}
	for _, t := range c.Tiles {
		if t.Hidden {
			continue
		}
		var attrs strings.Builder
		for _, a := range t.Attrs() {
			fmt.Fprintf(&attrs, " %s=\"%s\"", a.Name, esc(a.Value))
		}
		p.printf("<article class=\"tile\"%s>%s<h4>%s</h4>", attrs.String(), t.Image.HTML(), esc(t.Name))
		for _, tag := range t.Tags {
			p.printf("%s", tag.HTML())
		}
		for _, l := range t.Links {
			p.printf("%s", l.HTML())
		}
		if t.Placeholder != "" {
			p.printf("<span class=\"placeholder\">%s</span>", esc(t.Placeholder))
		}
		p.printf("</article>")
	}
	p.printf("</div>")
}

func (p *pageWriter) table(t *viewmodel.TableModel) {
	p.printf("<table class=\"list-view\"><thead><tr>")
	for _, c := range t.Columns {
		if !c.Visible {
			continue
		}
		sort := ""
		if c.Sortable && c.Index == t.SortColumn {
			sort = fmt.Sprintf(" aria-sort=\"%s\"", esc(t.SortDirection))
		}
		p.printf("<th%s>%s</th>", sort, esc(c.Title))
	}
	p.printf("</tr></thead>\n<tbody>\n")
	for _, r := range t.Rows {
		if r.Hidden {
			continue
		}
		p.printf("<tr data-siteid=\"%s\">", esc(r.SiteID))
		for _, c := range r.Cells {
			if !c.Visible {
				continue
			}
			p.printf("<td class=\"%s\">%s</td>", esc(c.Class), c.HTML)
		}
		p.printf("</tr>\n")
	}
	p.printf("</tbody></table>\n")
}
