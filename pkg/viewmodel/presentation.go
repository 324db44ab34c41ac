package viewmodel

import (
	"html"
	"strings"

	"github.com/rubiojr/adminhub/pkg/sites"
)

const (
	DefaultSiteImage       = "images/data-centre.svg"
	DefaultLinkPlaceholder = "No hyperlinks are available"
)

// Image is a configured or default image reference.
type Image struct {
	Src     string   `json:"src"`
	Classes []string `json:"classes,omitempty"`
}

// HTML renders the image element.
func (i Image) HTML() string {
	var b strings.Builder
	b.WriteString("<img")
	if len(i.Classes) > 0 {
		b.WriteString(` class="` + html.EscapeString(strings.Join(i.Classes, " ")) + `"`)
	}
	b.WriteString(` src="` + html.EscapeString(i.Src) + `" alt="?">`)
	return b.String()
}

// SiteImage returns the site's image, or the default data centre icon
// which always allows brightness control.
func SiteImage(s sites.Site) Image {
	if s.ImagePath != "" {
		return Image{Src: s.ImagePath, Classes: s.ImageOptions.Classes()}
	}
	return Image{Src: DefaultSiteImage, Classes: []string{"image--allow-brightness-control"}}
}

// Link is a rendered hyperlink. ImageOnly links show their title as a tooltip.
type Link struct {
	Href      string `json:"href,omitempty"`
	Title     string `json:"title,omitempty"`
	Image     *Image `json:"image,omitempty"`
	NewTab    bool   `json:"new_tab"`
	ImageOnly bool   `json:"image_only,omitempty"`
}

func NewLink(h sites.Hyperlink, imageOnly bool) Link {
	l := Link{Href: h.Url, Title: h.Title, NewTab: sites.NewTab(h.OpenUrlInNewTab), ImageOnly: imageOnly}
	if h.ImagePath != "" {
		l.Image = &Image{Src: h.ImagePath, Classes: h.ImageOptions.Classes()}
	}
	return l
}

func NewLinks(hs []sites.Hyperlink) []Link {
	out := make([]Link, 0, len(hs))
	for _, h := range hs {
		out = append(out, NewLink(h, false))
	}
	return out
}

func (l Link) HTML() string {
	var b strings.Builder
	b.WriteString("<a")
	if l.Href != "" {
		b.WriteString(` href="` + html.EscapeString(l.Href) + `"`)
	}
	if l.NewTab {
		b.WriteString(` rel="noopener noreferrer" target="_blank"`)
	}
	if l.ImageOnly && l.Title != "" {
		b.WriteString(` data-tooltip="` + html.EscapeString(l.Title) + `"`)
	}
	b.WriteString(">")
	if l.Image != nil {
		b.WriteString(l.Image.HTML())
	}
	if !l.ImageOnly && l.Title != "" {
		b.WriteString("<span>" + html.EscapeString(l.Title) + "</span>")
	}
	b.WriteString("</a>")
	return b.String()
}

// TagView is a rendered tag. Keyword tags without custom styling get the
// built-in colour and icon for their status.
type TagView struct {
	Text    string `json:"text,omitempty"`
	Href    string `json:"href,omitempty"`
	NewTab  bool   `json:"new_tab,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Colour  string `json:"colour,omitempty"`
	Image   string `json:"image,omitempty"`
}

func NewTag(t sites.Tag, allowLinks, allowTooltips bool) TagView {
	v := TagView{Text: t.Text}
	if allowLinks && t.Url != "" {
		v.Href = t.Url
		v.NewTab = sites.NewTab(t.OpenUrlInNewTab)
	}
	if allowTooltips {
		v.Tooltip = t.Tooltip
	}

	colour, image := t.Colour, t.ImagePath
	if colour == "" && image == "" {
		switch sites.Keyword(t.Text) {
		case sites.StatusOnline:
			colour, image = "green", "images/online.svg"
		case sites.StatusSlow:
			colour, image = "yellow", "images/slow.svg"
		case sites.StatusOffline:
			colour, image = "red", "images/offline.svg"
		}
	}
	switch c := strings.ToLower(colour); c {
	case "green", "yellow", "red":
		v.Colour = c
	}
	v.Image = image
	return v
}

func (t TagView) HTML() string {
	tag := "div"
	if t.Href != "" {
		tag = "a"
	}
	var b strings.Builder
	b.WriteString("<" + tag + ` class="tag`)
	if t.Colour != "" {
		b.WriteString(" tag--" + t.Colour)
	}
	b.WriteString(`"`)
	if t.Href != "" {
		b.WriteString(` href="` + html.EscapeString(t.Href) + `"`)
		if t.NewTab {
			b.WriteString(` rel="noopener noreferrer" target="_blank"`)
		}
	}
	if t.Tooltip != "" {
		b.WriteString(` data-tooltip="` + html.EscapeString(t.Tooltip) + `"`)
	}
	b.WriteString(">")
	if t.Image != "" {
		b.WriteString(`<img src="` + html.EscapeString(t.Image) + `" alt="?">`)
	}
	if t.Text != "" {
		b.WriteString("<span>" + html.EscapeString(t.Text) + "</span>")
	}
	b.WriteString("</" + tag + ">")
	return b.String()
}

// StatusItemView is one entry of a tile's status line. Title and Value
// are configuration supplied markup.
type StatusItemView struct {
	Tooltip string `json:"tooltip,omitempty"`
	Image   string `json:"image,omitempty"`
	Title   string `json:"title,omitempty"`
	Value   string `json:"value,omitempty"`
	Href    string `json:"href,omitempty"`
	NewTab  bool   `json:"new_tab,omitempty"`
	Small   bool   `json:"small,omitempty"`
}

func NewStatusItem(s sites.StatusItem) StatusItemView {
	v := StatusItemView{Tooltip: s.Tooltip, Value: s.ValueText, Small: s.SmallValueText}
	if s.ImagePath != "" {
		v.Image = s.ImagePath
	} else {
		v.Title = s.TitleText
	}
	if s.ValueText != "" && s.Url != "" {
		v.Href = s.Url
		v.NewTab = sites.NewTab(s.OpenUrlInNewTab)
	}
	return v
}
