package search

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	markTags = regexp.MustCompile(`(?i)</?mark>`)
	htmlTags = regexp.MustCompile(`<[^>]*>`)
)

// Query is a prepared filter string. Regex metacharacters in the input
// are matched literally.
type Query struct {
	raw   string
	upper string
	re    *regexp.Regexp
	caser cases.Caser
}

func NewQuery(s string) *Query {
	q := &Query{raw: s, caser: cases.Upper(language.Und)}
	if s != "" {
		q.upper = q.caser.String(s)
		q.re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(s))
	}
	return q
}

func (q *Query) String() string {
	return q.raw
}

func (q *Query) Empty() bool {
	return q.raw == ""
}

// Matches reports whether s contains the query. Everything matches the
// empty query.
func (q *Query) Matches(s string) bool {
	if q.Empty() {
		return true
	}
	return strings.Contains(q.caser.String(s), q.upper)
}

// Highlight wraps every match in text with <mark> tags. text must not
// contain markup.
func (q *Query) Highlight(text string) string {
	if q.Empty() {
		return text
	}
	return q.re.ReplaceAllString(text, "<mark>$0</mark>")
}

// HighlightHTML marks matches in the text between tags of s, leaving the
// tags themselves untouched.
func (q *Query) HighlightHTML(s string) string {
	s = StripMarks(s)
	if q.Empty() {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range htmlTags.FindAllStringIndex(s, -1) {
		b.WriteString(q.Highlight(s[last:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(q.Highlight(s[last:]))
	return b.String()
}

// StripMarks removes highlight tags left by a previous search.
func StripMarks(s string) string {
	return markTags.ReplaceAllString(s, "")
}

// Result summarises a tile or table filter pass.
type Result struct {
	Query   string `json:"query"`
	Visible int    `json:"visible"`
	Total   int    `json:"total"`
	// SearchMode is set while a non-empty filter is active.
	SearchMode bool `json:"search_mode"`
	// SidebarInert disables sidebar interaction during a tile search.
	SidebarInert bool   `json:"sidebar_inert"`
	Caption      string `json:"caption"`
}

func newResult(q *Query, visible, total int) Result {
	r := Result{Query: q.String(), Visible: visible, Total: total}
	if !q.Empty() {
		r.SearchMode = true
		r.Caption = fmt.Sprintf("Showing: <b>%d</b> of <b>%d</b>", visible, total)
	}
	return r
}

// SeedFromURL returns the search parameter of u and a copy of u with the
// parameter removed.
func SeedFromURL(u *url.URL) (string, *url.URL) {
	stripped := *u
	values := u.Query()
	q := values.Get("search")
	if !values.Has("search") {
		return q, &stripped
	}
	values.Del("search")
	stripped.RawQuery = values.Encode()
	return q, &stripped
}
