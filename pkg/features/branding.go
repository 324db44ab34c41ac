// Package features resolves the auxiliary dashboard resources: branding,
// sidebar hyperlinks, clocks, statistics tiles and the RSS feed. Each
// feature fails on its own; a broken clocks file never affects the sites.
package features

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rubiojr/adminhub/pkg/sites"
)

const DefaultHeaderTitle = "Admin Hub"

// ConfigurationError reports a feature whose configuration cannot be
// rendered. Only that feature is affected.
type ConfigurationError struct {
	Feature string
	Index   int
	Msg     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Feature, e.Msg)
}

// BrandingConfig is the branding.json document. Every field is optional.
type BrandingConfig struct {
	WebsiteTitle             string `json:"WebsiteTitle,omitempty"`
	FaviconPath              string `json:"FaviconPath,omitempty"`
	HighlightColour          string `json:"HighlightColour,omitempty"`
	HeaderTitle              string `json:"HeaderTitle,omitempty"`
	HeaderSubtitle           string `json:"HeaderSubtitle,omitempty"`
	ImagePath                string `json:"ImagePath,omitempty"`
	HelpHyperlink            string `json:"HelpHyperlink,omitempty"`
	HelpHyperlinkPlaceholder string `json:"HelpHyperlinkPlaceholder,omitempty"`
	sites.ImageOptions
}

// Branding is the resolved page branding.
type Branding struct {
	WebsiteTitle    string   `json:"website_title,omitempty"`
	FaviconPath     string   `json:"favicon_path,omitempty"`
	HighlightColour string   `json:"highlight_colour,omitempty"`
	HeaderTitle     string   `json:"header_title"`
	HeaderSubtitle  string   `json:"header_subtitle,omitempty"`
	Image           string   `json:"image,omitempty"`
	ImageClasses    []string `json:"image_classes,omitempty"`
	HelpHref        string   `json:"help_href,omitempty"`
	HelpAlert       string   `json:"help_alert,omitempty"`
}

// DefaultBranding is used until a branding document has been loaded.
func DefaultBranding() Branding {
	return Branding{HeaderTitle: DefaultHeaderTitle}
}

// ResolveBranding applies each configured field independently. A help
// hyperlink wins over the placeholder message.
func ResolveBranding(c BrandingConfig) Branding {
	b := DefaultBranding()
	b.WebsiteTitle = c.WebsiteTitle
	b.FaviconPath = c.FaviconPath
	b.HighlightColour = strings.ToLower(c.HighlightColour)
	if c.HeaderTitle != "" {
		b.HeaderTitle = c.HeaderTitle
	}
	b.HeaderSubtitle = c.HeaderSubtitle
	if c.ImagePath != "" {
		b.Image = c.ImagePath
		b.ImageClasses = c.ImageOptions.Classes()
	}
	if c.HelpHyperlink != "" {
		b.HelpHref = c.HelpHyperlink
	} else {
		b.HelpAlert = c.HelpHyperlinkPlaceholder
	}
	return b
}

func ParseBranding(data []byte) (Branding, error) {
	var c BrandingConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return Branding{}, &ConfigurationError{Feature: "branding", Index: -1, Msg: err.Error()}
	}
	return ResolveBranding(c), nil
}

// HyperlinkGroup is one titled block of sidebar links.
type HyperlinkGroup struct {
	Title      string            `json:"Title,omitempty"`
	Hyperlinks []sites.Hyperlink `json:"Hyperlinks,omitempty"`
}

func ParseHyperlinks(data []byte) ([]HyperlinkGroup, error) {
	var groups []HyperlinkGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, &ConfigurationError{Feature: "hyperlinks", Index: -1, Msg: err.Error()}
	}
	return groups, nil
}

// ListView is the list-view.json document.
type ListView struct {
	CustomColumns []string `json:"CustomColumns,omitempty"`
}

// ParseListView returns the custom column titles, skipping empty ones.
func ParseListView(data []byte) ([]string, error) {
	var lv ListView
	if err := json.Unmarshal(data, &lv); err != nil {
		return nil, fmt.Errorf("decoding list view document: %w", err)
	}
	columns := make([]string, 0, len(lv.CustomColumns))
	for _, c := range lv.CustomColumns {
		if c != "" {
			columns = append(columns, c)
		}
	}
	return columns, nil
}
