package sites

import (
	"encoding/json"
	"fmt"
)

// Site is a single monitored service shown as a tile and as a table row.
type Site struct {
	ID                       string           `json:"ID"`
	Name                     string           `json:"Name"`
	Description              string           `json:"Description,omitempty"`
	ImagePath                string           `json:"ImagePath,omitempty"`
	ImageOptions                              // brightness, inversion, shadow
	Tags                     []Tag            `json:"Tags,omitempty"`
	Status                   []StatusItem     `json:"Status,omitempty"`
	Hyperlink1               *Hyperlink       `json:"Hyperlink1,omitempty"`
	Hyperlink2               *Hyperlink       `json:"Hyperlink2,omitempty"`
	HyperlinkPlaceholderText string           `json:"HyperlinkPlaceholderText,omitempty"`
	AdditionalHyperlinks     []Hyperlink      `json:"AdditionalHyperlinks,omitempty"`
	AdditionalDetails        []DetailCategory `json:"AdditionalDetails,omitempty"`
	ListViewCustomColumns    []string         `json:"ListViewCustomColumns,omitempty"`
}

// ImageOptions are the presentation flags shared by every configurable image.
type ImageOptions struct {
	ImageAllowBrightnessControl bool `json:"ImageAllowBrightnessControl,omitempty"`
	ImageAllowColourInversion   bool `json:"ImageAllowColourInversion,omitempty"`
	ImageShadow                 bool `json:"ImageShadow,omitempty"`
}

// Classes returns the CSS classes for an image with these options.
// Brightness control wins over colour inversion.
func (o ImageOptions) Classes() []string {
	var classes []string
	if o.ImageAllowBrightnessControl {
		classes = append(classes, "image--allow-brightness-control")
	} else if o.ImageAllowColourInversion {
		classes = append(classes, "image--allow-colour-inversion")
	}
	if o.ImageShadow {
		classes = append(classes, "image--drop-shadow")
	}
	return classes
}

// Group is a raw sites.json group. Sites and Subgroups are mutually
// exclusive in practice; Validate resolves which one applies.
type Group struct {
	GroupName string     `json:"GroupName"`
	Sites     []Site     `json:"Sites,omitempty"`
	Subgroups []Subgroup `json:"Subgroups,omitempty"`
}

type Subgroup struct {
	SubgroupName string `json:"SubgroupName"`
	Sites        []Site `json:"Sites"`
}

type Tag struct {
	Text            string `json:"Text,omitempty"`
	Colour          string `json:"Colour,omitempty"`
	ImagePath       string `json:"ImagePath,omitempty"`
	Url             string `json:"Url,omitempty"`
	Tooltip         string `json:"Tooltip,omitempty"`
	OpenUrlInNewTab *bool  `json:"OpenUrlInNewTab,omitempty"`
}

type StatusItem struct {
	Tooltip         string `json:"Tooltip,omitempty"`
	ImagePath       string `json:"ImagePath,omitempty"`
	TitleText       string `json:"TitleText,omitempty"`
	ValueText       string `json:"ValueText,omitempty"`
	Url             string `json:"Url,omitempty"`
	SmallValueText  bool   `json:"SmallValueText,omitempty"`
	OpenUrlInNewTab *bool  `json:"OpenUrlInNewTab,omitempty"`
}

type Hyperlink struct {
	Title           string `json:"Title,omitempty"`
	Url             string `json:"Url,omitempty"`
	ImagePath       string `json:"ImagePath,omitempty"`
	OpenUrlInNewTab *bool  `json:"OpenUrlInNewTab,omitempty"`
	ImageOptions
}

// NewTab reports whether a link opens in a new tab; unset means yes.
func NewTab(flag *bool) bool {
	return flag == nil || *flag
}

type DetailCategory struct {
	Title   string       `json:"Title"`
	Caption string       `json:"Caption,omitempty"`
	Data    []DetailItem `json:"Data"`
}

type DetailItem struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// Decode parses a sites.json document.
func Decode(data []byte) ([]Group, error) {
	var groups []Group
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("decoding sites document: %w", err)
	}
	return groups, nil
}
