package features

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Link  string    `xml:"link"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type FeedItem struct {
	Href        string `json:"href"`
	Title       string `json:"title,omitempty"`
	Published   string `json:"published,omitempty"`
	Description string `json:"description,omitempty"`
}

// Feed is the rendered RSS feed. URL is where it was fetched from.
type Feed struct {
	URL   string     `json:"url"`
	Items []FeedItem `json:"items"`
}

// ParseFeed decodes an RSS document. Items without a link fall back to the
// channel link, then to the feed URL itself.
func ParseFeed(data []byte, feedURL string) (*Feed, error) {
	var doc rssDocument
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding rss feed: %w", err)
	}

	fallback := strings.TrimSpace(doc.Channel.Link)
	if fallback == "" {
		fallback = feedURL
	}

	feed := &Feed{URL: feedURL, Items: make([]FeedItem, 0, len(doc.Channel.Items))}
	for _, it := range doc.Channel.Items {
		item := FeedItem{
			Href:        strings.TrimSpace(it.Link),
			Title:       it.Title,
			Published:   strings.Replace(it.PubDate, "GMT", "UTC", 1),
			Description: it.Description,
		}
		if item.Href == "" {
			item.Href = fallback
		}
		feed.Items = append(feed.Items, item)
	}
	return feed, nil
}
