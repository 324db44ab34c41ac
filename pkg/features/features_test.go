package features

import (
	"errors"
	"testing"
	"time"
)

func TestResolveBranding(t *testing.T) {
	b, err := ParseBranding([]byte(`{"HighlightColour": "Purple", "HeaderSubtitle": "Ops", "HelpHyperlinkPlaceholder": "Ask IT"}`))
	if err != nil {
		t.Fatalf("ParseBranding: %v", err)
	}
	if b.HeaderTitle != DefaultHeaderTitle {
		t.Errorf("header title = %q", b.HeaderTitle)
	}
	if b.HighlightColour != "purple" {
		t.Errorf("highlight colour = %q", b.HighlightColour)
	}
	if b.HelpHref != "" || b.HelpAlert != "Ask IT" {
		t.Errorf("help = %q / %q", b.HelpHref, b.HelpAlert)
	}

	b = ResolveBranding(BrandingConfig{HeaderTitle: "Infra", HelpHyperlink: "https://help", HelpHyperlinkPlaceholder: "unused"})
	if b.HeaderTitle != "Infra" || b.HelpHref != "https://help" || b.HelpAlert != "" {
		t.Errorf("branding = %+v", b)
	}
}

func TestParseListViewSkipsEmptyColumns(t *testing.T) {
	cols, err := ParseListView([]byte(`{"CustomColumns": ["Region", "", "Owner"]}`))
	if err != nil {
		t.Fatalf("ParseListView: %v", err)
	}
	if len(cols) != 2 || cols[0] != "Region" || cols[1] != "Owner" {
		t.Fatalf("columns = %v", cols)
	}
	cols, err = ParseListView([]byte(`{}`))
	if err != nil || len(cols) != 0 {
		t.Fatalf("empty document = %v, %v", cols, err)
	}
}

func TestBuildClocks(t *testing.T) {
	now := time.Date(2026, time.January, 15, 12, 30, 0, 0, time.UTC)

	clocks, err := BuildClocks([]ClockConfig{
		{TimeZone: "Asia/Kolkata"},
		{TimeZone: "America/New_York", Title: "HQ", Subtitle: "East coast"},
		{TimeZone: "UTC"},
	}, now)
	if err != nil {
		t.Fatalf("BuildClocks: %v", err)
	}

	tests := []struct {
		title, subtitle, time string
	}{
		{"Asia/Kolkata", "UTC+05:30", "18:00"},
		{"HQ", "East coast • UTC-05:00", "07:30"},
		{"UTC", "", "12:30"},
	}
	for i, tt := range tests {
		c := clocks[i]
		if c.Title != tt.title || c.Subtitle != tt.subtitle || c.Time != tt.time {
			t.Errorf("clock %d = %+v, want %+v", i, c, tt)
		}
	}

	clocks[0].Tick(now.Add(time.Hour))
	if clocks[0].Time != "19:00" {
		t.Errorf("tick = %q", clocks[0].Time)
	}
}

func TestBuildClocksInvalidZone(t *testing.T) {
	for _, cfg := range [][]ClockConfig{
		{{TimeZone: ""}},
		{{TimeZone: "UTC"}, {TimeZone: "Mars/Olympus"}},
	} {
		_, err := BuildClocks(cfg, time.Now())
		var cerr *ConfigurationError
		if !errors.As(err, &cerr) {
			t.Fatalf("error = %v, want ConfigurationError", err)
		}
		if cerr.Feature != "clocks" || cerr.Index != len(cfg)-1 {
			t.Errorf("error = %+v", cerr)
		}
	}
}

func TestClockButton(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	b := NewClockButton(time.Date(2026, time.March, 4, 1, 5, 0, 0, loc))
	if b.Time != "22:05 UTC" || b.Date != "03 Mar 2026" {
		t.Fatalf("button = %+v", b)
	}
}

func TestBuildStatisticsPairs(t *testing.T) {
	st, err := ParseStatistics([]byte(`[{"Title":"a"},{"Title":"b"},{"Title":"c"}]`))
	if err != nil {
		t.Fatalf("ParseStatistics: %v", err)
	}
	if len(st.Subcontainers) != 2 || len(st.Subcontainers[0]) != 2 || len(st.Subcontainers[1]) != 1 {
		t.Fatalf("subcontainers = %+v", st.Subcontainers)
	}
	if st.Count() != 3 || st.Empty() {
		t.Fatalf("count = %d", st.Count())
	}

	empty, err := ParseStatistics([]byte(`[]`))
	if err != nil || !empty.Empty() {
		t.Fatalf("empty statistics = %+v, %v", empty, err)
	}
}

func TestParseFeed(t *testing.T) {
	doc := `<?xml version="1.0"?>
<rss version="2.0"><channel>
	<title>Status</title>
	<link>https://status.example.com</link>
	<item><title>Maintenance</title><link>https://status.example.com/1</link><pubDate>Mon, 05 Jan 2026 10:00:00 GMT</pubDate><description>Planned</description></item>
	<item><title>No link</title></item>
</channel></rss>`

	feed, err := ParseFeed([]byte(doc), "https://dash/rss")
	if err != nil {
		t.Fatalf("ParseFeed: %v", err)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("items = %d", len(feed.Items))
	}
	if feed.Items[0].Published != "Mon, 05 Jan 2026 10:00:00 UTC" {
		t.Errorf("published = %q", feed.Items[0].Published)
	}
	if feed.Items[1].Href != "https://status.example.com" {
		t.Errorf("fallback href = %q", feed.Items[1].Href)
	}

	bare, err := ParseFeed([]byte(`<rss><channel><item><title>x</title></item></channel></rss>`), "https://dash/rss")
	if err != nil {
		t.Fatalf("ParseFeed: %v", err)
	}
	if bare.Items[0].Href != "https://dash/rss" {
		t.Errorf("feed url fallback = %q", bare.Items[0].Href)
	}

	if _, err := ParseFeed([]byte("not xml"), ""); err == nil {
		t.Error("expected an error for malformed xml")
	}
}
