package pins

import (
	"errors"
	"slices"
	"testing"

	"github.com/rubiojr/adminhub/pkg/prefs"
	"github.com/rubiojr/adminhub/pkg/sites"
	"github.com/rubiojr/adminhub/pkg/sorting"
	"github.com/rubiojr/adminhub/pkg/viewmodel"
)

const doc = `[
	{"GroupName": "A", "Sites": [{"ID": "s1", "Name": "One"}, {"ID": "s3", "Name": "Three"}]},
	{"GroupName": "B", "Subgroups": [{"SubgroupName": "B1", "Sites": [{"ID": "s2", "Name": "Two"}]}]}
]`

func tiles(t *testing.T) *viewmodel.TileModel {
	t.Helper()
	d, err := sites.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return viewmodel.Build(d, nil).Tiles
}

func ids(c *viewmodel.Container) []string {
	var out []string
	for _, t := range c.Tiles {
		out = append(out, t.ID)
	}
	return out
}

func TestPinUnpinRoundTrip(t *testing.T) {
	p := prefs.New(prefs.NewMemoryStore())
	m := NewManager(p)
	tm := tiles(t)
	sorting.SortTiles(tm, viewmodel.AttrSiteName)
	before := ids(tm.Container("tileContainer0"))

	if !m.Pin(tm, "s1") {
		t.Fatal("Pin returned false")
	}
	if m.Pin(tm, "s1") {
		t.Fatal("second Pin should be a no-op")
	}
	if got := ids(tm.Pinned); !slices.Equal(got, []string{"s1"}) {
		t.Fatalf("pinned = %v", got)
	}
	if got := ids(tm.Container("tileContainer0")); !slices.Equal(got, []string{"s3"}) {
		t.Fatalf("home = %v", got)
	}
	if got := p.PinnedSites(); !slices.Equal(got, []string{"s1"}) {
		t.Fatalf("persisted = %v", got)
	}

	if !m.Unpin(tm, "s1") {
		t.Fatal("Unpin returned false")
	}
	if m.Unpin(tm, "s1") {
		t.Fatal("second Unpin should be a no-op")
	}
	sorting.SortTiles(tm, viewmodel.AttrSiteName)
	if got := ids(tm.Container("tileContainer0")); !slices.Equal(got, before) {
		t.Fatalf("after round trip = %v, want %v", got, before)
	}
	if got := p.PinnedSites(); len(got) != 0 {
		t.Fatalf("persisted after unpin = %v", got)
	}
}

func TestUnpinNestedReturnsHome(t *testing.T) {
	m := NewManager(nil)
	tm := tiles(t)
	m.Pin(tm, "s2")
	m.Unpin(tm, "s2")
	tile, c := tm.Find("s2")
	if c.ID != "tileContainer1" || tile.Pinned {
		t.Fatalf("s2 in %s pinned=%v", c.ID, tile.Pinned)
	}
}

func TestUnknownIDs(t *testing.T) {
	m := NewManager(nil)
	tm := tiles(t)
	if m.Pin(tm, "nope") || m.Unpin(tm, "nope") || m.Unpin(tm, "s1") {
		t.Fatal("unknown or unpinned IDs must be no-ops")
	}
}

func TestReplayDropsUnknown(t *testing.T) {
	m := NewManager(nil)
	tm := tiles(t)
	applied := m.Replay(tm, []string{"s2", "gone", "s1", "s2"})
	if !slices.Equal(applied, []string{"s2", "s1"}) {
		t.Fatalf("applied = %v", applied)
	}
	if got := IDs(tm); !slices.Equal(got, []string{"s2", "s1"}) {
		t.Fatalf("IDs = %v", got)
	}
}

type failingSaver struct{ calls int }

func (f *failingSaver) SavePinnedSites([]string) error {
	f.calls++
	return errors.New("disk full")
}

func TestSaveErrorsAreContained(t *testing.T) {
	s := &failingSaver{}
	m := NewManager(s)
	tm := tiles(t)
	if !m.Pin(tm, "s3") {
		t.Fatal("pin should succeed even when saving fails")
	}
	if s.calls != 1 {
		t.Fatalf("save calls = %d", s.calls)
	}
}
