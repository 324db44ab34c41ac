// Package sorting orders the tile and table models.
//
// Any key other than the site ID is sorted in two stable passes: first by
// ID, then by the requested key, so ties fall back to ID order rather than
// document order. Descending results are the ascending order reversed as a
// whole, which makes the tiebreak ID-descending and puts missing keys first.
package sorting

import (
	"slices"
	"strings"

	"github.com/rubiojr/adminhub/pkg/viewmodel"
)

type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// ParseDirection maps anything but "descending" to Ascending.
func ParseDirection(s string) Direction {
	if Direction(s) == Descending {
		return Descending
	}
	return Ascending
}

// NextDirection is the direction a header click on column selects: the
// current column sorted ascending flips to descending, anything else
// sorts ascending.
func NextDirection(current int, dir Direction, clicked int) Direction {
	if clicked == current && dir == Ascending {
		return Descending
	}
	return Ascending
}

// keyFunc returns an item's key; false means the item has none.
type keyFunc[T any] func(T) (string, bool)

// compareKeys orders items by key with keyless items last.
func compareKeys[T any](key keyFunc[T]) func(a, b T) int {
	return func(a, b T) int {
		ka, oka := key(a)
		kb, okb := key(b)
		switch {
		case !oka && !okb:
			return 0
		case !oka:
			return 1
		case !okb:
			return -1
		}
		return strings.Compare(ka, kb)
	}
}

func twoPhase[T any](items []T, identity, key keyFunc[T], sameKey bool, dir Direction) {
	slices.SortStableFunc(items, compareKeys(identity))
	if !sameKey {
		slices.SortStableFunc(items, compareKeys(key))
	}
	if dir == Descending {
		slices.Reverse(items)
	}
}

// SortTable orders the table rows by column and records the sort on the
// model.
func SortTable(t *viewmodel.TableModel, column int, dir Direction) {
	identity := func(r *viewmodel.Row) (string, bool) { return r.SortKey(viewmodel.ColumnID) }
	key := func(r *viewmodel.Row) (string, bool) { return r.SortKey(column) }
	twoPhase(t.Rows, identity, key, column == viewmodel.ColumnID, dir)
	t.SortColumn = column
	t.SortDirection = string(dir)
}

// SortTiles orders the tiles of every container, the pinned one included,
// by a tile attribute. Tiles never move between containers.
func SortTiles(m *viewmodel.TileModel, attribute string) {
	identity := func(t *viewmodel.Tile) (string, bool) { return nonEmpty(t.Attr(viewmodel.AttrSiteID)) }
	key := func(t *viewmodel.Tile) (string, bool) { return nonEmpty(t.Attr(attribute)) }
	for _, c := range m.Containers() {
		twoPhase(c.Tiles, identity, key, attribute == viewmodel.AttrSiteID, Ascending)
	}
}

func nonEmpty(v string, ok bool) (string, bool) {
	return v, ok && v != ""
}
