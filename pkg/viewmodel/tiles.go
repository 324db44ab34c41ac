package viewmodel

import (
	"fmt"

	"github.com/rubiojr/adminhub/pkg/sites"
)

// Tile attribute names. Tile sorting and searching work on these.
const (
	AttrSiteID          = "data-siteid"
	AttrSiteName        = "data-sitename"
	AttrSiteStatus      = "data-sitestatus"
	AttrSiteStatusText  = "data-sitestatustext"
	AttrSiteDescription = "data-sitedescription"
	AttrTileContainer   = "data-tilecontainer"
)

const (
	PinnedContainerID = "tileContainerPinned"
	EmptyPlaceholder  = "There are no sites to show"
)

// ContainerID names the n-th tile container of a build.
func ContainerID(n int) string {
	return fmt.Sprintf("tileContainer%d", n)
}

// Attr is a data attribute of a tile or row.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Tile struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Status      sites.Status           `json:"status"`
	Home        string                 `json:"home"`
	Pinned      bool                   `json:"pinned"`
	Hidden      bool                   `json:"hidden"`
	Tags        []TagView              `json:"tags,omitempty"`
	StatusItems []StatusItemView       `json:"status_items,omitempty"`
	Image       Image                  `json:"image"`
	Links       []Link                 `json:"links,omitempty"`
	Placeholder string                 `json:"placeholder,omitempty"`
	MoreLinks   []Link                 `json:"more_links,omitempty"`
	Details     []sites.DetailCategory `json:"details,omitempty"`
}

// Attr returns a data attribute. Description and status text are absent
// when the site has none.
func (t *Tile) Attr(name string) (string, bool) {
	switch name {
	case AttrSiteID:
		return t.ID, true
	case AttrSiteName:
		return t.Name, true
	case AttrSiteStatus:
		return t.Status.Key(), true
	case AttrSiteStatusText:
		s := t.Status.Text()
		return s, s != ""
	case AttrSiteDescription:
		return t.Description, t.Description != ""
	case AttrTileContainer:
		return t.Home, true
	}
	return "", false
}

// Attrs returns every present data attribute in a fixed order.
func (t *Tile) Attrs() []Attr {
	names := []string{AttrSiteID, AttrSiteName, AttrSiteStatus, AttrSiteStatusText, AttrSiteDescription, AttrTileContainer}
	out := make([]Attr, 0, len(names))
	for _, n := range names {
		if v, ok := t.Attr(n); ok {
			out = append(out, Attr{Name: n, Value: v})
		}
	}
	return out
}

type Container struct {
	ID          string  `json:"id"`
	Tiles       []*Tile `json:"tiles"`
	Placeholder string  `json:"placeholder,omitempty"`
}

// Remove takes the tile out of the container, reporting whether it was there.
func (c *Container) Remove(t *Tile) bool {
	for i, x := range c.Tiles {
		if x == t {
			c.Tiles = append(c.Tiles[:i], c.Tiles[i+1:]...)
			return true
		}
	}
	return false
}

type Subgroup struct {
	Name      string     `json:"name"`
	Container *Container `json:"container"`
}

// Group mirrors a sites.json group. LiveData groups are replaced on every
// rebuild; others are kept as they are.
type Group struct {
	Name      string         `json:"name"`
	LiveData  bool           `json:"live_data"`
	Kind      sites.BodyKind `json:"kind"`
	Container *Container     `json:"container,omitempty"`
	Subgroups []Subgroup     `json:"subgroups,omitempty"`
}

func (g *Group) containers() []*Container {
	if g.Kind == sites.BodyNested {
		out := make([]*Container, 0, len(g.Subgroups))
		for _, sg := range g.Subgroups {
			out = append(out, sg.Container)
		}
		return out
	}
	if g.Container != nil {
		return []*Container{g.Container}
	}
	return nil
}

type TileModel struct {
	Pinned       *Container `json:"pinned"`
	PinnedHidden bool       `json:"pinned_hidden"`
	Groups       []Group    `json:"groups"`
}

func NewTileModel() *TileModel {
	return &TileModel{Pinned: &Container{ID: PinnedContainerID}, PinnedHidden: true}
}

// Containers returns the pinned container followed by every group and
// subgroup container in document order.
func (m *TileModel) Containers() []*Container {
	out := []*Container{m.Pinned}
	for i := range m.Groups {
		out = append(out, m.Groups[i].containers()...)
	}
	return out
}

// Container looks a container up by ID.
func (m *TileModel) Container(id string) *Container {
	if id == "" {
		return nil
	}
	for _, c := range m.Containers() {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Find returns the tile with the given site ID and the container holding it.
func (m *TileModel) Find(id string) (*Tile, *Container) {
	for _, c := range m.Containers() {
		for _, t := range c.Tiles {
			if t.ID == id {
				return t, c
			}
		}
	}
	return nil, nil
}

// Tiles returns every tile, pinned ones first.
func (m *TileModel) Tiles() []*Tile {
	var out []*Tile
	for _, c := range m.Containers() {
		out = append(out, c.Tiles...)
	}
	return out
}

// ReplaceLive swaps the live data groups for those of next and clears the
// pinned container. Static groups keep their place ahead of live data.
func (m *TileModel) ReplaceLive(next *TileModel) {
	groups := make([]Group, 0, len(m.Groups)+len(next.Groups))
	for _, g := range m.Groups {
		if !g.LiveData {
			groups = append(groups, g)
		}
	}
	for _, g := range next.Groups {
		if g.LiveData {
			groups = append(groups, g)
		}
	}
	m.Groups = groups
	m.Pinned.Tiles = nil
}

// Arrange hides the pinned group when it is empty and puts a placeholder
// in every container without tiles.
func (m *TileModel) Arrange() {
	m.PinnedHidden = len(m.Pinned.Tiles) == 0
	for _, c := range m.Containers() {
		if len(c.Tiles) == 0 {
			c.Placeholder = EmptyPlaceholder
		} else {
			c.Placeholder = ""
		}
	}
}
