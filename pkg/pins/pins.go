// Package pins moves tiles in and out of the pinned container and keeps
// the persisted pinned set in step with it.
package pins

import (
	"github.com/rubiojr/adminhub/pkg/log"
	"github.com/rubiojr/adminhub/pkg/viewmodel"
)

// Saver persists the full pinned set.
type Saver interface {
	SavePinnedSites(ids []string) error
}

type Manager struct {
	saver  Saver
	logger *log.Logger
}

func NewManager(s Saver) *Manager {
	return &Manager{saver: s, logger: log.ForService("pins")}
}

// Pin moves the tile into the pinned container and persists the set. It
// reports false when the site is unknown or already pinned.
func (m *Manager) Pin(tm *viewmodel.TileModel, id string) bool {
	if !pin(tm, id) {
		return false
	}
	m.Save(tm)
	return true
}

// Unpin returns the tile to the container it was built in and persists the
// set. It reports false when the site is unknown or not pinned.
func (m *Manager) Unpin(tm *viewmodel.TileModel, id string) bool {
	t, _ := tm.Find(id)
	if t == nil || !t.Pinned {
		return false
	}
	home := tm.Container(t.Home)
	if home == nil {
		m.logger.Warnf("unpinning %s: container %q is gone", id, t.Home)
		return false
	}
	tm.Pinned.Remove(t)
	home.Tiles = append(home.Tiles, t)
	t.Pinned = false
	m.Save(tm)
	return true
}

// Replay pins each of ids in a freshly built model without persisting.
// IDs that are no longer in the data set are dropped silently. It returns
// the IDs that were pinned.
func (m *Manager) Replay(tm *viewmodel.TileModel, ids []string) []string {
	applied := make([]string, 0, len(ids))
	for _, id := range ids {
		if pin(tm, id) {
			applied = append(applied, id)
		}
	}
	if dropped := len(ids) - len(applied); dropped > 0 {
		m.logger.Debugf("replay dropped %d unknown or duplicate pins", dropped)
	}
	return applied
}

// Save persists the current pinned set. Failures are logged.
func (m *Manager) Save(tm *viewmodel.TileModel) {
	if m.saver == nil {
		return
	}
	if err := m.saver.SavePinnedSites(IDs(tm)); err != nil {
		m.logger.Warnf("saving pinned sites: %v", err)
	}
}

// IDs returns the pinned site IDs in pinned container order.
func IDs(tm *viewmodel.TileModel) []string {
	ids := make([]string, 0, len(tm.Pinned.Tiles))
	for _, t := range tm.Pinned.Tiles {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func pin(tm *viewmodel.TileModel, id string) bool {
	t, c := tm.Find(id)
	if t == nil || t.Pinned {
		return false
	}
	c.Remove(t)
	tm.Pinned.Tiles = append(tm.Pinned.Tiles, t)
	t.Pinned = true
	return true
}
