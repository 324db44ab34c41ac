// Package layout decides which table columns fit the current viewport.
//
// Each column gets a threshold: the narrowest container width at which it
// is shown. The first and last columns are always shown. The others are
// cumulative, so columns drop off right to left as the container narrows.
package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/rubiojr/adminhub/pkg/viewmodel"
)

// ComputeBreakpoints turns minimum column widths into visibility
// thresholds. margins is the table's horizontal margin.
func ComputeBreakpoints(widths []float64, margins float64) []float64 {
	n := len(widths)
	if n == 0 {
		return nil
	}
	bp := make([]float64, n)
	current := margins + widths[0] + widths[n-1]
	for i := 1; i < n-1; i++ {
		current += widths[i]
		bp[i] = current
	}
	return bp
}

// Estimator measures the minimum intrinsic width of each column from the
// table model: the widest unbreakable word in any of its cells, or the
// icons of the image and controls columns.
type Estimator struct {
	CharWidth   float64
	CellPadding float64
	IconWidth   float64
}

func DefaultEstimator() Estimator {
	return Estimator{CharWidth: 8, CellPadding: 24, IconWidth: 32}
}

func (e Estimator) ColumnWidths(t *viewmodel.TableModel) []float64 {
	widths := make([]float64, len(t.Columns))
	for i, col := range t.Columns {
		w := e.textWidth(col.Title)
		for _, r := range t.Rows {
			if i >= len(r.Cells) {
				continue
			}
			if col.MinWidth {
				w = max(w, e.iconsWidth(r.Cells[i].HTML))
			} else {
				w = max(w, e.textWidth(r.Cells[i].Text))
			}
		}
		widths[i] = w + e.CellPadding
	}
	return widths
}

func (e Estimator) textWidth(s string) float64 {
	longest := 0
	for _, word := range strings.Fields(s) {
		longest = max(longest, runewidth.StringWidth(word))
	}
	return float64(longest) * e.CharWidth
}

func (e Estimator) iconsWidth(html string) float64 {
	icons := strings.Count(html, "<img") + strings.Count(html, `class="hyperlink-popup"`)
	return float64(icons) * e.IconWidth
}

// State is the responsive state of the table view.
type State struct {
	Breakpoints []float64 `json:"breakpoints"`
	lastForce   bool
}

func NewState() *State {
	return &State{lastForce: true}
}

// Recompute measures t and stores fresh thresholds.
func (s *State) Recompute(t *viewmodel.TableModel, e Estimator, margins float64) {
	s.Breakpoints = ComputeBreakpoints(e.ColumnWidths(t), margins)
}

// Apply shows the columns whose threshold fits width and hides the rest,
// toggling header and cells together. When the table is not the active
// view every column is forced visible; repeating a forced pass is a no-op.
// It reports whether anything was applied.
func (s *State) Apply(t *viewmodel.TableModel, width float64, tableActive bool) bool {
	if len(s.Breakpoints) == 0 {
		return false
	}
	force := !tableActive
	if force && s.lastForce {
		return false
	}
	s.lastForce = force

	for i, bp := range s.Breakpoints {
		t.SetColumnVisible(i, force || width >= bp)
	}
	return true
}
