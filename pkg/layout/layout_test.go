package layout

import (
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rubiojr/adminhub/pkg/sites"
	"github.com/rubiojr/adminhub/pkg/viewmodel"
)

func TestComputeBreakpoints(t *testing.T) {
	tests := []struct {
		widths  []float64
		margins float64
		want    []float64
	}{
		{nil, 24, nil},
		{[]float64{40}, 24, []float64{0}},
		{[]float64{40, 60}, 24, []float64{0, 0}},
		{[]float64{40, 100, 80, 60, 50}, 24, []float64{0, 214, 294, 354, 0}},
	}
	for _, tt := range tests {
		if got := ComputeBreakpoints(tt.widths, tt.margins); !slices.Equal(got, tt.want) {
			t.Errorf("ComputeBreakpoints(%v) = %v, want %v", tt.widths, got, tt.want)
		}
	}
}

func table(t *testing.T) *viewmodel.TableModel {
	t.Helper()
	d, err := sites.Parse([]byte(`[{"GroupName": "G", "Sites": [
		{"ID": "web01", "Name": "Web frontend", "Tags": [{"Text": "online"}],
		 "Hyperlink1": {"Title": "Open", "Url": "https://x", "ImagePath": "i.svg"},
		 "ListViewCustomColumns": ["eu-west-1"]},
		{"ID": "db", "Name": "Database"}
	]}]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return viewmodel.Build(d, []string{"Region"}).Table
}

func TestEstimatorColumnWidths(t *testing.T) {
	e := Estimator{CharWidth: 10, CellPadding: 20, IconWidth: 30}
	got := e.ColumnWidths(table(t))
	want := []float64{
		30 + 20, // one image
		50 + 20, // "web01"
		80 + 20, // "frontend" and "Database"
		60 + 20, // "online"
		90 + 20, // "eu-west-1"
		30 + 20, // one link icon
	}
	if !slices.Equal(got, want) {
		t.Fatalf("ColumnWidths = %v, want %v", got, want)
	}
}

func TestApplyTogglesColumnsAtomically(t *testing.T) {
	tm := table(t)
	s := NewState()
	s.Breakpoints = []float64{0, 100, 200, 300, 400, 0}

	if !s.Apply(tm, 250, true) {
		t.Fatal("Apply should run for the active table")
	}
	wantVisible := []bool{true, true, true, false, false, true}
	for i, col := range tm.Columns {
		if col.Visible != wantVisible[i] {
			t.Errorf("column %d visible = %v", i, col.Visible)
		}
		for _, r := range tm.Rows {
			if r.Cells[i].Visible != col.Visible {
				t.Errorf("row %s cell %d out of sync with header", r.SiteID, i)
			}
		}
	}

	// Leaving the table forces everything visible once.
	if !s.Apply(tm, 10, false) {
		t.Fatal("first forced pass should apply")
	}
	for i, col := range tm.Columns {
		if !col.Visible {
			t.Errorf("column %d hidden while forced", i)
		}
	}
	tm.Columns[2].Visible = false
	if s.Apply(tm, 10, false) {
		t.Fatal("repeated forced pass should be a no-op")
	}
	if tm.Columns[2].Visible {
		t.Fatal("no-op pass must not touch the model")
	}
}

func TestApplyWithoutBreakpoints(t *testing.T) {
	if NewState().Apply(table(t), 0, true) {
		t.Fatal("nothing to apply without breakpoints")
	}
}

func TestRecompute(t *testing.T) {
	tm := table(t)
	s := NewState()
	s.Recompute(tm, Estimator{CharWidth: 10, CellPadding: 20, IconWidth: 30}, 24)
	want := []float64{0, 24 + 50 + 50 + 70, 24 + 50 + 50 + 70 + 100, 24 + 50 + 50 + 70 + 100 + 80, 24 + 50 + 50 + 70 + 100 + 80 + 110, 0}
	if !slices.Equal(s.Breakpoints, want) {
		t.Fatalf("breakpoints = %v, want %v", s.Breakpoints, want)
	}
}

func TestDebouncerRunsLastTrigger(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls, last atomic.Int32
	done := make(chan struct{}, 1)
	for i := int32(1); i <= 5; i++ {
		d.Trigger(func() {
			calls.Add(1)
			last.Store(i)
			done <- struct{}{}
		})
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(50 * time.Millisecond)
	if calls.Load() != 1 || last.Load() != 5 {
		t.Fatalf("calls = %d, last = %d", calls.Load(), last.Load())
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	time.Sleep(40 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatal("stopped call ran")
	}
}
