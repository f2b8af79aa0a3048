package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"github.com/iafilius/CensusScatter/src/census"
	"github.com/iafilius/CensusScatter/src/scatter"
)

func viewerStates() census.Dataset {
	return census.NewDataset([]census.Record{
		{ID: 1, State: "Alabama", Abbr: "AL", Poverty: 18.2, Age: 38.1, Income: 42533, Healthcare: 14.3, Obesity: 32.7, Smokes: 21.5},
		{ID: 2, State: "Alaska", Abbr: "AK", Poverty: 11.2, Age: 33.3, Income: 70898, Healthcare: 19.8, Obesity: 29.7, Smokes: 19.7},
		{ID: 3, State: "Arizona", Abbr: "AZ", Poverty: 18.5, Age: 36.9, Income: 49962, Healthcare: 16.5, Obesity: 26.8, Smokes: 16.4},
	})
}

func newTestViewer(t *testing.T) *viewer {
	t.Helper()
	test.NewApp()
	v := newViewer(scatter.CensusSpec())
	w := test.NewWindow(v.surf.Content())
	t.Cleanup(w.Close)
	if err := v.ctl.Initialize(viewerStates()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return v
}

func hoverAt(v *viewer, p fyne.Position) {
	v.surf.hover.MouseMoved(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: p}})
}

func TestDrawPlacesOneCirclePerRecord(t *testing.T) {
	v := newTestViewer(t)
	sc := v.ctl.Scene()
	if len(v.surf.circles) != 3 || len(v.surf.abbrs) != 3 {
		t.Fatalf("circles=%d abbrs=%d", len(v.surf.circles), len(v.surf.abbrs))
	}
	r := float32(sc.Layout.PointRadius)
	for i, p := range sc.Points {
		got := v.surf.circles[i].Position()
		want := fyne.NewPos(float32(sc.Layout.Margin.Left)+float32(p.CX)-r, float32(sc.Layout.Margin.Top)+float32(p.CY)-r)
		if got != want {
			t.Fatalf("circle %d at %v want %v", i, got, want)
		}
		if v.surf.abbrs[i].Text != p.Abbr {
			t.Fatalf("abbr %d=%q", i, v.surf.abbrs[i].Text)
		}
	}
}

func TestLabelsStartWithDefaultsActive(t *testing.T) {
	v := newTestViewer(t)
	if len(v.surf.labels[scatter.X]) != 3 || len(v.surf.labels[scatter.Y]) != 3 {
		t.Fatalf("labels x=%d y=%d", len(v.surf.labels[scatter.X]), len(v.surf.labels[scatter.Y]))
	}
	if !v.surf.labels[scatter.X][census.Poverty].active || !v.surf.labels[scatter.Y][census.Obesity].active {
		t.Fatalf("default labels not active")
	}
	if !v.surf.labels[scatter.X][census.Poverty].text.TextStyle.Bold {
		t.Fatalf("active label not bold")
	}
	if v.surf.labels[scatter.X][census.Age].active {
		t.Fatalf("age label active")
	}
}

func TestTappingLabelSelectsField(t *testing.T) {
	v := newTestViewer(t)
	v.surf.labels[scatter.X][census.Age].Tapped(&fyne.PointEvent{})
	if got := v.ctl.Selection().X; got != census.Age {
		t.Fatalf("x selection=%s want age", got)
	}
	if !v.surf.labels[scatter.X][census.Age].active || v.surf.labels[scatter.X][census.Poverty].active {
		t.Fatalf("active label not moved to age")
	}
	if v.surf.scene.Selection.X != census.Age {
		t.Fatalf("surface scene not updated")
	}
	// tapping the active label again is a no-op
	before := v.ctl.Scene()
	v.surf.labels[scatter.X][census.Age].Tapped(&fyne.PointEvent{})
	if !reflect.DeepEqual(before, v.ctl.Scene()) {
		t.Fatalf("re-selecting the active field changed the scene")
	}
}

func TestHoverShowsTooltip(t *testing.T) {
	v := newTestViewer(t)
	p := v.ctl.Scene().Points[0]
	hoverAt(v, fyne.NewPos(float32(p.CX), float32(p.CY)))
	if !v.surf.tip.visible() {
		t.Fatalf("tooltip hidden over a point")
	}
	want := []string{"Alabama", "Poverty Rate: 18.2", "Obesity: 32.7"}
	if got := v.surf.tip.text(); !reflect.DeepEqual(got, want) {
		t.Fatalf("tooltip=%q want %q", got, want)
	}
	v.surf.hover.MouseOut()
	if v.surf.tip.visible() {
		t.Fatalf("tooltip still visible after mouse out")
	}
}

func TestHoverAwayFromPointsHidesTooltip(t *testing.T) {
	v := newTestViewer(t)
	p := v.ctl.Scene().Points[0]
	hoverAt(v, fyne.NewPos(float32(p.CX), float32(p.CY)))
	hoverAt(v, fyne.NewPos(-500, -500))
	if v.surf.tip.visible() {
		t.Fatalf("tooltip visible away from points")
	}
}

func TestZeroDurationTransitionLandsImmediately(t *testing.T) {
	test.NewApp()
	spec := scatter.CensusSpec()
	spec.Layout.Transition = 0
	v := newViewer(spec)
	w := test.NewWindow(v.surf.Content())
	defer w.Close()
	if err := v.ctl.Initialize(viewerStates()); err != nil {
		t.Fatal(err)
	}
	v.selected(scatter.Y, census.Smokes)
	p := v.ctl.Scene().Points[1]
	if got := v.surf.centers[1]; got != fyne.NewPos(float32(p.CX), float32(p.CY)) {
		t.Fatalf("center=%v want (%v,%v)", got, p.CX, p.CY)
	}
	if v.surf.shown[scatter.Y] != v.ctl.Scale(scatter.Y) {
		t.Fatalf("y axis shows %v want %v", v.surf.shown[scatter.Y], v.ctl.Scale(scatter.Y))
	}
}

func TestInterruptedTransitionSettlesBothAxes(t *testing.T) {
	v := newTestViewer(t)
	v.selected(scatter.X, census.Age)
	// rewind the x animation to its midpoint, then switch y before it finishes
	v.surf.anim.Tick(0.5)
	if v.surf.shown[scatter.X] == v.ctl.Scale(scatter.X) {
		t.Fatalf("x axis already at target mid-animation")
	}
	v.selected(scatter.Y, census.Smokes)
	for _, a := range []scatter.Axis{scatter.X, scatter.Y} {
		if got, want := v.surf.shown[a], v.ctl.Scale(a); got != want {
			t.Fatalf("%s axis shows %v want %v", a, got.Domain, want.Domain)
		}
	}
	for i, p := range v.ctl.Scene().Points {
		if got := v.surf.centers[i]; got != fyne.NewPos(float32(p.CX), float32(p.CY)) {
			t.Fatalf("point %d at %v want (%v,%v)", i, got, p.CX, p.CY)
		}
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("chart:\n  preset: census\nlogging:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	o, err := parseFlags([]string{"-config", cfgPath, "-data", "x.csv", "-preset", "legacy", "-log-level", "debug"})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(o)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Data.CSV != "x.csv" || cfg.Chart.Preset != "legacy" || cfg.Logging.Level != "debug" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}
