package scatter

import (
	"fmt"

	"github.com/iafilius/CensusScatter/src/census"
)

// Selection is the field currently driving each axis.
type Selection struct {
	X census.Field `json:"x"`
	Y census.Field `json:"y"`
}

// Field returns the selected field of axis a.
func (s Selection) Field(a Axis) census.Field {
	if a == Y {
		return s.Y
	}
	return s.X
}

func (s Selection) with(a Axis, f census.Field) Selection {
	if a == Y {
		s.Y = f
	} else {
		s.X = f
	}
	return s
}

// Tick is one axis tick: data value, pixel position along the axis and label.
type Tick struct {
	Value float64 `json:"value"`
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// AxisGuide is the drawn axis line of one axis.
type AxisGuide struct {
	Axis  Axis         `json:"axis"`
	Field census.Field `json:"field"`
	Scale Scale        `json:"scale"`
	Ticks []Tick       `json:"ticks"`
}

// Tooltip is the hover content of one point.
type Tooltip struct {
	Title string `json:"title"`
	XLine string `json:"x_line"`
	YLine string `json:"y_line"`
}

// Lines returns the tooltip rows in display order.
func (t Tooltip) Lines() []string { return []string{t.Title, t.XLine, t.YLine} }

// Point is one record drawn as a circle with its abbreviation label.
type Point struct {
	Index   int     `json:"index"`
	State   string  `json:"state"`
	Abbr    string  `json:"abbr"`
	XValue  float64 `json:"x_value"`
	YValue  float64 `json:"y_value"`
	CX      float64 `json:"cx"`
	CY      float64 `json:"cy"`
	LabelX  float64 `json:"label_x"`
	LabelY  float64 `json:"label_y"`
	Tooltip Tooltip `json:"tooltip"`
}

// AxisLabel is a clickable axis title. Positions are in plotting-area coordinates;
// Y labels are given in the rotated (-90 degree) frame.
type AxisLabel struct {
	Axis   Axis         `json:"axis"`
	Field  census.Field `json:"field"`
	Text   string       `json:"text"`
	Active bool         `json:"active"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
}

// Scene is the complete visual state for one selection.
type Scene struct {
	Layout    Layout      `json:"layout"`
	Selection Selection   `json:"selection"`
	XAxis     AxisGuide   `json:"x_axis"`
	YAxis     AxisGuide   `json:"y_axis"`
	Points    []Point     `json:"points"`
	XLabels   []AxisLabel `json:"x_labels"`
	YLabels   []AxisLabel `json:"y_labels"`
}

// Guide returns the guide of axis a.
func (s Scene) Guide(a Axis) AxisGuide {
	if a == Y {
		return s.YAxis
	}
	return s.XAxis
}

// Labels returns the axis titles of axis a.
func (s Scene) Labels(a Axis) []AxisLabel {
	if a == Y {
		return s.YLabels
	}
	return s.XLabels
}

// ActiveLabel returns the active title of axis a.
func (s Scene) ActiveLabel(a Axis) (AxisLabel, bool) {
	for _, l := range s.Labels(a) {
		if l.Active {
			return l, true
		}
	}
	return AxisLabel{}, false
}

// ComputeScene derives the full visual state from the dataset and selection. It has no side effects.
func ComputeScene(ds census.Dataset, spec ChartSpec, sel Selection) (Scene, error) {
	xs, err := NewScale(ds, sel.X, spec.X.Policy, spec.Layout.RangeFor(X))
	if err != nil {
		return Scene{}, fmt.Errorf("x scale: %w", err)
	}
	ys, err := NewScale(ds, sel.Y, spec.Y.Policy, spec.Layout.RangeFor(Y))
	if err != nil {
		return Scene{}, fmt.Errorf("y scale: %w", err)
	}
	return buildScene(ds, spec, sel, xs, ys), nil
}

func buildScene(ds census.Dataset, spec ChartSpec, sel Selection, xs, ys Scale) Scene {
	lay := spec.Layout
	sc := Scene{
		Layout:    lay,
		Selection: sel,
		XAxis:     NewGuide(X, sel.X, xs, lay.TickCount),
		YAxis:     NewGuide(Y, sel.Y, ys, lay.TickCount),
		Points:    make([]Point, ds.Len()),
		XLabels:   buildLabels(spec.X, sel.X, lay),
		YLabels:   buildLabels(spec.Y, sel.Y, lay),
	}
	xPrefix := spec.X.Prefix(sel.X)
	yPrefix := spec.Y.Prefix(sel.Y)
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		xv, _ := r.Value(sel.X)
		yv, _ := r.Value(sel.Y)
		cx := xs.Apply(xv)
		cy := ys.Apply(yv)
		sc.Points[i] = Point{
			Index:  i,
			State:  r.State,
			Abbr:   r.Abbr,
			XValue: xv,
			YValue: yv,
			CX:     cx,
			CY:     cy,
			LabelX: cx,
			LabelY: cy + lay.LabelOffset,
			Tooltip: Tooltip{
				Title: r.State,
				XLine: xPrefix + FormatValue(xv),
				YLine: yPrefix + FormatValue(yv),
			},
		}
	}
	return sc
}

// NewGuide lays out n ticks of scale s for axis a.
func NewGuide(a Axis, f census.Field, s Scale, n int) AxisGuide {
	g := AxisGuide{Axis: a, Field: f, Scale: s}
	for _, v := range s.Ticks(n) {
		g.Ticks = append(g.Ticks, Tick{Value: v, Pos: s.Apply(v), Label: FormatTick(v)})
	}
	return g
}

// buildLabels stacks axis titles 20px apart: X titles below the plotting area, Y titles
// left of it in the rotated frame.
func buildLabels(as AxisSpec, selected census.Field, lay Layout) []AxisLabel {
	out := make([]AxisLabel, len(as.Options))
	for i, o := range as.Options {
		l := AxisLabel{Axis: as.Axis, Field: o.Field, Text: o.Label, Active: o.Field == selected}
		if as.Axis == Y {
			l.X = -(lay.InnerHeight() / 2) - 10
			l.Y = -lay.Margin.Left + 20 + 20*float64(i)
		} else {
			l.X = lay.InnerWidth() / 2
			l.Y = lay.InnerHeight() + 20 + 20*float64(i+1)
		}
		out[i] = l
	}
	return out
}
