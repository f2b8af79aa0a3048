package scatter

import (
	"errors"
	"fmt"
	"time"

	"github.com/iafilius/CensusScatter/src/census"
)

// Axis identifies the horizontal or vertical axis.
type Axis string

const (
	X Axis = "x"
	Y Axis = "y"
)

// ParseAxis accepts "x" or "y" in either case.
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "x", "X":
		return X, true
	case "y", "Y":
		return Y, true
	}
	return "", false
}

// Margin is the space between the drawing surface edge and the plotting area.
type Margin struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// Layout fixes the pixel geometry of the chart.
type Layout struct {
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	Margin      Margin        `json:"margin"`
	PointRadius float64       `json:"point_radius"`
	Opacity     float64       `json:"opacity"`
	LabelOffset float64       `json:"label_offset"`
	TickCount   int           `json:"tick_count"`
	Transition  time.Duration `json:"transition"`
}

// DefaultLayout is the 960x500 surface with 100/40/20/80 left/right/top/bottom margins.
func DefaultLayout() Layout {
	return Layout{
		Width:       960,
		Height:      500,
		Margin:      Margin{Top: 20, Right: 40, Bottom: 80, Left: 100},
		PointRadius: 20,
		Opacity:     0.5,
		LabelOffset: 5,
		TickCount:   10,
		Transition:  1000 * time.Millisecond,
	}
}

// InnerWidth is the width of the plotting area.
func (l Layout) InnerWidth() float64 { return l.Width - l.Margin.Left - l.Margin.Right }

// InnerHeight is the height of the plotting area.
func (l Layout) InnerHeight() float64 { return l.Height - l.Margin.Top - l.Margin.Bottom }

// RangeFor returns the pixel range of an axis; Y grows downward so its range is inverted.
func (l Layout) RangeFor(a Axis) [2]float64 {
	if a == Y {
		return [2]float64{l.InnerHeight(), 0}
	}
	return [2]float64{0, l.InnerWidth()}
}

// FieldOption is one selectable field of an axis.
type FieldOption struct {
	Field         census.Field `json:"field"`
	Label         string       `json:"label"`
	TooltipPrefix string       `json:"tooltip_prefix"`
}

// AxisSpec lists the fields an axis may show.
type AxisSpec struct {
	Axis    Axis          `json:"axis"`
	Options []FieldOption `json:"options"`
	Default census.Field  `json:"default"`
	Policy  DomainPolicy  `json:"policy"`
}

// Allows reports whether f is one of the axis options.
func (a AxisSpec) Allows(f census.Field) bool {
	_, ok := a.option(f)
	return ok
}

func (a AxisSpec) option(f census.Field) (FieldOption, bool) {
	for _, o := range a.Options {
		if o.Field == f {
			return o, true
		}
	}
	return FieldOption{}, false
}

// Prefix returns the tooltip prefix for f on this axis.
func (a AxisSpec) Prefix(f census.Field) string {
	if o, ok := a.option(f); ok && o.TooltipPrefix != "" {
		return o.TooltipPrefix
	}
	return TooltipPrefix(a.Axis, f)
}

// ChartSpec parameterizes a controller: geometry plus the selectable fields per axis.
type ChartSpec struct {
	Layout Layout   `json:"layout"`
	X      AxisSpec `json:"x"`
	Y      AxisSpec `json:"y"`
}

// AxisSpec returns the spec of axis a.
func (s ChartSpec) AxisSpec(a Axis) AxisSpec {
	if a == Y {
		return s.Y
	}
	return s.X
}

var errInvalidSpec = errors.New("invalid chart spec")

// Validate checks that both axes offer valid fields and that defaults are among them.
func (s ChartSpec) Validate() error {
	if s.Layout.InnerWidth() <= 0 || s.Layout.InnerHeight() <= 0 {
		return fmt.Errorf("%w: plotting area %.0fx%.0f", errInvalidSpec, s.Layout.InnerWidth(), s.Layout.InnerHeight())
	}
	for _, as := range []AxisSpec{s.X, s.Y} {
		if len(as.Options) == 0 {
			return fmt.Errorf("%w: axis %s has no fields", errInvalidSpec, as.Axis)
		}
		seen := make(map[census.Field]bool, len(as.Options))
		for _, o := range as.Options {
			if !o.Field.Valid() {
				return fmt.Errorf("%w: axis %s: unknown field %q", errInvalidSpec, as.Axis, o.Field)
			}
			if seen[o.Field] {
				return fmt.Errorf("%w: axis %s: field %q listed twice", errInvalidSpec, as.Axis, o.Field)
			}
			seen[o.Field] = true
		}
		if !as.Allows(as.Default) {
			return fmt.Errorf("%w: axis %s: default %q is not selectable", errInvalidSpec, as.Axis, as.Default)
		}
	}
	return nil
}

// CensusSpec is the three-by-three chart: poverty/age/income against obesity/smokes/healthcare.
func CensusSpec() ChartSpec {
	return ChartSpec{
		Layout: DefaultLayout(),
		X: AxisSpec{
			Axis: X,
			Options: []FieldOption{
				{Field: census.Poverty, Label: "Poverty (%)"},
				{Field: census.Age, Label: "Age (Median)"},
				{Field: census.Income, Label: "Household Income (Median)"},
			},
			Default: census.Poverty,
			Policy:  Padded,
		},
		Y: AxisSpec{
			Axis: Y,
			Options: []FieldOption{
				{Field: census.Obesity, Label: "Obesity (%)"},
				{Field: census.Smokes, Label: "Smokes (%)"},
				{Field: census.Healthcare, Label: "Lacks Healthcare (%)"},
			},
			Default: census.Obesity,
			Policy:  Padded,
		},
	}
}

// LegacySpec is the earlier chart: poverty or income against a fixed, zero-based healthcare axis.
func LegacySpec() ChartSpec {
	return ChartSpec{
		Layout: DefaultLayout(),
		X: AxisSpec{
			Axis: X,
			Options: []FieldOption{
				{Field: census.Poverty, Label: "Poverty (%)"},
				{Field: census.Income, Label: "Household Income (Median)"},
			},
			Default: census.Poverty,
			Policy:  Padded,
		},
		Y: AxisSpec{
			Axis: Y,
			Options: []FieldOption{
				{Field: census.Healthcare, Label: "Lacks Healthcare (%)"},
			},
			Default: census.Healthcare,
			Policy:  ZeroBased,
		},
	}
}

// Preset returns a named spec.
func Preset(name string) (ChartSpec, error) {
	switch name {
	case "", "census":
		return CensusSpec(), nil
	case "legacy":
		return LegacySpec(), nil
	}
	return ChartSpec{}, fmt.Errorf("unknown chart preset %q", name)
}

// TooltipPrefix is the human-readable prefix shown before a value in a tooltip.
// Fields outside the known sets fall through to the last option of each axis.
func TooltipPrefix(a Axis, f census.Field) string {
	if a == Y {
		switch f {
		case census.Obesity:
			return "Obesity: "
		case census.Smokes:
			return "Smokes: "
		default:
			return "Healthcare: "
		}
	}
	switch f {
	case census.Poverty:
		return "Poverty Rate: "
	case census.Age:
		return "Age (Median): "
	default:
		return "Household Income (Median): "
	}
}
