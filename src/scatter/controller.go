package scatter

import (
	"errors"
	"fmt"
	"time"

	"github.com/iafilius/CensusScatter/src/census"
	"github.com/iafilius/CensusScatter/src/logging"
)

// Transition asks a surface to animate from one scene to the next. Positions and the
// axis interpolate over Duration; labels and tooltips switch to To immediately.
type Transition struct {
	Axis     Axis
	From     Scene
	To       Scene
	Duration time.Duration
}

// Surface applies scenes to something visible. Transition must not block on the animation.
type Surface interface {
	Draw(Scene)
	Transition(Transition)
}

// NopSurface discards all drawing; useful for headless controllers.
type NopSurface struct{}

func (NopSurface) Draw(Scene)            {}
func (NopSurface) Transition(Transition) {}

// ErrNotInitialized is returned by operations that need a loaded dataset.
var ErrNotInitialized = errors.New("chart not initialized")

// Controller owns the axis selection of one chart instance and drives its surface.
// It is not safe for concurrent use; callers serialize events.
type Controller struct {
	spec    ChartSpec
	surface Surface

	ds          census.Dataset
	sel         Selection
	xScale      Scale
	yScale      Scale
	scene       Scene
	initialized bool
}

// NewController creates an uninitialized controller. A nil surface discards drawing.
func NewController(spec ChartSpec, surface Surface) *Controller {
	if surface == nil {
		surface = NopSurface{}
	}
	return &Controller{spec: spec, surface: surface}
}

// Initialize sets the default selection, builds both scales and draws the full scene.
// On error nothing is drawn and the controller stays uninitialized.
func (c *Controller) Initialize(ds census.Dataset) error {
	defer logging.TimeTrack(time.Now(), "chart initialize")
	if err := c.spec.Validate(); err != nil {
		return err
	}
	if ds.Len() == 0 {
		return census.ErrEmptyDataset
	}
	sel := Selection{X: c.spec.X.Default, Y: c.spec.Y.Default}
	xs, err := NewScale(ds, sel.X, c.spec.X.Policy, c.spec.Layout.RangeFor(X))
	if err != nil {
		return fmt.Errorf("x scale: %w", err)
	}
	ys, err := NewScale(ds, sel.Y, c.spec.Y.Policy, c.spec.Layout.RangeFor(Y))
	if err != nil {
		return fmt.Errorf("y scale: %w", err)
	}
	c.ds = ds
	c.sel = sel
	c.xScale = xs
	c.yScale = ys
	c.scene = buildScene(ds, c.spec, sel, xs, ys)
	c.initialized = true
	logging.Infof("chart initialized: %d points, x=%s y=%s", ds.Len(), sel.X, sel.Y)
	c.surface.Draw(c.scene)
	return nil
}

// SelectX switches the field driving the X axis. See Select.
func (c *Controller) SelectX(f census.Field) bool { return c.Select(X, f) }

// SelectY switches the field driving the Y axis. See Select.
func (c *Controller) SelectY(f census.Field) bool { return c.Select(Y, f) }

// Select switches the field of axis a and fires one transition. It reports false and
// does nothing when the chart is not initialized, f is already selected, or f is not
// an option of the axis.
func (c *Controller) Select(a Axis, f census.Field) bool {
	if !c.initialized {
		logging.Debugf("ignoring %s selection %q: chart not initialized", a, f)
		return false
	}
	if a != X && a != Y {
		logging.Warnf("ignoring selection %q on unknown axis %q", f, a)
		return false
	}
	as := c.spec.AxisSpec(a)
	if !as.Allows(f) {
		logging.Warnf("ignoring %s selection %q: not an option of this axis", a, f)
		return false
	}
	if c.sel.Field(a) == f {
		return false
	}
	s, err := NewScale(c.ds, f, as.Policy, c.spec.Layout.RangeFor(a))
	if err != nil {
		logging.Errorf("%s scale for %q: %v", a, f, err)
		return false
	}
	from := c.scene
	c.sel = c.sel.with(a, f)
	if a == Y {
		c.yScale = s
	} else {
		c.xScale = s
	}
	c.scene = buildScene(c.ds, c.spec, c.sel, c.xScale, c.yScale)
	logging.Debugf("%s axis -> %s domain=[%g,%g]", a, f, s.Domain[0], s.Domain[1])
	c.surface.Transition(Transition{Axis: a, From: from, To: c.scene, Duration: c.spec.Layout.Transition})
	return true
}

// Initialized reports whether Initialize succeeded.
func (c *Controller) Initialized() bool { return c.initialized }

// Selection returns the current axis selection.
func (c *Controller) Selection() Selection { return c.sel }

// Scene returns the current visual state.
func (c *Controller) Scene() Scene { return c.scene }

// Spec returns the chart spec the controller was built with.
func (c *Controller) Spec() ChartSpec { return c.spec }

// Dataset returns the loaded dataset.
func (c *Controller) Dataset() census.Dataset { return c.ds }

// Scale returns the current scale of axis a.
func (c *Controller) Scale(a Axis) Scale {
	if a == Y {
		return c.yScale
	}
	return c.xScale
}
