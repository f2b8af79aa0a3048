package main

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"github.com/iafilius/CensusScatter/src/census"
	"github.com/iafilius/CensusScatter/src/logging"
	"github.com/iafilius/CensusScatter/src/scatter"
)

var (
	circleFill   = color.NRGBA{R: 70, G: 130, B: 180, A: 255}
	circleStroke = color.NRGBA{R: 227, G: 227, B: 227, A: 255}
	axisColor    = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

const abbrSize = 10

// fyneSurface draws scenes onto fyne canvas objects. X titles sit below the plotting
// area as in the scene; Y titles are listed in a column left of it since canvas text
// cannot be rotated.
type fyneSurface struct {
	layout   scatter.Layout
	onSelect func(scatter.Axis, census.Field)

	plot    *fyne.Container
	axes    map[scatter.Axis]*fyne.Container
	dots    *fyne.Container
	hover   *hoverLayer
	tip     *tooltip
	yColumn *fyne.Container
	content fyne.CanvasObject

	labels  map[scatter.Axis]map[census.Field]*axisLabel
	circles []*canvas.Circle
	abbrs   []*canvas.Text

	// on-screen state, in plotting-area coordinates
	centers  []fyne.Position
	labelPos []fyne.Position
	shown    map[scatter.Axis]scatter.Scale
	scene    scatter.Scene
	anim     *fyne.Animation
	hoverIdx int
}

func newFyneSurface(l scatter.Layout, onSelect func(scatter.Axis, census.Field)) *fyneSurface {
	s := &fyneSurface{
		layout:   l,
		onSelect: onSelect,
		axes:     map[scatter.Axis]*fyne.Container{scatter.X: container.NewWithoutLayout(), scatter.Y: container.NewWithoutLayout()},
		dots:     container.NewWithoutLayout(),
		tip:      newTooltip(3),
		yColumn:  container.NewVBox(),
		labels:   map[scatter.Axis]map[census.Field]*axisLabel{scatter.X: {}, scatter.Y: {}},
		shown:    map[scatter.Axis]scatter.Scale{},
		hoverIdx: -1,
	}
	s.hover = newHoverLayer(s.pointerMoved, s.pointerOut)
	s.hover.Move(s.toPlot(0, 0))
	s.hover.Resize(fyne.NewSize(float32(l.InnerWidth()), float32(l.InnerHeight())))
	full := fyne.NewSize(float32(l.Width), float32(l.Height))
	for _, c := range []*fyne.Container{s.axes[scatter.X], s.axes[scatter.Y], s.dots} {
		c.Resize(full)
	}
	s.plot = container.New(&fixedLayout{size: full}, s.axes[scatter.X], s.axes[scatter.Y], s.dots, s.hover, s.tip.box)
	s.content = container.NewBorder(nil, nil, container.NewCenter(s.yColumn), nil, s.plot)
	return s
}

// Content is the root object to place in a window.
func (s *fyneSurface) Content() fyne.CanvasObject { return s.content }

func (s *fyneSurface) toPlot(x, y float64) fyne.Position {
	return fyne.NewPos(float32(s.layout.Margin.Left+x), float32(s.layout.Margin.Top+y))
}

func (s *fyneSurface) Draw(sc scatter.Scene) {
	s.stopAnimation()
	s.scene = sc
	s.dots.RemoveAll()
	s.circles = s.circles[:0]
	s.abbrs = s.abbrs[:0]
	s.centers = make([]fyne.Position, len(sc.Points))
	s.labelPos = make([]fyne.Position, len(sc.Points))
	r := float32(sc.Layout.PointRadius)
	for i, p := range sc.Points {
		c := canvas.NewCircle(withOpacity(circleFill, sc.Layout.Opacity))
		c.StrokeColor = circleStroke
		c.StrokeWidth = 1
		c.Resize(fyne.NewSize(2*r, 2*r))
		t := canvas.NewText(p.Abbr, color.White)
		t.TextSize = abbrSize
		t.Alignment = fyne.TextAlignCenter
		t.Resize(fyne.NewSize(2*r, abbrSize+4))
		s.circles = append(s.circles, c)
		s.abbrs = append(s.abbrs, t)
		s.dots.Add(c)
		s.dots.Add(t)
		s.placePoint(i, fyne.NewPos(float32(p.CX), float32(p.CY)), fyne.NewPos(float32(p.LabelX), float32(p.LabelY)))
	}
	s.setGuide(sc.XAxis)
	s.setGuide(sc.YAxis)
	s.buildLabels(sc)
	s.dots.Refresh()
}

// Transition animates every point and both axis guides from what is on screen now to
// t.To. A transition that arrives mid-animation starts from the current frame.
func (s *fyneSurface) Transition(t scatter.Transition) {
	s.stopAnimation()
	if len(s.circles) != len(t.To.Points) {
		s.Draw(t.To)
		return
	}
	startC := append([]fyne.Position(nil), s.centers...)
	startL := append([]fyne.Position(nil), s.labelPos...)
	// both axes move: an interrupted transition may have left the other one mid-frame
	fromScale := map[scatter.Axis]scatter.Scale{}
	for _, a := range []scatter.Axis{scatter.X, scatter.Y} {
		sc, ok := s.shown[a]
		if !ok {
			sc = t.From.Guide(a).Scale
		}
		fromScale[a] = sc
	}
	to := t.To
	s.scene = to
	s.syncLabels(to)
	s.refreshTooltip()
	frame := func(p float32) {
		for i, pt := range to.Points {
			s.placePoint(i,
				lerpPos(startC[i], float32(pt.CX), float32(pt.CY), p),
				lerpPos(startL[i], float32(pt.LabelX), float32(pt.LabelY), p))
		}
		for a, from := range fromScale {
			g := to.Guide(a)
			switch {
			case p >= 1:
				s.setGuide(g)
			case from != g.Scale:
				s.setGuide(scatter.NewGuide(a, g.Field, from.Interpolate(g.Scale, float64(p)), to.Layout.TickCount))
			}
		}
		s.dots.Refresh()
	}
	if t.Duration <= 0 {
		frame(1)
		return
	}
	s.anim = fyne.NewAnimation(t.Duration, frame)
	s.anim.Curve = fyne.AnimationEaseInOut
	s.anim.Start()
	logging.Debugf("animating %s axis over %v", t.Axis, t.Duration)
}

func (s *fyneSurface) stopAnimation() {
	if s.anim != nil {
		s.anim.Stop()
		s.anim = nil
	}
}

func lerpPos(from fyne.Position, x, y, p float32) fyne.Position {
	if p >= 1 {
		return fyne.NewPos(x, y)
	}
	return fyne.NewPos(from.X+(x-from.X)*p, from.Y+(y-from.Y)*p)
}

func (s *fyneSurface) placePoint(i int, center, label fyne.Position) {
	r := float32(s.layout.PointRadius)
	s.centers[i] = center
	s.labelPos[i] = label
	origin := s.toPlot(0, 0)
	s.circles[i].Move(fyne.NewPos(origin.X+center.X-r, origin.Y+center.Y-r))
	// label y is the text baseline
	s.abbrs[i].Move(fyne.NewPos(origin.X+label.X-r, origin.Y+label.Y-abbrSize))
}

// setGuide redraws the axis line, ticks and tick labels of one axis.
func (s *fyneSurface) setGuide(g scatter.AxisGuide) {
	box := s.axes[g.Axis]
	box.RemoveAll()
	o := s.toPlot(0, 0)
	iw, ih := float32(s.layout.InnerWidth()), float32(s.layout.InnerHeight())
	line := canvas.NewLine(axisColor)
	line.StrokeWidth = 1
	if g.Axis == scatter.Y {
		line.Position1, line.Position2 = o, fyne.NewPos(o.X, o.Y+ih)
	} else {
		line.Position1, line.Position2 = fyne.NewPos(o.X, o.Y+ih), fyne.NewPos(o.X+iw, o.Y+ih)
	}
	box.Add(line)
	for _, tk := range g.Ticks {
		mark := canvas.NewLine(axisColor)
		label := canvas.NewText(tk.Label, axisColor)
		label.TextSize = 10
		sz := label.MinSize()
		pos := float32(tk.Pos)
		if g.Axis == scatter.Y {
			mark.Position1, mark.Position2 = fyne.NewPos(o.X-6, o.Y+pos), fyne.NewPos(o.X, o.Y+pos)
			label.Move(fyne.NewPos(o.X-9-sz.Width, o.Y+pos-sz.Height/2))
		} else {
			mark.Position1, mark.Position2 = fyne.NewPos(o.X+pos, o.Y+ih), fyne.NewPos(o.X+pos, o.Y+ih+6)
			label.Move(fyne.NewPos(o.X+pos-sz.Width/2, o.Y+ih+9))
		}
		label.Resize(sz)
		box.Add(mark)
		box.Add(label)
	}
	s.shown[g.Axis] = g.Scale
	box.Refresh()
}

func (s *fyneSurface) buildLabels(sc scatter.Scene) {
	s.yColumn.RemoveAll()
	for _, a := range []scatter.Axis{scatter.X, scatter.Y} {
		for f, old := range s.labels[a] {
			if a == scatter.X {
				s.plot.Remove(old)
			}
			delete(s.labels[a], f)
		}
		for _, l := range sc.Labels(a) {
			w := newAxisLabel(l, s.onSelect)
			s.labels[a][l.Field] = w
			if a == scatter.Y {
				s.yColumn.Add(w)
				continue
			}
			sz := w.MinSize()
			w.Resize(sz)
			// scene y is the baseline
			w.Move(fyne.NewPos(s.toPlot(l.X, l.Y).X-sz.Width/2, s.toPlot(l.X, l.Y).Y-sz.Height))
			s.plot.Add(w)
		}
	}
	s.yColumn.Refresh()
	s.plot.Refresh()
}

func (s *fyneSurface) syncLabels(sc scatter.Scene) {
	for _, a := range []scatter.Axis{scatter.X, scatter.Y} {
		for _, l := range sc.Labels(a) {
			if w, ok := s.labels[a][l.Field]; ok {
				w.setActive(l.Active)
			}
		}
	}
}

// pointAt returns the topmost point whose circle contains p (plotting-area coordinates).
func (s *fyneSurface) pointAt(p fyne.Position) int {
	r := s.layout.PointRadius
	for i := len(s.centers) - 1; i >= 0; i-- {
		c := s.centers[i]
		if math.Hypot(float64(p.X-c.X), float64(p.Y-c.Y)) <= r {
			return i
		}
	}
	return -1
}

func (s *fyneSurface) pointerMoved(p fyne.Position) {
	i := s.pointAt(p)
	if i < 0 {
		s.pointerOut()
		return
	}
	s.hoverIdx = i
	s.showTooltip()
}

func (s *fyneSurface) pointerOut() {
	s.hoverIdx = -1
	s.tip.hide()
}

func (s *fyneSurface) showTooltip() {
	if s.hoverIdx < 0 || s.hoverIdx >= len(s.scene.Points) {
		return
	}
	c := s.centers[s.hoverIdx]
	r := float32(s.layout.PointRadius)
	s.tip.show(s.toPlot(float64(c.X+r), float64(c.Y-r)), s.scene.Points[s.hoverIdx].Tooltip.Lines())
}

// refreshTooltip updates an open tooltip to the new selection.
func (s *fyneSurface) refreshTooltip() {
	if s.tip.visible() {
		s.showTooltip()
	}
}

func withOpacity(c color.NRGBA, o float64) color.NRGBA {
	c.A = uint8(math.Round(o * 255))
	return c
}
