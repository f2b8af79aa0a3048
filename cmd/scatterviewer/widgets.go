package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/CensusScatter/src/census"
	"github.com/iafilius/CensusScatter/src/scatter"
)

var (
	activeLabelColor   = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	inactiveLabelColor = color.NRGBA{R: 170, G: 170, B: 170, A: 255}
)

// fixedLayout keeps children where they were moved and reports a constant min size.
type fixedLayout struct {
	size fyne.Size
}

func (l *fixedLayout) Layout([]fyne.CanvasObject, fyne.Size) {}

func (l *fixedLayout) MinSize([]fyne.CanvasObject) fyne.Size { return l.size }

// axisLabel is a clickable axis title. The active one is drawn bold and dark.
type axisLabel struct {
	widget.BaseWidget
	axis   scatter.Axis
	field  census.Field
	text   *canvas.Text
	active bool
	onTap  func(scatter.Axis, census.Field)
}

func newAxisLabel(l scatter.AxisLabel, onTap func(scatter.Axis, census.Field)) *axisLabel {
	t := canvas.NewText(l.Text, inactiveLabelColor)
	t.TextSize = 16
	t.Alignment = fyne.TextAlignCenter
	a := &axisLabel{axis: l.Axis, field: l.Field, text: t, onTap: onTap}
	a.ExtendBaseWidget(a)
	a.setActive(l.Active)
	return a
}

func (a *axisLabel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(a.text)
}

func (a *axisLabel) setActive(on bool) {
	a.active = on
	a.text.TextStyle = fyne.TextStyle{Bold: on}
	if on {
		a.text.Color = activeLabelColor
	} else {
		a.text.Color = inactiveLabelColor
	}
	a.text.Refresh()
}

func (a *axisLabel) Tapped(*fyne.PointEvent) {
	if a.onTap != nil {
		a.onTap(a.axis, a.field)
	}
}

func (a *axisLabel) Cursor() desktop.Cursor { return desktop.PointerCursor }

var (
	_ fyne.Tappable      = (*axisLabel)(nil)
	_ desktop.Cursorable = (*axisLabel)(nil)
)

// hoverLayer covers the plotting area and reports the pointer position.
type hoverLayer struct {
	widget.BaseWidget
	onMove func(fyne.Position)
	onOut  func()
}

func newHoverLayer(onMove func(fyne.Position), onOut func()) *hoverLayer {
	h := &hoverLayer{onMove: onMove, onOut: onOut}
	h.ExtendBaseWidget(h)
	return h
}

func (h *hoverLayer) CreateRenderer() fyne.WidgetRenderer {
	// transparent background for a full hit-area
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (h *hoverLayer) MouseIn(ev *desktop.MouseEvent)    { h.MouseMoved(ev) }
func (h *hoverLayer) MouseMoved(ev *desktop.MouseEvent) { h.onMove(ev.Position) }
func (h *hoverLayer) MouseOut()                         { h.onOut() }

var _ desktop.Hoverable = (*hoverLayer)(nil)

// tooltip is a small dark box with one text row per line.
type tooltip struct {
	box   *fyne.Container
	bg    *canvas.Rectangle
	lines []*canvas.Text
}

func newTooltip(rows int) *tooltip {
	tt := &tooltip{bg: canvas.NewRectangle(color.NRGBA{R: 0, G: 0, B: 0, A: 200})}
	tt.bg.CornerRadius = 4
	objs := []fyne.CanvasObject{tt.bg}
	for i := 0; i < rows; i++ {
		t := canvas.NewText("", color.White)
		t.TextSize = 12
		tt.lines = append(tt.lines, t)
		objs = append(objs, t)
	}
	tt.box = container.NewWithoutLayout(objs...)
	tt.box.Hide()
	return tt
}

func (tt *tooltip) show(at fyne.Position, lines []string) {
	const pad = 6
	var w, y float32 = 0, pad
	for i, t := range tt.lines {
		t.Text = ""
		if i < len(lines) {
			t.Text = lines[i]
		}
		sz := t.MinSize()
		t.Move(fyne.NewPos(pad, y))
		t.Resize(sz)
		if sz.Width > w {
			w = sz.Width
		}
		y += sz.Height
		t.Refresh()
	}
	tt.bg.Resize(fyne.NewSize(w+2*pad, y+pad))
	tt.bg.Refresh()
	tt.box.Resize(tt.bg.Size())
	tt.box.Move(at)
	tt.box.Show()
}

func (tt *tooltip) hide() { tt.box.Hide() }

func (tt *tooltip) visible() bool { return tt.box.Visible() }

func (tt *tooltip) text() []string {
	out := make([]string, len(tt.lines))
	for i, t := range tt.lines {
		out[i] = t.Text
	}
	return out
}
