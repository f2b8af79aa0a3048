// Package render turns chart scenes into PNG images and animated SVG documents.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/CensusScatter/src/scatter"
)

// PointColor is the fill of the state circles.
var PointColor = drawing.Color{R: 70, G: 130, B: 180, A: 255}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color, radius, opacity float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    radius,
		DotColor:    col.WithAlpha(uint8(opacity * 255)),
	}
}

// labelStyle draws abbreviations without the default annotation box.
func labelStyle() chart.Style {
	return chart.Style{
		FillColor:   drawing.ColorTransparent,
		StrokeColor: drawing.ColorTransparent,
		StrokeWidth: chart.Disabled,
		FontColor:   chart.ColorWhite,
		FontSize:    9,
	}
}

// Chart builds the go-chart description of a scene. Values are plotted in data space
// against the scene's domains so the picture matches the interactive surfaces.
func Chart(sc scatter.Scene) chart.Chart {
	l := sc.Layout
	xs := make([]float64, len(sc.Points))
	ys := make([]float64, len(sc.Points))
	notes := make([]chart.Value2, 0, len(sc.Points))
	for i, p := range sc.Points {
		xs[i] = p.XValue
		ys[i] = p.YValue
		notes = append(notes, chart.Value2{XValue: p.XValue, YValue: p.YValue, Label: p.Abbr})
	}
	series := []chart.Series{
		chart.ContinuousSeries{Name: "states", XValues: xs, YValues: ys, Style: pointStyle(PointColor, l.PointRadius, l.Opacity)},
	}
	if len(notes) > 0 {
		series = append(series, chart.AnnotationSeries{Name: "abbr", Style: labelStyle(), Annotations: notes})
	}
	xName, yName := "", ""
	if lab, ok := sc.ActiveLabel(scatter.X); ok {
		xName = lab.Text
	}
	if lab, ok := sc.ActiveLabel(scatter.Y); ok {
		yName = lab.Text
	}
	return chart.Chart{
		Width:  int(l.Width),
		Height: int(l.Height),
		Background: chart.Style{Padding: chart.Box{
			Top:    int(l.Margin.Top),
			Right:  int(l.Margin.Right),
			Bottom: int(l.Margin.Bottom) / 2,
			Left:   int(l.Margin.Left) / 2,
		}},
		XAxis: chart.XAxis{
			Name:  xName,
			Style: chart.Shown(),
			Range: &chart.ContinuousRange{Min: sc.XAxis.Scale.Domain[0], Max: sc.XAxis.Scale.Domain[1]},
			Ticks: chartTicks(sc.XAxis),
		},
		YAxis: chart.YAxis{
			Name:  yName,
			Style: chart.Shown(),
			Range: &chart.ContinuousRange{Min: sc.YAxis.Scale.Domain[0], Max: sc.YAxis.Scale.Domain[1]},
			Ticks: chartTicks(sc.YAxis),
		},
		Series: series,
	}
}

// chartTicks converts scene ticks; go-chart wants at least two to honour them.
func chartTicks(g scatter.AxisGuide) []chart.Tick {
	if len(g.Ticks) < 2 {
		return nil
	}
	out := make([]chart.Tick, len(g.Ticks))
	for i, t := range g.Ticks {
		out[i] = chart.Tick{Value: t.Value, Label: t.Label}
	}
	return out
}

// Image renders the scene to an image. The caption, when non-empty, is drawn in the
// bottom-left corner.
func Image(sc scatter.Scene, caption string) (image.Image, error) {
	if len(sc.Points) == 0 {
		return blank(int(sc.Layout.Width), int(sc.Layout.Height)), nil
	}
	ch := Chart(sc)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return drawCaption(img, caption), nil
}

// PNG writes the scene as a PNG image.
func PNG(w io.Writer, sc scatter.Scene, caption string) error {
	img, err := Image(sc, caption)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Caption is the default footer for a scene: "<x label> vs <y label>".
func Caption(sc scatter.Scene) string {
	x, okx := sc.ActiveLabel(scatter.X)
	y, oky := sc.ActiveLabel(scatter.Y)
	if !okx || !oky {
		return ""
	}
	return x.Text + " vs " + y.Text
}

func blank(w, h int) image.Image {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

// drawCaption draws a small caption onto the image near the bottom-left.
func drawCaption(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 4
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 40, G: 40, B: 40, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
