package render

import (
	"bytes"
	"html/template"
	"io"
	"strconv"
	"sync"

	"github.com/iafilius/CensusScatter/src/census"
	"github.com/iafilius/CensusScatter/src/scatter"
)

// SVGSurface keeps the latest scene and renders it as a standalone SVG document. A
// pending transition is rendered with SMIL animations that move every circle, label and
// tick of a changed axis from its old position to the new one, then freeze.
type SVGSurface struct {
	// SelectURL, when set, turns axis labels into links.
	SelectURL func(a scatter.Axis, f census.Field) string

	mu      sync.Mutex
	scene   scatter.Scene
	pending *scatter.Transition
	drawn   bool
}

func (s *SVGSurface) Draw(sc scatter.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene = sc
	s.pending = nil
	s.drawn = true
}

// Transition replaces the pending animation. The start positions of a transition that
// arrives before the previous one was rendered are taken from the older From scene so
// the client never sees a jump.
func (s *SVGSurface) Transition(t scatter.Transition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		t.From = s.pending.From
	}
	s.scene = t.To
	s.pending = &t
	s.drawn = true
}

// Pending returns the transition the next document will animate, if any.
func (s *SVGSurface) Pending() (scatter.Transition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return scatter.Transition{}, false
	}
	return *s.pending, true
}

// Settle drops the pending animation; later documents render the scene statically.
func (s *SVGSurface) Settle() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// Scene returns the last drawn scene and whether anything was drawn yet.
func (s *SVGSurface) Scene() (scatter.Scene, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene, s.drawn
}

// WriteTo renders the SVG document.
func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	s.mu.Lock()
	data := s.templateData()
	s.mu.Unlock()
	var buf bytes.Buffer
	if err := svgTemplate.Execute(&buf, data); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// Document renders the SVG document into memory.
func (s *SVGSurface) Document() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type svgAnim struct {
	From, To string
}

type svgPoint struct {
	CX, CY, LX, LY     string
	ACX, ACY, ALX, ALY *svgAnim
	R, Opacity         string
	Abbr               string
	Lines              []string
}

type svgTick struct {
	Translate, Label string
	Move             *svgAnim
}

type svgLabel struct {
	X, Y, Text, Class string
	Href              template.URL
}

type svgData struct {
	Width, Height    string
	Left, Top        string
	InnerW, InnerH   string
	XTicks, YTicks   []svgTick
	FadeX, FadeY     bool
	Dur              string
	Points           []svgPoint
	XLabels, YLabels []svgLabel
	Empty            bool
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func anim(from, to float64) *svgAnim {
	if from == to {
		return nil
	}
	return &svgAnim{From: num(from), To: num(to)}
}

func (s *SVGSurface) templateData() svgData {
	sc := s.scene
	l := sc.Layout
	d := svgData{
		Width:  num(l.Width),
		Height: num(l.Height),
		Left:   num(l.Margin.Left),
		Top:    num(l.Margin.Top),
		InnerW: num(l.InnerWidth()),
		InnerH: num(l.InnerHeight()),
		Empty:  len(sc.Points) == 0,
	}
	var from []scatter.Point
	if s.pending != nil {
		from = s.pending.From.Points
		d.Dur = strconv.FormatInt(s.pending.Duration.Milliseconds(), 10) + "ms"
		d.FadeX = s.pending.From.Selection.X != sc.Selection.X
		d.FadeY = s.pending.From.Selection.Y != sc.Selection.Y
	}
	d.XTicks = s.ticks(sc.XAxis)
	d.YTicks = s.ticks(sc.YAxis)
	for i, p := range sc.Points {
		sp := svgPoint{
			CX: num(p.CX), CY: num(p.CY), LX: num(p.LabelX), LY: num(p.LabelY),
			R: num(l.PointRadius), Opacity: num(l.Opacity),
			Abbr: p.Abbr, Lines: p.Tooltip.Lines(),
		}
		if i < len(from) {
			f := from[i]
			sp.ACX, sp.ACY = anim(f.CX, p.CX), anim(f.CY, p.CY)
			sp.ALX, sp.ALY = anim(f.LabelX, p.LabelX), anim(f.LabelY, p.LabelY)
			// Render the start state; the animation carries it to the end state.
			if sp.ACX != nil || sp.ACY != nil {
				sp.CX, sp.CY = num(f.CX), num(f.CY)
			}
			if sp.ALX != nil || sp.ALY != nil {
				sp.LX, sp.LY = num(f.LabelX), num(f.LabelY)
			}
		}
		d.Points = append(d.Points, sp)
	}
	d.XLabels = s.labels(sc.XLabels)
	d.YLabels = s.labels(sc.YLabels)
	return d
}

// ticks lays out the ticks of g. While a transition is pending, each tick slides in
// from where its value sat on the previous scale.
func (s *SVGSurface) ticks(g scatter.AxisGuide) []svgTick {
	translate := func(pos float64) string {
		if g.Axis == scatter.Y {
			return "0, " + num(pos)
		}
		return num(pos) + ", 0"
	}
	var old *scatter.Scale
	if s.pending != nil {
		if prev := s.pending.From.Guide(g.Axis).Scale; prev != g.Scale {
			old = &prev
		}
	}
	out := make([]svgTick, 0, len(g.Ticks))
	for _, t := range g.Ticks {
		st := svgTick{Translate: translate(t.Pos), Label: t.Label}
		if old != nil {
			start := translate(old.Apply(t.Value))
			st.Move = &svgAnim{From: start, To: st.Translate}
			st.Translate = start
		}
		out = append(out, st)
	}
	return out
}

func (s *SVGSurface) labels(in []scatter.AxisLabel) []svgLabel {
	out := make([]svgLabel, 0, len(in))
	for _, lab := range in {
		cls := "inactive"
		if lab.Active {
			cls = "active"
		}
		sl := svgLabel{X: num(lab.X), Y: num(lab.Y), Text: lab.Text, Class: cls}
		if s.SelectURL != nil {
			sl.Href = template.URL(s.SelectURL(lab.Axis, lab.Field))
		}
		out = append(out, sl)
	}
	return out
}

var svgTemplate = template.Must(template.New("svg").Parse(`<svg xmlns="http://www.w3.org/2000/svg" class="chart" width="{{.Width}}" height="{{.Height}}">
<style>
.stateCircle{fill:#4682b4;stroke:#e3e3e3}
.stateText{font:10px sans-serif;fill:#fff;text-anchor:middle;pointer-events:none}
.aText{font:16px sans-serif;text-anchor:middle;cursor:pointer}
.active{font-weight:bold;fill:#000}
.inactive{fill:#aaa}
.inactive:hover{fill:#000}
.tick text{font:10px sans-serif}
</style>
<g transform="translate({{.Left}}, {{.Top}})">
{{- if not .Empty}}
<g class="x axis" transform="translate(0, {{.InnerH}})">
<line x1="0" x2="{{.InnerW}}" y1="0" y2="0" stroke="#000"/>
{{- range .XTicks}}
<g class="tick" transform="translate({{.Translate}})"><line y2="6" stroke="#000"/><text y="9" dy="0.71em" text-anchor="middle">{{.Label}}</text>
{{- with .Move}}<animateTransform attributeName="transform" type="translate" from="{{.From}}" to="{{.To}}" dur="{{$.Dur}}" fill="freeze"/>{{end -}}
</g>
{{- end}}
{{- if .FadeX}}
<animate attributeName="opacity" from="0" to="1" dur="{{$.Dur}}" fill="freeze"/>
{{- end}}
</g>
<g class="y axis">
<line x1="0" x2="0" y1="0" y2="{{.InnerH}}" stroke="#000"/>
{{- range .YTicks}}
<g class="tick" transform="translate({{.Translate}})"><line x2="-6" stroke="#000"/><text x="-9" dy="0.32em" text-anchor="end">{{.Label}}</text>
{{- with .Move}}<animateTransform attributeName="transform" type="translate" from="{{.From}}" to="{{.To}}" dur="{{$.Dur}}" fill="freeze"/>{{end -}}
</g>
{{- end}}
{{- if .FadeY}}
<animate attributeName="opacity" from="0" to="1" dur="{{$.Dur}}" fill="freeze"/>
{{- end}}
</g>
{{- range .Points}}
<circle class="stateCircle" cx="{{.CX}}" cy="{{.CY}}" r="{{.R}}" opacity="{{.Opacity}}">
<title>{{range $i, $l := .Lines}}{{if $i}}&#10;{{end}}{{$l}}{{end}}</title>
{{- with .ACX}}<animate attributeName="cx" from="{{.From}}" to="{{.To}}" dur="{{$.Dur}}" fill="freeze"/>{{end}}
{{- with .ACY}}<animate attributeName="cy" from="{{.From}}" to="{{.To}}" dur="{{$.Dur}}" fill="freeze"/>{{end}}
</circle>
<text class="stateText" x="{{.LX}}" y="{{.LY}}">{{.Abbr}}
{{- with .ALX}}<animate attributeName="x" from="{{.From}}" to="{{.To}}" dur="{{$.Dur}}" fill="freeze"/>{{end}}
{{- with .ALY}}<animate attributeName="y" from="{{.From}}" to="{{.To}}" dur="{{$.Dur}}" fill="freeze"/>{{end}}
</text>
{{- end}}
{{- end}}
<g class="x labels">
{{- range .XLabels}}
{{if .Href}}<a href="{{.Href}}">{{end}}<text class="aText {{.Class}}" x="{{.X}}" y="{{.Y}}">{{.Text}}</text>{{if .Href}}</a>{{end}}
{{- end}}
</g>
<g class="y labels" transform="rotate(-90)">
{{- range .YLabels}}
{{if .Href}}<a href="{{.Href}}">{{end}}<text class="aText {{.Class}}" x="{{.X}}" y="{{.Y}}">{{.Text}}</text>{{if .Href}}</a>{{end}}
{{- end}}
</g>
</g>
</svg>
`))
