package main

import (
	"bytes"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iafilius/CensusScatter/src/census"
	"github.com/iafilius/CensusScatter/src/logging"
	"github.com/iafilius/CensusScatter/src/render"
	"github.com/iafilius/CensusScatter/src/scatter"
)

type errResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type healthResponse struct {
	OK          bool              `json:"ok"`
	Initialized bool              `json:"initialized"`
	Points      int               `json:"points"`
	Selection   scatter.Selection `json:"selection"`
}

// server holds the single chart instance shared by all requests. Handlers serialize
// on mu so selections are applied one at a time.
type server struct {
	mu      sync.Mutex
	ctl     *scatter.Controller
	surf    *render.SVGSurface
	loadErr error
}

func selectPath(a scatter.Axis, f census.Field) string {
	return "/select/" + string(a) + "/" + string(f)
}

// newServer initializes the chart from ds. A load error is kept and reported on the
// page; the server still starts.
func newServer(spec scatter.ChartSpec, ds census.Dataset, loadErr error) *server {
	s := &server{surf: &render.SVGSurface{SelectURL: selectPath}, loadErr: loadErr}
	s.ctl = scatter.NewController(spec, s.surf)
	if loadErr == nil {
		if err := s.ctl.Initialize(ds); err != nil {
			logging.Errorf("initialize chart: %v", err)
			s.loadErr = err
		}
	}
	return s
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Infof("%s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.SetHTMLTemplate(pageTemplate)
	r.GET("/", s.servePage)
	r.Match([]string{http.MethodGet, http.MethodPost}, "/select/:axis/:field", s.serveSelect)
	r.GET("/api/scene", s.serveScene)
	r.GET("/chart.png", s.servePNG)
	r.GET("/healthz", s.serveHealth)
	return r
}

type pageData struct {
	Title string
	Chart template.HTML
	Error string
}

func (s *server) servePage(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := pageData{Title: "Census Scatter"}
	if s.loadErr != nil {
		data.Error = s.loadErr.Error()
	}
	doc, err := s.surf.Document()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errResponse{OK: false, Error: "RENDER_ERROR", Message: err.Error()})
		return
	}
	// the animation plays once; reloads show the settled chart
	s.surf.Settle()
	data.Chart = template.HTML(doc)
	c.HTML(http.StatusOK, "page", data)
}

func (s *server) serveSelect(c *gin.Context) {
	a, ok := scatter.ParseAxis(c.Param("axis"))
	if !ok {
		c.JSON(http.StatusNotFound, errResponse{OK: false, Error: "NOT_FOUND", Message: "unknown axis " + c.Param("axis")})
		return
	}
	s.mu.Lock()
	changed := s.ctl.Select(a, census.Field(c.Param("field")))
	s.mu.Unlock()
	if changed {
		logging.Infof("selected %s=%s", a, c.Param("field"))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *server) serveScene(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctl.Initialized() {
		s.notReady(c)
		return
	}
	c.JSON(http.StatusOK, s.ctl.Scene())
}

func (s *server) servePNG(c *gin.Context) {
	s.mu.Lock()
	sc, ready := s.ctl.Scene(), s.ctl.Initialized()
	s.mu.Unlock()
	if !ready {
		s.notReady(c)
		return
	}
	var buf bytes.Buffer
	if err := render.PNG(&buf, sc, render.Caption(sc)); err != nil {
		c.JSON(http.StatusInternalServerError, errResponse{OK: false, Error: "RENDER_ERROR", Message: err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *server) serveHealth(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, healthResponse{
		OK:          true,
		Initialized: s.ctl.Initialized(),
		Points:      len(s.ctl.Scene().Points),
		Selection:   s.ctl.Selection(),
	})
}

func (s *server) notReady(c *gin.Context) {
	msg := scatter.ErrNotInitialized.Error()
	if s.loadErr != nil {
		msg = s.loadErr.Error()
	}
	c.JSON(http.StatusServiceUnavailable, errResponse{OK: false, Error: "NOT_READY", Message: msg})
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}}</title>
  <style>
    body { margin: 24px; font-family: "Helvetica Neue", Arial, sans-serif; color: #1b1b1b; }
    .error { color: #a32121; margin-bottom: 12px; }
    .links { margin-top: 8px; font-size: 13px; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  {{if .Error}}<div class="error">No data: {{.Error}}</div>{{end}}
  <div id="scatter">{{.Chart}}</div>
  <div class="links"><a href="/chart.png">PNG</a> · <a href="/api/scene">scene JSON</a></div>
</body>
</html>
`))
