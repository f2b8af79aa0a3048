package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/CensusScatter/src/census"
	"github.com/iafilius/CensusScatter/src/config"
	"github.com/iafilius/CensusScatter/src/logging"
	"github.com/iafilius/CensusScatter/src/render"
	"github.com/iafilius/CensusScatter/src/scatter"
)

type options struct {
	configPath  string
	dataPath    string
	preset      string
	logLevel    string
	screenshots string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("scatterviewer", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", config.DefaultPath, "Path to YAML config")
	fs.StringVar(&o.dataPath, "data", "", "CSV dataset (overrides config)")
	fs.StringVar(&o.preset, "preset", "", "Chart preset: census or legacy (overrides config)")
	fs.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	fs.StringVar(&o.screenshots, "screenshots", "", "Render every axis combination as PNG into this directory and exit")
	err := fs.Parse(args)
	return o, err
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(o options) (config.Config, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.dataPath != "" {
		cfg.Data.Source = "csv"
		cfg.Data.CSV = o.dataPath
	}
	if o.preset != "" {
		cfg.Chart.Preset = o.preset
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

// viewer wires one controller to one fyne surface.
type viewer struct {
	ctl  *scatter.Controller
	surf *fyneSurface
}

func newViewer(spec scatter.ChartSpec) *viewer {
	v := &viewer{}
	v.surf = newFyneSurface(spec.Layout, v.selected)
	v.ctl = scatter.NewController(spec, v.surf)
	return v
}

func (v *viewer) selected(a scatter.Axis, f census.Field) {
	if v.ctl.Select(a, f) {
		logging.Infof("selected %s=%s", a, f)
	}
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	closer, err := cfg.SetupLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	spec, err := cfg.ChartSpec()
	if err != nil {
		logging.Errorf("chart spec: %v", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ds, loadErr := cfg.LoadDataset(ctx)
	cancel()

	if o.screenshots != "" {
		if loadErr != nil {
			logging.Errorf("load dataset: %v", loadErr)
			os.Exit(1)
		}
		if _, err := render.WriteScreenshots(ds, spec, o.screenshots); err != nil {
			logging.Errorf("screenshots: %v", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.census.scatter")
	w := a.NewWindow("Census Scatter")
	v := newViewer(spec)
	var content fyne.CanvasObject = v.surf.Content()
	if loadErr != nil {
		// leave the chart empty; the window still opens
		logging.Errorf("load dataset: %v", loadErr)
		content = container.NewBorder(widget.NewLabel(fmt.Sprintf("No data: %v", loadErr)), nil, nil, nil, content)
	} else if err := v.ctl.Initialize(ds); err != nil {
		logging.Errorf("initialize chart: %v", err)
		content = container.NewBorder(widget.NewLabel(fmt.Sprintf("No chart: %v", err)), nil, nil, nil, content)
	}
	w.SetContent(content)
	w.Resize(fyne.NewSize(float32(spec.Layout.Width)+200, float32(spec.Layout.Height)+40))
	w.ShowAndRun()
}
