package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iafilius/CensusScatter/src/census"
	"github.com/iafilius/CensusScatter/src/config"
	"github.com/iafilius/CensusScatter/src/scatter"
)

func main() {
	var cfgPath, dataPath, preset string
	flag.StringVar(&cfgPath, "config", config.DefaultPath, "Path to YAML config")
	flag.StringVar(&dataPath, "data", "", "CSV dataset (overrides config)")
	flag.StringVar(&preset, "preset", "", "Chart preset used for domain policies: census or legacy")
	flag.Parse()

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if dataPath != "" {
		cfg.Data.Source = "csv"
		cfg.Data.CSV = dataPath
	}
	if preset != "" {
		cfg.Chart.Preset = preset
	}
	spec, err := cfg.ChartSpec()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ds, err := cfg.LoadDataset(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := summarize(os.Stdout, ds, spec); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// summarize prints the row count and, per selectable field, its extent and the domain
// the chart would use for it.
func summarize(w io.Writer, ds census.Dataset, spec scatter.ChartSpec) error {
	fmt.Fprintf(w, "Total records: %d\n", ds.Len())
	for _, as := range []scatter.AxisSpec{spec.X, spec.Y} {
		for _, o := range as.Options {
			lo, hi, err := ds.Extent(o.Field)
			if err != nil {
				return fmt.Errorf("%s: %w", o.Field, err)
			}
			dom := as.Policy.Bounds(lo, hi)
			fmt.Fprintf(w, "%s %-10s min=%s max=%s domain=[%s, %s] (%s)\n",
				as.Axis, o.Field,
				scatter.FormatValue(lo), scatter.FormatValue(hi),
				scatter.FormatTick(dom[0]), scatter.FormatTick(dom[1]), as.Policy)
		}
	}
	return nil
}
