package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iafilius/CensusScatter/src/census"
	"github.com/iafilius/CensusScatter/src/scatter"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  addr: \":9000\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("addr=%q", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "info" || cfg.Data.Source != "csv" || cfg.Data.CSV != census.DefaultCSVPath || cfg.Chart.Preset != "census" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Server.Addr != ":8960" {
		t.Fatalf("addr=%q", cfg.Server.Addr)
	}
	if _, err := LoadOrDefault(writeConfig(t, "server: [")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestChartSpecOverrides(t *testing.T) {
	body := `
chart:
  preset: legacy
  width: 1200
  transition_ms: 250
  point_radius: 12
  margin:
    top: 10
    right: 10
    bottom: 60
    left: 80
data:
  source: mysql
  mysql:
    host: db.local
    port: 3307
    user: census
    dbname: acs
    table: census_2014
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatal(err)
	}
	spec, err := cfg.ChartSpec()
	if err != nil {
		t.Fatalf("ChartSpec: %v", err)
	}
	if spec.Layout.Width != 1200 || spec.Layout.Height != 500 {
		t.Fatalf("size=%vx%v", spec.Layout.Width, spec.Layout.Height)
	}
	if spec.Layout.Margin != (scatter.Margin{Top: 10, Right: 10, Bottom: 60, Left: 80}) {
		t.Fatalf("margin=%+v", spec.Layout.Margin)
	}
	if spec.Layout.Transition != 250*time.Millisecond || spec.Layout.PointRadius != 12 {
		t.Fatalf("transition=%v radius=%v", spec.Layout.Transition, spec.Layout.PointRadius)
	}
	if spec.Y.Policy != scatter.ZeroBased || len(spec.X.Options) != 2 {
		t.Fatalf("legacy preset not used: %+v", spec)
	}
	if cfg.Data.MySQL.Port != 3307 || cfg.Data.MySQL.Table != "census_2014" {
		t.Fatalf("mysql=%+v", cfg.Data.MySQL)
	}
}

func TestChartSpecErrors(t *testing.T) {
	cfg := Default()
	cfg.Chart.Preset = "radar"
	if _, err := cfg.ChartSpec(); err == nil {
		t.Fatalf("expected unknown preset error")
	}
	cfg = Default()
	cfg.Chart.YPolicy = "log"
	if _, err := cfg.ChartSpec(); err == nil {
		t.Fatalf("expected unknown policy error")
	}
	cfg = Default()
	cfg.Chart.YPolicy = "zero"
	spec, err := cfg.ChartSpec()
	if err != nil || spec.Y.Policy != scatter.ZeroBased {
		t.Fatalf("y_policy override failed: %v %v", spec.Y.Policy, err)
	}
}

func TestLoadDatasetFromCSV(t *testing.T) {
	cfg := Default()
	cfg.Data.CSV = filepath.Join("..", "..", census.DefaultCSVPath)
	ds, err := cfg.LoadDataset(context.Background())
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if ds.Len() == 0 {
		t.Fatalf("empty dataset")
	}
	cfg.Data.Source = "parquet"
	if _, err := cfg.Source(); err == nil {
		t.Fatalf("expected unknown source error")
	}
}

type closingSource struct {
	ds     census.Dataset
	err    error
	closed int
}

func (s *closingSource) Load(context.Context) (census.Dataset, error) { return s.ds, s.err }

func (s *closingSource) Close() error {
	s.closed++
	return nil
}

func TestLoadOnceClosesSource(t *testing.T) {
	src := &closingSource{ds: census.NewDataset([]census.Record{{ID: 1, State: "Alabama", Abbr: "AL"}})}
	ds, err := loadOnce(context.Background(), src)
	if err != nil || ds.Len() != 1 {
		t.Fatalf("loadOnce: len=%d err=%v", ds.Len(), err)
	}
	if src.closed != 1 {
		t.Fatalf("closed %d times want 1", src.closed)
	}
	failing := &closingSource{err: errors.New("boom")}
	if _, err := loadOnce(context.Background(), failing); err == nil {
		t.Fatalf("expected load error")
	}
	if failing.closed != 1 {
		t.Fatalf("source not closed after failed load")
	}
}
