package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iafilius/CensusScatter/src/config"
	"github.com/iafilius/CensusScatter/src/logging"
)

func main() {
	var cfgPath, addr, dataPath, preset, logLevel string
	flag.StringVar(&cfgPath, "config", config.DefaultPath, "Path to YAML config")
	flag.StringVar(&addr, "addr", "", "Listen address (overrides config)")
	flag.StringVar(&dataPath, "data", "", "CSV dataset (overrides config)")
	flag.StringVar(&preset, "preset", "", "Chart preset: census or legacy (overrides config)")
	flag.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	flag.Parse()

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if dataPath != "" {
		cfg.Data.Source = "csv"
		cfg.Data.CSV = dataPath
	}
	if preset != "" {
		cfg.Chart.Preset = preset
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
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
	if loadErr != nil {
		logging.Errorf("load dataset: %v", loadErr)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := newServer(spec, ds, loadErr)
	logging.Infof("listening on %s", cfg.Server.Addr)
	if err := srv.router().Run(cfg.Server.Addr); err != nil {
		logging.Errorf("server: %v", err)
		os.Exit(1)
	}
}
