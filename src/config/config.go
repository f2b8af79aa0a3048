// Package config loads the YAML settings shared by the viewer, the server and the reader.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iafilius/CensusScatter/src/census"
	"github.com/iafilius/CensusScatter/src/logging"
	"github.com/iafilius/CensusScatter/src/scatter"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "config.yaml"

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`

	Data struct {
		Source string             `yaml:"source"` // csv or mysql
		CSV    string             `yaml:"csv"`
		MySQL  census.MySQLConfig `yaml:"mysql"`
	} `yaml:"data"`

	Chart ChartConfig `yaml:"chart"`
}

// ChartConfig overrides parts of a preset chart spec. Zero values keep the preset.
type ChartConfig struct {
	Preset       string          `yaml:"preset"`
	Width        float64         `yaml:"width"`
	Height       float64         `yaml:"height"`
	Margin       *scatter.Margin `yaml:"margin"`
	TransitionMs int             `yaml:"transition_ms"`
	PointRadius  float64         `yaml:"point_radius"`
	YPolicy      string          `yaml:"y_policy"`
}

// Default returns the built-in settings.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8960"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Data.Source == "" {
		c.Data.Source = "csv"
	}
	if c.Data.CSV == "" {
		c.Data.CSV = census.DefaultCSVPath
	}
	if c.Chart.Preset == "" {
		c.Chart.Preset = "census"
	}
}

// Load reads path and fills unset values with defaults.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when path does not exist.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ChartSpec resolves the preset and applies overrides.
func (c Config) ChartSpec() (scatter.ChartSpec, error) {
	spec, err := scatter.Preset(c.Chart.Preset)
	if err != nil {
		return spec, err
	}
	if c.Chart.Width > 0 {
		spec.Layout.Width = c.Chart.Width
	}
	if c.Chart.Height > 0 {
		spec.Layout.Height = c.Chart.Height
	}
	if c.Chart.Margin != nil {
		spec.Layout.Margin = *c.Chart.Margin
	}
	if c.Chart.TransitionMs > 0 {
		spec.Layout.Transition = time.Duration(c.Chart.TransitionMs) * time.Millisecond
	}
	if c.Chart.PointRadius > 0 {
		spec.Layout.PointRadius = c.Chart.PointRadius
	}
	if c.Chart.YPolicy != "" {
		p, err := scatter.ParseDomainPolicy(c.Chart.YPolicy)
		if err != nil {
			return spec, err
		}
		spec.Y.Policy = p
	}
	return spec, spec.Validate()
}

// Source builds the configured dataset source. For mysql the returned source owns an
// open connection.
func (c Config) Source() (census.Source, error) {
	switch c.Data.Source {
	case "csv":
		return census.CSVSource{Path: c.Data.CSV}, nil
	case "mysql":
		db, err := census.OpenMySQL(c.Data.MySQL)
		if err != nil {
			return nil, err
		}
		return census.MySQLSource{DB: db, Table: c.Data.MySQL.Table}, nil
	}
	return nil, fmt.Errorf("unknown data source %q", c.Data.Source)
}

// LoadDataset builds the source and loads the dataset from it. The dataset is read
// once, so a source holding connections is closed afterwards.
func (c Config) LoadDataset(ctx context.Context) (census.Dataset, error) {
	src, err := c.Source()
	if err != nil {
		return census.Dataset{}, err
	}
	return loadOnce(ctx, src)
}

func loadOnce(ctx context.Context, src census.Source) (census.Dataset, error) {
	if cl, ok := src.(io.Closer); ok {
		defer func() {
			if err := cl.Close(); err != nil {
				logging.Warnf("close data source: %v", err)
			}
		}()
	}
	return src.Load(ctx)
}

// SetupLogging applies the configured level and, when set, tees log output into the
// log file. Close the returned closer on exit.
func (c Config) SetupLogging() (io.Closer, error) {
	logging.SetLogLevel(c.Logging.Level)
	if c.Logging.File == "" {
		return io.NopCloser(nil), nil
	}
	return logging.OpenLogFile(c.Logging.File)
}
