package census

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iafilius/CensusScatter/src/logging"
)

// DefaultCSVPath is where the dataset lives relative to the working directory.
const DefaultCSVPath = "assets/data/data.csv"

// Source loads a Dataset once.
type Source interface {
	Load(ctx context.Context) (Dataset, error)
}

// LoadError reports which stage, row and column of a load failed.
type LoadError struct {
	Stage  string
	Row    int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("census load error at %s stage (row %d, column %s): %v", e.Stage, e.Row, e.Column, e.Err)
	case e.Column != "":
		return fmt.Sprintf("census load error at %s stage (column %s): %v", e.Stage, e.Column, e.Err)
	}
	return fmt.Sprintf("census load error at %s stage: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var (
	errMissingColumn = errors.New("missing required column")
	errNotFinite     = errors.New("value is not a finite number")
)

// requiredColumns lists the CSV header names that must be present.
var requiredColumns = []string{"id", "state", "abbr", "poverty", "age", "income", "healthcare", "obesity", "smokes"}

// CSVSource reads the dataset from a CSV file with a header row.
type CSVSource struct {
	Path string
}

// Load implements Source.
func (s CSVSource) Load(ctx context.Context) (Dataset, error) {
	defer logging.TimeTrack(time.Now(), "csv load")
	path := s.Path
	if path == "" {
		path = DefaultCSVPath
	}
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, &LoadError{Stage: "open", Err: err}
	}
	defer f.Close()
	ds, err := ReadCSV(ctx, f)
	if err != nil {
		return Dataset{}, err
	}
	logging.Infof("loaded %d records from %s", ds.Len(), path)
	return ds, nil
}

// ReadCSV parses census rows from r. Extra columns are ignored and column order is free.
func ReadCSV(ctx context.Context, r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return Dataset{}, &LoadError{Stage: "header", Err: err}
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return Dataset{}, &LoadError{Stage: "header", Column: col, Err: errMissingColumn}
		}
	}

	var recs []Record
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, &LoadError{Stage: "read", Row: row, Err: err}
		}
		line, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, &LoadError{Stage: "read", Row: row, Err: err}
		}
		rec := Record{
			State: strings.TrimSpace(line[idx["state"]]),
			Abbr:  strings.TrimSpace(line[idx["abbr"]]),
		}
		id, err := strconv.Atoi(strings.TrimSpace(line[idx["id"]]))
		if err != nil {
			return Dataset{}, &LoadError{Stage: "parse", Row: row, Column: "id", Err: err}
		}
		rec.ID = id
		for _, f := range NumericFields {
			v, err := strconv.ParseFloat(strings.TrimSpace(line[idx[string(f)]]), 64)
			if err != nil {
				return Dataset{}, &LoadError{Stage: "parse", Row: row, Column: string(f), Err: err}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Dataset{}, &LoadError{Stage: "parse", Row: row, Column: string(f), Err: errNotFinite}
			}
			rec.set(f, v)
		}
		recs = append(recs, rec)
	}
	return Dataset{records: recs}, nil
}
