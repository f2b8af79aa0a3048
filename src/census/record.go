// Package census holds the state-level census dataset driving the scatter chart and
// the sources it can be loaded from.
package census

import (
	"errors"
	"fmt"
	"math"
)

// Field names a numeric column of the dataset.
type Field string

const (
	Poverty    Field = "poverty"
	Age        Field = "age"
	Income     Field = "income"
	Obesity    Field = "obesity"
	Smokes     Field = "smokes"
	Healthcare Field = "healthcare"
)

// NumericFields lists every numeric column in CSV order.
var NumericFields = []Field{Poverty, Age, Income, Healthcare, Obesity, Smokes}

// Valid reports whether f is one of the known numeric columns.
func (f Field) Valid() bool {
	switch f {
	case Poverty, Age, Income, Obesity, Smokes, Healthcare:
		return true
	}
	return false
}

// ErrEmptyDataset is returned when an extent is requested over no records.
var ErrEmptyDataset = errors.New("census: empty dataset")

// Record is one state row.
type Record struct {
	ID         int     `json:"id"`
	State      string  `json:"state"`
	Abbr       string  `json:"abbr"`
	Poverty    float64 `json:"poverty"`
	Age        float64 `json:"age"`
	Income     float64 `json:"income"`
	Healthcare float64 `json:"healthcare"`
	Obesity    float64 `json:"obesity"`
	Smokes     float64 `json:"smokes"`
}

// Value returns the numeric value for f. Unknown fields report false.
func (r Record) Value(f Field) (float64, bool) {
	switch f {
	case Poverty:
		return r.Poverty, true
	case Age:
		return r.Age, true
	case Income:
		return r.Income, true
	case Healthcare:
		return r.Healthcare, true
	case Obesity:
		return r.Obesity, true
	case Smokes:
		return r.Smokes, true
	}
	return math.NaN(), false
}

func (r *Record) set(f Field, v float64) {
	switch f {
	case Poverty:
		r.Poverty = v
	case Age:
		r.Age = v
	case Income:
		r.Income = v
	case Healthcare:
		r.Healthcare = v
	case Obesity:
		r.Obesity = v
	case Smokes:
		r.Smokes = v
	}
}

// Dataset is an ordered, read-only sequence of records.
type Dataset struct {
	records []Record
}

// NewDataset copies recs into a new Dataset.
func NewDataset(recs []Record) Dataset {
	out := make([]Record, len(recs))
	copy(out, recs)
	return Dataset{records: out}
}

func (d Dataset) Len() int { return len(d.records) }

// At returns the i-th record.
func (d Dataset) At(i int) Record { return d.records[i] }

// Records returns a copy of all records.
func (d Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Extent returns min and max of f across the dataset.
func (d Dataset) Extent(f Field) (float64, float64, error) {
	if !f.Valid() {
		return 0, 0, fmt.Errorf("census: unknown field %q", f)
	}
	if len(d.records) == 0 {
		return 0, 0, ErrEmptyDataset
	}
	min := math.MaxFloat64
	max := -math.MaxFloat64
	for _, r := range d.records {
		v, _ := r.Value(f)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, nil
}
