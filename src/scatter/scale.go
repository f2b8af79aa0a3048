package scatter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/iafilius/CensusScatter/src/census"
)

// DomainPolicy decides how an axis domain is derived from a field's extent.
type DomainPolicy int

const (
	// Padded widens the extent to [min*0.8, max*1.2].
	Padded DomainPolicy = iota
	// ZeroBased anchors the domain at zero: [0, max].
	ZeroBased
)

func (p DomainPolicy) String() string {
	switch p {
	case Padded:
		return "padded"
	case ZeroBased:
		return "zero"
	}
	return fmt.Sprintf("DomainPolicy(%d)", int(p))
}

// ParseDomainPolicy maps config names to policies.
func ParseDomainPolicy(s string) (DomainPolicy, error) {
	switch s {
	case "", "padded":
		return Padded, nil
	case "zero", "zero_based", "zero-based":
		return ZeroBased, nil
	}
	return Padded, fmt.Errorf("unknown domain policy %q", s)
}

// Bounds applies the policy to a data extent.
func (p DomainPolicy) Bounds(min, max float64) [2]float64 {
	if p == ZeroBased {
		return [2]float64{0, max}
	}
	return [2]float64{min * 0.8, max * 1.2}
}

// Scale maps data values linearly from Domain onto the pixel Range.
type Scale struct {
	Domain [2]float64 `json:"domain"`
	Range  [2]float64 `json:"range"`
}

// NewScale derives a fresh scale for field f from the whole dataset.
func NewScale(ds census.Dataset, f census.Field, policy DomainPolicy, rng [2]float64) (Scale, error) {
	min, max, err := ds.Extent(f)
	if err != nil {
		return Scale{}, err
	}
	return Scale{Domain: policy.Bounds(min, max), Range: rng}, nil
}

// Apply returns the pixel coordinate of v. A collapsed domain maps to the middle of the range.
func (s Scale) Apply(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Range[0], s.Range[1]
	if d1 == d0 {
		return (r0 + r1) / 2
	}
	return r0 + (v-d0)/(d1-d0)*(r1-r0)
}

// Interpolate blends two scales; t=0 yields s, t=1 yields o.
func (s Scale) Interpolate(o Scale, t float64) Scale {
	lerp := func(a, b float64) float64 { return a + (b-a)*t }
	return Scale{
		Domain: [2]float64{lerp(s.Domain[0], o.Domain[0]), lerp(s.Domain[1], o.Domain[1])},
		Range:  [2]float64{lerp(s.Range[0], o.Range[0]), lerp(s.Range[1], o.Range[1])},
	}
}

// Ticks returns roughly n tick values inside the domain using 1, 2 and 5 times 10^k steps.
func (s Scale) Ticks(n int) []float64 {
	lo, hi := s.Domain[0], s.Domain[1]
	if hi < lo {
		lo, hi = hi, lo
	}
	if n < 1 || math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil
	}
	if lo == hi {
		return []float64{lo}
	}
	step := tickStep(lo, hi, n)
	if step <= 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return nil
	}
	start := math.Ceil(lo / step)
	end := math.Floor(hi / step)
	var out []float64
	for i := start; i <= end; i++ {
		out = append(out, round6(i*step))
	}
	return out
}

// tickStep picks the 1/2/5 step whose count is closest to n.
func tickStep(lo, hi float64, n int) float64 {
	raw := (hi - lo) / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	e := raw / mag
	switch {
	case e >= math.Sqrt(50):
		return 10 * mag
	case e >= math.Sqrt(10):
		return 5 * mag
	case e >= math.Sqrt(2):
		return 2 * mag
	}
	return mag
}

// round6 rounds to 6 decimal places to keep tick values free of float noise.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// FormatTick provides a compact tick label.
func FormatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1000 || v == math.Trunc(v):
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}

// FormatValue renders a data value the way it appears in the source data.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
