package scatter

import (
	"math"
	"testing"

	"github.com/iafilius/CensusScatter/src/census"
)

func TestScaleApplyEndpointsAndInversion(t *testing.T) {
	s := Scale{Domain: [2]float64{10, 30}, Range: [2]float64{0, 820}}
	if got := s.Apply(10); got != 0 {
		t.Fatalf("Apply(min)=%v want 0", got)
	}
	if got := s.Apply(30); got != 820 {
		t.Fatalf("Apply(max)=%v want 820", got)
	}
	if got := s.Apply(20); got != 410 {
		t.Fatalf("Apply(mid)=%v want 410", got)
	}
	inv := Scale{Domain: [2]float64{10, 30}, Range: [2]float64{400, 0}}
	if got := inv.Apply(10); got != 400 {
		t.Fatalf("inverted Apply(min)=%v want 400", got)
	}
	if got := inv.Apply(30); got != 0 {
		t.Fatalf("inverted Apply(max)=%v want 0", got)
	}
}

func TestScaleCollapsedDomainMapsToMiddle(t *testing.T) {
	s := Scale{Domain: [2]float64{0, 0}, Range: [2]float64{400, 0}}
	if got := s.Apply(12); got != 200 {
		t.Fatalf("collapsed domain Apply=%v want 200", got)
	}
}

func TestDomainPolicies(t *testing.T) {
	if b := Padded.Bounds(10, 20); b != [2]float64{8, 24} {
		t.Fatalf("padded=%v", b)
	}
	if b := ZeroBased.Bounds(10, 20); b != [2]float64{0, 20} {
		t.Fatalf("zero=%v", b)
	}
	for _, c := range []struct {
		in   string
		want DomainPolicy
		err  bool
	}{{"", Padded, false}, {"padded", Padded, false}, {"zero", ZeroBased, false}, {"log", Padded, true}} {
		got, err := ParseDomainPolicy(c.in)
		if (err != nil) != c.err || got != c.want {
			t.Fatalf("ParseDomainPolicy(%q)=%v,%v", c.in, got, err)
		}
	}
}

func TestNewScaleUsesWholeDatasetExtent(t *testing.T) {
	ds := census.NewDataset([]census.Record{{Poverty: 11.2}, {Poverty: 18.2}, {Poverty: 15}})
	s, err := NewScale(ds, census.Poverty, Padded, [2]float64{0, 820})
	if err != nil {
		t.Fatal(err)
	}
	min, max := 11.2, 18.2
	if s.Domain[0] != min*0.8 || s.Domain[1] != max*1.2 {
		t.Fatalf("domain=%v want [%v,%v]", s.Domain, min*0.8, max*1.2)
	}
	if _, err := NewScale(census.NewDataset(nil), census.Poverty, Padded, [2]float64{0, 1}); err == nil {
		t.Fatalf("expected error on empty dataset")
	}
}

func TestTicksInsideDomainAndEvenlySpaced(t *testing.T) {
	cases := []Scale{
		{Domain: [2]float64{8.96, 22.44}},
		{Domain: [2]float64{34026.4, 87522}},
		{Domain: [2]float64{0, 20.2}},
		{Domain: [2]float64{0.003, 0.0071}},
	}
	for _, s := range cases {
		ticks := s.Ticks(10)
		if len(ticks) < 2 {
			t.Fatalf("domain %v: expected >=2 ticks, got %v", s.Domain, ticks)
		}
		if len(ticks) > 15 {
			t.Fatalf("domain %v: too many ticks %d", s.Domain, len(ticks))
		}
		step := ticks[1] - ticks[0]
		for i, v := range ticks {
			if v < s.Domain[0]-1e-9 || v > s.Domain[1]+1e-9 {
				t.Fatalf("domain %v: tick %v outside", s.Domain, v)
			}
			if i > 0 && math.Abs((v-ticks[i-1])-step) > step*1e-6 {
				t.Fatalf("domain %v: uneven ticks %v", s.Domain, ticks)
			}
		}
	}
	if got := (Scale{Domain: [2]float64{5, 5}}).Ticks(10); len(got) != 1 || got[0] != 5 {
		t.Fatalf("collapsed domain ticks=%v", got)
	}
	if got := (Scale{Domain: [2]float64{0, 1}}).Ticks(0); got != nil {
		t.Fatalf("n=0 ticks=%v", got)
	}
}

func TestFormatTickAndValue(t *testing.T) {
	cases := map[float64]string{
		40000:  "40000",
		20:     "20",
		12.5:   "12.5",
		1.25:   "1.25",
		0.125:  "0.125",
		0.0012: "0.0012",
	}
	for v, want := range cases {
		if got := FormatTick(v); got != want {
			t.Fatalf("FormatTick(%v)=%q want %q", v, got, want)
		}
	}
	if got := FormatValue(42533); got != "42533" {
		t.Fatalf("FormatValue=%q", got)
	}
	if got := FormatValue(18.2); got != "18.2" {
		t.Fatalf("FormatValue=%q", got)
	}
}

func TestScaleInterpolate(t *testing.T) {
	a := Scale{Domain: [2]float64{0, 10}, Range: [2]float64{0, 100}}
	b := Scale{Domain: [2]float64{10, 30}, Range: [2]float64{0, 100}}
	if got := a.Interpolate(b, 0); got != a {
		t.Fatalf("t=0 => %v", got)
	}
	if got := a.Interpolate(b, 1); got != b {
		t.Fatalf("t=1 => %v", got)
	}
	if got := a.Interpolate(b, 0.5); got.Domain != [2]float64{5, 20} {
		t.Fatalf("t=0.5 => %v", got)
	}
}
