package hvac

import (
	"errors"
	"math"
	"testing"
)

func TestVolume(t *testing.T) {
	cases := []struct {
		area, height, want float64
	}{
		{14, 3, 42},
		{12.345, 2.7, 33.33},
		{0, 3, 0},
	}
	for _, c := range cases {
		got := Volume(c.area, c.height)
		if got != c.want {
			t.Errorf("Volume(%v, %v) = %v, want %v", c.area, c.height, got, c.want)
		}
		if again := Volume(c.area, c.height); again != got {
			t.Errorf("Volume(%v, %v) not stable: %v then %v", c.area, c.height, got, again)
		}
	}
}

func TestDebit(t *testing.T) {
	if got := Debit(0.45, 610, 610); got != 602.8 {
		t.Fatalf("Debit(0.45, 610, 610) = %v, want 602.8", got)
	}
	if got := Debit(0, 610, 610); got != 0 {
		t.Fatalf("Debit with zero velocity = %v, want 0", got)
	}
}

func TestAirChangeRate(t *testing.T) {
	got, err := AirChangeRate(1000, 42)
	if err != nil {
		t.Fatalf("AirChangeRate() error = %v", err)
	}
	if got != 23.81 {
		t.Fatalf("AirChangeRate(1000, 42) = %v, want 23.81", got)
	}

	for _, tc := range []struct {
		name          string
		debit, volume float64
	}{
		{"zero volume", 1000, 0},
		{"nan debit", math.NaN(), 42},
		{"inf volume", 1000, math.Inf(1)},
		{"overflowing quotient", 1e300, 1e-10},
	} {
		got, err := AirChangeRate(tc.debit, tc.volume)
		if !errors.Is(err, ErrArithmetic) {
			t.Errorf("%s: error = %v, want ErrArithmetic", tc.name, err)
		}
		if got != 0 {
			t.Errorf("%s: value = %v, want 0", tc.name, got)
		}
	}
}

func TestSamplePointCount(t *testing.T) {
	cases := map[float64]int{
		0:   4,
		1:   4,
		1.6: 4,
		14:  12,
		50:  22,
	}
	for area, want := range cases {
		if got := SamplePointCount(area); got != want {
			t.Errorf("SamplePointCount(%v) = %d, want %d", area, got, want)
		}
	}
}

func TestISOClassForBoundaries(t *testing.T) {
	cases := []struct {
		avg  float64
		want ISOClass
	}{
		{0, ISO7},
		{3520, ISO7},
		{3521, ISO8},
		{35200, ISO8},
		{35201, ISO9},
		{352000, ISO9},
		{352001, ISO9Plus},
	}
	for _, c := range cases {
		if got := ISOClassFor(c.avg); got != c.want {
			t.Errorf("ISOClassFor(%v) = %q, want %q", c.avg, got, c.want)
		}
	}
}

func TestISOClassForMonotonic(t *testing.T) {
	prev := ISOClassFor(0).Rank()
	for a := 0.0; a < 500000; a += 997 {
		r := ISOClassFor(a).Rank()
		if r < prev {
			t.Fatalf("class rank dropped at %v: %d < %d", a, r, prev)
		}
		prev = r
	}
}

func TestMean(t *testing.T) {
	if got := Mean(Samples{1000, 2000, 3000, 4000}); got != 2500 {
		t.Fatalf("Mean() = %v, want 2500", got)
	}
	if got := Mean(Samples{}); got != 0 {
		t.Fatalf("Mean(zero) = %v, want 0", got)
	}
}

func TestCalculatorsStayFiniteAtExtremes(t *testing.T) {
	if got := round2(1e300); got != 1e300 {
		t.Errorf("round2(1e300) = %v", got)
	}
	if got := Mean(Samples{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}); got != math.MaxFloat64 {
		t.Errorf("Mean of MaxFloat64 samples = %v", got)
	}
	if got := Volume(1e200, 1e200); !math.IsInf(got, 1) {
		t.Errorf("Volume(1e200, 1e200) = %v, want +Inf for callers to reject", got)
	}
}
