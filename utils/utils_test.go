package utils

import (
	"math"
	"testing"
	"time"

	"bakery/models"
)

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" Units_Sold ", "units sold"},
		{"Sale-Date", "sale date"},
		{"  Total   Sales ", "total sales"},
		{"COGS", "cogs"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeHeader(c.in); got != c.want {
			t.Fatalf("NormalizeHeader(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestIsNullCell(t *testing.T) {
	for _, cell := range []string{"", "  ", "NA", "n/a", "NaN", "null", "None", "NaT", "-"} {
		if !IsNullCell(cell) {
			t.Fatalf("expected %q to be null", cell)
		}
	}
	for _, cell := range []string{"0", "Bread", "--"} {
		if IsNullCell(cell) {
			t.Fatalf("expected %q not to be null", cell)
		}
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12", 12, true},
		{" 7 ", 7, true},
		{"$1,234.50", 1234.5, true},
		{"1,234", 1234, true},
		{"3,5", 3.5, true},
		{"(42)", -42, true},
		{"-3", -3, true},
		{"€ 9.99", 9.99, true},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if ok != c.ok || math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("ParseNumber(%q) = (%v, %v); want (%v, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestInferDateLayout(t *testing.T) {
	cases := []struct {
		in     string
		layout string
		ok     bool
	}{
		{"2024-03-05", "2006-01-02", true},
		{"2024-03-05 08:15:00", "2006-01-02 15:04:05", true},
		{"03/05/2024", "01/02/2006", true},
		{"Mar 5, 2024", "", false},
		{"garbage", "", false},
	}
	for _, c := range cases {
		layout, ok := InferDateLayout(c.in)
		if layout != c.layout || ok != c.ok {
			t.Fatalf("InferDateLayout(%q) = (%q, %v); want (%q, %v)", c.in, layout, ok, c.layout, c.ok)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	if got, ok := ParseDateWithLayout("2006-01-02", "2024-03-05"); !ok || !got.Equal(want) {
		t.Fatalf("ParseDateWithLayout = (%v, %v)", got, ok)
	}
	if _, ok := ParseDateWithLayout("2006-01-02", "2024-13-01"); ok {
		t.Fatalf("expected month 13 to fail")
	}

	for _, in := range []string{"Mar 5, 2024", "5.3.2024", "2024-03-05T10:30:00Z", "2024-03-05T23:30:00-05:00", "20240305", "3/5/2024"} {
		got, ok := ParseDateLenient(in)
		if !ok || !got.Equal(want) {
			t.Fatalf("ParseDateLenient(%q) = (%v, %v); want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseDateLenient("soon"); ok {
		t.Fatalf("expected %q to fail", "soon")
	}
}

func TestValidateAndNormalizeSeasonalityMode(t *testing.T) {
	cases := []struct {
		in   string
		want models.SeasonalityMode
		ok   bool
	}{
		{"additive", models.SeasonalityAdditive, true},
		{"Multiplicative ", models.SeasonalityMultiplicative, true},
		{"", models.SeasonalityAdditive, true},
		{"log", models.SeasonalityMode("log"), false},
	}
	for _, c := range cases {
		got, ok := ValidateAndNormalizeSeasonalityMode(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ValidateAndNormalizeSeasonalityMode(%q) = (%q, %v); want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestStats(t *testing.T) {
	if Mean(nil) != 0 {
		t.Fatalf("expected mean of empty slice to be 0")
	}
	if got := Mean([]float64{1, 2, 3}); got != 2 {
		t.Fatalf("Mean = %v; want 2", got)
	}
	if SampleStdDev([]float64{5}) != 0 {
		t.Fatalf("expected std of one value to be 0")
	}
	if got := SampleStdDev([]float64{1, 2, 3, 4}); math.Abs(got-1.2909944) > 1e-6 {
		t.Fatalf("SampleStdDev = %v; want 1.2909944", got)
	}
}

func TestPagination(t *testing.T) {
	cases := []struct {
		total, page, size  int
		wantPages          int
		wantStart, wantEnd int
	}{
		{56, 3, 20, 3, 40, 56},
		{56, 1, 20, 3, 0, 20},
		{56, 5, 20, 3, 56, 56},
		{56, 0, 0, 2, 0, 50},
		{0, 1, 10, 0, 0, 0},
		{10, 184467440737095518, 50, 1, 10, 10},
		{10, 1, math.MaxInt, 1, 0, 10},
	}
	for _, c := range cases {
		p := CreatePagination(c.total, c.page, c.size)
		start, end := p.Bounds()
		if p.TotalPages != c.wantPages || start != c.wantStart || end != c.wantEnd {
			t.Fatalf("CreatePagination(%d, %d, %d) = pages %d [%d, %d); want pages %d [%d, %d)",
				c.total, c.page, c.size, p.TotalPages, start, end, c.wantPages, c.wantStart, c.wantEnd)
		}
	}
}
