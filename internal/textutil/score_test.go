package textutil_test

import (
	"math"
	"testing"

	"hermes/internal/textutil"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "H7001234567", "H7001234567", 100},
		{"case insensitive", "maria", "MARIA", 100},
		{"empty side", "", "abc", 0},
		{"whitespace only", "   ", "abc", 0},
		{"ocr confusion", "H7OO1234567", "H7001234567", 95},
		{"reordered words", "Maria Schmidt", "Schmidt Maria", 95},
		{"three substitutions of twenty", "12345678901234567890", "12345678901234560000", 85},
		{"substring", "Z1", "A1 Z1", 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := textutil.Score(tt.a, tt.b)
			if !approx(got, tt.want) {
				t.Fatalf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestScoreIsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"H7OO1234567", "H7001234567"},
		{"Z1", "B1 Z2"},
		{"Doe, Jane", "Jane Doe"},
		{"0034567", "12340034567"},
	}
	for _, pair := range pairs {
		ab := textutil.Score(pair[0], pair[1])
		ba := textutil.Score(pair[1], pair[0])
		if ab != ba {
			t.Fatalf("Score not symmetric for %q/%q: %v vs %v", pair[0], pair[1], ab, ba)
		}
		if ab < 0 || ab > 100 {
			t.Fatalf("Score out of range: %v", ab)
		}
	}
}

func TestScoreUnrelatedZoneStaysLow(t *testing.T) {
	if got := textutil.Score("Z1", "B1 Z2"); got >= 70 {
		t.Fatalf("expected low score, got %v", got)
	}
}

func TestWeightedRatioWithoutOCR(t *testing.T) {
	got := textutil.WeightedRatio{DisableOCR: true}.Score("H7OO1234567", "H7001234567")
	if !approx(got, 81.82) {
		t.Fatalf("unexpected score without OCR pass: %v", got)
	}
}

func TestRatioFamilies(t *testing.T) {
	if got := textutil.Ratio("kitten", "sitting"); !approx(got, 57.142857) {
		t.Fatalf("Ratio = %v", got)
	}
	if got := textutil.PartialRatio("z1", "a1 z1"); got != 100 {
		t.Fatalf("PartialRatio = %v", got)
	}
	if got := textutil.TokenSortRatio("jane doe", "doe jane"); got != 100 {
		t.Fatalf("TokenSortRatio = %v", got)
	}
	if got := textutil.TokenSetRatio("doe jane", "jane"); got != 100 {
		t.Fatalf("TokenSetRatio subset = %v", got)
	}
	if got := textutil.Ratio("", ""); got != 0 {
		t.Fatalf("Ratio of empties = %v", got)
	}
}

func TestScorerFunc(t *testing.T) {
	var s textutil.Scorer = textutil.ScorerFunc(func(a, b string) float64 { return 42 })
	if s.Score("x", "y") != 42 {
		t.Fatal("ScorerFunc did not delegate")
	}
}
