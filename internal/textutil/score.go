package textutil

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

const (
	partialThreshold  = 1.5
	partialScale      = 0.9
	partialScaleLarge = 0.6
	largeLengthRatio  = 8.0
	tokenScale        = 0.95
	ocrScale          = 0.95
)

// Scorer compares two strings and returns a similarity in [0, 100].
// Implementations must be symmetric and safe for concurrent use.
type Scorer interface {
	Score(a, b string) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(a, b string) float64

// Score implements Scorer.
func (f ScorerFunc) Score(a, b string) float64 { return f(a, b) }

// WeightedRatio is the default Scorer.
type WeightedRatio struct {
	// DisableOCR turns off the confusable-character pass.
	DisableOCR bool
}

// Default is the scorer used when callers do not supply one.
var Default Scorer = WeightedRatio{}

// Score returns the weighted similarity of a and b rounded to two decimals.
func (w WeightedRatio) Score(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	score := weighted(a, b)
	if !w.DisableOCR {
		fa, fb := ocrFold(a), ocrFold(b)
		if fa != a || fb != b {
			score = math.Max(score, weighted(fa, fb)*ocrScale)
		}
	}
	return round2(score)
}

// Score compares a and b with the default scorer.
func Score(a, b string) float64 {
	return Default.Score(a, b)
}

// Normalize case folds s and collapses runs of whitespace to one space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

func weighted(a, b string) float64 {
	lenA, lenB := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	shorter, longer := min(lenA, lenB), max(lenA, lenB)
	lengthRatio := float64(longer) / float64(shorter)

	best := Ratio(a, b)
	if lengthRatio < partialThreshold {
		best = math.Max(best, TokenSortRatio(a, b)*tokenScale)
		best = math.Max(best, TokenSetRatio(a, b)*tokenScale)
		return best
	}

	scale := partialScale
	if lengthRatio >= largeLengthRatio {
		scale = partialScaleLarge
	}
	best = math.Max(best, PartialRatio(a, b)*scale)
	best = math.Max(best, PartialRatio(sortTokens(a), sortTokens(b))*tokenScale*scale)
	return best
}

// Ratio is the normalized edit-distance similarity of a and b.
func Ratio(a, b string) float64 {
	longer := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longer == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * float64(longer-dist) / float64(longer)
}

// PartialRatio is the best Ratio of the shorter string against every
// equally long window of the longer one.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}
	short := string(ra)
	best := 0.0
	for start := 0; start+len(ra) <= len(rb); start++ {
		score := Ratio(short, string(rb[start:start+len(ra)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares a and b after sorting their words.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// TokenSetRatio compares the shared words of a and b against each side's
// remainder. One word set being a subset of the other scores 100.
func TokenSetRatio(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	var common, onlyA, onlyB []string
	for token := range setA {
		if _, ok := setB[token]; ok {
			common = append(common, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for token := range setB {
		if _, ok := setA[token]; !ok {
			onlyB = append(onlyB, token)
		}
	}
	slices.Sort(common)
	slices.Sort(onlyA)
	slices.Sort(onlyB)

	sect := strings.Join(common, " ")
	withA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))
	if sect != "" && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}
	return max(Ratio(sect, withA), Ratio(sect, withB), Ratio(withA, withB))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	slices.Sort(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	tokens := strings.Fields(s)
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// ocrFold maps letters that scanners misread as digits onto those digits.
// Input is already case folded.
func ocrFold(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'o', 'q':
			return '0'
		case 'i', 'l', '|':
			return '1'
		case 'z':
			return '2'
		case 's':
			return '5'
		case 'g':
			return '6'
		case 't':
			return '7'
		case 'b':
			return '8'
		}
		return r
	}, s)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
