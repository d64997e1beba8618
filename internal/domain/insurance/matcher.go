package insurance

import (
	"sort"
	"strings"
	"unicode"
)

// MatchCandidate is a patient record offered to the matcher
type MatchCandidate struct {
	PatientID string
	FullName  string
	TCKN      string
}

// MatchResult is a scored candidate
type MatchResult struct {
	PatientID string
	Score     float64
}

const (
	// MatchThreshold is the minimum score for an automatic match
	MatchThreshold = 0.6

	tcknWeight = 0.6
	nameWeight = 0.4
)

// Matcher scores e-receipt text against known patient records.
// TCKN agreement dominates the score; name similarity is a token-overlap
// measure over Turkish-normalized text.
type Matcher struct {
	threshold float64
}

// NewMatcher creates a matcher with the default threshold
func NewMatcher() *Matcher {
	return &Matcher{threshold: MatchThreshold}
}

// NewMatcherWithThreshold creates a matcher with a custom threshold
func NewMatcherWithThreshold(threshold float64) *Matcher {
	return &Matcher{threshold: threshold}
}

// Rank scores all candidates against the receipt, best first
func (m *Matcher) Rank(receipt *EReceipt, candidates []MatchCandidate) []MatchResult {
	results := make([]MatchResult, 0, len(candidates))
	for _, c := range candidates {
		score := m.score(receipt, c)
		if score > 0 {
			results = append(results, MatchResult{PatientID: c.PatientID, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Best returns the top candidate if it clears the threshold
func (m *Matcher) Best(receipt *EReceipt, candidates []MatchCandidate) (MatchResult, bool) {
	ranked := m.Rank(receipt, candidates)
	if len(ranked) == 0 || ranked[0].Score < m.threshold {
		return MatchResult{}, false
	}
	return ranked[0], true
}

func (m *Matcher) score(receipt *EReceipt, c MatchCandidate) float64 {
	var score float64

	if receipt.TCKNText != "" && c.TCKN != "" {
		if receipt.TCKNText == c.TCKN {
			score += tcknWeight
		} else if maskedMatch(receipt.TCKNText, c.TCKN) {
			// OCR output often masks middle digits (123*****901)
			score += tcknWeight / 2
		}
	}

	score += nameWeight * tokenOverlap(NormalizeTurkish(receipt.PatientText), NormalizeTurkish(c.FullName))
	return score
}

// maskedMatch compares a possibly star-masked TCKN against a full one
func maskedMatch(masked, full string) bool {
	if len(masked) != len(full) {
		return false
	}
	seen := false
	for i := range masked {
		if masked[i] == '*' {
			seen = true
			continue
		}
		if masked[i] != full[i] {
			return false
		}
	}
	return seen
}

// tokenOverlap is the Jaccard-style overlap of name tokens in [0,1]
func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}
	common := 0
	for _, t := range tb {
		if set[t] {
			common++
			delete(set, t)
		}
	}

	union := len(ta) + len(tb) - common
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

// NormalizeTurkish lowercases text and folds Turkish-specific letters to
// their ASCII neighbors so that OCR variants compare equal
// ("ÇAĞLA ÖZGÜR" and "cagla ozgur" normalize to the same string).
func NormalizeTurkish(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case 'İ', 'I', 'ı', 'i':
			b.WriteRune('i')
		case 'Ç', 'ç':
			b.WriteRune('c')
		case 'Ğ', 'ğ':
			b.WriteRune('g')
		case 'Ö', 'ö':
			b.WriteRune('o')
		case 'Ş', 'ş':
			b.WriteRune('s')
		case 'Ü', 'ü':
			b.WriteRune('u')
		default:
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToLower(r))
			} else if unicode.IsSpace(r) {
				b.WriteRune(' ')
			}
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
