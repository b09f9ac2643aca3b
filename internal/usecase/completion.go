package usecase

import (
	"math"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
)

// \d, \s and \b are Unicode-aware in regexp2, so full-width digits and
// ideographic spaces count.
//
// Checked in order; the first pattern that matches decides the count, even
// when a later pattern occurs earlier in the text.
var countPatterns = []*regexp2.Regexp{
	regexp2.MustCompile(`(\d+)\s*courses?`, regexp2.None),
	regexp2.MustCompile(`(\d+)\s*appetizers?`, regexp2.None),
	regexp2.MustCompile(`(\d+)\s*recipes?`, regexp2.None),
	regexp2.MustCompile(`(\d+)\s*dishes?`, regexp2.None),
	regexp2.MustCompile(`(\d+)\s*items?`, regexp2.None),
	regexp2.MustCompile(`(\d+)\s*cocktails?`, regexp2.None),
	regexp2.MustCompile(`(\d+)\s*desserts?`, regexp2.None),
}

var (
	numberedItemPattern = regexp2.MustCompile(`\b\d+\.\s`, regexp2.None)
	// Loose on purpose: a line starting with a capital and containing no
	// period. Matches share newlines, so back-to-back headers count once per pair.
	headerItemPattern = regexp2.MustCompile(`\n[A-Z][^.\n]*(?:\n|$)`, regexp2.None)
)

const (
	defaultTokenBudget = 1000
	mediumTokenBudget  = 1500
	largeTokenBudget   = 2500
)

// ExtractExpectedCount returns the number of items the prompt asks for, or nil.
func ExtractExpectedCount(prompt string) *int {
	lowered := strings.ToLower(prompt)
	for _, p := range countPatterns {
		m, err := p.FindStringMatch(lowered)
		if err != nil || m == nil {
			continue
		}
		n := parseDigits(m.GroupByNumber(1).String())
		return &n
	}
	return nil
}

// TokenBudget is a step function of the expected count.
func TokenBudget(expected *int) int {
	budget := defaultTokenBudget
	if expected != nil && *expected > 3 {
		budget = mediumTokenBudget
	}
	if expected != nil && *expected >= 5 {
		budget = largeTokenBudget
	}
	return budget
}

func CountNumberedItems(text string) int {
	return countMatches(numberedItemPattern, text)
}

func CountHeaderItems(text string) int {
	return countMatches(headerItemPattern, text)
}

func countMatches(re *regexp2.Regexp, text string) int {
	n := 0
	m, err := re.FindStringMatch(text)
	for err == nil && m != nil {
		n++
		m, err = re.FindNextMatch(m)
	}
	return n
}

// parseDigits converts a run of decimal digits from any script. Values past
// math.MaxInt saturate.
func parseDigits(s string) int {
	n := 0
	for _, r := range s {
		d := digitValue(r)
		if n > (math.MaxInt-d)/10 {
			return math.MaxInt
		}
		n = n*10 + d
	}
	return n
}

// digitValue relies on every Nd script encoding 0 through 9 as a contiguous run.
func digitValue(r rune) int {
	if r >= '0' && r <= '9' {
		return int(r - '0')
	}
	for _, rg := range unicode.Nd.R16 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return int((r-lo)/rune(rg.Stride)) % 10
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return int((r-lo)/rune(rg.Stride)) % 10
		}
	}
	return 0
}

// CountItems takes the larger of the two structural signals.
func CountItems(text string) int {
	return max(CountNumberedItems(text), CountHeaderItems(text))
}

func ValidateCompleteness(text string, expected *int) bool {
	if expected == nil {
		return true
	}
	return CountItems(text) >= *expected
}
