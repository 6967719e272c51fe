package slots

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xaenox/shopbot/internal/models"
	"github.com/xaenox/shopbot/internal/rules"
)

// Budget patterns, tried in order: an upper bound, a lower bound, then a
// range. Only the first pattern that matches is used. Numbers may carry
// thousands commas and a trailing "k" multiplier.
var (
	maxPattern = regexp.MustCompile(`(?i)(?:under|below|less than|within|max(?:imum)?(?: of)?|up ?to|budget(?: of| is)?)\s*(?:rs\.?|inr|₹|\$)?\s*([\d,]+(?:\.\d+)?)(k)?\b`)
	minPattern = regexp.MustCompile(`(?i)(?:above|over|more than|min(?:imum)?(?: of)?|at least|starting(?: at| from)?)\s*(?:rs\.?|inr|₹|\$)?\s*([\d,]+(?:\.\d+)?)(k)?\b`)

	rangeWordPattern = regexp.MustCompile(`(?i)(?:between|from)\s*(?:rs\.?|inr|₹|\$)?\s*([\d,]+(?:\.\d+)?)(k)?\b\s*(?:to|and)\s*(?:rs\.?|inr|₹|\$)?\s*([\d,]+(?:\.\d+)?)(k)?\b`)
	rangeDashPattern = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)(k)?\b\s*-\s*([\d,]+(?:\.\d+)?)(k)?\b`)
)

// Extract runs all four slot extractors on the utterance. Each extractor is
// independent; a miss leaves that slot absent rather than erroring.
func Extract(utterance string) models.Slots {
	return models.Slots{
		Category: Category(utterance),
		Budget:   Budget(utterance),
		Keywords: Keywords(utterance),
		Brand:    Brand(utterance),
	}
}

// Category returns the canonical category of the longest phrase found as a
// substring of the utterance, or "" when none matches. Longest-first order
// resolves overlapping phrases ("gaming chair" beats "chair").
func Category(utterance string) string {
	lowered := strings.ToLower(utterance)
	for _, phrase := range rules.CategoryPhrasesLongestFirst() {
		if strings.Contains(lowered, phrase) {
			return rules.CategoryPhrases[phrase]
		}
	}
	return ""
}

// Budget parses a price constraint from the utterance, or nil when none is
// present. In a range, min and max come from left-to-right match order, not
// numeric comparison.
func Budget(utterance string) *models.Budget {
	if m := maxPattern.FindStringSubmatch(utterance); m != nil {
		v := parseAmount(m[1], m[2])
		return &models.Budget{Max: &v}
	}
	if m := minPattern.FindStringSubmatch(utterance); m != nil {
		v := parseAmount(m[1], m[2])
		return &models.Budget{Min: &v}
	}
	if m := rangeWordPattern.FindStringSubmatch(utterance); m != nil {
		lo := parseAmount(m[1], m[2])
		hi := parseAmount(m[3], m[4])
		return &models.Budget{Min: &lo, Max: &hi}
	}
	if m := rangeDashPattern.FindStringSubmatch(utterance); m != nil {
		lo := parseAmount(m[1], m[2])
		hi := parseAmount(m[3], m[4])
		return &models.Budget{Min: &lo, Max: &hi}
	}
	return nil
}

// Keywords returns every feature-keyword group with at least one literal
// substring present in the utterance, sorted for deterministic output.
func Keywords(utterance string) []string {
	lowered := strings.ToLower(utterance)
	var groups []string
	for group, literals := range rules.KeywordGroups {
		for _, lit := range literals {
			if strings.Contains(lowered, lit) {
				groups = append(groups, group)
				break
			}
		}
	}
	sort.Strings(groups)
	return groups
}

// Brand returns the first brand from the fixed list found in the utterance,
// or "" when none matches.
func Brand(utterance string) string {
	lowered := strings.ToLower(utterance)
	for _, brand := range rules.Brands {
		if strings.Contains(lowered, brand) {
			return brand
		}
	}
	return ""
}

func parseAmount(number, suffix string) float64 {
	number = strings.ReplaceAll(number, ",", "")
	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0
	}
	if strings.EqualFold(suffix, "k") {
		v *= 1000
	}
	return v
}
