package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryPhrasesLongestFirst(t *testing.T) {
	phrases := CategoryPhrasesLongestFirst()
	require.Len(t, phrases, len(CategoryPhrases))

	for i := 1; i < len(phrases); i++ {
		assert.GreaterOrEqual(t, len(phrases[i-1]), len(phrases[i]),
			"phrase order must be non-increasing length: %q before %q", phrases[i-1], phrases[i])
	}
}

func TestTablesAreLowercase(t *testing.T) {
	for phrase := range CategoryPhrases {
		assert.Equal(t, strings.ToLower(phrase), phrase)
	}
	for group, literals := range KeywordGroups {
		assert.Equal(t, strings.ToLower(group), group)
		for _, lit := range literals {
			assert.Equal(t, strings.ToLower(lit), lit)
		}
	}
	for _, brand := range Brands {
		assert.Equal(t, strings.ToLower(brand), brand)
	}
}

func TestIntentRulesHavePatterns(t *testing.T) {
	require.NotEmpty(t, IntentRules)
	for _, rule := range IntentRules {
		assert.NotEmpty(t, rule.Patterns, "intent %s has no patterns", rule.Intent)
	}
}
