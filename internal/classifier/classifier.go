package classifier

import (
	"github.com/xaenox/shopbot/internal/models"
	"github.com/xaenox/shopbot/internal/rules"
)

type Classifier interface {
	Classify(utterance string) models.Intent
}

// RuleClassifier resolves an utterance to an intent by trying each intent's
// pattern list in priority order and returning the first hit. Unmatched text
// falls back to recommendation so product-seeking phrasing the tables don't
// know still attempts retrieval.
type RuleClassifier struct {
	rules []rules.IntentRule
}

func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{rules: rules.IntentRules}
}

func (c *RuleClassifier) Classify(utterance string) models.Intent {
	for _, rule := range c.rules {
		for _, pattern := range rule.Patterns {
			if pattern.MatchString(utterance) {
				return rule.Intent
			}
		}
	}
	return models.IntentRecommendation
}
