package models

import "time"

// Intent is the coarse classification of what a user utterance is asking for.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentThanks         Intent = "thanks"
	IntentHelp           Intent = "help"
	IntentCart           Intent = "cart"
	IntentCheapest       Intent = "cheapest"
	IntentExpensive      Intent = "expensive"
	IntentBestRated      Intent = "best_rated"
	IntentCompare        Intent = "compare"
	IntentRecommendation Intent = "recommendation"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is a single entry in the conversation history. Messages are
// append-only: once created they are never mutated in place.
type Message struct {
	ID           string        `json:"id"`
	Role         Role          `json:"role"`
	Text         string        `json:"text"`
	Items        []CatalogItem `json:"items,omitempty"`
	TotalMatched int           `json:"total_matched,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Budget is a price range extracted from an utterance. A nil bound means
// that side is unconstrained.
type Budget struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Slots holds the structured filters extracted from one utterance.
// Zero values mean the slot was absent; slots never carry over between turns.
type Slots struct {
	Category string   `json:"category,omitempty"`
	Budget   *Budget  `json:"budget,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Brand    string   `json:"brand,omitempty"`
}

// Empty reports whether no slot at all was extracted.
func (s Slots) Empty() bool {
	return s.Category == "" && s.Budget == nil && len(s.Keywords) == 0 && s.Brand == ""
}

// Specification is one label/value pair on a catalog item.
type Specification struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CatalogItem is a product from the external catalog. The engine treats it
// as read-only; category values are expected to come from the same canonical
// set the rule tables produce.
type CatalogItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Price          float64         `json:"price"`
	Brand          string          `json:"brand"`
	Rating         float64         `json:"rating"`
	Description    string          `json:"description"`
	Features       []string        `json:"features,omitempty"`
	Specifications []Specification `json:"specifications,omitempty"`
}

// Reply is the composed answer for one utterance: text, the items to show
// (at most a handful) and the true match count so a host can render
// "showing N of M".
type Reply struct {
	Text         string        `json:"text"`
	Items        []CatalogItem `json:"items,omitempty"`
	TotalMatched int           `json:"total_matched"`
}
