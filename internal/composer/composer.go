package composer

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/xaenox/shopbot/internal/models"
)

// MaxItemsShown caps how many items a reply attaches; TotalMatched keeps the
// true count so a host can render "showing N of M".
const MaxItemsShown = 4

var greetingPool = []string{
	"Hi there! Looking for something? Tell me a category, budget or brand and I'll dig it up.",
	"Hello! I can help you find products - try something like \"wireless mouse under 2k\".",
	"Hey! Ask me for any product and I'll pull up the best matches from our catalog.",
}

var thanksPool = []string{
	"You're welcome! Anything else I can find for you?",
	"Happy to help! Just ask if you need more suggestions.",
	"Anytime! Let me know if something else catches your eye.",
}

const helpText = "I can search the catalog for you. Mention a category (keyboards, monitors...), " +
	"a budget (\"under 15k\", \"between 5000 and 10000\"), features (wireless, RGB, 4k) or a brand, " +
	"in any combination. You can also ask for the cheapest, priciest or best rated options."

const cartText = "Use the cart button on any product I show you and I'll add it right away. " +
	"Your cart lives in the shop itself - open it from the top bar to review or check out."

const notUnderstoodText = "Sorry, I didn't catch that. Try naming a product category, a brand " +
	"or a budget - for example \"gaming keyboards under 5k\"."

// Composer turns a classified, slot-filled turn into a reply. The random
// source only picks from the canned pools, so tests can pin it.
type Composer struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Composer {
	return &Composer{rng: rng}
}

// Compose builds the reply for one turn. ranked holds the slot-filtered
// results; loose holds fallback results and is only consulted when no slot
// was extracted.
func (c *Composer) Compose(intent models.Intent, s models.Slots, ranked, loose []models.CatalogItem) models.Reply {
	switch intent {
	case models.IntentGreeting:
		return models.Reply{Text: c.pick(greetingPool)}
	case models.IntentThanks:
		return models.Reply{Text: c.pick(thanksPool)}
	case models.IntentHelp:
		return models.Reply{Text: helpText}
	case models.IntentCart:
		return models.Reply{Text: cartText}
	}

	if s.Empty() {
		if len(loose) == 0 {
			return models.Reply{Text: notUnderstoodText}
		}
		return models.Reply{
			Text:         "Here's what I found for you:",
			Items:        top(loose),
			TotalMatched: len(loose),
		}
	}

	if len(ranked) == 0 {
		return models.Reply{Text: apology(s)}
	}

	return models.Reply{
		Text:         leadIn(intent, s),
		Items:        top(ranked),
		TotalMatched: len(ranked),
	}
}

func (c *Composer) pick(pool []string) string {
	return pool[c.rng.Intn(len(pool))]
}

func top(items []models.CatalogItem) []models.CatalogItem {
	if len(items) > MaxItemsShown {
		items = items[:MaxItemsShown]
	}
	out := make([]models.CatalogItem, len(items))
	copy(out, items)
	return out
}

func leadIn(intent models.Intent, s models.Slots) string {
	label := "options"
	if s.Category != "" {
		label = s.Category + " options"
	}
	switch intent {
	case models.IntentCheapest:
		return fmt.Sprintf("Here are the cheapest %s, lowest price first:", label)
	case models.IntentExpensive:
		return fmt.Sprintf("Going premium! The priciest %s first:", label)
	case models.IntentBestRated:
		return fmt.Sprintf("The best rated %s our shoppers love:", label)
	}
	if s.Brand != "" {
		return fmt.Sprintf("Here's what %s has in store:", titleCase(s.Brand))
	}
	if s.Budget != nil {
		return fmt.Sprintf("These %s fit your budget:", label)
	}
	return fmt.Sprintf("Here are some %s I'd recommend:", label)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func apology(s models.Slots) string {
	var b strings.Builder
	b.WriteString("Sorry, I couldn't find any")
	if s.Category != "" {
		b.WriteString(" " + s.Category)
	}
	b.WriteString(" products")
	if s.Budget != nil {
		if s.Budget.Max != nil && s.Budget.Min != nil {
			b.WriteString(fmt.Sprintf(" between ₹%.0f and ₹%.0f", *s.Budget.Min, *s.Budget.Max))
		} else if s.Budget.Max != nil {
			b.WriteString(fmt.Sprintf(" under ₹%.0f", *s.Budget.Max))
		} else if s.Budget.Min != nil {
			b.WriteString(fmt.Sprintf(" above ₹%.0f", *s.Budget.Min))
		}
	}
	b.WriteString(". Maybe loosen the budget or try another category?")
	return b.String()
}
