package rules

import (
	"regexp"
	"sort"

	"github.com/xaenox/shopbot/internal/models"
)

// CategoryPhrases maps lowercase phrases (including synonyms and multi-word
// forms) to the canonical category name used by the catalog. No two canonical
// categories share a phrase.
var CategoryPhrases = map[string]string{
	"gaming chair":   "Gaming Chair",
	"gaming chairs":  "Gaming Chair",
	"chair":          "Gaming Chair",
	"keyboard":       "Keyboard",
	"keyboards":      "Keyboard",
	"keeb":           "Keyboard",
	"mouse":          "Mouse",
	"mice":           "Mouse",
	"monitor":        "Monitor",
	"monitors":       "Monitor",
	"screen":         "Monitor",
	"display":        "Monitor",
	"headphone":      "Headphones",
	"headphones":     "Headphones",
	"headset":        "Headphones",
	"earphones":      "Headphones",
	"laptop":         "Laptop",
	"laptops":        "Laptop",
	"notebook":       "Laptop",
	"webcam":         "Webcam",
	"camera":         "Webcam",
	"speaker":        "Speaker",
	"speakers":       "Speaker",
	"microphone":     "Microphone",
	"mic":            "Microphone",
	"mouse pad":      "Mousepad",
	"mousepad":       "Mousepad",
	"desk mat":       "Mousepad",
}

// KeywordGroups maps a feature-group name to the literal lowercase substrings
// that indicate it. Matching is substring-based on purpose, to tolerate
// free-form input.
var KeywordGroups = map[string][]string{
	"wireless":   {"wireless", "cordless", "wifi", "bluetooth"},
	"rgb":        {"rgb", "backlit", "backlight", "led light"},
	"mechanical": {"mechanical", "clicky", "tactile"},
	"4k":         {"4k", "uhd", "ultra hd", "2160p"},
	"ergonomic":  {"ergonomic", "comfortable", "lumbar"},
	"noise":      {"noise cancel", "anc", "noise-cancel"},
	"portable":   {"portable", "lightweight", "compact", "travel"},
	"gaming":     {"gaming", "gamer", "esports", "fps"},
}

// Brands is the fixed list of canonical lowercase brand names, checked in
// this order.
var Brands = []string{
	"corsair",
	"logitech",
	"razer",
	"steelseries",
	"hyperx",
	"keychron",
	"asus",
	"benq",
	"dell",
	"sony",
	"samsung",
	"secretlab",
}

// IntentRule pairs an intent with its match patterns. Rules are evaluated in
// slice order and the first rule with any matching pattern wins.
type IntentRule struct {
	Intent   models.Intent
	Patterns []*regexp.Regexp
}

// IntentRules holds every classifiable intent in priority order: social
// intents first, then semantic ones. recommendation matches its own
// patterns here and additionally serves as the classifier's no-match
// fallback.
var IntentRules = []IntentRule{
	{
		Intent: models.IntentGreeting,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(hi|hii+|hello|hey|howdy|yo)\b`),
			regexp.MustCompile(`(?i)\bgood (morning|afternoon|evening)\b`),
		},
	},
	{
		Intent: models.IntentThanks,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(thanks|thank you|thankyou|thx|ty)\b`),
			regexp.MustCompile(`(?i)\bappreciate\b`),
		},
	},
	{
		Intent: models.IntentHelp,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bhelp\b`),
			regexp.MustCompile(`(?i)\bwhat can you do\b`),
			regexp.MustCompile(`(?i)\bhow (do|does) (this|it) work\b`),
		},
	},
	{
		Intent: models.IntentCart,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(my|view|show|open) cart\b`),
			regexp.MustCompile(`(?i)\bcheckout\b`),
			regexp.MustCompile(`(?i)\bwhat('?s| is) in (my|the) cart\b`),
		},
	},
	{
		Intent: models.IntentCheapest,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bcheapest\b`),
			regexp.MustCompile(`(?i)\b(lowest|least) (price|priced|expensive)\b`),
			regexp.MustCompile(`(?i)\bmost affordable\b`),
			regexp.MustCompile(`(?i)\bbudget friendly\b`),
		},
	},
	{
		Intent: models.IntentExpensive,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bmost expensive\b`),
			regexp.MustCompile(`(?i)\b(premium|high[ -]end|flagship|top of the line)\b`),
			regexp.MustCompile(`(?i)\bpriciest\b`),
		},
	},
	{
		Intent: models.IntentBestRated,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(best|top|highest) rated\b`),
			regexp.MustCompile(`(?i)\bbest review(s|ed)?\b`),
			regexp.MustCompile(`(?i)\btop rating\b`),
		},
	},
	{
		Intent: models.IntentCompare,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bcompare\b`),
			regexp.MustCompile(`(?i)\b(versus|vs\.?)\b`),
			regexp.MustCompile(`(?i)\bdifference between\b`),
		},
	},
	{
		Intent: models.IntentRecommendation,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(recommend|suggest)\b`),
			regexp.MustCompile(`(?i)\b(show|find|get) me\b`),
			regexp.MustCompile(`(?i)\b(looking for|searching for|i need|i want)\b`),
		},
	},
}

// QuickSuggestions is a fixed set of example utterances a host UI can offer
// as one-tap inputs.
var QuickSuggestions = []string{
	"Show me gaming keyboards",
	"Best rated headphones",
	"Cheapest wireless mouse",
	"Monitors under 20k",
	"Recommend a gaming chair",
}

var categoryPhrasesLongestFirst []string

func init() {
	categoryPhrasesLongestFirst = make([]string, 0, len(CategoryPhrases))
	for phrase := range CategoryPhrases {
		categoryPhrasesLongestFirst = append(categoryPhrasesLongestFirst, phrase)
	}
	sort.Slice(categoryPhrasesLongestFirst, func(i, j int) bool {
		a, b := categoryPhrasesLongestFirst[i], categoryPhrasesLongestFirst[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
}

// CategoryPhrasesLongestFirst returns every category phrase ordered by
// descending length, so overlapping phrases resolve to the longest match.
func CategoryPhrasesLongestFirst() []string {
	return categoryPhrasesLongestFirst
}
