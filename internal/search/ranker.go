package search

import (
	"sort"
	"strings"

	"github.com/xaenox/shopbot/internal/models"
	"github.com/xaenox/shopbot/internal/rules"
)

type scoredItem struct {
	item      models.CatalogItem
	relevance int
}

// FilterRank narrows the catalog by the extracted slots and orders the
// survivors. Stages run in a fixed order, each narrowing the previous
// stage's working set: category, brand, budget, then keyword relevance.
// A final stable intent-driven sort reorders but never removes.
func FilterRank(catalog []models.CatalogItem, s models.Slots, intent models.Intent) []models.CatalogItem {
	working := make([]scoredItem, 0, len(catalog))
	for _, item := range catalog {
		working = append(working, scoredItem{item: item})
	}

	if s.Category != "" {
		working = keep(working, func(it models.CatalogItem) bool {
			return strings.EqualFold(it.Category, s.Category)
		})
	}
	if s.Brand != "" {
		working = keep(working, func(it models.CatalogItem) bool {
			return strings.EqualFold(it.Brand, s.Brand)
		})
	}
	if s.Budget != nil {
		working = keep(working, func(it models.CatalogItem) bool {
			if s.Budget.Max != nil && it.Price > *s.Budget.Max {
				return false
			}
			if s.Budget.Min != nil && it.Price < *s.Budget.Min {
				return false
			}
			return true
		})
	}

	if len(s.Keywords) > 0 {
		anyHit := false
		for i := range working {
			working[i].relevance = relevance(working[i].item, s.Keywords)
			if working[i].relevance > 0 {
				anyHit = true
			}
		}
		// Keywords only filter when they can discriminate; if nothing in
		// the working set matches any group they degrade to a no-op.
		if anyHit {
			working = keepScored(working, func(si scoredItem) bool {
				return si.relevance > 0
			})
		}
		sort.SliceStable(working, func(i, j int) bool {
			return working[i].relevance > working[j].relevance
		})
	}

	switch intent {
	case models.IntentCheapest:
		sort.SliceStable(working, func(i, j int) bool {
			return working[i].item.Price < working[j].item.Price
		})
	case models.IntentExpensive:
		sort.SliceStable(working, func(i, j int) bool {
			return working[i].item.Price > working[j].item.Price
		})
	default:
		sort.SliceStable(working, func(i, j int) bool {
			return working[i].item.Rating > working[j].item.Rating
		})
	}

	result := make([]models.CatalogItem, len(working))
	for i, si := range working {
		result[i] = si.item
	}
	return result
}

// relevance counts the distinct keyword groups with at least one literal
// substring anywhere in the item's searchable text.
func relevance(item models.CatalogItem, groups []string) int {
	haystack := itemHaystack(item)
	count := 0
	for _, group := range groups {
		for _, lit := range rules.KeywordGroups[group] {
			if strings.Contains(haystack, lit) {
				count++
				break
			}
		}
	}
	return count
}

func itemHaystack(item models.CatalogItem) string {
	var b strings.Builder
	b.WriteString(item.Name)
	b.WriteString(" ")
	b.WriteString(item.Description)
	b.WriteString(" ")
	b.WriteString(item.Brand)
	for _, f := range item.Features {
		b.WriteString(" ")
		b.WriteString(f)
	}
	for _, spec := range item.Specifications {
		b.WriteString(" ")
		b.WriteString(spec.Label)
		b.WriteString(" ")
		b.WriteString(spec.Value)
	}
	return strings.ToLower(b.String())
}

// LooseSearch is the fallback used when no slot at all was extracted: any
// item whose name, description, brand or category contains a word of the
// utterance (length >= 3) survives, ordered by descending rating.
func LooseSearch(catalog []models.CatalogItem, utterance string) []models.CatalogItem {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(utterance)) {
		if len(w) >= 3 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return nil
	}

	var matched []models.CatalogItem
	for _, item := range catalog {
		haystack := strings.ToLower(item.Name + " " + item.Description + " " + item.Brand + " " + item.Category)
		for _, w := range words {
			if strings.Contains(haystack, w) {
				matched = append(matched, item)
				break
			}
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Rating > matched[j].Rating
	})
	return matched
}

func keep(items []scoredItem, pred func(models.CatalogItem) bool) []scoredItem {
	out := items[:0]
	for _, si := range items {
		if pred(si.item) {
			out = append(out, si)
		}
	}
	return out
}

func keepScored(items []scoredItem, pred func(scoredItem) bool) []scoredItem {
	out := items[:0]
	for _, si := range items {
		if pred(si) {
			out = append(out, si)
		}
	}
	return out
}
