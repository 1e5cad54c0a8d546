package catalog

import (
	"cmp"
	"slices"
	"strings"
)

const DefaultFindLimit = 5

// Search does a case-insensitive substring match against name or
// description. A nil snapshot yields no results.
func Search(snap *Snapshot, query string) []DisplayProduct {
	out := []DisplayProduct{}
	if snap == nil {
		return out
	}
	q := strings.ToLower(query)
	for _, p := range snap.Items {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

// ByCategory returns the items whose normalized category equals category
// exactly. Callers pass the lower-cased form.
func ByCategory(snap *Snapshot, category string) []DisplayProduct {
	out := []DisplayProduct{}
	if snap == nil {
		return out
	}
	for _, p := range snap.Items {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// FindOptions narrows Find. Zero values mean "no filter"; Limit <= 0 uses
// DefaultFindLimit.
type FindOptions struct {
	Query    string
	MaxPrice *float64
	Category string
	Limit    int
}

// Find is the assistant-style lookup: the query is matched against name,
// short name, description and voice description, then price and category
// filters apply and the result is capped.
func Find(snap *Snapshot, opts FindOptions) []DisplayProduct {
	out := []DisplayProduct{}
	if snap == nil {
		return out
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultFindLimit
	}
	q := strings.ToLower(opts.Query)
	category := strings.ToLower(opts.Category)

	for _, p := range snap.Items {
		if opts.MaxPrice != nil && p.Price > *opts.MaxPrice {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if !matchesAnyText(p, q) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}

func matchesAnyText(p DisplayProduct, q string) bool {
	fields := []string{p.Name, p.Description}
	if p.ShortName != nil {
		fields = append(fields, *p.ShortName)
	}
	if p.VoiceDescription != nil {
		fields = append(fields, *p.VoiceDescription)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

var categoryDisplayNames = map[string]string{
	"electronics":  "Electronics",
	"home":         "Home & Kitchen",
	"kitchen":      "Home & Kitchen",
	"pet-supplies": "Pet Supplies",
	"pets":         "Pet Supplies",
	"sports":       "Sports & Outdoors",
	"outdoors":     "Sports & Outdoors",
	"beauty":       "Beauty & Personal Care",
	"health":       "Health & Household",
	"toys":         "Toys & Games",
	"automotive":   "Automotive",
	"fashion":      "Fashion",
	"books":        "Books",
	"office":       "Office Products",
	"garden":       "Patio, Lawn & Garden",
	"tools":        "Tools & Home Improvement",
}

// DisplayName maps a normalized category to its storefront label, falling
// back to the raw value.
func DisplayName(category string) string {
	if name, ok := categoryDisplayNames[category]; ok {
		return name
	}
	return category
}

// CategoriesWithCounts groups items by category, most populated first.
// Equal counts are ordered by name.
func CategoriesWithCounts(snap *Snapshot) []CategoryCount {
	out := []CategoryCount{}
	if snap == nil {
		return out
	}
	counts := make(map[string]int)
	for _, p := range snap.Items {
		counts[p.Category]++
	}
	for name, n := range counts {
		out = append(out, CategoryCount{Name: name, Count: n, DisplayName: DisplayName(name)})
	}
	slices.SortFunc(out, func(a, b CategoryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
