package catalog

import (
	"strings"
)

// ProductMatcher decides whether a free-text reference (a typed line item
// description or a raw barcode scan) identifies a product. Matchers are tried
// in priority order; the first matcher that finds a product wins, so a barcode
// hit always beats a description hit even when both exist.
type ProductMatcher interface {
	// Name identifies the strategy for logging
	Name() string
	// Matches reports whether the reference identifies the product
	Matches(reference string, product *Product) bool
}

// BarcodeMatcher matches a reference against the product barcode exactly
type BarcodeMatcher struct{}

// Name implements ProductMatcher
func (BarcodeMatcher) Name() string { return "barcode" }

// Matches implements ProductMatcher
func (BarcodeMatcher) Matches(reference string, product *Product) bool {
	return product.Barcode != "" && reference == product.Barcode
}

// DescriptionMatcher matches a reference against the product description,
// trimmed and case-insensitive
type DescriptionMatcher struct{}

// Name implements ProductMatcher
func (DescriptionMatcher) Name() string { return "description" }

// Matches implements ProductMatcher
func (DescriptionMatcher) Matches(reference string, product *Product) bool {
	return normalize(reference) == normalize(product.Description)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MatcherChain tries an ordered list of matchers against a product set
type MatcherChain struct {
	matchers []ProductMatcher
}

// NewMatcherChain builds a chain with the given strategies, tried in order
func NewMatcherChain(matchers ...ProductMatcher) *MatcherChain {
	return &MatcherChain{matchers: matchers}
}

// DefaultMatcherChain returns the standard policy: exact barcode first, then
// trimmed case-insensitive description.
func DefaultMatcherChain() *MatcherChain {
	return NewMatcherChain(BarcodeMatcher{}, DescriptionMatcher{})
}

// Match returns the first product matched by the highest-priority strategy,
// together with the name of the strategy that matched. A nil product means no
// strategy matched; that is not an error.
func (c *MatcherChain) Match(reference string, products []Product) (*Product, string) {
	for _, matcher := range c.matchers {
		for i := range products {
			if matcher.Matches(reference, &products[i]) {
				return &products[i], matcher.Name()
			}
		}
	}
	return nil, ""
}
