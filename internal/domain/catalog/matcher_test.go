package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProduct(t *testing.T, description, barcode string) Product {
	p, err := NewProduct(uuid.New(), description, decimal.NewFromInt(500), decimal.NewFromInt(1000), decimal.NewFromInt(10), barcode, "")
	require.NoError(t, err)
	return *p
}

func TestBarcodeMatcher(t *testing.T) {
	p := createTestProduct(t, "Coffee 500g", "7701234567890")

	m := BarcodeMatcher{}
	assert.True(t, m.Matches("7701234567890", &p))
	assert.False(t, m.Matches("Coffee 500g", &p))
	assert.False(t, m.Matches("770", &p))
}

func TestBarcodeMatcher_EmptyBarcodeNeverMatches(t *testing.T) {
	p := createTestProduct(t, "Coffee 500g", "")

	assert.False(t, BarcodeMatcher{}.Matches("", &p))
}

func TestDescriptionMatcher(t *testing.T) {
	p := createTestProduct(t, "Coffee 500g", "")

	m := DescriptionMatcher{}
	assert.True(t, m.Matches("Coffee 500g", &p))
	assert.True(t, m.Matches("  coffee 500G  ", &p))
	assert.False(t, m.Matches("Coffee 250g", &p))
}

func TestMatcherChain_BarcodeTakesPriority(t *testing.T) {
	// One product whose barcode equals the reference, another whose
	// description equals it. The barcode hit must win.
	byBarcode := createTestProduct(t, "Sugar 1kg", "MILK-1L")
	byDescription := createTestProduct(t, "Milk-1L", "")

	chain := DefaultMatcherChain()
	matched, strategy := chain.Match("MILK-1L", []Product{byDescription, byBarcode})

	require.NotNil(t, matched)
	assert.Equal(t, byBarcode.ID, matched.ID)
	assert.Equal(t, "barcode", strategy)
}

func TestMatcherChain_FallsBackToDescription(t *testing.T) {
	p := createTestProduct(t, "Bread", "123")

	chain := DefaultMatcherChain()
	matched, strategy := chain.Match("  bread ", []Product{p})

	require.NotNil(t, matched)
	assert.Equal(t, "description", strategy)
}

func TestMatcherChain_NoMatchIsNil(t *testing.T) {
	p := createTestProduct(t, "Bread", "123")

	chain := DefaultMatcherChain()
	matched, strategy := chain.Match("Croissant", []Product{p})

	assert.Nil(t, matched)
	assert.Empty(t, strategy)
}
