package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLineItem(t *testing.T, description string, qty, price float64) LineItem {
	item, err := NewLineItem(description, decimal.NewFromFloat(qty), decimal.NewFromFloat(price))
	require.NoError(t, err)
	return item
}

func TestComputeTotals_InvoiceExample(t *testing.T) {
	// 2 x 1000 at 19% tax, no withholding
	items := []LineItem{mustLineItem(t, "Widget", 2, 1000)}

	totals := ComputeTotals(items, decimal.NewFromInt(19), decimal.Zero)

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(2000)), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.Tax.Equal(decimal.NewFromInt(380)), "tax = %s", totals.Tax)
	assert.True(t, totals.Gross.Equal(decimal.NewFromInt(2380)), "gross = %s", totals.Gross)
	assert.True(t, totals.Withholding.IsZero())
	assert.True(t, totals.Net.Equal(decimal.NewFromInt(2380)), "net = %s", totals.Net)
}

func TestComputeTotals_WithWithholding(t *testing.T) {
	items := []LineItem{mustLineItem(t, "Consulting", 1, 10000)}

	totals := ComputeTotals(items, decimal.NewFromInt(19), decimal.NewFromInt(10))

	// gross = 11900, withholding = 1190, net = 10710
	assert.True(t, totals.Gross.Equal(decimal.NewFromInt(11900)))
	assert.True(t, totals.Withholding.Equal(decimal.NewFromInt(1190)))
	assert.True(t, totals.Net.Equal(decimal.NewFromInt(10710)))
}

func TestComputeTotals_MultipleLines(t *testing.T) {
	items := []LineItem{
		mustLineItem(t, "A", 3, 500),
		mustLineItem(t, "B", 1.5, 200),
	}

	totals := ComputeTotals(items, decimal.Zero, decimal.Zero)

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(1800)))
	assert.True(t, totals.Net.Equal(totals.Subtotal))
}

func TestComputeTotals_Deterministic(t *testing.T) {
	items := []LineItem{
		mustLineItem(t, "A", 7, 333.33),
		mustLineItem(t, "B", 2, 19.99),
	}
	taxRate := decimal.NewFromInt(19)
	withholdingRate := decimal.NewFromFloat(2.5)

	first := ComputeTotals(items, taxRate, withholdingRate)
	second := ComputeTotals(items, taxRate, withholdingRate)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Gross.Equal(second.Gross))
	assert.True(t, first.Withholding.Equal(second.Withholding))
	assert.True(t, first.Net.Equal(second.Net))
}

func TestComputeTotals_EmptyItems(t *testing.T) {
	totals := ComputeTotals(nil, decimal.NewFromInt(19), decimal.NewFromInt(5))

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Net.IsZero())
}
