package billing

import (
	"github.com/shopspring/decimal"
)

// Totals holds the derived amounts of a document. Totals are never persisted
// independently: they are recomputed from the stored line items and rates so
// the figures cannot drift from their inputs.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Gross       decimal.Decimal `json:"gross"`
	Withholding decimal.Decimal `json:"withholding"`
	Net         decimal.Decimal `json:"net"`
}

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals derives the amount pipeline from line items and percentage
// rates:
//
//	subtotal    = sum(quantity * unit price)
//	tax         = subtotal * taxRate / 100
//	gross       = subtotal + tax
//	withholding = gross * withholdingRate / 100
//	net         = gross - withholding
//
// The function is pure and deterministic; identical inputs always yield
// identical output.
func ComputeTotals(items []LineItem, taxRate, withholdingRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Quantity.Mul(item.UnitPrice))
	}

	tax := subtotal.Mul(taxRate).Div(oneHundred)
	gross := subtotal.Add(tax)
	withholding := gross.Mul(withholdingRate).Div(oneHundred)
	net := gross.Sub(withholding)

	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		Gross:       gross,
		Withholding: withholding,
		Net:         net,
	}
}
