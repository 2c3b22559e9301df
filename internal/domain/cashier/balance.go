package cashier

import (
	"github.com/billing/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// DefaultCashMethods is the default set of payment-method labels counted as
// cash. Payment method is a free-text label, so deployments extend this set
// through the ledger config section.
var DefaultCashMethods = []string{"CASH"}

// BalanceCalculator derives the expected cash balance of a session. The
// result is always recomputable from the opening float, the cash portion of
// revenue documents dated on or after the session opened, and the session's
// own movements; it is never an independently mutated field except at the
// moment of close.
type BalanceCalculator struct {
	cashMethods map[string]bool
}

// NewBalanceCalculator creates a calculator treating the given payment-method
// labels as cash-equivalent
func NewBalanceCalculator(cashMethods []string) *BalanceCalculator {
	if len(cashMethods) == 0 {
		cashMethods = DefaultCashMethods
	}
	set := make(map[string]bool, len(cashMethods))
	for _, m := range cashMethods {
		set[m] = true
	}
	return &BalanceCalculator{cashMethods: set}
}

// ComputeExpected returns openingBalance + cash sales + net movements.
//
// Cash sales sum, over revenue documents dated on or after the session
// opened, the document's cash-portion paid amount (payments settled with a
// cash-equivalent method). Quotes never count.
func (c *BalanceCalculator) ComputeExpected(session *CashSession, movements []CashMovement, documents []billing.Document) decimal.Decimal {
	expected := session.OpeningBalance

	for i := range documents {
		doc := &documents[i]
		if !doc.Type.IsRevenue() {
			continue
		}
		if doc.Date.Before(session.OpenedAt) {
			continue
		}
		expected = expected.Add(doc.PaidAmountByMethods(c.cashMethods))
	}

	for i := range movements {
		expected = expected.Add(movements[i].SignedAmount())
	}

	return expected
}
