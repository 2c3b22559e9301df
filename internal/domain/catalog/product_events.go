package catalog

import (
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStockAdjustedEvent is raised whenever a product's stock changes
type ProductStockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID       `json:"product_id"`
	Description   string          `json:"description"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	Delta         decimal.Decimal `json:"delta"`
	NewStock      decimal.Decimal `json:"new_stock"`
	Reason        string          `json:"reason"`
}

// EventType returns the event type name
func (e *ProductStockAdjustedEvent) EventType() string {
	return "ProductStockAdjusted"
}

// NewProductStockAdjustedEvent creates a new ProductStockAdjustedEvent
func NewProductStockAdjustedEvent(p *Product, previous, delta decimal.Decimal, reason string) *ProductStockAdjustedEvent {
	return &ProductStockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ProductStockAdjusted", "Product", p.ID, p.TenantID),
		ProductID:       p.ID,
		Description:     p.Description,
		PreviousStock:   previous,
		Delta:           delta,
		NewStock:        p.Stock,
		Reason:          reason,
	}
}
