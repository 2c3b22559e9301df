package catalog

import (
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog product aggregate root. Stock is mutated only
// by document-driven stock sync and by manual edits; documents reference
// products by description or barcode matching, never by foreign key.
type Product struct {
	shared.TenantAggregateRoot
	Description   string          `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         decimal.Decimal `json:"stock"`
	Barcode       string          `json:"barcode,omitempty"`
	SKU           string          `json:"sku,omitempty"`
}

// NewProduct creates a new product
func NewProduct(
	tenantID uuid.UUID,
	description string,
	purchasePrice, salePrice, stock decimal.Decimal,
	barcode, sku string,
) (*Product, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Product description cannot be empty")
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Purchase price cannot be negative")
	}
	if salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Sale price cannot be negative")
	}

	p := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Description:         description,
		PurchasePrice:       purchasePrice,
		SalePrice:           salePrice,
		Stock:               stock,
		Barcode:             barcode,
		SKU:                 sku,
	}

	return p, nil
}

// AdjustStock applies a signed stock delta. No zero floor is applied: stock
// may go negative, which is how oversell shows up on the books. Callers that
// want to forbid oversell must check before adjusting.
func (p *Product) AdjustStock(delta decimal.Decimal, reason string) {
	previous := p.Stock
	p.Stock = p.Stock.Add(delta)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockAdjustedEvent(p, previous, delta, reason))
}

// SetStock replaces the stock count outright (manual edit path)
func (p *Product) SetStock(stock decimal.Decimal, reason string) {
	delta := stock.Sub(p.Stock)
	p.AdjustStock(delta, reason)
}

// Update replaces the editable product fields
func (p *Product) Update(description string, purchasePrice, salePrice decimal.Decimal, barcode, sku string) error {
	if description == "" {
		return shared.NewDomainError("INVALID_OPERATION", "Product description cannot be empty")
	}
	if purchasePrice.IsNegative() || salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_OPERATION", "Prices cannot be negative")
	}

	p.Description = description
	p.PurchasePrice = purchasePrice
	p.SalePrice = salePrice
	p.Barcode = barcode
	p.SKU = sku
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}
