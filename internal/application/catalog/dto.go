package catalog

import (
	"time"

	"github.com/billing/backend/internal/application/gateway"
	"github.com/billing/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpsertProductInput is the request payload for creating or revising a
// product. A set ID keys the upsert.
type UpsertProductInput struct {
	ID            *uuid.UUID      `json:"id"`
	Description   string          `json:"description" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         decimal.Decimal `json:"stock"`
	Barcode       string          `json:"barcode"`
	SKU           string          `json:"sku"`
}

// AdjustStockInput is the request payload for a manual stock adjustment
type AdjustStockInput struct {
	Delta  decimal.Decimal `json:"delta" binding:"required"`
	Reason string          `json:"reason"`
}

// ProductListFilter carries product list query parameters
type ProductListFilter struct {
	Search   string `form:"search"`
	Barcode  string `form:"barcode"`
	SKU      string `form:"sku"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID            uuid.UUID           `json:"id"`
	TenantID      uuid.UUID           `json:"tenant_id"`
	Description   string              `json:"description"`
	PurchasePrice decimal.Decimal     `json:"purchase_price"`
	SalePrice     decimal.Decimal     `json:"sale_price"`
	Stock         decimal.Decimal     `json:"stock"`
	Barcode       string              `json:"barcode,omitempty"`
	SKU           string              `json:"sku,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Sync          *gateway.SyncStatus `json:"sync,omitempty"`
}

func toProductResponse(product *catalog.Product, sync *gateway.SyncStatus) *ProductResponse {
	return &ProductResponse{
		ID:            product.ID,
		TenantID:      product.TenantID,
		Description:   product.Description,
		PurchasePrice: product.PurchasePrice,
		SalePrice:     product.SalePrice,
		Stock:         product.Stock,
		Barcode:       product.Barcode,
		SKU:           product.SKU,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
		Sync:          sync,
	}
}
