package models

import (
	"github.com/billing/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
// Stock is decimal and unconstrained below zero.
type ProductModel struct {
	TenantAggregateModel
	Description   string          `gorm:"type:varchar(300);not null;index"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Stock         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Barcode       string          `gorm:"type:varchar(100);index"`
	SKU           string          `gorm:"type:varchar(100);index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	product := &catalog.Product{
		Description:   m.Description,
		PurchasePrice: m.PurchasePrice,
		SalePrice:     m.SalePrice,
		Stock:         m.Stock,
		Barcode:       m.Barcode,
		SKU:           m.SKU,
	}
	m.PopulateTenantAggregateRoot(&product.TenantAggregateRoot)
	return product
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(product *catalog.Product) {
	m.FromDomainTenantAggregateRoot(product.TenantAggregateRoot)
	m.Description = product.Description
	m.PurchasePrice = product.PurchasePrice
	m.SalePrice = product.SalePrice
	m.Stock = product.Stock
	m.Barcode = product.Barcode
	m.SKU = product.SKU
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(product *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(product)
	return m
}
