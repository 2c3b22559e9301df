package models

import (
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentModel is the persistence model for the Document aggregate root.
// Line items and payments are embedded JSONB documents, not joined rows:
// both are value objects owned by exactly one document.
type DocumentModel struct {
	TenantAggregateModel
	Number          string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_document_tenant_number,priority:2"`
	Type            billing.DocumentType   `gorm:"type:varchar(30);not null;index"`
	Date            time.Time              `gorm:"not null;index"`
	DueDate         *time.Time             `gorm:"index"`
	ClientID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	Items           billing.LineItems      `gorm:"type:jsonb;default:'[]'"`
	Status          billing.DocumentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	TaxRate         decimal.Decimal        `gorm:"type:decimal(8,4);not null"`
	WithholdingRate decimal.Decimal        `gorm:"type:decimal(8,4);not null"`
	PaymentMethod   string                 `gorm:"type:varchar(50)"`
	IsPOS           bool                   `gorm:"not null;default:false;index"`
	Payments        billing.Payments       `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document
func (m *DocumentModel) ToDomain() *billing.Document {
	doc := &billing.Document{
		Number:          m.Number,
		Type:            m.Type,
		Date:            m.Date,
		DueDate:         m.DueDate,
		ClientID:        m.ClientID,
		Items:           m.Items,
		Status:          m.Status,
		TaxRate:         m.TaxRate,
		WithholdingRate: m.WithholdingRate,
		PaymentMethod:   m.PaymentMethod,
		IsPOS:           m.IsPOS,
		Payments:        m.Payments,
	}
	m.PopulateTenantAggregateRoot(&doc.TenantAggregateRoot)
	return doc
}

// FromDomain populates the persistence model from a domain Document
func (m *DocumentModel) FromDomain(doc *billing.Document) {
	m.FromDomainTenantAggregateRoot(doc.TenantAggregateRoot)
	m.Number = doc.Number
	m.Type = doc.Type
	m.Date = doc.Date
	m.DueDate = doc.DueDate
	m.ClientID = doc.ClientID
	m.Items = doc.Items
	m.Status = doc.Status
	m.TaxRate = doc.TaxRate
	m.WithholdingRate = doc.WithholdingRate
	m.PaymentMethod = doc.PaymentMethod
	m.IsPOS = doc.IsPOS
	m.Payments = doc.Payments
}

// DocumentModelFromDomain creates a new persistence model from a domain Document
func DocumentModelFromDomain(doc *billing.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(doc)
	return m
}
