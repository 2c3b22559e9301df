package billing

import (
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentCreatedEvent is raised when a new document is created
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID       `json:"document_id"`
	Number     string          `json:"number"`
	DocType    DocumentType    `json:"doc_type"`
	ClientID   uuid.UUID       `json:"client_id"`
	NetTotal   decimal.Decimal `json:"net_total"`
	IsPOS      bool            `json:"is_pos"`
}

// EventType returns the event type name
func (e *DocumentCreatedEvent) EventType() string {
	return "DocumentCreated"
}

// NewDocumentCreatedEvent creates a new DocumentCreatedEvent
func NewDocumentCreatedEvent(doc *Document) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DocumentCreated", "Document", doc.ID, doc.TenantID),
		DocumentID:      doc.ID,
		Number:          doc.Number,
		DocType:         doc.Type,
		ClientID:        doc.ClientID,
		NetTotal:        doc.Totals().Net,
		IsPOS:           doc.IsPOS,
	}
}

// DocumentPaidEvent is raised when cumulative payments reach the net total
type DocumentPaidEvent struct {
	shared.BaseDomainEvent
	DocumentID    uuid.UUID       `json:"document_id"`
	Number        string          `json:"number"`
	NetTotal      decimal.Decimal `json:"net_total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentMethod string          `json:"payment_method"`
}

// EventType returns the event type name
func (e *DocumentPaidEvent) EventType() string {
	return "DocumentPaid"
}

// NewDocumentPaidEvent creates a new DocumentPaidEvent
func NewDocumentPaidEvent(doc *Document) *DocumentPaidEvent {
	return &DocumentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DocumentPaid", "Document", doc.ID, doc.TenantID),
		DocumentID:      doc.ID,
		Number:          doc.Number,
		NetTotal:        doc.Totals().Net,
		PaidAmount:      doc.PaidAmount(),
		PaymentMethod:   doc.PaymentMethod,
	}
}

// DocumentPartiallyPaidEvent is raised when a payment leaves an outstanding balance
type DocumentPartiallyPaidEvent struct {
	shared.BaseDomainEvent
	DocumentID    uuid.UUID       `json:"document_id"`
	Number        string          `json:"number"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	NetTotal      decimal.Decimal `json:"net_total"`
	PaymentDate   time.Time       `json:"payment_date"`
}

// EventType returns the event type name
func (e *DocumentPartiallyPaidEvent) EventType() string {
	return "DocumentPartiallyPaid"
}

// NewDocumentPartiallyPaidEvent creates a new DocumentPartiallyPaidEvent
func NewDocumentPartiallyPaidEvent(doc *Document, payment Payment) *DocumentPartiallyPaidEvent {
	return &DocumentPartiallyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DocumentPartiallyPaid", "Document", doc.ID, doc.TenantID),
		DocumentID:      doc.ID,
		Number:          doc.Number,
		PaymentID:       payment.ID,
		PaymentAmount:   payment.Amount,
		PaidAmount:      doc.PaidAmount(),
		NetTotal:        doc.Totals().Net,
		PaymentDate:     payment.Date,
	}
}

// DocumentDeletedEvent is raised when a document is removed from the ledger
type DocumentDeletedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID    `json:"document_id"`
	Number     string       `json:"number"`
	DocType    DocumentType `json:"doc_type"`
	WasRevenue bool         `json:"was_revenue"`
}

// EventType returns the event type name
func (e *DocumentDeletedEvent) EventType() string {
	return "DocumentDeleted"
}

// NewDocumentDeletedEvent creates a new DocumentDeletedEvent
func NewDocumentDeletedEvent(doc *Document) *DocumentDeletedEvent {
	return &DocumentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DocumentDeleted", "Document", doc.ID, doc.TenantID),
		DocumentID:      doc.ID,
		Number:          doc.Number,
		DocType:         doc.Type,
		WasRevenue:      doc.Type.IsRevenue(),
	}
}
