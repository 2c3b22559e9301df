package billing

import (
	"time"

	"github.com/billing/backend/internal/application/gateway"
	"github.com/billing/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemInput describes one document line in a request
type LineItemInput struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// UpsertDocumentInput describes a document create-or-replace request. When ID
// is set and a document with that ID exists it is replaced in place (keeping
// its payment history); otherwise a new document is created.
type UpsertDocumentInput struct {
	ID              *uuid.UUID      `json:"id,omitempty"`
	Type            string          `json:"type" binding:"required"`
	Number          string          `json:"number" binding:"required"`
	Date            time.Time       `json:"date"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	ClientID        uuid.UUID       `json:"client_id" binding:"required"`
	Items           []LineItemInput `json:"items" binding:"required,min=1"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	WithholdingRate decimal.Decimal `json:"withholding_rate"`
	PaymentMethod   string          `json:"payment_method"`
	IsPOS           bool            `json:"is_pos"`
}

// PaymentInput describes a payment application request
type PaymentInput struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required"`
	Note   string          `json:"note,omitempty"`
}

// DocumentListFilter defines filtering options for document list queries
type DocumentListFilter struct {
	Type     string     `form:"type"`
	Status   string     `form:"status"`
	ClientID *uuid.UUID `form:"client_id"`
	FromDate *time.Time `form:"from_date"`
	ToDate   *time.Time `form:"to_date"`
	IsPOS    *bool      `form:"is_pos"`
	Search   string     `form:"search"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// LineItemResponse represents a document line in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// PaymentResponse represents a recorded payment in API responses
type PaymentResponse struct {
	ID     uuid.UUID       `json:"id"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Note   string          `json:"note,omitempty"`
}

// TotalsResponse carries the derived amount pipeline of a document
type TotalsResponse struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Gross       decimal.Decimal `json:"gross"`
	Withholding decimal.Decimal `json:"withholding"`
	Net         decimal.Decimal `json:"net"`
}

// DocumentResponse represents a document in API responses. Totals are
// computed on the way out, never read from storage.
type DocumentResponse struct {
	ID              uuid.UUID          `json:"id"`
	TenantID        uuid.UUID          `json:"tenant_id"`
	Number          string             `json:"number"`
	Type            string             `json:"type"`
	Date            time.Time          `json:"date"`
	DueDate         *time.Time         `json:"due_date,omitempty"`
	ClientID        uuid.UUID          `json:"client_id"`
	Items           []LineItemResponse `json:"items"`
	Status          string             `json:"status"`
	TaxRate         decimal.Decimal    `json:"tax_rate"`
	WithholdingRate decimal.Decimal    `json:"withholding_rate"`
	PaymentMethod   string             `json:"payment_method,omitempty"`
	IsPOS           bool               `json:"is_pos"`
	Payments        []PaymentResponse  `json:"payments"`
	PaidAmount      decimal.Decimal    `json:"paid_amount"`
	Totals          TotalsResponse     `json:"totals"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Version         int                `json:"version"`
	Sync            *gateway.SyncStatus `json:"sync,omitempty"`
}

func toDocumentResponse(doc *billing.Document, sync *gateway.SyncStatus) *DocumentResponse {
	items := make([]LineItemResponse, len(doc.Items))
	for i, item := range doc.Items {
		items[i] = LineItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total(),
		}
	}

	payments := make([]PaymentResponse, len(doc.Payments))
	for i, p := range doc.Payments {
		payments[i] = PaymentResponse{
			ID:     p.ID,
			Date:   p.Date,
			Amount: p.Amount,
			Method: p.Method,
			Note:   p.Note,
		}
	}

	totals := doc.Totals()

	return &DocumentResponse{
		ID:              doc.ID,
		TenantID:        doc.TenantID,
		Number:          doc.Number,
		Type:            doc.Type.String(),
		Date:            doc.Date,
		DueDate:         doc.DueDate,
		ClientID:        doc.ClientID,
		Items:           items,
		Status:          doc.Status.String(),
		TaxRate:         doc.TaxRate,
		WithholdingRate: doc.WithholdingRate,
		PaymentMethod:   doc.PaymentMethod,
		IsPOS:           doc.IsPOS,
		Payments:        payments,
		PaidAmount:      doc.PaidAmount(),
		Totals: TotalsResponse{
			Subtotal:    totals.Subtotal,
			Tax:         totals.Tax,
			Gross:       totals.Gross,
			Withholding: totals.Withholding,
			Net:         totals.Net,
		},
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		Version:   doc.Version,
		Sync:      sync,
	}
}
