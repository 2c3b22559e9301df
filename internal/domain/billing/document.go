package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType represents the commercial type of a document
type DocumentType string

const (
	DocumentTypeInvoice           DocumentType = "INVOICE"
	DocumentTypeQuote             DocumentType = "QUOTE"
	DocumentTypeAccountCollection DocumentType = "ACCOUNT_COLLECTION"
)

// IsValid checks if the type is a valid DocumentType
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypeQuote, DocumentTypeAccountCollection:
		return true
	}
	return false
}

// IsRevenue returns true for document types that carry revenue. Only revenue
// documents adjust stock and count toward cash sales; quotes never do.
func (t DocumentType) IsRevenue() bool {
	return t == DocumentTypeInvoice || t == DocumentTypeAccountCollection
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// DocumentStatus represents the payment status of a document
type DocumentStatus string

const (
	DocumentStatusPending DocumentStatus = "PENDING" // No payments applied
	DocumentStatusPartial DocumentStatus = "PARTIAL" // 0 < paid < net
	DocumentStatusPaid    DocumentStatus = "PAID"    // paid >= net - tolerance
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusPartial, DocumentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// DefaultPaymentTolerance is one minor currency unit. Cumulative payments
// within this distance of the net total mark a document PAID, absorbing
// rounding in externally provided amounts. The value is configurable via the
// ledger config section.
var DefaultPaymentTolerance = decimal.NewFromInt(1)

// LineItem is a value object owned by exactly one document, stored inline
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// NewLineItem creates a validated line item
func NewLineItem(description string, quantity, unitPrice decimal.Decimal) (LineItem, error) {
	if description == "" {
		return LineItem{}, shared.NewDomainError("INVALID_OPERATION", "Line item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return LineItem{}, shared.NewDomainError("INVALID_OPERATION", "Line item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_OPERATION", "Line item unit price cannot be negative")
	}
	return LineItem{
		ID:          uuid.New(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}, nil
}

// Total returns quantity * unit price for this line
func (li LineItem) Total() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// LineItems is a slice of LineItem that implements GORM Scanner/Valuer for JSONB storage
type LineItems []LineItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = LineItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan LineItems: unsupported type")
	}

	if len(bytes) == 0 {
		*l = LineItems{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Payment is an append-only value object owned by exactly one document.
// Payments are never edited or removed once recorded.
type Payment struct {
	ID     uuid.UUID       `json:"id"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Note   string          `json:"note,omitempty"`
}

// NewPayment creates a validated payment
func NewPayment(date time.Time, amount decimal.Decimal, method, note string) (Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return Payment{}, shared.NewDomainError("INVALID_OPERATION", "Payment amount must be positive")
	}
	if method == "" {
		return Payment{}, shared.NewDomainError("INVALID_OPERATION", "Payment method cannot be empty")
	}
	if date.IsZero() {
		date = time.Now()
	}
	return Payment{
		ID:     uuid.New(),
		Date:   date,
		Amount: amount,
		Method: method,
		Note:   note,
	}, nil
}

// Payments is a slice of Payment that implements GORM Scanner/Valuer for JSONB storage
type Payments []Payment

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p Payments) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *Payments) Scan(value interface{}) error {
	if value == nil {
		*p = Payments{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Payments: unsupported type")
	}

	if len(bytes) == 0 {
		*p = Payments{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Document represents a billing document aggregate root: an invoice, a quote
// or a collection account. Once payments exist its status is derived from the
// payment sum, never set freely.
type Document struct {
	shared.TenantAggregateRoot
	Number          string          `json:"number"`
	Type            DocumentType    `json:"type"`
	Date            time.Time       `json:"date"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	ClientID        uuid.UUID       `json:"client_id"`
	Items           LineItems       `json:"items"`
	Status          DocumentStatus  `json:"status"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	WithholdingRate decimal.Decimal `json:"withholding_rate"`
	PaymentMethod   string          `json:"payment_method"`
	IsPOS           bool            `json:"is_pos"`
	Payments        Payments        `json:"payments"`
}

// NewDocument creates a new document aggregate
func NewDocument(
	tenantID uuid.UUID,
	docType DocumentType,
	number string,
	date time.Time,
	dueDate *time.Time,
	clientID uuid.UUID,
	items []LineItem,
	taxRate decimal.Decimal,
	withholdingRate decimal.Decimal,
	paymentMethod string,
	isPOS bool,
) (*Document, error) {
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Document type is not valid")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Document number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Client reference is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Document must contain at least one line item")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Tax rate cannot be negative")
	}
	if withholdingRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Withholding rate cannot be negative")
	}
	for _, item := range items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_OPERATION", fmt.Sprintf("Line item %q quantity must be positive", item.Description))
		}
		if item.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_OPERATION", fmt.Sprintf("Line item %q unit price cannot be negative", item.Description))
		}
	}
	if date.IsZero() {
		date = time.Now()
	}

	doc := &Document{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		Type:                docType,
		Date:                date,
		DueDate:             dueDate,
		ClientID:            clientID,
		Items:               items,
		Status:              DocumentStatusPending,
		TaxRate:             taxRate,
		WithholdingRate:     withholdingRate,
		PaymentMethod:       paymentMethod,
		IsPOS:               isPOS,
		Payments:            Payments{},
	}

	doc.AddDomainEvent(NewDocumentCreatedEvent(doc))

	return doc, nil
}

// AssignID overrides the generated identity with a caller-supplied one.
// Only valid on a freshly constructed document, before it is persisted or
// its events published; the pending created event is re-raised so it
// carries the final ID.
func (d *Document) AssignID(id uuid.UUID) {
	d.ID = id
	d.ClearDomainEvents()
	d.AddDomainEvent(NewDocumentCreatedEvent(d))
}

// Totals recomputes the amount pipeline from the stored inputs
func (d *Document) Totals() Totals {
	return ComputeTotals(d.Items, d.TaxRate, d.WithholdingRate)
}

// PaidAmount returns the cumulative amount of all recorded payments
func (d *Document) PaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// PaidAmountByMethods returns the cumulative amount of payments whose method
// is in the given set. Used by the cash session reconciliation to isolate the
// cash portion of a document.
func (d *Document) PaidAmountByMethods(methods map[string]bool) decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Payments {
		if methods[p.Method] {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// ApplyPayment appends a payment and re-derives the document status.
// The payment method becomes the document's latest payment method.
// Tolerance absorbs rounding: paid >= net - tolerance counts as PAID.
func (d *Document) ApplyPayment(payment Payment, tolerance decimal.Decimal) error {
	if payment.Amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_OPERATION", "Payment amount must be positive")
	}

	d.Payments = append(d.Payments, payment)
	if payment.Method != "" {
		d.PaymentMethod = payment.Method
	}
	d.deriveStatus(tolerance)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	if d.Status == DocumentStatusPaid {
		d.AddDomainEvent(NewDocumentPaidEvent(d))
	} else {
		d.AddDomainEvent(NewDocumentPartiallyPaidEvent(d, payment))
	}

	return nil
}

// Revise replaces the editable fields of an existing document while keeping
// its identity and payment history. Edits never retrigger stock adjustment.
func (d *Document) Revise(
	number string,
	date time.Time,
	dueDate *time.Time,
	clientID uuid.UUID,
	items []LineItem,
	taxRate decimal.Decimal,
	withholdingRate decimal.Decimal,
	paymentMethod string,
	isPOS bool,
	tolerance decimal.Decimal,
) error {
	if number == "" {
		return shared.NewDomainError("INVALID_OPERATION", "Document number cannot be empty")
	}
	if clientID == uuid.Nil {
		return shared.NewDomainError("INVALID_OPERATION", "Client reference is required")
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_OPERATION", "Document must contain at least one line item")
	}
	if taxRate.IsNegative() || withholdingRate.IsNegative() {
		return shared.NewDomainError("INVALID_OPERATION", "Rates cannot be negative")
	}

	d.Number = number
	if !date.IsZero() {
		d.Date = date
	}
	d.DueDate = dueDate
	d.ClientID = clientID
	d.Items = items
	d.TaxRate = taxRate
	d.WithholdingRate = withholdingRate
	if paymentMethod != "" {
		d.PaymentMethod = paymentMethod
	}
	d.IsPOS = isPOS

	// Net may have changed, so the payment-derived status must be refreshed.
	d.deriveStatus(tolerance)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// deriveStatus recomputes status from the payment sum. With no payments the
// status is left untouched.
func (d *Document) deriveStatus(tolerance decimal.Decimal) {
	paid := d.PaidAmount()
	if paid.LessThanOrEqual(decimal.Zero) {
		return
	}
	net := d.Totals().Net
	if paid.GreaterThanOrEqual(net.Sub(tolerance)) {
		d.Status = DocumentStatusPaid
	} else {
		d.Status = DocumentStatusPartial
	}
}

// IsPaid returns true if the document is fully paid
func (d *Document) IsPaid() bool {
	return d.Status == DocumentStatusPaid
}

// HasPayments returns true if at least one payment has been recorded
func (d *Document) HasPayments() bool {
	return len(d.Payments) > 0
}
