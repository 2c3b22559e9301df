package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/billing/backend/internal/application/gateway"
	inventoryapp "github.com/billing/backend/internal/application/inventory"
	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const documentCollection = "documents"

// DocumentService owns the document ledger: it creates and replaces
// documents, applies payments, derives status and keeps catalog stock in
// sync with revenue-document lifecycle.
type DocumentService struct {
	docRepo    billing.DocumentRepository
	stockSync  *inventoryapp.StockSyncService
	replicator gateway.RecordReplicator
	publisher  shared.EventPublisher
	tolerance  decimal.Decimal
	logger     *zap.Logger
}

// DocumentServiceOption is a functional option for configuring DocumentService
type DocumentServiceOption func(*DocumentService)

// WithPaymentTolerance overrides the paid-status tolerance (one minor
// currency unit by default)
func WithPaymentTolerance(tolerance decimal.Decimal) DocumentServiceOption {
	return func(s *DocumentService) {
		s.tolerance = tolerance
	}
}

// WithReplicator attaches a remote record replicator
func WithReplicator(replicator gateway.RecordReplicator) DocumentServiceOption {
	return func(s *DocumentService) {
		s.replicator = replicator
	}
}

// WithEventPublisher attaches a domain event publisher
func WithEventPublisher(publisher shared.EventPublisher) DocumentServiceOption {
	return func(s *DocumentService) {
		s.publisher = publisher
	}
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	docRepo billing.DocumentRepository,
	stockSync *inventoryapp.StockSyncService,
	logger *zap.Logger,
	opts ...DocumentServiceOption,
) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DocumentService{
		docRepo:    docRepo,
		stockSync:  stockSync,
		replicator: gateway.NoopReplicator{},
		publisher:  shared.NoopEventPublisher{},
		tolerance:  billing.DefaultPaymentTolerance,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert creates a document when its ID is unseen and replaces it in place
// otherwise. Stock sync runs only on first save of a revenue document, never
// on edits.
func (s *DocumentService) Upsert(ctx context.Context, tenantID uuid.UUID, input UpsertDocumentInput) (*DocumentResponse, error) {
	items, err := buildLineItems(input.Items)
	if err != nil {
		return nil, err
	}

	if input.ID != nil {
		existing, err := s.docRepo.FindByIDForTenant(ctx, tenantID, *input.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return s.revise(ctx, existing, input, items)
		}
	}

	return s.create(ctx, tenantID, input, items)
}

func (s *DocumentService) create(ctx context.Context, tenantID uuid.UUID, input UpsertDocumentInput, items []billing.LineItem) (*DocumentResponse, error) {
	doc, err := billing.NewDocument(
		tenantID,
		billing.DocumentType(input.Type),
		input.Number,
		input.Date,
		input.DueDate,
		input.ClientID,
		items,
		input.TaxRate,
		input.WithholdingRate,
		input.PaymentMethod,
		input.IsPOS,
	)
	if err != nil {
		return nil, err
	}
	// Callers may supply their own ID; the upsert keys on it.
	if input.ID != nil {
		doc.AssignID(*input.ID)
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	if err := s.stockSync.ApplyDocumentCreated(ctx, doc); err != nil {
		s.logger.Error("stock sync failed for created document",
			zap.String("tenant_id", tenantID.String()),
			zap.String("document", doc.Number),
			zap.Error(err))
	}

	s.publishEvents(ctx, doc.GetDomainEvents())
	doc.ClearDomainEvents()

	sync := s.replicate(ctx, tenantID, doc.ID, doc)
	return toDocumentResponse(doc, &sync), nil
}

func (s *DocumentService) revise(ctx context.Context, doc *billing.Document, input UpsertDocumentInput, items []billing.LineItem) (*DocumentResponse, error) {
	err := doc.Revise(
		input.Number,
		input.Date,
		input.DueDate,
		input.ClientID,
		items,
		input.TaxRate,
		input.WithholdingRate,
		input.PaymentMethod,
		input.IsPOS,
		s.tolerance,
	)
	if err != nil {
		return nil, err
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	s.publishEvents(ctx, doc.GetDomainEvents())
	doc.ClearDomainEvents()

	sync := s.replicate(ctx, doc.TenantID, doc.ID, doc)
	return toDocumentResponse(doc, &sync), nil
}

// ApplyPayment appends a payment and re-derives the document status. A
// missing document or a non-positive amount is rejected before any mutation.
func (s *DocumentService) ApplyPayment(ctx context.Context, tenantID, docID uuid.UUID, input PaymentInput) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, docID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_OPERATION", "Cannot apply payment to a non-existent document")
		}
		return nil, err
	}

	payment, err := billing.NewPayment(input.Date, input.Amount, input.Method, input.Note)
	if err != nil {
		return nil, err
	}

	if err := doc.ApplyPayment(payment, s.tolerance); err != nil {
		return nil, err
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	s.publishEvents(ctx, doc.GetDomainEvents())
	doc.ClearDomainEvents()

	sync := s.replicate(ctx, tenantID, doc.ID, doc)
	return toDocumentResponse(doc, &sync), nil
}

// Delete removes a document and reverses the stock deduction its creation
// applied, for revenue types only.
func (s *DocumentService) Delete(ctx context.Context, tenantID, docID uuid.UUID) (*gateway.SyncStatus, error) {
	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}

	if err := s.docRepo.DeleteForTenant(ctx, tenantID, docID); err != nil {
		return nil, fmt.Errorf("failed to delete document: %w", err)
	}

	if err := s.stockSync.ReverseDocumentDeleted(ctx, doc); err != nil {
		s.logger.Error("stock reversal failed for deleted document",
			zap.String("tenant_id", tenantID.String()),
			zap.String("document", doc.Number),
			zap.Error(err))
	}

	s.publishEvents(ctx, []shared.DomainEvent{billing.NewDocumentDeletedEvent(doc)})

	sync := gateway.SyncComplete()
	if err := s.replicator.Remove(ctx, documentCollection, tenantID, docID); err != nil {
		sync = gateway.SyncRemoteFailed()
		s.logger.Warn("remote sync failed for deleted document",
			zap.String("tenant_id", tenantID.String()),
			zap.String("document_id", docID.String()),
			zap.Error(err))
	}
	return &sync, nil
}

// Get returns a single document with computed totals
func (s *DocumentService) Get(ctx context.Context, tenantID, docID uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, nil), nil
}

// List returns documents matching the filter, with the total count
func (s *DocumentService) List(ctx context.Context, tenantID uuid.UUID, filter DocumentListFilter) ([]DocumentResponse, int64, error) {
	domainFilter := billing.DocumentFilter{
		Filter:   shared.DefaultFilter(),
		ClientID: filter.ClientID,
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
		IsPOS:    filter.IsPOS,
	}
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Type != "" {
		docType := billing.DocumentType(filter.Type)
		domainFilter.Type = &docType
	}
	if filter.Status != "" {
		status := billing.DocumentStatus(filter.Status)
		domainFilter.Status = &status
	}

	docs, err := s.docRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.docRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = *toDocumentResponse(&docs[i], nil)
	}
	return responses, total, nil
}

func (s *DocumentService) replicate(ctx context.Context, tenantID, recordID uuid.UUID, record any) gateway.SyncStatus {
	sync := gateway.SyncComplete()
	if err := s.replicator.Replicate(ctx, documentCollection, tenantID, recordID, record); err != nil {
		sync = gateway.SyncRemoteFailed()
		s.logger.Warn("remote sync failed, record kept locally",
			zap.String("collection", documentCollection),
			zap.String("tenant_id", tenantID.String()),
			zap.String("record_id", recordID.String()),
			zap.Error(err))
	}
	return sync
}

func (s *DocumentService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

func buildLineItems(inputs []LineItemInput) ([]billing.LineItem, error) {
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Document must contain at least one line item")
	}
	items := make([]billing.LineItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := billing.NewLineItem(in.Description, in.Quantity, in.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
