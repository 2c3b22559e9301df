package billing

import (
	"context"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentFilter defines filtering options for document queries
type DocumentFilter struct {
	shared.Filter
	Type     *DocumentType   // Filter by document type
	Status   *DocumentStatus // Filter by payment status
	ClientID *uuid.UUID      // Filter by client
	FromDate *time.Time      // Filter by document date range start
	ToDate   *time.Time      // Filter by document date range end
	IsPOS    *bool           // Filter point-of-sale documents
}

// DocumentRepository defines the interface for document persistence
type DocumentRepository interface {
	// FindByIDForTenant finds a document by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Document, error)

	// FindByNumber finds a document by its number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Document, error)

	// FindAllForTenant finds all documents for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter DocumentFilter) ([]Document, error)

	// FindRevenueSince finds revenue documents (invoices and collection
	// accounts) dated on or after the given instant. Used by the cash
	// session reconciliation.
	FindRevenueSince(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]Document, error)

	// Save creates or updates a document (last-writer-wins)
	Save(ctx context.Context, doc *Document) error

	// DeleteForTenant removes a document for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts documents for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter DocumentFilter) (int64, error)
}
