package cashier

import (
	"context"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SessionFilter defines filtering options for session queries
type SessionFilter struct {
	shared.Filter
	Status *SessionStatus // Filter by lifecycle state
	UserID *uuid.UUID     // Filter by opening user
}

// CashSessionRepository defines the interface for cash session persistence.
// Sessions are never deleted, so no delete operation exists.
type CashSessionRepository interface {
	// FindByIDForTenant finds a session by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CashSession, error)

	// FindOpenForTenant returns the tenant's OPEN session, or ErrNotFound
	FindOpenForTenant(ctx context.Context, tenantID uuid.UUID) (*CashSession, error)

	// FindAllForTenant finds all sessions for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter SessionFilter) ([]CashSession, error)

	// Save creates or updates a session
	Save(ctx context.Context, session *CashSession) error
}

// CashMovementRepository defines the interface for cash movement persistence.
// Movements are append-only; there is no update or delete.
type CashMovementRepository interface {
	// FindBySession returns the movements of a session in creation order
	FindBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]CashMovement, error)

	// Save persists a new movement
	Save(ctx context.Context, movement *CashMovement) error
}
