package cashier

import (
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType represents the direction of a manual cash movement
type MovementType string

const (
	MovementTypeIn  MovementType = "IN"
	MovementTypeOut MovementType = "OUT"
)

// IsValid checks if the type is a valid MovementType
func (t MovementType) IsValid() bool {
	return t == MovementTypeIn || t == MovementTypeOut
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// CashMovement is an append-only entry in a session's cash ledger. Movements
// belong to exactly one session and are never mutated after creation.
type CashMovement struct {
	shared.BaseEntity
	TenantID    uuid.UUID       `json:"tenant_id"`
	SessionID   uuid.UUID       `json:"session_id"`
	Type        MovementType    `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// NewCashMovement creates a validated cash movement
func NewCashMovement(tenantID, sessionID uuid.UUID, movementType MovementType, amount decimal.Decimal, description string) (*CashMovement, error) {
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Session reference is required")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Movement type must be IN or OUT")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Movement amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Movement description cannot be empty")
	}

	return &CashMovement{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		SessionID:   sessionID,
		Type:        movementType,
		Amount:      amount,
		Description: description,
		Date:        time.Now(),
	}, nil
}

// SignedAmount returns the amount with direction applied (IN positive, OUT negative)
func (m *CashMovement) SignedAmount() decimal.Decimal {
	if m.Type == MovementTypeOut {
		return m.Amount.Neg()
	}
	return m.Amount
}
