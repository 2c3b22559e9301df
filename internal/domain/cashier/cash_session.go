package cashier

import (
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionStatus represents the lifecycle state of a cash session
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "OPEN"
	SessionStatusClosed SessionStatus = "CLOSED"
)

// IsValid checks if the status is a valid SessionStatus
func (s SessionStatus) IsValid() bool {
	return s == SessionStatusOpen || s == SessionStatusClosed
}

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// CashSession represents one cash-register session aggregate root. The state
// machine is OPEN -> CLOSED with no re-opening; the expected/actual/difference
// fields are written exactly once, at close, and a closed session is immutable
// afterward. Sessions are never deleted.
type CashSession struct {
	shared.TenantAggregateRoot
	UserID          uuid.UUID        `json:"user_id"`
	OpenedAt        time.Time        `json:"opened_at"`
	ClosedAt        *time.Time       `json:"closed_at,omitempty"`
	OpeningBalance  decimal.Decimal  `json:"opening_balance"`
	ExpectedBalance decimal.Decimal  `json:"expected_balance"`
	ActualBalance   *decimal.Decimal `json:"actual_balance,omitempty"`
	Difference      *decimal.Decimal `json:"difference,omitempty"`
	Status          SessionStatus    `json:"status"`
}

// NewCashSession opens a new session with the given opening float
func NewCashSession(tenantID, userID uuid.UUID, openingBalance decimal.Decimal) (*CashSession, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATION", "User reference is required")
	}
	if openingBalance.IsNegative() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Opening balance cannot be negative")
	}

	s := &CashSession{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		OpenedAt:            time.Now(),
		OpeningBalance:      openingBalance,
		ExpectedBalance:     openingBalance,
		Status:              SessionStatusOpen,
	}

	s.AddDomainEvent(NewCashSessionOpenedEvent(s))

	return s, nil
}

// IsOpen returns true while the session accepts movements and sales
func (s *CashSession) IsOpen() bool {
	return s.Status == SessionStatusOpen
}

// Close reconciles and terminates the session. This is the only write path
// for expectedBalance, actualBalance and difference.
func (s *CashSession) Close(expectedBalance, actualBalance decimal.Decimal) error {
	if !s.IsOpen() {
		return shared.NewDomainError("INVALID_STATE", "Cash session is not open")
	}
	if actualBalance.IsNegative() {
		return shared.NewDomainError("INVALID_OPERATION", "Counted balance cannot be negative")
	}

	now := time.Now()
	difference := actualBalance.Sub(expectedBalance)

	s.ExpectedBalance = expectedBalance
	s.ActualBalance = &actualBalance
	s.Difference = &difference
	s.Status = SessionStatusClosed
	s.ClosedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewCashSessionClosedEvent(s))

	return nil
}
