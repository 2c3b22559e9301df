package cashier

import (
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashSessionOpenedEvent is raised when a session is opened
type CashSessionOpenedEvent struct {
	shared.BaseDomainEvent
	SessionID      uuid.UUID       `json:"session_id"`
	UserID         uuid.UUID       `json:"user_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	OpenedAt       time.Time       `json:"opened_at"`
}

// EventType returns the event type name
func (e *CashSessionOpenedEvent) EventType() string {
	return "CashSessionOpened"
}

// NewCashSessionOpenedEvent creates a new CashSessionOpenedEvent
func NewCashSessionOpenedEvent(s *CashSession) *CashSessionOpenedEvent {
	return &CashSessionOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CashSessionOpened", "CashSession", s.ID, s.TenantID),
		SessionID:       s.ID,
		UserID:          s.UserID,
		OpeningBalance:  s.OpeningBalance,
		OpenedAt:        s.OpenedAt,
	}
}

// CashSessionClosedEvent is raised when a session is reconciled and closed
type CashSessionClosedEvent struct {
	shared.BaseDomainEvent
	SessionID       uuid.UUID       `json:"session_id"`
	UserID          uuid.UUID       `json:"user_id"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
	ActualBalance   decimal.Decimal `json:"actual_balance"`
	Difference      decimal.Decimal `json:"difference"`
	ClosedAt        time.Time       `json:"closed_at"`
}

// EventType returns the event type name
func (e *CashSessionClosedEvent) EventType() string {
	return "CashSessionClosed"
}

// NewCashSessionClosedEvent creates a new CashSessionClosedEvent
func NewCashSessionClosedEvent(s *CashSession) *CashSessionClosedEvent {
	e := &CashSessionClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CashSessionClosed", "CashSession", s.ID, s.TenantID),
		SessionID:       s.ID,
		UserID:          s.UserID,
		ExpectedBalance: s.ExpectedBalance,
	}
	if s.ActualBalance != nil {
		e.ActualBalance = *s.ActualBalance
	}
	if s.Difference != nil {
		e.Difference = *s.Difference
	}
	if s.ClosedAt != nil {
		e.ClosedAt = *s.ClosedAt
	}
	return e
}
