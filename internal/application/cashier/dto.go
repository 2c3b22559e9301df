package cashier

import (
	"time"

	"github.com/billing/backend/internal/application/gateway"
	"github.com/billing/backend/internal/domain/cashier"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenSessionInput is the request payload for opening a session
type OpenSessionInput struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CloseSessionInput is the request payload for closing a session
type CloseSessionInput struct {
	ActualBalance decimal.Decimal `json:"actual_balance"`
}

// MovementInput is the request payload for a manual cash movement
type MovementInput struct {
	Type        string          `json:"type" binding:"required,oneof=IN OUT"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
}

// SessionListFilter carries session list query parameters
type SessionListFilter struct {
	Status   string     `form:"status" binding:"omitempty,oneof=OPEN CLOSED"`
	UserID   *uuid.UUID `form:"user_id"`
	Page     int        `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// SessionResponse is the API representation of a cash session
type SessionResponse struct {
	ID              uuid.UUID           `json:"id"`
	TenantID        uuid.UUID           `json:"tenant_id"`
	UserID          uuid.UUID           `json:"user_id"`
	Status          string              `json:"status"`
	OpenedAt        time.Time           `json:"opened_at"`
	ClosedAt        *time.Time          `json:"closed_at,omitempty"`
	OpeningBalance  decimal.Decimal     `json:"opening_balance"`
	ExpectedBalance decimal.Decimal     `json:"expected_balance"`
	ActualBalance   *decimal.Decimal    `json:"actual_balance,omitempty"`
	Difference      *decimal.Decimal    `json:"difference,omitempty"`
	Sync            *gateway.SyncStatus `json:"sync,omitempty"`
}

// MovementResponse is the API representation of a cash movement
type MovementResponse struct {
	ID          uuid.UUID           `json:"id"`
	SessionID   uuid.UUID           `json:"session_id"`
	Type        string              `json:"type"`
	Amount      decimal.Decimal     `json:"amount"`
	Description string              `json:"description"`
	Date        time.Time           `json:"date"`
	Sync        *gateway.SyncStatus `json:"sync,omitempty"`
}

// ExpectedBalanceResponse is the derived reconciliation preview of an open session
type ExpectedBalanceResponse struct {
	SessionID       uuid.UUID       `json:"session_id"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
	ComputedAt      time.Time       `json:"computed_at"`
}

func toSessionResponse(session *cashier.CashSession, sync *gateway.SyncStatus) *SessionResponse {
	return &SessionResponse{
		ID:              session.ID,
		TenantID:        session.TenantID,
		UserID:          session.UserID,
		Status:          string(session.Status),
		OpenedAt:        session.OpenedAt,
		ClosedAt:        session.ClosedAt,
		OpeningBalance:  session.OpeningBalance,
		ExpectedBalance: session.ExpectedBalance,
		ActualBalance:   session.ActualBalance,
		Difference:      session.Difference,
		Sync:            sync,
	}
}

func toMovementResponse(movement *cashier.CashMovement, sync *gateway.SyncStatus) *MovementResponse {
	return &MovementResponse{
		ID:          movement.ID,
		SessionID:   movement.SessionID,
		Type:        string(movement.Type),
		Amount:      movement.Amount,
		Description: movement.Description,
		Date:        movement.Date,
		Sync:        sync,
	}
}
