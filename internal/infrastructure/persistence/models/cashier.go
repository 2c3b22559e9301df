package models

import (
	"time"

	"github.com/billing/backend/internal/domain/cashier"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashSessionModel is the persistence model for the CashSession aggregate
// root. Actual balance and difference stay NULL until the session closes.
type CashSessionModel struct {
	TenantAggregateModel
	UserID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	OpenedAt        time.Time             `gorm:"not null;index"`
	ClosedAt        *time.Time            `gorm:"index"`
	OpeningBalance  decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	ExpectedBalance decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	ActualBalance   *decimal.Decimal      `gorm:"type:decimal(18,4)"`
	Difference      *decimal.Decimal      `gorm:"type:decimal(18,4)"`
	Status          cashier.SessionStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
}

// TableName returns the table name for GORM
func (CashSessionModel) TableName() string {
	return "cash_sessions"
}

// ToDomain converts the persistence model to a domain CashSession
func (m *CashSessionModel) ToDomain() *cashier.CashSession {
	session := &cashier.CashSession{
		UserID:          m.UserID,
		OpenedAt:        m.OpenedAt,
		ClosedAt:        m.ClosedAt,
		OpeningBalance:  m.OpeningBalance,
		ExpectedBalance: m.ExpectedBalance,
		ActualBalance:   m.ActualBalance,
		Difference:      m.Difference,
		Status:          m.Status,
	}
	m.PopulateTenantAggregateRoot(&session.TenantAggregateRoot)
	return session
}

// FromDomain populates the persistence model from a domain CashSession
func (m *CashSessionModel) FromDomain(session *cashier.CashSession) {
	m.FromDomainTenantAggregateRoot(session.TenantAggregateRoot)
	m.UserID = session.UserID
	m.OpenedAt = session.OpenedAt
	m.ClosedAt = session.ClosedAt
	m.OpeningBalance = session.OpeningBalance
	m.ExpectedBalance = session.ExpectedBalance
	m.ActualBalance = session.ActualBalance
	m.Difference = session.Difference
	m.Status = session.Status
}

// CashSessionModelFromDomain creates a new persistence model from a domain CashSession
func CashSessionModelFromDomain(session *cashier.CashSession) *CashSessionModel {
	m := &CashSessionModel{}
	m.FromDomain(session)
	return m
}

// CashMovementModel is the persistence model for cash movements. Rows are
// append-only; there is no update path.
type CashMovementModel struct {
	BaseModel
	TenantID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	SessionID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	Type        cashier.MovementType `gorm:"type:varchar(10);not null"`
	Amount      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Description string               `gorm:"type:varchar(300);not null"`
	Date        time.Time            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CashMovementModel) TableName() string {
	return "cash_movements"
}

// ToDomain converts the persistence model to a domain CashMovement
func (m *CashMovementModel) ToDomain() *cashier.CashMovement {
	return &cashier.CashMovement{
		BaseEntity:  m.BaseModel.ToDomain(),
		TenantID:    m.TenantID,
		SessionID:   m.SessionID,
		Type:        m.Type,
		Amount:      m.Amount,
		Description: m.Description,
		Date:        m.Date,
	}
}

// FromDomain populates the persistence model from a domain CashMovement
func (m *CashMovementModel) FromDomain(movement *cashier.CashMovement) {
	m.FromDomainBaseEntity(movement.BaseEntity)
	m.TenantID = movement.TenantID
	m.SessionID = movement.SessionID
	m.Type = movement.Type
	m.Amount = movement.Amount
	m.Description = movement.Description
	m.Date = movement.Date
}

// CashMovementModelFromDomain creates a new persistence model from a domain CashMovement
func CashMovementModelFromDomain(movement *cashier.CashMovement) *CashMovementModel {
	m := &CashMovementModel{}
	m.FromDomain(movement)
	return m
}
