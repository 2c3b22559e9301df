package persistence

import (
	"context"
	"errors"

	"github.com/billing/backend/internal/domain/cashier"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCashSessionRepository implements CashSessionRepository using GORM
type GormCashSessionRepository struct {
	db *gorm.DB
}

// NewGormCashSessionRepository creates a new GormCashSessionRepository
func NewGormCashSessionRepository(db *gorm.DB) *GormCashSessionRepository {
	return &GormCashSessionRepository{db: db}
}

// FindByIDForTenant finds a session by ID for a specific tenant
func (r *GormCashSessionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*cashier.CashSession, error) {
	var model models.CashSessionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenForTenant returns the tenant's OPEN session, or ErrNotFound
func (r *GormCashSessionRepository) FindOpenForTenant(ctx context.Context, tenantID uuid.UUID) (*cashier.CashSession, error) {
	var model models.CashSessionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, cashier.SessionStatusOpen).
		Order("opened_at desc").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all sessions for a tenant with filtering
func (r *GormCashSessionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter cashier.SessionFilter) ([]cashier.CashSession, error) {
	var sessionModels []models.CashSessionModel
	query := r.db.WithContext(ctx).Model(&models.CashSessionModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	query = query.Order("opened_at desc")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&sessionModels).Error; err != nil {
		return nil, err
	}

	sessions := make([]cashier.CashSession, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = *sessionModels[i].ToDomain()
	}
	return sessions, nil
}

// Save creates or updates a session
func (r *GormCashSessionRepository) Save(ctx context.Context, session *cashier.CashSession) error {
	model := models.CashSessionModelFromDomain(session)
	return r.db.WithContext(ctx).Save(model).Error
}
