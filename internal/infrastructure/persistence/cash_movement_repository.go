package persistence

import (
	"context"

	"github.com/billing/backend/internal/domain/cashier"
	"github.com/billing/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCashMovementRepository implements CashMovementRepository using GORM.
// Movements are append-only, so only insert and read paths exist.
type GormCashMovementRepository struct {
	db *gorm.DB
}

// NewGormCashMovementRepository creates a new GormCashMovementRepository
func NewGormCashMovementRepository(db *gorm.DB) *GormCashMovementRepository {
	return &GormCashMovementRepository{db: db}
}

// FindBySession returns the movements of a session in creation order
func (r *GormCashMovementRepository) FindBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]cashier.CashMovement, error) {
	var movementModels []models.CashMovementModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID).
		Order("created_at asc").
		Find(&movementModels).Error; err != nil {
		return nil, err
	}

	movements := make([]cashier.CashMovement, len(movementModels))
	for i := range movementModels {
		movements[i] = *movementModels[i].ToDomain()
	}
	return movements, nil
}

// Save persists a new movement
func (r *GormCashMovementRepository) Save(ctx context.Context, movement *cashier.CashMovement) error {
	model := models.CashMovementModelFromDomain(movement)
	return r.db.WithContext(ctx).Create(model).Error
}
