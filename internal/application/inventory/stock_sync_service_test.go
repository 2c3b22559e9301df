package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestDocument(t *testing.T, tenantID uuid.UUID, docType billing.DocumentType, items ...billing.LineItem) *billing.Document {
	t.Helper()
	doc, err := billing.NewDocument(
		tenantID,
		docType,
		"FV-100",
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		nil,
		uuid.New(),
		items,
		decimal.NewFromInt(19),
		decimal.Zero,
		"",
		false,
	)
	assert.NoError(t, err)
	return doc
}

func mustLineItem(t *testing.T, description string, quantity int64) billing.LineItem {
	t.Helper()
	item, err := billing.NewLineItem(description, decimal.NewFromInt(quantity), decimal.NewFromInt(1000))
	assert.NoError(t, err)
	return item
}

func TestStockSyncService_CreateThenDeleteRoundTrip(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewStockSyncService(mockRepo, nil, nil)

	ctx := context.Background()
	tenantID := newTestTenantID()
	doc := newTestDocument(t, tenantID, billing.DocumentTypeInvoice, mustLineItem(t, "Arroz 1kg", 3))

	product, _ := catalog.NewProduct(tenantID, "Arroz 1kg", decimal.NewFromInt(500), decimal.NewFromInt(1000), decimal.NewFromInt(10), "", "")
	mockRepo.On("FindAllForTenant", ctx, tenantID, mock.Anything).Return([]catalog.Product{*product}, nil).Once()
	mockRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	assert.NoError(t, service.ApplyDocumentCreated(ctx, doc))
	afterCreate := mockRepo.Calls[1].Arguments.Get(1).(*catalog.Product)
	assert.True(t, afterCreate.Stock.Equal(decimal.NewFromInt(7)))

	// Second load returns the persisted state, as the repository would.
	persisted := *afterCreate
	mockRepo.On("FindAllForTenant", ctx, tenantID, mock.Anything).Return([]catalog.Product{persisted}, nil).Once()

	assert.NoError(t, service.ReverseDocumentDeleted(ctx, doc))
	afterDelete := mockRepo.Calls[3].Arguments.Get(1).(*catalog.Product)
	assert.True(t, afterDelete.Stock.Equal(decimal.NewFromInt(10)))

	mockRepo.AssertExpectations(t)
}

func TestStockSyncService_UnmatchedItemIsSkipped(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewStockSyncService(mockRepo, nil, nil)

	ctx := context.Background()
	tenantID := newTestTenantID()
	doc := newTestDocument(t, tenantID, billing.DocumentTypeInvoice,
		mustLineItem(t, "Servicio de transporte", 1),
		mustLineItem(t, "Arroz 1kg", 2),
	)

	product, _ := catalog.NewProduct(tenantID, "Arroz 1kg", decimal.NewFromInt(500), decimal.NewFromInt(1000), decimal.NewFromInt(5), "", "")

	mockRepo.On("FindAllForTenant", ctx, tenantID, mock.Anything).Return([]catalog.Product{*product}, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil).Once()

	err := service.ApplyDocumentCreated(ctx, doc)

	assert.NoError(t, err)
	saved := mockRepo.Calls[1].Arguments.Get(1).(*catalog.Product)
	assert.Equal(t, "Arroz 1kg", saved.Description)
	assert.True(t, saved.Stock.Equal(decimal.NewFromInt(3)))
	mockRepo.AssertExpectations(t)
}

func TestStockSyncService_QuoteIsNoOp(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewStockSyncService(mockRepo, nil, nil)

	ctx := context.Background()
	doc := newTestDocument(t, newTestTenantID(), billing.DocumentTypeQuote, mustLineItem(t, "Arroz 1kg", 3))

	assert.NoError(t, service.ApplyDocumentCreated(ctx, doc))
	assert.NoError(t, service.ReverseDocumentDeleted(ctx, doc))
	mockRepo.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestStockSyncService_BarcodeBeatsDescription(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewStockSyncService(mockRepo, nil, nil)

	ctx := context.Background()
	tenantID := newTestTenantID()
	doc := newTestDocument(t, tenantID, billing.DocumentTypeInvoice, mustLineItem(t, "7701234567890", 1))

	byDescription, _ := catalog.NewProduct(tenantID, "7701234567890", decimal.NewFromInt(500), decimal.NewFromInt(1000), decimal.NewFromInt(5), "", "")
	byBarcode, _ := catalog.NewProduct(tenantID, "Gaseosa 350ml", decimal.NewFromInt(800), decimal.NewFromInt(1500), decimal.NewFromInt(20), "7701234567890", "")

	mockRepo.On("FindAllForTenant", ctx, tenantID, mock.Anything).Return([]catalog.Product{*byDescription, *byBarcode}, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil).Once()

	err := service.ApplyDocumentCreated(ctx, doc)

	assert.NoError(t, err)
	saved := mockRepo.Calls[1].Arguments.Get(1).(*catalog.Product)
	assert.Equal(t, "Gaseosa 350ml", saved.Description)
	assert.True(t, saved.Stock.Equal(decimal.NewFromInt(19)))
	mockRepo.AssertExpectations(t)
}
