package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	inventoryapp "github.com/billing/backend/internal/application/inventory"
	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockDocumentRepository is a mock implementation of DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Document, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Document, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter billing.DocumentFilter) ([]billing.Document, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindRevenueSince(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]billing.Document, error) {
	args := m.Called(ctx, tenantID, since)
	return args.Get(0).([]billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *billing.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter billing.DocumentFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

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

// MockReplicator is a mock implementation of gateway.RecordReplicator
type MockReplicator struct {
	mock.Mock
}

func (m *MockReplicator) Replicate(ctx context.Context, collection string, tenantID, recordID uuid.UUID, record any) error {
	args := m.Called(ctx, collection, tenantID, recordID, record)
	return args.Error(0)
}

func (m *MockReplicator) Remove(ctx context.Context, collection string, tenantID, recordID uuid.UUID) error {
	args := m.Called(ctx, collection, tenantID, recordID)
	return args.Error(0)
}

// Test helper functions
func newTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestClientID() uuid.UUID {
	return uuid.MustParse("22222222-2222-2222-2222-222222222222")
}

func newTestService(docRepo *MockDocumentRepository, productRepo *MockProductRepository, opts ...DocumentServiceOption) *DocumentService {
	stockSync := inventoryapp.NewStockSyncService(productRepo, nil, nil)
	return NewDocumentService(docRepo, stockSync, nil, opts...)
}

func invoiceInput() UpsertDocumentInput {
	return UpsertDocumentInput{
		Type:     "INVOICE",
		Number:   "FV-001",
		Date:     time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		ClientID: newTestClientID(),
		Items: []LineItemInput{
			{Description: "Cafe molido 500g", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(1000)},
		},
		TaxRate: decimal.NewFromInt(19),
	}
}

func createTestDocument(t *testing.T, tenantID uuid.UUID) *billing.Document {
	t.Helper()
	item, err := billing.NewLineItem("Cafe molido 500g", decimal.NewFromInt(2), decimal.NewFromInt(1000))
	assert.NoError(t, err)
	doc, err := billing.NewDocument(
		tenantID,
		billing.DocumentTypeInvoice,
		"FV-001",
		time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		nil,
		newTestClientID(),
		[]billing.LineItem{item},
		decimal.NewFromInt(19),
		decimal.Zero,
		"",
		false,
	)
	assert.NoError(t, err)
	doc.ClearDomainEvents()
	return doc
}

func TestDocumentService_Upsert_CreateDeductsStock(t *testing.T) {
	mockDocRepo := new(MockDocumentRepository)
	mockProductRepo := new(MockProductRepository)
	service := newTestService(mockDocRepo, mockProductRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()

	product, _ := catalog.NewProduct(tenantID, "Cafe molido 500g", decimal.NewFromInt(700), decimal.NewFromInt(1000), decimal.NewFromInt(10), "", "")

	mockDocRepo.On("Save", ctx, mock.AnythingOfType("*billing.Document")).Return(nil)
	mockProductRepo.On("FindAllForTenant", ctx, tenantID, mock.Anything).Return([]catalog.Product{*product}, nil)
	mockProductRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Upsert(ctx, tenantID, invoiceInput())

	assert.NoError(t, err)
	assert.Equal(t, "PENDING", result.Status)
	assert.True(t, result.Totals.Net.Equal(decimal.NewFromInt(2380)))

	saved := mockProductRepo.Calls[1].Arguments.Get(1).(*catalog.Product)
	assert.True(t, saved.Stock.Equal(decimal.NewFromInt(8)), "stock should drop from 10 to 8, got %s", saved.Stock)
	mockDocRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
}

func TestDocumentService_Upsert_EditDoesNotTouchStock(t *testing.T) {
	mockDocRepo := new(MockDocumentRepository)
	mockProductRepo := new(MockProductRepository)
	service := newTestService(mockDocRepo, mockProductRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	existing := createTestDocument(t, tenantID)

	input := invoiceInput()
	input.ID = &existing.ID
	input.Items = []LineItemInput{
		{Description: "Cafe molido 500g", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(1000)},
	}

	mockDocRepo.On("FindByIDForTenant", ctx, tenantID, existing.ID).Return(existing, nil)
	mockDocRepo.On("Save", ctx, mock.AnythingOfType("*billing.Document")).Return(nil)

	result, err := service.Upsert(ctx, tenantID, input)

	assert.NoError(t, err)
	assert.True(t, result.Totals.Subtotal.Equal(decimal.NewFromInt(5000)))
	mockProductRepo.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything, mock.Anything)
	mockProductRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockDocRepo.AssertExpectations(t)
}

func TestDocumentService_Upsert_EditKeepsPayments(t *testing.T) {
	mockDocRepo := new(MockDocumentRepository)
	mockProductRepo := new(MockProductRepository)
	service := newTestService(mockDocRepo, mockProductRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	existing := createTestDocument(t, tenantID)
	payment, _ := billing.NewPayment(time.Now(), decimal.NewFromInt(1000), "CASH", "")
	assert.NoError(t, existing.ApplyPayment(payment, billing.DefaultPaymentTolerance))
	existing.ClearDomainEvents()

	input := invoiceInput()
	input.ID = &existing.ID

	mockDocRepo.On("FindByIDForTenant", ctx, tenantID, existing.ID).Return(existing, nil)
	mockDocRepo.On("Save", ctx, mock.AnythingOfType("*billing.Document")).Return(nil)

	result, err := service.Upsert(ctx, tenantID, input)

	assert.NoError(t, err)
	assert.Len(t, result.Payments, 1)
	assert.Equal(t, "PARTIAL", result.Status)
	mockDocRepo.AssertExpectations(t)
}

func TestDocumentService_ApplyPayment_MissingDocument(t *testing.T) {
	mockDocRepo := new(MockDocumentRepository)
	mockProductRepo := new(MockProductRepository)
	service := newTestService(mockDocRepo, mockProductRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	docID := uuid.New()

	mockDocRepo.On("FindByIDForTenant", ctx, tenantID, docID).Return(nil, shared.ErrNotFound)

	result, err := service.ApplyPayment(ctx, tenantID, docID, PaymentInput{
		Amount: decimal.NewFromInt(1000),
		Method: "CASH",
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_OPERATION", domainErr.Code)
	mockDocRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDocumentService_ApplyPayment_SettlesWithinTolerance(t *testing.T) {
	mockDocRepo := new(MockDocumentRepository)
	mockProductRepo := new(MockProductRepository)
	service := newTestService(mockDocRepo, mockProductRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	doc := createTestDocument(t, tenantID)

	mockDocRepo.On("FindByIDForTenant", ctx, tenantID, doc.ID).Return(doc, nil)
	mockDocRepo.On("Save", ctx, mock.AnythingOfType("*billing.Document")).Return(nil)

	// Net is 2380; a payment one peso short still settles the document.
	result, err := service.ApplyPayment(ctx, tenantID, doc.ID, PaymentInput{
		Amount: decimal.NewFromInt(2379),
		Method: "CASH",
	})

	assert.NoError(t, err)
	assert.Equal(t, "PAID", result.Status)
	assert.Equal(t, "CASH", result.PaymentMethod)
	mockDocRepo.AssertExpectations(t)
}

func TestDocumentService_Delete_ReversesStock(t *testing.T) {
	mockDocRepo := new(MockDocumentRepository)
	mockProductRepo := new(MockProductRepository)
	service := newTestService(mockDocRepo, mockProductRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	doc := createTestDocument(t, tenantID)

	product, _ := catalog.NewProduct(tenantID, "Cafe molido 500g", decimal.NewFromInt(700), decimal.NewFromInt(1000), decimal.NewFromInt(8), "", "")

	mockDocRepo.On("FindByIDForTenant", ctx, tenantID, doc.ID).Return(doc, nil)
	mockDocRepo.On("DeleteForTenant", ctx, tenantID, doc.ID).Return(nil)
	mockProductRepo.On("FindAllForTenant", ctx, tenantID, mock.Anything).Return([]catalog.Product{*product}, nil)
	mockProductRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	sync, err := service.Delete(ctx, tenantID, doc.ID)

	assert.NoError(t, err)
	assert.True(t, sync.PersistedLocally)

	saved := mockProductRepo.Calls[1].Arguments.Get(1).(*catalog.Product)
	assert.True(t, saved.Stock.Equal(decimal.NewFromInt(10)), "stock should return from 8 to 10, got %s", saved.Stock)
	mockDocRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
}

func TestDocumentService_Upsert_RemoteSyncFailureIsSoft(t *testing.T) {
	mockDocRepo := new(MockDocumentRepository)
	mockProductRepo := new(MockProductRepository)
	mockReplicator := new(MockReplicator)
	service := newTestService(mockDocRepo, mockProductRepo, WithReplicator(mockReplicator))

	ctx := context.Background()
	tenantID := newTestTenantID()

	mockDocRepo.On("Save", ctx, mock.AnythingOfType("*billing.Document")).Return(nil)
	mockProductRepo.On("FindAllForTenant", ctx, tenantID, mock.Anything).Return([]catalog.Product{}, nil)
	mockReplicator.On("Replicate", ctx, "documents", tenantID, mock.Anything, mock.Anything).Return(errors.New("redis: connection refused"))

	result, err := service.Upsert(ctx, tenantID, invoiceInput())

	assert.NoError(t, err)
	assert.True(t, result.Sync.PersistedLocally)
	assert.False(t, result.Sync.PersistedRemotely)
	assert.Equal(t, shared.ErrRemoteSyncFailed.Code, result.Sync.RemoteError)
	mockDocRepo.AssertExpectations(t)
	mockReplicator.AssertExpectations(t)
}

func TestDocumentService_Upsert_InvalidLineItem(t *testing.T) {
	mockDocRepo := new(MockDocumentRepository)
	mockProductRepo := new(MockProductRepository)
	service := newTestService(mockDocRepo, mockProductRepo)

	input := invoiceInput()
	input.Items = []LineItemInput{
		{Description: "Cafe molido 500g", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(1000)},
	}

	result, err := service.Upsert(context.Background(), newTestTenantID(), input)

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_OPERATION", domainErr.Code)
	mockDocRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// CapturingEventPublisher records published events for inspection
type CapturingEventPublisher struct {
	events []shared.DomainEvent
}

func (p *CapturingEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func TestDocumentService_Upsert_SuppliedIDFlowsIntoCreatedEvent(t *testing.T) {
	mockDocRepo := new(MockDocumentRepository)
	mockProductRepo := new(MockProductRepository)
	publisher := &CapturingEventPublisher{}
	service := newTestService(mockDocRepo, mockProductRepo, WithEventPublisher(publisher))

	ctx := context.Background()
	tenantID := newTestTenantID()
	suppliedID := uuid.MustParse("33333333-3333-3333-3333-333333333333")

	mockDocRepo.On("FindByIDForTenant", ctx, tenantID, suppliedID).Return(nil, shared.ErrNotFound)
	mockDocRepo.On("Save", ctx, mock.AnythingOfType("*billing.Document")).Return(nil)
	mockProductRepo.On("FindAllForTenant", ctx, tenantID, mock.Anything).Return([]catalog.Product{}, nil)

	input := invoiceInput()
	input.ID = &suppliedID

	result, err := service.Upsert(ctx, tenantID, input)

	assert.NoError(t, err)
	assert.Equal(t, suppliedID, result.ID)

	assert.Len(t, publisher.events, 1)
	created, ok := publisher.events[0].(*billing.DocumentCreatedEvent)
	assert.True(t, ok)
	assert.Equal(t, suppliedID, created.AggregateID())
	assert.Equal(t, suppliedID, created.DocumentID)
}
