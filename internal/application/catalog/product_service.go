package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/billing/backend/internal/application/gateway"
	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const productCollection = "products"

// ProductService owns product CRUD and manual stock edits. Document-driven
// stock adjustments go through the stock sync service instead.
type ProductService struct {
	productRepo catalog.ProductRepository
	replicator  gateway.RecordReplicator
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// ProductServiceOption is a functional option for configuring ProductService
type ProductServiceOption func(*ProductService)

// WithReplicator attaches a remote record replicator
func WithReplicator(replicator gateway.RecordReplicator) ProductServiceOption {
	return func(s *ProductService) {
		s.replicator = replicator
	}
}

// WithEventPublisher attaches a domain event publisher
func WithEventPublisher(publisher shared.EventPublisher) ProductServiceOption {
	return func(s *ProductService) {
		s.publisher = publisher
	}
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger, opts ...ProductServiceOption) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ProductService{
		productRepo: productRepo,
		replicator:  gateway.NoopReplicator{},
		publisher:   shared.NoopEventPublisher{},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert creates a product, or revises it when the input carries the ID of
// an existing one. Revisions replace the editable fields and the stock count
// outright (last writer wins).
func (s *ProductService) Upsert(ctx context.Context, tenantID uuid.UUID, input UpsertProductInput) (*ProductResponse, error) {
	if input.ID != nil {
		existing, err := s.productRepo.FindByIDForTenant(ctx, tenantID, *input.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return s.revise(ctx, existing, input)
		}
	}
	return s.create(ctx, tenantID, input)
}

func (s *ProductService) create(ctx context.Context, tenantID uuid.UUID, input UpsertProductInput) (*ProductResponse, error) {
	product, err := catalog.NewProduct(tenantID, input.Description, input.PurchasePrice, input.SalePrice, input.Stock, input.Barcode, input.SKU)
	if err != nil {
		return nil, err
	}
	if input.ID != nil {
		product.ID = *input.ID
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	sync := s.replicate(ctx, tenantID, product)
	return toProductResponse(product, &sync), nil
}

func (s *ProductService) revise(ctx context.Context, product *catalog.Product, input UpsertProductInput) (*ProductResponse, error) {
	if err := product.Update(input.Description, input.PurchasePrice, input.SalePrice, input.Barcode, input.SKU); err != nil {
		return nil, err
	}
	if !product.Stock.Equal(input.Stock) {
		product.SetStock(input.Stock, "manual edit")
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.publishEvents(ctx, product.GetDomainEvents())
	product.ClearDomainEvents()

	sync := s.replicate(ctx, product.TenantID, product)
	return toProductResponse(product, &sync), nil
}

// AdjustStock applies a signed manual stock delta. Stock may go negative.
func (s *ProductService) AdjustStock(ctx context.Context, tenantID, productID uuid.UUID, input AdjustStockInput) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	reason := input.Reason
	if reason == "" {
		reason = "manual adjustment"
	}
	product.AdjustStock(input.Delta, reason)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.publishEvents(ctx, product.GetDomainEvents())
	product.ClearDomainEvents()

	sync := s.replicate(ctx, tenantID, product)
	return toProductResponse(product, &sync), nil
}

// Get returns a single product
func (s *ProductService) Get(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, nil), nil
}

// List returns products matching the filter, with a total count for paging
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	domainFilter := catalog.ProductFilter{Filter: shared.DefaultFilter(), Barcode: filter.Barcode, SKU: filter.SKU}
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = *toProductResponse(&products[i], nil)
	}

	result := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Delete removes a product. Documents that referenced it keep their line
// items untouched; matching simply stops resolving to it.
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return err
	}
	if err := s.productRepo.DeleteForTenant(ctx, tenantID, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if err := s.replicator.Remove(ctx, productCollection, tenantID, productID); err != nil {
		s.logger.Warn("remote removal failed, record removed locally",
			zap.String("collection", productCollection),
			zap.String("tenant_id", tenantID.String()),
			zap.String("record_id", productID.String()),
			zap.Error(err))
	}
	return nil
}

func (s *ProductService) replicate(ctx context.Context, tenantID uuid.UUID, product *catalog.Product) gateway.SyncStatus {
	sync := gateway.SyncComplete()
	if err := s.replicator.Replicate(ctx, productCollection, tenantID, product.ID, product); err != nil {
		sync = gateway.SyncRemoteFailed()
		s.logger.Warn("remote sync failed, record kept locally",
			zap.String("collection", productCollection),
			zap.String("tenant_id", tenantID.String()),
			zap.String("record_id", product.ID.String()),
			zap.Error(err))
	}
	return sync
}

func (s *ProductService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
