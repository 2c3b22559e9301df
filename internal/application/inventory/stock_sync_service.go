package inventory

import (
	"context"
	"fmt"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// StockSyncService adjusts catalog stock in response to document lifecycle
// events. It runs exactly once per revenue-document creation and once per
// deletion; edits of an existing document never touch stock.
//
// Line items reference products by free text, so each item is resolved
// through the matcher chain (barcode first, then description). Items with no
// catalog match are skipped silently: not every invoiced item is a catalog
// product.
type StockSyncService struct {
	productRepo catalog.ProductRepository
	matchers    *catalog.MatcherChain
	logger      *zap.Logger
}

// NewStockSyncService creates a new StockSyncService
func NewStockSyncService(productRepo catalog.ProductRepository, matchers *catalog.MatcherChain, logger *zap.Logger) *StockSyncService {
	if matchers == nil {
		matchers = catalog.DefaultMatcherChain()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockSyncService{
		productRepo: productRepo,
		matchers:    matchers,
		logger:      logger,
	}
}

// ApplyDocumentCreated deducts stock for every matched line item of a newly
// created revenue document. Non-revenue documents are a no-op.
func (s *StockSyncService) ApplyDocumentCreated(ctx context.Context, doc *billing.Document) error {
	if !doc.Type.IsRevenue() {
		return nil
	}
	return s.adjust(ctx, doc, false)
}

// ReverseDocumentDeleted restores the exact stock delta that the document's
// creation applied. No zero floor or cap is applied in either direction.
func (s *StockSyncService) ReverseDocumentDeleted(ctx context.Context, doc *billing.Document) error {
	if !doc.Type.IsRevenue() {
		return nil
	}
	return s.adjust(ctx, doc, true)
}

func (s *StockSyncService) adjust(ctx context.Context, doc *billing.Document, reverse bool) error {
	products, err := s.productRepo.FindAllForTenant(ctx, doc.TenantID, catalog.ProductFilter{})
	if err != nil {
		return fmt.Errorf("failed to load product catalog: %w", err)
	}

	reason := fmt.Sprintf("document %s created", doc.Number)
	if reverse {
		reason = fmt.Sprintf("document %s deleted", doc.Number)
	}

	for _, item := range doc.Items {
		product, strategy := s.matchers.Match(item.Description, products)
		if product == nil {
			s.logger.Debug("no catalog match for line item, skipping",
				zap.String("tenant_id", doc.TenantID.String()),
				zap.String("document", doc.Number),
				zap.String("item", item.Description))
			continue
		}

		delta := item.Quantity
		if !reverse {
			delta = delta.Neg()
		}
		product.AdjustStock(delta, reason)

		if err := s.productRepo.Save(ctx, product); err != nil {
			return fmt.Errorf("failed to save stock adjustment for product %s: %w", product.ID, err)
		}

		s.logger.Debug("stock adjusted",
			zap.String("tenant_id", doc.TenantID.String()),
			zap.String("document", doc.Number),
			zap.String("product", product.Description),
			zap.String("strategy", strategy),
			zap.String("delta", delta.String()),
			zap.String("stock", product.Stock.String()))
	}

	return nil
}
