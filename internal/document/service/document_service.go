package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/pricing"
	"comptoir/internal/storage"
)

type CatalogRepository interface {
	FindProductForUpdate(ctx context.Context, tx storage.Tx, id int) (*domain.Product, error)
	AdjustStock(ctx context.Context, tx storage.Tx, id int, delta int) error
	FindServiceInTx(ctx context.Context, tx storage.Tx, id int) (*domain.Service, error)
}

type CustomerRepository interface {
	ExistsInTx(ctx context.Context, tx storage.Tx, id int) error
}

type DocumentRepository interface {
	Insert(ctx context.Context, tx storage.Tx, doc domain.Document) (int, error)
	FindByID(ctx context.Context, id int) (*domain.Document, error)
	FindByIDForUpdate(ctx context.Context, tx storage.Tx, id int) (*domain.Document, error)
	List(ctx context.Context, docType domain.DocType) ([]domain.Document, error)
	UpdateHeader(ctx context.Context, tx storage.Tx, doc domain.Document) error
	UpdateStatus(ctx context.Context, id int, status string) error
}

type ItemRepository interface {
	Insert(ctx context.Context, tx storage.Tx, item domain.DocumentItem) (int, error)
	FindByDocumentID(ctx context.Context, documentID int) ([]domain.DocumentItem, error)
	FindByDocumentIDInTx(ctx context.Context, tx storage.Tx, documentID int) ([]domain.DocumentItem, error)
	DeleteByDocumentID(ctx context.Context, tx storage.Tx, documentID int) error
}

// DocumentService persists document headers with their items. Creation
// is all-or-nothing: every check runs against row-locked state before
// any stock moves, and the surrounding transaction rolls back on the
// first failure.
type DocumentService struct {
	txManager    storage.TxManager
	documentRepo DocumentRepository
	itemRepo     ItemRepository
	catalogRepo  CatalogRepository
	customerRepo CustomerRepository
	logger       *zap.Logger
	txTimeout    time.Duration
	maxAttempts  int
}

func NewDocumentService(
	txManager storage.TxManager,
	documentRepo DocumentRepository,
	itemRepo ItemRepository,
	catalogRepo CatalogRepository,
	customerRepo CustomerRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxAttempts int,
) *DocumentService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &DocumentService{
		txManager:    txManager,
		documentRepo: documentRepo,
		itemRepo:     itemRepo,
		catalogRepo:  catalogRepo,
		customerRepo: customerRepo,
		logger:       logger,
		txTimeout:    txTimeout,
		maxAttempts:  maxAttempts,
	}
}

// Create validates and persists a new document. The client-supplied
// total is never trusted: the breakdown is recomputed from the items
// and the document's tax parameters, and a mismatch is a validation
// failure.
func (s *DocumentService) Create(ctx context.Context, doc domain.Document, items []domain.DocumentItem) (*domain.Document, error) {
	if err := s.validateHeader(doc, items); err != nil {
		return nil, err
	}
	return s.withRetry(ctx, "create", func(txCtx context.Context, tx storage.Tx) (*domain.Document, error) {
		return s.createInTx(txCtx, tx, doc, items)
	})
}

// Update replaces an existing document's header and items in place.
// Stock is reconciled by the net difference between the old and new
// product quantities.
func (s *DocumentService) Update(ctx context.Context, doc domain.Document, items []domain.DocumentItem) (*domain.Document, error) {
	if doc.ID <= 0 {
		return nil, apperrors.NewValidationError("invalid document",
			apperrors.ValidationDetail{Field: "id", Message: "a positive document id is required"})
	}
	if err := s.validateHeader(doc, items); err != nil {
		return nil, err
	}
	return s.withRetry(ctx, "update", func(txCtx context.Context, tx storage.Tx) (*domain.Document, error) {
		return s.updateInTx(txCtx, tx, doc, items)
	})
}

func (s *DocumentService) Get(ctx context.Context, docType domain.DocType, id int) (*domain.Document, []domain.DocumentItem, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if doc.Type != docType {
		return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("%s with id %d not found", docType, id))
	}

	items, err := s.itemRepo.FindByDocumentID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return doc, items, nil
}

func (s *DocumentService) List(ctx context.Context, docType domain.DocType) ([]domain.Document, error) {
	return s.documentRepo.List(ctx, docType)
}

func (s *DocumentService) UpdateStatus(ctx context.Context, docType domain.DocType, id int, status string) error {
	if !docType.ValidStatus(status) {
		return apperrors.NewValidationError("invalid status",
			apperrors.ValidationDetail{Field: "status", Message: fmt.Sprintf("%q is not a valid %s status", status, docType)})
	}

	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.Type != docType {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %d not found", docType, id))
	}

	return s.documentRepo.UpdateStatus(ctx, id, status)
}

// withRetry runs fn inside a transaction, retrying on serialization
// conflicts up to the configured attempt budget.
func (s *DocumentService) withRetry(ctx context.Context, op string, fn func(ctx context.Context, tx storage.Tx) (*domain.Document, error)) (*domain.Document, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		doc, err := s.runInTx(ctx, fn)
		if err == nil {
			return doc, nil
		}
		if _, retryable := apperrors.IsConflictError(err); !retryable {
			return nil, err
		}
		lastErr = err
		s.logger.Warn("document transaction conflicted, retrying",
			zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, lastErr
}

func (s *DocumentService) runInTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) (*domain.Document, error)) (*domain.Document, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.txManager.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, apperrors.NewInternalError("beginning transaction", err)
	}
	// Rollback is a no-op after a successful commit.
	defer tx.Rollback()

	doc, err := fn(txCtx, tx)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, apperrors.NewInternalError("committing transaction", err)
	}
	return doc, nil
}

func (s *DocumentService) createInTx(ctx context.Context, tx storage.Tx, doc domain.Document, items []domain.DocumentItem) (*domain.Document, error) {
	if err := s.customerRepo.ExistsInTx(ctx, tx, doc.CustomerID); err != nil {
		return nil, err
	}

	resolved, deltas, err := s.resolveItems(ctx, tx, doc, items, true)
	if err != nil {
		return nil, err
	}

	verified, err := s.verifyTotals(doc, resolved)
	if err != nil {
		return nil, err
	}

	id, err := s.documentRepo.Insert(ctx, tx, *verified)
	if err != nil {
		return nil, err
	}
	verified.ID = id

	for _, item := range resolved {
		item.DocumentID = id
		if _, err := s.itemRepo.Insert(ctx, tx, item); err != nil {
			return nil, err
		}
	}

	if err := s.applyDeltas(ctx, tx, deltas); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		zap.String("docType", string(verified.Type)),
		zap.Int("documentId", id),
		zap.Int("customerId", verified.CustomerID),
		zap.Int("itemCount", len(resolved)),
		zap.String("total", verified.Total.StringFixed(3)))

	return verified, nil
}

func (s *DocumentService) updateInTx(ctx context.Context, tx storage.Tx, doc domain.Document, items []domain.DocumentItem) (*domain.Document, error) {
	existing, err := s.documentRepo.FindByIDForUpdate(ctx, tx, doc.ID)
	if err != nil {
		return nil, err
	}
	if existing.Type != doc.Type {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s with id %d not found", doc.Type, doc.ID))
	}

	if err := s.customerRepo.ExistsInTx(ctx, tx, doc.CustomerID); err != nil {
		return nil, err
	}

	oldItems, err := s.itemRepo.FindByDocumentIDInTx(ctx, tx, doc.ID)
	if err != nil {
		return nil, err
	}

	// Per-line stock checks are skipped here: reversing the old items can
	// free stock, so feasibility is judged on the net deltas below.
	resolved, deltas, err := s.resolveItems(ctx, tx, doc, items, false)
	if err != nil {
		return nil, err
	}

	// Fold the reversal of the old items into the same delta set so each
	// product is checked and adjusted exactly once.
	for _, old := range oldItems {
		if old.Ref.Kind != domain.LineProduct {
			continue
		}
		deltas[old.Ref.ID] -= stockDelta(doc.Type, old.Quantity)
	}
	if err := s.checkDeltas(ctx, tx, deltas); err != nil {
		return nil, err
	}

	verified, err := s.verifyTotals(doc, resolved)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.DeleteByDocumentID(ctx, tx, doc.ID); err != nil {
		return nil, err
	}
	for _, item := range resolved {
		item.DocumentID = doc.ID
		if _, err := s.itemRepo.Insert(ctx, tx, item); err != nil {
			return nil, err
		}
	}

	if err := s.documentRepo.UpdateHeader(ctx, tx, *verified); err != nil {
		return nil, err
	}
	if err := s.applyDeltas(ctx, tx, deltas); err != nil {
		return nil, err
	}

	s.logger.Info("document updated",
		zap.String("docType", string(verified.Type)),
		zap.Int("documentId", verified.ID),
		zap.Int("itemCount", len(resolved)))

	return verified, nil
}

// resolveItems locks every referenced product, checks existence and
// stock, fills in missing name snapshots from the catalog and returns
// the net stock delta per product. No state is mutated here.
func (s *DocumentService) resolveItems(ctx context.Context, tx storage.Tx, doc domain.Document, items []domain.DocumentItem, enforceLineStock bool) ([]domain.DocumentItem, map[int]int, error) {
	resolved := make([]domain.DocumentItem, 0, len(items))
	deltas := make(map[int]int)

	for _, item := range items {
		switch item.Ref.Kind {
		case domain.LineProduct:
			product, err := s.catalogRepo.FindProductForUpdate(ctx, tx, item.Ref.ID)
			if err != nil {
				return nil, nil, err
			}
			if enforceLineStock && doc.Type.StockEffect() == domain.StockConsume && !product.CanFulfil(item.Quantity) {
				return nil, nil, apperrors.NewInsufficientStockError(product.ID, item.Quantity, product.Stock)
			}
			if item.Name == "" {
				item.Name = product.Name
			}
			deltas[item.Ref.ID] += stockDelta(doc.Type, item.Quantity)
		case domain.LineService:
			svc, err := s.catalogRepo.FindServiceInTx(ctx, tx, item.Ref.ID)
			if err != nil {
				return nil, nil, err
			}
			if item.Name == "" {
				item.Name = svc.Name
			}
		}
		resolved = append(resolved, item)
	}

	return resolved, deltas, nil
}

// checkDeltas re-verifies that no net delta drives a locked product's
// stock negative. Used on update, where reversals can make an otherwise
// valid quantity infeasible.
func (s *DocumentService) checkDeltas(ctx context.Context, tx storage.Tx, deltas map[int]int) error {
	for productID, delta := range deltas {
		if delta >= 0 {
			continue
		}
		product, err := s.catalogRepo.FindProductForUpdate(ctx, tx, productID)
		if err != nil {
			return err
		}
		if product.Stock+delta < 0 {
			return apperrors.NewInsufficientStockError(productID, -delta, product.Stock)
		}
	}
	return nil
}

func (s *DocumentService) applyDeltas(ctx context.Context, tx storage.Tx, deltas map[int]int) error {
	for productID, delta := range deltas {
		if delta == 0 {
			continue
		}
		if err := s.catalogRepo.AdjustStock(ctx, tx, productID, delta); err != nil {
			return err
		}
	}
	return nil
}

// verifyTotals recomputes the breakdown from the items and rejects a
// client total that disagrees with it. The persisted header always
// carries the recomputed amounts.
func (s *DocumentService) verifyTotals(doc domain.Document, items []domain.DocumentItem) (*domain.Document, error) {
	breakdown, err := pricing.Compute(items, pricing.Params{
		UseVAT:          doc.UseVAT,
		VATRate:         doc.VATRate,
		DiscountPercent: doc.DiscountPercent,
		StampDuty:       doc.StampDuty,
	})
	if err != nil {
		return nil, err
	}

	if !doc.Total.IsZero() && !breakdown.TotalMatches(doc.Total) {
		return nil, apperrors.NewValidationError("total mismatch",
			apperrors.ValidationDetail{
				Field: "total",
				Message: fmt.Sprintf("claimed total %s does not match computed total %s",
					doc.Total.StringFixed(3), breakdown.Total.StringFixed(3)),
			})
	}

	doc.Subtotal = breakdown.Subtotal
	doc.DiscountAmount = breakdown.DiscountAmount
	doc.VATAmount = breakdown.VATAmount
	doc.StampDuty = breakdown.StampDuty
	doc.Total = breakdown.Total
	return &doc, nil
}

func (s *DocumentService) validateHeader(doc domain.Document, items []domain.DocumentItem) error {
	var details []apperrors.ValidationDetail

	if !doc.Type.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "docType",
			Message: fmt.Sprintf("%q is not a valid document type", string(doc.Type)),
		})
	}
	if doc.CustomerID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customerId",
			Message: "customerId is required",
		})
	}
	if doc.Date.IsZero() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "date",
			Message: "date is required",
		})
	}
	if doc.Type.Valid() && !doc.Type.ValidStatus(doc.Status) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("%q is not a valid %s status", doc.Status, doc.Type),
		})
	}
	// Quotes and delivery notes carry no payment; the others must.
	if doc.PaymentType != "" && !doc.PaymentType.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "paymentType",
			Message: fmt.Sprintf("%q is not a valid payment type", string(doc.PaymentType)),
		})
	} else if doc.PaymentType == "" && (doc.Type == domain.DocTypeInvoice || doc.Type == domain.DocTypeCreditNote) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "paymentType",
			Message: "paymentType is required",
		})
	}
	if len(items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "at least one item is required",
		})
	}

	seen := make(map[domain.LineRef]bool)
	for idx, item := range items {
		if err := item.Validate(); err != nil {
			ve, _ := apperrors.IsValidationError(err)
			for _, d := range ve.Details {
				details = append(details, apperrors.ValidationDetail{
					Field:   fmt.Sprintf("items[%d].%s", idx, d.Field),
					Message: d.Message,
				})
			}
			continue
		}
		if seen[item.Ref] {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d]", idx),
				Message: "duplicate line for the same catalog entry",
			})
		}
		seen[item.Ref] = true
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func stockDelta(docType domain.DocType, quantity int) int {
	switch docType.StockEffect() {
	case domain.StockConsume:
		return -quantity
	case domain.StockRestore:
		return quantity
	}
	return 0
}
