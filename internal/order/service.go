// Package order implements order intake: validate every line, persist the
// order atomically, then enqueue one reconciliation job per line.
package order

import (
	"context"
	"errors"
	"fmt"

	"siparis-backend/internal/metrics"
	"siparis-backend/internal/models"
	"siparis-backend/internal/queue"
	"siparis-backend/internal/stock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LineInput is one proposed (product, quantity) pair.
type LineInput struct {
	ProductID uint
	Quantity  int64
}

// LineError is one field-level failure, addressed by line index.
type LineError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects failures across every line so the caller gets the
// complete picture, not just the first offender.
type ValidationErrors struct {
	Lines []LineError
}

func (e *ValidationErrors) Error() string {
	return fmt.Sprintf("order validation failed with %d error(s)", len(e.Lines))
}

func (e *ValidationErrors) add(index int, field, message string) {
	e.Lines = append(e.Lines, LineError{Index: index, Field: field, Message: message})
}

// Store persists orders. CreateWithLines is all-or-nothing.
type Store interface {
	CreateWithLines(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id uint) (*models.Order, error)
}

// ProductFinder answers whether a product exists in the catalog.
type ProductFinder interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// LineValidator is the stock-sufficiency check (satisfied by *stock.Validator).
type LineValidator interface {
	Validate(ctx context.Context, productID uint, quantity int64) error
}

type Service struct {
	store     Store
	products  ProductFinder
	validator LineValidator
	jobs      queue.Publisher
	log       *zap.Logger
}

func NewService(store Store, products ProductFinder, validator LineValidator, jobs queue.Publisher, log *zap.Logger) *Service {
	return &Service{store: store, products: products, validator: validator, jobs: jobs, log: log}
}

// Create runs intake for a proposed order. Every line must pass validation
// before anything is persisted; on success the order and all lines commit in
// one transaction and one reconciliation job per line is enqueued
// fire-and-forget. The stock figures read here are advisory only: decrements
// happen later, so two orders can both pass and jointly over-commit an
// ingredient. See the race tests in service_test.go.
func (s *Service) Create(ctx context.Context, lines []LineInput) (*models.Order, error) {
	verrs := &ValidationErrors{}

	if len(lines) == 0 {
		verrs.add(-1, "products", "at least one product is required")
		metrics.OrdersRejected.Inc()
		return nil, verrs
	}

	for i, line := range lines {
		if line.Quantity < 1 {
			verrs.add(i, "quantity", "quantity must be at least 1")
			continue
		}
		exists, err := s.products.Exists(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("look up product %d: %w", line.ProductID, err)
		}
		if !exists {
			verrs.add(i, "product_id", fmt.Sprintf("product %d does not exist", line.ProductID))
			continue
		}
		if err := s.validator.Validate(ctx, line.ProductID, line.Quantity); err != nil {
			var ise *stock.InsufficientStockError
			if errors.As(err, &ise) {
				verrs.add(i, "quantity", ise.Error())
				continue
			}
			return nil, fmt.Errorf("validate line %d: %w", i, err)
		}
	}

	if len(verrs.Lines) > 0 {
		metrics.OrdersRejected.Inc()
		return nil, verrs
	}

	o := &models.Order{}
	for _, line := range lines {
		o.Lines = append(o.Lines, models.OrderLine{
			LineKey:   uuid.NewString(),
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	if err := s.store.CreateWithLines(ctx, o); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	metrics.OrdersCreated.Inc()

	for _, line := range o.Lines {
		job := queue.ReconcileJob{
			LineID:    line.LineKey,
			OrderID:   o.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
		if err := s.jobs.PublishReconcile(ctx, job); err != nil {
			// The order is already committed; the caller is not failed over a
			// queueing problem. Operational visibility has to catch this.
			s.log.Error("failed to enqueue reconciliation job",
				zap.String("line_id", line.LineKey),
				zap.Uint("order_id", o.ID),
				zap.Error(err))
		}
	}

	s.log.Info("order created",
		zap.Uint("order_id", o.ID),
		zap.Int("lines", len(o.Lines)))
	return o, nil
}

// Get loads an order with its lines.
func (s *Service) Get(ctx context.Context, id uint) (*models.Order, error) {
	return s.store.Get(ctx, id)
}
