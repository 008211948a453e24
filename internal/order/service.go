package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"materiaux-bot/internal/catalog"
	"materiaux-bot/internal/logger"
	"materiaux-bot/internal/session"

	"go.uber.org/zap"
)

type Service interface {
	// Finalize converts a completed checkout session into a durable
	// order. Unit prices are read from the catalog at finalize time so
	// the stored total and the stored line prices come from the same
	// read.
	Finalize(ctx context.Context, sess *session.Session) (*Order, error)

	ListRecent(ctx context.Context, limit int) ([]Order, error)
	Detail(ctx context.Context, orderID int64) (*Order, error)
	SetStatus(ctx context.Context, orderID int64, token string) (*Order, error)
}

type service struct {
	repo    Repository
	catalog catalog.Repository
}

func NewService(repo Repository, catalogRepo catalog.Repository) Service {
	return &service{repo: repo, catalog: catalogRepo}
}

func (s *service) Finalize(ctx context.Context, sess *session.Session) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Finalize"),
		zap.String("session_id", sess.ID.String()),
		zap.Int("line_count", len(sess.Lines)),
	)

	if len(sess.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if sess.DeliveryType == nil {
		return nil, ErrMissingDelivery
	}

	items := make([]Item, 0, len(sess.Lines))
	total := 0.0

	for _, line := range sess.Lines {
		p, err := s.catalog.GetByID(ctx, line.ProductID)
		if err != nil {
			log.Error("failed to resolve product at finalize",
				zap.Int64("product_id", line.ProductID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("resolve product %d: %w", line.ProductID, err)
		}

		items = append(items, Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			Unit:        p.Unit,
			Quantity:    line.Quantity,
			UnitPrice:   p.UnitPrice,
		})
		total += line.Quantity * p.UnitPrice
	}

	total += sess.DeliveryType.Surcharge()

	o := &Order{
		UserID:       sess.UserID,
		Status:       StatusNew,
		Total:        total,
		DeliveryType: *sess.DeliveryType,
		Address:      sess.Address,
		Phone:        sess.Phone,
		CreatedAt:    time.Now(),
		Items:        items,
	}

	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	log.Info("order finalized",
		zap.Int64("order_id", o.ID),
		zap.Float64("total", o.Total),
		zap.String("delivery_type", string(o.DeliveryType)),
	)

	return o, nil
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	return s.repo.GetRecent(ctx, limit)
}

func (s *service) Detail(ctx context.Context, orderID int64) (*Order, error) {
	return s.repo.GetDetail(ctx, orderID)
}

func (s *service) SetStatus(ctx context.Context, orderID int64, token string) (*Order, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(token)))
	if status == "" {
		return nil, fmt.Errorf("empty status token")
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", string(status)),
	)

	return o, nil
}
