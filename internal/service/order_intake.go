package service

import (
	"context"
	"fmt"

	"lifecycle-service/internal/models"
	"lifecycle-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderIntake records orders handed over by the checkout/payment pipeline so
// they become trackable. Order status progression stays upstream.
type OrderIntake struct {
	store  OrderStore
	cache  TrackingCache
	logger *zap.Logger
}

// NewOrderIntake creates a new order intake service
func NewOrderIntake(store OrderStore, cache TrackingCache) *OrderIntake {
	return &OrderIntake{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// CreateOrderRequest represents a paid checkout handed over for tracking
type CreateOrderRequest struct {
	CustomerID   uuid.UUID          `json:"customer_id" binding:"required"`
	CustomerName string             `json:"customer_name" binding:"required"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderItemRequest is one product line with its checkout price snapshot
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Price     int64  `json:"price" binding:"required,min=0"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Image     string `json:"image,omitempty"`
}

// CreateOrder persists the order in pending with a fresh tracking code.
func (s *OrderIntake) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderIntake.CreateOrder")
	defer span.End()

	trackingCode, err := generateTrackingCode(ctx, s.cache, models.KindOrder)
	if err != nil {
		return nil, err
	}

	var total int64
	items := make([]models.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		}
		total += item.Price * int64(item.Quantity)
	}

	order := &models.Order{
		ID:           uuid.New(),
		TrackingCode: trackingCode,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		TotalAmount:  total,
		Status:       models.OrderPending,
		Items:        items,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("Order recorded for tracking",
		zap.String("order_id", order.ID.String()),
		zap.String("tracking_code", order.TrackingCode))

	return order, nil
}

// Get retrieves an order by ID.
func (s *OrderIntake) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.store.GetOrderByID(ctx, id)
}
