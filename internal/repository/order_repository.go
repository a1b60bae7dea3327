package repository

import (
	"context"
	"time"

	"checkout-service/internal/domain"
)

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Order, error)
	SetGatewayOrder(ctx context.Context, id, gatewayOrderID string) error
	// UpdateStatusFrom performs a conditional transition: the update applies
	// only while the row is still in the `from` status. Returns false when
	// another writer got there first.
	UpdateStatusFrom(ctx context.Context, id string, from, to domain.OrderStatus, payment *domain.PaymentInfo) (bool, error)
	// DeleteIfStatus removes the order only while it is still in the given
	// status. Returns false when no row matched.
	DeleteIfStatus(ctx context.Context, id string, status domain.OrderStatus) (bool, error)
	DeleteStaleCreated(ctx context.Context, olderThan time.Time) (int64, error)
}
