package mysql

import (
	"context"
	"errors"
	"log"
	"time"

	"checkout-service/internal/domain"
	"checkout-service/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Create(order)
	if result.Error != nil {
		log.Printf("order save error: %v", result.Error)
		return result.Error
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("order find error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("order list error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) SetGatewayOrder(ctx context.Context, id, gatewayOrderID string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("payment_gateway_order_id", gatewayOrderID).Error
}

func (r *orderRepo) UpdateStatusFrom(ctx context.Context, id string, from, to domain.OrderStatus, payment *domain.PaymentInfo) (bool, error) {
	updates := map[string]any{"status": to}
	if payment != nil {
		updates["payment_gateway_order_id"] = payment.GatewayOrderID
		updates["payment_gateway_payment_id"] = payment.GatewayPaymentID
		updates["payment_gateway_signature"] = payment.GatewaySignature
		updates["payment_method"] = payment.Method
		updates["payment_captured"] = payment.Captured
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		log.Printf("order status update error: %v", result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepo) DeleteIfStatus(ctx context.Context, id string, status domain.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, status).
		Delete(&domain.Order{})
	if result.Error != nil {
		log.Printf("order delete error: %v", result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepo) DeleteStaleCreated(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", domain.StatusCreated, olderThan).
		Delete(&domain.Order{})
	if result.Error != nil {
		log.Printf("stale order sweep error: %v", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
