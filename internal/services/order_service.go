package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"checkout-service/internal/domain"
	"checkout-service/internal/infra"
	"checkout-service/internal/infra/gateway"
	rabbit "checkout-service/internal/infra/rabbitmq"
	"checkout-service/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrEmptyItems        = errors.New("order must contain at least one item")
	ErrInvalidQuantity   = errors.New("item quantity must be at least 1")
	ErrInvalidAddress    = errors.New("shipping address requires street name, city and pincode")
	ErrInvalidPincode    = errors.New("pincode must be a 6-digit number")
	ErrForbidden         = errors.New("order does not belong to caller")
	ErrNotCancellable    = errors.New("order is no longer cancellable")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrStatusConflict    = errors.New("order status changed concurrently")
	ErrGateway           = errors.New("payment gateway error")
)

var pincodeRe = regexp.MustCompile(`^\d{6}$`)

// PricingPolicy supplies the tax rate (basis points of the subtotal) and the
// flat shipping fee. Both default to zero.
type PricingPolicy struct {
	TaxBps      int64
	ShippingFee int64
	Currency    string
}

type OrderItemInput struct {
	ProductID string
	Quantity  int64
}

type OrderService struct {
	repo          repository.OrderRepository
	prodClient    infra.ProductClientInterface
	gateway       gateway.ClientInterface
	publisher     rabbit.PublisherInterface
	redisClient   *redis.Client
	signingSecret []byte
	pricing       PricingPolicy
}

func NewOrderService(r repository.OrderRepository, p infra.ProductClientInterface, gw gateway.ClientInterface, pub rabbit.PublisherInterface, signingSecret string, pricing PricingPolicy) *OrderService {
	if pricing.Currency == "" {
		pricing.Currency = "INR"
	}
	return &OrderService{
		repo:          r,
		prodClient:    p,
		gateway:       gw,
		publisher:     pub,
		signingSecret: []byte(signingSecret),
		pricing:       pricing,
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// CreateOrder validates the request, recomputes all totals from authoritative
// product records, persists the order in created status and opens a remote
// payment-order for the total. Client-submitted prices are never consulted.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, items []OrderItemInput, address domain.ShippingAddress) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}
	if address.StreetName == "" || address.City == "" || address.Pincode == "" {
		return nil, ErrInvalidAddress
	}
	if !pincodeRe.MatchString(address.Pincode) {
		return nil, ErrInvalidPincode
	}

	lines := make(domain.OrderItems, 0, len(items))
	var subTotal int64
	for _, it := range items {
		prod, err := s.getProductWithCache(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if prod == nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
		}
		unitPrice := prod.UnitPrice()
		lines = append(lines, domain.OrderItem{
			ProductID: prod.ID,
			Name:      prod.Name,
			UnitPrice: unitPrice,
			Quantity:  it.Quantity,
			ImageURL:  prod.ImageURL,
		})
		subTotal += unitPrice * it.Quantity
	}

	tax := subTotal * s.pricing.TaxBps / 10000
	order := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           lines,
		ShippingAddress: address,
		SubTotal:        subTotal,
		Tax:             tax,
		ShippingFee:     s.pricing.ShippingFee,
		TotalAmount:     subTotal + tax + s.pricing.ShippingFee,
		Currency:        s.pricing.Currency,
		Status:          domain.StatusCreated,
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	// The gateway works in minor units (paise). A failure here leaves the
	// order in created status; the cancellation path and the stale sweep
	// reap it.
	remote, err := s.gateway.CreateOrder(ctx, order.TotalAmount*100, order.Currency, order.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	order.Payment.GatewayOrderID = remote.ID
	if err := s.repo.SetGatewayOrder(ctx, order.ID, remote.ID); err != nil {
		return nil, err
	}

	go s.publishOrderEvent(context.Background(), domain.EventOrderCreated, order)

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID, userID string, isAdmin bool) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if !isAdmin && o.UserID != userID {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// CancelOrder removes an abandoned order. Only orders still in created status
// are eligible; the conditional delete closes the race with a late-arriving
// verification callback.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID string, isAdmin bool) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if !isAdmin && o.UserID != userID {
		return nil, ErrForbidden
	}
	if o.Status != domain.StatusCreated {
		return nil, ErrNotCancellable
	}

	deleted, err := s.repo.DeleteIfStatus(ctx, orderID, domain.StatusCreated)
	if err != nil {
		return nil, err
	}
	if !deleted {
		// A verification callback won the race.
		return nil, ErrNotCancellable
	}

	go s.publishOrderEvent(context.Background(), domain.EventOrderCancelled, o)

	return o, nil
}

// UpdateStatus applies an admin fulfillment transition (paid -> processing ->
// shipped -> delivered). Transitions only ever move forward.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatusFrom(ctx, orderID, o.Status, next, nil)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrStatusConflict
	}

	o.Status = next
	return o, nil
}

// ReapStaleOrders garbage-collects created orders whose checkout was never
// completed nor explicitly cancelled.
func (s *OrderService) ReapStaleOrders(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.repo.DeleteStaleCreated(ctx, time.Now().Add(-olderThan))
}

func (s *OrderService) getProductWithCache(ctx context.Context, productID string) (*infra.ProductInfo, error) {
	cacheKey := "product:" + productID

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var prod infra.ProductInfo
			if err := json.Unmarshal([]byte(cached), &prod); err == nil {
				return &prod, nil
			}
		}
	}

	prod, err := s.prodClient.GetProductById(ctx, productID)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil && prod != nil {
		if data, err := json.Marshal(prod); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, time.Minute)
		}
	}

	return prod, nil
}

func (s *OrderService) publishOrderEvent(ctx context.Context, event string, order *domain.Order) {
	evt := domain.OrderEvent{
		OrderID:          order.ID,
		UserID:           order.UserID,
		Status:           order.Status,
		TotalAmount:      order.TotalAmount,
		Currency:         order.Currency,
		GatewayOrderID:   order.Payment.GatewayOrderID,
		GatewayPaymentID: order.Payment.GatewayPaymentID,
		OccurredAt:       time.Now(),
	}

	if err := s.publisher.Publish(ctx, event, evt); err != nil {
		log.Printf("failed to publish %s event for order %s: %v", event, order.ID, err)
	}
}
