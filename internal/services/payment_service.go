package services

import (
	"context"
	"errors"

	"checkout-service/internal/domain"
)

var (
	ErrVerifyFieldsMissing     = errors.New("all payment verification fields are required")
	ErrSignatureMismatch       = errors.New("payment signature mismatch")
	ErrGatewayOrderMismatch    = errors.New("gateway order id does not match this order")
	ErrOrderNotAwaitingPayment = errors.New("order is not awaiting payment")
)

type VerifyPaymentInput struct {
	OrderID          string
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
}

// VerifyPayment decides whether a completed hosted checkout is genuine. The
// recomputed HMAC is the sole authority: a match moves the order to paid with
// captured=true, a mismatch moves it to failed with captured=false. Replaying
// a valid payload against an already-paid order re-confirms paid; a paid
// order is never downgraded.
func (s *OrderService) VerifyPayment(ctx context.Context, in VerifyPaymentInput) (*domain.Order, error) {
	if in.OrderID == "" || in.GatewayOrderID == "" || in.GatewayPaymentID == "" || in.GatewaySignature == "" {
		return nil, ErrVerifyFieldsMissing
	}

	order, err := s.repo.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Payment.GatewayOrderID != "" && order.Payment.GatewayOrderID != in.GatewayOrderID {
		return nil, ErrGatewayOrderMismatch
	}

	genuine := verifySignature(s.signingSecret, in.GatewayOrderID, in.GatewayPaymentID, in.GatewaySignature)

	switch order.Status {
	case domain.StatusCreated:
		// fall through to the transition below
	case domain.StatusPaid:
		if genuine {
			return order, nil
		}
		return nil, ErrSignatureMismatch
	default:
		return nil, ErrOrderNotAwaitingPayment
	}

	payment := domain.PaymentInfo{
		GatewayOrderID:   in.GatewayOrderID,
		GatewayPaymentID: in.GatewayPaymentID,
		GatewaySignature: in.GatewaySignature,
		Method:           "gateway",
		Captured:         genuine,
	}

	next := domain.StatusFailed
	event := domain.EventOrderPaymentFailed
	if genuine {
		next = domain.StatusPaid
		event = domain.EventOrderPaid
	}

	updated, err := s.repo.UpdateStatusFrom(ctx, order.ID, domain.StatusCreated, next, &payment)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost the race: re-read and honour whatever landed first.
		current, err := s.repo.FindByID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrOrderNotFound
		}
		if current.Status == domain.StatusPaid && genuine {
			return current, nil
		}
		return nil, ErrStatusConflict
	}

	order.Status = next
	order.Payment = payment

	go s.publishOrderEvent(context.Background(), event, order)

	if !genuine {
		return nil, ErrSignatureMismatch
	}
	return order, nil
}
