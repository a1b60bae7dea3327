package domain

import "time"

const (
	EventOrderCreated       = "order.created"
	EventOrderPaid          = "order.paid"
	EventOrderPaymentFailed = "order.payment_failed"
	EventOrderCancelled     = "order.cancelled"
)

type OrderEvent struct {
	OrderID          string      `json:"orderId"`
	UserID           string      `json:"userId"`
	Status           OrderStatus `json:"status"`
	TotalAmount      int64       `json:"totalAmount"`
	Currency         string      `json:"currency"`
	GatewayOrderID   string      `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string      `json:"gatewayPaymentId,omitempty"`
	OccurredAt       time.Time   `json:"occurredAt"`
}
