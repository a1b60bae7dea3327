package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type OrderStatus string

const (
	StatusCreated    OrderStatus = "created"
	StatusPaid       OrderStatus = "paid"
	StatusFailed     OrderStatus = "failed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// transitions is the forward-only lifecycle. failed, delivered and cancelled
// are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusCreated:    {StatusPaid, StatusFailed, StatusCancelled},
	StatusPaid:       {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(raw) {
	case StatusCreated, StatusPaid, StatusFailed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(raw), nil
	}
	return "", errors.New("unknown order status: " + raw)
}

// OrderItem captures the unit price at order-creation time from the
// authoritative product record. Prices are whole rupees.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

type OrderItems []OrderItem

func (i OrderItems) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *OrderItems) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	}
	return errors.New("unsupported column type for order items")
}

type ShippingAddress struct {
	ApartmentName string `json:"apartmentName,omitempty"`
	StreetName    string `json:"streetName"`
	City          string `json:"city"`
	State         string `json:"state,omitempty"`
	Country       string `json:"country,omitempty"`
	Pincode       string `json:"pincode"`
}

func (a ShippingAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *ShippingAddress) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return errors.New("unsupported column type for shipping address")
}

// PaymentInfo is filled in two steps: GatewayOrderID when the remote
// payment-order is opened, the rest when the signature callback is verified.
// Captured is true only while the order status is paid.
type PaymentInfo struct {
	GatewayOrderID   string `json:"gatewayOrderId" gorm:"index"`
	GatewayPaymentID string `json:"gatewayPaymentId,omitempty"`
	GatewaySignature string `json:"gatewaySignature,omitempty"`
	Method           string `json:"method,omitempty"`
	Captured         bool   `json:"captured"`
}

type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;size:36"`
	UserID          string          `json:"userId" gorm:"not null;index;size:36"`
	Items           OrderItems      `json:"items" gorm:"type:json;not null"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"type:json;not null"`
	SubTotal        int64           `json:"subTotal" gorm:"not null"`
	Tax             int64           `json:"tax" gorm:"not null"`
	ShippingFee     int64           `json:"shippingFee" gorm:"not null"`
	TotalAmount     int64           `json:"totalAmount" gorm:"not null"`
	Currency        string          `json:"currency" gorm:"size:3;not null"`
	Status          OrderStatus     `json:"status" gorm:"type:enum('created','paid','failed','processing','shipped','delivered','cancelled');default:'created';index"`
	Payment         PaymentInfo     `json:"payment" gorm:"embedded;embeddedPrefix:payment_"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}
