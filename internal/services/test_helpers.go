package services

import (
	"time"

	"checkout-service/internal/domain"
	"checkout-service/internal/infra"
)

func CreateTestOrder(id, userID string, status domain.OrderStatus, totalAmount int64) *domain.Order {
	return &domain.Order{
		ID:     id,
		UserID: userID,
		Items: domain.OrderItems{
			{ProductID: TestProductID, Name: TestProductName, UnitPrice: totalAmount, Quantity: 1},
		},
		ShippingAddress: CreateTestAddress(),
		SubTotal:        totalAmount,
		TotalAmount:     totalAmount,
		Currency:        "INR",
		Status:          status,
		Payment: domain.PaymentInfo{
			GatewayOrderID: TestGatewayOrderID,
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func CreateTestAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		StreetName: "12 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		Country:    "India",
		Pincode:    "560001",
	}
}

func CreateTestProduct(id, name string, price, discountedPrice int64) *infra.ProductInfo {
	return &infra.ProductInfo{
		ID:              id,
		Name:            name,
		Price:           price,
		DiscountedPrice: discountedPrice,
		Stock:           10,
	}
}

const (
	TestUserID         = "user-1"
	TestOrderID        = "order-1"
	TestProductID      = "prod-1"
	TestProductName    = "Classic Snapback"
	TestGatewayOrderID = "pay_order_abc123"
	TestPaymentID      = "pay_xyz789"
	TestSecret         = "test-gateway-secret"
)
