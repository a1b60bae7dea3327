package http

type OrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

type ShippingAddressRequest struct {
	ApartmentName string `json:"apartmentName"`
	StreetName    string `json:"streetName" binding:"required"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state"`
	Country       string `json:"country"`
	Pincode       string `json:"pincode" binding:"required"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress" binding:"required"`
}

// CreateOrderResponse carries everything the client needs to open the hosted
// checkout. Amount is in minor units, matching the remote payment-order.
type CreateOrderResponse struct {
	OrderID              string `json:"orderId"`
	RemotePaymentOrderID string `json:"remotePaymentOrderId"`
	Amount               int64  `json:"amount"`
	Currency             string `json:"currency"`
	KeyID                string `json:"keyId"`
}

type VerifyPaymentRequest struct {
	OrderID              string `json:"orderId" binding:"required"`
	RemotePaymentOrderID string `json:"remotePaymentOrderId" binding:"required"`
	RemotePaymentID      string `json:"remotePaymentId" binding:"required"`
	RemoteSignature      string `json:"remoteSignature" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
