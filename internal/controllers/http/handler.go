package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"checkout-service/internal/domain"
	"checkout-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type Handler struct {
	service   *services.OrderService
	rdb       *redis.Client
	jwtSecret []byte
	keyID     string
}

func NewHandler(s *services.OrderService, rdb *redis.Client, jwtSecret []byte, keyID string) *Handler {
	return &Handler{service: s, rdb: rdb, jwtSecret: jwtSecret, keyID: keyID}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	auth := r.Group("/", AuthRequired(h.jwtSecret))
	auth.POST("/orders", h.CreateOrder)
	auth.POST("/orders/verify", h.VerifyPayment)
	auth.GET("/orders", h.ListOrders)
	auth.GET("/orders/:id", h.GetOrder)
	auth.DELETE("/orders/:id", h.CancelOrder)
	auth.PATCH("/orders/:id/status", AdminRequired(), h.UpdateStatus)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]services.OrderItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = services.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	address := domain.ShippingAddress{
		ApartmentName: req.ShippingAddress.ApartmentName,
		StreetName:    req.ShippingAddress.StreetName,
		City:          req.ShippingAddress.City,
		State:         req.ShippingAddress.State,
		Country:       req.ShippingAddress.Country,
		Pincode:       req.ShippingAddress.Pincode,
	}

	order, err := h.service.CreateOrder(c.Request.Context(), c.GetString(ctxUserID), items, address)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.invalidateOrderCache(order.UserID)

	c.JSON(http.StatusCreated, CreateOrderResponse{
		OrderID:              order.ID,
		RemotePaymentOrderID: order.Payment.GatewayOrderID,
		Amount:               order.TotalAmount * 100,
		Currency:             order.Currency,
		KeyID:                h.keyID,
	})
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	order, err := h.service.VerifyPayment(c.Request.Context(), services.VerifyPaymentInput{
		OrderID:          req.OrderID,
		GatewayOrderID:   req.RemotePaymentOrderID,
		GatewayPaymentID: req.RemotePaymentID,
		GatewaySignature: req.RemoteSignature,
	})
	if err != nil {
		if errors.Is(err, services.ErrSignatureMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "payment verification failed"})
			return
		}
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		if errors.Is(err, services.ErrVerifyFieldsMissing) || errors.Is(err, services.ErrGatewayOrderMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		h.writeServiceError(c, err)
		return
	}

	h.invalidateOrderCache(order.UserID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "payment verified"})
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"), c.GetString(ctxUserID), c.GetBool(ctxIsAdmin))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	cacheKey := "orders:user:" + userID

	ctx := c.Request.Context()
	if b, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
		var orders []domain.Order
		if json.Unmarshal([]byte(b), &orders) == nil {
			c.JSON(http.StatusOK, orders)
			return
		}
	}

	orders, err := h.service.ListUserOrders(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if data, err := json.Marshal(orders); err == nil {
		h.rdb.Set(ctx, cacheKey, data, 10*time.Second)
	}

	c.JSON(http.StatusOK, orders)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	order, err := h.service.CancelOrder(c.Request.Context(), c.Param("id"), c.GetString(ctxUserID), c.GetBool(ctxIsAdmin))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.invalidateOrderCache(order.UserID)

	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	next, err := domain.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), next)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.invalidateOrderCache(order.UserID)

	c.JSON(http.StatusOK, order)
}

func (h *Handler) invalidateOrderCache(userID string) {
	if h.rdb != nil {
		h.rdb.Del(context.Background(), "orders:user:"+userID)
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmptyItems),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidAddress),
		errors.Is(err, services.ErrInvalidPincode),
		errors.Is(err, services.ErrVerifyFieldsMissing),
		errors.Is(err, services.ErrGatewayOrderMismatch),
		errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotCancellable),
		errors.Is(err, services.ErrStatusConflict),
		errors.Is(err, services.ErrOrderNotAwaitingPayment):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrGateway):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
