package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/service"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/validation"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/pkg/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success            bool                `json:"success"`
	Message            string              `json:"message,omitempty"`
	Data               interface{}         `json:"data,omitempty"`
	Pagination         *domain.Pagination  `json:"pagination,omitempty"`
	Note               string              `json:"note,omitempty"`
	Errors             []domain.FieldError `json:"errors,omitempty"`
	AllowedTransitions []domain.Status     `json:"allowedTransitions,omitempty"`
	Error              string              `json:"error,omitempty"`
}

type OrderHandler struct {
	orderService *service.OrderService
	validator    *validation.Validator
	logger       *zap.Logger
	production   bool
}

func NewOrderHandler(orderService *service.OrderService, validator *validation.Validator, logger *zap.Logger, production bool) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator,
		logger:       logger,
		production:   production,
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req domain.CreateOrderRequest

	// Request binding
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	in, err := h.validator.CreateOrder(req)
	if err != nil {
		h.respondError(c, "Error creating order", err)
		return
	}

	// Request ID from middleware
	requestID := c.GetString(middleware.RequestIDKey)

	res, err := h.orderService.CreateOrder(c.Request.Context(), in, requestID)
	if err != nil {
		h.respondError(c, "Error creating order", err)
		return
	}

	resp := Response{
		Success: true,
		Message: "Order created successfully",
		Data:    res.Order,
	}
	if res.Degraded {
		minutes := 0
		if eta := res.Order.EstimatedDeliveryTime; eta != nil {
			minutes = int(eta.Sub(res.Order.CreatedAt) / time.Minute)
		}
		resp.Message = fmt.Sprintf("Order %s placed successfully! Estimated time: %d minutes.", res.Order.OrderNumber, minutes)
		resp.Note = service.DegradedNote
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	res, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "Error fetching order", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    res.Order,
		Note:    note(res.Degraded),
	})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	q, err := h.validator.OrderQuery(c.Request.URL.Query())
	if err != nil {
		h.respondError(c, "Error fetching orders", err)
		return
	}

	res, err := h.orderService.ListOrders(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, "Error fetching orders", err)
		return
	}

	orders := res.Orders
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       orders,
		Pagination: &res.Pagination,
		Note:       note(res.Degraded),
	})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if req.UpdatedBy == "" {
		req.UpdatedBy = c.GetString(middleware.UserIDKey)
	}

	status, updatedBy, err := h.validator.UpdateStatus(req)
	if err != nil {
		h.respondError(c, "Error updating order status", err)
		return
	}

	res, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), status, updatedBy, c.GetString(middleware.RequestIDKey))
	if err != nil {
		h.respondError(c, "Error updating order status", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Order status updated successfully",
		Data:    res.Order,
		Note:    note(res.Degraded),
	})
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var req domain.CancelOrderRequest
	// body는 선택 사항
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if req.UpdatedBy == "" {
		req.UpdatedBy = c.GetString(middleware.UserIDKey)
	}

	updatedBy, err := h.validator.Cancel(req)
	if err != nil {
		h.respondError(c, "Error cancelling order", err)
		return
	}

	res, err := h.orderService.CancelOrder(c.Request.Context(), c.Param("id"), updatedBy, c.GetString(middleware.RequestIDKey))
	if err != nil {
		h.respondError(c, "Error cancelling order", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Order cancelled successfully",
		Data:    res.Order,
		Note:    note(res.Degraded),
	})
}

func (h *OrderHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"status":    "healthy",
		"service":   "order-service",
		"store":     h.orderService.Health(),
		"timestamp": time.Now().UTC(),
	})
}

func (h *OrderHandler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Success: false,
		Message: "Route not found",
	})
}

// respondError maps service and validation errors onto HTTP statuses.
func (h *OrderHandler) respondError(c *gin.Context, fallbackMessage string, err error) {
	var (
		verr *domain.ValidationError
		rerr *domain.ReferenceError
		serr *domain.StateError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: "Validation errors",
			Errors:  verr.Fields,
		})
	case errors.As(err, &rerr):
		msg := "Menu item not found: " + rerr.MenuItemID
		if errors.Is(rerr, domain.ErrMenuItemUnavailable) {
			msg = "Menu item not available: " + rerr.Name
		}
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: msg,
			Errors:  []domain.FieldError{{Field: "items", Message: msg}},
		})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Message: "Order not found",
		})
	case errors.As(err, &serr):
		msg := fmt.Sprintf("Cannot change order status from %s to %s", serr.From, serr.To)
		if serr.From == domain.StatusDelivered && serr.To == domain.StatusCancelled {
			msg = "Cannot cancel delivered order"
		}
		c.JSON(http.StatusConflict, Response{
			Success:            false,
			Message:            msg,
			AllowedTransitions: domain.AllowedTransitions(serr.From),
		})
	default:
		h.fail(c, http.StatusInternalServerError, fallbackMessage, err)
	}
}

func (h *OrderHandler) fail(c *gin.Context, status int, message string, err error) {
	requestID := c.GetString(middleware.RequestIDKey)
	if status >= http.StatusInternalServerError {
		h.logger.Error(message, zap.String("request_id", requestID), zap.Error(err))
	} else {
		h.logger.Warn(message, zap.String("request_id", requestID), zap.Error(err))
	}

	resp := Response{Success: false, Message: message}
	if !h.production {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

func note(degraded bool) string {
	if degraded {
		return service.DegradedNote
	}
	return ""
}
