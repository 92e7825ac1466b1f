package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/http/response"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/service"

	"github.com/gin-gonic/gin"
)

// SubstituteRequest one pre-approved substitute for an order line.
type SubstituteRequest struct {
	ProductCode string `json:"product_code" binding:"required"`
	Priority    int    `json:"priority" binding:"required"`
}

// OrderLineRequest one requested line on a new order.
type OrderLineRequest struct {
	ProductCode  string              `json:"product_code" binding:"required"`
	Quantity     int                 `json:"quantity" binding:"required"`
	ItemPriority string              `json:"item_priority"`
	Substitutes  []SubstituteRequest `json:"substitutes"`
}

// CreateOrderRequest order placement request
type CreateOrderRequest struct {
	CustomerID          uint               `json:"customer_id" binding:"required"`
	DeliveryDate        string             `json:"delivery_date" binding:"required"`
	DeliveryWindowStart string             `json:"delivery_window_start" binding:"required"`
	DeliveryWindowEnd   string             `json:"delivery_window_end" binding:"required"`
	Lines               []OrderLineRequest `json:"lines" binding:"required"`
}

// CancelOrderRequest order cancellation request
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CreateOrder places an order.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	lines := make([]service.PlaceOrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		subs := make([]service.SubstitutePreference, 0, len(line.Substitutes))
		for _, sub := range line.Substitutes {
			subs = append(subs, service.SubstitutePreference{
				ProductCode: sub.ProductCode,
				Priority:    sub.Priority,
			})
		}
		lines = append(lines, service.PlaceOrderLine{
			ProductCode:  line.ProductCode,
			Quantity:     line.Quantity,
			ItemPriority: line.ItemPriority,
			Substitutes:  subs,
		})
	}

	order, err := h.OrderService.PlaceOrder(service.PlaceOrderInput{
		CustomerID:          req.CustomerID,
		DeliveryDate:        req.DeliveryDate,
		DeliveryWindowStart: req.DeliveryWindowStart,
		DeliveryWindowEnd:   req.DeliveryWindowEnd,
		Lines:               lines,
		Actor:               actor(c),
	})
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}

	response.Success(c, order)
}

// ListOrders lists orders.
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	customerID, _ := strconv.ParseUint(c.Query("customer_id"), 10, 64)

	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		Page:       page,
		PageSize:   pageSize,
		CustomerID: uint(customerID),
		Status:     strings.TrimSpace(c.Query("status")),
		OrderNo:    strings.TrimSpace(c.Query("order_no")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder returns one order by business number.
func (h *Handler) GetOrder(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order number is required", nil)
		return
	}

	order, err := h.OrderService.GetByOrderNo(orderNo)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	response.Success(c, order)
}

// CancelOrder cancels an order, voiding its open invoices.
func (h *Handler) CancelOrder(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order number is required", nil)
		return
	}

	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.OrderService.Cancel(orderNo, actor(c), req.Reason)
	if err != nil {
		respondOrderCancelError(c, err)
		return
	}

	response.Success(c, order)
}

// GetOrderTracking returns the status trail of an order.
func (h *Handler) GetOrderTracking(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order number is required", nil)
		return
	}

	tracking, err := h.OrderService.Tracking(orderNo)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	response.Success(c, tracking)
}

// GetOrderInvoices returns every invoice issued for an order.
func (h *Handler) GetOrderInvoices(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order number is required", nil)
		return
	}

	order, err := h.OrderService.GetByOrderNo(orderNo)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	invoices, err := h.InvoiceService.ListByOrder(order.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "invoice fetch failed", err)
		return
	}

	response.Success(c, invoices)
}
