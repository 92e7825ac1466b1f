package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/http/response"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest order status transition request
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// AdminListOrders lists orders for the back office.
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	customerID, _ := strconv.ParseUint(c.Query("customer_id"), 10, 64)

	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		CustomerID:  uint(customerID),
		Status:      strings.TrimSpace(c.Query("status")),
		OrderNo:     strings.TrimSpace(c.Query("order_no")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// AdminGetOrder returns one order by business number.
func (h *Handler) AdminGetOrder(c *gin.Context) {
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

// AdminUpdateOrderStatus moves an order along its lifecycle.
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order number is required", nil)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.UpdateStatus(orderNo, req.Status, actor(c), req.Notes)
	if err != nil {
		respondOrderTransitionError(c, err)
		return
	}

	response.Success(c, order)
}

// AdminResolveSubstitution replaces a shorted line's product with its best
// unused substitute.
func (h *Handler) AdminResolveSubstitution(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	lineID, err := strconv.ParseUint(c.Param("line_id"), 10, 64)
	if orderNo == "" || err != nil || lineID == 0 {
		respondError(c, response.CodeBadRequest, "order number and line id are required", nil)
		return
	}

	result, err := h.SubstitutionService.Resolve(orderNo, uint(lineID), actor(c))
	if err != nil {
		respondSubstitutionError(c, err)
		return
	}

	response.Success(c, result)
}

// AdminListOrderChanges returns the product swap audit trail of an order.
func (h *Handler) AdminListOrderChanges(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order number is required", nil)
		return
	}

	changes, err := h.OrderService.Changes(orderNo)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	response.Success(c, changes)
}

// AdminListOrderInvoices returns every invoice issued for an order.
func (h *Handler) AdminListOrderInvoices(c *gin.Context) {
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

// AdminAssessOrderRisk scores an order for shortage risk through the external
// model.
func (h *Handler) AdminAssessOrderRisk(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order number is required", nil)
		return
	}

	assessment, err := h.RiskService.AssessOrder(c.Request.Context(), orderNo, actor(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrOrderStateInvalid):
			respondError(c, response.CodeBadRequest, "order is already in a terminal state", nil)
		case errors.Is(err, service.ErrRiskInputInvalid):
			respondError(c, response.CodeBadRequest, "order is missing the data needed for risk scoring", nil)
		case errors.Is(err, service.ErrExternalServiceFailure):
			respondError(c, response.CodeInternal, "risk scoring is temporarily unavailable", err)
		default:
			respondError(c, response.CodeInternal, "risk assessment failed", err)
		}
		return
	}

	response.Success(c, assessment)
}

func respondOrderTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "order not found", nil)
	case errors.Is(err, service.ErrOrderStateInvalid):
		respondError(c, response.CodeBadRequest, "order is already in a terminal state", nil)
	case errors.Is(err, service.ErrOrderTransitionInvalid):
		respondError(c, response.CodeBadRequest, "order status transition is not allowed", nil)
	default:
		respondError(c, response.CodeInternal, "order update failed", err)
	}
}

func respondSubstitutionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "order not found", nil)
	case errors.Is(err, service.ErrOrderLineNotFound):
		respondError(c, response.CodeNotFound, "order line not found", nil)
	case errors.Is(err, service.ErrOrderStateInvalid):
		respondError(c, response.CodeBadRequest, "order is already in a terminal state", nil)
	case errors.Is(err, service.ErrNoSubstituteAvailable):
		respondError(c, response.CodeConflict, "no unused substitute is available for this line", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeBadRequest, "product not found", nil)
	default:
		respondError(c, response.CodeInternal, "substitution failed", err)
	}
}
