package public

import (
	"errors"
	"strings"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/http/response"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/service"

	"github.com/gin-gonic/gin"
)

// PostMessageRequest message append request
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListOrderMessages returns an order's message log, oldest first.
func (h *Handler) ListOrderMessages(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order number is required", nil)
		return
	}

	messages, err := h.MessageService.ListForOrder(orderNo)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "message fetch failed", err)
		return
	}

	response.Success(c, messages)
}

// PostOrderMessage appends a customer message to an order's log.
func (h *Handler) PostOrderMessage(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order number is required", nil)
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	message, err := h.MessageService.PostToOrder(orderNo, constants.SenderTypeCustomer, actor(c), req.Content)
	if err != nil {
		respondMessagePostError(c, err)
		return
	}

	response.Success(c, message)
}

// ListClaimMessages returns a claim's message log, oldest first.
func (h *Handler) ListClaimMessages(c *gin.Context) {
	claimNo := strings.TrimSpace(c.Param("claim_no"))
	if claimNo == "" {
		respondError(c, response.CodeBadRequest, "claim number is required", nil)
		return
	}

	messages, err := h.MessageService.ListForClaim(claimNo)
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			respondError(c, response.CodeNotFound, "claim not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "message fetch failed", err)
		return
	}

	response.Success(c, messages)
}

// PostClaimMessage appends a customer message to a claim's log.
func (h *Handler) PostClaimMessage(c *gin.Context) {
	claimNo := strings.TrimSpace(c.Param("claim_no"))
	if claimNo == "" {
		respondError(c, response.CodeBadRequest, "claim number is required", nil)
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	message, err := h.MessageService.PostToClaim(claimNo, constants.SenderTypeCustomer, actor(c), req.Content)
	if err != nil {
		respondMessagePostError(c, err)
		return
	}

	response.Success(c, message)
}

func respondMessagePostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "order not found", nil)
	case errors.Is(err, service.ErrClaimNotFound):
		respondError(c, response.CodeNotFound, "claim not found", nil)
	case errors.Is(err, service.ErrMessageContentEmpty):
		respondError(c, response.CodeBadRequest, "message content is required", nil)
	default:
		respondError(c, response.CodeInternal, "message post failed", err)
	}
}
