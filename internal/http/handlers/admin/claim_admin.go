package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/http/response"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ApproveClaimRequest claim approval request. An empty amount applies the
// flat compensation rule.
type ApproveClaimRequest struct {
	Amount string `json:"amount"`
}

// RejectClaimRequest claim rejection request
type RejectClaimRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// AdminListClaims lists claims for the back office.
func (h *Handler) AdminListClaims(c *gin.Context) {
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
	orderID, _ := strconv.ParseUint(c.Query("order_id"), 10, 64)

	claims, total, err := h.ClaimService.List(repository.ClaimListFilter{
		Page:             page,
		PageSize:         pageSize,
		CustomerID:       uint(customerID),
		OrderID:          uint(orderID),
		Status:           strings.TrimSpace(c.Query("status")),
		ClaimType:        strings.TrimSpace(c.Query("claim_type")),
		ManualReviewOnly: c.Query("manual_review_only") == "true",
		CreatedFrom:      createdFrom,
		CreatedTo:        createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "claim fetch failed", err)
		return
	}

	response.SuccessWithPage(c, claims, response.BuildPagination(page, pageSize, total))
}

// AdminGetClaim returns one claim by business number.
func (h *Handler) AdminGetClaim(c *gin.Context) {
	claimNo := strings.TrimSpace(c.Param("claim_no"))
	if claimNo == "" {
		respondError(c, response.CodeBadRequest, "claim number is required", nil)
		return
	}

	claim, err := h.ClaimService.GetByClaimNo(claimNo)
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			respondError(c, response.CodeNotFound, "claim not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "claim fetch failed", err)
		return
	}

	response.Success(c, claim)
}

// AdminApproveClaim grants a claim and issues its refund.
func (h *Handler) AdminApproveClaim(c *gin.Context) {
	claimNo := strings.TrimSpace(c.Param("claim_no"))
	if claimNo == "" {
		respondError(c, response.CodeBadRequest, "claim number is required", nil)
		return
	}

	var req ApproveClaimRequest
	_ = c.ShouldBindJSON(&req)

	var amount *decimal.Decimal
	if strings.TrimSpace(req.Amount) != "" {
		parsed, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
		if err != nil {
			respondError(c, response.CodeBadRequest, "amount is invalid", nil)
			return
		}
		amount = &parsed
	}

	claim, err := h.ClaimService.Approve(claimNo, actor(c), amount)
	if err != nil {
		respondClaimReviewError(c, err)
		return
	}

	response.Success(c, claim)
}

// AdminRejectClaim denies a claim with a mandatory reason.
func (h *Handler) AdminRejectClaim(c *gin.Context) {
	claimNo := strings.TrimSpace(c.Param("claim_no"))
	if claimNo == "" {
		respondError(c, response.CodeBadRequest, "claim number is required", nil)
		return
	}

	var req RejectClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "rejection reason is required", err)
		return
	}

	claim, err := h.ClaimService.Reject(claimNo, actor(c), req.Reason)
	if err != nil {
		respondClaimReviewError(c, err)
		return
	}

	response.Success(c, claim)
}

// AdminResolveClaim closes an approved or rejected claim.
func (h *Handler) AdminResolveClaim(c *gin.Context) {
	claimNo := strings.TrimSpace(c.Param("claim_no"))
	if claimNo == "" {
		respondError(c, response.CodeBadRequest, "claim number is required", nil)
		return
	}

	claim, err := h.ClaimService.Resolve(claimNo, actor(c))
	if err != nil {
		respondClaimReviewError(c, err)
		return
	}

	response.Success(c, claim)
}

// AdminListClaimInvoices returns every invoice issued for a claim.
func (h *Handler) AdminListClaimInvoices(c *gin.Context) {
	claimNo := strings.TrimSpace(c.Param("claim_no"))
	if claimNo == "" {
		respondError(c, response.CodeBadRequest, "claim number is required", nil)
		return
	}

	claim, err := h.ClaimService.GetByClaimNo(claimNo)
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			respondError(c, response.CodeNotFound, "claim not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "claim fetch failed", err)
		return
	}

	invoices, err := h.InvoiceService.ListByClaim(claim.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "invoice fetch failed", err)
		return
	}

	response.Success(c, invoices)
}

// AdminPostClaimMessage appends a reviewer message to a claim's log.
func (h *Handler) AdminPostClaimMessage(c *gin.Context) {
	claimNo := strings.TrimSpace(c.Param("claim_no"))
	if claimNo == "" {
		respondError(c, response.CodeBadRequest, "claim number is required", nil)
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	message, err := h.MessageService.PostToClaim(claimNo, constants.SenderTypeAdmin, actor(c), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimNotFound):
			respondError(c, response.CodeNotFound, "claim not found", nil)
		case errors.Is(err, service.ErrMessageContentEmpty):
			respondError(c, response.CodeBadRequest, "message content is required", nil)
		default:
			respondError(c, response.CodeInternal, "message post failed", err)
		}
		return
	}

	response.Success(c, message)
}

func respondClaimReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClaimNotFound):
		respondError(c, response.CodeNotFound, "claim not found", nil)
	case errors.Is(err, service.ErrClaimStateInvalid):
		respondError(c, response.CodeBadRequest, "claim is not in a reviewable state", nil)
	case errors.Is(err, service.ErrClaimReasonRequired):
		respondError(c, response.CodeBadRequest, "rejection reason is required", nil)
	case errors.Is(err, service.ErrRefundAmountInvalid):
		respondError(c, response.CodeBadRequest, "refund amount must be positive", nil)
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "order not found", nil)
	default:
		respondError(c, response.CodeInternal, "claim update failed", err)
	}
}
