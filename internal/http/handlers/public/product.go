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

// SearchProductsRequest free-text product search request
type SearchProductsRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

// ListProducts lists catalog products.
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.RecommendService.ListProducts(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Category:   strings.TrimSpace(c.Query("category")),
		Search:     strings.TrimSpace(c.Query("search")),
		OnlyActive: c.DefaultQuery("only_active", "true") != "false",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}

	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// SearchProducts maps a free-text query to catalog products through the
// recommendation model.
func (h *Handler) SearchProducts(c *gin.Context) {
	var req SearchProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	recommendations, err := h.RecommendService.SearchProducts(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecommendQueryRequired):
			respondError(c, response.CodeBadRequest, "search query is required", nil)
		case errors.Is(err, service.ErrExternalServiceFailure):
			respondError(c, response.CodeInternal, "product search is temporarily unavailable", err)
		default:
			respondError(c, response.CodeInternal, "product search failed", err)
		}
		return
	}

	response.Success(c, recommendations)
}
