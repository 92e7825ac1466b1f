package public

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/http/response"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateClaim files a claim against a delivered order. Evidence images come
// in as multipart files under the "attachments" field.
func (h *Handler) CreateClaim(c *gin.Context) {
	orderNo := strings.TrimSpace(c.PostForm("order_no"))
	claimType := strings.TrimSpace(c.PostForm("claim_type"))
	description := strings.TrimSpace(c.PostForm("description"))
	productCode := strings.TrimSpace(c.PostForm("product_code"))
	quantity, _ := strconv.Atoi(c.PostForm("quantity"))

	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order number is required", nil)
		return
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["attachments"]
	}

	attachments, err := h.storeAttachments(c, files)
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}

	claim, err := h.ClaimService.Intake(service.ClaimIntakeInput{
		OrderNo:     orderNo,
		ClaimType:   claimType,
		Description: description,
		ProductCode: productCode,
		Quantity:    quantity,
		Attachments: attachments,
		Actor:       actor(c),
	})
	if err != nil {
		h.removeStoredAttachments(attachments)
		respondClaimCreateError(c, err)
		return
	}

	response.Success(c, claim)
}

// ListClaims lists claims.
func (h *Handler) ListClaims(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	customerID, _ := strconv.ParseUint(c.Query("customer_id"), 10, 64)

	claims, total, err := h.ClaimService.List(repository.ClaimListFilter{
		Page:       page,
		PageSize:   pageSize,
		CustomerID: uint(customerID),
		Status:     strings.TrimSpace(c.Query("status")),
		ClaimType:  strings.TrimSpace(c.Query("claim_type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "claim fetch failed", err)
		return
	}

	response.SuccessWithPage(c, claims, response.BuildPagination(page, pageSize, total))
}

// GetClaim returns one claim by business number.
func (h *Handler) GetClaim(c *gin.Context) {
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

// storeAttachments validates and persists uploaded evidence files under the
// configured upload directory.
func (h *Handler) storeAttachments(c *gin.Context, files []*multipart.FileHeader) ([]service.ClaimAttachmentInput, error) {
	if len(files) == 0 {
		return nil, nil
	}

	uploadCfg := h.Config.Upload
	if err := os.MkdirAll(uploadCfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload directory unavailable")
	}

	attachments := make([]service.ClaimAttachmentInput, 0, len(files))
	for _, file := range files {
		if uploadCfg.MaxSize > 0 && file.Size > uploadCfg.MaxSize {
			h.removeStoredAttachments(attachments)
			return nil, fmt.Errorf("attachment %s exceeds the size limit", file.Filename)
		}
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !extensionAllowed(ext, uploadCfg.AllowedExtensions) {
			h.removeStoredAttachments(attachments)
			return nil, fmt.Errorf("attachment %s has an unsupported file type", file.Filename)
		}

		storedName := uuid.NewString() + ext
		storedPath := filepath.Join(uploadCfg.Dir, storedName)
		if err := c.SaveUploadedFile(file, storedPath); err != nil {
			h.removeStoredAttachments(attachments)
			return nil, fmt.Errorf("attachment %s could not be stored", file.Filename)
		}

		attachments = append(attachments, service.ClaimAttachmentInput{
			FileName:    file.Filename,
			FilePath:    storedPath,
			ContentType: file.Header.Get("Content-Type"),
			SizeBytes:   file.Size,
		})
	}
	return attachments, nil
}

// removeStoredAttachments cleans up files whose claim never made it into the
// database.
func (h *Handler) removeStoredAttachments(attachments []service.ClaimAttachmentInput) {
	for _, att := range attachments {
		_ = os.Remove(att.FilePath)
	}
}

func extensionAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, candidate := range allowed {
		if strings.EqualFold(strings.TrimSpace(candidate), ext) {
			return true
		}
	}
	return false
}
