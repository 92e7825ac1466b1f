package admin

import (
	"errors"
	"strings"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/http/response"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminGetInvoice returns one invoice by business number.
func (h *Handler) AdminGetInvoice(c *gin.Context) {
	invoiceNo := strings.TrimSpace(c.Param("invoice_no"))
	if invoiceNo == "" {
		respondError(c, response.CodeBadRequest, "invoice number is required", nil)
		return
	}

	invoice, err := h.InvoiceService.GetByInvoiceNo(invoiceNo)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			respondError(c, response.CodeNotFound, "invoice not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "invoice fetch failed", err)
		return
	}

	response.Success(c, invoice)
}

// AdminVerifyInvoice checks an invoice's header total against its item sum.
func (h *Handler) AdminVerifyInvoice(c *gin.Context) {
	invoiceNo := strings.TrimSpace(c.Param("invoice_no"))
	if invoiceNo == "" {
		respondError(c, response.CodeBadRequest, "invoice number is required", nil)
		return
	}

	invoice, err := h.InvoiceService.GetByInvoiceNo(invoiceNo)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			respondError(c, response.CodeNotFound, "invoice not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "invoice fetch failed", err)
		return
	}

	if err := h.InvoiceService.Verify(invoice); err != nil {
		if errors.Is(err, service.ErrInvoiceAmountMismatch) {
			response.ErrorWithData(c, response.CodeConflict, "invoice total does not match its items", gin.H{
				"invoice_no": invoice.InvoiceNo,
				"verified":   false,
			})
			return
		}
		respondError(c, response.CodeInternal, "invoice verification failed", err)
		return
	}

	response.Success(c, gin.H{
		"invoice_no": invoice.InvoiceNo,
		"verified":   true,
	})
}
