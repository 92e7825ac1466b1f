package public

import (
	"errors"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/http/response"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps one service error to its API response.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrCustomerNotFound, code: response.CodeBadRequest, msg: "customer not found"},
	{target: service.ErrDeliveryDateInvalid, code: response.CodeBadRequest, msg: "delivery date must be in the future"},
	{target: service.ErrDeliveryWindowInvalid, code: response.CodeBadRequest, msg: "delivery window is invalid"},
	{target: service.ErrOrderLineInvalid, code: response.CodeBadRequest, msg: "order line is invalid"},
	{target: service.ErrSubstituteInvalid, code: response.CodeBadRequest, msg: "substitute preference is invalid"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, msg: "product not found"},
}

var orderCancelErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderStateInvalid, code: response.CodeBadRequest, msg: "order is already in a terminal state"},
	{target: service.ErrOrderTransitionInvalid, code: response.CodeBadRequest, msg: "order cannot be cancelled from its current state"},
}

var claimCreateErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrClaimOrderNotDelivered, code: response.CodeBadRequest, msg: "claims can only be filed against delivered orders"},
	{target: service.ErrClaimTypeInvalid, code: response.CodeBadRequest, msg: "claim type is invalid"},
	{target: service.ErrClaimReasonRequired, code: response.CodeBadRequest, msg: "claim description is required"},
}

func respondOrderCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "order creation failed")
}

func respondOrderCancelError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCancelErrorRules, response.CodeInternal, "order cancellation failed")
}

func respondClaimCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, claimCreateErrorRules, response.CodeInternal, "claim creation failed")
}
