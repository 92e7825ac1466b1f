package service

import "errors"

// Business errors, matched with errors.Is at the handler layer.
var (
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrProductNotFound        = errors.New("product not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderLineNotFound      = errors.New("order line not found")
	ErrOrderStateInvalid      = errors.New("order state does not allow this operation")
	ErrOrderTransitionInvalid = errors.New("order status transition not allowed")
	ErrDeliveryDateInvalid    = errors.New("delivery date must be a future date")
	ErrDeliveryWindowInvalid  = errors.New("delivery window is invalid")
	ErrOrderLineInvalid       = errors.New("order line is invalid")
	ErrSubstituteInvalid      = errors.New("substitute preference is invalid")
	ErrNoSubstituteAvailable  = errors.New("no unused substitute available")

	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrOrderInvoiceActive    = errors.New("order already has an active invoice")
	ErrInvoiceAmountMismatch = errors.New("invoice total does not match item sum")
	ErrRefundAmountInvalid   = errors.New("refund amount is invalid")

	ErrClaimNotFound          = errors.New("claim not found")
	ErrClaimTypeInvalid       = errors.New("claim type is invalid")
	ErrClaimOrderNotDelivered = errors.New("claims require a delivered order")
	ErrClaimStateInvalid      = errors.New("claim state does not allow this operation")
	ErrClaimReasonRequired    = errors.New("rejection reason is required")

	ErrMessageTargetInvalid = errors.New("message must reference an order or a claim")
	ErrMessageContentEmpty  = errors.New("message content is empty")

	ErrRiskInputInvalid       = errors.New("risk assessment input is invalid")
	ErrRecommendQueryRequired = errors.New("recommendation query is required")
	ErrExternalServiceFailure = errors.New("external service failure")
)
