package constants

// Order status constants
const (
	OrderStatusPlaced          = "placed"
	OrderStatusUnderRisk       = "under_risk"
	OrderStatusWaitingCustomer = "waiting_for_customer_action"
	OrderStatusPicking         = "picking"
	OrderStatusDelivering      = "delivering"
	OrderStatusDelivered       = "delivered"
	OrderStatusCancelled       = "cancelled"
)

// Order line status constants
const (
	LineStatusOK       = "OK"
	LineStatusPartial  = "PARTIAL"
	LineStatusZero     = "ZERO"
	LineStatusReplaced = "REPLACED"
)

// Order line priority constants
const (
	LinePriorityCritical  = "CRITICAL"
	LinePriorityImportant = "IMPORTANT"
	LinePriorityFlexible  = "FLEXIBLE"
)

// Order change reason constants
const (
	OrderChangeReasonShortage = "shortage"
)

// Invoice type constants
const (
	InvoiceTypeOrder        = "ORDER"
	InvoiceTypeRefund       = "REFUND"
	InvoiceTypeModification = "MODIFICATION"
)

// Invoice status constants
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusRefunded  = "refunded"
	InvoiceStatusCancelled = "cancelled"
)

// Claim status constants
const (
	ClaimStatusOpen         = "open"
	ClaimStatusAIProcessing = "ai_processing"
	ClaimStatusManualReview = "manual_review"
	ClaimStatusApproved     = "approved"
	ClaimStatusRejected     = "rejected"
	ClaimStatusResolved     = "resolved"
)

// Claim type constants
const (
	ClaimTypeMissingItem  = "MISSING_ITEM"
	ClaimTypeDamagedItem  = "DAMAGED_ITEM"
	ClaimTypeWrongItem    = "WRONG_ITEM"
	ClaimTypeQualityIssue = "QUALITY_ISSUE"
)

// Claim handler identity constants
const (
	ClaimHandlerAIAgent = "AI_AGENT"
)

// Adjudication decision constants
const (
	AdjudicationApprove      = "approved"
	AdjudicationReject       = "rejected"
	AdjudicationManualReview = "manual_review_needed"
)

// Message sender type constants
const (
	SenderTypeCustomer = "customer"
	SenderTypeAdmin    = "admin"
	SenderTypeAI       = "ai"
)

// Substitute priority constants
const (
	SubstitutePriorityPrimary   = 1
	SubstitutePrioritySecondary = 2
)

// Business ID prefix constants
const (
	OrderNoPrefix   = "ORD"
	ClaimNoPrefix   = "CLM"
	InvoiceNoPrefix = "INV"
)

// Logistics defaults used by the shortage risk model
const (
	DefaultPlant           = "P01"
	DefaultStorageLocation = "WH01"
)

// Queue constants
const (
	QueueDefault    = "default"
	TaskClaimTriage = "claim:triage"
)

// Cache default constants
const (
	RedisPrefixDefault = "ov"
)

// Currency constants
const (
	SiteCurrencyDefault = "EUR"
)
