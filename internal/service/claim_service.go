package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/ai/adjudicator"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/logger"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/queue"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validClaimTypes = map[string]bool{
	constants.ClaimTypeMissingItem:  true,
	constants.ClaimTypeDamagedItem:  true,
	constants.ClaimTypeWrongItem:    true,
	constants.ClaimTypeQualityIssue: true,
}

// ClaimAttachmentInput one uploaded evidence file, already stored on disk.
type ClaimAttachmentInput struct {
	FileName    string
	FilePath    string
	ContentType string
	SizeBytes   int64
}

// ClaimIntakeInput input for filing a claim.
type ClaimIntakeInput struct {
	OrderNo     string
	ClaimType   string
	Description string
	ProductCode string
	Quantity    int
	Attachments []ClaimAttachmentInput
	Actor       string
}

// TriageEnqueuer hands freshly filed claims to the triage queue.
type TriageEnqueuer interface {
	EnqueueClaimTriage(payload queue.ClaimTriagePayload) error
}

// ClaimService runs the claim pipeline: intake, asynchronous AI triage and
// the manual review verbs.
type ClaimService struct {
	claimRepo      repository.ClaimRepository
	orderRepo      repository.OrderRepository
	messageRepo    repository.MessageRepository
	invoiceService *InvoiceService
	queueClient    TriageEnqueuer
	adjudicator    adjudicator.Client
}

// NewClaimService creates the claim service.
func NewClaimService(
	claimRepo repository.ClaimRepository,
	orderRepo repository.OrderRepository,
	messageRepo repository.MessageRepository,
	invoiceService *InvoiceService,
	queueClient TriageEnqueuer,
	adj adjudicator.Client,
) *ClaimService {
	return &ClaimService{
		claimRepo:      claimRepo,
		orderRepo:      orderRepo,
		messageRepo:    messageRepo,
		invoiceService: invoiceService,
		queueClient:    queueClient,
		adjudicator:    adj,
	}
}

// Intake files a claim against a delivered order, moves it to ai_processing
// and hands it to the triage queue. When the queue cannot accept the task
// the claim is routed straight to manual review so it is never lost.
func (s *ClaimService) Intake(input ClaimIntakeInput) (*models.Claim, error) {
	if !validClaimTypes[input.ClaimType] {
		return nil, ErrClaimTypeInvalid
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrClaimReasonRequired
	}

	order, err := s.orderRepo.GetByOrderNo(input.OrderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusDelivered {
		return nil, ErrClaimOrderNotDelivered
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	claim := &models.Claim{
		ClaimNo:     newBusinessNo(constants.ClaimNoPrefix),
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		ClaimType:   input.ClaimType,
		Status:      constants.ClaimStatusAIProcessing,
		Description: input.Description,
		Currency:    order.Currency,
	}
	lines := []models.ClaimLine{
		{
			ProductCode: input.ProductCode,
			Quantity:    quantity,
			Issue:       input.Description,
		},
	}
	attachments := make([]models.ClaimAttachment, 0, len(input.Attachments))
	for _, att := range input.Attachments {
		attachments = append(attachments, models.ClaimAttachment{
			FileName:    att.FileName,
			FilePath:    att.FilePath,
			ContentType: att.ContentType,
			SizeBytes:   att.SizeBytes,
		})
	}
	processing := &models.ClaimProcessing{}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		claimRepo := s.claimRepo.WithTx(tx)
		messageRepo := s.messageRepo.WithTx(tx)

		if err := claimRepo.Create(claim, lines, attachments, processing); err != nil {
			return err
		}
		return messageRepo.Append(&models.Message{
			ClaimID:    &claim.ID,
			SenderType: constants.SenderTypeCustomer,
			SenderName: input.Actor,
			Content:    input.Description,
		})
	})
	if err != nil {
		return nil, err
	}

	// Enqueue only after commit so the worker never races an invisible row.
	enqueueErr := s.queueClient.EnqueueClaimTriage(queue.ClaimTriagePayload{
		ClaimID: claim.ID,
		ClaimNo: claim.ClaimNo,
	})
	if enqueueErr != nil {
		logger.Warnw("claim triage enqueue failed, routing to manual review",
			"claim_no", claim.ClaimNo, "error", enqueueErr)
		if err := s.routeToManualReview(claim.ID, "Triage queue unavailable; routed to manual review."); err != nil {
			return nil, err
		}
	}

	logger.Infow("claim filed", "claim_no", claim.ClaimNo, "order_no", order.OrderNo, "claim_type", claim.ClaimType)
	return s.claimRepo.GetByID(claim.ID)
}

// Triage runs the AI adjudication for one claim. Called from the queue
// worker. Any model failure falls back deterministically to manual review.
func (s *ClaimService) Triage(ctx context.Context, claimID uint) error {
	claim, err := s.claimRepo.GetByID(claimID)
	if err != nil {
		return err
	}
	if claim == nil {
		return ErrClaimNotFound
	}
	if claim.Status != constants.ClaimStatusOpen && claim.Status != constants.ClaimStatusAIProcessing {
		return ErrClaimStateInvalid
	}

	if err := s.claimRepo.UpdateFields(claim.ID, map[string]interface{}{
		"status": constants.ClaimStatusAIProcessing,
	}); err != nil {
		return err
	}

	decision, err := s.adjudicator.Adjudicate(ctx, s.buildAdjudicationRequest(claim))
	if err != nil {
		logger.Warnw("claim adjudication failed, falling back to manual review",
			"claim_no", claim.ClaimNo, "error", err)
		return s.applyManualFallback(claim)
	}

	switch decision.Decision {
	case adjudicator.DecisionApprove:
		return s.applyApproval(claim, decision)
	case adjudicator.DecisionReject:
		return s.applyRejection(claim, decision)
	default:
		return s.applyManualEscalation(claim, decision)
	}
}

// Approve grants a claim. A nil amount uses the flat compensation rule.
// Re-approving an already approved claim updates the refund in place.
func (s *ClaimService) Approve(claimNo, actor string, amount *decimal.Decimal) (*models.Claim, error) {
	claim, err := s.getReviewable(claimNo)
	if err != nil {
		return nil, err
	}
	if amount != nil && amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrRefundAmountInvalid
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		credit, err := s.resolveCredit(tx, claim, amount)
		if err != nil {
			return err
		}
		return s.approveInTx(tx, claim, actor, credit, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.claimRepo.GetByID(claim.ID)
}

// Reject denies a claim with a mandatory reason. An earlier approval's
// refund invoice is voided.
func (s *ClaimService) Reject(claimNo, actor, reason string) (*models.Claim, error) {
	claim, err := s.getReviewable(claimNo)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrClaimReasonRequired
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		claimRepo := s.claimRepo.WithTx(tx)
		messageRepo := s.messageRepo.WithTx(tx)
		now := time.Now()

		if err := claimRepo.UpdateFields(claim.ID, map[string]interface{}{
			"status":           constants.ClaimStatusRejected,
			"rejection_reason": reason,
			"handled_by":       actor,
			"credit_amount":    nil,
		}); err != nil {
			return err
		}
		if err := claimRepo.UpdateProcessing(claim.ID, map[string]interface{}{
			"requires_manual_review": false,
			"reviewed_by":            actor,
			"reviewed_at":            &now,
		}); err != nil {
			return err
		}
		if err := s.invoiceService.CancelRefundForClaim(tx, claim.ID, noteClaimRejected); err != nil {
			return err
		}
		return messageRepo.Append(&models.Message{
			ClaimID:    &claim.ID,
			SenderType: constants.SenderTypeAdmin,
			SenderName: actor,
			Content:    fmt.Sprintf("Claim %s was rejected: %s", claim.ClaimNo, reason),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.claimRepo.GetByID(claim.ID)
}

// Resolve closes an approved or rejected claim.
func (s *ClaimService) Resolve(claimNo, actor string) (*models.Claim, error) {
	claim, err := s.getByClaimNo(claimNo)
	if err != nil {
		return nil, err
	}
	if claim.Status != constants.ClaimStatusApproved && claim.Status != constants.ClaimStatusRejected {
		return nil, ErrClaimStateInvalid
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		claimRepo := s.claimRepo.WithTx(tx)
		messageRepo := s.messageRepo.WithTx(tx)
		now := time.Now()

		if err := claimRepo.UpdateFields(claim.ID, map[string]interface{}{
			"status":      constants.ClaimStatusResolved,
			"resolved_at": &now,
		}); err != nil {
			return err
		}
		return messageRepo.Append(&models.Message{
			ClaimID:    &claim.ID,
			SenderType: constants.SenderTypeAdmin,
			SenderName: actor,
			Content:    fmt.Sprintf("Claim %s was resolved and closed.", claim.ClaimNo),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.claimRepo.GetByID(claim.ID)
}

// GetByClaimNo loads a claim by business number.
func (s *ClaimService) GetByClaimNo(claimNo string) (*models.Claim, error) {
	return s.getByClaimNo(claimNo)
}

// List lists claims for the given filter.
func (s *ClaimService) List(filter repository.ClaimListFilter) ([]models.Claim, int64, error) {
	return s.claimRepo.List(filter)
}

func (s *ClaimService) getByClaimNo(claimNo string) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByClaimNo(claimNo)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrClaimNotFound
	}
	return claim, nil
}

func (s *ClaimService) getReviewable(claimNo string) (*models.Claim, error) {
	claim, err := s.getByClaimNo(claimNo)
	if err != nil {
		return nil, err
	}
	if claim.Status == constants.ClaimStatusResolved {
		return nil, ErrClaimStateInvalid
	}
	return claim, nil
}

// resolveCredit picks the explicit amount when given, otherwise the flat
// compensation computed from the claim's order.
func (s *ClaimService) resolveCredit(tx *gorm.DB, claim *models.Claim, amount *decimal.Decimal) (decimal.Decimal, error) {
	if amount != nil {
		return amount.Round(2), nil
	}
	order, err := s.orderRepo.WithTx(tx).GetByID(claim.OrderID)
	if err != nil {
		return decimal.Zero, err
	}
	if order == nil {
		return decimal.Zero, ErrOrderNotFound
	}
	return s.invoiceService.DefaultClaimCredit(tx, order.Lines)
}

// approveInTx applies an approval inside tx. reviewer is nil for AI
// approvals and carries the review stamp for manual ones.
func (s *ClaimService) approveInTx(tx *gorm.DB, claim *models.Claim, actor string, credit decimal.Decimal, aiUpdates map[string]interface{}) error {
	claimRepo := s.claimRepo.WithTx(tx)
	messageRepo := s.messageRepo.WithTx(tx)

	if err := claimRepo.UpdateFields(claim.ID, map[string]interface{}{
		"status":           constants.ClaimStatusApproved,
		"credit_amount":    models.NewMoneyFromDecimal(credit),
		"handled_by":       actor,
		"rejection_reason": "",
	}); err != nil {
		return err
	}

	processingUpdates := aiUpdates
	if processingUpdates == nil {
		now := time.Now()
		processingUpdates = map[string]interface{}{
			"requires_manual_review": false,
			"reviewed_by":            actor,
			"reviewed_at":            &now,
		}
	}
	if err := claimRepo.UpdateProcessing(claim.ID, processingUpdates); err != nil {
		return err
	}

	if _, err := s.invoiceService.IssueRefund(tx, claim, credit); err != nil {
		return err
	}

	senderType := constants.SenderTypeAdmin
	if actor == constants.ClaimHandlerAIAgent {
		senderType = constants.SenderTypeAI
	}
	return messageRepo.Append(&models.Message{
		ClaimID:    &claim.ID,
		SenderType: senderType,
		SenderName: actor,
		Content:    fmt.Sprintf("Claim %s was approved with a credit of %s %s.", claim.ClaimNo, credit.StringFixed(2), claim.Currency),
	})
}

// applyApproval commits an AI approval.
func (s *ClaimService) applyApproval(claim *models.Claim, decision *adjudicator.Decision) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		var amount *decimal.Decimal
		if decision.CreditAmount != nil {
			v := decimal.NewFromFloat(*decision.CreditAmount)
			amount = &v
		}
		credit, err := s.resolveCredit(tx, claim, amount)
		if err != nil {
			return err
		}
		return s.approveInTx(tx, claim, constants.ClaimHandlerAIAgent, credit, aiProcessingUpdates(decision, false))
	})
}

// applyRejection commits an AI rejection.
func (s *ClaimService) applyRejection(claim *models.Claim, decision *adjudicator.Decision) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		claimRepo := s.claimRepo.WithTx(tx)
		messageRepo := s.messageRepo.WithTx(tx)

		if err := claimRepo.UpdateFields(claim.ID, map[string]interface{}{
			"status":           constants.ClaimStatusRejected,
			"rejection_reason": decision.Summary,
			"handled_by":       constants.ClaimHandlerAIAgent,
		}); err != nil {
			return err
		}
		if err := claimRepo.UpdateProcessing(claim.ID, aiProcessingUpdates(decision, false)); err != nil {
			return err
		}
		return messageRepo.Append(&models.Message{
			ClaimID:    &claim.ID,
			SenderType: constants.SenderTypeAI,
			SenderName: constants.ClaimHandlerAIAgent,
			Content:    fmt.Sprintf("Claim %s was rejected: %s", claim.ClaimNo, decision.Summary),
		})
	})
}

// applyManualEscalation commits an AI manual-review verdict.
func (s *ClaimService) applyManualEscalation(claim *models.Claim, decision *adjudicator.Decision) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		claimRepo := s.claimRepo.WithTx(tx)
		messageRepo := s.messageRepo.WithTx(tx)

		if err := claimRepo.UpdateFields(claim.ID, map[string]interface{}{
			"status": constants.ClaimStatusManualReview,
		}); err != nil {
			return err
		}
		if err := claimRepo.UpdateProcessing(claim.ID, aiProcessingUpdates(decision, true)); err != nil {
			return err
		}
		return messageRepo.Append(&models.Message{
			ClaimID:    &claim.ID,
			SenderType: constants.SenderTypeAI,
			SenderName: constants.ClaimHandlerAIAgent,
			Content:    fmt.Sprintf("Claim %s needs manual review: %s", claim.ClaimNo, decision.Summary),
		})
	})
}

// applyManualFallback is the deterministic fallback when the model is
// unreachable or returns garbage: manual review with zero confidence.
func (s *ClaimService) applyManualFallback(claim *models.Claim) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		claimRepo := s.claimRepo.WithTx(tx)

		if err := claimRepo.UpdateFields(claim.ID, map[string]interface{}{
			"status": constants.ClaimStatusManualReview,
		}); err != nil {
			return err
		}
		return claimRepo.UpdateProcessing(claim.ID, map[string]interface{}{
			"ai_processed":           false,
			"ai_confidence":          0.0,
			"requires_manual_review": true,
			"ai_result_json": models.JSON{
				"decision": constants.AdjudicationManualReview,
				"summary":  "AI triage unavailable",
			},
		})
	})
}

// routeToManualReview marks a freshly filed claim for manual handling when
// the triage task could not be enqueued.
func (s *ClaimService) routeToManualReview(claimID uint, note string) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		claimRepo := s.claimRepo.WithTx(tx)

		if err := claimRepo.UpdateFields(claimID, map[string]interface{}{
			"status": constants.ClaimStatusManualReview,
		}); err != nil {
			return err
		}
		return claimRepo.UpdateProcessing(claimID, map[string]interface{}{
			"ai_processed":           false,
			"ai_confidence":          0.0,
			"requires_manual_review": true,
			"ai_result_json": models.JSON{
				"decision": constants.AdjudicationManualReview,
				"summary":  note,
			},
		})
	})
}

// buildAdjudicationRequest bundles the claim evidence. Attachments that can
// no longer be read from disk are skipped rather than failing the triage.
func (s *ClaimService) buildAdjudicationRequest(claim *models.Claim) adjudicator.Request {
	req := adjudicator.Request{
		ClaimNo:     claim.ClaimNo,
		ClaimType:   claim.ClaimType,
		Description: claim.Description,
	}
	if claim.Order != nil {
		req.OrderNo = claim.Order.OrderNo
	}
	for _, line := range claim.Lines {
		req.Lines = append(req.Lines, adjudicator.Line{
			ProductCode: line.ProductCode,
			Quantity:    line.Quantity,
			Issue:       line.Issue,
		})
	}
	for _, att := range claim.Attachments {
		data, err := os.ReadFile(att.FilePath)
		if err != nil {
			logger.Warnw("claim attachment unreadable, skipping",
				"claim_no", claim.ClaimNo, "file", att.FilePath, "error", err)
			continue
		}
		req.Images = append(req.Images, adjudicator.Image{
			FileName:    att.FileName,
			ContentType: att.ContentType,
			DataBase64:  base64.StdEncoding.EncodeToString(data),
		})
	}
	return req
}

// aiProcessingUpdates records the model verdict on the processing row.
func aiProcessingUpdates(decision *adjudicator.Decision, manual bool) map[string]interface{} {
	return map[string]interface{}{
		"ai_processed":           true,
		"ai_confidence":          decision.Confidence,
		"requires_manual_review": manual,
		"ai_result_json": models.JSON{
			"decision":   decision.Decision,
			"confidence": decision.Confidence,
			"summary":    decision.Summary,
		},
	}
}
