package service

import (
	"strings"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"
)

// MessageService the append-only communication log attached to orders and
// claims.
type MessageService struct {
	messageRepo repository.MessageRepository
	orderRepo   repository.OrderRepository
	claimRepo   repository.ClaimRepository
}

// NewMessageService creates the message service.
func NewMessageService(
	messageRepo repository.MessageRepository,
	orderRepo repository.OrderRepository,
	claimRepo repository.ClaimRepository,
) *MessageService {
	return &MessageService{messageRepo: messageRepo, orderRepo: orderRepo, claimRepo: claimRepo}
}

// PostToOrder appends a message to an order's log.
func (s *MessageService) PostToOrder(orderNo, senderType, senderName, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrMessageContentEmpty
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	message := &models.Message{
		OrderID:    &order.ID,
		SenderType: senderType,
		SenderName: senderName,
		Content:    content,
	}
	if err := s.messageRepo.Append(message); err != nil {
		return nil, err
	}
	return message, nil
}

// PostToClaim appends a message to a claim's log.
func (s *MessageService) PostToClaim(claimNo, senderType, senderName, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrMessageContentEmpty
	}
	claim, err := s.claimRepo.GetByClaimNo(claimNo)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrClaimNotFound
	}
	message := &models.Message{
		ClaimID:    &claim.ID,
		SenderType: senderType,
		SenderName: senderName,
		Content:    content,
	}
	if err := s.messageRepo.Append(message); err != nil {
		return nil, err
	}
	return message, nil
}

// ListForOrder returns an order's message log, oldest first.
func (s *MessageService) ListForOrder(orderNo string) ([]models.Message, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.messageRepo.ListByOrder(order.ID)
}

// ListForClaim returns a claim's message log, oldest first.
func (s *MessageService) ListForClaim(claimNo string) ([]models.Message, error) {
	claim, err := s.claimRepo.GetByClaimNo(claimNo)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrClaimNotFound
	}
	return s.messageRepo.ListByClaim(claim.ID)
}
