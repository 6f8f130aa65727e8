package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"classhub/internal/dto"
	"classhub/internal/model"
	"classhub/internal/repository"
	pkgerrors "classhub/pkg/errors"
)

var (
	ErrMessageNotFound  = errors.New("消息不存在")
	ErrReceiverNotFound = errors.New("接收者不存在")
	ErrNotMessageOwner  = errors.New("只能操作自己收到的消息")
)

// MessageService 站内消息业务接口
type MessageService interface {
	Send(ctx context.Context, senderID string, req *dto.SendMessageRequest) (string, error)
	ListForReceiver(ctx context.Context, receiverID string) ([]repository.MessageWithSender, error)
	CountUnread(ctx context.Context, receiverID string) (int64, error)
	MarkRead(ctx context.Context, receiverID, messageID string) error
}

type messageService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMessageService 创建 MessageService 实例
func NewMessageService(repo *repository.Repository, logger *zap.Logger) MessageService {
	return &messageService{repo: repo, logger: logger}
}

func (s *messageService) Send(ctx context.Context, senderID string, req *dto.SendMessageRequest) (string, error) {
	if _, err := s.repo.User.GetByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return "", ErrReceiverNotFound
		}
		return "", err
	}

	return s.repo.Message.Create(ctx, &model.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Message:    req.Message,
	})
}

func (s *messageService) ListForReceiver(ctx context.Context, receiverID string) ([]repository.MessageWithSender, error) {
	return s.repo.Message.ListForReceiver(ctx, receiverID)
}

func (s *messageService) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	return s.repo.Message.CountUnread(ctx, receiverID)
}

// MarkRead 将消息标记为已读，只有接收者本人可以操作
func (s *messageService) MarkRead(ctx context.Context, receiverID, messageID string) error {
	msg, err := s.repo.Message.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if msg.ReceiverID != receiverID {
		return ErrNotMessageOwner
	}
	if !s.repo.Message.MarkRead(ctx, messageID) {
		return ErrMessageNotFound
	}
	return nil
}
