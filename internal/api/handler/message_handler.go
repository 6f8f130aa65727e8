package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"classhub/internal/dto"
	"classhub/internal/service"
	"classhub/pkg/response"
)

// MessageHandler 站内消息 HTTP 处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 创建 MessageHandler
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// SendMessage 发送消息
// POST /api/v1/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	senderID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	id, err := h.messageSvc.Send(c.Request.Context(), senderID, &req)
	if err != nil {
		if errors.Is(err, service.ErrReceiverNotFound) {
			response.NotFound(c, 20001, "接收者不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, gin.H{"id": id})
}

// ListMessages 收件箱
// GET /api/v1/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.messageSvc.ListForReceiver(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// CountUnread 未读消息数
// GET /api/v1/messages/unread
func (h *MessageHandler) CountUnread(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	count, err := h.messageSvc.CountUnread(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.UnreadCountResponse{Unread: count})
}

// MarkRead 标记消息已读（仅接收者）
// PUT /api/v1/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.messageSvc.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			response.NotFound(c, 60001, "消息不存在")
		case errors.Is(err, service.ErrNotMessageOwner):
			response.Forbidden(c, 10003, "只能操作自己收到的消息")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
