package repository

import (
	"context"

	"classhub/internal/model"
	"classhub/internal/store"
)

// MessageWithSender 消息 + 发送者姓名联表行
type MessageWithSender struct {
	model.Message
	SenderName     string `gorm:"column:sender_name"     json:"sender_name"`
	SenderUsername string `gorm:"column:sender_username" json:"sender_username"`
}

// MessageRepository 站内消息数据访问接口
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) (string, error)
	GetByID(ctx context.Context, id string) (*model.Message, error)
	ListForReceiver(ctx context.Context, receiverID string) ([]MessageWithSender, error)
	CountUnread(ctx context.Context, receiverID string) (int64, error)
	MarkRead(ctx context.Context, id string) bool
}

// messageRepo MessageRepository 的 Record Store 实现
type messageRepo struct {
	store *store.Store
}

// NewMessageRepo 创建 MessageRepository 实例
func NewMessageRepo(st *store.Store) MessageRepository {
	return &messageRepo{store: st}
}

func (r *messageRepo) Create(ctx context.Context, msg *model.Message) (string, error) {
	return r.store.Create(ctx, "messages", store.Fields{
		"sender_id":   store.Text(msg.SenderID),
		"receiver_id": store.Text(msg.ReceiverID),
		"message":     store.Text(msg.Message),
	})
}

func (r *messageRepo) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var msg model.Message
	if err := r.store.SelectOne(ctx, &msg, "SELECT * FROM messages WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepo) ListForReceiver(ctx context.Context, receiverID string) ([]MessageWithSender, error) {
	var list []MessageWithSender
	err := r.store.Select(ctx, &list,
		`SELECT messages.*, users.fullname AS sender_name, users.username AS sender_username
		 FROM messages JOIN users ON messages.sender_id = users.id
		 WHERE messages.receiver_id = ?
		 ORDER BY messages.created_at DESC`, receiverID)
	return list, err
}

func (r *messageRepo) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	var row struct {
		Count int64 `gorm:"column:count"`
	}
	err := r.store.SelectOne(ctx, &row,
		"SELECT COUNT(*) AS count FROM messages WHERE receiver_id = ? AND is_read = FALSE", receiverID)
	if err != nil {
		return 0, err
	}
	return row.Count, nil
}

func (r *messageRepo) MarkRead(ctx context.Context, id string) bool {
	return r.store.Exec(ctx,
		"UPDATE messages SET is_read = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id)
}
