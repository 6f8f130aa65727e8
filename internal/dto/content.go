package dto

// ── 作业 / 提交 / 挑战模块 DTO ──

// CreateAssignmentRequest 创建作业（multipart 表单，文件字段名 file）
type CreateAssignmentRequest struct {
	Title       string `form:"title"       binding:"required,max=255"`
	Description string `form:"description" binding:"omitempty"`
}

// SaveSubmissionResponse 保存提交的结果
// Updated 为 true 表示覆盖了此前的提交
type SaveSubmissionResponse struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated"`
	Message string `json:"message"`
}

// CreateChallengeRequest 创建挑战（multipart 表单，文件字段名 file）
type CreateChallengeRequest struct {
	Hint   string `form:"hint"   binding:"required"`
	Result string `form:"result" binding:"required,max=255"`
}

// ChallengeAnswerRequest 提交挑战答案
type ChallengeAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// ChallengeAnswerResponse 挑战答案判定结果
// 仅在答对时携带文件内容；答错时不回显任何与正确答案相关的信息
type ChallengeAnswerResponse struct {
	Correct bool   `json:"correct"`
	Message string `json:"message"`
	Content string `json:"content,omitempty"`
}

// ── 消息模块 DTO ──

// SendMessageRequest 发送站内消息
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required,uuid"`
	Message    string `json:"message"     binding:"required"`
}

// UnreadCountResponse 未读消息数
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
