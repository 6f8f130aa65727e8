package dto

// ── 用户模块 DTO ──

// UserResponse 对外返回的用户信息（不含密码哈希）
type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Fullname string  `json:"fullname"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Role     string  `json:"role"`
	Avatar   *string `json:"avatar,omitempty"`
}

// CreateUserRequest 创建用户请求（仅教师可用）
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=64"`
	Fullname string `json:"fullname" binding:"required,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Phone    string `json:"phone"    binding:"omitempty,max=20"`
	Role     string `json:"role"     binding:"required,oneof=teacher student"`
}

// UpdateUserRequest 更新用户资料请求
// Username/Fullname/Password 仅在教师编辑学生账号时生效；
// Password 为空字符串时保持已有哈希不变
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Fullname *string `json:"fullname" binding:"omitempty,max=100"`
	Email    *string `json:"email"    binding:"omitempty,email"`
	Phone    *string `json:"phone"    binding:"omitempty,max=20"`
	Password *string `json:"password" binding:"omitempty,max=64"`
}
