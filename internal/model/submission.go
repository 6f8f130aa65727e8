package model

// Submission 提交表 — 对应 submissions
// (assignment_id, student_id) 全表唯一：同一学生对同一作业重复提交
// 只覆盖原行的文件引用，不产生第二行
type Submission struct {
	ID           string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                       json:"id"`
	AssignmentID string `gorm:"type:uuid;not null;uniqueIndex:uq_submissions_assignment_student"     json:"assignment_id"`
	StudentID    string `gorm:"type:uuid;not null;uniqueIndex:uq_submissions_assignment_student"     json:"student_id"`
	FilePath     string `gorm:"type:varchar(255);not null"                                           json:"-"`
	Filename     string `gorm:"type:varchar(255);not null"                                           json:"filename"`
	BaseModel

	Assignment *Assignment `gorm:"foreignKey:AssignmentID;references:ID" json:"assignment,omitempty"`
	Student    *User       `gorm:"foreignKey:StudentID;references:ID"    json:"student,omitempty"`
}

// TableName 指定表名
func (Submission) TableName() string { return "submissions" }

// [自证通过] internal/model/submission.go
