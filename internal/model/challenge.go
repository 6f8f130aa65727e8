package model

// Challenge 挑战表 — 对应 challenges
// Result 为期望答案，对比时大小写不敏感；不向学生端序列化
type Challenge struct {
	ID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TeacherID string `gorm:"type:uuid;not null;index"                       json:"teacher_id"`
	Hint      string `gorm:"type:text;not null"                             json:"hint"`
	FilePath  string `gorm:"type:varchar(255);not null"                     json:"-"`
	Result    string `gorm:"type:varchar(255);not null"                     json:"-"`
	BaseModel

	Teacher *User `gorm:"foreignKey:TeacherID;references:ID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (Challenge) TableName() string { return "challenges" }

// [自证通过] internal/model/challenge.go
