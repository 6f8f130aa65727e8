package repository

import (
	"context"

	"classhub/internal/model"
	"classhub/internal/store"
)

// ChallengeWithTeacher 挑战 + 教师姓名联表行
type ChallengeWithTeacher struct {
	model.Challenge
	TeacherName string `gorm:"column:teacher_name" json:"teacher_name"`
}

// ChallengeRepository 挑战数据访问接口
type ChallengeRepository interface {
	Create(ctx context.Context, ch *model.Challenge) (string, error)
	GetByID(ctx context.Context, id string) (*model.Challenge, error)
	ListWithTeacher(ctx context.Context, teacherID string) ([]ChallengeWithTeacher, error)
}

// challengeRepo ChallengeRepository 的 Record Store 实现
type challengeRepo struct {
	store *store.Store
}

// NewChallengeRepo 创建 ChallengeRepository 实例
func NewChallengeRepo(st *store.Store) ChallengeRepository {
	return &challengeRepo{store: st}
}

func (r *challengeRepo) Create(ctx context.Context, ch *model.Challenge) (string, error) {
	return r.store.Create(ctx, "challenges", store.Fields{
		"teacher_id": store.Text(ch.TeacherID),
		"hint":       store.Text(ch.Hint),
		"file_path":  store.Text(ch.FilePath),
		"result":     store.Text(ch.Result),
	})
}

func (r *challengeRepo) GetByID(ctx context.Context, id string) (*model.Challenge, error) {
	var ch model.Challenge
	if err := r.store.SelectOne(ctx, &ch, "SELECT * FROM challenges WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &ch, nil
}

// ListWithTeacher 挑战列表（含教师姓名），teacherID 非空时按教师过滤
func (r *challengeRepo) ListWithTeacher(ctx context.Context, teacherID string) ([]ChallengeWithTeacher, error) {
	query := `SELECT challenges.*, users.fullname AS teacher_name
		 FROM challenges JOIN users ON challenges.teacher_id = users.id`
	args := []interface{}{}
	if teacherID != "" {
		query += " WHERE challenges.teacher_id = ?"
		args = append(args, teacherID)
	}
	query += " ORDER BY challenges.created_at DESC"

	var list []ChallengeWithTeacher
	err := r.store.Select(ctx, &list, query, args...)
	return list, err
}
