package repository

import (
	"context"

	"classhub/internal/model"
	"classhub/internal/store"
)

// SubmissionWithDetails 提交 + 学生与作业详情联表行
type SubmissionWithDetails struct {
	model.Submission
	StudentName     string  `gorm:"column:student_name"     json:"student_name"`
	StudentUsername string  `gorm:"column:student_username" json:"student_username"`
	StudentAvatar   *string `gorm:"column:student_avatar"   json:"student_avatar,omitempty"`
	AssignmentTitle string  `gorm:"column:assignment_title" json:"assignment_title"`
}

// SubmissionFilters 提交列表过滤条件，零值表示不过滤
type SubmissionFilters struct {
	AssignmentID string
	StudentID    string
}

// SaveResult 提交保存结果
type SaveResult struct {
	ID       string
	Inserted bool // false 表示覆盖了已有行
}

// SubmissionRepository 提交数据访问接口
type SubmissionRepository interface {
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*model.Submission, error)
	Save(ctx context.Context, sub *model.Submission) (SaveResult, error)
	ListWithDetails(ctx context.Context, filters SubmissionFilters) ([]SubmissionWithDetails, error)
}

// submissionRepo SubmissionRepository 的 Record Store 实现
type submissionRepo struct {
	store *store.Store
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(st *store.Store) SubmissionRepository {
	return &submissionRepo{store: st}
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission
	if err := r.store.SelectOne(ctx, &sub, "SELECT * FROM submissions WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*model.Submission, error) {
	var sub model.Submission
	err := r.store.SelectOne(ctx, &sub,
		"SELECT * FROM submissions WHERE assignment_id = ? AND student_id = ?",
		assignmentID, studentID)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Save 存在即覆盖的提交写入
// 单条语句靠 (assignment_id, student_id) 唯一约束完成判重与写入，
// 同一学生并发重复提交也只会留下一行
func (r *submissionRepo) Save(ctx context.Context, sub *model.Submission) (SaveResult, error) {
	result, err := r.store.Upsert(ctx, "submissions",
		store.Fields{
			"assignment_id": store.Text(sub.AssignmentID),
			"student_id":    store.Text(sub.StudentID),
			"file_path":     store.Text(sub.FilePath),
			"filename":      store.Text(sub.Filename),
		},
		[]string{"assignment_id", "student_id"},
		[]string{"file_path", "filename"},
	)
	if err != nil {
		return SaveResult{}, err
	}
	return SaveResult{ID: result.ID, Inserted: result.Inserted}, nil
}

func (r *submissionRepo) ListWithDetails(ctx context.Context, filters SubmissionFilters) ([]SubmissionWithDetails, error) {
	query := `SELECT submissions.*,
		users.fullname AS student_name, users.username AS student_username, users.avatar AS student_avatar,
		assignments.title AS assignment_title
		FROM submissions
		JOIN users ON submissions.student_id = users.id
		JOIN assignments ON submissions.assignment_id = assignments.id
		WHERE 1=1`
	args := []interface{}{}

	if filters.AssignmentID != "" {
		query += " AND submissions.assignment_id = ?"
		args = append(args, filters.AssignmentID)
	}
	if filters.StudentID != "" {
		query += " AND submissions.student_id = ?"
		args = append(args, filters.StudentID)
	}
	query += " ORDER BY submissions.created_at DESC"

	var list []SubmissionWithDetails
	err := r.store.Select(ctx, &list, query, args...)
	return list, err
}
