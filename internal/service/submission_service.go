package service

import (
	"context"
	"errors"
	"mime/multipart"

	"go.uber.org/zap"

	"classhub/internal/dto"
	"classhub/internal/model"
	"classhub/internal/repository"
	"classhub/internal/storage"
	pkgerrors "classhub/pkg/errors"
)

// SubmissionService 提交业务接口
type SubmissionService interface {
	Save(ctx context.Context, studentID, assignmentID string, file *multipart.FileHeader) (*dto.SaveSubmissionResponse, error)
	List(ctx context.Context, callerID, callerRole string, filters repository.SubmissionFilters) ([]repository.SubmissionWithDetails, error)
}

type submissionService struct {
	repo    *repository.Repository
	storage *storage.Manager
	logger  *zap.Logger
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(repo *repository.Repository, st *storage.Manager, logger *zap.Logger) SubmissionService {
	return &submissionService{repo: repo, storage: st, logger: logger}
}

// Save 保存学生提交
// 同一 (作业, 学生) 至多一行：重复提交覆盖原行的文件引用
func (s *submissionService) Save(ctx context.Context, studentID, assignmentID string, file *multipart.FileHeader) (*dto.SaveSubmissionResponse, error) {
	// 作业必须存在
	if _, err := s.repo.Assignment.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	saved, err := s.storage.Save(storage.KindSubmission, file)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.Submission.Save(ctx, &model.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		FilePath:     saved.Path,
		Filename:     saved.Filename,
	})
	if err != nil {
		return nil, err
	}

	message := "提交成功"
	if !result.Inserted {
		message = "已覆盖此前的提交"
	}
	return &dto.SaveSubmissionResponse{
		ID:      result.ID,
		Updated: !result.Inserted,
		Message: message,
	}, nil
}

// List 提交列表
// 教师可看全部并按条件过滤；学生只能看到自己的提交
func (s *submissionService) List(ctx context.Context, callerID, callerRole string, filters repository.SubmissionFilters) ([]repository.SubmissionWithDetails, error) {
	if callerRole != model.RoleTeacher {
		filters.StudentID = callerID
	}
	return s.repo.Submission.ListWithDetails(ctx, filters)
}
