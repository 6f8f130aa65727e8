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

var ErrAssignmentNotFound = errors.New("作业不存在")

// AssignmentService 作业业务接口
type AssignmentService interface {
	Create(ctx context.Context, teacherID string, req *dto.CreateAssignmentRequest, file *multipart.FileHeader) (*repository.AssignmentWithTeacher, error)
	Get(ctx context.Context, id string) (*repository.AssignmentWithTeacher, error)
	ListForTeacher(ctx context.Context, teacherFilter string) ([]repository.AssignmentWithTeacher, error)
	ListForStudent(ctx context.Context, studentID, teacherFilter string) ([]repository.AssignmentForStudent, error)
}

type assignmentService struct {
	repo    *repository.Repository
	storage *storage.Manager
	logger  *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, st *storage.Manager, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, storage: st, logger: logger}
}

func (s *assignmentService) Create(ctx context.Context, teacherID string, req *dto.CreateAssignmentRequest, file *multipart.FileHeader) (*repository.AssignmentWithTeacher, error) {
	saved, err := s.storage.Save(storage.KindAssignment, file)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Assignment.Create(ctx, &model.Assignment{
		TeacherID:   teacherID,
		Title:       req.Title,
		Description: req.Description,
		FilePath:    saved.Path,
		Filename:    saved.Filename,
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Assignment.GetWithTeacher(ctx, id)
}

func (s *assignmentService) Get(ctx context.Context, id string) (*repository.AssignmentWithTeacher, error) {
	a, err := s.repo.Assignment.GetWithTeacher(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) ListForTeacher(ctx context.Context, teacherFilter string) ([]repository.AssignmentWithTeacher, error) {
	return s.repo.Assignment.ListWithTeacher(ctx, teacherFilter)
}

// ListForStudent 学生视角列表，每条作业带“是否已提交”标记
func (s *assignmentService) ListForStudent(ctx context.Context, studentID, teacherFilter string) ([]repository.AssignmentForStudent, error) {
	return s.repo.Assignment.ListForStudent(ctx, studentID, teacherFilter)
}
