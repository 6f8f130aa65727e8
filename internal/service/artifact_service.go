package service

import (
	"context"
	"errors"
	"path/filepath"

	"go.uber.org/zap"

	"classhub/internal/model"
	"classhub/internal/repository"
	"classhub/internal/storage"
	pkgerrors "classhub/pkg/errors"
)

// 拒绝原因，区分 401/403/404 的映射
const (
	DenyUnauthenticated = "unauthenticated"
	DenyNotFound        = "not_found"
	DenyForbidden       = "forbidden"
	DenyLocked          = "locked"
)

// Identity 发起下载请求的调用者身份
type Identity struct {
	UserID        string
	Role          string
	SessionID     string
	Authenticated bool
}

// Decision 授权判定结果
// Allowed 为 false 时 Reason 必填；为 true 时携带落盘路径与下载文件名
type Decision struct {
	Allowed  bool
	Reason   string
	FilePath string
	Filename string
	MIMEType string
}

// ArtifactService 文件下载授权门
// 每次请求独立判定，不缓存判定结果：
//   - 作业：任何已登录用户可下载
//   - 提交：教师可下载任意提交，学生只能下载自己的
//   - 挑战：教师随时可下载；学生只有当前会话已解锁该挑战时可下载
//
// 记录不存在与文件已从磁盘消失统一按 not_found 处理，
// 不向未授权方泄露记录是否存在
type ArtifactService interface {
	Authorize(ctx context.Context, who Identity, artifactType, artifactID string) Decision
}

type artifactService struct {
	repo      *repository.Repository
	storage   *storage.Manager
	challenge ChallengeService
	logger    *zap.Logger
}

// NewArtifactService 创建 ArtifactService 实例
func NewArtifactService(repo *repository.Repository, st *storage.Manager, challenge ChallengeService, logger *zap.Logger) ArtifactService {
	return &artifactService{repo: repo, storage: st, challenge: challenge, logger: logger}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

func (s *artifactService) allow(path, filename string) Decision {
	// 授权通过但文件已不在磁盘上，降级为 not_found
	if !s.storage.Exists(path) {
		s.logger.Warn("文件记录存在但磁盘文件缺失", zap.String("path", path))
		return deny(DenyNotFound)
	}
	return Decision{
		Allowed:  true,
		FilePath: path,
		Filename: filename,
		MIMEType: storage.MIMEByExtension(filename),
	}
}

// Authorize 判定 who 能否下载 artifactType/artifactID 指向的文件
// 身份校验在任何记录查询之前
func (s *artifactService) Authorize(ctx context.Context, who Identity, artifactType, artifactID string) Decision {
	if !who.Authenticated {
		return deny(DenyUnauthenticated)
	}

	switch artifactType {
	case "assignment":
		return s.authorizeAssignment(ctx, artifactID)
	case "submission":
		return s.authorizeSubmission(ctx, who, artifactID)
	case "challenge":
		return s.authorizeChallenge(ctx, who, artifactID)
	default:
		return deny(DenyNotFound)
	}
}

func (s *artifactService) authorizeAssignment(ctx context.Context, id string) Decision {
	a, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			s.logger.Error("查询作业失败", zap.Error(err))
		}
		return deny(DenyNotFound)
	}
	return s.allow(a.FilePath, a.Filename)
}

func (s *artifactService) authorizeSubmission(ctx context.Context, who Identity, id string) Decision {
	sub, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			s.logger.Error("查询提交失败", zap.Error(err))
		}
		return deny(DenyNotFound)
	}
	// 教师或提交所有者本人
	if who.Role != model.RoleTeacher && sub.StudentID != who.UserID {
		return deny(DenyForbidden)
	}
	return s.allow(sub.FilePath, sub.Filename)
}

func (s *artifactService) authorizeChallenge(ctx context.Context, who Identity, id string) Decision {
	ch, err := s.repo.Challenge.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			s.logger.Error("查询挑战失败", zap.Error(err))
		}
		return deny(DenyNotFound)
	}
	if who.Role != model.RoleTeacher && !s.challenge.IsUnlocked(ctx, who.SessionID, ch.ID) {
		return deny(DenyLocked)
	}
	return s.allow(ch.FilePath, filepath.Base(ch.FilePath))
}
