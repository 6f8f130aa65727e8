package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"

	"classhub/internal/dto"
	"classhub/internal/model"
	"classhub/internal/repository"
	"classhub/internal/storage"
	pkgerrors "classhub/pkg/errors"
)

var (
	ErrChallengeNotFound    = errors.New("挑战不存在")
	ErrChallengeFileMissing = errors.New("挑战文件缺失")
)

// 挑战文件缺失时 WithContent 返回的占位内容
const contentMissingMarker = "File not found"

// ChallengeService 挑战业务接口（挑战门）
// 判定只在提交答案时发生一次，解锁位写入会话作用域的 UnlockStore；
// 之后同一会话内的文件下载都要独立咨询 IsUnlocked，
// 不依赖来路页面等请求特征
type ChallengeService interface {
	Create(ctx context.Context, teacherID string, req *dto.CreateChallengeRequest, file *multipart.FileHeader) (*repository.ChallengeWithTeacher, error)
	List(ctx context.Context, teacherFilter string) ([]repository.ChallengeWithTeacher, error)
	CheckAnswer(ctx context.Context, challengeID, guess string) (bool, error)
	SubmitAnswer(ctx context.Context, sessionID, challengeID, guess string) (*dto.ChallengeAnswerResponse, error)
	IsUnlocked(ctx context.Context, sessionID, challengeID string) bool
	WithContent(ctx context.Context, id string) (*repository.ChallengeWithTeacher, string, error)
}

type challengeService struct {
	repo    *repository.Repository
	storage *storage.Manager
	unlocks UnlockStore
	logger  *zap.Logger
}

// NewChallengeService 创建 ChallengeService 实例
func NewChallengeService(repo *repository.Repository, st *storage.Manager, unlocks UnlockStore, logger *zap.Logger) ChallengeService {
	return &challengeService{repo: repo, storage: st, unlocks: unlocks, logger: logger}
}

func (s *challengeService) Create(ctx context.Context, teacherID string, req *dto.CreateChallengeRequest, file *multipart.FileHeader) (*repository.ChallengeWithTeacher, error) {
	saved, err := s.storage.Save(storage.KindChallenge, file)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Challenge.Create(ctx, &model.Challenge{
		TeacherID: teacherID,
		Hint:      req.Hint,
		FilePath:  saved.Path,
		Result:    strings.TrimSpace(req.Result),
	})
	if err != nil {
		return nil, err
	}

	ch, err := s.repo.Challenge.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	teacher, err := s.repo.User.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return &repository.ChallengeWithTeacher{Challenge: *ch, TeacherName: teacher.Fullname}, nil
}

func (s *challengeService) List(ctx context.Context, teacherFilter string) ([]repository.ChallengeWithTeacher, error) {
	return s.repo.Challenge.ListWithTeacher(ctx, teacherFilter)
}

// CheckAnswer 对比猜测与存储答案，不会改动解锁状态
func (s *challengeService) CheckAnswer(ctx context.Context, challengeID, guess string) (bool, error) {
	ch, err := s.repo.Challenge.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return false, ErrChallengeNotFound
		}
		return false, err
	}
	return answerMatches(guess, ch.Result), nil
}

// answerMatches 猜测与存储答案的唯一比对口径：
// 两侧各自去除首尾空白后大小写不敏感比较
func answerMatches(guess, stored string) bool {
	return strings.EqualFold(strings.TrimSpace(guess), strings.TrimSpace(stored))
}

// SubmitAnswer 学生提交答案
// 答对：会话内该挑战 Locked→Unlocked（单向），本次响应携带文件内容。
// 答错：保持 Locked，只返回统一的“答案不正确”，不泄露任何正确值信息
func (s *challengeService) SubmitAnswer(ctx context.Context, sessionID, challengeID, guess string) (*dto.ChallengeAnswerResponse, error) {
	ch, err := s.repo.Challenge.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	if !answerMatches(guess, ch.Result) {
		return &dto.ChallengeAnswerResponse{
			Correct: false,
			Message: "答案不正确，请再试一次",
		}, nil
	}

	content, ok := s.storage.ReadText(ch.FilePath)
	if !ok {
		return nil, ErrChallengeFileMissing
	}

	if err := s.unlocks.MarkSolved(ctx, sessionID, challengeID); err != nil {
		s.logger.Error("记录解锁状态失败", zap.Error(err))
		return nil, err
	}

	return &dto.ChallengeAnswerResponse{
		Correct: true,
		Message: "恭喜，答案正确！",
		Content: content,
	}, nil
}

// IsUnlocked 查询当前会话内某挑战是否已解锁
// 查询失败按未解锁处理
func (s *challengeService) IsUnlocked(ctx context.Context, sessionID, challengeID string) bool {
	solved, err := s.unlocks.IsSolved(ctx, sessionID, challengeID)
	if err != nil {
		s.logger.Warn("查询解锁状态失败", zap.Error(err))
		return false
	}
	return solved
}

// WithContent 挑战详情 + 文件内容（教师预览用）
// 文件缺失时内容为固定占位串，不视为错误
func (s *challengeService) WithContent(ctx context.Context, id string) (*repository.ChallengeWithTeacher, string, error) {
	var row repository.ChallengeWithTeacher
	ch, err := s.repo.Challenge.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, "", ErrChallengeNotFound
		}
		return nil, "", err
	}
	row.Challenge = *ch

	if teacher, err := s.repo.User.GetByID(ctx, ch.TeacherID); err == nil {
		row.TeacherName = teacher.Fullname
	}

	content, ok := s.storage.ReadText(ch.FilePath)
	if !ok {
		content = contentMissingMarker
	}
	return &row, content, nil
}
