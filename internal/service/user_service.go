package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"classhub/config"
	"classhub/internal/dto"
	"classhub/internal/model"
	"classhub/internal/repository"
	"classhub/internal/store"
	pkgerrors "classhub/pkg/errors"
)

var (
	ErrUsernameTaken    = errors.New("用户名已存在")
	ErrUpdateNotAllowed = errors.New("无权修改该用户")
	ErrUpdateFailed     = errors.New("更新用户失败")
)

// UserService 用户业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	ListTeachers(ctx context.Context) ([]dto.UserResponse, error)
	ListStudents(ctx context.Context) ([]dto.UserResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID, callerRole string) (*dto.UserResponse, error)
	EnsureDefaultTeacher(ctx context.Context, cfg *config.BootstrapConfig) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	// 用户名唯一性在创建前检查
	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Password: string(hash),
		Fullname: req.Fullname,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
	}

	id, err := s.repo.User.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) ListTeachers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

func (s *userService) ListStudents(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// Update 更新用户资料
// 本人可改自己的 email/phone；教师额外可改学生账号的
// username/fullname/password。密码为空字符串时保持原哈希不动，
// 非空时重新哈希后落库
func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID, callerRole string) (*dto.UserResponse, error) {
	target, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	isSelf := callerID == id
	teacherEditingStudent := callerRole == model.RoleTeacher && target.IsStudent()

	if !isSelf && !teacherEditingStudent {
		return nil, ErrUpdateNotAllowed
	}

	fields := store.Fields{}
	if req.Email != nil {
		fields["email"] = store.Text(*req.Email)
	}
	if req.Phone != nil {
		fields["phone"] = store.Text(*req.Phone)
	}

	if teacherEditingStudent {
		if req.Username != nil && *req.Username != target.Username {
			if _, err := s.repo.User.GetByUsername(ctx, *req.Username); err == nil {
				return nil, ErrUsernameTaken
			} else if !errors.Is(err, pkgerrors.ErrNotFound) {
				return nil, err
			}
			fields["username"] = store.Text(*req.Username)
		}
		if req.Fullname != nil {
			fields["fullname"] = store.Text(*req.Fullname)
		}
		if req.Password != nil && *req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				s.logger.Error("密码哈希失败", zap.Error(err))
				return nil, err
			}
			fields["password"] = store.Text(string(hash))
		}
	}

	if len(fields) > 0 {
		if !s.repo.User.Update(ctx, id, fields) {
			return nil, ErrUpdateFailed
		}
	}

	updated, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(updated)
	return &resp, nil
}

// EnsureDefaultTeacher 初始化引导
// 用户表为空且配置了引导密码时，创建默认教师账号
func (s *userService) EnsureDefaultTeacher(ctx context.Context, cfg *config.BootstrapConfig) error {
	count, err := s.repo.User.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 || cfg.TeacherPassword == "" {
		return nil
	}

	_, err = s.Create(ctx, &dto.CreateUserRequest{
		Username: cfg.TeacherUsername,
		Password: cfg.TeacherPassword,
		Fullname: cfg.TeacherName,
		Email:    cfg.TeacherEmail,
		Role:     model.RoleTeacher,
	})
	if err != nil {
		return err
	}

	s.logger.Info("已创建默认教师账号", zap.String("username", cfg.TeacherUsername))
	return nil
}

func toUserResponses(users []model.User) []dto.UserResponse {
	list := make([]dto.UserResponse, len(users))
	for i := range users {
		list[i] = toUserResponse(&users[i])
	}
	return list
}

// userPasswordFields 只更新密码哈希的列集合
func userPasswordFields(hash string) store.Fields {
	return store.Fields{"password": store.Text(hash)}
}
