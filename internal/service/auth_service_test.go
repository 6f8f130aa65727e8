package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"classhub/config"
	"classhub/internal/dto"
	"classhub/internal/model"
	"classhub/pkg/jwt"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
	}
}

func setupTestAuthService() (AuthService, *jwt.Manager, UnlockStore, *mockRepos) {
	cfg := testAuthConfig()
	repo, mocks := newMockRepository()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	unlocks := NewUnlockStore(nil, cfg.Auth.RefreshTokenTTL)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, unlocks, zap.NewNop())
	return svc, jwtMgr, unlocks, mocks
}

func createTestUser(users *mockUserRepo, username, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		ID:       "user-" + username,
		Username: username,
		Password: string(hash),
		Fullname: "测试用户",
		Email:    username + "@test.com",
		Role:     role,
	}
	users.users[user.ID] = user
	return user
}

// ── 登录测试 ──

func TestLogin_Success(t *testing.T) {
	svc, jwtMgr, _, mocks := setupTestAuthService()
	createTestUser(mocks.users, "teacher1", "password123", model.RoleTeacher)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "teacher1",
		Password: "password123",
	})

	if err != nil {
		t.Fatalf("Login 应成功，但返回错误: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("AccessToken 不应为空")
	}
	if result.RefreshToken == "" {
		t.Error("RefreshToken 不应为空")
	}
	if result.ExpiresIn != 900 {
		t.Errorf("期望 ExpiresIn=900，实际=%d", result.ExpiresIn)
	}

	// access 与 refresh 共享同一会话标识
	access, err := jwtMgr.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("解析 AccessToken 失败: %v", err)
	}
	refresh, err := jwtMgr.ParseToken(result.RefreshToken)
	if err != nil {
		t.Fatalf("解析 RefreshToken 失败: %v", err)
	}
	if access.SessionID == "" {
		t.Error("SessionID 不应为空")
	}
	if access.SessionID != refresh.SessionID {
		t.Errorf("两枚 Token 应共享同一会话标识: %s != %s", access.SessionID, refresh.SessionID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, mocks := setupTestAuthService()
	createTestUser(mocks.users, "teacher1", "password123", model.RoleTeacher)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "teacher1",
		Password: "wrong_password",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "nonexistent",
		Password: "password123",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_NewSessionPerLogin(t *testing.T) {
	svc, jwtMgr, _, mocks := setupTestAuthService()
	createTestUser(mocks.users, "student1", "password123", model.RoleStudent)

	req := &dto.LoginRequest{Username: "student1", Password: "password123"}
	first, err := svc.Login(context.Background(), req)
	if err != nil {
		t.Fatalf("第一次 Login 失败: %v", err)
	}
	second, err := svc.Login(context.Background(), req)
	if err != nil {
		t.Fatalf("第二次 Login 失败: %v", err)
	}

	c1, _ := jwtMgr.ParseToken(first.AccessToken)
	c2, _ := jwtMgr.ParseToken(second.AccessToken)
	if c1.SessionID == c2.SessionID {
		t.Error("两次登录应得到不同的会话标识")
	}
}

// ── 刷新测试 ──

func TestRefresh_PreservesSession(t *testing.T) {
	svc, jwtMgr, _, mocks := setupTestAuthService()
	createTestUser(mocks.users, "student1", "password123", model.RoleStudent)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "student1",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}

	before, _ := jwtMgr.ParseToken(login.AccessToken)
	after, _ := jwtMgr.ParseToken(refreshed.AccessToken)
	if before.SessionID != after.SessionID {
		t.Errorf("刷新后会话标识应保持不变: %s != %s", before.SessionID, after.SessionID)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, _, _, mocks := setupTestAuthService()
	createTestUser(mocks.users, "student1", "password123", model.RoleStudent)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "student1",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}

	// 用 AccessToken 冒充 RefreshToken
	_, err = svc.Refresh(context.Background(), login.AccessToken)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── 登出测试 ──

func TestLogout_ForgetsUnlockState(t *testing.T) {
	svc, jwtMgr, unlocks, mocks := setupTestAuthService()
	createTestUser(mocks.users, "student1", "password123", model.RoleStudent)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "student1",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	claims, _ := jwtMgr.ParseToken(login.AccessToken)

	ctx := context.Background()
	if err := unlocks.MarkSolved(ctx, claims.SessionID, "challenge-1"); err != nil {
		t.Fatalf("MarkSolved 失败: %v", err)
	}

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout 应成功: %v", err)
	}

	solved, _ := unlocks.IsSolved(ctx, claims.SessionID, "challenge-1")
	if solved {
		t.Error("登出后该会话的解锁状态应被清除")
	}
}

// ── 修改密码测试 ──

func TestChangePassword_Success(t *testing.T) {
	svc, _, _, mocks := setupTestAuthService()
	user := createTestUser(mocks.users, "student1", "oldpassword1", model.RoleStudent)

	err := svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "oldpassword1",
		NewPassword: "newpassword1",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	stored := mocks.users.users[user.ID]
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpassword1")) != nil {
		t.Error("新密码应通过校验")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("oldpassword1")) == nil {
		t.Error("旧密码不应再通过校验")
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	svc, _, _, mocks := setupTestAuthService()
	user := createTestUser(mocks.users, "student1", "oldpassword1", model.RoleStudent)

	err := svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newpassword1",
	})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("期望 ErrPasswordMismatch，实际: %v", err)
	}
}
