package jwt

import (
	"errors"
	"testing"
	"time"

	"classhub/config"
)

func newTestManager(accessTTL, refreshTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
	})
}

func TestGenerateAndParse_AccessToken(t *testing.T) {
	m := newTestManager(15*time.Minute, 24*time.Hour)
	sessionID := NewSessionID()

	token, err := m.GenerateAccessToken("user-1", "teacher", sessionID)
	if err != nil {
		t.Fatalf("生成 access token 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 token 失败: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("期望 UserID=user-1，实际: %s", claims.UserID)
	}
	if claims.Role != "teacher" {
		t.Errorf("期望 Role=teacher，实际: %s", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 TokenType=access，实际: %s", claims.TokenType)
	}
	if claims.SessionID != sessionID {
		t.Errorf("SessionID 应原样透传，实际: %s", claims.SessionID)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestGenerateAndParse_RefreshToken(t *testing.T) {
	m := newTestManager(15*time.Minute, 24*time.Hour)
	sessionID := NewSessionID()

	token, err := m.GenerateRefreshToken("user-1", "student", sessionID)
	if err != nil {
		t.Fatalf("生成 refresh token 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 token 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望 TokenType=refresh，实际: %s", claims.TokenType)
	}
	if claims.SessionID != sessionID {
		t.Errorf("access/refresh 应共享同一会话标识，实际: %s", claims.SessionID)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager(-1*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "teacher", NewSessionID())
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}

	_, err = m.ParseToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager(15*time.Minute, 24*time.Hour)
	other := NewManager(&config.AuthConfig{
		JWTSecret:       "another-secret-entirely",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})

	token, err := m.GenerateAccessToken("user-1", "teacher", NewSessionID())
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}

	_, err = other.ParseToken(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager(15*time.Minute, 24*time.Hour)

	_, err := m.ParseToken("not.a.token")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestNewSessionID_Unique(t *testing.T) {
	if NewSessionID() == NewSessionID() {
		t.Error("两次登录应产生不同的会话标识")
	}
}
