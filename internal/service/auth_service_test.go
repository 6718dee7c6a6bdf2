package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/handrailjsp/Scheduling/config"
	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/pkg/jwt"
)

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	entries map[string]time.Duration
	err     error
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.entries[jti] = ttl
	return nil
}

func setupTestAuthService(blacklist TokenBlacklist) (AuthService, *jwt.Manager) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	cfg := &config.AuthConfig{
		JWTSecret:         "test-secret-key-for-unit-tests",
		AccessTokenTTL:    15 * time.Minute,
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
	}
	jwtMgr := jwt.NewManager(cfg)
	return NewAuthService(cfg, jwtMgr, blacklist, zap.NewNop()), jwtMgr
}

// ── 登录测试 ──

func TestLogin_Success(t *testing.T) {
	svc, jwtMgr := setupTestAuthService(nil)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("Login 应成功，但返回错误: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("AccessToken 不应为空")
	}
	if result.TokenType != "Bearer" {
		t.Errorf("期望 TokenType=Bearer，实际=%s", result.TokenType)
	}
	if result.ExpiresIn <= 0 || result.ExpiresIn > 900 {
		t.Errorf("期望 ExpiresIn 在 (0, 900]，实际=%d", result.ExpiresIn)
	}

	claims, err := jwtMgr.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("签发的凭证应可解析: %v", err)
	}
	if claims.Role != jwt.RoleAdmin || claims.Subject != "admin" {
		t.Errorf("凭证声明不符: role=%s sub=%s", claims.Role, claims.Subject)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := setupTestAuthService(nil)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin",
		Password: "wrong_password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_WrongUsername(t *testing.T) {
	svc, _ := setupTestAuthService(nil)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "root",
		Password: "secret-pass",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── 注销测试 ──

func TestLogout_Blacklists(t *testing.T) {
	bl := &mockBlacklist{entries: make(map[string]time.Duration)}
	svc, _ := setupTestAuthService(bl)

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Logout 应成功: %v", err)
	}
	ttl, ok := bl.entries["jti-1"]
	if !ok {
		t.Fatal("jti 应加入黑名单")
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("黑名单 TTL 异常: %v", ttl)
	}
}

func TestLogout_ExpiredTokenSkipped(t *testing.T) {
	bl := &mockBlacklist{entries: make(map[string]time.Duration)}
	svc, _ := setupTestAuthService(bl)

	if err := svc.Logout(context.Background(), "jti-old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("过期凭证注销应直接成功: %v", err)
	}
	if len(bl.entries) != 0 {
		t.Error("过期凭证无需加入黑名单")
	}
}

func TestLogout_NoRedis(t *testing.T) {
	svc, _ := setupTestAuthService(nil)
	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("Redis 不可用时 Logout 应降级成功: %v", err)
	}
}

func TestLogout_BlacklistError(t *testing.T) {
	bl := &mockBlacklist{entries: make(map[string]time.Duration), err: errors.New("redis down")}
	svc, _ := setupTestAuthService(bl)
	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Hour)); err == nil {
		t.Error("黑名单写入失败时应返回错误")
	}
}
