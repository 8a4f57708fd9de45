package jwt

import (
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"gestion-notas/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		TokenTTL:  4 * time.Hour,
		Issuer:    "gestion-notas",
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	m := newTestManager()

	token, expiresAt, err := m.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("期望 UserID=42，实际=%d", claims.UserID)
	}
	if len(claims.Roles) != 0 {
		t.Errorf("登录 Token 不应携带角色，实际=%v", claims.Roles)
	}
	if claims.Issuer != "gestion-notas" {
		t.Errorf("期望 Issuer=gestion-notas，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
	if !claims.ExpiresAt.Time.Equal(expiresAt.Truncate(time.Second)) {
		t.Errorf("过期时间不一致: %v vs %v", claims.ExpiresAt.Time, expiresAt)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 3*time.Hour+59*time.Minute || ttl > 4*time.Hour {
		t.Errorf("Token TTL 期望约4h，实际=%v", ttl)
	}
}

func TestGenerateToken_WithRoles(t *testing.T) {
	m := newTestManager()

	token, _, _ := m.GenerateToken(1, "admin")
	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}
	if !claims.HasRole("admin") {
		t.Error("期望包含 admin 角色")
	}
	if claims.HasRole("docente") {
		t.Error("不应包含 docente 角色")
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	m := newTestManager()

	_, err := m.ParseToken("invalid.token.string")
	if err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m1 := newTestManager()
	m2 := NewManager(&config.AuthConfig{
		JWTSecret: "different-secret-key-0000",
		TokenTTL:  4 * time.Hour,
	})

	token, _, _ := m1.GenerateToken(1)
	if _, err := m2.ParseToken(token); err == nil {
		t.Error("不同密钥签名的 token 不应通过验证")
	}
}

func TestParseToken_NoneAlgorithm(t *testing.T) {
	m := newTestManager()

	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, claims).SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("构造 none token 失败: %v", err)
	}

	if _, err := m.ParseToken(token); err == nil {
		t.Error("alg=none 的 token 不应通过验证")
	}
}

func TestParseToken_OlderThanFourHours(t *testing.T) {
	m := newTestManager()
	issued := time.Now()
	m.now = func() time.Time { return issued }

	token, _, err := m.GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	m.now = func() time.Time { return issued.Add(3*time.Hour + 59*time.Minute) }
	if _, err := m.ParseToken(token); err != nil {
		t.Errorf("4 小时内的 token 应有效: %v", err)
	}

	m.now = func() time.Time { return issued.Add(4*time.Hour + time.Second) }
	_, err = m.ParseToken(token)
	if err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}
