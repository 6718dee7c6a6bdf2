package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/handrailjsp/Scheduling/config"
	"github.com/handrailjsp/Scheduling/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 15 * time.Minute,
	})
}

// ═══════════════════════════════════════════════════════════
// JWTAuth / RoleAuth
// ═══════════════════════════════════════════════════════════

func protectedEngine(m *jwt.Manager, roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuth(m, nil))
	r.GET("/p", RoleAuth(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user": c.GetString(CtxUserID),
			"jti":  c.GetString(CtxTokenJTI),
		})
	})
	return r
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	w := httptest.NewRecorder()
	protectedEngine(newTestJWT(), jwt.RoleAdmin).ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_BadScheme(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Basic abc")
	protectedEngine(newTestJWT(), jwt.RoleAdmin).ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_ValidAdmin(t *testing.T) {
	m := newTestJWT()
	token, _, err := m.GenerateAccessToken("admin", jwt.RoleAdmin)
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedEngine(m, jwt.RoleAdmin).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"user":"admin"`) {
		t.Errorf("期望注入 user_id，实际 %s", w.Body.String())
	}
}

func TestRoleAuth_Forbidden(t *testing.T) {
	m := newTestJWT()
	token, _, _ := m.GenerateAccessToken("viewer", "viewer")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedEngine(m, jwt.RoleAdmin).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	other := jwt.NewManager(&config.AuthConfig{JWTSecret: "another-secret-another-secret"})
	token, _, _ := other.GenerateAccessToken("admin", jwt.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedEngine(newTestJWT(), jwt.RoleAdmin).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// BodyLimit
// ═══════════════════════════════════════════════════════════

func TestBodyLimit_RejectsDeclaredLength(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/b", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/b", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestBodyLimit_AllowsSmallBody(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(64))
	r.POST("/b", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/b", strings.NewReader("ok")))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CORS / RequestID / Logger
// ═══════════════════════════════════════════════════════════

func TestCORS_AllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000/"}))
	r.GET("/c", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/c", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("期望回显来源，实际 %q", got)
	}
}

func TestCORS_UnknownOriginPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/c", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/c", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("未知来源不应放行，实际 %q", got)
	}
}

func TestRequestID_PropagatesHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(zap.NewNop()))
	r.GET("/r", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/r", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	r.ServeHTTP(w, req)

	if w.Body.String() != "abc-123" || w.Header().Get(requestIDHeader) != "abc-123" {
		t.Errorf("期望透传 request id，实际 body=%q header=%q", w.Body.String(), w.Header().Get(requestIDHeader))
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/r", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", requestIDMaxLen+1))
	r.ServeHTTP(w, req)
	if len(w.Body.String()) != 36 {
		t.Errorf("过长 id 应替换为 UUID，实际 %q", w.Body.String())
	}
}
