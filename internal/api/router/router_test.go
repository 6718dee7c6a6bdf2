package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/handrailjsp/Scheduling/config"
	"github.com/handrailjsp/Scheduling/internal/api/handler"
	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/pkg/jwt"
)

type stubProfessorService struct{}

func (stubProfessorService) List(_ context.Context) ([]dto.ProfessorResponse, error) {
	return []dto.ProfessorResponse{}, nil
}

func (stubProfessorService) Get(_ context.Context, id int64) (*dto.ProfessorResponse, error) {
	return &dto.ProfessorResponse{ID: id, Name: "Ada"}, nil
}

func (stubProfessorService) Create(_ context.Context, req *dto.CreateProfessorRequest) (*dto.ProfessorResponse, error) {
	return &dto.ProfessorResponse{ID: 1, Name: req.Name}, nil
}

func (stubProfessorService) Delete(_ context.Context, id int64) (*dto.DeleteProfessorResponse, error) {
	return &dto.DeleteProfessorResponse{ID: id}, nil
}

func setupTestRouter(t *testing.T) (http.Handler, *jwt.Manager) {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{BodyLimit: 1 << 20},
		Auth:   config.AuthConfig{JWTSecret: "router-test-secret-0123456789", AccessTokenTTL: time.Minute},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)

	h := &handler.Handler{
		Auth:      handler.NewAuthHandler(nil),
		Professor: handler.NewProfessorHandler(stubProfessorService{}),
		Slot:      handler.NewSlotHandler(nil),
		Grid:      handler.NewGridHandler(nil),
		Schedule:  handler.NewScheduleHandler(nil),
		Calendar:  handler.NewCalendarHandler(nil),
		Stats:     handler.NewStatsHandler(nil),
		Export:    handler.NewExportHandler(nil),
	}
	return Setup(cfg, h, jwtMgr, nil, zap.NewNop()), jwtMgr
}

func TestRouter_Health(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("期望响应携带 X-Request-ID")
	}
}

func TestRouter_Metrics(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRouter_PublicReadWithoutToken(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/professors/3", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRouter_MutationRequiresCapability(t *testing.T) {
	r, jwtMgr := setupTestRouter(t)
	body := `{"name":"Ada"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/professors", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("无凭证应返回 401，got %d", w.Code)
	}

	token, _, err := jwtMgr.GenerateAccessToken("admin", jwt.RoleAdmin)
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/v1/professors", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Errorf("持有管理员凭证应返回 201，got %d", w.Code)
	}
}

func TestRouter_NonAdminForbidden(t *testing.T) {
	r, jwtMgr := setupTestRouter(t)
	token, _, _ := jwtMgr.GenerateAccessToken("viewer", "viewer")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/v1/professors/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
