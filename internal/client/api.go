package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/pkg/scheduler"
)

// SlotBackend 课时远端存储
type SlotBackend interface {
	ListSlots(ctx context.Context, professorID int64) ([]calendar.Slot, error)
	CreateSlot(ctx context.Context, capability *Capability, data calendar.SlotData) (calendar.Slot, error)
	UpdateSlot(ctx context.Context, capability *Capability, id int64, version int, data calendar.SlotData) (calendar.Slot, error)
	DeleteSlot(ctx context.Context, capability *Capability, id int64) error
	DeleteSlotsByProfessor(ctx context.Context, capability *Capability, professorID int64) (int64, error)
}

// ProfessorBackend 教授远端存储
type ProfessorBackend interface {
	ListProfessors(ctx context.Context) ([]dto.ProfessorResponse, error)
	CreateProfessor(ctx context.Context, capability *Capability, req dto.CreateProfessorRequest) (dto.ProfessorResponse, error)
	DeleteProfessor(ctx context.Context, capability *Capability, id int64) error
}

// GenerationBackend 排课生成代理
type GenerationBackend interface {
	Generate(ctx context.Context, capability *Capability) (*scheduler.Result, error)
	ApproveSchedule(ctx context.Context, capability *Capability, id int64) error
	RejectSchedule(ctx context.Context, capability *Capability, id int64) error
}

// API 管理端 REST 客户端（/api/v1）
type API struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	// 生成方案需等待排课服务多轮运行，单独计时
	generateTimeout time.Duration
}

// DefaultGenerateTimeout 生成请求的默认超时
const DefaultGenerateTimeout = 3 * time.Minute

// NewAPI 创建 REST 客户端；timeout <= 0 时默认 10s，作用于每次调用
func NewAPI(baseURL string, timeout time.Duration) *API {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &API{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{},
		timeout:         timeout,
		generateTimeout: DefaultGenerateTimeout,
	}
}

// SetGenerateTimeout 调整生成请求超时，d <= 0 时忽略
func (a *API) SetGenerateTimeout(d time.Duration) {
	if d > 0 {
		a.generateTimeout = d
	}
}

// envelope 服务端统一响应
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details string          `json:"details"`
}

// ════════════════════════════════════════════════════════════
// 认证
// ════════════════════════════════════════════════════════════

// Login 登录并换取能力凭证
func (a *API) Login(ctx context.Context, username, password string) (*Capability, error) {
	var tok dto.TokenResponse
	err := a.do(ctx, "login", http.MethodPost, "/auth/login", nil,
		dto.LoginRequest{Username: username, Password: password}, &tok)
	if err != nil {
		return nil, err
	}
	exp, _ := time.Parse(time.RFC3339, tok.ExpiresAt)
	return &Capability{Token: tok.AccessToken, ExpiresAt: exp}, nil
}

// Logout 注销凭证
func (a *API) Logout(ctx context.Context, capability *Capability) error {
	if err := requireCapability(capability); err != nil {
		return err
	}
	return a.do(ctx, "logout", http.MethodPost, "/auth/logout", capability, nil, nil)
}

// ════════════════════════════════════════════════════════════
// 教授
// ════════════════════════════════════════════════════════════

func (a *API) ListProfessors(ctx context.Context) ([]dto.ProfessorResponse, error) {
	var out struct {
		List []dto.ProfessorResponse `json:"list"`
	}
	if err := a.do(ctx, "list professors", http.MethodGet, "/professors", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.List, nil
}

func (a *API) CreateProfessor(ctx context.Context, capability *Capability, req dto.CreateProfessorRequest) (dto.ProfessorResponse, error) {
	var out dto.ProfessorResponse
	err := a.do(ctx, "create professor", http.MethodPost, "/professors", capability, req, &out)
	return out, err
}

func (a *API) DeleteProfessor(ctx context.Context, capability *Capability, id int64) error {
	return a.do(ctx, "delete professor", http.MethodDelete, fmt.Sprintf("/professors/%d", id), capability, nil, nil)
}

// ════════════════════════════════════════════════════════════
// 课时
// ════════════════════════════════════════════════════════════

func (a *API) ListSlots(ctx context.Context, professorID int64) ([]calendar.Slot, error) {
	var out struct {
		List []dto.SlotResponse `json:"list"`
	}
	path := fmt.Sprintf("/professors/%d/slots", professorID)
	if err := a.do(ctx, "list slots", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	slots := make([]calendar.Slot, 0, len(out.List))
	for i := range out.List {
		slots = append(slots, slotFromResponse(&out.List[i]))
	}
	return slots, nil
}

func (a *API) CreateSlot(ctx context.Context, capability *Capability, data calendar.SlotData) (calendar.Slot, error) {
	var out dto.SlotResponse
	if err := a.do(ctx, "create slot", http.MethodPost, "/slots", capability, slotRequest(data), &out); err != nil {
		return calendar.Slot{}, err
	}
	return slotFromResponse(&out), nil
}

func (a *API) UpdateSlot(ctx context.Context, capability *Capability, id int64, version int, data calendar.SlotData) (calendar.Slot, error) {
	req := dto.UpdateSlotRequest{SlotRequest: slotRequest(data), Version: version}
	var out dto.SlotResponse
	if err := a.do(ctx, "update slot", http.MethodPut, fmt.Sprintf("/slots/%d", id), capability, req, &out); err != nil {
		return calendar.Slot{}, err
	}
	return slotFromResponse(&out), nil
}

func (a *API) DeleteSlot(ctx context.Context, capability *Capability, id int64) error {
	return a.do(ctx, "delete slot", http.MethodDelete, fmt.Sprintf("/slots/%d", id), capability, nil, nil)
}

func (a *API) DeleteSlotsByProfessor(ctx context.Context, capability *Capability, professorID int64) (int64, error) {
	var out dto.DeleteSlotsResponse
	path := fmt.Sprintf("/professors/%d/slots", professorID)
	if err := a.do(ctx, "delete slots", http.MethodDelete, path, capability, nil, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

// ════════════════════════════════════════════════════════════
// 排课生成
// ════════════════════════════════════════════════════════════

func (a *API) Generate(ctx context.Context, capability *Capability) (*scheduler.Result, error) {
	var out scheduler.Result
	if err := a.doTimeout(ctx, a.generateTimeout, "generate", http.MethodPost, "/schedules/generate", capability, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) ApproveSchedule(ctx context.Context, capability *Capability, id int64) error {
	return a.do(ctx, "approve", http.MethodPost, fmt.Sprintf("/schedules/%d/approve", id), capability, nil, nil)
}

func (a *API) RejectSchedule(ctx context.Context, capability *Capability, id int64) error {
	return a.do(ctx, "reject", http.MethodPost, fmt.Sprintf("/schedules/%d/reject", id), capability, nil, nil)
}

// ListSchedules 已生成方案列表
func (a *API) ListSchedules(ctx context.Context, capability *Capability) ([]scheduler.ScheduleSummary, error) {
	var out dto.ScheduleListResponse
	if err := a.do(ctx, "list schedules", http.MethodGet, "/schedules", capability, nil, &out); err != nil {
		return nil, err
	}
	return out.List, nil
}

// ════════════════════════════════════════════════════════════
// 只读视图
// ════════════════════════════════════════════════════════════

// CalendarEvents 公共日历
func (a *API) CalendarEvents(ctx context.Context, date, view string) (*dto.CalendarResponse, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	if view != "" {
		q.Set("view", view)
	}
	var out dto.CalendarResponse
	if err := a.do(ctx, "calendar", http.MethodGet, "/calendar/events?"+q.Encode(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Workload 负荷公平性统计
func (a *API) Workload(ctx context.Context, capability *Capability) (*dto.WorkloadStatsResponse, error) {
	var out dto.WorkloadStatsResponse
	if err := a.do(ctx, "workload", http.MethodGet, "/stats/workload", capability, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportTimetable 下载教授周课表 xlsx
func (a *API) ExportTimetable(ctx context.Context, capability *Capability, professorID int64) ([]byte, error) {
	path := fmt.Sprintf("/export/professors/%d/timetable", professorID)
	resp, cancel, err := a.send(ctx, "export", http.MethodGet, path, capability, nil)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "export", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("export", resp.StatusCode, raw)
	}
	return raw, nil
}

// ── 内部实现 ──

// send 发出请求，返回的 cancel 须在读完 body 后调用
func (a *API) send(ctx context.Context, op, method, path string, capability *Capability, body interface{}) (*http.Response, context.CancelFunc, error) {
	return a.sendTimeout(ctx, a.timeout, op, method, path, capability, body)
}

func (a *API) sendTimeout(ctx context.Context, timeout time.Duration, op, method, path string, capability *Capability, body interface{}) (*http.Response, context.CancelFunc, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, nil, &TransportError{Op: op, Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		cancel()
		return nil, nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if capability != nil && capability.Token != "" {
		req.Header.Set("Authorization", "Bearer "+capability.Token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, &TransportError{Op: op, Err: err}
	}
	return resp, cancel, nil
}

func (a *API) do(ctx context.Context, op, method, path string, capability *Capability, body, out interface{}) error {
	return a.doTimeout(ctx, a.timeout, op, method, path, capability, body, out)
}

func (a *API) doTimeout(ctx context.Context, timeout time.Duration, op, method, path string, capability *Capability, body, out interface{}) error {
	resp, cancel, err := a.sendTimeout(ctx, timeout, op, method, path, capability, body)
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(op, resp.StatusCode, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("解析响应失败: %w", err)}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("解析响应数据失败: %w", err)}
	}
	return nil
}

func apiError(op string, status int, raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Op: op, Status: status, Message: strings.TrimSpace(string(raw))}
	}
	return &APIError{Op: op, Status: status, Code: env.Code, Message: env.Message, Details: env.Details}
}

func slotRequest(d calendar.SlotData) dto.SlotRequest {
	return dto.SlotRequest{
		ProfessorID: d.ProfessorID,
		DayOfWeek:   dto.IntPtr(d.DayOfWeek),
		Hour:        dto.IntPtr(d.Hour),
		EndHour:     dto.IntPtr(d.EndHour),
		Subject:     d.Subject,
		Room:        d.Room,
		NeedsAC:     d.NeedsAC,
	}
}

func slotFromResponse(r *dto.SlotResponse) calendar.Slot {
	return calendar.Slot{
		ID:      r.ID,
		Version: r.Version,
		SlotData: calendar.SlotData{
			ProfessorID: r.ProfessorID,
			DayOfWeek:   r.DayOfWeek,
			Hour:        r.Hour,
			EndHour:     r.EndHour,
			Subject:     r.Subject,
			Room:        r.Room,
			NeedsAC:     r.NeedsAC,
		},
	}
}
