// Package scheduler 外部排课生成服务的 HTTP 客户端
//
// 外部服务（遗传算法求解器）提供：
//
//	POST /api/generate-schedule?runs=N
//	POST /api/schedules/{id}/approve
//	POST /api/schedules/{id}/reject
//	GET  /api/schedules
//	GET  /api/schedules/{id}
//
// 所有调用不自动重试；传输失败返回 *TransportError，
// 服务端 success=false 或非 2xx 返回 *RemoteError。
package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidInput 参数非法（未发出请求）
var ErrInvalidInput = errors.New("排课服务参数无效")

// TransportError 网络层失败（连接拒绝、超时、响应无法解析）
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("排课服务 %s 请求失败: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError 排课服务返回失败
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("排课服务 %s 返回失败 (HTTP %d): %s", e.Op, e.StatusCode, e.Message)
}

// Client 排课服务客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建排课服务客户端；httpClient 为 nil 时使用 DefaultHTTPClient
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = DefaultHTTPClient(0)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// DefaultHTTPClient 排课生成耗时较长，默认超时 120s
func DefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// ── 线上报文 ──

// GenerateResponse 生成接口响应
type GenerateResponse struct {
	Success        bool    `json:"success"`
	ScheduleID     int64   `json:"schedule_id"`
	FitnessScore   float64 `json:"fitness_score"`
	HardViolations int     `json:"hard_violations"`
	SoftScore      float64 `json:"soft_score"`
	GiniWorkload   float64 `json:"gini_workload"`
	GiniRoomUsage  float64 `json:"gini_room_usage"`
	GiniACAccess   float64 `json:"gini_ac_access"`
	AutoApproved   bool    `json:"auto_approved"`
	Message        string  `json:"message"`
}

// ActionResponse 通过/驳回接口响应
type ActionResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SlotsCleared int    `json:"slots_cleared,omitempty"`
	SlotsAdded   int    `json:"slots_added,omitempty"`
}

// ScheduleSummary 已生成排课方案摘要（列表按生成时间倒序）
type ScheduleSummary struct {
	ID             int64   `json:"id"`
	Status         string  `json:"status"`
	GenerationDate string  `json:"generation_date"`
	FitnessScore   float64 `json:"fitness_score"`
	HardViolations int     `json:"hard_constraint_violations"`
	SoftScore      float64 `json:"soft_constraint_score"`
	GiniWorkload   float64 `json:"gini_workload"`
	GiniRoomUsage  float64 `json:"gini_room_usage"`
	GiniACAccess   float64 `json:"gini_ac_access"`
	Notes          string  `json:"notes,omitempty"`
}

// ProfessorRef 方案课时中嵌入的教授信息
type ProfessorRef struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Department string `json:"department"`
}

// GeneratedSlot 方案中的一节课
type GeneratedSlot struct {
	ID          int64         `json:"id"`
	ProfessorID int64         `json:"professor_id"`
	RoomID      int           `json:"room_id"`
	DayOfWeek   int           `json:"day_of_week"`
	StartHour   int           `json:"start_hour"`
	EndHour     int           `json:"end_hour"`
	Subject     string        `json:"subject"`
	Professor   *ProfessorRef `json:"professors,omitempty"`
}

// ScheduleDetail 方案详情
type ScheduleDetail struct {
	Schedule *ScheduleSummary `json:"schedule,omitempty"`
	Slots    []GeneratedSlot  `json:"slots"`
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail"` // FastAPI HTTPException
	Data    T      `json:"data"`
}

// ── 接口 ──

// Generate 触发一次排课生成，runs 为算法运行次数
func (c *Client) Generate(ctx context.Context, runs int) (*GenerateResponse, error) {
	if runs < 1 {
		return nil, ErrInvalidInput
	}
	q := url.Values{"runs": []string{strconv.Itoa(runs)}}

	var body GenerateResponse
	if err := c.do(ctx, "generate", http.MethodPost, "/api/generate-schedule?"+q.Encode(), &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, &RemoteError{Op: "generate", StatusCode: http.StatusOK, Message: body.Message}
	}
	return &body, nil
}

// Approve 通过方案（服务端会以该方案替换线上课表）
func (c *Client) Approve(ctx context.Context, scheduleID int64) (*ActionResponse, error) {
	return c.action(ctx, "approve", scheduleID)
}

// Reject 驳回方案
func (c *Client) Reject(ctx context.Context, scheduleID int64) (*ActionResponse, error) {
	return c.action(ctx, "reject", scheduleID)
}

func (c *Client) action(ctx context.Context, op string, scheduleID int64) (*ActionResponse, error) {
	if scheduleID <= 0 {
		return nil, ErrInvalidInput
	}
	var body ActionResponse
	path := fmt.Sprintf("/api/schedules/%d/%s", scheduleID, op)
	if err := c.do(ctx, op, http.MethodPost, path, &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, &RemoteError{Op: op, StatusCode: http.StatusOK, Message: body.Message}
	}
	return &body, nil
}

// ListSchedules 获取全部已生成方案（生成时间倒序）
func (c *Client) ListSchedules(ctx context.Context) ([]ScheduleSummary, error) {
	var body envelope[[]ScheduleSummary]
	if err := c.do(ctx, "list", http.MethodGet, "/api/schedules", &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, &RemoteError{Op: "list", StatusCode: http.StatusOK, Message: body.Message}
	}
	return body.Data, nil
}

// GetSchedule 获取方案详情（含课时）
func (c *Client) GetSchedule(ctx context.Context, scheduleID int64) (*ScheduleDetail, error) {
	if scheduleID <= 0 {
		return nil, ErrInvalidInput
	}
	var body envelope[ScheduleDetail]
	if err := c.do(ctx, "detail", http.MethodGet, fmt.Sprintf("/api/schedules/%d", scheduleID), &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, &RemoteError{Op: "detail", StatusCode: http.StatusOK, Message: body.Message}
	}
	return &body.Data, nil
}

// LatestApproved 返回最新的已通过方案；无则返回 nil
// 列表已按 generation_date 倒序，取第一个 approved
func LatestApproved(schedules []ScheduleSummary) *ScheduleSummary {
	for i := range schedules {
		if schedules[i].Status == StatusApproved {
			return &schedules[i]
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, out interface{}) error {
	if c.baseURL == "" {
		return ErrInvalidInput
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Message: remoteMessage(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("解析响应失败: %w", err)}
	}
	return nil
}

// remoteMessage 提取错误消息：优先 detail（FastAPI），其次 message
func remoteMessage(raw []byte) string {
	var e struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if json.Unmarshal(raw, &e) == nil {
		if e.Detail != "" {
			return e.Detail
		}
		if e.Message != "" {
			return e.Message
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
