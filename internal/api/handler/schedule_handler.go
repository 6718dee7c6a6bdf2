package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/handrailjsp/Scheduling/internal/service"
	"github.com/handrailjsp/Scheduling/pkg/response"
	"github.com/handrailjsp/Scheduling/pkg/scheduler"
)

// ScheduleHandler 排课生成模块 HTTP 处理器（代理外部排课服务）
type ScheduleHandler struct {
	svc service.GenerationService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(svc service.GenerationService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// Generate 触发一次排课生成
// POST /api/v1/schedules/generate
func (h *ScheduleHandler) Generate(c *gin.Context) {
	result, err := h.svc.Generate(c.Request.Context())
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, result)
}

// List 已生成方案列表（按生成时间倒序）
// GET /api/v1/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 方案详情（含课时）
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, detail)
}

// Result 方案的生成结果与公平性指标
// GET /api/v1/schedules/:id/result
func (h *ScheduleHandler) Result(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.Result(c.Request.Context(), id)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, result)
}

// Approve 通过待审核方案
// POST /api/v1/schedules/:id/approve
func (h *ScheduleHandler) Approve(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.Approve(c.Request.Context(), id)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, result)
}

// Reject 驳回待审核方案
// POST /api/v1/schedules/:id/reject
func (h *ScheduleHandler) Reject(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.Reject(c.Request.Context(), id)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, result)
}

func handleScheduleError(c *gin.Context, err error) {
	var (
		terr *scheduler.TransportError
		rerr *scheduler.RemoteError
	)
	switch {
	case errors.Is(err, service.ErrGenerationInProgress):
		response.Conflict(c, 15101, "已有排课生成任务进行中")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 15102, "排课方案不存在")
	case errors.Is(err, service.ErrScheduleNotPending):
		response.Conflict(c, 15103, "排课方案不处于待审核状态")
	case errors.Is(err, scheduler.ErrInvalidInput):
		response.BadRequest(c, 15104, "排课参数无效")
	case errors.As(err, &rerr):
		if rerr.StatusCode == http.StatusNotFound {
			response.NotFound(c, 15102, "排课方案不存在")
			return
		}
		response.BadGateway(c, 15201, "排课服务返回失败", rerr.Message)
	case errors.As(err, &terr):
		response.BadGateway(c, 15202, "排课服务不可用", terr.Error())
	default:
		response.InternalError(c)
	}
}
