package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/handrailjsp/Scheduling/internal/api/middleware"
	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/internal/service"
	pkgerrors "github.com/handrailjsp/Scheduling/pkg/errors"
	"github.com/handrailjsp/Scheduling/pkg/response"
)

// SlotHandler 课时模块 HTTP 处理器
type SlotHandler struct {
	svc service.SlotService
}

// NewSlotHandler 创建 SlotHandler
func NewSlotHandler(svc service.SlotService) *SlotHandler {
	return &SlotHandler{svc: svc}
}

// ListByProfessor 教授的全部课时
// GET /api/v1/professors/:id/slots
func (h *SlotHandler) ListByProfessor(c *gin.Context) {
	professorID, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	slots, err := h.svc.ListByProfessor(c.Request.Context(), professorID)
	if err != nil {
		handleSlotError(c, err)
		return
	}
	response.OK(c, gin.H{"list": slots})
}

// DeleteByProfessor 删除教授的全部课时
// DELETE /api/v1/professors/:id/slots
func (h *SlotHandler) DeleteByProfessor(c *gin.Context) {
	professorID, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.DeleteByProfessor(c.Request.Context(), professorID)
	if err != nil {
		handleSlotError(c, err)
		return
	}
	response.OK(c, result)
}

// Create 新增课时
// POST /api/v1/slots
func (h *SlotHandler) Create(c *gin.Context) {
	var req dto.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	slot, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleSlotError(c, err)
		return
	}
	response.Created(c, slot)
}

// Update 全字段覆盖课时（携带版本号）
// PUT /api/v1/slots/:id
func (h *SlotHandler) Update(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	slot, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleSlotError(c, err)
		return
	}
	response.OK(c, slot)
}

// Delete 删除课时
// DELETE /api/v1/slots/:id
func (h *SlotHandler) Delete(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleSlotError(c, err)
		return
	}
	response.OK(c, nil)
}

// ImportICS 从 iCalendar 导入教授的每周课时
// POST /api/v1/professors/:id/slots/import
//
// 支持 multipart 字段 file，或直接以 text/calendar 作为请求体
func (h *SlotHandler) ImportICS(c *gin.Context) {
	professorID, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	var src io.Reader = c.Request.Body
	if file, _, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		src = file
	} else if c.Request.Body == nil || c.Request.ContentLength == 0 {
		response.BadRequest(c, 13001, "请上传 ICS 文件")
		return
	}

	result, err := h.svc.ImportICS(c.Request.Context(), professorID, src)
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return
		}
		handleSlotError(c, err)
		return
	}
	response.Created(c, result)
}

func handleSlotError(c *gin.Context, err error) {
	if writeValidationError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 13101, "课时不存在")
	case errors.Is(err, service.ErrProfessorNotFound):
		response.NotFound(c, 12101, "教授不存在")
	case errors.Is(err, service.ErrSlotOverlap):
		response.Conflict(c, 13102, "与该教授同一天的已有课时时间重叠")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 13103, "课时已被修改，请刷新后重试")
	case errors.Is(err, service.ErrICSInvalid):
		response.BadRequest(c, 13104, "ICS 文件格式无效")
	default:
		response.InternalError(c)
	}
}

// writeValidationError 字段级校验失败 → 400，details 为出错字段
func writeValidationError(c *gin.Context, err error) bool {
	var verr *calendar.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", verr.Error())
	return true
}
