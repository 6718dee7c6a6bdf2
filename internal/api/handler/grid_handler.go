package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/internal/service"
	"github.com/handrailjsp/Scheduling/pkg/response"
)

// GridHandler 周课表网格与编辑器辅助接口
type GridHandler struct {
	svc service.GridService
}

// NewGridHandler 创建 GridHandler
func NewGridHandler(svc service.GridService) *GridHandler {
	return &GridHandler{svc: svc}
}

// Week 教授周课表网格
// GET /api/v1/professors/:id/grid?date=&preview_day=&preview_start=&preview_end=
func (h *GridHandler) Week(c *gin.Context) {
	professorID, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	var q dto.GridQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	grid, err := h.svc.Week(c.Request.Context(), professorID, &q)
	if err != nil {
		handleGridError(c, err)
		return
	}
	response.OK(c, grid)
}

// RangeCheck 12 小时制时间段转换与校验，非法时 valid=false 并标记出错字段
// POST /api/v1/editor/range-check
func (h *GridHandler) RangeCheck(c *gin.Context) {
	var req dto.RangeCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.svc.RangeCheck(&req)
	if err != nil {
		handleGridError(c, err)
		return
	}
	response.OK(c, result)
}

func handleGridError(c *gin.Context, err error) {
	if writeValidationError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrProfessorNotFound):
		response.NotFound(c, 12101, "教授不存在")
	case errors.Is(err, calendar.ErrInvalidPreview):
		response.BadRequest(c, 14001, "预览区间无效")
	default:
		response.InternalError(c)
	}
}
