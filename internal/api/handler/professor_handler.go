package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/internal/service"
	"github.com/handrailjsp/Scheduling/pkg/response"
)

// ProfessorHandler 教授模块 HTTP 处理器
type ProfessorHandler struct {
	svc service.ProfessorService
}

// NewProfessorHandler 创建 ProfessorHandler
func NewProfessorHandler(svc service.ProfessorService) *ProfessorHandler {
	return &ProfessorHandler{svc: svc}
}

// List 教授列表（按姓名排序）
// GET /api/v1/professors
func (h *ProfessorHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleProfessorError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Get 教授详情
// GET /api/v1/professors/:id
func (h *ProfessorHandler) Get(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	prof, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleProfessorError(c, err)
		return
	}
	response.OK(c, prof)
}

// Create 新增教授
// POST /api/v1/professors
func (h *ProfessorHandler) Create(c *gin.Context) {
	var req dto.CreateProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	prof, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleProfessorError(c, err)
		return
	}
	response.Created(c, prof)
}

// Delete 删除教授及其全部课时（单事务）
// DELETE /api/v1/professors/:id
func (h *ProfessorHandler) Delete(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		handleProfessorError(c, err)
		return
	}
	response.OK(c, result)
}

func handleProfessorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfessorNotFound):
		response.NotFound(c, 12101, "教授不存在")
	default:
		response.InternalError(c)
	}
}
