package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/handrailjsp/Scheduling/internal/service"
	"github.com/handrailjsp/Scheduling/pkg/response"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ProfessorTimetable 导出教授周课表
// GET /api/v1/export/professors/:id/timetable
func (h *ExportHandler) ProfessorTimetable(c *gin.Context) {
	professorID, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportProfessorTimetable(c.Request.Context(), professorID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxMime, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfessorNotFound):
		response.NotFound(c, 12101, "教授不存在")
	case errors.Is(err, service.ErrExportNoSlots):
		response.NotFound(c, 16101, "该教授暂无课时")
	default:
		response.InternalError(c)
	}
}
