package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/handrailjsp/Scheduling/internal/service"
	"github.com/handrailjsp/Scheduling/pkg/response"
)

// StatsHandler 统计模块 HTTP 处理器
type StatsHandler struct {
	svc service.StatsService
}

// NewStatsHandler 创建 StatsHandler
func NewStatsHandler(svc service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Workload 现行课表的负荷与公平性统计
// GET /api/v1/stats/workload
func (h *StatsHandler) Workload(c *gin.Context) {
	result, err := h.svc.Workload(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
