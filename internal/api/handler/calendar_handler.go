package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/internal/service"
	"github.com/handrailjsp/Scheduling/pkg/response"
)

// CalendarHandler 公共日历（已通过方案中的空调教室课程）
type CalendarHandler struct {
	svc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(svc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{svc: svc}
}

// Events 日 / 周 / 月视图事件
// GET /api/v1/calendar/events?date=&view=
func (h *CalendarHandler) Events(c *gin.Context) {
	var q dto.CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.svc.Events(c.Request.Context(), &q)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ICS date 所在周的 iCalendar 订阅
// GET /api/v1/calendar/events.ics?date=
func (h *CalendarHandler) ICS(c *gin.Context) {
	body, err := h.svc.ICS(c.Request.Context(), c.Query("date"))
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "inline; filename=timetable.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}
