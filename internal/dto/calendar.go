package dto

// ── 公共日历 DTO ──

// CalendarQuery 日历查询
type CalendarQuery struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	View string `form:"view" binding:"omitempty,oneof=day week month"`
}

// CalendarEventResponse 日历事件
type CalendarEventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Color       string `json:"color"`
}

// CalendarResponse 日历视图
type CalendarResponse struct {
	View       string                  `json:"view"`
	ScheduleID int64                   `json:"schedule_id,omitempty"`
	Days       []string                `json:"days"`
	Events     []CalendarEventResponse `json:"events"`
}
