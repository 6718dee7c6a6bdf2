package dto

// ── 周课表网格 / 编辑器 DTO ──

// GridQuery 周课表网格查询；preview_* 三项同时给出时标记预览区间
type GridQuery struct {
	Date         string `form:"date"          binding:"omitempty,datetime=2006-01-02"`
	PreviewDay   *int   `form:"preview_day"   binding:"omitempty,min=0,max=6"`
	PreviewStart *int   `form:"preview_start" binding:"omitempty,min=0,max=23"`
	PreviewEnd   *int   `form:"preview_end"   binding:"omitempty,min=1,max=24"`
}

// GridCellResponse 网格单元
type GridCellResponse struct {
	Hour   int           `json:"hour"`
	Kind   string        `json:"kind"` // empty | start | continuation | preview
	Slot   *SlotResponse `json:"slot,omitempty"`
	Create bool          `json:"can_create"`
}

// GridDayResponse 网格中的一天
type GridDayResponse struct {
	Date      string             `json:"date"`
	DayOfWeek int                `json:"day_of_week"`
	Cells     []GridCellResponse `json:"cells"`
}

// GridResponse 周课表网格
type GridResponse struct {
	ProfessorID int64             `json:"professor_id"`
	WeekStart   string            `json:"week_start"`
	Days        []GridDayResponse `json:"days"`
}

// RangeCheckRequest 12 小时制时间段校验请求
type RangeCheckRequest struct {
	Date        string `json:"date"         binding:"omitempty,datetime=2006-01-02"`
	StartTime   string `json:"start_time"   binding:"required,hhmm"`
	EndTime     string `json:"end_time"     binding:"required,hhmm"`
	StartPeriod string `json:"start_period" binding:"required,period"`
	EndPeriod   string `json:"end_period"   binding:"required,period"`
}

// RangeCheckResponse 时间段校验结果
type RangeCheckResponse struct {
	Valid       bool     `json:"valid"`
	Start24     string   `json:"start_24"`
	End24       string   `json:"end_24"`
	StartHour   int      `json:"start_hour"`
	EndHour     int      `json:"end_hour"`
	ErrorFields []string `json:"error_fields,omitempty"`
}
