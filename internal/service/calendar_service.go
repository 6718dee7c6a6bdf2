package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/internal/repository"
	"github.com/handrailjsp/Scheduling/pkg/scheduler"
	"github.com/handrailjsp/Scheduling/pkg/timeutil"
)

// 日历视图
const (
	ViewDay   = "day"
	ViewWeek  = "week"
	ViewMonth = "month"
)

// CalendarService 公共日历：最新已通过方案投影到所选日期范围
//
// 每次查询全量重算；排课服务不可用时记录日志并返回空日历。
type CalendarService interface {
	Events(ctx context.Context, q *dto.CalendarQuery) (*dto.CalendarResponse, error)
	// ICS 以 iCalendar 格式导出 date 所在周的事件
	ICS(ctx context.Context, date string) ([]byte, error)
}

type calendarService struct {
	repo   *repository.Repository
	sched  SchedulerAPI
	rooms  calendar.RoomFilter
	logger *zap.Logger
	now    func() time.Time
}

// NewCalendarService 创建 CalendarService 实例；rooms 为空调教室白名单
func NewCalendarService(
	repo *repository.Repository,
	sched SchedulerAPI,
	rooms calendar.RoomFilter,
	logger *zap.Logger,
) CalendarService {
	return &calendarService{
		repo:   repo,
		sched:  sched,
		rooms:  rooms,
		logger: logger,
		now:    time.Now,
	}
}

func (s *calendarService) Events(ctx context.Context, q *dto.CalendarQuery) (*dto.CalendarResponse, error) {
	date, err := parseDate(q.Date, s.now)
	if err != nil {
		return nil, err
	}
	view := q.View
	if view == "" {
		view = ViewWeek
	}

	days := viewDays(view, date)
	scheduleID, events := s.project(ctx, days)

	resp := &dto.CalendarResponse{
		View:       view,
		ScheduleID: scheduleID,
		Days:       make([]string, 0, len(days)),
		Events:     make([]dto.CalendarEventResponse, 0, len(events)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, d.Format(dateLayout))
	}
	for _, e := range events {
		resp.Events = append(resp.Events, dto.CalendarEventResponse{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Start:       e.Start.Format(time.RFC3339),
			End:         e.End.Format(time.RFC3339),
			Color:       e.Color,
		})
	}
	return resp, nil
}

func (s *calendarService) ICS(ctx context.Context, date string) ([]byte, error) {
	d, err := parseDate(date, s.now)
	if err != nil {
		return nil, err
	}
	_, events := s.project(ctx, timeutil.WeekDays(d))
	return []byte(BuildICS(events, "Timetable", s.now())), nil
}

// project 取最新已通过方案并投影到 days；任何失败都退化为空结果
func (s *calendarService) project(ctx context.Context, days []time.Time) (int64, []calendar.Event) {
	list, err := s.sched.ListSchedules(ctx)
	if err != nil {
		s.logger.Warn("查询排课方案列表失败，返回空日历", zap.Error(err))
		return 0, nil
	}
	latest := scheduler.LatestApproved(list)
	if latest == nil {
		return 0, nil
	}

	detail, err := s.sched.GetSchedule(ctx, latest.ID)
	if err != nil {
		s.logger.Warn("查询排课方案失败，返回空日历", zap.Int64("schedule_id", latest.ID), zap.Error(err))
		return latest.ID, nil
	}

	sources := s.toSources(ctx, detail.Slots)
	return latest.ID, calendar.ProjectDays(sources, days, s.rooms)
}

// toSources 方案未内嵌教授信息时用本地教授名补全
func (s *calendarService) toSources(ctx context.Context, slots []scheduler.GeneratedSlot) []calendar.SourceSlot {
	var missing []int64
	for _, gs := range slots {
		if gs.Professor == nil || gs.Professor.Name == "" {
			missing = append(missing, gs.ProfessorID)
		}
	}
	names := make(map[int64]string)
	if len(missing) > 0 {
		profs, err := s.repo.Professor.ListByIDs(ctx, missing)
		if err != nil {
			s.logger.Warn("查询教授名称失败", zap.Error(err))
		}
		for _, p := range profs {
			names[p.ID] = p.Name
		}
	}

	out := make([]calendar.SourceSlot, 0, len(slots))
	for _, gs := range slots {
		name := names[gs.ProfessorID]
		if gs.Professor != nil && gs.Professor.Name != "" {
			name = gs.Professor.Name
		}
		out = append(out, calendar.SourceSlot{
			ID:            gs.ID,
			ProfessorID:   gs.ProfessorID,
			ProfessorName: name,
			RoomID:        gs.RoomID,
			DayOfWeek:     gs.DayOfWeek,
			StartHour:     gs.StartHour,
			EndHour:       gs.EndHour,
			Subject:       gs.Subject,
		})
	}
	return out
}

func viewDays(view string, date time.Time) []time.Time {
	switch view {
	case ViewDay:
		return timeutil.DateRange(date, date)
	case ViewMonth:
		return timeutil.MonthDays(date)
	default:
		return timeutil.WeekDays(date)
	}
}
