package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/internal/repository"
	"github.com/handrailjsp/Scheduling/pkg/timeutil"
)

const dateLayout = "2006-01-02"

// GridService 周课表网格与编辑器时间校验
type GridService interface {
	// Week 渲染教授在 date 所在周的 7×24 网格，可叠加预览区间
	Week(ctx context.Context, professorID int64, q *dto.GridQuery) (*dto.GridResponse, error)
	// RangeCheck 12 小时制输入转换与区间校验
	RangeCheck(req *dto.RangeCheckRequest) (*dto.RangeCheckResponse, error)
}

type gridService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewGridService 创建 GridService 实例
func NewGridService(repo *repository.Repository, logger *zap.Logger) GridService {
	return &gridService{repo: repo, logger: logger, now: time.Now}
}

func (s *gridService) Week(ctx context.Context, professorID int64, q *dto.GridQuery) (*dto.GridResponse, error) {
	date, err := parseDate(q.Date, s.now)
	if err != nil {
		return nil, err
	}

	slots, err := s.repo.Slot.ListByProfessor(ctx, professorID)
	if err != nil {
		s.logger.Error("查询课时失败", zap.Int64("professor_id", professorID), zap.Error(err))
		return nil, err
	}
	if len(slots) == 0 {
		// 无课时时需区分教授不存在
		if _, err := s.repo.Professor.GetByID(ctx, professorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProfessorNotFound
			}
			return nil, err
		}
	}

	days := timeutil.WeekDays(date)
	grid := calendar.NewGrid(days, toCalendarSlots(slots))

	if span, ok, err := previewFromQuery(q); err != nil {
		return nil, err
	} else if ok {
		if err := grid.SetPreview(span); err != nil {
			return nil, err
		}
	}

	resp := &dto.GridResponse{
		ProfessorID: professorID,
		WeekStart:   days[0].Format(dateLayout),
		Days:        make([]dto.GridDayResponse, 0, calendar.DaysPerWeek),
	}
	for d, row := range grid.Cells() {
		day := dto.GridDayResponse{
			Date:      days[d].Format(dateLayout),
			DayOfWeek: d,
			Cells:     make([]dto.GridCellResponse, 0, len(row)),
		}
		for _, c := range row {
			cell := dto.GridCellResponse{
				Hour:   c.Hour,
				Kind:   string(c.Kind),
				Create: grid.CanCreateAt(d, c.Hour),
			}
			// 课时只挂在起始格，延续格仅标记类型
			if c.Kind == calendar.CellStart {
				cell.Slot = slotResponseFromCalendar(c.Slot)
			}
			day.Cells = append(day.Cells, cell)
		}
		resp.Days = append(resp.Days, day)
	}
	return resp, nil
}

func (s *gridService) RangeCheck(req *dto.RangeCheckRequest) (*dto.RangeCheckResponse, error) {
	date, err := parseDate(req.Date, s.now)
	if err != nil {
		return nil, err
	}

	start24 := timeutil.To24Hour(req.StartTime, req.StartPeriod)
	end24 := timeutil.To24Hour(req.EndTime, req.EndPeriod)

	resp := &dto.RangeCheckResponse{
		Valid:     timeutil.IsValidRange(date, req.StartTime, req.EndTime, req.StartPeriod, req.EndPeriod),
		Start24:   start24,
		End24:     end24,
		StartHour: timeutil.HourOf(start24),
		EndHour:   timeutil.HourOf(end24),
	}
	if !resp.Valid {
		resp.ErrorFields = []string{calendar.FieldStart, calendar.FieldEnd}
	}
	return resp, nil
}

// ── 辅助函数 ──

// parseDate 解析 YYYY-MM-DD（本地时区），为空时取当天
func parseDate(value string, now func() time.Time) (time.Time, error) {
	if value == "" {
		return now(), nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, &calendar.ValidationError{Field: "date", Reason: "格式应为 YYYY-MM-DD"}
	}
	return t, nil
}

// previewFromQuery 三个预览参数需同时给出
func previewFromQuery(q *dto.GridQuery) (calendar.PreviewSpan, bool, error) {
	set := 0
	for _, p := range []*int{q.PreviewDay, q.PreviewStart, q.PreviewEnd} {
		if p != nil {
			set++
		}
	}
	switch set {
	case 0:
		return calendar.PreviewSpan{}, false, nil
	case 3:
		return calendar.PreviewSpan{
			DayOfWeek: *q.PreviewDay,
			StartHour: *q.PreviewStart,
			EndHour:   *q.PreviewEnd,
		}, true, nil
	}
	return calendar.PreviewSpan{}, false, calendar.ErrInvalidPreview
}
