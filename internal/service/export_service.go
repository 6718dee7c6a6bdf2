package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/internal/repository"
	"github.com/handrailjsp/Scheduling/pkg/timeutil"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSlots      = errors.New("该教授暂无课时")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 教授周课表导出为 Excel (.xlsx)：
//   - 列头：Sunday ~ Saturday
//   - 行头：小时（仅覆盖有课的小时范围）
//   - 跨小时课时纵向合并单元格
type ExportService interface {
	ExportProfessorTimetable(ctx context.Context, professorID int64) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var weekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ════════════════════════════════════════════════════════════
// ExportProfessorTimetable — 导出教授周课表
// ════════════════════════════════════════════════════════════

func (s *exportService) ExportProfessorTimetable(ctx context.Context, professorID int64) (*bytes.Buffer, string, error) {
	// 1. 查询教授
	prof, err := s.repo.Professor.GetByID(ctx, professorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrProfessorNotFound
		}
		s.logger.Error("查询教授失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 查询课时
	slots, err := s.repo.Slot.ListByProfessor(ctx, professorID)
	if err != nil {
		s.logger.Error("查询课时失败", zap.Error(err))
		return nil, "", err
	}
	if len(slots) == 0 {
		return nil, "", ErrExportNoSlots
	}

	// 3. 小时范围
	minHour, maxHour := calendar.HoursPerDay, 0
	for _, sl := range slots {
		if sl.Hour < minHour {
			minHour = sl.Hour
		}
		if sl.EndHour > maxHour {
			maxHour = sl.EndHour
		}
	}

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timetable"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, colName(1), colName(calendar.DaysPerWeek), 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	slotStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})

	// 标题行
	title := prof.Name
	if prof.Title != "" {
		title = prof.Title + " " + prof.Name
	}
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", cell(colName(calendar.DaysPerWeek), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	f.SetCellValue(sheetName, cell("A", 2), "Time")
	for d, name := range weekdayNames {
		f.SetCellValue(sheetName, cell(colName(d+1), 2), name)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(calendar.DaysPerWeek), 2), headerStyle)

	// 时间列
	firstRow := 3
	for h := minHour; h < maxHour; h++ {
		f.SetCellValue(sheetName, cell("A", firstRow+h-minHour), hourLabel(h))
	}

	// 课时：起始行写入，跨小时纵向合并
	for _, sl := range slots {
		col := colName(sl.DayOfWeek + 1)
		top := cell(col, firstRow+sl.Hour-minHour)
		bottom := cell(col, firstRow+sl.EndHour-1-minHour)

		text := fmt.Sprintf("%s\nRoom %s", sl.Subject, sl.Room)
		if sl.NeedsAC {
			text += " (AC)"
		}
		f.SetCellValue(sheetName, top, text)
		if bottom != top {
			f.MergeCell(sheetName, top, bottom)
		}
		f.SetCellStyle(sheetName, top, bottom, slotStyle)
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timetable_%d.xlsx", prof.ID)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// hourLabel 以 12 小时制显示整点，如 "09:00 AM"
func hourLabel(h int) string {
	time12, period := timeutil.To12Hour(fmt.Sprintf("%02d:00", h))
	return time12 + " " + period
}
