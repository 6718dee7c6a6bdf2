// Package calendar 周课表网格、重叠判定、课时编辑器状态机与公共日历投影
package calendar

import (
	"fmt"
	"strings"
)

const (
	// HoursPerDay 网格小时轴 0-23
	HoursPerDay = 24
	// DaysPerWeek 周日 = 0 … 周六 = 6
	DaysPerWeek = 7
)

// ValidationError 输入校验失败，不会发往服务端
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// SlotData 课时内容（不含 id）
type SlotData struct {
	ProfessorID int64
	DayOfWeek   int
	Hour        int
	EndHour     int
	Subject     string
	Room        string
	NeedsAC     bool
}

// Validate 完整性与区间校验：EndHour 必须严格大于 Hour
func (d SlotData) Validate() error {
	switch {
	case d.ProfessorID <= 0:
		return &ValidationError{Field: "professor_id", Reason: "必须指定教授"}
	case d.DayOfWeek < 0 || d.DayOfWeek >= DaysPerWeek:
		return &ValidationError{Field: "day_of_week", Reason: "必须在 0-6 之间"}
	case d.Hour < 0 || d.Hour >= HoursPerDay:
		return &ValidationError{Field: "hour", Reason: "必须在 0-23 之间"}
	case d.EndHour <= d.Hour:
		return &ValidationError{Field: "end_hour", Reason: "结束时间必须晚于开始时间"}
	case d.EndHour > HoursPerDay:
		return &ValidationError{Field: "end_hour", Reason: "不能超过 24"}
	case strings.TrimSpace(d.Subject) == "":
		return &ValidationError{Field: "subject", Reason: "不能为空"}
	case strings.TrimSpace(d.Room) == "":
		return &ValidationError{Field: "room", Reason: "不能为空"}
	}
	return nil
}

// Slot 已持久化的课时
type Slot struct {
	ID      int64
	Version int
	SlotData
}

// Covers 课时是否覆盖某小时：Hour <= h < EndHour
func (s Slot) Covers(hour int) bool {
	return hour >= s.Hour && hour < s.EndHour
}

// Overlaps 同教授同一天区间相交
func (s SlotData) Overlaps(o SlotData) bool {
	return s.ProfessorID == o.ProfessorID &&
		s.DayOfWeek == o.DayOfWeek &&
		s.Hour < o.EndHour && o.Hour < s.EndHour
}

// FindOverlap 在 slots 中查找与 data 冲突的课时，excludeID 用于更新时排除自身
func FindOverlap(slots []Slot, data SlotData, excludeID int64) (Slot, bool) {
	for _, s := range slots {
		if s.ID == excludeID {
			continue
		}
		if s.SlotData.Overlaps(data) {
			return s, true
		}
	}
	return Slot{}, false
}
