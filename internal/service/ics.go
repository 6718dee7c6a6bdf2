package service

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/handrailjsp/Scheduling/internal/calendar"
)

// ── iCalendar 读写 ──────────────────────────────────────────
//
// 导入：每个 VEVENT 的 DTSTART 决定星期与开始小时，DTEND 向上取整为结束小时；
// 同一门课的多次出现（RRULE 展开或多个单次事件）按 星期+区间+课程+教室 去重。
// 导出：公共日历事件序列化为 VCALENDAR。
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize = 5 * 1024 * 1024 // 5MB
	icsProductID   = "-//handrailjsp//Scheduling//EN"
)

var ErrICSInvalid = errors.New("ICS 格式解析失败")

// ParseWeeklyICS 将 iCalendar 内容解析为每周课时
func ParseWeeklyICS(r io.Reader, professorID int64) ([]calendar.SlotData, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(r, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrICSInvalid, err)
	}

	seen := make(map[string]bool)
	var result []calendar.SlotData
	for _, evt := range cal.Events() {
		data, ok := parseVEvent(evt, time.Local)
		if !ok {
			continue
		}
		data.ProfessorID = professorID

		key := fmt.Sprintf("%d:%d:%d:%s:%s", data.DayOfWeek, data.Hour, data.EndHour, data.Subject, data.Room)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, data)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].Hour < result[j].Hour
	})
	return result, nil
}

// parseVEvent 解析单个 VEVENT；缺少 SUMMARY 或 DTSTART 的事件忽略
func parseVEvent(evt *ics.VEvent, loc *time.Location) (calendar.SlotData, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return calendar.SlotData{}, false
	}

	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return calendar.SlotData{}, false
	}
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil {
		// 无 DTEND 时按一小时处理
		dtEnd = dtStart.Add(time.Hour)
	}

	room := ""
	if p := evt.GetProperty(ics.ComponentPropertyLocation); p != nil {
		room = strings.TrimSpace(p.Value)
	}

	return calendar.SlotData{
		DayOfWeek: int(dtStart.Weekday()),
		Hour:      dtStart.Hour(),
		EndHour:   endHourOf(dtStart, dtEnd),
		Subject:   strings.TrimSpace(summary.Value),
		Room:      room,
	}, true
}

// endHourOf 结束时间向上取整到整点；跨到次日零点记为 24
func endHourOf(start, end time.Time) int {
	if end.YearDay() != start.YearDay() || end.Year() != start.Year() {
		return calendar.HoursPerDay
	}
	h := end.Hour()
	if end.Minute() > 0 || end.Second() > 0 {
		h++
	}
	return h
}

func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	// 检查 TZID 参数
	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.In(loc), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}

// BuildICS 将日历事件序列化为 iCalendar 文本
func BuildICS(events []calendar.Event, name string, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(name)

	for _, e := range events {
		// 同一课时在月视图中每周出现一次，UID 需带上日期
		uid := fmt.Sprintf("slot-%s-%s@timetable", e.ID, e.Start.Format("20060102"))
		vevent := cal.AddEvent(uid)
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(e.Start)
		vevent.SetEndAt(e.End)
		vevent.SetSummary(e.Title)
		vevent.SetDescription(e.Description)
		vevent.SetProperty(ics.ComponentProperty("COLOR"), e.Color)
	}
	return cal.Serialize()
}
