// Package timeutil 日历视图与 12/24 小时制转换工具
//
// 星期约定：Sunday = 0 … Saturday = 6（与 time.Weekday 一致）
package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// PeriodAM 上午
	PeriodAM = "AM"
	// PeriodPM 下午
	PeriodPM = "PM"

	// MonthGridDays 月视图固定 6 行 × 7 列
	MonthGridDays = 42
)

var hhmmPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// midnight 截断到当地零点
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek 返回 date 所在周的周日零点
func StartOfWeek(date time.Time) time.Time {
	d := midnight(date)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekDays 返回 date 所在周的 7 天（周日起），均为零点
func WeekDays(date time.Time) []time.Time {
	start := StartOfWeek(date)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// MonthDays 返回月视图的 42 天：自当月 1 日所在周的周日起
func MonthDays(date time.Time) []time.Time {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	start := first.AddDate(0, 0, -int(first.Weekday()))
	days := make([]time.Time, MonthGridDays)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// DaysInMonth 当月天数
func DaysInMonth(date time.Time) int {
	return time.Date(date.Year(), date.Month()+1, 0, 0, 0, 0, 0, date.Location()).Day()
}

// DateRange 返回 [start, end] 闭区间内的每一天；end 早于 start 时返回空
func DateRange(start, end time.Time) []time.Time {
	s, e := midnight(start), midnight(end)
	if e.Before(s) {
		return []time.Time{}
	}
	var days []time.Time
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ── 12/24 小时制 ──

// parseLeadingInt 解析前导整数（可带符号），无数字时返回 0
// "12abc" → 12, "ab" → 0, "-5" → -5
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	sign, i := 1, 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		if s[i] == '-' {
			sign = -1
		}
		i++
	}
	n, digits := 0, 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		digits++
		if digits > 6 {
			break
		}
	}
	return sign * n
}

// To24Hour 将 12 小时制 "HH:MM" + AM/PM 转为 24 小时制 "HH:MM"
//
//   - 非两段格式 → "00:00"
//   - 小时不在 [1,12] → 视为 12
//   - 分钟不在 [0,59] → "00:00"
//   - PM 且小时 ≠ 12 → +12；AM 且小时 = 12 → 0
func To24Hour(time12, period string) string {
	parts := strings.Split(time12, ":")
	if len(parts) != 2 {
		return "00:00"
	}

	hour := parseLeadingInt(parts[0])
	minute := parseLeadingInt(parts[1])

	if hour < 1 || hour > 12 {
		hour = 12
	}
	if minute < 0 || minute > 59 {
		return "00:00"
	}

	switch {
	case period == PeriodPM && hour != 12:
		hour += 12
	case period == PeriodAM && hour == 12:
		hour = 0
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// To12Hour 将 24 小时制 "HH:MM" 转为 12 小时制显示值与 AM/PM
func To12Hour(time24 string) (string, string) {
	parts := strings.Split(time24, ":")
	hour := parseLeadingInt(parts[0])
	minutes := "00"
	if len(parts) > 1 && parts[1] != "" {
		minutes = parts[1]
	}
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour > 12:
		display = hour - 12
	}
	return fmt.Sprintf("%02d:%s", display, minutes), Period(hour)
}

// Period 24 小时制小时对应的 AM/PM
func Period(hour24 int) string {
	if hour24 >= 12 {
		return PeriodPM
	}
	return PeriodAM
}

// IsHHMM 是否为严格两位 "HH:MM" 格式
func IsHHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}

// IsValidPeriod 是否为 AM/PM
func IsValidPeriod(p string) bool {
	return p == PeriodAM || p == PeriodPM
}

// At 将 24 小时制 "HH:MM" 落到 date 当天
func At(date time.Time, time24 string) time.Time {
	parts := strings.Split(time24, ":")
	hour := parseLeadingInt(parts[0])
	minute := 0
	if len(parts) > 1 {
		minute = parseLeadingInt(parts[1])
	}
	d := midnight(date)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
}

// IsValidRange 校验 12 小时制时间段：格式合法且结束严格晚于开始（相等视为无效）
func IsValidRange(date time.Time, start12, end12, startPeriod, endPeriod string) bool {
	if !IsHHMM(start12) || !IsHHMM(end12) {
		return false
	}

	start24 := To24Hour(start12, startPeriod)
	end24 := To24Hour(end12, endPeriod)
	if !IsHHMM(start24) || !IsHHMM(end24) {
		return false
	}

	return At(date, end24).After(At(date, start24))
}

// HourOf 取 24 小时制 "HH:MM" 的小时
func HourOf(time24 string) int {
	return parseLeadingInt(strings.SplitN(time24, ":", 2)[0])
}
