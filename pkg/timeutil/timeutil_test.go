package timeutil

import (
	"fmt"
	"testing"
	"time"
)

func TestTo24Hour(t *testing.T) {
	cases := []struct {
		in, period, want string
	}{
		{"12:00", PeriodAM, "00:00"},
		{"12:00", PeriodPM, "12:00"},
		{"01:30", PeriodPM, "13:30"},
		{"11:59", PeriodAM, "11:59"},
		{"09:05", PeriodAM, "09:05"},
		{"13:00", PeriodAM, "00:00"}, // 小时越界视为 12
		{"00:15", PeriodPM, "12:15"},
		{"10:60", PeriodAM, "00:00"}, // 分钟越界
		{"1030", PeriodAM, "00:00"},  // 非两段
		{"1:2:3", PeriodAM, "00:00"},
		{"ab:cd", PeriodPM, "12:00"},
	}
	for _, c := range cases {
		if got := To24Hour(c.in, c.period); got != c.want {
			t.Errorf("To24Hour(%q, %s) = %q，期望 %q", c.in, c.period, got, c.want)
		}
	}
}

func TestTo24Hour_AlwaysHHMM(t *testing.T) {
	for h := -3; h <= 15; h++ {
		for _, m := range []int{-1, 0, 30, 59, 60} {
			for _, p := range []string{PeriodAM, PeriodPM} {
				in := fmt.Sprintf("%02d:%02d", h, m)
				if got := To24Hour(in, p); !IsHHMM(got) {
					t.Fatalf("To24Hour(%q, %s) = %q 不是 HH:MM", in, p, got)
				}
			}
		}
	}
}

func TestTo12Hour(t *testing.T) {
	cases := []struct{ in, display, period string }{
		{"00:00", "12:00", PeriodAM},
		{"09:30", "09:30", PeriodAM},
		{"12:00", "12:00", PeriodPM},
		{"15:45", "03:45", PeriodPM},
	}
	for _, c := range cases {
		d, p := To12Hour(c.in)
		if d != c.display || p != c.period {
			t.Errorf("To12Hour(%q) = %q %s，期望 %q %s", c.in, d, p, c.display, c.period)
		}
	}
}

func TestIsValidRange(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	cases := []struct {
		name         string
		start, end   string
		startP, endP string
		want         bool
	}{
		{"同一时刻无效", "09:00", "09:00", PeriodAM, PeriodAM, false},
		{"结束早于开始", "10:00", "09:00", PeriodAM, PeriodAM, false},
		{"上午到下午", "11:00", "01:00", PeriodAM, PeriodPM, true},
		{"午夜到凌晨一点", "12:00", "01:00", PeriodAM, PeriodAM, true},
		{"正午到午夜为无效", "12:00", "12:00", PeriodPM, PeriodAM, false},
		{"单位数格式无效", "9:00", "10:00", PeriodAM, PeriodAM, false},
		{"正常一小时", "02:00", "03:00", PeriodPM, PeriodPM, true},
	}
	for _, c := range cases {
		if got := IsValidRange(day, c.start, c.end, c.startP, c.endP); got != c.want {
			t.Errorf("%s: IsValidRange = %v，期望 %v", c.name, got, c.want)
		}
	}
}

func TestWeekDays(t *testing.T) {
	// 2026-03-11 为周三
	date := time.Date(2026, 3, 11, 15, 30, 0, 0, time.Local)
	days := WeekDays(date)
	if len(days) != 7 {
		t.Fatalf("期望 7 天，实际 %d", len(days))
	}
	if days[0].Weekday() != time.Sunday || days[0].Day() != 8 {
		t.Errorf("期望周日 3/8 开始，实际 %v", days[0])
	}
	for i, d := range days {
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Errorf("第 %d 天不是零点: %v", i, d)
		}
		if i > 0 && d.Sub(days[i-1]) != 24*time.Hour {
			t.Errorf("第 %d 天不连续", i)
		}
	}
	found := false
	for _, d := range days {
		if d.Day() == 11 {
			found = true
		}
	}
	if !found {
		t.Error("周视图应包含输入日期")
	}
}

func TestMonthDays(t *testing.T) {
	for _, date := range []time.Time{
		time.Date(2026, 2, 14, 0, 0, 0, 0, time.Local), // 2 月 1 日为周日
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local),
		time.Date(2024, 12, 1, 0, 0, 0, 0, time.Local),
	} {
		days := MonthDays(date)
		if len(days) != MonthGridDays {
			t.Fatalf("期望 42 天，实际 %d", len(days))
		}
		if days[0].Weekday() != time.Sunday {
			t.Errorf("%v: 首日应为周日，实际 %v", date, days[0].Weekday())
		}
		first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.Local)
		if days[0].After(first) || first.Sub(days[0]) >= 7*24*time.Hour {
			t.Errorf("%v: 首日 %v 应为 1 日所在周的周日", date, days[0])
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := map[time.Time]int{
		time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC): 29,
		time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC): 28,
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC): 30,
		time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC): 31,
	}
	for d, want := range cases {
		if got := DaysInMonth(d); got != want {
			t.Errorf("DaysInMonth(%v) = %d，期望 %d", d, got, want)
		}
	}
}

func TestDateRange(t *testing.T) {
	s := time.Date(2026, 1, 30, 8, 0, 0, 0, time.UTC)
	e := time.Date(2026, 2, 2, 1, 0, 0, 0, time.UTC)
	days := DateRange(s, e)
	if len(days) != 4 {
		t.Fatalf("期望 4 天，实际 %d", len(days))
	}
	if len(DateRange(e, s)) != 0 {
		t.Error("结束早于开始应返回空")
	}
}

func TestHourOfAndPeriod(t *testing.T) {
	if HourOf("14:30") != 14 {
		t.Error("HourOf 解析错误")
	}
	if Period(11) != PeriodAM || Period(12) != PeriodPM {
		t.Error("Period 判断错误")
	}
}
