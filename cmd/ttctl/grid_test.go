package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/pkg/timeutil"
)

func init() {
	color.NoColor = true
}

func testSlot(id int64, day, hour, end int, subject string) calendar.Slot {
	return calendar.Slot{ID: id, Version: 1, SlotData: calendar.SlotData{
		ProfessorID: 1, DayOfWeek: day, Hour: hour, EndHour: end, Subject: subject, Room: "322",
	}}
}

func TestHourWindow(t *testing.T) {
	from, to := hourWindow(nil)
	if from != defaultFromHour || to != defaultToHour {
		t.Errorf("空课时应使用默认范围，实际 [%d,%d)", from, to)
	}

	from, to = hourWindow([]calendar.Slot{testSlot(1, 1, 6, 8, "Math"), testSlot(2, 2, 20, 22, "Art")})
	if from != 6 || to != 22 {
		t.Errorf("期望 [6,22)，实际 [%d,%d)", from, to)
	}
}

func TestRenderGrid(t *testing.T) {
	days := timeutil.WeekDays(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	g := calendar.NewGrid(days, []calendar.Slot{testSlot(1, 1, 9, 11, "Calculus")})

	var buf bytes.Buffer
	renderGrid(&buf, g, 9, 12)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("期望表头 + 3 行，实际 %d 行:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "MON 03/04") {
		t.Errorf("表头缺少日期: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Calculus@322") {
		t.Errorf("09 点应显示课时起始: %q", lines[1])
	}
	if !strings.Contains(lines[2], "┆") {
		t.Errorf("10 点应显示延续格: %q", lines[2])
	}
	if strings.Contains(lines[3], "┆") || strings.Contains(lines[3], "Calculus") {
		t.Errorf("11 点应为空: %q", lines[3])
	}
}

func TestRenderGrid_Preview(t *testing.T) {
	g := calendar.NewGrid(timeutil.WeekDays(time.Now()), nil)
	editor := calendar.NewEditor(g, 1)
	if err := editor.OpenAt(3, 10); err != nil {
		t.Fatalf("OpenAt 失败: %v", err)
	}

	var buf bytes.Buffer
	renderGrid(&buf, g, 10, 11)
	if !strings.Contains(buf.String(), "+") {
		t.Errorf("应显示预览格: %q", buf.String())
	}
}

func TestParseDay(t *testing.T) {
	cases := map[string]int{"0": 0, "6": 6, "mon": 1, "Wednesday": 3, "SAT": 6}
	for in, want := range cases {
		got, err := parseDay(in)
		if err != nil || got != want {
			t.Errorf("parseDay(%q) = %d, %v；期望 %d", in, got, err, want)
		}
	}
	for _, in := range []string{"7", "-1", "mo", "holiday"} {
		if _, err := parseDay(in); err == nil {
			t.Errorf("parseDay(%q) 应失败", in)
		}
	}
}

func TestPad(t *testing.T) {
	if got := pad("ab", 4); got != "ab  " {
		t.Errorf("补齐错误: %q", got)
	}
	if got := pad("微积分课程名称", 4); got != "微积分 " {
		t.Errorf("截断错误: %q", got)
	}
}
