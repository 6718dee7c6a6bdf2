package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/handrailjsp/Scheduling/pkg/timeutil"
)

// ── 测试辅助 ──

func testWeek() []time.Time {
	return timeutil.WeekDays(time.Date(2026, 3, 11, 0, 0, 0, 0, time.Local))
}

func newSlot(id int64, day, hour, end int) Slot {
	return Slot{ID: id, Version: 1, SlotData: SlotData{
		ProfessorID: 1, DayOfWeek: day, Hour: hour, EndHour: end, Subject: "Physics", Room: "322",
	}}
}

// ── SlotAt / SpanningSlot ──

func TestGrid_SlotAtAndSpanning(t *testing.T) {
	g := NewGrid(testWeek(), []Slot{newSlot(1, 2, 9, 12)})

	if s, ok := g.SlotAt(2, 9); !ok || s.ID != 1 {
		t.Error("起始格应返回课时 1")
	}
	if _, ok := g.SlotAt(2, 10); ok {
		t.Error("非起始格 SlotAt 应为空")
	}
	for _, h := range []int{9, 10, 11} {
		if s, ok := g.SpanningSlot(2, h); !ok || s.ID != 1 {
			t.Errorf("%d 点应被课时 1 覆盖", h)
		}
	}
	if _, ok := g.SpanningSlot(2, 12); ok {
		t.Error("结束小时不含，12 点不应被覆盖")
	}
	if _, ok := g.SpanningSlot(3, 10); ok {
		t.Error("其他天不应被覆盖")
	}
}

func TestGrid_CanCreateAt(t *testing.T) {
	g := NewGrid(testWeek(), []Slot{newSlot(1, 2, 9, 12)})

	cases := []struct {
		day, hour int
		want      bool
	}{
		{2, 9, false},  // 起始格
		{2, 11, false}, // 跨越格
		{2, 12, true},
		{2, 8, true},
		{7, 0, false}, // 越界
		{0, 24, false},
	}
	for _, c := range cases {
		if got := g.CanCreateAt(c.day, c.hour); got != c.want {
			t.Errorf("CanCreateAt(%d,%d) = %v，期望 %v", c.day, c.hour, got, c.want)
		}
	}
}

// 每个被占用的格子恰好对应一个覆盖课时，且只在起始格渲染
func TestGrid_CellsRenderSpanOnce(t *testing.T) {
	slots := []Slot{newSlot(1, 1, 8, 10), newSlot(2, 1, 13, 16), newSlot(3, 5, 0, 1)}
	g := NewGrid(testWeek(), slots)
	cells := g.Cells()

	if len(cells) != DaysPerWeek || len(cells[0]) != HoursPerDay {
		t.Fatalf("网格尺寸错误: %dx%d", len(cells), len(cells[0]))
	}

	starts := map[int64]int{}
	for d := range cells {
		for h, c := range cells[d] {
			switch c.Kind {
			case CellStart:
				starts[c.Slot.ID]++
				if c.Slot.Hour != h {
					t.Errorf("起始格小时不符: slot=%d h=%d", c.Slot.ID, h)
				}
			case CellContinuation:
				if !c.Slot.Covers(h) || c.Slot.Hour == h {
					t.Errorf("后续格不符: slot=%d h=%d", c.Slot.ID, h)
				}
			}
		}
	}
	for _, s := range slots {
		if starts[s.ID] != 1 {
			t.Errorf("课时 %d 起始格出现 %d 次", s.ID, starts[s.ID])
		}
	}
	if !cells[1][0].Date.Equal(testWeek()[1]) {
		t.Error("单元格日期应为对应星期的日期")
	}
}

// ── Preview ──

func TestGrid_Preview(t *testing.T) {
	g := NewGrid(testWeek(), []Slot{newSlot(1, 2, 9, 10)})

	if err := g.SetPreview(PreviewSpan{DayOfWeek: 2, StartHour: 8, EndHour: 11}); err != nil {
		t.Fatalf("SetPreview 应成功: %v", err)
	}
	if g.Cell(2, 8).Kind != CellPreview || g.Cell(2, 10).Kind != CellPreview {
		t.Error("预览区间格应标记为 preview")
	}
	if g.Cell(2, 9).Kind != CellStart {
		t.Error("已提交课时优先于预览")
	}
	if g.Cell(2, 11).Kind != CellEmpty {
		t.Error("预览结束小时不含")
	}

	g.ClearPreview()
	if g.InPreview(2, 8) {
		t.Error("清除后不应有预览")
	}
	if err := g.SetPreview(PreviewSpan{DayOfWeek: 2, StartHour: 5, EndHour: 5}); !errors.Is(err, ErrInvalidPreview) {
		t.Errorf("期望 ErrInvalidPreview，实际: %v", err)
	}
}

func TestGrid_CopiesInput(t *testing.T) {
	slots := []Slot{newSlot(1, 2, 9, 10)}
	g := NewGrid(testWeek(), slots)
	slots[0].Hour = 15
	if _, ok := g.SlotAt(2, 9); !ok {
		t.Error("网格不应受外部切片修改影响")
	}
}

// ── Overlap ──

func TestFindOverlap(t *testing.T) {
	slots := []Slot{newSlot(1, 2, 9, 11), newSlot(2, 2, 13, 14)}

	if s, ok := FindOverlap(slots, SlotData{ProfessorID: 1, DayOfWeek: 2, Hour: 10, EndHour: 12}, 0); !ok || s.ID != 1 {
		t.Error("应检测到与课时 1 冲突")
	}
	if _, ok := FindOverlap(slots, SlotData{ProfessorID: 1, DayOfWeek: 2, Hour: 11, EndHour: 13}, 0); ok {
		t.Error("首尾相接不应冲突")
	}
	if _, ok := FindOverlap(slots, SlotData{ProfessorID: 1, DayOfWeek: 2, Hour: 9, EndHour: 12}, 1); ok {
		t.Error("排除自身后不应冲突")
	}
}

func TestSlotData_Validate(t *testing.T) {
	valid := SlotData{ProfessorID: 1, DayOfWeek: 0, Hour: 0, EndHour: 24, Subject: "Math", Room: "101"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("期望合法，实际: %v", err)
	}

	cases := map[string]func(d *SlotData){
		"end_hour":     func(d *SlotData) { d.EndHour = d.Hour },
		"subject":      func(d *SlotData) { d.Subject = "  " },
		"room":         func(d *SlotData) { d.Room = "" },
		"hour":         func(d *SlotData) { d.Hour = 24; d.EndHour = 25 },
		"day_of_week":  func(d *SlotData) { d.DayOfWeek = 7 },
		"professor_id": func(d *SlotData) { d.ProfessorID = 0 },
	}
	for field, mutate := range cases {
		d := valid
		mutate(&d)
		var ve *ValidationError
		if err := d.Validate(); !errors.As(err, &ve) || ve.Field != field {
			t.Errorf("期望字段 %s 校验失败，实际: %v", field, err)
		}
	}
}
