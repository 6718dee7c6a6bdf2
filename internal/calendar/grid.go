package calendar

import (
	"errors"
	"time"
)

// CellKind 网格单元类型
type CellKind string

const (
	CellEmpty        CellKind = "empty"
	CellStart        CellKind = "start"        // 课时起始格
	CellContinuation CellKind = "continuation" // 跨小时课时的后续格
	CellPreview      CellKind = "preview"      // 编辑中的预览区间
)

// ErrInvalidPreview 预览区间非法
var ErrInvalidPreview = errors.New("预览区间无效")

// PreviewSpan 编辑器正在编辑的区间，仅用于展示
type PreviewSpan struct {
	DayOfWeek int
	StartHour int
	EndHour   int
}

// Contains 是否落在预览区间内
func (p PreviewSpan) Contains(day, hour int) bool {
	return day == p.DayOfWeek && hour >= p.StartHour && hour < p.EndHour
}

func (p PreviewSpan) valid() bool {
	return p.DayOfWeek >= 0 && p.DayOfWeek < DaysPerWeek &&
		p.StartHour >= 0 && p.EndHour <= HoursPerDay && p.EndHour > p.StartHour
}

// Cell 网格单元
type Cell struct {
	Date      time.Time
	DayOfWeek int
	Hour      int
	Kind      CellKind
	Slot      *Slot // start / continuation 时非空
}

// Grid 一周 × 24 小时的课表网格
//
// 已提交课时优先于预览；同一格多个课时（数据违反不重叠约束）时取列表中第一个。
type Grid struct {
	days    []time.Time
	slots   []Slot
	preview *PreviewSpan
}

// NewGrid 以 7 天日期与课时构建网格，slots 被复制
func NewGrid(days []time.Time, slots []Slot) *Grid {
	cp := make([]Slot, len(slots))
	copy(cp, slots)
	return &Grid{days: days, slots: cp}
}

// Days 网格日期
func (g *Grid) Days() []time.Time { return g.days }

// Slots 网格中的课时副本
func (g *Grid) Slots() []Slot {
	cp := make([]Slot, len(g.slots))
	copy(cp, g.slots)
	return cp
}

// SlotAt 以 (day, hour) 为起始格的课时
func (g *Grid) SlotAt(day, hour int) (Slot, bool) {
	for _, s := range g.slots {
		if s.DayOfWeek == day && s.Hour == hour {
			return s, true
		}
	}
	return Slot{}, false
}

// SpanningSlot 覆盖 (day, hour) 的课时：Hour <= hour < EndHour
func (g *Grid) SpanningSlot(day, hour int) (Slot, bool) {
	for _, s := range g.slots {
		if s.DayOfWeek == day && s.Covers(hour) {
			return s, true
		}
	}
	return Slot{}, false
}

// IsOccupied 是否被已提交课时占用
func (g *Grid) IsOccupied(day, hour int) bool {
	_, ok := g.SpanningSlot(day, hour)
	return ok
}

// CanCreateAt 仅空白且未被跨越的格子可以新建
func (g *Grid) CanCreateAt(day, hour int) bool {
	if day < 0 || day >= DaysPerWeek || hour < 0 || hour >= HoursPerDay {
		return false
	}
	return !g.IsOccupied(day, hour)
}

// SetPreview 设置预览区间
func (g *Grid) SetPreview(p PreviewSpan) error {
	if !p.valid() {
		return ErrInvalidPreview
	}
	g.preview = &p
	return nil
}

// ClearPreview 清除预览
func (g *Grid) ClearPreview() { g.preview = nil }

// Preview 当前预览区间
func (g *Grid) Preview() (PreviewSpan, bool) {
	if g.preview == nil {
		return PreviewSpan{}, false
	}
	return *g.preview, true
}

// InPreview 是否处于预览区间
func (g *Grid) InPreview(day, hour int) bool {
	return g.preview != nil && g.preview.Contains(day, hour)
}

// Cell 计算单元格
func (g *Grid) Cell(day, hour int) Cell {
	c := Cell{DayOfWeek: day, Hour: hour, Kind: CellEmpty}
	if day >= 0 && day < len(g.days) {
		c.Date = g.days[day]
	}

	if s, ok := g.SlotAt(day, hour); ok {
		c.Kind, c.Slot = CellStart, &s
		return c
	}
	if s, ok := g.SpanningSlot(day, hour); ok {
		c.Kind, c.Slot = CellContinuation, &s
		return c
	}
	if g.InPreview(day, hour) {
		c.Kind = CellPreview
	}
	return c
}

// Cells 7 × 24 网格矩阵，cells[day][hour]
func (g *Grid) Cells() [][]Cell {
	out := make([][]Cell, DaysPerWeek)
	for d := 0; d < DaysPerWeek; d++ {
		row := make([]Cell, HoursPerDay)
		for h := 0; h < HoursPerDay; h++ {
			row[h] = g.Cell(d, h)
		}
		out[d] = row
	}
	return out
}
