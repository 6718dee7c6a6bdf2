package calendar

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/handrailjsp/Scheduling/pkg/timeutil"
)

// DefaultACRooms 默认空调教室白名单
var DefaultACRooms = []int{322, 323, 324}

// palette 按 professor_id % 10 取色
var palette = []string{
	"blue", "purple", "green", "yellow", "red",
	"pink", "indigo", "teal", "orange", "cyan",
}

// ColorFor 教授对应的颜色
func ColorFor(professorID int64) string {
	idx := professorID % int64(len(palette))
	if idx < 0 {
		idx = -idx
	}
	return palette[idx]
}

// SourceSlot 已通过方案中的一节课（投影输入）
type SourceSlot struct {
	ID            int64
	ProfessorID   int64
	ProfessorName string
	RoomID        int
	DayOfWeek     int
	StartHour     int
	EndHour       int
	Subject       string
}

// Event 公共日历事件（只读，每次查询全量重算）
type Event struct {
	ID          string
	SlotID      int64
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Color       string
}

// RoomFilter 教室白名单
type RoomFilter map[int]struct{}

// NewRoomFilter 由教室编号列表构造白名单
func NewRoomFilter(rooms []int) RoomFilter {
	f := make(RoomFilter, len(rooms))
	for _, r := range rooms {
		f[r] = struct{}{}
	}
	return f
}

// Allows 教室是否在白名单中
func (f RoomFilter) Allows(room int) bool {
	_, ok := f[room]
	return ok
}

// AllowsName 以字符串教室号判断（本地课表的 room 字段）
func (f RoomFilter) AllowsName(room string) bool {
	n, err := strconv.Atoi(room)
	return err == nil && f.Allows(n)
}

// ProjectWeek 将周课时投影到 date 所在周
func ProjectWeek(slots []SourceSlot, date time.Time, rooms RoomFilter) []Event {
	return ProjectDays(slots, timeutil.WeekDays(date), rooms)
}

// ProjectDays 将周课时投影到给定日期：每个日期取星期相同的课时
// 仅保留白名单教室，按开始时间排序
func ProjectDays(slots []SourceSlot, days []time.Time, rooms RoomFilter) []Event {
	byDay := make(map[int][]SourceSlot, DaysPerWeek)
	for _, s := range slots {
		if !rooms.Allows(s.RoomID) {
			continue
		}
		byDay[s.DayOfWeek] = append(byDay[s.DayOfWeek], s)
	}

	events := make([]Event, 0)
	for _, day := range days {
		for _, s := range byDay[int(day.Weekday())] {
			events = append(events, project(s, day))
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events
}

func project(s SourceSlot, day time.Time) Event {
	y, m, d := day.Date()
	loc := day.Location()

	title := s.ProfessorName
	if title == "" {
		title = fmt.Sprintf("Professor %d", s.ProfessorID)
	}
	subject := s.Subject
	if subject == "" {
		subject = "Course"
	}

	return Event{
		ID:          strconv.FormatInt(s.ID, 10),
		SlotID:      s.ID,
		Title:       title,
		Description: fmt.Sprintf("%s - Room %d", subject, s.RoomID),
		Start:       time.Date(y, m, d, s.StartHour, 0, 0, 0, loc),
		End:         time.Date(y, m, d, s.EndHour, 0, 0, 0, loc),
		Color:       ColorFor(s.ProfessorID),
	}
}
