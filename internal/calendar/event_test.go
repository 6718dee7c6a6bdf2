package calendar

import (
	"testing"
	"time"
)

func TestProjectWeek_FiltersACRooms(t *testing.T) {
	date := time.Date(2026, 3, 11, 10, 0, 0, 0, time.Local) // 周三
	slots := []SourceSlot{
		{ID: 1, ProfessorID: 3, ProfessorName: "Dr. Reyes", RoomID: 322, DayOfWeek: 1, StartHour: 9, EndHour: 11, Subject: "Calculus"},
		{ID: 2, ProfessorID: 4, RoomID: 101, DayOfWeek: 1, StartHour: 9, EndHour: 10, Subject: "History"},
		{ID: 3, ProfessorID: 13, RoomID: 324, DayOfWeek: 5, StartHour: 13, EndHour: 14},
	}

	events := ProjectWeek(slots, date, NewRoomFilter(DefaultACRooms))
	if len(events) != 2 {
		t.Fatalf("期望 2 个事件（过滤非空调教室），实际 %d", len(events))
	}

	e := events[0]
	if e.ID != "1" || e.Title != "Dr. Reyes" || e.Description != "Calculus - Room 322" {
		t.Errorf("事件内容不符: %+v", e)
	}
	wantStart := time.Date(2026, 3, 9, 9, 0, 0, 0, time.Local)
	if !e.Start.Equal(wantStart) || !e.End.Equal(wantStart.Add(2*time.Hour)) {
		t.Errorf("事件时间不符: %v - %v", e.Start, e.End)
	}

	e2 := events[1]
	if e2.Title != "Professor 13" || e2.Description != "Course - Room 324" {
		t.Errorf("缺省标题/描述不符: %+v", e2)
	}
	if e2.Color != ColorFor(3) || e2.Color != "yellow" {
		t.Errorf("颜色应按 professor_id %% 10 选取，实际 %s", e2.Color)
	}
}

func TestProjectDays_MonthRepeatsWeekly(t *testing.T) {
	slots := []SourceSlot{{ID: 1, ProfessorID: 1, RoomID: 323, DayOfWeek: 0, StartHour: 8, EndHour: 9}}
	days := make([]time.Time, 0, 14)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) // 周日
	for i := 0; i < 14; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}

	events := ProjectDays(slots, days, NewRoomFilter(DefaultACRooms))
	if len(events) != 2 {
		t.Fatalf("两周应有 2 次，实际 %d", len(events))
	}
	if !events[1].Start.Equal(time.Date(2026, 3, 8, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("第二次时间不符: %v", events[1].Start)
	}
}

func TestRoomFilter(t *testing.T) {
	f := NewRoomFilter([]int{322})
	if !f.AllowsName("322") || f.AllowsName("A-322") || f.Allows(101) {
		t.Error("白名单判断错误")
	}
	if len(ProjectWeek([]SourceSlot{{RoomID: 322}}, time.Now(), NewRoomFilter(nil))) != 0 {
		t.Error("空白名单应过滤全部")
	}
}
