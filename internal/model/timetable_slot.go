package model

// TimetableSlot 周课时 — 对应 timetable_slots
//
// 课时区间为 [Hour, EndHour)，EndHour 不含；DayOfWeek 以周日为 0。
// 同一教授同一天的区间不得重叠（数据库排他约束 excl_timetable_slots_overlap）。
type TimetableSlot struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	ProfessorID int64  `gorm:"not null;index"             json:"professor_id"`
	DayOfWeek   int    `gorm:"type:smallint;not null"     json:"day_of_week"` // 0-6
	Hour        int    `gorm:"type:smallint;not null"     json:"hour"`        // 0-23
	EndHour     int    `gorm:"type:smallint;not null"     json:"end_hour"`    // 1-24
	Subject     string `gorm:"type:varchar(200);not null" json:"subject"`
	Room        string `gorm:"type:varchar(50);not null"  json:"room"`
	NeedsAC     bool   `gorm:"column:needs_ac;not null;default:false" json:"needs_ac"`
	Version     int    `gorm:"not null;default:1"         json:"version"`
	BaseModel

	// 关联
	Professor *Professor `gorm:"foreignKey:ProfessorID" json:"professor,omitempty"`
}

// TableName 指定表名
func (TimetableSlot) TableName() string { return "timetable_slots" }

// Duration 课时长度（小时）
func (s *TimetableSlot) Duration() int { return s.EndHour - s.Hour }

// Overlaps 与另一课时是否冲突（同教授、同一天、区间相交）
func (s *TimetableSlot) Overlaps(o *TimetableSlot) bool {
	return s.ProfessorID == o.ProfessorID &&
		s.DayOfWeek == o.DayOfWeek &&
		s.Hour < o.EndHour && o.Hour < s.EndHour
}
