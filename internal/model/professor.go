package model

// Professor 教授 — 对应 professors
// 删除时级联删除其全部课时（外键 ON DELETE CASCADE）
type Professor struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"         json:"id"`
	Name       string `gorm:"type:varchar(100);not null"       json:"name"`
	Title      string `gorm:"type:varchar(50);not null;default:''"  json:"title"`
	Department string `gorm:"type:varchar(100);not null;default:''" json:"department"`
	BaseModel

	// 关联
	Slots []TimetableSlot `gorm:"foreignKey:ProfessorID;constraint:OnDelete:CASCADE" json:"slots,omitempty"`
}

// TableName 指定表名
func (Professor) TableName() string { return "professors" }
