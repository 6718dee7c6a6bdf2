package dto

// ── 课时模块 DTO ──
//
// 线上字段统一 snake_case；指针字段用于区分 0 值与缺省（星期日 = 0、零点 = 0）

// SlotRequest 新增课时请求（完整载荷）
type SlotRequest struct {
	ProfessorID int64  `json:"professor_id" binding:"required,min=1"`
	DayOfWeek   *int   `json:"day_of_week"  binding:"required,min=0,max=6"`
	Hour        *int   `json:"hour"         binding:"required,min=0,max=23"`
	EndHour     *int   `json:"end_hour"     binding:"required,min=1,max=24"`
	Subject     string `json:"subject"      binding:"required,min=1,max=200"`
	Room        string `json:"room"         binding:"required,min=1,max=50"`
	NeedsAC     bool   `json:"needs_ac"`
}

// UpdateSlotRequest 更新课时请求：全字段覆盖 + 乐观锁版本号
type UpdateSlotRequest struct {
	SlotRequest
	Version int `json:"version" binding:"required,min=1"`
}

// SlotResponse 课时信息响应
type SlotResponse struct {
	ID          int64  `json:"id"`
	ProfessorID int64  `json:"professor_id"`
	DayOfWeek   int    `json:"day_of_week"`
	Hour        int    `json:"hour"`
	EndHour     int    `json:"end_hour"`
	Subject     string `json:"subject"`
	Room        string `json:"room"`
	NeedsAC     bool   `json:"needs_ac"`
	Version     int    `json:"version"`
}

// DeleteSlotsResponse 批量删除结果
type DeleteSlotsResponse struct {
	ProfessorID int64 `json:"professor_id"`
	Deleted     int64 `json:"deleted"`
}

// IntPtr 构造 *int
func IntPtr(v int) *int { return &v }

// ImportSkipped 导入时被跳过的课程
type ImportSkipped struct {
	Subject   string `json:"subject"`
	DayOfWeek int    `json:"day_of_week"`
	Hour      int    `json:"hour"`
	EndHour   int    `json:"end_hour"`
	Reason    string `json:"reason"`
}

// ImportSlotsResponse ICS 导入结果
type ImportSlotsResponse struct {
	ProfessorID int64           `json:"professor_id"`
	Created     []SlotResponse  `json:"created"`
	Skipped     []ImportSkipped `json:"skipped"`
}
