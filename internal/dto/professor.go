package dto

// ── 教授模块 DTO ──

// CreateProfessorRequest 新增教授请求
type CreateProfessorRequest struct {
	Name       string `json:"name"       binding:"required,min=1,max=100"`
	Title      string `json:"title"      binding:"omitempty,max=50"`
	Department string `json:"department" binding:"omitempty,max=100"`
}

// ProfessorResponse 教授信息响应
type ProfessorResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	Department string `json:"department"`
	SlotCount  int    `json:"slot_count"`
	CreatedAt  string `json:"created_at"`
}

// DeleteProfessorResponse 删除教授结果
type DeleteProfessorResponse struct {
	ID           int64 `json:"id"`
	SlotsDeleted int64 `json:"slots_deleted"`
}
