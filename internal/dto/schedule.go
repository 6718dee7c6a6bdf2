package dto

import "github.com/handrailjsp/Scheduling/pkg/scheduler"

// ── 排课生成模块 DTO ──

// ScheduleResultResponse 生成结果
type ScheduleResultResponse = scheduler.Result

// ScheduleActionResponse 通过/驳回结果
type ScheduleActionResponse struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ScheduleListResponse 已生成方案列表
type ScheduleListResponse struct {
	List []scheduler.ScheduleSummary `json:"list"`
}
