package scheduler

import "github.com/handrailjsp/Scheduling/pkg/fairness"

// 方案状态
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const defaultNotes = "Generated successfully"

// Result 一次生成的结果（不落库，仅缓存）
type Result struct {
	ID                       int64                    `json:"id"`
	FitnessScore             float64                  `json:"fitness_score"`
	HardConstraintViolations int                      `json:"hard_constraint_violations"`
	SoftConstraintScore      float64                  `json:"soft_constraint_score"`
	GiniWorkload             float64                  `json:"gini_workload"`
	GiniRoomUsage            float64                  `json:"gini_room_usage"`
	GiniACAccess             float64                  `json:"gini_ac_access"`
	Status                   string                   `json:"status"`
	Notes                    string                   `json:"notes"`
	Fairness                 map[string]fairness.Band `json:"fairness"`
}

// ResultFromGenerate 由生成响应构造结果：auto_approved 时状态为 approved，否则 pending
func ResultFromGenerate(resp *GenerateResponse) *Result {
	status := StatusPending
	if resp.AutoApproved {
		status = StatusApproved
	}
	notes := resp.Message
	if notes == "" {
		notes = defaultNotes
	}

	metrics := fairness.Metrics{
		Workload:  resp.GiniWorkload,
		RoomUsage: resp.GiniRoomUsage,
		ACAccess:  resp.GiniACAccess,
	}

	return &Result{
		ID:                       resp.ScheduleID,
		FitnessScore:             resp.FitnessScore,
		HardConstraintViolations: resp.HardViolations,
		SoftConstraintScore:      resp.SoftScore,
		GiniWorkload:             resp.GiniWorkload,
		GiniRoomUsage:            resp.GiniRoomUsage,
		GiniACAccess:             resp.GiniACAccess,
		Status:                   status,
		Notes:                    notes,
		Fairness:                 metrics.Bands(),
	}
}

// IsPending 是否待审核
func (r *Result) IsPending() bool { return r.Status == StatusPending }

// ResultFromSummary 由方案摘要重建结果（缓存过期后用于审核）
func ResultFromSummary(s *ScheduleSummary) *Result {
	notes := s.Notes
	if notes == "" {
		notes = defaultNotes
	}
	metrics := fairness.Metrics{
		Workload:  s.GiniWorkload,
		RoomUsage: s.GiniRoomUsage,
		ACAccess:  s.GiniACAccess,
	}
	return &Result{
		ID:                       s.ID,
		FitnessScore:             s.FitnessScore,
		HardConstraintViolations: s.HardViolations,
		SoftConstraintScore:      s.SoftScore,
		GiniWorkload:             s.GiniWorkload,
		GiniRoomUsage:            s.GiniRoomUsage,
		GiniACAccess:             s.GiniACAccess,
		Status:                   s.Status,
		Notes:                    notes,
		Fairness:                 metrics.Bands(),
	}
}

// FindSummary 在列表中按 id 查找方案
func FindSummary(list []ScheduleSummary, id int64) *ScheduleSummary {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}
