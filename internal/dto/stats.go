package dto

import "github.com/handrailjsp/Scheduling/pkg/fairness"

// ProfessorLoad 教授课时负荷
type ProfessorLoad struct {
	ProfessorID int64  `json:"professor_id"`
	Name        string `json:"name"`
	Hours       int    `json:"hours"`
	ACHours     int    `json:"ac_hours"`
}

// WorkloadStatsResponse 现行课表公平性统计
type WorkloadStatsResponse struct {
	Metrics    fairness.Metrics         `json:"metrics"`
	Average    float64                  `json:"average"`
	Bands      map[string]fairness.Band `json:"bands"`
	Professors []ProfessorLoad          `json:"professors"`
}
