package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/internal/repository"
	"github.com/handrailjsp/Scheduling/pkg/fairness"
)

// StatsService 现行课表的公平性统计
type StatsService interface {
	Workload(ctx context.Context) (*dto.WorkloadStatsResponse, error)
}

type statsService struct {
	repo   *repository.Repository
	rooms  calendar.RoomFilter
	logger *zap.Logger
}

// NewStatsService 创建 StatsService 实例
func NewStatsService(repo *repository.Repository, rooms calendar.RoomFilter, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, rooms: rooms, logger: logger}
}

func (s *statsService) Workload(ctx context.Context) (*dto.WorkloadStatsResponse, error) {
	profs, err := s.repo.Professor.List(ctx)
	if err != nil {
		s.logger.Error("查询教授列表失败", zap.Error(err))
		return nil, err
	}
	slots, err := s.repo.Slot.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询全部课时失败", zap.Error(err))
		return nil, err
	}

	loads := make(map[int64]*dto.ProfessorLoad, len(profs))
	for _, p := range profs {
		loads[p.ID] = &dto.ProfessorLoad{ProfessorID: p.ID, Name: p.Name}
	}

	assignments := make([]fairness.Assignment, 0, len(slots))
	for i := range slots {
		slot := &slots[i]
		assignments = append(assignments, fairness.Assignment{
			ProfessorID: slot.ProfessorID,
			Room:        slot.Room,
			Hours:       slot.Duration(),
			NeedsAC:     slot.NeedsAC,
		})

		load, ok := loads[slot.ProfessorID]
		if !ok {
			continue
		}
		load.Hours += slot.Duration()
		if slot.NeedsAC && s.rooms.AllowsName(slot.Room) {
			load.ACHours += slot.Duration()
		}
	}

	metrics := fairness.Compute(assignments, s.rooms.AllowsName)

	resp := &dto.WorkloadStatsResponse{
		Metrics:    metrics,
		Average:    metrics.Average(),
		Bands:      metrics.Bands(),
		Professors: make([]dto.ProfessorLoad, 0, len(loads)),
	}
	for _, l := range loads {
		resp.Professors = append(resp.Professors, *l)
	}
	sort.Slice(resp.Professors, func(i, j int) bool {
		a, b := resp.Professors[i], resp.Professors[j]
		if a.Hours != b.Hours {
			return a.Hours > b.Hours
		}
		return a.ProfessorID < b.ProfessorID
	})
	return resp, nil
}
