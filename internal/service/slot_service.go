package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/internal/model"
	"github.com/handrailjsp/Scheduling/internal/repository"
	"github.com/handrailjsp/Scheduling/pkg/database"
	pkgerrors "github.com/handrailjsp/Scheduling/pkg/errors"
)

// ── 课时模块业务错误 ──

var (
	ErrSlotNotFound = errors.New("课时不存在")
	ErrSlotOverlap  = errors.New("与该教授同一天的已有课时时间重叠")
)

// SlotService 课时存储业务接口
//
// 写操作在事务内对教授行加锁后做重叠预检，数据库排他约束兜底；
// 更新为全字段覆盖并校验版本号。
type SlotService interface {
	ListByProfessor(ctx context.Context, professorID int64) ([]dto.SlotResponse, error)
	Create(ctx context.Context, req *dto.SlotRequest) (*dto.SlotResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error)
	Delete(ctx context.Context, id int64) error
	DeleteByProfessor(ctx context.Context, professorID int64) (*dto.DeleteSlotsResponse, error)
	// ImportICS 将 iCalendar 中的每周课程导入为课时，冲突或不完整的条目跳过
	ImportICS(ctx context.Context, professorID int64, r io.Reader) (*dto.ImportSlotsResponse, error)
}

type slotService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSlotService 创建 SlotService 实例
func NewSlotService(repo *repository.Repository, logger *zap.Logger) SlotService {
	return &slotService{repo: repo, logger: logger}
}

func (s *slotService) ListByProfessor(ctx context.Context, professorID int64) ([]dto.SlotResponse, error) {
	if err := s.ensureProfessor(ctx, professorID); err != nil {
		return nil, err
	}
	slots, err := s.repo.Slot.ListByProfessor(ctx, professorID)
	if err != nil {
		s.logger.Error("查询课时失败", zap.Int64("professor_id", professorID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, toSlotResponse(&slots[i]))
	}
	return result, nil
}

func (s *slotService) Create(ctx context.Context, req *dto.SlotRequest) (*dto.SlotResponse, error) {
	slot, err := s.create(ctx, slotDataFromRequest(req))
	slotMutations.WithLabelValues("create", resultLabel(err)).Inc()
	if err != nil {
		return nil, err
	}
	resp := toSlotResponse(slot)
	return &resp, nil
}

func (s *slotService) create(ctx context.Context, data calendar.SlotData) (*model.TimetableSlot, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	slot := toSlotModel(data)
	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if err := lockProfessor(ctx, tx, data.ProfessorID); err != nil {
			return err
		}
		if err := checkOverlap(ctx, tx, data, 0); err != nil {
			return err
		}
		return tx.Slot.Create(ctx, slot)
	})
	if err != nil {
		return nil, s.mapWriteError("创建课时失败", err)
	}
	return slot, nil
}

func (s *slotService) Update(ctx context.Context, id int64, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error) {
	data := slotDataFromRequest(&req.SlotRequest)
	if err := data.Validate(); err != nil {
		slotMutations.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	slot := toSlotModel(data)
	slot.ID = id
	slot.Version = req.Version

	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		current, err := tx.Slot.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if current.Version != req.Version {
			return pkgerrors.ErrOptimisticLock
		}
		if err := lockProfessor(ctx, tx, data.ProfessorID); err != nil {
			return err
		}
		if err := checkOverlap(ctx, tx, data, id); err != nil {
			return err
		}
		return tx.Slot.Update(ctx, slot)
	})
	slotMutations.WithLabelValues("update", resultLabel(err)).Inc()
	if err != nil {
		return nil, s.mapWriteError("更新课时失败", err)
	}

	resp := toSlotResponse(slot)
	return &resp, nil
}

func (s *slotService) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.Slot.Delete(ctx, id)
	if err == nil && n == 0 {
		err = ErrSlotNotFound
	}
	slotMutations.WithLabelValues("delete", resultLabel(err)).Inc()
	if err != nil && !errors.Is(err, ErrSlotNotFound) {
		s.logger.Error("删除课时失败", zap.Int64("slot_id", id), zap.Error(err))
	}
	return err
}

func (s *slotService) DeleteByProfessor(ctx context.Context, professorID int64) (*dto.DeleteSlotsResponse, error) {
	if err := s.ensureProfessor(ctx, professorID); err != nil {
		return nil, err
	}
	n, err := s.repo.Slot.DeleteByProfessor(ctx, professorID)
	slotMutations.WithLabelValues("delete_all", resultLabel(err)).Inc()
	if err != nil {
		s.logger.Error("批量删除课时失败", zap.Int64("professor_id", professorID), zap.Error(err))
		return nil, err
	}
	return &dto.DeleteSlotsResponse{ProfessorID: professorID, Deleted: n}, nil
}

// ════════════════════════════════════════════════════════════
// ImportICS — 逐条创建，单条失败不影响其余条目
// ════════════════════════════════════════════════════════════

func (s *slotService) ImportICS(ctx context.Context, professorID int64, r io.Reader) (*dto.ImportSlotsResponse, error) {
	if err := s.ensureProfessor(ctx, professorID); err != nil {
		return nil, err
	}
	entries, err := ParseWeeklyICS(r, professorID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportSlotsResponse{
		ProfessorID: professorID,
		Created:     make([]dto.SlotResponse, 0, len(entries)),
		Skipped:     make([]dto.ImportSkipped, 0),
	}
	for _, data := range entries {
		slot, err := s.create(ctx, data)
		slotMutations.WithLabelValues("import", resultLabel(err)).Inc()

		var verr *calendar.ValidationError
		switch {
		case err == nil:
			resp.Created = append(resp.Created, toSlotResponse(slot))
		case errors.As(err, &verr), errors.Is(err, ErrSlotOverlap):
			resp.Skipped = append(resp.Skipped, dto.ImportSkipped{
				Subject:   data.Subject,
				DayOfWeek: data.DayOfWeek,
				Hour:      data.Hour,
				EndHour:   data.EndHour,
				Reason:    err.Error(),
			})
		default:
			return nil, err
		}
	}

	s.logger.Info("导入 ICS 课时",
		zap.Int64("professor_id", professorID),
		zap.Int("created", len(resp.Created)),
		zap.Int("skipped", len(resp.Skipped)),
	)
	return resp, nil
}

// ── 辅助函数 ──

func (s *slotService) ensureProfessor(ctx context.Context, professorID int64) error {
	if _, err := s.repo.Professor.GetByID(ctx, professorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfessorNotFound
		}
		s.logger.Error("查询教授失败", zap.Int64("professor_id", professorID), zap.Error(err))
		return err
	}
	return nil
}

// mapWriteError 将约束冲突映射为业务错误，其余错误记录日志
func (s *slotService) mapWriteError(msg string, err error) error {
	switch {
	case errors.Is(err, ErrSlotOverlap),
		errors.Is(err, ErrSlotNotFound),
		errors.Is(err, ErrProfessorNotFound),
		errors.Is(err, pkgerrors.ErrOptimisticLock):
		return err
	case database.IsExclusionViolation(err):
		return ErrSlotOverlap
	case database.IsForeignKeyViolation(err):
		return ErrProfessorNotFound
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

func lockProfessor(ctx context.Context, tx *repository.Repository, professorID int64) error {
	if _, err := tx.Professor.LockByID(ctx, professorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfessorNotFound
		}
		return err
	}
	return nil
}

// checkOverlap 同教授同一天区间相交即冲突，excludeID 为正在更新的课时
func checkOverlap(ctx context.Context, tx *repository.Repository, data calendar.SlotData, excludeID int64) error {
	existing, err := tx.Slot.ListByProfessorDay(ctx, data.ProfessorID, data.DayOfWeek)
	if err != nil {
		return err
	}
	if _, found := calendar.FindOverlap(toCalendarSlots(existing), data, excludeID); found {
		return ErrSlotOverlap
	}
	return nil
}

// slotDataFromRequest 缺省的整型字段置为 -1，交由 Validate 拒绝
func slotDataFromRequest(req *dto.SlotRequest) calendar.SlotData {
	return calendar.SlotData{
		ProfessorID: req.ProfessorID,
		DayOfWeek:   derefOr(req.DayOfWeek, -1),
		Hour:        derefOr(req.Hour, -1),
		EndHour:     derefOr(req.EndHour, -1),
		Subject:     req.Subject,
		Room:        req.Room,
		NeedsAC:     req.NeedsAC,
	}
}

func derefOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

func toSlotModel(d calendar.SlotData) *model.TimetableSlot {
	return &model.TimetableSlot{
		ProfessorID: d.ProfessorID,
		DayOfWeek:   d.DayOfWeek,
		Hour:        d.Hour,
		EndHour:     d.EndHour,
		Subject:     d.Subject,
		Room:        d.Room,
		NeedsAC:     d.NeedsAC,
	}
}

func toCalendarSlot(m *model.TimetableSlot) calendar.Slot {
	return calendar.Slot{
		ID:      m.ID,
		Version: m.Version,
		SlotData: calendar.SlotData{
			ProfessorID: m.ProfessorID,
			DayOfWeek:   m.DayOfWeek,
			Hour:        m.Hour,
			EndHour:     m.EndHour,
			Subject:     m.Subject,
			Room:        m.Room,
			NeedsAC:     m.NeedsAC,
		},
	}
}

func toCalendarSlots(list []model.TimetableSlot) []calendar.Slot {
	out := make([]calendar.Slot, 0, len(list))
	for i := range list {
		out = append(out, toCalendarSlot(&list[i]))
	}
	return out
}

func toSlotResponse(m *model.TimetableSlot) dto.SlotResponse {
	return dto.SlotResponse{
		ID:          m.ID,
		ProfessorID: m.ProfessorID,
		DayOfWeek:   m.DayOfWeek,
		Hour:        m.Hour,
		EndHour:     m.EndHour,
		Subject:     m.Subject,
		Room:        m.Room,
		NeedsAC:     m.NeedsAC,
		Version:     m.Version,
	}
}

func slotResponseFromCalendar(s *calendar.Slot) *dto.SlotResponse {
	return &dto.SlotResponse{
		ID:          s.ID,
		ProfessorID: s.ProfessorID,
		DayOfWeek:   s.DayOfWeek,
		Hour:        s.Hour,
		EndHour:     s.EndHour,
		Subject:     s.Subject,
		Room:        s.Room,
		NeedsAC:     s.NeedsAC,
		Version:     s.Version,
	}
}
