package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/internal/model"
	"github.com/handrailjsp/Scheduling/internal/repository"
)

// ── 教授模块业务错误 ──

var (
	ErrProfessorNotFound = errors.New("教授不存在")
)

// ProfessorService 教授管理业务接口
type ProfessorService interface {
	List(ctx context.Context) ([]dto.ProfessorResponse, error)
	Get(ctx context.Context, id int64) (*dto.ProfessorResponse, error)
	Create(ctx context.Context, req *dto.CreateProfessorRequest) (*dto.ProfessorResponse, error)
	// Delete 单事务内删除教授及其全部课时
	Delete(ctx context.Context, id int64) (*dto.DeleteProfessorResponse, error)
}

type professorService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfessorService 创建 ProfessorService 实例
func NewProfessorService(repo *repository.Repository, logger *zap.Logger) ProfessorService {
	return &professorService{repo: repo, logger: logger}
}

func (s *professorService) List(ctx context.Context) ([]dto.ProfessorResponse, error) {
	list, err := s.repo.Professor.List(ctx)
	if err != nil {
		s.logger.Error("查询教授列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ProfessorResponse, 0, len(list))
	for i := range list {
		result = append(result, toProfessorResponse(&list[i].Professor, list[i].SlotCount))
	}
	return result, nil
}

func (s *professorService) Get(ctx context.Context, id int64) (*dto.ProfessorResponse, error) {
	p, err := s.repo.Professor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfessorNotFound
		}
		s.logger.Error("查询教授失败", zap.Int64("professor_id", id), zap.Error(err))
		return nil, err
	}
	slots, err := s.repo.Slot.ListByProfessor(ctx, id)
	if err != nil {
		s.logger.Error("查询教授课时失败", zap.Int64("professor_id", id), zap.Error(err))
		return nil, err
	}
	resp := toProfessorResponse(p, len(slots))
	return &resp, nil
}

func (s *professorService) Create(ctx context.Context, req *dto.CreateProfessorRequest) (*dto.ProfessorResponse, error) {
	p := &model.Professor{
		Name:       strings.TrimSpace(req.Name),
		Title:      strings.TrimSpace(req.Title),
		Department: strings.TrimSpace(req.Department),
	}
	if err := s.repo.Professor.Create(ctx, p); err != nil {
		s.logger.Error("创建教授失败", zap.Error(err))
		return nil, err
	}
	resp := toProfessorResponse(p, 0)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// Delete — 先删课时再删教授，任一步失败整体回滚
// ════════════════════════════════════════════════════════════

func (s *professorService) Delete(ctx context.Context, id int64) (*dto.DeleteProfessorResponse, error) {
	var slotsDeleted int64
	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if _, err := tx.Professor.LockByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfessorNotFound
			}
			return err
		}

		n, err := tx.Slot.DeleteByProfessor(ctx, id)
		if err != nil {
			return err
		}
		slotsDeleted = n

		if _, err := tx.Professor.Delete(ctx, id); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrProfessorNotFound) {
			s.logger.Error("删除教授失败", zap.Int64("professor_id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("删除教授",
		zap.Int64("professor_id", id),
		zap.Int64("slots_deleted", slotsDeleted),
	)
	return &dto.DeleteProfessorResponse{ID: id, SlotsDeleted: slotsDeleted}, nil
}

// ── 辅助函数 ──

func toProfessorResponse(p *model.Professor, slotCount int) dto.ProfessorResponse {
	return dto.ProfessorResponse{
		ID:         p.ID,
		Name:       p.Name,
		Title:      p.Title,
		Department: p.Department,
		SlotCount:  slotCount,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}
