package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/handrailjsp/Scheduling/internal/model"
	pkgerrors "github.com/handrailjsp/Scheduling/pkg/errors"
)

// SlotRepository 课时数据访问接口
type SlotRepository interface {
	Create(ctx context.Context, slot *model.TimetableSlot) error
	GetByID(ctx context.Context, id int64) (*model.TimetableSlot, error)
	ListByProfessor(ctx context.Context, professorID int64) ([]model.TimetableSlot, error)
	ListByProfessorDay(ctx context.Context, professorID int64, dayOfWeek int) ([]model.TimetableSlot, error)
	ListAll(ctx context.Context) ([]model.TimetableSlot, error)
	// Update 全字段覆盖，版本号不一致时返回 ErrOptimisticLock
	Update(ctx context.Context, slot *model.TimetableSlot) error
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteByProfessor(ctx context.Context, professorID int64) (int64, error)
}

type slotRepo struct {
	db *gorm.DB
}

// NewSlotRepo 创建 SlotRepository 实例
func NewSlotRepo(db *gorm.DB) SlotRepository {
	return &slotRepo{db: db}
}

func (r *slotRepo) Create(ctx context.Context, slot *model.TimetableSlot) error {
	if slot.Version == 0 {
		slot.Version = 1
	}
	return r.db.WithContext(ctx).Omit("Professor").Create(slot).Error
}

func (r *slotRepo) GetByID(ctx context.Context, id int64) (*model.TimetableSlot, error) {
	var slot model.TimetableSlot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepo) ListByProfessor(ctx context.Context, professorID int64) ([]model.TimetableSlot, error) {
	var slots []model.TimetableSlot
	err := r.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Order("day_of_week ASC, hour ASC").
		Find(&slots).Error
	return slots, err
}

func (r *slotRepo) ListByProfessorDay(ctx context.Context, professorID int64, dayOfWeek int) ([]model.TimetableSlot, error) {
	var slots []model.TimetableSlot
	err := r.db.WithContext(ctx).
		Where("professor_id = ? AND day_of_week = ?", professorID, dayOfWeek).
		Order("hour ASC").
		Find(&slots).Error
	return slots, err
}

func (r *slotRepo) ListAll(ctx context.Context) ([]model.TimetableSlot, error) {
	var slots []model.TimetableSlot
	err := r.db.WithContext(ctx).
		Order("professor_id ASC, day_of_week ASC, hour ASC").
		Find(&slots).Error
	return slots, err
}

func (r *slotRepo) Update(ctx context.Context, slot *model.TimetableSlot) error {
	oldVersion := slot.Version
	result := r.db.WithContext(ctx).
		Model(&model.TimetableSlot{}).
		Where("id = ? AND version = ?", slot.ID, oldVersion).
		Updates(map[string]interface{}{
			"professor_id": slot.ProfessorID,
			"day_of_week":  slot.DayOfWeek,
			"hour":         slot.Hour,
			"end_hour":     slot.EndHour,
			"subject":      slot.Subject,
			"room":         slot.Room,
			"needs_ac":     slot.NeedsAC,
			"version":      oldVersion + 1,
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	slot.Version = oldVersion + 1
	return nil
}

func (r *slotRepo) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TimetableSlot{})
	return result.RowsAffected, result.Error
}

func (r *slotRepo) DeleteByProfessor(ctx context.Context, professorID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Delete(&model.TimetableSlot{})
	return result.RowsAffected, result.Error
}
