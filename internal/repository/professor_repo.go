package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/handrailjsp/Scheduling/internal/model"
)

// ProfessorWithCount 教授及其课时数
type ProfessorWithCount struct {
	model.Professor
	SlotCount int `gorm:"column:slot_count"`
}

// ProfessorRepository 教授数据访问接口
type ProfessorRepository interface {
	Create(ctx context.Context, professor *model.Professor) error
	GetByID(ctx context.Context, id int64) (*model.Professor, error)
	// LockByID 行锁（SELECT ... FOR UPDATE），串行化同一教授的课时写入，须在事务内调用
	LockByID(ctx context.Context, id int64) (*model.Professor, error)
	List(ctx context.Context) ([]ProfessorWithCount, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Professor, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type professorRepo struct {
	db *gorm.DB
}

// NewProfessorRepo 创建 ProfessorRepository 实例
func NewProfessorRepo(db *gorm.DB) ProfessorRepository {
	return &professorRepo{db: db}
}

func (r *professorRepo) Create(ctx context.Context, professor *model.Professor) error {
	return r.db.WithContext(ctx).Create(professor).Error
}

func (r *professorRepo) GetByID(ctx context.Context, id int64) (*model.Professor, error) {
	var p model.Professor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *professorRepo) LockByID(ctx context.Context, id int64) (*model.Professor, error) {
	var p model.Professor
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *professorRepo) List(ctx context.Context) ([]ProfessorWithCount, error) {
	var list []ProfessorWithCount
	err := r.db.WithContext(ctx).
		Model(&model.Professor{}).
		Select("professors.*, COUNT(timetable_slots.id) AS slot_count").
		Joins("LEFT JOIN timetable_slots ON timetable_slots.professor_id = professors.id").
		Group("professors.id").
		Order("professors.name ASC, professors.id ASC").
		Scan(&list).Error
	return list, err
}

func (r *professorRepo) ListByIDs(ctx context.Context, ids []int64) ([]model.Professor, error) {
	var list []model.Professor
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

// Delete 删除教授，返回受影响行数；课时由外键级联删除
func (r *professorRepo) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Professor{})
	return result.RowsAffected, result.Error
}
