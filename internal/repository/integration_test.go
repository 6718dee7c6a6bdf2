//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/handrailjsp/Scheduling/internal/model"
	"github.com/handrailjsp/Scheduling/internal/repository"
	"github.com/handrailjsp/Scheduling/pkg/database"
	pkgerrors "github.com/handrailjsp/Scheduling/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=timetable password=timetable dbname=timetable_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 使用正式迁移建表，保证排他约束与外键一致
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupProfessor 创建测试教授并返回清理函数
func setupProfessor(t *testing.T) (*model.Professor, func()) {
	t.Helper()
	p := &model.Professor{Name: fmt.Sprintf("测试教授-%d", time.Now().UnixNano())}
	if err := testDB.Create(p).Error; err != nil {
		t.Fatalf("创建教授失败: %v", err)
	}
	return p, func() {
		testDB.Where("id = ?", p.ID).Delete(&model.Professor{})
	}
}

func newSlot(professorID int64, day, hour, end int) *model.TimetableSlot {
	return &model.TimetableSlot{
		ProfessorID: professorID,
		DayOfWeek:   day,
		Hour:        hour,
		EndHour:     end,
		Subject:     "Calculus",
		Room:        "322",
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Overlap Exclusion
// ═══════════════════════════════════════════════════════════

func TestSlot_OverlapRejectedByConstraint(t *testing.T) {
	p, cleanup := setupProfessor(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.Slot.Create(ctx, newSlot(p.ID, 1, 9, 11)); err != nil {
		t.Fatalf("首个课时创建失败: %v", err)
	}

	err := repo.Slot.Create(ctx, newSlot(p.ID, 1, 10, 12))
	if !database.IsExclusionViolation(err) {
		t.Fatalf("期望排他约束冲突，实际: %v", err)
	}

	// 首尾相接不冲突
	if err := repo.Slot.Create(ctx, newSlot(p.ID, 1, 11, 12)); err != nil {
		t.Fatalf("相接课时应成功: %v", err)
	}

	slots, _ := repo.Slot.ListByProfessor(ctx, p.ID)
	if len(slots) != 2 {
		t.Errorf("期望 2 个课时，实际 %d", len(slots))
	}
}

func TestSlot_CheckConstraint(t *testing.T) {
	p, cleanup := setupProfessor(t)
	defer cleanup()

	err := repository.NewRepository(testDB).Slot.Create(context.Background(), newSlot(p.ID, 1, 10, 10))
	if !database.IsCheckViolation(err) {
		t.Fatalf("期望 CHECK 约束冲突，实际: %v", err)
	}
}

func TestSlot_ForeignKey(t *testing.T) {
	err := repository.NewRepository(testDB).Slot.Create(context.Background(), newSlot(-1, 1, 9, 10))
	if !database.IsForeignKeyViolation(err) {
		t.Fatalf("期望外键冲突，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Optimistic Lock
// ═══════════════════════════════════════════════════════════

func TestOptimisticLock_Slot_ConflictDetected(t *testing.T) {
	p, cleanup := setupProfessor(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	slot := newSlot(p.ID, 2, 8, 9)
	if err := repo.Slot.Create(ctx, slot); err != nil {
		t.Fatalf("创建课时失败: %v", err)
	}

	first, _ := repo.Slot.GetByID(ctx, slot.ID)
	second, _ := repo.Slot.GetByID(ctx, slot.ID)

	first.Subject = "Physics"
	if err := repo.Slot.Update(ctx, first); err != nil {
		t.Fatalf("首次更新应成功: %v", err)
	}
	if first.Version != 2 {
		t.Errorf("期望版本 2，实际 %d", first.Version)
	}

	second.Subject = "Chemistry"
	if err := repo.Slot.Update(ctx, second); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction & Cascade
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	p, cleanup := setupProfessor(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	sentinel := errors.New("回滚")

	err := repo.Tx.WithTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if _, err := tx.Professor.LockByID(ctx, p.ID); err != nil {
			return err
		}
		if err := tx.Slot.Create(ctx, newSlot(p.ID, 3, 9, 10)); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("期望返回回滚错误，实际: %v", err)
	}

	slots, _ := repo.Slot.ListByProfessor(ctx, p.ID)
	if len(slots) != 0 {
		t.Fatal("期望回滚后查不到课时")
	}
}

func TestProfessorDelete_CascadesSlots(t *testing.T) {
	p, cleanup := setupProfessor(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	_ = repo.Slot.Create(ctx, newSlot(p.ID, 4, 9, 10))
	_ = repo.Slot.Create(ctx, newSlot(p.ID, 5, 9, 10))

	list, err := repo.Professor.List(ctx)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	for _, item := range list {
		if item.ID == p.ID && item.SlotCount != 2 {
			t.Errorf("期望课时数 2，实际 %d", item.SlotCount)
		}
	}

	if n, err := repo.Professor.Delete(ctx, p.ID); err != nil || n != 1 {
		t.Fatalf("删除教授失败: n=%d err=%v", n, err)
	}

	var count int64
	testDB.Model(&model.TimetableSlot{}).Where("professor_id = ?", p.ID).Count(&count)
	if count != 0 {
		t.Errorf("期望级联删除全部课时，剩余 %d", count)
	}
}
