package client

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/internal/dto"
)

func newTestDirectory(f *fakeBackend) (*Directory, *SlotStore) {
	store := NewSlotStore(f, zap.NewNop())
	return NewDirectory(f, store, zap.NewNop()), store
}

func seedProfessorWithSlots(f *fakeBackend, id int64, n int) {
	f.profs = append(f.profs, dto.ProfessorResponse{ID: id, Name: "Prof"})
	for i := 0; i < n; i++ {
		f.seed(calendar.Slot{ID: id*10 + int64(i), Version: 1, SlotData: slotData(id, i, 9, 10)})
	}
}

func TestDirectory_LoadSortsByName(t *testing.T) {
	f := newFakeBackend()
	f.profs = []dto.ProfessorResponse{{ID: 1, Name: "Zed"}, {ID: 2, Name: "Ada"}}
	d, _ := newTestDirectory(f)

	d.Load(context.Background())
	list := d.Professors()
	if len(list) != 2 || list[0].Name != "Ada" {
		t.Errorf("期望按姓名排序，实际 %+v", list)
	}
}

func TestDirectory_Delete_RemovesSlotsAndProfessor(t *testing.T) {
	f := newFakeBackend()
	seedProfessorWithSlots(f, 1, 3)
	d, store := newTestDirectory(f)
	ctx := context.Background()
	d.Load(ctx)
	_ = d.Select(ctx, 1)

	if err := d.Delete(ctx, adminCap(), 1); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(store.Slots()) != 0 {
		t.Error("期望本地不再有该教授课时")
	}
	if len(d.Professors()) != 0 {
		t.Error("期望教授从目录移除")
	}
	if d.Selected() != 0 {
		t.Error("删除当前教授后应取消选择")
	}
}

func TestDirectory_Delete_PartialFailureStillClearsSlots(t *testing.T) {
	f := newFakeBackend()
	seedProfessorWithSlots(f, 1, 2)
	f.deleteProfErr = errRemote
	d, store := newTestDirectory(f)
	ctx := context.Background()
	d.Load(ctx)
	_ = d.Select(ctx, 1)

	err := d.Delete(ctx, adminCap(), 1)
	var pf *PartialFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("期望 PartialFailureError，实际 %v", err)
	}
	if !pf.SlotsDeleted || pf.Step != StepDeleteProfessor {
		t.Errorf("期望第二步失败且课时已删除，实际 %+v", pf)
	}
	if !errors.Is(err, errRemote) {
		t.Error("期望保留底层错误")
	}
	for _, s := range store.Slots() {
		if s.ProfessorID == 1 {
			t.Fatalf("本地视图仍有教授 1 的课时: %+v", s)
		}
	}
	if len(d.Professors()) != 1 {
		t.Error("第二步失败时教授应保留在目录中")
	}
}

func TestDirectory_Delete_StepOneFailureAborts(t *testing.T) {
	f := newFakeBackend()
	seedProfessorWithSlots(f, 1, 2)
	f.deleteSlotsErr = errRemote
	d, store := newTestDirectory(f)
	ctx := context.Background()
	d.Load(ctx)
	_ = d.Select(ctx, 1)

	err := d.Delete(ctx, adminCap(), 1)
	if !errors.Is(err, errRemote) {
		t.Fatalf("期望返回第一步错误，实际 %v", err)
	}
	var pf *PartialFailureError
	if errors.As(err, &pf) {
		t.Error("第一步失败不属于部分失败")
	}
	if f.deleteProfCalls != 0 {
		t.Error("第一步失败时不应删除教授")
	}
	if len(store.Slots()) != 2 {
		t.Error("第一步失败时本地课时应保持不变")
	}
}

func TestDirectory_Delete_RequiresCapability(t *testing.T) {
	f := newFakeBackend()
	seedProfessorWithSlots(f, 1, 1)
	d, _ := newTestDirectory(f)

	if err := d.Delete(context.Background(), nil, 1); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("期望 ErrNotAuthorized，实际 %v", err)
	}
}

func TestDirectory_Add(t *testing.T) {
	f := newFakeBackend()
	d, _ := newTestDirectory(f)

	p, err := d.Add(context.Background(), adminCap(), dto.CreateProfessorRequest{Name: "Grace"})
	if err != nil {
		t.Fatalf("Add 应成功: %v", err)
	}
	if p.ID == 0 || len(d.Professors()) != 1 {
		t.Errorf("期望新增教授进入目录，实际 %+v", d.Professors())
	}
}
