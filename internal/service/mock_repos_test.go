package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/handrailjsp/Scheduling/internal/model"
	"github.com/handrailjsp/Scheduling/internal/repository"
	pkgerrors "github.com/handrailjsp/Scheduling/pkg/errors"
)

// ── Mock ProfessorRepository ──

type mockProfessorRepo struct {
	professors map[int64]*model.Professor
	slots      *mockSlotRepo // 用于 List 统计课时数
	nextID     int64
	listErr    error
}

func newMockProfessorRepo(slots *mockSlotRepo) *mockProfessorRepo {
	return &mockProfessorRepo{professors: make(map[int64]*model.Professor), slots: slots, nextID: 1}
}

func (m *mockProfessorRepo) Create(_ context.Context, p *model.Professor) error {
	if p.ID == 0 {
		p.ID = m.nextID
		m.nextID++
	}
	p.CreatedAt = time.Now()
	m.professors[p.ID] = p
	return nil
}

func (m *mockProfessorRepo) GetByID(_ context.Context, id int64) (*model.Professor, error) {
	if p, ok := m.professors[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfessorRepo) LockByID(ctx context.Context, id int64) (*model.Professor, error) {
	return m.GetByID(ctx, id)
}

func (m *mockProfessorRepo) List(_ context.Context) ([]repository.ProfessorWithCount, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []repository.ProfessorWithCount
	for _, p := range m.professors {
		count := 0
		for _, s := range m.slots.slots {
			if s.ProfessorID == p.ID {
				count++
			}
		}
		result = append(result, repository.ProfessorWithCount{Professor: *p, SlotCount: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockProfessorRepo) ListByIDs(_ context.Context, ids []int64) ([]model.Professor, error) {
	var result []model.Professor
	for _, id := range ids {
		if p, ok := m.professors[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProfessorRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := m.professors[id]; !ok {
		return 0, nil
	}
	delete(m.professors, id)
	return 1, nil
}

// ── Mock SlotRepository ──

type mockSlotRepo struct {
	slots     map[int64]*model.TimetableSlot
	nextID    int64
	createErr error // 模拟数据库约束错误
	deleteErr error
}

func newMockSlotRepo() *mockSlotRepo {
	return &mockSlotRepo{slots: make(map[int64]*model.TimetableSlot), nextID: 1}
}

func (m *mockSlotRepo) Create(_ context.Context, slot *model.TimetableSlot) error {
	if m.createErr != nil {
		return m.createErr
	}
	slot.ID = m.nextID
	m.nextID++
	if slot.Version == 0 {
		slot.Version = 1
	}
	cp := *slot
	m.slots[slot.ID] = &cp
	return nil
}

func (m *mockSlotRepo) GetByID(_ context.Context, id int64) (*model.TimetableSlot, error) {
	if s, ok := m.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSlotRepo) filter(keep func(*model.TimetableSlot) bool) []model.TimetableSlot {
	var result []model.TimetableSlot
	for _, s := range m.slots {
		if keep(s) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].Hour < result[j].Hour
	})
	return result
}

func (m *mockSlotRepo) ListByProfessor(_ context.Context, professorID int64) ([]model.TimetableSlot, error) {
	return m.filter(func(s *model.TimetableSlot) bool { return s.ProfessorID == professorID }), nil
}

func (m *mockSlotRepo) ListByProfessorDay(_ context.Context, professorID int64, day int) ([]model.TimetableSlot, error) {
	return m.filter(func(s *model.TimetableSlot) bool {
		return s.ProfessorID == professorID && s.DayOfWeek == day
	}), nil
}

func (m *mockSlotRepo) ListAll(_ context.Context) ([]model.TimetableSlot, error) {
	return m.filter(func(*model.TimetableSlot) bool { return true }), nil
}

func (m *mockSlotRepo) Update(_ context.Context, slot *model.TimetableSlot) error {
	cur, ok := m.slots[slot.ID]
	if !ok || cur.Version != slot.Version {
		return pkgerrors.ErrOptimisticLock
	}
	slot.Version++
	cp := *slot
	m.slots[slot.ID] = &cp
	return nil
}

func (m *mockSlotRepo) Delete(_ context.Context, id int64) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	if _, ok := m.slots[id]; !ok {
		return 0, nil
	}
	delete(m.slots, id)
	return 1, nil
}

func (m *mockSlotRepo) DeleteByProfessor(_ context.Context, professorID int64) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	var n int64
	for id, s := range m.slots {
		if s.ProfessorID == professorID {
			delete(m.slots, id)
			n++
		}
	}
	return n, nil
}

// ── Mock TxManager ──

// mockTxManager 直接以同一组仓储执行 fn，不模拟回滚
type mockTxManager struct {
	repo  *repository.Repository
	calls int
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repository) error) error {
	m.calls++
	return fn(ctx, m.repo)
}

// ── 组装 ──

type testRepos struct {
	repo       *repository.Repository
	professors *mockProfessorRepo
	slots      *mockSlotRepo
	tx         *mockTxManager
}

func newTestRepos() *testRepos {
	slots := newMockSlotRepo()
	profs := newMockProfessorRepo(slots)
	repo := &repository.Repository{Professor: profs, Slot: slots}
	tx := &mockTxManager{repo: repo}
	repo.Tx = tx
	return &testRepos{repo: repo, professors: profs, slots: slots, tx: tx}
}

// addProfessor 预置教授
func (r *testRepos) addProfessor(name string) *model.Professor {
	p := &model.Professor{Name: name}
	_ = r.professors.Create(context.Background(), p)
	return p
}

// addSlot 预置课时
func (r *testRepos) addSlot(professorID int64, day, hour, end int, room string) *model.TimetableSlot {
	s := &model.TimetableSlot{
		ProfessorID: professorID,
		DayOfWeek:   day,
		Hour:        hour,
		EndHour:     end,
		Subject:     "Calculus",
		Room:        room,
	}
	_ = r.slots.Create(context.Background(), s)
	return s
}
