package client

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/handrailjsp/Scheduling/internal/dto"
)

// Directory 教授目录，持有当前选择并驱动课时镜像
type Directory struct {
	backend ProfessorBackend
	store   *SlotStore
	logger  *zap.Logger
	busy    *busyGuard

	mu         sync.Mutex
	professors []dto.ProfessorResponse
}

// NewDirectory 创建教授目录
func NewDirectory(backend ProfessorBackend, store *SlotStore, logger *zap.Logger) *Directory {
	return &Directory{
		backend:    backend,
		store:      store,
		logger:     logger,
		busy:       newBusyGuard(),
		professors: []dto.ProfessorResponse{},
	}
}

// Professors 教授列表快照
func (d *Directory) Professors() []dto.ProfessorResponse {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]dto.ProfessorResponse, len(d.professors))
	copy(out, d.professors)
	return out
}

// Selected 当前所选教授 id
func (d *Directory) Selected() int64 { return d.store.ProfessorID() }

// Load 加载教授列表；失败时记录日志并回退为空列表
func (d *Directory) Load(ctx context.Context) {
	list, err := d.backend.ListProfessors(ctx)
	if err != nil {
		d.logger.Warn("加载教授列表失败，显示为空", zap.Error(err))
		list = nil
	}
	next := make([]dto.ProfessorResponse, len(list))
	copy(next, list)
	sort.SliceStable(next, func(i, j int) bool { return next[i].Name < next[j].Name })

	d.mu.Lock()
	d.professors = next
	d.mu.Unlock()
}

// Select 选择教授并加载其课时
func (d *Directory) Select(ctx context.Context, professorID int64) error {
	return d.store.Load(ctx, professorID)
}

// Add 新增教授
func (d *Directory) Add(ctx context.Context, capability *Capability, req dto.CreateProfessorRequest) (dto.ProfessorResponse, error) {
	if err := requireCapability(capability); err != nil {
		return dto.ProfessorResponse{}, err
	}
	release, err := d.busy.acquire("add")
	if err != nil {
		return dto.ProfessorResponse{}, err
	}
	defer release()

	prof, err := d.backend.CreateProfessor(ctx, capability, req)
	if err != nil {
		return dto.ProfessorResponse{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	next := make([]dto.ProfessorResponse, len(d.professors), len(d.professors)+1)
	copy(next, d.professors)
	next = append(next, prof)
	sort.SliceStable(next, func(i, j int) bool { return next[i].Name < next[j].Name })
	d.professors = next
	return prof, nil
}

// Delete 先删除教授的全部课时，再删除教授本身
//
// 第一步失败时中止；第二步失败返回 PartialFailureError，已删除的课时不恢复。
// 课时在第一步成功后立即从本地视图移除。
func (d *Directory) Delete(ctx context.Context, capability *Capability, professorID int64) error {
	if err := requireCapability(capability); err != nil {
		return err
	}
	release, err := d.busy.acquire(fmt.Sprintf("delete:%d", professorID))
	if err != nil {
		return err
	}
	defer release()

	if _, err := d.store.RemoveAllForProfessor(ctx, capability, professorID); err != nil {
		return err
	}

	if err := d.backend.DeleteProfessor(ctx, capability, professorID); err != nil {
		d.logger.Error("删除教授失败，课时已删除",
			zap.Int64("professor_id", professorID), zap.Error(err))
		return &PartialFailureError{Step: StepDeleteProfessor, SlotsDeleted: true, Err: err}
	}

	d.mu.Lock()
	next := make([]dto.ProfessorResponse, 0, len(d.professors))
	for _, p := range d.professors {
		if p.ID != professorID {
			next = append(next, p)
		}
	}
	d.professors = next
	d.mu.Unlock()

	if d.store.ProfessorID() == professorID {
		d.store.Clear()
	}
	return nil
}
