package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/handrailjsp/Scheduling/internal/calendar"
)

// SlotStore 当前所选教授课时的本地镜像
//
// 加载时整体替换；写操作远端成功后才修改本地（无乐观插入）。
// 每次替换都生成新切片，读者拿到的快照不会被后续写入改动。
type SlotStore struct {
	backend SlotBackend
	logger  *zap.Logger
	busy    *busyGuard

	mu          sync.Mutex
	professorID int64
	seq         uint64
	slots       []calendar.Slot
}

// NewSlotStore 创建课时镜像
func NewSlotStore(backend SlotBackend, logger *zap.Logger) *SlotStore {
	return &SlotStore{
		backend: backend,
		logger:  logger,
		busy:    newBusyGuard(),
		slots:   []calendar.Slot{},
	}
}

// ProfessorID 当前所选教授，0 表示未选择
func (s *SlotStore) ProfessorID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.professorID
}

// Slots 当前课时快照（副本）
func (s *SlotStore) Slots() []calendar.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]calendar.Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Busy 某控件是否在进行中
func (s *SlotStore) Busy(key string) bool { return s.busy.Busy(key) }

// Load 选择教授并加载其全部课时
//
// 读路径失败时记录日志并回退为空集合，不向调用方报错；
// 若等待期间选择已切换到其他教授，本次响应被丢弃并返回 ErrStaleResponse。
func (s *SlotStore) Load(ctx context.Context, professorID int64) error {
	s.mu.Lock()
	s.seq++
	tag := s.seq
	s.professorID = professorID
	s.mu.Unlock()

	slots, err := s.backend.ListSlots(ctx, professorID)
	if err != nil {
		s.logger.Warn("加载课时失败，显示为空", zap.Int64("professor_id", professorID), zap.Error(err))
		slots = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != tag || s.professorID != professorID {
		s.logger.Debug("丢弃过期的课时响应", zap.Int64("professor_id", professorID))
		return ErrStaleResponse
	}
	next := make([]calendar.Slot, len(slots))
	copy(next, slots)
	s.slots = next
	return nil
}

// Reload 重新加载当前教授；未选择时无操作
func (s *SlotStore) Reload(ctx context.Context) error {
	id := s.ProfessorID()
	if id == 0 {
		return nil
	}
	return s.Load(ctx, id)
}

// Clear 取消选择
func (s *SlotStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.professorID = 0
	s.slots = []calendar.Slot{}
}

// Add 新增课时；远端成功后追加到本地
//
// 本地只做完整性与区间校验，不做重叠判定，冲突由服务端拒绝。
func (s *SlotStore) Add(ctx context.Context, capability *Capability, data calendar.SlotData) (calendar.Slot, error) {
	if err := requireCapability(capability); err != nil {
		return calendar.Slot{}, err
	}
	if err := data.Validate(); err != nil {
		return calendar.Slot{}, err
	}
	release, err := s.busy.acquire("add")
	if err != nil {
		return calendar.Slot{}, err
	}
	defer release()

	slot, err := s.backend.CreateSlot(ctx, capability, data)
	if err != nil {
		return calendar.Slot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slot.ProfessorID == s.professorID {
		next := make([]calendar.Slot, len(s.slots), len(s.slots)+1)
		copy(next, s.slots)
		s.slots = append(next, slot)
	}
	return slot, nil
}

// Update 全字段覆盖课时；远端成功后按位置替换本地条目
func (s *SlotStore) Update(ctx context.Context, capability *Capability, id int64, data calendar.SlotData) (calendar.Slot, error) {
	if err := requireCapability(capability); err != nil {
		return calendar.Slot{}, err
	}
	if err := data.Validate(); err != nil {
		return calendar.Slot{}, err
	}
	current, ok := s.find(id)
	if !ok {
		return calendar.Slot{}, ErrUnknownSlot
	}
	release, err := s.busy.acquire(slotKey(id))
	if err != nil {
		return calendar.Slot{}, err
	}
	defer release()

	slot, err := s.backend.UpdateSlot(ctx, capability, id, current.Version, data)
	if err != nil {
		return calendar.Slot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]calendar.Slot, 0, len(s.slots))
	for _, sl := range s.slots {
		if sl.ID == id {
			if slot.ProfessorID != s.professorID {
				// 改到其他教授名下，从当前视图移除
				continue
			}
			sl = slot
		}
		next = append(next, sl)
	}
	s.slots = next
	return slot, nil
}

// Remove 删除课时；远端成功后从本地移除
func (s *SlotStore) Remove(ctx context.Context, capability *Capability, id int64) error {
	if err := requireCapability(capability); err != nil {
		return err
	}
	release, err := s.busy.acquire(slotKey(id))
	if err != nil {
		return err
	}
	defer release()

	if err := s.backend.DeleteSlot(ctx, capability, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = filterSlots(s.slots, func(sl calendar.Slot) bool { return sl.ID != id })
	return nil
}

// RemoveAllForProfessor 删除教授的全部课时（删除教授的第一步）
func (s *SlotStore) RemoveAllForProfessor(ctx context.Context, capability *Capability, professorID int64) (int64, error) {
	if err := requireCapability(capability); err != nil {
		return 0, err
	}
	release, err := s.busy.acquire(fmt.Sprintf("remove-all:%d", professorID))
	if err != nil {
		return 0, err
	}
	defer release()

	n, err := s.backend.DeleteSlotsByProfessor(ctx, capability, professorID)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = filterSlots(s.slots, func(sl calendar.Slot) bool { return sl.ProfessorID != professorID })
	return n, nil
}

func (s *SlotStore) find(id int64) (calendar.Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sl := range s.slots {
		if sl.ID == id {
			return sl, true
		}
	}
	return calendar.Slot{}, false
}

func slotKey(id int64) string { return fmt.Sprintf("slot:%d", id) }

func filterSlots(in []calendar.Slot, keep func(calendar.Slot) bool) []calendar.Slot {
	out := make([]calendar.Slot, 0, len(in))
	for _, sl := range in {
		if keep(sl) {
			out = append(out, sl)
		}
	}
	return out
}

// IsTransport 是否为网络层失败
func IsTransport(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr)
}
