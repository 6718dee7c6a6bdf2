package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/pkg/scheduler"
)

var errRemote = errors.New("remote failure")

// fakeBackend 内存版远端，实现全部 Backend 接口
type fakeBackend struct {
	mu     sync.Mutex
	nextID int64
	slots  []calendar.Slot
	profs  []dto.ProfessorResponse

	// 阻塞控制：非 nil 时 ListSlots / CreateSlot 等待对应 channel
	listGate   map[int64]chan struct{}
	createGate chan struct{}

	listErr         error
	createErr       error
	deleteSlotsErr  error
	deleteProfErr   error
	approveErr      error
	generateResult  *scheduler.Result
	listCalls       int
	createCalls     int
	deleteProfCalls int
	lastVersion     int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{nextID: 100, listGate: map[int64]chan struct{}{}}
}

func (f *fakeBackend) seed(s calendar.Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots = append(f.slots, s)
}

func (f *fakeBackend) ListSlots(_ context.Context, professorID int64) ([]calendar.Slot, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate[professorID]
	err := f.listErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, &TransportError{Op: "list slots", Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var out []calendar.Slot
	for _, s := range f.slots {
		if s.ProfessorID == professorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeBackend) CreateSlot(_ context.Context, _ *Capability, data calendar.SlotData) (calendar.Slot, error) {
	f.mu.Lock()
	f.createCalls++
	gate := f.createGate
	err := f.createErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return calendar.Slot{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s := calendar.Slot{ID: f.nextID, Version: 1, SlotData: data}
	f.slots = append(f.slots, s)
	return s, nil
}

func (f *fakeBackend) UpdateSlot(_ context.Context, _ *Capability, id int64, version int, data calendar.SlotData) (calendar.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastVersion = version
	for i, s := range f.slots {
		if s.ID == id {
			f.slots[i] = calendar.Slot{ID: id, Version: version + 1, SlotData: data}
			return f.slots[i], nil
		}
	}
	return calendar.Slot{}, errRemote
}

func (f *fakeBackend) DeleteSlot(_ context.Context, _ *Capability, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots = filterSlots(f.slots, func(s calendar.Slot) bool { return s.ID != id })
	return nil
}

func (f *fakeBackend) DeleteSlotsByProfessor(_ context.Context, _ *Capability, professorID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteSlotsErr != nil {
		return 0, f.deleteSlotsErr
	}
	before := len(f.slots)
	f.slots = filterSlots(f.slots, func(s calendar.Slot) bool { return s.ProfessorID != professorID })
	return int64(before - len(f.slots)), nil
}

func (f *fakeBackend) ListProfessors(_ context.Context) ([]dto.ProfessorResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, &TransportError{Op: "list professors", Err: f.listErr}
	}
	out := make([]dto.ProfessorResponse, len(f.profs))
	copy(out, f.profs)
	return out, nil
}

func (f *fakeBackend) CreateProfessor(_ context.Context, _ *Capability, req dto.CreateProfessorRequest) (dto.ProfessorResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := dto.ProfessorResponse{ID: f.nextID, Name: req.Name, Title: req.Title, Department: req.Department}
	f.profs = append(f.profs, p)
	return p, nil
}

func (f *fakeBackend) DeleteProfessor(_ context.Context, _ *Capability, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteProfCalls++
	if f.deleteProfErr != nil {
		return f.deleteProfErr
	}
	next := f.profs[:0]
	for _, p := range f.profs {
		if p.ID != id {
			next = append(next, p)
		}
	}
	f.profs = next
	return nil
}

func (f *fakeBackend) Generate(_ context.Context, _ *Capability) (*scheduler.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.generateResult == nil {
		return nil, errRemote
	}
	r := *f.generateResult
	return &r, nil
}

func (f *fakeBackend) ApproveSchedule(_ context.Context, _ *Capability, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.approveErr
}

func (f *fakeBackend) RejectSchedule(_ context.Context, _ *Capability, _ int64) error {
	return nil
}

func (f *fakeBackend) calls() (list, create int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls
}

func adminCap() *Capability {
	return &Capability{Token: "token", ExpiresAt: time.Now().Add(time.Hour)}
}

func slotData(pid int64, day, hour, end int) calendar.SlotData {
	return calendar.SlotData{
		ProfessorID: pid,
		DayOfWeek:   day,
		Hour:        hour,
		EndHour:     end,
		Subject:     "Algorithms",
		Room:        "101",
	}
}
