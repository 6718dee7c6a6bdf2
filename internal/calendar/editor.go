package calendar

import (
	"errors"
	"time"

	"github.com/handrailjsp/Scheduling/pkg/timeutil"
)

// EditorState 编辑器状态
//
//	collapsed ──open──▶ expanded ──confirm──▶ collapsed (outcome=confirmed)
//	                       │  ▲   ──cancel───▶ collapsed (outcome=cancelled)
//	              invalid  ▼  │ valid
//	                      error
type EditorState string

const (
	StateCollapsed EditorState = "collapsed"
	StateExpanded  EditorState = "expanded"
	StateError     EditorState = "error"
)

// EditorOutcome 上一次编辑的结果
type EditorOutcome string

const (
	OutcomeNone      EditorOutcome = ""
	OutcomeConfirmed EditorOutcome = "confirmed"
	OutcomeCancelled EditorOutcome = "cancelled"
)

// 出错字段
const (
	FieldStart = "start"
	FieldEnd   = "end"
)

var (
	ErrEditorOpen   = errors.New("编辑器已打开")
	ErrEditorClosed = errors.New("编辑器未打开")
	ErrRangeInvalid = &ValidationError{Field: FieldEnd, Reason: "结束时间必须晚于开始时间"}
)

// EditorResult 确认后的提交内容；SlotID 为 0 表示新建
type EditorResult struct {
	SlotID  int64
	Version int
	Data    SlotData
}

// Editor 单个课时编辑器实例，驱动网格预览
type Editor struct {
	grid        *Grid
	professorID int64

	state       EditorState
	outcome     EditorOutcome
	errorFields []string

	slotID  int64
	version int
	draft   SlotData
	// 打开时的区间，取消时恢复
	original SlotData
}

// NewEditor 为指定教授的网格创建编辑器
func NewEditor(g *Grid, professorID int64) *Editor {
	return &Editor{grid: g, professorID: professorID, state: StateCollapsed}
}

// State 当前状态
func (e *Editor) State() EditorState { return e.state }

// Outcome 上一次编辑结果
func (e *Editor) Outcome() EditorOutcome { return e.outcome }

// ErrorFields error 子状态下标记的字段
func (e *Editor) ErrorFields() []string {
	out := make([]string, len(e.errorFields))
	copy(out, e.errorFields)
	return out
}

// Draft 当前草稿
func (e *Editor) Draft() SlotData { return e.draft }

// EditingSlotID 编辑中的课时 id，新建时为 0
func (e *Editor) EditingSlotID() int64 { return e.slotID }

// OpenAt 在 (day, hour) 打开编辑器
// 格子被课时覆盖时进入该课时的编辑；否则以 [hour, hour+1) 新建
func (e *Editor) OpenAt(day, hour int) error {
	if e.state != StateCollapsed {
		return ErrEditorOpen
	}
	if s, ok := e.grid.SpanningSlot(day, hour); ok {
		return e.OpenSlot(s)
	}
	if !e.grid.CanCreateAt(day, hour) {
		return &ValidationError{Field: "hour", Reason: "该时间不可新建课时"}
	}

	e.open(0, 0, SlotData{
		ProfessorID: e.professorID,
		DayOfWeek:   day,
		Hour:        hour,
		EndHour:     hour + 1,
	})
	return nil
}

// OpenSlot 以已有课时的区间打开编辑器
func (e *Editor) OpenSlot(s Slot) error {
	if e.state != StateCollapsed {
		return ErrEditorOpen
	}
	e.open(s.ID, s.Version, s.SlotData)
	return nil
}

func (e *Editor) open(id int64, version int, data SlotData) {
	e.slotID = id
	e.version = version
	e.draft = data
	e.original = data
	e.state = StateExpanded
	e.outcome = OutcomeNone
	e.errorFields = nil
	e.refreshPreview()
}

// SetHours 以 24 小时制设置区间；非法时进入 error 子状态，预览保持上一次合法值
func (e *Editor) SetHours(day, start, end int) error {
	if e.state == StateCollapsed {
		return ErrEditorClosed
	}
	e.draft.DayOfWeek = day
	e.draft.Hour = start
	e.draft.EndHour = end

	if day < 0 || day >= DaysPerWeek || start < 0 || start >= HoursPerDay ||
		end <= start || end > HoursPerDay {
		e.markError()
		return ErrRangeInvalid
	}
	e.clearError()
	e.refreshPreview()
	return nil
}

// SetRange12 以 12 小时制 "HH:MM" + AM/PM 设置区间（分钟舍去），星期取自 date
func (e *Editor) SetRange12(date time.Time, start12, startPeriod, end12, endPeriod string) error {
	if e.state == StateCollapsed {
		return ErrEditorClosed
	}
	if !timeutil.IsValidRange(date, start12, end12, startPeriod, endPeriod) {
		e.markError()
		return ErrRangeInvalid
	}
	start := timeutil.HourOf(timeutil.To24Hour(start12, startPeriod))
	end := timeutil.HourOf(timeutil.To24Hour(end12, endPeriod))
	if end == start {
		// 09:00-09:30 之类不足一小时的区间在小时网格上无效
		e.markError()
		return ErrRangeInvalid
	}
	return e.SetHours(int(date.Weekday()), start, end)
}

// SetDetails 设置课程、教室与空调需求
func (e *Editor) SetDetails(subject, room string, needsAC bool) error {
	if e.state == StateCollapsed {
		return ErrEditorClosed
	}
	e.draft.Subject = subject
	e.draft.Room = room
	e.draft.NeedsAC = needsAC
	return nil
}

// Confirm 确认提交：error 子状态或载荷不完整时拒绝，状态保持不变
func (e *Editor) Confirm() (EditorResult, error) {
	switch e.state {
	case StateCollapsed:
		return EditorResult{}, ErrEditorClosed
	case StateError:
		return EditorResult{}, ErrRangeInvalid
	}
	if e.draft.EndHour <= e.draft.Hour {
		e.markError()
		return EditorResult{}, ErrRangeInvalid
	}
	if err := e.draft.Validate(); err != nil {
		return EditorResult{}, err
	}

	result := EditorResult{SlotID: e.slotID, Version: e.version, Data: e.draft}
	e.close(OutcomeConfirmed)
	return result, nil
}

// Cancel 放弃编辑，恢复打开时的区间
func (e *Editor) Cancel() {
	if e.state == StateCollapsed {
		return
	}
	e.draft = e.original
	e.close(OutcomeCancelled)
}

func (e *Editor) close(outcome EditorOutcome) {
	e.state = StateCollapsed
	e.outcome = outcome
	e.errorFields = nil
	e.grid.ClearPreview()
}

func (e *Editor) markError() {
	e.state = StateError
	e.errorFields = []string{FieldStart, FieldEnd}
}

func (e *Editor) clearError() {
	e.state = StateExpanded
	e.errorFields = nil
}

func (e *Editor) refreshPreview() {
	_ = e.grid.SetPreview(PreviewSpan{
		DayOfWeek: e.draft.DayOfWeek,
		StartHour: e.draft.Hour,
		EndHour:   e.draft.EndHour,
	})
}
