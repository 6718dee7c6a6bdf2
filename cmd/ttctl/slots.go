package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/internal/client"
	"github.com/handrailjsp/Scheduling/pkg/timeutil"
)

var dayNames = []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// slotInput 命令行上的课时输入，时间为 12 小时制
type slotInput struct {
	day         string
	start       string
	startPeriod string
	end         string
	endPeriod   string
	subject     string
	room        string
	needsAC     bool
}

func (in *slotInput) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&in.day, "day", "", "星期：0-6 或 sun/mon/…/sat")
	f.StringVar(&in.start, "start", "", "开始时间 HH:MM（12 小时制）")
	f.StringVar(&in.startPeriod, "start-period", "", "开始时间 AM/PM")
	f.StringVar(&in.end, "end", "", "结束时间 HH:MM（12 小时制）")
	f.StringVar(&in.endPeriod, "end-period", "", "结束时间 AM/PM")
	f.StringVar(&in.subject, "subject", "", "课程")
	f.StringVar(&in.room, "room", "", "教室")
	f.BoolVar(&in.needsAC, "ac", false, "需要空调教室")
}

// fillFrom 未指定的字段沿用已有课时；时间只在给出一端时补齐另一端
func (in *slotInput) fillFrom(cmd *cobra.Command, s calendar.Slot) {
	if in.day == "" {
		in.day = strconv.Itoa(s.DayOfWeek)
	}
	if in.start != "" && in.end == "" {
		in.end, in.endPeriod = timeutil.To12Hour(fmt.Sprintf("%02d:00", s.EndHour))
	}
	if in.end != "" && in.start == "" {
		in.start, in.startPeriod = timeutil.To12Hour(fmt.Sprintf("%02d:00", s.Hour))
	}
	if in.subject == "" {
		in.subject = s.Subject
	}
	if in.room == "" {
		in.room = s.Room
	}
	if !cmd.Flags().Changed("ac") {
		in.needsAC = s.NeedsAC
	}
}

// parseDay 解析星期
func parseDay(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < calendar.DaysPerWeek {
		return n, nil
	}
	for i, name := range dayNames {
		if len(s) >= 3 && strings.HasPrefix(s, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("无效的星期: %q", s)
}

func newSlotsCmd(a *app) *cobra.Command {
	var professorID int64

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "课时管理",
	}
	cmd.PersistentFlags().Int64VarP(&professorID, "professor", "P", 0, "教授 ID")
	_ = cmd.MarkPersistentFlagRequired("professor")

	cmd.AddCommand(
		newSlotsListCmd(a, &professorID),
		newSlotsAddCmd(a, &professorID),
		newSlotsEditCmd(a, &professorID),
		newSlotsRemoveCmd(a, &professorID),
	)
	return cmd
}

func newSlotsListCmd(a *app, professorID *int64) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出教授的课时",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.dir.Select(cmd.Context(), *professorID); err != nil {
				return err
			}
			slots := a.store.Slots()
			if len(slots) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "暂无课时")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\t星期\t时间\t课程\t教室\t空调\t版本")
			for _, s := range slots {
				fmt.Fprintf(tw, "%d\t%s\t%s - %s\t%s\t%s\t%s\t%d\n",
					s.ID, dayNames[s.DayOfWeek], hourLabel(s.Hour), hourLabel(s.EndHour),
					s.Subject, s.Room, yesNo(s.NeedsAC), s.Version)
			}
			return tw.Flush()
		},
	}
}

func newSlotsAddCmd(a *app, professorID *int64) *cobra.Command {
	var in slotInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "新增课时",
		RunE: func(cmd *cobra.Command, args []string) error {
			capability, err := a.capability()
			if err != nil {
				return err
			}
			if err := a.dir.Select(cmd.Context(), *professorID); err != nil {
				return err
			}
			slot, err := a.editSlot(cmd.Context(), capability, *professorID, nil, in)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "已新增课时 #%d\n", slot.ID)
			return nil
		},
	}
	in.bind(cmd)
	for _, name := range []string{"day", "start", "start-period", "end", "end-period", "subject", "room"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newSlotsEditCmd(a *app, professorID *int64) *cobra.Command {
	var in slotInput

	cmd := &cobra.Command{
		Use:   "edit <slot-id>",
		Short: "修改课时，未指定的字段保持不变",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			capability, err := a.capability()
			if err != nil {
				return err
			}
			if err := a.dir.Select(cmd.Context(), *professorID); err != nil {
				return err
			}

			existing, ok := findSlot(a.store.Slots(), id)
			if !ok {
				return fmt.Errorf("课时 #%d: %w", id, client.ErrUnknownSlot)
			}
			in.fillFrom(cmd, existing)

			slot, err := a.editSlot(cmd.Context(), capability, *professorID, &existing, in)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "已更新课时 #%d（版本 %d）\n", slot.ID, slot.Version)
			return nil
		},
	}
	in.bind(cmd)
	return cmd
}

func newSlotsRemoveCmd(a *app, professorID *int64) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <slot-id>",
		Aliases: []string{"delete"},
		Short:   "删除课时",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			capability, err := a.capability()
			if err != nil {
				return err
			}
			if err := a.dir.Select(cmd.Context(), *professorID); err != nil {
				return err
			}
			if err := a.store.Remove(cmd.Context(), capability, id); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "已删除课时 #%d\n", id)
			return nil
		},
	}
}

// editSlot 经编辑器校验后提交；existing 为 nil 时新建
func (a *app) editSlot(ctx context.Context, capability *client.Capability, professorID int64, existing *calendar.Slot, in slotInput) (calendar.Slot, error) {
	day, err := parseDay(in.day)
	if err != nil {
		return calendar.Slot{}, err
	}
	date := timeutil.WeekDays(time.Now())[day]

	grid := calendar.NewGrid(timeutil.WeekDays(date), a.store.Slots())
	editor := calendar.NewEditor(grid, professorID)

	if existing != nil {
		err = editor.OpenSlot(*existing)
	} else {
		start := timeutil.HourOf(timeutil.To24Hour(in.start, strings.ToUpper(in.startPeriod)))
		if !grid.CanCreateAt(day, start) {
			return calendar.Slot{}, fmt.Errorf("%s %s 已有课时", dayNames[day], hourLabel(start))
		}
		err = editor.OpenAt(day, start)
	}
	if err != nil {
		return calendar.Slot{}, err
	}
	defer editor.Cancel()

	if in.start == "" && in.end == "" && existing != nil {
		// 只改星期或内容，沿用原区间（含结束于 24 点的课时）
		err = editor.SetHours(day, existing.Hour, existing.EndHour)
	} else {
		err = editor.SetRange12(date,
			in.start, strings.ToUpper(in.startPeriod),
			in.end, strings.ToUpper(in.endPeriod))
	}
	if err != nil {
		return calendar.Slot{}, fmt.Errorf("时间段无效 [%s]: %w", strings.Join(editor.ErrorFields(), ","), err)
	}
	if err := editor.SetDetails(in.subject, in.room, in.needsAC); err != nil {
		return calendar.Slot{}, err
	}

	result, err := editor.Confirm()
	if err != nil {
		return calendar.Slot{}, err
	}

	var slot calendar.Slot
	if result.SlotID == 0 {
		slot, err = a.store.Add(ctx, capability, result.Data)
	} else {
		slot, err = a.store.Update(ctx, capability, result.SlotID, result.Data)
	}
	if isConflict(err) {
		return calendar.Slot{}, fmt.Errorf("%w（与已有课时重叠或已被他人修改，请刷新后重试）", err)
	}
	return slot, err
}

func findSlot(slots []calendar.Slot, id int64) (calendar.Slot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return calendar.Slot{}, false
}

// hourLabel 整点的 12 小时制显示，如 "09:00 AM"
func hourLabel(h int) string {
	time12, period := timeutil.To12Hour(fmt.Sprintf("%02d:00", h))
	return time12 + " " + period
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}

// isConflict 服务端拒绝的重叠或版本冲突
func isConflict(err error) bool {
	var apiErr *client.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}
