package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/handrailjsp/Scheduling/pkg/scheduler"
)

func newScheduleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"schedules"},
		Short:   "排课方案生成与审核",
	}
	cmd.AddCommand(
		newScheduleGenerateCmd(a),
		newScheduleListCmd(a),
		newScheduleReviewCmd(a, "approve", "通过待审核方案"),
		newScheduleReviewCmd(a, "reject", "驳回待审核方案"),
	)
	return cmd
}

func newScheduleGenerateCmd(a *app) *cobra.Command {
	var professorID int64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "调用排课服务生成新方案",
		RunE: func(cmd *cobra.Command, args []string) error {
			capability, err := a.capability()
			if err != nil {
				return err
			}
			if professorID > 0 {
				if err := a.dir.Select(cmd.Context(), professorID); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.ErrOrStderr(), "正在生成，可能需要数分钟…")
			result, err := a.gen.Generate(cmd.Context(), capability)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)

			if result.Status == scheduler.StatusApproved && professorID > 0 {
				// 等待延迟刷新完成后再显示
				select {
				case <-time.After(a.cfg.Scheduler.RefreshDelay + 200*time.Millisecond):
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "教授 #%d 当前课时数: %d\n", professorID, len(a.store.Slots()))
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&professorID, "professor", "P", 0, "自动通过后刷新该教授的课时")
	return cmd
}

func newScheduleListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出已生成的方案",
		RunE: func(cmd *cobra.Command, args []string) error {
			capability, err := a.capability()
			if err != nil {
				return err
			}
			list, err := a.api.ListSchedules(cmd.Context(), capability)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "暂无方案")
				return nil
			}
			sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\t状态\t生成时间\t适应度\t硬约束\tGini(负荷)")
			for _, s := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%d\t%.3f\n",
					s.ID, statusText(s.Status), s.GenerationDate, s.FitnessScore, s.HardViolations, s.GiniWorkload)
			}
			return tw.Flush()
		},
	}
}

func newScheduleReviewCmd(a *app, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <schedule-id>",
		Short: short,
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

			review, status := a.gen.Approve, scheduler.StatusApproved
			if action == "reject" {
				review, status = a.gen.Reject, scheduler.StatusRejected
			}
			if err := review(cmd.Context(), capability, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "方案 #%d 已%s\n", id, statusText(status))
			return nil
		},
	}
}

func printResult(w io.Writer, r scheduler.Result) {
	fmt.Fprintf(w, "方案 #%d  状态: %s\n", r.ID, statusText(r.Status))
	fmt.Fprintf(w, "  适应度 %.2f  硬约束冲突 %d  软约束 %.2f\n",
		r.FitnessScore, r.HardConstraintViolations, r.SoftConstraintScore)
	fmt.Fprintf(w, "  Gini 负荷 %.3f  教室 %.3f  空调 %.3f\n", r.GiniWorkload, r.GiniRoomUsage, r.GiniACAccess)

	names := make([]string, 0, len(r.Fairness))
	for name := range r.Fairness {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %v\n", name, r.Fairness[name])
	}
	if r.Notes != "" {
		fmt.Fprintf(w, "  %s\n", r.Notes)
	}
}

func statusText(status string) string {
	switch status {
	case scheduler.StatusApproved:
		return color.GreenString("通过")
	case scheduler.StatusRejected:
		return color.RedString("驳回")
	case scheduler.StatusPending:
		return color.YellowString("待审核")
	}
	return status
}
