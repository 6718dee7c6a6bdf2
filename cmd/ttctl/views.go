package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCalendarCmd(a *app) *cobra.Command {
	var date, view string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "查看空调教室的公共日历",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := a.api.CalendarEvents(cmd.Context(), date, view)
			if err != nil {
				return err
			}
			if cal.ScheduleID == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "暂无已通过的方案")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "方案 #%d（%s 视图，%d 个事件）\n", cal.ScheduleID, cal.View, len(cal.Events))
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range cal.Events {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Start, e.End, e.Title, e.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "日期 YYYY-MM-DD，默认今天")
	cmd.Flags().StringVar(&view, "view", "week", "视图：day / week / month")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "现行方案的负荷公平性",
		RunE: func(cmd *cobra.Command, args []string) error {
			capability, err := a.capability()
			if err != nil {
				return err
			}
			stats, err := a.api.Workload(cmd.Context(), capability)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Gini 负荷 %.4f (%s)  教室 %.4f (%s)  空调 %.4f (%s)  均值 %.4f\n",
				stats.Metrics.Workload, stats.Bands["workload"],
				stats.Metrics.RoomUsage, stats.Bands["room_usage"],
				stats.Metrics.ACAccess, stats.Bands["ac_access"],
				stats.Average)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\t教授\t课时\t空调课时")
			for _, p := range stats.Professors {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", p.ProfessorID, p.Name, p.Hours, p.ACHours)
			}
			return tw.Flush()
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		professorID int64
		output      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出教授周课表为 Excel",
		RunE: func(cmd *cobra.Command, args []string) error {
			capability, err := a.capability()
			if err != nil {
				return err
			}
			data, err := a.api.ExportTimetable(cmd.Context(), capability, professorID)
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("timetable_%d.xlsx", professorID)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("写入文件失败: %w", err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "已导出到 %s\n", output)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&professorID, "professor", "P", 0, "教授 ID")
	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件，默认 timetable_<id>.xlsx")
	_ = cmd.MarkFlagRequired("professor")
	return cmd
}
