package main

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/handrailjsp/Scheduling/internal/calendar"
	"github.com/handrailjsp/Scheduling/pkg/timeutil"
)

// 网格默认显示的小时范围，课时超出时自动扩展
const (
	defaultFromHour = 7
	defaultToHour   = 20
	cellWidth       = 14
)

var (
	headerColor       = color.New(color.Bold)
	startColor        = color.New(color.FgBlack, color.BgCyan)
	continuationColor = color.New(color.BgCyan)
	previewColor      = color.New(color.BgYellow)
)

func newGridCmd(a *app) *cobra.Command {
	var (
		professorID int64
		date        string
		all         bool
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "以周网格显示教授课时",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if date != "" {
				d, err := time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("无效的日期 %q: %w", date, err)
				}
				day = d
			}
			if err := a.dir.Select(cmd.Context(), professorID); err != nil {
				return err
			}

			grid := calendar.NewGrid(timeutil.WeekDays(day), a.store.Slots())
			from, to := hourWindow(grid.Slots())
			if all {
				from, to = 0, calendar.HoursPerDay
			}
			renderGrid(cmd.OutOrStdout(), grid, from, to)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&professorID, "professor", "P", 0, "教授 ID")
	cmd.Flags().StringVar(&date, "date", "", "所在周的任意日期 YYYY-MM-DD，默认本周")
	cmd.Flags().BoolVar(&all, "all", false, "显示全部 24 小时")
	_ = cmd.MarkFlagRequired("professor")
	return cmd
}

// hourWindow 覆盖全部课时的小时范围 [from, to)
func hourWindow(slots []calendar.Slot) (int, int) {
	from, to := defaultFromHour, defaultToHour
	for _, s := range slots {
		if s.Hour < from {
			from = s.Hour
		}
		if s.EndHour > to {
			to = s.EndHour
		}
	}
	return from, to
}

// renderGrid 按小时行、星期列输出网格
func renderGrid(w io.Writer, g *calendar.Grid, from, to int) {
	days := g.Days()

	fmt.Fprint(w, pad("", 10))
	for d := 0; d < calendar.DaysPerWeek; d++ {
		label := strings.ToUpper(dayNames[d])
		if d < len(days) {
			label += days[d].Format(" 01/02")
		}
		headerColor.Fprint(w, pad(label, cellWidth))
	}
	fmt.Fprintln(w)

	for h := from; h < to; h++ {
		fmt.Fprint(w, pad(hourLabel(h), 10))
		for d := 0; d < calendar.DaysPerWeek; d++ {
			c := g.Cell(d, h)
			switch c.Kind {
			case calendar.CellStart:
				startColor.Fprint(w, pad(cellText(c.Slot), cellWidth))
			case calendar.CellContinuation:
				continuationColor.Fprint(w, pad("  ┆", cellWidth))
			case calendar.CellPreview:
				previewColor.Fprint(w, pad("  +", cellWidth))
			default:
				fmt.Fprint(w, pad("  ·", cellWidth))
			}
		}
		fmt.Fprintln(w)
	}
}

func cellText(s *calendar.Slot) string {
	text := s.Subject + "@" + s.Room
	if s.NeedsAC {
		text += "*"
	}
	return text
}

// pad 按字符数截断或补齐到 width
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		r := []rune(s)
		return string(r[:width-1]) + " "
	}
	return s + strings.Repeat(" ", width-n)
}
