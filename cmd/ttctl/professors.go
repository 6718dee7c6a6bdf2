package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/handrailjsp/Scheduling/internal/client"
	"github.com/handrailjsp/Scheduling/internal/dto"
)

func newProfessorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "professors",
		Aliases: []string{"prof"},
		Short:   "教授管理",
	}
	cmd.AddCommand(newProfessorsListCmd(a), newProfessorsAddCmd(a), newProfessorsDeleteCmd(a))
	return cmd
}

func newProfessorsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出全部教授",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.dir.Load(cmd.Context())
			profs := a.dir.Professors()
			if len(profs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "暂无教授")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\t姓名\t职称\t院系\t课时数")
			for _, p := range profs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Title, p.Department, p.SlotCount)
			}
			return tw.Flush()
		},
	}
}

func newProfessorsAddCmd(a *app) *cobra.Command {
	var req dto.CreateProfessorRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "新增教授",
		RunE: func(cmd *cobra.Command, args []string) error {
			capability, err := a.capability()
			if err != nil {
				return err
			}
			prof, err := a.dir.Add(cmd.Context(), capability, req)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "已新增教授 #%d %s\n", prof.ID, prof.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "姓名")
	cmd.Flags().StringVar(&req.Title, "title", "", "职称")
	cmd.Flags().StringVar(&req.Department, "department", "", "院系")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProfessorsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <professor-id>",
		Short: "删除教授及其全部课时",
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

			err = a.dir.Delete(cmd.Context(), capability, id)
			var partial *client.PartialFailureError
			if errors.As(err, &partial) {
				color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(),
					"教授 #%d 的课时已删除，但教授本身删除失败，请重试\n", id)
			}
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "已删除教授 #%d\n", id)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("无效的 ID: %q", s)
	}
	return id, nil
}
