package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/handrailjsp/Scheduling/internal/client"
)

// passwordEnv 非交互场景下的密码来源
const passwordEnv = "TIMETABLE_ADMIN_PASSWORD"

func newLoginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "管理员登录并保存令牌",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				username = a.cfg.Auth.AdminUsername
			}
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if password == "" {
				p, err := readLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "密码: ")
				if err != nil {
					return err
				}
				password = p
			}

			capability, err := a.api.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if err := client.SaveCapability(a.cfg.Client.TokenFile, capability); err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
				"登录成功，令牌有效至 %s\n", capability.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "用户名，默认取 auth.admin_username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "密码，也可通过 "+passwordEnv+" 传入")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "注销令牌并删除本地文件",
		RunE: func(cmd *cobra.Command, args []string) error {
			capability, err := client.LoadCapability(a.cfg.Client.TokenFile)
			switch {
			case errors.Is(err, client.ErrNotAuthorized):
				// 令牌已过期，只需清理本地文件
			case err != nil:
				return err
			default:
				if err := a.api.Logout(cmd.Context(), capability); err != nil {
					a.logger.Warn("服务端注销失败，仍删除本地令牌")
				}
			}
			if err := client.ClearCapability(a.cfg.Client.TokenFile); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "已退出登录")
			return nil
		},
	}
}

// newHashPasswordCmd 生成 auth.admin_password_hash 配置值
func newHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "生成管理员密码的 bcrypt 哈希",
		Args:  cobra.MaximumNArgs(1),
		// 不需要加载配置
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				p, err := readLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "密码: ")
				if err != nil {
					return err
				}
				password = p
			}
			if password == "" {
				return errors.New("密码不能为空")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return fmt.Errorf("生成哈希失败: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func readLine(in io.Reader, prompt io.Writer, label string) (string, error) {
	fmt.Fprint(prompt, label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("读取输入失败: %w", err)
	}
	return strings.TrimSpace(line), nil
}
