// ttctl 课表管理命令行客户端
//
// 通过 REST API 操作教授、课时与排课方案；管理员令牌保存在本地文件中。
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/handrailjsp/Scheduling/config"
	"github.com/handrailjsp/Scheduling/internal/client"
	"github.com/handrailjsp/Scheduling/pkg/logger"
)

// app 单次命令执行所需的依赖
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	api   *client.API
	store *client.SlotStore
	dir   *client.Directory
	gen   *client.GenerationController
}

// capability 读取本地令牌；不存在或已过期时提示先登录
func (a *app) capability() (*client.Capability, error) {
	c, err := client.LoadCapability(a.cfg.Client.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("%w（请先执行 ttctl login）", err)
	}
	return c, nil
}

func main() {
	var (
		cfgPath string
		apiURL  string
		verbose bool
		a       = &app{}
	)

	root := &cobra.Command{
		Use:           "ttctl",
		Short:         "课表管理命令行客户端",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.Client.APIBaseURL = apiURL
			}

			log, err := logger.NewCLILogger(verbose)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = log
			a.api = client.NewAPI(cfg.Client.APIBaseURL, cfg.Client.Timeout)
			// 服务端在排课超时基础上还需写入结果
			a.api.SetGenerateTimeout(cfg.Scheduler.Timeout + 15*time.Second)
			a.store = client.NewSlotStore(a.api, log)
			a.dir = client.NewDirectory(a.api, a.store, log)
			a.gen = client.NewGenerationController(a.api, a.store, cfg.Scheduler.RefreshDelay, log)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "配置文件路径")
	root.PersistentFlags().StringVar(&apiURL, "api", "", "API 地址，覆盖配置 client.api_base_url")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	root.PersistentFlags().BoolVar(&color.NoColor, "no-color", color.NoColor, "禁用彩色输出")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newHashPasswordCmd(),
		newProfessorsCmd(a),
		newSlotsCmd(a),
		newGridCmd(a),
		newScheduleCmd(a),
		newCalendarCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}
