package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/dahai/internal/api"
	"github.com/wonny/dahai/internal/api/handlers"
	"github.com/wonny/dahai/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `只读 REST API (最新共振报告, 战绩账本, 策略列表)。
SCHEDULER_ENABLED=true 时同时启动日终扫描调度。

Endpoints:
  GET  /health                  - Health check
  GET  /api/confluence/latest   - 最新共振报告 (?tier=core|watch)
  GET  /api/confluence/{date}   - 指定日期已发布报告 (YYYYMMDD)
  GET  /api/ledger/state        - 累计收益
  GET  /api/strategies          - 已启用策略
  GET  /metrics                 - Prometheus

Example:
  go run ./cmd/quant api
  go run ./cmd/quant api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	if a.cfg.Schedule.Enabled {
		sched, err := initScheduler(a)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	reportHandler := handlers.NewReportHandler(a.cache, a.cfg.Scan.OutputDir, a.ledger, a.registry, a.log.Component("api"))
	limiter := redis.NewRateLimiter(a.redis, cachePrefix)
	router := api.NewRouter(reportHandler, a.recorder, limiter, a.log)
	server := api.New(a.cfg, a.log, router)

	fmt.Printf("✅ Server running on http://localhost:%s (Ctrl+C to stop)\n", a.cfg.Port)
	if err := server.Run(ctx); err != nil && err != context.Canceled {
		return err
	}

	a.log.Info("Server stopped")
	return nil
}
