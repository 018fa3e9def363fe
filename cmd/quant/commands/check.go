package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/dahai/internal/s0_data"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "运行环境自检",
	Long: `检查扫描所需的输入与基础设施:

- 日线目录与代码数量
- 名称映射文件
- 策略参数与列名映射
- Redis (REDIS_ENABLED=true 时)
- PostgreSQL (LEDGER_BACKEND=postgres 时)

Example:
  go run ./cmd/quant check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	defer a.close()
	fmt.Printf("✅ Config loaded (ENV: %s, %d strategies)\n", a.cfg.Env, a.registry.Len())

	schema, err := s0_data.LoadSchema(a.cfg.Scan.ColumnMapFile)
	if err != nil {
		return fmt.Errorf("❌ column map: %w", err)
	}
	codes, err := s0_data.NewLoader(a.cfg.Scan.DataDir, schema).ListCodes()
	if err != nil {
		return fmt.Errorf("❌ data dir: %w", err)
	}
	fmt.Printf("✅ Data dir %s: %d symbols\n", a.cfg.Scan.DataDir, len(codes))

	names, found, err := s0_data.LoadNames(a.cfg.Scan.NamesFile)
	switch {
	case err != nil:
		return fmt.Errorf("❌ names file: %w", err)
	case !found:
		fmt.Printf("⚠️  Names file %s missing, names will show as unknown\n", a.cfg.Scan.NamesFile)
	default:
		fmt.Printf("✅ Names file %s: %d names\n", a.cfg.Scan.NamesFile, len(names))
	}

	if a.redis.Enabled() {
		fmt.Println("✅ Redis connected")
	} else {
		fmt.Println("-  Redis disabled")
	}

	if a.db == nil {
		fmt.Printf("✅ Ledger: csv in %s\n", a.cfg.Ledger.Dir)
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	status, err := a.db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ health check failed: %w", err)
	}
	fmt.Printf("✅ Ledger: postgres %s (healthy=%v, %v, conns %d/%d idle)\n",
		maskPassword(a.cfg.Database.URL), status.Healthy, status.ResponseTime, status.IdleConns, status.TotalConns)
	return nil
}

// maskPassword hides the password of a database URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
