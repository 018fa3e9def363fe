package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/dahai/internal/brain"
	"github.com/wonny/dahai/internal/report"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "全市场扫描 + 共振报告 + 战绩复盘",
	Long: `日终全流程:

S0 → S1 → S2 → S3 → 报告 → S4

- S0: 日线文件列表, 代码名称映射
- S1: 主板股票池 (60/00, 排除 ST/退, 价格区间)
- S2: 指标计算 + 全部策略
- S3: 多策略共振汇总
- 报告: 各策略信号 CSV, confluence_report.csv
- S4: 昨日选股今日复盘, 累计收益

Flags:
  --date       运行日期 (YYYY-MM-DD, 默认: 今天)
  --dry-run    不写入战绩账本

Example:
  go run ./cmd/quant scan
  go run ./cmd/quant scan --date 2024-03-08 --dry-run`,
	RunE: runScan,
}

var (
	scanDate   string
	scanDryRun bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanDate, "date", "", "run date (YYYY-MM-DD, default: today)")
	scanCmd.Flags().BoolVar(&scanDryRun, "dry-run", false, "skip the performance ledger")
}

func runScan(cmd *cobra.Command, args []string) error {
	runDate, err := parseRunDate(scanDate)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	orchestrator, err := a.orchestrator()
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}

	fmt.Printf("📅 Run Date: %s  🔧 Dry Run: %v\n\n", runDate.Format("2006-01-02"), scanDryRun)

	result, err := orchestrator.Run(cmd.Context(), brain.RunConfig{
		Date:   runDate,
		DryRun: scanDryRun,
	})
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	printRunResult(result)
	report.PrintSummary(os.Stdout, runDate.Format("2006-01-02"), result.Records, result.Performance())
	return nil
}

// parseRunDate accepts YYYY-MM-DD or YYYYMMDD; empty means today
func parseRunDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", raw)
}

func printRunResult(result *brain.RunResult) {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Run       : %s\n", result.RunID)
	fmt.Printf("  Duration  : %s\n", result.Duration.Round(time.Millisecond))
	fmt.Println("───────────────────────────────────────────────────────────")
	for _, st := range result.Stages {
		fmt.Printf("  %-4s %-14s in=%-6d out=%-6d %5dms\n",
			st.Stage.ShortName(), st.Stage, st.InputCount, st.OutputCount, st.Duration)
	}
	if stats := result.Scan.Stats; stats != nil {
		fmt.Println("───────────────────────────────────────────────────────────")
		fmt.Printf("  Evaluated %d  Short %d  OutOfBand %d  Failed %d\n",
			stats.Evaluated, stats.ShortHistory, stats.OutOfBand, stats.Failed)
	}
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Signal files : %d\n", len(result.SignalFiles))
	fmt.Printf("  Confluence   : %s\n", result.ConfluenceFile)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
}
