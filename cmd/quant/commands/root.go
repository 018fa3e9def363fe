package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "dahai - A股多策略选股与共振复盘",
	Long: `dahai Unified CLI

沪深主板日线多策略扫描:
S0 数据 → S1 股票池 → S2 策略信号 → S3 共振汇总 → S4 战绩复盘

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant scan
  go run ./cmd/quant scan --dry-run
  go run ./cmd/quant confluence show --tier core
  go run ./cmd/quant ledger state
  go run ./cmd/quant strategies list
  go run ./cmd/quant scheduler start
  go run ./cmd/quant api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategies", "", "strategy thresholds YAML (default: STRATEGY_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
