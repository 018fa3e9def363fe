package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/internal/report"
	"github.com/wonny/dahai/pkg/config"
)

// confluenceCmd represents the confluence command
var confluenceCmd = &cobra.Command{
	Use:   "confluence",
	Short: "共振报告查看",
	Long: `读取最近一次扫描生成的 confluence_report.csv。

Example:
  go run ./cmd/quant confluence show
  go run ./cmd/quant confluence show --tier core`,
}

var (
	confluenceShowCmd = &cobra.Command{
		Use:   "show",
		Short: "打印最新共振报告",
		RunE:  showConfluence,
	}

	confluenceTier string
)

func init() {
	rootCmd.AddCommand(confluenceCmd)
	confluenceCmd.AddCommand(confluenceShowCmd)

	confluenceShowCmd.Flags().StringVar(&confluenceTier, "tier", "", "only core or watch records")
}

func showConfluence(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	snap, err := report.ReadConfluence(cfg.Scan.OutputDir)
	if err != nil {
		return err
	}

	records := snap.Records
	switch contracts.Tier(confluenceTier) {
	case contracts.TierNone:
	case contracts.TierCore, contracts.TierWatch:
		filtered := make([]contracts.ResonanceRecord, 0, len(records))
		for _, r := range records {
			if r.Tier() == contracts.Tier(confluenceTier) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	default:
		return fmt.Errorf("invalid tier %q (valid: core, watch)", confluenceTier)
	}

	report.PrintSummary(os.Stdout, snap.GeneratedAt.Format("2006-01-02 15:04"), records, nil)
	return nil
}
