package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wonny/dahai/internal/s2_signals"
	"github.com/wonny/dahai/internal/strategyconfig"
)

// strategiesCmd represents the strategies command
var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "策略注册表",
	Long: `查看已启用的策略, 或校验策略参数文件。

Example:
  go run ./cmd/quant strategies list
  go run ./cmd/quant strategies validate config/strategies.yaml`,
}

var (
	strategiesListCmd = &cobra.Command{
		Use:   "list",
		Short: "已启用策略 (注册顺序)",
		RunE:  listStrategies,
	}

	strategiesValidateCmd = &cobra.Command{
		Use:   "validate [file]",
		Short: "校验策略参数 YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  validateStrategies,
	}

	strategiesGuide bool
)

func init() {
	rootCmd.AddCommand(strategiesCmd)
	strategiesCmd.AddCommand(strategiesListCmd)
	strategiesCmd.AddCommand(strategiesValidateCmd)

	strategiesListCmd.Flags().BoolVar(&strategiesGuide, "guide", false, "print action guides")
}

func listStrategies(cmd *cobra.Command, args []string) error {
	cfg, _, err := strategyconfig.Load(strategyFile)
	if err != nil {
		return err
	}
	registry, err := s2_signals.NewRegistry(cfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tMIN_BARS")
	for i, s := range registry.All() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, s.ID(), s.Name(), s.MinBars())
		if strategiesGuide {
			fmt.Fprintf(tw, "\t\t%s\t\n", s.Guide())
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d strategies enabled, shortest history %d bars\n", registry.Len(), registry.MinBars())
	return nil
}

func validateStrategies(cmd *cobra.Command, args []string) error {
	path := strategyFile
	if len(args) == 1 {
		path = args[0]
	}

	cfg, _, err := strategyconfig.Load(path)
	if err != nil {
		return err
	}
	if _, err := s2_signals.NewRegistry(cfg); err != nil {
		return err
	}
	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		return err
	}

	if path == "" {
		path = "(built-in defaults)"
	}
	fmt.Printf("✅ %s\n   strategy_set=%s version=%s hash=%s\n", path, cfg.Meta.StrategySet, cfg.Meta.Version, hash[:12])
	return nil
}
