package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ledgerCmd represents the ledger command
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "战绩账本",
	Long: `查看战绩账本 (csv 或 postgres, 由 LEDGER_BACKEND 决定)。

Subcommands:
  state    累计收益与最近复盘日
  history  历史选股记录

Example:
  go run ./cmd/quant ledger state
  go run ./cmd/quant ledger history --limit 20`,
}

var (
	ledgerStateCmd = &cobra.Command{
		Use:   "state",
		Short: "累计收益",
		RunE:  showLedgerState,
	}

	ledgerHistoryCmd = &cobra.Command{
		Use:   "history",
		Short: "历史选股记录",
		RunE:  showLedgerHistory,
	}

	ledgerLimit int
)

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerStateCmd)
	ledgerCmd.AddCommand(ledgerHistoryCmd)

	ledgerHistoryCmd.Flags().IntVar(&ledgerLimit, "limit", 50, "most recent rows to print (0 = all)")
}

func showLedgerState(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	state, err := a.ledger.State(cmd.Context())
	if err != nil {
		return err
	}

	last := "-"
	if !state.LastReconciled.IsZero() {
		last = state.LastReconciled.Format("2006-01-02")
	}
	fmt.Printf("Backend         : %s\n", a.cfg.Ledger.Backend)
	fmt.Printf("Version         : %d\n", state.Version)
	fmt.Printf("Total return    : %.2f%%\n", state.TotalReturn)
	fmt.Printf("Last reconciled : %s\n", last)
	fmt.Printf("Min resonance   : %d\n", a.ledger.MinResonance())
	return nil
}

func showLedgerHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	history, err := a.ledger.History(cmd.Context())
	if err != nil {
		return err
	}
	if ledgerLimit > 0 && len(history) > ledgerLimit {
		history = history[len(history)-ledgerLimit:]
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCODE\tNAME\tPRICE\tSTRATEGIES")
	for _, e := range history {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", e.Date.Format("2006-01-02"), e.Code, e.Name, e.Price, e.StrategyList)
	}
	return tw.Flush()
}
