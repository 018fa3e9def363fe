package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/dahai/internal/confluence"
	"github.com/wonny/dahai/internal/contracts"
)

// WatchDisplayLimit caps the watch tier printed to the console
const WatchDisplayLimit = 15

// PrintSummary renders the tiered confluence summary and the ledger line
func PrintSummary(out io.Writer, date string, records []contracts.ResonanceRecord, perf *contracts.PerformanceSummary) {
	rule := strings.Repeat("=", 50)
	tiers := confluence.Split(records)

	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "  大海捞鱼 - 共振精选报告 (%s)\n", date)
	fmt.Fprintln(out, rule)

	if len(tiers.Core) == 0 && len(tiers.Watch) == 0 {
		fmt.Fprintln(out, "今日无共振标的。")
	}

	if len(tiers.Core) > 0 {
		fmt.Fprintf(out, "【核心标的 (3重共振及以上)】 数量: %d\n", len(tiers.Core))
		for _, r := range tiers.Core {
			fmt.Fprintf(out, " >> 代码: %s | 名称: %s | 战法: %s\n", r.Code, r.Name, confluence.StrategyList(r))
		}
		fmt.Fprintln(out, strings.Repeat("-", 30))
	}

	if len(tiers.Watch) > 0 {
		fmt.Fprintf(out, "【重点关注 (2重共振)】 数量: %d\n", len(tiers.Watch))
		shown := tiers.Watch
		if len(shown) > WatchDisplayLimit {
			shown = shown[:WatchDisplayLimit]
		}
		for _, r := range shown {
			fmt.Fprintf(out, " -> 代码: %s | 名称: %s\n", r.Code, r.Name)
		}
		if len(tiers.Watch) > WatchDisplayLimit {
			fmt.Fprintf(out, " ...等共 %d 只，完整列表请查看 %s\n", len(tiers.Watch), ConfluenceFile)
		}
	}

	if perf != nil {
		fmt.Fprintln(out, strings.Repeat("-", 30))
		if perf.Available {
			fmt.Fprintf(out, "【战绩复盘】 %s → %s 匹配 %d 只 | 平均收益 %s%% | 胜率 %.0f%% | 累计 %s%%\n",
				perf.PriorDate.Format("2006-01-02"), perf.Date.Format("2006-01-02"),
				perf.Matched, money(perf.MeanReturn), perf.WinRate*100, money(perf.TotalReturn))
		} else {
			fmt.Fprintf(out, "【战绩复盘】 无可用复盘 (%s) | 累计 %s%%\n", perf.Reason, money(perf.TotalReturn))
		}
	}

	fmt.Fprintln(out, rule)
}
