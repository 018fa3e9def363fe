package contracts

// Pipeline Stage 定义 (SSOT)
// 日志, 快照与报告中统一使用这些常量
//
// 流程:
//   S0 → S1 → S2 → S3 → S4
//   Data  Universe  Signals  Confluence  Ledger

// Stage represents a pipeline stage
type Stage string

const (
	// StageData S0: 日线读取, 列名归一化, 名称映射
	// 位置: internal/s0_data/
	StageData Stage = "S0_DATA"

	// StageUniverse S1: 可选股票池 (代码前缀, 名称排除, 价格区间)
	// 位置: internal/s1_universe/
	StageUniverse Stage = "S1_UNIVERSE"

	// StageSignals S2: 指标计算 + 全部策略评估
	// 位置: internal/s2_signals/
	StageSignals Stage = "S2_SIGNALS"

	// StageConfluence S3: 多策略共振汇总
	// 位置: internal/confluence/
	StageConfluence Stage = "S3_CONFLUENCE"

	// StageLedger S4: 历史选股回测与累计收益
	// 位置: internal/ledger/
	StageLedger Stage = "S4_LEDGER"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageData:
		return "S0"
	case StageUniverse:
		return "S1"
	case StageSignals:
		return "S2"
	case StageConfluence:
		return "S3"
	case StageLedger:
		return "S4"
	default:
		return "UNKNOWN"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageData,
		StageUniverse,
		StageSignals,
		StageConfluence,
		StageLedger,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// PipelineResult represents the result of a pipeline stage execution
type PipelineResult struct {
	Stage       Stage                  `json:"stage"`
	Success     bool                   `json:"success"`
	InputCount  int                    `json:"input_count"`
	OutputCount int                    `json:"output_count"`
	Duration    int64                  `json:"duration_ms"`
	Error       string                 `json:"error,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
