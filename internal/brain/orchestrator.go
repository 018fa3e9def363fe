package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/dahai/internal/confluence"
	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/internal/ledger"
	"github.com/wonny/dahai/internal/metrics"
	"github.com/wonny/dahai/internal/report"
	"github.com/wonny/dahai/internal/s0_data"
	"github.com/wonny/dahai/internal/s1_universe"
	"github.com/wonny/dahai/internal/s2_signals"
	"github.com/wonny/dahai/pkg/logger"
)

// CodeSource enumerates the symbols available on disk
type CodeSource interface {
	ListCodes() ([]string, error)
}

// Deps are the stage components of one orchestrator.
// Ledger, Publisher and Metrics may be nil.
type Deps struct {
	Codes      CodeSource
	NamesFile  string
	Universe   *s1_universe.Builder
	Scanner    *s2_signals.Scanner
	Aggregator *confluence.Aggregator
	Ledger     *ledger.Ledger
	OutputDir  string
	Publisher  Publisher
	Metrics    *metrics.Recorder
}

// Orchestrator coordinates the daily run
// ⭐ SSOT: 파이프라인 조율은 여기서만
//
//	S0 codes+names → S1 universe → S2 scan → S3 confluence → reports → S4 ledger → publish
type Orchestrator struct {
	deps   Deps
	logger *logger.Logger
	now    func() time.Time
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	Date   time.Time // run date; zero means today
	RunID  string
	DryRun bool // if true, the ledger is neither reconciled nor saved
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID           string
	Date            time.Time
	Success         bool
	Error           error
	CompletedStages []string
	Stages          []contracts.PipelineResult
	Universe        *contracts.Universe
	Scan            *contracts.ScanResult
	Records         []contracts.ResonanceRecord
	Tiers           confluence.Tiers
	SignalFiles     []string
	ConfluenceFile  string
	Ledger          *ledger.Result
	Duration        time.Duration
}

// Performance returns the ledger summary, nil when the ledger did not run
func (r *RunResult) Performance() *contracts.PerformanceSummary {
	if r.Ledger == nil {
		return nil
	}
	return &r.Ledger.Summary
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(deps Deps, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		deps:   deps,
		logger: log,
		now:    time.Now,
	}
}

// Run executes one full screening run
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := o.now()
	if config.Date.IsZero() {
		config.Date = startTime
	}
	if config.RunID == "" {
		config.RunID = fmt.Sprintf("run_%s", startTime.Format("20060102_150405"))
	}

	result := &RunResult{
		RunID:           config.RunID,
		Date:            config.Date,
		Success:         false,
		CompletedStages: make([]string, 0),
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":  config.RunID,
		"date":    config.Date.Format("2006-01-02"),
		"dry_run": config.DryRun,
	}).Info("Starting pipeline run")

	err := o.run(ctx, config, result, startTime)
	result.Duration = o.now().Sub(startTime)
	if o.deps.Metrics != nil {
		o.deps.Metrics.RecordRun(err)
	}
	if err != nil {
		result.Error = err
		o.logger.WithFields(map[string]interface{}{
			"run_id": config.RunID,
			"stages": result.CompletedStages,
		}).WithError(err).Error("Pipeline run failed")
		return result, err
	}

	result.Success = true
	o.logger.WithFields(map[string]interface{}{
		"run_id":   config.RunID,
		"duration": result.Duration.Seconds(),
		"stages":   len(result.CompletedStages),
		"records":  len(result.Records),
	}).Info("Pipeline run completed successfully")

	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, config RunConfig, result *RunResult, stamp time.Time) error {
	// S0: codes + names
	codes, names, err := o.runS0(result)
	if err != nil {
		return fmt.Errorf("S0 failed: %w", err)
	}
	result.CompletedStages = append(result.CompletedStages, "S0:Data")

	// S1: Universe
	universe := o.runS1(config, result, codes, names)
	result.Universe = universe
	result.CompletedStages = append(result.CompletedStages, "S1:Universe")

	// S2: Scan
	scan, err := o.runS2(ctx, config, result, universe)
	if err != nil {
		return fmt.Errorf("S2 failed: %w", err)
	}
	result.Scan = scan
	result.CompletedStages = append(result.CompletedStages, "S2:Signals")

	// S3: Confluence
	records := o.runS3(result, scan)
	result.Records = records
	result.Tiers = confluence.Split(records)
	result.CompletedStages = append(result.CompletedStages, "S3:Confluence")

	// Reports
	writer := report.NewWriter(o.deps.OutputDir, stamp, o.logger.Component("report"))
	if err := o.writeReports(writer, result); err != nil {
		return fmt.Errorf("reports failed: %w", err)
	}
	result.CompletedStages = append(result.CompletedStages, "Reports")

	// S4: Ledger (skip if dry run)
	if o.deps.Ledger != nil && !config.DryRun {
		res, err := o.runS4(ctx, config, result)
		if err != nil {
			return fmt.Errorf("S4 failed: %w", err)
		}
		result.Ledger = res
		result.CompletedStages = append(result.CompletedStages, "S4:Ledger")

		if _, err := writer.WritePerformance(res.Summary); err != nil {
			return fmt.Errorf("reports failed: %w", err)
		}
	} else {
		o.logger.Info("Skipping S4:Ledger (dry run mode)")
	}

	o.publish(ctx, config, result, stamp)
	return nil
}

// runS0 lists the symbols and loads the display names.
// A missing data dir is fatal; a missing names file only degrades names.
func (o *Orchestrator) runS0(result *RunResult) ([]string, map[string]string, error) {
	start := o.now()
	o.logger.Info("Running S0: Data")

	codes, err := o.deps.Codes.ListCodes()
	if err != nil {
		o.addStage(result, contracts.StageData, start, 0, 0, err, nil)
		return nil, nil, fmt.Errorf("list codes: %w", err)
	}

	names, found, err := s0_data.LoadNames(o.deps.NamesFile)
	if err != nil || !found {
		fields := map[string]interface{}{"path": o.deps.NamesFile}
		if err != nil {
			fields["error"] = err.Error()
		}
		o.logger.WithFields(fields).Warn("Names unavailable, using placeholder names")
		names = map[string]string{}
	}

	o.addStage(result, contracts.StageData, start, len(codes), len(codes), nil, map[string]interface{}{
		"names": len(names),
	})
	o.logger.WithFields(map[string]interface{}{
		"codes": len(codes),
		"names": len(names),
	}).Info("S0 completed")

	return codes, names, nil
}

// runS1 executes S1: Universe Generation
func (o *Orchestrator) runS1(config RunConfig, result *RunResult, codes []string, names map[string]string) *contracts.Universe {
	start := o.now()
	o.logger.Info("Running S1: Universe Generation")

	universe := o.deps.Universe.Build(config.Date, codes, names)

	o.addStage(result, contracts.StageUniverse, start, len(codes), universe.Count(), nil, map[string]interface{}{
		"excluded": len(universe.Excluded),
	})
	o.logger.WithFields(map[string]interface{}{
		"total":    len(codes),
		"eligible": universe.Count(),
		"excluded": len(universe.Excluded),
	}).Info("S1 completed")

	return universe
}

// runS2 executes S2: indicator computation + every strategy over the universe
func (o *Orchestrator) runS2(ctx context.Context, config RunConfig, result *RunResult, universe *contracts.Universe) (*contracts.ScanResult, error) {
	start := o.now()
	o.logger.Info("Running S2: Signal Scan")

	scan, err := o.deps.Scanner.Scan(ctx, universe, config.Date)
	elapsed := o.now().Sub(start)
	if err != nil {
		o.addStage(result, contracts.StageSignals, start, universe.Count(), 0, err, nil)
		return nil, err
	}

	if o.deps.Metrics != nil {
		o.deps.Metrics.RecordScan(scan.Stats, elapsed)
	}
	o.addStage(result, contracts.StageSignals, start, universe.Count(), len(scan.Signals), nil, map[string]interface{}{
		"evaluated":     scan.Stats.Evaluated,
		"failed":        scan.Stats.Failed,
		"short_history": scan.Stats.ShortHistory,
		"out_of_band":   scan.Stats.OutOfBand,
	})

	return scan, nil
}

// runS3 folds the scan's signals into resonance records
func (o *Orchestrator) runS3(result *RunResult, scan *contracts.ScanResult) []contracts.ResonanceRecord {
	start := o.now()
	o.logger.Info("Running S3: Confluence")

	records := o.deps.Aggregator.Aggregate(scan.Signals)
	tiers := confluence.Split(records)

	if o.deps.Metrics != nil {
		o.deps.Metrics.RecordResonance(len(tiers.Core), len(tiers.Watch), len(records))
	}
	o.addStage(result, contracts.StageConfluence, start, len(scan.Signals), len(records), nil, map[string]interface{}{
		"core":  len(tiers.Core),
		"watch": len(tiers.Watch),
	})

	return records
}

func (o *Orchestrator) writeReports(writer *report.Writer, result *RunResult) error {
	files, err := writer.WriteSignals(o.deps.Scanner.Registry().IDs(), result.Scan.Signals)
	if err != nil {
		return err
	}
	result.SignalFiles = files

	path, err := writer.WriteConfluence(result.Records)
	if err != nil {
		return err
	}
	result.ConfluenceFile = path
	return nil
}

// runS4 reconciles the prior picks and logs today's
func (o *Orchestrator) runS4(ctx context.Context, config RunConfig, result *RunResult) (*ledger.Result, error) {
	start := o.now()
	o.logger.Info("Running S4: Ledger")

	res, err := o.deps.Ledger.Run(ctx, config.Date, result.Records, result.Scan.Prices)
	if err != nil {
		o.addStage(result, contracts.StageLedger, start, len(result.Records), 0, err, nil)
		return nil, err
	}

	if o.deps.Metrics != nil {
		o.deps.Metrics.RecordLedger(res.Summary)
	}
	meta := map[string]interface{}{
		"available":    res.Summary.Available,
		"total_return": res.State.TotalReturn,
	}
	if !res.Summary.Available {
		meta["reason"] = res.Summary.Reason
	}
	o.addStage(result, contracts.StageLedger, start, len(result.Records), len(res.Entries), nil, meta)

	return res, nil
}

// publish is best effort: a cache outage never fails a finished run
func (o *Orchestrator) publish(ctx context.Context, config RunConfig, result *RunResult, stamp time.Time) {
	if o.deps.Publisher == nil {
		return
	}
	snapshot := &contracts.ConfluenceSnapshot{
		Date:        config.Date.Format("20060102"),
		GeneratedAt: stamp,
		Core:        len(result.Tiers.Core),
		Watch:       len(result.Tiers.Watch),
		Records:     result.Records,
	}
	var state *contracts.LedgerState
	if result.Ledger != nil {
		state = &result.Ledger.State
	}
	if err := o.deps.Publisher.Publish(ctx, snapshot, state); err != nil {
		o.logger.WithError(err).Warn("Failed to publish run artifacts")
	}
}

func (o *Orchestrator) addStage(result *RunResult, stage contracts.Stage, start time.Time, in, out int, err error, meta map[string]interface{}) {
	elapsed := o.now().Sub(start)
	pr := contracts.PipelineResult{
		Stage:       stage,
		Success:     err == nil,
		InputCount:  in,
		OutputCount: out,
		Duration:    elapsed.Milliseconds(),
		Metadata:    meta,
	}
	if err != nil {
		pr.Error = err.Error()
	}
	result.Stages = append(result.Stages, pr)
	if o.deps.Metrics != nil {
		o.deps.Metrics.RecordStage(stage, elapsed)
	}
}
