package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/dahai/internal/brain"
	"github.com/wonny/dahai/pkg/logger"
)

// DefaultDailyScanSchedule runs after the close on trading weekdays
const DefaultDailyScanSchedule = "0 30 15 * * 1-5"

// Runner is the part of the orchestrator the job drives
type Runner interface {
	Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error)
}

// DailyScanJob runs the full screening pipeline once per trading day
// ⭐ SSOT: 日终扫描调度只在这个 Job
type DailyScanJob struct {
	runner   Runner
	schedule string
	dryRun   bool
	logger   *logger.Logger
	now      func() time.Time
}

// NewDailyScanJob creates the job; an empty schedule uses DefaultDailyScanSchedule
func NewDailyScanJob(runner Runner, schedule string, dryRun bool, log *logger.Logger) *DailyScanJob {
	if schedule == "" {
		schedule = DefaultDailyScanSchedule
	}
	return &DailyScanJob{
		runner:   runner,
		schedule: schedule,
		dryRun:   dryRun,
		logger:   log,
		now:      time.Now,
	}
}

// Name returns the job name
func (j *DailyScanJob) Name() string {
	return "daily_scan"
}

// Schedule returns the cron schedule (with seconds)
func (j *DailyScanJob) Schedule() string {
	return j.schedule
}

// Run executes one pipeline run dated today
func (j *DailyScanJob) Run(ctx context.Context) error {
	now := j.now()
	result, err := j.runner.Run(ctx, brain.RunConfig{
		Date:   now,
		RunID:  fmt.Sprintf("sched_%s", now.Format("20060102_150405")),
		DryRun: j.dryRun,
	})
	if err != nil {
		return fmt.Errorf("daily scan: %w", err)
	}

	fields := map[string]interface{}{
		"run_id":  result.RunID,
		"records": len(result.Records),
		"core":    len(result.Tiers.Core),
		"watch":   len(result.Tiers.Watch),
	}
	if perf := result.Performance(); perf != nil && perf.Available {
		fields["mean_return"] = perf.MeanReturn
		fields["total_return"] = perf.TotalReturn
	}
	j.logger.WithFields(fields).Info("Daily scan finished")

	return nil
}
