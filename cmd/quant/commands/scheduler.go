package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/dahai/internal/scheduler"
	"github.com/wonny/dahai/internal/scheduler/jobs"
)

// exchangeZone is the time zone the schedules are written in
const exchangeZone = "Asia/Shanghai"

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `日终扫描调度。

Subcommands:
  start   - 스케줄러 시작 (SCHEDULE_DAILY_SCAN, 기본 평일 15:30)
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/quant scheduler start
  go run ./cmd/quant scheduler run daily_scan`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		RunE:  runScheduler,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerDryRun bool
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerCmd.PersistentFlags().BoolVar(&schedulerDryRun, "dry-run", false, "skip the performance ledger")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	sched.Start()

	fmt.Println("✅ Scheduler started")
	for _, name := range sched.GetAllJobs() {
		next, _ := sched.NextRun(name)
		fmt.Printf("  - %s (next: %s)\n", name, next.Format(time.RFC3339))
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	result, err := sched.RunJob(cmd.Context(), args[0])
	fmt.Printf("Job %s: success=%v attempts=%d duration=%s\n",
		args[0], result.Success, result.Attempts, result.Duration.Round(time.Millisecond))
	return err
}

func initScheduler(a *app) (*scheduler.Scheduler, error) {
	loc, err := time.LoadLocation(exchangeZone)
	if err != nil {
		a.log.WithError(err).Warn("Exchange time zone unavailable, using local time")
		loc = time.Local
	}

	orchestrator, err := a.orchestrator()
	if err != nil {
		return nil, err
	}

	sched := scheduler.New(a.log.Component("scheduler"), scheduler.WithLocation(loc), scheduler.WithRetry(2, 5*time.Minute))
	job := jobs.NewDailyScanJob(orchestrator, a.cfg.Schedule.DailyScan, schedulerDryRun, a.log.Component("daily_scan"))
	if err := sched.AddJob(job); err != nil {
		return nil, err
	}
	return sched, nil
}
