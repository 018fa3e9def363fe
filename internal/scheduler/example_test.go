package scheduler_test

import (
	"context"
	"fmt"

	"github.com/wonny/dahai/internal/scheduler"
	"github.com/wonny/dahai/pkg/logger"
)

// closeScan stands in for the daily scan: weekdays at 15:30, after the close
type closeScan struct{}

func (closeScan) Name() string                  { return "daily_scan" }
func (closeScan) Schedule() string              { return "0 30 15 * * 1-5" }
func (closeScan) Run(ctx context.Context) error { return nil }

func ExampleJob() {
	s := scheduler.New(logger.Nop())
	if err := s.AddJob(closeScan{}); err != nil {
		fmt.Println(err)
		return
	}

	result, err := s.RunJob(context.Background(), "daily_scan")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(result.JobName, result.Success, result.Attempts)
	// Output: daily_scan true 1
}
