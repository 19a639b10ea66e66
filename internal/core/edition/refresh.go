// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"
)

// Refresher is satisfied by [*Catalog].
type Refresher interface {
	Refresh(ctx context.Context, trigger string) (RefreshStats, error)
}

var cronParser = cron.NewParser(
	cron.SecondOptional |
		cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

// ParseSchedule validates a cron expression or descriptor such as "@every 10m".
func ParseSchedule(spec string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(strings.TrimSpace(spec))
	if err != nil {
		return nil, fmt.Errorf("edition: invalid rescan schedule %q: %w", spec, err)
	}
	return schedule, nil
}

// Scheduler runs periodic catalog refreshes.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

/*
NewScheduler registers a refresh job on the given schedule.

Description: Overlapping runs are skipped rather than queued, since a slow scan
is already coalesced by the catalog.

Returns:
  - *Scheduler: Not yet started
  - error: If spec cannot be parsed
*/
func NewScheduler(refresher Refresher, spec string, logger *slog.Logger) (*Scheduler, error) {
	schedule, err := ParseSchedule(spec)
	if err != nil {
		return nil, err
	}

	runner := cron.New(
		cron.WithParser(cronParser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	runner.Schedule(schedule, cron.FuncJob(func() {
		if _, err := refresher.Refresh(context.Background(), TriggerSchedule); err != nil {
			logger.Warn("edition_scheduled_refresh_failed", slog.Any("error", err))
		}
	}))

	return &Scheduler{cron: runner, logger: logger}, nil
}

// Start begins running the schedule in its own goroutine.
func (scheduler *Scheduler) Start() {
	scheduler.cron.Start()
	scheduler.logger.Info("edition_scheduler_started")
}

// Stop halts the schedule and waits for a running job until ctx is done.
func (scheduler *Scheduler) Stop(ctx context.Context) {
	select {
	case <-scheduler.cron.Stop().Done():
	case <-ctx.Done():
	}
}
