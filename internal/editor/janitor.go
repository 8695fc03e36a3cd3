package editor

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper discards drafts idle for longer than maxIdle.
type Sweeper interface {
	SweepDrafts(maxIdle time.Duration) int
}

// Janitor periodically expires abandoned drafts so their pending files do
// not stay in memory. Other cleanup jobs can share its schedule runner.
type Janitor struct {
	cron    *cron.Cron
	sweeper Sweeper
	maxIdle time.Duration
	logger  *zap.SugaredLogger
	jobs    []job
}

// job is an extra cleanup returning how many items it removed.
type job struct {
	name string
	run  func() int
}

func NewJanitor(schedule string, maxIdle time.Duration, sweeper Sweeper, logger *zap.SugaredLogger) (*Janitor, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	j := &Janitor{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		sweeper: sweeper,
		maxIdle: maxIdle,
		logger:  logger,
	}
	if _, err := j.cron.AddFunc(schedule, j.sweepDrafts); err != nil {
		return nil, fmt.Errorf("invalid draft sweep schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Every schedules an extra cleanup job. Call it before Start.
func (j *Janitor) Every(schedule, name string, run func() int) error {
	jb := job{name: name, run: run}
	if _, err := j.cron.AddFunc(schedule, func() { j.runJob(jb) }); err != nil {
		return fmt.Errorf("invalid %s schedule %q: %w", name, schedule, err)
	}
	j.jobs = append(j.jobs, jb)
	return nil
}

// RunOnce sweeps drafts and runs every extra job immediately.
func (j *Janitor) RunOnce() {
	j.sweepDrafts()
	for _, jb := range j.jobs {
		j.runJob(jb)
	}
}

func (j *Janitor) sweepDrafts() {
	if n := j.sweeper.SweepDrafts(j.maxIdle); n > 0 {
		j.logger.Infow("expired idle drafts", "component", "draft-janitor", "count", n)
	}
}

func (j *Janitor) runJob(jb job) {
	if n := jb.run(); n > 0 {
		j.logger.Infow("janitor job removed items", "component", "draft-janitor", "job", jb.name, "count", n)
	}
}

func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}
