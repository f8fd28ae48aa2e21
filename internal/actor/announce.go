package actor

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

const ANNOUNCE_JOB_KEY = "announce"

// NewAnnounceScheduler returns a started scheduler that sends an
// AnnounceRequest to pid every interval, so the retained announcement
// survives broker restarts.
func NewAnnounceScheduler(ctx context.Context, root *actor.RootContext, pid *actor.PID,
	interval time.Duration, logger *zap.Logger) (quartz.Scheduler, error) {
	sched, err := quartz.NewStdScheduler()
	if err != nil {
		return nil, err
	}

	announce := job.NewFunctionJob(func(_ context.Context) (bool, error) {
		logger.Debug("announce job: fire")
		root.Send(pid, AnnounceRequest{})
		return true, nil
	})

	sched.Start(ctx)
	err = sched.ScheduleJob(
		quartz.NewJobDetail(announce, quartz.NewJobKey(ANNOUNCE_JOB_KEY)),
		quartz.NewSimpleTrigger(interval),
	)
	if err != nil {
		sched.Stop()
		return nil, err
	}
	return sched, nil
}
