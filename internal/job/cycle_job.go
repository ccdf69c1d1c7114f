package job

import (
	"context"
	"log"
	"time"

	"headline-radar/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type CycleRunner interface {
	RunCycle(ctx context.Context, now time.Time) (domain.CycleResult, error)
}

// CycleJob refreshes sentiment on a fixed interval, starting with an
// immediate run so the service has data as soon as it comes up.
type CycleJob struct {
	tracer       trace.Tracer
	runner       CycleRunner
	pollInterval time.Duration
}

func NewCycleJob(tracer trace.Tracer, runner CycleRunner, pollInterval time.Duration) *CycleJob {
	if pollInterval <= 0 {
		pollInterval = 15 * time.Minute
	}
	return &CycleJob{tracer: tracer, runner: runner, pollInterval: pollInterval}
}

func (j *CycleJob) Start(ctx context.Context) {
	if j.runner == nil {
		log.Println("Cycle job disabled: no runner")
		<-ctx.Done()
		return
	}

	j.runOnce(ctx)
	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *CycleJob) runOnce(ctx context.Context) {
	_, span := j.tracer.Start(ctx, "cycle-job.run-once")
	defer span.End()

	result, err := j.runner.RunCycle(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("Sentiment cycle error: %v", err)
		return
	}
	log.Printf(
		"Sentiment cycle %s complete headlines=%d scored=%d records=%d excluded=%d warnings=%d",
		result.WindowID,
		result.HeadlineCount,
		result.ScoredCount,
		len(result.Records),
		len(result.ExcludedTickers),
		len(result.Errors),
	)
}
