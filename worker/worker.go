package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// IJob cron-driven job
type IJob interface {
	Start() error
	Run()
	Stop() error
}

type OnWork func() error

type BaseJob struct {
	Cron      *cron.Cron
	IsRunning bool
	OnWork    OnWork
}

func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

func (job *BaseJob) Stop() error {
	job.Cron.Stop()
	return nil
}

func (job *BaseJob) Run() {
	if job.IsRunning {
		return
	}

	job.IsRunning = true

	_ = job.OnWork()

	job.IsRunning = false
}

// TickWorker busy loop with a short idle backoff
type TickWorker struct {
	// Delay between rounds, 300ms if zero
	Delay time.Duration
	// ErrDelay after a failed round, 1s if zero
	ErrDelay time.Duration
}

func (w *TickWorker) StartTick(ctx context.Context, onWork func(ctx context.Context) error) error {
	delay := w.Delay
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}

	errDelay := w.ErrDelay
	if errDelay <= 0 {
		errDelay = time.Second
	}

	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := onWork(ctx); err != nil {
				dur = errDelay
			} else {
				dur = delay
			}
		}
	}
}
