package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/davidhuanca/mayorista-backend/pkg/logger"
)

type memLock struct {
	held bool
	deny bool
}

func (l *memLock) Acquire(context.Context) (bool, error) {
	if l.deny || l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *memLock) Release(context.Context) error {
	l.held = false
	return nil
}

type countingJob struct {
	name string
	err  error
	runs int
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

func TestServiceCycleRunsEveryJobDespiteFailures(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	broken := &countingJob{name: "order_ttl", err: errors.New("boom")}
	healthy := &countingJob{name: "outbox_retention"}
	service, err := NewService(ServiceParams{
		Logger:   logg,
		Registry: NewRegistry(broken, healthy),
		Lock:     &memLock{},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if broken.runs != 1 {
		t.Fatalf("failing job ran %d times, want 1", broken.runs)
	}
	if healthy.runs != 1 {
		t.Fatalf("job after the failure ran %d times, want 1", healthy.runs)
	}
}

func TestServiceCycleSkipsWhenLockHeldElsewhere(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	job := &countingJob{name: "order_ttl"}
	service, err := NewService(ServiceParams{
		Logger:   logg,
		Registry: NewRegistry(job),
		Lock:     &memLock{deny: true},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job ran %d times while lock was held elsewhere", job.runs)
	}
}

func TestNewServiceRequiresLock(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	if _, err := NewService(ServiceParams{Logger: logg}); err == nil {
		t.Fatalf("expected error when lock is missing")
	}
}
