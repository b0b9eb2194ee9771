package workers

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/calendarsync"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/reminder"
)

// Func adapts a plain function to Worker.
type Func struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
}

func NewFunc(name string, interval time.Duration, run func(ctx context.Context) error) *Func {
	return &Func{name: name, interval: interval, run: run}
}

func (f *Func) Name() string                  { return f.name }
func (f *Func) Interval() time.Duration       { return f.interval }
func (f *Func) Run(ctx context.Context) error { return f.run(ctx) }

func SyncWorker(uc *calendarsync.RunSync, every time.Duration) Worker {
	return NewFunc(calendarsync.JobName, every, func(ctx context.Context) error {
		_, err := uc.Execute(ctx)
		return err
	})
}

func ReminderWorker(uc *reminder.RunReminders, every time.Duration) Worker {
	return NewFunc(reminder.JobName, every, func(ctx context.Context) error {
		_, err := uc.Execute(ctx, false)
		return err
	})
}
