package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
)

const defaultRunTimeout = 10 * time.Minute

// Worker is one periodic job.
type Worker interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) error
}

// Manager runs every registered worker on its own ticker until Stop.
type Manager struct {
	workers    []Worker
	runTimeout time.Duration
	logger     *zap.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	stop    chan struct{}
	started bool
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		runTimeout: defaultRunTimeout,
		logger:     logger.With(zap.String("component", "workers")),
		stop:       make(chan struct{}),
	}
}

func (m *Manager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("worker registered",
		zap.String("worker", w.Name()),
		zap.Duration("interval", w.Interval()),
	)
}

// Start is a no-op when called twice.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}
	m.started = true

	for _, w := range m.workers {
		m.wg.Add(1)
		go m.loop(w)
	}

	m.logger.Info("workers started", zap.Int("count", len(m.workers)))
}

func (m *Manager) loop(w Worker) {
	defer m.wg.Done()

	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()

	// first run right away
	m.execute(w)

	for {
		select {
		case <-ticker.C:
			m.execute(w)
		case <-m.stop:
			m.logger.Info("worker stopped", zap.String("worker", w.Name()))
			return
		}
	}
}

func (m *Manager) execute(w Worker) {
	ctx, cancel := context.WithTimeout(context.Background(), m.runTimeout)
	defer cancel()

	// a Stop during a long run cancels it
	go func() {
		select {
		case <-m.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	started := time.Now()
	err := w.Run(ctx)

	switch {
	case err == nil:
		m.logger.Debug("worker run finished",
			zap.String("worker", w.Name()),
			zap.Duration("took", time.Since(started)),
		)
	case errors.Is(err, lock.ErrLocked):
		m.logger.Info("worker skipped, job already running", zap.String("worker", w.Name()))
	default:
		m.logger.Error("worker run failed", zap.String("worker", w.Name()), zap.Error(err))
	}
}

// Stop signals every worker and waits for in-flight runs.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	m.mu.Unlock()

	close(m.stop)
	m.wg.Wait()

	m.logger.Info("workers stopped")
}
