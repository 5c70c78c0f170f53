package service

import (
	"context"
	"log/slog"
	"sync"
)

// CertificateIssueQueue accepts students whose certificates should be
// re-checked. Enqueue must never block the caller.
type CertificateIssueQueue interface {
	Enqueue(studentID string)
}

// CertificateChecker is the consumer side of the queue.
type CertificateChecker interface {
	CheckAndIssueForStudent(ctx context.Context, studentID string)
}

// CertificateWorkerPool runs certificate re-checks on a bounded set of
// workers, replacing a detached goroutine per completion event. Work already
// queued is drained on shutdown.
type CertificateWorkerPool struct {
	checker     CertificateChecker
	workerCount int
	queue       chan string
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.Mutex
	logger      *slog.Logger
}

func NewCertificateWorkerPool(checker CertificateChecker, workerCount, queueSize int, logger *slog.Logger) *CertificateWorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	return &CertificateWorkerPool{
		checker:     checker,
		workerCount: workerCount,
		queue:       make(chan string, queueSize),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches worker goroutines
func (wp *CertificateWorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	wp.logger.Info("certificate worker pool started", "workers", wp.workerCount)
}

// Enqueue submits a student for re-checking without blocking. When the queue
// is saturated the event is dropped with a warning; the next completion for
// the student will trigger the same idempotent check again.
func (wp *CertificateWorkerPool) Enqueue(studentID string) {
	wp.closeMux.Lock()
	defer wp.closeMux.Unlock()
	if wp.closed {
		wp.logger.Warn("certificate queue closed, dropping re-check", "student_id", studentID)
		return
	}

	select {
	case wp.queue <- studentID:
	default:
		wp.logger.Warn("certificate queue full, dropping re-check", "student_id", studentID)
	}
}

// Shutdown stops intake, drains queued work and waits for workers to finish.
func (wp *CertificateWorkerPool) Shutdown() {
	wp.closeMux.Lock()
	if !wp.closed {
		close(wp.queue) // No more submissions
		wp.closed = true
	}
	wp.closeMux.Unlock()

	wp.wg.Wait()
	wp.cancel()
	wp.logger.Info("certificate worker pool stopped")
}

func (wp *CertificateWorkerPool) worker(id int) {
	defer wp.wg.Done()

	for studentID := range wp.queue {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("certificate worker cancelled", "worker", id)
			return
		default:
		}

		// Failures stay inside the checker; nothing to propagate here.
		wp.checker.CheckAndIssueForStudent(wp.ctx, studentID)
	}
}
