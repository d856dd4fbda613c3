package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/SscSPs/etracking_app/internal/core/workflow"
	"github.com/hashicorp/go-multierror"
)

// persistJob is one write already applied in memory and waiting to be stored.
type persistJob struct {
	op    workflow.WriteOp
	rowID string
	patch domain.Patch
	doc   *domain.Document
	actor string
}

// persistQueue is an unbounded FIFO. Pushing never blocks, so a board can
// enqueue while holding its lock even when the worker needs that lock.
type persistQueue struct {
	mu     sync.Mutex
	jobs   []persistJob
	closed bool
	wake   chan struct{}
}

func newPersistQueue() *persistQueue {
	return &persistQueue{wake: make(chan struct{}, 1)}
}

// push reports false once the queue is closed.
func (q *persistQueue) push(j persistJob) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.jobs = append(q.jobs, j)
	q.mu.Unlock()
	q.signal()
	return true
}

// take blocks until jobs are queued. It returns false when the queue is
// closed and drained.
func (q *persistQueue) take() ([]persistJob, bool) {
	for {
		q.mu.Lock()
		if len(q.jobs) > 0 {
			jobs := q.jobs
			q.jobs = nil
			q.mu.Unlock()
			return jobs, true
		}
		if q.closed {
			q.mu.Unlock()
			return nil, false
		}
		q.mu.Unlock()
		<-q.wake
	}
}

func (q *persistQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *persistQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// runWorker stores a board's writes in order. Failures are logged once per
// batch and never retried; memory stays authoritative.
func (s *trackingService) runWorker(b *board) {
	defer s.workers.Done()

	// draft id -> store id, for writes queued before the row was re-keyed
	stored := make(map[string]string)
	for {
		jobs, ok := b.queue.take()
		if !ok {
			return
		}
		var errs *multierror.Error
		for _, j := range jobs {
			if err := s.persist(b, stored, j); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s %s: %w", j.op, j.rowID, err))
			}
		}
		if err := errs.ErrorOrNil(); err != nil {
			s.logger.Error("Failed to persist document writes",
				slog.String("kind", string(b.kind)),
				slog.Int("failed", len(errs.Errors)),
				slog.Int("batch", len(jobs)),
				slog.String("error", err.Error()))
		}
	}
}

func (s *trackingService) persist(b *board, stored map[string]string, j persistJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()

	id := j.rowID
	if storeID, ok := stored[id]; ok {
		id = storeID
	}

	switch j.op {
	case workflow.WriteInsert:
		return s.insert(ctx, b, stored, j.rowID, *j.doc)

	case workflow.WriteUpdate:
		if domain.IsDraftID(id) {
			// The insert never reached the store: store the row as it is now.
			snapshot, ok := b.snapshot(id)
			if !ok {
				return nil
			}
			return s.insert(ctx, b, stored, id, snapshot)
		}
		_, err := s.repo.Update(ctx, b.kind, id, j.patch, j.actor)
		return err

	case workflow.WriteDelete:
		if domain.IsDraftID(id) {
			return nil
		}
		return s.repo.Delete(ctx, b.kind, id)
	}
	return fmt.Errorf("unknown write op %q", j.op)
}

func (s *trackingService) insert(ctx context.Context, b *board, stored map[string]string, draftID string, doc domain.Document) error {
	doc.Kind = b.kind
	saved, err := s.repo.Insert(ctx, doc)
	if err != nil {
		return err
	}
	stored[draftID] = saved.ID
	b.rekey(draftID, saved.ID)
	s.logger.Debug("Stored draft document",
		slog.String("kind", string(b.kind)),
		slog.String("draft_id", draftID),
		slog.String("document_id", saved.ID))
	return nil
}
