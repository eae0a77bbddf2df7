package download

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lidanthedev/Mirrarr/internal/events"
)

// maxRetries is the number of retries after the initial attempt.
const maxRetries = 5

// defaultRetrySchedule backs off exponentially between attempts.
var defaultRetrySchedule = []time.Duration{
	5 * time.Second,
	10 * time.Second,
	20 * time.Second,
	40 * time.Second,
	80 * time.Second,
}

// queuedJob pairs a job spec with its live record. Both are guarded by the
// queue mutex.
type queuedJob struct {
	spec   Job
	record Record
}

// Queue runs transfers on a fixed pool of workers. The job backlog is
// unbounded: Submit never blocks on queue depth. Transient failures are
// retried on a backoff schedule; everything else fails the job.
type Queue struct {
	transfer Transferer
	bus      *events.Bus // may be nil
	log      *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending []string // FIFO of job IDs awaiting a worker
	jobs    map[string]*queuedJob
	timers  map[string]*time.Timer // armed retry timers
	closed  bool

	retrySchedule []time.Duration

	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewQueue creates a queue. Call Start to launch workers.
func NewQueue(transfer Transferer, bus *events.Bus, log *slog.Logger) *Queue {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		transfer:      transfer,
		bus:           bus,
		log:           log.With("component", "download"),
		jobs:          make(map[string]*queuedJob),
		timers:        make(map[string]*time.Timer),
		retrySchedule: defaultRetrySchedule,
		ctx:           ctx,
		cancel:        cancel,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Start launches the worker pool. At most workers transfers run at once.
func (q *Queue) Start(workers int) {
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.log.Info("queue started", "workers", workers)
}

// Submit adds a job to the queue. The job is recorded as queued before
// Submit returns, so an immediate Status call always finds it.
func (q *Queue) Submit(spec Job) (*Record, error) {
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}

	now := time.Now()
	record := Record{
		ID:             spec.ID,
		URL:            spec.URL,
		Source:         spec.Source,
		Status:         StatusQueued,
		Filename:       spec.CustomFilename,
		CustomFilename: spec.CustomFilename,
		Metadata:       spec.Metadata,
		AddedAt:        now,
		UpdatedAt:      now,
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, ErrShutdown
	}
	q.jobs[spec.ID] = &queuedJob{spec: spec, record: record}
	q.pending = append(q.pending, spec.ID)
	q.cond.Signal()
	q.mu.Unlock()

	q.log.Info("job queued", "id", spec.ID, "url", spec.URL, "source", spec.Source)
	q.publish(&events.DownloadQueued{
		BaseEvent: events.NewBaseEvent(events.EventDownloadQueued, events.EntityDownload, spec.ID),
		URL:       spec.URL,
		Filename:  spec.CustomFilename,
		Source:    spec.Source,
	})

	snapshot := record
	return &snapshot, nil
}

// Status returns a snapshot of one job. Returns ErrNotFound for unknown IDs.
func (q *Queue) Status(id string) (*Record, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	j, ok := q.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	snapshot := j.record
	return &snapshot, nil
}

// List returns snapshots of every known job, oldest first.
func (q *Queue) List() []*Record {
	q.mu.Lock()
	records := make([]*Record, 0, len(q.jobs))
	for _, j := range q.jobs {
		snapshot := j.record
		records = append(records, &snapshot)
	}
	q.mu.Unlock()

	sort.Slice(records, func(i, k int) bool {
		if records[i].AddedAt.Equal(records[k].AddedAt) {
			return records[i].ID < records[k].ID
		}
		return records[i].AddedAt.Before(records[k].AddedAt)
	})
	return records
}

// Shutdown stops the queue: pending and retry-scheduled jobs fail with a
// shutdown error, in-flight transfers are cancelled, and workers drain.
// Safe to call more than once; blocks until workers exit or ctx expires.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.shutdownOnce.Do(func() {
		q.mu.Lock()
		q.closed = true

		var abandoned []string
		for id, timer := range q.timers {
			timer.Stop()
			abandoned = append(abandoned, id)
		}
		q.timers = make(map[string]*time.Timer)
		abandoned = append(abandoned, q.pending...)
		q.pending = nil

		for _, id := range abandoned {
			if j, ok := q.jobs[id]; ok && !j.record.Status.IsTerminal() {
				j.record.Status = StatusError
				j.record.Error = ErrShutdown.Error()
				j.record.UpdatedAt = time.Now()
			}
		}
		q.cond.Broadcast()
		q.mu.Unlock()

		for _, id := range abandoned {
			q.publish(&events.DownloadFailed{
				BaseEvent: events.NewBaseEvent(events.EventDownloadFailed, events.EntityDownload, id),
				Reason:    ErrShutdown.Error(),
			})
		}

		q.cancel()
		q.log.Info("queue shutting down", "abandoned", len(abandoned))
	})

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// worker pulls job IDs off the backlog until shutdown.
func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		id, ok := q.next()
		if !ok {
			return
		}
		q.run(id)
	}
}

// next blocks until a job is available or the queue closes.
func (q *Queue) next() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return "", false
	}
	id := q.pending[0]
	q.pending = q.pending[1:]
	return id, true
}

// run performs one transfer attempt for a job.
func (q *Queue) run(id string) {
	q.mu.Lock()
	j, ok := q.jobs[id]
	if !ok {
		q.mu.Unlock()
		return
	}
	if !j.record.Status.CanTransitionTo(StatusDownloading) {
		q.mu.Unlock()
		return
	}
	spec := j.spec
	j.record.Status = StatusDownloading
	j.record.Attempt++
	j.record.Error = ""
	j.record.NextRetryAt = nil
	j.record.UpdatedAt = time.Now()
	attempt := j.record.Attempt
	q.mu.Unlock()

	q.publish(&events.DownloadStarted{
		BaseEvent: events.NewBaseEvent(events.EventDownloadStarted, events.EntityDownload, id),
		Attempt:   attempt,
	})
	q.log.Info("transfer started", "id", id, "attempt", attempt)

	path, err := q.transfer.Transfer(q.ctx, spec.URL, spec.Options, func(p Progress) {
		q.reportProgress(id, p)
	})
	if err != nil {
		q.fail(id, attempt, err)
		return
	}

	// Transfer done; apply the custom filename during processing. A bad
	// custom name is logged and the original name kept.
	q.update(id, func(r *Record) {
		r.Status = StatusProcessing
		r.Progress = 100
		r.Path = path
		// A requested custom name stays on the record for the whole
		// lifecycle; only unnamed jobs pick up the server's filename.
		if spec.CustomFilename == "" {
			r.Filename = filepath.Base(path)
		}
	})

	final := path
	if spec.CustomFilename != "" {
		renamed, err := applyCustomFilename(path, spec.CustomFilename)
		if err != nil {
			q.log.Warn("custom filename rejected, keeping original name", "id", id, "filename", spec.CustomFilename, "error", err)
		} else {
			final = renamed
		}
	}

	q.update(id, func(r *Record) {
		r.Status = StatusCompleted
		r.Path = final
		r.Filename = filepath.Base(final)
		r.SpeedBPS = 0
		r.Speed = ""
		r.ETASeconds = 0
		r.ETA = ""
	})
	q.publish(&events.DownloadCompleted{
		BaseEvent: events.NewBaseEvent(events.EventDownloadCompleted, events.EntityDownload, id),
		Path:      final,
	})
	q.log.Info("transfer completed", "id", id, "path", final)
}

// reportProgress folds a progress sample into the record. Only transfer
// fields change; the custom filename and metadata survive every update.
func (q *Queue) reportProgress(id string, p Progress) {
	var snapshot Record
	q.mu.Lock()
	if j, ok := q.jobs[id]; ok {
		r := &j.record
		r.BytesDone = p.BytesDone
		r.TotalBytes = p.TotalBytes
		r.SpeedBPS = p.SpeedBPS
		r.ETASeconds = p.ETASeconds
		if p.TotalBytes > 0 {
			r.Progress = float64(p.BytesDone) / float64(p.TotalBytes) * 100
		}
		humanizeRecord(r)
		r.UpdatedAt = time.Now()
		snapshot = *r
	}
	q.mu.Unlock()

	q.publish(&events.DownloadProgressed{
		BaseEvent: events.NewBaseEvent(events.EventDownloadProgressed, events.EntityDownload, id),
		Progress:  snapshot.Progress,
		Speed:     snapshot.SpeedBPS,
		ETA:       snapshot.ETASeconds,
		Size:      snapshot.TotalBytes,
	})
}

// fail handles a transfer error: transient failures are rescheduled until
// the retry budget runs out, everything else is final.
func (q *Queue) fail(id string, attempt int, err error) {
	if q.ctx.Err() != nil {
		q.update(id, func(r *Record) {
			r.Status = StatusError
			r.Error = ErrShutdown.Error()
		})
		return
	}

	if Retryable(err) && attempt <= maxRetries {
		delay := q.retrySchedule[(attempt-1)%len(q.retrySchedule)]
		at := time.Now().Add(delay)
		remaining := maxRetries + 1 - attempt
		q.update(id, func(r *Record) {
			r.Status = StatusRetrying
			r.Error = fmt.Sprintf("%v; retrying in %s (%d attempts left)", err, delay, remaining)
			r.NextRetryAt = &at
		})
		q.log.Warn("transfer failed, retrying", "id", id, "attempt", attempt, "delay", delay, "error", err)
		q.publish(&events.DownloadRetrying{
			BaseEvent:    events.NewBaseEvent(events.EventDownloadRetrying, events.EntityDownload, id),
			Attempt:      attempt,
			DelaySeconds: int(delay.Seconds()),
			Reason:       err.Error(),
		})

		q.mu.Lock()
		if q.closed {
			if j, ok := q.jobs[id]; ok {
				j.record.Status = StatusError
				j.record.Error = ErrShutdown.Error()
				j.record.UpdatedAt = time.Now()
			}
			q.mu.Unlock()
			return
		}
		q.timers[id] = time.AfterFunc(delay, func() { q.requeue(id) })
		q.mu.Unlock()
		return
	}

	q.update(id, func(r *Record) {
		r.Status = StatusError
		r.Error = err.Error()
	})
	q.log.Error("transfer failed", "id", id, "attempt", attempt, "error", err)
	q.publish(&events.DownloadFailed{
		BaseEvent: events.NewBaseEvent(events.EventDownloadFailed, events.EntityDownload, id),
		Reason:    err.Error(),
		Attempt:   attempt,
	})
}

// requeue puts a retry-scheduled job back on the backlog.
func (q *Queue) requeue(id string) {
	q.mu.Lock()
	delete(q.timers, id)
	if q.closed {
		if j, ok := q.jobs[id]; ok && !j.record.Status.IsTerminal() {
			j.record.Status = StatusError
			j.record.Error = ErrShutdown.Error()
			j.record.UpdatedAt = time.Now()
		}
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, id)
	q.cond.Signal()
	q.mu.Unlock()
}

// update applies fn to a job's record under the queue lock. Updates that
// would move the job through an illegal status transition are dropped, so
// a late worker cannot reanimate a terminal job.
func (q *Queue) update(id string, fn func(*Record)) {
	q.mu.Lock()
	defer q.mu.Unlock()

	j, ok := q.jobs[id]
	if !ok {
		return
	}
	next := j.record
	fn(&next)
	if next.Status != j.record.Status && !j.record.Status.CanTransitionTo(next.Status) {
		q.log.Warn("status transition rejected", "id", id, "from", j.record.Status, "to", next.Status)
		return
	}
	next.UpdatedAt = time.Now()
	j.record = next
}

// publish sends an event when a bus is wired. Persistence uses a fresh
// context so final events survive queue cancellation.
func (q *Queue) publish(e events.Event) {
	if q.bus == nil {
		return
	}
	_ = q.bus.Publish(context.Background(), e)
}
