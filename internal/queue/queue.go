package queue

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Task is one queued unit of work
type Task func(ctx context.Context) error

type job struct {
	id          string
	name        string
	task        Task
	onTimeout   func()
	maxLifetime time.Duration
}

// JobQueue runs tasks one at a time in enqueue order. Each job carries a
// maximum lifetime; a job that exceeds it is logged as timed out and the
// worker moves on, but the task itself is not cancelled and may still
// complete (or fail) afterward. The timeout flags stuck jobs, it does
// not bound their resource usage.
type JobQueue struct {
	jobs  chan job
	after func(time.Duration) <-chan time.Time
}

// New creates a queue with room for buffer pending jobs
func New(buffer int) *JobQueue {
	return &JobQueue{
		jobs:  make(chan job, buffer),
		after: time.After,
	}
}

// Enqueue adds a job and returns its id. onTimeout may be nil;
// maxLifetime <= 0 disables the timeout.
func (q *JobQueue) Enqueue(name string, task func(ctx context.Context) error, onTimeout func(), maxLifetime time.Duration) string {
	id := uuid.NewString()
	q.jobs <- job{
		id:          id,
		name:        name,
		task:        task,
		onTimeout:   onTimeout,
		maxLifetime: maxLifetime,
	}
	log.Printf("Queued job %s (%s)", id, name)
	return id
}

// Pending returns the number of jobs waiting to run
func (q *JobQueue) Pending() int {
	return len(q.jobs)
}

// Start drains the queue until ctx is cancelled
func (q *JobQueue) Start(ctx context.Context) error {
	log.Println("Starting job queue worker...")
	for {
		select {
		case <-ctx.Done():
			log.Println("Job queue shutting down...")
			return ctx.Err()
		case j := <-q.jobs:
			q.run(ctx, j)
		}
	}
}

func (q *JobQueue) run(ctx context.Context, j job) {
	log.Printf("Running job %s (%s)", j.id, j.name)
	started := time.Now()

	finished := make(chan error, 1)
	go func() {
		finished <- j.task(ctx)
	}()

	var timeout <-chan time.Time
	if j.maxLifetime > 0 {
		timeout = q.after(j.maxLifetime)
	}

	select {
	case err := <-finished:
		if err != nil {
			log.Printf("Job %s (%s) failed after %s: %v", j.id, j.name, time.Since(started), err)
			return
		}
		log.Printf("Job %s (%s) completed in %s", j.id, j.name, time.Since(started))
	case <-timeout:
		log.Printf("Job %s (%s) timed out after %s; task left running", j.id, j.name, j.maxLifetime)
		if j.onTimeout != nil {
			j.onTimeout()
		}
		// The task keeps running detached; log its eventual outcome.
		go func() {
			if err := <-finished; err != nil {
				log.Printf("Timed-out job %s (%s) eventually failed: %v", j.id, j.name, err)
			} else {
				log.Printf("Timed-out job %s (%s) eventually completed after %s", j.id, j.name, time.Since(started))
			}
		}()
	}
}
