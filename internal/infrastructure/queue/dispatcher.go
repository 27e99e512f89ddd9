package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/trailhead/tours-api/internal/api/metrics"
	"github.com/trailhead/tours-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher delivers best-effort email asynchronously through a fixed set
// of workers, sharded by recipient so mail to one address stays ordered.
// Reset mail never goes through here: its delivery result must be observed
// synchronously so token state can be rolled back.
type Dispatcher struct {
	workers []chan ports.EmailJob
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.EmailJob, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.EmailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a job to the worker responsible for its recipient. The call
// is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job ports.EmailJob) {
	d.workers[d.shardIndex(job.Account.Email)] <- job
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.EmailJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.deliver(ctx, job); err != nil {
				metrics.EmailsSentTotal.WithLabelValues(string(job.Kind), "error").Inc()
				d.log.Error().Err(err).
					Str("kind", string(job.Kind)).
					Str("account_id", job.Account.ID).
					Int("worker_id", id).
					Msg("email delivery failed")
				continue
			}
			metrics.EmailsSentTotal.WithLabelValues(string(job.Kind), "sent").Inc()
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, job ports.EmailJob) error {
	switch job.Kind {
	case ports.EmailWelcome:
		return d.mailer.SendWelcome(ctx, job.Account, job.URL)
	default:
		d.log.Warn().Str("kind", string(job.Kind)).Msg("unknown email kind dropped")
		return nil
	}
}
