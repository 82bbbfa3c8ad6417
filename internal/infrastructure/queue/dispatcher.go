package queue

import (
	"context"
	"errors"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/amref/learning-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

var ErrQueueFull = errors.New("reset notice queue full")

// Dispatcher hands reset notices to a downstream notifier from a fixed set of
// workers. Notices for the same e-mail always land on the same worker, so they
// are delivered in request order.
type Dispatcher struct {
	workers []chan ports.ResetNotice
	sink    ports.ResetNotifier
	log     zerolog.Logger

	// OnDepth, when set, is called with a worker's backlog after each change.
	OnDepth func(worker, depth int)
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.ResetNotifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ResetNotice, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ResetNotice, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// NotifyReset enqueues notice without blocking. It fails with ErrQueueFull when
// the owning worker's buffer is saturated.
func (d *Dispatcher) NotifyReset(_ context.Context, notice ports.ResetNotice) error {
	idx := d.shardIndex(notice.Email)
	select {
	case d.workers[idx] <- notice:
		d.observe(idx)
		return nil
	default:
		return ErrQueueFull
	}
}

// shardIndex maps an e-mail deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) observe(id int) {
	if d.OnDepth != nil {
		d.OnDepth(id, len(d.workers[id]))
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ResetNotice) {
	for {
		select {
		case <-ctx.Done():
			return
		case notice, ok := <-ch:
			if !ok {
				return
			}
			d.observe(id)
			if err := d.sink.NotifyReset(ctx, notice); err != nil {
				d.log.Error().Err(err).
					Str("username", notice.Username).
					Int("worker_id", id).
					Msg("reset notice delivery failed")
			}
		}
	}
}
