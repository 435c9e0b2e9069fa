package clicks

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"shortlink/internal/repository"
)

const (
	// DefaultQueueSize bounds how many pending clicks may be buffered
	// before new ones are dropped.
	DefaultQueueSize = 1024

	// storeTimeout bounds each increment against the durable store
	storeTimeout = 5 * time.Second
)

var (
	recordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_clicks_recorded_total",
		Help: "Number of click increments applied to the store.",
	})
	droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_clicks_dropped_total",
		Help: "Number of clicks dropped because the queue was saturated or the store rejected the increment.",
	})
)

// Recorder asynchronously applies click increments to the durable store
type Recorder interface {
	// Record schedules a click increment for the given code. It never
	// blocks and never reports failure to the caller.
	Record(code string)

	// Close stops the recorder after draining queued clicks
	Close() error
}

// StoreRecorder implements Recorder on top of the repository's atomic
// increment. A buffered channel decouples redirect responses from store
// writes; when the buffer is full the click is dropped rather than making
// the caller wait.
type StoreRecorder struct {
	repo  repository.URLRepository
	queue chan string

	mutex     sync.RWMutex
	closed    bool
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a StoreRecorder and starts its worker
func New(repo repository.URLRepository, queueSize int) *StoreRecorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	r := &StoreRecorder{
		repo:  repo,
		queue: make(chan string, queueSize),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Record schedules a click increment for the given code
func (r *StoreRecorder) Record(code string) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.closed {
		return
	}

	select {
	case r.queue <- code:
	default:
		droppedTotal.Inc()
		log.Printf("[ERROR] Click queue saturated, dropping click for %s", code)
	}
}

// Close stops the recorder after draining queued clicks
func (r *StoreRecorder) Close() error {
	r.closeOnce.Do(func() {
		r.mutex.Lock()
		r.closed = true
		close(r.queue)
		r.mutex.Unlock()

		r.wg.Wait()
	})
	return nil
}

// worker applies queued increments until the queue is closed and drained
func (r *StoreRecorder) worker() {
	defer r.wg.Done()

	for code := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		err := r.repo.IncrementClicks(ctx, code)
		cancel()

		if err != nil {
			// Best effort: log and move on, the redirect already happened
			droppedTotal.Inc()
			log.Printf("[ERROR] Failed to record click for %s: %v", code, err)
			continue
		}

		recordedTotal.Inc()
	}
}

// Ensure StoreRecorder implements the interface
var _ Recorder = (*StoreRecorder)(nil)
