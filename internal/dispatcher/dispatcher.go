package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/duyet/duyetbot-agent-sub001/internal/webhook"
)

// TaskExecutor runs a prepared webhook task
type TaskExecutor interface {
	Execute(ctx context.Context, task *webhook.Task) error
}

// Config controls dispatcher behaviour
type Config struct {
	Workers           int
	QueueSize         int
	MaxAttempts       int
	InitialBackoff    time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration
}

// Dispatcher serialises execution per issue/PR and retries failed tasks
// with backoff
type Dispatcher struct {
	executor TaskExecutor
	cfg      Config

	queue chan *queueItem

	locks   map[string]*sync.Mutex
	locksMu sync.Mutex

	stopCh chan struct{}
	wg     sync.WaitGroup

	once sync.Once
}

type queueItem struct {
	task    *webhook.Task
	attempt int
}

// New creates a dispatcher with the provided configuration
func New(executor TaskExecutor, cfg Config) *Dispatcher {
	normalized := normalizeConfig(cfg)
	d := &Dispatcher{
		executor: executor,
		cfg:      normalized,
		queue:    make(chan *queueItem, normalized.QueueSize),
		locks:    make(map[string]*sync.Mutex),
		stopCh:   make(chan struct{}),
	}
	d.startWorkers()
	return d
}

func normalizeConfig(cfg Config) Config {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 4
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 15 * time.Second
	}
	if cfg.BackoffMultiplier <= 1 {
		cfg.BackoffMultiplier = 2
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Minute
	}
	return cfg
}

func (d *Dispatcher) startWorkers() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Enqueue queues a new task for execution
func (d *Dispatcher) Enqueue(task *webhook.Task) error {
	if task == nil {
		return errors.New("dispatcher enqueue: task is nil")
	}

	select {
	case <-d.stopCh:
		return errors.New("dispatcher enqueue: dispatcher stopped")
	default:
	}

	select {
	case d.queue <- &queueItem{task: task, attempt: 1}:
		return nil
	default:
		return fmt.Errorf("dispatcher enqueue: queue full (%d)", d.cfg.QueueSize)
	}
}

// Stop drains workers and refuses further enqueues. Safe to call twice.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		close(d.stopCh)
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for item := range d.queue {
		d.runItem(item)
	}
}

func (d *Dispatcher) runItem(item *queueItem) {
	task := item.task
	task.Attempt = item.attempt

	// Serialize tasks that target the same issue/PR.
	lock := d.lockFor(fmt.Sprintf("%s#%d", task.Repo, task.Number))
	lock.Lock()
	defer lock.Unlock()

	err := d.executor.Execute(context.Background(), task)
	if err == nil {
		log.Printf("[dispatcher] task %s (%s mode) completed on attempt %d", task.ID, task.Mode, item.attempt)
		return
	}

	log.Printf("[dispatcher] task %s failed on attempt %d: %v", task.ID, item.attempt, err)
	if item.attempt >= d.cfg.MaxAttempts {
		log.Printf("[dispatcher] task %s gave up after %d attempts", task.ID, item.attempt)
		return
	}

	backoff := d.backoffFor(item.attempt)
	go func() {
		select {
		case <-d.stopCh:
		case <-time.After(backoff):
			defer func() {
				// Enqueue on a closed queue panics during shutdown races;
				// dropping the retry is acceptable there.
				_ = recover()
			}()
			d.queue <- &queueItem{task: task, attempt: item.attempt + 1}
		}
	}()
}

func (d *Dispatcher) lockFor(key string) *sync.Mutex {
	d.locksMu.Lock()
	defer d.locksMu.Unlock()
	if l, ok := d.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	d.locks[key] = l
	return l
}

func (d *Dispatcher) backoffFor(attempt int) time.Duration {
	backoff := d.cfg.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * d.cfg.BackoffMultiplier)
		if backoff >= d.cfg.MaxBackoff {
			return d.cfg.MaxBackoff
		}
	}
	if backoff > d.cfg.MaxBackoff {
		return d.cfg.MaxBackoff
	}
	return backoff
}
