package assets

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/spaghettifunk/tessera/engine/core"
)

/**
 * @brief Describes a job to be run. OnStart runs on a worker goroutine and must
 * not touch GPU state; OnComplete or OnFailure run later on the goroutine that
 * calls JobSystem.Update.
 */
type JobTask struct {
	/** @brief Invoked on a worker. Required. */
	OnStart func() (interface{}, error)
	/** @brief Invoked with the result when OnStart succeeded. Optional. */
	OnComplete func(result interface{})
	/** @brief Invoked with the error when OnStart failed. Optional. */
	OnFailure func(err error)
}

type jobResult struct {
	task   JobTask
	result interface{}
	err    error
}

// JobSystem is a fixed pool of worker goroutines. Results are queued until
// Update hands them back on the caller's goroutine.
type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	// queueMutex guards sends on jobQueue against Shutdown closing it
	queueMutex sync.RWMutex
	isClosed   bool

	mutex     sync.Mutex
	completed []jobResult
	pending   atomic.Int32
}

var (
	ErrNoWorkers           = errors.New("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize = errors.New("attempting to create worker pool with a negative channel size")
	ErrJobSystemClosed     = errors.New("job system has been shut down")
)

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}
	js.start()
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				result, err := job.OnStart()
				if err != nil {
					core.LogDebug("job failed: %s", err)
				}
				js.mutex.Lock()
				js.completed = append(js.completed, jobResult{task: job, result: result, err: err})
				js.mutex.Unlock()
			}
		}()
	}
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while the
 * queue is full.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	if jt.OnStart == nil {
		return errors.New("job has no entry point")
	}
	js.queueMutex.RLock()
	defer js.queueMutex.RUnlock()
	if js.isClosed {
		return ErrJobSystemClosed
	}
	js.pending.Add(1)
	js.jobQueue <- jt
	return nil
}

/**
 * @brief Runs the callbacks of every finished job. Should happen once an
 * update cycle. Returns how many jobs were handed back.
 */
func (js *JobSystem) Update() int {
	js.mutex.Lock()
	done := js.completed
	js.completed = nil
	js.mutex.Unlock()

	for _, r := range done {
		js.pending.Add(-1)
		if r.err != nil {
			if r.task.OnFailure != nil {
				r.task.OnFailure(r.err)
			}
			continue
		}
		if r.task.OnComplete != nil {
			r.task.OnComplete(r.result)
		}
	}
	return len(done)
}

// Pending is the number of submitted jobs whose callbacks did not run yet.
func (js *JobSystem) Pending() int {
	return int(js.pending.Load())
}

/**
 * @brief Shuts the job system down. Jobs already queued still run; their
 * callbacks are dropped.
 */
func (js *JobSystem) Shutdown() error {
	js.queueMutex.Lock()
	if js.isClosed {
		js.queueMutex.Unlock()
		return nil
	}
	js.isClosed = true
	close(js.jobQueue)
	js.queueMutex.Unlock()

	js.wg.Wait()
	return nil
}
