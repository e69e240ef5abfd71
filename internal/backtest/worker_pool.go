package backtest

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/ducminhle1904/equity-backtest/internal/strategy"
	"github.com/ducminhle1904/equity-backtest/pkg/types"
)

// WorkerPool manages parallel backtest execution across tickers. Every job is
// simulated on its own engine with a private ledger and evaluator, so workers
// share nothing but the channels.
type WorkerPool struct {
	workerCount int
	jobQueue    chan Job
	resultQueue chan JobResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// Job represents one ticker's backtest task.
type Job struct {
	Ticker   string
	Data     []types.OHLCV
	Config   Config
	Strategy strategy.Strategy
}

// JobResult represents the outcome of one job.
type JobResult struct {
	Ticker   string
	Results  *Results
	Duration time.Duration
	Error    error
}

// NewWorkerPool creates a worker pool; workerCount <= 0 means one per CPU.
func NewWorkerPool(workerCount int, jobBufferSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan Job, jobBufferSize),
		resultQueue: make(chan JobResult, jobBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the worker pool
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop stops the worker pool gracefully
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// SubmitJob submits a backtest job to the pool
func (wp *WorkerPool) SubmitJob(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// GetResults returns the result channel for collecting completed jobs
func (wp *WorkerPool) GetResults() <-chan JobResult {
	return wp.resultQueue
}

// worker processes backtest jobs
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			result := wp.processJob(job)

			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}

		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob runs a single ticker's backtest on a fresh engine
func (wp *WorkerPool) processJob(job Job) JobResult {
	startTime := time.Now()

	engine := NewEngine(job.Config, job.Strategy)
	results, err := engine.Run(job.Ticker, job.Data)

	return JobResult{
		Ticker:   job.Ticker,
		Results:  results,
		Duration: time.Since(startTime),
		Error:    err,
	}
}

// RunAll runs one job per ticker in parallel and returns results in
// completion order.
func RunAll(jobs []Job, workerCount int) []JobResult {
	pool := NewWorkerPool(workerCount, len(jobs))
	pool.Start()

	go func() {
		for _, job := range jobs {
			if err := pool.SubmitJob(job); err != nil {
				return
			}
		}
	}()

	results := make([]JobResult, 0, len(jobs))
	for i := 0; i < len(jobs); i++ {
		results = append(results, <-pool.GetResults())
	}
	pool.Stop()

	return results
}

// ProgressTracker tracks the progress of a batch of runs
type ProgressTracker struct {
	total     int
	completed int
	startTime time.Time
	mutex     sync.RWMutex
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		startTime: time.Now(),
	}
}

// Increment increments the completion count
func (pt *ProgressTracker) Increment() {
	pt.mutex.Lock()
	defer pt.mutex.Unlock()
	pt.completed++
}

// GetProgress returns the current progress
func (pt *ProgressTracker) GetProgress() (int, int, float64, time.Duration) {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	elapsed := time.Since(pt.startTime)
	progress := float64(pt.completed) / float64(pt.total) * 100

	return pt.completed, pt.total, progress, elapsed
}
