package renderer

import (
	"context"
	"image"
	"runtime"
	"sync"
)

// RowTask represents a single scanline rendering task for the worker pool
type RowTask struct {
	Ctx context.Context
	Row int // Row index counted from the bottom of the image
}

// RowResult contains the result from rendering a row
type RowResult struct {
	Row     int
	Samples int
	Error   error
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual row rendering tasks
type Worker struct {
	ID          int
	raytracer   *Raytracer
	image       *image.RGBA
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Workers share the raytracer read-only and write disjoint rows of img.
func NewWorkerPool(rt *Raytracer, img *image.RGBA, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// Buffer every row so submission never blocks on result consumption
	rows := max(1, rt.height)

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, rows),
		resultQueue: make(chan RowResult, rows),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   rt,
			image:       img,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes the task queue, waits for workers to finish and closes the result queue
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// Results returns the channel of completed rows, closed once Stop returns
func (wp *WorkerPool) Results() <-chan RowResult {
	return wp.resultQueue
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := task.Ctx.Err(); err != nil {
			w.resultQueue <- RowResult{Row: task.Row, Error: err}
			continue
		}

		samples := w.raytracer.RenderRow(task.Row, w.image)
		w.resultQueue <- RowResult{Row: task.Row, Samples: samples}
	}
}
