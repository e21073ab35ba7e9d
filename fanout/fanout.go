// Package fanout runs one unit of work per input item concurrently and
// joins the results in input order. It backs the persona-scoped stages:
// each persona's model call runs independently, a single persona's failure
// never aborts the batch, and the join order is defined by input position,
// not completion time.
package fanout

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/tailored-agentic-units/brainstorm/observability"
)

const workerCap = 16

// Worker processes a single item. Unlike the stage functions above it,
// a Worker may return an error: the batch records it and contributes an
// empty result for that item instead of raising.
type Worker[TItem, TResult any] func(ctx context.Context, item TItem) (TResult, error)

// ItemError records one item's failure within a batch.
type ItemError[TItem any] struct {
	Index int
	Item  TItem
	Err   error
}

// Result holds a batch outcome. Results is dense: successes only, in input
// order. Errors carries the failed items with their input indexes.
type Result[TItem, TResult any] struct {
	Results []TResult
	Errors  []ItemError[TItem]
}

// Config controls batch execution.
type Config struct {
	// Observer receives batch lifecycle events; nil means no events.
	Observer observability.Observer

	// Source labels emitted events (e.g. "stages.divergent_ideation").
	Source string

	// MaxWorkers overrides the worker pool size; 0 auto-detects
	// min(NumCPU*2, 16, len(items)).
	MaxWorkers int
}

type indexedItem[TItem any] struct {
	index int
	item  TItem
}

type indexedResult[TResult any] struct {
	index  int
	result TResult
	err    error
}

// Run executes worker over every item concurrently and joins all results.
// The call settles only when every item has settled, success or failure.
// Failures are isolated: they appear in Result.Errors and contribute no
// result, and Run itself never returns a per-item error.
func Run[TItem, TResult any](
	ctx context.Context,
	cfg Config,
	items []TItem,
	worker Worker[TItem, TResult],
) Result[TItem, TResult] {
	observer := cfg.Observer
	if observer == nil {
		observer = observability.NoOpObserver{}
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventFanOutStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    cfg.Source,
		Data: map[string]any{
			"item_count":   len(items),
			"worker_count": workerCount(cfg.MaxWorkers, len(items)),
		},
	})

	if len(items) == 0 {
		observer.OnEvent(ctx, observability.Event{
			Type:      EventFanOutComplete,
			Level:     observability.LevelInfo,
			Timestamp: time.Now(),
			Source:    cfg.Source,
			Data:      map[string]any{"succeeded": 0, "failed": 0},
		})
		return Result[TItem, TResult]{
			Results: []TResult{},
			Errors:  []ItemError[TItem]{},
		}
	}

	workQueue := make(chan indexedItem[TItem], len(items))
	resultChannel := make(chan indexedResult[TResult], len(items))

	var wg sync.WaitGroup
	for range workerCount(cfg.MaxWorkers, len(items)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range workQueue {
				observer.OnEvent(ctx, observability.Event{
					Type:      EventWorkerStart,
					Level:     observability.LevelVerbose,
					Timestamp: time.Now(),
					Source:    cfg.Source,
					Data:      map[string]any{"item_index": work.index},
				})

				result, err := worker(ctx, work.item)

				observer.OnEvent(ctx, observability.Event{
					Type:      EventWorkerComplete,
					Level:     observability.LevelVerbose,
					Timestamp: time.Now(),
					Source:    cfg.Source,
					Data: map[string]any{
						"item_index": work.index,
						"error":      err != nil,
					},
				})

				resultChannel <- indexedResult[TResult]{index: work.index, result: result, err: err}
			}
		}()
	}

	for i, item := range items {
		workQueue <- indexedItem[TItem]{index: i, item: item}
	}
	close(workQueue)

	wg.Wait()
	close(resultChannel)

	resultMap := make(map[int]TResult)
	errorMap := make(map[int]error)
	for res := range resultChannel {
		if res.err != nil {
			errorMap[res.index] = res.err
		} else {
			resultMap[res.index] = res.result
		}
	}

	// Joined output order is defined by input index, never completion order.
	out := Result[TItem, TResult]{
		Results: make([]TResult, 0, len(resultMap)),
		Errors:  make([]ItemError[TItem], 0, len(errorMap)),
	}
	for i := range len(items) {
		if result, ok := resultMap[i]; ok {
			out.Results = append(out.Results, result)
		}
		if err, ok := errorMap[i]; ok {
			out.Errors = append(out.Errors, ItemError[TItem]{Index: i, Item: items[i], Err: err})

			observer.OnEvent(ctx, observability.Event{
				Type:      EventWorkerFailed,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    cfg.Source,
				Data: map[string]any{
					"item_index": i,
					"error":      err.Error(),
				},
			})
		}
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventFanOutComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    cfg.Source,
		Data: map[string]any{
			"succeeded": len(out.Results),
			"failed":    len(out.Errors),
		},
	})

	return out
}

func workerCount(maxWorkers, itemCount int) int {
	if maxWorkers > 0 {
		return maxWorkers
	}

	workers := min(min(runtime.NumCPU()*2, workerCap), itemCount)
	if workers <= 0 {
		workers = 1
	}
	return workers
}
