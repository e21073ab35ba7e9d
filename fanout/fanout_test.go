package fanout_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tailored-agentic-units/brainstorm/fanout"
)

func TestRunPreservesInputOrder(t *testing.T) {
	// Earlier items finish later; joined order must follow input index.
	items := []int{0, 1, 2, 3}
	result := fanout.Run(context.Background(), fanout.Config{},
		items,
		func(_ context.Context, item int) (string, error) {
			time.Sleep(time.Duration(len(items)-item) * 10 * time.Millisecond)
			return fmt.Sprintf("r%d", item), nil
		})

	if len(result.Results) != 4 {
		t.Fatalf("got %d results, want 4", len(result.Results))
	}
	for i, want := range []string{"r0", "r1", "r2", "r3"} {
		if result.Results[i] != want {
			t.Errorf("Results[%d] = %s, want %s", i, result.Results[i], want)
		}
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	failure := errors.New("worker exploded")
	result := fanout.Run(context.Background(), fanout.Config{},
		[]int{0, 1, 2},
		func(_ context.Context, item int) (int, error) {
			if item == 1 {
				return 0, failure
			}
			return item * 10, nil
		})

	if len(result.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(result.Results))
	}
	if result.Results[0] != 0 || result.Results[1] != 20 {
		t.Errorf("Results = %v, want [0 20]", result.Results)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(result.Errors))
	}
	if result.Errors[0].Index != 1 || result.Errors[0].Item != 1 {
		t.Errorf("Errors[0] = %+v", result.Errors[0])
	}
	if !errors.Is(result.Errors[0].Err, failure) {
		t.Errorf("Errors[0].Err = %v", result.Errors[0].Err)
	}
}

func TestRunEmptyInput(t *testing.T) {
	result := fanout.Run(context.Background(), fanout.Config{},
		nil,
		func(context.Context, int) (int, error) {
			t.Error("worker invoked for empty input")
			return 0, nil
		})

	if len(result.Results) != 0 || len(result.Errors) != 0 {
		t.Errorf("Result = %+v, want empty", result)
	}
}

func TestRunSingleWorker(t *testing.T) {
	// MaxWorkers=1 serializes the batch; order must be identical.
	result := fanout.Run(context.Background(), fanout.Config{MaxWorkers: 1},
		[]int{3, 1, 2},
		func(_ context.Context, item int) (int, error) {
			return item, nil
		})

	if len(result.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(result.Results))
	}
	for i, want := range []int{3, 1, 2} {
		if result.Results[i] != want {
			t.Errorf("Results[%d] = %d, want %d", i, result.Results[i], want)
		}
	}
}
