package fanout

import "github.com/tailored-agentic-units/brainstorm/observability"

// Event types emitted during batch execution.
const (
	EventFanOutStart    observability.EventType = "fanout.start"
	EventFanOutComplete observability.EventType = "fanout.complete"
	EventWorkerStart    observability.EventType = "fanout.worker.start"
	EventWorkerComplete observability.EventType = "fanout.worker.complete"
	EventWorkerFailed   observability.EventType = "fanout.worker.failed"
)
