package graph

import "github.com/tailored-agentic-units/brainstorm/observability"

// Event types emitted during graph construction and execution.
const (
	EventGraphStart    observability.EventType = "graph.start"
	EventGraphComplete observability.EventType = "graph.complete"

	EventStageStart    observability.EventType = "stage.start"
	EventStageComplete observability.EventType = "stage.complete"
	EventStageSuspend  observability.EventType = "stage.suspend"
	EventStageResume   observability.EventType = "stage.resume"

	EventRouteSelect observability.EventType = "route.select"

	EventCheckpointSave   observability.EventType = "checkpoint.save"
	EventCheckpointLoad   observability.EventType = "checkpoint.load"
	EventCheckpointDelete observability.EventType = "checkpoint.delete"

	EventCycleDetected observability.EventType = "graph.cycle_detected"
)
