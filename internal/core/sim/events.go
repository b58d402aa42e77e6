package sim

// Lifecycle event types published on the bus.
const (
	EventStarted         = "simulation.started"
	EventStopped         = "simulation.stopped"
	EventInputDropped    = "input.dropped"
	EventCatchUp         = "clock.catchup"
	EventClockRegression = "clock.regression"
)

const eventSource = "sim"

type StartedData struct {
	RunID    string
	TickRate int
}

type StoppedData struct {
	RunID string
	Ticks uint64
}

// DroppedData reports events lost to queue overflow since the previous report.
type DroppedData struct {
	Count uint64
	Total uint64
}

// CatchUpData reports a loop iteration that ran more ticks than the configured threshold.
type CatchUpData struct {
	Ticks int
}

type RegressionData struct {
	Total uint64
}
