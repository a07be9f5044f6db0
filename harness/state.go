package harness

// State tracks the harness through its single start/stop cycle.
type State int

const (
	StateIdle State = iota
	StateStarted
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarted:
		return "started"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats are counters over the notifications seen by the harness.
type Stats struct {
	Received uint64 // accepted into the queue
	Printed  uint64
	Dropped  uint64 // queue full or node not started
	Bytes    uint64 // total payload of accepted notifications
}
