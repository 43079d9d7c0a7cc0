package router

// State is a step of the per-navigation state machine:
//
//	Idle → Matching → Loading → RunningLoaders → Rendering → Idle
//	                                 ↓
//	                            Redirecting → Matching
//
// Matching may end in NotFound; Loading and RunningLoaders may end in Failed.
type State uint8

const (
	StateIdle State = iota
	StateMatching
	StateLoading
	StateRunningLoaders
	StateRedirecting
	StateRendering
	StateNotFound
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMatching:
		return "matching"
	case StateLoading:
		return "loading"
	case StateRunningLoaders:
		return "running-loaders"
	case StateRedirecting:
		return "redirecting"
	case StateRendering:
		return "rendering"
	case StateNotFound:
		return "not-found"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is the outcome of a resolution.
type Status uint8

const (
	StatusOK Status = iota
	StatusNotFound
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// StateHook observes state transitions of every navigation a resolver runs.
type StateHook func(navigationID string, state State)
