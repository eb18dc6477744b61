package state

// SceneState is the lifecycle state of the game scene
type SceneState int

const (
	StateLoading SceneState = iota
	StateRunning
	StatePaused
	StateGameOver
	StateError
)

// String returns the string representation of the scene state
func (s SceneState) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateGameOver:
		return "GameOver"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// AcceptsInput reports whether touch events are routed in this state
func (s SceneState) AcceptsInput() bool {
	return s == StateRunning || s == StatePaused || s == StateGameOver
}
