package pipeline

// State is the stage a run is in.
type State string

const (
	StateIdle                 State = "idle"
	StateResolvingEnvironment State = "resolving_environment"
	StateSelectingBackend     State = "selecting_backend"
	StateAcquiring            State = "acquiring"
	StateLoadingModel         State = "loading_model"
	StateTranscribing         State = "transcribing"
	StateCleaning             State = "cleaning"
	StateDone                 State = "done"
)

// State returns the stage of the current or most recent run.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) setState(state State) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
}
