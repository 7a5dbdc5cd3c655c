package lifecycle

import "sync"

// State is a page visibility state.
type State string

const (
	StateVisible State = "visible"
	StateHidden  State = "hidden"
)

// Visibility tracks visibility changes and detects when the page becomes hidden.
type Visibility struct {
	mu     sync.Mutex
	state  State
	hidden *Trigger
}

// NewVisibility returns a detector starting in the visible state.
func NewVisibility() *Visibility {
	return &Visibility{
		state:  StateVisible,
		hidden: NewTrigger("hidden"),
	}
}

// Hidden returns the trigger fired on every transition into the hidden state.
func (v *Visibility) Hidden() *Trigger {
	return v.hidden
}

// State returns the current visibility state.
func (v *Visibility) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Set records a visibility change. It reports whether the Hidden trigger fired.
func (v *Visibility) Set(state State) bool {
	v.mu.Lock()
	prev := v.state
	v.state = state
	v.mu.Unlock()

	if state == StateHidden && prev != StateHidden {
		return v.hidden.Fire()
	}
	return false
}
