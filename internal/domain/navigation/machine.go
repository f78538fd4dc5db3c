package navigation

// State is the tab navigation machine. Epoch increments per transition so timers
// belonging to an earlier transition can never act on a later one.
type State struct {
	Active  Tab    `json:"active"`
	Pending Tab    `json:"pending,omitempty"`
	Phase   Phase  `json:"phase"`
	Epoch   uint64 `json:"epoch"`
}

func NewState(initial Tab) State {
	if !initial.Valid() {
		initial = TabLeaders
	}
	return State{Active: initial, Phase: PhaseIdle}
}

func (s State) Transitioning() bool {
	return s.Phase == PhaseTransitioning
}

// Request starts a transition to next. It reports false and leaves the state untouched
// when next is already active, unknown, or another transition is running.
func (s State) Request(next Tab) (State, bool) {
	if !next.Valid() || next == s.Active || s.Transitioning() {
		return s, false
	}
	s.Pending = next
	s.Phase = PhaseTransitioning
	s.Epoch++
	return s, true
}

// Swap makes the pending tab active while input stays locked.
func (s State) Swap(epoch uint64) State {
	if epoch != s.Epoch || !s.Transitioning() || s.Pending == "" {
		return s
	}
	s.Active = s.Pending
	return s
}

// Unlock ends the transition and clears the pending slot.
func (s State) Unlock(epoch uint64) State {
	if epoch != s.Epoch || !s.Transitioning() {
		return s
	}
	if s.Pending != "" {
		s.Active = s.Pending
	}
	s.Pending = ""
	s.Phase = PhaseIdle
	return s
}
