package session

// State is where a guarded request stands with respect to its session.
type State int

const (
	// StateLoading means the session lookup has not answered yet.
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	}
	return "invalid"
}

// CanTransition reports whether a guard in state s may move to next. Only
// loading settles, and it settles once.
func (s State) CanTransition(next State) bool {
	switch s {
	case StateLoading:
		return next == StateAuthenticated || next == StateUnauthenticated
	case StateUnauthenticated, StateAuthenticated:
		return false
	}
	return false
}

// Resolution is the settled outcome of a session lookup. Err is kept for
// logging; it never changes the State chosen.
type Resolution struct {
	State   State
	Session *Session
	Err     error
}

// Resolve maps a lookup result onto a resolution. A failed lookup is treated
// exactly like an absent session.
func Resolve(s *Session, err error) Resolution {
	if err != nil {
		return Resolution{State: StateUnauthenticated, Err: err}
	}
	if s == nil {
		return Resolution{State: StateUnauthenticated}
	}
	return Resolution{State: StateAuthenticated, Session: s}
}

// Action is what the guard does with the response.
type Action int

const (
	ActionPlaceholder Action = iota
	ActionRedirect
	ActionRender
)

func (a Action) String() string {
	switch a {
	case ActionPlaceholder:
		return "placeholder"
	case ActionRedirect:
		return "redirect"
	case ActionRender:
		return "render"
	}
	return "invalid"
}

// Decide picks the action for a state. Anything unrecognised is denied.
func Decide(s State) Action {
	switch s {
	case StateLoading:
		return ActionPlaceholder
	case StateUnauthenticated:
		return ActionRedirect
	case StateAuthenticated:
		return ActionRender
	}
	return ActionRedirect
}
