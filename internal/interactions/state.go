package interactions

import "github.com/angelmondragon/catalog-backend/pkg/enums"

// StateKind names where an interaction row sits in its lifecycle.
type StateKind int

const (
	StateAbsent StateKind = iota
	StateActive
	StateSoftDeleted
)

func (k StateKind) String() string {
	switch k {
	case StateActive:
		return "active"
	case StateSoftDeleted:
		return "soft_deleted"
	default:
		return "absent"
	}
}

// State is the tagged lifecycle value of one (user, product) interaction.
// Direction is only meaningful when Kind is StateActive.
type State struct {
	Kind      StateKind
	Direction enums.InteractionType
}

func Absent() State      { return State{Kind: StateAbsent} }
func SoftDeleted() State { return State{Kind: StateSoftDeleted} }

func Active(dir enums.InteractionType) State {
	return State{Kind: StateActive, Direction: dir}
}

// Transition is the change a toggle request applies to a State.
type Transition int

const (
	TransitionCreate Transition = iota
	TransitionFlip
	TransitionDeactivate
	TransitionReactivate
)

func (t Transition) String() string {
	switch t {
	case TransitionFlip:
		return "flip"
	case TransitionDeactivate:
		return "deactivate"
	case TransitionReactivate:
		return "reactivate"
	default:
		return "create"
	}
}

// Next returns the transition a request for dir triggers from s and the
// resulting state. Repeating the active direction undoes it.
func (s State) Next(dir enums.InteractionType) (Transition, State) {
	switch s.Kind {
	case StateActive:
		if s.Direction == dir {
			return TransitionDeactivate, SoftDeleted()
		}
		return TransitionFlip, Active(dir)
	case StateSoftDeleted:
		return TransitionReactivate, Active(dir)
	default:
		return TransitionCreate, Active(dir)
	}
}
