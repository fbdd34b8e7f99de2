package reset

import "fmt"

// State is a step of the reset flow. The flow only moves forward.
type State int

const (
	Start State = iota
	LogoutInstructed
	ProcessChecked
	ExitConfirmed
	IdentifiersReset
	LoginInstructed
	Done
	AbortedWithError
)

var stateNames = [...]string{
	Start:            "Start",
	LogoutInstructed: "LogoutInstructed",
	ProcessChecked:   "ProcessChecked",
	ExitConfirmed:    "ExitConfirmed",
	IdentifiersReset: "IdentifiersReset",
	LoginInstructed:  "LoginInstructed",
	Done:             "Done",
	AbortedWithError: "AbortedWithError",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Done || s == AbortedWithError
}

// Outcome summarizes a run that ended without an unhandled error.
type Outcome int

const (
	// Completed means identifiers were written and login instructions shown.
	Completed Outcome = iota
	// ResetFailed means the reset step failed and was reported to the operator.
	ResetFailed
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case ResetFailed:
		return "reset failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}
