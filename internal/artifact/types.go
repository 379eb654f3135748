// Package artifact answers whether each task's output file exists and reads
// it. Every call goes back to the filesystem; nothing is cached between runs.

package artifact

import (
	"github.com/kingrea/graft/internal/task"
)

// State captures the readiness of a task artifact on disk.
type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
	StateError     State = "error"
)

// Status is the derived completion state of one task.
type Status struct {
	Task  task.Descriptor
	Path  string
	State State
	Err   error
}

// Completed reports whether the artifact was found.
func (s Status) Completed() bool {
	return s.State == StateCompleted
}

// Summary counts statuses by state.
type Summary struct {
	Total     int
	Completed int
	Pending   int
	Errored   int
}

// Summarize tallies a Check result.
func Summarize(statuses []Status) Summary {
	sum := Summary{Total: len(statuses)}
	for _, st := range statuses {
		switch st.State {
		case StateCompleted:
			sum.Completed++
		case StateError:
			sum.Errored++
		default:
			sum.Pending++
		}
	}
	return sum
}

// Phase is the run-level view over a summary.
type Phase string

const (
	PhaseNone Phase = "none"
	PhaseSome Phase = "some"
	PhaseAll  Phase = "all"
)

// Phase reports whether no, some, or all artifacts are present.
func (s Summary) Phase() Phase {
	switch {
	case s.Completed == 0:
		return PhaseNone
	case s.Completed == s.Total:
		return PhaseAll
	default:
		return PhaseSome
	}
}
