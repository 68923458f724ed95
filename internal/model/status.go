package model

// TaskStatus is a node in the task lifecycle graph.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusInReview   TaskStatus = "IN_REVIEW"
	StatusTesting    TaskStatus = "TESTING"
	StatusDone       TaskStatus = "DONE"
	StatusCancelled  TaskStatus = "CANCELLED"
)

// ValidTransitions maps each status to the statuses it may move to.
// DONE and CANCELLED have no entry and are therefore terminal.
var ValidTransitions = map[TaskStatus][]TaskStatus{
	StatusTodo:       {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusInReview, StatusTodo, StatusCancelled},
	StatusInReview:   {StatusTesting, StatusInProgress, StatusCancelled},
	StatusTesting:    {StatusDone, StatusInProgress, StatusCancelled},
}

var statusDisplayNames = map[TaskStatus]string{
	StatusTodo:       "To Do",
	StatusInProgress: "In Progress",
	StatusInReview:   "In Review",
	StatusTesting:    "Testing",
	StatusDone:       "Done",
	StatusCancelled:  "Cancelled",
}

func (s TaskStatus) Valid() bool {
	_, ok := statusDisplayNames[s]
	return ok
}

func (s TaskStatus) DisplayName() string {
	return statusDisplayNames[s]
}

// CanTransitionTo reports whether the edge s -> next exists. A status never
// transitions to itself; callers treat a same-status request as a no-op.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, v := range ValidTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

func (s TaskStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// IsActiveWork is true for the statuses between TODO and DONE.
func (s TaskStatus) IsActiveWork() bool {
	switch s {
	case StatusInProgress, StatusInReview, StatusTesting:
		return true
	default:
		return false
	}
}

// Statuses lists every status in lifecycle order.
func Statuses() []TaskStatus {
	return []TaskStatus{StatusTodo, StatusInProgress, StatusInReview, StatusTesting, StatusDone, StatusCancelled}
}
