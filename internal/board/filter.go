package board

import (
	"fmt"
	"strings"

	"taskboard/internal/service"
)

// StatusFilter selects tasks by completion.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

var statusOrder = []StatusFilter{StatusAll, StatusPending, StatusCompleted}

// ParseStatusFilter parses all, pending or completed. Empty means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	f := StatusFilter(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return StatusAll, nil
	}
	for _, v := range statusOrder {
		if f == v {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid status filter: %s", s)
}

// Next returns the following value in the cycle all, pending, completed.
func (f StatusFilter) Next() StatusFilter {
	return next(statusOrder, f)
}

// Match reports whether t passes the filter.
func (f StatusFilter) Match(t service.Task) bool {
	switch f {
	case StatusPending:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	}
	return true
}

// PriorityFilter selects tasks by priority.
type PriorityFilter string

// PriorityAll disables the priority predicate.
const PriorityAll PriorityFilter = "all"

var priorityOrder = []PriorityFilter{
	PriorityAll,
	PriorityFilter(service.PriorityHigh),
	PriorityFilter(service.PriorityMedium),
	PriorityFilter(service.PriorityLow),
}

// ParsePriorityFilter parses all, high, medium or low. Empty means all.
func ParsePriorityFilter(s string) (PriorityFilter, error) {
	f := PriorityFilter(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return PriorityAll, nil
	}
	for _, v := range priorityOrder {
		if f == v {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid priority filter: %s", s)
}

// Next returns the following value in the cycle all, high, medium, low.
func (f PriorityFilter) Next() PriorityFilter {
	return next(priorityOrder, f)
}

// Match reports whether t passes the filter.
func (f PriorityFilter) Match(t service.Task) bool {
	return f == PriorityAll || f == "" || service.Priority(f) == t.Priority
}

// Filter returns the tasks passing both predicates, in input order.
func Filter(tasks []service.Task, status StatusFilter, priority PriorityFilter) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if status.Match(t) && priority.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func next[T comparable](order []T, cur T) T {
	for i, v := range order {
		if v == cur {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}
