package board

import (
	"testing"

	"taskboard/internal/service"
)

// fixture covers every priority x completion combination.
func fixture() []service.Task {
	var tasks []service.Task
	id := int64(1)
	for _, p := range service.Priorities {
		for _, done := range []bool{false, true} {
			tasks = append(tasks, service.Task{ID: id, Title: string(p), Priority: p, Completed: done})
			id++
		}
	}
	return tasks
}

func TestFilter_AllCombinations(t *testing.T) {
	tasks := fixture()

	for _, status := range statusOrder {
		for _, priority := range priorityOrder {
			got := Filter(tasks, status, priority)

			var want []int64
			for _, task := range tasks {
				statusOK := !(status == StatusPending && task.Completed) && !(status == StatusCompleted && !task.Completed)
				priorityOK := priority == PriorityAll || service.Priority(priority) == task.Priority
				if statusOK && priorityOK {
					want = append(want, task.ID)
				}
			}

			if len(got) != len(want) {
				t.Errorf("%s/%s: expected %d tasks, got %d", status, priority, len(want), len(got))
				continue
			}
			for i := range want {
				if got[i].ID != want[i] {
					t.Errorf("%s/%s: position %d expected id %d, got %d", status, priority, i, want[i], got[i].ID)
				}
			}
		}
	}
}

func TestFilter_Counts(t *testing.T) {
	tasks := fixture()
	tests := []struct {
		status   StatusFilter
		priority PriorityFilter
		want     int
	}{
		{StatusAll, PriorityAll, 6},
		{StatusPending, PriorityAll, 3},
		{StatusCompleted, PriorityAll, 3},
		{StatusAll, "high", 2},
		{StatusPending, "low", 1},
		{StatusCompleted, "medium", 1},
	}
	for _, tt := range tests {
		if got := len(Filter(tasks, tt.status, tt.priority)); got != tt.want {
			t.Errorf("%s/%s: expected %d, got %d", tt.status, tt.priority, tt.want, got)
		}
	}
}

func TestFilter_EmptyInput(t *testing.T) {
	got := Filter(nil, StatusPending, "high")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestParseStatusFilter(t *testing.T) {
	if f, err := ParseStatusFilter(""); err != nil || f != StatusAll {
		t.Errorf("empty: got %q (%v)", f, err)
	}
	if f, err := ParseStatusFilter("Pending"); err != nil || f != StatusPending {
		t.Errorf("Pending: got %q (%v)", f, err)
	}
	if _, err := ParseStatusFilter("done"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestParsePriorityFilter(t *testing.T) {
	if f, err := ParsePriorityFilter("HIGH"); err != nil || f != "high" {
		t.Errorf("HIGH: got %q (%v)", f, err)
	}
	if _, err := ParsePriorityFilter("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestFilterCycles(t *testing.T) {
	s := StatusAll
	for range statusOrder {
		s = s.Next()
	}
	if s != StatusAll {
		t.Errorf("status cycle should return to all, got %q", s)
	}

	p := PriorityAll
	seen := []PriorityFilter{}
	for range priorityOrder {
		p = p.Next()
		seen = append(seen, p)
	}
	if seen[0] != "high" || p != PriorityAll {
		t.Errorf("unexpected priority cycle %v", seen)
	}
}
