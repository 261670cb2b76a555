package commands

import (
	"testing"
)

func TestParseTaskID_Numeric(t *testing.T) {
	id, err := ParseTaskID([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 5 {
		t.Errorf("expected 5, got %d", id)
	}
}

func TestParseTaskID_HashPrefix(t *testing.T) {
	id, err := ParseTaskID([]string{"#12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 12 {
		t.Errorf("expected 12, got %d", id)
	}
}

func TestParseTaskID_NoArgs_Error(t *testing.T) {
	_, err := ParseTaskID([]string{})
	if err != ErrTaskIDRequired {
		t.Errorf("expected ErrTaskIDRequired, got %v", err)
	}
}

func TestParseTaskID_Invalid(t *testing.T) {
	for _, arg := range []string{"abc", "0", "#", "-3", "1.5", "99999999999999999999"} {
		_, err := ParseTaskID([]string{arg})
		if err == nil {
			t.Errorf("expected error for %q", arg)
			continue
		}
		expected := "invalid task id: " + arg
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	}
}

func TestParseTaskID_IgnoresExtraArgs(t *testing.T) {
	id, err := ParseTaskID([]string{"3", "extra"})
	if err != nil || id != 3 {
		t.Errorf("expected 3, got %d (%v)", id, err)
	}
}
