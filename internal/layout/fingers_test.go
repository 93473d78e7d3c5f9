package layout

import "testing"

func TestSortFingerAssignments(t *testing.T) {
	fas := []FingerAssignment{
		{Finger: Pinky, Half: Right},
		{Finger: Thumb, Half: Left},
		{Finger: Index, Half: Right},
		{Finger: Pinky, Half: Left},
		{Finger: Middle, Half: Left},
	}
	SortFingerAssignments(fas)

	want := []FingerAssignment{
		{Finger: Pinky, Half: Left},
		{Finger: Middle, Half: Left},
		{Finger: Thumb, Half: Left},
		{Finger: Index, Half: Right},
		{Finger: Pinky, Half: Right},
	}
	for i := range want {
		if fas[i] != want[i] {
			t.Fatalf("unexpected order at %d: got %s, want %s", i, fas[i], want[i])
		}
	}
}

func TestFingerAssignmentString(t *testing.T) {
	fa := FingerAssignment{Finger: Ring, Half: Right}
	if fa.String() != "right ring" {
		t.Fatalf("unexpected string: %q", fa.String())
	}
}
