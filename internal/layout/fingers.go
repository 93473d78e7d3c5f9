// Package layout models a keyboard: layers of keys with physical
// positions and finger assignments, plus combos, parsed from QMK
// keymap sources.
package layout

import "sort"

// Finger identifies a finger, thumb included.
type Finger int

// Fingers in anatomical order from the pinky.
const (
	Pinky Finger = iota
	Ring
	Middle
	Index
	Thumb
)

func (f Finger) String() string {
	switch f {
	case Pinky:
		return "pinky"
	case Ring:
		return "ring"
	case Middle:
		return "middle"
	case Index:
		return "index"
	case Thumb:
		return "thumb"
	default:
		return "unknown"
	}
}

// Half identifies the keyboard half a key belongs to.
type Half int

// Halves of a split keyboard.
const (
	Left Half = iota
	Right
)

func (h Half) String() string {
	if h == Left {
		return "left"
	}
	return "right"
}

// FingerAssignment is the (finger, half) pair nominally responsible for
// a physical position.
type FingerAssignment struct {
	Finger Finger
	Half   Half
}

func (a FingerAssignment) String() string {
	return a.Half.String() + " " + a.Finger.String()
}

// Compare orders assignments so that a sorted sequence reads physically
// left to right across both halves: left pinky through left thumb, then
// right thumb back out to right pinky.
func (a FingerAssignment) Compare(b FingerAssignment) int {
	if a.Half != b.Half {
		if a.Half == Left {
			return -1
		}
		return 1
	}
	if a.Half == Left {
		return int(a.Finger) - int(b.Finger)
	}
	return int(b.Finger) - int(a.Finger)
}

// Less reports whether a orders before b, see Compare.
func (a FingerAssignment) Less(b FingerAssignment) bool {
	return a.Compare(b) < 0
}

// SortFingerAssignments sorts in place using the Compare ordering.
func SortFingerAssignments(fas []FingerAssignment) {
	sort.Slice(fas, func(i, j int) bool {
		return fas[i].Less(fas[j])
	})
}
