package keylog

import (
	"fmt"
	"strings"

	"keytrace/internal/layout"
)

// SFB is a detected same-finger bigram: two consecutive events forcing
// a finger to travel between different physical positions. The two
// concrete types are SingleSFB and ComboSFB.
type SFB interface {
	// ID is the aggregation identity. Temporal order matters: (A,B)
	// and (B,A) have different identities.
	ID() string
	// HasCombo reports whether either side is a combo activation.
	HasCombo() bool
	// Fingers lists the assignments the bigram touches, sorted.
	Fingers() []layout.FingerAssignment

	firstIDs() string
	secondIDs() string
	keyIDs() []string
}

// SingleSFB is a bigram between two single key presses.
type SingleSFB struct {
	First  *layout.Key
	Second *layout.Key
	Finger layout.FingerAssignment
}

func (s SingleSFB) ID() string        { return sfbID(s.firstIDs(), s.secondIDs()) }
func (s SingleSFB) HasCombo() bool    { return false }
func (s SingleSFB) firstIDs() string  { return string(s.First.ID) }
func (s SingleSFB) secondIDs() string { return string(s.Second.ID) }

func (s SingleSFB) Fingers() []layout.FingerAssignment {
	return []layout.FingerAssignment{s.Finger}
}

func (s SingleSFB) keyIDs() []string {
	ids := []string{string(s.First.ID)}
	if s.Second.ID != s.First.ID {
		ids = append(ids, string(s.Second.ID))
	}
	return ids
}

// ComboSFB is a bigram where at least one side is a combo.
type ComboSFB struct {
	FirstKeys  []*layout.Key
	SecondKeys []*layout.Key
	FingerSet  map[layout.FingerAssignment]struct{}
}

func (s ComboSFB) ID() string     { return sfbID(s.firstIDs(), s.secondIDs()) }
func (s ComboSFB) HasCombo() bool { return true }

func (s ComboSFB) Fingers() []layout.FingerAssignment {
	fas := make([]layout.FingerAssignment, 0, len(s.FingerSet))
	for fa := range s.FingerSet {
		fas = append(fas, fa)
	}
	layout.SortFingerAssignments(fas)
	return fas
}

func (s ComboSFB) firstIDs() string  { return joinKeyIDs(s.FirstKeys) }
func (s ComboSFB) secondIDs() string { return joinKeyIDs(s.SecondKeys) }

func (s ComboSFB) keyIDs() []string {
	seen := map[string]struct{}{}
	var ids []string
	for _, key := range append(append([]*layout.Key{}, s.FirstKeys...), s.SecondKeys...) {
		id := string(key.ID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// sfbID renders the identity string: first side right-aligned, second
// side left-aligned, fixed gap between them.
func sfbID(first, second string) string {
	return fmt.Sprintf("%22s    %-20s", first, second)
}

func joinKeyIDs(keys []*layout.Key) string {
	ids := make([]string, len(keys))
	for i, key := range keys {
		ids[i] = string(key.ID)
	}
	return strings.Join(ids, ",")
}

// DetectSFBs scans every consecutive event pair and returns the
// qualifying bigrams in temporal order.
func DetectSFBs(events []Event) []SFB {
	var sfbs []SFB
	for i := 0; i+1 < len(events); i++ {
		if sfb := newIfSFB(events[i], events[i+1]); sfb != nil {
			sfbs = append(sfbs, sfb)
		}
	}
	return sfbs
}

// IsEventSFB reports whether two adjacent events form a same-finger
// bigram.
func IsEventSFB(current, next Event) bool {
	switch cur := current.(type) {
	case SingleEvent:
		switch nxt := next.(type) {
		case SingleEvent:
			return cur.Key.IsSFB(nxt.Key)
		case ComboEvent:
			return nxt.Combo.IsKeySFB(cur.Key)
		}
	case ComboEvent:
		switch nxt := next.(type) {
		case SingleEvent:
			return cur.Combo.IsKeySFB(nxt.Key)
		case ComboEvent:
			return cur.Combo.IsComboSFB(nxt.Combo)
		}
	}
	return false
}

func newIfSFB(current, next Event) SFB {
	if !IsEventSFB(current, next) {
		return nil
	}

	switch cur := current.(type) {
	case SingleEvent:
		switch nxt := next.(type) {
		case SingleEvent:
			return SingleSFB{
				First:  cur.Key,
				Second: nxt.Key,
				Finger: cur.Key.Physical.Finger,
			}
		case ComboEvent:
			fingers := nxt.Combo.Fingers()
			fingers[cur.Key.Physical.Finger] = struct{}{}
			return ComboSFB{
				FirstKeys:  []*layout.Key{cur.Key},
				SecondKeys: nxt.Combo.Keys,
				FingerSet:  fingers,
			}
		}
	case ComboEvent:
		switch nxt := next.(type) {
		case SingleEvent:
			fingers := cur.Combo.Fingers()
			fingers[nxt.Key.Physical.Finger] = struct{}{}
			return ComboSFB{
				FirstKeys:  cur.Combo.Keys,
				SecondKeys: []*layout.Key{nxt.Key},
				FingerSet:  fingers,
			}
		case ComboEvent:
			fingers := cur.Combo.Fingers()
			for fa := range nxt.Combo.Fingers() {
				fingers[fa] = struct{}{}
			}
			return ComboSFB{
				FirstKeys:  cur.Combo.Keys,
				SecondKeys: nxt.Combo.Keys,
				FingerSet:  fingers,
			}
		}
	}
	return nil
}
