package keylog

import (
	"testing"

	"keytrace/internal/layout"
)

func testKey(id string, col, row int, finger layout.Finger, half layout.Half) *layout.Key {
	return &layout.Key{
		ID: layout.KeyID(id),
		Physical: layout.PhysicalPos{
			Col:    col,
			Row:    row,
			Finger: layout.FingerAssignment{Finger: finger, Half: half},
		},
	}
}

func TestComboComboSFB(t *testing.T) {
	boot := layout.NewCombo("comb_boot_r", "QK_BOOT", []*layout.Key{
		testKey("SE_E", 5, 4, layout.Thumb, layout.Right),
		testKey("SE_L", 6, 2, layout.Index, layout.Right),
		testKey("SE_LPRN", 7, 2, layout.Middle, layout.Right),
		testKey("SE_RPRN", 8, 2, layout.Ring, layout.Right),
		testKey("SE_UNDS", 9, 2, layout.Pinky, layout.Right),
	})
	coln := layout.NewCombo("coln_sym", "COLN_SYM", []*layout.Key{
		testKey("SE_N", 6, 1, layout.Index, layout.Right),
		testKey("SE_A", 7, 1, layout.Middle, layout.Right),
	})

	// Disjoint positions, shared fingers: a bigram in both directions.
	if !IsEventSFB(ComboEvent{Combo: boot}, ComboEvent{Combo: coln}) {
		t.Fatalf("expected boot then coln to be a bigram")
	}
	if !IsEventSFB(ComboEvent{Combo: coln}, ComboEvent{Combo: boot}) {
		t.Fatalf("expected coln then boot to be a bigram")
	}

	// Sharing a position disqualifies the pair.
	overlap := layout.NewCombo("overlap", "X", []*layout.Key{
		testKey("SE_L", 6, 2, layout.Index, layout.Right),
		testKey("SE_A", 7, 1, layout.Middle, layout.Right),
	})
	if IsEventSFB(ComboEvent{Combo: boot}, ComboEvent{Combo: overlap}) {
		t.Fatalf("combos sharing a position must not be a bigram")
	}
}

func TestSingleComboSFB(t *testing.T) {
	coln := layout.NewCombo("coln_sym", "COLN_SYM", []*layout.Key{
		testKey("SE_N", 6, 1, layout.Index, layout.Right),
		testKey("SE_A", 7, 1, layout.Middle, layout.Right),
	})

	w := testKey("SE_W", 6, 0, layout.Index, layout.Right)
	if !IsEventSFB(SingleEvent{Key: w}, ComboEvent{Combo: coln}) {
		t.Fatalf("expected key sharing a combo finger to be a bigram")
	}

	// A key that is part of the combo is just the combo being typed.
	n := testKey("SE_N", 6, 1, layout.Index, layout.Right)
	if IsEventSFB(SingleEvent{Key: n}, ComboEvent{Combo: coln}) {
		t.Fatalf("combo member key must not be a bigram with its combo")
	}
}

func TestSingleSingleSFB(t *testing.T) {
	j := testKey("SE_J", 0, 0, layout.Ring, layout.Left)
	c := testKey("SE_C", 1, 0, layout.Ring, layout.Left)
	y := testKey("SE_Y", 2, 0, layout.Middle, layout.Left)

	if !IsEventSFB(SingleEvent{Key: j}, SingleEvent{Key: c}) {
		t.Fatalf("expected same-finger keys to be a bigram")
	}
	if IsEventSFB(SingleEvent{Key: j}, SingleEvent{Key: y}) {
		t.Fatalf("different fingers must not be a bigram")
	}
	if IsEventSFB(SingleEvent{Key: j}, SingleEvent{Key: j}) {
		t.Fatalf("a repeated key must not be a bigram")
	}
}

func TestSFBIdentityIsOrdered(t *testing.T) {
	j := testKey("SE_J", 0, 0, layout.Ring, layout.Left)
	c := testKey("SE_C", 1, 0, layout.Ring, layout.Left)

	jc := SingleSFB{First: j, Second: c, Finger: j.Physical.Finger}
	cj := SingleSFB{First: c, Second: j, Finger: c.Physical.Finger}
	if jc.ID() == cj.ID() {
		t.Fatalf("bigram identity must be order sensitive")
	}
	if want := "                  SE_J    SE_C                "; jc.ID() != want {
		t.Fatalf("expected %q, got %q", want, jc.ID())
	}
}

func TestDetectSFBsWindow(t *testing.T) {
	j := testKey("SE_J", 0, 0, layout.Ring, layout.Left)
	c := testKey("SE_C", 1, 0, layout.Ring, layout.Left)
	y := testKey("SE_Y", 2, 0, layout.Middle, layout.Left)

	events := []Event{
		SingleEvent{Key: j},
		SingleEvent{Key: c},
		SingleEvent{Key: y},
		SingleEvent{Key: y},
		SingleEvent{Key: c},
	}
	sfbs := DetectSFBs(events)
	if len(sfbs) != 1 {
		t.Fatalf("expected 1 bigram, got %d", len(sfbs))
	}
	if sfbs[0].HasCombo() {
		t.Fatalf("expected a single-key bigram")
	}
}
