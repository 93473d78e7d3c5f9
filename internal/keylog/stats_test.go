package keylog

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"keytrace/internal/layout"
)

func loadTestResolver(t *testing.T) *Resolver {
	t.Helper()
	read := func(name string) string {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatalf("failed to read fixture %s: %v", name, err)
		}
		return string(data)
	}

	p := layout.NewParser()
	opts, err := p.ParseRenderOpts("test", read("render.json"))
	if err != nil {
		t.Fatalf("ParseRenderOpts failed: %v", err)
	}
	keymap, err := p.ParseKeymap(read("keymap.c"), read("keyboard.json"), read("combos.def"), opts)
	if err != nil {
		t.Fatalf("ParseKeymap failed: %v", err)
	}
	return &Resolver{Keymap: keymap}
}

func loadTestStats(t *testing.T) *Stats {
	t.Helper()
	stats, err := StatsFromFile(loadTestResolver(t), filepath.Join("testdata", "keylog.csv"))
	if err != nil {
		t.Fatalf("StatsFromFile failed: %v", err)
	}
	return stats
}

func TestStatsTotals(t *testing.T) {
	stats := loadTestStats(t)

	if stats.TotalEvents != 17 {
		t.Fatalf("expected 17 events, got %d", stats.TotalEvents)
	}
	if stats.TotalKeyPresses != 26 {
		t.Fatalf("expected 26 key presses, got %d", stats.TotalKeyPresses)
	}
	if stats.TotalSFBEvents != 8 {
		t.Fatalf("expected 8 sfb events, got %d", stats.TotalSFBEvents)
	}
	if stats.TotalKeyPressesLeft != 14 || stats.TotalKeyPressesRight != 12 {
		t.Fatalf("expected 14/12 left/right presses, got %d/%d",
			stats.TotalKeyPressesLeft, stats.TotalKeyPressesRight)
	}

	sum := 0
	for _, freq := range stats.FingerFrequency {
		sum += freq
	}
	if sum != stats.TotalKeyPresses {
		t.Fatalf("finger frequency sums to %d, want %d", sum, stats.TotalKeyPresses)
	}
}

func TestStatsFingerFrequency(t *testing.T) {
	stats := loadTestStats(t)

	if _, ok := stats.FingerFrequency[layout.FingerAssignment{Finger: layout.Pinky, Half: layout.Left}]; ok {
		t.Fatalf("left pinky never pressed but has a frequency entry")
	}
	if got := stats.FingerFrequency[layout.FingerAssignment{Finger: layout.Ring, Half: layout.Left}]; got != 7 {
		t.Fatalf("expected 7 left ring presses, got %d", got)
	}
	if got := stats.FingerFrequency[layout.FingerAssignment{Finger: layout.Index, Half: layout.Right}]; got != 5 {
		t.Fatalf("expected 5 right index presses, got %d", got)
	}
}

func TestStatsOutputFrequency(t *testing.T) {
	stats := loadTestStats(t)

	expect := map[string]int{
		"SE_S":     4,
		"SE_C":     2,
		"COLN_SYM": 2,
		"NUMWORD":  1,
		"QK_BOOT":  1,
		"<=":       1,
	}
	for output, want := range expect {
		if got := stats.OutputFrequency[output]; got != want {
			t.Fatalf("output %q: expected %d, got %d", output, want, got)
		}
	}
}

func TestSFBFrequencyByFinger(t *testing.T) {
	stats := loadTestStats(t)

	byFinger := stats.SFBFrequencyByFinger(true)
	if _, ok := byFinger[layout.FingerAssignment{Finger: layout.Pinky, Half: layout.Left}]; ok {
		t.Fatalf("left pinky has no sfbs but has an entry")
	}
	if got := byFinger[layout.FingerAssignment{Finger: layout.Ring, Half: layout.Left}]; got != 4 {
		t.Fatalf("expected 4 left ring sfb presses, got %d", got)
	}
	if got := byFinger[layout.FingerAssignment{Finger: layout.Index, Half: layout.Right}]; got != 4 {
		t.Fatalf("expected 4 right index sfb presses, got %d", got)
	}

	// Without combos only the single-key bigrams remain.
	singlesOnly := stats.SFBFrequencyByFinger(false)
	if got := singlesOnly[layout.FingerAssignment{Finger: layout.Ring, Half: layout.Left}]; got != 4 {
		t.Fatalf("expected 4 left ring single sfb presses, got %d", got)
	}
	if got := singlesOnly[layout.FingerAssignment{Finger: layout.Index, Half: layout.Right}]; got != 1 {
		t.Fatalf("expected 1 right index single sfb press, got %d", got)
	}
}

func TestTopSFBs(t *testing.T) {
	stats := loadTestStats(t)

	all := stats.TopSFBs(100, true)
	if len(all) != 7 {
		t.Fatalf("expected 7 distinct bigrams, got %d", len(all))
	}
	if all[0].Presses != 2 {
		t.Fatalf("expected top bigram with 2 presses, got %d", all[0].Presses)
	}
	for i := 1; i < len(all); i++ {
		if all[i].Presses > all[i-1].Presses {
			t.Fatalf("top bigrams not descending at %d", i)
		}
	}

	singles := stats.TopSFBs(100, false)
	if len(singles) != 4 {
		t.Fatalf("expected 4 single-key bigrams, got %d", len(singles))
	}
	for _, entry := range singles {
		if entry.SFB.HasCombo() {
			t.Fatalf("combo bigram %q in singles-only listing", entry.SFB.ID())
		}
	}

	if top := stats.TopSFBs(2, true); len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
}

func TestSFBPercent(t *testing.T) {
	stats := loadTestStats(t)

	if got, want := stats.SFBPercent(true), 8.0/17.0*100; math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %.4f%%, got %.4f%%", want, got)
	}
	if got, want := stats.SFBPercent(false), 5.0/17.0*100; math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %.4f%%, got %.4f%%", want, got)
	}

	empty := StatsFromEvents(nil)
	if got := empty.SFBPercent(true); got != 0 {
		t.Fatalf("expected 0%% on empty log, got %.4f", got)
	}
}

func TestTopSFBsByKey(t *testing.T) {
	stats := loadTestStats(t)

	top := stats.TopSFBsByKey(2, false)
	if len(top) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(top))
	}
	if top[0].ID != "SE_C" || top[0].Presses != 4 {
		t.Fatalf("expected SE_C with 4 presses first, got %s with %d", top[0].ID, top[0].Presses)
	}
	if top[1].ID != "SE_S" || top[1].Presses != 3 {
		t.Fatalf("expected SE_S with 3 presses second, got %s with %d", top[1].ID, top[1].Presses)
	}
}

func TestOrderedFingers(t *testing.T) {
	stats := loadTestStats(t)

	fingers := stats.OrderedFingers()
	if len(fingers) != len(stats.FingerFrequency) {
		t.Fatalf("expected %d fingers, got %d", len(stats.FingerFrequency), len(fingers))
	}
	for i := 1; i < len(fingers); i++ {
		if !fingers[i-1].Less(fingers[i]) {
			t.Fatalf("fingers out of order: %s before %s", fingers[i-1], fingers[i])
		}
	}
}
