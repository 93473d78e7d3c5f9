package keylog

import (
	"sort"

	"keytrace/internal/layout"
)

// SFBStats pairs a representative bigram with its occurrence count.
type SFBStats struct {
	Presses int
	SFB     SFB
}

// KeyPresses is a per-key press total for ranked views.
type KeyPresses struct {
	ID      string
	Presses int
}

// Stats is the aggregate result of one log analysis. It is built once
// and read-only afterwards.
type Stats struct {
	OutputFrequency map[string]int
	// FingerFrequency counts per constituent key: a combo of k keys
	// increments k buckets.
	FingerFrequency map[layout.FingerAssignment]int
	// TotalEvents counts logical events; one combo activation is one
	// event regardless of key count.
	TotalEvents          int
	TotalKeyPresses      int
	TotalKeyPressesLeft  int
	TotalKeyPressesRight int
	// TotalSFBEvents counts adjacent pairs classified as SFBs, not
	// distinct identities.
	TotalSFBEvents int
	// SFBs holds one entry per identity, ascending by press count so
	// top-N views read from the end.
	SFBs         []SFBStats
	SFBsByFinger map[layout.FingerAssignment]map[string]SFBStats
	SFBsByID     map[string]SFBStats
}

// StatsFromFile reads a log file and computes statistics using the
// resolver's keymap.
func StatsFromFile(r *Resolver, path string) (*Stats, error) {
	records, err := ReadRecordsFile(path)
	if err != nil {
		return nil, err
	}
	return StatsFromRecords(r, records)
}

// StatsFromRecords resolves raw records and computes statistics.
func StatsFromRecords(r *Resolver, records []RawRecord) (*Stats, error) {
	events, err := r.Resolve(records)
	if err != nil {
		return nil, err
	}
	return StatsFromEvents(events), nil
}

// StatsFromEvents computes all frequency tables and SFB aggregates in
// a single pass over the event sequence.
func StatsFromEvents(events []Event) *Stats {
	stats := &Stats{
		OutputFrequency: map[string]int{},
		FingerFrequency: map[layout.FingerAssignment]int{},
		SFBsByFinger:    map[layout.FingerAssignment]map[string]SFBStats{},
		SFBsByID:        map[string]SFBStats{},
		TotalEvents:     len(events),
	}

	for _, ev := range events {
		stats.OutputFrequency[ev.Output()]++
		switch ev := ev.(type) {
		case ComboEvent:
			for _, key := range ev.Combo.Keys {
				stats.FingerFrequency[key.Physical.Finger]++
			}
		case SingleEvent:
			stats.FingerFrequency[ev.Key.Physical.Finger]++
		}
	}

	for fa, freq := range stats.FingerFrequency {
		stats.TotalKeyPresses += freq
		if fa.Half == layout.Left {
			stats.TotalKeyPressesLeft += freq
		} else {
			stats.TotalKeyPressesRight += freq
		}
	}

	series := DetectSFBs(events)
	stats.TotalSFBEvents = len(series)
	for _, sfb := range series {
		id := sfb.ID()
		entry, ok := stats.SFBsByID[id]
		if !ok {
			entry = SFBStats{SFB: sfb}
		}
		entry.Presses++
		stats.SFBsByID[id] = entry
	}

	for id, entry := range stats.SFBsByID {
		stats.SFBs = append(stats.SFBs, entry)
		for _, fa := range entry.SFB.Fingers() {
			byID := stats.SFBsByFinger[fa]
			if byID == nil {
				byID = map[string]SFBStats{}
				stats.SFBsByFinger[fa] = byID
			}
			byID[id] = entry
		}
	}

	sort.Slice(stats.SFBs, func(i, j int) bool {
		a, b := stats.SFBs[i], stats.SFBs[j]
		if a.Presses != b.Presses {
			return a.Presses < b.Presses
		}
		return a.SFB.ID() < b.SFB.ID()
	})

	return stats
}

// TopSFBs returns the n highest-count bigram identities in descending
// order, optionally excluding any involving combos.
func (s *Stats) TopSFBs(n int, includeCombos bool) []SFBStats {
	var top []SFBStats
	for i := len(s.SFBs) - 1; i >= 0 && len(top) < n; i-- {
		entry := s.SFBs[i]
		if !includeCombos && entry.SFB.HasCombo() {
			continue
		}
		top = append(top, entry)
	}
	return top
}

// SFBFrequencyByFinger sums bigram presses per finger. Fingers with no
// occurrences are absent from the result.
func (s *Stats) SFBFrequencyByFinger(includeCombos bool) map[layout.FingerAssignment]int {
	res := map[layout.FingerAssignment]int{}
	for fa, byID := range s.SFBsByFinger {
		sum := 0
		for _, entry := range byID {
			if !includeCombos && entry.SFB.HasCombo() {
				continue
			}
			sum += entry.Presses
		}
		res[fa] = sum
	}
	return res
}

// SFBPercent is the share of events involved in bigrams, in percent.
func (s *Stats) SFBPercent(includeCombos bool) float64 {
	if s.TotalEvents == 0 {
		return 0
	}
	presses := 0
	for _, entry := range s.SFBsByID {
		if !includeCombos && entry.SFB.HasCombo() {
			continue
		}
		presses += entry.Presses
	}
	return float64(presses) / float64(s.TotalEvents) * 100
}

// TopSFBsByKey sums bigram presses per participating key id and
// returns the n largest, descending.
func (s *Stats) TopSFBsByKey(n int, includeCombos bool) []KeyPresses {
	perKey := map[string]int{}
	for _, entry := range s.SFBsByID {
		if !includeCombos && entry.SFB.HasCombo() {
			continue
		}
		for _, id := range entry.SFB.keyIDs() {
			perKey[id] += entry.Presses
		}
	}

	items := make([]KeyPresses, 0, len(perKey))
	for id, presses := range perKey {
		items = append(items, KeyPresses{ID: id, Presses: presses})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Presses != items[j].Presses {
			return items[i].Presses > items[j].Presses
		}
		return items[i].ID < items[j].ID
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

// OrderedFingers lists the fingers present in FingerFrequency in the
// left-to-right display order.
func (s *Stats) OrderedFingers() []layout.FingerAssignment {
	fas := make([]layout.FingerAssignment, 0, len(s.FingerFrequency))
	for fa := range s.FingerFrequency {
		fas = append(fas, fa)
	}
	layout.SortFingerAssignments(fas)
	return fas
}
