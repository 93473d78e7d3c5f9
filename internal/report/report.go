// Package report renders keystroke statistics as console text.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/mattn/go-runewidth"

	"keytrace/internal/keylog"
	"keytrace/internal/layout"
)

// Options controls report contents.
type Options struct {
	// Top limits the SFB listings.
	Top int
}

// Write renders the full statistics report: output frequency, finger
// usage, left/right split, and the SFB sections with and without
// combos.
func Write(w io.Writer, stats *keylog.Stats, opts Options) error {
	top := opts.Top
	if top <= 0 {
		top = 10
	}

	width := tableWidth(w)
	if err := writeOutputFrequency(w, stats, width); err != nil {
		return err
	}
	if err := writeFingerUsage(w, stats); err != nil {
		return err
	}
	if err := writeSFBSection(w, stats, "sfbs (without combos)", false, top, width); err != nil {
		return err
	}
	return writeSFBSection(w, stats, "sfbs (with combos)", true, top, width)
}

func writeOutputFrequency(w io.Writer, stats *keylog.Stats, width int) error {
	type entry struct {
		output string
		count  int
	}
	entries := make([]entry, 0, len(stats.OutputFrequency))
	for output, count := range stats.OutputFrequency {
		entries = append(entries, entry{output, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count < entries[j].count
		}
		return entries[i].output < entries[j].output
	})

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.output, fmt.Sprintf("%d", e.count)}
	}
	_, err := fmt.Fprintln(w, renderTable(
		[]string{"output", "count"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
		width,
	))
	return err
}

func writeFingerUsage(w io.Writer, stats *keylog.Stats) error {
	var fingerRow, statsRow string
	for _, fa := range stats.OrderedFingers() {
		freq := stats.FingerFrequency[fa]
		perc := float64(freq) / float64(stats.TotalKeyPresses) * 100
		fingerRow += runewidth.FillLeft(fa.Finger.String(), 8)
		statsRow += fmt.Sprintf("%7.2f%%", perc)
	}
	if _, err := fmt.Fprintf(w, "\n%s\n%s\n\n", fingerRow, statsRow); err != nil {
		return err
	}

	left := float64(stats.TotalKeyPressesLeft) / float64(stats.TotalKeyPresses) * 100
	right := float64(stats.TotalKeyPressesRight) / float64(stats.TotalKeyPresses) * 100
	_, err := fmt.Fprintf(w, "    left: %7.2f%%\n   right: %7.2f%%\n", left, right)
	return err
}

func writeSFBSection(w io.Writer, stats *keylog.Stats, title string, includeCombos bool, top, width int) error {
	byFinger := stats.SFBFrequencyByFinger(includeCombos)
	fingers := make([]layout.FingerAssignment, 0, len(byFinger))
	for fa := range byFinger {
		fingers = append(fingers, fa)
	}
	layout.SortFingerAssignments(fingers)

	var fingerRow, statsRow string
	for _, fa := range fingers {
		perc := float64(byFinger[fa]) / float64(stats.TotalEvents) * 100
		fingerRow += runewidth.FillLeft(fa.Finger.String(), 8)
		statsRow += fmt.Sprintf("%7.2f%%", perc)
	}
	if _, err := fmt.Fprintf(w, "\n\n  %s\n%s\n%s\n\n", title, fingerRow, statsRow); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  total: %7.3f%%\n", stats.SFBPercent(includeCombos)); err != nil {
		return err
	}

	sfbRows := make([][]string, 0, top)
	for _, entry := range stats.TopSFBs(top, includeCombos) {
		perc := float64(entry.Presses) / float64(stats.TotalEvents) * 100
		sfbRows = append(sfbRows, []string{entry.SFB.ID(), fmt.Sprintf("%.2f%%", perc)})
	}
	if _, err := fmt.Fprintf(w, "  top sfbs:\n%s\n", renderTable(
		[]string{"bigram", "share"},
		sfbRows,
		[]columnAlignment{alignLeft, alignRight},
		width,
	)); err != nil {
		return err
	}

	keyRows := make([][]string, 0, top)
	for _, entry := range stats.TopSFBsByKey(top, includeCombos) {
		perc := float64(entry.Presses) / float64(stats.TotalEvents) * 100
		keyRows = append(keyRows, []string{entry.ID, fmt.Sprintf("%.2f%%", perc)})
	}
	_, err := fmt.Fprintf(w, "  top sfbs by key:\n%s\n", renderTable(
		[]string{"key", "share"},
		keyRows,
		[]columnAlignment{alignLeft, alignRight},
		width,
	))
	return err
}
