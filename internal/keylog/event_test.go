package keylog

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"keytrace/internal/layout"
)

func TestResolveDropsReleasesAndSentinels(t *testing.T) {
	r := loadTestResolver(t)

	records := []RawRecord{
		{Keycode: "0x0001", Row: "1", Col: "2", Pressed: 1},
		{Keycode: "0x0001", Row: "1", Col: "2", Pressed: 0},
		{Keycode: "0x0001", Row: "254", Col: "254", Pressed: 1},
	}
	events, err := r.Resolve(records)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	single, ok := events[0].(SingleEvent)
	if !ok {
		t.Fatalf("expected a single event, got %T", events[0])
	}
	if single.Key.ID != "SE_T" {
		t.Fatalf("expected SE_T, got %s", single.Key.ID)
	}
}

func TestResolveCombo(t *testing.T) {
	r := loadTestResolver(t)

	// Combo rows are kept even though pressed is zero.
	events, err := r.Resolve([]RawRecord{
		{Keycode: "COMBO", Row: "NA", Col: "NA", TapCount: 6},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	combo, ok := events[0].(ComboEvent)
	if !ok {
		t.Fatalf("expected a combo event, got %T", events[0])
	}
	if combo.Output() != "COLN_SYM" {
		t.Fatalf("expected COLN_SYM, got %s", combo.Output())
	}
}

func TestResolveLayerFallthrough(t *testing.T) {
	r := loadTestResolver(t)

	// Matrix (4,1) is transparent on the second layer and resolves to
	// the base layer key.
	events, err := r.Resolve([]RawRecord{
		{Keycode: "0x0001", Row: "4", Col: "1", HighestLayer: 1, Pressed: 1},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	single := events[0].(SingleEvent)
	if single.Key.ID != "SE_W" {
		t.Fatalf("expected fallthrough to SE_W, got %s", single.Key.ID)
	}
	if single.Layer != "_NUM" {
		t.Fatalf("expected layer _NUM, got %s", single.Layer)
	}
}

func TestResolveStrictFailsOnUnknownCombo(t *testing.T) {
	r := loadTestResolver(t)

	_, err := r.Resolve([]RawRecord{
		{Keycode: "COMBO", Row: "NA", Col: "NA", TapCount: 99},
	})
	if err == nil {
		t.Fatalf("expected an error for an unknown combo index")
	}
	if !strings.Contains(err.Error(), "combo") {
		t.Fatalf("expected a combo lookup error, got %v", err)
	}
}

func TestResolveSkipUnresolvable(t *testing.T) {
	r := loadTestResolver(t)
	r.SkipUnresolvable = true
	r.Log = slog.New(slog.NewTextHandler(io.Discard, nil))

	events, err := r.Resolve([]RawRecord{
		{Keycode: "COMBO", Row: "NA", Col: "NA", TapCount: 99},
		{Keycode: "0x0001", Row: "9", Col: "9", Pressed: 1},
		{Keycode: "0x0001", Row: "1", Col: "2", Pressed: 1},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected unresolvable records skipped, got %d events", len(events))
	}
}

func TestResolveBadRow(t *testing.T) {
	r := loadTestResolver(t)
	r.SkipUnresolvable = true

	// Malformed fields are not a lookup problem and fail even in skip
	// mode.
	_, err := r.Resolve([]RawRecord{
		{Keycode: "0x0001", Row: "oops", Col: "2", Pressed: 1},
	})
	if err == nil {
		t.Fatalf("expected an error for a malformed row")
	}
	var lookupErr *layout.LookupError
	if errors.As(err, &lookupErr) {
		t.Fatalf("malformed row must not be a lookup error: %v", err)
	}
}
