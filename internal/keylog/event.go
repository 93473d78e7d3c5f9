package keylog

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"keytrace/internal/layout"
)

// Event is a logical keypress: either a single key resolved through
// the active layer, or a combo activation. Consumers switch on the
// two concrete types.
type Event interface {
	// Output is the label the event produces: the combo output or the
	// single key id.
	Output() string

	isEvent()
}

// ComboEvent is a combo activation.
type ComboEvent struct {
	Combo *layout.Combo
}

func (e ComboEvent) Output() string { return e.Combo.Output }
func (ComboEvent) isEvent()         {}

// SingleEvent is a single key press.
type SingleEvent struct {
	Key      *layout.Key
	Keycode  string
	Layer    layout.LayerID
	TapCount int
}

func (e SingleEvent) Output() string { return string(e.Key.ID) }
func (SingleEvent) isEvent()         {}

// Resolver turns raw records into logical events against a keymap.
type Resolver struct {
	Keymap *layout.Keymap
	// SkipUnresolvable drops records referencing layout elements the
	// keymap doesn't have, with a warning, instead of failing the run.
	SkipUnresolvable bool
	Log              *slog.Logger
}

// Resolve converts raw records to events, preserving input order.
// Release events and sentinel rows are dropped; combo rows are always
// kept. A record pointing outside the layout fails the run unless
// SkipUnresolvable is set.
func (r *Resolver) Resolve(records []RawRecord) ([]Event, error) {
	events := make([]Event, 0, len(records))
	for i, rec := range records {
		ev, err := r.resolveRecord(rec)
		if err != nil {
			var lookupErr *layout.LookupError
			if r.SkipUnresolvable && errors.As(err, &lookupErr) {
				r.logger().Warn("skipping unresolvable record",
					"line", i+1,
					"keycode", rec.Keycode,
					"err", err)
				continue
			}
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if ev != nil {
			events = append(events, ev)
		}
	}
	return events, nil
}

// resolveRecord maps one record to an event, or nil when the record is
// dropped (release or sentinel row).
func (r *Resolver) resolveRecord(rec RawRecord) (Event, error) {
	if rec.IsCombo() {
		combo, err := r.Keymap.ComboAt(rec.TapCount)
		if err != nil {
			return nil, err
		}
		return ComboEvent{Combo: combo}, nil
	}

	if rec.Pressed == 0 {
		return nil, nil
	}
	if rec.Row == "NA" || rec.Col == "NA" {
		return nil, nil
	}
	row, err := strconv.Atoi(rec.Row)
	if err != nil {
		return nil, fmt.Errorf("bad row: %w", err)
	}
	col, err := strconv.Atoi(rec.Col)
	if err != nil {
		return nil, fmt.Errorf("bad col: %w", err)
	}
	if row == 254 && col == 254 {
		return nil, nil
	}

	pos := layout.MatrixPos{Row: row, Col: col}
	key, err := r.Keymap.ResolveKey(rec.HighestLayer, pos)
	if err != nil {
		return nil, err
	}
	layerID, err := r.Keymap.LayerIDAt(rec.HighestLayer)
	if err != nil {
		return nil, err
	}

	return SingleEvent{
		Key:      key,
		Keycode:  rec.Keycode,
		Layer:    layerID,
		TapCount: rec.TapCount,
	}, nil
}

func (r *Resolver) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}
