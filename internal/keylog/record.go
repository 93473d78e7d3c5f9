// Package keylog interprets raw firmware keystroke logs against a
// layout model and computes ergonomic statistics: per-key and
// per-finger frequency and same-finger bigram detection.
package keylog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// comboKeycode marks a combo activation row in the log.
const comboKeycode = "COMBO"

// RawRecord is one line of the firmware log. Row and Col stay strings
// because combo rows carry sentinel markers instead of coordinates.
// For combo rows TapCount is the combo index.
type RawRecord struct {
	Keycode      string
	Row          string
	Col          string
	HighestLayer int
	Pressed      int
	Mods         string
	OneshotMods  string
	TapCount     int
}

// IsCombo reports whether the record is a combo activation.
func (r RawRecord) IsCombo() bool {
	return r.Keycode == comboKeycode
}

// ReadRecords parses the headerless comma-delimited log format: eight
// fields per line, see RawRecord.
func ReadRecords(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 8

	var records []RawRecord
	line := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		line++
		if err != nil {
			return nil, &RecordError{Line: line, Err: err}
		}

		rec := RawRecord{
			Keycode:     fields[0],
			Row:         fields[1],
			Col:         fields[2],
			Mods:        fields[5],
			OneshotMods: fields[6],
		}
		if rec.HighestLayer, err = strconv.Atoi(fields[3]); err != nil {
			return nil, &RecordError{Line: line, Field: "highest_layer", Err: err}
		}
		if rec.Pressed, err = strconv.Atoi(fields[4]); err != nil {
			return nil, &RecordError{Line: line, Field: "pressed", Err: err}
		}
		if rec.TapCount, err = strconv.Atoi(fields[7]); err != nil {
			return nil, &RecordError{Line: line, Field: "tap_count", Err: err}
		}
		records = append(records, rec)
	}
}

// ReadRecordsFile reads and parses a log file.
func ReadRecordsFile(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keylog: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of a read-only file.
			_ = cerr
		}
	}()
	return ReadRecords(f)
}
