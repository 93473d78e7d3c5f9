package keylog

import (
	"strings"
	"testing"
)

func TestReadRecords(t *testing.T) {
	input := strings.Join([]string{
		"0x0001,3,4,0,1,0x00,0x00,1",
		"COMBO,NA,NA,0,0,0,0,6",
	}, "\n")

	records, err := ReadRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Keycode != "0x0001" || first.Row != "3" || first.Col != "4" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.Pressed != 1 || first.TapCount != 1 {
		t.Fatalf("unexpected first record fields: %+v", first)
	}
	if first.IsCombo() {
		t.Fatalf("regular record classified as combo")
	}

	combo := records[1]
	if !combo.IsCombo() {
		t.Fatalf("combo record not classified as combo")
	}
	if combo.TapCount != 6 {
		t.Fatalf("expected combo index 6, got %d", combo.TapCount)
	}
}

func TestReadRecordsFieldCount(t *testing.T) {
	_, err := ReadRecords(strings.NewReader("0x0001,3,4,0,1\n"))
	if err == nil {
		t.Fatalf("expected an error for a short record")
	}
}

func TestReadRecordsBadInteger(t *testing.T) {
	input := strings.Join([]string{
		"0x0001,3,4,0,1,0x00,0x00,1",
		"0x0001,3,4,0,yes,0x00,0x00,1",
	}, "\n")

	_, err := ReadRecords(strings.NewReader(input))
	if err == nil {
		t.Fatalf("expected an error for a non-numeric field")
	}
	recErr, ok := err.(*RecordError)
	if !ok {
		t.Fatalf("expected a RecordError, got %T", err)
	}
	if recErr.Line != 2 || recErr.Field != "pressed" {
		t.Fatalf("unexpected error location: %+v", recErr)
	}
}
