package keylog

import "fmt"

// RecordError reports a malformed log record. The whole batch fails;
// silently dropping a record would corrupt every count downstream.
type RecordError struct {
	Line  int
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("keylog line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("keylog line %d: bad %s: %v", e.Line, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
