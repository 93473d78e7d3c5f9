package layout

import "fmt"

// LookupError reports a reference to a layout element that does not
// exist, typically a log record pointing at a layer, combo, or matrix
// position the parsed keymap doesn't have.
type LookupError struct {
	Element string
	Ref     string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("layout has no %s at %s", e.Element, e.Ref)
}
