package suite

import "fmt"

// AdaptationError reports a suite entry that cannot become a test case.
type AdaptationError struct {
	Index  int
	Name   string
	Reason string
}

func (e *AdaptationError) Error() string {
	return fmt.Sprintf("suite entry %d (%q): %s", e.Index, e.Name, e.Reason)
}

// PanicError wraps a non-error value a test body panicked with.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
