package script

import "fmt"

// Error codes for suite loading.
const (
	ErrCodeRead           = "E201" // file unreadable
	ErrCodeParse          = "E202" // malformed YAML or CUE, unknown field
	ErrCodeInvalidStep    = "E203" // step shape or kind
	ErrCodeUnknownFixture = "E204" // eval names a fixture the registry lacks
	ErrCodeUnknownStub    = "E205" // step names an undeclared stub
	ErrCodeUnknownTest    = "E206" // run names a test that does not exist
	ErrCodeCycle          = "E207" // load cycle
	ErrCodeUnsupported    = "E208" // unknown file extension
	ErrCodeRunCycle       = "E209" // run steps reach a test already running
)

// LoadError reports a problem with a suite file.
type LoadError struct {
	Path    string
	Line    int // 0 when unknown
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.Path, e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
}
