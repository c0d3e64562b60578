package harness

// Failure kinds reported in CaseResult.Kind.
const (
	KindComparisonFailure = "comparison_failure"
	KindNoMatchingCall    = "no_matching_call"
	KindPanic             = "panic"
	KindError             = "error"
)

// CaseResult is the outcome of one test case.
type CaseResult struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Pass bool   `json:"pass"`

	// Kind classifies a failure; empty when Pass is true.
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`

	// Expected and Actual are set for comparison failures only.
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

// CallEvent is one call a stub recorded during a run.
type CallEvent struct {
	Seq  int64  `json:"seq"`
	Case string `json:"case"`
	Stub string `json:"stub"`
	Name string `json:"name"`
	Args []any  `json:"args"`
}

// Result is the outcome of running a suite.
type Result struct {
	Suite string `json:"suite"`

	// Path is the suite file for RunFile results, empty otherwise.
	Path string `json:"path,omitempty"`

	RunID string `json:"run_id"`

	// Pass is true when every case passed and the run was not cut short.
	Pass bool `json:"pass"`

	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Total  int `json:"total"`

	Cases []CaseResult `json:"cases"`
	Calls []CallEvent  `json:"calls"`

	// Errors holds problems with the run itself, such as an interruption.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with no cases.
func NewResult(suiteName, runID string) *Result {
	return &Result{
		Suite: suiteName,
		RunID: runID,
		Pass:  true,
		Cases: []CaseResult{},
		Calls: []CallEvent{},
	}
}

// AddError records a run-level problem and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCase appends a case outcome and updates the counters.
func (r *Result) AddCase(c CaseResult) {
	r.Cases = append(r.Cases, c)
	r.Total++
	if c.Pass {
		r.Passed++
		return
	}
	r.Failed++
	r.Pass = false
}

// FailedCases returns the cases that did not pass, in run order.
func (r *Result) FailedCases() []CaseResult {
	var out []CaseResult
	for _, c := range r.Cases {
		if !c.Pass {
			out = append(out, c)
		}
	}
	return out
}
