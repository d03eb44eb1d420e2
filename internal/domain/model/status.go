package model

type SubmissionStatus string

const (
	StatusSubmitted          SubmissionStatus = "SUBMITTED"
	StatusCompiling          SubmissionStatus = "COMPILING"
	StatusCompilationSuccess SubmissionStatus = "COMPILATION_SUCCESS"
	StatusCompilationError   SubmissionStatus = "COMPILATION_ERROR"
	StatusLinterPassed       SubmissionStatus = "LINTER_PASSED"
	StatusLinterFailed       SubmissionStatus = "LINTER_FAILED"
	StatusWrongAnswer        SubmissionStatus = "WRONG_ANSWER"
	StatusAccepted           SubmissionStatus = "ACCEPTED"
	StatusTimeLimitExceeded  SubmissionStatus = "TIME_LIMIT_EXCEEDED"
	StatusOutOfMemoryError   SubmissionStatus = "OUT_OF_MEMORY_ERROR"
)

// AllStatuses lists every status the grading pipeline declares.
var AllStatuses = []SubmissionStatus{
	StatusSubmitted,
	StatusCompiling,
	StatusCompilationSuccess,
	StatusCompilationError,
	StatusLinterPassed,
	StatusLinterFailed,
	StatusWrongAnswer,
	StatusAccepted,
	StatusTimeLimitExceeded,
	StatusOutOfMemoryError,
}

// Variant is the display colour category of a status badge.
type Variant string

const (
	VariantSuccess   Variant = "success"
	VariantDanger    Variant = "danger"
	VariantSecondary Variant = "secondary"
	VariantDefault   Variant = "dark"
)

func (s SubmissionStatus) Known() bool {
	for _, st := range AllStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Variant never fails: unknown values get VariantDefault.
func (s SubmissionStatus) Variant() Variant {
	switch s {
	case StatusAccepted, StatusCompilationSuccess, StatusLinterPassed:
		return VariantSuccess
	case StatusCompilationError, StatusWrongAnswer, StatusTimeLimitExceeded,
		StatusOutOfMemoryError, StatusLinterFailed:
		return VariantDanger
	case StatusSubmitted:
		return VariantSecondary
	default:
		return VariantDefault
	}
}

// expectedNext is advisory. The grading server owns the real state machine
// and nothing here rejects an update that does not match it.
var expectedNext = map[SubmissionStatus][]SubmissionStatus{
	StatusSubmitted:          {StatusCompiling},
	StatusCompiling:          {StatusCompilationSuccess, StatusCompilationError},
	StatusCompilationSuccess: {StatusLinterPassed, StatusLinterFailed},
	StatusLinterPassed:       {StatusWrongAnswer, StatusAccepted, StatusTimeLimitExceeded, StatusOutOfMemoryError},
}

// CanFollow reports whether next is an expected successor of prev. A
// repeated status counts as expected.
func CanFollow(prev, next SubmissionStatus) bool {
	if prev == next {
		return true
	}
	for _, st := range expectedNext[prev] {
		if st == next {
			return true
		}
	}
	return false
}

// chartColors is the fixed palette of the statistics chart.
var chartColors = map[SubmissionStatus]string{
	StatusAccepted:           "#4caf50",
	StatusWrongAnswer:        "#f44336",
	StatusTimeLimitExceeded:  "#ff9800",
	StatusCompilationError:   "#2196f3",
	StatusOutOfMemoryError:   "#9c27b0",
	StatusLinterFailed:       "#795548",
	StatusLinterPassed:       "#8bc34a",
	StatusCompilationSuccess: "#00bcd4",
	StatusCompiling:          "#ffc107",
	StatusSubmitted:          "#9e9e9e",
}

const fallbackChartColor = "#607d8b"

func (s SubmissionStatus) ChartColor() string {
	if c, ok := chartColors[s]; ok {
		return c
	}
	return fallbackChartColor
}
