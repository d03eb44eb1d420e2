package model

import "testing"

func TestStatusVariant(t *testing.T) {
	tests := []struct {
		status SubmissionStatus
		want   Variant
	}{
		{StatusAccepted, VariantSuccess},
		{StatusCompilationSuccess, VariantSuccess},
		{StatusLinterPassed, VariantSuccess},
		{StatusCompilationError, VariantDanger},
		{StatusWrongAnswer, VariantDanger},
		{StatusTimeLimitExceeded, VariantDanger},
		{StatusOutOfMemoryError, VariantDanger},
		{StatusLinterFailed, VariantDanger},
		{StatusSubmitted, VariantSecondary},
		{StatusCompiling, VariantDefault},
		{"RUNTIME_ERROR", VariantDefault},
		{"", VariantDefault},
	}
	for _, tt := range tests {
		if got := tt.status.Variant(); got != tt.want {
			t.Errorf("%q.Variant() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestAllStatusesKnown(t *testing.T) {
	if len(AllStatuses) != 10 {
		t.Fatalf("len(AllStatuses) = %d, want 10", len(AllStatuses))
	}
	for _, s := range AllStatuses {
		if !s.Known() {
			t.Errorf("%q.Known() = false", s)
		}
		if s.ChartColor() == fallbackChartColor {
			t.Errorf("%q has no chart colour of its own", s)
		}
	}
	if SubmissionStatus("PENDING").Known() {
		t.Error("PENDING reported as known")
	}
	if got := SubmissionStatus("PENDING").ChartColor(); got != fallbackChartColor {
		t.Errorf("unknown status colour = %q, want %q", got, fallbackChartColor)
	}
}

func TestCanFollow(t *testing.T) {
	tests := []struct {
		prev, next SubmissionStatus
		want       bool
	}{
		{StatusSubmitted, StatusCompiling, true},
		{StatusCompiling, StatusCompilationError, true},
		{StatusCompilationSuccess, StatusLinterFailed, true},
		{StatusLinterPassed, StatusAccepted, true},
		{StatusAccepted, StatusAccepted, true},
		{StatusAccepted, StatusCompiling, false},
		{StatusSubmitted, StatusAccepted, false},
		{"UNKNOWN", StatusSubmitted, false},
	}
	for _, tt := range tests {
		if got := CanFollow(tt.prev, tt.next); got != tt.want {
			t.Errorf("CanFollow(%s, %s) = %v, want %v", tt.prev, tt.next, got, tt.want)
		}
	}
}
