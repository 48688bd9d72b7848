package models

import "testing"

func TestParseAxisRoundTrip(t *testing.T) {
	for _, axis := range AllAxes() {
		parsed, ok := ParseAxis(axis.Code())
		if !ok || parsed != axis {
			t.Errorf("ParseAxis(%q) = %v, %v", axis.Code(), parsed, ok)
		}
	}
}

func TestParseAxisNormalizes(t *testing.T) {
	if axis, ok := ParseAxis(" g "); !ok || axis != AxisG {
		t.Errorf("Expected lowercase padded code to parse, got %v, %v", axis, ok)
	}
	if _, ok := ParseAxis("X"); ok {
		t.Error("Expected unknown code to fail")
	}
}

func TestAxisNames(t *testing.T) {
	if AxisW.Name() != "Control Lag" {
		t.Errorf("Unexpected name %s", AxisW.Name())
	}
	if Axis(99).Code() != "?" || Axis(-1).Name() != "Unknown" {
		t.Error("Out-of-range axes must degrade gracefully")
	}
}

func TestIsGatekeeper(t *testing.T) {
	q := Question{BranchType: BranchGatekeeper}
	if !q.IsGatekeeper() {
		t.Error("Expected gatekeeper")
	}
	q.BranchType = BranchLinear
	if q.IsGatekeeper() {
		t.Error("Linear question must not gate")
	}
}
