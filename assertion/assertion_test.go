package assertion_test

import (
	"testing"

	"github.com/lookbusy1344/qasm-assert-debugger/assertion"
)

func TestParseEntanglement(t *testing.T) {
	a, err := assertion.Parse("assert-ent q[0], q[1];")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a.Kind != assertion.KindEntanglement {
		t.Errorf("Kind = %v, want KindEntanglement", a.Kind)
	}
	if len(a.Targets) != 2 || a.Targets[0] != "q[0]" || a.Targets[1] != "q[1]" {
		t.Errorf("Targets = %v", a.Targets)
	}
}

func TestParseSuperposition(t *testing.T) {
	a, err := assertion.Parse("assert-sup q[0]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a.Kind != assertion.KindSuperposition {
		t.Errorf("Kind = %v, want KindSuperposition", a.Kind)
	}
}

func TestParseEqualityDefaultThreshold(t *testing.T) {
	a, err := assertion.Parse("assert-eq q[0], q[1] { 1,0,0,0 };")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a.Threshold != assertion.DefaultThreshold {
		t.Errorf("Threshold = %v, want default %v", a.Threshold, assertion.DefaultThreshold)
	}
	if len(a.Amplitudes) != 4 {
		t.Fatalf("expected 4 amplitudes, got %d", len(a.Amplitudes))
	}
	if real(a.Amplitudes[0]) != 1 {
		t.Errorf("Amplitudes[0] = %v, want 1", a.Amplitudes[0])
	}
}

func TestParseEqualityExplicitThreshold(t *testing.T) {
	a, err := assertion.Parse("assert-eq 0.9, q[0], q[1] { 1,0,0,0 };")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a.Threshold != 0.9 {
		t.Errorf("Threshold = %v, want 0.9", a.Threshold)
	}
}

func TestParseEqualityCircuitBody(t *testing.T) {
	a, err := assertion.Parse("assert-eq q[0] { qreg r[1]; h r[0]; };")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a.Body != assertion.BodyCircuit {
		t.Errorf("Body = %v, want BodyCircuit", a.Body)
	}
}

func TestParseComplexAmplitudeForms(t *testing.T) {
	a, err := assertion.Parse("assert-eq q[0] { 0.5+0.5i, 0.5-0.5i };")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := a.Amplitudes
	want := []complex128{complex(0.5, 0.5), complex(0.5, -0.5)}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Amplitudes[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestValidateThresholdOutOfRange(t *testing.T) {
	a := &assertion.Assertion{Kind: assertion.KindEquality, Targets: []string{"q[0]"}, Threshold: 1.5, Body: assertion.BodyStatevector, Amplitudes: []complex128{1, 0}}
	if err := assertion.Validate(a); err == nil {
		t.Error("expected error for threshold > 1")
	}
}

func TestValidateStateVectorLengthMismatch(t *testing.T) {
	a := &assertion.Assertion{Kind: assertion.KindEquality, Targets: []string{"q[0]", "q[1]"}, Threshold: 1, Body: assertion.BodyStatevector, Amplitudes: []complex128{1, 0}}
	if err := assertion.Validate(a); err == nil {
		t.Error("expected error for amplitude/target count mismatch")
	}
}

func TestUnfoldTargetsExpandsWholeRegister(t *testing.T) {
	sizes := map[string]int{"q": 3}
	lookup := func(name string) (int, bool) { sz, ok := sizes[name]; return sz, ok }

	out, err := assertion.UnfoldTargets([]string{"q"}, lookup, nil)
	if err != nil {
		t.Fatalf("UnfoldTargets: %v", err)
	}
	want := []string{"q[0]", "q[1]", "q[2]"}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %q, want %q", i, out[i], want[i])
		}
	}
}

func TestUnfoldTargetsRespectsShadowing(t *testing.T) {
	lookup := func(name string) (int, bool) { return 0, false }
	shadowed := map[string]bool{"q": true}

	out, err := assertion.UnfoldTargets([]string{"q"}, lookup, shadowed)
	if err != nil {
		t.Fatalf("UnfoldTargets: %v", err)
	}
	if len(out) != 1 || out[0] != "q" {
		t.Errorf("shadowed parameter should pass through unexpanded, got %v", out)
	}
}
