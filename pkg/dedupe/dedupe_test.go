package dedupe

import "testing"

func TestAddReportsFirstOccurrenceOnly(t *testing.T) {
	s := New()
	if !s.Add("a") {
		t.Error("first add of a value should report true")
	}
	if s.Add("a") {
		t.Error("second add of the same value should report false")
	}
	if !s.Add("b") {
		t.Error("first add of a distinct value should report true")
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 distinct values, got %d", s.Len())
	}
}
