package timeutil

import (
	"math"
	"testing"
	"time"
)

func TestParseTimeArgEpoch(t *testing.T) {
	got, err := ParseTimeArg("1700000000")
	if err != nil {
		t.Fatalf("ParseTimeArg: %v", err)
	}
	if got != 1700000000 {
		t.Errorf("got %d, want 1700000000", got)
	}
}

func TestParseTimeArgRFC3339(t *testing.T) {
	got, err := ParseTimeArg("2023-11-14T22:13:20Z")
	if err != nil {
		t.Fatalf("ParseTimeArg: %v", err)
	}
	if got != 1700000000 {
		t.Errorf("got %d, want 1700000000", got)
	}
}

func TestParseTimeArgRelative(t *testing.T) {
	before := time.Now().Add(-7 * 24 * time.Hour).Unix()
	got, err := ParseTimeArg("1w")
	if err != nil {
		t.Fatalf("ParseTimeArg: %v", err)
	}
	if math.Abs(float64(got-before)) > 5 {
		t.Errorf("got %d, want near %d", got, before)
	}

	got2, err := ParseTimeArg("-3600s")
	if err != nil {
		t.Fatalf("ParseTimeArg: %v", err)
	}
	wantNear := time.Now().Add(-3600 * time.Second).Unix()
	if math.Abs(float64(got2-wantNear)) > 5 {
		t.Errorf("got %d, want near %d", got2, wantNear)
	}
}

func TestParseTimeArgInvalid(t *testing.T) {
	cases := []string{"", "   ", "not-a-time", "1x", "abcd"}
	for _, c := range cases {
		if _, err := ParseTimeArg(c); err == nil {
			t.Errorf("ParseTimeArg(%q) expected error, got nil", c)
		}
	}
}
