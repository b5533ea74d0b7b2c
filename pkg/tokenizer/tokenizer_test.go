package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenizeSimple(t *testing.T) {
	got := New("-l 10 -A 1600000000").All()
	want := []string{"-l", "10", "-A", "1600000000"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTokenizeQuoted(t *testing.T) {
	got := New(`-r "www example.com" -t A`).All()
	want := []string{"-r", "www example.com", "-t", "A"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	got := New("   ").All()
	if len(got) != 0 {
		t.Errorf("expected no tokens, got %v", got)
	}
}

func TestSplitPath(t *testing.T) {
	got := SplitPath("rrset/name/example.com/A")
	want := []string{"rrset", "name", "example.com", "A"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
