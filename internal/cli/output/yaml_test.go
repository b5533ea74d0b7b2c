package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintYAML(t *testing.T) {
	data := struct {
		Name  string `yaml:"name"`
		Value int    `yaml:"value"`
	}{
		Name:  "test",
		Value: 42,
	}

	var buf bytes.Buffer
	if err := PrintYAML(&buf, data); err != nil {
		t.Fatalf("PrintYAML failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "name: test") || !strings.Contains(out, "value: 42") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestPrintYAMLArray(t *testing.T) {
	data := []struct {
		Name string `yaml:"name"`
	}{
		{Name: "a"},
		{Name: "b"},
	}

	var buf bytes.Buffer
	if err := PrintYAML(&buf, data); err != nil {
		t.Fatalf("PrintYAML failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "- name: a") || !strings.Contains(out, "- name: b") {
		t.Errorf("unexpected output: %q", out)
	}
}
