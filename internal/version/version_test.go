package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	orig := Commit
	defer func() { Commit = orig }()

	Commit = "0123456789abcdef"
	got := String()
	if !strings.HasPrefix(got, "ncirc dev (commit: 0123456,") {
		t.Errorf("unexpected version string %q", got)
	}

	Commit = "abc"
	if got := String(); !strings.Contains(got, "commit: abc,") {
		t.Errorf("short commit should be kept whole, got %q", got)
	}
}
