package main

import (
	"os"
	"testing"
	"time"
)

func TestDefaultDeps(t *testing.T) {
	t.Parallel()

	deps := DefaultDeps()

	before := time.Now()
	if got := deps.Now(); got.Before(before) {
		t.Errorf("Now() = %v, want >= %v", got, before)
	}
	if deps.Stdout != os.Stdout {
		t.Error("Stdout should be os.Stdout")
	}
	if deps.Stderr != os.Stderr {
		t.Error("Stderr should be os.Stderr")
	}
	if deps.Getenv == nil || deps.Environ == nil {
		t.Error("Getenv and Environ must be set")
	}
}
