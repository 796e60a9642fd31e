package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type buildCounter struct {
	mu     sync.Mutex
	builds int
	errs   int
}

func (c *buildCounter) onBuild(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.builds++
	if err != nil {
		c.errs++
	}
}

func (c *buildCounter) count() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds, c.errs
}

func startWatch(t *testing.T, files []string, build BuildFunc, c *buildCounter) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, files, build, Options{Debounce: 20 * time.Millisecond, OnBuild: c.onBuild})
	}()
	eventually(t, 2*time.Second, 10*time.Millisecond, func() bool {
		n, _ := c.count()
		return n >= 1
	}, "initial build did not run")
	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)
	return cancel, done
}

func TestWatch_RebuildsOnWrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "README.md")
	tmpl := filepath.Join(dir, "template.html")
	for _, p := range []string{src, tmpl} {
		if err := os.WriteFile(p, []byte("v1"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c := &buildCounter{}
	cancel, done := startWatch(t, []string{src, tmpl}, func(context.Context) error { return nil }, c)
	defer cancel()

	if err := os.WriteFile(src, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		n, _ := c.count()
		return n >= 2
	}, "write to source did not trigger a rebuild")

	before, _ := c.count()
	if err := os.WriteFile(tmpl, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		n, _ := c.count()
		return n > before
	}, "write to template did not trigger a rebuild")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() returned %v after cancel, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch() did not return after cancel")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "README.md")
	if err := os.WriteFile(src, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &buildCounter{}
	cancel, _ := startWatch(t, []string{src}, func(context.Context) error { return nil }, c)
	defer cancel()

	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("out"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if n, _ := c.count(); n != 1 {
		t.Errorf("builds = %d, want 1 (unrelated file must not trigger)", n)
	}
}

func TestWatch_BuildErrorKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "README.md")
	if err := os.WriteFile(src, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &buildCounter{}
	failing := func(context.Context) error { return errors.New("broken template") }
	cancel, _ := startWatch(t, []string{src}, failing, c)
	defer cancel()

	if err := os.WriteFile(src, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		n, _ := c.count()
		return n >= 2
	}, "watcher stopped after a failed build")

	if _, errs := c.count(); errs < 2 {
		t.Errorf("errors reported = %d, want >= 2", errs)
	}
}

func TestWatch_Errors(t *testing.T) {
	t.Parallel()

	noop := func(context.Context) error { return nil }

	if err := Watch(context.Background(), nil, noop, Options{}); !errors.Is(err, ErrNoFiles) {
		t.Errorf("Watch(nil files) error = %v, want ErrNoFiles", err)
	}

	missing := filepath.Join(t.TempDir(), "nope", "README.md")
	if err := Watch(context.Background(), []string{missing}, noop, Options{}); err == nil {
		t.Error("Watch() with missing directory should fail")
	}
}
