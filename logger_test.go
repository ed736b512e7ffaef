package relog

import (
	"bytes"
	"os"
	re "regexp"
	"sync"
	"testing"
	"time"
)

// redirectConsole swaps os.Stdout for a pipe for the duration of fn and
// returns everything written to it. Sinks write straight to os.Stdout,
// so tests that need to inspect rendered output capture it this way
// rather than constructing a fake sink.
func redirectConsole(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %s", err)
	}
	orig := os.Stdout
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		var b [4096]byte
		for {
			n, err := r.Read(b[:])
			if n > 0 {
				buf.Write(b[:n])
			}
			if err != nil {
				close(done)
				return
			}
		}
	}()

	fn()

	os.Stdout = orig
	w.Close()
	<-done
	return buf.String()
}

func TestLevelFiltering(t *testing.T) {
	out := redirectConsole(t, func() {
		l := NewLogger(RuntimeThread)
		l.SetPrintMode(Punctual)
		l.SetLevel(Warn)
		l.Debug("should not appear")
		l.Warn("should appear")
		l.Close()
	})

	if re.MustCompile(`should not appear`).MatchString(out) {
		t.Fatalf("debug record leaked past a Warn threshold: %q", out)
	}
	if !re.MustCompile(`should appear`).MatchString(out) {
		t.Fatalf("warn record missing from output: %q", out)
	}
}

func TestSeparatorJoin(t *testing.T) {
	out := redirectConsole(t, func() {
		l := NewLogger(RuntimeThread)
		l.SetPrintMode(Punctual)
		l.SetSeparator(" | ")
		l.Info("a", "b", 3)
		l.Close()
	})

	if !re.MustCompile(`a \| b \| 3`).MatchString(out) {
		t.Fatalf("separator join not applied: %q", out)
	}
}

func TestDefaultFormatterShape(t *testing.T) {
	out := redirectConsole(t, func() {
		l := NewLogger(RuntimeThread)
		l.SetPrintMode(Punctual)
		l.SetFormat(LevelFlag | Date | Time)
		l.Info("hello")
		l.Close()
	})

	// spec.md §8 property #6: the space before the file slot belongs to
	// the default template's fixed literal text, so it still appears
	// (followed directly by the colon) even when no file bit is set.
	pat := `\[INFO\] [0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}:[0-9]{2} :hello\n`
	if !re.MustCompile(pat).MatchString(out) {
		t.Fatalf("default-format line didn't match %q: got %q", pat, out)
	}
}

func TestPunctualTotalOrdering(t *testing.T) {
	out := redirectConsole(t, func() {
		l := NewLogger(RuntimeThread)
		l.SetPrintMode(Punctual)
		// Nano returns the message verbatim with no added terminator
		// (spec.md §4.4), so it can't be used to count well-formed
		// lines here; LevelFlag alone still guarantees one "\n" per
		// record via the default formatter, without the cost of
		// capturing file/line.
		l.SetFormat(LevelFlag)

		var wg sync.WaitGroup
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					l.Info("w", n)
				}
			}(i)
		}
		wg.Wait()
		l.Close()
	})

	lines := 0
	for _, b := range out {
		if b == '\n' {
			lines++
		}
	}
	if lines != 60 {
		t.Fatalf("expected 60 interleaved-but-complete lines under Punctual mode, got %d", lines)
	}
}

func TestCustomFilterDrops(t *testing.T) {
	out := redirectConsole(t, func() {
		l := NewLogger(RuntimeThread)
		l.SetPrintMode(Punctual)
		l.SetFormat(Nano)
		l.SetCustomFilter(func(ctx LogContext) bool {
			return ctx.Body != "drop-me"
		})
		l.Info("drop-me")
		l.Info("keep-me")
		l.Close()
	})

	if re.MustCompile(`drop-me`).MatchString(out) {
		t.Fatalf("custom filter failed to drop a record: %q", out)
	}
	if !re.MustCompile(`keep-me`).MatchString(out) {
		t.Fatalf("custom filter dropped a record it should have kept: %q", out)
	}
}

func TestNamedModuleSuppression(t *testing.T) {
	out := redirectConsole(t, func() {
		root := NewLogger(RuntimeThread)
		root.SetPrintMode(Punctual)
		root.SetFormat(Nano)
		root.SetLevel(Info)

		noisy := root.Named("noisy")
		off := Off
		if _, err := root.SetModuleOption("noisy", LogOption{Level: &off}); err != nil {
			t.Fatalf("SetModuleOption: %s", err)
		}

		noisy.Info("should be suppressed")
		root.Info("should appear")
		root.Close()
	})

	if re.MustCompile(`should be suppressed`).MatchString(out) {
		t.Fatalf("module override failed to suppress noisy submodule: %q", out)
	}
	if !re.MustCompile(`should appear`).MatchString(out) {
		t.Fatalf("root logger output missing: %q", out)
	}
}

func TestNewNullLoggerDiscardsEverything(t *testing.T) {
	out := redirectConsole(t, func() {
		l := NewNullLogger()
		l.SetPrintMode(Punctual)
		l.Fatal("never seen")
		l.Close()
	})
	if len(out) != 0 {
		t.Fatalf("null logger produced output: %q", out)
	}
}

func TestConcurrentDelayMode(t *testing.T) {
	l := NewLogger(RuntimeThread)
	l.SetConsole(false)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				l.Info("go-%d log %d", n, j)
				time.Sleep(time.Microsecond)
			}
		}(i)
	}
	wg.Wait()
	if err := l.Close(); err != nil {
		t.Fatalf("close: %s", err)
	}
}
