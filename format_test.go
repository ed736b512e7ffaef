package relog

import (
	re "regexp"
	"testing"
)

func TestRenderRecordNanoIsRawUnchanged(t *testing.T) {
	got := renderRecord(Nano, DefaultFormatter, Info, "", 0, "hello", nil)
	if got != "hello" {
		t.Fatalf("Nano format should return the message unchanged, got %q", got)
	}

	got = renderRecord(Nano, DefaultFormatter, Info, "", 0, "hello\n", nil)
	if got != "hello\n" {
		t.Fatalf("Nano format should not alter a message that already ends in a newline, got %q", got)
	}
}

func TestRenderRecordCustomTemplate(t *testing.T) {
	tmpl := "{level}|{message}"
	got := renderRecord(LevelFlag, tmpl, Error, "", 0, "boom", nil)
	if got != "[ERROR]|boom" {
		t.Fatalf("custom template mismatch: got %q", got)
	}
}

func TestRenderRecordUnknownPlaceholderDropped(t *testing.T) {
	tmpl := "{bogus}{message}"
	got := renderRecord(Nano|LevelFlag, tmpl, Info, "", 0, "x", nil)
	if got != "x" {
		t.Fatalf("unknown placeholder should be dropped silently, got %q", got)
	}
}

func TestRenderRecordUnbalancedBraceTolerated(t *testing.T) {
	tmpl := "{message} trailing {open"
	got := renderRecord(Date, tmpl, Info, "", 0, "x", nil)
	if got != "x trailing {open" {
		t.Fatalf("unbalanced trailing brace should be emitted literally, got %q", got)
	}
}

func TestRenderRecordShortFileNameWins(t *testing.T) {
	got := renderRecord(ShortFileName|LongFileName, DefaultFormatter, Info, "/a/b/c/foo.go", 42, "m", nil)
	if !re.MustCompile(`foo\.go 42`).MatchString(got) {
		t.Fatalf("expected short file name to win when both bits set, got %q", got)
	}
	if re.MustCompile(`/a/b/c/foo\.go`).MatchString(got) {
		t.Fatalf("long path leaked through despite ShortFileName also being set: %q", got)
	}
}

func TestRenderRecordAttrOverrides(t *testing.T) {
	attr := &AttrFormat{
		LevelRender: func(l Level) string { return "<<" + l.String() + ">>" },
	}
	got := renderRecord(LevelFlag, DefaultFormatter, Warn, "", 0, "m", attr)
	if !re.MustCompile(`<<WARN>>`).MatchString(got) {
		t.Fatalf("custom LevelRender not applied: %q", got)
	}
}
