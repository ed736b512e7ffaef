package relog

import (
	"strings"
	"testing"
)

func TestValidateFileOptionRejectsEmptyFilename(t *testing.T) {
	err := validateFileOption(NewSizeCut("", 1024, 1, false))
	if err == nil {
		t.Fatalf("expected an error for an empty filename")
	}
	if !strings.Contains(err.Error(), "filename") {
		t.Fatalf("expected the error to mention the filename problem, got %q", err.Error())
	}
}

func TestValidateFileOptionRejectsZeroSizeCap(t *testing.T) {
	if err := validateFileOption(NewSizeCut("app.log", 0, 1, false)); err == nil {
		t.Fatalf("expected size-cut with max size 0 to be rejected")
	}
}

func TestValidateFileOptionRejectsNegativeMaxBackups(t *testing.T) {
	if err := validateFileOption(NewTimeCut("app.log", UnitDay, -1, false)); err == nil {
		t.Fatalf("expected negative max backups to be rejected")
	}
}

func TestValidateFileOptionAcceptsWellFormedPolicies(t *testing.T) {
	cases := []FileOption{
		NewSizeCut("app.log", 1024, 2, true),
		NewTimeCut("app.log", UnitHour, 0, false),
		NewMixedCut("app.log", 1024, UnitMonth, 5, true),
	}
	for _, fo := range cases {
		if err := validateFileOption(fo); err != nil {
			t.Fatalf("unexpected error for %+v: %s", fo, err)
		}
	}
}

func TestSetCutModeBySizeRejectsInvalidPolicy(t *testing.T) {
	l := NewLogger(RuntimeThread)
	defer l.Close()

	if _, err := l.SetCutModeBySize("", 1024, 1, false); err == nil {
		t.Fatalf("expected SetCutModeBySize to surface the validation error")
	}
}
