package relog

import (
	stderrors "errors"

	errs "github.com/agilira/go-errors"
)

// Configuration-time error codes. These never appear on the hot
// (format/route/write) path — only from the builder-style setters that
// validate a FileOption before installing it.
const (
	ErrCodeBadRotation errs.ErrorCode = "RELOG_BAD_ROTATION"
)

// wrapConfigError attaches a coded, inspectable wrapper around a plain
// configuration-validation error, the same errs.Wrap(err, code, msg)
// shape other_examples/…agilira-iris__iris.go.go uses around its own
// buffer/config error surface.
func wrapConfigError(code errs.ErrorCode, msg string) error {
	return errs.Wrap(stderrors.New(msg), code, msg)
}

// validateFileOption checks a FileOption for internal consistency.
// Per spec.md §7, invalid module patterns are accepted silently (they
// simply never match); that rule applies to trie patterns, not to
// rotation parameters, which fail loudly since a broken rotation policy
// would otherwise surface as silent data loss much later.
func validateFileOption(fo FileOption) error {
	if fo.Filename == "" {
		return wrapConfigError(ErrCodeBadRotation, "filename must not be empty")
	}
	if fo.MaxBackups < 0 {
		return wrapConfigError(ErrCodeBadRotation, "max backups must be >= 0")
	}
	switch fo.CutMode {
	case CutSize:
		// MaxSize == 0 legitimately means "no size cap" for a CutMixed
		// writer built by NewMixedCut, but a pure size-cut
		// writer with no cap can never rotate, which is almost always a
		// configuration mistake worth flagging.
		if fo.MaxSize == 0 {
			return wrapConfigError(ErrCodeBadRotation, "size-cut rotation requires max size > 0")
		}
	case CutTime, CutMixed:
		if fo.TimeUnit != UnitHour && fo.TimeUnit != UnitDay && fo.TimeUnit != UnitMonth {
			return wrapConfigError(ErrCodeBadRotation, "unrecognized time unit")
		}
	default:
		return wrapConfigError(ErrCodeBadRotation, "unrecognized cut mode")
	}
	return nil
}
