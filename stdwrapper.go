// stdwrapper.go - wrapper around this logger to make it compatible
// with stdlib log.Logger.
//
// Changes Copyright 2012, Sudhi Herle <sudhi -at- herle.net>
// This code is licensed under the same terms as the golang core.

package relog

import (
	stdlog "log"
)

// StdLogger returns a *log.Logger backed by this Logger: every write
// stdlib's Logger makes is routed, unformatted, through this Logger's
// delivery pipeline, since the stdlib Logger has already applied its
// own prefix and flags to the bytes. The flag translation is taken
// from the format resolved at Info for the module path of the Logger
// on which this method first runs, and the result is cached for the
// lifetime of the core (shared by every Named child).
func (l *Logger) StdLogger() *stdlog.Logger {
	if g := l.c.stdlogger.Load(); g != nil {
		return g
	}

	res := l.c.router.resolve(l.module, Info)
	fl := stdlog.LUTC
	if res.format&Date != 0 {
		fl |= stdlog.Ldate
	}
	if res.format&Time != 0 {
		fl |= stdlog.Ltime
	}
	if res.format&Microseconds != 0 {
		fl |= stdlog.Lmicroseconds
	}
	if res.format&LongFileName != 0 {
		fl |= stdlog.Llongfile
	} else if res.format&ShortFileName != 0 {
		fl |= stdlog.Lshortfile
	}

	g := stdlog.New(l, "", fl)
	if !l.c.stdlogger.CompareAndSwap(nil, g) {
		g = l.c.stdlogger.Load()
	}
	return g
}

// Write implements io.Writer so a Logger can back a stdlib *log.Logger
// (via StdLogger) or any other writer-based API. Bytes are delivered
// as-is, bypassing level filtering and formatting — the caller already
// decided this line is worth writing.
func (l *Logger) Write(b []byte) (int, error) {
	res := l.c.router.resolve(l.module, Info)
	l.deliver(res, string(b))
	return len(b), nil
}

// vim: ft=go:sw=8:ts=8:noexpandtab:tw=98:
