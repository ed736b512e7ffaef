// nul.go - a logger that discards everything
//
// Copyright 2009 The Go Authors. All rights reserved.
//
// Changes Copyright 2012, Sudhi Herle <sudhi -at- herle.net>
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relog

// NewNullLogger returns a Logger wired to discard every record: level
// threshold Off and console output disabled. It shares the same type
// as every other Logger (no separate no-op implementation is needed,
// since Off already short-circuits before any formatting work happens)
// — the rendition of the teacher's "NONE" destination and emptyLogger.
func NewNullLogger() *Logger {
	l := NewLogger(RuntimeThread)
	l.SetLevel(Off)
	l.SetConsole(false)
	return l
}
