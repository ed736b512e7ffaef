// Copyright 2009 The Go Authors. All rights reserved.
//
// Changes Copyright 2012, Sudhi Herle <sudhi -at- herle.net>
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relog

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

// levelEnvVar is the environment variable consulted once, at logger
// construction, for the initial level threshold. Later SetLevel calls
// always win.
const levelEnvVar = "RELOG_LEVEL"

// PrintMode selects the delivery pipeline a Logger uses.
type PrintMode int

const (
	// Delay enqueues records to a single background consumer.
	Delay PrintMode = iota
	// Punctual writes inline, serialized by a mutex.
	Punctual
)

// Runtime selects which concurrency substrate a Logger's background
// work (compression, retention) runs under. Go has only goroutines, so
// both substrates compile to goroutines: RuntimeThread hands jobs to a
// fixed worker pool, RuntimeTask spawns one goroutine per job. Record
// delivery is the same under both; every Logger checks its own
// context (cancelled by Close) before each sink write. See
// SPEC_FULL.md §6.7.
type Runtime int

const (
	RuntimeThread Runtime = iota
	RuntimeTask
)

type filterFunc = func(LogContext) bool

// qev is one record enqueued for the DELAY-mode consumer.
type qev struct {
	target   *sink
	console  bool
	rendered string
	attr     *AttrFormat
}

// core holds everything a Logger and its Named() descendants share: one
// instance per independently-constructed Logger, fanned out to every
// sub-logger created from it. This mirrors the teacher's outch (shared
// output channel) split between a parent xLogger and its New()-created
// children.
type core struct {
	router *router
	exec   *executor

	mode atomic.Int32 // PrintMode

	queue  chan qev
	wg     sync.WaitGroup
	closed atomic.Bool

	writeMu sync.Mutex // serializes PUNCTUAL writes

	ctx    context.Context
	cancel context.CancelFunc

	separator atomic.Value // string

	customFilter atomic.Pointer[filterFunc]
	attrFmt      atomic.Pointer[AttrFormat]

	primaryFilename atomic.Value // string

	sinksMu sync.Mutex
	sinks   map[string]*sink // filename -> sink, deduplicates writers

	stdlogger atomic.Pointer[stdlog.Logger]
}

// Logger is the public, routable, rotating, dual-pipeline log handle.
// Independent Logger values are constructed with NewLogger; Named
// produces a lightweight child that shares the parent's sinks, queue
// and configuration but carries its own module path for routing — the
// rendition of the teacher's xLogger.New(prefix, prio) sub-logger.
type Logger struct {
	c      *core
	module string
}

// NewLogger constructs an independent Logger. rt selects the
// concurrency substrate for background rotation work; the delivery
// mode defaults to Delay and can be changed with SetPrintMode.
func NewLogger(rt Runtime) *Logger {
	kind := substrateSync
	if rt == RuntimeTask {
		kind = substrateAsync
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &core{
		router: newRouter(),
		exec:   newExecutor(kind),
		queue:  make(chan qev, 64),
		ctx:    ctx,
		cancel: cancel,
		sinks:  make(map[string]*sink),
	}
	c.mode.Store(int32(Delay))
	c.separator.Store(",")
	c.primaryFilename.Store("")

	if envLevel, ok := os.LookupEnv(levelEnvVar); ok {
		lv := ParseLevel(envLevel)
		c.router.setBase(LogOption{Level: &lv})
	}

	c.router.setPrimarySink("", &sink{console: true})

	l := &Logger{c: c}

	c.wg.Add(1)
	go l.consume()

	return l
}

// Named returns a child Logger that shares this Logger's sinks, queue
// and configuration but is routed under module path name (joined to
// any existing module path with "::", e.g. Named("noisy").Named("sub")
// yields the module path "noisy::sub").
func (l *Logger) Named(name string) *Logger {
	mod := name
	if l.module != "" {
		mod = l.module + "::" + name
	}
	return &Logger{c: l.c, module: mod}
}

func (l *Logger) consume() {
	defer l.c.wg.Done()
	for e := range l.c.queue {
		_ = e.target.write(l.c.ctx, e.console, e.rendered, e.attr)
	}
}

// Close stops accepting new records, drains the DELAY consumer, closes
// all owned file segments, and releases the background executor. Best
// effort: draining on shutdown is not guaranteed crash-safe.
func (l *Logger) Close() error {
	if !l.c.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(l.c.queue)
	l.c.wg.Wait()
	l.c.cancel()
	l.c.exec.close()

	l.c.sinksMu.Lock()
	defer l.c.sinksMu.Unlock()
	var first error
	for _, s := range l.c.sinks {
		if s.file != nil {
			if err := s.file.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// --- configuration setters ---

func (l *Logger) SetPrintMode(mode PrintMode) *Logger {
	l.c.mode.Store(int32(mode))
	return l
}

func (l *Logger) SetLevel(level Level) *Logger {
	l.c.router.setBase(LogOption{Level: &level})
	return l
}

func (l *Logger) SetFormat(f Format) *Logger {
	l.c.router.setBase(LogOption{Format: &f})
	return l
}

func (l *Logger) SetFormatter(tmpl string) *Logger {
	l.c.router.setBase(LogOption{Formatter: &tmpl})
	return l
}

func (l *Logger) SetConsole(on bool) *Logger {
	l.c.router.setBase(LogOption{Console: &on})
	return l
}

func (l *Logger) SetSeparator(sep string) *Logger {
	l.c.separator.Store(sep)
	return l
}

func (l *Logger) SetCustomFilter(f func(LogContext) bool) *Logger {
	if f == nil {
		l.c.customFilter.Store(nil)
		return l
	}
	ff := filterFunc(f)
	l.c.customFilter.Store(&ff)
	return l
}

func (l *Logger) SetAttrFormat(a *AttrFormat) *Logger {
	l.c.attrFmt.Store(a)
	return l
}

// SetCutModeBySize installs a size-triggered rotation policy on the
// primary sink.
func (l *Logger) SetCutModeBySize(filename string, maxSize uint64, maxBackups int, compress bool) (*Logger, error) {
	return l.setCutMode(NewSizeCut(filename, maxSize, maxBackups, compress))
}

// SetCutModeByTime installs a calendar-triggered rotation policy on the
// primary sink.
func (l *Logger) SetCutModeByTime(filename string, unit TimeUnit, maxBackups int, compress bool) (*Logger, error) {
	return l.setCutMode(NewTimeCut(filename, unit, maxBackups, compress))
}

// SetCutModeMixed installs a policy that rotates on whichever of size
// or calendar boundary is reached first.
func (l *Logger) SetCutModeMixed(filename string, maxSize uint64, unit TimeUnit, maxBackups int, compress bool) (*Logger, error) {
	return l.setCutMode(NewMixedCut(filename, maxSize, unit, maxBackups, compress))
}

func (l *Logger) setCutMode(fo FileOption) (*Logger, error) {
	s, err := l.ensureSink(fo)
	if err != nil {
		return l, err
	}
	l.c.primaryFilename.Store(fo.Filename)
	l.c.router.setPrimarySink(fo.Filename, s)
	return l, nil
}

// ensureSink returns the sink for fo.Filename, creating (and caching)
// its file segment writer on first use so multiple overrides naming
// the same file share one writer instance.
func (l *Logger) ensureSink(fo FileOption) (*sink, error) {
	l.c.sinksMu.Lock()
	defer l.c.sinksMu.Unlock()

	if s, ok := l.c.sinks[fo.Filename]; ok {
		return s, nil
	}

	w, err := newFileSegmentWriter(fo, l.c.exec)
	if err != nil {
		return nil, err
	}
	s := &sink{console: true, file: w}
	l.c.sinks[fo.Filename] = s
	return s, nil
}

// SetModuleOption installs a per-module-path override. pattern uses
// "::" separators and may contain "*" wildcard segments. If o carries a
// FileOption naming a file other than the primary sink's, a secondary
// sink is created (or reused) for it.
func (l *Logger) SetModuleOption(pattern string, o LogOption) (*Logger, error) {
	if o.FileOption != nil {
		s, err := l.ensureSink(*o.FileOption)
		if err != nil {
			return l, err
		}
		if o.FileOption.Filename != l.primaryFilename() {
			l.c.router.setSecondarySink(o.FileOption.Filename, s)
		}
	}
	l.c.router.setModuleOption(pattern, o)
	return l, nil
}

// SetLevelOption installs a per-level override, same file-binding rules
// as SetModuleOption.
func (l *Logger) SetLevelOption(level Level, o LogOption) (*Logger, error) {
	if o.FileOption != nil {
		s, err := l.ensureSink(*o.FileOption)
		if err != nil {
			return l, err
		}
		if o.FileOption.Filename != l.primaryFilename() {
			l.c.router.setSecondarySink(o.FileOption.Filename, s)
		}
	}
	l.c.router.setLevelOption(level, o)
	return l, nil
}

func (l *Logger) primaryFilename() string {
	if v := l.c.primaryFilename.Load(); v != nil {
		return v.(string)
	}
	return ""
}

func (l *Logger) separator() string {
	if v := l.c.separator.Load(); v != nil {
		return v.(string)
	}
	return ","
}

// --- record emission ---

func joinArgs(sep string, args []interface{}) string {
	if len(args) == 1 {
		if s, ok := args[0].(string); ok {
			return s
		}
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, sep)
}

// log is the shared hot path for every level method: threshold check,
// conditional file/line capture, format, custom filter, then handoff to
// the delivery pipeline.
func (l *Logger) log(calldepth int, level Level, args ...interface{}) {
	res := l.c.router.resolve(l.module, level)
	if res.level == Off || level < res.level {
		return
	}

	var file string
	var line int
	if res.format&(LongFileName|ShortFileName) != 0 {
		_, f, ln, ok := runtime.Caller(calldepth)
		if ok {
			file, line = f, ln
		}
	}

	msg := joinArgs(l.separator(), args)
	rendered := renderRecord(res.format, res.formatter, level, file, line, msg, l.c.attrFmt.Load())

	if fp := l.c.customFilter.Load(); fp != nil {
		lctx := LogContext{Level: level, Body: msg, Filename: file, Line: line, Module: l.module}
		if !(*fp)(lctx) {
			return
		}
	}

	l.deliver(res, rendered)
}

func (l *Logger) deliver(res resolved, rendered string) {
	attr := l.c.attrFmt.Load()
	switch PrintMode(l.c.mode.Load()) {
	case Punctual:
		l.c.writeMu.Lock()
		defer l.c.writeMu.Unlock()
		_ = res.target.write(l.c.ctx, res.console, rendered, attr)
	default: // Delay
		if !l.c.closed.Load() {
			l.c.queue <- qev{target: res.target, console: res.console, rendered: rendered, attr: attr}
		}
	}
}

// Trace logs at level Trace, joining args with the configured separator.
func (l *Logger) Trace(args ...interface{}) { l.log(2, Trace, args...) }

// Debug logs at level Debug.
func (l *Logger) Debug(args ...interface{}) { l.log(2, Debug, args...) }

// Info logs at level Info.
func (l *Logger) Info(args ...interface{}) { l.log(2, Info, args...) }

// Warn logs at level Warn.
func (l *Logger) Warn(args ...interface{}) { l.log(2, Warn, args...) }

// Error logs at level Error.
func (l *Logger) Error(args ...interface{}) { l.log(2, Error, args...) }

// Fatal logs at level Fatal. Unlike the teacher's Fatal, this does not
// panic or exit: Level's hierarchy treats Fatal as the highest ordinary
// severity, with process termination left to the caller.
func (l *Logger) Fatal(args ...interface{}) { l.log(2, Fatal, args...) }

// Loggable reports whether a record at level would currently be
// emitted for this Logger's module path, without paying for formatting.
func (l *Logger) Loggable(level Level) bool {
	th := l.c.router.threshold(l.module, level)
	return th != Off && level >= th
}

// Module returns this Logger's routing module path ("" for the root).
func (l *Logger) Module() string { return l.module }
