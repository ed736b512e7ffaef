package relog

// CutMode selects what triggers a file rotation.
type CutMode int

const (
	CutTime CutMode = iota
	CutSize
	CutMixed
)

// TimeUnit is the calendar granularity a CutTime/CutMixed writer rotates
// on. The boundary is crossed when the local hour/day/month component of
// "now" differs from that of the segment's start time — not when a fixed
// duration has elapsed. See DESIGN.md for why DAY is defined this way.
type TimeUnit int

const (
	UnitHour TimeUnit = iota
	UnitDay
	UnitMonth
)

// FileOption is a plain, cloneable rotation policy. Per the redesign
// note in spec.md §9, this replaces the original's trait-object
// FileOption with a single tagged value: no heap indirection is needed
// to switch behavior, just a switch on CutMode.
type FileOption struct {
	CutMode     CutMode
	TimeUnit    TimeUnit
	Filename    string
	MaxSize     uint64 // 0 = no size cap
	MaxBackups  int    // 0 = keep all
	Compress    bool
}

// Clone returns a value copy; FileOption holds no pointers so a plain
// struct copy already satisfies "cloneable", but Clone documents the
// intent at call sites that pass it around as a LogOption field.
func (fo FileOption) Clone() FileOption { return fo }

// NewSizeCut builds a size-triggered rotation policy.
func NewSizeCut(filename string, maxSize uint64, maxBackups int, compress bool) FileOption {
	return FileOption{CutMode: CutSize, Filename: filename, MaxSize: maxSize, MaxBackups: maxBackups, Compress: compress}
}

// NewTimeCut builds a calendar-triggered rotation policy.
func NewTimeCut(filename string, unit TimeUnit, maxBackups int, compress bool) FileOption {
	return FileOption{CutMode: CutTime, TimeUnit: unit, Filename: filename, MaxBackups: maxBackups, Compress: compress}
}

// NewMixedCut builds a policy that rotates on whichever of size or
// calendar boundary comes first.
func NewMixedCut(filename string, maxSize uint64, unit TimeUnit, maxBackups int, compress bool) FileOption {
	return FileOption{CutMode: CutMixed, TimeUnit: unit, Filename: filename, MaxSize: maxSize, MaxBackups: maxBackups, Compress: compress}
}

// LogOption is an optional-field override, applied to the root logger,
// a module-path pattern, or a level binding. A nil field means
// "inherit". Every field is a pointer, so the zero value of the
// underlying type (Format Nano, an empty formatter, console false) can
// still be set explicitly.
type LogOption struct {
	Level      *Level
	Format     *Format
	Formatter  *string
	Console    *bool
	FileOption *FileOption
}

// logOptionConst is the resolved, read-only projection of a LogOption
// stored in the module trie or level-override table: it carries only
// the fields that affect formatting (level/format/formatter/console),
// keeping file routing as a separate filename lookup the router owns —
// this is the "single lookup returns a compact, read-only ModuleConfig"
// redesign from spec.md §9.
type logOptionConst struct {
	level     *Level
	format    *Format
	formatter *string
	console   *bool
}

// moduleBinding is the trie's stored value: the resolved formatting
// override plus the filename (if any) this module routes to.
type moduleBinding struct {
	opts     logOptionConst
	filename string
}

// levelBinding is the per-level override table's stored value.
type levelBinding struct {
	opts     logOptionConst
	filename string
}

// LogContext is handed to a custom filter callback; returning false
// from the callback silently drops the record.
type LogContext struct {
	Level    Level
	Body     string
	Filename string
	Line     int
	Module   string
}

func constFromOption(o LogOption) logOptionConst {
	return logOptionConst{level: o.Level, format: o.Format, formatter: o.Formatter, console: o.Console}
}
