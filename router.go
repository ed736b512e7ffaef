package relog

import "sync"

// router holds the three layered configuration tables spec.md §4.5
// describes and resolves, for each record, the correct sink and
// formatting to use. It is the Go rendition of
// original_source/src/handle.rs::Handle generalized with the module
// trie and per-level override table spec.md adds on top of the
// teacher's single Handler.
type router struct {
	mu sync.RWMutex

	base logOptionConst

	primaryFilename string
	primarySink     *sink

	secondarySinks map[string]*sink

	modules *moduleTrie[moduleBinding]
	levels  [int(levelMax)]*levelBinding // indexed by Level-1
}

func newRouter() *router {
	defLevel := Debug
	defFormat := LevelFlag | Date | Time | ShortFileName
	defConsole := true
	return &router{
		base: logOptionConst{
			level:   &defLevel,
			format:  &defFormat,
			console: &defConsole,
		},
		secondarySinks: make(map[string]*sink),
		modules:        newModuleTrie[moduleBinding](),
	}
}

// resolved is the per-record projection the formatter and sink
// selection consume.
type resolved struct {
	level     Level
	format    Format
	formatter string
	console   bool
	target    *sink
}

// resolve applies module override, then level override, then base, in
// that precedence order, and selects the sink the record should be
// written through.
func (r *router) resolve(module string, level Level) resolved {
	r.mu.RLock()
	defer r.mu.RUnlock()

	merged := r.base
	var filename string

	if lb := r.levels[level-1]; lb != nil {
		merged = overlay(merged, lb.opts)
		if lb.filename != "" {
			filename = lb.filename
		}
	}

	if mv := r.modules.Lookup(module); mv != nil {
		merged = overlay(merged, mv.opts)
		if mv.filename != "" {
			filename = mv.filename
		}
	}

	out := resolved{
		level:     Debug,
		format:    LevelFlag | Date | Time | ShortFileName,
		formatter: DefaultFormatter,
		console:   true,
	}
	if merged.level != nil {
		out.level = *merged.level
	}
	if merged.format != nil {
		out.format = *merged.format
	}
	if merged.formatter != nil {
		out.formatter = *merged.formatter
	}
	if merged.console != nil {
		out.console = *merged.console
	}

	out.target = r.primarySink
	if filename != "" && filename != r.primaryFilename {
		if s, ok := r.secondarySinks[filename]; ok {
			out.target = s
		}
	}

	return out
}

// overlay returns base with any non-nil field in top applied on top of
// it — the per-field "Some(_) overrides" rule from spec.md's data
// model.
func overlay(base, top logOptionConst) logOptionConst {
	if top.level != nil {
		base.level = top.level
	}
	if top.format != nil {
		base.format = top.format
	}
	if top.formatter != nil {
		base.formatter = top.formatter
	}
	if top.console != nil {
		base.console = top.console
	}
	return base
}

// threshold returns the resolved level threshold for module, without
// resolving format, formatter, console or sink. Logger.Loggable (and
// through it SlogHandler.Enabled) uses it; Logger.log filters on the
// level of its one full resolve() call instead.
func (r *router) threshold(module string, level Level) Level {
	r.mu.RLock()
	defer r.mu.RUnlock()

	th := Debug
	if r.base.level != nil {
		th = *r.base.level
	}
	if lb := r.levels[level-1]; lb != nil && lb.opts.level != nil {
		th = *lb.opts.level
	}
	if mv := r.modules.Lookup(module); mv != nil && mv.opts.level != nil {
		th = *mv.opts.level
	}
	return th
}

func (r *router) setBase(o LogOption) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.base = overlay(r.base, constFromOption(o))
}

func (r *router) setModuleOption(pattern string, o LogOption) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filename string
	if o.FileOption != nil {
		filename = o.FileOption.Filename
	}
	r.modules.Insert(pattern, moduleBinding{opts: constFromOption(o), filename: filename})
}

func (r *router) setLevelOption(level Level, o LogOption) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filename string
	if o.FileOption != nil {
		filename = o.FileOption.Filename
	}
	r.levels[level-1] = &levelBinding{opts: constFromOption(o), filename: filename}
}

func (r *router) setPrimarySink(filename string, s *sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.primaryFilename = filename
	r.primarySink = s
}

func (r *router) setSecondarySink(filename string, s *sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secondarySinks[filename] = s
}
