package relog

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// maxRotationAttempts bounds the search for a free backup name, per
// spec.md §4.3.
const maxRotationAttempts = 1 << 20

// fileSegmentWriter owns one open append-mode file and rotates it by
// elapsed calendar interval, by size, or by both. It is the Go
// rendition of original_source/src/syncfile.rs + handle.rs::FileHandler,
// enriched with an advisory cross-process flock and uuid-named
// compression scratch files (see SPEC_FULL.md §3).
type fileSegmentWriter struct {
	mu sync.Mutex

	opt FileOption

	currentSize      uint64
	segmentStartTime time.Time
	file             *os.File

	lock *flock.Flock // best-effort; a TryLock error is logged and rotation proceeds

	exec *executor
}

func newFileSegmentWriter(opt FileOption, exec *executor) (*fileSegmentWriter, error) {
	if err := validateFileOption(opt); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(opt.Filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	f, err := openAppend(opt.Filename)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &fileSegmentWriter{
		opt:              opt,
		currentSize:      uint64(info.Size()),
		segmentStartTime: info.ModTime(),
		file:             f,
		exec:             exec,
	}

	w.lock = flock.New(opt.Filename + ".lock")

	return w, nil
}

func openAppend(name string) (*os.File, error) {
	return os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// Write appends data, rotating first if the configured policy demands
// it. Rotation failures are swallowed (logged to stderr) and the
// writer keeps appending to the existing segment — the log stream must
// never fail just because rotation failed (spec.md §4.2).
func (w *fileSegmentWriter) Write(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.needsRotation(len(data)) {
		if err := w.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "relog: rotation failed for %s: %s\n", w.opt.Filename, err)
		}
	}

	n, err := w.file.Write(data)
	w.currentSize += uint64(n)
	return err
}

func (w *fileSegmentWriter) needsRotation(extra int) bool {
	switch w.opt.CutMode {
	case CutTime:
		return passedTimeBoundary(w.segmentStartTime, w.opt.TimeUnit)
	case CutSize:
		return w.opt.MaxSize > 0 && w.currentSize+uint64(extra) > w.opt.MaxSize
	case CutMixed:
		return passedTimeBoundary(w.segmentStartTime, w.opt.TimeUnit) ||
			(w.opt.MaxSize > 0 && w.currentSize+uint64(extra) > w.opt.MaxSize)
	}
	return false
}

// passedTimeBoundary reports whether the local hour/day/month component
// of now differs from that of start — not whether a fixed duration has
// elapsed. See spec.md §9's resolution of the "calendar field vs
// elapsed duration" open question.
func passedTimeBoundary(start time.Time, unit TimeUnit) bool {
	now := time.Now()
	switch unit {
	case UnitHour:
		return now.Hour() != start.Hour() || !sameDay(now, start)
	case UnitDay:
		return !sameDay(now, start)
	case UnitMonth:
		return now.Year() != start.Year() || now.Month() != start.Month()
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// rotate renames the active segment out of the way (acquiring the
// advisory cross-process lock for the rename+reopen sequence only),
// reopens a fresh active file, and resets the three rotation
// invariants atomically before returning.
func (w *fileSegmentWriter) rotate() error {
	if w.lock != nil {
		locked, err := w.lock.TryLock()
		if err != nil {
			fmt.Fprintf(os.Stderr, "relog: flock unavailable for %s: %s; rotating without it\n", w.opt.Filename, err)
		} else if locked {
			defer w.lock.Unlock()
		}
	}

	if err := w.file.Close(); err != nil {
		return err
	}

	backupName, err := renameSegment(w.opt.Filename, w.opt.CutMode, w.opt.TimeUnit, w.segmentStartTime)
	if err != nil {
		// reopen the original so the caller can keep writing to it.
		f, reopenErr := openAppend(w.opt.Filename)
		if reopenErr == nil {
			w.file = f
		}
		return err
	}

	f, err := openAppend(w.opt.Filename)
	if err != nil {
		return err
	}
	w.file = f
	w.currentSize = 0
	w.segmentStartTime = time.Now()

	w.exec.submitRotationJob(func() {
		finishRotation(backupName, w.opt)
	})

	return nil
}

// renameSegment performs the synchronous, on-write-path part of a
// rotation: finding the next free backup name and renaming into it.
func renameSegment(active string, mode CutMode, unit TimeUnit, segStart time.Time) (string, error) {
	dir := filepath.Dir(active)
	base := filepath.Base(active)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	var suffix string
	if mode == CutTime || mode == CutMixed {
		suffix = "_" + timeBackupTag(segStart, unit)
	}

	var lastErr error
	for n := 1; n <= maxRotationAttempts; n++ {
		name := fmt.Sprintf("%s%s_%d%s", stem, suffix, n, ext)
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			continue
		}
		if _, err := os.Stat(candidate + ".gz"); err == nil {
			continue
		}
		if err := os.Rename(active, candidate); err != nil {
			lastErr = err
			continue
		}
		return candidate, nil
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", fmt.Errorf("relog: exhausted %d rotation attempts for %s", maxRotationAttempts, active)
}

func timeBackupTag(t time.Time, unit TimeUnit) string {
	switch unit {
	case UnitHour:
		return t.Format("2006010215")
	case UnitMonth:
		return t.Format("200601")
	default: // UnitDay
		return t.Format("20060102")
	}
}

// finishRotation runs off the write path: it compresses the rotated
// segment (if configured) and sweeps old backups past the retention
// cap. Any failure here is logged to stderr; older backups are left in
// place rather than risk deleting something live.
func finishRotation(backupPath string, opt FileOption) {
	if opt.Compress {
		if err := gzipFile(backupPath); err != nil {
			fmt.Fprintf(os.Stderr, "relog: compression failed for %s: %s\n", backupPath, err)
		}
	}
	if opt.MaxBackups > 0 {
		if err := sweepRetention(opt); err != nil {
			fmt.Fprintf(os.Stderr, "relog: retention sweep failed for %s: %s\n", opt.Filename, err)
		}
	}
}

// gzipFile compresses path to path+".gz" via a uuid-named scratch file
// and atomically renames into place, then removes the uncompressed
// original — see SPEC_FULL.md §3 for why a uuid suffix replaces the
// teacher's crypto/rand-derived temp suffix here.
func gzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := path + "." + uuid.NewString() + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := gz.Close(); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	final := path + ".gz"
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Remove(path)
}

// backupNamePattern builds the retention regex from spec.md §4.3:
// ^{stem}(_\d+)*_\d+(\.{ext})?(\.gz)?$
func backupNamePattern(stem, ext string) *regexp.Regexp {
	extPat := ""
	if ext != "" {
		extPat = "(\\" + ext + ")?"
	}
	pat := "^" + regexp.QuoteMeta(stem) + `(_\d+)*_\d+` + extPat + `(\.gz)?$`
	return regexp.MustCompile(pat)
}

// sweepRetention deletes the oldest rotated (and possibly compressed)
// segments once the count exceeds MaxBackups, sorted ascending by mtime.
func sweepRetention(opt FileOption) error {
	dir := filepath.Dir(opt.Filename)
	base := filepath.Base(opt.Filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	re := backupNamePattern(stem, ext)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type backup struct {
		path  string
		mtime time.Time
	}
	var backups []backup
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !re.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{path: filepath.Join(dir, e.Name()), mtime: info.ModTime()})
	}

	sort.Slice(backups, func(i, j int) bool { return backups[i].mtime.Before(backups[j].mtime) })

	if len(backups) <= opt.MaxBackups {
		return nil
	}

	var firstErr error
	for _, b := range backups[:len(backups)-opt.MaxBackups] {
		if err := os.Remove(b.path); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close flushes and closes the active file handle.
func (w *fileSegmentWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
