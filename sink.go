package relog

import (
	"context"
	"errors"
	"os"
)

// sink multiplexes one rendered record to console and/or a file
// segment writer. It is the Go rendition of
// original_source/src/handle.rs::Handler/Handle (spec.md's FHandler).
// A sink never holds more than one file writer; "sync" vs "async"
// delivery (spec.md §4.6/§5) is expressed here by honoring ctx
// cancellation at each suspension point rather than by swapping in a
// different writer type, since Go has one I/O model under both
// substrates (see SPEC_FULL.md §6.7).
type sink struct {
	console bool
	file    *fileSegmentWriter
}

// write emits rendered to console (if enabled) and to the attached file
// writer (if any). attr, if non-nil, supplies the owning Logger's
// console-only body renderer (spec.md §4.6: "A distinct
// body_render_console may be applied only on the console branch"). An
// error on one sink never short-circuits the other; both are joined and
// returned so a caller with an error hook can see both failures.
func (s *sink) write(ctx context.Context, console bool, rendered string, attr *AttrFormat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var errList []error

	if console {
		body := rendered
		if attr != nil && attr.BodyRenderConsole != nil {
			body = attr.BodyRenderConsole(rendered)
		}
		if _, err := os.Stdout.WriteString(body); err != nil {
			errList = append(errList, err)
		}
	}

	if s.file != nil {
		if err := s.file.Write([]byte(rendered)); err != nil {
			errList = append(errList, err)
		}
	}

	return errors.Join(errList...)
}

// hasFile reports whether this sink has a file writer attached; a
// convenience for tests exercising a bare sink.
func (s *sink) hasFile() bool { return s.file != nil }
