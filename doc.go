// Copyright 2009 The Go Authors. All rights reserved.
//
// Changes Copyright 2012, Sudhi Herle <sudhi -at- herle.net>
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package relog is a routed, rotating, dual-pipeline logging engine.
//
// The list of notable behaviors:
//
//   - Two delivery pipelines, chosen per Logger: Delay sends every
//     record through a single background consumer goroutine over a
//     queue buffered to 64 records (the caller pays only for
//     formatting, and blocks only while that buffer is full); Punctual
//     writes inline under a
//     mutex, giving total ordering across goroutines at the cost of
//     blocking the caller.
//
//   - Records are filtered against an ordered Level hierarchy (Trace
//     through Fatal, plus Off to silence a logger entirely).
//
//   - A Logger can be routed: per-module-path overrides (matched on a
//     "::"-segmented prefix trie with "*" wildcards) and per-level
//     overrides both layer on top of a Logger's base configuration,
//     each overriding only the fields they explicitly set.
//
//   - File-backed sinks rotate by elapsed calendar interval, by size,
//     or by whichever comes first; rotated segments are optionally
//     compressed and swept under a retention cap off the write path.
//
//   - Any Logger can create named sub-loggers sharing the same sinks
//     and delivery pipeline but routed under their own module path —
//     useful in large programs with many independently-tunable
//     components.
//
//   - A Logger can back a stdlib *log.Logger (via StdLogger), an
//     slog.Handler, or a logrus.Hook, so existing code written against
//     any of those facades gets this package's routing and rotation
//     without call-site changes.
package relog
