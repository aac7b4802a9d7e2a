// Package report implements the run-report aggregator.
//
// Every part of a run records what it did through one Aggregator. The
// aggregator tracks three kinds of context and turns the log lines emitted
// inside them into deduplicated counts that are rendered once, at the end of
// the run.
//
// # Contexts
//
// Headers describe a unit of reporting such as "Step 1: Process downloads".
// They nest: OpenHeader pushes a new definition onto the active stack and
// CloseHeader pops it again. Closing anything but the top header panics.
//
// A scope groups work under one label, typically an album. At most one scope
// is open at a time. While a scope is open every active header counts into
// its own per-scope instance, so a header opened once collects a separate
// count for each album it is active under.
//
// A leaf is the smallest unit of work, typically one file. Log lines emitted
// while a leaf is open increment every active instance at most once per leaf
// id. Verbose lines never count.
//
// # Placeholders
//
// Messages may use {name} tokens resolved immediately from the scope vars and
// the log call's own values, %item% resolved to the open leaf id, and a
// count token (%count% by default) that is only resolved when the report is
// rendered. Headers may not use %item%.
//
// # Faults
//
// Pairing violations and leaf placeholder misuse are programmer errors. They
// panic with a *errors.LibsyncError whose code satisfies errors.IsMisuse and
// are detected before any state changes. Failing to write the report file is
// not fatal: it is logged through Error and the run continues.
//
// An Aggregator is not safe for concurrent use. Concurrent units of work each
// need their own aggregator.
package report
