// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dateguard

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// dateLayout is the only accepted literal form.
const dateLayout = "2006-01-02"

// strictPattern gates parsing: exactly 4-2-2 digits, nothing else.
var strictPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Default validation windows, in days relative to today.
const (
	DefaultMaxFutureDays = 1
	DefaultMaxPastDays   = 7
)

// DefaultBlacklist lists literals known to be copied into documents by
// mistake (stale examples, template placeholders).
var DefaultBlacklist = []string{"2025-01-15"}

// GuardOption is a functional option for configuring Guard.
type GuardOption func(*Guard)

// Guard validates date literals destined for documentation.
//
// # Description
//
// Guard runs each literal through a fixed pipeline: emptiness, blacklist,
// strict format, calendar validity, and range against the current day.
// The first failing check decides the result. Validation never returns an
// error; a failed check yields a Result carrying the failure, a suggested
// replacement, and a recommended action.
//
// # Thread Safety
//
// Guard is immutable after construction and safe for concurrent use.
type Guard struct {
	now           func() time.Time
	blacklist     map[string]struct{}
	maxFutureDays int
	maxPastDays   int
	scanExts      map[string]struct{}
	ignoreGlobs   []string
	logger        *slog.Logger
}

// NewGuard creates a Guard with the given options.
//
// Default configuration:
//   - clock: time.Now
//   - blacklist: DefaultBlacklist
//   - future window: DefaultMaxFutureDays
//   - past window: DefaultMaxPastDays
//   - scan extensions: DefaultScanExtensions
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{
		now:           time.Now,
		blacklist:     make(map[string]struct{}, len(DefaultBlacklist)),
		maxFutureDays: DefaultMaxFutureDays,
		maxPastDays:   DefaultMaxPastDays,
		scanExts:      make(map[string]struct{}, len(DefaultScanExtensions)),
		logger:        slog.Default(),
	}
	for _, d := range DefaultBlacklist {
		g.blacklist[d] = struct{}{}
	}
	for _, ext := range DefaultScanExtensions {
		g.scanExts[strings.ToLower(ext)] = struct{}{}
	}

	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithClock replaces the time source. Used by tests to pin "today".
func WithClock(now func() time.Time) GuardOption {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

// WithBlacklist replaces the known-bad literal list.
func WithBlacklist(dates ...string) GuardOption {
	return func(g *Guard) {
		g.blacklist = make(map[string]struct{}, len(dates))
		for _, d := range dates {
			g.blacklist[strings.TrimSpace(d)] = struct{}{}
		}
	}
}

// WithFutureWindow sets how many days ahead of today a date may sit.
func WithFutureWindow(days int) GuardOption {
	return func(g *Guard) {
		if days >= 0 {
			g.maxFutureDays = days
		}
	}
}

// WithPastWindow sets how many days behind today a date may sit.
func WithPastWindow(days int) GuardOption {
	return func(g *Guard) {
		if days >= 0 {
			g.maxPastDays = days
		}
	}
}

// WithScanExtensions replaces the file-extension allowlist used by
// ScanProject.
func WithScanExtensions(exts ...string) GuardOption {
	return func(g *Guard) {
		g.scanExts = make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			g.scanExts[strings.ToLower(ext)] = struct{}{}
		}
	}
}

// WithIgnoreGlobs sets doublestar patterns excluded from ScanProject.
func WithIgnoreGlobs(globs ...string) GuardOption {
	return func(g *Guard) {
		g.ignoreGlobs = globs
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Validate checks one date literal. The first failing check wins.
//
// # Inputs
//
//   - date: The literal to check. Surrounding whitespace is ignored.
//
// # Outputs
//
//   - Result: Verdict, failure flags, suggested replacement, and action.
//     Never panics; invalid input is a negative Result, not an error.
func (g *Guard) Validate(date string) Result {
	trimmed := strings.TrimSpace(date)
	today := g.today()

	if trimmed == "" {
		return Result{
			Value:     trimmed,
			Message:   "date is empty",
			Suggested: today.Format(dateLayout),
			Action:    ActionUseSystemDate,
		}
	}

	if _, bad := g.blacklist[trimmed]; bad {
		return Result{
			Value:     trimmed,
			Message:   fmt.Sprintf("date %s is on the known-bad list", trimmed),
			Suggested: today.Format(dateLayout),
			Action:    ActionUseSystemDate,
			Flags:     FlagBlacklistedDate,
		}
	}

	if !strictPattern.MatchString(trimmed) {
		return Result{
			Value:     trimmed,
			Message:   fmt.Sprintf("date %q is not in YYYY-MM-DD form", trimmed),
			Suggested: today.Format(dateLayout),
			Action:    ActionUseSystemDate,
			Flags:     FlagInvalidFormat,
		}
	}
	// Parse in the clock's location so day-window comparisons line up
	// with local midnight rather than UTC.
	parsed, err := time.ParseInLocation(dateLayout, trimmed, today.Location())
	if err != nil {
		return Result{
			Value:     trimmed,
			Message:   fmt.Sprintf("date %s is not a real calendar date", trimmed),
			Suggested: today.Format(dateLayout),
			Action:    ActionUseSystemDate,
			Flags:     FlagInvalidFormat,
		}
	}

	if parsed.After(today.AddDate(0, 0, g.maxFutureDays)) {
		return Result{
			Value:     trimmed,
			Message:   fmt.Sprintf("date %s is more than %d day(s) in the future", trimmed, g.maxFutureDays),
			Suggested: today.Format(dateLayout),
			Action:    ActionUseSystemDate,
			Flags:     FlagTooFarInFuture,
		}
	}
	if parsed.Before(today.AddDate(0, 0, -g.maxPastDays)) {
		// Past dates may be intentional (historical entries), so this
		// routes to a human rather than silent replacement.
		return Result{
			Value:     trimmed,
			Message:   fmt.Sprintf("date %s is more than %d day(s) in the past", trimmed, g.maxPastDays),
			Suggested: today.Format(dateLayout),
			Action:    ActionConfirmWithUser,
			Flags:     FlagTooFarInPast,
		}
	}

	return Result{
		Valid:  true,
		Value:  trimmed,
		Action: ActionUseAsIs,
	}
}

// ValidateForAI validates a date on behalf of an automated writer,
// adjusting only the recommended action for failures: routine updates
// always resolve to the system date, release-type operations always
// escalate to a human. The verdict itself never changes.
func (g *Guard) ValidateForAI(date string, op OperationType) Result {
	res := g.Validate(date)
	if res.Valid {
		return res
	}
	if op.isRelease() {
		res.Action = ActionConfirmWithUser
	} else {
		res.Action = ActionUseSystemDate
	}
	return res
}

// ValidatedCurrentDate returns today's date as a validated literal.
//
// The system date is run through the same pipeline; should it ever fail
// (a blacklisted today, for instance), the fall back is direct numeric
// formatting of year/month/day. Never returns an empty or malformed
// value.
func (g *Guard) ValidatedCurrentDate() string {
	now := g.now()
	formatted := now.Format(dateLayout)
	if res := g.Validate(formatted); res.Valid {
		return formatted
	}

	g.logger.Warn("system date failed validation, using direct formatting", "date", formatted)
	return fmt.Sprintf("%04d-%02d-%02d", now.Year(), int(now.Month()), now.Day())
}

// today truncates the clock to midnight local time.
func (g *Guard) today() time.Time {
	now := g.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
