package dateguard

import (
	"testing"
	"time"
)

// fixedClock pins "today" to 2026-03-10 for deterministic window checks.
func fixedClock() time.Time {
	return time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC)
}

func newTestGuard(opts ...GuardOption) *Guard {
	all := append([]GuardOption{WithClock(fixedClock)}, opts...)
	return NewGuard(all...)
}

func TestValidate(t *testing.T) {
	g := newTestGuard()

	tests := []struct {
		name       string
		date       string
		wantValid  bool
		wantFlags  Flag
		wantAction Action
	}{
		{
			name:       "empty",
			date:       "",
			wantValid:  false,
			wantAction: ActionUseSystemDate,
		},
		{
			name:       "whitespace only",
			date:       "   ",
			wantValid:  false,
			wantAction: ActionUseSystemDate,
		},
		{
			name:       "blacklisted",
			date:       "2025-01-15",
			wantValid:  false,
			wantFlags:  FlagBlacklistedDate,
			wantAction: ActionUseSystemDate,
		},
		{
			name:       "slash separators",
			date:       "2026/03/10",
			wantValid:  false,
			wantFlags:  FlagInvalidFormat,
			wantAction: ActionUseSystemDate,
		},
		{
			name:       "day first",
			date:       "10-03-2026",
			wantValid:  false,
			wantFlags:  FlagInvalidFormat,
			wantAction: ActionUseSystemDate,
		},
		{
			name:       "missing zero padding",
			date:       "2026-3-1",
			wantValid:  false,
			wantFlags:  FlagInvalidFormat,
			wantAction: ActionUseSystemDate,
		},
		{
			name:       "not a date at all",
			date:       "soon",
			wantValid:  false,
			wantFlags:  FlagInvalidFormat,
			wantAction: ActionUseSystemDate,
		},
		{
			name:       "impossible calendar day",
			date:       "2026-02-30",
			wantValid:  false,
			wantFlags:  FlagInvalidFormat,
			wantAction: ActionUseSystemDate,
		},
		{
			name:       "month thirteen",
			date:       "2026-13-01",
			wantValid:  false,
			wantFlags:  FlagInvalidFormat,
			wantAction: ActionUseSystemDate,
		},
		{
			name:       "today",
			date:       "2026-03-10",
			wantValid:  true,
			wantAction: ActionUseAsIs,
		},
		{
			name:       "tomorrow within window",
			date:       "2026-03-11",
			wantValid:  true,
			wantAction: ActionUseAsIs,
		},
		{
			name:       "two days ahead",
			date:       "2026-03-12",
			wantValid:  false,
			wantFlags:  FlagTooFarInFuture,
			wantAction: ActionUseSystemDate,
		},
		{
			name:       "four hundred days ahead",
			date:       "2027-04-14",
			wantValid:  false,
			wantFlags:  FlagTooFarInFuture,
			wantAction: ActionUseSystemDate,
		},
		{
			name:       "seven days back within window",
			date:       "2026-03-03",
			wantValid:  true,
			wantAction: ActionUseAsIs,
		},
		{
			name:       "eight days back",
			date:       "2026-03-02",
			wantValid:  false,
			wantFlags:  FlagTooFarInPast,
			wantAction: ActionConfirmWithUser,
		},
		{
			name:       "thirty days back",
			date:       "2026-02-08",
			wantValid:  false,
			wantFlags:  FlagTooFarInPast,
			wantAction: ActionConfirmWithUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Validate(tt.date)
			if res.Valid != tt.wantValid {
				t.Errorf("Validate(%q).Valid = %v, want %v (message: %s)", tt.date, res.Valid, tt.wantValid, res.Message)
			}
			if res.Flags != tt.wantFlags {
				t.Errorf("Validate(%q).Flags = %v, want %v", tt.date, res.Flags, tt.wantFlags)
			}
			if res.Action != tt.wantAction {
				t.Errorf("Validate(%q).Action = %v, want %v", tt.date, res.Action, tt.wantAction)
			}
			if !tt.wantValid {
				if res.Message == "" {
					t.Errorf("Validate(%q) invalid without a message", tt.date)
				}
				if res.Suggested != "2026-03-10" {
					t.Errorf("Validate(%q).Suggested = %q, want today", tt.date, res.Suggested)
				}
			}
		})
	}
}

func TestValidateTrimsInput(t *testing.T) {
	g := newTestGuard()
	res := g.Validate("  2026-03-10  ")
	if !res.Valid {
		t.Fatalf("trimmed date rejected: %s", res.Message)
	}
	if res.Value != "2026-03-10" {
		t.Errorf("Value = %q, want trimmed literal", res.Value)
	}
}

func TestValidateCustomWindows(t *testing.T) {
	g := newTestGuard(WithFutureWindow(0), WithPastWindow(0))

	if res := g.Validate("2026-03-10"); !res.Valid {
		t.Errorf("today rejected with zero windows: %s", res.Message)
	}
	if res := g.Validate("2026-03-11"); res.Valid || !res.Flags.Has(FlagTooFarInFuture) {
		t.Errorf("tomorrow accepted with zero future window: %+v", res)
	}
	if res := g.Validate("2026-03-09"); res.Valid || !res.Flags.Has(FlagTooFarInPast) {
		t.Errorf("yesterday accepted with zero past window: %+v", res)
	}
}

func TestValidateCustomBlacklist(t *testing.T) {
	g := newTestGuard(WithBlacklist("2026-03-09"))

	if res := g.Validate("2026-03-09"); res.Valid || !res.Flags.Has(FlagBlacklistedDate) {
		t.Errorf("custom blacklist entry accepted: %+v", res)
	}
	// The default entry is replaced, so it now fails on range, not blacklist.
	if res := g.Validate("2025-01-15"); res.Flags.Has(FlagBlacklistedDate) {
		t.Errorf("replaced blacklist still flags default entry: %+v", res)
	}
}

func TestValidateForAI(t *testing.T) {
	g := newTestGuard()

	tests := []struct {
		name       string
		date       string
		op         OperationType
		wantValid  bool
		wantAction Action
	}{
		{"routine failure", "2026-02-01", OperationRoutineUpdate, false, ActionUseSystemDate},
		{"release failure", "2026-02-01", OperationRelease, false, ActionConfirmWithUser},
		{"release subtype failure", "bogus", OperationType("release_notes"), false, ActionConfirmWithUser},
		{"future failure routine", "2026-12-31", OperationRoutineUpdate, false, ActionUseSystemDate},
		{"future failure release", "2026-12-31", OperationRelease, false, ActionConfirmWithUser},
		{"valid routine", "2026-03-10", OperationRoutineUpdate, true, ActionUseAsIs},
		{"valid release", "2026-03-10", OperationRelease, true, ActionUseAsIs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.ValidateForAI(tt.date, tt.op)
			if res.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", res.Valid, tt.wantValid)
			}
			if res.Action != tt.wantAction {
				t.Errorf("Action = %v, want %v", res.Action, tt.wantAction)
			}
		})
	}
}

func TestValidateForAIKeepsVerdictAndFlags(t *testing.T) {
	g := newTestGuard()
	plain := g.Validate("2026-02-01")
	adjusted := g.ValidateForAI("2026-02-01", OperationRelease)

	if adjusted.Valid != plain.Valid || adjusted.Flags != plain.Flags {
		t.Errorf("ValidateForAI changed verdict or flags: %+v vs %+v", adjusted, plain)
	}
}

func TestValidatedCurrentDate(t *testing.T) {
	g := newTestGuard()
	if got := g.ValidatedCurrentDate(); got != "2026-03-10" {
		t.Errorf("ValidatedCurrentDate = %q, want 2026-03-10", got)
	}
}

func TestValidatedCurrentDateFallback(t *testing.T) {
	// Blacklisting today forces the direct-formatting path.
	g := newTestGuard(WithBlacklist("2026-03-10"))
	if got := g.ValidatedCurrentDate(); got != "2026-03-10" {
		t.Errorf("fallback ValidatedCurrentDate = %q, want 2026-03-10", got)
	}
}

func TestFlagBits(t *testing.T) {
	combined := FlagBlacklistedDate | FlagTooFarInPast
	if !combined.Has(FlagBlacklistedDate) || !combined.Has(FlagTooFarInPast) {
		t.Error("combined flags lost a bit")
	}
	if combined.Has(FlagInvalidFormat) {
		t.Error("combined flags gained a bit")
	}
	if got := combined.String(); got != "blacklisted_date|too_far_in_past" {
		t.Errorf("String() = %q", got)
	}
	if got := Flag(0).String(); got != "none" {
		t.Errorf("zero flag String() = %q", got)
	}
}

func TestActionIsValid(t *testing.T) {
	valid := []Action{ActionUseAsIs, ActionUseSystemDate, ActionConfirmWithUser, ActionManualReview}
	for _, a := range valid {
		if !a.IsValid() {
			t.Errorf("%v.IsValid() = false", a)
		}
	}
	if Action("guess").IsValid() {
		t.Error(`Action("guess").IsValid() = true`)
	}
}

func BenchmarkValidate(b *testing.B) {
	g := NewGuard(WithClock(fixedClock))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Validate("2026-03-10")
	}
}
