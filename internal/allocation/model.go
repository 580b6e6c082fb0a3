// Package allocation splits an integer total among participants under one
// of three distribution policies. Every policy returns shares that sum to
// the input total exactly, and identical inputs always produce identical
// output, including the placement of leftover minor units.
package allocation

import (
	"errors"

	"github.com/susu3304/seisan/internal/money"
)

// Policy selects the distribution policy for Split.
type Policy string

const (
	PolicyPercent Policy = "PERCENT"
	PolicyIncome  Policy = "INCOME"
	PolicyFixed   Policy = "FIXED"
)

// RemainderPolicy decides how the fixed policy distributes whatever is
// left after fixed deductions.
type RemainderPolicy string

const (
	RemainderEqual    RemainderPolicy = "EQUAL"
	RemainderByIncome RemainderPolicy = "BY_INCOME"
)

// PercentRule assigns a participant a slice of the total in basis points.
// The rules of one call must sum to exactly 10000.
type PercentRule struct {
	ParticipantID string
	BasisPoints   int64
}

// FixedRule assigns a participant a fixed amount before the remainder is
// distributed.
type FixedRule struct {
	ParticipantID string
	Amount        money.Amount
}

// IncomeParticipant is a participant with a monthly gross income,
// normalized to minor units by the caller. Participants with income <= 0
// are excluded from income-proportional splits.
type IncomeParticipant struct {
	ParticipantID string
	MonthlyIncome money.Amount
}

// Share is one participant's computed slice of the total.
type Share struct {
	ParticipantID string
	Amount        money.Amount
	Explanation   string
}

// Request bundles the policy tag with the rule set it needs. Split
// dispatches on the tag; there is exactly one implementation per policy.
type Request struct {
	Policy       Policy
	PercentRules []PercentRule
	FixedRules   []FixedRule
	Remainder    RemainderPolicy
	Participants []IncomeParticipant
}

var (
	// ErrInvalidRule reports a rule set that violates its invariants:
	// percentages that don't sum to 10000, negative values, duplicate
	// participants, and similar shape problems.
	ErrInvalidRule = errors.New("invalid allocation rule")

	// ErrFixedExceedsTotal reports fixed amounts that sum to more than
	// the total being split.
	ErrFixedExceedsTotal = errors.New("fixed amounts exceed total")

	// ErrNoEligibleParticipants reports an income split where no
	// participant has positive income.
	ErrNoEligibleParticipants = errors.New("no participants with positive income")

	// ErrUnsupportedPolicy reports an unknown policy tag or a policy
	// invoked without the rule set it requires.
	ErrUnsupportedPolicy = errors.New("unsupported distribution policy")
)
