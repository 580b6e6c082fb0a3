package allocation

import (
	"fmt"
	"sort"

	"github.com/susu3304/seisan/internal/money"
)

// Split runs the policy named by req.Policy. Unknown tags and policies
// invoked without their rule set fail with ErrUnsupportedPolicy.
func Split(total money.Amount, req Request) ([]Share, error) {
	switch req.Policy {
	case PolicyPercent:
		if len(req.PercentRules) == 0 {
			return nil, fmt.Errorf("%w: percent policy requires percent rules", ErrUnsupportedPolicy)
		}
		return SplitByPercent(total, req.PercentRules)
	case PolicyIncome:
		if len(req.Participants) == 0 {
			return nil, fmt.Errorf("%w: income policy requires participants", ErrUnsupportedPolicy)
		}
		return SplitByIncome(total, req.Participants)
	case PolicyFixed:
		if req.Remainder == "" {
			return nil, fmt.Errorf("%w: fixed policy requires a remainder policy", ErrUnsupportedPolicy)
		}
		return SplitFixed(total, req.FixedRules, req.Remainder, req.Participants)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPolicy, req.Policy)
	}
}

// SplitByPercent distributes total across the rules with the
// largest-remainder method: each rule gets floor(total*bp/10000), then the
// leftover minor units go one each to the rules with the largest
// fractional part, ties broken by ascending participant id. The output
// preserves rule order and sums to total exactly.
func SplitByPercent(total money.Amount, rules []PercentRule) ([]Share, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: negative total %d", ErrInvalidRule, total)
	}
	seen := make(map[string]struct{}, len(rules))
	var bpSum int64
	for _, r := range rules {
		if r.BasisPoints < 0 {
			return nil, fmt.Errorf("%w: negative percentage for %s", ErrInvalidRule, r.ParticipantID)
		}
		if _, dup := seen[r.ParticipantID]; dup {
			return nil, fmt.Errorf("%w: duplicate participant %s", ErrInvalidRule, r.ParticipantID)
		}
		seen[r.ParticipantID] = struct{}{}
		bpSum += r.BasisPoints
	}
	if bpSum != money.BasisPointsTotal {
		return nil, fmt.Errorf("%w: rules don't sum to 10000 (got %d)", ErrInvalidRule, bpSum)
	}

	amounts := make([]money.Amount, len(rules))
	fracs := make([]int64, len(rules))
	var floorSum money.Amount
	for i, r := range rules {
		exact := int64(total) * r.BasisPoints
		amounts[i] = money.Amount(exact / money.BasisPointsTotal)
		fracs[i] = exact % money.BasisPointsTotal
		floorSum += amounts[i]
	}

	// 0 <= leftover < len(rules); hand the extra units to the largest
	// fractional parts first.
	leftover := int(total - floorSum)
	order := make([]int, len(rules))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if fracs[i] != fracs[j] {
			return fracs[i] > fracs[j]
		}
		return rules[i].ParticipantID < rules[j].ParticipantID
	})
	for k := 0; k < leftover; k++ {
		amounts[order[k]]++
	}

	shares := make([]Share, len(rules))
	for i, r := range rules {
		shares[i] = Share{
			ParticipantID: r.ParticipantID,
			Amount:        amounts[i],
			Explanation: fmt.Sprintf("%s of %s = %s",
				money.FormatBasisPoints(r.BasisPoints), money.Format(total), money.Format(amounts[i])),
		}
	}
	return shares, nil
}

// SplitByIncome distributes total proportionally to each participant's
// monthly income. Participants with income <= 0 are excluded. The income
// ratios are converted to basis points with half-up rounding and the
// accumulated rounding error is written onto the first eligible
// participant, then the percent split does the actual distribution.
func SplitByIncome(total money.Amount, participants []IncomeParticipant) ([]Share, error) {
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p.ParticipantID]; dup {
			return nil, fmt.Errorf("%w: duplicate participant %s", ErrInvalidRule, p.ParticipantID)
		}
		seen[p.ParticipantID] = struct{}{}
	}

	var eligible []IncomeParticipant
	var incomeSum money.Amount
	for _, p := range participants {
		if p.MonthlyIncome > 0 {
			eligible = append(eligible, p)
			incomeSum += p.MonthlyIncome
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleParticipants
	}

	rules := make([]PercentRule, len(eligible))
	var bpSum int64
	for i, p := range eligible {
		bp := (int64(p.MonthlyIncome)*money.BasisPointsTotal + int64(incomeSum)/2) / int64(incomeSum)
		rules[i] = PercentRule{ParticipantID: p.ParticipantID, BasisPoints: bp}
		bpSum += bp
	}
	// The whole correction lands on the first eligible participant.
	rules[0].BasisPoints += money.BasisPointsTotal - bpSum

	shares, err := SplitByPercent(total, rules)
	if err != nil {
		return nil, err
	}
	for i := range shares {
		shares[i].Explanation = fmt.Sprintf("income %s of %s (%s) = %s",
			money.Format(eligible[i].MonthlyIncome), money.Format(incomeSum),
			money.FormatBasisPoints(rules[i].BasisPoints), money.Format(shares[i].Amount))
	}
	return shares, nil
}

// SplitFixed deducts the fixed amounts first and distributes the rest
// under the remainder policy. Every participant appears exactly once in
// the output, including those with a zero share.
func SplitFixed(total money.Amount, fixed []FixedRule, remainder RemainderPolicy, participants []IncomeParticipant) ([]Share, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: negative total %d", ErrInvalidRule, total)
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: no participants", ErrInvalidRule)
	}
	known := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := known[p.ParticipantID]; dup {
			return nil, fmt.Errorf("%w: duplicate participant %s", ErrInvalidRule, p.ParticipantID)
		}
		known[p.ParticipantID] = struct{}{}
	}

	fixedBy := make(map[string]money.Amount, len(fixed))
	var fixedSum money.Amount
	for _, f := range fixed {
		if f.Amount < 0 {
			return nil, fmt.Errorf("%w: negative fixed amount for %s", ErrInvalidRule, f.ParticipantID)
		}
		if _, ok := known[f.ParticipantID]; !ok {
			return nil, fmt.Errorf("%w: fixed rule for unknown participant %s", ErrInvalidRule, f.ParticipantID)
		}
		if _, dup := fixedBy[f.ParticipantID]; dup {
			return nil, fmt.Errorf("%w: duplicate fixed rule for %s", ErrInvalidRule, f.ParticipantID)
		}
		fixedBy[f.ParticipantID] = f.Amount
		fixedSum += f.Amount
	}
	if fixedSum > total {
		return nil, fmt.Errorf("%w: %s > %s", ErrFixedExceedsTotal, money.Format(fixedSum), money.Format(total))
	}

	rest := total - fixedSum
	restBy := make(map[string]money.Amount, len(participants))
	if rest > 0 {
		switch remainder {
		case RemainderEqual:
			// Floor division; the leftover units go to the first ids in
			// ascending order.
			ids := make([]string, 0, len(participants))
			for _, p := range participants {
				ids = append(ids, p.ParticipantID)
			}
			sort.Strings(ids)
			n := money.Amount(len(ids))
			base := rest / n
			extra := int(rest - base*n)
			for i, id := range ids {
				restBy[id] = base
				if i < extra {
					restBy[id]++
				}
			}
		case RemainderByIncome:
			shares, err := SplitByIncome(rest, participants)
			if err != nil {
				return nil, err
			}
			for _, s := range shares {
				restBy[s.ParticipantID] = s.Amount
			}
		default:
			return nil, fmt.Errorf("%w: unknown remainder policy %q", ErrUnsupportedPolicy, remainder)
		}
	}

	out := make([]Share, len(participants))
	for i, p := range participants {
		f := fixedBy[p.ParticipantID]
		r := restBy[p.ParticipantID]
		s := Share{ParticipantID: p.ParticipantID, Amount: f + r}
		switch {
		case f > 0 && r > 0:
			s.Explanation = fmt.Sprintf("fixed %s + remainder %s = %s",
				money.Format(f), money.Format(r), money.Format(f+r))
		case f > 0:
			s.Explanation = fmt.Sprintf("fixed %s", money.Format(f))
		case r > 0:
			s.Explanation = fmt.Sprintf("remainder share %s", money.Format(r))
		default:
			s.Explanation = "no share"
		}
		out[i] = s
	}
	return out, nil
}
