// Package settlement turns per-participant net balances into a short list
// of directed transfers that clears every debt. The matching is greedy:
// the largest debtor always pays the largest creditor next.
package settlement

import (
	"github.com/susu3304/seisan/internal/money"
)

// Tolerance is the balance magnitude, in minor units, below which a
// participant counts as settled. It absorbs the rounding the allocation
// step may leave behind; do not widen it.
const Tolerance money.Amount = 1

// Balance is a participant's owed/paid snapshot for one period. The
// caller must have summed all shares and payments before settling.
type Balance struct {
	ParticipantID string
	TotalOwed     money.Amount
	TotalPaid     money.Amount
}

// Net is paid minus owed. Positive means the participant is owed money.
func (b Balance) Net() money.Amount {
	return b.TotalPaid - b.TotalOwed
}

// Transfer is one directed payment of the settlement plan.
type Transfer struct {
	From   string
	To     string
	Amount money.Amount
}

// Settle computes the transfers that bring every balance within Tolerance
// of zero. Each round fully settles at least one participant, so at most
// len(balances)-1 transfers are returned. When several participants share
// the extreme balance the one with the smallest participant id is chosen,
// which makes the plan deterministic for identical input.
func Settle(balances []Balance) []Transfer {
	nets := make([]money.Amount, len(balances))
	for i, b := range balances {
		nets[i] = b.Net()
	}

	var transfers []Transfer
	for {
		debtor, creditor := -1, -1
		for i, n := range nets {
			if n < -Tolerance && (debtor < 0 || n < nets[debtor] ||
				(n == nets[debtor] && balances[i].ParticipantID < balances[debtor].ParticipantID)) {
				debtor = i
			}
			if n > Tolerance && (creditor < 0 || n > nets[creditor] ||
				(n == nets[creditor] && balances[i].ParticipantID < balances[creditor].ParticipantID)) {
				creditor = i
			}
		}
		if debtor < 0 || creditor < 0 {
			break
		}

		amount := -nets[debtor]
		if nets[creditor] < amount {
			amount = nets[creditor]
		}
		transfers = append(transfers, Transfer{
			From:   balances[debtor].ParticipantID,
			To:     balances[creditor].ParticipantID,
			Amount: amount,
		})
		nets[debtor] += amount
		nets[creditor] -= amount
	}
	return transfers
}
