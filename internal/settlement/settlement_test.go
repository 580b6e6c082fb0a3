package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susu3304/seisan/internal/money"
)

func TestSettleLargestDebtorPaysLargestCreditor(t *testing.T) {
	transfers := Settle([]Balance{
		{ParticipantID: "alice", TotalOwed: 15000, TotalPaid: 0},
		{ParticipantID: "bob", TotalOwed: 0, TotalPaid: 8000},
		{ParticipantID: "carol", TotalOwed: 0, TotalPaid: 7000},
	})
	require.Len(t, transfers, 2)
	assert.Equal(t, Transfer{From: "alice", To: "bob", Amount: 8000}, transfers[0])
	assert.Equal(t, Transfer{From: "alice", To: "carol", Amount: 7000}, transfers[1])
}

func TestSettleWithinToleranceIsSettled(t *testing.T) {
	transfers := Settle([]Balance{
		{ParticipantID: "alice", TotalOwed: 1, TotalPaid: 0},
		{ParticipantID: "bob", TotalOwed: 0, TotalPaid: 1},
	})
	assert.Empty(t, transfers)
}

func TestSettleTieBrokenByAscendingID(t *testing.T) {
	transfers := Settle([]Balance{
		{ParticipantID: "bob", TotalOwed: 10, TotalPaid: 0},
		{ParticipantID: "alice", TotalOwed: 10, TotalPaid: 0},
		{ParticipantID: "carol", TotalOwed: 0, TotalPaid: 20},
	})
	require.Len(t, transfers, 2)
	assert.Equal(t, Transfer{From: "alice", To: "carol", Amount: 10}, transfers[0])
	assert.Equal(t, Transfer{From: "bob", To: "carol", Amount: 10}, transfers[1])
}

func TestSettleTransferCountBound(t *testing.T) {
	balances := []Balance{
		{ParticipantID: "a", TotalOwed: 9000, TotalPaid: 0},
		{ParticipantID: "b", TotalOwed: 2500, TotalPaid: 0},
		{ParticipantID: "c", TotalOwed: 500, TotalPaid: 1500},
		{ParticipantID: "d", TotalOwed: 0, TotalPaid: 6000},
		{ParticipantID: "e", TotalOwed: 0, TotalPaid: 4500},
	}
	transfers := Settle(balances)
	assert.LessOrEqual(t, len(transfers), len(balances)-1)
	for _, tr := range transfers {
		assert.Greater(t, tr.Amount, money.Amount(0))
	}
}

func TestSettleZeroSum(t *testing.T) {
	balances := []Balance{
		{ParticipantID: "a", TotalOwed: 12345, TotalPaid: 0},
		{ParticipantID: "b", TotalOwed: 5432, TotalPaid: 100},
		{ParticipantID: "c", TotalOwed: 0, TotalPaid: 9000},
		{ParticipantID: "d", TotalOwed: 0, TotalPaid: 8677},
	}
	transfers := Settle(balances)

	// Replaying the transfers must bring every participant within
	// Tolerance of zero.
	nets := make(map[string]money.Amount, len(balances))
	for _, b := range balances {
		nets[b.ParticipantID] = b.Net()
	}
	for _, tr := range transfers {
		nets[tr.From] += tr.Amount
		nets[tr.To] -= tr.Amount
	}
	for id, n := range nets {
		assert.LessOrEqual(t, money.Abs(n), Tolerance, "participant %s left unsettled", id)
	}
}

func TestSettleDeterminism(t *testing.T) {
	balances := []Balance{
		{ParticipantID: "a", TotalOwed: 700, TotalPaid: 0},
		{ParticipantID: "b", TotalOwed: 700, TotalPaid: 0},
		{ParticipantID: "c", TotalOwed: 0, TotalPaid: 700},
		{ParticipantID: "d", TotalOwed: 0, TotalPaid: 700},
	}
	first := Settle(balances)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Settle(balances))
	}
}

func TestSettleEdgeCases(t *testing.T) {
	assert.Empty(t, Settle(nil))
	assert.Empty(t, Settle([]Balance{{ParticipantID: "a", TotalOwed: 500, TotalPaid: 500}}))

	// A lone debtor with nobody to pay terminates with no transfers;
	// balanced input is the caller's responsibility.
	assert.Empty(t, Settle([]Balance{{ParticipantID: "a", TotalOwed: 500, TotalPaid: 0}}))
}
