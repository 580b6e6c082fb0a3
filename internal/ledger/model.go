package ledger

import (
	"github.com/susu3304/seisan/internal/allocation"
	"github.com/susu3304/seisan/internal/money"
	"github.com/susu3304/seisan/internal/settlement"
)

// Period is one open settlement period for a group. Everything in it is
// transient; persistence belongs to the caller.
type Period struct {
	GroupID      string
	Active       bool
	Participants map[string]*Participant
	Invoices     []Invoice
	Payments     []Payment
	Tasks        []Task
}

// Participant tracks one member's running owed/paid totals for the
// period. MonthlyIncome is the normalized gross income used by
// income-proportional allocation; zero means not eligible.
type Participant struct {
	ID            string
	MonthlyIncome money.Amount
	Owed          money.Amount
	Paid          money.Amount
}

// Invoice is one allocated charge against the period.
type Invoice struct {
	ID     string
	Total  money.Amount
	Shares []allocation.Share
}

// Payment is money a participant put in. With beneficiaries set it is an
// expense: the amount is charged to the beneficiaries and credited to the
// payer. Without beneficiaries it only credits the payer.
type Payment struct {
	ID            string
	PayerID       string
	Amount        money.Amount
	Memo          string
	Beneficiaries []string
}

// Task is one transfer of the settlement plan, completable by members.
type Task struct {
	From      string
	To        string
	Amount    money.Amount
	Completed bool
}

// SettleResult carries the computed plan plus a printable summary.
type SettleResult struct {
	Transfers []settlement.Transfer
	Summary   string
}
