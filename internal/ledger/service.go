// Package ledger keeps the in-memory state of open settlement periods and
// wires the allocation and settlement engines together: invoices add to
// what participants owe, payments add to what they paid, and closing the
// books turns the difference into transfer tasks.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/susu3304/seisan/internal/allocation"
	"github.com/susu3304/seisan/internal/money"
	"github.com/susu3304/seisan/internal/settlement"
)

var (
	ErrNoPeriod         = errors.New("no open period for this group")
	ErrNotEnoughMembers = errors.New("at least two participants are required")
)

type Service struct {
	mu    sync.Mutex
	store map[string]*Period
}

func NewService() *Service {
	return &Service{store: make(map[string]*Period)}
}

// Open starts a period for the group. Opening an already-open period is a
// no-op; a previously closed group gets a fresh period.
func (s *Service) Open(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.store[groupID]; ok {
		if p.Active {
			return nil
		}
		p.Active = true
		return nil
	}
	s.store[groupID] = &Period{
		GroupID:      groupID,
		Active:       true,
		Participants: make(map[string]*Participant),
	}
	return nil
}

// Close discards the period and all its state.
func (s *Service) Close(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.store[groupID]; !ok {
		return ErrNoPeriod
	}
	delete(s.store, groupID)
	return nil
}

// Join adds a participant with the given monthly income. Joining twice
// keeps the existing record.
func (s *Service) Join(groupID, participantID string, income money.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.active(groupID)
	if err != nil {
		return err
	}
	if _, exists := p.Participants[participantID]; !exists {
		if income < 0 {
			income = 0
		}
		p.Participants[participantID] = &Participant{ID: participantID, MonthlyIncome: income}
	}
	return nil
}

// SetIncome updates a participant's normalized monthly income, joining
// them first if needed. Negative income is clamped to zero. Reports
// whether the participant was newly joined.
func (s *Service) SetIncome(groupID, participantID string, income money.Amount) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.active(groupID)
	if err != nil {
		return false, err
	}
	if income < 0 {
		income = 0
	}
	m, exists := p.Participants[participantID]
	if !exists {
		p.Participants[participantID] = &Participant{ID: participantID, MonthlyIncome: income}
		return true, nil
	}
	m.MonthlyIncome = income
	return false, nil
}

// Members returns the participant ids of the group's open period, sorted.
func (s *Service) Members(groupID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.active(groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(p.Participants))
	for id := range p.Participants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// RecordInvoice allocates total under req and charges each share to its
// participant. For the income and fixed policies the participant set is
// taken from the period roster (sorted by id) when the request leaves it
// empty. Percent rules may name participants not yet in the period; they
// are joined automatically with zero income.
func (s *Service) RecordInvoice(groupID string, total money.Amount, req allocation.Request) (*Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.active(groupID)
	if err != nil {
		return nil, err
	}
	if len(req.Participants) == 0 {
		req.Participants = p.roster()
	}
	shares, err := allocation.Split(total, req)
	if err != nil {
		return nil, err
	}
	for _, sh := range shares {
		m, exists := p.Participants[sh.ParticipantID]
		if !exists {
			m = &Participant{ID: sh.ParticipantID}
			p.Participants[sh.ParticipantID] = m
		}
		m.Owed += sh.Amount
	}
	inv := Invoice{ID: uuid.NewString(), Total: total, Shares: shares}
	p.Invoices = append(p.Invoices, inv)
	return &inv, nil
}

// RecordPayment credits amount to the payer. With beneficiaries the
// amount is also charged to them, split equally; the payer joins the
// beneficiary list themselves if they shared the expense. Corrections
// (negative amounts) are allowed only without beneficiaries and may not
// push the payer's paid total below zero.
func (s *Service) RecordPayment(groupID, payerID string, amount money.Amount, memo string, beneficiaries []string) (*Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.active(groupID)
	if err != nil {
		return nil, err
	}
	payer, exists := p.Participants[payerID]
	if !exists {
		payer = &Participant{ID: payerID}
		p.Participants[payerID] = payer
	}
	if payer.Paid+amount < 0 {
		return nil, fmt.Errorf("correction would make %s's paid total negative", payerID)
	}

	// Dedupe beneficiaries, drop empties, join unknown ones.
	seen := make(map[string]struct{}, len(beneficiaries))
	var targets []string
	for _, id := range beneficiaries {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := p.Participants[id]; !ok {
			p.Participants[id] = &Participant{ID: id}
		}
		targets = append(targets, id)
	}

	if len(targets) > 0 {
		if amount <= 0 {
			return nil, fmt.Errorf("expense amount must be positive")
		}
		members := make([]allocation.IncomeParticipant, len(targets))
		for i, id := range targets {
			members[i] = allocation.IncomeParticipant{ParticipantID: id}
		}
		shares, err := allocation.SplitFixed(amount, nil, allocation.RemainderEqual, members)
		if err != nil {
			return nil, err
		}
		for _, sh := range shares {
			p.Participants[sh.ParticipantID].Owed += sh.Amount
		}
	}

	payer.Paid += amount
	pay := Payment{ID: uuid.NewString(), PayerID: payerID, Amount: amount, Memo: memo, Beneficiaries: targets}
	p.Payments = append(p.Payments, pay)
	return &pay, nil
}

// Balances returns the owed/paid snapshot per participant, sorted by id.
func (s *Service) Balances(groupID string) ([]settlement.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.active(groupID)
	if err != nil {
		return nil, err
	}
	return p.balances(), nil
}

// Settle computes the transfer plan for the current balances, stores the
// transfers as open tasks and returns them with a printable summary.
func (s *Service) Settle(groupID string) (*SettleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.active(groupID)
	if err != nil {
		return nil, err
	}
	if len(p.Participants) < 2 {
		return nil, ErrNotEnoughMembers
	}
	transfers := settlement.Settle(p.balances())

	p.Tasks = p.Tasks[:0]
	for _, t := range transfers {
		p.Tasks = append(p.Tasks, Task{From: t.From, To: t.To, Amount: t.Amount})
	}

	var b strings.Builder
	if len(transfers) == 0 {
		b.WriteString("nothing to settle")
	} else {
		b.WriteString("settlement plan:\n")
		for _, t := range transfers {
			fmt.Fprintf(&b, "%s -> %s: %s\n", t.From, t.To, money.Format(t.Amount))
		}
	}
	return &SettleResult{Transfers: transfers, Summary: b.String()}, nil
}

// CompleteTask marks the first open task between the two participants as
// done, in either direction, and describes what was completed.
func (s *Service) CompleteTask(groupID, actorID, otherID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.active(groupID)
	if err != nil {
		return "", err
	}
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if t.Completed {
			continue
		}
		if (t.From == actorID && t.To == otherID) || (t.From == otherID && t.To == actorID) {
			t.Completed = true
			return fmt.Sprintf("completed: %s -> %s %s", t.From, t.To, money.Format(t.Amount)), nil
		}
	}
	return "", fmt.Errorf("no open task between %s and %s", actorID, otherID)
}

// Status renders a deterministic text report of the period.
func (s *Service) Status(groupID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.active(groupID)
	if err != nil {
		return "", err
	}
	if len(p.Participants) == 0 {
		return "no participants", nil
	}
	var totalOwed, totalPaid money.Amount
	rows := make([]*Participant, 0, len(p.Participants))
	for _, m := range p.Participants {
		totalOwed += m.Owed
		totalPaid += m.Paid
		rows = append(rows, m)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	var b strings.Builder
	fmt.Fprintf(&b, "owed %s / paid %s\n", money.Format(totalOwed), money.Format(totalPaid))
	for _, m := range rows {
		fmt.Fprintf(&b, "%s: owed=%s paid=%s net=%s\n",
			m.ID, money.Format(m.Owed), money.Format(m.Paid), money.Format(m.Paid-m.Owed))
	}
	return b.String(), nil
}

func (s *Service) active(groupID string) (*Period, error) {
	p, ok := s.store[groupID]
	if !ok || !p.Active {
		return nil, ErrNoPeriod
	}
	return p, nil
}

// roster returns the participants sorted by id, for deterministic
// allocation input.
func (p *Period) roster() []allocation.IncomeParticipant {
	out := make([]allocation.IncomeParticipant, 0, len(p.Participants))
	for _, m := range p.Participants {
		out = append(out, allocation.IncomeParticipant{ParticipantID: m.ID, MonthlyIncome: m.MonthlyIncome})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParticipantID < out[j].ParticipantID })
	return out
}

func (p *Period) balances() []settlement.Balance {
	out := make([]settlement.Balance, 0, len(p.Participants))
	for _, m := range p.Participants {
		out = append(out, settlement.Balance{ParticipantID: m.ID, TotalOwed: m.Owed, TotalPaid: m.Paid})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParticipantID < out[j].ParticipantID })
	return out
}
