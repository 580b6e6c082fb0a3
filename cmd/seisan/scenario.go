package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/susu3304/seisan/internal/allocation"
	"github.com/susu3304/seisan/internal/money"
)

// Scenario is the YAML input replayed by the runner: a roster, a list of
// invoices to allocate and the payments made during the period.
type Scenario struct {
	Group        string                `yaml:"group"`
	Participants []ScenarioParticipant `yaml:"participants"`
	Invoices     []ScenarioInvoice     `yaml:"invoices"`
	Payments     []ScenarioPayment     `yaml:"payments"`
}

type ScenarioParticipant struct {
	ID     string `yaml:"id"`
	Income int64  `yaml:"income"`
}

type ScenarioInvoice struct {
	Total        int64                 `yaml:"total"`
	Policy       string                `yaml:"policy"`
	Remainder    string                `yaml:"remainder"`
	PercentRules []ScenarioPercentRule `yaml:"percent_rules"`
	FixedRules   []ScenarioFixedRule   `yaml:"fixed_rules"`
}

type ScenarioPercentRule struct {
	ID          string `yaml:"id"`
	BasisPoints int64  `yaml:"basis_points"`
}

type ScenarioFixedRule struct {
	ID     string `yaml:"id"`
	Amount int64  `yaml:"amount"`
}

type ScenarioPayment struct {
	Payer         string   `yaml:"payer"`
	Amount        int64    `yaml:"amount"`
	Memo          string   `yaml:"memo"`
	Beneficiaries []string `yaml:"beneficiaries"`
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if sc.Group == "" {
		sc.Group = "default"
	}
	return &sc, nil
}

// request converts a scenario invoice into an allocation request. The
// participant set for income and fixed policies is filled in by the
// ledger from the period roster.
func (inv ScenarioInvoice) request() allocation.Request {
	req := allocation.Request{
		Policy:    allocation.Policy(inv.Policy),
		Remainder: allocation.RemainderPolicy(inv.Remainder),
	}
	for _, r := range inv.PercentRules {
		req.PercentRules = append(req.PercentRules, allocation.PercentRule{
			ParticipantID: r.ID,
			BasisPoints:   r.BasisPoints,
		})
	}
	for _, r := range inv.FixedRules {
		req.FixedRules = append(req.FixedRules, allocation.FixedRule{
			ParticipantID: r.ID,
			Amount:        money.Amount(r.Amount),
		})
	}
	return req
}
