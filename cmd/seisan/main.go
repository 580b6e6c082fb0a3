// Command seisan replays a scenario file through the ledger service and
// prints the resulting allocations, balances and settlement plan.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/susu3304/seisan/internal/allocation"
	"github.com/susu3304/seisan/internal/config"
	"github.com/susu3304/seisan/internal/ledger"
	"github.com/susu3304/seisan/internal/money"
	"github.com/susu3304/seisan/internal/settlement"
)

type report struct {
	Group     string                `json:"group"`
	Shares    [][]allocation.Share  `json:"shares"`
	Balances  []settlement.Balance  `json:"balances"`
	Transfers []settlement.Transfer `json:"transfers"`
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	path := cfg.ScenarioPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	sc, err := loadScenario(path)
	if err != nil {
		log.Fatalf("Failed to load scenario: %v", err)
	}

	svc := ledger.NewService()
	if err := svc.Open(sc.Group); err != nil {
		log.Fatalf("Failed to open period: %v", err)
	}
	for _, p := range sc.Participants {
		if err := svc.Join(sc.Group, p.ID, money.Amount(p.Income)); err != nil {
			log.Fatalf("Failed to join %s: %v", p.ID, err)
		}
	}

	rep := report{Group: sc.Group}
	for i, inv := range sc.Invoices {
		rec, err := svc.RecordInvoice(sc.Group, money.Amount(inv.Total), inv.request())
		if err != nil {
			log.Fatalf("Failed to record invoice %d: %v", i+1, err)
		}
		rep.Shares = append(rep.Shares, rec.Shares)
	}
	for i, pay := range sc.Payments {
		if _, err := svc.RecordPayment(sc.Group, pay.Payer, money.Amount(pay.Amount), pay.Memo, pay.Beneficiaries); err != nil {
			log.Fatalf("Failed to record payment %d: %v", i+1, err)
		}
	}

	rep.Balances, err = svc.Balances(sc.Group)
	if err != nil {
		log.Fatalf("Failed to read balances: %v", err)
	}
	result, err := svc.Settle(sc.Group)
	if err != nil {
		log.Fatalf("Failed to settle: %v", err)
	}
	rep.Transfers = result.Transfers

	if cfg.Format == "json" {
		out, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	status, err := svc.Status(sc.Group)
	if err != nil {
		log.Fatalf("Failed to read status: %v", err)
	}
	for i, shares := range rep.Shares {
		fmt.Printf("invoice %d:\n", i+1)
		for _, sh := range shares {
			fmt.Printf("  %s: %s (%s)\n", sh.ParticipantID, money.Format(sh.Amount), sh.Explanation)
		}
	}
	fmt.Print(status)
	fmt.Print(result.Summary)
}
