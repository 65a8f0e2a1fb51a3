package engine

import (
	"context"
	"testing"

	"github.com/jortega/finance-engine/internal/gateway/memory"
	"github.com/jortega/finance-engine/internal/models"
)

func TestSimulateScenario(t *testing.T) {
	e := newTestEngine(memory.NewStore())

	res := e.SimulateScenario(1000, 200, 100, 6)
	if !almostEqual(res.FinalBalance, 1600, 0.01) {
		t.Errorf("FinalBalance = %v, want 1600", res.FinalBalance)
	}
	if !almostEqual(res.TotalChange, 600, 0.01) {
		t.Errorf("TotalChange = %v, want 600", res.TotalChange)
	}
	if !almostEqual(res.PctChange, 60, 0.01) {
		t.Errorf("PctChange = %v, want 60", res.PctChange)
	}
	if len(res.Months) != 6 {
		t.Fatalf("got %d months, want 6", len(res.Months))
	}
	if !almostEqual(res.Months[0].Balance, 1100, 0.01) {
		t.Errorf("month 1 balance = %v, want 1100", res.Months[0].Balance)
	}
	if !almostEqual(res.Months[5].AccumulatedChange, 600, 0.01) {
		t.Errorf("month 6 accumulated change = %v, want 600", res.Months[5].AccumulatedChange)
	}
}

func TestSimulateScenarioZeroBalanceSkipsPct(t *testing.T) {
	e := newTestEngine(memory.NewStore())
	res := e.SimulateScenario(0, 100, 0, 3)
	if res.PctChange != 0 {
		t.Errorf("PctChange = %v, want 0 with a zero starting balance", res.PctChange)
	}
	if !almostEqual(res.FinalBalance, 300, 0.01) {
		t.Errorf("FinalBalance = %v, want 300", res.FinalBalance)
	}
}

func TestSimulateScenarioClampsHorizon(t *testing.T) {
	e := newTestEngine(memory.NewStore())
	if got := len(e.SimulateScenario(1000, 0, 0, 999).Months); got != 6 {
		t.Errorf("out-of-range horizon produced %d months, want the default 6", got)
	}
}

func TestStressTestSurvival(t *testing.T) {
	store := memory.NewStore()
	for _, d := range []string{"2024-02-01", "2024-03-01", "2024-04-01", "2024-05-01", "2024-06-01", "2024-07-01"} {
		seed(t, store, d, 1000, models.TypeIncome, "ventas", "")
		seed(t, store, d, 900, models.TypeExpense, "operación", "")
	}
	e := newTestEngine(store)

	res, err := e.StressTest(context.Background(), testScope, 30, 20)
	if err != nil {
		t.Fatalf("StressTest: %v", err)
	}
	if res.Indefinite {
		t.Fatal("stressed net flow is negative; survival should be finite")
	}
	if !almostEqual(res.StressedIncome, 700, 0.01) || !almostEqual(res.StressedExpense, 1080, 0.01) {
		t.Errorf("stressed flows = %v / %v, want 700 / 1080", res.StressedIncome, res.StressedExpense)
	}
	// Balance 600 against a 380/month drain.
	if res.SurvivalMonths == nil || !almostEqual(*res.SurvivalMonths, 1.58, 0.01) {
		t.Errorf("SurvivalMonths = %v, want 1.58", res.SurvivalMonths)
	}
	if res.Resilience != models.ResilienceLow {
		t.Errorf("Resilience = %q, want %q", res.Resilience, models.ResilienceLow)
	}
}

func TestStressTestIndefiniteSurvival(t *testing.T) {
	store := memory.NewStore()
	for _, d := range []string{"2024-05-01", "2024-06-01", "2024-07-01"} {
		seed(t, store, d, 5000, models.TypeIncome, "ventas", "")
		seed(t, store, d, 2000, models.TypeExpense, "operación", "")
	}
	e := newTestEngine(store)

	res, err := e.StressTest(context.Background(), testScope, 10, 10)
	if err != nil {
		t.Fatalf("StressTest: %v", err)
	}
	if !res.Indefinite {
		t.Fatalf("expected indefinite survival, got %+v", res)
	}
	if res.Resilience != models.ResilienceHigh {
		t.Errorf("Resilience = %q, want %q", res.Resilience, models.ResilienceHigh)
	}
	if res.SurvivalMonths != nil {
		t.Errorf("SurvivalMonths = %v, want nil when indefinite", *res.SurvivalMonths)
	}
}
