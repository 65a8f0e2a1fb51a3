package engine

import (
	"errors"
	"testing"

	"github.com/jortega/finance-engine/internal/gateway/memory"
	"github.com/jortega/finance-engine/internal/models"
)

func sampleDebts() []models.Debt {
	return []models.Debt{
		{Name: "credit card", Balance: 5000, APR: 24, MinimumPayment: 150},
		{Name: "car loan", Balance: 12000, APR: 9, MinimumPayment: 300},
		{Name: "store card", Balance: 800, APR: 30, MinimumPayment: 40},
	}
}

func TestOptimizeDebtPaydownZeroAPR(t *testing.T) {
	e := newTestEngine(memory.NewStore())
	debts := []models.Debt{{Name: "loan", Balance: 1200, APR: 0, MinimumPayment: 100}}

	plan, err := e.OptimizeDebtPaydown(debts, models.MethodAvalanche, 0)
	if err != nil {
		t.Fatalf("OptimizeDebtPaydown: %v", err)
	}
	if plan.MonthsToFreedom != 12 {
		t.Errorf("MonthsToFreedom = %d, want 12", plan.MonthsToFreedom)
	}
	if plan.TotalInterestPaid != 0 {
		t.Errorf("TotalInterestPaid = %v, want 0", plan.TotalInterestPaid)
	}
	if !almostEqual(plan.TotalPaid, 1200, 0.01) {
		t.Errorf("TotalPaid = %v, want 1200", plan.TotalPaid)
	}
}

func TestOptimizeDebtPaydownDoesNotMutateInput(t *testing.T) {
	e := newTestEngine(memory.NewStore())
	debts := sampleDebts()

	if _, err := e.OptimizeDebtPaydown(debts, models.MethodSnowball, 100); err != nil {
		t.Fatalf("OptimizeDebtPaydown: %v", err)
	}
	if debts[0].Balance != 5000 || debts[1].Balance != 12000 || debts[2].Balance != 800 {
		t.Errorf("caller debt balances were mutated: %+v", debts)
	}
}

func TestExtraPaymentNeverSlowsPayoff(t *testing.T) {
	e := newTestEngine(memory.NewStore())

	var prev int
	for i, extra := range []float64{0, 200, 400} {
		plan, err := e.OptimizeDebtPaydown(sampleDebts(), models.MethodAvalanche, extra)
		if err != nil {
			t.Fatalf("extra=%v: %v", extra, err)
		}
		if i > 0 && plan.MonthsToFreedom > prev {
			t.Errorf("extra=%v took %d months, more than %d with less extra", extra, plan.MonthsToFreedom, prev)
		}
		prev = plan.MonthsToFreedom
	}
}

func TestAvalanchePaysNoMoreInterestThanSnowball(t *testing.T) {
	e := newTestEngine(memory.NewStore())

	avalanche, err := e.OptimizeDebtPaydown(sampleDebts(), models.MethodAvalanche, 200)
	if err != nil {
		t.Fatalf("avalanche: %v", err)
	}
	snowball, err := e.OptimizeDebtPaydown(sampleDebts(), models.MethodSnowball, 200)
	if err != nil {
		t.Fatalf("snowball: %v", err)
	}
	if avalanche.TotalInterestPaid > snowball.TotalInterestPaid+0.01 {
		t.Errorf("avalanche interest %v exceeds snowball interest %v",
			avalanche.TotalInterestPaid, snowball.TotalInterestPaid)
	}
}

func TestOptimizeDebtPaydownNonConvergent(t *testing.T) {
	e := newTestEngine(memory.NewStore())
	// Interest accrues faster than the payment covers.
	debts := []models.Debt{{Name: "runaway", Balance: 100000, APR: 30, MinimumPayment: 10}}

	_, err := e.OptimizeDebtPaydown(debts, models.MethodAvalanche, 0)
	if !errors.Is(err, ErrNonConvergent) {
		t.Fatalf("err = %v, want ErrNonConvergent", err)
	}
}

func TestScheduleSummaryDecimated(t *testing.T) {
	e := newTestEngine(memory.NewStore())
	plan, err := e.OptimizeDebtPaydown(sampleDebts(), models.MethodAvalanche, 100)
	if err != nil {
		t.Fatalf("OptimizeDebtPaydown: %v", err)
	}
	want := (plan.MonthsToFreedom + 2) / 3
	if len(plan.ScheduleSummary) != want {
		t.Errorf("ScheduleSummary has %d entries, want %d for %d months",
			len(plan.ScheduleSummary), want, plan.MonthsToFreedom)
	}
	if plan.ScheduleSummary[0].Month != 1 {
		t.Errorf("first summary month = %d, want 1", plan.ScheduleSummary[0].Month)
	}
}

func TestCompareDebtStrategies(t *testing.T) {
	e := newTestEngine(memory.NewStore())
	cmp, err := e.CompareDebtStrategies(sampleDebts(), 200)
	if err != nil {
		t.Fatalf("CompareDebtStrategies: %v", err)
	}
	if cmp.InterestSaved < -0.01 {
		t.Errorf("InterestSaved = %v, avalanche should not cost more interest", cmp.InterestSaved)
	}
	wantSaved := round2(cmp.Snowball.TotalInterestPaid - cmp.Avalanche.TotalInterestPaid)
	if cmp.InterestSaved != wantSaved {
		t.Errorf("InterestSaved = %v, want %v", cmp.InterestSaved, wantSaved)
	}
	if cmp.MonthsSaved != cmp.Snowball.MonthsToFreedom-cmp.Avalanche.MonthsToFreedom {
		t.Errorf("MonthsSaved = %d is inconsistent with the two plans", cmp.MonthsSaved)
	}
}

func TestPaymentOrder(t *testing.T) {
	debts := []simDebt{
		{name: "a", balance: 500, monthlyRate: 0.02},
		{name: "b", balance: 800, monthlyRate: 0.025},
		{name: "c", balance: 12000, monthlyRate: 0.0075},
	}

	ava := paymentOrder(debts, models.MethodAvalanche)
	if debts[ava[0]].name != "b" || debts[ava[1]].name != "a" || debts[ava[2]].name != "c" {
		t.Errorf("avalanche order wrong: got %v", ava)
	}

	snow := paymentOrder(debts, models.MethodSnowball)
	if debts[snow[0]].name != "a" || debts[snow[1]].name != "b" || debts[snow[2]].name != "c" {
		t.Errorf("snowball order wrong: got %v", snow)
	}
}
