package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/jortega/finance-engine/internal/models"
)

// SimulateScenario projects a balance forward under constant monthly
// income and expense deltas. Closed-form what-if, no smoothing.
func (e *Engine) SimulateScenario(currentBalance, incomeDelta, expenseDelta float64, months int) models.ScenarioResult {
	if months < 1 || months > 60 {
		months = 6
	}
	monthlyNet := incomeDelta - expenseDelta

	res := models.ScenarioResult{
		InitialBalance: round2(currentBalance),
		Months:         make([]models.ScenarioMonth, months),
	}
	running := currentBalance
	for i := 0; i < months; i++ {
		running += monthlyNet
		res.Months[i] = models.ScenarioMonth{
			Month:             i + 1,
			Balance:           round2(running),
			AccumulatedChange: round2(running - currentBalance),
		}
	}
	res.FinalBalance = round2(running)
	res.TotalChange = round2(running - currentBalance)
	if currentBalance != 0 {
		res.PctChange = round2(res.TotalChange / currentBalance * 100)
	}
	return res
}

// StressTest applies an income reduction and expense increase to the
// trailing monthly averages and reports how long the balance survives
// the stressed net flow. Resilience labels come from the configured
// month thresholds.
func (e *Engine) StressTest(ctx context.Context, scope models.Scope, incomeReductionPct, expenseIncreasePct float64) (models.StressTestResult, error) {
	flows, err := e.gw.MonthlyFlows(ctx, scope, e.monthsAgo(e.cfg.TrailingMonths), time.Time{})
	if err != nil {
		return models.StressTestResult{}, fmt.Errorf("failed to get monthly flows: %w", err)
	}

	var avgIncome, avgExpense float64
	if len(flows) > 0 {
		for _, f := range flows {
			avgIncome += f.Income
			avgExpense += f.Expense
		}
		avgIncome /= float64(len(flows))
		avgExpense /= float64(len(flows))
	}

	bal, err := e.gw.Balance(ctx, scope)
	if err != nil {
		return models.StressTestResult{}, fmt.Errorf("failed to get balance: %w", err)
	}

	stressedIncome := avgIncome * (1 - incomeReductionPct/100)
	stressedExpense := avgExpense * (1 + expenseIncreasePct/100)
	net := stressedIncome - stressedExpense

	res := models.StressTestResult{
		IncomeReductionPct: incomeReductionPct,
		ExpenseIncreasePct: expenseIncreasePct,
		InitialBalance:     round2(bal.Balance),
		StressedIncome:     round2(stressedIncome),
		StressedExpense:    round2(stressedExpense),
		StressedNetFlow:    round2(net),
	}

	if net >= 0 {
		res.Indefinite = true
		res.Resilience = models.ResilienceHigh
		return res, nil
	}

	survival := 0.0
	if bal.Balance > 0 {
		survival = bal.Balance / -net
	}
	rounded := round2(survival)
	res.SurvivalMonths = &rounded

	switch {
	case survival > e.cfg.StressHighMonths:
		res.Resilience = models.ResilienceHigh
	case survival > e.cfg.StressModerateMonths:
		res.Resilience = models.ResilienceModerate
	default:
		res.Resilience = models.ResilienceLow
	}
	return res, nil
}
