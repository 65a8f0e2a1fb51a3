package engine

import (
	"context"
	"fmt"

	"github.com/jortega/finance-engine/internal/models"
)

// Orchestrators combine the atomic operations into composite answers.
// They add no algorithms of their own, only composition and phrasing.

// BusinessHealthCheck answers "give me the full financial picture":
// health score, risk assessment, cash runway and alerts, synthesized
// into an executive summary with one primary insight.
func (e *Engine) BusinessHealthCheck(ctx context.Context, scope models.Scope) (models.BusinessHealthReport, error) {
	health, err := e.HealthScore(ctx, scope)
	if err != nil {
		return models.BusinessHealthReport{}, err
	}
	risk, err := e.AssessRisk(ctx, scope)
	if err != nil {
		return models.BusinessHealthReport{}, err
	}
	runway, err := e.CashRunway(ctx, scope, nil, e.cfg.TrailingMonths)
	if err != nil {
		return models.BusinessHealthReport{}, err
	}
	alerts, err := e.Alerts(ctx, scope, "")
	if err != nil {
		return models.BusinessHealthReport{}, err
	}

	summary := models.ExecutiveSummary{
		HealthScore:    health.Score,
		HealthLevel:    health.Level,
		RiskLevel:      risk.RiskLevel,
		RunwayMonths:   runway.RunwayMonths,
		CriticalAlerts: alerts.BySeverity[severityCritical],
	}

	insight := "financial health is stable"
	switch {
	case risk.RiskLevel == models.RiskCritical || risk.RiskLevel == models.RiskHigh:
		insight = "attention required: the risk level is elevated; review the risk factors and alerts"
	case runway.RunwayMonths != nil && *runway.RunwayMonths < 6:
		insight = "liquidity warning: cash runway is under 6 months; an action plan is needed"
	case summary.CriticalAlerts > 0:
		insight = "there are critical alerts that need immediate attention"
	}

	return models.BusinessHealthReport{
		Summary:        summary,
		PrimaryInsight: insight,
		Health:         health,
		Risk:           risk,
		Runway:         runway,
		Alerts:         alerts,
	}, nil
}

// MonthlyReview answers "how am I doing this month": the month versus
// the previous one plus the recurring bills expected next.
func (e *Engine) MonthlyReview(ctx context.Context, scope models.Scope, month, year int) (models.MonthlyReview, error) {
	if month == 0 || year == 0 {
		now := e.now()
		month, year = int(now.Month()), now.Year()
	}
	summary, err := e.MonthlySummary(ctx, scope, month, year, timeZero, timeZero)
	if err != nil {
		return models.MonthlyReview{}, err
	}
	bills, err := e.DetectRecurring(ctx, scope, 0, 0)
	if err != nil {
		return models.MonthlyReview{}, err
	}

	conclusion := fmt.Sprintf(
		"this month income changed %.1f%% and expenses %.1f%% versus the previous period",
		summary.Variation.IncomePctChange, summary.Variation.ExpensePctChange,
	)

	return models.MonthlyReview{
		Period:        fmt.Sprintf("%04d-%02d", year, month),
		Conclusion:    conclusion,
		Summary:       summary,
		UpcomingBills: bills,
	}, nil
}

// PlanDebtReduction mines the top spending categories for a savings
// suggestion (10% of the top three), adds it to the caller's extra
// payment and runs the avalanche plan with the combined amount.
func (e *Engine) PlanDebtReduction(ctx context.Context, scope models.Scope, debts []models.Debt, initialExtra float64) (models.DebtReductionPlan, error) {
	top, err := e.TopCategories(ctx, scope, models.TypeExpense, 3, timeZero, timeZero)
	if err != nil {
		return models.DebtReductionPlan{}, err
	}
	var suggested float64
	for _, c := range top.Categories {
		suggested += c.Total * 0.10
	}
	// Historic totals approximate monthly spend poorly for long
	// ledgers; scale by the trailing window to stay conservative.
	suggested = suggested / float64(e.cfg.TrailingMonths)

	totalExtra := initialExtra + suggested
	plan, err := e.OptimizeDebtPaydown(debts, models.MethodAvalanche, totalExtra)
	if err != nil {
		return models.DebtReductionPlan{}, err
	}

	return models.DebtReductionPlan{
		SuggestedSavings:  round2(suggested),
		TotalExtraPayment: round2(totalExtra),
		Suggestion: fmt.Sprintf(
			"an estimated %.2f/month can be trimmed from top spending categories; combined with your extra payment, %.2f/month can go to debt",
			suggested, totalExtra,
		),
		Plan: plan,
	}, nil
}
