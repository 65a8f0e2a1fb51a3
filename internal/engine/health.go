package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/jortega/finance-engine/internal/models"
)

// Health level labels at 80/60/40 breakpoints.
const (
	healthExcellent = "excelente"
	healthGood      = "bueno"
	healthFair      = "regular"
	healthWorrying  = "preocupante"
)

// Alert severities, worst first.
const (
	severityCritical = "crítica"
	severityHigh     = "alta"
	severityMedium   = "media"
	severityLow      = "baja"
)

// scoreHealth blends the aggregate figures into the 0-100 composite:
// 40% savings rate (capped at a 50% ceiling), 30% inverse expense
// ratio, 30% balance adequacy (balance relative to expenses, capped at
// 100). Pure and deterministic.
func scoreHealth(b models.Balance) models.HealthScore {
	savingsRate := 0.0
	expenseRatio := 100.0
	if b.Income > 0 {
		savingsRate = (b.Income - b.Expense) / b.Income * 100
		expenseRatio = b.Expense / b.Income * 100
	}

	balanceScore := 0.0
	if b.Balance > 0 {
		divisor := b.Expense
		if divisor <= 0 {
			divisor = 1
		}
		balanceScore = b.Balance / divisor * 10
		if balanceScore > 100 {
			balanceScore = 100
		}
	}

	cappedSavings := savingsRate
	if cappedSavings > 50 {
		cappedSavings = 50
	}
	if cappedSavings < 0 {
		cappedSavings = 0
	}
	cappedRatio := expenseRatio
	if cappedRatio > 100 {
		cappedRatio = 100
	}

	score := cappedSavings/50*40 + (100-cappedRatio)/100*30 + balanceScore*0.3

	level := healthWorrying
	switch {
	case score >= 80:
		level = healthExcellent
	case score >= 60:
		level = healthGood
	case score >= 40:
		level = healthFair
	}

	return models.HealthScore{
		Score: round2(score),
		Level: level,
		Metrics: models.HealthMetrics{
			SavingsRatePct:  round2(savingsRate),
			ExpenseRatioPct: round2(expenseRatio),
			BalanceScore:    round2(balanceScore),
		},
		Base: models.Balance{
			Income:  round2(b.Income),
			Expense: round2(b.Expense),
			Balance: round2(b.Balance),
		},
	}
}

// HealthScore computes the composite 0-100 health metric for a scope.
func (e *Engine) HealthScore(ctx context.Context, scope models.Scope) (models.HealthScore, error) {
	b, err := e.gw.Balance(ctx, scope)
	if err != nil {
		return models.HealthScore{}, fmt.Errorf("failed to get balance: %w", err)
	}
	hs := scoreHealth(b)
	e.log.WithFields(map[string]interface{}{
		"scope": scope.Type,
		"score": hs.Score,
		"level": hs.Level,
	}).Debug("health score computed")
	return hs, nil
}

// scoreRisk accumulates fixed-point penalties from the trailing flows
// and the all-time balance, capped at 100. The risk score equals the
// capped sum of factor impacts.
func scoreRisk(trailing models.PeriodSummary, balance float64, trailingMonths int) models.RiskAssessment {
	var score float64
	factors := []models.RiskFactor{}

	if trailing.Expense > trailing.Income {
		score += 40
		factors = append(factors, models.RiskFactor{
			Factor:   "negative burn rate",
			Details:  fmt.Sprintf("spending exceeds income by %.2f over the trailing %d months", trailing.Expense-trailing.Income, trailingMonths),
			Severity: severityHigh,
			Impact:   40,
		})
	}

	// A scope without income always counts as exceeding the ratio.
	exceedsRatio := trailing.Income <= 0
	if trailing.Income > 0 && trailing.Expense/trailing.Income*100 > 90 {
		exceedsRatio = true
	}
	if exceedsRatio {
		ratio := 100.0
		if trailing.Income > 0 {
			ratio = trailing.Expense / trailing.Income * 100
		}
		score += 30
		factors = append(factors, models.RiskFactor{
			Factor:   "elevated expense ratio",
			Details:  fmt.Sprintf("expenses are %.1f%% of income", ratio),
			Severity: severityMedium,
			Impact:   30,
		})
	}

	if balance <= 0 {
		score += 50
		factors = append(factors, models.RiskFactor{
			Factor:   "non-positive balance",
			Details:  fmt.Sprintf("current balance is %.2f", balance),
			Severity: severityCritical,
			Impact:   50,
		})
	} else if trailing.Income > 0 && balance < trailing.Income/float64(trailingMonths) {
		score += 20
		factors = append(factors, models.RiskFactor{
			Factor:   "low cash reserves",
			Details:  fmt.Sprintf("balance %.2f is below one month of average income", balance),
			Severity: severityMedium,
			Impact:   20,
		})
	}

	if trailing.Income == 0 {
		score += 35
		factors = append(factors, models.RiskFactor{
			Factor:   "no income",
			Details:  "no income recorded in the analyzed period",
			Severity: severityCritical,
			Impact:   35,
		})
	}

	if score > 100 {
		score = 100
	}

	level := models.RiskLow
	switch {
	case score > 70:
		level = models.RiskCritical
	case score > 40:
		level = models.RiskHigh
	case score > 20:
		level = models.RiskModerate
	}

	return models.RiskAssessment{RiskScore: score, RiskLevel: level, RiskFactors: factors}
}

// AssessRisk evaluates the additive 0-100 risk score for a scope from
// its trailing flows and all-time balance.
func (e *Engine) AssessRisk(ctx context.Context, scope models.Scope) (models.RiskAssessment, error) {
	trailing, err := e.gw.PeriodSummary(ctx, scope, e.monthsAgo(e.cfg.TrailingMonths), time.Time{})
	if err != nil {
		return models.RiskAssessment{}, fmt.Errorf("failed to get trailing summary: %w", err)
	}
	bal, err := e.gw.Balance(ctx, scope)
	if err != nil {
		return models.RiskAssessment{}, fmt.Errorf("failed to get balance: %w", err)
	}
	ra := scoreRisk(trailing, bal.Balance, e.cfg.TrailingMonths)
	e.log.WithFields(map[string]interface{}{
		"scope":   scope.Type,
		"score":   ra.RiskScore,
		"level":   ra.RiskLevel,
		"factors": len(ra.RiskFactors),
	}).Debug("risk assessment computed")
	return ra, nil
}

// severityAliases maps the English filter tokens callers send to the
// severities alerts carry.
var severityAliases = map[string]string{
	"low":      severityLow,
	"medium":   severityMedium,
	"high":     severityHigh,
	"critical": severityCritical,
}

// buildAlerts derives active warnings from the aggregate figures.
func buildAlerts(b models.Balance) []models.Alert {
	alerts := []models.Alert{}

	if b.Balance < 0 {
		alerts = append(alerts, models.Alert{
			Type:     "negative_balance",
			Severity: severityCritical,
			Title:    "Negative balance",
			Message:  fmt.Sprintf("the current balance is %.2f; immediate action is required", b.Balance),
		})
	} else if b.Expense > 0 && b.Balance < b.Expense*0.5 {
		alerts = append(alerts, models.Alert{
			Type:     "low_balance",
			Severity: severityHigh,
			Title:    "Low balance",
			Message:  fmt.Sprintf("the current balance (%.2f) is below half of recorded expenses", b.Balance),
		})
	}

	if b.Income > 0 {
		ratio := b.Expense / b.Income * 100
		if ratio > 95 {
			alerts = append(alerts, models.Alert{
				Type:     "excessive_expenses",
				Severity: severityCritical,
				Title:    "Excessive expenses",
				Message:  fmt.Sprintf("expenses are %.1f%% of income", ratio),
			})
		} else if ratio > 85 {
			alerts = append(alerts, models.Alert{
				Type:     "high_expenses",
				Severity: severityHigh,
				Title:    "High expenses",
				Message:  fmt.Sprintf("expenses are %.1f%% of income", ratio),
			})
		}

		savingsRate := (b.Income - b.Expense) / b.Income * 100
		if savingsRate > 0 && savingsRate < 10 {
			alerts = append(alerts, models.Alert{
				Type:     "low_savings_rate",
				Severity: severityMedium,
				Title:    "Low savings rate",
				Message:  fmt.Sprintf("the savings rate is only %.1f%%", savingsRate),
			})
		}
	} else {
		alerts = append(alerts, models.Alert{
			Type:     "no_income",
			Severity: severityCritical,
			Title:    "No income recorded",
			Message:  "no income has been recorded in the analyzed period",
		})
	}

	return alerts
}

// Alerts reports active financial warnings, optionally filtered by
// severity ("low", "medium", "high", "critical" or the native labels).
func (e *Engine) Alerts(ctx context.Context, scope models.Scope, severity string) (models.AlertReport, error) {
	bal, err := e.gw.Balance(ctx, scope)
	if err != nil {
		return models.AlertReport{}, fmt.Errorf("failed to get balance: %w", err)
	}

	alerts := buildAlerts(bal)
	if severity != "" {
		want := severity
		if mapped, ok := severityAliases[severity]; ok {
			want = mapped
		}
		filtered := []models.Alert{}
		for _, a := range alerts {
			if a.Severity == want {
				filtered = append(filtered, a)
			}
		}
		alerts = filtered
	}

	counts := map[string]int{severityCritical: 0, severityHigh: 0, severityMedium: 0, severityLow: 0}
	for _, a := range alerts {
		counts[a.Severity]++
	}

	return models.AlertReport{
		ActiveAlerts: len(alerts),
		Alerts:       alerts,
		BySeverity:   counts,
		NeedsAction:  counts[severityCritical] > 0,
	}, nil
}
