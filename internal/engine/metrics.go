package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/jortega/finance-engine/internal/models"
	"github.com/jortega/finance-engine/internal/validate"
)

// GetBalance returns all-time income, expense and net balance for a scope.
func (e *Engine) GetBalance(ctx context.Context, scope models.Scope) (models.Balance, error) {
	b, err := e.gw.Balance(ctx, scope)
	if err != nil {
		return models.Balance{}, fmt.Errorf("failed to get balance: %w", err)
	}
	return b, nil
}

// PeriodSummary returns totals and a transaction count over a date range.
// An empty period yields all-zero aggregates, never an error.
func (e *Engine) PeriodSummary(ctx context.Context, scope models.Scope, from, to time.Time) (models.PeriodSummary, error) {
	ps, err := e.gw.PeriodSummary(ctx, scope, from, to)
	if err != nil {
		return models.PeriodSummary{}, fmt.Errorf("failed to get period summary: %w", err)
	}
	return ps, nil
}

// MonthlySummary compares a period against the immediately preceding
// period of equal length. When no explicit range is given the period is
// the calendar month given by month/year, defaulting to the current
// month. An explicit range needs both ends; a half-open range has no
// mirror period of equal length.
func (e *Engine) MonthlySummary(ctx context.Context, scope models.Scope, month, year int, from, to time.Time) (models.MonthlySummary, error) {
	if from.IsZero() != to.IsZero() {
		return models.MonthlySummary{}, fmt.Errorf("%w: start_date and end_date must be provided together", validate.ErrValidation)
	}

	var curStart, curEnd, prevStart, prevEnd time.Time
	if from.IsZero() {
		target := e.now()
		if month != 0 && year != 0 {
			target = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		}
		curStart = time.Date(target.Year(), target.Month(), 1, 0, 0, 0, 0, time.UTC)
		curEnd = curStart.AddDate(0, 1, -1)
		prevStart = curStart.AddDate(0, -1, 0)
		prevEnd = curStart.AddDate(0, 0, -1)
	} else {
		curStart, curEnd = from, to
		days := int(curEnd.Sub(curStart).Hours() / 24)
		prevEnd = curStart.AddDate(0, 0, -1)
		prevStart = prevEnd.AddDate(0, 0, -days)
	}

	cur, err := e.gw.PeriodSummary(ctx, scope, curStart, curEnd)
	if err != nil {
		return models.MonthlySummary{}, fmt.Errorf("failed to summarize current period: %w", err)
	}
	prev, err := e.gw.PeriodSummary(ctx, scope, prevStart, prevEnd)
	if err != nil {
		return models.MonthlySummary{}, fmt.Errorf("failed to summarize previous period: %w", err)
	}

	return models.MonthlySummary{
		Current:  cur,
		Previous: prev,
		Variation: models.Variation{
			IncomePctChange:  pctChange(cur.Income, prev.Income),
			ExpensePctChange: pctChange(cur.Expense, prev.Expense),
		},
	}, nil
}

// breakdownFrom attaches percentages to a category set. Percentages are
// relative to the set's own total so they sum to 100 up to rounding; a
// zero total yields an empty breakdown.
func breakdownFrom(direction string, cats []models.CategoryTotal) models.CategoryBreakdown {
	var total float64
	for _, c := range cats {
		total += c.Total
	}
	bd := models.CategoryBreakdown{Direction: direction, Total: round2(total)}
	if total <= 0 {
		bd.Categories = []models.CategoryTotal{}
		return bd
	}
	bd.Categories = make([]models.CategoryTotal, len(cats))
	for i, c := range cats {
		c.Percentage = round2(c.Total / total * 100)
		bd.Categories[i] = c
	}
	return bd
}

// CategoryBreakdown splits one direction's totals by category.
func (e *Engine) CategoryBreakdown(ctx context.Context, scope models.Scope, direction string, from, to time.Time) (models.CategoryBreakdown, error) {
	cats, err := e.gw.CategoryTotals(ctx, scope, direction, from, to)
	if err != nil {
		return models.CategoryBreakdown{}, fmt.Errorf("failed to get category totals: %w", err)
	}
	return breakdownFrom(direction, cats), nil
}

// TopCategories returns the N largest categories for a direction, with
// percentages relative to the returned set.
func (e *Engine) TopCategories(ctx context.Context, scope models.Scope, direction string, topN int, from, to time.Time) (models.CategoryBreakdown, error) {
	if topN < 1 || topN > 50 {
		topN = 5
	}
	cats, err := e.gw.CategoryTotals(ctx, scope, direction, from, to)
	if err != nil {
		return models.CategoryBreakdown{}, fmt.Errorf("failed to get category totals: %w", err)
	}
	if len(cats) > topN {
		cats = cats[:topN]
	}
	return breakdownFrom(direction, cats), nil
}

// SpendingTrends analyzes month-over-month expense movement over a
// trailing window.
func (e *Engine) SpendingTrends(ctx context.Context, scope models.Scope, monthsBack int) (models.SpendingTrends, error) {
	if monthsBack < 1 || monthsBack > 24 {
		monthsBack = 6
	}
	flows, err := e.gw.MonthlyFlows(ctx, scope, e.monthsAgo(monthsBack), time.Time{})
	if err != nil {
		return models.SpendingTrends{}, fmt.Errorf("failed to get monthly flows: %w", err)
	}

	st := models.SpendingTrends{Months: flows, MonthsAnalyzed: len(flows)}
	if len(flows) < 2 {
		return st, nil
	}

	var totalChange float64
	for i := 1; i < len(flows); i++ {
		if flows[i-1].Expense > 0 {
			totalChange += (flows[i].Expense - flows[i-1].Expense) / flows[i-1].Expense * 100
		}
	}
	st.AvgGrowthPct = round2(totalChange / float64(len(flows)-1))

	hi, lo := flows[0], flows[0]
	for _, f := range flows[1:] {
		if f.Expense > hi.Expense {
			hi = f
		}
		if f.Expense < lo.Expense {
			lo = f
		}
	}
	st.HighestMonth = &models.TrendMonth{Year: hi.Year, Month: hi.Month, Amount: round2(hi.Expense)}
	st.LowestMonth = &models.TrendMonth{Year: lo.Year, Month: lo.Month, Amount: round2(lo.Expense)}
	return st, nil
}

// ComparePeriods contrasts aggregates between two explicit periods.
func (e *Engine) ComparePeriods(ctx context.Context, scope models.Scope, p1From, p1To, p2From, p2To time.Time) (models.PeriodComparison, error) {
	p1, err := e.gw.PeriodSummary(ctx, scope, p1From, p1To)
	if err != nil {
		return models.PeriodComparison{}, fmt.Errorf("failed to summarize period 1: %w", err)
	}
	p2, err := e.gw.PeriodSummary(ctx, scope, p2From, p2To)
	if err != nil {
		return models.PeriodComparison{}, fmt.Errorf("failed to summarize period 2: %w", err)
	}

	return models.PeriodComparison{
		Period1:       p1,
		Period2:       p2,
		IncomeChange:  models.PeriodChange{Absolute: round2(p2.Income - p1.Income), Percent: pctChange(p2.Income, p1.Income)},
		ExpenseChange: models.PeriodChange{Absolute: round2(p2.Expense - p1.Expense), Percent: pctChange(p2.Expense, p1.Expense)},
		BalanceChange: models.PeriodChange{Absolute: round2(p2.Balance - p1.Balance)},
	}, nil
}

// ListTransactions returns a validated page of raw ledger rows.
func (e *Engine) ListTransactions(ctx context.Context, scope models.Scope, filter models.TransactionFilter) (models.TransactionPage, error) {
	page, err := e.gw.ListTransactions(ctx, scope, filter)
	if err != nil {
		return models.TransactionPage{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	return page, nil
}
