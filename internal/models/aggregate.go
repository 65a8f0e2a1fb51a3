package models

// Balance holds total income, expenses and net balance for a scope.
type Balance struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// PeriodSummary is a Balance over an explicit date range, with a row count.
type PeriodSummary struct {
	StartDate        string  `json:"start_date,omitempty"`
	EndDate          string  `json:"end_date,omitempty"`
	Income           float64 `json:"income"`
	Expense          float64 `json:"expense"`
	Balance          float64 `json:"balance"`
	TransactionCount int     `json:"transaction_count"`
}

// Variation is a percentage change against the preceding period of equal
// length. When the previous value is zero the change is reported as 100
// if the current value is positive, else 0.
type Variation struct {
	IncomePctChange  float64 `json:"income_pct_change"`
	ExpensePctChange float64 `json:"expense_pct_change"`
}

// MonthlySummary compares a period against the one immediately before it.
type MonthlySummary struct {
	Current   PeriodSummary `json:"current_period"`
	Previous  PeriodSummary `json:"previous_period"`
	Variation Variation     `json:"variation_vs_previous_period"`
}

// CategoryTotal is one row of a category breakdown. Percentages across a
// breakdown sum to 100 (up to rounding) when the total is positive.
type CategoryTotal struct {
	Category         string  `json:"category"`
	Total            float64 `json:"total"`
	TransactionCount int     `json:"transaction_count"`
	Percentage       float64 `json:"percentage"`
}

// CategoryBreakdown is the full per-category split for a direction.
type CategoryBreakdown struct {
	Direction  string          `json:"direction"`
	Total      float64         `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}

// MonthlyFlow is one month of the bucketed income/expense series.
type MonthlyFlow struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// TrendMonth points at the month with the highest or lowest spending.
type TrendMonth struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Amount float64 `json:"amount"`
}

// SpendingTrends summarizes month-over-month expense movement.
type SpendingTrends struct {
	Months         []MonthlyFlow `json:"monthly_trends"`
	AvgGrowthPct   float64       `json:"avg_growth_pct"`
	HighestMonth   *TrendMonth   `json:"highest_spending_month,omitempty"`
	LowestMonth    *TrendMonth   `json:"lowest_spending_month,omitempty"`
	MonthsAnalyzed int           `json:"months_analyzed"`
}

// PeriodChange is an absolute and percentage delta between two periods.
type PeriodChange struct {
	Absolute float64 `json:"absolute"`
	Percent  float64 `json:"percent"`
}

// PeriodComparison holds the two period summaries and their deltas.
type PeriodComparison struct {
	Period1       PeriodSummary `json:"period_1"`
	Period2       PeriodSummary `json:"period_2"`
	IncomeChange  PeriodChange  `json:"income_change"`
	ExpenseChange PeriodChange  `json:"expense_change"`
	BalanceChange PeriodChange  `json:"balance_change"`
}
