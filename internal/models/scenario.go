package models

// Resilience labels for stress tests. The month thresholds between them
// come from configuration.
const (
	ResilienceLow      = "baja"
	ResilienceModerate = "moderada"
	ResilienceHigh     = "alta"
)

// ScenarioMonth is one month of a what-if projection.
type ScenarioMonth struct {
	Month             int     `json:"month"`
	Balance           float64 `json:"balance"`
	AccumulatedChange float64 `json:"accumulated_change"`
}

// ScenarioResult is a linear what-if projection from a starting balance.
type ScenarioResult struct {
	InitialBalance float64         `json:"initial_balance"`
	FinalBalance   float64         `json:"final_balance"`
	TotalChange    float64         `json:"total_change"`
	PctChange      float64         `json:"pct_change"`
	Months         []ScenarioMonth `json:"monthly_projections"`
}

// StressTestResult reports survival under an adverse scenario.
type StressTestResult struct {
	IncomeReductionPct float64  `json:"income_reduction_pct"`
	ExpenseIncreasePct float64  `json:"expense_increase_pct"`
	InitialBalance     float64  `json:"initial_balance"`
	StressedIncome     float64  `json:"stressed_monthly_income"`
	StressedExpense    float64  `json:"stressed_monthly_expense"`
	StressedNetFlow    float64  `json:"stressed_monthly_net_flow"`
	SurvivalMonths     *float64 `json:"estimated_survival_months,omitempty"`
	Indefinite         bool     `json:"survives_indefinitely"`
	Resilience         string   `json:"resilience"`
}
