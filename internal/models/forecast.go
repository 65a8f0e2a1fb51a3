package models

// Forecast smoothing methods.
const (
	MethodSMA = "sma"
	MethodEMA = "ema"
)

// ForecastPoint is one projected period.
type ForecastPoint struct {
	MonthAhead int     `json:"month_ahead"`
	Amount     float64 `json:"amount"`
}

// CategoryForecast projects spending for a single category.
type CategoryForecast struct {
	Category string          `json:"category"`
	Method   string          `json:"method"`
	History  []MonthlyFlow   `json:"history"`
	Forecast []ForecastPoint `json:"forecast"`
}

// ProjectedMonth is one month of a cash-flow projection.
type ProjectedMonth struct {
	Month            int     `json:"month"`
	ProjectedIncome  float64 `json:"projected_income"`
	ProjectedExpense float64 `json:"projected_expense"`
	ProjectedBalance float64 `json:"projected_balance"`
}

// CashFlowProjection projects income, expenses and running balance.
type CashFlowProjection struct {
	Months            int              `json:"projection_months"`
	AvgMonthlyIncome  float64          `json:"avg_monthly_income"`
	AvgMonthlyExpense float64          `json:"avg_monthly_expense"`
	MonthlyNet        float64          `json:"monthly_net"`
	InitialBalance    float64          `json:"initial_balance"`
	FinalBalance      float64          `json:"final_balance"`
	Projection        []ProjectedMonth `json:"projection"`
}

// CashRunway reports how long the current cash lasts at the observed
// burn rate. RunwayMonths is nil when the net flow is non-negative.
type CashRunway struct {
	CurrentCash     float64  `json:"current_cash"`
	MonthlyBurnRate float64  `json:"monthly_burn_rate"`
	BurnWindow      int      `json:"burn_window_months"`
	RunwayMonths    *float64 `json:"runway_months"`
	Unlimited       bool     `json:"unlimited"`
}

// ShortagePrediction says whether and when the balance crosses zero.
type ShortagePrediction struct {
	ShortagePredicted bool     `json:"shortage_predicted"`
	MonthsToShortage  *float64 `json:"months_to_shortage,omitempty"`
	CurrentBalance    float64  `json:"current_balance"`
	AvgMonthlyNetFlow float64  `json:"avg_monthly_net_flow"`
	Message           string   `json:"message"`
}
