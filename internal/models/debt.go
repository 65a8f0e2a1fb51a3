package models

// Paydown ordering methods.
const (
	MethodAvalanche = "avalanche" // highest APR first
	MethodSnowball  = "snowball"  // lowest balance first
	MethodCompare   = "compare"   // run both and report the difference
)

// Debt is one caller-supplied liability. The simulator works on private
// copies; the caller's slice is never mutated.
type Debt struct {
	Name           string  `json:"name,omitempty"`
	Balance        float64 `json:"balance"`
	APR            float64 `json:"apr"`
	MinimumPayment float64 `json:"min_payment"`
}

// DebtPayment is what one debt received in a simulated month.
type DebtPayment struct {
	Name    string  `json:"name,omitempty"`
	Payment float64 `json:"payment"`
}

// AmortizationMonth is one simulated month of the paydown schedule.
type AmortizationMonth struct {
	Month        int           `json:"month"`
	Payments     []DebtPayment `json:"payments"`
	TotalBalance float64       `json:"total_balance"`
	InterestPaid float64       `json:"interest_paid_this_month"`
}

// PaydownPlan is the outcome of a full amortization run.
type PaydownPlan struct {
	Method            string  `json:"method"`
	MonthsToFreedom   int     `json:"months_to_freedom"`
	TotalPaid         float64 `json:"total_paid"`
	TotalInterestPaid float64 `json:"total_interest_paid"`
	// Every third month, to bound response size.
	ScheduleSummary []AmortizationMonth `json:"payment_schedule_summary"`
}

// PaydownComparison contrasts avalanche against snowball for one debt set.
type PaydownComparison struct {
	Avalanche     PaydownPlan `json:"avalanche"`
	Snowball      PaydownPlan `json:"snowball"`
	InterestSaved float64     `json:"interest_saved"`
	MonthsSaved   int         `json:"months_saved"`
}
