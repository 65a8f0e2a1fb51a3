package models

// ExecutiveSummary is the headline block of a business health check.
type ExecutiveSummary struct {
	HealthScore    float64  `json:"health_score"`
	HealthLevel    string   `json:"health_level"`
	RiskLevel      string   `json:"risk_level"`
	RunwayMonths   *float64 `json:"cash_runway_months"`
	CriticalAlerts int      `json:"active_critical_alerts"`
}

// BusinessHealthReport combines health, risk, runway and alerts into one
// composite answer. Pure composition over the atomic results.
type BusinessHealthReport struct {
	Summary        ExecutiveSummary `json:"executive_summary"`
	PrimaryInsight string           `json:"primary_insight"`
	Health         HealthScore      `json:"health_details"`
	Risk           RiskAssessment   `json:"risk_details"`
	Runway         CashRunway       `json:"runway_details"`
	Alerts         AlertReport      `json:"alerts_details"`
}

// MonthlyReview is the composite "how am I doing this month" answer.
type MonthlyReview struct {
	Period        string            `json:"period"`
	Conclusion    string            `json:"main_conclusion"`
	Summary       MonthlySummary    `json:"monthly_summary"`
	UpcomingBills []RecurringCharge `json:"upcoming_bills"`
}

// DebtReductionPlan is a paydown plan preceded by a savings suggestion
// mined from the entity's top spending categories.
type DebtReductionPlan struct {
	SuggestedSavings  float64     `json:"suggested_monthly_savings"`
	TotalExtraPayment float64     `json:"total_extra_payment"`
	Suggestion        string      `json:"suggestion"`
	Plan              PaydownPlan `json:"debt_payoff_plan"`
}
