package models

// RecurringCharge is a detected subscription-like expense: same
// description, similar amount, monthly cadence.
type RecurringCharge struct {
	Description      string  `json:"description"`
	EstimatedMonthly float64 `json:"estimated_monthly_amount"`
	Occurrences      int     `json:"occurrence_count"`
	LastDate         string  `json:"last_date"`
	AvgIntervalDays  float64 `json:"avg_interval_days"`
}

// BillForecastItem is one projected future charge of a recurring bill.
type BillForecastItem struct {
	Description string  `json:"description"`
	MonthAhead  int     `json:"month_ahead"`
	Amount      float64 `json:"estimated_amount"`
}

// BillForecast projects detected recurring charges forward.
type BillForecast struct {
	Detected       []RecurringCharge  `json:"detected_subscriptions"`
	Forecast       []BillForecastItem `json:"forecasted_bills"`
	TotalEstimated float64            `json:"total_estimated_period"`
}
