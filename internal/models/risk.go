package models

// Risk levels, ordered from best to worst. Breakpoints are fixed at
// 20/40/70 on the risk score.
const (
	RiskLow      = "bajo"
	RiskModerate = "moderado"
	RiskHigh     = "alto"
	RiskCritical = "crítico"
)

// RiskFactor is one adverse condition contributing to the risk score.
type RiskFactor struct {
	Factor   string  `json:"factor"`
	Details  string  `json:"details"`
	Severity string  `json:"severity"`
	Impact   float64 `json:"impact"`
}

// RiskAssessment is the additive 0-100 risk score with its factors.
// The score equals the capped sum of factor impacts.
type RiskAssessment struct {
	RiskScore   float64      `json:"risk_score"`
	RiskLevel   string       `json:"risk_level"`
	RiskFactors []RiskFactor `json:"risk_factors"`
}

// HealthMetrics are the inputs the health score is blended from.
type HealthMetrics struct {
	SavingsRatePct  float64 `json:"savings_rate_pct"`
	ExpenseRatioPct float64 `json:"expense_ratio_pct"`
	BalanceScore    float64 `json:"balance_score"`
}

// HealthScore is the 0-100 composite health metric.
type HealthScore struct {
	Score   float64       `json:"health_score"`
	Level   string        `json:"level"`
	Metrics HealthMetrics `json:"metrics"`
	Base    Balance       `json:"base_figures"`
}

// Alert is a single financial warning derived from current aggregates.
type Alert struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

// AlertReport lists active alerts with per-severity counts.
type AlertReport struct {
	ActiveAlerts int            `json:"active_alerts"`
	Alerts       []Alert        `json:"alerts"`
	BySeverity   map[string]int `json:"by_severity"`
	NeedsAction  bool           `json:"requires_immediate_attention"`
}
