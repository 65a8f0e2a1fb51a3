// Package engine is the deterministic computation core: it turns ledger
// aggregates into health and risk scores, forecasts, debt paydown plans
// and recurring-charge detections. Every operation works on a snapshot
// fetched through the gateway; nothing here mutates ledger state, so the
// engine is safe to call from any number of concurrent callers.
package engine

import (
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jortega/finance-engine/internal/gateway"
)

// ErrInsufficientData marks results that cannot be computed because the
// ledger does not hold enough history. Callers report it as a normal,
// successful, empty result rather than a failure.
var ErrInsufficientData = errors.New("insufficient data")

// ErrNonConvergent marks a debt simulation that did not clear within the
// maximum horizon. It is a real failure, not a truncated answer.
var ErrNonConvergent = errors.New("paydown plan does not converge within 240 months")

// maxAmortizationMonths is the hard simulation horizon.
const maxAmortizationMonths = 240

// timeZero stands for an unbounded side of a date range.
var timeZero time.Time

// balanceEpsilon is the rounding threshold below which a debt counts as
// cleared.
const balanceEpsilon = 0.01

// Config carries the engine's tunable heuristics.
type Config struct {
	// Recurring-charge detection.
	RecurringWindowMonths   int
	RecurringMinOccurrences int

	// Stress-test resilience thresholds, in months of survival.
	StressModerateMonths float64
	StressHighMonths     float64

	// Trailing window for burn-rate style averages.
	TrailingMonths int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		RecurringWindowMonths:   12,
		RecurringMinOccurrences: 3,
		StressModerateMonths:    6,
		StressHighMonths:        12,
		TrailingMonths:          6,
	}
}

// Engine computes derived financial metrics over a ledger gateway.
type Engine struct {
	gw  gateway.LedgerGateway
	log *logrus.Logger
	cfg Config

	// now is swappable in tests; trailing windows anchor on it.
	now func() time.Time
}

// New initializes an engine over a gateway.
func New(gw gateway.LedgerGateway, log *logrus.Logger, cfg Config) *Engine {
	if cfg.RecurringWindowMonths <= 0 {
		cfg.RecurringWindowMonths = 12
	}
	if cfg.RecurringMinOccurrences <= 0 {
		cfg.RecurringMinOccurrences = 3
	}
	if cfg.TrailingMonths <= 0 {
		cfg.TrailingMonths = 6
	}
	if cfg.StressModerateMonths <= 0 {
		cfg.StressModerateMonths = 6
	}
	if cfg.StressHighMonths <= cfg.StressModerateMonths {
		cfg.StressHighMonths = cfg.StressModerateMonths * 2
	}
	return &Engine{gw: gw, log: log, cfg: cfg, now: time.Now}
}

// round2 rounds to cents. Output shaping only; intermediate math stays
// at full precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pctChange reports the percentage change from prev to cur. A zero
// previous value yields 100 when the current value is positive and 0
// otherwise; this is documented policy, not an approximation.
func pctChange(cur, prev float64) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return round2((cur - prev) / prev * 100)
}

// monthsAgo returns now shifted back by n calendar months.
func (e *Engine) monthsAgo(n int) time.Time {
	return e.now().AddDate(0, -n, 0)
}
