package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jortega/finance-engine/internal/models"
)

// Cadence bounds for the strict monthly heuristic: every gap between
// consecutive charges must land in this window. Tolerant enough for
// billing-date drift, strict enough to exclude one-off repeats.
const (
	minCadenceDays = 28
	maxCadenceDays = 32
)

type chargeGroup struct {
	description string
	dates       []time.Time
	amounts     []float64
}

// DetectRecurring finds subscription-like expenses: same description,
// amount equal after rounding to the nearest whole unit, strictly
// monthly cadence, and enough distinct calendar months. Groups failing
// the cadence check are silently dropped.
func (e *Engine) DetectRecurring(ctx context.Context, scope models.Scope, windowMonths, minOccurrences int) ([]models.RecurringCharge, error) {
	if windowMonths <= 0 {
		windowMonths = e.cfg.RecurringWindowMonths
	}
	if minOccurrences <= 0 {
		minOccurrences = e.cfg.RecurringMinOccurrences
	}

	txs, err := e.gw.TransactionsByType(ctx, scope, models.TypeExpense, e.monthsAgo(windowMonths), time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expense transactions: %w", err)
	}
	if len(txs) < 2 {
		return []models.RecurringCharge{}, nil
	}

	groups := make(map[string]*chargeGroup)
	for _, tx := range txs {
		desc := tx.Description
		if desc == "" {
			desc = tx.Category
		}
		key := fmt.Sprintf("%s|%.0f", desc, math.Round(tx.Amount))
		g, ok := groups[key]
		if !ok {
			g = &chargeGroup{description: desc}
			groups[key] = g
		}
		g.dates = append(g.dates, tx.Date)
		g.amounts = append(g.amounts, tx.Amount)
	}

	var out []models.RecurringCharge
	for _, g := range groups {
		if len(g.dates) < 2 {
			continue
		}
		sort.Slice(g.dates, func(i, j int) bool { return g.dates[i].Before(g.dates[j]) })

		monthly := true
		var gapSum float64
		for i := 1; i < len(g.dates); i++ {
			gap := g.dates[i].Sub(g.dates[i-1]).Hours() / 24
			if gap < minCadenceDays || gap > maxCadenceDays {
				monthly = false
				break
			}
			gapSum += gap
		}
		if !monthly {
			continue
		}

		months := make(map[[2]int]struct{})
		for _, d := range g.dates {
			months[[2]int{d.Year(), int(d.Month())}] = struct{}{}
		}
		if len(months) < minOccurrences {
			continue
		}

		var amountSum float64
		for _, a := range g.amounts {
			amountSum += a
		}
		out = append(out, models.RecurringCharge{
			Description:      g.description,
			EstimatedMonthly: round2(amountSum / float64(len(g.amounts))),
			Occurrences:      len(g.dates),
			LastDate:         g.dates[len(g.dates)-1].Format("2006-01-02"),
			AvgIntervalDays:  round2(gapSum / float64(len(g.dates)-1)),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].EstimatedMonthly > out[j].EstimatedMonthly })
	if out == nil {
		out = []models.RecurringCharge{}
	}
	e.log.WithFields(map[string]interface{}{
		"scope":      scope.Type,
		"candidates": len(groups),
		"detected":   len(out),
	}).Debug("recurring charge detection complete")
	return out, nil
}

// ForecastBills projects detected recurring charges over the coming
// months. No detections is a normal empty result.
func (e *Engine) ForecastBills(ctx context.Context, scope models.Scope, monthsAhead int) (models.BillForecast, error) {
	if monthsAhead < 1 || monthsAhead > 12 {
		monthsAhead = 3
	}
	detected, err := e.DetectRecurring(ctx, scope, 0, 0)
	if err != nil {
		return models.BillForecast{}, err
	}

	bf := models.BillForecast{Detected: detected, Forecast: []models.BillForecastItem{}}
	for _, rc := range detected {
		for i := 1; i <= monthsAhead; i++ {
			bf.Forecast = append(bf.Forecast, models.BillForecastItem{
				Description: rc.Description,
				MonthAhead:  i,
				Amount:      rc.EstimatedMonthly,
			})
			bf.TotalEstimated += rc.EstimatedMonthly
		}
	}
	bf.TotalEstimated = round2(bf.TotalEstimated)
	return bf, nil
}
