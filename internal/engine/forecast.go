package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/jortega/finance-engine/internal/models"
)

// minForecastHistory is the minimum number of historical months either
// smoothing strategy accepts.
const minForecastHistory = 3

// zeroFilled turns observed monthly flows into a contiguous series
// between the first and last observed month, months with no rows as 0.
func zeroFilled(flows []models.MonthlyFlow, pick func(models.MonthlyFlow) float64) []float64 {
	if len(flows) == 0 {
		return nil
	}
	byMonth := make(map[[2]int]float64, len(flows))
	for _, f := range flows {
		byMonth[[2]int{f.Year, f.Month}] = pick(f)
	}
	first := time.Date(flows[0].Year, time.Month(flows[0].Month), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(flows[len(flows)-1].Year, time.Month(flows[len(flows)-1].Month), 1, 0, 0, 0, 0, time.UTC)

	var series []float64
	for cur := first; !cur.After(last); cur = cur.AddDate(0, 1, 0) {
		series = append(series, byMonth[[2]int{cur.Year(), int(cur.Month())}])
	}
	return series
}

// forecastSMA projects the mean of the last min(3, len) observations
// flat across the horizon.
func forecastSMA(series []float64, horizon int) []float64 {
	window := len(series)
	if window > 3 {
		window = 3
	}
	var sum float64
	for _, v := range series[len(series)-window:] {
		sum += v
	}
	flat := sum / float64(window)

	out := make([]float64, horizon)
	for i := range out {
		out[i] = flat
	}
	return out
}

// forecastEMA runs an exponential moving average over the history with
// alpha = 2/(min(len,6)+1) and projects the final smoothed value flat.
func forecastEMA(series []float64, horizon int) []float64 {
	n := len(series)
	if n > 6 {
		n = 6
	}
	alpha := 2.0 / float64(n+1)
	ema := series[0]
	for _, v := range series[1:] {
		ema = alpha*v + (1-alpha)*ema
	}

	out := make([]float64, horizon)
	for i := range out {
		out[i] = ema
	}
	return out
}

// ForecastCategory projects expenses for one category over the horizon
// using the requested smoothing method. Fewer than 3 historical months
// is an insufficient-data condition.
func (e *Engine) ForecastCategory(ctx context.Context, scope models.Scope, category string, monthsAhead int, method string) (models.CategoryForecast, error) {
	if monthsAhead < 1 || monthsAhead > 12 {
		monthsAhead = 6
	}
	history, err := e.gw.MonthlyCategoryTotals(ctx, scope, category, e.monthsAgo(12), time.Time{})
	if err != nil {
		return models.CategoryForecast{}, fmt.Errorf("failed to get category history: %w", err)
	}

	series := zeroFilled(history, func(f models.MonthlyFlow) float64 { return f.Expense })
	if len(series) < minForecastHistory {
		return models.CategoryForecast{}, fmt.Errorf("%w: at least %d historical months are required for a forecast", ErrInsufficientData, minForecastHistory)
	}

	var values []float64
	switch method {
	case models.MethodEMA:
		values = forecastEMA(series, monthsAhead)
	default:
		values = forecastSMA(series, monthsAhead)
		method = models.MethodSMA
	}

	cf := models.CategoryForecast{
		Category: category,
		Method:   method,
		History:  history,
		Forecast: make([]models.ForecastPoint, monthsAhead),
	}
	for i, v := range values {
		cf.Forecast[i] = models.ForecastPoint{MonthAhead: i + 1, Amount: round2(v)}
	}
	return cf, nil
}

// ForecastCashFlow projects income, expenses and running balance from
// the trailing monthly averages.
func (e *Engine) ForecastCashFlow(ctx context.Context, scope models.Scope, months int) (models.CashFlowProjection, error) {
	if months < 1 {
		months = 6
	}
	flows, err := e.gw.MonthlyFlows(ctx, scope, e.monthsAgo(e.cfg.TrailingMonths), time.Time{})
	if err != nil {
		return models.CashFlowProjection{}, fmt.Errorf("failed to get monthly flows: %w", err)
	}
	if len(flows) < minForecastHistory {
		return models.CashFlowProjection{}, fmt.Errorf("%w: at least %d historical months are required for a projection", ErrInsufficientData, minForecastHistory)
	}

	var incSum, expSum float64
	for _, f := range flows {
		incSum += f.Income
		expSum += f.Expense
	}
	avgIncome := incSum / float64(len(flows))
	avgExpense := expSum / float64(len(flows))

	bal, err := e.gw.Balance(ctx, scope)
	if err != nil {
		return models.CashFlowProjection{}, fmt.Errorf("failed to get balance: %w", err)
	}

	proj := models.CashFlowProjection{
		Months:            months,
		AvgMonthlyIncome:  round2(avgIncome),
		AvgMonthlyExpense: round2(avgExpense),
		MonthlyNet:        round2(avgIncome - avgExpense),
		InitialBalance:    round2(bal.Balance),
		Projection:        make([]models.ProjectedMonth, months),
	}
	running := bal.Balance
	for i := 0; i < months; i++ {
		running += avgIncome - avgExpense
		proj.Projection[i] = models.ProjectedMonth{
			Month:            i + 1,
			ProjectedIncome:  round2(avgIncome),
			ProjectedExpense: round2(avgExpense),
			ProjectedBalance: round2(running),
		}
	}
	proj.FinalBalance = round2(running)
	return proj, nil
}

// CashRunway reports how many months the current cash covers at the
// observed burn rate. A non-negative net flow means there is no burn
// and the runway is unlimited.
func (e *Engine) CashRunway(ctx context.Context, scope models.Scope, currentCash *float64, burnMonths int) (models.CashRunway, error) {
	if burnMonths < 1 {
		burnMonths = 3
	}
	ps, err := e.gw.PeriodSummary(ctx, scope, e.monthsAgo(burnMonths), time.Time{})
	if err != nil {
		return models.CashRunway{}, fmt.Errorf("failed to get trailing summary: %w", err)
	}
	burn := (ps.Expense - ps.Income) / float64(burnMonths)
	if burn < 0 {
		burn = 0
	}

	cash := 0.0
	if currentCash != nil {
		cash = *currentCash
	} else {
		bal, err := e.gw.Balance(ctx, scope)
		if err != nil {
			return models.CashRunway{}, fmt.Errorf("failed to get balance: %w", err)
		}
		if bal.Balance > 0 {
			cash = bal.Balance
		}
	}

	cr := models.CashRunway{
		CurrentCash:     round2(cash),
		MonthlyBurnRate: round2(burn),
		BurnWindow:      burnMonths,
	}
	if burn == 0 {
		cr.Unlimited = true
		return cr, nil
	}
	months := round2(cash / burn)
	cr.RunwayMonths = &months
	return cr, nil
}

// PredictCashShortage extrapolates the trailing average net flow and
// reports whether the balance crosses zero within the horizon.
func (e *Engine) PredictCashShortage(ctx context.Context, scope models.Scope, monthsAhead int) (models.ShortagePrediction, error) {
	if monthsAhead < 1 || monthsAhead > 24 {
		monthsAhead = 6
	}
	flows, err := e.gw.MonthlyFlows(ctx, scope, e.monthsAgo(12), time.Time{})
	if err != nil {
		return models.ShortagePrediction{}, fmt.Errorf("failed to get monthly flows: %w", err)
	}
	if len(flows) < minForecastHistory {
		return models.ShortagePrediction{}, fmt.Errorf("%w: at least %d historical months are required for a reliable prediction", ErrInsufficientData, minForecastHistory)
	}

	var netSum float64
	for _, f := range flows {
		netSum += f.Balance
	}
	avgNet := netSum / float64(len(flows))

	bal, err := e.gw.Balance(ctx, scope)
	if err != nil {
		return models.ShortagePrediction{}, fmt.Errorf("failed to get balance: %w", err)
	}

	sp := models.ShortagePrediction{
		CurrentBalance:    round2(bal.Balance),
		AvgMonthlyNetFlow: round2(avgNet),
	}
	if avgNet >= 0 {
		sp.Message = "no cash shortage is predicted under current trends"
		return sp, nil
	}

	months := round2(-bal.Balance / avgNet)
	if months < 0 {
		months = 0
	}
	if months > float64(monthsAhead) {
		sp.Message = fmt.Sprintf("no shortage predicted within the next %d months", monthsAhead)
		return sp, nil
	}
	sp.ShortagePredicted = true
	sp.MonthsToShortage = &months
	sp.Message = fmt.Sprintf("possible cash shortage in about %.1f months", months)
	return sp, nil
}
