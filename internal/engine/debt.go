package engine

import (
	"fmt"
	"sort"

	"github.com/jortega/finance-engine/internal/models"
)

type simDebt struct {
	name        string
	balance     float64
	monthlyRate float64
	minPayment  float64
}

// paymentOrder returns debt indices sorted by the method's key:
// avalanche by APR descending, snowball by balance ascending. Avalanche
// order is stable over time but snowball depends on balances, so this
// runs again after every simulated month.
func paymentOrder(debts []simDebt, method string) []int {
	order := make([]int, len(debts))
	for i := range order {
		order[i] = i
	}
	if method == models.MethodSnowball {
		sort.SliceStable(order, func(a, b int) bool {
			return debts[order[a]].balance < debts[order[b]].balance
		})
	} else {
		sort.SliceStable(order, func(a, b int) bool {
			return debts[order[a]].monthlyRate > debts[order[b]].monthlyRate
		})
	}
	return order
}

// OptimizeDebtPaydown simulates month-by-month amortization of the
// supplied debts under a fixed monthly budget of all minimum payments
// plus the extra amount. Minimum payments freed by cleared debts and
// the extra pool go to the front debt of the method's current ordering.
// The caller's debt list is never mutated. A plan still open after 240
// months fails with ErrNonConvergent.
func (e *Engine) OptimizeDebtPaydown(debts []models.Debt, method string, extraMonthly float64) (models.PaydownPlan, error) {
	sim := make([]simDebt, len(debts))
	var budget, originalTotal float64
	for i, d := range debts {
		sim[i] = simDebt{
			name:        d.Name,
			balance:     d.Balance,
			monthlyRate: d.APR / 100 / 12,
			minPayment:  d.MinimumPayment,
		}
		budget += d.MinimumPayment
		originalTotal += d.Balance
	}
	budget += extraMonthly

	allClear := func() bool {
		for _, d := range sim {
			if d.balance > balanceEpsilon {
				return false
			}
		}
		return true
	}

	var schedule []models.AmortizationMonth
	var totalInterest float64
	month := 0

	for !allClear() && month < maxAmortizationMonths {
		month++

		// accrue interest on every open debt
		var monthInterest float64
		for i := range sim {
			if sim[i].balance > balanceEpsilon {
				interest := sim[i].balance * sim[i].monthlyRate
				sim[i].balance += interest
				monthInterest += interest
			}
		}
		totalInterest += monthInterest

		// minimum payments, capped at what each debt still owes
		payments := make([]float64, len(sim))
		available := budget
		for i := range sim {
			if sim[i].balance <= balanceEpsilon {
				continue
			}
			pay := sim[i].minPayment
			if pay > sim[i].balance {
				pay = sim[i].balance
			}
			sim[i].balance -= pay
			available -= pay
			payments[i] += pay
		}

		// Whatever the minimums did not consume (the extra pool plus
		// freed minimums) attacks the ordering's front debt, rolling to
		// the next when one clears mid-month.
		for _, idx := range paymentOrder(sim, method) {
			if available <= 0 {
				break
			}
			if sim[idx].balance <= balanceEpsilon {
				continue
			}
			pay := available
			if pay > sim[idx].balance {
				pay = sim[idx].balance
			}
			sim[idx].balance -= pay
			available -= pay
			payments[idx] += pay
		}

		var remaining float64
		monthPayments := make([]models.DebtPayment, len(sim))
		for i := range sim {
			if sim[i].balance <= balanceEpsilon {
				sim[i].balance = 0
			}
			remaining += sim[i].balance
			monthPayments[i] = models.DebtPayment{Name: sim[i].name, Payment: round2(payments[i])}
		}
		schedule = append(schedule, models.AmortizationMonth{
			Month:        month,
			Payments:     monthPayments,
			TotalBalance: round2(remaining),
			InterestPaid: round2(monthInterest),
		})
	}

	if !allClear() {
		return models.PaydownPlan{}, ErrNonConvergent
	}

	// every 3rd month, to bound response size
	summary := make([]models.AmortizationMonth, 0, (len(schedule)+2)/3)
	for i := 0; i < len(schedule); i += 3 {
		summary = append(summary, schedule[i])
	}

	plan := models.PaydownPlan{
		Method:            method,
		MonthsToFreedom:   month,
		TotalPaid:         round2(originalTotal + totalInterest),
		TotalInterestPaid: round2(totalInterest),
		ScheduleSummary:   summary,
	}
	e.log.WithFields(map[string]interface{}{
		"method":   method,
		"debts":    len(debts),
		"months":   plan.MonthsToFreedom,
		"interest": plan.TotalInterestPaid,
	}).Debug("debt paydown simulated")
	return plan, nil
}

// CompareDebtStrategies runs both orderings over the same debt set and
// reports what avalanche saves over snowball.
func (e *Engine) CompareDebtStrategies(debts []models.Debt, extraMonthly float64) (models.PaydownComparison, error) {
	avalanche, err := e.OptimizeDebtPaydown(debts, models.MethodAvalanche, extraMonthly)
	if err != nil {
		return models.PaydownComparison{}, fmt.Errorf("avalanche simulation: %w", err)
	}
	snowball, err := e.OptimizeDebtPaydown(debts, models.MethodSnowball, extraMonthly)
	if err != nil {
		return models.PaydownComparison{}, fmt.Errorf("snowball simulation: %w", err)
	}
	return models.PaydownComparison{
		Avalanche:     avalanche,
		Snowball:      snowball,
		InterestSaved: round2(snowball.TotalInterestPaid - avalanche.TotalInterestPaid),
		MonthsSaved:   snowball.MonthsToFreedom - avalanche.MonthsToFreedom,
	}, nil
}
