// Package gateway defines the read-only contract the analytics engine
// consumes from the ledger. Implementations own connections and schema
// details; the engine never sees table or column names.
package gateway

import (
	"context"
	"time"

	"github.com/jortega/finance-engine/internal/models"
)

// LedgerGateway exposes the aggregate queries the engine needs. Zero
// time values mean an unbounded side of the range. Implementations must
// return empty (not nil-error) results when no rows match.
type LedgerGateway interface {
	// Balance returns all-time income, expense and net balance.
	Balance(ctx context.Context, scope models.Scope) (models.Balance, error)

	// PeriodSummary returns totals and a row count over a date range.
	PeriodSummary(ctx context.Context, scope models.Scope, from, to time.Time) (models.PeriodSummary, error)

	// CategoryTotals returns per-category sums and counts for one
	// transaction type, ordered by total descending.
	CategoryTotals(ctx context.Context, scope models.Scope, txType string, from, to time.Time) ([]models.CategoryTotal, error)

	// MonthlyFlows returns the month-bucketed income/expense series,
	// ordered oldest first. Months with no rows are absent.
	MonthlyFlows(ctx context.Context, scope models.Scope, from, to time.Time) ([]models.MonthlyFlow, error)

	// MonthlyCategoryTotals is MonthlyFlows restricted to expenses of a
	// single category.
	MonthlyCategoryTotals(ctx context.Context, scope models.Scope, category string, from, to time.Time) ([]models.MonthlyFlow, error)

	// TransactionsByType returns raw rows of one type in a date range,
	// ordered by date ascending. Used by the recurring detector.
	TransactionsByType(ctx context.Context, scope models.Scope, txType string, from, to time.Time) ([]models.Transaction, error)

	// ListTransactions returns one filtered, paginated page of rows,
	// newest first, plus the unpaginated total.
	ListTransactions(ctx context.Context, scope models.Scope, filter models.TransactionFilter) (models.TransactionPage, error)
}
