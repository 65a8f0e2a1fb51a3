// Package memory provides an in-memory LedgerGateway used by tests and
// local demos. It mirrors the aggregate semantics of the Postgres
// implementation over plain slices.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jortega/finance-engine/internal/models"
)

// Store is an in-memory ledger, safe for concurrent reads.
type Store struct {
	mu   sync.RWMutex
	rows map[models.EntityType][]models.Transaction
}

// NewStore initializes an empty in-memory ledger.
func NewStore() *Store {
	return &Store{rows: make(map[models.EntityType][]models.Transaction)}
}

// Add appends a row to the ledger for the given entity type.
func (s *Store) Add(entityType models.EntityType, tx models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = int64(len(s.rows[entityType]) + 1)
	s.rows[entityType] = append(s.rows[entityType], tx)
}

func inRange(d, from, to time.Time) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

// matching returns copies of the rows visible to a scope within a range.
func (s *Store) matching(scope models.Scope, from, to time.Time) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Transaction
	for _, tx := range s.rows[scope.Type] {
		if scope.ID != "" && tx.EntityID != scope.ID {
			continue
		}
		if !inRange(tx.Date, from, to) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Balance implements gateway.LedgerGateway.
func (s *Store) Balance(_ context.Context, scope models.Scope) (models.Balance, error) {
	var b models.Balance
	for _, tx := range s.matching(scope, time.Time{}, time.Time{}) {
		switch tx.Type {
		case models.TypeIncome:
			b.Income += tx.Amount
		case models.TypeExpense:
			b.Expense += tx.Amount
		}
	}
	b.Balance = b.Income - b.Expense
	return b, nil
}

// PeriodSummary implements gateway.LedgerGateway.
func (s *Store) PeriodSummary(_ context.Context, scope models.Scope, from, to time.Time) (models.PeriodSummary, error) {
	var ps models.PeriodSummary
	for _, tx := range s.matching(scope, from, to) {
		switch tx.Type {
		case models.TypeIncome:
			ps.Income += tx.Amount
		case models.TypeExpense:
			ps.Expense += tx.Amount
		}
		ps.TransactionCount++
	}
	ps.Balance = ps.Income - ps.Expense
	if !from.IsZero() {
		ps.StartDate = from.Format("2006-01-02")
	}
	if !to.IsZero() {
		ps.EndDate = to.Format("2006-01-02")
	}
	return ps, nil
}

// CategoryTotals implements gateway.LedgerGateway.
func (s *Store) CategoryTotals(_ context.Context, scope models.Scope, txType string, from, to time.Time) ([]models.CategoryTotal, error) {
	totals := make(map[string]*models.CategoryTotal)
	for _, tx := range s.matching(scope, from, to) {
		if tx.Type != txType {
			continue
		}
		ct, ok := totals[tx.Category]
		if !ok {
			ct = &models.CategoryTotal{Category: tx.Category}
			totals[tx.Category] = ct
		}
		ct.Total += tx.Amount
		ct.TransactionCount++
	}
	out := make([]models.CategoryTotal, 0, len(totals))
	for _, ct := range totals {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

func monthKey(d time.Time) (int, int) { return d.Year(), int(d.Month()) }

func flowSeries(rows []models.Transaction, include func(models.Transaction) bool) []models.MonthlyFlow {
	byMonth := make(map[[2]int]*models.MonthlyFlow)
	for _, tx := range rows {
		if include != nil && !include(tx) {
			continue
		}
		y, m := monthKey(tx.Date)
		key := [2]int{y, m}
		mf, ok := byMonth[key]
		if !ok {
			mf = &models.MonthlyFlow{Year: y, Month: m}
			byMonth[key] = mf
		}
		switch tx.Type {
		case models.TypeIncome:
			mf.Income += tx.Amount
		case models.TypeExpense:
			mf.Expense += tx.Amount
		}
	}
	out := make([]models.MonthlyFlow, 0, len(byMonth))
	for _, mf := range byMonth {
		mf.Balance = mf.Income - mf.Expense
		out = append(out, *mf)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// MonthlyFlows implements gateway.LedgerGateway.
func (s *Store) MonthlyFlows(_ context.Context, scope models.Scope, from, to time.Time) ([]models.MonthlyFlow, error) {
	return flowSeries(s.matching(scope, from, to), nil), nil
}

// MonthlyCategoryTotals implements gateway.LedgerGateway.
func (s *Store) MonthlyCategoryTotals(_ context.Context, scope models.Scope, category string, from, to time.Time) ([]models.MonthlyFlow, error) {
	return flowSeries(s.matching(scope, from, to), func(tx models.Transaction) bool {
		return tx.Type == models.TypeExpense && tx.Category == category
	}), nil
}

// TransactionsByType implements gateway.LedgerGateway.
func (s *Store) TransactionsByType(_ context.Context, scope models.Scope, txType string, from, to time.Time) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range s.matching(scope, from, to) {
		if tx.Type == txType {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ListTransactions implements gateway.LedgerGateway.
func (s *Store) ListTransactions(_ context.Context, scope models.Scope, f models.TransactionFilter) (models.TransactionPage, error) {
	var all []models.Transaction
	for _, tx := range s.matching(scope, f.Start, f.End) {
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.MinAmount != nil && tx.Amount < *f.MinAmount {
			continue
		}
		if f.MaxAmount != nil && tx.Amount > *f.MaxAmount {
			continue
		}
		all = append(all, tx)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })

	page := models.TransactionPage{Total: len(all), Limit: f.Limit, Offset: f.Offset}
	if f.Offset < len(all) {
		end := f.Offset + f.Limit
		if end > len(all) {
			end = len(all)
		}
		page.Items = all[f.Offset:end]
	}
	if page.Items == nil {
		page.Items = []models.Transaction{}
	}
	return page, nil
}
