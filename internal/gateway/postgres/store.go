// Package postgres implements the ledger gateway against the financial
// database. The schema boundary is fixed here and nowhere else: company
// rows live in finanzas_empresa keyed by empresa_id, personal rows in
// finanzas_personales keyed by id_usuario, with columns fecha, monto,
// tipo, categoria and concepto.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jortega/finance-engine/internal/models"
)

// Store is the Postgres-backed LedgerGateway.
type Store struct {
	db *sql.DB
}

// NewStore initializes a new Postgres gateway over an open connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func tableFor(scope models.Scope) (table, idCol string) {
	if scope.Type == models.EntityPersonal {
		return "finanzas_personales", "id_usuario"
	}
	return "finanzas_empresa", "empresa_id"
}

// scopeFilter appends entity and date conditions to a WHERE clause under
// construction, returning the updated conditions and parameters.
func scopeFilter(scope models.Scope, idCol string, from, to time.Time, conds []string, params []interface{}) ([]string, []interface{}) {
	if scope.ID != "" {
		params = append(params, scope.ID)
		conds = append(conds, fmt.Sprintf("%s = $%d", idCol, len(params)))
	}
	if !from.IsZero() {
		params = append(params, from)
		conds = append(conds, fmt.Sprintf("fecha >= $%d", len(params)))
	}
	if !to.IsZero() {
		params = append(params, to)
		conds = append(conds, fmt.Sprintf("fecha <= $%d", len(params)))
	}
	return conds, params
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// toFloat converts a nullable SQL numeric to float64, treating NULL as 0.
func toFloat(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return 0
	}
	return d.Decimal.InexactFloat64()
}

// Balance implements gateway.LedgerGateway.
func (s *Store) Balance(ctx context.Context, scope models.Scope) (models.Balance, error) {
	table, idCol := tableFor(scope)
	conds, params := scopeFilter(scope, idCol, time.Time{}, time.Time{}, nil, nil)
	query := fmt.Sprintf(`
		SELECT
			SUM(CASE WHEN tipo = 'ingreso' THEN monto ELSE 0 END),
			SUM(CASE WHEN tipo = 'gasto' THEN monto ELSE 0 END)
		FROM %s%s`, table, whereClause(conds))

	var income, expense decimal.NullDecimal
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&income, &expense); err != nil {
		return models.Balance{}, fmt.Errorf("failed to query balance: %w", err)
	}
	b := models.Balance{Income: toFloat(income), Expense: toFloat(expense)}
	b.Balance = b.Income - b.Expense
	return b, nil
}

// PeriodSummary implements gateway.LedgerGateway.
func (s *Store) PeriodSummary(ctx context.Context, scope models.Scope, from, to time.Time) (models.PeriodSummary, error) {
	table, idCol := tableFor(scope)
	conds, params := scopeFilter(scope, idCol, from, to, nil, nil)
	query := fmt.Sprintf(`
		SELECT
			SUM(CASE WHEN tipo = 'ingreso' THEN monto ELSE 0 END),
			SUM(CASE WHEN tipo = 'gasto' THEN monto ELSE 0 END),
			COUNT(*)
		FROM %s%s`, table, whereClause(conds))

	var income, expense decimal.NullDecimal
	var count int
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&income, &expense, &count); err != nil {
		return models.PeriodSummary{}, fmt.Errorf("failed to query period summary: %w", err)
	}
	ps := models.PeriodSummary{
		Income:           toFloat(income),
		Expense:          toFloat(expense),
		TransactionCount: count,
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
func (s *Store) CategoryTotals(ctx context.Context, scope models.Scope, txType string, from, to time.Time) ([]models.CategoryTotal, error) {
	table, idCol := tableFor(scope)
	params := []interface{}{txType}
	conds := []string{"tipo = $1"}
	conds, params = scopeFilter(scope, idCol, from, to, conds, params)
	query := fmt.Sprintf(`
		SELECT categoria, SUM(monto), COUNT(*)
		FROM %s%s
		GROUP BY categoria
		ORDER BY SUM(monto) DESC`, table, whereClause(conds))

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	var out []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		var total decimal.NullDecimal
		if err := rows.Scan(&ct.Category, &total, &ct.TransactionCount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		ct.Total = toFloat(total)
		out = append(out, ct)
	}
	return out, rows.Err()
}

func (s *Store) monthlySeries(ctx context.Context, table string, conds []string, params []interface{}) ([]models.MonthlyFlow, error) {
	query := fmt.Sprintf(`
		SELECT
			EXTRACT(YEAR FROM fecha)::int,
			EXTRACT(MONTH FROM fecha)::int,
			SUM(CASE WHEN tipo = 'ingreso' THEN monto ELSE 0 END),
			SUM(CASE WHEN tipo = 'gasto' THEN monto ELSE 0 END)
		FROM %s%s
		GROUP BY 1, 2
		ORDER BY 1, 2`, table, whereClause(conds))

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly series: %w", err)
	}
	defer rows.Close()

	var out []models.MonthlyFlow
	for rows.Next() {
		var mf models.MonthlyFlow
		var income, expense decimal.NullDecimal
		if err := rows.Scan(&mf.Year, &mf.Month, &income, &expense); err != nil {
			return nil, fmt.Errorf("failed to scan monthly row: %w", err)
		}
		mf.Income = toFloat(income)
		mf.Expense = toFloat(expense)
		mf.Balance = mf.Income - mf.Expense
		out = append(out, mf)
	}
	return out, rows.Err()
}

// MonthlyFlows implements gateway.LedgerGateway.
func (s *Store) MonthlyFlows(ctx context.Context, scope models.Scope, from, to time.Time) ([]models.MonthlyFlow, error) {
	table, idCol := tableFor(scope)
	conds, params := scopeFilter(scope, idCol, from, to, nil, nil)
	return s.monthlySeries(ctx, table, conds, params)
}

// MonthlyCategoryTotals implements gateway.LedgerGateway.
func (s *Store) MonthlyCategoryTotals(ctx context.Context, scope models.Scope, category string, from, to time.Time) ([]models.MonthlyFlow, error) {
	table, idCol := tableFor(scope)
	params := []interface{}{models.TypeExpense, category}
	conds := []string{"tipo = $1", "categoria = $2"}
	conds, params = scopeFilter(scope, idCol, from, to, conds, params)
	return s.monthlySeries(ctx, table, conds, params)
}

// TransactionsByType implements gateway.LedgerGateway.
func (s *Store) TransactionsByType(ctx context.Context, scope models.Scope, txType string, from, to time.Time) ([]models.Transaction, error) {
	table, idCol := tableFor(scope)
	params := []interface{}{txType}
	conds := []string{"tipo = $1"}
	conds, params = scopeFilter(scope, idCol, from, to, conds, params)
	query := fmt.Sprintf(`
		SELECT id, fecha, monto, tipo, categoria, COALESCE(concepto, ''), COALESCE(%s::text, '')
		FROM %s%s
		ORDER BY fecha ASC`, idCol, table, whereClause(conds))

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListTransactions implements gateway.LedgerGateway.
func (s *Store) ListTransactions(ctx context.Context, scope models.Scope, f models.TransactionFilter) (models.TransactionPage, error) {
	table, idCol := tableFor(scope)
	conds, params := scopeFilter(scope, idCol, f.Start, f.End, nil, nil)
	if f.Category != "" {
		params = append(params, f.Category)
		conds = append(conds, fmt.Sprintf("categoria = $%d", len(params)))
	}
	if f.Type != "" {
		params = append(params, f.Type)
		conds = append(conds, fmt.Sprintf("tipo = $%d", len(params)))
	}
	if f.MinAmount != nil {
		params = append(params, *f.MinAmount)
		conds = append(conds, fmt.Sprintf("monto >= $%d", len(params)))
	}
	if f.MaxAmount != nil {
		params = append(params, *f.MaxAmount)
		conds = append(conds, fmt.Sprintf("monto <= $%d", len(params)))
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, whereClause(conds))
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, params...).Scan(&total); err != nil {
		return models.TransactionPage{}, fmt.Errorf("failed to count transactions: %w", err)
	}

	params = append(params, f.Limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT id, fecha, monto, tipo, categoria, COALESCE(concepto, ''), COALESCE(%s::text, '')
		FROM %s%s
		ORDER BY fecha DESC
		LIMIT $%d OFFSET $%d`, idCol, table, whereClause(conds), len(params)-1, len(params))

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return models.TransactionPage{}, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	items, err := scanTransactions(rows)
	if err != nil {
		return models.TransactionPage{}, err
	}
	if items == nil {
		items = []models.Transaction{}
	}
	return models.TransactionPage{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var out []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var amount decimal.Decimal
		if err := rows.Scan(&tx.ID, &tx.Date, &amount, &tx.Type, &tx.Category, &tx.Description, &tx.EntityID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Amount = amount.InexactFloat64()
		out = append(out, tx)
	}
	return out, rows.Err()
}
