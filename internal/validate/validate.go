// Package validate holds the shared input checks performed before any
// ledger query runs. All violations are caller-fixable and reported
// immediately.
package validate

import (
	"errors"
	"fmt"
	"time"

	"github.com/jortega/finance-engine/internal/models"
)

// ErrValidation marks caller-fixable input errors. Wrap with %w.
var ErrValidation = errors.New("validation error")

// DateFormat is the only accepted date layout.
const DateFormat = "2006-01-02"

// MaxPageLimit bounds transaction listings.
const MaxPageLimit = 200

// Date parses an ISO-8601 date string. Empty input yields a zero time.
func Date(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrValidation, s)
	}
	return t, nil
}

// EntityType checks the entity-type token.
func EntityType(s string) (models.EntityType, error) {
	switch models.EntityType(s) {
	case models.EntityCompany, models.EntityPersonal:
		return models.EntityType(s), nil
	case "":
		return models.EntityCompany, nil
	}
	return "", fmt.Errorf("%w: entity_type must be %q or %q", ErrValidation, models.EntityCompany, models.EntityPersonal)
}

// Direction checks a transaction-type token.
func Direction(s string) (string, error) {
	switch s {
	case models.TypeIncome, models.TypeExpense:
		return s, nil
	}
	return "", fmt.Errorf("%w: type must be %q or %q", ErrValidation, models.TypeIncome, models.TypeExpense)
}

// Month checks a calendar month number.
func Month(m int) error {
	if m < 1 || m > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrValidation)
	}
	return nil
}

// Pagination checks limit and offset, applying defaults for zero values.
func Pagination(limit, offset int) (int, int, error) {
	if limit == 0 {
		limit = 50
	}
	if limit < 1 || limit > MaxPageLimit {
		return 0, 0, fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, MaxPageLimit)
	}
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset must be >= 0", ErrValidation)
	}
	return limit, offset, nil
}

// Amount checks a monetary amount.
func Amount(v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	}
	return nil
}

// Debts checks a caller-supplied debt list.
func Debts(debts []models.Debt) error {
	if len(debts) == 0 {
		return fmt.Errorf("%w: debts list cannot be empty", ErrValidation)
	}
	for i, d := range debts {
		if d.Balance < 0 {
			return fmt.Errorf("%w: debt %d has negative balance", ErrValidation, i)
		}
		if d.APR < 0 {
			return fmt.Errorf("%w: debt %d has negative APR", ErrValidation, i)
		}
		if d.MinimumPayment < 0 {
			return fmt.Errorf("%w: debt %d has negative minimum payment", ErrValidation, i)
		}
	}
	return nil
}

// PaydownMethod checks the debt-ordering token.
func PaydownMethod(s string) (string, error) {
	switch s {
	case models.MethodAvalanche, models.MethodSnowball, models.MethodCompare:
		return s, nil
	case "":
		return models.MethodAvalanche, nil
	}
	return "", fmt.Errorf("%w: method must be %q, %q or %q",
		ErrValidation, models.MethodAvalanche, models.MethodSnowball, models.MethodCompare)
}

// ForecastMethod checks the smoothing-method token.
func ForecastMethod(s string) (string, error) {
	switch s {
	case models.MethodSMA, models.MethodEMA:
		return s, nil
	case "":
		return models.MethodSMA, nil
	}
	return "", fmt.Errorf("%w: method must be %q or %q", ErrValidation, models.MethodSMA, models.MethodEMA)
}
