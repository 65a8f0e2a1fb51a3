package validate

import (
	"errors"
	"testing"

	"github.com/jortega/finance-engine/internal/models"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", "2024-06-15", false},
		{"empty is unbounded", "", false},
		{"wrong layout", "15/06/2024", true},
		{"not a date", "yesterday", true},
		{"month out of range", "2024-13-01", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Date(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("Date(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("Date(%q) error does not wrap ErrValidation: %v", tt.in, err)
			}
		})
	}
}

func TestEntityType(t *testing.T) {
	if et, err := EntityType(""); err != nil || et != models.EntityCompany {
		t.Errorf("EntityType(\"\") = %v, %v; want company default", et, err)
	}
	if et, err := EntityType("personal"); err != nil || et != models.EntityPersonal {
		t.Errorf("EntityType(personal) = %v, %v", et, err)
	}
	if _, err := EntityType("household"); !errors.Is(err, ErrValidation) {
		t.Errorf("EntityType(household) error = %v, want ErrValidation", err)
	}
}

func TestDirection(t *testing.T) {
	for _, ok := range []string{models.TypeIncome, models.TypeExpense} {
		if _, err := Direction(ok); err != nil {
			t.Errorf("Direction(%q) unexpected error: %v", ok, err)
		}
	}
	if _, err := Direction("transfer"); !errors.Is(err, ErrValidation) {
		t.Errorf("Direction(transfer) error = %v, want ErrValidation", err)
	}
}

func TestMonth(t *testing.T) {
	if err := Month(12); err != nil {
		t.Errorf("Month(12) unexpected error: %v", err)
	}
	for _, bad := range []int{0, -1, 13} {
		if err := Month(bad); !errors.Is(err, ErrValidation) {
			t.Errorf("Month(%d) error = %v, want ErrValidation", bad, err)
		}
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		wantLimit     int
		wantErr       bool
	}{
		{"defaults", 0, 0, 50, false},
		{"explicit", 25, 10, 25, false},
		{"at ceiling", MaxPageLimit, 0, MaxPageLimit, false},
		{"above ceiling", MaxPageLimit + 1, 0, 0, true},
		{"negative limit", -5, 0, 0, true},
		{"negative offset", 10, -1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, _, err := Pagination(tt.limit, tt.offset)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Pagination(%d, %d) error = %v, wantErr %v", tt.limit, tt.offset, err, tt.wantErr)
			}
			if err == nil && limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", limit, tt.wantLimit)
			}
		})
	}
}

func TestAmount(t *testing.T) {
	if err := Amount(0); err != nil {
		t.Errorf("Amount(0) unexpected error: %v", err)
	}
	if err := Amount(-0.01); !errors.Is(err, ErrValidation) {
		t.Errorf("Amount(-0.01) error = %v, want ErrValidation", err)
	}
}

func TestDebts(t *testing.T) {
	ok := []models.Debt{{Name: "loan", Balance: 1000, APR: 10, MinimumPayment: 50}}
	if err := Debts(ok); err != nil {
		t.Errorf("valid debts rejected: %v", err)
	}

	tests := []struct {
		name  string
		debts []models.Debt
	}{
		{"empty list", nil},
		{"negative balance", []models.Debt{{Balance: -1}}},
		{"negative APR", []models.Debt{{Balance: 100, APR: -5}}},
		{"negative minimum", []models.Debt{{Balance: 100, MinimumPayment: -10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Debts(tt.debts); !errors.Is(err, ErrValidation) {
				t.Errorf("Debts error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestPaydownMethod(t *testing.T) {
	if m, err := PaydownMethod(""); err != nil || m != models.MethodAvalanche {
		t.Errorf("PaydownMethod(\"\") = %q, %v; want avalanche default", m, err)
	}
	for _, ok := range []string{models.MethodAvalanche, models.MethodSnowball, models.MethodCompare} {
		if _, err := PaydownMethod(ok); err != nil {
			t.Errorf("PaydownMethod(%q) unexpected error: %v", ok, err)
		}
	}
	if _, err := PaydownMethod("tsunami"); !errors.Is(err, ErrValidation) {
		t.Errorf("PaydownMethod(tsunami) error = %v, want ErrValidation", err)
	}
}

func TestForecastMethod(t *testing.T) {
	if m, err := ForecastMethod(""); err != nil || m != models.MethodSMA {
		t.Errorf("ForecastMethod(\"\") = %q, %v; want sma default", m, err)
	}
	if _, err := ForecastMethod("arima"); !errors.Is(err, ErrValidation) {
		t.Errorf("ForecastMethod(arima) error = %v, want ErrValidation", err)
	}
}
