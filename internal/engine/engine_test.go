package engine

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jortega/finance-engine/internal/gateway/memory"
	"github.com/jortega/finance-engine/internal/models"
)

// testNow anchors every trailing window so fixtures stay deterministic.
var testNow = time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)

var testScope = models.Scope{Type: models.EntityCompany}

func newTestEngine(store *memory.Store) *Engine {
	log := logrus.New()
	log.SetOutput(io.Discard)
	e := New(store, log, DefaultConfig())
	e.now = func() time.Time { return testNow }
	return e
}

func seed(t *testing.T, s *memory.Store, date string, amount float64, txType, category, desc string) {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", date, err)
	}
	s.Add(models.EntityCompany, models.Transaction{
		Date:        d,
		Amount:      amount,
		Type:        txType,
		Category:    category,
		Description: desc,
	})
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestPctChange(t *testing.T) {
	tests := []struct {
		name      string
		cur, prev float64
		want      float64
	}{
		{"normal increase", 150, 100, 50},
		{"normal decrease", 50, 100, -50},
		{"zero previous positive current", 500, 0, 100},
		{"zero previous zero current", 0, 0, 0},
		{"zero previous negative current", -10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pctChange(tt.cur, tt.prev); got != tt.want {
				t.Errorf("pctChange(%v, %v) = %v, want %v", tt.cur, tt.prev, got, tt.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	if got := round2(10.005); !almostEqual(got, 10.01, 1e-9) {
		t.Errorf("round2(10.005) = %v, want 10.01", got)
	}
	if got := round2(-3.456); !almostEqual(got, -3.46, 1e-9) {
		t.Errorf("round2(-3.456) = %v, want -3.46", got)
	}
}

func TestConfigDefaultsApplied(t *testing.T) {
	e := newTestEngine(memory.NewStore())
	if e.cfg.TrailingMonths != 6 {
		t.Errorf("TrailingMonths = %d, want 6", e.cfg.TrailingMonths)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	partial := New(memory.NewStore(), log, Config{StressModerateMonths: 8})
	if partial.cfg.StressHighMonths != 16 {
		t.Errorf("StressHighMonths = %v, want 16 (double the moderate threshold)", partial.cfg.StressHighMonths)
	}
	if partial.cfg.RecurringMinOccurrences != 3 {
		t.Errorf("RecurringMinOccurrences = %d, want default 3", partial.cfg.RecurringMinOccurrences)
	}
}
