package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jortega/finance-engine/internal/engine"
	"github.com/jortega/finance-engine/internal/gateway/memory"
	"github.com/jortega/finance-engine/internal/models"
)

func newTestServer(t *testing.T, seed func(*memory.Store)) *mux.Router {
	t.Helper()
	store := memory.NewStore()
	if seed != nil {
		seed(store)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewHandler(engine.New(store, log, engine.DefaultConfig()), log)
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func callTool(t *testing.T, r *mux.Router, name string, args interface{}) (*httptest.ResponseRecorder, Result) {
	t.Helper()
	body, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/tools/"+name, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var res Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec, res
}

func TestUnknownTool(t *testing.T) {
	r := newTestServer(t, nil)
	rec, res := callTool(t, r, "divine_the_future", map[string]string{})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if res.Success {
		t.Error("unknown tool reported success")
	}
}

func TestGetBalance(t *testing.T) {
	r := newTestServer(t, func(s *memory.Store) {
		s.Add(models.EntityCompany, models.Transaction{
			Date: time.Now().AddDate(0, -1, 0), Amount: 1000, Type: models.TypeIncome, Category: "ventas",
		})
		s.Add(models.EntityCompany, models.Transaction{
			Date: time.Now().AddDate(0, -1, 0), Amount: 400, Type: models.TypeExpense, Category: "renta",
		})
	})

	rec, res := callTool(t, r, "get_balance", map[string]string{"entity_type": "company"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !res.Success {
		t.Fatalf("success = false: %s", res.Error)
	}
	data, ok := res.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want an object", res.Data)
	}
	if data["balance"] != 600.0 {
		t.Errorf("balance = %v, want 600", data["balance"])
	}
}

func TestEmptyBodyUsesDefaults(t *testing.T) {
	r := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/tools/get_balance", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an empty body", rec.Code)
	}
}

func TestValidationErrorEnvelope(t *testing.T) {
	r := newTestServer(t, nil)
	rec, res := callTool(t, r, "get_period_summary", map[string]string{
		"entity_type": "company",
		"start_date":  "01/06/2024",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if res.Success {
		t.Error("validation failure reported success")
	}
	if res.Error == "" {
		t.Error("expected a validation error message")
	}
}

func TestInvalidEntityType(t *testing.T) {
	r := newTestServer(t, nil)
	rec, res := callTool(t, r, "get_balance", map[string]string{"entity_type": "household"})
	if rec.Code != http.StatusBadRequest || res.Success {
		t.Errorf("status = %d success = %v, want a 400 failure", rec.Code, res.Success)
	}
}

func TestInsufficientDataIsSuccessWithMessage(t *testing.T) {
	r := newTestServer(t, nil) // empty ledger
	rec, res := callTool(t, r, "cash_flow_projection", map[string]interface{}{
		"entity_type": "company",
		"months":      6,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !res.Success {
		t.Errorf("insufficient data must not be a failure: %s", res.Error)
	}
	if res.Message == "" {
		t.Error("expected an explanatory message")
	}
}

func TestNonConvergentPlanFails(t *testing.T) {
	r := newTestServer(t, nil)
	rec, res := callTool(t, r, "debt_paydown_optimizer", map[string]interface{}{
		"debts": []models.Debt{{Name: "runaway", Balance: 100000, APR: 30, MinimumPayment: 10}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if res.Success {
		t.Error("non-convergent plan reported success")
	}
	if res.Error == "" {
		t.Error("expected a convergence error")
	}
}

func TestDebtPaydownOptimizer(t *testing.T) {
	r := newTestServer(t, nil)
	_, res := callTool(t, r, "debt_paydown_optimizer", map[string]interface{}{
		"debts": []models.Debt{
			{Name: "card", Balance: 3000, APR: 24, MinimumPayment: 100},
			{Name: "loan", Balance: 8000, APR: 9, MinimumPayment: 200},
		},
		"method":        "snowball",
		"extra_monthly": 150,
	})
	if !res.Success {
		t.Fatalf("success = false: %s", res.Error)
	}
	data, ok := res.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want an object", res.Data)
	}
	if data["method"] != "snowball" {
		t.Errorf("method = %v, want snowball", data["method"])
	}
}

func TestDebtCompareMethod(t *testing.T) {
	r := newTestServer(t, nil)
	_, res := callTool(t, r, "debt_paydown_optimizer", map[string]interface{}{
		"debts": []models.Debt{
			{Name: "card", Balance: 3000, APR: 24, MinimumPayment: 100},
			{Name: "loan", Balance: 8000, APR: 9, MinimumPayment: 200},
		},
		"method": "compare",
	})
	if !res.Success {
		t.Fatalf("success = false: %s", res.Error)
	}
	data, ok := res.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want an object", res.Data)
	}
	if _, ok := data["avalanche"]; !ok {
		t.Error("comparison data missing the avalanche plan")
	}
	if _, ok := data["snowball"]; !ok {
		t.Error("comparison data missing the snowball plan")
	}
}

func TestSimulateScenarioTool(t *testing.T) {
	r := newTestServer(t, nil)
	_, res := callTool(t, r, "simulate_scenario", map[string]interface{}{
		"current_balance":        1000,
		"monthly_income_change":  200,
		"monthly_expense_change": 100,
		"months":                 6,
	})
	if !res.Success {
		t.Fatalf("success = false: %s", res.Error)
	}
	data := res.Data.(map[string]interface{})
	if data["final_balance"] != 1600.0 {
		t.Errorf("final_balance = %v, want 1600", data["final_balance"])
	}
}

func TestStressTestExplicitZeroIsNotDefaulted(t *testing.T) {
	r := newTestServer(t, nil)
	_, res := callTool(t, r, "stress_test", map[string]interface{}{
		"entity_type":      "company",
		"income_reduction": 0,
		"expense_increase": 20,
	})
	if !res.Success {
		t.Fatalf("success = false: %s", res.Error)
	}
	data, ok := res.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want an object", res.Data)
	}
	if data["income_reduction_pct"] != 0.0 {
		t.Errorf("income_reduction_pct = %v, want the explicit 0", data["income_reduction_pct"])
	}
	if data["expense_increase_pct"] != 20.0 {
		t.Errorf("expense_increase_pct = %v, want 20", data["expense_increase_pct"])
	}
}

func TestStressTestAbsentFieldsUseDefaults(t *testing.T) {
	r := newTestServer(t, nil)
	_, res := callTool(t, r, "stress_test", map[string]interface{}{"entity_type": "company"})
	if !res.Success {
		t.Fatalf("success = false: %s", res.Error)
	}
	data := res.Data.(map[string]interface{})
	if data["income_reduction_pct"] != 30.0 || data["expense_increase_pct"] != 20.0 {
		t.Errorf("defaults = %v / %v, want 30 / 20",
			data["income_reduction_pct"], data["expense_increase_pct"])
	}
}

func TestInvalidJSONBody(t *testing.T) {
	r := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/tools/get_balance", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestListToolsEndpoint(t *testing.T) {
	r := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/tools", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	names, ok := res.Data.([]interface{})
	if !ok || len(names) == 0 {
		t.Fatalf("tool list = %v, want a non-empty array", res.Data)
	}
}
