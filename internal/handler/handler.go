// Package handler adapts the engine to the tool-call contract: every
// operation is invoked as name(arguments) over HTTP JSON and answers
// with the {success, data, error, message} envelope. Arguments use only
// primitive types and YYYY-MM-DD date strings.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jortega/finance-engine/internal/engine"
	"github.com/jortega/finance-engine/internal/models"
	"github.com/jortega/finance-engine/internal/validate"
)

// Result is the envelope every tool call answers with.
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// toolFunc runs one tool against raw JSON arguments.
type toolFunc func(r *http.Request, args json.RawMessage) (interface{}, string, error)

// Handler routes tool calls to the engine.
type Handler struct {
	eng   *engine.Engine
	log   *logrus.Logger
	tools map[string]toolFunc
}

// NewHandler initializes the tool-call handler.
func NewHandler(eng *engine.Engine, log *logrus.Logger) *Handler {
	h := &Handler{eng: eng, log: log}
	h.tools = map[string]toolFunc{
		"get_balance":               h.getBalance,
		"get_period_summary":        h.getPeriodSummary,
		"monthly_summary":           h.monthlySummary,
		"category_breakdown":        h.categoryBreakdown,
		"top_categories":            h.topCategories,
		"spending_trends":           h.spendingTrends,
		"compare_periods":           h.comparePeriods,
		"list_transactions":         h.listTransactions,
		"detect_recurring_payments": h.detectRecurring,
		"bill_forecaster":           h.billForecaster,
		"forecast_category":         h.forecastCategory,
		"cash_flow_projection":      h.cashFlowProjection,
		"cash_runway":               h.cashRunway,
		"predict_cash_shortage":     h.predictCashShortage,
		"financial_health_score":    h.healthScore,
		"assess_financial_risk":     h.assessRisk,
		"get_alerts":                h.getAlerts,
		"debt_paydown_optimizer":    h.debtPaydown,
		"simulate_scenario":         h.simulateScenario,
		"stress_test":               h.stressTest,
		"business_health_check":     h.businessHealthCheck,
		"monthly_review":            h.monthlyReview,
		"debt_reduction_plan":       h.debtReductionPlan,
	}
	return h
}

// RegisterRoutes wires the tool endpoints onto a router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthz).Methods("GET")
	r.HandleFunc("/tools", h.listTools).Methods("GET")
	r.HandleFunc("/tools/{name}", h.callTool).Methods("POST")
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listTools(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.tools))
	for name := range h.tools {
		names = append(names, name)
	}
	writeJSON(w, http.StatusOK, Result{Success: true, Data: names})
}

// callTool is the single entry point for every tool invocation. It owns
// the top-level catch: validation errors, insufficient-data conditions
// and upstream failures all leave here as the structured envelope, and
// a panic in a tool becomes a failure result instead of a dead process.
func (h *Handler) callTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	requestID := uuid.New().String()
	log := h.log.WithFields(logrus.Fields{"tool": name, "request_id": requestID})
	started := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("tool panicked: %v", rec)
			writeJSON(w, http.StatusInternalServerError, Result{
				Success: false,
				Error:   fmt.Sprintf("internal error: %v", rec),
				Message: "the tool call failed unexpectedly",
			})
		}
	}()

	tool, ok := h.tools[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, Result{Success: false, Error: fmt.Sprintf("unknown tool %q", name)})
		return
	}

	var args json.RawMessage
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, Result{Success: false, Error: "invalid JSON body"})
			return
		}
	}
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	data, message, err := tool(r, args)
	log.WithField("duration", time.Since(started).String()).Info("tool call finished")

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, Result{Success: true, Data: data, Message: message})
	case errors.Is(err, engine.ErrInsufficientData):
		// A normal, successful, empty-ish answer.
		writeJSON(w, http.StatusOK, Result{Success: true, Data: data, Message: err.Error()})
	case errors.Is(err, validate.ErrValidation):
		writeJSON(w, http.StatusBadRequest, Result{Success: false, Error: err.Error()})
	case errors.Is(err, engine.ErrNonConvergent):
		writeJSON(w, http.StatusOK, Result{Success: false, Error: err.Error(), Message: "the paydown plan does not converge; increase payments"})
	default:
		log.Errorf("tool failed: %v", err)
		writeJSON(w, http.StatusOK, Result{Success: false, Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// scopeArgs are the entity fields shared by most tools.
type scopeArgs struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

func (a scopeArgs) scope() (models.Scope, error) {
	et, err := validate.EntityType(a.EntityType)
	if err != nil {
		return models.Scope{}, err
	}
	return models.Scope{Type: et, ID: a.EntityID}, nil
}

type rangeArgs struct {
	scopeArgs
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (a rangeArgs) dates() (time.Time, time.Time, error) {
	from, err := validate.Date(a.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := validate.Date(a.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func (h *Handler) getBalance(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args scopeArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.GetBalance(r.Context(), scope)
	return data, "balance retrieved", err
}

func (h *Handler) getPeriodSummary(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args rangeArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	from, to, err := args.dates()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.PeriodSummary(r.Context(), scope, from, to)
	return data, "period summary computed", err
}

func (h *Handler) monthlySummary(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		rangeArgs
		Month int `json:"month"`
		Year  int `json:"year"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	if args.Month != 0 {
		if err := validate.Month(args.Month); err != nil {
			return nil, "", err
		}
	}
	from, to, err := args.dates()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.MonthlySummary(r.Context(), scope, args.Month, args.Year, from, to)
	return data, "monthly summary computed", err
}

func (h *Handler) categoryBreakdown(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		rangeArgs
		Direction string `json:"direction"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	if args.Direction == "" {
		args.Direction = models.TypeExpense
	}
	direction, err := validate.Direction(args.Direction)
	if err != nil {
		return nil, "", err
	}
	from, to, err := args.dates()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.CategoryBreakdown(r.Context(), scope, direction, from, to)
	return data, "category breakdown computed", err
}

func (h *Handler) topCategories(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		rangeArgs
		Direction string `json:"direction"`
		TopN      int    `json:"top_n"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	if args.Direction == "" {
		args.Direction = models.TypeExpense
	}
	direction, err := validate.Direction(args.Direction)
	if err != nil {
		return nil, "", err
	}
	from, to, err := args.dates()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.TopCategories(r.Context(), scope, direction, args.TopN, from, to)
	return data, "top categories computed", err
}

func (h *Handler) spendingTrends(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		scopeArgs
		MonthsBack int `json:"months_back"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.SpendingTrends(r.Context(), scope, args.MonthsBack)
	return data, "spending trends analyzed", err
}

func (h *Handler) comparePeriods(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		scopeArgs
		Period1Start string `json:"period1_start"`
		Period1End   string `json:"period1_end"`
		Period2Start string `json:"period2_start"`
		Period2End   string `json:"period2_end"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	p1From, err := validate.Date(args.Period1Start)
	if err != nil {
		return nil, "", err
	}
	p1To, err := validate.Date(args.Period1End)
	if err != nil {
		return nil, "", err
	}
	p2From, err := validate.Date(args.Period2Start)
	if err != nil {
		return nil, "", err
	}
	p2To, err := validate.Date(args.Period2End)
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.ComparePeriods(r.Context(), scope, p1From, p1To, p2From, p2To)
	return data, "periods compared", err
}

func (h *Handler) listTransactions(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		rangeArgs
		Category  string   `json:"category"`
		MinAmount *float64 `json:"min_amount"`
		MaxAmount *float64 `json:"max_amount"`
		Type      string   `json:"type"`
		Limit     int      `json:"limit"`
		Offset    int      `json:"offset"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	from, to, err := args.dates()
	if err != nil {
		return nil, "", err
	}
	limit, offset, err := validate.Pagination(args.Limit, args.Offset)
	if err != nil {
		return nil, "", err
	}
	if args.Type != "" {
		if _, err := validate.Direction(args.Type); err != nil {
			return nil, "", err
		}
	}
	if args.MinAmount != nil {
		if err := validate.Amount(*args.MinAmount); err != nil {
			return nil, "", err
		}
	}
	data, err := h.eng.ListTransactions(r.Context(), scope, models.TransactionFilter{
		Start:     from,
		End:       to,
		Category:  args.Category,
		MinAmount: args.MinAmount,
		MaxAmount: args.MaxAmount,
		Type:      args.Type,
		Limit:     limit,
		Offset:    offset,
	})
	return data, "transactions listed", err
}

func (h *Handler) detectRecurring(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		scopeArgs
		WindowMonths   int `json:"window_months"`
		MinOccurrences int `json:"min_occurrences"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.DetectRecurring(r.Context(), scope, args.WindowMonths, args.MinOccurrences)
	return data, "recurring payments detected", err
}

func (h *Handler) billForecaster(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		scopeArgs
		MonthsAhead int `json:"months_ahead"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.ForecastBills(r.Context(), scope, args.MonthsAhead)
	return data, "recurring bills projected", err
}

func (h *Handler) forecastCategory(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		scopeArgs
		Category    string `json:"category"`
		MonthsAhead int    `json:"months_ahead"`
		Method      string `json:"method"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	if args.Category == "" {
		return nil, "", fmt.Errorf("%w: category is required", validate.ErrValidation)
	}
	method, err := validate.ForecastMethod(args.Method)
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.ForecastCategory(r.Context(), scope, args.Category, args.MonthsAhead, method)
	return data, "category forecast generated", err
}

func (h *Handler) cashFlowProjection(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		scopeArgs
		Months int `json:"months"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	if args.Months < 0 || args.Months > 24 {
		return nil, "", fmt.Errorf("%w: months must be between 1 and 24", validate.ErrValidation)
	}
	data, err := h.eng.ForecastCashFlow(r.Context(), scope, args.Months)
	return data, "cash flow projection generated", err
}

func (h *Handler) cashRunway(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		scopeArgs
		CurrentCash *float64 `json:"current_cash"`
		BurnMonths  int      `json:"burn_months"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	if args.CurrentCash != nil {
		if err := validate.Amount(*args.CurrentCash); err != nil {
			return nil, "", err
		}
	}
	data, err := h.eng.CashRunway(r.Context(), scope, args.CurrentCash, args.BurnMonths)
	return data, "cash runway estimated", err
}

func (h *Handler) predictCashShortage(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		scopeArgs
		MonthsAhead int `json:"months_ahead"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.PredictCashShortage(r.Context(), scope, args.MonthsAhead)
	return data, "cash shortage prediction completed", err
}

func (h *Handler) healthScore(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args scopeArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.HealthScore(r.Context(), scope)
	return data, "health score computed", err
}

func (h *Handler) assessRisk(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args scopeArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.AssessRisk(r.Context(), scope)
	return data, "risk assessment completed", err
}

func (h *Handler) getAlerts(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		scopeArgs
		Severity string `json:"severity"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.Alerts(r.Context(), scope, args.Severity)
	return data, "alerts retrieved", err
}

type debtArgs struct {
	Debts        []models.Debt `json:"debts"`
	Method       string        `json:"method"`
	ExtraMonthly float64       `json:"extra_monthly"`
}

func (h *Handler) debtPaydown(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args debtArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	if err := validate.Debts(args.Debts); err != nil {
		return nil, "", err
	}
	method, err := validate.PaydownMethod(args.Method)
	if err != nil {
		return nil, "", err
	}
	if err := validate.Amount(args.ExtraMonthly); err != nil {
		return nil, "", err
	}
	if method == models.MethodCompare {
		data, err := h.eng.CompareDebtStrategies(args.Debts, args.ExtraMonthly)
		return data, "paydown strategies compared", err
	}
	data, err := h.eng.OptimizeDebtPaydown(args.Debts, method, args.ExtraMonthly)
	return data, "paydown plan optimized", err
}

func (h *Handler) simulateScenario(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		CurrentBalance       float64 `json:"current_balance"`
		MonthlyIncomeChange  float64 `json:"monthly_income_change"`
		MonthlyExpenseChange float64 `json:"monthly_expense_change"`
		Months               int     `json:"months"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	data := h.eng.SimulateScenario(args.CurrentBalance, args.MonthlyIncomeChange, args.MonthlyExpenseChange, args.Months)
	return data, "scenario simulated", nil
}

func (h *Handler) stressTest(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		scopeArgs
		IncomeReduction *float64 `json:"income_reduction"`
		ExpenseIncrease *float64 `json:"expense_increase"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	// Defaults apply only when a field is absent; an explicit 0 means
	// that side of the scenario is unstressed.
	incomeReduction, expenseIncrease := 30.0, 20.0
	if args.IncomeReduction != nil {
		incomeReduction = *args.IncomeReduction
	}
	if args.ExpenseIncrease != nil {
		expenseIncrease = *args.ExpenseIncrease
	}
	data, err := h.eng.StressTest(r.Context(), scope, incomeReduction, expenseIncrease)
	return data, "stress test completed", err
}

func (h *Handler) businessHealthCheck(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args scopeArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	data, err := h.eng.BusinessHealthCheck(r.Context(), scope)
	return data, "business health check completed", err
}

func (h *Handler) monthlyReview(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		scopeArgs
		Month int `json:"month"`
		Year  int `json:"year"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	if args.Month != 0 {
		if err := validate.Month(args.Month); err != nil {
			return nil, "", err
		}
	}
	data, err := h.eng.MonthlyReview(r.Context(), scope, args.Month, args.Year)
	return data, "monthly review generated", err
}

func (h *Handler) debtReductionPlan(r *http.Request, raw json.RawMessage) (interface{}, string, error) {
	var args struct {
		scopeArgs
		Debts        []models.Debt `json:"debts"`
		ExtraMonthly float64       `json:"extra_monthly"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", validate.ErrValidation, err)
	}
	scope, err := args.scope()
	if err != nil {
		return nil, "", err
	}
	if err := validate.Debts(args.Debts); err != nil {
		return nil, "", err
	}
	data, err := h.eng.PlanDebtReduction(r.Context(), scope, args.Debts, args.ExtraMonthly)
	return data, "debt reduction plan generated", err
}
