package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/diewo77/retail-erp/httpx"
	"github.com/diewo77/retail-erp/internal/services"
)

type FinanceHandler struct {
	svc *services.FinanceService
}

func NewFinanceHandler(svc *services.FinanceService) *FinanceHandler {
	return &FinanceHandler{svc: svc}
}

func (h *FinanceHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var input services.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	record, err := h.svc.AddExpense(input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, record)
}

func (h *FinanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// Records lists financial records, filterable by type=income|expense
// and limit=N.
func (h *FinanceHandler) Records(w http.ResponseWriter, r *http.Request) {
	filter := services.RecordFilter{Type: r.URL.Query().Get("type")}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	records, err := h.svc.Records(filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": records, "total": len(records)})
}

func (h *FinanceHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.MonthlyComparison()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
