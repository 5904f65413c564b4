package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/retail-erp/httpx"
	"github.com/diewo77/retail-erp/internal/services"
)

type SaleHandler struct {
	svc *services.SaleService
}

func NewSaleHandler(svc *services.SaleService) *SaleHandler { return &SaleHandler{svc: svc} }

// Create records a sale. Stock and financial side effects happen in
// one transaction inside the service.
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.SaleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	sale, err := h.svc.Record(input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

// List responds with recent sales. Accepts either days=N or an
// explicit start/end pair of RFC 3339 dates.
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	var start, end *time.Time
	if s, e := r.URL.Query().Get("start"), r.URL.Query().Get("end"); s != "" && e != "" {
		st, err1 := time.Parse(time.RFC3339, s)
		en, err2 := time.Parse(time.RFC3339, e)
		if err1 != nil || err2 != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_date_range", nil)
			return
		}
		start, end = &st, &en
	}
	rows, err := h.svc.Recent(days, start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": len(rows)})
}

func (h *SaleHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// AvailableProducts lists what can currently be sold.
func (h *SaleHandler) AvailableProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.AvailableProducts()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}
