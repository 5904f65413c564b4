package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/retail-erp/httpx"
	"github.com/diewo77/retail-erp/internal/services"
)

type ReportHandler struct {
	svc       *services.ReportService
	inventory *services.InventoryService
}

func NewReportHandler(svc *services.ReportService, inventory *services.InventoryService) *ReportHandler {
	return &ReportHandler{svc: svc, inventory: inventory}
}

func (h *ReportHandler) SalesTrend(w http.ResponseWriter, r *http.Request) {
	points, err := h.svc.SalesTrend()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, points)
}

func (h *ReportHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	rows, err := h.svc.TopProducts(limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) RevenueByCategory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.RevenueByCategory()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.MonthlyRevenue()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// Dashboard serves the landing-page KPI scalars.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard(h.inventory.LowStockThreshold())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
