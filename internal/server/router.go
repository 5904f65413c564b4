package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/diewo77/retail-erp/auth"
	"github.com/diewo77/retail-erp/httpx"
	"github.com/diewo77/retail-erp/internal/config"
	"github.com/diewo77/retail-erp/internal/handlers"
	"github.com/diewo77/retail-erp/internal/models"
	"github.com/diewo77/retail-erp/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middleware
// applied.
//
// Role policy: inventory writes need manager, product deletion and
// user creation need admin, everything else just needs a login. Admin
// passes every gate.
func New(db *gorm.DB, cfg config.Config) http.Handler {
	// Resolve sessions from the user table so a deleted account is
	// logged out on its next request.
	auth.SetSessionLoader(func(_ context.Context, uid uint) (auth.Session, bool) {
		var user models.User
		if err := db.First(&user, uid).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("session lookup failed for user %d: %v", uid, err)
			}
			return auth.Session{}, false
		}
		return auth.Session{UserID: user.ID, Username: user.Username, Role: user.Role}, true
	})

	inventorySvc := services.NewInventoryService(db, cfg.LowStockThreshold)
	saleSvc := services.NewSaleService(db)
	financeSvc := services.NewFinanceService(db)
	reportSvc := services.NewReportService(db)

	ah := handlers.NewAuthHandler(db)
	ph := handlers.NewProductHandler(inventorySvc)
	sh := handlers.NewSaleHandler(saleSvc)
	fh := handlers.NewFinanceHandler(financeSvc)
	rh := handlers.NewReportHandler(reportSvc, inventorySvc)

	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public auth endpoints
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("POST /logout", ah.Logout)

	requireAuth := auth.RequireAuth
	manager := auth.RequireRole(models.RoleManager)
	admin := auth.RequireRole(models.RoleAdmin)

	mux.Handle("GET /me", requireAuth(http.HandlerFunc(ah.Me)))
	mux.Handle("POST /users", admin(http.HandlerFunc(ah.CreateUser)))

	// Inventory
	mux.Handle("GET /products", requireAuth(http.HandlerFunc(ph.List)))
	mux.Handle("GET /products/categories", requireAuth(http.HandlerFunc(ph.Categories)))
	mux.Handle("GET /products/low-stock", requireAuth(http.HandlerFunc(ph.LowStock)))
	mux.Handle("POST /products", manager(http.HandlerFunc(ph.Create)))
	mux.Handle("POST /products/{id}", manager(http.HandlerFunc(ph.Update)))
	mux.Handle("POST /products/{id}/delete", admin(http.HandlerFunc(ph.Delete)))

	// Sales
	mux.Handle("GET /sales", requireAuth(http.HandlerFunc(sh.List)))
	mux.Handle("POST /sales", requireAuth(http.HandlerFunc(sh.Create)))
	mux.Handle("GET /sales/summary", requireAuth(http.HandlerFunc(sh.Summary)))
	mux.Handle("GET /sales/available-products", requireAuth(http.HandlerFunc(sh.AvailableProducts)))

	// Finance
	mux.Handle("GET /finance/summary", requireAuth(http.HandlerFunc(fh.Summary)))
	mux.Handle("GET /finance/records", requireAuth(http.HandlerFunc(fh.Records)))
	mux.Handle("GET /finance/monthly", requireAuth(http.HandlerFunc(fh.Monthly)))
	mux.Handle("POST /finance/expenses", requireAuth(http.HandlerFunc(fh.AddExpense)))

	// Reports
	mux.Handle("GET /dashboard", requireAuth(http.HandlerFunc(rh.Dashboard)))
	mux.Handle("GET /reports/sales-trend", requireAuth(http.HandlerFunc(rh.SalesTrend)))
	mux.Handle("GET /reports/top-products", requireAuth(http.HandlerFunc(rh.TopProducts)))
	mux.Handle("GET /reports/revenue-by-category", requireAuth(http.HandlerFunc(rh.RevenueByCategory)))
	mux.Handle("GET /reports/monthly-revenue", requireAuth(http.HandlerFunc(rh.MonthlyRevenue)))

	return withRecover(withLogging(auth.Middleware(mux)))
}

// withLogging logs every request with a request id, reusing the
// caller's X-Request-ID when one is supplied.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s %s", reqID, r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
