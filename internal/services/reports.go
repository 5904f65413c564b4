package services

import (
	"github.com/diewo77/retail-erp/internal/models"
	"gorm.io/gorm"
)

// ReportService produces the read-only grouped aggregations behind the
// analytics pages. Every query is side-effect free.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService { return &ReportService{db: db} }

// TrendPoint is one day of the sales trend.
type TrendPoint struct {
	Date    string  `json:"date"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// SalesTrend groups sales by calendar day, oldest first.
func (s *ReportService) SalesTrend() ([]TrendPoint, error) {
	var points []TrendPoint
	err := s.db.Model(&models.Sale{}).
		Select("date(sale_date) AS date, COUNT(id) AS count, SUM(total_price) AS revenue").
		Group("date(sale_date)").
		Order("date ASC").
		Scan(&points).Error
	return points, err
}

// ProductRevenue is one row of the top-products report.
type ProductRevenue struct {
	Product      string  `json:"product"`
	Category     string  `json:"category"`
	QuantitySold int64   `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// TopProducts ranks products by total sale revenue. Limit defaults to 10.
func (s *ReportService) TopProducts(limit int) ([]ProductRevenue, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []ProductRevenue
	err := s.db.Model(&models.Sale{}).
		Select("products.name AS product, products.category, SUM(sales.quantity) AS quantity_sold, SUM(sales.total_price) AS revenue").
		Joins("JOIN products ON products.id = sales.product_id").
		Group("products.id, products.name, products.category").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// CategoryRevenue is one row of the revenue-by-category breakdown.
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

func (s *ReportService) RevenueByCategory() ([]CategoryRevenue, error) {
	var rows []CategoryRevenue
	err := s.db.Model(&models.Sale{}).
		Select("products.category, SUM(sales.total_price) AS revenue").
		Joins("JOIN products ON products.id = sales.product_id").
		Group("products.category").
		Scan(&rows).Error
	return rows, err
}

// MonthRevenue is one month of the revenue breakdown.
type MonthRevenue struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// MonthlyRevenue groups sales by calendar month, oldest first.
func (s *ReportService) MonthlyRevenue() ([]MonthRevenue, error) {
	var rows []MonthRevenue
	err := s.db.Model(&models.Sale{}).
		Select("CAST(strftime('%Y', sale_date) AS INTEGER) AS year, CAST(strftime('%m', sale_date) AS INTEGER) AS month, COUNT(id) AS count, SUM(total_price) AS revenue").
		Group("year, month").
		Order("year ASC, month ASC").
		Scan(&rows).Error
	return rows, err
}

// DashboardStats carries the landing-page KPI scalars plus the
// category breakdown.
type DashboardStats struct {
	TotalProducts int64             `json:"total_products"`
	TotalSales    int64             `json:"total_sales"`
	TotalRevenue  float64           `json:"total_revenue"`
	LowStockCount int64             `json:"low_stock_count"`
	ByCategory    []CategoryRevenue `json:"by_category"`
}

func (s *ReportService) Dashboard(lowStockThreshold int) (DashboardStats, error) {
	var out DashboardStats
	if err := s.db.Model(&models.Product{}).Count(&out.TotalProducts).Error; err != nil {
		return out, err
	}
	if err := s.db.Model(&models.Sale{}).Count(&out.TotalSales).Error; err != nil {
		return out, err
	}
	if err := s.db.Model(&models.Sale{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&out.TotalRevenue).Error; err != nil {
		return out, err
	}
	if err := s.db.Model(&models.Product{}).
		Where("stock < ?", lowStockThreshold).
		Count(&out.LowStockCount).Error; err != nil {
		return out, err
	}
	var err error
	out.ByCategory, err = s.RevenueByCategory()
	return out, err
}
