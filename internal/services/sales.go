package services

import (
	"errors"
	"time"

	"github.com/diewo77/retail-erp/internal/models"
	"github.com/diewo77/retail-erp/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleService records point-of-sale transactions and serves the sales
// history queries.
type SaleService struct {
	db *gorm.DB
}

func NewSaleService(db *gorm.DB) *SaleService { return &SaleService{db: db} }

type SaleInput struct {
	ProductID    uint   `json:"product_id"`
	CustomerName string `json:"customer_name"`
	Quantity     int    `json:"quantity"`
}

// Record executes the sale as one committed-or-rolled-back group of
// writes: insert the sale with its snapshot total, decrement stock,
// insert the derived income record. The stock decrement is a guarded
// UPDATE (stock >= quantity) so two concurrent sales cannot oversell
// between the availability check and the write; the loser re-reads the
// row and reports the remaining stock.
func (s *SaleService) Record(in SaleInput) (*models.Sale, error) {
	v := validation.Violations{}
	validation.Required("customer_name", in.CustomerName, v)
	validation.PositiveInt("quantity", in.Quantity, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	var sale models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if product.Stock < in.Quantity {
			return &InsufficientStockError{Available: product.Stock}
		}

		total := product.Price * float64(in.Quantity)
		now := time.Now().UTC()
		sale = models.Sale{
			Reference:    uuid.NewString(),
			ProductID:    product.ID,
			CustomerName: in.CustomerName,
			Quantity:     in.Quantity,
			TotalPrice:   total,
			SaleDate:     now,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return wrapStorageErr(err)
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", product.ID, in.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", in.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent sale won the stock between our check and the
			// guarded update. Report what is left now.
			var current models.Product
			if err := tx.First(&current, product.ID).Error; err != nil {
				return err
			}
			return &InsufficientStockError{Available: current.Stock}
		}

		record := models.FinancialRecord{
			TransactionType: models.TransactionIncome,
			Amount:          total,
			Category:        product.Category,
			Description:     models.IncomeDescription(in.Quantity, product.Name, in.CustomerName),
			Date:            now,
		}
		return wrapStorageErr(tx.Create(&record).Error)
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// SaleRow is a sales-history row joined with the product name.
type SaleRow struct {
	ID           uint      `json:"id"`
	Reference    string    `json:"reference"`
	Product      string    `json:"product"`
	CustomerName string    `json:"customer_name"`
	Quantity     int       `json:"quantity"`
	TotalPrice   float64   `json:"total_price"`
	SaleDate     time.Time `json:"sale_date"`
}

// Recent returns sales within an explicit [start, end] range when both
// bounds are given, otherwise within the trailing day window.
func (s *SaleService) Recent(days int, start, end *time.Time) ([]SaleRow, error) {
	if days <= 0 {
		days = 30
	}
	q := s.db.Model(&models.Sale{}).
		Select("sales.id, sales.reference, products.name AS product, sales.customer_name, sales.quantity, sales.total_price, sales.sale_date").
		Joins("JOIN products ON products.id = sales.product_id")
	if start != nil && end != nil {
		q = q.Where("sales.sale_date BETWEEN ? AND ?", *start, *end)
	} else {
		q = q.Where("sales.sale_date >= ?", time.Now().UTC().AddDate(0, 0, -days))
	}
	var rows []SaleRow
	err := q.Order("sales.sale_date DESC").Scan(&rows).Error
	return rows, err
}

// SaleSummary carries the point-of-sale KPI scalars.
type SaleSummary struct {
	TodayCount   int64   `json:"today_count"`
	TodayRevenue float64 `json:"today_revenue"`
	MonthCount   int64   `json:"month_count"`
	MonthRevenue float64 `json:"month_revenue"`
}

// Summary aggregates today's and the current month's sale count and
// revenue.
func (s *SaleService) Summary() (SaleSummary, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var out SaleSummary
	var err error
	out.TodayCount, out.TodayRevenue, err = s.countAndRevenueSince(dayStart)
	if err != nil {
		return out, err
	}
	out.MonthCount, out.MonthRevenue, err = s.countAndRevenueSince(monthStart)
	return out, err
}

func (s *SaleService) countAndRevenueSince(cutoff time.Time) (int64, float64, error) {
	var agg struct {
		Count   int64
		Revenue float64
	}
	err := s.db.Model(&models.Sale{}).
		Select("COUNT(id) AS count, COALESCE(SUM(total_price), 0) AS revenue").
		Where("sale_date >= ?", cutoff).
		Scan(&agg).Error
	return agg.Count, agg.Revenue, err
}

// AvailableProducts lists products with stock on hand, for the
// record-sale flow.
func (s *SaleService) AvailableProducts() ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("stock > 0").Order("name ASC").Find(&products).Error
	return products, err
}
