package services

import (
	"errors"
	"testing"
	"time"

	"github.com/diewo77/retail-erp/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Sale{}, &models.FinancialRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, category string, price float64, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Category: category, Price: price, Stock: stock}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func TestRecordSale(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSaleService(db)
	p := seedProduct(t, db, "Widget", "Tools", 50, 100)

	sale, err := svc.Record(SaleInput{ProductID: p.ID, CustomerName: "Jane Doe", Quantity: 10})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if sale.TotalPrice != 500 {
		t.Fatalf("expected total 500 got %v", sale.TotalPrice)
	}
	if sale.Reference == "" {
		t.Fatalf("expected sale reference set")
	}

	var after models.Product
	if err := db.First(&after, p.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if after.Stock != 90 {
		t.Fatalf("expected stock 90 got %d", after.Stock)
	}

	var record models.FinancialRecord
	if err := db.First(&record).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if record.TransactionType != models.TransactionIncome {
		t.Fatalf("expected income record got %s", record.TransactionType)
	}
	if record.Amount != 500 {
		t.Fatalf("expected amount 500 got %v", record.Amount)
	}
	if record.Category != "Tools" {
		t.Fatalf("expected category Tools got %s", record.Category)
	}
	if record.Description != "Sale of 10 x Widget to Jane Doe" {
		t.Fatalf("unexpected description: %s", record.Description)
	}
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSaleService(db)
	p := seedProduct(t, db, "Widget", "Tools", 50, 5)

	_, err := svc.Record(SaleInput{ProductID: p.ID, CustomerName: "Jane Doe", Quantity: 10})
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError got %v", err)
	}
	if stockErr.Available != 5 {
		t.Fatalf("expected available 5 got %d", stockErr.Available)
	}

	// No partial writes
	var sales, records int64
	db.Model(&models.Sale{}).Count(&sales)
	db.Model(&models.FinancialRecord{}).Count(&records)
	if sales != 0 || records != 0 {
		t.Fatalf("expected zero rows got %d sales %d records", sales, records)
	}
	var after models.Product
	db.First(&after, p.ID)
	if after.Stock != 5 {
		t.Fatalf("expected stock untouched got %d", after.Stock)
	}
}

func TestRecordSaleProductNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSaleService(db)

	_, err := svc.Record(SaleInput{ProductID: 999, CustomerName: "Jane Doe", Quantity: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	var sales int64
	db.Model(&models.Sale{}).Count(&sales)
	if sales != 0 {
		t.Fatalf("expected zero sales got %d", sales)
	}
}

func TestRecordSaleValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSaleService(db)
	p := seedProduct(t, db, "Widget", "Tools", 50, 100)

	cases := []SaleInput{
		{ProductID: p.ID, CustomerName: "", Quantity: 1},
		{ProductID: p.ID, CustomerName: "Jane Doe", Quantity: 0},
		{ProductID: p.ID, CustomerName: "Jane Doe", Quantity: -3},
	}
	for _, in := range cases {
		_, err := svc.Record(in)
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("expected ValidationError for %+v got %v", in, err)
		}
	}
	var sales int64
	db.Model(&models.Sale{}).Count(&sales)
	if sales != 0 {
		t.Fatalf("expected zero sales got %d", sales)
	}
}

func TestThreeSequentialSales(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSaleService(db)
	p := seedProduct(t, db, "Widget", "Tools", 50, 100)

	for i := 0; i < 3; i++ {
		if _, err := svc.Record(SaleInput{ProductID: p.ID, CustomerName: "Jane Doe", Quantity: 10}); err != nil {
			t.Fatalf("sale %d: %v", i+1, err)
		}
	}

	var after models.Product
	db.First(&after, p.ID)
	if after.Stock != 70 {
		t.Fatalf("expected stock 70 got %d", after.Stock)
	}
	var sales int64
	db.Model(&models.Sale{}).Count(&sales)
	if sales != 3 {
		t.Fatalf("expected 3 sales got %d", sales)
	}
	var total float64
	db.Model(&models.FinancialRecord{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("transaction_type = ?", models.TransactionIncome).
		Scan(&total)
	if total != 1500 {
		t.Fatalf("expected income 1500 got %v", total)
	}
}

func TestTotalPriceIsSnapshot(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSaleService(db)
	p := seedProduct(t, db, "Widget", "Tools", 50, 100)

	sale, err := svc.Record(SaleInput{ProductID: p.ID, CustomerName: "Jane Doe", Quantity: 2})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	// A later price change must not touch recorded totals.
	if err := db.Model(&models.Product{}).Where("id = ?", p.ID).UpdateColumn("price", 80).Error; err != nil {
		t.Fatalf("update price: %v", err)
	}
	var reloaded models.Sale
	if err := db.First(&reloaded, sale.ID).Error; err != nil {
		t.Fatalf("reload sale: %v", err)
	}
	if reloaded.TotalPrice != 100 {
		t.Fatalf("expected snapshot total 100 got %v", reloaded.TotalPrice)
	}
}

func TestRecentSalesWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSaleService(db)
	p := seedProduct(t, db, "Widget", "Tools", 50, 100)

	now := time.Now().UTC()
	old := models.Sale{Reference: "old", ProductID: p.ID, CustomerName: "A", Quantity: 1, TotalPrice: 50, SaleDate: now.AddDate(0, 0, -60)}
	recent := models.Sale{Reference: "recent", ProductID: p.ID, CustomerName: "B", Quantity: 1, TotalPrice: 50, SaleDate: now.AddDate(0, 0, -2)}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed old: %v", err)
	}
	if err := db.Create(&recent).Error; err != nil {
		t.Fatalf("seed recent: %v", err)
	}

	rows, err := svc.Recent(30, nil, nil)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row got %d", len(rows))
	}
	if rows[0].CustomerName != "B" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if rows[0].Product != "Widget" {
		t.Fatalf("expected joined product name got %s", rows[0].Product)
	}

	start := now.AddDate(0, 0, -90)
	end := now
	rows, err = svc.Recent(0, &start, &end)
	if err != nil {
		t.Fatalf("recent range: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows in range got %d", len(rows))
	}
	// Newest first
	if rows[0].CustomerName != "B" {
		t.Fatalf("expected newest first, got %+v", rows[0])
	}
}

func TestSaleSummary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSaleService(db)
	p := seedProduct(t, db, "Widget", "Tools", 50, 100)

	now := time.Now().UTC()
	today := models.Sale{Reference: "s1", ProductID: p.ID, Quantity: 1, TotalPrice: 100, SaleDate: now}
	lastYear := models.Sale{Reference: "s2", ProductID: p.ID, Quantity: 1, TotalPrice: 40, SaleDate: now.AddDate(-1, 0, 0)}
	if err := db.Create(&today).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Create(&lastYear).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	sum, err := svc.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TodayCount != 1 || sum.TodayRevenue != 100 {
		t.Fatalf("unexpected today summary: %+v", sum)
	}
	if sum.MonthCount != 1 || sum.MonthRevenue != 100 {
		t.Fatalf("unexpected month summary: %+v", sum)
	}
}

func TestAvailableProducts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSaleService(db)
	seedProduct(t, db, "In stock", "Tools", 10, 3)
	seedProduct(t, db, "Sold out", "Tools", 10, 0)

	products, err := svc.AvailableProducts()
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(products) != 1 || products[0].Name != "In stock" {
		t.Fatalf("unexpected products: %+v", products)
	}
}
