package db

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/diewo77/retail-erp/auth"
	"github.com/diewo77/retail-erp/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product categories used across seeding and the demo data set.
var seedCategories = []string{"Electronics", "Clothing", "Food", "Tools", "Books", "Sports"}

// Expense categories mirrored by the expense entry form.
var seedExpenseCategories = []string{"Rent", "Utilities", "Salaries", "Marketing", "Supplies", "Maintenance"}

var seedNameParts = struct {
	adjectives []string
	nouns      []string
}{
	adjectives: []string{"Compact", "Deluxe", "Classic", "Eco", "Pro", "Smart", "Ultra", "Basic", "Premium", "Everyday"},
	nouns:      []string{"Speaker", "Jacket", "Blender", "Drill", "Notebook", "Racket", "Lamp", "Backpack", "Kettle", "Monitor"},
}

var seedCustomers = []string{
	"John Carter", "Mary Lopez", "Ahmed Hassan", "Sophie Martin", "Liu Wei",
	"Elena Petrova", "David Kim", "Fatima Diallo", "Marco Rossi", "Anna Schmidt",
}

// EnsureAdmin creates the bootstrap admin account if it is missing.
// Safe to call on every startup.
func EnsureAdmin(db *gorm.DB, username, password string) error {
	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	admin := models.User{
		Username:     username,
		PasswordHash: auth.HashPassword(password),
		Role:         models.RoleAdmin,
	}
	return db.Create(&admin).Error
}

// Seed fills the store with demo data: a fixed user roster, randomly
// generated products, a year of sales with their derived income
// records, and manual expenses. Idempotent for users; products, sales
// and expenses are appended on each run.
func Seed(db *gorm.DB) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := seedUsers(db); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	products, err := seedProducts(db, rng, 100)
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if err := seedSales(db, rng, products, 500); err != nil {
		return fmt.Errorf("seed sales: %w", err)
	}
	if err := seedExpenses(db, rng, 50); err != nil {
		return fmt.Errorf("seed expenses: %w", err)
	}
	return nil
}

func seedUsers(db *gorm.DB) error {
	roster := []struct {
		username, password, role string
	}{
		{"admin", "admin123", models.RoleAdmin},
		{"manager1", "manager123", models.RoleManager},
		{"manager2", "manager123", models.RoleManager},
		{"cashier1", "cashier123", models.RoleCashier},
		{"cashier2", "cashier123", models.RoleCashier},
		{"cashier3", "cashier123", models.RoleCashier},
		{"john_doe", "password123", models.RoleManager},
		{"jane_smith", "password123", models.RoleCashier},
		{"bob_wilson", "password123", models.RoleCashier},
		{"alice_johnson", "password123", models.RoleManager},
	}
	for _, u := range roster {
		var existing models.User
		if err := db.Where("username = ?", u.username).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			user := models.User{Username: u.username, PasswordHash: auth.HashPassword(u.password), Role: u.role}
			if err := db.Create(&user).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedProducts(db *gorm.DB, rng *rand.Rand, count int) ([]models.Product, error) {
	products := make([]models.Product, 0, count)
	for i := 0; i < count; i++ {
		adj := seedNameParts.adjectives[rng.Intn(len(seedNameParts.adjectives))]
		noun := seedNameParts.nouns[rng.Intn(len(seedNameParts.nouns))]
		p := models.Product{
			Name:     fmt.Sprintf("%s %s %03d", adj, noun, i+1),
			Category: seedCategories[rng.Intn(len(seedCategories))],
			Price:    round2(5 + rng.Float64()*995),
			Stock:    rng.Intn(501),
		}
		products = append(products, p)
	}
	if err := db.Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func seedSales(db *gorm.DB, rng *rand.Rand, products []models.Product, count int) error {
	if len(products) == 0 {
		return nil
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -365)
	window := int64(end.Sub(start).Seconds())

	return db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			p := &products[rng.Intn(len(products))]
			quantity := 1 + rng.Intn(10)
			if p.Stock < quantity {
				p.Stock += 50 + rng.Intn(151)
			}
			total := round2(p.Price * float64(quantity))
			saleDate := start.Add(time.Duration(rng.Int63n(window)) * time.Second)

			sale := models.Sale{
				Reference:    uuid.NewString(),
				ProductID:    p.ID,
				CustomerName: seedCustomers[rng.Intn(len(seedCustomers))],
				Quantity:     quantity,
				TotalPrice:   total,
				SaleDate:     saleDate,
			}
			if err := tx.Create(&sale).Error; err != nil {
				return err
			}
			p.Stock -= quantity
			if err := tx.Model(&models.Product{}).Where("id = ?", p.ID).
				UpdateColumn("stock", p.Stock).Error; err != nil {
				return err
			}
			// Bulk-seeded income records omit the customer clause.
			record := models.FinancialRecord{
				TransactionType: models.TransactionIncome,
				Amount:          total,
				Category:        p.Category,
				Description:     models.IncomeDescription(quantity, p.Name, ""),
				Date:            saleDate,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func seedExpenses(db *gorm.DB, rng *rand.Rand, count int) error {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -365)
	window := int64(end.Sub(start).Seconds())

	expenses := make([]models.FinancialRecord, 0, count)
	for i := 0; i < count; i++ {
		category := seedExpenseCategories[rng.Intn(len(seedExpenseCategories))]
		expenses = append(expenses, models.FinancialRecord{
			TransactionType: models.TransactionExpense,
			Amount:          round2(100 + rng.Float64()*4900),
			Category:        category,
			Description:     fmt.Sprintf("Recurring %s payment", category),
			Date:            start.Add(time.Duration(rng.Int63n(window)) * time.Second),
		})
	}
	return db.Create(&expenses).Error
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
