package services

import (
	"time"

	"github.com/diewo77/retail-erp/internal/models"
	"github.com/diewo77/retail-erp/validation"
	"gorm.io/gorm"
)

// FinanceService handles manual expense entry and the income/expense
// summaries.
type FinanceService struct {
	db *gorm.DB
}

func NewFinanceService(db *gorm.DB) *FinanceService { return &FinanceService{db: db} }

type ExpenseInput struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// AddExpense records a user-entered expense.
func (s *FinanceService) AddExpense(in ExpenseInput) (*models.FinancialRecord, error) {
	v := validation.Violations{}
	validation.PositiveFloat("amount", in.Amount, v)
	validation.Required("category", in.Category, v)
	validation.Required("description", in.Description, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	record := models.FinancialRecord{
		TransactionType: models.TransactionExpense,
		Amount:          in.Amount,
		Category:        in.Category,
		Description:     in.Description,
		Date:            time.Now().UTC(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, wrapStorageErr(err)
	}
	return &record, nil
}

// FinancialSummary carries the headline scalars: total income, total
// expenses, and their difference.
type FinancialSummary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

func (s *FinanceService) Summary() (FinancialSummary, error) {
	var out FinancialSummary
	var err error
	out.Income, err = s.sumByType(models.TransactionIncome)
	if err != nil {
		return out, err
	}
	out.Expenses, err = s.sumByType(models.TransactionExpense)
	if err != nil {
		return out, err
	}
	out.Profit = out.Income - out.Expenses
	return out, nil
}

func (s *FinanceService) sumByType(transactionType string) (float64, error) {
	var total float64
	err := s.db.Model(&models.FinancialRecord{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("transaction_type = ?", transactionType).
		Scan(&total).Error
	return total, err
}

type RecordFilter struct {
	Type  string
	Limit int
}

// Records lists financial records newest first, optionally narrowed to
// one transaction type. Limit defaults to 100.
func (s *FinanceService) Records(f RecordFilter) ([]models.FinancialRecord, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	q := s.db.Model(&models.FinancialRecord{})
	if f.Type != "" {
		q = q.Where("transaction_type = ?", f.Type)
	}
	var records []models.FinancialRecord
	err := q.Order("date DESC").Limit(limit).Find(&records).Error
	return records, err
}

// MonthlyFlow is one month of the income-vs-expense comparison, keyed
// YYYY-MM.
type MonthlyFlow struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// MonthlyComparison groups record amounts by month and transaction
// type and folds them into one row per month, oldest first.
func (s *FinanceService) MonthlyComparison() ([]MonthlyFlow, error) {
	var rows []struct {
		Month           string
		TransactionType string
		Total           float64
	}
	err := s.db.Model(&models.FinancialRecord{}).
		Select("strftime('%Y-%m', date) AS month, transaction_type, SUM(amount) AS total").
		Group("month, transaction_type").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	out := make([]MonthlyFlow, 0, len(rows))
	for _, r := range rows {
		i, ok := index[r.Month]
		if !ok {
			i = len(out)
			index[r.Month] = i
			out = append(out, MonthlyFlow{Month: r.Month})
		}
		switch r.TransactionType {
		case models.TransactionIncome:
			out[i].Income = r.Total
		case models.TransactionExpense:
			out[i].Expense = r.Total
		}
	}
	return out, nil
}
