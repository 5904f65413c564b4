package models

import (
	"fmt"
	"time"
)

// Roles assigned to users. Admin passes every role check; the other
// two only pass an exact match.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// Transaction types for financial records. Income rows are generated
// by the sale transaction; expense rows are entered manually.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Product is a sellable inventory item. Stock is kept non-negative by
// the sale transaction, not by a table constraint.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Category  string    `gorm:"size:100;index" json:"category"`
	Price     float64   `gorm:"not null" json:"price"`
	Stock     int       `gorm:"not null;default:0" json:"stock"`
	CreatedAt time.Time `json:"created_at"`

	Sales []Sale `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Sale records one completed point-of-sale transaction. TotalPrice is
// a snapshot of price*quantity at sale time and is never recomputed if
// the product price later changes.
type Sale struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Reference    string    `gorm:"size:36;uniqueIndex" json:"reference"`
	ProductID    uint      `gorm:"index;not null" json:"product_id"`
	Product      *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CustomerName string    `gorm:"size:200" json:"customer_name"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	TotalPrice   float64   `gorm:"not null" json:"total_price"`
	SaleDate     time.Time `gorm:"index;not null" json:"sale_date"`
}

// User is an authenticated back-office account.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:256;not null" json:"-"`
	Role         string    `gorm:"size:50;not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// FinancialRecord is one income or expense entry. It carries no
// foreign key to Sale; income rows reference their sale only through
// the generated description text.
type FinancialRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TransactionType string    `gorm:"size:50;index;not null" json:"transaction_type"`
	Amount          float64   `gorm:"not null" json:"amount"`
	Category        string    `gorm:"size:100" json:"category"`
	Description     string    `gorm:"type:text" json:"description"`
	Date            time.Time `gorm:"index;not null" json:"date"`
}

// IncomeDescription builds the text linking a sale to its generated
// income record. The bulk seeding path passes an empty customer name
// and the customer clause is dropped. Reports correlating the two
// tables match on this exact convention.
func IncomeDescription(quantity int, productName, customerName string) string {
	if customerName == "" {
		return fmt.Sprintf("Sale of %d x %s", quantity, productName)
	}
	return fmt.Sprintf("Sale of %d x %s to %s", quantity, productName, customerName)
}
