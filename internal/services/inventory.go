package services

import (
	"errors"
	"strings"

	"github.com/diewo77/retail-erp/internal/models"
	"github.com/diewo77/retail-erp/validation"
	"gorm.io/gorm"
)

// InventoryService covers product CRUD, search, and the low-stock
// filter.
type InventoryService struct {
	db        *gorm.DB
	threshold int
}

func NewInventoryService(db *gorm.DB, lowStockThreshold int) *InventoryService {
	return &InventoryService{db: db, threshold: lowStockThreshold}
}

// LowStockThreshold reports the configured threshold.
func (s *InventoryService) LowStockThreshold() int { return s.threshold }

type ProductFilter struct {
	Search   string
	Category string
}

// List returns products newest first, optionally narrowed by a
// case-insensitive search over name/category and an exact category.
func (s *InventoryService) List(f ProductFilter) ([]models.Product, error) {
	q := s.db.Model(&models.Product{})
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(category) LIKE ?", like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	var products []models.Product
	err := q.Order("id DESC").Find(&products).Error
	return products, err
}

// Categories returns the distinct non-empty product categories.
func (s *InventoryService) Categories() ([]string, error) {
	var categories []string
	err := s.db.Model(&models.Product{}).
		Where("category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

type ProductInput struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

func (in ProductInput) validate() error {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.PositiveFloat("price", in.Price, v)
	validation.NonNegativeInt("stock", in.Stock, v)
	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	return nil
}

// Create adds a product to the inventory.
func (s *InventoryService) Create(in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := models.Product{
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		Price:    in.Price,
		Stock:    in.Stock,
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, wrapStorageErr(err)
	}
	return &p, nil
}

// Update replaces the editable fields of an existing product.
func (s *InventoryService) Update(id uint, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var p models.Product
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Category = strings.TrimSpace(in.Category)
	p.Price = in.Price
	p.Stock = in.Stock
	if err := s.db.Save(&p).Error; err != nil {
		return nil, wrapStorageErr(err)
	}
	return &p, nil
}

// Delete removes a product and its sales. The cascade is explicit so
// it holds even where the driver leaves foreign keys unenforced.
func (s *InventoryService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("product_id = ?", id).Delete(&models.Sale{}).Error
	})
}

// LowStock lists products strictly below the threshold, lowest first.
// A product sitting exactly at the threshold is not low.
func (s *InventoryService) LowStock() ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("stock < ?", s.threshold).Order("stock ASC").Find(&products).Error
	return products, err
}
