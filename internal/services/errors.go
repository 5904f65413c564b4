package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/retail-erp/validation"
	"gorm.io/gorm"
)

// ErrNotFound reports a referenced product or user id that does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConstraintViolation reports a storage-constraint failure, such as
// a duplicate username.
var ErrConstraintViolation = errors.New("constraint violation")

// InsufficientStockError rejects a sale whose requested quantity
// exceeds what is on hand. Available carries the current stock so the
// caller can surface it.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available", e.Available)
}

// ValidationError rejects input before any storage interaction.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// wrapStorageErr maps driver errors onto the service taxonomy.
func wrapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") || strings.Contains(msg, "constraint") {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}
	return err
}
