package repository

import (
	"errors"
	"fmt"
	"strings"

	"flightdeals-service/internal/domain/entity"

	"gorm.io/gorm"
)

// byColumn matches a directory code column. Codes are stored upper-case.
func byColumn(column, code string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(column+" = ?", strings.ToUpper(strings.TrimSpace(code)))
	}
}

// directoryError maps a missing row to entity.ErrNotFound
func directoryError(table, code string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", table, code, entity.ErrNotFound)
	}
	return fmt.Errorf("lookup %s %s: %w", table, code, err)
}
