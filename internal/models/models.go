// package models defines the data model for the catalog
package models

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/holocron/internal/shared"
)

// Model defines the base interface for all persistent models in the catalog.
type Model interface {
	TableName() string // TableName returns the table backing this model
	Validate() error   // Validate checks required fields and column limits
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(ctx context.Context, model T) error                      // Create inserts a new model and assigns its ID
	Get(ctx context.Context, id int64) (T, error)                  // Get retrieves a model by its ID
	Update(ctx context.Context, model T) error                      // Update modifies an existing model
	Delete(ctx context.Context, id int64) error                    // Delete removes a model (and whatever cascades from it)
	List(ctx context.Context, criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Column limits carried by the schema.
const (
	maxEmail    = 120
	maxPassword = 200
	maxName     = 50
	maxShort    = 20
	maxURL      = 255
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", shared.ErrInvalidInput, field)
	}
	return nil
}

func maxLen(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return fmt.Errorf("%w: %s exceeds %d characters", shared.ErrInvalidInput, field, limit)
	}
	return nil
}

func requiredID(field string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s is required", shared.ErrInvalidInput, field)
	}
	return nil
}

func nonNegative(field string, value int64) error {
	if value < 0 {
		return fmt.Errorf("%w: %s must not be negative", shared.ErrInvalidInput, field)
	}
	return nil
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// optional converts an empty string to nil for nullable columns.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the value of a nullable string, or "" when nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
