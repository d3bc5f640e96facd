// Package storage provides the data persistence layer for tagsnap.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tagsnap/tagsnap/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidPurchase = errors.New("invalid purchase")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePurchase validates a purchase before persisting it.
func validatePurchase(purchase *model.Purchase) error {
	if purchase == nil {
		return fmt.Errorf("%w: purchase", ErrNilParameter)
	}
	if strings.TrimSpace(purchase.ProductName) == "" {
		return fmt.Errorf("%w: missing product name", ErrInvalidPurchase)
	}
	if purchase.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidPurchase)
	}
	if purchase.Original.Currency == "" {
		return fmt.Errorf("%w: missing original currency", ErrInvalidPurchase)
	}
	if purchase.Converted.Currency == "" {
		return fmt.Errorf("%w: missing converted currency", ErrInvalidPurchase)
	}
	if purchase.Original.Amount < 0 || purchase.Converted.Amount < 0 {
		return fmt.Errorf("%w: amounts cannot be negative", ErrInvalidPurchase)
	}
	if purchase.DocType != "" && !purchase.DocType.Valid() {
		return fmt.Errorf("%w: unknown document type %q", ErrInvalidPurchase, purchase.DocType)
	}
	for i, item := range purchase.Items {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w: item %d missing name", ErrInvalidPurchase, i)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: item %d has negative price", ErrInvalidPurchase, i)
		}
	}
	return nil
}
