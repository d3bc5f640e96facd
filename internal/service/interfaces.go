// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/tagsnap/tagsnap/internal/model"
)

// PurchaseFilter defines filtering options for purchase history queries.
// Zero-valued fields are ignored; combined fields are ANDed together.
type PurchaseFilter struct {
	Since    *time.Time
	Until    *time.Time
	Label    string
	Location string
	Trip     string
	Search   string
	Limit    int
	Offset   int
}

// TripSummary aggregates the purchases recorded under one trip name.
type TripSummary struct {
	FirstDate time.Time
	LastDate  time.Time
	Name      string
	Totals    []model.Money
	Purchases int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Purchase operations
	SavePurchase(ctx context.Context, purchase *model.Purchase) error
	GetPurchases(ctx context.Context, filter PurchaseFilter) ([]model.Purchase, error)
	GetPurchaseByID(ctx context.Context, id string) (*model.Purchase, error)
	DeletePurchase(ctx context.Context, id string) error
	GetPurchaseCount(ctx context.Context) (int, error)

	// Label operations
	AddLabel(ctx context.Context, purchaseID, label string) error
	RemoveLabel(ctx context.Context, purchaseID, label string) error
	GetLabels(ctx context.Context) ([]string, error)

	// Location and trip operations
	SetLocation(ctx context.Context, purchaseID, location string) error
	SetTrip(ctx context.Context, purchaseID, tripName string) error
	GetTrips(ctx context.Context) ([]TripSummary, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
