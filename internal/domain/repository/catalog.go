package repository

import (
	"context"

	"github.com/google/uuid"
)

// CatalogService is the read-only view of a fixed-price catalog entry.
type CatalogService struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64
}

type CatalogAddOn struct {
	ID        uuid.UUID
	ServiceID uuid.UUID
	Name      string
	Price     float64
}

// CatalogProvider is a provider account as shown in the public directory,
// together with the services it offers.
type CatalogProvider struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Username  string
	ContactNo *string
	Services  []CatalogService
}

// Catalog is the reference-data collaborator. The lifecycle components
// never touch catalog tables directly.
type Catalog interface {
	GetService(ctx context.Context, id uuid.UUID) (*CatalogService, error)
	GetServiceAddOns(ctx context.Context, serviceID uuid.UUID) ([]CatalogAddOn, error)
	// GetAddOnsByIDs resolves the ids that exist; unknown ids are dropped,
	// not reported.
	GetAddOnsByIDs(ctx context.Context, ids []uuid.UUID) ([]CatalogAddOn, error)
	// ProviderOffersService checks the provider's offered-service set.
	ProviderOffersService(ctx context.Context, providerID, serviceID uuid.UUID) (bool, error)
}

// AccountDirectory is the slice of the identity provider the lifecycle
// components need: existence checks for referenced accounts.
type AccountDirectory interface {
	AccountExists(ctx context.Context, id uuid.UUID) (bool, error)
	ProviderExists(ctx context.Context, id uuid.UUID) (bool, error)
}
