package models

import (
	"time"

	"github.com/google/uuid"
)

// Service is a fixed-price catalog entry.
type Service struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ServiceAddOn is an optional extra a client can attach to a direct
// request, priced independently.
type ServiceAddOn struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ServiceID   uuid.UUID `db:"service_id" json:"service_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
}

// ProviderService joins a provider account to a service it offers.
type ProviderService struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ProviderID uuid.UUID `db:"provider_id" json:"provider_id"`
	ServiceID  uuid.UUID `db:"service_id" json:"service_id"`
}
