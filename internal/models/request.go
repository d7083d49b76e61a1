package models

import (
	"time"

	"github.com/google/uuid"
)

// Request is the parent row of a service ask; exactly one kind-detail row
// exists per request and the kind column decides which table it lives in.
type Request struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ClientID   uuid.UUID  `db:"client_id" json:"client_id"`
	ProviderID *uuid.UUID `db:"provider_id" json:"provider_id,omitempty"`
	Kind       string     `db:"kind" json:"kind"`
	LocationID uuid.UUID  `db:"location_id" json:"location_id"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

type ServiceLocation struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	StreetName         string    `db:"street_name" json:"street_name"`
	SubdivisionVillage string    `db:"subdivision_village" json:"subdivision_village"`
	Barangay           string    `db:"barangay" json:"barangay"`
	CityMunicipality   string    `db:"city_municipality" json:"city_municipality"`
	Landmark           string    `db:"landmark" json:"landmark"`
}

type CustomRequestDetail struct {
	RequestID       uuid.UUID `db:"request_id" json:"request_id"`
	Description     string    `db:"description" json:"description"`
	ConcernPhotoURL *string   `db:"concern_photo_url" json:"concern_photo_url,omitempty"`
	Status          string    `db:"status" json:"status"`
	QuotedPrice     *float64  `db:"quoted_price" json:"quoted_price,omitempty"`
	ProvidersNote   string    `db:"providers_note" json:"providers_note"`
}

type DirectRequestDetail struct {
	RequestID uuid.UUID `db:"request_id" json:"request_id"`
	ServiceID uuid.UUID `db:"service_id" json:"service_id"`
	Status    string    `db:"status" json:"status"`
}

type EmergencyRequestDetail struct {
	RequestID       uuid.UUID `db:"request_id" json:"request_id"`
	Description     string    `db:"description" json:"description"`
	ConcernPhotoURL *string   `db:"concern_photo_url" json:"concern_photo_url,omitempty"`
	ProvidersNote   string    `db:"providers_note" json:"providers_note"`
}

// DirectRequestAddOn is one applied add-on of a direct request. Add-ons
// are join rows, not embedded, so they can be applied partially and priced
// per request.
type DirectRequestAddOn struct {
	ID        uuid.UUID `db:"id" json:"id"`
	RequestID uuid.UUID `db:"request_id" json:"request_id"`
	AddOnID   uuid.UUID `db:"add_on_id" json:"add_on_id"`
}
