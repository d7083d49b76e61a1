package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

// Request is a client's ask for service. Exactly one of the three detail
// records is non-nil, and it must match Kind; Kind never changes after
// creation.
type Request struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	ProviderID *uuid.UUID
	Kind       valueobject.RequestKind
	Location   valueobject.ServiceLocation
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Custom    *CustomRequestDetail
	Direct    *DirectRequestDetail
	Emergency *EmergencyRequestDetail

	// BookingID is populated on reads when a booking already exists for
	// this request. It is never written through the request aggregate.
	BookingID *uuid.UUID
}

type CustomRequestDetail struct {
	Description     string
	ConcernPhotoURL *string
	Status          valueobject.RequestStatus
	QuotedPrice     *float64
	ProvidersNote   string
}

type DirectRequestDetail struct {
	ServiceID uuid.UUID
	Status    valueobject.RequestStatus
	AddOnIDs  []uuid.UUID
}

type EmergencyRequestDetail struct {
	Description     string
	ConcernPhotoURL *string
	ProvidersNote   string
}

func NewCustomRequest(clientID uuid.UUID, providerID *uuid.UUID, description string, location valueobject.ServiceLocation, photoURL *string) (*Request, error) {
	if description == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "description is required")
	}
	if location.IsZero() {
		return nil, apperror.New(apperror.ErrCodeValidation, "service location is required")
	}

	now := time.Now()
	return &Request{
		ID:         uuid.New(),
		ClientID:   clientID,
		ProviderID: providerID,
		Kind:       valueobject.RequestKindCustom,
		Location:   location,
		CreatedAt:  now,
		UpdatedAt:  now,
		Custom: &CustomRequestDetail{
			Description:     description,
			ConcernPhotoURL: photoURL,
			Status:          valueobject.RequestStatusPending,
		},
	}, nil
}

func NewDirectRequest(clientID, providerID, serviceID uuid.UUID, location valueobject.ServiceLocation, addOnIDs []uuid.UUID) (*Request, error) {
	if location.IsZero() {
		return nil, apperror.New(apperror.ErrCodeValidation, "service location is required")
	}

	now := time.Now()
	provider := providerID
	return &Request{
		ID:         uuid.New(),
		ClientID:   clientID,
		ProviderID: &provider,
		Kind:       valueobject.RequestKindDirect,
		Location:   location,
		CreatedAt:  now,
		UpdatedAt:  now,
		Direct: &DirectRequestDetail{
			ServiceID: serviceID,
			Status:    valueobject.RequestStatusPending,
			AddOnIDs:  addOnIDs,
		},
	}, nil
}

func NewEmergencyRequest(clientID uuid.UUID, providerID *uuid.UUID, description string, location valueobject.ServiceLocation, photoURL *string) (*Request, error) {
	if description == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "description is required")
	}
	if location.IsZero() {
		return nil, apperror.New(apperror.ErrCodeValidation, "service location is required")
	}

	now := time.Now()
	return &Request{
		ID:         uuid.New(),
		ClientID:   clientID,
		ProviderID: providerID,
		Kind:       valueobject.RequestKindEmergency,
		Location:   location,
		CreatedAt:  now,
		UpdatedAt:  now,
		Emergency: &EmergencyRequestDetail{
			Description:     description,
			ConcernPhotoURL: photoURL,
		},
	}, nil
}

// CheckDetail verifies the detail record matching Kind exists and the other
// two do not. A violation is an internal consistency fault, never a normal
// optional field.
func (r *Request) CheckDetail() error {
	var matches bool
	count := 0
	if r.Custom != nil {
		count++
		matches = matches || r.Kind == valueobject.RequestKindCustom
	}
	if r.Direct != nil {
		count++
		matches = matches || r.Kind == valueobject.RequestKindDirect
	}
	if r.Emergency != nil {
		count++
		matches = matches || r.Kind == valueobject.RequestKindEmergency
	}
	if count != 1 || !matches {
		return apperror.New(apperror.ErrCodeInternalConsistency, "request detail record does not match its kind")
	}
	return nil
}

// Status returns the pre-booking status of the detail record. Emergency
// requests have none and report pending for listing purposes.
func (r *Request) Status() valueobject.RequestStatus {
	switch r.Kind {
	case valueobject.RequestKindCustom:
		if r.Custom != nil {
			return r.Custom.Status
		}
	case valueobject.RequestKindDirect:
		if r.Direct != nil {
			return r.Direct.Status
		}
	case valueobject.RequestKindEmergency:
		return valueobject.RequestStatusPending
	}
	return ""
}

// Quote sets the provider's price on a pending custom request.
func (r *Request) Quote(price float64, note string) error {
	if r.Kind != valueobject.RequestKindCustom || r.Custom == nil {
		return apperror.New(apperror.ErrCodeInvalidTransition, "only custom requests can be quoted")
	}
	if r.Custom.Status != valueobject.RequestStatusPending {
		return apperror.New(apperror.ErrCodeInvalidTransition, "only a pending request can be quoted")
	}
	if price <= 0 {
		return apperror.New(apperror.ErrCodeValidation, "quoted price must be positive")
	}

	r.Custom.Status = valueobject.RequestStatusQuoted
	r.Custom.QuotedPrice = &price
	r.Custom.ProvidersNote = note
	r.UpdatedAt = time.Now()
	return nil
}

// Accept moves the request to its accepted terminal state: custom requests
// must have been quoted first, direct requests must still be pending.
// Emergency requests are never responded to; booking them is the signal.
func (r *Request) Accept() error {
	switch r.Kind {
	case valueobject.RequestKindCustom:
		if r.Custom == nil || r.Custom.Status != valueobject.RequestStatusQuoted {
			return apperror.New(apperror.ErrCodeInvalidTransition, "only a quoted request can be accepted")
		}
		r.Custom.Status = valueobject.RequestStatusAccepted
	case valueobject.RequestKindDirect:
		if r.Direct == nil || r.Direct.Status != valueobject.RequestStatusPending {
			return apperror.New(apperror.ErrCodeInvalidTransition, "only a pending request can be accepted")
		}
		r.Direct.Status = valueobject.RequestStatusAccepted
	default:
		return apperror.New(apperror.ErrCodeInvalidTransition, "emergency requests are accepted by booking them")
	}
	r.UpdatedAt = time.Now()
	return nil
}

// Reject is terminal; a rejected request cannot be resubmitted.
func (r *Request) Reject() error {
	switch r.Kind {
	case valueobject.RequestKindCustom:
		if r.Custom == nil || r.Custom.Status != valueobject.RequestStatusQuoted {
			return apperror.New(apperror.ErrCodeInvalidTransition, "only a quoted request can be rejected")
		}
		r.Custom.Status = valueobject.RequestStatusRejected
	case valueobject.RequestKindDirect:
		if r.Direct == nil || r.Direct.Status != valueobject.RequestStatusPending {
			return apperror.New(apperror.ErrCodeInvalidTransition, "only a pending request can be rejected")
		}
		r.Direct.Status = valueobject.RequestStatusRejected
	default:
		return apperror.New(apperror.ErrCodeInvalidTransition, "emergency requests cannot be rejected")
	}
	r.UpdatedAt = time.Now()
	return nil
}

// IsAcceptedForBooking reports whether a booking may be created from this
// request. Emergency requests are always bookable.
func (r *Request) IsAcceptedForBooking() bool {
	switch r.Kind {
	case valueobject.RequestKindEmergency:
		return true
	case valueobject.RequestKindCustom:
		return r.Custom != nil && r.Custom.Status == valueobject.RequestStatusAccepted
	case valueobject.RequestKindDirect:
		return r.Direct != nil && r.Direct.Status == valueobject.RequestStatusAccepted
	}
	return false
}

func (r *Request) IsOwnedBy(accountID uuid.UUID) bool {
	return r.ClientID == accountID
}

func (r *Request) IsAssignedTo(accountID uuid.UUID) bool {
	return r.ProviderID != nil && *r.ProviderID == accountID
}
