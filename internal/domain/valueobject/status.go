package valueobject

import "github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"

type RequestKind string

const (
	RequestKindCustom    RequestKind = "custom"
	RequestKindDirect    RequestKind = "direct"
	RequestKindEmergency RequestKind = "emergency"
)

func (k RequestKind) IsValid() bool {
	switch k {
	case RequestKindCustom, RequestKindDirect, RequestKindEmergency:
		return true
	}
	return false
}

func NewRequestKind(kind string) (RequestKind, error) {
	k := RequestKind(kind)
	if !k.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "invalid request kind")
	}
	return k, nil
}

// RequestStatus is the pre-booking status of a request's detail record.
// Custom requests move pending -> quoted -> accepted|rejected, direct
// requests move pending -> accepted|rejected. Emergency requests carry no
// status at all; the existence of a booking is their acceptance signal.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusQuoted   RequestStatus = "quoted"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusQuoted, RequestStatusAccepted, RequestStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further pre-booking transition is defined.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusRejected
}

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusReworked  BookingStatus = "reworked"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusDisputed  BookingStatus = "disputed"
)

// AllBookingStatuses is the closed set accepted by status filters.
var AllBookingStatuses = []BookingStatus{
	BookingStatusActive,
	BookingStatusCompleted,
	BookingStatusReworked,
	BookingStatusCancelled,
	BookingStatusDisputed,
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusActive, BookingStatusCompleted, BookingStatusReworked,
		BookingStatusCancelled, BookingStatusDisputed:
		return true
	}
	return false
}

// CanTransitionTo encodes the booking state machine:
// active <-> reworked, active -> completed, completed -> reworked,
// active -> cancelled, and disputes may be filed from active, completed
// or reworked. Cancelled is terminal; disputed is terminal at the booking
// level (resolution lives in the dispute sub-status).
func (s BookingStatus) CanTransitionTo(newStatus BookingStatus) bool {
	transitions := map[BookingStatus][]BookingStatus{
		BookingStatusActive:    {BookingStatusCompleted, BookingStatusReworked, BookingStatusCancelled, BookingStatusDisputed},
		BookingStatusCompleted: {BookingStatusReworked, BookingStatusDisputed},
		BookingStatusReworked:  {BookingStatusActive, BookingStatusCompleted, BookingStatusDisputed},
		BookingStatusCancelled: {},
		BookingStatusDisputed:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewBookingStatus(status string) (BookingStatus, error) {
	s := BookingStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "invalid booking status")
	}
	return s, nil
}

type DisputeStatus string

const (
	DisputeStatusPending  DisputeStatus = "pending"
	DisputeStatusSolved   DisputeStatus = "solved"
	DisputeStatusRefunded DisputeStatus = "refunded"
)

func (s DisputeStatus) IsValid() bool {
	switch s {
	case DisputeStatusPending, DisputeStatusSolved, DisputeStatusRefunded:
		return true
	}
	return false
}

// IsResolved reports whether the dispute left its pending state.
func (s DisputeStatus) IsResolved() bool {
	return s == DisputeStatusSolved || s == DisputeStatusRefunded
}
