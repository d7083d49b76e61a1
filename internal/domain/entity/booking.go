package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

// Booking is an accepted, fee-bearing unit of work. At most one detail
// record of each type exists over its lifetime, and the record matching
// Status is the current one. The active detail is the only exception to
// "status implies detail": it is created lazily by StartWork or Reschedule,
// so an active booking may not have one yet.
type Booking struct {
	ID          uuid.UUID
	RequestID   uuid.UUID
	Status      valueobject.BookingStatus
	AmountFee   float64
	BookedAt    time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time

	Active   *ActiveBookingDetail
	Rework   *ReworkBookingDetail
	Cancel   *CancelBookingDetail
	Dispute  *DisputeBookingDetail
	Complete *CompleteBookingDetail

	// Request is attached on reads so responses can show the originating
	// ask, its provider and its location. It is never written through the
	// booking aggregate.
	Request *Request
}

type ActiveBookingDetail struct {
	BeforePhotoURL *string
	AfterPhotoURL  *string
	IsJobDone      bool
	IsRescheduled  bool
	Reason         string
	NewDate        *time.Time
	NewTime        string
	// StartedAt is nil until StartWork: a booking rescheduled before the
	// provider begins has an active record but no start stamp yet.
	StartedAt *time.Time
}

type ReworkBookingDetail struct {
	RequestedBy uuid.UUID
	Reason      string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type CancelBookingDetail struct {
	CancelledBy uuid.UUID
	Reason      string
	CancelledAt time.Time
}

type DisputeBookingDetail struct {
	Complainer       uuid.UUID
	ComplaintAgainst uuid.UUID
	AdminID          *uuid.UUID
	IssueDescription string
	IssuePhotoURL    *string
	ResolutionNotes  string
	Status           valueobject.DisputeStatus
	AmountRefunded   *float64
	RefundReceiverID *uuid.UUID
	CreatedAt        time.Time
	ResolvedAt       *time.Time
}

type CompleteBookingDetail struct {
	CompletedAt time.Time
	TotalAmount float64
	Notes       string
}

// NewBooking creates a booking for a request that reached its accepted
// terminal state. The active detail is not created here; StartWork does
// that once the provider actually begins.
func NewBooking(request *Request, feeAmount float64) (*Booking, error) {
	if !request.IsAcceptedForBooking() {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "request has not been accepted")
	}
	if feeAmount < 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "fee amount cannot be negative")
	}

	now := time.Now()
	return &Booking{
		ID:        uuid.New(),
		RequestID: request.ID,
		Status:    valueobject.BookingStatusActive,
		AmountFee: feeAmount,
		BookedAt:  now,
		UpdatedAt: now,
	}, nil
}

// StartWork stamps the start of work, creating the active detail record if
// a reschedule has not done so already.
func (b *Booking) StartWork(beforePhotoURL *string) (*ActiveBookingDetail, error) {
	if b.Status != valueobject.BookingStatusActive {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "work can only start on an active booking")
	}
	if b.Active != nil && b.Active.StartedAt != nil {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "work has already started")
	}

	if b.Active == nil {
		b.Active = &ActiveBookingDetail{}
	}
	now := time.Now()
	b.Active.BeforePhotoURL = beforePhotoURL
	b.Active.StartedAt = &now
	b.UpdatedAt = now
	return b.Active, nil
}

// MarkJobDone records that the work is physically finished. The booking
// stays active: closing it is a separate, explicit completion so disputes
// can still be raised in between.
func (b *Booking) MarkJobDone(afterPhotoURL *string) (*ActiveBookingDetail, error) {
	if b.Status != valueobject.BookingStatusActive {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "only an active booking can be marked done")
	}
	if b.Active == nil || b.Active.StartedAt == nil {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "work has not started yet")
	}

	b.Active.IsJobDone = true
	b.Active.AfterPhotoURL = afterPhotoURL
	b.UpdatedAt = time.Now()
	return b.Active, nil
}

// Reschedule flags the active work with a new date and time; the booking
// status does not change. Rescheduling before work starts is legal and
// creates the active record.
func (b *Booking) Reschedule(reason string, newDate time.Time, newTime string) (*ActiveBookingDetail, error) {
	if b.Status != valueobject.BookingStatusActive {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "only an active booking can be rescheduled")
	}
	if reason == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "reschedule reason is required")
	}

	if b.Active == nil {
		b.Active = &ActiveBookingDetail{}
	}
	b.Active.IsRescheduled = true
	b.Active.Reason = reason
	b.Active.NewDate = &newDate
	b.Active.NewTime = newTime
	b.UpdatedAt = time.Now()
	return b.Active, nil
}

// CompleteWork closes the booking with a completion record. Legal from
// active and reworked; completing again after a rework replaces the
// previous completion record.
func (b *Booking) CompleteWork(totalAmount float64, notes string) (*CompleteBookingDetail, error) {
	if !b.Status.CanTransitionTo(valueobject.BookingStatusCompleted) {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "booking cannot be completed from its current status")
	}
	if totalAmount < 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "total amount cannot be negative")
	}

	now := time.Now()
	b.Status = valueobject.BookingStatusCompleted
	b.CompletedAt = &now
	b.UpdatedAt = now
	b.Complete = &CompleteBookingDetail{
		CompletedAt: now,
		TotalAmount: totalAmount,
		Notes:       notes,
	}
	return b.Complete, nil
}

// CancelWork is terminal and only legal from active.
func (b *Booking) CancelWork(cancelledBy uuid.UUID, reason string) (*CancelBookingDetail, error) {
	if !b.Status.CanTransitionTo(valueobject.BookingStatusCancelled) {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "only an active booking can be cancelled")
	}
	if reason == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "cancellation reason is required")
	}

	now := time.Now()
	b.Status = valueobject.BookingStatusCancelled
	b.UpdatedAt = now
	b.Cancel = &CancelBookingDetail{
		CancelledBy: cancelledBy,
		Reason:      reason,
		CancelledAt: now,
	}
	return b.Cancel, nil
}

// FileRework reopens an active or completed job judged unsatisfactory.
func (b *Booking) FileRework(requestedBy uuid.UUID, reason string) (*ReworkBookingDetail, error) {
	if !b.Status.CanTransitionTo(valueobject.BookingStatusReworked) {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "rework can only be filed on an active or completed booking")
	}
	if reason == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "rework reason is required")
	}

	now := time.Now()
	b.Status = valueobject.BookingStatusReworked
	b.UpdatedAt = now
	b.Rework = &ReworkBookingDetail{
		RequestedBy: requestedBy,
		Reason:      reason,
		CreatedAt:   now,
	}
	return b.Rework, nil
}

// ResolveRework stamps the rework record and returns the booking to active
// (more work pending) or completed (accepted as-is). The latter requires a
// completion record from before the rework was filed.
func (b *Booking) ResolveRework(backToActive bool) (*ReworkBookingDetail, error) {
	if b.Status != valueobject.BookingStatusReworked {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "booking is not under rework")
	}
	if b.Rework == nil {
		return nil, apperror.New(apperror.ErrCodeInternalConsistency, "reworked booking has no rework record")
	}

	now := time.Now()
	if backToActive {
		b.Status = valueobject.BookingStatusActive
	} else {
		if b.Complete == nil {
			return nil, apperror.New(apperror.ErrCodeInvalidTransition, "no completion on record to accept as-is")
		}
		b.Status = valueobject.BookingStatusCompleted
	}
	b.Rework.CompletedAt = &now
	b.UpdatedAt = now
	return b.Rework, nil
}

// FileDispute freezes the booking in the disputed status. Cancelled and
// already-disputed bookings cannot be disputed.
func (b *Booking) FileDispute(complainer, against uuid.UUID, description string, photoURL *string) (*DisputeBookingDetail, error) {
	if !b.Status.CanTransitionTo(valueobject.BookingStatusDisputed) {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "booking cannot be disputed from its current status")
	}
	if description == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "issue description is required")
	}
	if complainer == against {
		return nil, apperror.New(apperror.ErrCodeValidation, "cannot file a dispute against yourself")
	}

	now := time.Now()
	b.Status = valueobject.BookingStatusDisputed
	b.UpdatedAt = now
	b.Dispute = &DisputeBookingDetail{
		Complainer:       complainer,
		ComplaintAgainst: against,
		IssueDescription: description,
		IssuePhotoURL:    photoURL,
		Status:           valueobject.DisputeStatusPending,
		CreatedAt:        now,
	}
	return b.Dispute, nil
}

// ResolveDispute closes a pending dispute. The booking status stays
// disputed; the dispute sub-status carries the final resolution. A refunded
// outcome requires the amount and the receiver.
func (b *Booking) ResolveDispute(adminID uuid.UUID, notes string, outcome valueobject.DisputeStatus, refundAmount *float64, refundReceiver *uuid.UUID) (*DisputeBookingDetail, error) {
	if b.Status != valueobject.BookingStatusDisputed {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "booking is not disputed")
	}
	if b.Dispute == nil {
		return nil, apperror.New(apperror.ErrCodeInternalConsistency, "disputed booking has no dispute record")
	}
	if b.Dispute.Status != valueobject.DisputeStatusPending {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "dispute has already been resolved")
	}
	if !outcome.IsResolved() {
		return nil, apperror.New(apperror.ErrCodeValidation, "outcome must be solved or refunded")
	}
	if outcome == valueobject.DisputeStatusRefunded {
		if refundAmount == nil || *refundAmount <= 0 || refundReceiver == nil {
			return nil, apperror.New(apperror.ErrCodeValidation, "refund amount and receiver are required")
		}
		b.Dispute.AmountRefunded = refundAmount
		b.Dispute.RefundReceiverID = refundReceiver
	}

	now := time.Now()
	b.Dispute.AdminID = &adminID
	b.Dispute.ResolutionNotes = notes
	b.Dispute.Status = outcome
	b.Dispute.ResolvedAt = &now
	b.UpdatedAt = now
	return b.Dispute, nil
}

// CheckDetail verifies the detail record implied by Status exists. An
// active booking without an active record is the one permitted gap (work
// not started yet); everything else is a consistency fault.
func (b *Booking) CheckDetail() error {
	var missing bool
	switch b.Status {
	case valueobject.BookingStatusActive:
		// lazily created by StartWork or Reschedule
	case valueobject.BookingStatusReworked:
		missing = b.Rework == nil
	case valueobject.BookingStatusCancelled:
		missing = b.Cancel == nil
	case valueobject.BookingStatusDisputed:
		missing = b.Dispute == nil
	case valueobject.BookingStatusCompleted:
		missing = b.Complete == nil
	default:
		return apperror.New(apperror.ErrCodeInternalConsistency, "booking has an unknown status")
	}
	if missing {
		return apperror.New(apperror.ErrCodeInternalConsistency, "booking status implies a detail record that is missing")
	}
	return nil
}

// IsTerminal reports whether no further transition is defined.
func (b *Booking) IsTerminal() bool {
	if b.Status == valueobject.BookingStatusCancelled {
		return true
	}
	return b.Status == valueobject.BookingStatusDisputed && b.Dispute != nil && b.Dispute.Status.IsResolved()
}
