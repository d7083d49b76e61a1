package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking is the parent row of an accepted unit of work. request_id is
// unique so a request can never yield two bookings.
type Booking struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	RequestID   uuid.UUID  `db:"request_id" json:"request_id"`
	Status      string     `db:"status" json:"status"`
	AmountFee   float64    `db:"amount_fee" json:"amount_fee"`
	BookedAt    time.Time  `db:"booked_at" json:"booked_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

type ActiveBookingDetail struct {
	BookingID      uuid.UUID  `db:"booking_id" json:"booking_id"`
	BeforePhotoURL *string    `db:"before_photo_url" json:"before_photo_url,omitempty"`
	AfterPhotoURL  *string    `db:"after_photo_url" json:"after_photo_url,omitempty"`
	IsJobDone      bool       `db:"is_job_done" json:"is_job_done"`
	IsRescheduled  bool       `db:"is_rescheduled" json:"is_rescheduled"`
	Reason         string     `db:"reason" json:"reason"`
	NewDate        *time.Time `db:"new_date" json:"new_date,omitempty"`
	NewTime        string     `db:"new_time" json:"new_time"`
	StartedAt      *time.Time `db:"started_at" json:"started_at,omitempty"`
}

type ReworkBookingDetail struct {
	BookingID   uuid.UUID  `db:"booking_id" json:"booking_id"`
	RequestedBy uuid.UUID  `db:"requested_by" json:"requested_by"`
	Reason      string     `db:"reason" json:"reason"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

type CancelBookingDetail struct {
	BookingID   uuid.UUID `db:"booking_id" json:"booking_id"`
	CancelledBy uuid.UUID `db:"cancelled_by" json:"cancelled_by"`
	Reason      string    `db:"reason" json:"reason"`
	CancelledAt time.Time `db:"cancelled_at" json:"cancelled_at"`
}

type DisputeBookingDetail struct {
	BookingID        uuid.UUID  `db:"booking_id" json:"booking_id"`
	Complainer       uuid.UUID  `db:"complainer_id" json:"complainer_id"`
	ComplaintAgainst uuid.UUID  `db:"complaint_against_id" json:"complaint_against_id"`
	AdminID          *uuid.UUID `db:"admin_id" json:"admin_id,omitempty"`
	IssueDescription string     `db:"issue_description" json:"issue_description"`
	IssuePhotoURL    *string    `db:"issue_photo_url" json:"issue_photo_url,omitempty"`
	ResolutionNotes  string     `db:"resolution_notes" json:"resolution_notes"`
	Status           string     `db:"status" json:"status"`
	AmountRefunded   *float64   `db:"amount_refunded" json:"amount_refunded,omitempty"`
	RefundReceiverID *uuid.UUID `db:"refund_receiver_id" json:"refund_receiver_id,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt       *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}

type CompleteBookingDetail struct {
	BookingID   uuid.UUID `db:"booking_id" json:"booking_id"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
	TotalAmount float64   `db:"total_amount" json:"total_amount"`
	Notes       string    `db:"notes" json:"notes"`
}
