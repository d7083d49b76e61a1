package booking

import (
	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

// requireParticipant hides bookings from non-participants the same way the
// ownership queries do: the caller learns nothing about existence.
func requireParticipant(b *entity.Booking, accountID uuid.UUID) error {
	if b.Request == nil {
		return apperror.New(apperror.ErrCodeInternalConsistency, "booking has no originating request attached")
	}
	if b.Request.IsOwnedBy(accountID) || b.Request.IsAssignedTo(accountID) {
		return nil
	}
	return apperror.ErrBookingNotFound
}

// requireProvider restricts work-progress operations to the provider side.
func requireProvider(b *entity.Booking, accountID uuid.UUID) error {
	if b.Request == nil {
		return apperror.New(apperror.ErrCodeInternalConsistency, "booking has no originating request attached")
	}
	if b.Request.IsAssignedTo(accountID) {
		return nil
	}
	if b.Request.IsOwnedBy(accountID) {
		return apperror.ErrForbidden
	}
	return apperror.ErrBookingNotFound
}

// otherParticipant returns the counterpart of the given account on the
// booking, used to default the respondent of a dispute.
func otherParticipant(b *entity.Booking, accountID uuid.UUID) (uuid.UUID, error) {
	if b.Request == nil {
		return uuid.Nil, apperror.New(apperror.ErrCodeInternalConsistency, "booking has no originating request attached")
	}
	if b.Request.IsOwnedBy(accountID) {
		if b.Request.ProviderID == nil {
			return uuid.Nil, apperror.New(apperror.ErrCodeValidation, "booking has no provider to dispute against")
		}
		return *b.Request.ProviderID, nil
	}
	if b.Request.IsAssignedTo(accountID) {
		return b.Request.ClientID, nil
	}
	return uuid.Nil, apperror.ErrBookingNotFound
}
