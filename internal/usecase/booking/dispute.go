package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

type FileDisputeInput struct {
	BookingID uuid.UUID
	// Against defaults to the caller's counterpart on the booking when nil.
	Against          *uuid.UUID
	IssueDescription string
	IssuePhotoURL    *string
}

type FileDisputeUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewFileDisputeUseCase(bookingRepo repository.BookingRepository) *FileDisputeUseCase {
	return &FileDisputeUseCase{bookingRepo: bookingRepo}
}

func (uc *FileDisputeUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input FileDisputeInput) (*entity.Booking, error) {
	return uc.bookingRepo.Mutate(ctx, input.BookingID, func(b *entity.Booking) error {
		if err := requireParticipant(b, auth.AccountID); err != nil {
			return err
		}

		against := input.Against
		if against == nil {
			other, err := otherParticipant(b, auth.AccountID)
			if err != nil {
				return err
			}
			against = &other
		}

		_, err := b.FileDispute(auth.AccountID, *against, input.IssueDescription, input.IssuePhotoURL)
		return err
	})
}

type ResolveDisputeInput struct {
	BookingID       uuid.UUID
	ResolutionNotes string
	Outcome         valueobject.DisputeStatus
	RefundAmount    *float64
	RefundReceiver  *uuid.UUID
}

// ResolveDisputeUseCase closes a pending dispute. Admin only; the booking
// keeps its disputed status and the dispute sub-status carries the
// resolution.
type ResolveDisputeUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewResolveDisputeUseCase(bookingRepo repository.BookingRepository) *ResolveDisputeUseCase {
	return &ResolveDisputeUseCase{bookingRepo: bookingRepo}
}

func (uc *ResolveDisputeUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input ResolveDisputeInput) (*entity.Booking, error) {
	if !auth.HasRole(valueobject.RoleAdmin) {
		return nil, apperror.ErrForbidden
	}

	return uc.bookingRepo.Mutate(ctx, input.BookingID, func(b *entity.Booking) error {
		_, err := b.ResolveDispute(auth.AccountID, input.ResolutionNotes, input.Outcome, input.RefundAmount, input.RefundReceiver)
		return err
	})
}
