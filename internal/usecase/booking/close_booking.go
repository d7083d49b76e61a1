package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
)

type CompleteBookingInput struct {
	BookingID   uuid.UUID
	TotalAmount float64
	Notes       string
}

type CompleteBookingUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewCompleteBookingUseCase(bookingRepo repository.BookingRepository) *CompleteBookingUseCase {
	return &CompleteBookingUseCase{bookingRepo: bookingRepo}
}

func (uc *CompleteBookingUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input CompleteBookingInput) (*entity.Booking, error) {
	return uc.bookingRepo.Mutate(ctx, input.BookingID, func(b *entity.Booking) error {
		if err := requireParticipant(b, auth.AccountID); err != nil {
			return err
		}
		_, err := b.CompleteWork(input.TotalAmount, input.Notes)
		return err
	})
}

type CancelBookingInput struct {
	BookingID uuid.UUID
	Reason    string
}

type CancelBookingUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewCancelBookingUseCase(bookingRepo repository.BookingRepository) *CancelBookingUseCase {
	return &CancelBookingUseCase{bookingRepo: bookingRepo}
}

func (uc *CancelBookingUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input CancelBookingInput) (*entity.Booking, error) {
	return uc.bookingRepo.Mutate(ctx, input.BookingID, func(b *entity.Booking) error {
		if err := requireParticipant(b, auth.AccountID); err != nil {
			return err
		}
		_, err := b.CancelWork(auth.AccountID, input.Reason)
		return err
	})
}
