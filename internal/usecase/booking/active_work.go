package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
)

type StartWorkInput struct {
	BookingID      uuid.UUID
	BeforePhotoURL *string
}

type StartWorkUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewStartWorkUseCase(bookingRepo repository.BookingRepository) *StartWorkUseCase {
	return &StartWorkUseCase{bookingRepo: bookingRepo}
}

func (uc *StartWorkUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input StartWorkInput) (*entity.Booking, error) {
	return uc.bookingRepo.Mutate(ctx, input.BookingID, func(b *entity.Booking) error {
		if err := requireProvider(b, auth.AccountID); err != nil {
			return err
		}
		_, err := b.StartWork(input.BeforePhotoURL)
		return err
	})
}

type MarkJobDoneInput struct {
	BookingID     uuid.UUID
	AfterPhotoURL *string
}

// MarkJobDoneUseCase records that the work is physically finished without
// closing the booking; completion stays a separate explicit step.
type MarkJobDoneUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewMarkJobDoneUseCase(bookingRepo repository.BookingRepository) *MarkJobDoneUseCase {
	return &MarkJobDoneUseCase{bookingRepo: bookingRepo}
}

func (uc *MarkJobDoneUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input MarkJobDoneInput) (*entity.Booking, error) {
	return uc.bookingRepo.Mutate(ctx, input.BookingID, func(b *entity.Booking) error {
		if err := requireProvider(b, auth.AccountID); err != nil {
			return err
		}
		_, err := b.MarkJobDone(input.AfterPhotoURL)
		return err
	})
}

type RescheduleBookingInput struct {
	BookingID uuid.UUID
	Reason    string
	NewDate   time.Time
	NewTime   string
}

type RescheduleBookingUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewRescheduleBookingUseCase(bookingRepo repository.BookingRepository) *RescheduleBookingUseCase {
	return &RescheduleBookingUseCase{bookingRepo: bookingRepo}
}

func (uc *RescheduleBookingUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input RescheduleBookingInput) (*entity.Booking, error) {
	return uc.bookingRepo.Mutate(ctx, input.BookingID, func(b *entity.Booking) error {
		if err := requireParticipant(b, auth.AccountID); err != nil {
			return err
		}
		_, err := b.Reschedule(input.Reason, input.NewDate, input.NewTime)
		return err
	})
}
