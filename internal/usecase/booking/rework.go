package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
)

type FileReworkInput struct {
	BookingID uuid.UUID
	Reason    string
}

type FileReworkUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewFileReworkUseCase(bookingRepo repository.BookingRepository) *FileReworkUseCase {
	return &FileReworkUseCase{bookingRepo: bookingRepo}
}

func (uc *FileReworkUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input FileReworkInput) (*entity.Booking, error) {
	return uc.bookingRepo.Mutate(ctx, input.BookingID, func(b *entity.Booking) error {
		if err := requireParticipant(b, auth.AccountID); err != nil {
			return err
		}
		_, err := b.FileRework(auth.AccountID, input.Reason)
		return err
	})
}

type ResolveReworkInput struct {
	BookingID uuid.UUID
	// BackToActive returns the booking to active for more work; false
	// accepts the previous completion as-is.
	BackToActive bool
}

type ResolveReworkUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewResolveReworkUseCase(bookingRepo repository.BookingRepository) *ResolveReworkUseCase {
	return &ResolveReworkUseCase{bookingRepo: bookingRepo}
}

func (uc *ResolveReworkUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input ResolveReworkInput) (*entity.Booking, error) {
	return uc.bookingRepo.Mutate(ctx, input.BookingID, func(b *entity.Booking) error {
		if err := requireProvider(b, auth.AccountID); err != nil {
			return err
		}
		_, err := b.ResolveRework(input.BackToActive)
		return err
	})
}
