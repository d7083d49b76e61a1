package feed

import (
	"context"

	"github.com/google/uuid"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

type StatusGroup struct {
	Status   valueobject.BookingStatus
	Count    int
	Bookings []*entity.Booking
}

type ListBookingsOutput struct {
	Groups   []StatusGroup
	Filtered []*entity.Booking
	Total    int
}

// ListBookingsUseCase returns a client's bookings either grouped by status
// with per-group counts, or filtered to a single status when one is given.
type ListBookingsUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewListBookingsUseCase(bookingRepo repository.BookingRepository) *ListBookingsUseCase {
	return &ListBookingsUseCase{bookingRepo: bookingRepo}
}

func (uc *ListBookingsUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, statusFilter string) (*ListBookingsOutput, error) {
	if statusFilter != "" {
		status, err := valueobject.NewBookingStatus(statusFilter)
		if err != nil {
			return nil, err
		}
		bookings, err := uc.bookingRepo.FindByClient(ctx, auth.AccountID, &status)
		if err != nil {
			return nil, err
		}
		return &ListBookingsOutput{Filtered: bookings, Total: len(bookings)}, nil
	}

	bookings, err := uc.bookingRepo.FindByClient(ctx, auth.AccountID, nil)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[valueobject.BookingStatus][]*entity.Booking)
	for _, b := range bookings {
		byStatus[b.Status] = append(byStatus[b.Status], b)
	}

	groups := make([]StatusGroup, 0, len(valueobject.AllBookingStatuses))
	for _, status := range valueobject.AllBookingStatuses {
		groups = append(groups, StatusGroup{
			Status:   status,
			Count:    len(byStatus[status]),
			Bookings: byStatus[status],
		})
	}

	return &ListBookingsOutput{Groups: groups, Total: len(bookings)}, nil
}

// BookingDetailUseCase loads one booking for its owning client, including
// the request it was booked from and the detail row matching its status.
type BookingDetailUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewBookingDetailUseCase(bookingRepo repository.BookingRepository) *BookingDetailUseCase {
	return &BookingDetailUseCase{bookingRepo: bookingRepo}
}

func (uc *BookingDetailUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := uc.bookingRepo.FindByIDForClient(ctx, bookingID, auth.AccountID)
	if err != nil {
		return nil, err
	}
	if err := booking.CheckDetail(); err != nil {
		return nil, err
	}
	if booking.Request == nil {
		return nil, apperror.New(apperror.ErrCodeInternalConsistency, "booking has no request attached")
	}
	return booking, nil
}
