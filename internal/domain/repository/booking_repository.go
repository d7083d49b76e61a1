package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
)

// BookingRepository persists Booking aggregates and their detail records.
type BookingRepository interface {
	// Create inserts the booking. A second booking for the same request
	// loses against the uniqueness invariant and fails with a conflict.
	Create(ctx context.Context, booking *entity.Booking) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	// FindByIDForClient folds the ownership check into the lookup: a
	// booking that exists but belongs to someone else reports not-found.
	FindByIDForClient(ctx context.Context, id, clientID uuid.UUID) (*entity.Booking, error)

	FindByRequestID(ctx context.Context, requestID uuid.UUID) (*entity.Booking, error)

	// Mutate loads the booking and its details under a per-row write lock,
	// applies fn and persists status plus detail records in the same
	// transaction. If fn returns an error nothing is written.
	Mutate(ctx context.Context, id uuid.UUID, fn func(*entity.Booking) error) (*entity.Booking, error)

	// FindCurrentByClient returns the client's active and reworked
	// bookings, newest booked first.
	FindCurrentByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Booking, error)
	// FindCurrentByProvider is the provider-side view of the same set.
	FindCurrentByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Booking, error)

	// FindByClient returns the client's bookings, optionally narrowed to
	// one status, newest booked first.
	FindByClient(ctx context.Context, clientID uuid.UUID, status *valueobject.BookingStatus) ([]*entity.Booking, error)
}
