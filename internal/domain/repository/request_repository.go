package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
)

// RequestRepository persists Request aggregates together with their single
// kind-detail record.
type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error)

	// Mutate loads the request under a per-row write lock, applies fn and
	// persists the result in the same transaction. If fn returns an error
	// nothing is written. This is how every pre-booking transition keeps
	// its check-then-act span serialized.
	Mutate(ctx context.Context, id uuid.UUID, fn func(*entity.Request) error) (*entity.Request, error)

	// FindPendingByClient returns the client's requests that have no
	// booking yet, newest first.
	FindPendingByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Request, error)
	// FindPendingByProvider is the provider-side view of the same set,
	// restricted to requests assigned to that provider.
	FindPendingByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Request, error)
	// FindByClientID returns every request of the client, newest first,
	// with BookingID populated where one exists.
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Request, error)
}
