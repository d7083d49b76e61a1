package feed

import (
	"context"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

// HomeFeedOutput is the home screen payload: what is being worked on and
// what is still waiting for an answer.
type HomeFeedOutput struct {
	CurrentBookings []*entity.Booking
	PendingRequests []*entity.Request
}

// HomeFeedUseCase assembles current work (active and reworked bookings,
// newest first) plus pending requests, filtered by the role the caller is
// acting as: clients see their own asks, providers the ones assigned to
// them.
type HomeFeedUseCase struct {
	bookingRepo repository.BookingRepository
	requestRepo repository.RequestRepository
}

func NewHomeFeedUseCase(bookingRepo repository.BookingRepository, requestRepo repository.RequestRepository) *HomeFeedUseCase {
	return &HomeFeedUseCase{bookingRepo: bookingRepo, requestRepo: requestRepo}
}

func (uc *HomeFeedUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, actAs valueobject.Role) (*HomeFeedOutput, error) {
	if !actAs.IsValid() || !auth.HasRole(actAs) {
		return nil, apperror.ErrForbidden
	}

	var (
		bookings []*entity.Booking
		requests []*entity.Request
		err      error
	)

	switch {
	case actAs == valueobject.RoleClient:
		bookings, err = uc.bookingRepo.FindCurrentByClient(ctx, auth.AccountID)
		if err != nil {
			return nil, err
		}
		requests, err = uc.requestRepo.FindPendingByClient(ctx, auth.AccountID)
	case actAs.IsProvider():
		bookings, err = uc.bookingRepo.FindCurrentByProvider(ctx, auth.AccountID)
		if err != nil {
			return nil, err
		}
		requests, err = uc.requestRepo.FindPendingByProvider(ctx, auth.AccountID)
	default:
		return nil, apperror.ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	for _, b := range bookings {
		if err := b.CheckDetail(); err != nil {
			return nil, err
		}
	}

	return &HomeFeedOutput{
		CurrentBookings: bookings,
		PendingRequests: filterPending(requests, actAs),
	}, nil
}

// filterPending applies the per-kind visibility rules: clients still see
// quoted custom requests (they have to answer them), providers only the
// ones awaiting a quote. Direct requests show while pending; emergency
// requests show until booked.
func filterPending(requests []*entity.Request, actAs valueobject.Role) []*entity.Request {
	filtered := make([]*entity.Request, 0, len(requests))
	for _, req := range requests {
		switch req.Kind {
		case valueobject.RequestKindCustom:
			if req.Custom == nil {
				continue
			}
			switch req.Custom.Status {
			case valueobject.RequestStatusPending:
				filtered = append(filtered, req)
			case valueobject.RequestStatusQuoted:
				if actAs == valueobject.RoleClient {
					filtered = append(filtered, req)
				}
			}
		case valueobject.RequestKindDirect:
			if req.Direct != nil && req.Direct.Status == valueobject.RequestStatusPending {
				filtered = append(filtered, req)
			}
		case valueobject.RequestKindEmergency:
			filtered = append(filtered, req)
		}
	}
	return filtered
}
