package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

type CreateBookingInput struct {
	RequestID uuid.UUID
	// FeeAmount is optional: when nil it is derived from the request (the
	// quoted price for custom, the computed service total for direct).
	// Emergency requests have no price on record, so the fee is required.
	FeeAmount *float64
}

type CreateBookingUseCase struct {
	bookingRepo repository.BookingRepository
	requestRepo repository.RequestRepository
	catalog     repository.Catalog
}

func NewCreateBookingUseCase(bookingRepo repository.BookingRepository, requestRepo repository.RequestRepository, catalog repository.Catalog) *CreateBookingUseCase {
	return &CreateBookingUseCase{bookingRepo: bookingRepo, requestRepo: requestRepo, catalog: catalog}
}

func (uc *CreateBookingUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input CreateBookingInput) (*entity.Booking, error) {
	req, err := uc.requestRepo.FindByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	if !req.IsOwnedBy(auth.AccountID) && !req.IsAssignedTo(auth.AccountID) {
		return nil, apperror.ErrRequestNotFound
	}

	fee, err := uc.resolveFee(ctx, req, input.FeeAmount)
	if err != nil {
		return nil, err
	}

	booking, err := entity.NewBooking(req, fee)
	if err != nil {
		return nil, err
	}

	// The unique index on request_id decides the race between two
	// concurrent creates; the loser surfaces as a conflict.
	if err := uc.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}
	booking.Request = req
	return booking, nil
}

func (uc *CreateBookingUseCase) resolveFee(ctx context.Context, req *entity.Request, explicit *float64) (float64, error) {
	if explicit != nil {
		if _, err := valueobject.NewMoney(*explicit, ""); err != nil {
			return 0, err
		}
		return *explicit, nil
	}

	switch req.Kind {
	case valueobject.RequestKindCustom:
		if req.Custom == nil || req.Custom.QuotedPrice == nil {
			return 0, apperror.New(apperror.ErrCodeValidation, "request has no quoted price")
		}
		return *req.Custom.QuotedPrice, nil
	case valueobject.RequestKindDirect:
		if req.Direct == nil {
			return 0, apperror.New(apperror.ErrCodeInternalConsistency, "direct request has no detail record")
		}
		service, err := uc.catalog.GetService(ctx, req.Direct.ServiceID)
		if err != nil {
			return 0, err
		}
		addOns, err := uc.catalog.GetAddOnsByIDs(ctx, req.Direct.AddOnIDs)
		if err != nil {
			return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "could not resolve add-ons")
		}
		total := service.Price
		for _, addOn := range addOns {
			total += addOn.Price
		}
		return total, nil
	default:
		return 0, apperror.New(apperror.ErrCodeValidation, "fee amount is required for emergency bookings")
	}
}
