package request

import (
	"context"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

type QuoteCustomRequestInput struct {
	RequestID uuid.UUID
	Price     float64
	Note      string
}

type QuoteCustomRequestUseCase struct {
	requestRepo repository.RequestRepository
}

func NewQuoteCustomRequestUseCase(requestRepo repository.RequestRepository) *QuoteCustomRequestUseCase {
	return &QuoteCustomRequestUseCase{requestRepo: requestRepo}
}

// Execute sets the provider's price on a pending custom request. A quote
// on an unassigned request claims it for the quoting provider.
func (uc *QuoteCustomRequestUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input QuoteCustomRequestInput) (*entity.Request, error) {
	if !auth.IsProvider() {
		return nil, apperror.ErrForbidden
	}

	return uc.requestRepo.Mutate(ctx, input.RequestID, func(req *entity.Request) error {
		if req.ProviderID != nil && *req.ProviderID != auth.AccountID {
			return apperror.ErrRequestNotFound
		}

		if err := req.Quote(input.Price, input.Note); err != nil {
			return err
		}

		if req.ProviderID == nil {
			provider := auth.AccountID
			req.ProviderID = &provider
		}
		return nil
	})
}
