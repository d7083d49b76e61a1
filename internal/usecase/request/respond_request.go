package request

import (
	"context"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

type RespondToRequestInput struct {
	RequestID uuid.UUID
	Accept    bool
}

// RespondToRequestUseCase moves a request into its accepted or rejected
// terminal state. A custom request is answered by its client (accepting or
// declining the quote); a direct request is answered by the assigned
// provider. Acceptance is what the booking lifecycle waits for; no booking
// is created here.
type RespondToRequestUseCase struct {
	requestRepo repository.RequestRepository
}

func NewRespondToRequestUseCase(requestRepo repository.RequestRepository) *RespondToRequestUseCase {
	return &RespondToRequestUseCase{requestRepo: requestRepo}
}

func (uc *RespondToRequestUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input RespondToRequestInput) (*entity.Request, error) {
	return uc.requestRepo.Mutate(ctx, input.RequestID, func(req *entity.Request) error {
		switch req.Kind {
		case valueobject.RequestKindCustom:
			if !req.IsOwnedBy(auth.AccountID) {
				return apperror.ErrRequestNotFound
			}
		case valueobject.RequestKindDirect:
			if !req.IsAssignedTo(auth.AccountID) {
				return apperror.ErrRequestNotFound
			}
		default:
			return apperror.New(apperror.ErrCodeInvalidTransition, "emergency requests are accepted by booking them")
		}

		if input.Accept {
			return req.Accept()
		}
		return req.Reject()
	})
}
