package feed

import (
	"context"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
)

type ListClientRequestsOutput struct {
	Custom    []*entity.Request
	Direct    []*entity.Request
	Emergency []*entity.Request
	Total     int
}

// ListClientRequestsUseCase lists every request the client has made,
// grouped by kind, with the booking id attached where one exists.
type ListClientRequestsUseCase struct {
	requestRepo repository.RequestRepository
}

func NewListClientRequestsUseCase(requestRepo repository.RequestRepository) *ListClientRequestsUseCase {
	return &ListClientRequestsUseCase{requestRepo: requestRepo}
}

func (uc *ListClientRequestsUseCase) Execute(ctx context.Context, auth valueobject.AuthContext) (*ListClientRequestsOutput, error) {
	requests, err := uc.requestRepo.FindByClientID(ctx, auth.AccountID)
	if err != nil {
		return nil, err
	}

	out := &ListClientRequestsOutput{Total: len(requests)}
	for _, req := range requests {
		switch req.Kind {
		case valueobject.RequestKindCustom:
			out.Custom = append(out.Custom, req)
		case valueobject.RequestKindDirect:
			out.Direct = append(out.Direct, req)
		case valueobject.RequestKindEmergency:
			out.Emergency = append(out.Emergency, req)
		}
	}
	return out, nil
}
