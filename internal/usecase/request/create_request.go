package request

import (
	"context"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

type LocationInput struct {
	StreetName         string
	SubdivisionVillage string
	Barangay           string
	CityMunicipality   string
	Landmark           string
}

func (l LocationInput) toValueObject() (valueobject.ServiceLocation, error) {
	return valueobject.NewServiceLocation(l.StreetName, l.SubdivisionVillage, l.Barangay, l.CityMunicipality, l.Landmark)
}

type CreateCustomRequestInput struct {
	ProviderID      *uuid.UUID
	Description     string
	Location        LocationInput
	ConcernPhotoURL *string
}

type CreateCustomRequestUseCase struct {
	requestRepo repository.RequestRepository
	accounts    repository.AccountDirectory
}

func NewCreateCustomRequestUseCase(requestRepo repository.RequestRepository, accounts repository.AccountDirectory) *CreateCustomRequestUseCase {
	return &CreateCustomRequestUseCase{requestRepo: requestRepo, accounts: accounts}
}

func (uc *CreateCustomRequestUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input CreateCustomRequestInput) (*entity.Request, error) {
	if !auth.HasRole(valueobject.RoleClient) {
		return nil, apperror.ErrForbidden
	}

	if input.ProviderID != nil {
		if err := uc.resolveProvider(ctx, *input.ProviderID); err != nil {
			return nil, err
		}
	}

	location, err := input.Location.toValueObject()
	if err != nil {
		return nil, err
	}

	req, err := entity.NewCustomRequest(auth.AccountID, input.ProviderID, input.Description, location, input.ConcernPhotoURL)
	if err != nil {
		return nil, err
	}

	if err := uc.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (uc *CreateCustomRequestUseCase) resolveProvider(ctx context.Context, providerID uuid.UUID) error {
	exists, err := uc.accounts.ProviderExists(ctx, providerID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "could not resolve provider")
	}
	if !exists {
		return apperror.ErrProviderNotFound
	}
	return nil
}

type CreateDirectRequestInput struct {
	ProviderID uuid.UUID
	ServiceID  uuid.UUID
	Location   LocationInput
	AddOnIDs   []uuid.UUID
}

// CreateDirectRequestOutput carries the created request together with the
// price computed from the service and the add-ons that resolved.
type CreateDirectRequestOutput struct {
	Request       *entity.Request
	ServicePrice  float64
	AppliedAddOns []repository.CatalogAddOn
	TotalPrice    float64
}

type CreateDirectRequestUseCase struct {
	requestRepo repository.RequestRepository
	accounts    repository.AccountDirectory
	catalog     repository.Catalog
}

func NewCreateDirectRequestUseCase(requestRepo repository.RequestRepository, accounts repository.AccountDirectory, catalog repository.Catalog) *CreateDirectRequestUseCase {
	return &CreateDirectRequestUseCase{requestRepo: requestRepo, accounts: accounts, catalog: catalog}
}

func (uc *CreateDirectRequestUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input CreateDirectRequestInput) (*CreateDirectRequestOutput, error) {
	if !auth.HasRole(valueobject.RoleClient) {
		return nil, apperror.ErrForbidden
	}

	exists, err := uc.accounts.ProviderExists(ctx, input.ProviderID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "could not resolve provider")
	}
	if !exists {
		return nil, apperror.ErrProviderNotFound
	}

	service, err := uc.catalog.GetService(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}

	offers, err := uc.catalog.ProviderOffersService(ctx, input.ProviderID, input.ServiceID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "could not check provider services")
	}
	if !offers {
		return nil, apperror.New(apperror.ErrCodeValidation, "provider does not offer this service")
	}

	// Unknown add-on ids are dropped here, not reported: request creation
	// stays resilient to stale client-side catalogs.
	addOns, err := uc.catalog.GetAddOnsByIDs(ctx, input.AddOnIDs)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "could not resolve add-ons")
	}

	location, err := input.Location.toValueObject()
	if err != nil {
		return nil, err
	}

	addOnIDs := make([]uuid.UUID, 0, len(addOns))
	total := service.Price
	for _, addOn := range addOns {
		addOnIDs = append(addOnIDs, addOn.ID)
		total += addOn.Price
	}

	req, err := entity.NewDirectRequest(auth.AccountID, input.ProviderID, input.ServiceID, location, addOnIDs)
	if err != nil {
		return nil, err
	}

	if err := uc.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	return &CreateDirectRequestOutput{
		Request:       req,
		ServicePrice:  service.Price,
		AppliedAddOns: addOns,
		TotalPrice:    total,
	}, nil
}

type CreateEmergencyRequestInput struct {
	ProviderID      *uuid.UUID
	Description     string
	Location        LocationInput
	ConcernPhotoURL *string
}

type CreateEmergencyRequestUseCase struct {
	requestRepo repository.RequestRepository
	accounts    repository.AccountDirectory
}

func NewCreateEmergencyRequestUseCase(requestRepo repository.RequestRepository, accounts repository.AccountDirectory) *CreateEmergencyRequestUseCase {
	return &CreateEmergencyRequestUseCase{requestRepo: requestRepo, accounts: accounts}
}

func (uc *CreateEmergencyRequestUseCase) Execute(ctx context.Context, auth valueobject.AuthContext, input CreateEmergencyRequestInput) (*entity.Request, error) {
	if !auth.HasRole(valueobject.RoleClient) {
		return nil, apperror.ErrForbidden
	}

	if input.ProviderID != nil {
		exists, err := uc.accounts.ProviderExists(ctx, *input.ProviderID)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "could not resolve provider")
		}
		if !exists {
			return nil, apperror.ErrProviderNotFound
		}
	}

	location, err := input.Location.toValueObject()
	if err != nil {
		return nil, err
	}

	req, err := entity.NewEmergencyRequest(auth.AccountID, input.ProviderID, input.Description, location, input.ConcernPhotoURL)
	if err != nil {
		return nil, err
	}

	if err := uc.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}
