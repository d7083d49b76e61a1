package request_test

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
	"github.com/mekaniko-ph/mekaniko-backend/internal/usecase/request"
)

type mockRequestRepository struct {
	requests map[uuid.UUID]*entity.Request
}

func newMockRequestRepository() *mockRequestRepository {
	return &mockRequestRepository{requests: make(map[uuid.UUID]*entity.Request)}
}

func (m *mockRequestRepository) Create(ctx context.Context, req *entity.Request) error {
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	if req, ok := m.requests[id]; ok {
		return req, nil
	}
	return nil, apperror.ErrRequestNotFound
}

func (m *mockRequestRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(*entity.Request) error) (*entity.Request, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, apperror.ErrRequestNotFound
	}
	if err := fn(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (m *mockRequestRepository) FindPendingByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Request, error) {
	var result []*entity.Request
	for _, req := range m.requests {
		if req.ClientID == clientID && req.BookingID == nil && !req.Status().IsTerminal() {
			result = append(result, req)
		}
	}
	return result, nil
}

func (m *mockRequestRepository) FindPendingByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Request, error) {
	var result []*entity.Request
	for _, req := range m.requests {
		assigned := req.ProviderID == nil || *req.ProviderID == providerID
		if assigned && req.BookingID == nil && !req.Status().IsTerminal() {
			result = append(result, req)
		}
	}
	return result, nil
}

func (m *mockRequestRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Request, error) {
	var result []*entity.Request
	for _, req := range m.requests {
		if req.ClientID == clientID {
			result = append(result, req)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

type mockAccountDirectory struct {
	providers map[uuid.UUID]bool
}

func newMockAccountDirectory(providers ...uuid.UUID) *mockAccountDirectory {
	m := &mockAccountDirectory{providers: make(map[uuid.UUID]bool)}
	for _, id := range providers {
		m.providers[id] = true
	}
	return m
}

func (m *mockAccountDirectory) AccountExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

func (m *mockAccountDirectory) ProviderExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.providers[id], nil
}

type mockCatalog struct {
	services  map[uuid.UUID]*repository.CatalogService
	addOns    map[uuid.UUID]repository.CatalogAddOn
	offerings map[uuid.UUID][]uuid.UUID
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		services:  make(map[uuid.UUID]*repository.CatalogService),
		addOns:    make(map[uuid.UUID]repository.CatalogAddOn),
		offerings: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *mockCatalog) GetService(ctx context.Context, id uuid.UUID) (*repository.CatalogService, error) {
	if svc, ok := m.services[id]; ok {
		return svc, nil
	}
	return nil, apperror.ErrServiceNotFound
}

func (m *mockCatalog) GetServiceAddOns(ctx context.Context, serviceID uuid.UUID) ([]repository.CatalogAddOn, error) {
	var result []repository.CatalogAddOn
	for _, addOn := range m.addOns {
		if addOn.ServiceID == serviceID {
			result = append(result, addOn)
		}
	}
	return result, nil
}

func (m *mockCatalog) GetAddOnsByIDs(ctx context.Context, ids []uuid.UUID) ([]repository.CatalogAddOn, error) {
	var result []repository.CatalogAddOn
	for _, id := range ids {
		if addOn, ok := m.addOns[id]; ok {
			result = append(result, addOn)
		}
	}
	return result, nil
}

func (m *mockCatalog) ProviderOffersService(ctx context.Context, providerID, serviceID uuid.UUID) (bool, error) {
	for _, id := range m.offerings[providerID] {
		if id == serviceID {
			return true, nil
		}
	}
	return false, nil
}

func clientAuth(id uuid.UUID) valueobject.AuthContext {
	return valueobject.AuthContext{AccountID: id, Roles: []valueobject.Role{valueobject.RoleClient}}
}

func mechanicAuth(id uuid.UUID) valueobject.AuthContext {
	return valueobject.AuthContext{AccountID: id, Roles: []valueobject.Role{valueobject.RoleMechanic}}
}

func testLocationInput() request.LocationInput {
	return request.LocationInput{
		StreetName:       "Mabini St",
		Barangay:         "Poblacion",
		CityMunicipality: "Makati",
	}
}

func TestCreateCustomRequest_Success(t *testing.T) {
	repo := newMockRequestRepository()
	provider := uuid.New()
	uc := request.NewCreateCustomRequestUseCase(repo, newMockAccountDirectory(provider))

	client := uuid.New()
	req, err := uc.Execute(context.Background(), clientAuth(client), request.CreateCustomRequestInput{
		ProviderID:  &provider,
		Description: "aircon blows warm air",
		Location:    testLocationInput(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Kind != valueobject.RequestKindCustom {
		t.Errorf("expected custom, got %s", req.Kind)
	}
	if req.Custom == nil || req.Custom.Status != valueobject.RequestStatusPending {
		t.Error("expected a pending custom detail record")
	}
	if _, ok := repo.requests[req.ID]; !ok {
		t.Error("expected request to be persisted")
	}
}

func TestCreateCustomRequest_RequiresClientRole(t *testing.T) {
	repo := newMockRequestRepository()
	uc := request.NewCreateCustomRequestUseCase(repo, newMockAccountDirectory())

	_, err := uc.Execute(context.Background(), mechanicAuth(uuid.New()), request.CreateCustomRequestInput{
		Description: "aircon blows warm air",
		Location:    testLocationInput(),
	})
	if !apperror.IsForbidden(err) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestCreateCustomRequest_UnknownProvider(t *testing.T) {
	repo := newMockRequestRepository()
	uc := request.NewCreateCustomRequestUseCase(repo, newMockAccountDirectory())

	unknown := uuid.New()
	_, err := uc.Execute(context.Background(), clientAuth(uuid.New()), request.CreateCustomRequestInput{
		ProviderID:  &unknown,
		Description: "aircon blows warm air",
		Location:    testLocationInput(),
	})
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCreateDirectRequest_TotalsAndUnknownAddOnsDropped(t *testing.T) {
	repo := newMockRequestRepository()
	provider := uuid.New()
	catalog := newMockCatalog()

	serviceID := uuid.New()
	catalog.services[serviceID] = &repository.CatalogService{ID: serviceID, Name: "Oil change", Price: 500}
	catalog.offerings[provider] = []uuid.UUID{serviceID}

	addOnID := uuid.New()
	catalog.addOns[addOnID] = repository.CatalogAddOn{ID: addOnID, ServiceID: serviceID, Name: "Oil filter", Price: 150}

	uc := request.NewCreateDirectRequestUseCase(repo, newMockAccountDirectory(provider), catalog)

	out, err := uc.Execute(context.Background(), clientAuth(uuid.New()), request.CreateDirectRequestInput{
		ProviderID: provider,
		ServiceID:  serviceID,
		Location:   testLocationInput(),
		AddOnIDs:   []uuid.UUID{addOnID, uuid.New()},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.TotalPrice != 650 {
		t.Errorf("expected total 650, got %f", out.TotalPrice)
	}
	if len(out.AppliedAddOns) != 1 {
		t.Fatalf("expected the unknown add-on to be dropped, got %d applied", len(out.AppliedAddOns))
	}
	if len(out.Request.Direct.AddOnIDs) != 1 || out.Request.Direct.AddOnIDs[0] != addOnID {
		t.Error("expected only the resolved add-on on the request")
	}
}

func TestCreateDirectRequest_ProviderMustOfferService(t *testing.T) {
	repo := newMockRequestRepository()
	provider := uuid.New()
	catalog := newMockCatalog()

	serviceID := uuid.New()
	catalog.services[serviceID] = &repository.CatalogService{ID: serviceID, Name: "Brake pads", Price: 1200}

	uc := request.NewCreateDirectRequestUseCase(repo, newMockAccountDirectory(provider), catalog)

	_, err := uc.Execute(context.Background(), clientAuth(uuid.New()), request.CreateDirectRequestInput{
		ProviderID: provider,
		ServiceID:  serviceID,
		Location:   testLocationInput(),
	})
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateEmergencyRequest_NoStatus(t *testing.T) {
	repo := newMockRequestRepository()
	uc := request.NewCreateEmergencyRequestUseCase(repo, newMockAccountDirectory())

	req, err := uc.Execute(context.Background(), clientAuth(uuid.New()), request.CreateEmergencyRequestInput{
		Description: "stalled in the middle of EDSA",
		Location:    testLocationInput(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Emergency == nil {
		t.Fatal("expected emergency detail record")
	}
	if req.ProviderID != nil {
		t.Error("expected an open ask with no provider")
	}
}

func TestQuoteCustomRequest_ClaimsUnassigned(t *testing.T) {
	repo := newMockRequestRepository()
	client := uuid.New()

	loc, _ := valueobject.NewServiceLocation("Mabini St", "", "Poblacion", "Makati", "")
	req, err := entity.NewCustomRequest(client, nil, "engine knocking at idle", loc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.requests[req.ID] = req

	mechanic := uuid.New()
	uc := request.NewQuoteCustomRequestUseCase(repo)

	quoted, err := uc.Execute(context.Background(), mechanicAuth(mechanic), request.QuoteCustomRequestInput{
		RequestID: req.ID,
		Price:     800,
		Note:      "likely a worn belt",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quoted.ProviderID == nil || *quoted.ProviderID != mechanic {
		t.Error("expected the quoting provider to claim the request")
	}
	if quoted.Custom.Status != valueobject.RequestStatusQuoted {
		t.Errorf("expected quoted, got %s", quoted.Custom.Status)
	}
	if quoted.Custom.QuotedPrice == nil || *quoted.Custom.QuotedPrice != 800 {
		t.Error("expected the quoted price to be recorded")
	}
}

func TestQuoteCustomRequest_AssignedToSomeoneElse(t *testing.T) {
	repo := newMockRequestRepository()
	assigned := uuid.New()

	loc, _ := valueobject.NewServiceLocation("Mabini St", "", "Poblacion", "Makati", "")
	req, err := entity.NewCustomRequest(uuid.New(), &assigned, "engine knocking at idle", loc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.requests[req.ID] = req

	uc := request.NewQuoteCustomRequestUseCase(repo)

	// Another provider must not even learn the request exists.
	_, err = uc.Execute(context.Background(), mechanicAuth(uuid.New()), request.QuoteCustomRequestInput{
		RequestID: req.ID,
		Price:     700,
	})
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if req.Custom.Status != valueobject.RequestStatusPending {
		t.Errorf("request must be untouched, got %s", req.Custom.Status)
	}
}

func TestQuoteCustomRequest_RequiresProviderRole(t *testing.T) {
	repo := newMockRequestRepository()
	uc := request.NewQuoteCustomRequestUseCase(repo)

	_, err := uc.Execute(context.Background(), clientAuth(uuid.New()), request.QuoteCustomRequestInput{
		RequestID: uuid.New(),
		Price:     500,
	})
	if !apperror.IsForbidden(err) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestRespondToRequest_CustomAnsweredByClient(t *testing.T) {
	repo := newMockRequestRepository()
	client := uuid.New()
	mechanic := uuid.New()

	loc, _ := valueobject.NewServiceLocation("Mabini St", "", "Poblacion", "Makati", "")
	req, err := entity.NewCustomRequest(client, &mechanic, "engine knocking at idle", loc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := req.Quote(800, ""); err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	repo.requests[req.ID] = req

	uc := request.NewRespondToRequestUseCase(repo)

	// The assigned provider answering their own quote is hidden not-found.
	_, err = uc.Execute(context.Background(), mechanicAuth(mechanic), request.RespondToRequestInput{RequestID: req.ID, Accept: true})
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	accepted, err := uc.Execute(context.Background(), clientAuth(client), request.RespondToRequestInput{RequestID: req.ID, Accept: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accepted.Custom.Status != valueobject.RequestStatusAccepted {
		t.Errorf("expected accepted, got %s", accepted.Custom.Status)
	}
}

func TestRespondToRequest_DirectAnsweredByProvider(t *testing.T) {
	repo := newMockRequestRepository()
	client := uuid.New()
	mechanic := uuid.New()

	loc, _ := valueobject.NewServiceLocation("Mabini St", "", "Poblacion", "Makati", "")
	req, err := entity.NewDirectRequest(client, mechanic, uuid.New(), loc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.requests[req.ID] = req

	uc := request.NewRespondToRequestUseCase(repo)

	_, err = uc.Execute(context.Background(), clientAuth(client), request.RespondToRequestInput{RequestID: req.ID, Accept: false})
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	rejected, err := uc.Execute(context.Background(), mechanicAuth(mechanic), request.RespondToRequestInput{RequestID: req.ID, Accept: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected.Direct.Status != valueobject.RequestStatusRejected {
		t.Errorf("expected rejected, got %s", rejected.Direct.Status)
	}
}

func TestRespondToRequest_Emergency(t *testing.T) {
	repo := newMockRequestRepository()
	client := uuid.New()

	loc, _ := valueobject.NewServiceLocation("Mabini St", "", "Poblacion", "Makati", "")
	req, err := entity.NewEmergencyRequest(client, nil, "stalled in the middle of EDSA", loc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.requests[req.ID] = req

	uc := request.NewRespondToRequestUseCase(repo)

	_, err = uc.Execute(context.Background(), clientAuth(client), request.RespondToRequestInput{RequestID: req.ID, Accept: true})
	if !apperror.IsInvalidTransition(err) {
		t.Errorf("expected invalid transition, got %v", err)
	}
}
