package booking_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
	"github.com/mekaniko-ph/mekaniko-backend/internal/usecase/booking"
)

type mockBookingRepository struct {
	bookings  map[uuid.UUID]*entity.Booking
	byRequest map[uuid.UUID]uuid.UUID
	requests  map[uuid.UUID]*entity.Request
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{
		bookings:  make(map[uuid.UUID]*entity.Booking),
		byRequest: make(map[uuid.UUID]uuid.UUID),
		requests:  make(map[uuid.UUID]*entity.Request),
	}
}

func (m *mockBookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	if _, exists := m.byRequest[b.RequestID]; exists {
		return apperror.ErrBookingExists
	}
	m.bookings[b.ID] = b
	m.byRequest[b.RequestID] = b.ID
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		return m.withRequest(b), nil
	}
	return nil, apperror.ErrBookingNotFound
}

func (m *mockBookingRepository) FindByIDForClient(ctx context.Context, id, clientID uuid.UUID) (*entity.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, apperror.ErrBookingNotFound
	}
	b = m.withRequest(b)
	if b.Request == nil || !b.Request.IsOwnedBy(clientID) {
		return nil, apperror.ErrBookingNotFound
	}
	return b, nil
}

func (m *mockBookingRepository) FindByRequestID(ctx context.Context, requestID uuid.UUID) (*entity.Booking, error) {
	if id, ok := m.byRequest[requestID]; ok {
		return m.withRequest(m.bookings[id]), nil
	}
	return nil, apperror.ErrBookingNotFound
}

func (m *mockBookingRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(*entity.Booking) error) (*entity.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, apperror.ErrBookingNotFound
	}
	b = m.withRequest(b)
	if err := fn(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (m *mockBookingRepository) FindCurrentByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Booking, error) {
	return m.current(func(req *entity.Request) bool { return req.IsOwnedBy(clientID) }), nil
}

func (m *mockBookingRepository) FindCurrentByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Booking, error) {
	return m.current(func(req *entity.Request) bool { return req.IsAssignedTo(providerID) }), nil
}

func (m *mockBookingRepository) FindByClient(ctx context.Context, clientID uuid.UUID, status *valueobject.BookingStatus) ([]*entity.Booking, error) {
	var result []*entity.Booking
	for _, b := range m.bookings {
		b = m.withRequest(b)
		if b.Request == nil || !b.Request.IsOwnedBy(clientID) {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (m *mockBookingRepository) current(owns func(*entity.Request) bool) []*entity.Booking {
	var result []*entity.Booking
	for _, b := range m.bookings {
		b = m.withRequest(b)
		if b.Request == nil || !owns(b.Request) {
			continue
		}
		if b.Status == valueobject.BookingStatusActive || b.Status == valueobject.BookingStatusReworked {
			result = append(result, b)
		}
	}
	return result
}

func (m *mockBookingRepository) withRequest(b *entity.Booking) *entity.Booking {
	if b.Request == nil {
		b.Request = m.requests[b.RequestID]
	}
	return b
}

type mockRequestFinder struct {
	requests map[uuid.UUID]*entity.Request
}

func (m *mockRequestFinder) Create(ctx context.Context, req *entity.Request) error {
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestFinder) FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	if req, ok := m.requests[id]; ok {
		return req, nil
	}
	return nil, apperror.ErrRequestNotFound
}

func (m *mockRequestFinder) Mutate(ctx context.Context, id uuid.UUID, fn func(*entity.Request) error) (*entity.Request, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, apperror.ErrRequestNotFound
	}
	if err := fn(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (m *mockRequestFinder) FindPendingByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Request, error) {
	return nil, nil
}

func (m *mockRequestFinder) FindPendingByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Request, error) {
	return nil, nil
}

func (m *mockRequestFinder) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Request, error) {
	return nil, nil
}

type mockCatalog struct {
	services map[uuid.UUID]*repository.CatalogService
	addOns   map[uuid.UUID]repository.CatalogAddOn
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		services: make(map[uuid.UUID]*repository.CatalogService),
		addOns:   make(map[uuid.UUID]repository.CatalogAddOn),
	}
}

func (m *mockCatalog) GetService(ctx context.Context, id uuid.UUID) (*repository.CatalogService, error) {
	if svc, ok := m.services[id]; ok {
		return svc, nil
	}
	return nil, apperror.ErrServiceNotFound
}

func (m *mockCatalog) GetServiceAddOns(ctx context.Context, serviceID uuid.UUID) ([]repository.CatalogAddOn, error) {
	return nil, nil
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
	return true, nil
}

type fixture struct {
	bookingRepo *mockBookingRepository
	requestRepo *mockRequestFinder
	catalog     *mockCatalog
	client      uuid.UUID
	mechanic    uuid.UUID
}

func newFixture() *fixture {
	bookingRepo := newMockBookingRepository()
	return &fixture{
		bookingRepo: bookingRepo,
		requestRepo: &mockRequestFinder{requests: bookingRepo.requests},
		catalog:     newMockCatalog(),
		client:      uuid.New(),
		mechanic:    uuid.New(),
	}
}

func (f *fixture) clientAuth() valueobject.AuthContext {
	return valueobject.AuthContext{AccountID: f.client, Roles: []valueobject.Role{valueobject.RoleClient}}
}

func (f *fixture) mechanicAuth() valueobject.AuthContext {
	return valueobject.AuthContext{AccountID: f.mechanic, Roles: []valueobject.Role{valueobject.RoleMechanic}}
}

func (f *fixture) acceptedCustomRequest(t *testing.T, price float64) *entity.Request {
	t.Helper()
	loc, _ := valueobject.NewServiceLocation("Mabini St", "", "Poblacion", "Makati", "")
	req, err := entity.NewCustomRequest(f.client, &f.mechanic, "engine will not start", loc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := req.Quote(price, ""); err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if err := req.Accept(); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	f.requestRepo.requests[req.ID] = req
	return req
}

func (f *fixture) activeBooking(t *testing.T) *entity.Booking {
	t.Helper()
	req := f.acceptedCustomRequest(t, 800)
	uc := booking.NewCreateBookingUseCase(f.bookingRepo, f.requestRepo, f.catalog)
	b, err := uc.Execute(context.Background(), f.clientAuth(), booking.CreateBookingInput{RequestID: req.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func TestCreateBooking_FeeDerivedFromQuote(t *testing.T) {
	f := newFixture()
	req := f.acceptedCustomRequest(t, 800)

	uc := booking.NewCreateBookingUseCase(f.bookingRepo, f.requestRepo, f.catalog)
	b, err := uc.Execute(context.Background(), f.clientAuth(), booking.CreateBookingInput{RequestID: req.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.AmountFee != 800 {
		t.Errorf("expected fee 800, got %f", b.AmountFee)
	}
	if b.Status != valueobject.BookingStatusActive {
		t.Errorf("expected active, got %s", b.Status)
	}
}

func TestCreateBooking_FeeDerivedFromDirectTotal(t *testing.T) {
	f := newFixture()

	serviceID := uuid.New()
	f.catalog.services[serviceID] = &repository.CatalogService{ID: serviceID, Price: 500}
	addOnID := uuid.New()
	f.catalog.addOns[addOnID] = repository.CatalogAddOn{ID: addOnID, ServiceID: serviceID, Price: 150}

	loc, _ := valueobject.NewServiceLocation("Mabini St", "", "Poblacion", "Makati", "")
	req, err := entity.NewDirectRequest(f.client, f.mechanic, serviceID, loc, []uuid.UUID{addOnID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := req.Accept(); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	f.requestRepo.requests[req.ID] = req

	uc := booking.NewCreateBookingUseCase(f.bookingRepo, f.requestRepo, f.catalog)
	b, err := uc.Execute(context.Background(), f.mechanicAuth(), booking.CreateBookingInput{RequestID: req.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.AmountFee != 650 {
		t.Errorf("expected fee 650, got %f", b.AmountFee)
	}
}

func TestCreateBooking_EmergencyRequiresFee(t *testing.T) {
	f := newFixture()

	loc, _ := valueobject.NewServiceLocation("Mabini St", "", "Poblacion", "Makati", "")
	req, err := entity.NewEmergencyRequest(f.client, &f.mechanic, "stalled on the highway", loc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.requestRepo.requests[req.ID] = req

	uc := booking.NewCreateBookingUseCase(f.bookingRepo, f.requestRepo, f.catalog)

	_, err = uc.Execute(context.Background(), f.mechanicAuth(), booking.CreateBookingInput{RequestID: req.ID})
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error without a fee, got %v", err)
	}

	fee := 1500.0
	b, err := uc.Execute(context.Background(), f.mechanicAuth(), booking.CreateBookingInput{RequestID: req.ID, FeeAmount: &fee})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.AmountFee != 1500 {
		t.Errorf("expected fee 1500, got %f", b.AmountFee)
	}
}

func TestCreateBooking_SecondCreateConflicts(t *testing.T) {
	f := newFixture()
	req := f.acceptedCustomRequest(t, 800)

	uc := booking.NewCreateBookingUseCase(f.bookingRepo, f.requestRepo, f.catalog)
	if _, err := uc.Execute(context.Background(), f.clientAuth(), booking.CreateBookingInput{RequestID: req.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := uc.Execute(context.Background(), f.clientAuth(), booking.CreateBookingInput{RequestID: req.ID})
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestCreateBooking_NonParticipantSeesNotFound(t *testing.T) {
	f := newFixture()
	req := f.acceptedCustomRequest(t, 800)

	uc := booking.NewCreateBookingUseCase(f.bookingRepo, f.requestRepo, f.catalog)
	stranger := valueobject.AuthContext{AccountID: uuid.New(), Roles: []valueobject.Role{valueobject.RoleClient}}

	_, err := uc.Execute(context.Background(), stranger, booking.CreateBookingInput{RequestID: req.ID})
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestStartWork_ProviderOnly(t *testing.T) {
	f := newFixture()
	b := f.activeBooking(t)

	uc := booking.NewStartWorkUseCase(f.bookingRepo)

	_, err := uc.Execute(context.Background(), f.clientAuth(), booking.StartWorkInput{BookingID: b.ID})
	if !apperror.IsForbidden(err) {
		t.Errorf("expected forbidden for the client, got %v", err)
	}

	stranger := valueobject.AuthContext{AccountID: uuid.New(), Roles: []valueobject.Role{valueobject.RoleMechanic}}
	_, err = uc.Execute(context.Background(), stranger, booking.StartWorkInput{BookingID: b.ID})
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found for a stranger, got %v", err)
	}

	started, err := uc.Execute(context.Background(), f.mechanicAuth(), booking.StartWorkInput{BookingID: b.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started.Active == nil {
		t.Error("expected active detail record")
	}
}

func TestMarkJobDone_KeepsBookingActive(t *testing.T) {
	f := newFixture()
	b := f.activeBooking(t)

	start := booking.NewStartWorkUseCase(f.bookingRepo)
	if _, err := start.Execute(context.Background(), f.mechanicAuth(), booking.StartWorkInput{BookingID: b.ID}); err != nil {
		t.Fatalf("start work failed: %v", err)
	}

	done := booking.NewMarkJobDoneUseCase(f.bookingRepo)
	photo := "/media/after.jpg"
	marked, err := done.Execute(context.Background(), f.mechanicAuth(), booking.MarkJobDoneInput{BookingID: b.ID, AfterPhotoURL: &photo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !marked.Active.IsJobDone {
		t.Error("expected job done flag")
	}
	if marked.Status != valueobject.BookingStatusActive {
		t.Errorf("marking done must not close the booking, got %s", marked.Status)
	}
}

func TestCompleteBooking_ThenReworkThenResolve(t *testing.T) {
	f := newFixture()
	b := f.activeBooking(t)

	complete := booking.NewCompleteBookingUseCase(f.bookingRepo)
	if _, err := complete.Execute(context.Background(), f.mechanicAuth(), booking.CompleteBookingInput{BookingID: b.ID, TotalAmount: 800}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	rework := booking.NewFileReworkUseCase(f.bookingRepo)
	reworked, err := rework.Execute(context.Background(), f.clientAuth(), booking.FileReworkInput{BookingID: b.ID, Reason: "leak came back"})
	if err != nil {
		t.Fatalf("file rework failed: %v", err)
	}
	if reworked.Status != valueobject.BookingStatusReworked {
		t.Fatalf("expected reworked, got %s", reworked.Status)
	}

	resolve := booking.NewResolveReworkUseCase(f.bookingRepo)

	// The client cannot resolve; that is the provider's call.
	if _, err := resolve.Execute(context.Background(), f.clientAuth(), booking.ResolveReworkInput{BookingID: b.ID, BackToActive: true}); !apperror.IsForbidden(err) {
		t.Errorf("expected forbidden, got %v", err)
	}

	resolved, err := resolve.Execute(context.Background(), f.mechanicAuth(), booking.ResolveReworkInput{BookingID: b.ID, BackToActive: false})
	if err != nil {
		t.Fatalf("resolve rework failed: %v", err)
	}
	if resolved.Status != valueobject.BookingStatusCompleted {
		t.Errorf("expected completed after accept as-is, got %s", resolved.Status)
	}
	if resolved.Rework.CompletedAt == nil {
		t.Error("expected rework record to be stamped")
	}
}

func TestCancelBooking_Participant(t *testing.T) {
	f := newFixture()
	b := f.activeBooking(t)

	uc := booking.NewCancelBookingUseCase(f.bookingRepo)
	cancelled, err := uc.Execute(context.Background(), f.clientAuth(), booking.CancelBookingInput{BookingID: b.ID, Reason: "found a closer shop"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cancelled.Status != valueobject.BookingStatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.Cancel == nil || cancelled.Cancel.CancelledBy != f.client {
		t.Error("expected the cancel record to carry the caller")
	}
}

func TestFileDispute_DefaultsToCounterpart(t *testing.T) {
	f := newFixture()
	b := f.activeBooking(t)

	uc := booking.NewFileDisputeUseCase(f.bookingRepo)
	disputed, err := uc.Execute(context.Background(), f.clientAuth(), booking.FileDisputeInput{
		BookingID:        b.ID,
		IssueDescription: "charged more than the quote",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if disputed.Dispute == nil {
		t.Fatal("expected dispute record")
	}
	if disputed.Dispute.ComplaintAgainst != f.mechanic {
		t.Error("expected the dispute to default against the provider")
	}
	if disputed.Dispute.Status != valueobject.DisputeStatusPending {
		t.Errorf("expected pending, got %s", disputed.Dispute.Status)
	}
}

func TestResolveDispute_AdminOnly(t *testing.T) {
	f := newFixture()
	b := f.activeBooking(t)

	file := booking.NewFileDisputeUseCase(f.bookingRepo)
	if _, err := file.Execute(context.Background(), f.clientAuth(), booking.FileDisputeInput{
		BookingID:        b.ID,
		IssueDescription: "charged more than the quote",
	}); err != nil {
		t.Fatalf("file dispute failed: %v", err)
	}

	resolve := booking.NewResolveDisputeUseCase(f.bookingRepo)

	_, err := resolve.Execute(context.Background(), f.clientAuth(), booking.ResolveDisputeInput{
		BookingID: b.ID,
		Outcome:   valueobject.DisputeStatusSolved,
	})
	if !apperror.IsForbidden(err) {
		t.Errorf("expected forbidden for non-admin, got %v", err)
	}

	admin := valueobject.AuthContext{AccountID: uuid.New(), Roles: []valueobject.Role{valueobject.RoleAdmin}}
	amount := 800.0
	receiver := f.client

	_, err = resolve.Execute(context.Background(), admin, booking.ResolveDisputeInput{
		BookingID:    b.ID,
		Outcome:      valueobject.DisputeStatusRefunded,
		RefundAmount: &amount,
	})
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error without receiver, got %v", err)
	}

	resolved, err := resolve.Execute(context.Background(), admin, booking.ResolveDisputeInput{
		BookingID:       b.ID,
		ResolutionNotes: "refund issued",
		Outcome:         valueobject.DisputeStatusRefunded,
		RefundAmount:    &amount,
		RefundReceiver:  &receiver,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Dispute.Status != valueobject.DisputeStatusRefunded {
		t.Errorf("expected refunded, got %s", resolved.Dispute.Status)
	}
	if resolved.Dispute.AdminID == nil || *resolved.Dispute.AdminID != admin.AccountID {
		t.Error("expected the resolving admin to be recorded")
	}
}
