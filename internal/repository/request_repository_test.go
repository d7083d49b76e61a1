package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/repository"
)

func mockRequestRepo(t *testing.T) (*repository.RequestRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return repository.NewRequestRepository(sqlx.NewDb(mockDB, "sqlmock")), mock
}

var requestColumns = []string{
	"id", "client_id", "provider_id", "kind", "location_id", "created_at", "updated_at",
	"street_name", "subdivision_village", "barangay", "city_municipality", "landmark",
	"booking_id",
}

// The provider feed only surfaces requests assigned to that provider;
// unassigned requests stay invisible until the provider quotes one by id.
func TestRequestRepository_FindPendingByProvider_AssignedOnly(t *testing.T) {
	repo, mock := mockRequestRepo(t)

	providerID := uuid.New()
	pendingID := uuid.New()
	rejectedID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`WHERE r\.provider_id = \$1 AND b\.id IS NULL`).
		WithArgs(providerID).
		WillReturnRows(sqlmock.NewRows(requestColumns).
			AddRow(pendingID.String(), uuid.New().String(), providerID.String(), "custom", uuid.New().String(), now, now,
				"Mabini St", "", "Poblacion", "Makati", "", nil).
			AddRow(rejectedID.String(), uuid.New().String(), providerID.String(), "custom", uuid.New().String(), now, now,
				"Rizal Ave", "", "Poblacion", "Pasig", "", nil))

	mock.ExpectQuery(`FROM custom_request_details`).
		WillReturnRows(sqlmock.NewRows([]string{"request_id", "description", "concern_photo_url", "status", "quoted_price", "providers_note"}).
			AddRow(pendingID.String(), "engine will not start", nil, "pending", nil, "").
			AddRow(rejectedID.String(), "brakes squeal", nil, "rejected", nil, ""))
	mock.ExpectQuery(`FROM direct_request_details`).
		WillReturnRows(sqlmock.NewRows([]string{"request_id", "service_id", "status"}))
	mock.ExpectQuery(`FROM emergency_request_details`).
		WillReturnRows(sqlmock.NewRows([]string{"request_id", "description", "concern_photo_url", "providers_note"}))

	requests, err := repo.FindPendingByProvider(context.Background(), providerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(requests))
	}
	if requests[0].ID != pendingID {
		t.Errorf("expected the pending request, got %s", requests[0].ID)
	}
	if requests[0].Custom == nil || requests[0].Custom.Status != valueobject.RequestStatusPending {
		t.Error("expected the hydrated custom detail")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("query expectations not met: %v", err)
	}
}

func TestRequestRepository_FindPendingByClient_OwnUnbooked(t *testing.T) {
	repo, mock := mockRequestRepo(t)

	clientID := uuid.New()
	mock.ExpectQuery(`WHERE r\.client_id = \$1 AND b\.id IS NULL`).
		WithArgs(clientID).
		WillReturnRows(sqlmock.NewRows(requestColumns))

	requests, err := repo.FindPendingByClient(context.Background(), clientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(requests) != 0 {
		t.Fatalf("expected no requests, got %d", len(requests))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("query expectations not met: %v", err)
	}
}
