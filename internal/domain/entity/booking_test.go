package entity_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

func testLocation(t *testing.T) valueobject.ServiceLocation {
	t.Helper()
	loc, err := valueobject.NewServiceLocation("Mabini St", "", "Poblacion", "Makati", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return loc
}

func quotedAcceptedCustomRequest(t *testing.T) *entity.Request {
	t.Helper()
	provider := uuid.New()
	req, err := entity.NewCustomRequest(uuid.New(), &provider, "engine will not start", testLocation(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := req.Quote(800, "needs a new starter relay"); err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if err := req.Accept(); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	return req
}

func activeBooking(t *testing.T) *entity.Booking {
	t.Helper()
	req := quotedAcceptedCustomRequest(t)
	b, err := entity.NewBooking(req, 800)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.Request = req
	return b
}

func TestNewBooking_RequiresAcceptedRequest(t *testing.T) {
	provider := uuid.New()
	req, err := entity.NewCustomRequest(uuid.New(), &provider, "engine will not start", testLocation(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := entity.NewBooking(req, 500); !apperror.IsInvalidTransition(err) {
		t.Errorf("expected invalid transition for a pending request, got %v", err)
	}

	if err := req.Quote(500, ""); err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if _, err := entity.NewBooking(req, 500); !apperror.IsInvalidTransition(err) {
		t.Errorf("expected invalid transition for a quoted request, got %v", err)
	}

	if err := req.Accept(); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	b, err := entity.NewBooking(req, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != valueobject.BookingStatusActive {
		t.Errorf("expected active, got %s", b.Status)
	}
}

func TestNewBooking_EmergencyIsAlwaysBookable(t *testing.T) {
	req, err := entity.NewEmergencyRequest(uuid.New(), nil, "stalled on the highway", testLocation(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := entity.NewBooking(req, 1500); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBooking_StartWorkOnce(t *testing.T) {
	b := activeBooking(t)

	if _, err := b.MarkJobDone(nil); !apperror.IsInvalidTransition(err) {
		t.Errorf("expected invalid transition before work starts, got %v", err)
	}

	if _, err := b.StartWork(nil); err != nil {
		t.Fatalf("start work failed: %v", err)
	}
	if b.Active == nil {
		t.Fatal("expected active detail record")
	}

	if _, err := b.StartWork(nil); !apperror.IsInvalidTransition(err) {
		t.Errorf("expected invalid transition on second start, got %v", err)
	}

	if _, err := b.MarkJobDone(nil); err != nil {
		t.Fatalf("mark job done failed: %v", err)
	}
	if !b.Active.IsJobDone {
		t.Error("expected job done flag to be set")
	}
	if b.Status != valueobject.BookingStatusActive {
		t.Errorf("marking done must not close the booking, got %s", b.Status)
	}
}

func TestBooking_Reschedule(t *testing.T) {
	b := activeBooking(t)
	if _, err := b.StartWork(nil); err != nil {
		t.Fatalf("start work failed: %v", err)
	}

	if _, err := b.Reschedule("", time.Now(), "14:00"); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for empty reason, got %v", err)
	}

	newDate := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	if _, err := b.Reschedule("parts on backorder", newDate, "14:00"); err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if !b.Active.IsRescheduled || b.Active.NewDate == nil || !b.Active.NewDate.Equal(newDate) {
		t.Error("expected reschedule fields on the active record")
	}
	if b.Status != valueobject.BookingStatusActive {
		t.Errorf("rescheduling must not change status, got %s", b.Status)
	}
}

func TestBooking_RescheduleBeforeWorkStarts(t *testing.T) {
	b := activeBooking(t)

	newDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	if _, err := b.Reschedule("client away until next week", newDate, "09:00"); err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if b.Active == nil || !b.Active.IsRescheduled {
		t.Fatal("expected an active record carrying the reschedule")
	}
	if b.Active.StartedAt != nil {
		t.Error("rescheduling must not stamp a start of work")
	}

	if _, err := b.MarkJobDone(nil); !apperror.IsInvalidTransition(err) {
		t.Errorf("expected invalid transition before work starts, got %v", err)
	}

	if _, err := b.StartWork(nil); err != nil {
		t.Fatalf("start work after reschedule failed: %v", err)
	}
	if b.Active.StartedAt == nil {
		t.Error("expected a start stamp once work begins")
	}
	if !b.Active.IsRescheduled {
		t.Error("starting work must keep the reschedule")
	}
}

func TestBooking_ReworkLoop(t *testing.T) {
	b := activeBooking(t)
	client := b.Request.ClientID

	if _, err := b.CompleteWork(800, ""); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if _, err := b.FileRework(client, "paint is scratched"); err != nil {
		t.Fatalf("file rework failed: %v", err)
	}
	if b.Status != valueobject.BookingStatusReworked {
		t.Fatalf("expected reworked, got %s", b.Status)
	}

	if _, err := b.ResolveRework(true); err != nil {
		t.Fatalf("resolve rework failed: %v", err)
	}
	if b.Status != valueobject.BookingStatusActive {
		t.Errorf("expected active after rework back to work, got %s", b.Status)
	}
	if b.Rework.CompletedAt == nil {
		t.Error("expected rework record to be stamped")
	}

	if _, err := b.CompleteWork(950, "redone"); err != nil {
		t.Fatalf("second complete failed: %v", err)
	}
	if b.Complete.TotalAmount != 950 {
		t.Errorf("expected completion record to be replaced, got %f", b.Complete.TotalAmount)
	}
}

func TestBooking_ResolveReworkAsIsRequiresCompletion(t *testing.T) {
	b := activeBooking(t)
	client := b.Request.ClientID

	if _, err := b.FileRework(client, "wrong oil grade"); err != nil {
		t.Fatalf("file rework failed: %v", err)
	}

	// Never completed, so there is nothing on record to accept as-is.
	if _, err := b.ResolveRework(false); !apperror.IsInvalidTransition(err) {
		t.Errorf("expected invalid transition, got %v", err)
	}
}

func TestBooking_CancelIsTerminal(t *testing.T) {
	b := activeBooking(t)
	client := b.Request.ClientID

	if _, err := b.CancelWork(client, ""); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for empty reason, got %v", err)
	}
	if _, err := b.CancelWork(client, "found a closer shop"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if !b.IsTerminal() {
		t.Error("expected cancelled booking to be terminal")
	}

	if _, err := b.CompleteWork(100, ""); !apperror.IsInvalidTransition(err) {
		t.Errorf("expected invalid transition after cancel, got %v", err)
	}
	if _, err := b.FileDispute(client, uuid.New(), "bad work", nil); !apperror.IsInvalidTransition(err) {
		t.Errorf("expected invalid transition after cancel, got %v", err)
	}
}

func TestBooking_DisputeLifecycle(t *testing.T) {
	b := activeBooking(t)
	client := b.Request.ClientID
	provider := *b.Request.ProviderID
	admin := uuid.New()

	if _, err := b.FileDispute(client, client, "charged twice", nil); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for self-dispute, got %v", err)
	}

	if _, err := b.FileDispute(client, provider, "charged twice", nil); err != nil {
		t.Fatalf("file dispute failed: %v", err)
	}
	if b.Status != valueobject.BookingStatusDisputed {
		t.Fatalf("expected disputed, got %s", b.Status)
	}
	if b.IsTerminal() {
		t.Error("pending dispute must not be terminal")
	}

	if _, err := b.ResolveDispute(admin, "", valueobject.DisputeStatusPending, nil, nil); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for pending outcome, got %v", err)
	}

	amount := 800.0
	if _, err := b.ResolveDispute(admin, "", valueobject.DisputeStatusRefunded, &amount, nil); !apperror.IsValidation(err) {
		t.Errorf("expected validation error without receiver, got %v", err)
	}
	if _, err := b.ResolveDispute(admin, "", valueobject.DisputeStatusRefunded, nil, &client); !apperror.IsValidation(err) {
		t.Errorf("expected validation error without amount, got %v", err)
	}

	if _, err := b.ResolveDispute(admin, "refund issued", valueobject.DisputeStatusRefunded, &amount, &client); err != nil {
		t.Fatalf("resolve dispute failed: %v", err)
	}
	if b.Dispute.Status != valueobject.DisputeStatusRefunded {
		t.Errorf("expected refunded, got %s", b.Dispute.Status)
	}
	if b.Status != valueobject.BookingStatusDisputed {
		t.Errorf("booking status must stay disputed, got %s", b.Status)
	}
	if !b.IsTerminal() {
		t.Error("resolved dispute must be terminal")
	}

	if _, err := b.ResolveDispute(admin, "", valueobject.DisputeStatusSolved, nil, nil); !apperror.IsInvalidTransition(err) {
		t.Errorf("expected invalid transition on double resolution, got %v", err)
	}
}

func TestBooking_DisputeFromCompleted(t *testing.T) {
	b := activeBooking(t)
	client := b.Request.ClientID
	provider := *b.Request.ProviderID

	if _, err := b.CompleteWork(800, ""); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if _, err := b.FileDispute(client, provider, "work fell apart a day later", nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBooking_CheckDetail(t *testing.T) {
	b := activeBooking(t)

	// Active without an active record is the permitted gap.
	if err := b.CheckDetail(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	b.Status = valueobject.BookingStatusCompleted
	if err := b.CheckDetail(); !apperror.IsInternalConsistency(err) {
		t.Errorf("expected consistency error for completed without record, got %v", err)
	}
}

func TestRequest_DetailMustMatchKind(t *testing.T) {
	req, err := entity.NewEmergencyRequest(uuid.New(), nil, "flat tire, no spare", testLocation(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := req.CheckDetail(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.Custom = &entity.CustomRequestDetail{Description: "stray", Status: valueobject.RequestStatusPending}
	if err := req.CheckDetail(); !apperror.IsInternalConsistency(err) {
		t.Errorf("expected consistency error for two detail records, got %v", err)
	}
}

func TestRequest_DirectLifecycle(t *testing.T) {
	req, err := entity.NewDirectRequest(uuid.New(), uuid.New(), uuid.New(), testLocation(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := req.Quote(500, ""); !apperror.IsInvalidTransition(err) {
		t.Errorf("direct requests cannot be quoted, got %v", err)
	}

	if err := req.Accept(); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if err := req.Accept(); !apperror.IsInvalidTransition(err) {
		t.Errorf("expected invalid transition on double accept, got %v", err)
	}
	if !req.IsAcceptedForBooking() {
		t.Error("expected request to be bookable")
	}
}

func TestRequest_RejectIsTerminal(t *testing.T) {
	provider := uuid.New()
	req, err := entity.NewCustomRequest(uuid.New(), &provider, "brakes squeal at low speed", testLocation(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := req.Reject(); !apperror.IsInvalidTransition(err) {
		t.Errorf("only a quoted request can be rejected, got %v", err)
	}
	if err := req.Quote(1200, ""); err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if err := req.Reject(); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if err := req.Quote(900, ""); !apperror.IsInvalidTransition(err) {
		t.Errorf("expected invalid transition after reject, got %v", err)
	}
	if req.IsAcceptedForBooking() {
		t.Error("rejected request must not be bookable")
	}
}
