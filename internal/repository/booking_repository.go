package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/models"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
	"github.com/mekaniko-ph/mekaniko-backend/internal/repository/common"
)

// BookingRepository persists booking aggregates over Postgres. Detail rows
// live one table per type, keyed by booking_id, and are upserted so each
// type exists at most once per booking.
type BookingRepository struct {
	db       *sqlx.DB
	requests *RequestRepository
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db, requests: NewRequestRepository(db)}
}

const bookingSelect = `
	SELECT b.id, b.request_id, b.status, b.amount_fee, b.booked_at, b.updated_at, b.completed_at
	FROM bookings b
`

func bookingRowToEntity(row models.Booking) *entity.Booking {
	return &entity.Booking{
		ID:          row.ID,
		RequestID:   row.RequestID,
		Status:      valueobject.BookingStatus(row.Status),
		AmountFee:   row.AmountFee,
		BookedAt:    row.BookedAt,
		UpdatedAt:   row.UpdatedAt,
		CompletedAt: row.CompletedAt,
	}
}

// Create inserts the booking row. The unique index on request_id turns the
// create-twice race into a conflict instead of a second booking.
func (r *BookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, request_id, status, amount_fee, booked_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.RequestID,
		string(booking.Status),
		booking.AmountFee,
		booking.BookedAt,
		booking.UpdatedAt,
		booking.CompletedAt,
	)
	if err != nil {
		if common.IsUniqueViolation(err, "") {
			return apperror.ErrBookingExists
		}
		return fmt.Errorf("booking repository: insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	bookings, err := r.selectBookings(ctx, r.db, bookingSelect+` WHERE b.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, apperror.ErrBookingNotFound
	}
	return bookings[0], nil
}

// FindByIDForClient folds the ownership check into the lookup so callers
// cannot distinguish "does not exist" from "not yours".
func (r *BookingRepository) FindByIDForClient(ctx context.Context, id, clientID uuid.UUID) (*entity.Booking, error) {
	query := bookingSelect + `
		JOIN requests req ON req.id = b.request_id
		WHERE b.id = $1 AND req.client_id = $2
	`
	bookings, err := r.selectBookings(ctx, r.db, query, id, clientID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, apperror.ErrBookingNotFound
	}
	return bookings[0], nil
}

func (r *BookingRepository) FindByRequestID(ctx context.Context, requestID uuid.UUID) (*entity.Booking, error) {
	bookings, err := r.selectBookings(ctx, r.db, bookingSelect+` WHERE b.request_id = $1`, requestID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, apperror.ErrBookingNotFound
	}
	return bookings[0], nil
}

// Mutate locks the booking row, applies fn and persists the status columns
// plus every present detail record in the same transaction.
func (r *BookingRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(*entity.Booking) error) (*entity.Booking, error) {
	var booking *entity.Booking
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var row models.Booking
		query := bookingSelect + ` WHERE b.id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &row, query, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.ErrBookingNotFound
			}
			return fmt.Errorf("booking repository: lock booking: %w", err)
		}

		booking = bookingRowToEntity(row)
		if err := r.attachDetails(ctx, tx, []*entity.Booking{booking}); err != nil {
			return err
		}
		if err := r.attachRequests(ctx, tx, []*entity.Booking{booking}); err != nil {
			return err
		}
		if err := booking.CheckDetail(); err != nil {
			return err
		}

		if err := fn(booking); err != nil {
			return err
		}

		updateQuery := `UPDATE bookings SET status = $1, updated_at = $2, completed_at = $3 WHERE id = $4`
		if _, err := tx.ExecContext(ctx, updateQuery,
			string(booking.Status), booking.UpdatedAt, booking.CompletedAt, booking.ID,
		); err != nil {
			return fmt.Errorf("booking repository: update booking: %w", err)
		}

		return r.upsertDetails(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// FindCurrentByClient returns the client's in-progress bookings (active or
// reworked), newest booked first.
func (r *BookingRepository) FindCurrentByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Booking, error) {
	query := bookingSelect + `
		JOIN requests req ON req.id = b.request_id
		WHERE req.client_id = $1 AND b.status IN ('active', 'reworked')
		ORDER BY b.booked_at DESC
	`
	return r.selectBookings(ctx, r.db, query, clientID)
}

func (r *BookingRepository) FindCurrentByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Booking, error) {
	query := bookingSelect + `
		JOIN requests req ON req.id = b.request_id
		WHERE req.provider_id = $1 AND b.status IN ('active', 'reworked')
		ORDER BY b.booked_at DESC
	`
	return r.selectBookings(ctx, r.db, query, providerID)
}

func (r *BookingRepository) FindByClient(ctx context.Context, clientID uuid.UUID, status *valueobject.BookingStatus) ([]*entity.Booking, error) {
	if status != nil {
		query := bookingSelect + `
			JOIN requests req ON req.id = b.request_id
			WHERE req.client_id = $1 AND b.status = $2
			ORDER BY b.booked_at DESC
		`
		return r.selectBookings(ctx, r.db, query, clientID, string(*status))
	}

	query := bookingSelect + `
		JOIN requests req ON req.id = b.request_id
		WHERE req.client_id = $1
		ORDER BY b.booked_at DESC
	`
	return r.selectBookings(ctx, r.db, query, clientID)
}

func (r *BookingRepository) selectBookings(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) ([]*entity.Booking, error) {
	var rows []models.Booking
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("booking repository: select bookings: %w", err)
	}

	bookings := make([]*entity.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, bookingRowToEntity(row))
	}
	if err := r.attachDetails(ctx, q, bookings); err != nil {
		return nil, err
	}
	if err := r.attachRequests(ctx, q, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// attachRequests hydrates the originating request of each booking.
func (r *BookingRepository) attachRequests(ctx context.Context, q sqlx.ExtContext, bookings []*entity.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.RequestID)
	}
	requests, err := r.requests.findByIDs(ctx, q, ids)
	if err != nil {
		return err
	}
	for _, b := range bookings {
		b.Request = requests[b.RequestID]
	}
	return nil
}

// attachDetails loads all five detail tables for a batch of bookings in
// five queries regardless of batch size.
func (r *BookingRepository) attachDetails(ctx context.Context, q sqlx.ExtContext, bookings []*entity.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*entity.Booking, len(bookings))
	ids := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	var actives []models.ActiveBookingDetail
	activeQuery := `
		SELECT booking_id, before_photo_url, after_photo_url, is_job_done, is_rescheduled, reason, new_date, new_time, started_at
		FROM active_booking_details WHERE booking_id = ANY($1)
	`
	if err := sqlx.SelectContext(ctx, q, &actives, activeQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("booking repository: load active details: %w", err)
	}
	for _, d := range actives {
		if b, ok := byID[d.BookingID]; ok {
			b.Active = &entity.ActiveBookingDetail{
				BeforePhotoURL: d.BeforePhotoURL,
				AfterPhotoURL:  d.AfterPhotoURL,
				IsJobDone:      d.IsJobDone,
				IsRescheduled:  d.IsRescheduled,
				Reason:         d.Reason,
				NewDate:        d.NewDate,
				NewTime:        d.NewTime,
				StartedAt:      d.StartedAt,
			}
		}
	}

	var reworks []models.ReworkBookingDetail
	reworkQuery := `
		SELECT booking_id, requested_by, reason, created_at, completed_at
		FROM rework_booking_details WHERE booking_id = ANY($1)
	`
	if err := sqlx.SelectContext(ctx, q, &reworks, reworkQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("booking repository: load rework details: %w", err)
	}
	for _, d := range reworks {
		if b, ok := byID[d.BookingID]; ok {
			b.Rework = &entity.ReworkBookingDetail{
				RequestedBy: d.RequestedBy,
				Reason:      d.Reason,
				CreatedAt:   d.CreatedAt,
				CompletedAt: d.CompletedAt,
			}
		}
	}

	var cancels []models.CancelBookingDetail
	cancelQuery := `
		SELECT booking_id, cancelled_by, reason, cancelled_at
		FROM cancel_booking_details WHERE booking_id = ANY($1)
	`
	if err := sqlx.SelectContext(ctx, q, &cancels, cancelQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("booking repository: load cancel details: %w", err)
	}
	for _, d := range cancels {
		if b, ok := byID[d.BookingID]; ok {
			b.Cancel = &entity.CancelBookingDetail{
				CancelledBy: d.CancelledBy,
				Reason:      d.Reason,
				CancelledAt: d.CancelledAt,
			}
		}
	}

	var disputes []models.DisputeBookingDetail
	disputeQuery := `
		SELECT booking_id, complainer_id, complaint_against_id, admin_id, issue_description, issue_photo_url,
		       resolution_notes, status, amount_refunded, refund_receiver_id, created_at, resolved_at
		FROM dispute_booking_details WHERE booking_id = ANY($1)
	`
	if err := sqlx.SelectContext(ctx, q, &disputes, disputeQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("booking repository: load dispute details: %w", err)
	}
	for _, d := range disputes {
		if b, ok := byID[d.BookingID]; ok {
			b.Dispute = &entity.DisputeBookingDetail{
				Complainer:       d.Complainer,
				ComplaintAgainst: d.ComplaintAgainst,
				AdminID:          d.AdminID,
				IssueDescription: d.IssueDescription,
				IssuePhotoURL:    d.IssuePhotoURL,
				ResolutionNotes:  d.ResolutionNotes,
				Status:           valueobject.DisputeStatus(d.Status),
				AmountRefunded:   d.AmountRefunded,
				RefundReceiverID: d.RefundReceiverID,
				CreatedAt:        d.CreatedAt,
				ResolvedAt:       d.ResolvedAt,
			}
		}
	}

	var completes []models.CompleteBookingDetail
	completeQuery := `
		SELECT booking_id, completed_at, total_amount, notes
		FROM complete_booking_details WHERE booking_id = ANY($1)
	`
	if err := sqlx.SelectContext(ctx, q, &completes, completeQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("booking repository: load complete details: %w", err)
	}
	for _, d := range completes {
		if b, ok := byID[d.BookingID]; ok {
			b.Complete = &entity.CompleteBookingDetail{
				CompletedAt: d.CompletedAt,
				TotalAmount: d.TotalAmount,
				Notes:       d.Notes,
			}
		}
	}

	return nil
}

// upsertDetails writes every present detail record. booking_id is the
// primary key of each detail table, so a second write of the same type
// updates in place.
func (r *BookingRepository) upsertDetails(ctx context.Context, tx *sqlx.Tx, booking *entity.Booking) error {
	if booking.Active != nil {
		query := `
			INSERT INTO active_booking_details (booking_id, before_photo_url, after_photo_url, is_job_done, is_rescheduled, reason, new_date, new_time, started_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (booking_id) DO UPDATE SET
				before_photo_url = EXCLUDED.before_photo_url,
				after_photo_url = EXCLUDED.after_photo_url,
				is_job_done = EXCLUDED.is_job_done,
				is_rescheduled = EXCLUDED.is_rescheduled,
				reason = EXCLUDED.reason,
				new_date = EXCLUDED.new_date,
				new_time = EXCLUDED.new_time,
				started_at = EXCLUDED.started_at
		`
		if _, err := tx.ExecContext(ctx, query,
			booking.ID,
			booking.Active.BeforePhotoURL,
			booking.Active.AfterPhotoURL,
			booking.Active.IsJobDone,
			booking.Active.IsRescheduled,
			booking.Active.Reason,
			booking.Active.NewDate,
			booking.Active.NewTime,
			booking.Active.StartedAt,
		); err != nil {
			return fmt.Errorf("booking repository: upsert active detail: %w", err)
		}
	}

	if booking.Rework != nil {
		query := `
			INSERT INTO rework_booking_details (booking_id, requested_by, reason, created_at, completed_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (booking_id) DO UPDATE SET
				requested_by = EXCLUDED.requested_by,
				reason = EXCLUDED.reason,
				created_at = EXCLUDED.created_at,
				completed_at = EXCLUDED.completed_at
		`
		if _, err := tx.ExecContext(ctx, query,
			booking.ID,
			booking.Rework.RequestedBy,
			booking.Rework.Reason,
			booking.Rework.CreatedAt,
			booking.Rework.CompletedAt,
		); err != nil {
			return fmt.Errorf("booking repository: upsert rework detail: %w", err)
		}
	}

	if booking.Cancel != nil {
		query := `
			INSERT INTO cancel_booking_details (booking_id, cancelled_by, reason, cancelled_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (booking_id) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, query,
			booking.ID,
			booking.Cancel.CancelledBy,
			booking.Cancel.Reason,
			booking.Cancel.CancelledAt,
		); err != nil {
			return fmt.Errorf("booking repository: upsert cancel detail: %w", err)
		}
	}

	if booking.Dispute != nil {
		query := `
			INSERT INTO dispute_booking_details (booking_id, complainer_id, complaint_against_id, admin_id, issue_description, issue_photo_url, resolution_notes, status, amount_refunded, refund_receiver_id, created_at, resolved_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (booking_id) DO UPDATE SET
				admin_id = EXCLUDED.admin_id,
				resolution_notes = EXCLUDED.resolution_notes,
				status = EXCLUDED.status,
				amount_refunded = EXCLUDED.amount_refunded,
				refund_receiver_id = EXCLUDED.refund_receiver_id,
				resolved_at = EXCLUDED.resolved_at
		`
		if _, err := tx.ExecContext(ctx, query,
			booking.ID,
			booking.Dispute.Complainer,
			booking.Dispute.ComplaintAgainst,
			booking.Dispute.AdminID,
			booking.Dispute.IssueDescription,
			booking.Dispute.IssuePhotoURL,
			booking.Dispute.ResolutionNotes,
			string(booking.Dispute.Status),
			booking.Dispute.AmountRefunded,
			booking.Dispute.RefundReceiverID,
			booking.Dispute.CreatedAt,
			booking.Dispute.ResolvedAt,
		); err != nil {
			return fmt.Errorf("booking repository: upsert dispute detail: %w", err)
		}
	}

	if booking.Complete != nil {
		query := `
			INSERT INTO complete_booking_details (booking_id, completed_at, total_amount, notes)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (booking_id) DO UPDATE SET
				completed_at = EXCLUDED.completed_at,
				total_amount = EXCLUDED.total_amount,
				notes = EXCLUDED.notes
		`
		if _, err := tx.ExecContext(ctx, query,
			booking.ID,
			booking.Complete.CompletedAt,
			booking.Complete.TotalAmount,
			booking.Complete.Notes,
		); err != nil {
			return fmt.Errorf("booking repository: upsert complete detail: %w", err)
		}
	}

	return nil
}
