package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/models"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
	"github.com/mekaniko-ph/mekaniko-backend/internal/repository/common"
)

// RequestRepository persists request aggregates over Postgres. Each request
// row owns a location row and exactly one kind-detail row.
type RequestRepository struct {
	db *sqlx.DB
}

func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// requestRow is the flat read shape of a request with its location and the
// id of its booking, if any.
type requestRow struct {
	ID                 uuid.UUID  `db:"id"`
	ClientID           uuid.UUID  `db:"client_id"`
	ProviderID         *uuid.UUID `db:"provider_id"`
	Kind               string     `db:"kind"`
	LocationID         uuid.UUID  `db:"location_id"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	StreetName         string     `db:"street_name"`
	SubdivisionVillage string     `db:"subdivision_village"`
	Barangay           string     `db:"barangay"`
	CityMunicipality   string     `db:"city_municipality"`
	Landmark           string     `db:"landmark"`
	BookingID          *uuid.UUID `db:"booking_id"`
}

const requestSelect = `
	SELECT r.id, r.client_id, r.provider_id, r.kind, r.location_id, r.created_at, r.updated_at,
	       l.street_name, l.subdivision_village, l.barangay, l.city_municipality, l.landmark,
	       b.id AS booking_id
	FROM requests r
	JOIN service_locations l ON l.id = r.location_id
	LEFT JOIN bookings b ON b.request_id = r.id
`

func (row requestRow) toEntity() *entity.Request {
	return &entity.Request{
		ID:         row.ID,
		ClientID:   row.ClientID,
		ProviderID: row.ProviderID,
		Kind:       valueobject.RequestKind(row.Kind),
		Location: valueobject.ServiceLocation{
			StreetName:         row.StreetName,
			SubdivisionVillage: row.SubdivisionVillage,
			Barangay:           row.Barangay,
			CityMunicipality:   row.CityMunicipality,
			Landmark:           row.Landmark,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		BookingID: row.BookingID,
	}
}

// Create inserts the request, its location and its kind-detail row in one
// transaction.
func (r *RequestRepository) Create(ctx context.Context, request *entity.Request) error {
	if err := request.CheckDetail(); err != nil {
		return err
	}

	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		locationID := uuid.New()
		locationQuery := `
			INSERT INTO service_locations (id, street_name, subdivision_village, barangay, city_municipality, landmark)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.ExecContext(ctx, locationQuery,
			locationID,
			request.Location.StreetName,
			request.Location.SubdivisionVillage,
			request.Location.Barangay,
			request.Location.CityMunicipality,
			request.Location.Landmark,
		); err != nil {
			return fmt.Errorf("request repository: insert location: %w", err)
		}

		requestQuery := `
			INSERT INTO requests (id, client_id, provider_id, kind, location_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, requestQuery,
			request.ID,
			request.ClientID,
			request.ProviderID,
			string(request.Kind),
			locationID,
			request.CreatedAt,
			request.UpdatedAt,
		); err != nil {
			return fmt.Errorf("request repository: insert request: %w", err)
		}

		switch request.Kind {
		case valueobject.RequestKindCustom:
			query := `
				INSERT INTO custom_request_details (request_id, description, concern_photo_url, status, quoted_price, providers_note)
				VALUES ($1, $2, $3, $4, $5, $6)
			`
			if _, err := tx.ExecContext(ctx, query,
				request.ID,
				request.Custom.Description,
				request.Custom.ConcernPhotoURL,
				string(request.Custom.Status),
				request.Custom.QuotedPrice,
				request.Custom.ProvidersNote,
			); err != nil {
				return fmt.Errorf("request repository: insert custom detail: %w", err)
			}
		case valueobject.RequestKindDirect:
			query := `
				INSERT INTO direct_request_details (request_id, service_id, status)
				VALUES ($1, $2, $3)
			`
			if _, err := tx.ExecContext(ctx, query,
				request.ID,
				request.Direct.ServiceID,
				string(request.Direct.Status),
			); err != nil {
				return fmt.Errorf("request repository: insert direct detail: %w", err)
			}
			for _, addOnID := range request.Direct.AddOnIDs {
				joinQuery := `INSERT INTO direct_request_add_ons (id, request_id, add_on_id) VALUES ($1, $2, $3)`
				if _, err := tx.ExecContext(ctx, joinQuery, uuid.New(), request.ID, addOnID); err != nil {
					return fmt.Errorf("request repository: insert add-on: %w", err)
				}
			}
		case valueobject.RequestKindEmergency:
			query := `
				INSERT INTO emergency_request_details (request_id, description, concern_photo_url, providers_note)
				VALUES ($1, $2, $3, $4)
			`
			if _, err := tx.ExecContext(ctx, query,
				request.ID,
				request.Emergency.Description,
				request.Emergency.ConcernPhotoURL,
				request.Emergency.ProvidersNote,
			); err != nil {
				return fmt.Errorf("request repository: insert emergency detail: %w", err)
			}
		}

		return nil
	})
}

func (r *RequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	var row requestRow
	query := requestSelect + ` WHERE r.id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrRequestNotFound
		}
		return nil, fmt.Errorf("request repository: get by id: %w", err)
	}

	request := row.toEntity()
	if err := r.attachDetails(ctx, r.db, []*entity.Request{request}); err != nil {
		return nil, err
	}
	return request, nil
}

// Mutate locks the request row, applies fn and persists the mutable columns
// in the same transaction.
func (r *RequestRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(*entity.Request) error) (*entity.Request, error) {
	var request *entity.Request
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var row requestRow
		query := requestSelect + ` WHERE r.id = $1 FOR UPDATE OF r`
		if err := tx.GetContext(ctx, &row, query, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.ErrRequestNotFound
			}
			return fmt.Errorf("request repository: lock request: %w", err)
		}

		request = row.toEntity()
		if err := r.attachDetails(ctx, tx, []*entity.Request{request}); err != nil {
			return err
		}
		if err := request.CheckDetail(); err != nil {
			return err
		}

		if err := fn(request); err != nil {
			return err
		}

		updateQuery := `UPDATE requests SET provider_id = $1, updated_at = $2 WHERE id = $3`
		if _, err := tx.ExecContext(ctx, updateQuery, request.ProviderID, request.UpdatedAt, request.ID); err != nil {
			return fmt.Errorf("request repository: update request: %w", err)
		}

		switch request.Kind {
		case valueobject.RequestKindCustom:
			detailQuery := `
				UPDATE custom_request_details
				SET status = $1, quoted_price = $2, providers_note = $3
				WHERE request_id = $4
			`
			if _, err := tx.ExecContext(ctx, detailQuery,
				string(request.Custom.Status),
				request.Custom.QuotedPrice,
				request.Custom.ProvidersNote,
				request.ID,
			); err != nil {
				return fmt.Errorf("request repository: update custom detail: %w", err)
			}
		case valueobject.RequestKindDirect:
			detailQuery := `UPDATE direct_request_details SET status = $1 WHERE request_id = $2`
			if _, err := tx.ExecContext(ctx, detailQuery, string(request.Direct.Status), request.ID); err != nil {
				return fmt.Errorf("request repository: update direct detail: %w", err)
			}
		case valueobject.RequestKindEmergency:
			detailQuery := `UPDATE emergency_request_details SET providers_note = $1 WHERE request_id = $2`
			if _, err := tx.ExecContext(ctx, detailQuery, request.Emergency.ProvidersNote, request.ID); err != nil {
				return fmt.Errorf("request repository: update emergency detail: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// FindPendingByClient returns the client's unbooked, non-terminal requests,
// newest first.
func (r *RequestRepository) FindPendingByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Request, error) {
	query := requestSelect + `
		WHERE r.client_id = $1 AND b.id IS NULL
		ORDER BY r.created_at DESC
	`
	return r.selectPending(ctx, query, clientID)
}

// FindPendingByProvider returns the unbooked, non-terminal requests assigned
// to the provider. Unassigned requests are not surfaced; a provider reaches
// those only by quoting one directly by id.
func (r *RequestRepository) FindPendingByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Request, error) {
	query := requestSelect + `
		WHERE r.provider_id = $1 AND b.id IS NULL
		ORDER BY r.created_at DESC
	`
	return r.selectPending(ctx, query, providerID)
}

func (r *RequestRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Request, error) {
	query := requestSelect + `
		WHERE r.client_id = $1
		ORDER BY r.created_at DESC
	`
	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, query, clientID); err != nil {
		return nil, fmt.Errorf("request repository: list by client: %w", err)
	}

	requests := make([]*entity.Request, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toEntity())
	}
	if err := r.attachDetails(ctx, r.db, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) selectPending(ctx context.Context, query string, arg interface{}) ([]*entity.Request, error) {
	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, fmt.Errorf("request repository: list pending: %w", err)
	}

	requests := make([]*entity.Request, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toEntity())
	}
	if err := r.attachDetails(ctx, r.db, requests); err != nil {
		return nil, err
	}

	// Requests that reached a terminal answer are no longer pending.
	// Emergency requests report pending until booked.
	pending := requests[:0]
	for _, req := range requests {
		if !req.Status().IsTerminal() {
			pending = append(pending, req)
		}
	}
	return pending, nil
}

// findByIDs loads fully hydrated requests keyed by id. Used by the booking
// repository to attach the originating request to its reads.
func (r *RequestRepository) findByIDs(ctx context.Context, q sqlx.ExtContext, ids []uuid.UUID) (map[uuid.UUID]*entity.Request, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*entity.Request{}, nil
	}

	var rows []requestRow
	query := requestSelect + ` WHERE r.id = ANY($1)`
	if err := sqlx.SelectContext(ctx, q, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("request repository: get by ids: %w", err)
	}

	requests := make([]*entity.Request, 0, len(rows))
	byID := make(map[uuid.UUID]*entity.Request, len(rows))
	for _, row := range rows {
		req := row.toEntity()
		requests = append(requests, req)
		byID[req.ID] = req
	}
	if err := r.attachDetails(ctx, q, requests); err != nil {
		return nil, err
	}
	return byID, nil
}

// attachDetails loads the kind-detail rows for a batch of requests in three
// queries regardless of batch size.
func (r *RequestRepository) attachDetails(ctx context.Context, q sqlx.ExtContext, requests []*entity.Request) error {
	if len(requests) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*entity.Request, len(requests))
	ids := make([]uuid.UUID, 0, len(requests))
	for _, req := range requests {
		byID[req.ID] = req
		ids = append(ids, req.ID)
	}

	var customs []models.CustomRequestDetail
	customQuery := `
		SELECT request_id, description, concern_photo_url, status, quoted_price, providers_note
		FROM custom_request_details WHERE request_id = ANY($1)
	`
	if err := sqlx.SelectContext(ctx, q, &customs, customQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("request repository: load custom details: %w", err)
	}
	for _, d := range customs {
		if req, ok := byID[d.RequestID]; ok {
			req.Custom = &entity.CustomRequestDetail{
				Description:     d.Description,
				ConcernPhotoURL: d.ConcernPhotoURL,
				Status:          valueobject.RequestStatus(d.Status),
				QuotedPrice:     d.QuotedPrice,
				ProvidersNote:   d.ProvidersNote,
			}
		}
	}

	var directs []models.DirectRequestDetail
	directQuery := `
		SELECT request_id, service_id, status
		FROM direct_request_details WHERE request_id = ANY($1)
	`
	if err := sqlx.SelectContext(ctx, q, &directs, directQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("request repository: load direct details: %w", err)
	}
	if len(directs) > 0 {
		var joins []models.DirectRequestAddOn
		joinQuery := `SELECT id, request_id, add_on_id FROM direct_request_add_ons WHERE request_id = ANY($1)`
		if err := sqlx.SelectContext(ctx, q, &joins, joinQuery, pq.Array(ids)); err != nil {
			return fmt.Errorf("request repository: load add-ons: %w", err)
		}
		addOnsByRequest := make(map[uuid.UUID][]uuid.UUID)
		for _, j := range joins {
			addOnsByRequest[j.RequestID] = append(addOnsByRequest[j.RequestID], j.AddOnID)
		}
		for _, d := range directs {
			if req, ok := byID[d.RequestID]; ok {
				req.Direct = &entity.DirectRequestDetail{
					ServiceID: d.ServiceID,
					Status:    valueobject.RequestStatus(d.Status),
					AddOnIDs:  addOnsByRequest[d.RequestID],
				}
			}
		}
	}

	var emergencies []models.EmergencyRequestDetail
	emergencyQuery := `
		SELECT request_id, description, concern_photo_url, providers_note
		FROM emergency_request_details WHERE request_id = ANY($1)
	`
	if err := sqlx.SelectContext(ctx, q, &emergencies, emergencyQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("request repository: load emergency details: %w", err)
	}
	for _, d := range emergencies {
		if req, ok := byID[d.RequestID]; ok {
			req.Emergency = &entity.EmergencyRequestDetail{
				Description:     d.Description,
				ConcernPhotoURL: d.ConcernPhotoURL,
				ProvidersNote:   d.ProvidersNote,
			}
		}
	}

	return nil
}
