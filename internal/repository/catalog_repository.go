package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/models"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

// CatalogRepository serves the fixed-price service catalog.
type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetService(ctx context.Context, id uuid.UUID) (*repository.CatalogService, error) {
	var row models.Service
	query := `SELECT id, name, description, price, created_at, updated_at FROM services WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog repository: get service: %w", err)
	}
	return &repository.CatalogService{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
	}, nil
}

func (r *CatalogRepository) ListServices(ctx context.Context) ([]repository.CatalogService, error) {
	var rows []models.Service
	query := `SELECT id, name, description, price, created_at, updated_at FROM services ORDER BY name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("catalog repository: list services: %w", err)
	}

	services := make([]repository.CatalogService, 0, len(rows))
	for _, row := range rows {
		services = append(services, repository.CatalogService{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
		})
	}
	return services, nil
}

func (r *CatalogRepository) GetServiceAddOns(ctx context.Context, serviceID uuid.UUID) ([]repository.CatalogAddOn, error) {
	var rows []models.ServiceAddOn
	query := `SELECT id, service_id, name, description, price FROM service_add_ons WHERE service_id = $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &rows, query, serviceID); err != nil {
		return nil, fmt.Errorf("catalog repository: list add-ons: %w", err)
	}
	return addOnRowsToCatalog(rows), nil
}

// GetAddOnsByServiceIDs returns the add-ons of several services in one query.
func (r *CatalogRepository) GetAddOnsByServiceIDs(ctx context.Context, serviceIDs []uuid.UUID) (map[uuid.UUID][]repository.CatalogAddOn, error) {
	if len(serviceIDs) == 0 {
		return nil, nil
	}

	var rows []models.ServiceAddOn
	query := `SELECT id, service_id, name, description, price FROM service_add_ons WHERE service_id = ANY($1) ORDER BY name`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(serviceIDs)); err != nil {
		return nil, fmt.Errorf("catalog repository: list add-ons by services: %w", err)
	}

	byService := make(map[uuid.UUID][]repository.CatalogAddOn, len(serviceIDs))
	for _, row := range rows {
		byService[row.ServiceID] = append(byService[row.ServiceID], repository.CatalogAddOn{
			ID:        row.ID,
			ServiceID: row.ServiceID,
			Name:      row.Name,
			Price:     row.Price,
		})
	}
	return byService, nil
}

// GetAddOnsByIDs resolves the ids that exist and silently drops the rest;
// a stale client catalog must not fail the whole request.
func (r *CatalogRepository) GetAddOnsByIDs(ctx context.Context, ids []uuid.UUID) ([]repository.CatalogAddOn, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []models.ServiceAddOn
	query := `SELECT id, service_id, name, description, price FROM service_add_ons WHERE id = ANY($1)`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("catalog repository: get add-ons by ids: %w", err)
	}
	return addOnRowsToCatalog(rows), nil
}

// ListProviders returns every active account holding a provider role,
// each with the services it offers.
func (r *CatalogRepository) ListProviders(ctx context.Context) ([]repository.CatalogProvider, error) {
	var rows []models.Account
	query := `
		SELECT a.id, a.first_name, a.last_name, a.username, a.contact_no
		FROM accounts a
		WHERE a.is_active
		  AND EXISTS (
			SELECT 1 FROM account_roles ar
			WHERE ar.account_id = a.id AND ar.role IN ('mechanic', 'shop_owner')
		  )
		ORDER BY a.last_name, a.first_name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("catalog repository: list providers: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	providers := make([]repository.CatalogProvider, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
		providers = append(providers, repository.CatalogProvider{
			ID:        row.ID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Username:  row.Username,
			ContactNo: row.ContactNo,
		})
	}

	byProvider, err := r.servicesByProvider(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range providers {
		providers[i].Services = byProvider[providers[i].ID]
	}
	return providers, nil
}

// GetProviderServices returns the services one provider offers.
func (r *CatalogRepository) GetProviderServices(ctx context.Context, providerID uuid.UUID) ([]repository.CatalogService, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM accounts a
			JOIN account_roles ar ON ar.account_id = a.id
			WHERE a.id = $1 AND a.is_active AND ar.role IN ('mechanic', 'shop_owner')
		)`
	if err := r.db.GetContext(ctx, &exists, query, providerID); err != nil {
		return nil, fmt.Errorf("catalog repository: check provider: %w", err)
	}
	if !exists {
		return nil, apperror.ErrProviderNotFound
	}

	byProvider, err := r.servicesByProvider(ctx, []uuid.UUID{providerID})
	if err != nil {
		return nil, err
	}
	return byProvider[providerID], nil
}

func (r *CatalogRepository) servicesByProvider(ctx context.Context, providerIDs []uuid.UUID) (map[uuid.UUID][]repository.CatalogService, error) {
	type offeringRow struct {
		ProviderID uuid.UUID `db:"provider_id"`
		models.Service
	}

	var rows []offeringRow
	query := `
		SELECT ps.provider_id, s.id, s.name, s.description, s.price, s.created_at, s.updated_at
		FROM provider_services ps
		JOIN services s ON s.id = ps.service_id
		WHERE ps.provider_id = ANY($1)
		ORDER BY s.name`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(providerIDs)); err != nil {
		return nil, fmt.Errorf("catalog repository: list provider services: %w", err)
	}

	byProvider := make(map[uuid.UUID][]repository.CatalogService, len(providerIDs))
	for _, row := range rows {
		byProvider[row.ProviderID] = append(byProvider[row.ProviderID], repository.CatalogService{
			ID:          row.Service.ID,
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
		})
	}
	return byProvider, nil
}

func (r *CatalogRepository) ProviderOffersService(ctx context.Context, providerID, serviceID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM provider_services WHERE provider_id = $1 AND service_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, providerID, serviceID); err != nil {
		return false, fmt.Errorf("catalog repository: check provider service: %w", err)
	}
	return exists, nil
}

func addOnRowsToCatalog(rows []models.ServiceAddOn) []repository.CatalogAddOn {
	addOns := make([]repository.CatalogAddOn, 0, len(rows))
	for _, row := range rows {
		addOns = append(addOns, repository.CatalogAddOn{
			ID:        row.ID,
			ServiceID: row.ServiceID,
			Name:      row.Name,
			Price:     row.Price,
		})
	}
	return addOns
}
