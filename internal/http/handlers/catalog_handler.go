package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mekaniko-ph/mekaniko-backend/internal/dto"
	"github.com/mekaniko-ph/mekaniko-backend/internal/http/handlers/common"
	"github.com/mekaniko-ph/mekaniko-backend/internal/repository"
)

// CatalogHandler serves the public service catalog.
type CatalogHandler struct {
	catalog *repository.CatalogRepository
}

func NewCatalogHandler(catalog *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListServices handles GET /catalog/services.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.catalog.ListServices(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	resp := make([]dto.ServiceResponse, 0, len(services))
	for _, svc := range services {
		resp = append(resp, dto.ServiceResponse{
			ID:          svc.ID,
			Name:        svc.Name,
			Description: svc.Description,
			Price:       svc.Price,
		})
	}
	common.RespondJSON(c, http.StatusOK, resp)
}

// GetService handles GET /catalog/services/:id.
func (h *CatalogHandler) GetService(c *gin.Context) {
	serviceID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid service id")
		return
	}

	svc, err := h.catalog.GetService(c.Request.Context(), serviceID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.ServiceResponse{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		Price:       svc.Price,
	})
}

// ListProviders handles GET /catalog/providers.
func (h *CatalogHandler) ListProviders(c *gin.Context) {
	providers, err := h.catalog.ListProviders(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	resp := make([]dto.ProviderResponse, 0, len(providers))
	for _, p := range providers {
		resp = append(resp, dto.NewProviderResponse(p))
	}
	common.RespondJSON(c, http.StatusOK, resp)
}

// ListProviderServices handles GET /catalog/providers/:id/services.
func (h *CatalogHandler) ListProviderServices(c *gin.Context) {
	providerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid provider id")
		return
	}

	services, err := h.catalog.GetProviderServices(c.Request.Context(), providerID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	serviceIDs := make([]uuid.UUID, 0, len(services))
	for _, svc := range services {
		serviceIDs = append(serviceIDs, svc.ID)
	}
	addOnsByService, err := h.catalog.GetAddOnsByServiceIDs(c.Request.Context(), serviceIDs)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	resp := make([]dto.ProviderServiceResponse, 0, len(services))
	for _, svc := range services {
		item := dto.ProviderServiceResponse{
			ServiceResponse: dto.ServiceResponse{
				ID:          svc.ID,
				Name:        svc.Name,
				Description: svc.Description,
				Price:       svc.Price,
			},
			AddOns: make([]dto.ServiceAddOnResponse, 0, len(addOnsByService[svc.ID])),
		}
		for _, addOn := range addOnsByService[svc.ID] {
			item.AddOns = append(item.AddOns, dto.ServiceAddOnResponse{
				ID:        addOn.ID,
				ServiceID: addOn.ServiceID,
				Name:      addOn.Name,
				Price:     addOn.Price,
			})
		}
		resp = append(resp, item)
	}
	common.RespondJSON(c, http.StatusOK, resp)
}

// ListServiceAddOns handles GET /catalog/services/:id/add-ons.
func (h *CatalogHandler) ListServiceAddOns(c *gin.Context) {
	serviceID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid service id")
		return
	}

	addOns, err := h.catalog.GetServiceAddOns(c.Request.Context(), serviceID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	resp := make([]dto.ServiceAddOnResponse, 0, len(addOns))
	for _, addOn := range addOns {
		resp = append(resp, dto.ServiceAddOnResponse{
			ID:        addOn.ID,
			ServiceID: addOn.ServiceID,
			Name:      addOn.Name,
			Price:     addOn.Price,
		})
	}
	common.RespondJSON(c, http.StatusOK, resp)
}
