package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mekaniko-ph/mekaniko-backend/internal/dto"
	"github.com/mekaniko-ph/mekaniko-backend/internal/http/handlers/common"
	requestuc "github.com/mekaniko-ph/mekaniko-backend/internal/usecase/request"
)

// RequestHandler serves the pre-booking request lifecycle: creation of the
// three request kinds, quoting and accept/reject responses.
type RequestHandler struct {
	createCustom    *requestuc.CreateCustomRequestUseCase
	createDirect    *requestuc.CreateDirectRequestUseCase
	createEmergency *requestuc.CreateEmergencyRequestUseCase
	quote           *requestuc.QuoteCustomRequestUseCase
	respond         *requestuc.RespondToRequestUseCase
}

func NewRequestHandler(
	createCustom *requestuc.CreateCustomRequestUseCase,
	createDirect *requestuc.CreateDirectRequestUseCase,
	createEmergency *requestuc.CreateEmergencyRequestUseCase,
	quote *requestuc.QuoteCustomRequestUseCase,
	respond *requestuc.RespondToRequestUseCase,
) *RequestHandler {
	return &RequestHandler{
		createCustom:    createCustom,
		createDirect:    createDirect,
		createEmergency: createEmergency,
		quote:           quote,
		respond:         respond,
	}
}

func locationInput(req dto.LocationRequest) requestuc.LocationInput {
	return requestuc.LocationInput{
		StreetName:         req.StreetName,
		SubdivisionVillage: req.SubdivisionVillage,
		Barangay:           req.Barangay,
		CityMunicipality:   req.CityMunicipality,
		Landmark:           req.Landmark,
	}
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(*raw)
	if err != nil {
		return nil, common.ErrInvalidUUID
	}
	return &parsed, nil
}

// CreateCustom handles POST /requests/custom.
func (h *RequestHandler) CreateCustom(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateCustomRequestRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	providerID, err := parseOptionalUUID(req.ProviderID)
	if err != nil {
		common.RespondBadRequest(c, "invalid provider_id")
		return
	}

	created, err := h.createCustom.Execute(c.Request.Context(), auth, requestuc.CreateCustomRequestInput{
		ProviderID:      providerID,
		Description:     req.Description,
		Location:        locationInput(req.Location),
		ConcernPhotoURL: req.ConcernPhotoURL,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, dto.NewRequestResponse(created))
}

// CreateDirect handles POST /requests/direct.
func (h *RequestHandler) CreateDirect(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateDirectRequestRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		common.RespondBadRequest(c, "invalid provider_id")
		return
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		common.RespondBadRequest(c, "invalid service_id")
		return
	}

	// Malformed add-on ids are dropped along with unknown ones.
	addOnIDs := make([]uuid.UUID, 0, len(req.AddOnIDs))
	for _, raw := range req.AddOnIDs {
		if id, err := uuid.Parse(raw); err == nil {
			addOnIDs = append(addOnIDs, id)
		}
	}

	out, err := h.createDirect.Execute(c.Request.Context(), auth, requestuc.CreateDirectRequestInput{
		ProviderID: providerID,
		ServiceID:  serviceID,
		Location:   locationInput(req.Location),
		AddOnIDs:   addOnIDs,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, dto.DirectRequestCreatedResponse{
		Request:       dto.NewRequestResponse(out.Request),
		ServicePrice:  out.ServicePrice,
		AppliedAddOns: dto.NewAppliedAddOnResponses(out.AppliedAddOns),
		TotalPrice:    out.TotalPrice,
	})
}

// CreateEmergency handles POST /requests/emergency.
func (h *RequestHandler) CreateEmergency(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateEmergencyRequestRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	providerID, err := parseOptionalUUID(req.ProviderID)
	if err != nil {
		common.RespondBadRequest(c, "invalid provider_id")
		return
	}

	created, err := h.createEmergency.Execute(c.Request.Context(), auth, requestuc.CreateEmergencyRequestInput{
		ProviderID:      providerID,
		Description:     req.Description,
		Location:        locationInput(req.Location),
		ConcernPhotoURL: req.ConcernPhotoURL,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, dto.NewRequestResponse(created))
}

// Quote handles POST /requests/:id/quote.
func (h *RequestHandler) Quote(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid request id")
		return
	}

	var req dto.QuoteRequestRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	quoted, err := h.quote.Execute(c.Request.Context(), auth, requestuc.QuoteCustomRequestInput{
		RequestID: requestID,
		Price:     req.QuotedPrice,
		Note:      req.ProvidersNote,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewRequestResponse(quoted))
}

// Respond handles POST /requests/:id/respond.
func (h *RequestHandler) Respond(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid request id")
		return
	}

	var req dto.RespondRequestRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var accept bool
	switch req.Action {
	case "accept":
		accept = true
	case "reject":
		accept = false
	default:
		common.RespondBadRequest(c, "action must be accept or reject")
		return
	}

	answered, err := h.respond.Execute(c.Request.Context(), auth, requestuc.RespondToRequestInput{
		RequestID: requestID,
		Accept:    accept,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewRequestResponse(answered))
}
