package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/entity"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/models"
	"github.com/mekaniko-ph/mekaniko-backend/internal/service"
)

// ErrorResponse represents a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse represents a standard success response.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type LocationResponse struct {
	StreetName         string `json:"street_name"`
	SubdivisionVillage string `json:"subdivision_village,omitempty"`
	Barangay           string `json:"barangay"`
	CityMunicipality   string `json:"city_municipality"`
	Landmark           string `json:"landmark,omitempty"`
}

// RequestResponse flattens a request and its kind-detail record. Status is
// omitted for emergency requests, which carry none.
type RequestResponse struct {
	ID              uuid.UUID        `json:"id"`
	ClientID        uuid.UUID        `json:"client_id"`
	ProviderID      *uuid.UUID       `json:"provider_id,omitempty"`
	Kind            string           `json:"kind"`
	Status          *string          `json:"status,omitempty"`
	Description     string           `json:"description,omitempty"`
	ConcernPhotoURL *string          `json:"concern_photo_url,omitempty"`
	ProvidersNote   string           `json:"providers_note,omitempty"`
	QuotedPrice     *float64         `json:"quoted_price,omitempty"`
	ServiceID       *uuid.UUID       `json:"service_id,omitempty"`
	AddOnIDs        []uuid.UUID      `json:"add_on_ids,omitempty"`
	BookingID       *uuid.UUID       `json:"booking_id,omitempty"`
	HasBooking      bool             `json:"has_booking"`
	Location        LocationResponse `json:"location"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func NewRequestResponse(req *entity.Request) *RequestResponse {
	resp := &RequestResponse{
		ID:         req.ID,
		ClientID:   req.ClientID,
		ProviderID: req.ProviderID,
		Kind:       string(req.Kind),
		BookingID:  req.BookingID,
		HasBooking: req.BookingID != nil,
		Location: LocationResponse{
			StreetName:         req.Location.StreetName,
			SubdivisionVillage: req.Location.SubdivisionVillage,
			Barangay:           req.Location.Barangay,
			CityMunicipality:   req.Location.CityMunicipality,
			Landmark:           req.Location.Landmark,
		},
		CreatedAt: req.CreatedAt,
		UpdatedAt: req.UpdatedAt,
	}

	switch {
	case req.Custom != nil:
		status := string(req.Custom.Status)
		resp.Status = &status
		resp.Description = req.Custom.Description
		resp.ConcernPhotoURL = req.Custom.ConcernPhotoURL
		resp.ProvidersNote = req.Custom.ProvidersNote
		resp.QuotedPrice = req.Custom.QuotedPrice
	case req.Direct != nil:
		status := string(req.Direct.Status)
		resp.Status = &status
		serviceID := req.Direct.ServiceID
		resp.ServiceID = &serviceID
		resp.AddOnIDs = req.Direct.AddOnIDs
	case req.Emergency != nil:
		resp.Description = req.Emergency.Description
		resp.ConcernPhotoURL = req.Emergency.ConcernPhotoURL
		resp.ProvidersNote = req.Emergency.ProvidersNote
	}

	return resp
}

func NewRequestResponses(requests []*entity.Request) []*RequestResponse {
	responses := make([]*RequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, NewRequestResponse(req))
	}
	return responses
}

// AppliedAddOnResponse is one resolved add-on with its price.
type AppliedAddOnResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

// DirectRequestCreatedResponse returns the created direct request with its
// computed pricing breakdown.
type DirectRequestCreatedResponse struct {
	Request       *RequestResponse       `json:"request"`
	ServicePrice  float64                `json:"service_price"`
	AppliedAddOns []AppliedAddOnResponse `json:"applied_add_ons"`
	TotalPrice    float64                `json:"total_price"`
}

func NewAppliedAddOnResponses(addOns []repository.CatalogAddOn) []AppliedAddOnResponse {
	responses := make([]AppliedAddOnResponse, 0, len(addOns))
	for _, addOn := range addOns {
		responses = append(responses, AppliedAddOnResponse{
			ID:    addOn.ID,
			Name:  addOn.Name,
			Price: addOn.Price,
		})
	}
	return responses
}

type ActiveDetailResponse struct {
	BeforePhotoURL *string    `json:"before_photo_url,omitempty"`
	AfterPhotoURL  *string    `json:"after_photo_url,omitempty"`
	IsJobDone      bool       `json:"is_job_done"`
	IsRescheduled  bool       `json:"is_rescheduled"`
	Reason         string     `json:"reason,omitempty"`
	NewDate        *time.Time `json:"new_date,omitempty"`
	NewTime        string     `json:"new_time,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
}

type ReworkDetailResponse struct {
	RequestedBy uuid.UUID  `json:"requested_by"`
	Reason      string     `json:"reason"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type CancelDetailResponse struct {
	CancelledBy uuid.UUID `json:"cancelled_by"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

type DisputeDetailResponse struct {
	Complainer       uuid.UUID  `json:"complainer_id"`
	ComplaintAgainst uuid.UUID  `json:"complaint_against_id"`
	AdminID          *uuid.UUID `json:"admin_id,omitempty"`
	IssueDescription string     `json:"issue_description"`
	IssuePhotoURL    *string    `json:"issue_photo_url,omitempty"`
	ResolutionNotes  string     `json:"resolution_notes,omitempty"`
	Status           string     `json:"status"`
	AmountRefunded   *float64   `json:"amount_refunded,omitempty"`
	RefundReceiverID *uuid.UUID `json:"refund_receiver_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
}

type CompleteDetailResponse struct {
	CompletedAt time.Time `json:"completed_at"`
	TotalAmount float64   `json:"total_amount"`
	Notes       string    `json:"notes,omitempty"`
}

// BookingResponse carries a booking with every detail record it has
// accumulated plus the originating request.
type BookingResponse struct {
	ID          uuid.UUID               `json:"id"`
	RequestID   uuid.UUID               `json:"request_id"`
	Status      string                  `json:"status"`
	AmountFee   float64                 `json:"amount_fee"`
	BookedAt    time.Time               `json:"booked_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	CompletedAt *time.Time              `json:"completed_at,omitempty"`
	Active      *ActiveDetailResponse   `json:"active_detail,omitempty"`
	Rework      *ReworkDetailResponse   `json:"rework_detail,omitempty"`
	Cancel      *CancelDetailResponse   `json:"cancel_detail,omitempty"`
	Dispute     *DisputeDetailResponse  `json:"dispute_detail,omitempty"`
	Complete    *CompleteDetailResponse `json:"complete_detail,omitempty"`
	Request     *RequestResponse        `json:"request,omitempty"`
}

func NewBookingResponse(b *entity.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:          b.ID,
		RequestID:   b.RequestID,
		Status:      string(b.Status),
		AmountFee:   b.AmountFee,
		BookedAt:    b.BookedAt,
		UpdatedAt:   b.UpdatedAt,
		CompletedAt: b.CompletedAt,
	}

	// Only the record matching the current status goes out; superseded
	// records (a completion behind a dispute, work photos behind a rework)
	// stay internal.
	switch b.Status {
	case valueobject.BookingStatusActive:
		if b.Active != nil {
			resp.Active = &ActiveDetailResponse{
				BeforePhotoURL: b.Active.BeforePhotoURL,
				AfterPhotoURL:  b.Active.AfterPhotoURL,
				IsJobDone:      b.Active.IsJobDone,
				IsRescheduled:  b.Active.IsRescheduled,
				Reason:         b.Active.Reason,
				NewDate:        b.Active.NewDate,
				NewTime:        b.Active.NewTime,
				StartedAt:      b.Active.StartedAt,
			}
		}
	case valueobject.BookingStatusReworked:
		if b.Rework != nil {
			resp.Rework = &ReworkDetailResponse{
				RequestedBy: b.Rework.RequestedBy,
				Reason:      b.Rework.Reason,
				CreatedAt:   b.Rework.CreatedAt,
				CompletedAt: b.Rework.CompletedAt,
			}
		}
	case valueobject.BookingStatusCancelled:
		if b.Cancel != nil {
			resp.Cancel = &CancelDetailResponse{
				CancelledBy: b.Cancel.CancelledBy,
				Reason:      b.Cancel.Reason,
				CancelledAt: b.Cancel.CancelledAt,
			}
		}
	case valueobject.BookingStatusDisputed:
		if b.Dispute != nil {
			resp.Dispute = &DisputeDetailResponse{
				Complainer:       b.Dispute.Complainer,
				ComplaintAgainst: b.Dispute.ComplaintAgainst,
				AdminID:          b.Dispute.AdminID,
				IssueDescription: b.Dispute.IssueDescription,
				IssuePhotoURL:    b.Dispute.IssuePhotoURL,
				ResolutionNotes:  b.Dispute.ResolutionNotes,
				Status:           string(b.Dispute.Status),
				AmountRefunded:   b.Dispute.AmountRefunded,
				RefundReceiverID: b.Dispute.RefundReceiverID,
				CreatedAt:        b.Dispute.CreatedAt,
				ResolvedAt:       b.Dispute.ResolvedAt,
			}
		}
	case valueobject.BookingStatusCompleted:
		if b.Complete != nil {
			resp.Complete = &CompleteDetailResponse{
				CompletedAt: b.Complete.CompletedAt,
				TotalAmount: b.Complete.TotalAmount,
				Notes:       b.Complete.Notes,
			}
		}
	}
	if b.Request != nil {
		resp.Request = NewRequestResponse(b.Request)
	}

	return resp
}

func NewBookingResponses(bookings []*entity.Booking) []*BookingResponse {
	responses := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, NewBookingResponse(b))
	}
	return responses
}

// BookingGroupResponse is one status bucket of the grouped booking list.
type BookingGroupResponse struct {
	Status   string             `json:"status"`
	Count    int                `json:"count"`
	Bookings []*BookingResponse `json:"bookings"`
}

type ListBookingsResponse struct {
	Groups   []BookingGroupResponse `json:"groups,omitempty"`
	Bookings []*BookingResponse     `json:"bookings,omitempty"`
	Total    int                    `json:"total"`
}

type HomeFeedResponse struct {
	CurrentBookings []*BookingResponse `json:"current_bookings"`
	PendingRequests []*RequestResponse `json:"pending_requests"`
}

type ClientRequestsResponse struct {
	Custom    []*RequestResponse `json:"custom"`
	Direct    []*RequestResponse `json:"direct"`
	Emergency []*RequestResponse `json:"emergency"`
	Total     int                `json:"total"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID         uuid.UUID `json:"id"`
	LastName   string    `json:"last_name"`
	FirstName  string    `json:"first_name"`
	MiddleName *string   `json:"middle_name,omitempty"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	ContactNo  *string   `json:"contact_no,omitempty"`
	Roles      []string  `json:"roles"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewAccountResponse(account *models.Account, roles []string) *AccountResponse {
	return &AccountResponse{
		ID:         account.ID,
		LastName:   account.LastName,
		FirstName:  account.FirstName,
		MiddleName: account.MiddleName,
		Email:      account.Email,
		Username:   account.Username,
		ContactNo:  account.ContactNo,
		Roles:      roles,
		IsVerified: account.IsVerified,
		CreatedAt:  account.CreatedAt,
	}
}

type AuthResponse struct {
	Account *AccountResponse   `json:"account"`
	Tokens  *service.TokenPair `json:"tokens"`
}

type ServiceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
}

type ServiceAddOnResponse struct {
	ID        uuid.UUID `json:"id"`
	ServiceID uuid.UUID `json:"service_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
}

type ProviderServiceResponse struct {
	ServiceResponse
	AddOns []ServiceAddOnResponse `json:"add_ons"`
}

type ProviderResponse struct {
	ID        uuid.UUID         `json:"id"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Username  string            `json:"username"`
	ContactNo *string           `json:"contact_no,omitempty"`
	Services  []ServiceResponse `json:"services"`
}

func NewProviderResponse(p repository.CatalogProvider) ProviderResponse {
	services := make([]ServiceResponse, 0, len(p.Services))
	for _, svc := range p.Services {
		services = append(services, ServiceResponse{
			ID:          svc.ID,
			Name:        svc.Name,
			Description: svc.Description,
			Price:       svc.Price,
		})
	}
	return ProviderResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Username:  p.Username,
		ContactNo: p.ContactNo,
		Services:  services,
	}
}

type UploadResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}
