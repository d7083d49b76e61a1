package dto

// LocationRequest carries the service location of a request.
type LocationRequest struct {
	StreetName         string `json:"street_name" binding:"required"`
	SubdivisionVillage string `json:"subdivision_village"`
	Barangay           string `json:"barangay" binding:"required"`
	CityMunicipality   string `json:"city_municipality" binding:"required"`
	Landmark           string `json:"landmark"`
}

type RegisterRequest struct {
	LastName   string   `json:"last_name" binding:"required"`
	FirstName  string   `json:"first_name" binding:"required"`
	MiddleName *string  `json:"middle_name"`
	Email      string   `json:"email" binding:"required"`
	Username   string   `json:"username" binding:"required"`
	Password   string   `json:"password" binding:"required"`
	ContactNo  *string  `json:"contact_no"`
	Roles      []string `json:"roles"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type CreateCustomRequestRequest struct {
	ProviderID      *string         `json:"provider_id"`
	Description     string          `json:"description" binding:"required"`
	ConcernPhotoURL *string         `json:"concern_photo_url"`
	Location        LocationRequest `json:"location" binding:"required"`
}

type CreateDirectRequestRequest struct {
	ProviderID string          `json:"provider_id" binding:"required"`
	ServiceID  string          `json:"service_id" binding:"required"`
	AddOnIDs   []string        `json:"add_on_ids"`
	Location   LocationRequest `json:"location" binding:"required"`
}

type CreateEmergencyRequestRequest struct {
	ProviderID      *string         `json:"provider_id"`
	Description     string          `json:"description" binding:"required"`
	ConcernPhotoURL *string         `json:"concern_photo_url"`
	Location        LocationRequest `json:"location" binding:"required"`
}

type QuoteRequestRequest struct {
	QuotedPrice   float64 `json:"quoted_price" binding:"required"`
	ProvidersNote string  `json:"providers_note"`
}

// RespondRequestRequest answers a quoted or pending request.
// Action is "accept" or "reject".
type RespondRequestRequest struct {
	Action string `json:"action" binding:"required"`
}

type CreateBookingRequest struct {
	RequestID string   `json:"request_id" binding:"required"`
	FeeAmount *float64 `json:"fee_amount"`
}

type StartWorkRequest struct {
	BeforePhotoURL *string `json:"before_photo_url"`
}

type MarkJobDoneRequest struct {
	AfterPhotoURL *string `json:"after_photo_url"`
}

type RescheduleRequest struct {
	Reason  string `json:"reason" binding:"required"`
	NewDate string `json:"new_date" binding:"required"`
	NewTime string `json:"new_time"`
}

type CompleteBookingRequest struct {
	TotalAmount *float64 `json:"total_amount"`
	Notes       string   `json:"notes"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type FileReworkRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ResolveReworkRequest struct {
	BackToActive bool `json:"back_to_active"`
}

type FileDisputeRequest struct {
	ComplaintAgainst *string `json:"complaint_against"`
	IssueDescription string  `json:"issue_description" binding:"required"`
	IssuePhotoURL    *string `json:"issue_photo_url"`
}

type ResolveDisputeRequest struct {
	Outcome          string   `json:"outcome" binding:"required"`
	ResolutionNotes  string   `json:"resolution_notes"`
	AmountRefunded   *float64 `json:"amount_refunded"`
	RefundReceiverID *string  `json:"refund_receiver_id"`
}
