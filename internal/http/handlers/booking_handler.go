package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/dto"
	"github.com/mekaniko-ph/mekaniko-backend/internal/http/handlers/common"
	bookinguc "github.com/mekaniko-ph/mekaniko-backend/internal/usecase/booking"
)

// BookingHandler serves the booking lifecycle from creation to its terminal
// states.
type BookingHandler struct {
	create         *bookinguc.CreateBookingUseCase
	startWork      *bookinguc.StartWorkUseCase
	markJobDone    *bookinguc.MarkJobDoneUseCase
	reschedule     *bookinguc.RescheduleBookingUseCase
	complete       *bookinguc.CompleteBookingUseCase
	cancel         *bookinguc.CancelBookingUseCase
	fileRework     *bookinguc.FileReworkUseCase
	resolveRework  *bookinguc.ResolveReworkUseCase
	fileDispute    *bookinguc.FileDisputeUseCase
	resolveDispute *bookinguc.ResolveDisputeUseCase
}

func NewBookingHandler(
	create *bookinguc.CreateBookingUseCase,
	startWork *bookinguc.StartWorkUseCase,
	markJobDone *bookinguc.MarkJobDoneUseCase,
	reschedule *bookinguc.RescheduleBookingUseCase,
	complete *bookinguc.CompleteBookingUseCase,
	cancel *bookinguc.CancelBookingUseCase,
	fileRework *bookinguc.FileReworkUseCase,
	resolveRework *bookinguc.ResolveReworkUseCase,
	fileDispute *bookinguc.FileDisputeUseCase,
	resolveDispute *bookinguc.ResolveDisputeUseCase,
) *BookingHandler {
	return &BookingHandler{
		create:         create,
		startWork:      startWork,
		markJobDone:    markJobDone,
		reschedule:     reschedule,
		complete:       complete,
		cancel:         cancel,
		fileRework:     fileRework,
		resolveRework:  resolveRework,
		fileDispute:    fileDispute,
		resolveDispute: resolveDispute,
	}
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateBookingRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		common.RespondBadRequest(c, "invalid request_id")
		return
	}

	booking, err := h.create.Execute(c.Request.Context(), auth, bookinguc.CreateBookingInput{
		RequestID: requestID,
		FeeAmount: req.FeeAmount,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, dto.NewBookingResponse(booking))
}

// StartWork handles POST /bookings/:id/start.
func (h *BookingHandler) StartWork(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid booking id")
		return
	}

	var req dto.StartWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.RespondBadRequest(c, err.Error())
		return
	}

	booking, err := h.startWork.Execute(c.Request.Context(), auth, bookinguc.StartWorkInput{
		BookingID:      bookingID,
		BeforePhotoURL: req.BeforePhotoURL,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewBookingResponse(booking))
}

// MarkJobDone handles POST /bookings/:id/done.
func (h *BookingHandler) MarkJobDone(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid booking id")
		return
	}

	var req dto.MarkJobDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.RespondBadRequest(c, err.Error())
		return
	}

	booking, err := h.markJobDone.Execute(c.Request.Context(), auth, bookinguc.MarkJobDoneInput{
		BookingID:     bookingID,
		AfterPhotoURL: req.AfterPhotoURL,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewBookingResponse(booking))
}

// Reschedule handles POST /bookings/:id/reschedule.
func (h *BookingHandler) Reschedule(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid booking id")
		return
	}

	var req dto.RescheduleRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	newDate, err := time.Parse("2006-01-02", req.NewDate)
	if err != nil {
		common.RespondBadRequest(c, "new_date must be YYYY-MM-DD")
		return
	}

	booking, err := h.reschedule.Execute(c.Request.Context(), auth, bookinguc.RescheduleBookingInput{
		BookingID: bookingID,
		Reason:    req.Reason,
		NewDate:   newDate,
		NewTime:   req.NewTime,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewBookingResponse(booking))
}

// Complete handles POST /bookings/:id/complete.
func (h *BookingHandler) Complete(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid booking id")
		return
	}

	var req dto.CompleteBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.RespondBadRequest(c, err.Error())
		return
	}

	input := bookinguc.CompleteBookingInput{
		BookingID: bookingID,
		Notes:     req.Notes,
	}
	if req.TotalAmount != nil {
		input.TotalAmount = *req.TotalAmount
	}

	booking, err := h.complete.Execute(c.Request.Context(), auth, input)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewBookingResponse(booking))
}

// Cancel handles POST /bookings/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid booking id")
		return
	}

	var req dto.CancelBookingRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	booking, err := h.cancel.Execute(c.Request.Context(), auth, bookinguc.CancelBookingInput{
		BookingID: bookingID,
		Reason:    req.Reason,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewBookingResponse(booking))
}

// FileRework handles POST /bookings/:id/rework.
func (h *BookingHandler) FileRework(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid booking id")
		return
	}

	var req dto.FileReworkRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	booking, err := h.fileRework.Execute(c.Request.Context(), auth, bookinguc.FileReworkInput{
		BookingID: bookingID,
		Reason:    req.Reason,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewBookingResponse(booking))
}

// ResolveRework handles POST /bookings/:id/rework/resolve.
func (h *BookingHandler) ResolveRework(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid booking id")
		return
	}

	var req dto.ResolveReworkRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.RespondBadRequest(c, err.Error())
		return
	}

	booking, err := h.resolveRework.Execute(c.Request.Context(), auth, bookinguc.ResolveReworkInput{
		BookingID:    bookingID,
		BackToActive: req.BackToActive,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewBookingResponse(booking))
}

// FileDispute handles POST /bookings/:id/dispute.
func (h *BookingHandler) FileDispute(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid booking id")
		return
	}

	var req dto.FileDisputeRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	against, err := parseOptionalUUID(req.ComplaintAgainst)
	if err != nil {
		common.RespondBadRequest(c, "invalid complaint_against")
		return
	}

	booking, err := h.fileDispute.Execute(c.Request.Context(), auth, bookinguc.FileDisputeInput{
		BookingID:        bookingID,
		Against:          against,
		IssueDescription: req.IssueDescription,
		IssuePhotoURL:    req.IssuePhotoURL,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewBookingResponse(booking))
}

// ResolveDispute handles POST /bookings/:id/dispute/resolve.
func (h *BookingHandler) ResolveDispute(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "invalid booking id")
		return
	}

	var req dto.ResolveDisputeRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	receiver, err := parseOptionalUUID(req.RefundReceiverID)
	if err != nil {
		common.RespondBadRequest(c, "invalid refund_receiver_id")
		return
	}

	booking, err := h.resolveDispute.Execute(c.Request.Context(), auth, bookinguc.ResolveDisputeInput{
		BookingID:       bookingID,
		ResolutionNotes: req.ResolutionNotes,
		Outcome:         valueobject.DisputeStatus(req.Outcome),
		RefundAmount:    req.AmountRefunded,
		RefundReceiver:  receiver,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewBookingResponse(booking))
}
