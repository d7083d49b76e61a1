package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/dto"
	"github.com/mekaniko-ph/mekaniko-backend/internal/http/handlers/common"
	"github.com/mekaniko-ph/mekaniko-backend/internal/usecase/feed"
)

// FeedHandler serves the read side: home feed, booking lists and request
// lists.
type FeedHandler struct {
	homeFeed       *feed.HomeFeedUseCase
	listBookings   *feed.ListBookingsUseCase
	bookingDetail  *feed.BookingDetailUseCase
	clientRequests *feed.ListClientRequestsUseCase
}

func NewFeedHandler(
	homeFeed *feed.HomeFeedUseCase,
	listBookings *feed.ListBookingsUseCase,
	bookingDetail *feed.BookingDetailUseCase,
	clientRequests *feed.ListClientRequestsUseCase,
) *FeedHandler {
	return &FeedHandler{
		homeFeed:       homeFeed,
		listBookings:   listBookings,
		bookingDetail:  bookingDetail,
		clientRequests: clientRequests,
	}
}

// HomeFeed handles GET /feed?act_as=client|mechanic|shop_owner.
// act_as defaults to client.
func (h *FeedHandler) HomeFeed(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	actAs := valueobject.Role(c.DefaultQuery("act_as", string(valueobject.RoleClient)))

	out, err := h.homeFeed.Execute(c.Request.Context(), auth, actAs)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.HomeFeedResponse{
		CurrentBookings: dto.NewBookingResponses(out.CurrentBookings),
		PendingRequests: dto.NewRequestResponses(out.PendingRequests),
	})
}

// ListBookings handles GET /bookings?status=...; with no status the
// bookings come back grouped per status with counts.
func (h *FeedHandler) ListBookings(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	out, err := h.listBookings.Execute(c.Request.Context(), auth, c.Query("status"))
	if err != nil {
		common.HandleError(c, err)
		return
	}

	resp := dto.ListBookingsResponse{Total: out.Total}
	if out.Groups != nil {
		resp.Groups = make([]dto.BookingGroupResponse, 0, len(out.Groups))
		for _, group := range out.Groups {
			resp.Groups = append(resp.Groups, dto.BookingGroupResponse{
				Status:   string(group.Status),
				Count:    group.Count,
				Bookings: dto.NewBookingResponses(group.Bookings),
			})
		}
	} else {
		resp.Bookings = dto.NewBookingResponses(out.Filtered)
	}

	common.RespondJSON(c, http.StatusOK, resp)
}

// BookingDetail handles GET /bookings/:id.
func (h *FeedHandler) BookingDetail(c *gin.Context) {
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

	booking, err := h.bookingDetail.Execute(c.Request.Context(), auth, bookingID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewBookingResponse(booking))
}

// ListRequests handles GET /requests, grouped by kind.
func (h *FeedHandler) ListRequests(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	out, err := h.clientRequests.Execute(c.Request.Context(), auth)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.ClientRequestsResponse{
		Custom:    dto.NewRequestResponses(out.Custom),
		Direct:    dto.NewRequestResponses(out.Direct),
		Emergency: dto.NewRequestResponses(out.Emergency),
		Total:     out.Total,
	})
}
