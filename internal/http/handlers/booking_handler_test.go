package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/http/middleware"
)

func TestBookingHandler_StartWork_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BookingHandler{}
	r.POST("/bookings/:id/start", handler.StartWork)

	bookingID := uuid.New()
	req, _ := http.NewRequest("POST", "/bookings/"+bookingID.String()+"/start", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandler_StartWork_InvalidBookingID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextAuthKey, valueobject.AuthContext{
			AccountID: uuid.New(),
			Roles:     []valueobject.Role{valueobject.RoleMechanic},
		})
		c.Next()
	})
	handler := &BookingHandler{}
	r.POST("/bookings/:id/start", handler.StartWork)

	req, _ := http.NewRequest("POST", "/bookings/invalid-uuid/start", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_Create_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BookingHandler{}
	r.POST("/bookings", handler.Create)

	req, _ := http.NewRequest("POST", "/bookings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestHandler_Quote_InvalidRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextAuthKey, valueobject.AuthContext{
			AccountID: uuid.New(),
			Roles:     []valueobject.Role{valueobject.RoleMechanic},
		})
		c.Next()
	})
	handler := &RequestHandler{}
	r.POST("/requests/:id/quote", handler.Quote)

	req, _ := http.NewRequest("POST", "/requests/invalid-uuid/quote", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_ListProviderServices_InvalidProviderID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &CatalogHandler{}
	r.GET("/catalog/providers/:id/services", handler.ListProviderServices)

	req, _ := http.NewRequest("GET", "/catalog/providers/invalid-uuid/services", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedHandler_HomeFeed_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &FeedHandler{}
	r.GET("/feed", handler.HomeFeed)

	req, _ := http.NewRequest("GET", "/feed", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
