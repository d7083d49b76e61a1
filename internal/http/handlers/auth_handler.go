package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mekaniko-ph/mekaniko-backend/internal/dto"
	"github.com/mekaniko-ph/mekaniko-backend/internal/http/handlers/common"
	"github.com/mekaniko-ph/mekaniko-backend/internal/service"
)

// AuthHandler serves registration, login and token refresh.
type AuthHandler struct {
	identity *service.IdentityService
}

func NewAuthHandler(identity *service.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.identity.Register(c.Request.Context(), service.RegisterInput{
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		Email:      req.Email,
		Username:   req.Username,
		Password:   req.Password,
		ContactNo:  req.ContactNo,
		Roles:      req.Roles,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, dto.AuthResponse{
		Account: dto.NewAccountResponse(result.Account, result.Roles),
		Tokens:  result.TokenPair,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.identity.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.AuthResponse{
		Account: dto.NewAccountResponse(result.Account, result.Roles),
		Tokens:  result.TokenPair,
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.identity.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.AuthResponse{
		Account: dto.NewAccountResponse(result.Account, result.Roles),
		Tokens:  result.TokenPair,
	})
}
