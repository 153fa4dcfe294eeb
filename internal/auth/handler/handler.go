// Package handler exposes the auth HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"convosell_backend/internal/auth/repository"
	"convosell_backend/internal/auth/service"
	"convosell_backend/internal/auth/transport"
	"convosell_backend/platform/httpkit"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Handler serves the auth endpoints.
type Handler struct {
	svc      *service.Service
	validate *validator.Validator
	log      *logger.Logger
}

// New creates the auth handler.
func New(svc *service.Service, validate *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, validate: validate, log: log}
}

// SignUp handles POST /auth/signup.
func (h *Handler) SignUp(c *gin.Context) {
	var req transport.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	result, err := h.svc.SignUp(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusCreated, toAuthResponse(result))
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, toAuthResponse(result))
}

// Verify handles POST /auth/verify. Invalid tokens are reported in the
// response body so frontends can check stored tokens without hitting 401s.
func (h *Handler) Verify(c *gin.Context) {
	var req transport.VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	result := h.svc.Verify(req.Token)
	resp := transport.VerifyTokenResponse{Valid: result.Valid}
	if result.Valid {
		resp.UserID = result.UserID.String()
		resp.Email = result.Email
	} else {
		resp.Error = result.Reason
	}
	httpkit.OK(c, http.StatusOK, resp)
}

// Me handles GET /auth/me.
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	user, err := h.svc.Me(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, toUserProfile(user))
}

func toAuthResponse(result *service.AuthResult) transport.AuthResponse {
	return transport.AuthResponse{
		AccessToken: result.AccessToken,
		User:        toUserProfile(result.User),
	}
}

func toUserProfile(user *repository.User) transport.UserProfile {
	return transport.UserProfile{
		ID:        user.ID.String(),
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
}
