package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/dentalreserve/clinic-api/internal/middleware"
	"github.com/dentalreserve/clinic-api/internal/model"
	"github.com/dentalreserve/clinic-api/internal/service/auth"
	"github.com/dentalreserve/clinic-api/pkg/errors"
	"github.com/dentalreserve/clinic-api/pkg/httputil"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public login endpoint
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

// RegisterProfileRoutes registers the authenticated profile endpoints
func (h *Handler) RegisterProfileRoutes(r *gin.RouterGroup) {
	profile := r.Group("/profile")
	{
		profile.GET("/me", h.GetProfile)
		profile.PUT("/me", h.UpdateProfile)
		profile.PUT("/password", h.ChangePassword)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error()))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) GetProfile(c *gin.Context) {
	username, ok := h.caller(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), username)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	username, ok := h.caller(c)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error()))
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), username, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	username, ok := h.caller(c)
	if !ok {
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error()))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), username, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, nil)
}

func (h *Handler) caller(c *gin.Context) (string, bool) {
	username := c.GetString(middleware.ContextUsername)
	if username == "" {
		httputil.RespondWithError(c, errors.Unauthorized("missing caller identity"))
		return "", false
	}
	return username, true
}
