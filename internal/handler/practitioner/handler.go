package practitioner

import (
	"github.com/gin-gonic/gin"

	"github.com/dentalreserve/clinic-api/internal/model"
	"github.com/dentalreserve/clinic-api/internal/service/practitioner"
	"github.com/dentalreserve/clinic-api/pkg/httputil"
)

type Handler struct {
	service *practitioner.Service
}

func NewHandler(service *practitioner.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/practitioners", h.ListPractitioners)
}

func (h *Handler) ListPractitioners(c *gin.Context) {
	practitioners, err := h.service.ListPractitioners(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if practitioners == nil {
		practitioners = []*model.Practitioner{}
	}
	httputil.RespondWithSuccess(c, practitioners)
}
