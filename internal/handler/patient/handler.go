package patient

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dentalreserve/clinic-api/internal/model"
	"github.com/dentalreserve/clinic-api/internal/service/patient"
	"github.com/dentalreserve/clinic-api/pkg/errors"
	"github.com/dentalreserve/clinic-api/pkg/httputil"
)

type Handler struct {
	service *patient.Service
}

func NewHandler(service *patient.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("/stats", h.Stats)
		patients.GET("/by-matricule/:matricule", h.GetByMatricule)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.GET("/:id/appointments", h.ListAppointments)
	}
}

func (h *Handler) ListPatients(c *gin.Context) {
	var filters model.PatientFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error()))
		return
	}

	patients, err := h.service.ListPatients(c.Request.Context(), &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if patients == nil {
		patients = []*model.Patient{}
	}
	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := h.patientID(c)
	if !ok {
		return
	}

	p, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) GetByMatricule(c *gin.Context) {
	p, err := h.service.GetByMatricule(c.Request.Context(), c.Param("matricule"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	id, ok := h.patientID(c)
	if !ok {
		return
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if appointments == nil {
		appointments = []*model.Appointment{}
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, stats)
}

func (h *Handler) patientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid patient ID"))
		return 0, false
	}
	return id, true
}
