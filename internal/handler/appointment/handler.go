package appointment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dentalreserve/clinic-api/internal/model"
	"github.com/dentalreserve/clinic-api/internal/service/appointment"
	"github.com/dentalreserve/clinic-api/internal/service/schedule"
	"github.com/dentalreserve/clinic-api/pkg/errors"
	"github.com/dentalreserve/clinic-api/pkg/httputil"
	"github.com/dentalreserve/clinic-api/pkg/validator"
)

type Handler struct {
	service   *appointment.Service
	validator *validator.Validator
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service, validator: validator.New()}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("/slots", h.AvailableSlots)
		appointments.GET("/stats", h.DayStats)
		appointments.GET("/practitioner", h.FindByPractitioner)
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
	r.GET("/waitlist", h.ListWaitlist)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var apt model.Appointment
	if err := c.ShouldBindJSON(&apt); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error()))
		return
	}
	apt.ID = 0 // identity is storage-assigned, never client-supplied

	created, err := h.service.CreateAppointment(c.Request.Context(), &apt)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, created)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	var apt model.Appointment
	if err := c.ShouldBindJSON(&apt); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error()))
		return
	}

	updated, err := h.service.UpdateAppointment(c.Request.Context(), id, &apt)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	var filters model.AppointmentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error()))
		return
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if appointments == nil {
		appointments = []*model.Appointment{}
	}
	httputil.RespondWithSuccess(c, appointments)
}

// FindByPractitioner serves both the single-date and the inclusive
// date-range calendar lookups.
func (h *Handler) FindByPractitioner(c *gin.Context) {
	name := c.Query("name")

	var (
		appointments []*model.Appointment
		err          error
	)
	if date := c.Query("date"); date != "" {
		appointments, err = h.service.FindByPractitionerAndDate(c.Request.Context(), name, date)
	} else {
		appointments, err = h.service.FindByPractitionerAndDateRange(c.Request.Context(), name, c.Query("start"), c.Query("end"))
	}
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if appointments == nil {
		appointments = []*model.Appointment{}
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) AvailableSlots(c *gin.Context) {
	req, ok := h.slotsRequest(c)
	if !ok {
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, slots)
}

func (h *Handler) DayStats(c *gin.Context) {
	req, ok := h.slotsRequest(c)
	if !ok {
		return
	}

	stats, err := h.service.DayStats(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, stats)
}

func (h *Handler) ListWaitlist(c *gin.Context) {
	entries, err := h.service.ListWaitlist(c.Request.Context(), c.Query("practitioner"), c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if entries == nil {
		entries = []*model.WaitlistEntry{}
	}
	httputil.RespondWithSuccess(c, entries)
}

func (h *Handler) appointmentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid appointment ID"))
		return 0, false
	}
	return id, true
}

func (h *Handler) slotsRequest(c *gin.Context) (*model.AvailableSlotsRequest, bool) {
	var req model.AvailableSlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error()))
		return nil, false
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error()))
		return nil, false
	}
	if req.StepMinutes == 0 {
		req.StepMinutes = schedule.DefaultStepMinutes
	}
	return &req, true
}
