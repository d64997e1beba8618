package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	schedulingapp "github.com/xear/backend/internal/application/scheduling"
	"github.com/xear/backend/internal/interfaces/http/middleware"
)

// AppointmentHandler handles appointment scheduling endpoints
type AppointmentHandler struct {
	BaseHandler
	appointmentService *schedulingapp.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(appointmentService *schedulingapp.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// Schedule books a new appointment
func (h *AppointmentHandler) Schedule(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req schedulingapp.ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.appointmentService.Schedule(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns a single appointment
func (h *AppointmentHandler) GetByID(c *gin.Context) {
	tenantID, appointmentID, ok := h.tenantAndAppointment(c)
	if !ok {
		return
	}

	resp, err := h.appointmentService.GetByID(c.Request.Context(), tenantID, appointmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated list of appointments
func (h *AppointmentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.appointmentService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, resp.Appointments, resp.Total, filter.Page, filter.PageSize)
}

// ListByPatient returns a patient's appointment history
func (h *AppointmentHandler) ListByPatient(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	resp, err := h.appointmentService.ListByPatient(c.Request.Context(), tenantID, patientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reschedule moves an appointment to a new slot
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	tenantID, appointmentID, ok := h.tenantAndAppointment(c)
	if !ok {
		return
	}

	var req schedulingapp.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.appointmentService.Reschedule(c.Request.Context(), tenantID, appointmentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Confirm marks an appointment as confirmed by the patient
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	tenantID, appointmentID, ok := h.tenantAndAppointment(c)
	if !ok {
		return
	}

	resp, err := h.appointmentService.Confirm(c.Request.Context(), tenantID, appointmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Complete closes an appointment after the visit
func (h *AppointmentHandler) Complete(c *gin.Context) {
	tenantID, appointmentID, ok := h.tenantAndAppointment(c)
	if !ok {
		return
	}

	var req schedulingapp.CompleteAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.appointmentService.Complete(c.Request.Context(), tenantID, appointmentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels an appointment
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	tenantID, appointmentID, ok := h.tenantAndAppointment(c)
	if !ok {
		return
	}

	var req schedulingapp.CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.appointmentService.Cancel(c.Request.Context(), tenantID, appointmentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkNoShow records that the patient did not attend
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	tenantID, appointmentID, ok := h.tenantAndAppointment(c)
	if !ok {
		return
	}

	resp, err := h.appointmentService.MarkNoShow(c.Request.Context(), tenantID, appointmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

func (h *AppointmentHandler) tenantAndAppointment(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, false
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid appointment ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, appointmentID, true
}
