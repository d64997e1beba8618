package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	patientapp "github.com/xear/backend/internal/application/patient"
	"github.com/xear/backend/internal/interfaces/http/middleware"
)

// maxImportFileSize limits patient CSV uploads to 10 MB
const maxImportFileSize = 10 << 20

// PatientHandler handles patient record endpoints
type PatientHandler struct {
	BaseHandler
	patientService *patientapp.PatientService
	importService  *patientapp.PatientImportService
}

// NewPatientHandler creates a new PatientHandler
func NewPatientHandler(patientService *patientapp.PatientService, importService *patientapp.PatientImportService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
		importService:  importService,
	}
}

// Register creates a new patient record
func (h *PatientHandler) Register(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req patientapp.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.patientService.Register(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns a single patient
func (h *PatientHandler) GetByID(c *gin.Context) {
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

	resp, err := h.patientService.GetByID(c.Request.Context(), tenantID, patientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByTCKN returns a patient by national identity number
func (h *PatientHandler) GetByTCKN(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	tckn := c.Param("tckn")
	if tckn == "" {
		h.BadRequest(c, "TCKN is required")
		return
	}

	resp, err := h.patientService.GetByTCKN(c.Request.Context(), tenantID, tckn)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated list of patients
func (h *PatientHandler) List(c *gin.Context) {
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

	resp, err := h.patientService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, resp.Patients, resp.Total, filter.Page, filter.PageSize)
}

// Search finds patients by name, TCKN or phone fragment
func (h *PatientHandler) Search(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	query := c.Query("q")
	if query == "" {
		h.BadRequest(c, "Search query is required")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.patientService.Search(c.Request.Context(), tenantID, query, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateContact updates a patient's contact information
func (h *PatientHandler) UpdateContact(c *gin.Context) {
	tenantID, patientID, ok := h.tenantAndPatient(c)
	if !ok {
		return
	}

	var req patientapp.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.patientService.UpdateContact(c.Request.Context(), tenantID, patientID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetSGKStatus changes the patient's social security standing
func (h *PatientHandler) SetSGKStatus(c *gin.Context) {
	tenantID, patientID, ok := h.tenantAndPatient(c)
	if !ok {
		return
	}

	var req patientapp.SetSGKStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.patientService.SetSGKStatus(c.Request.Context(), tenantID, patientID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RecordHearingLoss stores an audiometry measurement
func (h *PatientHandler) RecordHearingLoss(c *gin.Context) {
	tenantID, patientID, ok := h.tenantAndPatient(c)
	if !ok {
		return
	}

	var req patientapp.RecordHearingLossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.patientService.RecordHearingLoss(c.Request.Context(), tenantID, patientID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetNotes replaces the clinical notes
func (h *PatientHandler) SetNotes(c *gin.Context) {
	tenantID, patientID, ok := h.tenantAndPatient(c)
	if !ok {
		return
	}

	var req patientapp.SetNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.patientService.SetNotes(c.Request.Context(), tenantID, patientID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Archive soft-removes a patient record
func (h *PatientHandler) Archive(c *gin.Context) {
	tenantID, patientID, ok := h.tenantAndPatient(c)
	if !ok {
		return
	}

	resp, err := h.patientService.Archive(c.Request.Context(), tenantID, patientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Restore reactivates an archived patient record
func (h *PatientHandler) Restore(c *gin.Context) {
	tenantID, patientID, ok := h.tenantAndPatient(c)
	if !ok {
		return
	}

	resp, err := h.patientService.Restore(c.Request.Context(), tenantID, patientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Import bulk-imports patients from an uploaded CSV file.
// Pass ?dry_run=true to validate without writing.
func (h *PatientHandler) Import(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, _ := getUserID(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "CSV file is required (multipart field 'file')")
		return
	}
	defer file.Close()

	if header.Size > maxImportFileSize {
		h.BadRequest(c, "File exceeds the 10 MB import limit")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImportFileSize+1))
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	if len(data) > maxImportFileSize {
		h.BadRequest(c, "File exceeds the 10 MB import limit")
		return
	}

	dryRun := c.Query("dry_run") == "true"

	result, err := h.importService.ImportCSV(c.Request.Context(), tenantID, userID, header.Filename, data, dryRun)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *PatientHandler) tenantAndPatient(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, false
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, patientID, true
}
