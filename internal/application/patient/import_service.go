package patient

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/patient"
	"github.com/xear/backend/internal/domain/shared"
	csvimport "github.com/xear/backend/internal/infrastructure/import"
)

// PatientImportResult summarizes a bulk patient import
type PatientImportResult struct {
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	ErrorRows    int                  `json:"error_rows"`
	DryRun       bool                 `json:"dry_run"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
	TotalErrors  int                  `json:"total_errors,omitempty"`
}

// PatientImportService imports patient records from CSV files, typically
// used when a clinic migrates from another practice management system.
type PatientImportService struct {
	patientRepo    patient.PatientRepository
	patientService *PatientService
	maxRows        int
	maxErrors      int
}

// NewPatientImportService creates a new PatientImportService
func NewPatientImportService(patientRepo patient.PatientRepository, patientService *PatientService) *PatientImportService {
	return &PatientImportService{
		patientRepo:    patientRepo,
		patientService: patientService,
		maxRows:        10000,
		maxErrors:      100,
	}
}

// ValidationRules returns the CSV column rules for patient import
func (s *PatientImportService) ValidationRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field("tckn").Required().String().Length(11, 11).Custom(validateTCKNColumn).Unique().Build(),
		csvimport.Field("first_name").Required().String().MinLength(1).MaxLength(100).Build(),
		csvimport.Field("last_name").Required().String().MinLength(1).MaxLength(100).Build(),
		csvimport.Field("birth_date").Required().Date().Build(),
		csvimport.Field("phone").Required().String().MaxLength(50).Build(),
		csvimport.Field("email").String().Email().Build(),
		csvimport.Field("address").String().MaxLength(500).Build(),
		csvimport.Field("sgk_status").String().Custom(validateSGKStatusColumn).Build(),
	}
}

func validateTCKNColumn(value string) error {
	if value == "" {
		return nil // caught by required check
	}
	return patient.ValidateTCKN(value)
}

func validateSGKStatusColumn(value string) error {
	switch strings.ToUpper(value) {
	case "", "NONE", "ACTIVE", "RETIRED":
		return nil
	default:
		return shared.NewDomainError("INVALID_SGK_STATUS", "sgk_status must be NONE, ACTIVE or RETIRED")
	}
}

// lookupUniqueTCKN reports whether the TCKN is already registered in the clinic
func (s *PatientImportService) lookupUniqueTCKN(ctx context.Context, tenantID uuid.UUID) func(entityType, field, value string) (bool, error) {
	return func(_, field, value string) (bool, error) {
		if field != "tckn" || value == "" {
			return false, nil
		}
		_, err := s.patientRepo.FindByTCKN(ctx, tenantID, value)
		if err != nil {
			if shared.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}
}

// ImportCSV validates and imports a patient CSV file. With dryRun set the
// file is only validated and no rows are written.
func (s *PatientImportService) ImportCSV(ctx context.Context, tenantID, userID uuid.UUID, fileName string, data []byte, dryRun bool) (*PatientImportResult, error) {
	session := csvimport.NewImportSession(tenantID, userID, csvimport.EntityPatients, fileName, int64(len(data)))

	processor := csvimport.NewImportProcessor(
		csvimport.WithMaxRows(s.maxRows),
		csvimport.WithMaxErrors(s.maxErrors),
		csvimport.WithUniqueLookup(s.lookupUniqueTCKN(ctx, tenantID)),
	)

	validation, err := processor.Validate(ctx, session, bytes.NewReader(data), s.ValidationRules())
	if err != nil {
		return nil, err
	}

	result := &PatientImportResult{
		TotalRows:   validation.TotalRows,
		ErrorRows:   validation.ErrorRows,
		DryRun:      dryRun,
		Errors:      validation.Errors,
		IsTruncated: validation.IsTruncated,
		TotalErrors: validation.TotalErrors,
	}

	if dryRun || !session.IsValid() {
		return result, nil
	}

	// Re-parse and register the validated rows
	parser, err := csvimport.ParseFromBytes(data)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}

	session.UpdateState(csvimport.StateImporting)
	errs := csvimport.NewErrorCollection(s.maxErrors)

	for {
		select {
		case <-ctx.Done():
			session.UpdateState(csvimport.StateCancelled)
			return nil, ctx.Err()
		default:
		}

		row, readErr := parser.ReadRow()
		if readErr != nil {
			break
		}
		if row.IsEmpty() {
			continue
		}

		s.importRow(ctx, tenantID, row, result, errs)
	}

	result.Errors = errs.Errors()
	result.IsTruncated = errs.IsTruncated()
	result.TotalErrors = errs.TotalCount()

	if result.ErrorRows > 0 {
		session.UpdateState(csvimport.StateFailed)
	} else {
		session.UpdateState(csvimport.StateCompleted)
	}

	return result, nil
}

func (s *PatientImportService) importRow(ctx context.Context, tenantID uuid.UUID, row *csvimport.Row, result *PatientImportResult, errs *csvimport.ErrorCollection) {
	birthDate, err := time.Parse("2006-01-02", strings.TrimSpace(row.Get("birth_date")))
	if err != nil {
		errs.AddFormatError(row.LineNumber, "birth_date", "2006-01-02", row.Get("birth_date"))
		result.ErrorRows++
		return
	}

	req := RegisterPatientRequest{
		TCKN:      strings.TrimSpace(row.Get("tckn")),
		FirstName: strings.TrimSpace(row.Get("first_name")),
		LastName:  strings.TrimSpace(row.Get("last_name")),
		BirthDate: birthDate,
		Phone:     strings.TrimSpace(row.Get("phone")),
		Email:     strings.TrimSpace(row.Get("email")),
		Address:   strings.TrimSpace(row.Get("address")),
		SGKStatus: strings.ToUpper(strings.TrimSpace(row.Get("sgk_status"))),
	}

	if _, err := s.patientService.Register(ctx, tenantID, req); err != nil {
		code := csvimport.ErrCodeImportValidation
		message := err.Error()
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			code = domainErr.Code
			message = domainErr.Message
		}
		errs.Add(csvimport.NewRowError(row.LineNumber, "", code, message))
		result.ErrorRows++
		return
	}

	result.ImportedRows++
}
