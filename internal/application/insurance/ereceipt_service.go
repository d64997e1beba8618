package insurance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/insurance"
	"github.com/xear/backend/internal/domain/patient"
	"github.com/xear/backend/internal/domain/shared"
)

// ObjectStorageService defines the interface for receipt document storage.
// Uploads and downloads go through presigned URLs so scans never pass
// through the API server.
type ObjectStorageService interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// EReceiptServiceConfig holds configuration for the e-receipt service
type EReceiptServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultEReceiptServiceConfig returns sensible defaults
func DefaultEReceiptServiceConfig() EReceiptServiceConfig {
	return EReceiptServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
	}
}

// EReceiptService handles SGK e-receipt operations: registration, patient
// matching and the claim lifecycle
type EReceiptService struct {
	receiptRepo    insurance.EReceiptRepository
	patientRepo    patient.PatientRepository
	matcher        *insurance.Matcher
	storageService ObjectStorageService
	config         EReceiptServiceConfig
	eventPublisher shared.EventPublisher
}

// NewEReceiptService creates a new EReceiptService
func NewEReceiptService(receiptRepo insurance.EReceiptRepository, patientRepo patient.PatientRepository, matcher *insurance.Matcher) *EReceiptService {
	return &EReceiptService{
		receiptRepo: receiptRepo,
		patientRepo: patientRepo,
		matcher:     matcher,
		config:      DefaultEReceiptServiceConfig(),
	}
}

// SetStorageService wires the document storage backend
func (s *EReceiptService) SetStorageService(storage ObjectStorageService) {
	s.storageService = storage
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *EReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Upload registers an e-receipt and runs an automatic match attempt
func (s *EReceiptService) Upload(ctx context.Context, tenantID uuid.UUID, req UploadEReceiptRequest) (*EReceiptResponse, error) {
	if existing, err := s.receiptRepo.FindByReceiptNumber(ctx, tenantID, req.ReceiptNumber); err == nil && existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_RECEIPT", "Receipt number is already registered")
	}

	receipt, err := insurance.NewEReceipt(tenantID, req.ReceiptNumber, req.PatientText, req.TCKNText, req.IssuedAt, req.ValidUntil)
	if err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		if err := receipt.AddLine(line.Description, line.Quantity, line.Barcode); err != nil {
			return nil, err
		}
	}

	// best-effort auto match; a failed candidate lookup leaves the
	// receipt pending for manual review
	if best, ok := s.autoMatch(ctx, tenantID, receipt); ok {
		patientID, err := uuid.Parse(best.PatientID)
		if err == nil {
			_ = receipt.Match(patientID, best.Score)
		}
	}

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}

	response := ToEReceiptResponse(receipt)
	return &response, nil
}

// GetByID retrieves an e-receipt by ID
func (s *EReceiptService) GetByID(ctx context.Context, tenantID, receiptID uuid.UUID) (*EReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToEReceiptResponse(receipt)
	return &response, nil
}

// List returns e-receipts for a tenant, optionally filtered by status
func (s *EReceiptService) List(ctx context.Context, tenantID uuid.UUID, status insurance.EReceiptStatus, filter shared.Filter) (*EReceiptListResponse, error) {
	var (
		receipts []*insurance.EReceipt
		err      error
	)
	if status != "" {
		receipts, err = s.receiptRepo.FindByStatus(ctx, tenantID, status, filter)
	} else {
		receipts, err = s.receiptRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}
	total, err := s.receiptRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]EReceiptResponse, len(receipts))
	for i, r := range receipts {
		responses[i] = ToEReceiptResponse(r)
	}
	return &EReceiptListResponse{
		Receipts: responses,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.PageSize,
	}, nil
}

// Suggestions returns ranked patient candidates for a pending receipt
func (s *EReceiptService) Suggestions(ctx context.Context, tenantID, receiptID uuid.UUID) ([]MatchSuggestionResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ranked := s.matcher.Rank(receipt, candidates)
	suggestions := make([]MatchSuggestionResponse, len(ranked))
	for i, r := range ranked {
		suggestions[i] = MatchSuggestionResponse{PatientID: r.PatientID, Score: r.Score}
	}
	return suggestions, nil
}

// Match manually links a receipt to a patient
func (s *EReceiptService) Match(ctx context.Context, tenantID, receiptID uuid.UUID, req MatchEReceiptRequest) (*EReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	if _, err := s.patientRepo.FindByIDForTenant(ctx, tenantID, req.PatientID); err != nil {
		return nil, err
	}

	// manual matches carry full confidence
	if err := receipt.Match(req.PatientID, 1.0); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	response := ToEReceiptResponse(receipt)
	return &response, nil
}

// Claim submits a matched receipt to SGK
func (s *EReceiptService) Claim(ctx context.Context, tenantID, receiptID uuid.UUID) (*EReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.Claim(time.Now()); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	response := ToEReceiptResponse(receipt)
	return &response, nil
}

// MarkPaid records SGK reimbursement
func (s *EReceiptService) MarkPaid(ctx context.Context, tenantID, receiptID uuid.UUID) (*EReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.MarkPaid(time.Now()); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	response := ToEReceiptResponse(receipt)
	return &response, nil
}

// Reject rejects a receipt
func (s *EReceiptService) Reject(ctx context.Context, tenantID, receiptID uuid.UUID, req RejectEReceiptRequest) (*EReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.Reject(req.Reason); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	response := ToEReceiptResponse(receipt)
	return &response, nil
}

// GenerateUploadURL issues a presigned URL for uploading the receipt scan
// and records the storage key on the receipt
func (s *EReceiptService) GenerateUploadURL(ctx context.Context, tenantID, receiptID uuid.UUID, contentType string) (string, time.Time, error) {
	if s.storageService == nil {
		return "", time.Time{}, shared.NewDomainError("STORAGE_UNAVAILABLE", "Document storage is not configured")
	}
	receipt, err := s.receiptRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return "", time.Time{}, err
	}

	key := fmt.Sprintf("tenants/%s/ereceipts/%s/scan", tenantID, receiptID)
	url, expiresAt, err := s.storageService.GenerateUploadURL(ctx, key, contentType, s.config.UploadURLExpiry)
	if err != nil {
		return "", time.Time{}, err
	}

	receipt.AttachDocument(key)
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return "", time.Time{}, err
	}
	return url, expiresAt, nil
}

// GenerateDownloadURL issues a presigned URL for viewing the receipt scan
func (s *EReceiptService) GenerateDownloadURL(ctx context.Context, tenantID, receiptID uuid.UUID) (string, time.Time, error) {
	if s.storageService == nil {
		return "", time.Time{}, shared.NewDomainError("STORAGE_UNAVAILABLE", "Document storage is not configured")
	}
	receipt, err := s.receiptRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return "", time.Time{}, err
	}
	if receipt.DocumentKey == "" {
		return "", time.Time{}, shared.NewDomainError("NO_DOCUMENT", "Receipt has no uploaded scan")
	}
	return s.storageService.GenerateDownloadURL(ctx, receipt.DocumentKey, s.config.DownloadURLExpiry)
}

func (s *EReceiptService) autoMatch(ctx context.Context, tenantID uuid.UUID, receipt *insurance.EReceipt) (insurance.MatchResult, bool) {
	candidates, err := s.candidates(ctx, tenantID)
	if err != nil {
		return insurance.MatchResult{}, false
	}
	return s.matcher.Best(receipt, candidates)
}

func (s *EReceiptService) candidates(ctx context.Context, tenantID uuid.UUID) ([]insurance.MatchCandidate, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 1000
	patients, err := s.patientRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	candidates := make([]insurance.MatchCandidate, len(patients))
	for i, p := range patients {
		candidates[i] = insurance.MatchCandidate{
			PatientID: p.ID.String(),
			FullName:  p.FullName(),
			TCKN:      p.TCKN,
		}
	}
	return candidates, nil
}
