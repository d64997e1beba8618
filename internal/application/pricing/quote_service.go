package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/pricing"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// QuoteService handles sale quote business operations
type QuoteService struct {
	quoteRepo      pricing.QuoteRepository
	evaluator      pricing.SchemeEvaluator
	eventPublisher shared.EventPublisher
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(quoteRepo pricing.QuoteRepository, evaluator pricing.SchemeEvaluator) *QuoteService {
	return &QuoteService{
		quoteRepo: quoteRepo,
		evaluator: evaluator,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft quote
func (s *QuoteService) Create(ctx context.Context, tenantID uuid.UUID, req CreateQuoteRequest) (*QuoteResponse, error) {
	quoteNumber, err := s.quoteRepo.GenerateQuoteNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	quote, err := pricing.NewSaleQuote(tenantID, quoteNumber, req.PatientID, req.PatientName)
	if err != nil {
		return nil, err
	}

	for _, input := range req.Items {
		if err := s.addItem(quote, AddQuoteItemRequest(input)); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		quote.SetNotes(req.Notes)
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quote)
	response := ToQuoteResponse(quote)
	return &response, nil
}

// GetByID retrieves a quote by ID
func (s *QuoteService) GetByID(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// List returns quotes for a tenant with pagination
func (s *QuoteService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*QuoteListResponse, error) {
	quotes, err := s.quoteRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.quoteRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToQuoteResponse(&quotes[i])
	}
	return &QuoteListResponse{
		Quotes: responses,
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.PageSize,
	}, nil
}

// ListByPatient returns quotes for one patient
func (s *QuoteService) ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID, filter shared.Filter) ([]QuoteResponse, error) {
	quotes, err := s.quoteRepo.FindByPatient(ctx, tenantID, patientID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToQuoteResponse(&quotes[i])
	}
	return responses, nil
}

// AddItem adds a line item to a draft quote. The insurance assessment is
// re-derived against the new taxable amount before the quote is saved.
func (s *QuoteService) AddItem(ctx context.Context, tenantID, quoteID uuid.UUID, req AddQuoteItemRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if err := s.addItem(quote, req); err != nil {
		return nil, err
	}
	if _, err := quote.Compute(ctx, s.evaluator); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.SaveWithLock(ctx, quote); err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// UpdateItem applies a partial update to a line item
func (s *QuoteService) UpdateItem(ctx context.Context, tenantID, quoteID, itemID uuid.UUID, req UpdateQuoteItemRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	update := pricing.ItemUpdate{
		Quantity:     req.Quantity,
		Discount:     req.Discount,
		DiscountType: req.DiscountType,
		EarSide:      req.EarSide,
	}
	if req.SalePrice != nil {
		price := valueobject.NewMoneyTRY(*req.SalePrice)
		update.SalePrice = &price
	}
	if err := quote.UpdateItem(itemID, update); err != nil {
		return nil, err
	}
	if _, err := quote.Compute(ctx, s.evaluator); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.SaveWithLock(ctx, quote); err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// RemoveItem removes a line item from a draft quote
func (s *QuoteService) RemoveItem(ctx context.Context, tenantID, quoteID, itemID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if err := quote.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if _, err := quote.Compute(ctx, s.evaluator); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.SaveWithLock(ctx, quote); err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// UpdateOptions merges option changes into a draft quote and recomputes the
// insurance assessment
func (s *QuoteService) UpdateOptions(ctx context.Context, tenantID, quoteID uuid.UUID, req UpdateQuoteOptionsRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	patch := pricing.OptionsPatch{
		VATRate:            req.VATRate,
		SchemeID:           req.SchemeID,
		PatientAge:         req.PatientAge,
		Bilateral:          req.Bilateral,
		GlobalDiscount:     req.GlobalDiscount,
		GlobalDiscountType: req.GlobalDiscountType,
	}
	if err := quote.UpdateOptions(patch); err != nil {
		return nil, err
	}
	if _, err := quote.Compute(ctx, s.evaluator); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.SaveWithLock(ctx, quote); err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// Compute re-runs the full breakdown including the insurance assessment
func (s *QuoteService) Compute(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if _, err := quote.Compute(ctx, s.evaluator); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.SaveWithLock(ctx, quote); err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// Preview runs a stateless single-line price preview
func (s *QuoteService) Preview(req PreviewRequest) PreviewResponse {
	input := pricing.PreviewInput{
		ListPrice:    valueobject.NewMoneyTRY(req.ListPrice),
		Quantity:     req.Quantity,
		DiscountType: req.DiscountType,
		VATRate:      req.VATRate,
	}
	if req.SalePrice != nil {
		price := valueobject.NewMoneyTRY(*req.SalePrice)
		input.SalePrice = &price
	}
	if req.Discount != nil {
		input.Discount = *req.Discount
		if input.DiscountType == "" {
			input.DiscountType = pricing.DiscountPercentage
		}
	}
	result := pricing.Preview(input)
	return PreviewResponse{
		GrossTotal:     result.GrossTotal.Amount(),
		DiscountAmount: result.DiscountAmount.Amount(),
		NetTotal:       result.NetTotal.Amount(),
		TaxAmount:      result.TaxAmount.Amount(),
		Total:          result.Total.Amount(),
	}
}

// Finalize locks the quote for invoicing. The insurance assessment runs one
// last time so the frozen figures are current.
func (s *QuoteService) Finalize(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if _, err := quote.Compute(ctx, s.evaluator); err != nil {
		return nil, err
	}
	if err := quote.Finalize(); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.SaveWithLock(ctx, quote); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quote)
	response := ToQuoteResponse(quote)
	return &response, nil
}

// Cancel aborts a draft quote
func (s *QuoteService) Cancel(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if err := quote.Cancel(); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.SaveWithLock(ctx, quote); err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

func (s *QuoteService) addItem(quote *pricing.SaleQuote, req AddQuoteItemRequest) error {
	listPrice := valueobject.NewMoneyTRY(req.ListPrice)
	var salePrice *valueobject.Money
	if req.SalePrice != nil {
		price := valueobject.NewMoneyTRY(*req.SalePrice)
		salePrice = &price
	}

	item, err := quote.AddItem(req.Name, listPrice, salePrice, req.Quantity)
	if err != nil {
		return err
	}
	if req.DeviceID != nil {
		item.DeviceID = req.DeviceID
	}
	if req.Discount != nil {
		discountType := req.DiscountType
		if discountType == "" {
			discountType = pricing.DiscountPercentage
		}
		if err := quote.UpdateItem(item.ID, pricing.ItemUpdate{Discount: req.Discount, DiscountType: &discountType}); err != nil {
			return err
		}
	}
	if req.EarSide != "" {
		side := req.EarSide
		if err := quote.UpdateItem(item.ID, pricing.ItemUpdate{EarSide: &side}); err != nil {
			return err
		}
	}
	return nil
}

func (s *QuoteService) publishEvents(ctx context.Context, quote *pricing.SaleQuote) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range quote.GetDomainEvents() {
		// event delivery is best effort; handlers are async
		_ = s.eventPublisher.Publish(ctx, event)
	}
	quote.ClearDomainEvents()
}
