package insurance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/insurance"
	"github.com/xear/backend/internal/domain/shared"
)

// SchemeCache caches coverage schemes so the pricing hot path does not hit
// the database on every quote recomputation. Entries carry a TTL; a stale
// read after an update self-heals when the entry expires.
type SchemeCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, schemeID string) (*insurance.Scheme, bool)
	Set(ctx context.Context, tenantID uuid.UUID, scheme *insurance.Scheme, ttl time.Duration)
	Invalidate(ctx context.Context, tenantID uuid.UUID, schemeID string)
}

// SchemeServiceConfig holds configuration for the scheme service
type SchemeServiceConfig struct {
	CacheTTL time.Duration
}

// SchemeService manages tenant coverage scheme overrides and resolves
// schemes for the pricing evaluator. Tenants without overrides fall back
// to the built-in SGK defaults.
type SchemeService struct {
	schemeRepo insurance.SchemeRepository
	cache      SchemeCache
	config     SchemeServiceConfig
	defaults   map[string]*insurance.Scheme
}

// NewSchemeService creates a new SchemeService
func NewSchemeService(schemeRepo insurance.SchemeRepository) *SchemeService {
	defaults := make(map[string]*insurance.Scheme)
	for _, s := range insurance.DefaultSchemes() {
		scheme := s
		defaults[scheme.ID] = &scheme
	}
	return &SchemeService{
		schemeRepo: schemeRepo,
		config:     SchemeServiceConfig{CacheTTL: 5 * time.Minute},
		defaults:   defaults,
	}
}

// SetCache wires a scheme cache
func (s *SchemeService) SetCache(cache SchemeCache) {
	s.cache = cache
}

// GetScheme resolves a scheme for evaluation: cache, then tenant override,
// then built-in default. Implements insurance.SchemeProvider.
func (s *SchemeService) GetScheme(ctx context.Context, tenantID uuid.UUID, schemeID string) (*insurance.Scheme, error) {
	if s.cache != nil {
		if scheme, ok := s.cache.Get(ctx, tenantID, schemeID); ok {
			return scheme, nil
		}
	}

	scheme, err := s.schemeRepo.FindByID(ctx, tenantID, schemeID)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, err
		}
		scheme = s.defaults[schemeID]
	}
	if scheme == nil {
		return nil, nil
	}

	if s.cache != nil {
		s.cache.Set(ctx, tenantID, scheme, s.config.CacheTTL)
	}
	return scheme, nil
}

// List returns the effective schemes for a tenant: built-in defaults
// overlaid with tenant overrides
func (s *SchemeService) List(ctx context.Context, tenantID uuid.UUID) ([]SchemeResponse, error) {
	overrides, err := s.schemeRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	effective := make(map[string]*insurance.Scheme, len(s.defaults))
	for id, scheme := range s.defaults {
		effective[id] = scheme
	}
	for _, scheme := range overrides {
		effective[scheme.ID] = scheme
	}

	responses := make([]SchemeResponse, 0, len(effective))
	for _, scheme := range effective {
		responses = append(responses, toSchemeResponse(scheme))
	}
	return responses, nil
}

// Save stores a tenant scheme override and invalidates the cache entry
func (s *SchemeService) Save(ctx context.Context, tenantID uuid.UUID, scheme *insurance.Scheme) error {
	if err := scheme.Validate(); err != nil {
		return err
	}
	if err := s.schemeRepo.Save(ctx, tenantID, scheme); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, tenantID, scheme.ID)
	}
	return nil
}

// Delete removes a tenant override; the built-in default applies again
func (s *SchemeService) Delete(ctx context.Context, tenantID uuid.UUID, schemeID string) error {
	if err := s.schemeRepo.Delete(ctx, tenantID, schemeID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, tenantID, schemeID)
	}
	return nil
}

func toSchemeResponse(scheme *insurance.Scheme) SchemeResponse {
	return SchemeResponse{
		ID:              scheme.ID,
		Name:            scheme.Name,
		Bands:           scheme.Bands,
		CoveragePercent: scheme.CoveragePercent.IntPart(),
		BilateralDouble: scheme.BilateralDouble,
	}
}
