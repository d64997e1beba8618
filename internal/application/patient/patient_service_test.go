package patient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xear/backend/internal/domain/patient"
	"github.com/xear/backend/internal/domain/shared"
)

// MockPatientRepository is a mock implementation of PatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*patient.Patient, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindByTCKN(ctx context.Context, tenantID uuid.UUID, tckn string) (*patient.Patient, error) {
	args := m.Called(ctx, tenantID, tckn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*patient.Patient, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) Search(ctx context.Context, tenantID uuid.UUID, query string, filter shared.Filter) ([]*patient.Patient, error) {
	args := m.Called(ctx, tenantID, query, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPatientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func validRegisterRequest() RegisterPatientRequest {
	return RegisterPatientRequest{
		TCKN:      "10000000146",
		FirstName: "Ayşe",
		LastName:  "Yılmaz",
		BirthDate: time.Date(1958, 2, 10, 0, 0, 0, 0, time.UTC),
		Phone:     "0532 123 45 67",
		SGKStatus: "RETIRED",
	}
}

func TestPatientService_Register(t *testing.T) {
	tenantID := uuid.New()

	t.Run("successful registration", func(t *testing.T) {
		repo := new(MockPatientRepository)
		publisher := new(MockEventPublisher)
		service := NewPatientService(repo)
		service.SetEventPublisher(publisher)

		repo.On("FindByTCKN", mock.Anything, tenantID, "10000000146").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*patient.Patient")).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := service.Register(context.Background(), tenantID, validRegisterRequest())

		require.NoError(t, err)
		assert.Equal(t, "Ayşe Yılmaz", resp.FullName)
		assert.Equal(t, "+905321234567", resp.Phone)
		assert.Equal(t, patient.SGKStatusRetired, resp.SGKStatus)
		assert.Equal(t, "sgk-retired", resp.CoverageSchemeID)
		repo.AssertExpectations(t)
		publisher.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("duplicate tckn rejected", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := NewPatientService(repo)

		existing, err := patient.NewPatient(tenantID, "10000000146", "Ayşe", "Yılmaz",
			time.Date(1958, 2, 10, 0, 0, 0, 0, time.UTC), "5321234567")
		require.NoError(t, err)
		repo.On("FindByTCKN", mock.Anything, tenantID, "10000000146").Return(existing, nil)

		_, err = service.Register(context.Background(), tenantID, validRegisterRequest())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TCKN_IN_USE", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid tckn checksum rejected", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := NewPatientService(repo)

		req := validRegisterRequest()
		req.TCKN = "12345678901"
		repo.On("FindByTCKN", mock.Anything, tenantID, "12345678901").Return(nil, shared.ErrNotFound)

		_, err := service.Register(context.Background(), tenantID, req)
		assert.Error(t, err)
	})

	t.Run("repository lookup failure surfaces", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := NewPatientService(repo)

		repo.On("FindByTCKN", mock.Anything, tenantID, "10000000146").Return(nil, assert.AnError)

		_, err := service.Register(context.Background(), tenantID, validRegisterRequest())
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestPatientService_Mutations(t *testing.T) {
	tenantID := uuid.New()

	newService := func(t *testing.T) (*PatientService, *MockPatientRepository, *patient.Patient) {
		t.Helper()
		repo := new(MockPatientRepository)
		service := NewPatientService(repo)
		p, err := patient.NewPatient(tenantID, "10000000146", "Ayşe", "Yılmaz",
			time.Date(1958, 2, 10, 0, 0, 0, 0, time.UTC), "5321234567")
		require.NoError(t, err)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
		return service, repo, p
	}

	t.Run("update contact", func(t *testing.T) {
		service, repo, p := newService(t)
		repo.On("Save", mock.Anything, p).Return(nil)

		resp, err := service.UpdateContact(context.Background(), tenantID, p.ID, UpdateContactRequest{
			Phone: "0216 555 00 11", Email: "ayse@example.com", Address: "Kadıköy, İstanbul",
		})
		require.NoError(t, err)
		assert.Equal(t, "+902165550011", resp.Phone)
		assert.Equal(t, "ayse@example.com", resp.Email)
	})

	t.Run("hearing loss marks bilateral fitting", func(t *testing.T) {
		service, repo, p := newService(t)
		repo.On("Save", mock.Anything, p).Return(nil)

		resp, err := service.RecordHearingLoss(context.Background(), tenantID, p.ID, RecordHearingLossRequest{LeftDB: 65, RightDB: 70})
		require.NoError(t, err)
		assert.True(t, resp.BilateralFitting)
	})

	t.Run("archive blocks further contact updates", func(t *testing.T) {
		service, repo, p := newService(t)
		repo.On("Save", mock.Anything, p).Return(nil)

		resp, err := service.Archive(context.Background(), tenantID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, patient.PatientStatusArchived, resp.Status)

		_, err = service.UpdateContact(context.Background(), tenantID, p.ID, UpdateContactRequest{Phone: "5329998877"})
		assert.Error(t, err)
	})

	t.Run("missing patient returns not found", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := NewPatientService(repo)
		missingID := uuid.New()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, missingID).Return(nil, shared.ErrNotFound)

		_, err := service.Archive(context.Background(), tenantID, missingID)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestPatientService_List(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockPatientRepository)
	service := NewPatientService(repo)

	p, err := patient.NewPatient(tenantID, "10000000146", "Ayşe", "Yılmaz",
		time.Date(1958, 2, 10, 0, 0, 0, 0, time.UTC), "5321234567")
	require.NoError(t, err)

	filter := shared.Filter{Page: 1, PageSize: 20}
	repo.On("FindAllForTenant", mock.Anything, tenantID, filter).Return([]*patient.Patient{p}, nil)
	repo.On("CountForTenant", mock.Anything, tenantID, filter).Return(int64(1), nil)

	resp, err := service.List(context.Background(), tenantID, filter)
	require.NoError(t, err)
	assert.Len(t, resp.Patients, 1)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, 1, resp.Page)
}
