package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	patientapp "github.com/xear/backend/internal/application/patient"
	"github.com/xear/backend/internal/domain/patient"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/interfaces/http/middleware"
)

// MockPatientRepository is a mock implementation of patient.PatientRepository
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

// authStub injects JWT identity the way the auth middleware would
func authStub(tenantID, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, tenantID.String())
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Next()
	}
}

func setupPatientRouter(repo *MockPatientRepository, tenantID, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := patientapp.NewPatientService(repo)
	importService := patientapp.NewPatientImportService(repo, service)
	handler := NewPatientHandler(service, importService)

	r := gin.New()
	g := r.Group("/api/v1/patients")
	g.Use(authStub(tenantID, userID))
	{
		g.POST("", handler.Register)
		g.GET("", handler.List)
		g.GET("/:id", handler.GetByID)
		g.POST("/import", handler.Import)
	}
	return r
}

func testPatient(t *testing.T, tenantID uuid.UUID) *patient.Patient {
	t.Helper()
	p, err := patient.NewPatient(tenantID, "10000000146", "Ayşe", "Yılmaz",
		time.Date(1958, 2, 10, 0, 0, 0, 0, time.UTC), "5321234567")
	require.NoError(t, err)
	return p
}

func TestPatientHandler_Register(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("successful registration", func(t *testing.T) {
		repo := new(MockPatientRepository)
		repo.On("FindByTCKN", mock.Anything, tenantID, "10000000146").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*patient.Patient")).Return(nil)

		router := setupPatientRouter(repo, tenantID, userID)

		w := postJSON(router, "/api/v1/patients", gin.H{
			"tckn":       "10000000146",
			"first_name": "Ayşe",
			"last_name":  "Yılmaz",
			"birth_date": "1958-02-10T00:00:00Z",
			"phone":      "0532 123 45 67",
			"sgk_status": "RETIRED",
		}, nil)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Ayşe Yılmaz")
		repo.AssertExpectations(t)
	})

	t.Run("duplicate TCKN", func(t *testing.T) {
		repo := new(MockPatientRepository)
		existing := testPatient(t, tenantID)
		repo.On("FindByTCKN", mock.Anything, tenantID, "10000000146").Return(existing, nil)

		router := setupPatientRouter(repo, tenantID, userID)

		w := postJSON(router, "/api/v1/patients", gin.H{
			"tckn":       "10000000146",
			"first_name": "Ayşe",
			"last_name":  "Yılmaz",
			"birth_date": "1958-02-10T00:00:00Z",
			"phone":      "0532 123 45 67",
		}, nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("invalid body", func(t *testing.T) {
		router := setupPatientRouter(new(MockPatientRepository), tenantID, userID)

		w := postJSON(router, "/api/v1/patients", gin.H{"tckn": "123"}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_VALIDATION")
	})
}

func TestPatientHandler_GetByID(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		repo := new(MockPatientRepository)
		p := testPatient(t, tenantID)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)

		router := setupPatientRouter(repo, tenantID, userID)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+p.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), p.ID.String())
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockPatientRepository)
		missing := uuid.New()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, missing).Return(nil, shared.ErrNotFound)

		router := setupPatientRouter(repo, tenantID, userID)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+missing.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		router := setupPatientRouter(new(MockPatientRepository), tenantID, userID)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPatientHandler_List(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	repo := new(MockPatientRepository)
	p := testPatient(t, tenantID)
	repo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
		Return([]*patient.Patient{p}, nil)
	repo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
		Return(int64(1), nil)

	router := setupPatientRouter(repo, tenantID, userID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients?page=1&page_size=20", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Meta    struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestPatientHandler_Import(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	csvData := "tckn,first_name,last_name,birth_date,phone,email,address,sgk_status\n" +
		"10000000146,Ayşe,Yılmaz,1958-02-10,0532 123 45 67,,,RETIRED\n"

	buildMultipart := func(t *testing.T) (*bytes.Buffer, string) {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "patients.csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(csvData))
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return &buf, mw.FormDataContentType()
	}

	t.Run("dry run validates only", func(t *testing.T) {
		repo := new(MockPatientRepository)
		repo.On("FindByTCKN", mock.Anything, tenantID, "10000000146").Return(nil, shared.ErrNotFound)

		router := setupPatientRouter(repo, tenantID, userID)

		body, contentType := buildMultipart(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/patients/import?dry_run=true", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"dry_run":true`)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("imports rows", func(t *testing.T) {
		repo := new(MockPatientRepository)
		repo.On("FindByTCKN", mock.Anything, tenantID, "10000000146").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*patient.Patient")).Return(nil)

		router := setupPatientRouter(repo, tenantID, userID)

		body, contentType := buildMultipart(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/patients/import", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"imported_rows":1`)
		repo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("missing file", func(t *testing.T) {
		router := setupPatientRouter(new(MockPatientRepository), tenantID, userID)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/patients/import", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
