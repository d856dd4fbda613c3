package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/etracking_app/internal/apperrors"
	"github.com/SscSPs/etracking_app/internal/core/domain"
	portssvc "github.com/SscSPs/etracking_app/internal/core/ports/services"
	"github.com/SscSPs/etracking_app/internal/dto"
	"github.com/SscSPs/etracking_app/internal/handlers"
	"github.com/SscSPs/etracking_app/internal/platform/config"
	"github.com/SscSPs/etracking_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReferenceService ---
type MockReferenceService struct {
	mock.Mock
}

func (m *MockReferenceService) ListEmployees(ctx context.Context, position *domain.Position) ([]domain.Employee, error) {
	args := m.Called(ctx, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}
func (m *MockReferenceService) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Warehouse), args.Error(1)
}
func (m *MockReferenceService) FindEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}
func (m *MockReferenceService) FindWarehouse(ctx context.Context, id string) (*domain.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Warehouse), args.Error(1)
}
func (m *MockReferenceService) Seed(ctx context.Context, employees []domain.Employee, warehouses []domain.Warehouse, actor string) error {
	return m.Called(ctx, employees, warehouses, actor).Error(0)
}

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

var (
	_ portssvc.ReferenceSvcFacade = (*MockReferenceService)(nil)
	_ portssvc.AuthSvcFacade      = (*MockAuthService)(nil)
)

type ReferenceHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockReference *MockReferenceService
	mockAuth      *MockAuthService
	token         string
}

func (suite *ReferenceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockReference = new(MockReferenceService)
	suite.mockAuth = new(MockAuthService)

	cfg := &config.Config{
		JWTSecret:    "test-secret-key-that-is-long-enough",
		RateLimit:    "1000-M",
		IsProduction: true,
	}
	var err error
	suite.token, err = utils.GenerateJWT("admin", cfg.JWTSecret, time.Hour, "etracking-test")
	suite.Require().NoError(err)

	services := &portssvc.ServiceContainer{
		Tracking:  new(MockTrackingService),
		Reference: suite.mockReference,
		Auth:      suite.mockAuth,
	}
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, services))
}

func (suite *ReferenceHandlerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ReferenceHandlerTestSuite) authed(method, url string, body []byte) *http.Request {
	req, _ := http.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (suite *ReferenceHandlerTestSuite) TestListEmployees_FiltersByPosition() {
	driver := domain.PositionLorryDriver
	suite.mockReference.On("ListEmployees", mock.Anything, &driver).
		Return([]domain.Employee{{ID: "e1", Name: "Raju", Position: driver}}, nil).Once()

	w := suite.serve(suite.authed(http.MethodGet, "/api/v1/employees?position=Lorry+Driver", nil))

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.EmployeeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Require().Len(res, 1)
	suite.Equal("Lorry Driver", res[0].Position)
	suite.mockReference.AssertExpectations(suite.T())
}

func (suite *ReferenceHandlerTestSuite) TestListEmployees_RejectsUnknownPosition() {
	w := suite.serve(suite.authed(http.MethodGet, "/api/v1/employees?position=Manager", nil))

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ReferenceHandlerTestSuite) TestListWarehouses_Failure() {
	suite.mockReference.On("ListWarehouses", mock.Anything).Return(nil, errors.New("db down")).Once()

	w := suite.serve(suite.authed(http.MethodGet, "/api/v1/warehouses", nil))

	suite.Equal(http.StatusInternalServerError, w.Code)
}

func (suite *ReferenceHandlerTestSuite) TestSeed() {
	suite.mockReference.On("Seed", mock.Anything,
		[]domain.Employee{{ID: "e1", Name: "Ali", Position: domain.PositionSalesman}},
		[]domain.Warehouse{{ID: "w1", Name: "Keruing"}},
		"admin").Return(nil).Once()

	body := []byte(`{"employees":[{"id":"e1","name":"Ali","position":"Salesman"}],"warehouses":[{"id":"w1","name":"Keruing"}]}`)
	w := suite.serve(suite.authed(http.MethodPost, "/api/v1/reference/seed", body))

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockReference.AssertExpectations(suite.T())
}

func (suite *ReferenceHandlerTestSuite) TestLogin() {
	expires := time.Date(2025, 6, 15, 21, 0, 0, 0, time.UTC)
	suite.mockAuth.On("Login", mock.Anything, dto.LoginRequest{Username: "admin", Password: "secret"}).
		Return(&dto.LoginResponse{Token: "tok", ExpiresAt: expires}, nil).Once()
	suite.mockAuth.On("Login", mock.Anything, dto.LoginRequest{Username: "admin", Password: "wrong"}).
		Return(nil, apperrors.ErrUnauthorized).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"username":"admin","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	w := suite.serve(req)
	suite.Equal(http.StatusOK, w.Code)
	var res dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("tok", res.Token)

	req, _ = http.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"username":"admin","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	w = suite.serve(req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ReferenceHandlerTestSuite) TestHealth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func TestReferenceHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReferenceHandlerTestSuite))
}
