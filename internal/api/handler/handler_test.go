package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/model"
	"staffhub/backend/internal/service"
	"staffhub/backend/pkg/jwt"
	"staffhub/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 绑定校验要求 uuid 格式，测试统一使用固定 UUID
const (
	testShiftID    = "11111111-1111-1111-1111-111111111111"
	testEmployeeID = "22222222-2222-2222-2222-222222222222"
	testTargetID   = "33333333-3333-3333-3333-333333333333"
	testRequestID  = "44444444-4444-4444-4444-444444444444"
)

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	currentResult *dto.EmployeeResponse
	currentErr    error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentEmployee(_ context.Context, _ string) (*dto.EmployeeResponse, error) {
	return m.currentResult, m.currentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock ExchangeService ──

type mockExchangeService struct {
	createResult  *dto.ExchangeRequestResponse
	createErr     error
	listResult    []dto.ExchangeRequestResponse
	listTotal     int64
	listErr       error
	approveResult *dto.ExchangeRequestResponse
	approveErr    error
	approveCalled bool
	rejectResult  *dto.ExchangeRequestResponse
	rejectErr     error
	rejectCalled  bool
	cancelErr     error
	directResult  *dto.ShiftResponse
	directErr     error
	historyResult []dto.ExchangeLogResponse
	historyErr    error
}

func (m *mockExchangeService) CreateRequest(_ context.Context, _ *dto.CreateExchangeRequest, _, _ string) (*dto.ExchangeRequestResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockExchangeService) List(_ context.Context, _ *dto.ExchangeListRequest) ([]dto.ExchangeRequestResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockExchangeService) Approve(_ context.Context, _, _ string) (*dto.ExchangeRequestResponse, error) {
	m.approveCalled = true
	return m.approveResult, m.approveErr
}
func (m *mockExchangeService) Reject(_ context.Context, _, _ string) (*dto.ExchangeRequestResponse, error) {
	m.rejectCalled = true
	return m.rejectResult, m.rejectErr
}
func (m *mockExchangeService) Cancel(_ context.Context, _, _, _ string) error {
	return m.cancelErr
}
func (m *mockExchangeService) DirectExchange(_ context.Context, _ string, _ *dto.DirectExchangeRequest, _ string) (*dto.ShiftResponse, error) {
	return m.directResult, m.directErr
}
func (m *mockExchangeService) History(_ context.Context, _ string) ([]dto.ExchangeLogResponse, error) {
	return m.historyResult, m.historyErr
}

// ── Mock ShiftService ──

type mockShiftService struct {
	createResult  *dto.ShiftResponse
	createErr     error
	getResult     *dto.ShiftResponse
	getErr        error
	listResult    []dto.ShiftResponse
	listTotal     int64
	listErr       error
	updateResult  *dto.ShiftResponse
	updateErr     error
	approveResult *dto.ShiftResponse
	approveErr    error
	deleteErr     error
}

func (m *mockShiftService) Create(_ context.Context, _ *dto.CreateShiftRequest, _ string) (*dto.ShiftResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockShiftService) GetByID(_ context.Context, _ string) (*dto.ShiftResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockShiftService) List(_ context.Context, _ *dto.ShiftListRequest) ([]dto.ShiftResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockShiftService) Update(_ context.Context, _ string, _ *dto.UpdateShiftRequest, _ string) (*dto.ShiftResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockShiftService) Approve(_ context.Context, _ string, _ string) (*dto.ShiftResponse, error) {
	return m.approveResult, m.approveErr
}
func (m *mockShiftService) Delete(_ context.Context, _ string, _ string) error {
	return m.deleteErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportPayrollPeriod(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportSchedule(_ context.Context, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportEmployeeCalendar(_ context.Context, _, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set("employee_id", testEmployeeID)
	c.Set("role", "admin")
	c.Set("department_id", "test-dept-id")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func conflictFixture() *service.ConflictError {
	end := "12:00"
	return &service.ConflictError{Shift: &model.Shift{
		ShiftID:    testShiftID,
		EmployeeID: testTargetID,
		WorkDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:  "09:00",
		EndTime:    &end,
	}}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrAuthInvalidCredentials})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "wrong-password",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExchangeHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExchangeHandler_CreateExchange_Success(t *testing.T) {
	mock := &mockExchangeService{
		createResult: &dto.ExchangeRequestResponse{
			ID:           testRequestID,
			ExchangeType: "handover",
			Status:       "pending",
		},
	}
	h := NewExchangeHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/shift-exchanges", jsonBody(dto.CreateExchangeRequest{
		ShiftID:      testShiftID,
		ToEmployeeID: testTargetID,
		ExchangeType: "handover",
		Reason:       "家里有事",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/shift-exchanges", func(c *gin.Context) {
		setAuth(c)
		h.CreateExchange(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestExchangeHandler_CreateExchange_Unauthenticated(t *testing.T) {
	h := NewExchangeHandler(&mockExchangeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/shift-exchanges", jsonBody(dto.CreateExchangeRequest{
		ShiftID:      testShiftID,
		ToEmployeeID: testTargetID,
		ExchangeType: "handover",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/shift-exchanges", h.CreateExchange)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10002 {
		t.Errorf("expected error code 10002, got %d", resp.Code)
	}
}

func TestExchangeHandler_CreateExchange_InvalidType(t *testing.T) {
	// exchange_type 不在 swap/handover 枚举内应被绑定层拒绝
	h := NewExchangeHandler(&mockExchangeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/shift-exchanges", jsonBody(map[string]string{
		"shift_id":       testShiftID,
		"to_employee_id": testTargetID,
		"exchange_type":  "magic",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/shift-exchanges", func(c *gin.Context) {
		setAuth(c)
		h.CreateExchange(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExchangeHandler_CreateExchange_DuplicateActive(t *testing.T) {
	h := NewExchangeHandler(&mockExchangeService{createErr: service.ErrExchangeDuplicateActive})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/shift-exchanges", jsonBody(dto.CreateExchangeRequest{
		ShiftID:      testShiftID,
		ToEmployeeID: testTargetID,
		ExchangeType: "handover",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/shift-exchanges", func(c *gin.Context) {
		setAuth(c)
		h.CreateExchange(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14005 {
		t.Errorf("expected error code 14005, got %d", resp.Code)
	}
}

func TestExchangeHandler_ResolveExchange_Approve(t *testing.T) {
	mock := &mockExchangeService{
		approveResult: &dto.ExchangeRequestResponse{ID: testRequestID, Status: "approved"},
	}
	h := NewExchangeHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/shift-exchanges/"+testRequestID, jsonBody(dto.ResolveExchangeRequest{
		Status: "approved",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PATCH("/shift-exchanges/:id", func(c *gin.Context) {
		setAuth(c)
		h.ResolveExchange(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !mock.approveCalled {
		t.Error("expected Approve to be called")
	}
	if mock.rejectCalled {
		t.Error("expected Reject not to be called")
	}
}

func TestExchangeHandler_ResolveExchange_Reject(t *testing.T) {
	mock := &mockExchangeService{
		rejectResult: &dto.ExchangeRequestResponse{ID: testRequestID, Status: "rejected"},
	}
	h := NewExchangeHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/shift-exchanges/"+testRequestID, jsonBody(dto.ResolveExchangeRequest{
		Status: "rejected",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PATCH("/shift-exchanges/:id", func(c *gin.Context) {
		setAuth(c)
		h.ResolveExchange(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !mock.rejectCalled {
		t.Error("expected Reject to be called")
	}
}

func TestExchangeHandler_ResolveExchange_InvalidStatus(t *testing.T) {
	h := NewExchangeHandler(&mockExchangeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/shift-exchanges/"+testRequestID, jsonBody(map[string]string{
		"status": "cancelled",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PATCH("/shift-exchanges/:id", func(c *gin.Context) {
		setAuth(c)
		h.ResolveExchange(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExchangeHandler_ResolveExchange_Conflict(t *testing.T) {
	h := NewExchangeHandler(&mockExchangeService{approveErr: conflictFixture()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/shift-exchanges/"+testRequestID, jsonBody(dto.ResolveExchangeRequest{
		Status: "approved",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PATCH("/shift-exchanges/:id", func(c *gin.Context) {
		setAuth(c)
		h.ResolveExchange(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13009 {
		t.Errorf("expected error code 13009, got %d", resp.Code)
	}
	// 冲突响应必须携带冲突班次详情
	detail, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected conflict detail object, got %T", resp.Data)
	}
	if detail["shift_id"] != testShiftID {
		t.Errorf("expected conflict shift_id %s, got %v", testShiftID, detail["shift_id"])
	}
	if detail["time"] != "09:00-12:00" {
		t.Errorf("expected conflict time 09:00-12:00, got %v", detail["time"])
	}
	if detail["work_date"] != "2026-03-02" {
		t.Errorf("expected conflict work_date 2026-03-02, got %v", detail["work_date"])
	}
}

func TestExchangeHandler_ResolveExchange_NotPending(t *testing.T) {
	h := NewExchangeHandler(&mockExchangeService{approveErr: service.ErrExchangeInvalidState})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/shift-exchanges/"+testRequestID, jsonBody(dto.ResolveExchangeRequest{
		Status: "approved",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PATCH("/shift-exchanges/:id", func(c *gin.Context) {
		setAuth(c)
		h.ResolveExchange(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14003 {
		t.Errorf("expected error code 14003, got %d", resp.Code)
	}
}

func TestExchangeHandler_CancelExchange_Forbidden(t *testing.T) {
	h := NewExchangeHandler(&mockExchangeService{cancelErr: service.ErrExchangeNotRequester})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/shift-exchanges/"+testRequestID, nil)

	r := gin.New()
	r.DELETE("/shift-exchanges/:id", func(c *gin.Context) {
		setAuth(c)
		h.CancelExchange(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14007 {
		t.Errorf("expected error code 14007, got %d", resp.Code)
	}
}

func TestExchangeHandler_DirectExchange_Success(t *testing.T) {
	mock := &mockExchangeService{
		directResult: &dto.ShiftResponse{ID: testShiftID, StartTime: "09:00"},
	}
	h := NewExchangeHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/shifts/"+testShiftID+"/exchange", jsonBody(dto.DirectExchangeRequest{
		NewEmployeeID: testTargetID,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/shifts/:id/exchange", func(c *gin.Context) {
		setAuth(c)
		h.DirectExchange(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestExchangeHandler_DirectExchange_Conflict(t *testing.T) {
	h := NewExchangeHandler(&mockExchangeService{directErr: conflictFixture()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/shifts/"+testShiftID+"/exchange", jsonBody(dto.DirectExchangeRequest{
		NewEmployeeID: testTargetID,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/shifts/:id/exchange", func(c *gin.Context) {
		setAuth(c)
		h.DirectExchange(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13009 {
		t.Errorf("expected error code 13009, got %d", resp.Code)
	}
}

func TestExchangeHandler_ExchangeHistory(t *testing.T) {
	mock := &mockExchangeService{
		historyResult: []dto.ExchangeLogResponse{
			{ID: "log-1", ShiftID: testShiftID, ExchangeType: "handover"},
		},
	}
	h := NewExchangeHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/shifts/"+testShiftID+"/exchanges", nil)

	r := gin.New()
	r.GET("/shifts/:id/exchanges", func(c *gin.Context) {
		setAuth(c)
		h.ExchangeHistory(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %T", resp.Data)
	}
	list, ok := data["list"].([]interface{})
	if !ok || len(list) != 1 {
		t.Errorf("expected list of 1 log, got %v", data["list"])
	}
}

// ═══════════════════════════════════════════════════════════
// ShiftHandler Tests
// ═══════════════════════════════════════════════════════════

func TestShiftHandler_CreateShift_Success(t *testing.T) {
	mock := &mockShiftService{
		createResult: &dto.ShiftResponse{ID: testShiftID, StartTime: "09:00"},
	}
	h := NewShiftHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/shifts", jsonBody(dto.CreateShiftRequest{
		EmployeeID: testTargetID,
		WorkDate:   "2026-03-02",
		StartTime:  "09:00",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/shifts", func(c *gin.Context) {
		setAuth(c)
		h.CreateShift(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestShiftHandler_CreateShift_Conflict(t *testing.T) {
	h := NewShiftHandler(&mockShiftService{createErr: conflictFixture()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/shifts", jsonBody(dto.CreateShiftRequest{
		EmployeeID: testTargetID,
		WorkDate:   "2026-03-02",
		StartTime:  "10:00",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/shifts", func(c *gin.Context) {
		setAuth(c)
		h.CreateShift(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13009 {
		t.Errorf("expected error code 13009, got %d", resp.Code)
	}
	detail, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected conflict detail object, got %T", resp.Data)
	}
	if detail["employee_id"] != testTargetID {
		t.Errorf("expected conflict employee_id %s, got %v", testTargetID, detail["employee_id"])
	}
}

func TestShiftHandler_CreateShift_BadDate(t *testing.T) {
	h := NewShiftHandler(&mockShiftService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/shifts", jsonBody(map[string]string{
		"employee_id": testTargetID,
		"work_date":   "03/02/2026",
		"start_time":  "09:00",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/shifts", func(c *gin.Context) {
		setAuth(c)
		h.CreateShift(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestShiftHandler_DeleteShift_ApprovedImmutable(t *testing.T) {
	h := NewShiftHandler(&mockShiftService{deleteErr: service.ErrShiftApprovedImmutable})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/shifts/"+testShiftID, nil)

	r := gin.New()
	r.DELETE("/shifts/:id", func(c *gin.Context) {
		setAuth(c)
		h.DeleteShift(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13003 {
		t.Errorf("expected error code 13003, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportCalendar_Self(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
		filename: "shifts_20260301_20260331.ics",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/export/calendar?employee_id="+testEmployeeID+"&date_from=2026-03-01&date_to=2026-03-31", nil)

	r := gin.New()
	r.GET("/export/calendar", func(c *gin.Context) {
		c.Set("employee_id", testEmployeeID)
		c.Set("role", "employee")
		h.ExportCalendar(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !bytes.Contains([]byte(ct), []byte("text/calendar")) {
		t.Errorf("expected text/calendar content type, got %s", ct)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("BEGIN:VCALENDAR")) {
		t.Error("expected ICS body")
	}
}

func TestExportHandler_ExportCalendar_OtherEmployeeForbidden(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/export/calendar?employee_id="+testTargetID+"&date_from=2026-03-01&date_to=2026-03-31", nil)

	r := gin.New()
	r.GET("/export/calendar", func(c *gin.Context) {
		c.Set("employee_id", testEmployeeID)
		c.Set("role", "employee")
		h.ExportCalendar(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10003 {
		t.Errorf("expected error code 10003, got %d", resp.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
