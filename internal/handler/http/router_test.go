package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/config"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/summary"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/timeentry"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/postcommit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"
	testTenantID      = "0190c0de-0000-7000-8000-00000000c0de"
	testEntryID       = "0190c0de-0000-7000-8000-00000000e001"
)

type stubTimeEntryService struct {
	timeentry.TimeEntryService
	lastApprove timeentry.ApproveEntryRequest
	lastFilter  timeentry.ListFilter
}

func (s *stubTimeEntryService) ClockIn(ctx context.Context) (timeentry.TimeEntryResponse, error) {
	p, err := user.FromContext(ctx)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	return timeentry.TimeEntryResponse{ID: testEntryID, UserID: p.UserID, EntryType: timeentry.EntryTypeClock, ApprovalStatus: approval.StatusApproved}, nil
}

func (s *stubTimeEntryService) List(ctx context.Context, filter timeentry.ListFilter) (timeentry.ListTimeEntryResponse, error) {
	s.lastFilter = filter
	return timeentry.ListTimeEntryResponse{
		TotalCount: 3,
		Page:       2,
		Limit:      2,
		TotalPages: 2,
		Entries:    []timeentry.TimeEntryResponse{{ID: testEntryID}},
	}, nil
}

func (s *stubTimeEntryService) ClockOut(ctx context.Context) (timeentry.TimeEntryResponse, error) {
	return timeentry.TimeEntryResponse{}, timeentry.ErrNoActiveEntry
}

func (s *stubTimeEntryService) Approve(ctx context.Context, req timeentry.ApproveEntryRequest) (timeentry.ApprovalResult, error) {
	s.lastApprove = req
	return timeentry.ApprovalResult{
		Record:      timeentry.TimeEntryResponse{ID: req.ID, ApprovalStatus: approval.StatusRejected},
		SideEffects: postcommit.Report{{Step: "audit", Error: "connection reset"}},
	}, nil
}

type stubLeaveService struct {
	leave.LeaveService
	lastCancel leave.CancelLeaveRequestRequest
}

func (s *stubLeaveService) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	return leave.LeaveRequestResponse{}, &leave.ComplianceError{Code: "INSUFFICIENT_BALANCE", Message: "not enough days left"}
}

func (s *stubLeaveService) CancelLeaveRequest(ctx context.Context, req leave.CancelLeaveRequestRequest) (leave.ApprovalResult, error) {
	s.lastCancel = req
	return leave.ApprovalResult{Record: leave.LeaveRequestResponse{ID: req.ID, Status: approval.StatusCancelled}, SideEffects: postcommit.Report{}}, nil
}

type stubOvertimeService struct {
	overtime.OvertimeService
	lastUserID string
	lastPeriod *string
}

func (s *stubOvertimeService) GetBalance(ctx context.Context, userID string, period *string) (overtime.BalanceResponse, error) {
	s.lastUserID, s.lastPeriod = userID, period
	if period != nil && *period == "bad" {
		return overtime.BalanceResponse{}, overtime.ErrInvalidPeriod
	}
	return overtime.BalanceResponse{UserID: userID}, nil
}

type stubSummaryService struct {
	summary.SummaryService
}

func (s *stubSummaryService) GetSummary(ctx context.Context, userID string) (summary.TimeSummaryResponse, error) {
	p, err := user.FromContext(ctx)
	if err != nil {
		return summary.TimeSummaryResponse{}, err
	}
	if userID != "" && !p.CanAccessSubject(userID, user.PermissionTimeViewTeam) {
		return summary.TimeSummaryResponse{}, summary.ErrForbidden
	}
	return summary.TimeSummaryResponse{UserID: userID}, nil
}

type testServer struct {
	handler  http.Handler
	jwt      jwt.Service
	entries  *stubTimeEntryService
	leaves   *stubLeaveService
	overtime *stubOvertimeService
}

func newTestServer() *testServer {
	s := &testServer{
		jwt:      jwt.NewJWTService(handlerTestSecret, time.Second),
		entries:  &stubTimeEntryService{},
		leaves:   &stubLeaveService{},
		overtime: &stubOvertimeService{},
	}
	cfg := &config.Config{App: config.AppConfig{Env: "test", LogLevel: "error", AllowedOrigins: []string{"http://localhost:3000"}}}
	s.handler = NewRouter(cfg, s.jwt, Handlers{
		TimeEntry: NewTimeEntryHandler(s.entries),
		Leave:     NewLeaveHandler(s.leaves),
		Overtime:  NewOvertimeHandler(s.overtime),
		Summary:   NewSummaryHandler(&stubSummaryService{}),
	})
	return s
}

func (s *testServer) token(t *testing.T, userID string, role user.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(user.Principal{UserID: userID, TenantID: testTenantID, Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var payload map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	return rec, payload
}

func errorCode(payload map[string]interface{}) string {
	e, _ := payload["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer()

	rec, _ := s.do(t, http.MethodPost, "/api/v1/time/clock-in", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ClockInAndOut(t *testing.T) {
	s := newTestServer()
	token := s.token(t, "employee-1", user.RoleEmployee)

	rec, payload := s.do(t, http.MethodPost, "/api/v1/time/clock-in", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "employee-1", data["user_id"])

	rec, payload = s.do(t, http.MethodPost, "/api/v1/time/clock-out", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PRECONDITION_FAILED", errorCode(payload))

	pending := s.token(t, "pending-1", user.RolePending)
	rec, _ = s.do(t, http.MethodPost, "/api/v1/time/clock-in", pending, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_ApproveEntry(t *testing.T) {
	s := newTestServer()
	path := "/api/v1/time/entries/" + testEntryID + "/approve"
	body := map[string]string{"decision": "reject", "reason": "duplicate"}

	rec, _ := s.do(t, http.MethodPut, path, s.token(t, "employee-1", user.RoleEmployee), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, payload := s.do(t, http.MethodPut, path, s.token(t, "manager-1", user.RoleManager), body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testEntryID, s.entries.lastApprove.ID)
	assert.Equal(t, "reject", s.entries.lastApprove.Decision)

	data := payload["data"].(map[string]interface{})
	record := data["record"].(map[string]interface{})
	assert.Equal(t, "rejected", record["approval_status"])
	sideEffects := data["side_effects"].([]interface{})
	require.Len(t, sideEffects, 1)
	assert.Equal(t, "audit", sideEffects[0].(map[string]interface{})["step"])
}

func TestRouter_ListEntriesMeta(t *testing.T) {
	s := newTestServer()

	rec, payload := s.do(t, http.MethodGet, "/api/v1/time/entries?status=pending&entry_type=manual&page=2&page_size=2", s.token(t, "manager-1", user.RoleManager), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, s.entries.lastFilter.Status)
	assert.Equal(t, "pending", *s.entries.lastFilter.Status)
	require.NotNil(t, s.entries.lastFilter.EntryType)
	assert.Equal(t, "manual", *s.entries.lastFilter.EntryType)
	assert.Equal(t, 2, s.entries.lastFilter.Page)
	assert.Equal(t, 2, s.entries.lastFilter.PageSize)

	assert.Len(t, payload["data"].([]interface{}), 1)
	meta := payload["meta"].(map[string]interface{})
	assert.EqualValues(t, 3, meta["total_items"])
	assert.EqualValues(t, 2, meta["total_pages"])
}

func TestRouter_InvalidJSON(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/time/entries", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token(t, "employee-1", user.RoleEmployee))
	rec := httptest.NewRecorder()

	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_LeaveComplianceCode(t *testing.T) {
	s := newTestServer()
	body := map[string]string{"leave_type_id": testEntryID, "start_date": "2025-06-02", "end_date": "2025-06-06"}

	rec, payload := s.do(t, http.MethodPost, "/api/v1/leave/requests", s.token(t, "employee-1", user.RoleEmployee), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(payload))
	details := payload["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, "INSUFFICIENT_BALANCE", details["code"])
}

func TestRouter_CancelLeaveWithoutBody(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/leave/requests/"+testEntryID, nil)
	req.Header.Set("Authorization", "Bearer "+s.token(t, "employee-1", user.RoleEmployee))
	rec := httptest.NewRecorder()

	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testEntryID, s.leaves.lastCancel.ID)
	assert.Nil(t, s.leaves.lastCancel.Reason)
}

func TestRouter_OvertimeBalance(t *testing.T) {
	s := newTestServer()
	token := s.token(t, "manager-1", user.RoleManager)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/overtime/balance/employee-1?period=2024-W10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "employee-1", s.overtime.lastUserID)
	require.NotNil(t, s.overtime.lastPeriod)
	assert.Equal(t, "2024-W10", *s.overtime.lastPeriod)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/overtime/balance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.overtime.lastUserID)
	assert.Nil(t, s.overtime.lastPeriod)

	rec, payload := s.do(t, http.MethodGet, "/api/v1/overtime/balance?period=bad", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(payload))
}

func TestRouter_SummaryVisibility(t *testing.T) {
	s := newTestServer()

	rec, _ := s.do(t, http.MethodGet, "/api/v1/time/summary/manager-1", s.token(t, "employee-1", user.RoleEmployee), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/time/summary/employee-1", s.token(t, "manager-1", user.RoleManager), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/time/summary", s.token(t, "employee-1", user.RoleEmployee), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
