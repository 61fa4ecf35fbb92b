package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ops-shift-api/internal/dto"
	"github.com/noah-isme/ops-shift-api/internal/models"
)

type scheduleManagerMock struct {
	validated dto.ValidateScheduleRequest
	created   dto.BulkCreateAssignmentsRequest
	listed    dto.AssignmentListRequest
	result    *models.ValidationResult
	err       error
}

func (m *scheduleManagerMock) ValidateProposal(ctx context.Context, req dto.ValidateScheduleRequest) (*models.ValidationResult, error) {
	m.validated = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *scheduleManagerMock) BulkCreate(ctx context.Context, req dto.BulkCreateAssignmentsRequest) (*models.ValidationResult, error) {
	m.created = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *scheduleManagerMock) ListAssignments(ctx context.Context, req dto.AssignmentListRequest) ([]models.ShiftAssignment, error) {
	m.listed = req
	return []models.ShiftAssignment{}, nil
}

type scheduleCheckerMock struct {
	periodID string
	staffID  string
	date     time.Time
	shift    models.ShiftType
	result   *models.ValidationResult
}

func (m *scheduleCheckerMock) ValidateAndReport(ctx context.Context, periodID string) (*models.ValidationResult, error) {
	m.periodID = periodID
	return m.result, nil
}

func (m *scheduleCheckerMock) CanAssign(ctx context.Context, periodID, staffProfileID string, date time.Time, shiftType models.ShiftType) (*models.ValidationResult, error) {
	m.periodID = periodID
	m.staffID = staffProfileID
	m.date = date
	m.shift = shiftType
	return m.result, nil
}

func postJSON(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestScheduleValidateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleManagerMock{result: models.NewValidationResult()}
	handler := &ScheduleHandler{schedules: mockSvc}
	c, w := postJSON(t, `{"periodId":"2026-03","assignments":[{"staffProfileId":"staff-1","date":"2026-03-02","shiftType":"NIGHT_WEEKDAY"}]}`)

	handler.Validate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2026-03", mockSvc.validated.PeriodID)
	require.Contains(t, w.Body.String(), `"isValid":true`)
}

func TestScheduleValidateMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ScheduleHandler{schedules: &scheduleManagerMock{}}
	c, w := postJSON(t, `{"periodId":`)

	handler.Validate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleCanAssignSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	result := models.NewValidationResult()
	result.AddError(models.Finding{Rule: models.RuleRestGapTooShort, Message: "too soon"})
	mockChecker := &scheduleCheckerMock{result: result}
	handler := &ScheduleHandler{checker: mockChecker}
	c, w := postJSON(t, `{"periodId":"2026-03","staffProfileId":"staff-1","date":"2026-03-05","shiftType":"NIGHT_WEEKDAY"}`)

	handler.CanAssign(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2026-03", mockChecker.periodID)
	require.Equal(t, "staff-1", mockChecker.staffID)
	require.Equal(t, models.ShiftNightWeekday, mockChecker.shift)
	require.True(t, mockChecker.date.Equal(time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)))
	require.Contains(t, w.Body.String(), `"canAssign":false`)
}

func TestScheduleCanAssignRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ScheduleHandler{checker: &scheduleCheckerMock{result: models.NewValidationResult()}}
	c, w := postJSON(t, `{"periodId":"2026-03","staffProfileId":"staff-1","date":"05-03-2026","shiftType":"NIGHT_WEEKDAY"}`)

	handler.CanAssign(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleCanAssignRejectsUnknownShiftType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ScheduleHandler{checker: &scheduleCheckerMock{result: models.NewValidationResult()}}
	c, w := postJSON(t, `{"periodId":"2026-03","staffProfileId":"staff-1","date":"2026-03-05","shiftType":"GRAVEYARD"}`)

	handler.CanAssign(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleBulkCreateCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleManagerMock{result: models.NewValidationResult()}
	handler := &ScheduleHandler{schedules: mockSvc}
	c, w := postJSON(t, `{"periodId":"2026-03","assignments":[{"staffProfileId":"staff-1","date":"2026-03-02","shiftType":"NIGHT_WEEKDAY"}]}`)

	handler.BulkCreate(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, mockSvc.created.Assignments, 1)
}

func TestSchedulePeriodReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockChecker := &scheduleCheckerMock{result: models.NewValidationResult()}
	handler := &ScheduleHandler{checker: mockChecker}
	router := gin.New()
	router.GET("/schedule/periods/:id/validation", handler.PeriodReport)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/schedule/periods/2026-03/validation", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2026-03", mockChecker.periodID)
}

func TestScheduleListAssignmentsParsesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleManagerMock{}
	handler := &ScheduleHandler{schedules: mockSvc}
	router := gin.New()
	router.GET("/assignments", handler.ListAssignments)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/assignments?periodId=2026-03&staffProfileId=staff-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2026-03", mockSvc.listed.PeriodID)
	require.Equal(t, "staff-1", mockSvc.listed.StaffProfileID)
}
