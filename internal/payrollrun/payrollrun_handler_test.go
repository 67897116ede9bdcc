package payrollrun_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/payrollrun"
	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/payrollrun/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRunContext(method, target, body, companyID string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", companyID)
	c.Set("user_id_validated", "user-1")
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestHandler_Create(t *testing.T) {
	companyID := uuid.NewString()
	periodID := uuid.NewString()

	tests := []struct {
		name       string
		status     string
		wantStatus int
	}{
		{name: "queued", status: payrollrun.StatusPending, wantStatus: http.StatusAccepted},
		{name: "processed inline", status: payrollrun.StatusCompleted, wantStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mock.NewMockService(gomock.NewController(t))
			h := payrollrun.NewHandler(svc, nil)

			svc.EXPECT().Create(gomock.Any(), companyID, "user-1", gomock.Any()).
				Return(payrollrun.RunResponse{Status: tt.status}, nil)

			body := `{"run_type":"all","payroll_period_id":"` + periodID + `","async":true}`
			c, w := newRunContext(http.MethodPost, "/payroll-runs", body, companyID)

			h.Create(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandler_Create_UnknownRunType(t *testing.T) {
	svc := mock.NewMockService(gomock.NewController(t))
	h := payrollrun.NewHandler(svc, nil)

	body := `{"run_type":"region","payroll_period_id":"` + uuid.NewString() + `"}`
	c, w := newRunContext(http.MethodPost, "/payroll-runs", body, uuid.NewString())

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Process_Locked(t *testing.T) {
	svc := mock.NewMockService(gomock.NewController(t))
	h := payrollrun.NewHandler(svc, nil)
	companyID := uuid.NewString()
	id := uuid.NewString()

	svc.EXPECT().Process(gomock.Any(), companyID, id, "user-1").
		Return(payrollrun.RunResponse{}, payrollrunerrors.ErrRunInProgress)

	c, w := newRunContext(http.MethodPost, "/payroll-runs/"+id+"/process", "", companyID)
	c.Params = gin.Params{{Key: "id", Value: id}}

	h.Process(c)

	assert.Equal(t, http.StatusLocked, w.Code)
	assert.Contains(t, w.Body.String(), "LOCKED")
}
