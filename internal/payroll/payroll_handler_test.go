package payroll_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payroll/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Ok   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"pageSize"`
	} `json:"meta"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newHandler(t *testing.T) (*payroll.Handler, *mock.MockService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := mock.NewMockService(gomock.NewController(t))
	return payroll.NewHandler(svc, nil), svc
}

func newContext(method, target, body string, companyID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", companyID)
	c.Set("employee_id", "actor-1")
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHandler_Create(t *testing.T) {
	companyID := uuid.NewString()

	t.Run("created", func(t *testing.T) {
		h, svc := newHandler(t)
		employeeID := uuid.NewString()
		periodID := uuid.NewString()

		svc.EXPECT().Create(gomock.Any(), companyID, "actor-1", gomock.Any()).
			DoAndReturn(func(_ any, _ string, _ string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
				assert.Equal(t, employeeID, req.EmployeeID)
				assert.Equal(t, "250.5", req.Bonus.String())
				return payroll.PayrollResponse{PayrollNumber: "PR-2026-10-00001", Status: payroll.StatusCalculated}, nil
			})

		body := `{"employee_id":"` + employeeID + `","payroll_period_id":"` + periodID + `","bonus":"250.50"}`
		c, w := newContext(http.MethodPost, "/payrolls", body, companyID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decode(t, w)
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), "PR-2026-10-00001")
	})

	t.Run("missing period", func(t *testing.T) {
		h, _ := newHandler(t)

		c, w := newContext(http.MethodPost, "/payrolls", `{"employee_id":"`+uuid.NewString()+`"}`, companyID)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decode(t, w).Ok)
	})

	t.Run("duplicate", func(t *testing.T) {
		h, svc := newHandler(t)
		svc.EXPECT().Create(gomock.Any(), companyID, "actor-1", gomock.Any()).
			Return(payroll.PayrollResponse{}, payrollerrors.ErrPayrollAlreadyExists)

		body := `{"employee_id":"` + uuid.NewString() + `","payroll_period_id":"` + uuid.NewString() + `"}`
		c, w := newContext(http.MethodPost, "/payrolls", body, companyID)

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_GetAll_Paginates(t *testing.T) {
	h, svc := newHandler(t)
	companyID := uuid.NewString()

	list := make([]payroll.PayrollResponse, 25)
	for i := range list {
		list[i] = payroll.PayrollResponse{ID: uuid.NewString()}
	}
	svc.EXPECT().GetAll(gomock.Any(), companyID, gomock.Any()).
		DoAndReturn(func(_ any, _ string, q payroll.ListPayrollsQuery) ([]payroll.PayrollResponse, error) {
			assert.Equal(t, payroll.StatusApproved, q.Status)
			return list, nil
		})

	c, w := newContext(http.MethodGet, "/payrolls?status=approved&page=3&page_size=10", "", companyID)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	var page []payroll.PayrollResponse
	assert.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page, 5)
	assert.Equal(t, int64(25), env.Meta.Total)
	assert.Equal(t, 3, env.Meta.Page)
}

func TestHandler_GetAll_RejectsUnknownStatus(t *testing.T) {
	h, _ := newHandler(t)

	c, w := newContext(http.MethodGet, "/payrolls?status=archived", "", uuid.NewString())

	h.GetAll(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Approve_InvalidState(t *testing.T) {
	h, svc := newHandler(t)
	companyID := uuid.NewString()
	id := uuid.NewString()

	svc.EXPECT().Approve(gomock.Any(), companyID, "actor-1", id).
		Return(payroll.PayrollResponse{}, payrollerrors.ErrInvalidStatusTransition)

	c, w := newContext(http.MethodPost, "/payrolls/"+id+"/approve", "", companyID)
	c.Params = gin.Params{{Key: "id", Value: id}}

	h.Approve(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_STATE", decode(t, w).Error.Code)
}

func TestHandler_Pay(t *testing.T) {
	companyID := uuid.NewString()
	id := uuid.NewString()

	t.Run("without body", func(t *testing.T) {
		h, svc := newHandler(t)
		svc.EXPECT().Pay(gomock.Any(), companyID, "actor-1", id, payroll.PayPayrollRequest{}).
			Return(payroll.PayrollResponse{Status: payroll.StatusPaid}, nil)

		c, w := newContext(http.MethodPost, "/payrolls/"+id+"/pay", "", companyID)
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.Pay(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad payment date", func(t *testing.T) {
		h, _ := newHandler(t)

		c, w := newContext(http.MethodPost, "/payrolls/"+id+"/pay", `{"payment_date":"31/10/2026"}`, companyID)
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.Pay(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_RequestPayslip(t *testing.T) {
	h, svc := newHandler(t)
	companyID := uuid.NewString()
	id := uuid.NewString()

	svc.EXPECT().RequestPayslip(gomock.Any(), companyID, "actor-1", id).
		Return(payroll.PayslipResponse{PayrollID: id}, nil)

	c, w := newContext(http.MethodPost, "/payrolls/"+id+"/payslip", "", companyID)
	c.Params = gin.Params{{Key: "id", Value: id}}

	h.RequestPayslip(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestHandler_Delete_NotFound(t *testing.T) {
	h, svc := newHandler(t)
	companyID := uuid.NewString()
	id := uuid.NewString()

	svc.EXPECT().Delete(gomock.Any(), companyID, id).Return(payrollerrors.ErrPayrollNotFound)

	c, w := newContext(http.MethodDelete, "/payrolls/"+id, "", companyID)
	c.Params = gin.Params{{Key: "id", Value: id}}

	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
