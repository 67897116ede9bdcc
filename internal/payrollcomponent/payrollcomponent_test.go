package payrollcomponent_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-payroll/internal/payrollcomponent"
	payrollcomponenterrors "go-payroll/internal/payrollcomponent/errors"
	"go-payroll/internal/payrollcomponent/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestResolveSlot(t *testing.T) {
	tests := []struct {
		componentType string
		code          string
		want          payrollcomponent.Slot
	}{
		{payrollcomponent.TypeEarning, "HRA", payrollcomponent.SlotHRA},
		{payrollcomponent.TypeEarning, "hra", payrollcomponent.SlotHRA},
		{payrollcomponent.TypeEarning, "ca", payrollcomponent.SlotConveyance},
		{payrollcomponent.TypeEarning, "MA", payrollcomponent.SlotMedical},
		{payrollcomponent.TypeEarning, " SA ", payrollcomponent.SlotSpecial},
		{payrollcomponent.TypeEarning, "BONUS", payrollcomponent.SlotOtherEarning},
		{payrollcomponent.TypeDeduction, "PF", payrollcomponent.SlotProvidentFund},
		{payrollcomponent.TypeDeduction, "PT", payrollcomponent.SlotProfessionalTax},
		{payrollcomponent.TypeDeduction, "IT", payrollcomponent.SlotIncomeTax},
		{payrollcomponent.TypeDeduction, "HRA", payrollcomponent.SlotOtherDeduction},
		{payrollcomponent.TypeEarning, "PF", payrollcomponent.SlotOtherEarning},
	}

	for _, tt := range tests {
		t.Run(tt.componentType+"/"+tt.code, func(t *testing.T) {
			got := payrollcomponent.ResolveSlot(tt.componentType, tt.code)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.componentType == payrollcomponent.TypeDeduction, got.IsDeduction())
		})
	}
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *mock.MockRepository
	redis   redismock.ClientMock
	service payrollcomponent.Service
}

func setupService(t *testing.T) *serviceDeps {
	t.Helper()

	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	repo := mock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    repo,
		redis:   redisMock,
		service: payrollcomponent.NewService(db, repo, rdb),
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()

	t.Run("resolves slot and invalidates options", func(t *testing.T) {
		deps := setupService(t)

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, c *payrollcomponent.PayrollComponent) error {
				assert.Equal(t, "HRA", c.Code)
				assert.Equal(t, payrollcomponent.SlotHRA, c.Slot)
				assert.True(t, c.IsActive)
				return nil
			})
		deps.sqlMock.ExpectCommit()
		deps.redis.ExpectDel(payrollcomponent.OptionsKey(companyID)).SetVal(1)

		resp, err := deps.service.Create(ctx, companyID, payrollcomponent.CreateComponentRequest{
			Code:            "hra",
			Name:            "House Rent Allowance",
			ComponentType:   payrollcomponent.TypeEarning,
			CalculationType: payrollcomponent.CalcPercentage,
			DefaultValue:    decimal.NewFromInt(40),
		})

		assert.NoError(t, err)
		assert.Equal(t, "hra", resp.Slot)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redis.ExpectationsWereMet())
	})

	t.Run("duplicate code", func(t *testing.T) {
		deps := setupService(t)

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_payroll_components_company_code"})
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(ctx, companyID, payrollcomponent.CreateComponentRequest{
			Code:            "PF",
			Name:            "Provident Fund",
			ComponentType:   payrollcomponent.TypeDeduction,
			CalculationType: payrollcomponent.CalcFixed,
			DefaultValue:    decimal.NewFromInt(1800),
		})

		assert.ErrorIs(t, err, payrollcomponenterrors.ErrComponentCodeExists)
	})

	t.Run("percentage above 100", func(t *testing.T) {
		deps := setupService(t)

		_, err := deps.service.Create(ctx, companyID, payrollcomponent.CreateComponentRequest{
			Code:            "HRA",
			Name:            "HRA",
			ComponentType:   payrollcomponent.TypeEarning,
			CalculationType: payrollcomponent.CalcPercentage,
			DefaultValue:    decimal.NewFromInt(140),
		})

		assert.ErrorIs(t, err, payrollcomponenterrors.ErrPercentageOutOfRange)
	})

	t.Run("formula without expression", func(t *testing.T) {
		deps := setupService(t)

		_, err := deps.service.Create(ctx, companyID, payrollcomponent.CreateComponentRequest{
			Code:            "BONUS",
			Name:            "Bonus",
			ComponentType:   payrollcomponent.TypeEarning,
			CalculationType: payrollcomponent.CalcFormula,
		})

		assert.ErrorIs(t, err, payrollcomponenterrors.ErrFormulaRequired)
	})
}

func TestService_Options(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	key := payrollcomponent.OptionsKey(companyID)

	t.Run("cache hit skips the database", func(t *testing.T) {
		deps := setupService(t)

		cached, _ := json.Marshal([]payrollcomponent.ComponentOption{{ID: "1", Code: "HRA"}})
		deps.redis.ExpectGet(key).SetVal(string(cached))

		resp, err := deps.service.Options(ctx, companyID)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "HRA", resp[0].Code)
	})

	t.Run("cache miss loads active components", func(t *testing.T) {
		deps := setupService(t)

		deps.redis.ExpectGet(key).RedisNil()
		deps.repo.EXPECT().FindAllByCompany(ctx, companyID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, f payrollcomponent.ListFilter) ([]payrollcomponent.PayrollComponent, error) {
				assert.NotNil(t, f.IsActive)
				assert.True(t, *f.IsActive)
				return []payrollcomponent.PayrollComponent{
					{ID: uuid.New(), Code: "PF", ComponentType: payrollcomponent.TypeDeduction},
				}, nil
			})
		deps.redis.Regexp().ExpectSet(key, `.*"code":"PF".*`, 30*time.Minute).SetVal("OK")

		resp, err := deps.service.Options(ctx, companyID)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "PF", resp[0].Code)
	})
}

func TestHandler_Create_ValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := setupService(t)
	h := payrollcomponent.NewHandler(deps.service, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.NewString())
	c.Request = httptest.NewRequest(http.MethodPost, "/payroll-components",
		strings.NewReader(`{"code":"X","name":"X","component_type":"bonus","calculation_type":"fixed"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

func TestHandler_GetAll_Paginates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := setupService(t)
	h := payrollcomponent.NewHandler(deps.service, nil)

	deps.repo.EXPECT().FindAllByCompany(gomock.Any(), gomock.Any(), gomock.Any()).Return([]payrollcomponent.PayrollComponent{
		{ID: uuid.New(), Code: "HRA"}, {ID: uuid.New(), Code: "CA"}, {ID: uuid.New(), Code: "MA"},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.NewString())
	c.Request = httptest.NewRequest(http.MethodGet, "/payroll-components?page=2&page_size=2", nil)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"MA"`)
	assert.NotContains(t, w.Body.String(), `"HRA"`)
	assert.Contains(t, w.Body.String(), `"totalPages":2`)
}
