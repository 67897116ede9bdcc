package docnumber_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/docnumber"
	docnumbererrors "go-payroll/internal/docnumber/errors"
	counterMock "go-payroll/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestScheme_Format(t *testing.T) {
	oct := time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		scheme docnumber.Scheme
		seq    int64
		want   string
	}{
		{"monthly payroll", docnumber.Payroll, 1, "PR-2026-10-00001"},
		{"yearly run", docnumber.PayrollRun, 42, "RUN-2026-00042"},
		{"loan", docnumber.Loan, 12345, "LN-2026-12345"},
		{"advance widens past five digits", docnumber.SalaryAdvance, 123456, "ADV-2026-123456"},
		{"gate pass", docnumber.GatePass, 3, "GP-2026-00003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scheme.Format(oct, tt.seq))
		})
	}
}

func TestLookup(t *testing.T) {
	s, ok := docnumber.Lookup("leave")
	assert.True(t, ok)
	assert.Equal(t, docnumber.LeaveApplication, s)

	_, ok = docnumber.Lookup("INV")
	assert.False(t, ok)
}

func TestGenerator_Next_IsMonotonic(t *testing.T) {
	ctrl := gomock.NewController(t)
	counterRepo := counterMock.NewMockRepository(ctrl)
	gen := docnumber.NewGenerator(counterRepo)

	ctx := context.Background()
	at := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)

	gomock.InOrder(
		counterRepo.EXPECT().GetNextValue(ctx, "c1", "PR-2026-03").Return(int64(1), nil),
		counterRepo.EXPECT().GetNextValue(ctx, "c1", "PR-2026-03").Return(int64(2), nil),
		counterRepo.EXPECT().GetNextValue(ctx, "c1", "PR-2026-03").Return(int64(3), nil),
	)

	var got []string
	for i := 0; i < 3; i++ {
		n, err := gen.Next(ctx, "c1", docnumber.Payroll, at)
		assert.NoError(t, err)
		got = append(got, n)
	}

	assert.Equal(t, []string{"PR-2026-03-00001", "PR-2026-03-00002", "PR-2026-03-00003"}, got)
}

func TestGenerator_Next_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	counterRepo := counterMock.NewMockRepository(ctrl)
	gen := docnumber.NewGenerator(counterRepo)

	counterRepo.EXPECT().GetNextValue(gomock.Any(), "c1", "LN-2026").Return(int64(0), errors.New("boom"))

	_, err := gen.Next(context.Background(), "c1", docnumber.Loan, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.ErrorContains(t, err, "next LN number")
}

func TestService_Issue(t *testing.T) {
	ctx := context.Background()

	t.Run("issues inside a transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db, mock, _ := sqlmock.New()
		defer db.Close()

		counterRepo := counterMock.NewMockRepository(ctrl)
		svc := docnumber.NewService(db, docnumber.NewGenerator(counterRepo))

		mock.ExpectBegin()
		counterRepo.EXPECT().WithTx(gomock.AssignableToTypeOf(&sql.Tx{})).Return(counterRepo)
		counterRepo.EXPECT().GetNextValue(ctx, "c1", "PO-2026").Return(int64(9), nil)
		mock.ExpectCommit()

		resp, err := svc.Issue(ctx, "c1", docnumber.IssueNumberRequest{Scheme: "po", Date: "2026-05-01"})

		assert.NoError(t, err)
		assert.Equal(t, "PO-2026-00009", resp.Number)
		assert.Equal(t, "PO", resp.Scheme)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown scheme", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		svc := docnumber.NewService(db, docnumber.NewGenerator(nil))

		_, err := svc.Issue(ctx, "c1", docnumber.IssueNumberRequest{Scheme: "XYZ"})

		assert.ErrorIs(t, err, docnumbererrors.ErrUnknownScheme)
	})
}
