package attendance

import (
	"context"
	"time"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/shared/apperror"

	"go.uber.org/zap"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Summary(ctx context.Context, companyID string, q SummaryQuery) (SummaryResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Summary(ctx context.Context, companyID string, q SummaryQuery) (SummaryResponse, error) {
	start, err := time.Parse(time.DateOnly, q.StartDate)
	if err != nil {
		return SummaryResponse{}, apperror.ErrInvalidDateFormat
	}
	end, err := time.Parse(time.DateOnly, q.EndDate)
	if err != nil {
		return SummaryResponse{}, apperror.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return SummaryResponse{}, attendanceerrors.ErrInvalidDateRange
	}

	sum, err := s.repo.Summarize(ctx, companyID, q.EmployeeID, start, end)
	if err != nil {
		s.logger.Error("summarize attendance failed",
			zap.String("company_id", companyID),
			zap.String("employee_id", q.EmployeeID),
			zap.Error(err),
		)
		return SummaryResponse{}, err
	}

	return SummaryResponse{
		EmployeeID:       q.EmployeeID,
		StartDate:        q.StartDate,
		EndDate:          q.EndDate,
		TotalWorkingDays: sum.TotalWorkingDays,
		PresentDays:      sum.PresentDays,
		AbsentDays:       sum.AbsentDays,
		LeaveDays:        sum.LeaveDays,
		HolidayDays:      sum.HolidayDays,
		OvertimeHours:    sum.OvertimeHours,
	}, nil
}
