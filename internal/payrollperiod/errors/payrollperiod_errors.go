package payrollperioderrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll period not found",
		http.StatusNotFound,
	)
	ErrPeriodExists = apperror.New(
		apperror.CodeConflict,
		"a payroll period with the same dates already exists",
		http.StatusConflict,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must not be before start_date",
		http.StatusBadRequest,
	)
	ErrPeriodLocked = apperror.New(
		apperror.CodeLocked,
		"payroll period is locked or already processed",
		http.StatusUnprocessableEntity,
	)
	ErrPeriodAlreadyLocked = apperror.New(
		apperror.CodeInvalidState,
		"payroll period is already locked",
		http.StatusUnprocessableEntity,
	)
)
