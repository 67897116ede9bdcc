package payrollrunerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrRunNumberExists = apperror.New(
		apperror.CodeConflict,
		"payroll run number already issued",
		http.StatusConflict,
	)
	ErrDepartmentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"department_id is required for department runs",
		http.StatusBadRequest,
	)
	ErrBranchRequired = apperror.New(
		apperror.CodeInvalidInput,
		"branch_id is required for branch runs",
		http.StatusBadRequest,
	)
	ErrEmployeesRequired = apperror.New(
		apperror.CodeInvalidInput,
		"employee_ids is required for custom runs",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"payroll run has already been started",
		http.StatusUnprocessableEntity,
	)
	ErrRunFinished = apperror.New(
		apperror.CodeInvalidState,
		"payroll run has already finished",
		http.StatusUnprocessableEntity,
	)
	ErrRunInProgress = apperror.New(
		apperror.CodeLocked,
		"another run is processing this payroll period",
		http.StatusLocked,
	)
)
