package salarystructureerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrStructureNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary structure not found",
		http.StatusNotFound,
	)
	ErrNoActiveStructure = apperror.New(
		apperror.CodeNotFound,
		"no active salary structure found for employee",
		http.StatusNotFound,
	)
	ErrActiveStructureExists = apperror.New(
		apperror.CodeConflict,
		"employee already has an active salary structure",
		http.StatusConflict,
	)
	ErrDuplicateComponent = apperror.New(
		apperror.CodeInvalidInput,
		"a component can appear only once in a salary structure",
		http.StatusBadRequest,
	)
	ErrUnknownComponent = apperror.New(
		apperror.CodeInvalidInput,
		"salary structure references an unknown payroll component",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"salary amounts cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveRange = apperror.New(
		apperror.CodeInvalidInput,
		"effective_to must not be before effective_from",
		http.StatusBadRequest,
	)
)

var ErrBasicSalaryRequired = apperror.New(
	apperror.CodeValidation,
	"basic_salary must be greater than zero",
	http.StatusBadRequest,
)
