package payrollcomponenterrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrComponentNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll component not found",
		http.StatusNotFound,
	)
	ErrComponentCodeExists = apperror.New(
		apperror.CodeConflict,
		"payroll component code already exists",
		http.StatusConflict,
	)
	ErrNegativeValue = apperror.New(
		apperror.CodeInvalidInput,
		"default_value cannot be negative",
		http.StatusBadRequest,
	)
	ErrPercentageOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"percentage must be between 0 and 100",
		http.StatusBadRequest,
	)
	ErrFormulaRequired = apperror.New(
		apperror.CodeInvalidInput,
		"formula is required for formula components",
		http.StatusBadRequest,
	)
)
