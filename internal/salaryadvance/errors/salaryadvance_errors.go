package salaryadvanceerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrAdvanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary advance not found",
		http.StatusNotFound,
	)
	ErrAdvanceNumberExists = apperror.New(
		apperror.CodeConflict,
		"advance number already exists",
		http.StatusConflict,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"advance_amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"advance status does not allow this action",
		http.StatusUnprocessableEntity,
	)
)
