package loanerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrLoanNotFound = apperror.New(
		apperror.CodeNotFound,
		"loan not found",
		http.StatusNotFound,
	)
	ErrLoanNumberExists = apperror.New(
		apperror.CodeConflict,
		"loan number already exists",
		http.StatusConflict,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"loan_amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidInterestRate = apperror.New(
		apperror.CodeInvalidInput,
		"interest_rate must be between 0 and 100",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"loan status does not allow this action",
		http.StatusUnprocessableEntity,
	)
)
