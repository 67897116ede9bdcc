package docnumbererrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrUnknownScheme = apperror.New(
		apperror.CodeInvalidInput,
		"unknown document number scheme",
		http.StatusBadRequest,
	)
)
