package departureerrors

import (
	"net/http"

	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
)

var (
	ErrDepartureNotFound = apperror.New(
		apperror.CodeNotFound,
		"Temporary departure not found",
		http.StatusNotFound,
	)
	ErrInvalidDepartureID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid temporary departure ID",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employe ID",
		http.StatusBadRequest,
	)
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"Time must be in HH:MM format",
		http.StatusBadRequest,
	)
	ErrAlreadyReturned = apperror.New(
		apperror.CodeConflict,
		"Return has already been recorded for this departure",
		http.StatusConflict,
	)
)
