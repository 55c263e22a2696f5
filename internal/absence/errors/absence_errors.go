package absenceerrors

import (
	"net/http"

	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
)

var (
	ErrAbsenceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Absence not found",
		http.StatusNotFound,
	)
	ErrInvalidAbsenceID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid absence ID",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employe ID",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date must be in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrMissingDate = apperror.New(
		apperror.CodeInvalidInput,
		"Either date or start_date and end_date are required",
		http.StatusBadRequest,
	)
	ErrInvalidRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must not be after end_date",
		http.StatusBadRequest,
	)
)
