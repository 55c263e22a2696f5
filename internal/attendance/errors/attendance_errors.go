package attendanceerrors

import (
	"net/http"

	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
)

var (
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance not found",
		http.StatusNotFound,
	)
	ErrInvalidAttendanceID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid attendance ID",
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
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"Time must be in HH:MM format",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Month must be in YYYY-MM format",
		http.StatusBadRequest,
	)
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"Employe has already checked in for this date",
		http.StatusConflict,
	)
	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeConflict,
		"Employe has already checked out for this date",
		http.StatusConflict,
	)
	ErrNotCheckedIn = apperror.New(
		apperror.CodeConflict,
		"Employe has not checked in for this date",
		http.StatusConflict,
	)
	ErrDuplicateAttendance = apperror.New(
		apperror.CodeConflict,
		"An attendance already exists for this employe and date",
		http.StatusConflict,
	)
)
