package employeerrors

import (
	"net/http"

	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
)

var (
	ErrEmployeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employe not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employe ID",
		http.StatusBadRequest,
	)
	ErrInvalidEntrepriseID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid entreprise ID",
		http.StatusBadRequest,
	)
	ErrEntrepriseOutsideTenant = apperror.New(
		apperror.CodeForbidden,
		"Entreprise does not belong to your tenant",
		http.StatusForbidden,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"Status filter must be present, absent or left",
		http.StatusBadRequest,
	)
)
