package entrepriseerrors

import (
	"net/http"

	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
)

var (
	ErrEntrepriseNotFound = apperror.New(
		apperror.CodeNotFound,
		"Entreprise not found",
		http.StatusNotFound,
	)
	ErrInvalidEntrepriseID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid entreprise ID",
		http.StatusBadRequest,
	)
	ErrInvalidTenantID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid tenant ID",
		http.StatusBadRequest,
	)
)
