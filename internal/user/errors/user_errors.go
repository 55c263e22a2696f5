package usererrors

import (
	"net/http"

	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be supertenant, superadmin, admin or user",
		http.StatusBadRequest,
	)
	ErrRoleEscalation = apperror.New(
		apperror.CodeForbidden,
		"You cannot grant a role above your own",
		http.StatusForbidden,
	)
	ErrInvalidTenantID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid tenant ID",
		http.StatusBadRequest,
	)
	ErrInvalidEnterpriseID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid enterprise ID",
		http.StatusBadRequest,
	)
)
