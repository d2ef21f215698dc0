package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes grouped by family
const (
	// Authentication errors (1000-1999)
	ErrInvalidCredentials = "AUTH_001" // invalid credentials
	ErrUserDisabled       = "AUTH_002" // user disabled
	ErrUserNotFound       = "AUTH_003" // user not found
	ErrInvalidToken       = "AUTH_004" // invalid token
	ErrUserAlreadyExists  = "AUTH_005" // user already exists

	// Validation errors (2000-2999)
	ErrInvalidRequest      = "VAL_001" // invalid request
	ErrMissingRequiredData = "VAL_002" // required data missing
	ErrReportValidation    = "VAL_003" // report bundle failed the validation gate

	// Pipeline errors (3000-3999)
	ErrSourceRead   = "SRC_001" // transaction source read or normalization failed
	ErrEmptyDataset = "AGG_001" // aggregation attempted over zero rows

	// Server errors (5000-5999)
	ErrInternalServer    = "SRV_001" // internal server error
	ErrDatabaseOperation = "SRV_002" // database operation failed
	ErrNotFound          = "SRV_003" // resource not found
)

var httpStatusMap = map[string]int{
	ErrInvalidCredentials:  http.StatusUnauthorized,
	ErrUserDisabled:        http.StatusForbidden,
	ErrUserNotFound:        http.StatusNotFound,
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrUserAlreadyExists:   http.StatusBadRequest,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrReportValidation:    http.StatusUnprocessableEntity,
	ErrSourceRead:          http.StatusBadGateway,
	ErrEmptyDataset:        http.StatusUnprocessableEntity,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrDatabaseOperation:   http.StatusInternalServerError,
	ErrNotFound:            http.StatusNotFound,
}

// APIError is the standard error payload returned by the API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standardized error to the HTTP response
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError builds an API error from a Go error
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
