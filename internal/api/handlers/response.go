package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

const maxBodyBytes = 1 << 20

// errorResponse is the failure envelope shared by every endpoint
type errorResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	ErrorAr string              `json:"error_ar,omitempty"`
	Code    apperrors.ErrorCode `json:"code"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondWithError writes err using its AppError type and code. Store and
// internal failures are logged and answered with a generic message.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError("unexpected error", err)
	}

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Str("code", string(appErr.Code)).
			Str("path", r.URL.Path).
			Msg("Request failed")

		respondWithJSON(w, status, errorResponse{
			Error:   "Internal server error, please try again",
			ErrorAr: "حدث خطأ في الخادم، يرجى المحاولة مرة أخرى",
			Code:    appErr.Code,
		})
		return
	}

	respondWithJSON(w, status, errorResponse{
		Error:   appErr.Message,
		ErrorAr: appErr.MessageAr,
		Code:    appErr.Code,
	})
}

// decodeJSON reads a JSON request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return apperrors.NewValidationError(apperrors.CodeInvalidPayload, "request body is required").
			WithArabic("البيانات المرسلة غير صحيحة")
	}
	return &apperrors.AppError{
		Type:      apperrors.ErrorTypeValidation,
		Code:      apperrors.CodeInvalidPayload,
		Message:   "invalid request payload",
		MessageAr: "البيانات المرسلة غير صحيحة",
		Err:       err,
	}
}
