package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", NewValidationError(CodeMissingField, "x"), http.StatusBadRequest},
		{"not found", NewNotFoundError(CodePatientNotFound, "x"), http.StatusNotFound},
		{"conflict", NewConflictError(CodeSlotTaken, "x"), http.StatusConflict},
		{"transient", NewTransientError(CodeStoreUnavailable, "x", context.DeadlineExceeded), http.StatusInternalServerError},
		{"internal", NewInternalError("x", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	err := NewTransientError(CodeStoreUnavailable, "failed to query appointments", context.DeadlineExceeded)

	assert.Equal(t, "TRANSIENT: failed to query appointments: context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "CONFLICT: slot taken", NewConflictError(CodeSlotTaken, "slot taken").Error())
}

func TestAsAndHasCode(t *testing.T) {
	wrapped := fmt.Errorf("booking: %w", NewConflictError(CodeSlotTaken, "slot taken").WithArabic("محجوز"))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "محجوز", appErr.MessageAr)
	assert.True(t, HasCode(wrapped, CodeSlotTaken))
	assert.True(t, IsType(wrapped, ErrorTypeConflict))
	assert.False(t, HasCode(fmt.Errorf("plain"), CodeSlotTaken))
}
