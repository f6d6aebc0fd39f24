package database

import (
	"context"
	"errors"

	"github.com/lib/pq"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

const (
	uniqueViolation = "23505"

	activeSlotConstraint = "appointments_active_slot_uidx"
	phoneKeyConstraint   = "patients_phone_key_uidx"
)

// storeError converts a driver error into an AppError. Unique violations on
// the known indexes become conflicts; everything else is retryable.
func storeError(message string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		switch pqErr.Constraint {
		case activeSlotConstraint:
			return apperrors.NewConflictError(apperrors.CodeSlotTaken, "this time slot is no longer available").
				WithArabic("هذا الموعد لم يعد متاحاً")
		case phoneKeyConstraint:
			return apperrors.NewConflictError(apperrors.CodeDuplicatePhone, "patient with this phone number already exists").
				WithArabic("يوجد مريض بهذا الرقم مسبقاً")
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTransientError(apperrors.CodeStoreUnavailable, message+": store timed out", err)
	}

	return apperrors.NewTransientError(apperrors.CodeStoreUnavailable, message, err)
}
