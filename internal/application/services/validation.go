package services

import (
	"strings"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// requiredField pairs a request field name with its raw value
type requiredField struct {
	name  string
	value string
}

// requireFields returns a missing_field error naming every blank field
func requireFields(fields ...requiredField) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperrors.NewValidationError(apperrors.CodeMissingField, strings.Join(missing, ", ")+" required").
		WithArabic("يرجى إدخال جميع البيانات المطلوبة")
}

// parseSlot validates a YYYY-MM-DD date and an HH:mm time
func parseSlot(date, clock string) (entities.CalendarDate, entities.ClockTime, error) {
	day, err := entities.ParseCalendarDate(date)
	if err != nil {
		return entities.CalendarDate{}, entities.ClockTime{}, invalidDateError(err)
	}

	at, err := entities.ParseClockTime(clock)
	if err != nil {
		return entities.CalendarDate{}, entities.ClockTime{}, &apperrors.AppError{
			Type:      apperrors.ErrorTypeValidation,
			Code:      apperrors.CodeInvalidTimeFormat,
			Message:   "Invalid time format. Use HH:mm (24-hour format)",
			MessageAr: "صيغة الوقت غير صحيحة. استخدم HH:mm",
			Err:       err,
		}
	}

	return day, at, nil
}

func invalidDateError(err error) error {
	return &apperrors.AppError{
		Type:      apperrors.ErrorTypeValidation,
		Code:      apperrors.CodeInvalidDateFormat,
		Message:   "Invalid date format. Use YYYY-MM-DD",
		MessageAr: "صيغة التاريخ غير صحيحة. استخدم YYYY-MM-DD",
		Err:       err,
	}
}

func slotTakenError() error {
	return apperrors.NewConflictError(apperrors.CodeSlotTaken, "This time slot is no longer available").
		WithArabic("هذا الموعد لم يعد متاحاً")
}
