package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"appointment_booking/internal/schedule"
	"appointment_booking/pkg/errors"
)

// Регулярные выражения для валидации
var (
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRegex = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ValidateName валидирует имя заявителя
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.ErrNameRequired
	}
	return nil
}

// ValidateDescription валидирует описание причины приема
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return errors.ErrDescriptionRequired
	}
	return nil
}

// ValidateDate валидирует дату в формате YYYY-MM-DD
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return errors.ErrDateRequired
	}

	if !dateRegex.MatchString(dateStr) {
		return errors.ErrInvalidDate.WithContext(map[string]interface{}{
			"date":   dateStr,
			"reason": "дата должна быть в формате YYYY-MM-DD",
		})
	}

	if _, err := time.Parse(schedule.DateFormat, dateStr); err != nil {
		return errors.ErrInvalidDate.WithError(err).WithContext(map[string]interface{}{
			"date": dateStr,
		})
	}

	return nil
}

// ValidateTime валидирует метку времени и ее принадлежность рабочему окну
func ValidateTime(timeStr string) error {
	if timeStr == "" {
		return errors.ErrTimeRequired
	}

	if !timeRegex.MatchString(timeStr) {
		return errors.ErrInvalidTime.WithContext(map[string]interface{}{
			"time":   timeStr,
			"reason": "время должно быть в формате HH:MM",
		})
	}

	if !schedule.IsSlot(timeStr) {
		return errors.ErrUnknownSlot.WithContext(map[string]interface{}{
			"time": timeStr,
		})
	}

	return nil
}

// ValidateAppointmentID валидирует ID записи
func ValidateAppointmentID(idStr string) (int64, error) {
	if idStr == "" {
		return 0, errors.ErrInvalidAppointmentID.WithContext("ID записи не может быть пустым")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, errors.ErrInvalidAppointmentID.WithError(err).WithContext(map[string]interface{}{
			"input": idStr,
		})
	}

	if id <= 0 {
		return 0, errors.ErrInvalidAppointmentID.WithContext(map[string]interface{}{
			"input":  idStr,
			"reason": "ID должен быть положительным числом",
		})
	}

	return id, nil
}
