package errors

import "fmt"

// AppError представляет ошибку приложения с кодом и контекстом
type AppError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Err     error       `json:"-"`
	Context interface{} `json:"context,omitempty"`
}

// Error реализует интерфейс error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap позволяет использовать errors.Is и errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is считает две AppError равными при совпадении кода
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithContext добавляет контекст к ошибке
func (e *AppError) WithContext(ctx interface{}) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Context: ctx,
	}
}

// WithError добавляет underlying ошибку
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
		Context: e.Context,
	}
}

// Предопределенные ошибки
var (
	// Ошибки валидации формы
	ErrNameRequired = &AppError{
		Code:    "NAME_REQUIRED",
		Message: "имя не может быть пустым",
	}

	ErrDateRequired = &AppError{
		Code:    "DATE_REQUIRED",
		Message: "дата не может быть пустой",
	}

	ErrTimeRequired = &AppError{
		Code:    "TIME_REQUIRED",
		Message: "время не может быть пустым",
	}

	ErrDescriptionRequired = &AppError{
		Code:    "DESCRIPTION_REQUIRED",
		Message: "описание не может быть пустым",
	}

	ErrInvalidDate = &AppError{
		Code:    "INVALID_DATE",
		Message: "некорректная дата",
	}

	ErrInvalidTime = &AppError{
		Code:    "INVALID_TIME",
		Message: "некорректное время",
	}

	ErrInvalidAppointmentID = &AppError{
		Code:    "INVALID_APPOINTMENT_ID",
		Message: "некорректный ID записи",
	}

	// Ошибки слотов
	ErrUnknownSlot = &AppError{
		Code:    "UNKNOWN_SLOT",
		Message: "время не входит в рабочие часы",
	}

	ErrSlotNotAvailable = &AppError{
		Code:    "SLOT_NOT_AVAILABLE",
		Message: "слот уже занят на выбранную дату",
	}

	ErrSlotTaken = &AppError{
		Code:    "SLOT_TAKEN",
		Message: "запись на эту дату и время уже существует",
	}

	ErrAppointmentNotFound = &AppError{
		Code:    "APPOINTMENT_NOT_FOUND",
		Message: "запись не найдена",
	}

	// Системные ошибки
	ErrDatabaseConnection = &AppError{
		Code:    "DATABASE_CONNECTION",
		Message: "ошибка подключения к базе данных",
	}

	ErrStorageUnavailable = &AppError{
		Code:    "STORAGE_UNAVAILABLE",
		Message: "хранилище недоступно",
	}

	ErrConfigurationInvalid = &AppError{
		Code:    "CONFIGURATION_INVALID",
		Message: "некорректная конфигурация",
	}
)

// NewAppError создает новую ошибку приложения
func NewAppError(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap оборачивает обычную ошибку в AppError
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAppError проверяет, является ли ошибка AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError извлекает AppError из ошибки
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}
