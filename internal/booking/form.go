package booking

import "appointment_booking/internal/validation"

// FormState представляет неизменяемое состояние формы записи.
// Каждое изменение возвращает новое значение, прежнее не мутируется.
type FormState struct {
	Name        string
	Date        string
	Time        string
	Description string
}

// WithName возвращает копию формы с новым именем
func (f FormState) WithName(name string) FormState {
	f.Name = name
	return f
}

// WithDate возвращает копию формы с новой датой.
// Выбранное время сбрасывается: при смене даты оно могло устареть.
func (f FormState) WithDate(date string) FormState {
	f.Date = date
	f.Time = ""
	return f
}

// WithTime возвращает копию формы с новым временем
func (f FormState) WithTime(timeLabel string) FormState {
	f.Time = timeLabel
	return f
}

// WithDescription возвращает копию формы с новым описанием
func (f FormState) WithDescription(description string) FormState {
	f.Description = description
	return f
}

// Reset возвращает пустую форму
func (f FormState) Reset() FormState {
	return FormState{}
}

// Validate проверяет, что все обязательные поля заполнены корректно
func (f FormState) Validate() error {
	if err := validation.ValidateName(f.Name); err != nil {
		return err
	}
	if err := validation.ValidateDate(f.Date); err != nil {
		return err
	}
	if err := validation.ValidateTime(f.Time); err != nil {
		return err
	}
	return validation.ValidateDescription(f.Description)
}
