package models

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Appointment представляет запись на прием
type Appointment struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Date        string    `json:"date" db:"date"`
	Time        string    `json:"time" db:"time"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// RequestedAgo возвращает относительное время создания записи ("3 minutes ago")
func (a *Appointment) RequestedAgo() string {
	if a.CreatedAt.IsZero() {
		return ""
	}
	return humanize.Time(a.CreatedAt)
}

// GetFormattedDateTime возвращает отформатированные дату и время приема
func (a *Appointment) GetFormattedDateTime() string {
	return a.Date + " " + a.Time
}
