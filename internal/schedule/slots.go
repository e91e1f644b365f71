package schedule

import "fmt"

// Форматы даты и времени, используемые во всем приложении
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
	TimeFormat = "15:04"      // HH:MM
)

// Рабочее окно: каждые 30 минут с 09:00 до 18:00 включительно.
// Окно одинаковое для всех дней, слота 18:30 не существует.
const (
	firstHour = 9
	lastHour  = 17
)

// SlotCount — количество слотов в каноническом расписании дня
const SlotCount = (lastHour-firstHour+1)*2 + 1

// Slots возвращает каноническую последовательность слотов дня:
// 09:00, 09:30, 10:00, ..., 17:30, 18:00
func Slots() []string {
	slots := make([]string, 0, SlotCount)
	for hour := firstHour; hour <= lastHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
		slots = append(slots, fmt.Sprintf("%02d:30", hour))
	}
	slots = append(slots, "18:00")
	return slots
}

// IsSlot проверяет, входит ли метка времени в каноническую последовательность
func IsSlot(label string) bool {
	for _, slot := range Slots() {
		if slot == label {
			return true
		}
	}
	return false
}

// Free возвращает свободные слоты: каноническая последовательность
// минус занятые метки, порядок сохраняется
func Free(booked []string) []string {
	bookedSet := make(map[string]struct{}, len(booked))
	for _, label := range booked {
		bookedSet[label] = struct{}{}
	}

	free := make([]string, 0, SlotCount)
	for _, slot := range Slots() {
		if _, taken := bookedSet[slot]; !taken {
			free = append(free, slot)
		}
	}
	return free
}
