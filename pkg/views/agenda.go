package views

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// TimeSlots son las horas reservables: franjas de 75 minutos desde las 9:00.
var TimeSlots = buildSlots(9*time.Hour, 75*time.Minute, 8)

func buildSlots(start, step time.Duration, n int) []string {
	slots := make([]string, 0, n)
	for i := 0; i < n; i++ {
		d := start + time.Duration(i)*step
		slots = append(slots, fmt.Sprintf("%d:%02d", int(d.Hours()), int(d.Minutes())%60))
	}
	return slots
}

// DateWindow decide qué días se pueden reservar.
type DateWindow interface {
	// Bounds devuelve el primer y el último día (inclusive) a partir de now.
	Bounds(now time.Time) (from, to time.Time)
	Name() string
}

// MonthWindow: desde hoy hasta el último día del mes.
type MonthWindow struct{}

func (MonthWindow) Name() string { return "month" }

func (MonthWindow) Bounds(now time.Time) (time.Time, time.Time) {
	today := day(now)
	last := time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, today.Location())
	return today, last
}

// WeekWindow: de lunes a viernes de la semana actual, sin días pasados.
type WeekWindow struct{}

func (WeekWindow) Name() string { return "week" }

func (WeekWindow) Bounds(now time.Time) (time.Time, time.Time) {
	today := day(now)
	offset := (int(today.Weekday()) + 6) % 7 // lunes = 0
	monday := today.AddDate(0, 0, -offset)
	friday := monday.AddDate(0, 0, 4)
	return today, friday
}

// ParseWindow traduce el nombre configurado a una política.
func ParseWindow(name string) (DateWindow, error) {
	switch name {
	case "", "month":
		return MonthWindow{}, nil
	case "week":
		return WeekWindow{}, nil
	default:
		return nil, fmt.Errorf("ventana de fechas desconocida: %q", name)
	}
}

// IsWeekend indica si d cae en sábado o domingo.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Selectable indica si d se puede elegir con la política w.
func Selectable(w DateWindow, now, d time.Time) bool {
	from, to := w.Bounds(now)
	d = day(d)
	return !d.Before(from) && !d.After(to) && !IsWeekend(d)
}

// AvailableDates lista los días elegibles en orden.
func AvailableDates(w DateWindow, now time.Time) []time.Time {
	from, to := w.Bounds(now)
	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			out = append(out, d)
		}
	}
	return out
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
