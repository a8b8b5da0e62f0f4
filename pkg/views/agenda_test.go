package views

import (
	"reflect"
	"testing"
	"time"
)

func TestTimeSlots(t *testing.T) {
	want := []string{"9:00", "10:15", "11:30", "12:45", "14:00", "15:15", "16:30", "17:45"}
	if !reflect.DeepEqual(TimeSlots, want) {
		t.Fatalf("TimeSlots = %v, want %v", TimeSlots, want)
	}
}

func dates(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Format("2006-01-02"))
	}
	return out
}

func TestMonthWindow(t *testing.T) {
	// jueves 27 de marzo de 2025
	now := time.Date(2025, time.March, 27, 18, 30, 0, 0, time.Local)
	got := dates(AvailableDates(MonthWindow{}, now))
	want := []string{"2025-03-27", "2025-03-28", "2025-03-31"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableDates(month) = %v, want %v", got, want)
	}
}

func TestWeekWindow(t *testing.T) {
	// miércoles 5 de marzo de 2025
	now := time.Date(2025, time.March, 5, 8, 0, 0, 0, time.Local)
	got := dates(AvailableDates(WeekWindow{}, now))
	want := []string{"2025-03-05", "2025-03-06", "2025-03-07"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableDates(week) = %v, want %v", got, want)
	}

	// en sábado ya no queda nada en la semana
	sat := time.Date(2025, time.March, 8, 8, 0, 0, 0, time.Local)
	if got := AvailableDates(WeekWindow{}, sat); len(got) != 0 {
		t.Fatalf("AvailableDates(week, saturday) = %v, want none", dates(got))
	}
}

func TestParseWindow(t *testing.T) {
	for name, want := range map[string]string{"": "month", "month": "month", "week": "week"} {
		w, err := ParseWindow(name)
		if err != nil || w.Name() != want {
			t.Errorf("ParseWindow(%q) = %v, %v; want %s", name, w, err, want)
		}
	}
	if _, err := ParseWindow("year"); err == nil {
		t.Error("ParseWindow(year) should fail")
	}
}
