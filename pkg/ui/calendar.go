package ui

import (
	"fmt"
	"time"

	"github.com/nsf/termbox-go"
)

var weekdayHeader = []string{"Lu", "Ma", "Mi", "Ju", "Vi", "Sa", "Do"}

var months = []string{"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}

// monthGrid devuelve las semanas (lunes a domingo) del mes de t. Los
// huecos antes del día 1 y después del último día son el valor cero.
func monthGrid(t time.Time) [][]time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	lead := (int(first.Weekday()) + 6) % 7

	var weeks [][]time.Time
	week := make([]time.Time, 7)
	col := lead
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		week[col] = d
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]time.Time, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func indexOfDay(days []time.Time, d time.Time) int {
	for i, x := range days {
		if sameDay(x, d) {
			return i
		}
	}
	return -1
}

// moveCursor calcula el nuevo índice en available al moverse delta días.
// Si el día de destino no está disponible se queda en el más cercano en
// esa dirección.
func moveCursor(available []time.Time, cur, delta int) int {
	if len(available) == 0 {
		return 0
	}
	target := available[cur].AddDate(0, 0, delta)
	if i := indexOfDay(available, target); i >= 0 {
		return i
	}
	if delta > 0 {
		for i := cur + 1; i < len(available); i++ {
			if !available[i].Before(target) {
				return i
			}
		}
		return len(available) - 1
	}
	for i := cur - 1; i >= 0; i-- {
		if !available[i].After(target) {
			return i
		}
	}
	return 0
}

// PickDate deja elegir uno de los días de available. Con terminal muestra
// un calendario (los fines de semana y los días fuera de la ventana
// aparecen desactivados); sin ella, una lista numerada.
func PickDate(title string, available []time.Time) (time.Time, error) {
	if len(available) == 0 {
		return time.Time{}, fmt.Errorf("no hay fechas disponibles")
	}
	if !IsTerminal() {
		options := make([]string, len(available))
		for i, d := range available {
			options[i] = d.Format("2006-01-02")
		}
		choice := PrintMenu(title, options, "Cancelar")
		if choice == 0 {
			return time.Time{}, ErrCancelled
		}
		return available[choice-1], nil
	}

	if err := termbox.Init(); err != nil {
		return time.Time{}, err
	}
	defer termbox.Close()

	cur := 0
	for {
		drawCalendar(title, available, cur)
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventKey:
			switch ev.Key {
			case termbox.KeyEsc:
				return time.Time{}, ErrCancelled
			case termbox.KeyEnter:
				return available[cur], nil
			case termbox.KeyArrowLeft:
				cur = moveCursor(available, cur, -1)
			case termbox.KeyArrowRight:
				cur = moveCursor(available, cur, 1)
			case termbox.KeyArrowUp:
				cur = moveCursor(available, cur, -7)
			case termbox.KeyArrowDown:
				cur = moveCursor(available, cur, 7)
			}
		case termbox.EventError:
			return time.Time{}, ev.Err
		}
	}
}

func drawCalendar(title string, available []time.Time, cur int) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	selected := available[cur]
	drawString(0, 0, title, termbox.ColorCyan|termbox.AttrBold, termbox.ColorDefault)
	drawString(0, 1, fmt.Sprintf("%s %d", months[selected.Month()], selected.Year()), termbox.ColorYellow, termbox.ColorDefault)

	for i, h := range weekdayHeader {
		drawString(i*4, 3, h, termbox.ColorWhite|termbox.AttrBold, termbox.ColorDefault)
	}
	for row, week := range monthGrid(selected) {
		for col, d := range week {
			if d.IsZero() {
				continue
			}
			fg, bg := termbox.ColorBlack|termbox.AttrBold, termbox.ColorDefault
			if indexOfDay(available, d) >= 0 {
				fg = termbox.ColorWhite
			}
			if sameDay(d, selected) {
				fg, bg = termbox.ColorBlack, termbox.ColorGreen
			}
			drawString(col*4, 4+row, fmt.Sprintf("%2d", d.Day()), fg, bg)
		}
	}
	drawString(0, 11, "Flechas para moverse, ENTER para elegir, ESC para cancelar", termbox.ColorWhite, termbox.ColorDefault)
	termbox.Flush()
}
