package ui

import (
	"fmt"

	"citasmed/pkg/api"

	"github.com/mdp/qrterminal"
)

// CheckInText es el contenido del código de la cita que se muestra en
// recepción.
func CheckInText(a api.Appointment) string {
	id := a.ID
	if id == "" {
		id = "-"
	}
	return fmt.Sprintf("CITA;id=%s;dni=%s;medico=%s;fecha=%s;hora=%s", id, a.User, a.Doctor, a.Day(), a.Time)
}

// PrintQR imprime el código QR de la cita en la terminal.
func PrintQR(a api.Appointment) {
	qrterminal.Generate(CheckInText(a), qrterminal.L, out)
}
