package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"citasmed/pkg/nav"
	"citasmed/pkg/session"
	"citasmed/pkg/ui"
	"citasmed/pkg/views"
)

// Home muestra las citas del usuario y el menú principal.
func (s *screens) Home(ctx context.Context, _ nav.Home) nav.Route {
	list := views.NewAppointmentList(s.deps, s.cfg.DoctorFanout)

	ui.ClearScreen()
	ui.Title("Mis citas")
	if _, err := list.Load(ctx); errors.Is(err, views.ErrNoSession) {
		ui.Pause(pauseMsg)
		return nav.Login{}
	}

	for {
		printAppointments(list.Rows())

		choice := ui.PrintMenu("Menú", []string{
			"Actualizar",
			"Ver código QR de una cita",
			"Reservar cita",
			"Mi perfil",
			"Datos de la sesión",
			"Cerrar sesión",
		}, "Salir")

		switch choice {
		case 0:
			return nav.Exit{}
		case 1:
			ui.ClearScreen()
			ui.Title("Mis citas")
			if _, err := list.Refresh(ctx); errors.Is(err, views.ErrNoSession) {
				ui.Pause(pauseMsg)
				return nav.Login{}
			}
			continue
		case 2:
			showQR(list.Rows())
		case 3:
			return nav.Reservation{}
		case 4:
			return nav.Profile{}
		case 5:
			return nav.SessionInfo{}
		case 6:
			if err := views.NewProfile(s.deps).Logout(); err == nil {
				ui.Pause(pauseMsg)
				return nav.Login{}
			}
		}
		ui.Pause(pauseMsg)
		ui.ClearScreen()
		ui.Title("Mis citas")
	}
}

func appointmentLabel(r views.AppointmentRow) string {
	doctor := r.DoctorName()
	if doctor == "" {
		doctor = r.Appointment.Doctor
	}
	return fmt.Sprintf("%s %s - %s", r.Appointment.Day(), r.Appointment.Time, doctor)
}

func printAppointments(rows []views.AppointmentRow) {
	if len(rows) == 0 {
		ui.Println("No hay citas para mostrar.")
		ui.Println()
		return
	}
	for i, r := range rows {
		ui.Highlight("%d. %s", i+1, appointmentLabel(r))
		ui.Field("   Motivo", r.Appointment.Reason)
		ui.Field("   DNI del médico", r.Appointment.Doctor)
		ui.Field("   Especialidad", r.Specialties())
	}
	ui.Println()
}

func showQR(rows []views.AppointmentRow) {
	if len(rows) == 0 {
		ui.Println("No hay citas para mostrar.")
		return
	}
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = appointmentLabel(r)
	}
	choice := ui.PrintMenu("Elige una cita", labels, "Volver")
	if choice == 0 {
		return
	}
	ui.Println()
	ui.PrintQR(rows[choice-1].Appointment)
	ui.Println("Muestra este código en recepción.")
}

// SessionInfo muestra el DNI guardado y lo que se puede leer del token.
func (s *screens) SessionInfo(_ context.Context, _ nav.SessionInfo) nav.Route {
	ui.ClearScreen()
	ui.Title("Datos de la sesión")

	st, err := s.deps.Sessions.Load()
	auth, ok := st.(session.Authenticated)
	if err != nil || !ok {
		if err != nil {
			s.deps.Log.Printf("ERROR leyendo la sesión: %v", err)
		}
		s.deps.Notify.Error("Error", "No se encontró un token válido. Por favor, inicia sesión.")
		ui.Pause(pauseMsg)
		return nav.Login{}
	}

	ui.Field("DNI", auth.DNI)
	ui.Field("Token", shorten(auth.Token, 24))
	claims, err := session.ReadClaims(auth.Token)
	if err != nil {
		ui.Field("Tipo de token", "opaco")
		ui.Pause(pauseMsg)
		return nav.Home{}
	}
	if claims.Subject != "" {
		ui.Field("Usuario del token", claims.Subject)
	}
	if !claims.IssuedAt.IsZero() {
		ui.Field("Emitido", claims.IssuedAt.Format(time.DateTime))
	}
	if !claims.ExpiresAt.IsZero() {
		ui.Field("Caduca", claims.ExpiresAt.Format(time.DateTime))
		if claims.ExpiresAt.Before(s.now()) {
			ui.Warning("El token ha caducado. Vuelve a iniciar sesión.")
		}
	}
	ui.Pause(pauseMsg)
	return nav.Home{}
}

func shorten(text string, length int) string {
	if len(text) <= length {
		return text
	}
	return text[:length-3] + "..."
}
