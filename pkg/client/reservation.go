package client

import (
	"context"
	"errors"

	"citasmed/pkg/api"
	"citasmed/pkg/nav"
	"citasmed/pkg/ui"
	"citasmed/pkg/views"

	"github.com/samber/lo"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printForm(f views.ReservationForm) {
	ui.Field("Especialidad", orDash(f.Specialty))
	ui.Field("Médico", orDash(f.DoctorName))
	ui.Field("Fecha", orDash(f.Date))
	ui.Field("Hora", orDash(f.Time))
	ui.Field("Motivo", orDash(f.Reason))
	ui.Println()
}

// Reservation es el formulario de reserva. Los campos se rellenan en
// cualquier orden; la confirmación envía lo que haya.
func (s *screens) Reservation(ctx context.Context, _ nav.Reservation) nav.Route {
	v := views.NewReservation(s.deps, s.window)
	v.Now = s.now

	ui.ClearScreen()
	ui.Title("Reservar cita")
	if err := v.Load(ctx); err != nil {
		if errors.Is(err, views.ErrNoSession) {
			ui.Pause(pauseMsg)
			return nav.Login{}
		}
		ui.Pause(pauseMsg)
	}

	for {
		ui.ClearScreen()
		ui.Title("Reservar cita")
		printForm(v.Form())

		choice := ui.PrintMenu("Opciones", []string{
			"Elegir especialidad",
			"Elegir médico",
			"Elegir fecha",
			"Elegir hora",
			"Escribir motivo",
			"Confirmar reserva",
			"Recargar especialidades y médicos",
		}, "Volver")

		switch choice {
		case 0:
			return nav.Home{}
		case 1:
			s.pickSpecialty(v)
		case 2:
			s.pickDoctor(v)
		case 3:
			s.pickDate(v)
		case 4:
			if slot := ui.PrintMenu("Horas disponibles", views.TimeSlots, "Volver"); slot > 0 {
				_ = v.SelectTime(views.TimeSlots[slot-1])
			}
		case 5:
			v.SetReason(ui.ReadInputDefault("Motivo de la cita", v.Form().Reason))
		case 6:
			if next := s.confirm(ctx, v); next != nil {
				return next
			}
		case 7:
			if err := v.Load(ctx); errors.Is(err, views.ErrNoSession) {
				ui.Pause(pauseMsg)
				return nav.Login{}
			}
		}
	}
}

func (s *screens) pickSpecialty(v *views.Reservation) {
	if len(v.Specialties) == 0 {
		s.deps.Notify.Error("Error", "No hay especialidades disponibles.")
		ui.Pause(pauseMsg)
		return
	}
	names := lo.Map(v.Specialties, func(sp api.Specialty, _ int) string { return sp.Name })
	if choice := ui.PrintMenu("Especialidades", names, "Volver"); choice > 0 {
		_ = v.SelectSpecialty(names[choice-1])
	}
}

func (s *screens) pickDoctor(v *views.Reservation) {
	doctors := v.FilteredDoctors()
	if len(doctors) == 0 {
		s.deps.Notify.Error("Error", "No hay médicos para la especialidad elegida.")
		ui.Pause(pauseMsg)
		return
	}
	names := lo.Map(doctors, func(d api.Doctor, _ int) string { return d.Name })
	if choice := ui.PrintMenu("Médicos", names, "Volver"); choice > 0 {
		_ = v.SelectDoctor(names[choice-1])
	}
}

func (s *screens) pickDate(v *views.Reservation) {
	d, err := ui.PickDate("Fecha de la cita", v.AvailableDates())
	if errors.Is(err, ui.ErrCancelled) {
		return
	}
	if err != nil {
		s.deps.Log.Printf("Error eligiendo fecha: %v", err)
		s.deps.Notify.Error("Error", "No hay fechas disponibles.")
		ui.Pause(pauseMsg)
		return
	}
	if err := v.SelectDate(d); err != nil {
		s.deps.Notify.Error("Error", "Fecha no disponible.")
		ui.Pause(pauseMsg)
	}
}

// confirm abre el diálogo de confirmación. Si el envío falla el diálogo
// sigue abierto para reintentar o cancelar. Devuelve nil si se cancela.
func (s *screens) confirm(ctx context.Context, v *views.Reservation) nav.Route {
	v.OpenConfirm()
	for v.ConfirmOpen() {
		ui.ClearScreen()
		ui.Title("Confirmar cita")
		printForm(v.Form())

		if ui.PrintMenu("¿Reservar esta cita?", []string{"Confirmar"}, "Cancelar") == 0 {
			v.CancelConfirm()
			return nil
		}
		_, err := v.Confirm(ctx)
		ui.Pause(pauseMsg)
		switch {
		case err == nil:
			return nav.Home{}
		case errors.Is(err, views.ErrNoSession):
			return nav.Login{}
		}
	}
	return nil
}
