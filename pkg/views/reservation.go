package views

import (
	"context"
	"errors"
	"fmt"
	"time"

	"citasmed/pkg/api"
	"citasmed/pkg/session"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// ReservationForm son los valores elegidos. DoctorID (el DNI) es lo que se
// envía; DoctorName es lo que se muestra.
type ReservationForm struct {
	Specialty   string
	SpecialtyID string
	DoctorName  string
	DoctorID    string
	Date        string
	Time        string
	Reason      string
}

// Reservation es el formulario de reserva de cita.
type Reservation struct {
	Deps
	Window DateWindow
	Now    func() time.Time

	Specialties        []api.Specialty
	Doctors            []api.Doctor
	LoadingSpecialties bool
	LoadingDoctors     bool

	filtered    []api.Doctor
	form        ReservationForm
	confirmOpen bool
}

func NewReservation(d Deps, w DateWindow) *Reservation {
	if w == nil {
		w = MonthWindow{}
	}
	return &Reservation{Deps: d, Window: w, Now: time.Now}
}

// Form devuelve el estado actual del formulario.
func (v *Reservation) Form() ReservationForm { return v.form }

// FilteredDoctors son las opciones del selector de médico.
func (v *Reservation) FilteredDoctors() []api.Doctor { return v.filtered }

func (v *Reservation) ConfirmOpen() bool { return v.confirmOpen }

// Load pide especialidades y médicos a la vez; cada carga tiene su propio
// indicador y su propio aviso de error.
func (v *Reservation) Load(ctx context.Context) error {
	auth, err := v.requireSession()
	if err != nil {
		return err
	}

	v.LoadingSpecialties, v.LoadingDoctors = true, true
	var errSpec, errDoc error

	var g errgroup.Group
	g.Go(func() error {
		defer func() { v.LoadingSpecialties = false }()
		v.Specialties, errSpec = v.API.Specialties(ctx, auth.Token)
		return nil
	})
	g.Go(func() error {
		defer func() { v.LoadingDoctors = false }()
		v.Doctors, errDoc = v.API.Doctors(ctx, auth.Token)
		return nil
	})
	_ = g.Wait()

	if errSpec != nil {
		v.Log.Printf("Error obteniendo especialidades: %v", errSpec)
		v.Notify.Error("Error", "No se pudieron obtener las especialidades.")
	}
	if errDoc != nil {
		v.Log.Printf("Error obteniendo doctores: %v", errDoc)
		v.Notify.Error("Error", "No se pudieron obtener los doctores.")
	}
	if v.form.SpecialtyID != "" {
		v.filter()
	}
	return errors.Join(errSpec, errDoc)
}

// SelectSpecialty elige la especialidad por su nombre y filtra los médicos
// que la tienen (en cualquier posición de su lista).
func (v *Reservation) SelectSpecialty(name string) error {
	s, ok := lo.Find(v.Specialties, func(s api.Specialty) bool { return s.Name == name })
	if !ok {
		return fmt.Errorf("%w: especialidad %q", ErrUnknownOption, name)
	}
	v.form.Specialty = s.Name
	v.form.SpecialtyID = s.ID
	v.filter()
	return nil
}

func (v *Reservation) filter() {
	v.filtered = lo.Filter(v.Doctors, func(d api.Doctor, _ int) bool {
		return d.HasSpecialty(v.form.SpecialtyID)
	})
	// el médico elegido deja de valer si no está en la nueva lista
	if !lo.ContainsBy(v.filtered, func(d api.Doctor) bool { return d.DNI == v.form.DoctorID }) {
		v.form.DoctorName, v.form.DoctorID = "", ""
	}
}

// SelectDoctor elige un médico de la lista filtrada por su nombre.
func (v *Reservation) SelectDoctor(name string) error {
	d, ok := lo.Find(v.filtered, func(d api.Doctor) bool { return d.Name == name })
	if !ok {
		return fmt.Errorf("%w: médico %q", ErrUnknownOption, name)
	}
	v.form.DoctorName = d.Name
	v.form.DoctorID = d.DNI
	return nil
}

// SelectDate acepta solo días laborables dentro de la ventana configurada.
func (v *Reservation) SelectDate(d time.Time) error {
	if !Selectable(v.Window, v.Now(), d) {
		return fmt.Errorf("%w: fecha %s", ErrUnknownOption, d.Format(dateLayout))
	}
	v.form.Date = d.Format(dateLayout)
	return nil
}

// AvailableDates son los días elegibles hoy.
func (v *Reservation) AvailableDates() []time.Time {
	return AvailableDates(v.Window, v.Now())
}

func (v *Reservation) SelectTime(slot string) error {
	if !lo.Contains(TimeSlots, slot) {
		return fmt.Errorf("%w: hora %q", ErrUnknownOption, slot)
	}
	v.form.Time = slot
	return nil
}

// SetReason guarda el motivo. Puede quedar vacío.
func (v *Reservation) SetReason(reason string) { v.form.Reason = reason }

func (v *Reservation) OpenConfirm()   { v.confirmOpen = true }
func (v *Reservation) CancelConfirm() { v.confirmOpen = false }

// Confirm envía la cita. El usuario se lee de la sesión en este momento.
// Si falla, el formulario y el diálogo quedan como estaban.
func (v *Reservation) Confirm(ctx context.Context) (api.Appointment, error) {
	if !v.confirmOpen {
		return api.Appointment{}, ErrDialogClosed
	}
	auth, err := v.requireSession()
	if err != nil {
		return api.Appointment{}, err
	}

	created, err := v.API.CreateAppointment(ctx, auth.Token, v.Payload(auth))
	if err != nil {
		v.Log.Printf("ERROR creando cita: %v", err)
		v.Notify.Error("Error", "No se pudo reservar la cita.")
		return api.Appointment{}, err
	}
	v.Log.Printf("Cita creada para %s con %s el %s a las %s", auth.DNI, v.form.DoctorID, v.form.Date, v.form.Time)
	v.Notify.Info("Éxito", "Cita reservada correctamente.")
	v.confirmOpen = false
	return created, nil
}

// Payload es el cuerpo que se envía al confirmar.
func (v *Reservation) Payload(auth session.Authenticated) api.Appointment {
	return api.Appointment{
		Reason: v.form.Reason,
		Date:   v.form.Date,
		Time:   v.form.Time,
		Doctor: v.form.DoctorID,
		User:   auth.DNI,
	}
}
