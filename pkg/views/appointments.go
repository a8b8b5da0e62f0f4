package views

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"citasmed/pkg/api"
	"citasmed/pkg/gateway"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// AppointmentRow es una cita unida a los datos de su médico. Doctor es nil
// si no se pudo obtener.
type AppointmentRow struct {
	Appointment api.Appointment
	Doctor      *api.Doctor
}

// DoctorName devuelve el nombre del médico o "" si no se conoce.
func (r AppointmentRow) DoctorName() string {
	if r.Doctor == nil {
		return ""
	}
	return r.Doctor.Name
}

// Specialties devuelve las especialidades del médico separadas por comas,
// o "N/A".
func (r AppointmentRow) Specialties() string {
	if r.Doctor == nil || len(r.Doctor.Specialty) == 0 {
		return "N/A"
	}
	return strings.Join(lo.Map(r.Doctor.Specialty, func(s api.DoctorSpecialty, _ int) string {
		return s.Name
	}), ", ")
}

// AppointmentList es la pantalla principal: las citas del usuario.
type AppointmentList struct {
	Deps
	fanout int
	rows   []AppointmentRow
}

// NewAppointmentList crea la vista. fanout limita las peticiones de
// médicos simultáneas.
func NewAppointmentList(d Deps, fanout int) *AppointmentList {
	if fanout < 1 {
		fanout = 1
	}
	return &AppointmentList{Deps: d, fanout: fanout}
}

// Rows devuelve las filas de la última carga correcta.
func (v *AppointmentList) Rows() []AppointmentRow { return v.rows }

// Refresh vuelve a ejecutar la carga completa.
func (v *AppointmentList) Refresh(ctx context.Context) ([]AppointmentRow, error) {
	return v.Load(ctx)
}

// Load lee la sesión, pide las citas y, una vez obtenidos todos los
// médicos referenciados, construye las filas. Una respuesta vacía o que
// no sea un array se notifica como error.
func (v *AppointmentList) Load(ctx context.Context) ([]AppointmentRow, error) {
	auth, err := v.requireSession()
	if err != nil {
		return nil, err
	}

	raw, err := v.API.Appointments(ctx, auth.Token, auth.DNI)
	if err != nil {
		v.Log.Printf("ERROR obteniendo citas de %s: %v", auth.DNI, err)
		var he *gateway.HTTPError
		if errors.As(err, &he) {
			v.Notify.Error("Error", "No se pudo obtener la lista de citas.")
		} else if ctx.Err() == nil {
			v.Notify.Error("Error", "Algo salió mal. Por favor, intenta de nuevo.")
		}
		return nil, err
	}

	var appts []api.Appointment
	if !gateway.IsArray(raw) || json.Unmarshal(raw, &appts) != nil || len(appts) == 0 {
		v.Log.Printf("Lista de citas vacía o inválida: %s", string(raw))
		v.Notify.Error("Error", "La lista de citas está vacía o no es válida.")
		return nil, ErrEmptyAppointments
	}

	doctors, err := v.fetchDoctors(ctx, auth.Token, appts)
	if err != nil {
		return nil, err
	}

	rows := make([]AppointmentRow, 0, len(appts))
	for _, a := range appts {
		row := AppointmentRow{Appointment: a}
		if d, ok := doctors[a.Doctor]; ok {
			row.Doctor = &d
		}
		rows = append(rows, row)
	}
	v.rows = rows
	return rows, nil
}

// fetchDoctors pide cada médico distinto una sola vez, en paralelo y con
// como mucho fanout peticiones a la vez. Un médico que falla se omite.
// Solo devuelve error si ctx se cancela.
func (v *AppointmentList) fetchDoctors(ctx context.Context, token string, appts []api.Appointment) (map[string]api.Doctor, error) {
	ids := lo.Uniq(lo.Compact(lo.Map(appts, func(a api.Appointment, _ int) string {
		return a.Doctor
	})))

	var (
		mu      sync.Mutex
		doctors = make(map[string]api.Doctor, len(ids))
	)
	g := new(errgroup.Group)
	g.SetLimit(v.fanout)
	for _, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := v.API.Doctor(ctx, token, id)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				v.Log.Printf("No se pudo obtener los datos del doctor con DNI %s: %v", id, err)
				return nil
			}
			mu.Lock()
			doctors[id] = d
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return doctors, nil
}
