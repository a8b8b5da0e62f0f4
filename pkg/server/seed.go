package server

import (
	"citasmed/pkg/api"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var seedSpecialties = []string{"Cardiología", "Dermatología", "Medicina general", "Pediatría", "Traumatología"}

// seedDoctors asigna especialidades por nombre.
var seedDoctors = []struct {
	dni, name   string
	specialties []string
}{
	{"11111111H", "Dra. Carmen López", []string{"Cardiología"}},
	{"22222222J", "Dr. Javier Pérez", []string{"Dermatología"}},
	{"33333333P", "Dra. Lucía Martín", []string{"Medicina general", "Pediatría"}},
	{"44444444A", "Dr. Andrés Ruiz", []string{"Traumatología", "Medicina general"}},
	{"55555555K", "Dra. Elena Sanz", []string{"Pediatría"}},
}

// seed crea especialidades y médicos la primera vez que arranca el
// servidor.
func (s *server) seed() error {
	keys, err := s.db.ListKeys(nsSpecialties)
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return nil
	}

	ids := make(map[string]string, len(seedSpecialties))
	for _, name := range seedSpecialties {
		sp := api.Specialty{ID: uuid.NewString(), Name: name}
		ids[name] = sp.ID
		if err := s.putJSON(nsSpecialties, sp.ID, sp); err != nil {
			return err
		}
	}
	for _, d := range seedDoctors {
		doctor := api.Doctor{
			DNI:  d.dni,
			Name: d.name,
			Specialty: lo.Map(d.specialties, func(name string, _ int) api.DoctorSpecialty {
				return api.DoctorSpecialty{UID: ids[name], Name: name}
			}),
		}
		if err := s.putJSON(nsDoctors, doctor.DNI, doctor); err != nil {
			return err
		}
	}
	s.log.Printf("Datos iniciales creados: %d especialidades, %d médicos", len(seedSpecialties), len(seedDoctors))
	return nil
}
