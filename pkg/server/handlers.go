package server

import (
	"cmp"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"citasmed/pkg/api"
	"citasmed/pkg/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

func (s *server) getUser(c *gin.Context) {
	dni := c.Param("dni")
	if !sameUser(c, dni) {
		return
	}
	u, err := s.loadUser(dni)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	if err != nil {
		s.log.Printf("ERROR leyendo usuario %s: %v", dni, err)
		fail(c, http.StatusInternalServerError, "Error leyendo el usuario")
		return
	}
	c.JSON(http.StatusOK, u.Profile)
}

// updateUser reemplaza el perfil completo. El DNI no cambia.
func (s *server) updateUser(c *gin.Context) {
	dni := c.Param("dni")
	if !sameUser(c, dni) {
		return
	}
	var p api.UserProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	u, err := s.loadUser(dni)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	if err != nil {
		s.log.Printf("ERROR leyendo usuario %s: %v", dni, err)
		fail(c, http.StatusInternalServerError, "Error leyendo el usuario")
		return
	}

	p.DNI = dni
	u.Profile = p
	if err := s.saveUser(u); err != nil {
		s.log.Printf("ERROR guardando usuario %s: %v", dni, err)
		fail(c, http.StatusInternalServerError, "Error actualizando el usuario")
		return
	}
	s.log.Printf("Perfil de %s actualizado", dni)
	c.JSON(http.StatusOK, u.Profile)
}

// listAppointments devuelve las citas del usuario ordenadas por fecha y
// hora. Sin citas devuelve un array vacío.
func (s *server) listAppointments(c *gin.Context) {
	dni := c.Param("dni")
	if !sameUser(c, dni) {
		return
	}
	all, err := listJSON[api.Appointment](s.db, nsAppointments)
	if err != nil {
		s.log.Printf("ERROR listando citas: %v", err)
		fail(c, http.StatusInternalServerError, "Error obteniendo las citas")
		return
	}
	mine := lo.Filter(all, func(a api.Appointment, _ int) bool { return a.User == dni })
	slices.SortFunc(mine, func(a, b api.Appointment) int {
		return cmp.Or(cmp.Compare(a.Day(), b.Day()), cmp.Compare(slotMinutes(a.Time), slotMinutes(b.Time)))
	})
	c.JSON(http.StatusOK, mine)
}

// slotMinutes convierte "9:00" en minutos para ordenar.
func slotMinutes(t string) int {
	h, m, _ := strings.Cut(t, ":")
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	return hours*60 + minutes
}

func (s *server) createAppointment(c *gin.Context) {
	var a api.Appointment
	if err := c.ShouldBindJSON(&a); err != nil {
		fail(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	if !sameUser(c, a.User) {
		return
	}
	if a.Doctor == "" || a.Date == "" || a.Time == "" {
		fail(c, http.StatusBadRequest, "Faltan datos de la cita")
		return
	}
	if _, err := s.db.Get(nsDoctors, []byte(a.Doctor)); err != nil {
		fail(c, http.StatusBadRequest, "Médico no encontrado")
		return
	}

	a.ID = uuid.NewString()
	if err := s.putJSON(nsAppointments, a.ID, a); err != nil {
		s.log.Printf("ERROR guardando cita: %v", err)
		fail(c, http.StatusInternalServerError, "Error al crear la cita")
		return
	}
	s.log.Printf("Cita %s creada para %s con %s el %s a las %s", a.ID, a.User, a.Doctor, a.Date, a.Time)
	c.JSON(http.StatusCreated, a)
}

// getDoctors sirve /doctor/ (lista) y /doctor/{dni} (detalle).
func (s *server) getDoctors(c *gin.Context) {
	dni := strings.Trim(c.Param("dni"), "/")
	if dni == "" {
		doctors, err := listJSON[api.Doctor](s.db, nsDoctors)
		if err != nil {
			s.log.Printf("ERROR listando médicos: %v", err)
			fail(c, http.StatusInternalServerError, "Error obteniendo los médicos")
			return
		}
		c.JSON(http.StatusOK, doctors)
		return
	}

	var d api.Doctor
	if err := s.getJSON(nsDoctors, dni, &d); errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "Médico no encontrado")
		return
	} else if err != nil {
		s.log.Printf("ERROR leyendo médico %s: %v", dni, err)
		fail(c, http.StatusInternalServerError, "Error obteniendo el médico")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *server) listSpecialties(c *gin.Context) {
	specialties, err := listJSON[api.Specialty](s.db, nsSpecialties)
	if err != nil {
		s.log.Printf("ERROR listando especialidades: %v", err)
		fail(c, http.StatusInternalServerError, "Error obteniendo las especialidades")
		return
	}
	slices.SortFunc(specialties, func(a, b api.Specialty) int { return cmp.Compare(a.Name, b.Name) })
	c.JSON(http.StatusOK, specialties)
}
