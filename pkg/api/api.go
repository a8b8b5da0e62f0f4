// El paquete api contiene las estructuras necesarias
// para la comunicación entre el cliente y la API de citas.
package api

import "strings"

// Rutas de la API (relativas a la URL base, que ya incluye /api).
const (
	PathLogin       = "/auth/loginUser"
	PathUsers       = "/user/"
	PathAppointment = "/appointment"
	PathDoctors     = "/doctor/"
	PathSpecialties = "/specialty/"
)

// Nombre de la cabecera que lleva el token en crudo (no es Bearer).
const TokenHeader = "token"

// UserPath devuelve /user/{dni}
func UserPath(dni string) string { return PathUsers + dni }

// AppointmentsPath devuelve /appointment/{dni}
func AppointmentsPath(dni string) string { return PathAppointment + "/" + dni }

// DoctorPath devuelve /doctor/{dni}
func DoctorPath(dni string) string { return PathDoctors + dni }

type LoginRequest struct {
	DNI      string `json:"dni"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// ErrorBody es el cuerpo de error que devuelve el servidor (opcional).
type ErrorBody struct {
	Message string `json:"message"`
}

type UserProfile struct {
	DNI      string `json:"dni"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	BornDate string `json:"bornDate"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Gender   string `json:"gender"`
}

// Registration es el perfil completo más la contraseña.
type Registration struct {
	DNI      string `json:"dni" validate:"required"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	BornDate string `json:"bornDate"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	Address  string `json:"address"`
	Gender   string `json:"gender" validate:"oneof=M F"`
	Password string `json:"password" validate:"required"`
}

// Profile devuelve la parte de perfil del registro (sin contraseña).
func (r Registration) Profile() UserProfile {
	return UserProfile{
		DNI:      r.DNI,
		Name:     r.Name,
		Lastname: r.Lastname,
		BornDate: r.BornDate,
		Phone:    r.Phone,
		Email:    r.Email,
		Address:  r.Address,
		Gender:   r.Gender,
	}
}

// Appointment es una cita. Al crearla el ID va vacío y no se serializa,
// de modo que el cuerpo enviado es exactamente {reason,date,time,doctor,user}.
type Appointment struct {
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Doctor string `json:"doctor"`
	User   string `json:"user"`
}

// Day devuelve la fecha sin la parte horaria (el servidor puede mandar
// un timestamp completo).
func (a Appointment) Day() string {
	day, _, _ := strings.Cut(a.Date, "T")
	return day
}

type Specialty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DoctorSpecialty es la referencia a especialidad embebida en un médico.
type DoctorSpecialty struct {
	UID  string `json:"uid"`
	Name string `json:"name,omitempty"`
}

type Doctor struct {
	DNI       string            `json:"dni"`
	Name      string            `json:"name"`
	Specialty []DoctorSpecialty `json:"specialty"`
}

// HasSpecialty indica si el médico tiene la especialidad id en cualquier
// posición de su lista.
func (d Doctor) HasSpecialty(id string) bool {
	for _, s := range d.Specialty {
		if s.UID == id {
			return true
		}
	}
	return false
}
