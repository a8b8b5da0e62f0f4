// El paquete views contiene la lógica de cada pantalla del cliente, sin
// dependencias de la terminal: cargar datos, validar entradas y avisar al
// usuario mediante un Notifier.
package views

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"citasmed/pkg/api"
	"citasmed/pkg/session"
)

var (
	// ErrNoSession: no hay token/dni guardados.
	ErrNoSession         = errors.New("no hay sesión iniciada")
	// ErrEmptyAppointments: la lista de citas llegó vacía.
	ErrEmptyAppointments = errors.New("la lista de citas está vacía o no es válida")
	// ErrBadCredentials: el servidor respondió 2xx pero sin token.
	ErrBadCredentials    = errors.New("DNI o contraseña incorrectos")
	ErrPasswordMismatch  = errors.New("las contraseñas no coinciden")
	ErrReadOnlyField     = errors.New("campo no editable")
	ErrUnknownField      = errors.New("campo desconocido")
	ErrNotEditing        = errors.New("el perfil no está en modo edición")
	ErrUnknownOption     = errors.New("opción no disponible")
	ErrDialogClosed      = errors.New("el diálogo de confirmación no está abierto")
)

// Notifier muestra avisos al usuario.
type Notifier interface {
	Info(title, msg string)
	Error(title, msg string)
}

// Backend son las llamadas a la API que usan las pantallas.
type Backend interface {
	Login(ctx context.Context, dni, password string) (api.LoginResponse, error)
	Register(ctx context.Context, reg api.Registration) error
	GetUser(ctx context.Context, token, dni string) (api.UserProfile, error)
	UpdateUser(ctx context.Context, token, dni string, p api.UserProfile) (api.UserProfile, error)
	Appointments(ctx context.Context, token, dni string) (json.RawMessage, error)
	CreateAppointment(ctx context.Context, token string, a api.Appointment) (api.Appointment, error)
	Doctor(ctx context.Context, token, dni string) (api.Doctor, error)
	Doctors(ctx context.Context, token string) ([]api.Doctor, error)
	Specialties(ctx context.Context, token string) ([]api.Specialty, error)
}

// Sessions es el almacén de sesión.
type Sessions interface {
	Save(token, dni string) error
	Load() (session.State, error)
	Clear() error
}

// Deps agrupa lo que necesita cada pantalla.
type Deps struct {
	API      Backend
	Sessions Sessions
	Notify   Notifier
	Log      *log.Logger
}

const msgNoSession = "No se encontró un token válido. Por favor, inicia sesión."

// requireSession devuelve la sesión autenticada o avisa y devuelve
// ErrNoSession sin hacer ninguna petición.
func (d Deps) requireSession() (session.Authenticated, error) {
	st, err := d.Sessions.Load()
	if err != nil {
		d.Log.Printf("ERROR leyendo la sesión: %v", err)
		d.Notify.Error("Error", "Algo salió mal al obtener el token.")
		return session.Authenticated{}, ErrNoSession
	}
	auth, ok := st.(session.Authenticated)
	if !ok {
		d.Notify.Error("Error", msgNoSession)
		return session.Authenticated{}, ErrNoSession
	}
	return auth, nil
}
