package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"citasmed/pkg/api"
	"citasmed/pkg/gateway"
	"citasmed/pkg/nav"

	"github.com/go-playground/validator/v10"
)

// Login es la pantalla de inicio de sesión.
type Login struct {
	Deps
	attempts int
}

// NewLogin crea la vista. attempts es el número fijo de intentos ante
// fallos de red o respuestas no 2xx.
func NewLogin(d Deps, attempts int) *Login {
	if attempts < 1 {
		attempts = 1
	}
	return &Login{Deps: d, attempts: attempts}
}

// Submit autentica al usuario. Un 2xx sin token es un fallo de
// credenciales: no se reintenta ni se guarda sesión.
func (v *Login) Submit(ctx context.Context, dni, password string) (nav.Route, error) {
	var (
		resp api.LoginResponse
		err  error
	)
	for attempt := 1; attempt <= v.attempts; attempt++ {
		resp, err = v.API.Login(ctx, dni, password)
		if err == nil || ctx.Err() != nil || errors.Is(err, gateway.ErrUnexpectedShape) {
			break
		}
		v.Log.Printf("Intento de login %d de %d fallido para %s: %v", attempt, v.attempts, dni, err)
	}

	if err != nil {
		v.Log.Printf("ERROR iniciando sesión: %v", err)
		var he *gateway.HTTPError
		if errors.As(err, &he) {
			v.Notify.Error("Error", "Contraseña o Usuario Incorrecto")
		} else {
			v.Notify.Error("Error", "Algo salió mal. Por favor, intenta de nuevo.")
		}
		return nil, err
	}

	if resp.Token == "" {
		v.Log.Printf("Login sin token para %s", dni)
		v.Notify.Error("Error", "DNI o contraseña incorrectos")
		return nil, ErrBadCredentials
	}

	if err := v.Sessions.Save(resp.Token, dni); err != nil {
		v.Log.Printf("ERROR guardando la sesión: %v", err)
		v.Notify.Error("Error", "No se pudo guardar la sesión.")
		return nil, err
	}
	v.Log.Printf("------------------------Login exitoso para el usuario %s---------------------------", dni)
	v.Notify.Info("Éxito", "¡Inicio de sesión exitoso!")
	return nav.Home{}, nil
}

// Register es la pantalla de registro.
type Register struct {
	Deps
	validate *validator.Validate
}

func NewRegister(d Deps) *Register {
	return &Register{Deps: d, validate: validator.New()}
}

// NewRegistration devuelve el formulario vacío con el género por defecto.
func NewRegistration() api.Registration {
	return api.Registration{Gender: "M"}
}

// Submit comprueba la confirmación de contraseña en local y envía el
// registro completo. Si va bien, lleva al login con el DNI relleno.
func (v *Register) Submit(ctx context.Context, reg api.Registration, confirm string) (nav.Route, error) {
	if reg.Password != confirm {
		v.Notify.Error("Error", "Las contraseñas no coinciden")
		return nil, ErrPasswordMismatch
	}
	if err := v.validate.Struct(reg); err != nil {
		v.Notify.Error("Error", "Datos inválidos: "+invalidFields(err))
		return nil, err
	}

	if err := v.API.Register(ctx, reg); err != nil {
		v.Log.Printf("ERROR en el registro de %s: %v", reg.DNI, err)
		if msg := gateway.ServerMessage(err); msg != "" {
			v.Notify.Error("Error", "Error: "+msg)
		} else {
			v.Notify.Error("Error", "Algo salió mal al registrarse")
		}
		return nil, err
	}
	v.Log.Printf("Registro exitoso de %s", reg.DNI)
	v.Notify.Info("Éxito", "Usuario registrado exitosamente")
	return nav.Login{DNI: reg.DNI}, nil
}

func invalidFields(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		names = append(names, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(names, ", ")
}
