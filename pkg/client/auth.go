package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"citasmed/pkg/nav"
	"citasmed/pkg/ui"
	"citasmed/pkg/views"
)

// Login pide DNI y contraseña. r.DNI, si viene del registro, se ofrece
// como valor por defecto.
func (s *screens) Login(ctx context.Context, r nav.Login) nav.Route {
	ui.ClearScreen()
	ui.Title("Inicio de sesión")

	switch ui.PrintMenu("Menú", []string{"Iniciar sesión", "Registrarse"}, "Salir") {
	case 0:
		return nav.Exit{}
	case 2:
		return nav.Register{}
	}

	dni := strings.ToUpper(ui.ReadInputDefault("DNI", r.DNI))
	password, err := ui.ReadPassword("Contraseña")
	if err != nil {
		s.deps.Log.Printf("ERROR leyendo contraseña: %v", err)
		s.deps.Notify.Error("Error", "No se pudo leer la contraseña.")
		ui.Pause(pauseMsg)
		return nav.Login{DNI: dni}
	}

	next, err := views.NewLogin(s.deps, s.cfg.LoginAttempts).Submit(ctx, dni, password)
	ui.Pause(pauseMsg)
	if err != nil {
		return nav.Login{DNI: dni}
	}
	return next
}

// Register pide el perfil completo y la contraseña (sugerida o escrita
// viendo su fortaleza).
func (s *screens) Register(ctx context.Context, _ nav.Register) nav.Route {
	ui.ClearScreen()
	ui.Title("Registro de usuario")

	reg := views.NewRegistration()
	reg.DNI = strings.ToUpper(ui.ReadInput("DNI"))
	reg.Name = ui.ReadInput("Nombre")
	reg.Lastname = ui.ReadInput("Apellidos")
	reg.BornDate = ui.ReadInput("Fecha de nacimiento (AAAA-mm-dd)")
	reg.Phone = ui.ReadInput("Teléfono")
	reg.Email = ui.ReadInput("Correo electrónico")
	reg.Address = ui.ReadInput("Dirección")
	reg.Gender = strings.ToUpper(ui.ReadInputDefault("Género (M/F)", reg.Gender))

	password, confirm, err := s.choosePassword()
	if errors.Is(err, ui.ErrCancelled) {
		return nav.Login{}
	}
	if err != nil {
		s.deps.Log.Printf("ERROR leyendo contraseña: %v", err)
		s.deps.Notify.Error("Error", "No se pudo leer la contraseña.")
		ui.Pause(pauseMsg)
		return nav.Login{}
	}
	reg.Password = password

	next, err := views.NewRegister(s.deps).Submit(ctx, reg, confirm)
	ui.Pause(pauseMsg)
	if err != nil {
		if ui.Confirm("¿Volver a intentarlo?") {
			return nav.Register{}
		}
		return nav.Login{}
	}
	return next
}

// choosePassword devuelve la contraseña y su confirmación.
func (s *screens) choosePassword() (string, string, error) {
	if suggested, err := ui.SuggestPassword(12); err == nil {
		prompt := fmt.Sprintf("Contraseña sugerida: %s (Fortaleza: %s). ¿Desea usarla?",
			suggested, ui.PasswordStrength(suggested))
		if ui.Confirm(prompt) {
			return suggested, suggested, nil
		}
	} else {
		s.deps.Log.Printf("No se pudo generar una contraseña: %v", err)
	}

	password, err := ui.ReadPasswordWithLiveStrength("Contraseña")
	if err != nil {
		return "", "", err
	}
	confirm, err := ui.ReadPassword("Repite la contraseña")
	if err != nil {
		return "", "", err
	}
	return password, confirm, nil
}
