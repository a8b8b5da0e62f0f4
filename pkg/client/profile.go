package client

import (
	"context"
	"errors"
	"strings"

	"citasmed/pkg/api"
	"citasmed/pkg/nav"
	"citasmed/pkg/ui"
	"citasmed/pkg/views"
)

var fieldLabels = map[string]string{
	"dni":      "DNI",
	"email":    "Correo electrónico",
	"name":     "Nombre",
	"lastname": "Apellidos",
	"bornDate": "Fecha de nacimiento",
	"phone":    "Teléfono",
	"address":  "Dirección",
	"gender":   "Género",
}

func fieldValue(p api.UserProfile, field string) string {
	switch field {
	case "dni":
		return p.DNI
	case "email":
		return p.Email
	case "name":
		return p.Name
	case "lastname":
		return p.Lastname
	case "bornDate":
		return p.BornDate
	case "phone":
		return p.Phone
	case "address":
		return p.Address
	case "gender":
		return p.Gender
	}
	return ""
}

func printProfile(p api.UserProfile) {
	for _, f := range append([]string{"dni", "email"}, views.EditableFields...) {
		ui.Field(fieldLabels[f], orDash(fieldValue(p, f)))
	}
	ui.Println()
}

// Profile muestra el perfil y permite editarlo sobre una copia local.
func (s *screens) Profile(ctx context.Context, _ nav.Profile) nav.Route {
	v := views.NewProfile(s.deps)

	ui.ClearScreen()
	ui.Title("Mi perfil")
	if err := v.Load(ctx); errors.Is(err, views.ErrNoSession) {
		ui.Pause(pauseMsg)
		return nav.Login{}
	} else if err != nil {
		ui.Pause(pauseMsg)
	}

	for {
		ui.ClearScreen()
		ui.Title(v.Greeting())
		printProfile(v.Current())

		var next nav.Route
		if v.Editing() {
			next = s.editProfile(ctx, v)
		} else {
			next = s.viewProfile(ctx, v)
		}
		if next != nil {
			return next
		}
	}
}

func (s *screens) viewProfile(ctx context.Context, v *views.Profile) nav.Route {
	switch ui.PrintMenu("Opciones", []string{"Editar", "Actualizar", "Cerrar sesión"}, "Volver") {
	case 0:
		return nav.Home{}
	case 1:
		v.Edit()
	case 2:
		if err := v.Refresh(ctx); errors.Is(err, views.ErrNoSession) {
			ui.Pause(pauseMsg)
			return nav.Login{}
		} else if err != nil {
			ui.Pause(pauseMsg)
		}
	case 3:
		if err := v.Logout(); err == nil {
			ui.Pause(pauseMsg)
			return nav.Login{}
		}
		ui.Pause(pauseMsg)
	}
	return nil
}

func (s *screens) editProfile(ctx context.Context, v *views.Profile) nav.Route {
	options := make([]string, 0, len(views.EditableFields)+1)
	for _, f := range views.EditableFields {
		options = append(options, "Cambiar "+strings.ToLower(fieldLabels[f]))
	}
	options = append(options, "Guardar")

	choice := ui.PrintMenu("Editar perfil", options, "Cancelar edición")
	switch {
	case choice == 0:
		v.Cancel()
	case choice <= len(views.EditableFields):
		f := views.EditableFields[choice-1]
		value := ui.ReadInputDefault(fieldLabels[f], fieldValue(v.Current(), f))
		if f == "gender" {
			value = strings.ToUpper(value)
		}
		if err := v.Set(f, value); err != nil {
			s.deps.Notify.Error("Error", err.Error())
			ui.Pause(pauseMsg)
		}
	default:
		err := v.Save(ctx)
		ui.Pause(pauseMsg)
		if errors.Is(err, views.ErrNoSession) {
			return nav.Login{}
		}
	}
	return nil
}
