package views

import (
	"context"
	"fmt"

	"citasmed/pkg/api"
)

// EditableFields son los campos que el usuario puede cambiar. DNI y
// correo se muestran pero nunca se editan.
var EditableFields = []string{"name", "lastname", "bornDate", "phone", "address", "gender"}

// Profile es la pantalla de perfil: lectura y edición in situ del registro
// del usuario.
type Profile struct {
	Deps
	local   api.UserProfile
	loaded  bool
	editing bool
}

func NewProfile(d Deps) *Profile {
	return &Profile{Deps: d}
}

// Current es la copia local (con las ediciones no guardadas).
func (v *Profile) Current() api.UserProfile { return v.local }
func (v *Profile) Editing() bool            { return v.editing }
func (v *Profile) Loaded() bool             { return v.loaded }

// Greeting devuelve el saludo de la cabecera.
func (v *Profile) Greeting() string {
	if v.local.Name == "" {
		return "Hola, Usuario"
	}
	return "Hola, " + v.local.Name
}

// Load pide el perfil y reemplaza la copia local.
func (v *Profile) Load(ctx context.Context) error {
	auth, err := v.requireSession()
	if err != nil {
		return err
	}
	p, err := v.API.GetUser(ctx, auth.Token, auth.DNI)
	if err != nil {
		v.Log.Printf("Error al obtener la información del usuario: %v", err)
		v.Notify.Error("Error", "No se pudo obtener la información del usuario.")
		return err
	}
	v.local = p
	v.loaded = true
	return nil
}

// Refresh vuelve a pedir el perfil descartando las ediciones locales.
func (v *Profile) Refresh(ctx context.Context) error { return v.Load(ctx) }

// Edit pasa a modo edición partiendo de la copia local.
func (v *Profile) Edit() { v.editing = true }

// Cancel sale del modo edición sin volver a pedir el perfil: las
// ediciones ya aplicadas siguen en la copia local.
func (v *Profile) Cancel() { v.editing = false }

// Set cambia un campo de la copia local.
func (v *Profile) Set(field, value string) error {
	if !v.editing {
		return ErrNotEditing
	}
	switch field {
	case "dni", "email":
		return fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	case "name":
		v.local.Name = value
	case "lastname":
		v.local.Lastname = value
	case "bornDate":
		v.local.BornDate = value
	case "phone":
		v.local.Phone = value
	case "address":
		v.local.Address = value
	case "gender":
		v.local.Gender = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Save envía el perfil completo (no un parche). Si va bien, la copia local
// pasa a ser la del servidor; si falla, se conservan las ediciones.
func (v *Profile) Save(ctx context.Context) error {
	auth, err := v.requireSession()
	if err != nil {
		return err
	}
	updated, err := v.API.UpdateUser(ctx, auth.Token, auth.DNI, v.local)
	if err != nil {
		v.Log.Printf("Error al actualizar la información del usuario: %v", err)
		v.Notify.Error("Error", "No se pudo actualizar la información del usuario.")
		return err
	}
	v.local = updated
	v.editing = false
	v.Notify.Info("Éxito", "Información del usuario actualizada correctamente.")
	return nil
}

// Logout borra la sesión guardada.
func (v *Profile) Logout() error {
	if err := v.Sessions.Clear(); err != nil {
		v.Log.Printf("Error al cerrar sesión: %v", err)
		v.Notify.Error("Error", "Algo salió mal al cerrar sesión.")
		return err
	}
	v.local = api.UserProfile{}
	v.loaded, v.editing = false, false
	v.Log.Println("Sesión cerrada correctamente")
	v.Notify.Info("Desconexión", "Sesión cerrada correctamente.")
	return nil
}
