// El paquete nav modela la navegación entre pantallas como un conjunto
// cerrado de rutas con parámetros tipados.
package nav

import (
	"context"
	"fmt"
	"log"
)

// Route es una de las rutas de este paquete. El método privado impide
// definir rutas fuera de él.
type Route interface {
	route()
}

// Login lleva opcionalmente el DNI con el que rellenar el formulario.
type Login struct{ DNI string }

type Register struct{}

// Home es la lista de citas.
type Home struct{}

type Reservation struct{}

type Profile struct{}

// SessionInfo muestra los datos de la sesión guardada.
type SessionInfo struct{}

// Exit termina el bucle del Router.
type Exit struct{}

func (Login) route()       {}
func (Register) route()    {}
func (Home) route()        {}
func (Reservation) route() {}
func (Profile) route()     {}
func (SessionInfo) route() {}
func (Exit) route()        {}

// Screens implementa cada pantalla. Cada método recibe un contexto que se
// cancela en cuanto la pantalla devuelve la siguiente ruta.
type Screens interface {
	Login(ctx context.Context, r Login) Route
	Register(ctx context.Context, r Register) Route
	Home(ctx context.Context, r Home) Route
	Reservation(ctx context.Context, r Reservation) Route
	Profile(ctx context.Context, r Profile) Route
	SessionInfo(ctx context.Context, r SessionInfo) Route
}

type Router struct {
	screens Screens
	log     *log.Logger
}

func NewRouter(screens Screens, logger *log.Logger) *Router {
	return &Router{screens: screens, log: logger}
}

// Run muestra pantallas empezando por start hasta llegar a Exit o hasta que
// ctx se cancele.
func (r *Router) Run(ctx context.Context, start Route) error {
	route := start
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.log.Printf("Navegando a %T", route)

		var next Route
		switch rt := route.(type) {
		case Exit:
			r.log.Println("Saliendo del cliente...")
			return nil
		case Login:
			next = show(ctx, func(c context.Context) Route { return r.screens.Login(c, rt) })
		case Register:
			next = show(ctx, func(c context.Context) Route { return r.screens.Register(c, rt) })
		case Home:
			next = show(ctx, func(c context.Context) Route { return r.screens.Home(c, rt) })
		case Reservation:
			next = show(ctx, func(c context.Context) Route { return r.screens.Reservation(c, rt) })
		case Profile:
			next = show(ctx, func(c context.Context) Route { return r.screens.Profile(c, rt) })
		case SessionInfo:
			next = show(ctx, func(c context.Context) Route { return r.screens.SessionInfo(c, rt) })
		default:
			return fmt.Errorf("ruta desconocida: %T", route)
		}
		if next == nil {
			return fmt.Errorf("la pantalla %T no devolvió ruta", route)
		}
		route = next
	}
}

// show ejecuta una pantalla con un contexto propio que se cancela al
// salir de ella, abortando cualquier petición pendiente.
func show(parent context.Context, screen func(context.Context) Route) Route {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	return screen(ctx)
}
