// El paquete client arranca el cliente de terminal: carga la
// configuración, abre el log y la sesión guardada y ejecuta el bucle de
// pantallas.
package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"citasmed/pkg/config"
	"citasmed/pkg/gateway"
	"citasmed/pkg/logs"
	"citasmed/pkg/nav"
	"citasmed/pkg/session"
	"citasmed/pkg/store"
	"citasmed/pkg/ui"
	"citasmed/pkg/views"
)

// Options son los valores de la línea de comandos. Tienen prioridad sobre
// el entorno.
type Options struct {
	APIURL  string
	EnvFile string
}

// Run es la única función exportada de este paquete.
// Prepara las dependencias y ejecuta el bucle principal hasta que el
// usuario sale o ctx se cancela.
func Run(ctx context.Context, opts Options) error {
	envWarning := config.LoadEnv(opts.EnvFile)

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if opts.APIURL != "" {
		cfg.APIURL = strings.TrimRight(opts.APIURL, "/")
	}
	window, err := views.ParseWindow(cfg.DateWindow)
	if err != nil {
		return err
	}

	// Creamos un logger con prefijo 'cli' para identificar los mensajes.
	logger, logFile, logName, err := logs.Open(cfg.LogDir, "client", "[cli] ")
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger.Println("Iniciando cliente...")
	if envWarning != nil {
		logger.Printf("Advertencia: %v", envWarning)
	}
	logger.Printf("API: %s, ventana de fechas: %s", cfg.APIURL, window.Name())
	fmt.Printf("\nLogs del cliente se escriben en: %s\n", logName)

	db, err := store.NewStore("bbolt", cfg.SessionDB)
	if err != nil {
		logger.Printf("Error abriendo la base de datos de sesión: %v", err)
		return err
	}
	defer db.Close()

	var sealer *session.Sealer
	if cfg.SessionKey != "" {
		sealer = &session.Sealer{Key: cfg.SessionKey, Algorithm: cfg.SessionCipher}
	}
	sessions := session.NewStore(db, sealer)

	deps := views.Deps{
		API:      gateway.New(cfg.APIURL, cfg.Timeout, logger, nil),
		Sessions: sessions,
		Notify:   ui.Notifier{},
		Log:      logger,
	}
	s := newScreens(deps, cfg, window)

	err = nav.NewRouter(s, logger).Run(ctx, startRoute(sessions, logger))
	if errors.Is(err, context.Canceled) {
		logger.Println("Cliente interrumpido")
		return nil
	}
	return err
}

// startRoute decide la primera pantalla: la lista de citas si hay una
// sesión guardada, el login si no.
func startRoute(sessions views.Sessions, logger *log.Logger) nav.Route {
	st, err := sessions.Load()
	if err != nil {
		logger.Printf("No se pudo leer la sesión guardada: %v", err)
		return nav.Login{}
	}
	if auth, ok := st.(session.Authenticated); ok {
		logger.Printf("Sesión recuperada para %s", auth.DNI)
		return nav.Home{}
	}
	return nav.Login{}
}

const pauseMsg = "\nPulsa [Enter] para continuar..."

// screens implementa nav.Screens sobre la terminal. Cada visita a una
// pantalla crea su vista desde cero.
type screens struct {
	deps   views.Deps
	cfg    config.Client
	window views.DateWindow
	now    func() time.Time
}

func newScreens(deps views.Deps, cfg config.Client, window views.DateWindow) *screens {
	return &screens{deps: deps, cfg: cfg, window: window, now: time.Now}
}

var _ nav.Screens = (*screens)(nil)
