// El paquete server contiene el servidor de desarrollo.
// Implementa la misma API JSON/HTTP que consume el cliente, sobre bbolt.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"citasmed/pkg/cifrado"
	"citasmed/pkg/config"
	"citasmed/pkg/logs"
	"citasmed/pkg/store"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Espacios de nombres de la base de datos.
const (
	nsUsers        = "usuarios"
	nsAppointments = "citas"
	nsDoctors      = "medicos"
	nsSpecialties  = "especialidades"
)

const (
	cryptoAlgorithm   = "AES256"
	cryptoCompression = true
)

// server encapsula el estado de nuestro servidor
type server struct {
	db       store.Store
	log      *log.Logger
	secret   []byte
	ttl      time.Duration
	dataKey  string
	validate *validator.Validate
	now      func() time.Time

	// bloqueo de login por usuario
	loginMu       sync.Mutex
	loginAttempts map[string]*loginAttempt
	maxAttempts   int
	blockDuration time.Duration
}

func newServer(db store.Store, cfg config.Server, logger *log.Logger) *server {
	return &server{
		db:            db,
		log:           logger,
		secret:        []byte(cfg.JWTSecret),
		ttl:           cfg.TokenTTL,
		dataKey:       cfg.DataKey,
		validate:      validator.New(),
		now:           time.Now,
		loginAttempts: make(map[string]*loginAttempt),
		maxAttempts:   3,
		blockDuration: time.Minute,
	}
}

// Handler prepara la base de datos (datos iniciales) y devuelve el router.
// accessLog recibe el log de peticiones de gin; puede ser nil.
func Handler(db store.Store, cfg config.Server, logger *log.Logger, accessLog io.Writer) (http.Handler, error) {
	s := newServer(db, cfg, logger)
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s.routes(accessLog), nil
}

func (s *server) routes(accessLog io.Writer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if accessLog != nil {
		r.Use(gin.LoggerWithWriter(accessLog))
	}

	g := r.Group("/api")
	g.POST("/auth/loginUser", s.loginUser)
	g.POST("/user/", s.registerUser)

	auth := g.Group("")
	auth.Use(s.requireToken)
	{
		auth.GET("/user/:dni", s.getUser)
		auth.PUT("/user/:dni", s.updateUser)
		auth.GET("/appointment/:dni", s.listAppointments)
		auth.POST("/appointment", s.createAppointment)
		// /doctor/ es la lista y /doctor/{dni} el detalle
		auth.GET("/doctor/*dni", s.getDoctors)
		auth.GET("/specialty/", s.listSpecialties)
	}
	return r
}

// Run inicia la base de datos y arranca el servidor HTTP hasta que ctx se
// cancele.
func Run(ctx context.Context, cfg config.Server) error {
	serverLogger, logFile, logName, err := logs.Open(cfg.LogDir, "server", "[srv] ")
	if err != nil {
		return err
	}
	defer logFile.Close()
	serverLogger.Println("Iniciando servidor...")
	if cfg.DataKey == "" {
		serverLogger.Println("ADVERTENCIA: CITAS_DATA_KEY no está definida, los usuarios se guardan sin cifrar")
	}

	db, err := store.NewStore("bbolt", cfg.DB)
	if err != nil {
		serverLogger.Printf("ERROR: error abriendo base de datos: %v", err)
		return fmt.Errorf("error abriendo base de datos: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			serverLogger.Printf("ERROR al cerrar la base de datos: %v", err)
		} else {
			serverLogger.Println("Base de datos cerrada correctamente.")
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	h, err := Handler(db, cfg, serverLogger, logFile)
	if err != nil {
		serverLogger.Printf("ERROR preparando datos iniciales: %v", err)
		return err
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	serverLogger.Printf("Iniciando servidor HTTP en %s...", cfg.Addr)
	fmt.Printf("\nLogs del servidor se escriben en: %s\n", logName)

	select {
	case err := <-errc:
		serverLogger.Printf("FATAL: Error al iniciar servidor HTTP: %v", err)
		return err
	case <-ctx.Done():
	}

	serverLogger.Println("Deteniendo servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// fail responde con el cuerpo de error {message} que entiende el cliente.
func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// seal cifra los datos de usuario si hay clave configurada.
func (s *server) seal(data []byte) ([]byte, error) {
	if s.dataKey == "" {
		return data, nil
	}
	return cifrado.Seal(data, s.dataKey, cryptoAlgorithm, cryptoCompression)
}

func (s *server) open(data []byte) ([]byte, error) {
	if s.dataKey == "" {
		return data, nil
	}
	return cifrado.Open(data, s.dataKey, cryptoAlgorithm, cryptoCompression)
}

func (s *server) putJSON(ns, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Put(ns, []byte(key), data)
}

func (s *server) getJSON(ns, key string, v any) error {
	data, err := s.db.Get(ns, []byte(key))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// listJSON decodifica todos los valores de un espacio de nombres.
func listJSON[T any](db store.Store, ns string) ([]T, error) {
	keys, err := db.ListKeys(ns)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		data, err := db.Get(ns, k)
		if err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("registro %s/%s inválido: %w", ns, k, err)
		}
		out = append(out, v)
	}
	return out, nil
}
