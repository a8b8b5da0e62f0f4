// El paquete config carga la configuración del cliente y del servidor
// desde un fichero .env (opcional) y variables de entorno.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIURL = "https://api-ydqd.onrender.com/api"

// Client agrupa la configuración del cliente de terminal.
type Client struct {
	APIURL        string
	Timeout       time.Duration
	LoginAttempts int
	DoctorFanout  int
	DateWindow    string
	SessionDB     string
	SessionKey    string
	SessionCipher string
	LogDir        string
}

// Server agrupa la configuración del servidor de desarrollo.
type Server struct {
	Addr      string
	DB        string
	JWTSecret string
	TokenTTL  time.Duration
	DataKey   string
	LogDir    string
}

// LoadEnv carga el fichero .env indicado. Que no exista no es un error:
// se devuelve como advertencia para que el llamador la registre.
func LoadEnv(path string) (warning error) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no se puede cargar %s: %w", path, err)
		}
		return fmt.Errorf("fichero %s inválido: %w", path, err)
	}
	return nil
}

// LoadClient lee la configuración del cliente del entorno.
func LoadClient() (Client, error) {
	c := Client{
		APIURL:        strings.TrimRight(getenv("CITAS_API_URL", DefaultAPIURL), "/"),
		DateWindow:    getenv("CITAS_DATE_WINDOW", "month"),
		SessionDB:     getenv("CITAS_SESSION_DB", "data/session.db"),
		SessionKey:    os.Getenv("CITAS_SESSION_KEY"),
		SessionCipher: getenv("CITAS_SESSION_CIPHER", "AES256"),
		LogDir:        getenv("CITAS_LOG_DIR", "logs"),
	}
	var err error
	if c.Timeout, err = duration("CITAS_TIMEOUT", 15*time.Second); err != nil {
		return c, err
	}
	if c.LoginAttempts, err = positive("CITAS_LOGIN_ATTEMPTS", 3); err != nil {
		return c, err
	}
	if c.DoctorFanout, err = positive("CITAS_DOCTOR_FANOUT", 4); err != nil {
		return c, err
	}
	if c.DateWindow != "month" && c.DateWindow != "week" {
		return c, fmt.Errorf("CITAS_DATE_WINDOW debe ser month o week, no %q", c.DateWindow)
	}
	return c, nil
}

// LoadServer lee la configuración del servidor de desarrollo.
func LoadServer() (Server, error) {
	s := Server{
		Addr:      getenv("CITAS_SERVER_ADDR", ":8080"),
		DB:        getenv("CITAS_SERVER_DB", "data/server.db"),
		JWTSecret: os.Getenv("CITAS_JWT_SECRET"),
		DataKey:   os.Getenv("CITAS_DATA_KEY"),
		LogDir:    getenv("CITAS_LOG_DIR", "logs"),
	}
	var err error
	if s.TokenTTL, err = duration("CITAS_TOKEN_TTL", 60*time.Minute); err != nil {
		return s, err
	}
	if s.JWTSecret == "" {
		return s, errors.New("la variable de entorno CITAS_JWT_SECRET no está definida")
	}
	return s, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s inválido (%q): debe ser una duración positiva", key, v)
	}
	return d, nil
}

func positive(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s inválido (%q): debe ser un entero positivo", key, v)
	}
	return n, nil
}
