// El paquete gateway es el cliente HTTP de la API de citas. Todas las
// peticiones van como JSON y, si hay sesión, con el token en crudo en la
// cabecera "token".
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"citasmed/pkg/api"
)

// ErrUnexpectedShape indica que la respuesta no tiene la forma esperada
// (por ejemplo, se esperaba un array).
var ErrUnexpectedShape = errors.New("respuesta con formato inesperado")

// HTTPError es una respuesta no 2xx. Message es el campo "message" del
// cuerpo si el servidor lo envió.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// ServerMessage devuelve el mensaje del servidor contenido en err, si lo hay.
func ServerMessage(err error) string {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Message
	}
	return ""
}

// Client habla con la API en baseURL.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     *log.Logger
}

// New crea un cliente. timeout se aplica a cada petición; 0 lo desactiva.
func New(baseURL string, timeout time.Duration, logger *log.Logger, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    hc,
		log:     logger,
	}
}

// Do envía la petición y devuelve el cuerpo JSON sin procesar. body puede
// ser nil; token vacío no envía cabecera.
func (c *Client) Do(ctx context.Context, method, path string, body any, token string) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error codificando petición: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("error creando petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(api.TokenHeader, token)
	}

	c.log.Printf("Enviando %s %s", method, path)
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Printf("ERROR de red en %s %s: %v", method, path, err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error leyendo respuesta de %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb api.ErrorBody
		_ = json.Unmarshal(data, &eb) // el mensaje es opcional
		c.log.Printf("Respuesta no OK en %s %s: %d %s", method, path, resp.StatusCode, truncate(string(data), 200))
		return nil, &HTTPError{Status: resp.StatusCode, Message: eb.Message}
	}
	return json.RawMessage(data), nil
}

// IsArray indica si el JSON es un array.
func IsArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}

func decodeArray[T any](raw json.RawMessage) ([]T, error) {
	if !IsArray(raw) {
		return nil, fmt.Errorf("%w: se esperaba un array", ErrUnexpectedShape)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return out, nil
}

func decodeObject[T any](raw json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return out, nil
}

func truncate(text string, length int) string {
	if len(text) <= length {
		return text
	}
	return text[:length-3] + "..."
}
