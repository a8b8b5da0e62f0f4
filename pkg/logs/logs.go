// El paquete logs abre el fichero de log diario de cada aplicación.
package logs

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Open crea (si hace falta) dir y abre dir/<app>_AAAA-MM-DD.log en modo
// append. Devuelve el logger, el fichero (para cerrarlo o compartirlo) y
// la ruta.
func Open(dir, app, prefix string) (*log.Logger, io.WriteCloser, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, "", fmt.Errorf("error creando directorio de logs: %w", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("%s_%s.log", app, time.Now().Format("2006-01-02")))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, nil, "", fmt.Errorf("error abriendo archivo de log: %w", err)
	}
	l := log.New(f, prefix, log.LstdFlags|log.Lmicroseconds)
	l.Println("**************************************************************************************************")
	return l, f, name, nil
}

// Discard devuelve un logger que no escribe nada (tests).
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
