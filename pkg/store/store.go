// El paquete store ofrece un almacén clave/valor con espacios de nombres.
// Cada espacio de nombres es un bucket independiente.
package store

import (
	"errors"
	"fmt"
)

// ErrNotFound se devuelve (envuelto) cuando no existe el espacio de nombres
// o la clave.
var ErrNotFound = errors.New("no encontrado")

// Store es la interfaz común de los motores de almacenamiento.
type Store interface {
	Put(namespace string, key, value []byte) error
	Get(namespace string, key []byte) ([]byte, error)
	Delete(namespace string, key []byte) error
	ListKeys(namespace string) ([][]byte, error)
	Close() error
}

// NewStore abre un almacén del motor indicado en path.
func NewStore(engine, path string) (Store, error) {
	switch engine {
	case "bbolt":
		return newBboltStore(path)
	default:
		return nil, fmt.Errorf("motor de almacenamiento desconocido: %s", engine)
	}
}
