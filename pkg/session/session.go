// El paquete session guarda en disco la sesión del usuario (token y DNI)
// para que sobreviva a reinicios del cliente.
package session

import (
	"errors"
	"fmt"

	"citasmed/pkg/cifrado"
	"citasmed/pkg/store"
)

const (
	namespace = "sesion"
	keyToken  = "token"
	keyDNI    = "dni"
)

// State es Anonymous o Authenticated.
type State interface {
	isState()
}

// Anonymous indica que no hay sesión guardada (o que está incompleta).
type Anonymous struct{}

// Authenticated es una sesión con token y DNI no vacíos.
type Authenticated struct {
	Token string
	DNI   string
}

func (Anonymous) isState()     {}
func (Authenticated) isState() {}

// Sealer cifra los valores antes de escribirlos. Si es nil se guardan
// en claro.
type Sealer struct {
	Key       string
	Algorithm string
}

// Store persiste la sesión en un store.Store.
type Store struct {
	db     store.Store
	sealer *Sealer
}

// NewStore crea el almacén de sesión. sealer puede ser nil.
func NewStore(db store.Store, sealer *Sealer) *Store {
	if sealer != nil && sealer.Key == "" {
		sealer = nil
	}
	return &Store{db: db, sealer: sealer}
}

// Save escribe token y DNI. Son dos escrituras independientes: si la
// segunda falla, la primera queda escrita y Load devolverá Anonymous.
func (s *Store) Save(token, dni string) error {
	if token == "" || dni == "" {
		return errors.New("token y dni no pueden estar vacíos")
	}
	if err := s.put(keyToken, token); err != nil {
		return fmt.Errorf("error guardando token: %w", err)
	}
	if err := s.put(keyDNI, dni); err != nil {
		return fmt.Errorf("error guardando dni: %w", err)
	}
	return nil
}

// Load lee la sesión. Cualquier clave ausente se trata como Anonymous.
func (s *Store) Load() (State, error) {
	token, err := s.get(keyToken)
	if err != nil {
		return Anonymous{}, err
	}
	dni, err := s.get(keyDNI)
	if err != nil {
		return Anonymous{}, err
	}
	if token == "" || dni == "" {
		return Anonymous{}, nil
	}
	return Authenticated{Token: token, DNI: dni}, nil
}

// Clear borra las dos claves. Intenta ambas aunque la primera falle.
func (s *Store) Clear() error {
	var errs []error
	if err := s.db.Delete(namespace, []byte(keyToken)); err != nil {
		errs = append(errs, fmt.Errorf("error borrando token: %w", err))
	}
	if err := s.db.Delete(namespace, []byte(keyDNI)); err != nil {
		errs = append(errs, fmt.Errorf("error borrando dni: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Store) put(key, value string) error {
	data := []byte(value)
	if s.sealer != nil {
		sealed, err := cifrado.Seal(data, s.sealer.Key, s.sealer.Algorithm, false)
		if err != nil {
			return err
		}
		data = sealed
	}
	return s.db.Put(namespace, []byte(key), data)
}

// get devuelve "" sin error cuando la clave no existe.
func (s *Store) get(key string) (string, error) {
	data, err := s.db.Get(namespace, []byte(key))
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error leyendo %s: %w", key, err)
	}
	if s.sealer != nil {
		data, err = cifrado.Open(data, s.sealer.Key, s.sealer.Algorithm, false)
		if err != nil {
			return "", fmt.Errorf("error descifrando %s: %w", key, err)
		}
	}
	return string(data), nil
}
