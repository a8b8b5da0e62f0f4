// El paquete cifrado sella datos en reposo con cifradores de flujo.
// El resultado es IV || datos cifrados; la clave se deriva con SHA-256.
package cifrado

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/rand"
	"crypto/rc4"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/blowfish"
	"golang.org/x/crypto/salsa20"
	"golang.org/x/crypto/twofish"
)

// ErrAlgoritmo se devuelve para algoritmos no soportados.
var ErrAlgoritmo = errors.New("algoritmo no soportado")

// ErrCorto se devuelve cuando el mensaje sellado no llega al tamaño del IV.
var ErrCorto = errors.New("datos cifrados demasiado cortos")

type salsaStream struct {
	nonce []byte
	key   [32]byte
	pos   int
}

// XORKeyStream mantiene la posición para poder usarse como cipher.Stream
// en escrituras sucesivas (zlib escribe por trozos).
func (s *salsaStream) XORKeyStream(dst, src []byte) {
	if len(src) == 0 {
		return
	}
	buf := make([]byte, s.pos+len(src))
	copy(buf[s.pos:], src)
	salsa20.XORKeyStream(buf, buf, s.nonce, &s.key)
	copy(dst, buf[s.pos:])
	s.pos += len(src)
}

func newSalsa(key, nonce []byte) (*salsaStream, error) {
	if len(key) != 32 {
		return nil, errors.New("salsa20: la clave debe tener 32 bytes")
	}
	if len(nonce) != 8 && len(nonce) != 24 {
		return nil, errors.New("salsa20: el nonce debe ser de 8 o 24 bytes")
	}
	s := &salsaStream{nonce: append([]byte(nil), nonce...)}
	copy(s.key[:], key)
	return s, nil
}

// ivSize devuelve el tamaño de IV que necesita cada algoritmo.
func ivSize(algorithm string) (int, error) {
	switch algorithm {
	case "AES128", "AES256", "TWOFISH":
		return 16, nil
	case "DES", "TDES", "BLOWFISH":
		return 8, nil
	case "SALSA20":
		return 24, nil
	case "RC4":
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrAlgoritmo, algorithm)
	}
}

func newStream(algorithm string, key, iv []byte) (cipher.Stream, error) {
	switch algorithm {
	case "AES128":
		block, err := aes.NewCipher(key[:16])
		if err != nil {
			return nil, err
		}
		return cipher.NewCTR(block, iv), nil
	case "AES256":
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewCTR(block, iv), nil
	case "DES":
		block, err := des.NewCipher(key[:8])
		if err != nil {
			return nil, err
		}
		return cipher.NewCTR(block, iv), nil
	case "TDES":
		block, err := des.NewTripleDESCipher(key[:24])
		if err != nil {
			return nil, err
		}
		return cipher.NewCTR(block, iv), nil
	case "RC4":
		return rc4.NewCipher(key)
	case "BLOWFISH":
		block, err := blowfish.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewCTR(block, iv), nil
	case "TWOFISH":
		block, err := twofish.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewCTR(block, iv), nil
	case "SALSA20":
		return newSalsa(key, iv)
	default:
		return nil, fmt.Errorf("%w: %s", ErrAlgoritmo, algorithm)
	}
}

func deriveKey(keyStr string) []byte {
	sum := sha256.Sum256([]byte(keyStr))
	return sum[:]
}

// Seal cifra data con la clave y el algoritmo indicados, comprimiendo antes
// con zlib si useCompression es true.
func Seal(data []byte, keyStr, algorithm string, useCompression bool) ([]byte, error) {
	n, err := ivSize(algorithm)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, n)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("error generando IV: %w", err)
	}
	S, err := newStream(algorithm, deriveKey(keyStr), iv)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Write(iv)
	enc := cipher.StreamWriter{S: S, W: &out}

	var w io.WriteCloser = enc
	if useCompression {
		w = zlib.NewWriter(enc)
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Open deshace Seal.
func Open(sealed []byte, keyStr, algorithm string, useCompression bool) ([]byte, error) {
	n, err := ivSize(algorithm)
	if err != nil {
		return nil, err
	}
	if len(sealed) < n {
		return nil, ErrCorto
	}
	S, err := newStream(algorithm, deriveKey(keyStr), sealed[:n])
	if err != nil {
		return nil, err
	}

	var r io.Reader = cipher.StreamReader{S: S, R: bytes.NewReader(sealed[n:])}
	if useCompression {
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("error descomprimiendo: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	return io.ReadAll(r)
}
