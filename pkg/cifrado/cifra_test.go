package cifrado

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealOpenAlgorithms(t *testing.T) {
	data := []byte("eyJhbGciOiJIUzI1NiJ9.payload.firma - 12345678A")
	algorithms := []string{"AES128", "AES256", "DES", "TDES", "RC4", "BLOWFISH", "TWOFISH", "SALSA20"}

	for _, alg := range algorithms {
		for _, comp := range []bool{false, true} {
			sealed, err := Seal(data, "clave-de-prueba", alg, comp)
			if err != nil {
				t.Fatalf("Seal(%s, %v) failed: %v", alg, comp, err)
			}
			if bytes.Contains(sealed, []byte("12345678A")) {
				t.Errorf("Seal(%s, %v) leaks plaintext", alg, comp)
			}
			got, err := Open(sealed, "clave-de-prueba", alg, comp)
			if err != nil {
				t.Fatalf("Open(%s, %v) failed: %v", alg, comp, err)
			}
			if !bytes.Equal(got, data) {
				t.Errorf("Open(%s, %v) = %q, want %q", alg, comp, got, data)
			}
		}
	}
}

func TestSealUsesFreshIV(t *testing.T) {
	a, err := Seal([]byte("mismo texto"), "k", "AES256", false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Seal([]byte("mismo texto"), "k", "AES256", false)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two seals of the same text should differ")
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	if _, err := Seal([]byte("x"), "k", "ROT13", false); !errors.Is(err, ErrAlgoritmo) {
		t.Fatalf("Seal() err = %v, want ErrAlgoritmo", err)
	}
	if _, err := Open([]byte("x"), "k", "AES256", false); !errors.Is(err, ErrCorto) {
		t.Fatalf("Open() err = %v, want ErrCorto", err)
	}
}
