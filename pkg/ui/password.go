package ui

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"github.com/nsf/termbox-go"
)

// ErrCancelled se devuelve cuando el usuario pulsa Esc.
var ErrCancelled = errors.New("entrada cancelada")

const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	symbols   = "!@#$%^&*()-_=+[]{}|;:,.<>?"
)

func randomIndex(n int) (int, error) {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(i.Int64()), nil
}

// SuggestPassword genera una contraseña aleatoria de al menos 8
// caracteres con un carácter de cada tipo como mínimo.
func SuggestPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}
	sets := []string{lowercase, uppercase, digits, symbols}
	all := strings.Join(sets, "")

	password := make([]byte, length)
	for i := range password {
		set := all
		if i < len(sets) {
			set = sets[i]
		}
		j, err := randomIndex(len(set))
		if err != nil {
			return "", err
		}
		password[i] = set[j]
	}

	// Fisher-Yates con crypto/rand
	for i := length - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}
	return string(password), nil
}

// PasswordStrength evalúa la fortaleza de una contraseña y devuelve una
// calificación descriptiva.
func PasswordStrength(password string) string {
	score := 0
	if len(password) >= 12 {
		score += 2
	} else if len(password) >= 8 {
		score++
	}
	for _, set := range []string{uppercase, lowercase, digits, symbols} {
		if strings.ContainsAny(password, set) {
			score++
		}
	}

	switch {
	case score >= 6:
		return "Muy fuerte"
	case score >= 4:
		return "Fuerte"
	case score >= 3:
		return "Media"
	default:
		return "Debil"
	}
}

func strengthColor(strength string) termbox.Attribute {
	switch strength {
	case "Media":
		return termbox.ColorYellow
	case "Fuerte":
		return termbox.ColorGreen
	case "Muy fuerte":
		return termbox.ColorCyan
	default:
		return termbox.ColorRed
	}
}

// ReadPasswordWithLiveStrength pide la contraseña mostrando su fortaleza
// mientras se escribe. Sin terminal interactiva cae a ReadPassword.
func ReadPasswordWithLiveStrength(prompt string) (string, error) {
	if !IsTerminal() {
		return ReadPassword(prompt)
	}
	if err := termbox.Init(); err != nil {
		return "", err
	}
	defer termbox.Close()

	var password []rune
	update := func() {
		termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
		strength := PasswordStrength(string(password))
		drawString(0, 0, prompt+": "+strings.Repeat("*", len(password)), termbox.ColorWhite, termbox.ColorDefault)
		drawString(0, 1, "Fortaleza: "+strength, strengthColor(strength), termbox.ColorDefault)
		drawString(0, 3, "Presione ENTER para confirmar", termbox.ColorWhite, termbox.ColorDefault)
		termbox.Flush()
	}
	update()

	for {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventKey:
			switch {
			case ev.Key == termbox.KeyEsc:
				return "", ErrCancelled
			case ev.Key == termbox.KeyEnter:
				return string(password), nil
			case ev.Key == termbox.KeyBackspace || ev.Key == termbox.KeyBackspace2:
				if len(password) > 0 {
					password = password[:len(password)-1]
				}
			case ev.Key == termbox.KeySpace:
				password = append(password, ' ')
			case ev.Ch != 0:
				password = append(password, ev.Ch)
			}
			update()
		case termbox.EventResize:
			update()
		case termbox.EventError:
			return "", ev.Err
		}
	}
}

func drawString(x, y int, str string, fg, bg termbox.Attribute) {
	for _, c := range str {
		termbox.SetCell(x, y, c, fg, bg)
		x++
	}
}
