// El paquete ui agrupa las utilidades de terminal del cliente: menús,
// lectura de datos, avisos en color y selectores interactivos.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	in  = bufio.NewReader(os.Stdin)
	out = color.Output
	tty = true
)

// SetIO cambia la entrada y salida (tests). Desde entonces nada se
// considera terminal interactiva y no se emiten colores.
func SetIO(r io.Reader, w io.Writer) {
	in = bufio.NewReader(r)
	out = w
	tty = false
	color.NoColor = true
}

// IsTerminal indica si la entrada estándar es una terminal interactiva.
func IsTerminal() bool {
	return tty && term.IsTerminal(int(syscall.Stdin))
}

func ClearScreen() {
	if IsTerminal() {
		fmt.Fprint(out, "\033[H\033[2J")
	}
}

// readLine lee una línea sin el salto final. Al llegar a EOF devuelve lo
// leído (posiblemente vacío).
func readLine() string {
	line, _ := in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// ReadInput muestra prompt y devuelve la respuesta sin espacios.
func ReadInput(prompt string) string {
	fmt.Fprintf(out, "%s: ", prompt)
	return strings.TrimSpace(readLine())
}

// ReadInputDefault es ReadInput con un valor por defecto si la respuesta
// queda vacía.
func ReadInputDefault(prompt, def string) string {
	if def == "" {
		return ReadInput(prompt)
	}
	fmt.Fprintf(out, "%s [%s]: ", prompt, def)
	if v := strings.TrimSpace(readLine()); v != "" {
		return v
	}
	return def
}

// ReadInt devuelve -1 si la respuesta no es un número.
func ReadInt(prompt string) int {
	n, err := strconv.Atoi(ReadInput(prompt))
	if err != nil {
		return -1
	}
	return n
}

// PrintMenu muestra las opciones numeradas desde 1 y pide una hasta que
// sea válida. Con back != "" añade la opción 0.
func PrintMenu(title string, options []string, back string) int {
	color.New(color.FgYellow, color.Bold).Fprintf(out, "%s\n\n", title)
	for i, o := range options {
		fmt.Fprintf(out, "%d. %s\n", i+1, o)
	}
	lowest := 1
	if back != "" {
		fmt.Fprintf(out, "0. %s\n", back)
		lowest = 0
	}
	for attempts := 0; attempts < 10; attempts++ {
		choice := ReadInt("\nSeleccione una opción")
		if choice >= lowest && choice <= len(options) {
			return choice
		}
		color.New(color.FgRed).Fprintln(out, "Opción no válida")
	}
	return lowest
}

// Confirm pregunta s/n.
func Confirm(prompt string) bool {
	r := strings.ToLower(ReadInput(prompt + " (s/n)"))
	return r == "s" || r == "si" || r == "sí"
}

func Pause(msg string) {
	fmt.Fprint(out, msg)
	readLine()
}

// ReadPassword lee una contraseña sin eco si hay terminal.
func ReadPassword(prompt string) (string, error) {
	if !IsTerminal() {
		return ReadInput(prompt), nil
	}
	fmt.Fprintf(out, "%s: ", prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("error leyendo contraseña: %w", err)
	}
	return string(b), nil
}

// Title imprime un título en cian.
func Title(text string) {
	color.New(color.FgCyan, color.Bold).Fprintf(out, "%s\n\n", text)
}

// Field imprime una pareja etiqueta: valor.
func Field(label, value string) {
	color.New(color.Bold).Fprintf(out, "%s: ", label)
	fmt.Fprintln(out, value)
}

func Println(a ...any) {
	fmt.Fprintln(out, a...)
}

// Notifier muestra los avisos de las pantallas en color.
type Notifier struct{}

func (Notifier) Info(title, msg string) {
	color.New(color.FgGreen).Fprintf(out, "%s: %s\n", title, msg)
}

func (Notifier) Error(title, msg string) {
	color.New(color.FgRed).Fprintf(out, "%s: %s\n", title, msg)
}

// Highlight imprime una línea destacada en verde.
func Highlight(format string, a ...any) {
	color.New(color.FgGreen, color.Bold).Fprintf(out, format+"\n", a...)
}

// Warning imprime una línea en rojo.
func Warning(msg string) {
	color.New(color.FgRed).Fprintln(out, msg)
}
