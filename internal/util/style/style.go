// Package style decides how the command line output looks: colours on terminals, plain text
// elsewhere.
package style

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

type Attr int

const (
	Reset  Attr = 0
	Bold   Attr = 1
	Red    Attr = 31
	Green  Attr = 32
	Yellow Attr = 33
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsStderrTTY reports whether the logs go to a human.
func IsStderrTTY() bool {
	return isTerminal(os.Stderr)
}

// Printer writes text with optional ANSI attributes.
type Printer struct {
	w     io.Writer
	color bool
}

// Stdout returns a printer for the standard output. Colours are enabled only on terminals and
// only if NO_COLOR is unset.
func Stdout() *Printer {
	return &Printer{
		w:     colorable.NewColorableStdout(),
		color: isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "",
	}
}

func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// Paint wraps s into the escape sequences of the given attributes.
func (p *Printer) Paint(s string, attrs ...Attr) string {
	if !p.color || len(attrs) == 0 {
		return s
	}
	codes := make([]string, len(attrs))
	for i, a := range attrs {
		codes[i] = fmt.Sprint(int(a))
	}
	return "\033[" + strings.Join(codes, ";") + "m" + s + "\033[0m"
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format, args...)
}
