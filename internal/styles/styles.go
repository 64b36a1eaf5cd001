package styles

import (
	"io"

	"github.com/muesli/termenv"
)

// Styles colors report text written to one output. When the output is not a
// terminal every style is the identity function, so files and pipes get
// plain text.
type Styles struct {
	out *termenv.Output
}

func New(w io.Writer) *Styles {
	return &Styles{out: termenv.NewOutput(w)}
}

func (s *Styles) HEADER(str string) string {
	return s.out.String(str).Foreground(s.out.Color("12")).Bold().String()
}

func (s *Styles) SECTION(str string) string {
	return s.out.String(str).Foreground(s.out.Color("11")).String()
}

func (s *Styles) DIM(str string) string {
	return s.out.String(str).Foreground(s.out.Color("8")).String()
}

func (s *Styles) ERROR(str string) string {
	return s.out.String(str).Foreground(s.out.Color("9")).String()
}
