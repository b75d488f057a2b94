// Package display renders live controller state for debugging.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/acs-rover/joyserial/command"
	"github.com/acs-rover/joyserial/controller"
)

const (
	clearScreen = "\x1b[H\x1b[2J"
	indentStep  = "  "
)

// Display is a dispatch.Observer that redraws the controller state after
// every cycle. On a terminal it redraws in place and clips lines to the
// terminal width; otherwise each frame is appended.
type Display struct {
	w        io.Writer
	fd       int
	terminal bool
	buf      strings.Builder
}

// New returns a Display writing frames to w.
func New(w io.Writer) *Display {
	d := &Display{w: w, fd: -1}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		d.fd = int(f.Fd())
		d.terminal = true
	}
	return d
}

// Observe renders one frame for the cycle that just completed.
func (d *Display) Observe(snapshots []controller.Snapshot, sent []command.Command) {
	frame := Render(snapshots, sent)
	d.buf.Reset()
	if d.terminal {
		d.buf.WriteString(clearScreen)
		width, _, err := term.GetSize(d.fd)
		if err == nil && width > 0 {
			frame = clip(frame, width)
		}
	}
	d.buf.WriteString(frame)
	_, _ = io.WriteString(d.w, d.buf.String())
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) printf(format string, args ...any) {
	p.sb.WriteString(strings.Repeat(indentStep, p.indent))
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

// Render formats one frame.
func Render(snapshots []controller.Snapshot, sent []command.Command) string {
	var p printer

	p.printf("Number of joysticks: %d", len(snapshots))
	p.indent++
	for _, s := range snapshots {
		p.printf("Joystick %d", s.Index)
		p.indent++
		p.printf("Joystick name: %s", s.Name)

		p.printf("Number of axes: %d", len(s.Axes))
		p.indent++
		for i, v := range s.Axes {
			p.printf("Axis %d value: %6.3f", i, v)
		}
		p.indent--

		p.printf("Number of buttons: %d", len(s.Buttons))
		p.indent++
		for i, v := range s.Buttons {
			b := 0
			if v {
				b = 1
			}
			p.printf("Button %2d value: %d", i, b)
		}
		p.indent--

		p.printf("Number of hats: %d", len(s.Hats))
		p.indent++
		for i, h := range s.Hats {
			p.printf("Hat %d value: (%d, %d)", i, h.X, h.Y)
		}
		p.indent--
		p.indent--
	}
	p.indent--

	if len(sent) > 0 {
		parts := make([]string, len(sent))
		for i, c := range sent {
			parts[i] = fmt.Sprintf("%x", []byte(c))
		}
		p.printf("Sent: %s", strings.Join(parts, " "))
	}
	return p.sb.String()
}

func clip(frame string, width int) string {
	lines := strings.Split(frame, "\n")
	for i, l := range lines {
		if len(l) > width {
			lines[i] = l[:width]
		}
	}
	return strings.Join(lines, "\n")
}
