// Package ui renders the installer's terminal output.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorPurple = lipgloss.Color("#A855F7")
	colorGreen  = lipgloss.Color("#22C55E")
	colorRed    = lipgloss.Color("#EF4444")
	colorYellow = lipgloss.Color("#EAB308")
	colorDim    = lipgloss.Color("#6B7280")
	colorCyan   = lipgloss.Color("#06B6D4")
)

type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	label   lipgloss.Style
	dim     lipgloss.Style
	cell    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, color bool) styles {
	s := styles{
		title:   r.NewStyle().Bold(true),
		success: r.NewStyle(),
		warning: r.NewStyle(),
		failure: r.NewStyle(),
		label:   r.NewStyle(),
		dim:     r.NewStyle(),
		cell:    r.NewStyle(),
	}
	if !color {
		s.title = r.NewStyle()
		return s
	}
	s.title = s.title.Foreground(colorPurple)
	s.success = s.success.Foreground(colorGreen)
	s.warning = s.warning.Foreground(colorYellow)
	s.failure = s.failure.Foreground(colorRed).Bold(true)
	s.label = s.label.Foreground(colorCyan)
	s.dim = s.dim.Foreground(colorDim)
	return s
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorEnabled reports whether output to w should be coloured. NO_COLOR
// disables colour everywhere.
func ColorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return IsTerminal(w)
}

// Printer writes styled status lines.
type Printer struct {
	w     io.Writer
	color bool
	s     styles
}

// NewPrinter returns a Printer for w, coloured only on a terminal.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterWithColor(w, ColorEnabled(w))
}

// NewPrinterWithColor returns a Printer with colour forced on or off.
func NewPrinterWithColor(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color, s: newStyles(lipgloss.NewRenderer(w), color)}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

func (p *Printer) line(style lipgloss.Style, prefix, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if prefix != "" {
		msg = prefix + " " + msg
	}
	_, _ = fmt.Fprintln(p.w, style.Render(msg))
}

// Title prints a bold heading.
func (p *Printer) Title(format string, args ...any) {
	p.line(p.s.title, "", format, args...)
}

// Success prints a ✅ line.
func (p *Printer) Success(format string, args ...any) {
	p.line(p.s.success, "✅", format, args...)
}

// Warn prints a ⚠️ line.
func (p *Printer) Warn(format string, args ...any) {
	p.line(p.s.warning, "⚠️ ", format, args...)
}

// Fail prints a ❌ line.
func (p *Printer) Fail(format string, args ...any) {
	p.line(p.s.failure, "❌", format, args...)
}

// Info prints a plain line.
func (p *Printer) Info(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// Detail prints an indented, dimmed line.
func (p *Printer) Detail(format string, args ...any) {
	p.line(p.s.dim, "", "  "+format, args...)
}

// Field prints "  label: value" with the label highlighted.
func (p *Printer) Field(label string, value any) {
	_, _ = fmt.Fprintf(p.w, "  %s %v\n", p.s.label.Render(label+":"), value)
}

// Table prints rows as left-aligned columns separated by two spaces.
func (p *Printer) Table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	render := func(cells []string, style lipgloss.Style) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if i == len(cells)-1 {
				parts[i] = style.Render(cell)
				continue
			}
			parts[i] = style.Render(cell) + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		_, _ = fmt.Fprintln(p.w, "  "+strings.Join(parts, "  "))
	}

	render(header, p.s.title)
	for _, row := range rows {
		render(row, p.s.cell)
	}
}

// Block prints multi-line text indented by two spaces.
func (p *Printer) Block(text string) {
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		_, _ = fmt.Fprintln(p.w, p.s.dim.Render("  "+l))
	}
}
