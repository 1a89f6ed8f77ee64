package session

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles holds the output styles of a session.
type styles struct {
	title lipgloss.Style
	key   lipgloss.Style
	value lipgloss.Style
	dim   lipgloss.Style
	good  lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
}

func newStyles(out io.Writer, color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain}
	}

	r := lipgloss.NewRenderer(out)
	return styles{
		title: r.NewStyle().Bold(true),
		key:   r.NewStyle().Foreground(lipgloss.Color("12")),
		value: r.NewStyle().Foreground(lipgloss.Color("252")),
		dim:   r.NewStyle().Foreground(lipgloss.Color("244")),
		good:  r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		err:   r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}
