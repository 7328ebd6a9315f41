package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// StatusKind is the severity of the status line.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// Canonical short status messages used across the app.
const (
	MsgCheckingHealth = "Checking service health…"
	MsgNoHistory      = "No earlier queries"
)

func MsgOpened(target string) string {
	return "Opened " + target
}

func MsgRecalled(n, total int) string {
	return fmt.Sprintf("History %d/%d", n, total)
}

func (k StatusKind) style() lipgloss.Style {
	switch k {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}
