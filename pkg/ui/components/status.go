// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ExchangeStatus represents one exchange's health in the status bar.
type ExchangeStatus struct {
	Name      string
	Healthy   bool
	LastQuote time.Time
}

// StatusComponent renders per-exchange status.
type StatusComponent struct {
	exchanges []ExchangeStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{exchanges: make([]ExchangeStatus, 0)}
}

// Update upserts an exchange's status.
func (s *StatusComponent) Update(status ExchangeStatus) {
	for i, ex := range s.exchanges {
		if ex.Name == status.Name {
			s.exchanges[i] = status
			return
		}
	}
	s.exchanges = append(s.exchanges, status)
}

// View renders the status component.
func (s *StatusComponent) View() string {
	if len(s.exchanges) == 0 {
		return "No exchanges"
	}

	var result string
	for _, ex := range s.exchanges {
		status := "● live"
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
		if !ex.Healthy {
			status = "○ stale"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
		}

		line := fmt.Sprintf("├─ %s: %s", ex.Name, style.Render(status))
		if !ex.LastQuote.IsZero() {
			line += fmt.Sprintf(" (%s ago)", time.Since(ex.LastQuote).Round(time.Second))
		}
		result += line + "\n"
	}
	return result
}
