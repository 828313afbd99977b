// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// OpportunityRow represents an opportunity in the list.
type OpportunityRow struct {
	ID        string
	Timestamp string
	Pair      string
	BuyVenue  string
	SellVenue string
	SpreadBps decimal.Decimal
	Status    string
}

// OpportunitiesComponent renders the opportunities list.
type OpportunitiesComponent struct {
	rows    []OpportunityRow
	maxRows int
	offset  int
}

// NewOpportunitiesComponent creates a new opportunities component.
func NewOpportunitiesComponent(maxRows int) *OpportunitiesComponent {
	return &OpportunitiesComponent{
		rows:    make([]OpportunityRow, 0),
		maxRows: maxRows,
	}
}

// Add prepends a new opportunity.
func (o *OpportunitiesComponent) Add(row OpportunityRow) {
	o.rows = append([]OpportunityRow{row}, o.rows...)
	if len(o.rows) > o.maxRows {
		o.rows = o.rows[:o.maxRows]
	}
}

// SetStatus updates the status column of the row with the given ID.
func (o *OpportunitiesComponent) SetStatus(id, status string) {
	for i := range o.rows {
		if o.rows[i].ID == id {
			o.rows[i].Status = status
			return
		}
	}
}

// Clear removes all opportunities.
func (o *OpportunitiesComponent) Clear() {
	o.rows = make([]OpportunityRow, 0)
	o.offset = 0
}

// ScrollUp moves the view window up one row.
func (o *OpportunitiesComponent) ScrollUp() {
	if o.offset > 0 {
		o.offset--
	}
}

// ScrollDown moves the view window down one row.
func (o *OpportunitiesComponent) ScrollDown() {
	if o.offset < len(o.rows)-1 {
		o.offset++
	}
}

// View renders the opportunities component.
func (o *OpportunitiesComponent) View() string {
	if len(o.rows) == 0 {
		return "No opportunities detected yet..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	goodStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	badStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	result := headerStyle.Render("OPPORTUNITIES") + "\n"
	result += "┌──────────┬──────────┬──────────┬──────────┬─────────┬──────────────────┐\n"
	result += "│   Time   │   Pair   │   Buy    │   Sell   │ Spread  │      Status      │\n"
	result += "├──────────┼──────────┼──────────┼──────────┼─────────┼──────────────────┤\n"

	visible := o.rows
	if o.offset < len(visible) {
		visible = visible[o.offset:]
	}
	for _, row := range visible {
		statusStyle := goodStyle
		if row.Status != "detected" && row.Status != "executed" {
			statusStyle = badStyle
		}
		result += fmt.Sprintf("│ %-8s │ %-8s │ %-8s │ %-8s │%8s │ %-16s │\n",
			row.Timestamp,
			row.Pair,
			row.BuyVenue,
			row.SellVenue,
			fmt.Sprintf("%+.1fbp", row.SpreadBps.InexactFloat64()),
			statusStyle.Render(row.Status),
		)
	}

	result += "└──────────┴──────────┴──────────┴──────────┴─────────┴──────────────────┘"
	return result
}
