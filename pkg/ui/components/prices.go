// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// PriceRow is one pair's latest scan result.
type PriceRow struct {
	Pair      string
	BuyVenue  string
	BuyAsk    decimal.Decimal
	SellVenue string
	SellBid   decimal.Decimal
	SpreadBps decimal.Decimal
}

// PricesComponent renders the per-pair price comparison table.
type PricesComponent struct {
	rows  map[string]PriceRow
	order []string
}

// NewPricesComponent creates a new prices component.
func NewPricesComponent() *PricesComponent {
	return &PricesComponent{rows: make(map[string]PriceRow)}
}

// Update stores the latest row for a pair, keeping first-seen pair order.
func (p *PricesComponent) Update(row PriceRow) {
	if _, ok := p.rows[row.Pair]; !ok {
		p.order = append(p.order, row.Pair)
	}
	p.rows[row.Pair] = row
}

// View renders the prices component.
func (p *PricesComponent) View() string {
	if len(p.rows) == 0 {
		return "Waiting for price data..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	positiveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	negativeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("PRICES"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  %-10s  %-18s  %-18s  %12s\n",
		"Pair", "Best Buy (ask)", "Best Sell (bid)", "Spread"))
	b.WriteString(dimStyle.Render("  "+strings.Repeat("─", 64)) + "\n")

	for _, pair := range p.order {
		row := p.rows[pair]
		spreadStyle := positiveStyle
		if row.SpreadBps.IsNegative() {
			spreadStyle = negativeStyle
		}
		spreadStr := fmt.Sprintf("%+.1f bps", row.SpreadBps.InexactFloat64())

		b.WriteString(fmt.Sprintf("  %-10s  %-18s  %-18s  %s\n",
			row.Pair,
			fmt.Sprintf("%s %s", row.BuyVenue, row.BuyAsk.StringFixed(2)),
			fmt.Sprintf("%s %s", row.SellVenue, row.SellBid.StringFixed(2)),
			spreadStyle.Render(fmt.Sprintf("%12s", spreadStr)),
		))
	}

	return b.String()
}
