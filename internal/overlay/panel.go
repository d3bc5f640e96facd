package overlay

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tagsnap/tagsnap/internal/cli"
	"github.com/tagsnap/tagsnap/internal/model"
)

var (
	panelBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cli.PrimaryColor).
			Padding(0, 1)

	productStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor)

	originalStyle = lipgloss.NewStyle().
			Foreground(cli.SubtleColor)

	convertedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.AccentColor)

	rateStyle = lipgloss.NewStyle().
			Foreground(cli.SubtleColor).
			Italic(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(cli.InfoColor)
)

// Panel is the data shown over a captured image once conversion has
// finished.
type Panel struct {
	ProductName string
	Original    model.Money
	Converted   model.Money
	Rate        float64
	Items       []model.LineItem
	Comparisons []model.Comparison
	LayoutKey   string
}

// Render produces the styled panel sized per its layout.
func (p Panel) Render() string {
	layout := LayoutFor(p.LayoutKey)
	width := layout.PanelWidth

	var lines []string
	if p.ProductName != "" {
		lines = append(lines, productStyle.Render(p.ProductName))
	}
	lines = append(lines, originalStyle.Render(cli.FormatMoney(p.Original)))
	// No converted line until conversion has actually produced one.
	if !p.Converted.IsZero() {
		lines = append(lines, convertedStyle.Render("≈ "+cli.FormatMoney(p.Converted)))
	}
	if p.Rate > 0 && p.Original.Currency != p.Converted.Currency {
		lines = append(lines, rateStyle.Render(
			cli.FormatRate(p.Original.Currency, p.Converted.Currency, p.Rate)))
	}

	if len(p.Items) > 0 {
		lines = append(lines, "")
		for _, item := range p.Items {
			label := item.Name
			if item.Quantity > 1 {
				label = fmt.Sprintf("%s ×%d", item.Name, item.Quantity)
			}
			itemCurrency := item.Currency
			if itemCurrency == "" {
				itemCurrency = p.Original.Currency
			}
			price := cli.FormatMoney(model.Money{Amount: item.Price, Currency: itemCurrency})
			lines = append(lines, itemStyle.Render(padBetween(label, price, width-4)))
		}
	}

	if len(p.Comparisons) > 0 {
		lines = append(lines, "", productStyle.Render("Elsewhere"))
		for _, c := range p.Comparisons {
			price := cli.FormatMoney(model.Money{Amount: c.Price, Currency: c.Currency})
			diff := cli.FormatPercentDiff(c.PercentDifference)
			lines = append(lines, itemStyle.Render(
				padBetween(c.Source, price+" ("+diff+")", width-4)))
		}
	}

	return panelBorder.Width(width).Render(strings.Join(lines, "\n"))
}

// padBetween spaces left and right text to fill the given width.
func padBetween(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
