package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gavelhq/gavel/pkg/domain"
)

type paymentField int

const (
	fieldCardNumber paymentField = iota
	fieldExpiry
	fieldCVV
	numPaymentFields
)

// paymentModel is the placeholder payment form. Nothing is submitted
// anywhere; it is the terminal state for an ended or bought auction.
type paymentModel struct {
	auction domain.Auction
	fields  [numPaymentFields]string
	focus   paymentField
}

func newPaymentModel() paymentModel {
	return paymentModel{}
}

// open points the form at the auction being paid for.
func (m *paymentModel) open(a domain.Auction) {
	m.auction = a
	m.fields = [numPaymentFields]string{}
	m.focus = fieldCardNumber
}

func (m paymentModel) Update(msg tea.Msg) (paymentModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down", "enter":
			m.focus = (m.focus + 1) % numPaymentFields
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + numPaymentFields) % numPaymentFields
		default:
			f := &m.fields[m.focus]
			*f = editRune(*f, key.String())
		}
	}
	return m, nil
}

func (m paymentModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Payment") + "\n")
	if m.auction.Name != "" {
		b.WriteString(metaStyle.Render(fmt.Sprintf("%d %s", m.auction.Year, m.auction.Name)) + "\n")
	}
	b.WriteString(normalStyle.Render("Please enter your payment details") + "\n\n")

	labels := [numPaymentFields]string{"card number", "expiry (MM/YY)", "cvv"}
	placeholders := [numPaymentFields]string{"1234 5678 9012 3456", "MM/YY", "123"}
	for i := paymentField(0); i < numPaymentFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[i]
		if value == "" && i != m.focus {
			value = inputPlaceholderStyle.Render(placeholders[i])
		} else if i == m.focus {
			value += "█"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", cursor, style.Render(fmt.Sprintf("%-14s", labels[i])), value)
	}

	b.WriteString("\n" + dimStyle.Render("payment processing is not wired up yet"))

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Render(b.String())

	return "\n" + card
}
