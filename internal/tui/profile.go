package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gavelhq/gavel/pkg/client"
	"github.com/gavelhq/gavel/pkg/domain"
)

type profileLoadedMsg struct {
	profile *domain.Profile
	err     error
}

// profileModel is the seller profile overlay.
type profileModel struct {
	client  *client.Client
	profile *domain.Profile
	closed  bool
	err     string
	width   int
}

func newProfileModel(c *client.Client) profileModel {
	return profileModel{client: c}
}

func (m profileModel) load(username string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		p, err := c.GetProfile(context.Background(), username)
		if err != nil {
			return profileLoadedMsg{err: fmt.Errorf("client.GetProfile: %w", err)}
		}
		return profileLoadedMsg{profile: p}
	}
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.profile = msg.profile
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			m.closed = true
		}
	}
	return m, nil
}

func (m profileModel) View() string {
	if m.err != "" {
		return "\n " + dimStyle.Render("profile error: "+m.err)
	}
	if m.profile == nil {
		return "\n " + dimStyle.Render("loading...")
	}

	p := m.profile
	cardWidth := min(54, m.width-4)
	if cardWidth < 30 {
		cardWidth = 30
	}
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(surfaceColor).
		Padding(1, 2).
		Width(cardWidth)

	var sb strings.Builder
	sb.WriteString(selectedStyle.Render(p.Username) + "\n")
	if p.Email != "" {
		sb.WriteString(metaStyle.Render(p.Email) + "\n")
	}

	if len(p.ActiveAuctions) > 0 {
		sb.WriteString("\n" + titleStyle.Render("Active Auctions") + "\n")
		for _, a := range p.ActiveAuctions {
			sb.WriteString("  " + normalStyle.Render(truncStr(a.Title, 30)))
			sb.WriteString("  " + priceStyle.Render(formatMoney(a.CurrentBid)))
			if a.TimeLeft != "" {
				sb.WriteString("  " + dimStyle.Render(a.TimeLeft))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("\n" + dimStyle.Render("no active auctions") + "\n")
	}

	if len(p.PreviousAuctions) > 0 {
		sb.WriteString("\n" + titleStyle.Render("Previous Auctions") + "\n")
		for _, a := range p.PreviousAuctions {
			sb.WriteString("  " + normalStyle.Render(truncStr(a.Title, 30)))
			sb.WriteString("  " + metaStyle.Render(formatMoney(a.FinalPrice)))
			if a.Date != "" {
				sb.WriteString("  " + dimStyle.Render(a.Date))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n" + helpEntry("esc", "close"))
	return "\n" + border.Render(sb.String())
}
