package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gavelhq/gavel/internal/session"
	"github.com/gavelhq/gavel/pkg/client"
	"github.com/gavelhq/gavel/pkg/domain"
)

type homeLoadedMsg struct {
	auctions []domain.Auction
	mine     bool
	err      error
}

// homeModel shows featured auctions, or the signed-in user's own
// listings when toggled.
type homeModel struct {
	client *client.Client
	store  *session.Store
	now    func() time.Time

	auctions []domain.Auction
	mine     bool
	cursor   int
	loading  bool
	err      string

	width  int
	height int
}

func newHomeModel(c *client.Client, s *session.Store) homeModel {
	return homeModel{client: c, store: s, now: time.Now, loading: true}
}

func (m homeModel) Init() tea.Cmd {
	return m.load()
}

func (m homeModel) load() tea.Cmd {
	c := m.client
	mine := m.mine
	return func() tea.Msg {
		opts := client.ListOptions{Featured: !mine, MyAuctions: mine}
		auctions, err := c.ListAuctions(context.Background(), opts)
		return homeLoadedMsg{auctions: auctions, mine: mine, err: err}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case homeLoadedMsg:
		if msg.mine != m.mine {
			return m, nil // toggle changed while the fetch was in flight
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.auctions = msg.auctions
			m.err = ""
			if m.cursor >= len(m.auctions) {
				m.cursor = 0
			}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.auctions)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "m":
			if m.store.Current().Authenticated() {
				m.mine = !m.mine
				m.cursor = 0
				m.loading = true
				return m, m.load()
			}
		case "r":
			m.loading = true
			return m, m.load()
		case "enter":
			if m.cursor < len(m.auctions) {
				id := m.auctions[m.cursor].ID
				return m, func() tea.Msg { return openAuctionMsg{id: id} }
			}
		}
	}
	return m, nil
}

func (m homeModel) View() string {
	title := "Featured Auctions"
	if m.mine {
		title = "My Auctions"
	}
	var sb strings.Builder
	sb.WriteString(" " + titleStyle.Render(title) + "\n\n")

	switch {
	case m.loading:
		sb.WriteString(" " + dimStyle.Render("loading..."))
	case m.err != "":
		sb.WriteString(" " + errorStyle.Render("failed to load: "+m.err) + "\n " + helpEntry("r", "retry"))
	case len(m.auctions) == 0:
		sb.WriteString(" " + dimStyle.Render("nothing here yet"))
	default:
		now := m.now()
		for i, a := range m.auctions {
			sb.WriteString(renderAuctionRow(a, i == m.cursor, now) + "\n")
		}
	}
	return sb.String()
}
