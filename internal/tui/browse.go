package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gavelhq/gavel/internal/session"
	"github.com/gavelhq/gavel/pkg/client"
	"github.com/gavelhq/gavel/pkg/domain"
)

// -- messages --

type browseLoadedMsg struct {
	auctions []domain.Auction
	err      error
}

type browseDeleteMsg struct {
	id  int64
	err error
}

// openAuctionMsg asks the app to show one auction's detail view.
type openAuctionMsg struct {
	id int64
}

// sortOrder mirrors the sort options of the listing page.
var sortOrder = []string{"newest", "oldest", "price-high", "price-low"}

// browseModel is the full auction listing with search and sort. Ended
// auctions are filtered out client-side; the lifecycle is derived from
// the clock at render time, never from a stored flag.
type browseModel struct {
	client *client.Client
	store  *session.Store
	now    func() time.Time

	auctions []domain.Auction
	cursor   int
	loading  bool
	err      string

	search       string
	searchActive bool
	sortCycle    int

	width  int
	height int
}

func newBrowseModel(c *client.Client, s *session.Store) browseModel {
	return browseModel{client: c, store: s, now: time.Now, loading: true}
}

func (m browseModel) Init() tea.Cmd {
	return m.load()
}

func (m browseModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		auctions, err := c.ListAuctions(context.Background(), client.ListOptions{})
		return browseLoadedMsg{auctions: auctions, err: err}
	}
}

func (m browseModel) deleteSelected() tea.Cmd {
	visible := m.visible()
	if m.cursor >= len(visible) {
		return nil
	}
	id := visible[m.cursor].ID
	c := m.client
	return func() tea.Msg {
		return browseDeleteMsg{id: id, err: c.DeleteAuction(context.Background(), id)}
	}
}

// visible applies the active filter, search and sort to the fetched
// records.
func (m browseModel) visible() []domain.Auction {
	now := m.now()
	out := make([]domain.Auction, 0, len(m.auctions))
	q := strings.ToLower(m.search)
	for _, a := range m.auctions {
		if a.Lifecycle(now) == domain.LifecycleEnded {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(a.Name), q) &&
			!strings.Contains(fmt.Sprintf("%d", a.Year), q) &&
			!strings.Contains(strings.ToLower(a.SellerUsername), q) {
			continue
		}
		out = append(out, a)
	}
	switch sortOrder[m.sortCycle] {
	case "price-high":
		sort.SliceStable(out, func(i, j int) bool { return out[i].CurrentBid > out[j].CurrentBid })
	case "price-low":
		sort.SliceStable(out, func(i, j int) bool { return out[i].CurrentBid < out[j].CurrentBid })
	case "oldest":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	default: // newest
		sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	}
	return out
}

func (m browseModel) Update(msg tea.Msg) (browseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case browseLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.auctions = msg.auctions
			m.err = ""
			if m.cursor >= len(m.visible()) {
				m.cursor = 0
			}
		}

	case browseDeleteMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		return m, m.load()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	if m.searchActive {
		switch msg.String() {
		case "enter", "esc":
			m.searchActive = false
		default:
			m.search = editRune(m.search, msg.String())
			m.cursor = 0
		}
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.searchActive = true
	case "s":
		m.sortCycle = (m.sortCycle + 1) % len(sortOrder)
		m.cursor = 0
	case "r":
		m.loading = true
		return m, m.load()
	case "x":
		// Admin-only; the server enforces the permission, the key is
		// hidden for everyone else.
		if m.store.Current().IsAdmin {
			return m, m.deleteSelected()
		}
	case "enter":
		visible := m.visible()
		if m.cursor < len(visible) {
			id := visible[m.cursor].ID
			return m, func() tea.Msg { return openAuctionMsg{id: id} }
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.loading {
		return "\n " + dimStyle.Render("loading auctions...")
	}
	if m.err != "" {
		return "\n " + errorStyle.Render("failed to load: "+m.err) + "\n " + helpEntry("r", "retry")
	}

	var sb strings.Builder
	header := titleStyle.Render("Browse Auctions") + "  " + metaStyle.Render("sort: "+sortOrder[m.sortCycle])
	sb.WriteString(" " + header + "\n")
	if m.searchActive {
		sb.WriteString(" " + inputPromptStyle.Render("/") + selectedStyle.Render(m.search) + accentStyle.Render("█") + "\n\n")
	} else if m.search != "" {
		sb.WriteString(" " + dimStyle.Render("/"+m.search) + "\n\n")
	} else {
		sb.WriteString("\n")
	}

	visible := m.visible()
	if len(visible) == 0 {
		sb.WriteString(" " + dimStyle.Render("no live auctions"))
		return sb.String()
	}
	now := m.now()
	for i, a := range visible {
		sb.WriteString(renderAuctionRow(a, i == m.cursor, now) + "\n")
	}
	return sb.String()
}

// renderAuctionRow renders one listing line, shared with the home view.
func renderAuctionRow(a domain.Auction, selected bool, now time.Time) string {
	marker := "  "
	nameStyle := normalStyle
	if selected {
		marker = accentStyle.Render("> ")
		nameStyle = selectedStyle
	}
	// Pad before styling; styled strings carry escape codes that break
	// printf width specifiers.
	name := nameStyle.Render(fmt.Sprintf("%-36s", truncStr(fmt.Sprintf("%d %s", a.Year, a.Name), 34)))
	bid := priceStyle.Render(fmt.Sprintf("%-12s", formatMoney(a.CurrentBid)))
	left := metaStyle.Render(fmt.Sprintf("%-14s", formatTimeLeft(a.TimeLeft(now))))
	seller := dimStyle.Render(a.SellerUsername)
	return " " + marker + name + " " + bid + " " + left + " " + seller
}
