package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/gavelhq/gavel/internal/auction"
	"github.com/gavelhq/gavel/internal/session"
	"github.com/gavelhq/gavel/pkg/client"
	"github.com/gavelhq/gavel/pkg/domain"
)

// detailPollInterval is how often the detail view re-fetches the
// auction record. The countdown re-renders every second in between.
const detailPollInterval = 10 * time.Second

type detailState int

const (
	detailLoading detailState = iota
	detailActive
	detailEnded
	detailFailed
)

// detailFetchedMsg carries a fetched auction record. reqID ties the
// result to the fetch that produced it; completions for superseded
// fetches are dropped so a slow response cannot overwrite a newer one.
type detailFetchedMsg struct {
	reqID   uuid.UUID
	auction *domain.Auction
	err     error
}

// detailPollMsg fires on each re-fetch interval. gen ties the tick to
// the visit that armed it; a chain left over from a previous visit is
// dropped instead of doubling up with the fresh one.
type detailPollMsg struct {
	gen int
}

// countdownMsg fires every second to re-derive the lifecycle. gen works
// as on detailPollMsg.
type countdownMsg struct {
	gen int
}

// bidResultMsg carries the outcome of a bid submission.
type bidResultMsg struct {
	amount float64
	err    error
}

// clearStatusMsg clears the transient status banner. It never triggers
// a fetch.
type clearStatusMsg struct{}

// gotoPaymentMsg asks the app to switch to the payment flow.
type gotoPaymentMsg struct {
	auction domain.Auction
}

// showProfileMsg opens the profile overlay for a user.
type showProfileMsg struct {
	username string
}

func detailPollCmd(gen int) tea.Cmd {
	return tea.Tick(detailPollInterval, func(time.Time) tea.Msg {
		return detailPollMsg{gen: gen}
	})
}

func countdownCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownMsg{gen: gen}
	})
}

// detailModel drives one auction's lifecycle: it polls the record,
// re-derives Active/Ended from the clock on every tick, and hands
// exactly one transition to the payment flow when the auction expires.
type detailModel struct {
	client *client.Client
	ctrl   *auction.Controller
	store  *session.Store
	now    func() time.Time

	auctionID int64
	fetchID   uuid.UUID
	tickGen   int
	state     detailState
	auc       *domain.Auction
	notFound  bool
	errMsg    string

	// paid latches the one-way Active -> Ended transition; ticks that
	// observe Ended after it is set must not re-trigger navigation.
	paid bool

	bidInput   string
	bidFocused bool
	bidMsg     string
	status     string

	width  int
	height int
}

func newDetailModel(c *client.Client, ctrl *auction.Controller, s *session.Store) detailModel {
	return detailModel{client: c, ctrl: ctrl, store: s, now: time.Now}
}

// open points the view at an auction and starts the fetch/tick cycle.
// Any in-flight fetch for a previous subject is invalidated by the new
// fetchID, and the rotated tick generation orphans whatever tick chain
// the previous visit left behind, so arming fresh ticks here is always
// safe.
func (m *detailModel) open(id int64) tea.Cmd {
	m.auctionID = id
	m.state = detailLoading
	m.auc = nil
	m.notFound = false
	m.errMsg = ""
	m.paid = false
	m.bidInput = ""
	m.bidFocused = false
	m.bidMsg = ""
	m.status = ""
	m.tickGen++
	return tea.Batch(m.fetch(), detailPollCmd(m.tickGen), countdownCmd(m.tickGen))
}

// fetch issues a load for the current auction and makes it the one
// whose completion counts.
func (m *detailModel) fetch() tea.Cmd {
	m.fetchID = uuid.New()
	reqID := m.fetchID
	id := m.auctionID
	c := m.client
	return func() tea.Msg {
		a, err := c.GetAuction(context.Background(), id)
		return detailFetchedMsg{reqID: reqID, auction: a, err: err}
	}
}

// evaluate re-derives the lifecycle from the latest snapshot. The
// Active -> Ended edge fires the payment navigation exactly once.
func (m detailModel) evaluate() (detailModel, tea.Cmd) {
	if m.auc == nil {
		return m, nil
	}
	if m.auc.Lifecycle(m.now()) == domain.LifecycleEnded {
		m.state = detailEnded
		if !m.paid {
			m.paid = true
			a := *m.auc
			return m, func() tea.Msg { return gotoPaymentMsg{auction: a} }
		}
		return m, nil
	}
	m.state = detailActive
	return m, nil
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case detailFetchedMsg:
		if msg.reqID != m.fetchID {
			return m, nil // superseded fetch, discard
		}
		if msg.err != nil {
			m.state = detailFailed
			if client.IsStatus(msg.err, 404) {
				m.notFound = true
				m.errMsg = "auction not found"
			} else {
				m.errMsg = msg.err.Error()
			}
			return m, nil
		}
		m.auc = msg.auction
		if m.bidInput == "" && !m.bidFocused {
			m.bidInput = strconv.FormatInt(int64(m.auc.CurrentBid)+1, 10)
		}
		return m.evaluate()

	case detailPollMsg:
		if msg.gen != m.tickGen {
			return m, nil // orphaned chain from a previous visit
		}
		if m.state != detailLoading && m.state != detailActive {
			return m, nil
		}
		return m, tea.Batch(m.fetch(), detailPollCmd(msg.gen))

	case countdownMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		if m.state != detailLoading && m.state != detailActive {
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.evaluate()
		return m, tea.Batch(cmd, countdownCmd(msg.gen))

	case bidResultMsg:
		return m.handleBidResult(msg)

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m detailModel) handleBidResult(msg bidResultMsg) (detailModel, tea.Cmd) {
	switch {
	case msg.err == nil:
		m.status = "Bid placed successfully!"
		m.bidMsg = ""
		m.bidInput = ""
		m.bidFocused = false
		return m, tea.Batch(
			m.fetch(),
			tea.Tick(4*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} }),
		)

	case isServerRejection(msg.err):
		// Another bid may have landed first; refresh the current bid
		// before the user tries again.
		m.bidMsg = msg.err.Error()
		return m, m.fetch()

	case errors.Is(msg.err, auction.ErrNetwork):
		m.bidMsg = "network error, bid not placed"
		return m, nil

	default:
		m.bidMsg = msg.err.Error()
		return m, nil
	}
}

func isServerRejection(err error) bool {
	var rej *auction.ServerRejectionError
	return errors.As(err, &rej)
}

func (m detailModel) handleKey(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	if m.bidFocused {
		switch msg.String() {
		case "esc":
			m.bidFocused = false
		case "enter":
			return m.submitBid()
		default:
			m.bidInput = editRune(m.bidInput, msg.String())
		}
		return m, nil
	}

	switch msg.String() {
	case "enter", "b":
		if m.state == detailActive {
			m.bidFocused = true
			m.bidMsg = ""
		}
	case "y":
		if m.auc == nil {
			return m, nil
		}
		if err := m.ctrl.BuyNow(*m.auc); err != nil {
			m.bidMsg = err.Error()
			return m, nil
		}
		a := *m.auc
		return m, func() tea.Msg { return gotoPaymentMsg{auction: a} }
	case "p":
		if m.auc != nil && m.auc.SellerUsername != "" {
			seller := m.auc.SellerUsername
			return m, func() tea.Msg { return showProfileMsg{username: seller} }
		}
	case "c":
		if m.auc != nil {
			clipboard.WriteAll(m.client.AuctionURL(m.auc.ID)) //nolint:errcheck // best-effort copy
			m.status = "link copied"
			return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
		}
	case "r":
		if m.state == detailFailed && !m.notFound {
			return m, m.open(m.auctionID)
		}
	}
	return m, nil
}

// submitBid parses the entered amount and hands it to the controller.
// Validation failures come back through bidResultMsg without any
// network traffic.
func (m detailModel) submitBid() (detailModel, tea.Cmd) {
	if m.auc == nil {
		return m, nil
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(m.bidInput), 64)
	if err != nil {
		m.bidMsg = "enter a valid amount"
		return m, nil
	}
	a := *m.auc
	ctrl := m.ctrl
	return m, func() tea.Msg {
		return bidResultMsg{amount: amount, err: ctrl.SubmitBid(context.Background(), a, amount)}
	}
}

func (m detailModel) View() string {
	switch m.state {
	case detailLoading:
		return "\n " + dimStyle.Render("loading auction...")
	case detailFailed:
		if m.notFound {
			return "\n " + errorStyle.Render("auction not found") + "\n\n " + helpEntry("esc", "back")
		}
		return "\n " + errorStyle.Render("failed to load: "+m.errMsg) + "\n\n " + helpEntry("r", "retry") + "  " + helpEntry("esc", "back")
	}
	if m.auc == nil {
		return ""
	}

	a := m.auc
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%d %s", a.Year, a.Name)) + "\n")
	sb.WriteString(metaStyle.Render("seller ") + normalStyle.Render(a.SellerUsername))
	if n := len(a.Images); n > 0 {
		sb.WriteString(metaStyle.Render(fmt.Sprintf("  ·  %d photos", n)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(metaStyle.Render("Current bid  ") + priceStyle.Render(formatMoney(a.CurrentBid)) + "\n")
	sb.WriteString(metaStyle.Render("Starting bid ") + normalStyle.Render(formatMoney(a.StartingBid)) + "\n")
	if a.BuyNowPrice > 0 {
		sb.WriteString(metaStyle.Render("Buy now      ") + normalStyle.Render(formatMoney(a.BuyNowPrice)) + "\n")
	}

	left := a.TimeLeft(m.now())
	timeStyle := normalStyle
	if left > 0 && left < 5*time.Minute {
		timeStyle = urgentStyle
	}
	if m.state == detailEnded {
		sb.WriteString(metaStyle.Render("Time left    ") + errorStyle.Render("Ended") + "\n")
	} else {
		sb.WriteString(metaStyle.Render("Time left    ") + timeStyle.Render(formatTimeLeft(left)) + "\n")
	}
	sb.WriteString("\n")

	if m.state == detailActive {
		prompt := inputPromptStyle.Render("bid> ")
		if m.bidFocused {
			sb.WriteString(prompt + selectedStyle.Render(m.bidInput) + accentStyle.Render("█") + "\n")
		} else if m.bidInput != "" {
			sb.WriteString(prompt + dimStyle.Render(m.bidInput) + "\n")
		} else {
			sb.WriteString(prompt + inputPlaceholderStyle.Render(fmt.Sprintf("more than %s", formatMoney(a.CurrentBid))) + "\n")
		}
	}
	if m.bidMsg != "" {
		sb.WriteString(errorStyle.Render(m.bidMsg) + "\n")
	}
	if m.status != "" {
		sb.WriteString(okStyle.Render(m.status) + "\n")
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(surfaceColor).
		Padding(1, 2).
		Render(sb.String())

	return "\n" + card
}

// helpKeys returns the context help line for the current state.
func (m detailModel) helpKeys() string {
	if m.bidFocused {
		return helpEntry("enter", "place bid") + "  " + helpEntry("esc", "cancel")
	}
	switch m.state {
	case detailActive:
		return helpEntry("b", "bid") + "  " + helpEntry("y", "buy now") + "  " + helpEntry("p", "seller") + "  " + helpEntry("c", "copy link") + "  " + helpEntry("esc", "back")
	case detailFailed:
		return helpEntry("r", "retry") + "  " + helpEntry("esc", "back")
	default:
		return helpEntry("esc", "back")
	}
}
