// Package tui is the terminal front end: a root model that routes
// between the listing, detail, creation, and payment views.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gavelhq/gavel/internal/auction"
	"github.com/gavelhq/gavel/internal/session"
	"github.com/gavelhq/gavel/pkg/client"
)

type view int

const (
	viewHome view = iota
	viewBrowse
	viewDetail
	viewCreate
	viewPayment
)

// App is the root Bubbletea model.
type App struct {
	client  *client.Client
	store   *session.Store
	version string

	view     view
	prevView view
	home     homeModel
	browse   browseModel
	detail   detailModel
	create   createModel
	payment  paymentModel
	profile  profileModel

	profileOpen bool
	width       int
	height      int
}

// NewApp creates the TUI application.
func NewApp(c *client.Client, ctrl *auction.Controller, s *session.Store, version string) App {
	return App{
		client:  c,
		store:   s,
		version: version,
		home:    newHomeModel(c, s),
		browse:  newBrowseModel(c, s),
		detail:  newDetailModel(c, ctrl, s),
		create:  newCreateModel(c),
		payment: newPaymentModel(),
		profile: newProfileModel(c),
	}
}

func (a App) Init() tea.Cmd {
	return a.home.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.home, _ = a.home.Update(bodyMsg)
		a.browse, _ = a.browse.Update(bodyMsg)
		a.detail, _ = a.detail.Update(bodyMsg)
		a.profile, _ = a.profile.Update(bodyMsg)
		return a, nil

	case openAuctionMsg:
		a.prevView = a.view
		a.view = viewDetail
		return a, a.detail.open(msg.id)

	case gotoPaymentMsg:
		a.profileOpen = false
		a.view = viewPayment
		a.payment.open(msg.auction)
		return a, nil

	case detailFetchedMsg, detailPollMsg, countdownMsg, bidResultMsg, clearStatusMsg:
		// Detail-owned messages follow the detail model even while the
		// profile overlay sits on top of it. After navigating away they
		// are dropped and the chain dies; open arms a fresh one.
		if a.view == viewDetail {
			var cmd tea.Cmd
			a.detail, cmd = a.detail.Update(msg)
			return a, cmd
		}
		return a, nil

	case showProfileMsg:
		a.profileOpen = true
		a.profile = newProfileModel(a.client)
		return a, a.profile.load(msg.username)

	case tea.KeyMsg:
		if a.profileOpen {
			var cmd tea.Cmd
			a.profile, cmd = a.profile.Update(msg)
			if a.profile.closed {
				a.profileOpen = false
			}
			return a, cmd
		}
		if next, cmd, handled := a.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	// Route profile messages while the overlay is open.
	if a.profileOpen {
		var cmd tea.Cmd
		a.profile, cmd = a.profile.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewBrowse:
		a.browse, cmd = a.browse.Update(msg)
	case viewDetail:
		a.detail, cmd = a.detail.Update(msg)
	case viewCreate:
		a.create, cmd = a.create.Update(msg)
	case viewPayment:
		a.payment, cmd = a.payment.Update(msg)
	}
	return a, cmd
}

func (a App) handleGlobalKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	key := msg.String()

	// esc navigates back from the detail view and cancels the
	// creation form even while a field is focused.
	if key == "esc" {
		switch a.view {
		case viewDetail:
			if a.detail.bidFocused {
				return a, nil, false // the view unfocuses the input
			}
			a.view = a.prevView
			return a, nil, true
		case viewCreate, viewPayment:
			a.view = viewHome
			return a, a.home.Init(), true
		}
		return a, nil, false
	}

	if a.isEditing() {
		return a, nil, false
	}

	switch key {
	case "q", "ctrl+c":
		return a, tea.Quit, true
	case "1":
		if a.view != viewHome {
			a.view = viewHome
			return a, a.home.Init(), true
		}
		return a, nil, true
	case "2":
		if a.view != viewBrowse {
			a.view = viewBrowse
			return a, a.browse.Init(), true
		}
		return a, nil, true
	case "n":
		if a.view != viewCreate && a.store.Current().Authenticated() {
			a.view = viewCreate
			return a, nil, true
		}
	}
	return a, nil, false
}

func (a App) isEditing() bool {
	switch a.view {
	case viewBrowse:
		return a.browse.searchActive
	case viewDetail:
		return a.detail.bidFocused
	case viewCreate, viewPayment:
		return true
	}
	return false
}

func (a App) View() string {
	header := " " + titleStyle.Render("GAVEL") + "  " + dimStyle.Render("car auctions · "+a.version)

	sessLine := " "
	if sess := a.store.Current(); sess.Authenticated() {
		sessLine += metaStyle.Render("signed in as ") + normalStyle.Render(sess.User.Username)
		if sess.IsAdmin {
			sessLine += " " + accentStyle.Render("admin")
		}
	} else {
		sessLine += dimStyle.Render("signed out · run `gavel login` to bid")
	}

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Home", viewHome},
		{"2", "Browse", viewBrowse},
		{"n", "Sell", viewCreate},
	}
	var tabBar strings.Builder
	tabBar.WriteString(" ")
	for i, t := range tabs {
		if i > 0 {
			tabBar.WriteString("   ")
		}
		if t.v == a.view {
			tabBar.WriteString(accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name))
		} else {
			tabBar.WriteString(metaStyle.Render(t.key) + " " + dimStyle.Render(t.name))
		}
	}

	var body, help string
	switch a.view {
	case viewHome:
		body = a.home.View()
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "view") + "  " + helpEntry("m", "my auctions") + "  " + helpEntry("2", "browse") + "  " + helpEntry("q", "quit")
	case viewBrowse:
		body = a.browse.View()
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("s", "sort") + "  " + helpEntry("enter", "view") + "  " + helpEntry("q", "quit")
		if a.store.Current().IsAdmin {
			help += "  " + helpEntry("x", "delete")
		}
	case viewDetail:
		body = a.detail.View()
		help = " " + a.detail.helpKeys()
	case viewCreate:
		body = a.create.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("ctrl+s", "submit") + "  " + helpEntry("esc", "cancel")
	case viewPayment:
		body = a.payment.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("esc", "home")
	}

	if a.profileOpen {
		body = a.profile.View()
		help = " " + helpEntry("esc", "close")
	}

	header += strings.Repeat(" ", max(0, a.width-lipgloss.Width(header)-lipgloss.Width(sessLine)-1)) + sessLine

	// Chrome takes header(2) + tabs(1) + help(1) = 4 lines
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n\n%s\n%s\n%s", header, tabBar.String(), body, help)
}
