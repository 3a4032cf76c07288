package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gavelhq/gavel/pkg/client"
	"github.com/gavelhq/gavel/pkg/domain"
)

type createField int

const (
	fieldName createField = iota
	fieldYear
	fieldStartingBid
	fieldBuyNow
	fieldDuration
	fieldImages
	numFields
)

type createModel struct {
	client    *client.Client
	fields    [numFields]string
	focus     createField
	statusMsg string
	submitted bool
}

type auctionCreatedMsg struct {
	auction *domain.Auction
	err     error
}

func newCreateModel(c *client.Client) createModel {
	return createModel{client: c}
}

func (m createModel) Init() tea.Cmd {
	return nil
}

func (m createModel) Update(msg tea.Msg) (createModel, tea.Cmd) {
	switch msg := msg.(type) {
	case auctionCreatedMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = "failed to create listing: " + msg.err.Error()
			return m, nil
		}
		m.fields = [numFields]string{}
		m.focus = fieldName
		id := msg.auction.ID
		return m, func() tea.Msg { return openAuctionMsg{id: id} }

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m createModel) updateKeys(msg tea.KeyMsg) (createModel, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down", "enter":
		m.focus = (m.focus + 1) % numFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numFields) % numFields
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

// submit validates the form and creates the listing, then uploads any
// attached images with the first marked primary.
func (m createModel) submit() (createModel, tea.Cmd) {
	name := strings.TrimSpace(m.fields[fieldName])
	if name == "" {
		m.statusMsg = "car name is required"
		return m, nil
	}
	year, err := strconv.Atoi(strings.TrimSpace(m.fields[fieldYear]))
	if err != nil {
		m.statusMsg = "enter a valid year"
		return m, nil
	}
	startingBid, err := strconv.ParseFloat(strings.TrimSpace(m.fields[fieldStartingBid]), 64)
	if err != nil || startingBid <= 0 {
		m.statusMsg = "enter a valid starting bid"
		return m, nil
	}
	buyNow, err := strconv.ParseFloat(strings.TrimSpace(m.fields[fieldBuyNow]), 64)
	if err != nil || buyNow <= startingBid {
		m.statusMsg = "buy-now price must be above the starting bid"
		return m, nil
	}
	duration, err := strconv.Atoi(strings.TrimSpace(m.fields[fieldDuration]))
	if err != nil || duration <= 0 {
		m.statusMsg = "duration must be a positive number of hours"
		return m, nil
	}

	var images []string
	for _, p := range strings.Split(m.fields[fieldImages], ",") {
		if p = strings.TrimSpace(p); p != "" {
			images = append(images, p)
		}
	}

	m.submitted = true
	req := client.CreateAuctionRequest{
		Name:          name,
		Year:          year,
		StartingBid:   startingBid,
		CurrentBid:    startingBid,
		BuyNowPrice:   buyNow,
		DurationHours: duration,
	}
	c := m.client
	return m, func() tea.Msg {
		created, err := c.CreateAuction(context.Background(), req)
		if err != nil {
			return auctionCreatedMsg{err: err}
		}
		if len(images) > 0 {
			if err := c.UploadAuctionImages(context.Background(), created.ID, images); err != nil {
				return auctionCreatedMsg{err: err}
			}
		}
		return auctionCreatedMsg{auction: created}
	}
}

func (m createModel) View() string {
	var b strings.Builder

	b.WriteString(" " + titleStyle.Render("Create New Auction") + "\n\n")

	labels := [numFields]string{"car name", "year", "starting bid", "buy now price", "duration (hours)", "image files"}
	for i := createField(0); i < numFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[i]
		if i == m.focus {
			value += "█"
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(fmt.Sprintf("%-16s", labels[i])), value)
	}

	b.WriteString("\n")
	if m.submitted {
		b.WriteString(" " + dimStyle.Render("creating..."))
	} else if m.statusMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.statusMsg))
	} else {
		b.WriteString(" " + dimStyle.Render("image files: comma-separated paths, first becomes primary"))
	}

	return b.String()
}
