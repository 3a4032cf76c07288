package tui

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/gavelhq/gavel/internal/session"
	"github.com/gavelhq/gavel/pkg/client"
	"github.com/gavelhq/gavel/pkg/domain"
)

func newTestHome(t *testing.T, authed bool) homeModel {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), log)
	if authed {
		err := store.Login(domain.Session{
			User:        &domain.User{Username: "marge"},
			AccessToken: "tok",
		})
		if err != nil {
			t.Fatalf("store.Login: %v", err)
		}
	}
	m := newHomeModel(client.New("http://localhost:0", store), store)
	m.now = func() time.Time { return detailNow }
	return m
}

func TestHomeStaleToggleResultDiscarded(t *testing.T) {
	m := newTestHome(t, true)

	// User toggles to "my auctions" while the featured fetch is still
	// in flight; the featured result must not land on the new tab.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	if !m.mine {
		t.Fatal("'m' should toggle to the user's own listings")
	}

	featured := []domain.Auction{{ID: 1, Name: "Mini Cooper"}}
	m, _ = m.Update(homeLoadedMsg{auctions: featured, mine: false})
	if len(m.auctions) != 0 {
		t.Error("stale featured result landed after the toggle")
	}
	if !m.loading {
		t.Error("stale result must not clear the loading state")
	}

	own := []domain.Auction{{ID: 2, Name: "MG Midget"}}
	m, _ = m.Update(homeLoadedMsg{auctions: own, mine: true})
	if len(m.auctions) != 1 || m.auctions[0].ID != 2 {
		t.Errorf("auctions = %v, want the matching toggle's result", m.auctions)
	}
}

func TestHomeToggleRequiresAuth(t *testing.T) {
	m := newTestHome(t, false)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	if m.mine {
		t.Error("signed-out user toggled to my auctions")
	}
	if cmd != nil {
		t.Error("toggle for a signed-out user issued a load")
	}
}

func TestHomeEnterOpensSelection(t *testing.T) {
	m := newTestHome(t, false)
	m.loading = false
	m.auctions = []domain.Auction{{ID: 4}, {ID: 9}}
	m.cursor = 1

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should open the selected auction")
	}
	msg, ok := cmd().(openAuctionMsg)
	if !ok || msg.id != 9 {
		t.Errorf("cmd yielded %#v, want openAuctionMsg{id: 9}", cmd())
	}
}
