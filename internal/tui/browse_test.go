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

func newTestBrowse(t *testing.T) browseModel {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), log)
	m := newBrowseModel(client.New("http://localhost:0", store), store)
	m.now = func() time.Time { return detailNow }
	return m
}

func browseFixtures() []domain.Auction {
	return []domain.Auction{
		{ID: 1, Name: "Mini Cooper", Year: 1968, StartTime: detailNow.Add(-time.Hour), DurationHours: 24, CurrentBid: 3000, SellerUsername: "alice"},
		{ID: 2, Name: "Jaguar E-Type", Year: 1963, StartTime: detailNow.Add(-time.Hour), DurationHours: 24, CurrentBid: 90000, SellerUsername: "bob"},
		{ID: 3, Name: "MG Midget", Year: 1972, StartTime: detailNow.Add(-48 * time.Hour), DurationHours: 24, CurrentBid: 1000, SellerUsername: "alice"},
		{ID: 4, Name: "Ford Capri", Year: 1974, StartTime: detailNow.Add(-time.Hour), DurationHours: 24, CurrentBid: 5500, SellerUsername: "carol"},
	}
}

func visibleIDs(m browseModel) []int64 {
	var ids []int64
	for _, a := range m.visible() {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestBrowseFiltersEndedAuctions(t *testing.T) {
	m := newTestBrowse(t)
	m.auctions = browseFixtures()

	for _, a := range m.visible() {
		if a.ID == 3 {
			t.Fatal("ended auction (id 3) should be filtered from the listing")
		}
	}
	if got := len(m.visible()); got != 3 {
		t.Errorf("visible count = %d, want 3", got)
	}
}

func TestBrowseSearchMatchesNameYearSeller(t *testing.T) {
	m := newTestBrowse(t)
	m.auctions = browseFixtures()

	tests := []struct {
		query string
		want  []int64
	}{
		{"jaguar", []int64{2}},
		{"1974", []int64{4}},
		{"alice", []int64{1}}, // id 3 is alice's but ended
		{"nothing", nil},
	}
	for _, tt := range tests {
		m.search = tt.query
		got := visibleIDs(m)
		if len(got) != len(tt.want) {
			t.Errorf("search %q matched %v, want %v", tt.query, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("search %q matched %v, want %v", tt.query, got, tt.want)
			}
		}
	}
}

func TestBrowseSortOrders(t *testing.T) {
	m := newTestBrowse(t)
	m.auctions = browseFixtures()

	tests := []struct {
		order string
		want  []int64
	}{
		{"newest", []int64{4, 1, 2}},
		{"oldest", []int64{2, 1, 4}},
		{"price-high", []int64{2, 4, 1}},
		{"price-low", []int64{1, 4, 2}},
	}
	for _, tt := range tests {
		for i, name := range sortOrder {
			if name == tt.order {
				m.sortCycle = i
			}
		}
		got := visibleIDs(m)
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("sort %q = %v, want %v", tt.order, got, tt.want)
				break
			}
		}
	}
}

func TestBrowseEnterOpensSelection(t *testing.T) {
	m := newTestBrowse(t)
	m.auctions = browseFixtures()
	m.loading = false
	m.cursor = 1

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on a row should open the detail view")
	}
	msg, ok := cmd().(openAuctionMsg)
	if !ok {
		t.Fatalf("cmd yielded %T, want openAuctionMsg", cmd())
	}
	// Cursor 1 under the default newest sort is the Mini Cooper.
	if msg.id != 1 {
		t.Errorf("opened id %d, want 1", msg.id)
	}
}

func TestBrowseDeleteRequiresAdmin(t *testing.T) {
	m := newTestBrowse(t)
	m.auctions = browseFixtures()

	if _, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); cmd != nil {
		t.Error("delete must be a no-op for non-admin users")
	}
}

func TestBrowseSearchEditing(t *testing.T) {
	m := newTestBrowse(t)
	m.auctions = browseFixtures()
	m.cursor = 2

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.searchActive {
		t.Fatal("/ should activate search")
	}
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if m.search != "j" {
		t.Errorf("search = %q, typing should edit the query not move the cursor", m.search)
	}
	if m.cursor != 0 {
		t.Error("editing the query should reset the cursor")
	}
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.searchActive {
		t.Error("esc should leave search mode")
	}
}
