package auction

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gavelhq/gavel/internal/session"
	"github.com/gavelhq/gavel/pkg/client"
	"github.com/gavelhq/gavel/pkg/domain"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func liveAuction() domain.Auction {
	return domain.Auction{
		ID:            7,
		Name:          "MG Midget",
		StartTime:     fixedNow.Add(-time.Hour),
		DurationHours: 24,
		CurrentBid:    1000,
	}
}

func testController(t *testing.T, baseURL string, authed bool) *Controller {
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
	ctrl := NewController(client.New(baseURL, store), store, log)
	ctrl.now = func() time.Time { return fixedNow }
	return ctrl
}

// countingServer records how many requests reached it.
func countingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestSubmitBidUnauthenticatedSkipsNetwork(t *testing.T) {
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {})
	ctrl := testController(t, srv.URL, false)

	err := ctrl.SubmitBid(context.Background(), liveAuction(), 1001)
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("err = %v, want ErrNotAuthenticated", err)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestSubmitBidTooLowSkipsNetwork(t *testing.T) {
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {})
	ctrl := testController(t, srv.URL, true)

	for _, amount := range []float64{999, 1000} {
		err := ctrl.SubmitBid(context.Background(), liveAuction(), amount)
		if !errors.Is(err, domain.ErrBidTooLow) {
			t.Errorf("SubmitBid(%v) = %v, want ErrBidTooLow", amount, err)
		}
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestSubmitBidEndedSkipsNetwork(t *testing.T) {
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {})
	ctrl := testController(t, srv.URL, true)

	a := liveAuction()
	a.StartTime = fixedNow.Add(-48 * time.Hour)

	err := ctrl.SubmitBid(context.Background(), a, 1001)
	if !errors.Is(err, domain.ErrAuctionEnded) {
		t.Errorf("err = %v, want ErrAuctionEnded", err)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestSubmitBidSendsExactlyOneRequest(t *testing.T) {
	var gotBody map[string]float64
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})
	ctrl := testController(t, srv.URL, true)

	if err := ctrl.SubmitBid(context.Background(), liveAuction(), 1001); err != nil {
		t.Fatalf("SubmitBid() error: %v", err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server saw %d requests, want 1", n)
	}
	if gotBody["bid_amount"] != 1001 {
		t.Errorf("bid_amount = %v, want 1001", gotBody["bid_amount"])
	}
}

func TestSubmitBidServerRejection(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Bid must be higher than the current bid"})
	})
	ctrl := testController(t, srv.URL, true)

	err := ctrl.SubmitBid(context.Background(), liveAuction(), 1001)
	var rej *ServerRejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("err = %v, want *ServerRejectionError", err)
	}
	if rej.Message != "Bid must be higher than the current bid" {
		t.Errorf("Message = %q, want the server's text verbatim", rej.Message)
	}
}

func TestSubmitBidNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable on purpose
	ctrl := testController(t, srv.URL, true)

	err := ctrl.SubmitBid(context.Background(), liveAuction(), 1001)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", err)
	}
}

func TestBuyNowGatesOnLifecycle(t *testing.T) {
	ctrl := testController(t, "http://localhost:0", true)

	if err := ctrl.BuyNow(liveAuction()); err != nil {
		t.Errorf("BuyNow(active) = %v, want nil", err)
	}

	ended := liveAuction()
	ended.StartTime = fixedNow.Add(-48 * time.Hour)
	if err := ctrl.BuyNow(ended); !errors.Is(err, domain.ErrAuctionEnded) {
		t.Errorf("BuyNow(ended) = %v, want ErrAuctionEnded", err)
	}
}
