package domain

import (
	"errors"
	"testing"
	"time"
)

func authedSession() Session {
	return Session{
		User:         &User{Username: "bidder", Email: "bidder@example.com"},
		AccessToken:  "access",
		RefreshToken: "refresh",
	}
}

func TestValidateBidRequiresAuthentication(t *testing.T) {
	a := testAuction(24)
	err := ValidateBid(a, 1500, Session{}, baseTime)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("ValidateBid(signed out) = %v, want ErrNotAuthenticated", err)
	}
}

func TestValidateBidRejectsEndedAuction(t *testing.T) {
	a := testAuction(1)
	err := ValidateBid(a, 1500, authedSession(), baseTime.Add(61*time.Minute))
	if !errors.Is(err, ErrAuctionEnded) {
		t.Errorf("ValidateBid(ended) = %v, want ErrAuctionEnded", err)
	}
}

func TestValidateBidStrictlyGreater(t *testing.T) {
	a := testAuction(24)
	a.CurrentBid = 1000

	for _, amount := range []float64{999, 1000} {
		err := ValidateBid(a, amount, authedSession(), baseTime)
		if !errors.Is(err, ErrBidTooLow) {
			t.Errorf("ValidateBid(%v) = %v, want ErrBidTooLow", amount, err)
		}
	}
	if err := ValidateBid(a, 1001, authedSession(), baseTime); err != nil {
		t.Errorf("ValidateBid(1001) = %v, want nil", err)
	}
	if err := ValidateBid(a, 1000.01, authedSession(), baseTime); err != nil {
		t.Errorf("ValidateBid(1000.01) = %v, want nil", err)
	}
}

func TestValidateBidCheckOrder(t *testing.T) {
	// A signed-out session on an ended auction reports the auth
	// failure first; the checks run in a fixed order.
	a := testAuction(1)
	a.CurrentBid = 1000
	err := ValidateBid(a, 10, Session{}, baseTime.Add(2*time.Hour))
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("ValidateBid = %v, want ErrNotAuthenticated first", err)
	}
}

func TestValidateBidDeterministic(t *testing.T) {
	a := testAuction(24)
	s := authedSession()
	first := ValidateBid(a, 500, s, baseTime)
	for i := 0; i < 3; i++ {
		again := ValidateBid(a, 500, s, baseTime)
		if !errors.Is(again, ErrBidTooLow) || again.Error() != first.Error() {
			t.Errorf("ValidateBid not deterministic: %v vs %v", first, again)
		}
	}
}

func TestSessionAuthenticated(t *testing.T) {
	if (Session{}).Authenticated() {
		t.Error("zero session should not be authenticated")
	}
	if (Session{User: &User{Username: "x"}}).Authenticated() {
		t.Error("session without tokens should not be authenticated")
	}
	if !authedSession().Authenticated() {
		t.Error("full session should be authenticated")
	}
}
