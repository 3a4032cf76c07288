package domain

import (
	"errors"
	"fmt"
	"time"
)

// Bid rejection reasons. These are detected client-side before any
// request is issued; the server remains the final authority and may
// still reject for its own reasons.
var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrAuctionEnded     = errors.New("auction has ended")
	ErrBidTooLow        = errors.New("bid amount too low")
)

// BidIntent is a proposed bid. It exists only for the duration of a
// submission and is never persisted.
type BidIntent struct {
	AuctionID int64
	Amount    float64
}

// ValidateBid checks a proposed bid against the session and the
// auction's derived lifecycle. Checks run in a fixed order: session,
// lifecycle, amount. The displayed current bid is a strict lower bound
// for the next accepted bid.
func ValidateBid(a Auction, amount float64, s Session, now time.Time) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	if a.Lifecycle(now) == LifecycleEnded {
		return ErrAuctionEnded
	}
	if amount <= a.CurrentBid {
		return fmt.Errorf("%w: current bid is %.2f", ErrBidTooLow, a.CurrentBid)
	}
	return nil
}
