// Package auction orchestrates bid submission and buy-now against the
// remote auction service.
package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gavelhq/gavel/internal/session"
	"github.com/gavelhq/gavel/pkg/client"
	"github.com/gavelhq/gavel/pkg/domain"
)

// ErrNetwork marks a transport failure. The bid may or may not have
// reached the server; the user must re-fetch and re-initiate.
var ErrNetwork = errors.New("network failure")

// ServerRejectionError carries the server's rejection message verbatim,
// e.g. when a concurrent bid was accepted first. Callers must re-fetch
// the current bid before allowing a resubmission.
type ServerRejectionError struct {
	Message string
}

func (e *ServerRejectionError) Error() string { return e.Message }

// Controller validates and submits auction actions. It never retries a
// failed bid: a stale amount resubmitted against a changed current bid
// would break the strict-greater rule, so every retry starts from a
// fresh fetch initiated by the user.
type Controller struct {
	client *client.Client
	store  *session.Store
	log    *logrus.Logger
	now    func() time.Time
}

// NewController creates an action controller for the given client and
// session store.
func NewController(c *client.Client, s *session.Store, log *logrus.Logger) *Controller {
	return &Controller{client: c, store: s, log: log, now: time.Now}
}

// SubmitBid validates the bid and, if it passes, submits it. A
// validation failure short-circuits with no network call. A non-2xx
// response returns *ServerRejectionError; a transport failure returns
// an error wrapping ErrNetwork. A nil return means the server accepted
// the bid.
func (c *Controller) SubmitBid(ctx context.Context, a domain.Auction, amount float64) error {
	if err := domain.ValidateBid(a, amount, c.store.Current(), c.now()); err != nil {
		c.log.WithFields(logrus.Fields{
			"auction_id": a.ID,
			"amount":     amount,
			"reason":     err.Error(),
		}).Info("bid rejected client-side")
		return err
	}

	err := c.client.PlaceBid(ctx, a.ID, amount)
	if err != nil {
		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) {
			c.log.WithFields(logrus.Fields{
				"auction_id": a.ID,
				"amount":     amount,
				"status":     httpErr.StatusCode,
			}).Warn("bid rejected by server")
			return &ServerRejectionError{Message: httpErr.Message}
		}
		c.log.WithError(err).WithField("auction_id", a.ID).Error("bid submission failed")
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	c.log.WithFields(logrus.Fields{
		"auction_id": a.ID,
		"amount":     amount,
	}).Info("bid placed")
	return nil
}

// BuyNow checks that the auction can still be bought. It performs no
// server round trip; a nil return means the caller may proceed to the
// payment flow. The action is undefined on an ended auction, so the
// lifecycle gate is enforced here as well as in the UI.
func (c *Controller) BuyNow(a domain.Auction) error {
	if a.Lifecycle(c.now()) == domain.LifecycleEnded {
		return domain.ErrAuctionEnded
	}
	c.log.WithField("auction_id", a.ID).Info("buy-now initiated")
	return nil
}
