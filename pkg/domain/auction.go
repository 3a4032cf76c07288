package domain

import "time"

// Auction is a vehicle listing as returned by the auction API.
type Auction struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Year           int            `json:"year"`
	StartTime      time.Time      `json:"start_time"`
	DurationHours  int            `json:"duration_hours"`
	CurrentBid     float64        `json:"current_bid"`
	StartingBid    float64        `json:"starting_bid"`
	BuyNowPrice    float64        `json:"buy_now_price,omitempty"`
	SellerUsername string         `json:"seller_username"`
	Images         []AuctionImage `json:"images,omitempty"`
}

// AuctionImage is one image attached to a listing. At most one image
// in a listing has IsPrimary set.
type AuctionImage struct {
	ID        int64  `json:"id"`
	URL       string `json:"image"`
	IsPrimary bool   `json:"is_primary"`
}

// Lifecycle is the derived temporal state of an auction. It is never
// stored; callers recompute it from the clock on every read.
type Lifecycle int

const (
	LifecycleActive Lifecycle = iota
	LifecycleEnded
)

func (l Lifecycle) String() string {
	if l == LifecycleEnded {
		return "ended"
	}
	return "active"
}

// EndTime returns the fixed close time of the auction.
func (a Auction) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationHours) * time.Hour)
}

// Lifecycle derives the auction's state at the given instant. A
// non-positive duration counts as already ended; creation should have
// rejected it upstream, but a stale or corrupt record must not present
// as biddable.
func (a Auction) Lifecycle(now time.Time) Lifecycle {
	if a.DurationHours <= 0 {
		return LifecycleEnded
	}
	if !now.Before(a.EndTime()) {
		return LifecycleEnded
	}
	return LifecycleActive
}

// TimeLeft returns the remaining duration at the given instant,
// truncated to whole seconds. Ended auctions report zero.
func (a Auction) TimeLeft(now time.Time) time.Duration {
	if a.Lifecycle(now) == LifecycleEnded {
		return 0
	}
	return a.EndTime().Sub(now).Truncate(time.Second)
}

// PrimaryImage returns the listing's primary image, falling back to the
// first image, or nil when the listing has none.
func (a Auction) PrimaryImage() *AuctionImage {
	for i := range a.Images {
		if a.Images[i].IsPrimary {
			return &a.Images[i]
		}
	}
	if len(a.Images) > 0 {
		return &a.Images[0]
	}
	return nil
}
