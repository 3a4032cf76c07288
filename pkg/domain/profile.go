package domain

// Profile is a user's public profile as returned by the auth service.
type Profile struct {
	Username         string            `json:"username"`
	Email            string            `json:"email"`
	ProfilePicture   string            `json:"profile_picture,omitempty"`
	ActiveAuctions   []ProfileAuction  `json:"active_auctions"`
	PreviousAuctions []FinishedAuction `json:"previous_auctions"`
}

// ProfileAuction is a running listing summarized on a profile page.
type ProfileAuction struct {
	Title      string  `json:"title"`
	CurrentBid float64 `json:"current_bid"`
	TimeLeft   string  `json:"time_left"`
}

// FinishedAuction is a past listing summarized on a profile page.
type FinishedAuction struct {
	Title      string  `json:"title"`
	FinalPrice float64 `json:"final_price"`
	Date       string  `json:"date"`
}
